// hurl runs hurl files: it parses each FILE, renders and executes its
// entries against a real HTTP transport, evaluates captures and
// asserts, and reports pass/fail per spec.md §6's CLI surface.
package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/legzo/hurl/internal/diagnostic"
	"github.com/legzo/hurl/internal/eval"
	"github.com/legzo/hurl/internal/httpclient"
	"github.com/legzo/hurl/internal/parser"
	"github.com/legzo/hurl/internal/runner"
	"github.com/legzo/hurl/internal/variables"
)

// Exit codes, per spec.md §6.
const (
	exitSuccess   = 0
	exitArgError  = 1
	exitParse     = 2
	exitAssert    = 3
	exitHTTPError = 4
)

var (
	flagVariables     []string
	flagVariablesFile string
	flagCookieFile    string
	flagCookieJar     string
	flagProxy         string
	flagLocation      bool
	flagMaxRedirects  int
	flagToEntry       int
	flagColor         bool
	flagNoColor       bool
	flagVerbose       bool
	flagJSON          bool
	flagOutput        string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitArgError)
	}
	os.Exit(exitCode)
}

// exitCode is set by rootCmd's RunE once a run has produced a result,
// since cobra's Execute only distinguishes "error" from "no error".
var exitCode = exitSuccess

var rootCmd = &cobra.Command{
	Use:   "hurl [flags] FILE...",
	Short: "Run hurl files and report pass/fail",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFiles(args)
	},
}

func init() {
	rootCmd.Flags().StringArrayVar(&flagVariables, "variable", nil, "set a variable NAME=VALUE (repeatable)")
	rootCmd.Flags().StringVar(&flagVariablesFile, "variables-file", "", "load variables from FILE")
	rootCmd.Flags().StringVar(&flagCookieFile, "cookie", "", "load cookies from a Netscape-format FILE")
	rootCmd.Flags().StringVar(&flagCookieJar, "cookie-jar", "", "save cookies to a Netscape-format FILE after the run")
	rootCmd.Flags().StringVar(&flagProxy, "proxy", "", "proxy as HOST:PORT")
	rootCmd.Flags().BoolVar(&flagLocation, "location", false, "follow Location headers on redirect responses")
	rootCmd.Flags().IntVar(&flagMaxRedirects, "max-redirects", -1, "maximum redirects to follow (-1: use the client default)")
	rootCmd.Flags().IntVar(&flagToEntry, "to-entry", 0, "execute only the first N entries of each file (0: all)")
	rootCmd.Flags().BoolVar(&flagColor, "color", false, "force-enable colored diagnostics")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "force-disable colored diagnostics")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "echo outgoing requests as curl command lines and print a duration sparkline per file")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "emit a machine-readable JSON report instead of text")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "write the report to FILE instead of stdout")
	rootCmd.MarkFlagsMutuallyExclusive("color", "no-color")
}

func runFiles(paths []string) error {
	if flagVerbose {
		charmlog.SetLevel(charmlog.DebugLevel)
	}

	vars := variables.New()
	if flagVariablesFile != "" {
		if err := variables.LoadFile(vars, flagVariablesFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = exitArgError
			return nil
		}
	}
	for _, raw := range flagVariables {
		name, val, err := variables.ParseCLIAssignment(raw)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = exitArgError
			return nil
		}
		vars.Set(name, val)
	}

	client, err := httpclient.NewClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = exitArgError
		return nil
	}
	client.FollowLocation = flagLocation
	if flagMaxRedirects >= 0 {
		client.MaxRedirect = flagMaxRedirects
	}
	if flagProxy != "" {
		proxyURL := flagProxy
		if !strings.Contains(proxyURL, "://") {
			proxyURL = "http://" + proxyURL
		}
		u, err := url.Parse(proxyURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --proxy %q: %v\n", flagProxy, err)
			exitCode = exitArgError
			return nil
		}
		client.ProxyURL = u
	}
	if flagCookieFile != "" {
		if err := httpclient.LoadCookieFile(client.Jar, flagCookieFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = exitArgError
			return nil
		}
	}
	if flagVerbose {
		client.VerboseWriter = os.Stderr
	}
	client.ApplyTransport()

	out := os.Stdout
	if flagOutput != "" {
		f, err := os.Create(flagOutput)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = exitArgError
			return nil
		}
		defer f.Close()
		out = f
	}

	runID := uuid.NewString()
	report := jsonReport{RunID: runID}
	var visited []*url.URL
	var durationHists []entryDurations
	worstExit := exitSuccess

	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			worstExit = maxExit(worstExit, exitArgError)
			continue
		}

		file, perr := parser.Parse(string(src))
		if perr != nil {
			printDiagnostic(path, string(src), perr)
			worstExit = maxExit(worstExit, exitParse)
			continue
		}

		charmlog.Debug("running file", "path", path, "entries", len(file.Entries))
		fr := runner.RunFile(file, client, vars, runner.RunOptions{ToEntry: flagToEntry, StopOnFailure: true})
		for _, e := range file.Entries {
			if u, err := eval.Eval(e.Request.URL, vars); err == nil {
				if parsed, err := url.Parse(u); err == nil {
					visited = append(visited, parsed)
				}
			}
		}

		if flagJSON {
			report.Files = append(report.Files, fileReport(path, fr))
		} else {
			printTextReport(out, path, src, fr)
		}
		if flagVerbose {
			durationHists = append(durationHists, collectEntryDurations(path, fr))
		}
		worstExit = maxExit(worstExit, exitForStatus(fr))
	}

	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.Encode(report)
	} else if flagVerbose && len(durationHists) > 0 {
		printEntryDurationSparklines(os.Stderr, durationHists)
	}

	if flagCookieJar != "" {
		if err := httpclient.SaveCookieFile(client.Jar, visited, flagCookieJar); err != nil {
			fmt.Fprintln(os.Stderr, err)
			worstExit = maxExit(worstExit, exitArgError)
		}
	}

	exitCode = worstExit
	return nil
}

func maxExit(a, b int) int {
	if b > a {
		return b
	}
	return a
}

// exitForStatus maps a file's run outcome onto the spec's exit-code
// taxonomy: a transport failure (*httpclient.Error) is an HTTP error,
// any other non-pass outcome is an assert/runner failure.
func exitForStatus(fr runner.FileResult) int {
	if fr.Status == runner.Pass {
		return exitSuccess
	}
	for _, e := range fr.Entries {
		if e.Status == runner.Error {
			if _, ok := e.Error.(*httpclient.Error); ok {
				return exitHTTPError
			}
		}
	}
	return exitAssert
}

func printDiagnostic(filename, src string, err error) {
	if d, ok := diagnostic.FromError(filename, src, err); ok {
		color := colorOverride()
		fmt.Fprintln(os.Stderr, diagnostic.Format(d, os.Stderr, color))
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", filename, err)
}

func colorOverride() *bool {
	if flagColor {
		t := true
		return &t
	}
	if flagNoColor {
		f := false
		return &f
	}
	return nil
}

func printTextReport(w *os.File, path string, src []byte, fr runner.FileResult) {
	fmt.Fprintf(w, "%s: %s\n", path, fr.Status)
	for i, e := range fr.Entries {
		switch e.Status {
		case runner.Pass:
			fmt.Fprintf(w, "  entry %d: Pass\n", i+1)
		case runner.Fail:
			fmt.Fprintf(w, "  entry %d: Fail\n", i+1)
			if e.Error != nil {
				if d, ok := diagnostic.FromError(path, string(src), e.Error); ok {
					fmt.Fprintln(w, diagnostic.Format(d, w, colorOverride()))
				} else {
					fmt.Fprintf(w, "    %s\n", e.Error)
				}
			}
		case runner.Error:
			fmt.Fprintf(w, "  entry %d: Error: %s\n", i+1, e.Error)
		}
	}
}

type jsonReport struct {
	RunID string           `json:"run_id"`
	Files []FileReportJSON `json:"files"`
}

type FileReportJSON struct {
	Filename string            `json:"filename"`
	Status   string            `json:"status"`
	Entries  []EntryReportJSON `json:"entries"`
}

type EntryReportJSON struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

func fileReport(path string, fr runner.FileResult) FileReportJSON {
	out := FileReportJSON{Filename: path, Status: fr.Status.String()}
	for _, e := range fr.Entries {
		er := EntryReportJSON{Status: e.Status.String(), Duration: e.Duration.String()}
		if e.Error != nil {
			er.Error = e.Error.Error()
		}
		out.Entries = append(out.Entries, er)
	}
	return out
}
