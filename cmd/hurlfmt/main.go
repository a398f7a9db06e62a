// hurlfmt formats and inspects hurl files: it reads one file
// (or stdin), parses it, and writes out a canonical rendering, an AST
// dump, or a syntax-highlighted HTML fragment, per spec.md §6.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/legzo/hurl/internal/diagnostic"
	"github.com/legzo/hurl/internal/format"
	"github.com/legzo/hurl/internal/parser"
)

const (
	exitSuccess  = 0
	exitArgError = 1
	exitNotCheck = 1
	exitParse    = 2
)

var (
	flagCheck      bool
	flagInPlace    bool
	flagNoFormat   bool
	flagHTML       bool
	flagStandalone bool
	flagAST        bool
	flagColor      bool
	flagNoColor    bool
)

var exitCode = exitSuccess

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitArgError)
	}
	os.Exit(exitCode)
}

var rootCmd = &cobra.Command{
	Use:   "hurlfmt [flags] FILE|-",
	Short: "Format, check or inspect a hurl file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		return run(path)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&flagCheck, "check", false, "exit 1 if the input is not already in canonical form")
	rootCmd.Flags().BoolVar(&flagInPlace, "in-place", false, "rewrite FILE in place instead of printing to stdout")
	rootCmd.Flags().BoolVar(&flagNoFormat, "no-format", false, "parse and validate only, print nothing")
	rootCmd.Flags().BoolVar(&flagHTML, "html", false, "render as a syntax-highlighted HTML fragment")
	rootCmd.Flags().BoolVar(&flagStandalone, "standalone", false, "wrap --html output in a complete HTML document")
	rootCmd.Flags().BoolVar(&flagAST, "ast", false, "print the parsed AST instead of formatted source")
	rootCmd.Flags().BoolVar(&flagColor, "color", false, "force-enable colored diagnostics")
	rootCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "force-disable colored diagnostics")
	rootCmd.MarkFlagsMutuallyExclusive("color", "no-color")
	rootCmd.MarkFlagsMutuallyExclusive("html", "ast")
}

func run(path string) error {
	if flagStandalone {
		flagHTML = true
	}
	if flagInPlace && (path == "-" || flagColor) {
		fmt.Fprintln(os.Stderr, "--in-place is mutually exclusive with stdin input and --color")
		exitCode = exitArgError
		return nil
	}

	var src []byte
	var err error
	if path == "-" {
		src, err = io.ReadAll(os.Stdin)
	} else {
		src, err = os.ReadFile(path)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		exitCode = exitArgError
		return nil
	}

	file, perr := parser.Parse(string(src))
	if perr != nil {
		name := path
		if name == "-" {
			name = "<stdin>"
		}
		if d, ok := diagnostic.FromError(name, string(src), perr); ok {
			fmt.Fprintln(os.Stderr, diagnostic.Format(d, os.Stderr, colorOverride()))
		} else {
			fmt.Fprintln(os.Stderr, perr)
		}
		exitCode = exitParse
		return nil
	}

	if flagNoFormat {
		return nil
	}

	var out string
	switch {
	case flagAST:
		out = format.DumpAST(file)
	case flagHTML:
		out = format.HTML(file, flagStandalone)
	default:
		out = format.Canonical(file)
	}

	if flagCheck {
		if !flagAST && !flagHTML && out != string(src) {
			exitCode = exitNotCheck
			return nil
		}
		return nil
	}

	if flagInPlace {
		if err := os.WriteFile(path, []byte(out), 0644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = exitArgError
		}
		return nil
	}

	fmt.Print(out)
	return nil
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
