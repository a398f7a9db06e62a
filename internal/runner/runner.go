// Package runner implements the per-entry state machine
// (BuildRequest -> Send -> ReceiveResponse -> [RunCaptures ->
// RunAsserts] -> Done|Failed), atomically committing captured
// variables at entry boundaries so a capture failure never poisons
// later entries with a partial binding set. Grounded on ht.go's
// Test.Run / TestResult vocabulary (report.go's Status enum,
// NotRun/Pass/Fail/Error/Bogus).
package runner

import (
	"time"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/httpclient"
	"github.com/legzo/hurl/internal/variables"
)

// Status mirrors the teacher's Test-run status vocabulary, narrowed to
// the outcomes an entry run can actually reach.
type Status int

const (
	NotRun Status = iota
	Pass
	Fail
	Error
)

func (s Status) String() string {
	switch s {
	case NotRun:
		return "NotRun"
	case Pass:
		return "Pass"
	case Fail:
		return "Fail"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// AssertResult records one evaluated [Asserts] line.
type AssertResult struct {
	Status   Status
	Error    error
	Duration time.Duration
}

// CaptureResult records one evaluated [Captures] line.
type CaptureResult struct {
	Name   string
	Value  ast.Value
	Status Status
	Error  error
}

// EntryResult is the outcome of running a single request/response
// entry.
type EntryResult struct {
	Status       Status
	Error        error // transport, template or capture error, or the first failed assert's error; nil on Pass
	Response     *httpclient.Response
	RedirectsHop int
	Duration     time.Duration
	Captures     []CaptureResult
	Asserts      []AssertResult
}

// RunEntry executes one ast.Entry against client, rendering its
// request from vars and, on a response section, running captures then
// asserts. Captures are computed against a clone of vars so a failing
// assert never partially commits captures from a later, unreached
// step; the clone is committed back into vars only once the capture
// phase as a whole succeeds.
//
// externalRedirectCount is the number of redirects already charged
// against client.MaxRedirect by earlier entries in the same file (0
// for the first entry); RunEntry's EntryResult.RedirectsHop reports
// the new cumulative count, which RunFile threads into the next
// entry so a multi-entry chain enforces one global redirect cap
// rather than resetting it per entry.
func RunEntry(entry ast.Entry, client *httpclient.Client, vars *variables.Variables, externalRedirectCount int) EntryResult {
	start := time.Now()
	result := EntryResult{Status: NotRun}

	resp, redirects, err := client.Execute(&entry.Request, vars, externalRedirectCount)
	result.RedirectsHop = redirects
	if err != nil {
		result.Status = Error
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}
	result.Response = resp

	if entry.Response == nil {
		result.Status = Pass
		result.Duration = time.Since(start)
		return result
	}

	working := vars.Clone()
	captureFailed := false
	for _, cap := range entry.Response.Captures {
		cr := CaptureResult{Name: cap.Name, Status: Pass}
		if err := RunCapture(cap, resp, working); err != nil {
			cr.Status = Error
			cr.Error = err
			captureFailed = true
		} else {
			cr.Value, _ = working.Get(cap.Name)
		}
		result.Captures = append(result.Captures, cr)
		if captureFailed {
			break
		}
	}

	if captureFailed {
		result.Status = Error
		result.Error = result.Captures[len(result.Captures)-1].Error
		result.Duration = time.Since(start)
		return result
	}
	*vars = *working

	allPassed := true
	for _, assert := range entry.Response.Asserts {
		ar := AssertResult{Status: Pass}
		assertStart := time.Now()
		if err := runAssert(assert, resp, vars); err != nil {
			ar.Status = Fail
			ar.Error = err
			allPassed = false
		}
		ar.Duration = time.Since(assertStart)
		result.Asserts = append(result.Asserts, ar)
	}

	if allPassed {
		result.Status = Pass
	} else {
		result.Status = Fail
		result.Error = firstAssertError(result.Asserts)
	}
	result.Duration = time.Since(start)
	return result
}

func runAssert(assert ast.Assert, resp *httpclient.Response, vars *variables.Variables) error {
	actual, err := EvalQuery(assert.Query, resp, vars)
	if err != nil {
		return &AssertError{SourceInfo: assert.Query.SourceInfo, Message: err.Error()}
	}
	return EvalPredicate(assert.Predicate, actual, vars, assert.Query.SourceInfo)
}

func firstAssertError(results []AssertResult) error {
	for _, r := range results {
		if r.Error != nil {
			return r.Error
		}
	}
	return nil
}

// FileResult is the outcome of running every entry of a parsed file in
// order. With StopOnFailure the run stops at the first entry whose
// status is not Pass; without it, only an entry with status Error
// stops the run.
type FileResult struct {
	Status  Status
	Entries []EntryResult
}

// RunOptions configures a file run; ToEntry truncates execution to the
// first N entries (the CLI's `--to-entry`), 0 meaning "all".
type RunOptions struct {
	ToEntry       int
	StopOnFailure bool
}

// RunFile executes every entry of file in order against client and
// vars, per spec.md §5's single-threaded, entry-sequential model.
func RunFile(file ast.HurlFile, client *httpclient.Client, vars *variables.Variables, opts RunOptions) FileResult {
	fr := FileResult{Status: Pass}
	limit := len(file.Entries)
	if opts.ToEntry > 0 && opts.ToEntry < limit {
		limit = opts.ToEntry
	}

	redirectCount := 0
	for i := 0; i < limit; i++ {
		er := RunEntry(file.Entries[i], client, vars, redirectCount)
		redirectCount = er.RedirectsHop
		fr.Entries = append(fr.Entries, er)
		if er.Status != Pass {
			fr.Status = er.Status
			if opts.StopOnFailure || er.Status == Error {
				break
			}
		}
	}
	return fr
}
