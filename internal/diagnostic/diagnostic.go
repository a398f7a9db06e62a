// Package diagnostic implements C8: rendering a source-span error as
// a human-readable snippet with a caret underline, an optional fixme
// hint, and optional ANSI coloring. Grounded on report.go's
// ansi.ColorFunc usage for coloring and dekarrin-morc's rosed-based
// terminal wrapping for the hint line.
package diagnostic

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/mgutz/ansi"
	"golang.org/x/term"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/eval"
	"github.com/legzo/hurl/internal/parser"
	"github.com/legzo/hurl/internal/runner"
)

// Diagnostic is anything that can be rendered as a snippet: a span
// into the original source, a one-line message, and an optional
// follow-up hint.
type Diagnostic struct {
	Filename   string
	Source     string
	SourceInfo ast.SourceInfo
	Message    string
	Fixme      string
}

// Format renders d as a multi-line snippet: a "file:line:col: message"
// header, the offending source line, a caret underline beneath the
// span's start column, and the fixme hint (wrapped to the terminal
// width) if present. color forces ANSI coloring on or off regardless
// of TTY detection; pass nil to auto-detect from w.
func Format(d Diagnostic, w *os.File, color *bool) string {
	useColor := false
	if color != nil {
		useColor = *color
	} else {
		useColor = term.IsTerminal(int(w.Fd()))
	}

	errColor := identityColor
	if useColor {
		errColor = ansi.ColorFunc("red+b")
	}

	lines := strings.Split(d.Source, "\n")
	lineIdx := d.SourceInfo.Start.Line - 1
	var snippet string
	if lineIdx >= 0 && lineIdx < len(lines) {
		snippet = lines[lineIdx]
	}

	col := d.SourceInfo.Start.Column
	caretPad := ""
	if col > 1 {
		caretPad = strings.Repeat(" ", col-1)
	}
	caretWidth := d.SourceInfo.End.Column - d.SourceInfo.Start.Column
	if d.SourceInfo.End.Line != d.SourceInfo.Start.Line || caretWidth < 1 {
		caretWidth = 1
	}
	caret := strings.Repeat("^", caretWidth)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d:%d: %s\n", d.Filename, d.SourceInfo.Start.Line, d.SourceInfo.Start.Column, errColor(d.Message))
	fmt.Fprintf(&sb, "%s\n", snippet)
	fmt.Fprintf(&sb, "%s%s\n", caretPad, errColor(caret))

	if d.Fixme != "" {
		hint := wrapHint(d.Fixme)
		fmt.Fprintf(&sb, "%s\n", hint)
	}
	return sb.String()
}

// FromError converts a source-span-bearing error into a Diagnostic
// ready for Format. It recognizes parser.Error, eval.Error, and
// runner.AssertError (the three error types that carry an
// ast.SourceInfo); for anything else ok is false and the caller
// should fall back to printing err.Error() plainly.
func FromError(filename, source string, err error) (Diagnostic, bool) {
	switch e := err.(type) {
	case *parser.Error:
		return Diagnostic{Filename: filename, Source: source, SourceInfo: e.SourceInfo, Message: e.Message, Fixme: e.Fixme}, true
	case *eval.Error:
		return Diagnostic{Filename: filename, Source: source, SourceInfo: e.SourceInfo, Message: e.Error()}, true
	case *runner.AssertError:
		return Diagnostic{Filename: filename, Source: source, SourceInfo: e.SourceInfo, Message: e.Message}, true
	default:
		return Diagnostic{}, false
	}
}

func identityColor(s string) string { return s }

// wrapHint wraps a fixme hint to the detected terminal width (falling
// back to 80 columns), the way dekarrin-morc wraps its CLI help text.
func wrapHint(hint string) string {
	width := terminalWidth()
	return rosed.
		Edit(hint).
		WrapOpts(width, rosed.Options{PreserveParagraphs: true}).
		String()
}

func terminalWidth() int {
	const defaultWidth = 80
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
