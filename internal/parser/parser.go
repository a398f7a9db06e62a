// Package parser implements the hand-written recursive-descent parser
// that turns hurl-file source text into a fully-annotated AST. Every
// production is built from the combinator package (internal/combinator)
// over the reader package (internal/reader), and every node in the
// resulting tree carries a precise source span (internal/ast.SourceInfo).
package parser

import (
	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/combinator"
	"github.com/legzo/hurl/internal/reader"
)

// Error is a parse error tied to a source span, ready for the
// diagnostic formatter (internal/diagnostic) to render as a snippet.
type Error struct {
	SourceInfo ast.SourceInfo
	Message    string
	Fixme      string
}

func (e *Error) Error() string {
	if e.Fixme != "" {
		return e.SourceInfo.Start.String() + ": " + e.Message + " (" + e.Fixme + ")"
	}
	return e.SourceInfo.Start.String() + ": " + e.Message
}

func fromParseError(pe *combinator.ParseError) *Error {
	return &Error{SourceInfo: pe.SourceInfo, Message: pe.Message, Fixme: pe.Fixme}
}

// Parse parses a complete hurl file's source text into a HurlFile.
// The whole input must be consumed; any trailing unparsed content is
// reported as a parse error anchored at the first byte it could not
// make sense of.
func Parse(src string) (ast.HurlFile, error) {
	r := reader.New(src)
	start := r.Pos()

	var entries []ast.Entry
	blankLines(r)
	for !r.Eof() {
		e, err := entry(r)
		if err != nil {
			if pe, ok := err.(*combinator.ParseError); ok {
				return ast.HurlFile{}, fromParseError(pe)
			}
			return ast.HurlFile{}, err
		}
		entries = append(entries, e)
		blankLines(r)
	}

	return ast.HurlFile{Entries: entries, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}

func entry(r *reader.Reader) (ast.Entry, error) {
	start := r.Pos()
	req, err := request(r)
	if err != nil {
		return ast.Entry{}, err
	}

	e := ast.Entry{Request: req}

	blankLines(r)
	if isResponseStart(r) {
		resp, err := response(r)
		if err != nil {
			return ast.Entry{}, err
		}
		e.Response = &resp
	}

	e.SourceInfo = ast.SourceInfo{Start: start, End: r.Pos()}
	return e, nil
}

// ParseQuery parses a single standalone query expression, exported
// for tooling that wants to evaluate an ad-hoc query (e.g. a REPL or
// `hurl --to-entry` debugging aid) without a full hurl file around it.
func ParseQuery(src string) (ast.Query, error) {
	r := reader.New(src)
	q, err := query(r)
	if err != nil {
		if pe, ok := err.(*combinator.ParseError); ok {
			return ast.Query{}, fromParseError(pe)
		}
		return ast.Query{}, err
	}
	return q, nil
}

// ParseTemplate parses a single standalone quoted template.
func ParseTemplate(src string) (ast.Template, error) {
	r := reader.New(src)
	t, err := quotedTemplate(r)
	if err != nil {
		if pe, ok := err.(*combinator.ParseError); ok {
			return ast.Template{}, fromParseError(pe)
		}
		return ast.Template{}, err
	}
	return t, nil
}
