// Package combinator provides the small set of parser combinators the
// grammar parsers are built from. Every combinator preserves or
// restores Reader state on failure, per the "any failing parser
// leaves the Reader at its pre-call position" invariant.
package combinator

import (
	"fmt"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/reader"
)

// ParseError is returned by every grammar parser on failure. Commit
// marks whether the failure happened after the parser had already
// committed to this alternative (consumed at least one character) —
// Choice uses it to decide whether to keep trying other alternatives
// or fail the whole choice immediately.
type ParseError struct {
	SourceInfo ast.SourceInfo
	Message    string
	Fixme      string
	Commit     bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.SourceInfo.Start, e.Message)
}

// NewError builds a ParseError spanning [start, r.Pos()).
func NewError(r *reader.Reader, start ast.Pos, message string) *ParseError {
	return &ParseError{SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}, Message: message}
}

// Parser is any grammar production: it reads from r and returns a
// value of type T or a *ParseError. On error the reader must be
// restored to its call-time Mark by the parser itself (combinators
// below do this for the parsers they compose).
type Parser[T any] func(r *reader.Reader) (T, error)

// TryLiteral succeeds only if the reader's remaining input starts
// with s exactly; on any mismatch it restores the reader and returns
// an error.
func TryLiteral(s string, r *reader.Reader) error {
	start := r.Mark()
	startPos := r.Pos()
	if r.StartsWith(s) {
		r.ConsumeN(len(s))
		return nil
	}
	r.Restore(start)
	return &ParseError{
		SourceInfo: ast.SourceInfo{Start: startPos, End: startPos},
		Message:    fmt.Sprintf("expected %q", s),
	}
}

// Choice tries each alternative in order. If an alternative's parser
// reports Commit (it consumed input before failing), Choice fails
// immediately with that error instead of trying the remaining
// alternatives — this is the grammar's "cut" semantics. Choice
// restores the reader to its pre-call position before returning any
// error, since a failing alternative may have partially consumed
// input without reporting Commit.
func Choice[T any](alts []Parser[T], r *reader.Reader) (T, error) {
	mark := r.Mark()
	var zero T
	var lastErr error
	for _, alt := range alts {
		r.Restore(mark)
		v, err := alt(r)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if pe, ok := err.(*ParseError); ok && pe.Commit {
			r.Restore(mark)
			return zero, pe
		}
	}
	r.Restore(mark)
	return zero, lastErr
}

// Optional runs p; a failure is not an error, it simply yields the
// zero value and ok=false, with the reader restored to its pre-call
// state.
func Optional[T any](p Parser[T], r *reader.Reader) (T, bool) {
	mark := r.Mark()
	v, err := p(r)
	if err != nil {
		r.Restore(mark)
		var zero T
		return zero, false
	}
	return v, true
}

// ZeroOrMore repeats p until it fails, collecting successes. The
// final failed attempt's consumption is always rolled back.
func ZeroOrMore[T any](p Parser[T], r *reader.Reader) []T {
	var out []T
	for {
		mark := r.Mark()
		v, err := p(r)
		if err != nil {
			r.Restore(mark)
			return out
		}
		out = append(out, v)
	}
}

// OneOrMore repeats p like ZeroOrMore but requires at least one
// success; on zero matches it returns the inner parser's error.
func OneOrMore[T any](p Parser[T], r *reader.Reader) ([]T, error) {
	mark := r.Mark()
	first, err := p(r)
	if err != nil {
		r.Restore(mark)
		return nil, err
	}
	out := []T{first}
	out = append(out, ZeroOrMore(p, r)...)
	return out, nil
}

// OneOrMoreSpaces matches `[ \t]+`.
func OneOrMoreSpaces(r *reader.Reader) (ast.Whitespace, error) {
	start := r.Pos()
	startOff := r.Cursor()
	n := 0
	for {
		b, ok := r.PeekByte()
		if !ok || (b != ' ' && b != '\t') {
			break
		}
		r.ConsumeChar()
		n++
	}
	if n == 0 {
		return ast.Whitespace{}, &ParseError{
			SourceInfo: ast.SourceInfo{Start: start, End: start},
			Message:    "expected one or more spaces",
		}
	}
	return ast.Whitespace{Value: r.Buf()[startOff:r.Cursor()], SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}

// ZeroOrMoreSpaces matches `[ \t]*`, always succeeding.
func ZeroOrMoreSpaces(r *reader.Reader) ast.Whitespace {
	start := r.Pos()
	startOff := r.Cursor()
	for {
		b, ok := r.PeekByte()
		if !ok || (b != ' ' && b != '\t') {
			break
		}
		r.ConsumeChar()
	}
	return ast.Whitespace{Value: r.Buf()[startOff:r.Cursor()], SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}
}

// LineTerminator matches "\n" or "\r\n".
func LineTerminator(r *reader.Reader) error {
	start := r.Mark()
	startPos := r.Pos()
	if r.StartsWith("\r\n") {
		r.ConsumeN(2)
		return nil
	}
	if r.StartsWith("\n") {
		r.ConsumeN(1)
		return nil
	}
	r.Restore(start)
	return &ParseError{SourceInfo: ast.SourceInfo{Start: startPos, End: startPos}, Message: "expected a line terminator"}
}
