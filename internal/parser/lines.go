package parser

import (
	"github.com/legzo/hurl/internal/combinator"
	"github.com/legzo/hurl/internal/reader"
)

// comment matches `# ... ` to end of line, not consuming the
// terminator itself.
func comment(r *reader.Reader) bool {
	if b, ok := r.PeekByte(); !ok || b != '#' {
		return false
	}
	for {
		b, ok := r.PeekByte()
		if !ok || b == '\n' || b == '\r' {
			return true
		}
		r.ConsumeChar()
	}
}

// endOfLine consumes trailing spaces, an optional comment, and a line
// terminator (or EOF, which is accepted as a final line's end).
func endOfLine(r *reader.Reader) error {
	combinator.ZeroOrMoreSpaces(r)
	comment(r)
	if r.Eof() {
		return nil
	}
	return combinator.LineTerminator(r)
}

// blankLines consumes zero or more lines that contain only optional
// whitespace and an optional comment.
func blankLines(r *reader.Reader) {
	for {
		mark := r.Mark()
		combinator.ZeroOrMoreSpaces(r)
		hadComment := comment(r)
		if r.Eof() {
			if hadComment {
				return
			}
			r.Restore(mark)
			return
		}
		if err := combinator.LineTerminator(r); err != nil {
			r.Restore(mark)
			return
		}
	}
}

// isSectionStart reports whether the reader is positioned at a
// bracketed section header line, e.g. "[Asserts]". A leading "["
// alone is not enough: a JSON array body also starts with "[", so
// this only reports true when the bracketed name is one of the
// known section names: otherwise a "[1,2,3]" body would be swallowed
// as a malformed section header instead of reaching the body parser.
func isSectionStart(r *reader.Reader) bool {
	if !r.StartsWith("[") {
		return false
	}
	mark := r.Mark()
	defer r.Restore(mark)
	name, err := sectionName(r)
	if err != nil {
		return false
	}
	switch name {
	case sectionQueryString, sectionFormParams, sectionMultipart, sectionCookies, sectionCaptures, sectionAsserts:
		return true
	default:
		return false
	}
}

func isEntryBoundary(r *reader.Reader) bool {
	if r.Eof() {
		return true
	}
	// A new entry starts with a bare HTTP method keyword at the
	// beginning of a line; section bodies never contain a line that
	// starts with one of these keywords followed by whitespace, so
	// this lookahead is unambiguous within the grammar.
	mark := r.Mark()
	defer r.Restore(mark)
	_, err := methodKeyword(r)
	return err == nil
}
