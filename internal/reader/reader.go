// Package reader implements the character stream the hurl-file parser
// reads from: byte-offset and line/column tracking with O(1)
// snapshot/restore, so combinators can backtrack cheaply on failure.
package reader

import "github.com/legzo/hurl/internal/ast"

// Reader is a value type over an immutable source buffer. Copying a
// Reader (or taking a Mark) is a cheap snapshot of its cursor state;
// the underlying buffer is never mutated or copied.
type Reader struct {
	buf    string
	cursor int
	pos    ast.Pos
}

// New creates a Reader positioned at the start of src.
func New(src string) *Reader {
	return &Reader{buf: src, cursor: 0, pos: ast.Pos{Line: 1, Column: 1}}
}

// Mark is an opaque snapshot of a Reader's position.
type Mark struct {
	cursor int
	pos    ast.Pos
}

// Mark snapshots the current position for later Restore.
func (r *Reader) Mark() Mark {
	return Mark{cursor: r.cursor, pos: r.pos}
}

// Restore resets the reader to a previously taken Mark. O(1).
func (r *Reader) Restore(m Mark) {
	r.cursor = m.cursor
	r.pos = m.pos
}

// Pos returns the reader's current position.
func (r *Reader) Pos() ast.Pos { return r.pos }

// Cursor returns the reader's current byte offset.
func (r *Reader) Cursor() int { return r.cursor }

// Eof reports whether the reader has consumed the whole buffer.
func (r *Reader) Eof() bool { return r.cursor >= len(r.buf) }

// Remaining returns the unconsumed tail of the buffer.
func (r *Reader) Remaining() string { return r.buf[r.cursor:] }

// Peek returns the next n bytes without consuming them. It may return
// fewer than n bytes at end of input.
func (r *Reader) Peek(n int) string {
	end := r.cursor + n
	if end > len(r.buf) {
		end = len(r.buf)
	}
	return r.buf[r.cursor:end]
}

// PeekByte returns the byte at the cursor and whether one was
// available.
func (r *Reader) PeekByte() (byte, bool) {
	if r.Eof() {
		return 0, false
	}
	return r.buf[r.cursor], true
}

// ConsumeChar advances the cursor by one byte, updating line/column
// tracking (a newline resets the column and bumps the line). It is a
// no-op at end of input.
func (r *Reader) ConsumeChar() (byte, bool) {
	if r.Eof() {
		return 0, false
	}
	c := r.buf[r.cursor]
	r.cursor++
	if c == '\n' {
		r.pos.Line++
		r.pos.Column = 1
	} else {
		r.pos.Column++
	}
	return c, true
}

// ConsumeN advances the cursor by n bytes, equivalent to calling
// ConsumeChar n times. It stops early at end of input.
func (r *Reader) ConsumeN(n int) {
	for i := 0; i < n; i++ {
		if _, ok := r.ConsumeChar(); !ok {
			return
		}
	}
}

// StartsWith reports whether the unconsumed input begins with s,
// without consuming anything.
func (r *Reader) StartsWith(s string) bool {
	return len(r.Remaining()) >= len(s) && r.Remaining()[:len(s)] == s
}

// Buf exposes the whole source buffer, used by parsers to slice out
// the text they have just consumed.
func (r *Reader) Buf() string { return r.buf }

// Sub creates an independent Reader over text, with its initial
// position offset so nested diagnostics (e.g. a re-parsed cookie path
// inside a quoted string) project back onto the outer source. This is
// the sub_parse(outer_pos, inner_text, p) helper the grammar's
// cookie-path production needs: the inner reader must start one
// column past the outer reader's current position (skipping the
// opening quote) so spans inside the nested grammar land on the
// correct outer column.
func Sub(text string, startPos ast.Pos) *Reader {
	return &Reader{buf: text, cursor: 0, pos: startPos}
}
