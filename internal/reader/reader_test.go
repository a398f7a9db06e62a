package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsumeCharTracksLineAndColumn(t *testing.T) {
	r := New("ab\ncd")
	c, ok := r.ConsumeChar()
	assert.True(t, ok)
	assert.Equal(t, byte('a'), c)
	assert.Equal(t, 1, r.Pos().Line)
	assert.Equal(t, 2, r.Pos().Column)

	r.ConsumeChar() // 'b'
	r.ConsumeChar() // '\n'
	assert.Equal(t, 2, r.Pos().Line)
	assert.Equal(t, 1, r.Pos().Column)
}

func TestMarkRestoreIsCheap(t *testing.T) {
	r := New("hello world")
	m := r.Mark()
	r.ConsumeN(6)
	assert.Equal(t, "world", r.Remaining())
	r.Restore(m)
	assert.Equal(t, "hello world", r.Remaining())
	assert.Equal(t, 1, r.Pos().Column)
}

func TestStartsWith(t *testing.T) {
	r := New("status\n")
	assert.True(t, r.StartsWith("status"))
	assert.False(t, r.StartsWith("header"))
}

func TestEofAtEnd(t *testing.T) {
	r := New("ab")
	assert.False(t, r.Eof())
	r.ConsumeN(2)
	assert.True(t, r.Eof())
	_, ok := r.ConsumeChar()
	assert.False(t, ok)
}

func TestSubOffsetsPosition(t *testing.T) {
	outer := New(`cookie "Foo[Domain]"`)
	outer.ConsumeN(8) // consume `cookie "`
	inner := Sub(`Foo[Domain]`, outer.Pos())
	assert.Equal(t, 1, inner.Pos().Line)
	assert.Equal(t, 9, inner.Pos().Column)
}
