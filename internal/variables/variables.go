// Package variables implements the runtime variable map: a mapping of
// String to ast.Value, seeded from CLI/env/file input, extended by
// each successful capture. Ownership is single-writer: the runner
// commits captures atomically at entry boundaries so a partially-run
// assertion phase never observes a partial capture set (spec.md §9).
package variables

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/legzo/hurl/internal/ast"
)

// Variables is the run-scoped String -> Value map. It is not safe for
// concurrent use; per spec.md §5 it is mutated only between entries.
type Variables struct {
	values map[string]ast.Value
	order  []string
}

// New creates an empty Variables map.
func New() *Variables {
	return &Variables{values: make(map[string]ast.Value)}
}

// Get looks up name, returning ok=false if it is not bound.
func (v *Variables) Get(name string) (ast.Value, bool) {
	val, ok := v.values[name]
	return val, ok
}

// Set binds name to val, overwriting any previous binding
// (last-write-wins, per the spec's resolution of the "captured twice"
// open question).
func (v *Variables) Set(name string, val ast.Value) {
	if _, exists := v.values[name]; !exists {
		v.order = append(v.order, name)
	}
	v.values[name] = val
}

// Names returns the bound variable names in first-bound order.
func (v *Variables) Names() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Clone returns an independent copy, used to snapshot the map before
// an entry's capture phase so a capture failure can be discarded
// without poisoning variables visible to later entries.
func (v *Variables) Clone() *Variables {
	c := New()
	for _, name := range v.order {
		c.Set(name, v.values[name])
	}
	return c
}

// ParseCLIAssignment parses a `--variable NAME=VALUE` argument (also
// used for each --variables-file line). The value is typed by coerce:
// a bool, integer or float when it looks like one, else a String.
func ParseCLIAssignment(s string) (name string, val ast.Value, err error) {
	idx := strings.IndexByte(s, '=')
	if idx < 0 {
		return "", ast.Value{}, fmt.Errorf("malformed --variable %q: expected NAME=VALUE", s)
	}
	name = s[:idx]
	if name == "" {
		return "", ast.Value{}, fmt.Errorf("malformed --variable %q: empty name", s)
	}
	return name, coerce(s[idx+1:]), nil
}

// coerce interprets a raw CLI/file value as the most specific
// renderable Value it looks like: bool, integer, float, else string.
// This mirrors --variables-file's documented typed values (e.g.
// `count=3` binds an Integer, not the string "3") without requiring a
// separate type annotation syntax.
func coerce(raw string) ast.Value {
	if raw == "true" {
		return ast.Bool(true)
	}
	if raw == "false" {
		return ast.Bool(false)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return ast.Integer(n)
	}
	if dotIdx := strings.IndexByte(raw, '.'); dotIdx >= 0 && dotIdx < len(raw)-1 {
		intPart := raw[:dotIdx]
		frac := raw[dotIdx+1:]
		if isAllDigits(intPart) && isAllDigits(frac) {
			n, err := strconv.ParseInt(intPart, 10, 64)
			if err == nil {
				return ast.Float(n, frac)
			}
		}
	}
	return ast.String(raw)
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// LoadFile seeds v from a `--variables-file`: one NAME=VALUE
// assignment per line, blank lines and `#`-comments ignored.
func LoadFile(v *Variables, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read variables file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, val, err := ParseCLIAssignment(line)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		v.Set(name, val)
	}
	return scanner.Err()
}
