package runner

import (
	"fmt"

	"github.com/legzo/hurl/internal/ast"
)

// QueryErrorKind enumerates the ways evaluating a query against a
// response can fail short of an outright transport error.
type QueryErrorKind int

const (
	InvalidXML QueryErrorKind = iota
	InvalidJSON
	InvalidRegex
	NoQueryResult
)

// QueryError is a C7 query-evaluation failure (spec.md §7).
type QueryError struct {
	Kind    QueryErrorKind
	Message string
}

func (e *QueryError) Error() string {
	switch e.Kind {
	case InvalidXML:
		return "invalid XML: " + e.Message
	case InvalidJSON:
		return "invalid JSON: " + e.Message
	case InvalidRegex:
		return "invalid regex: " + e.Message
	case NoQueryResult:
		return "no query result: " + e.Message
	default:
		return e.Message
	}
}

// AssertError is a failed predicate, carrying the query's span and a
// rendered "expected X, got Y" message (spec.md §4.6 step 3).
type AssertError struct {
	SourceInfo ast.SourceInfo
	Message    string
}

func (e *AssertError) Error() string { return e.Message }

func assertErrorf(si ast.SourceInfo, format string, args ...interface{}) *AssertError {
	return &AssertError{SourceInfo: si, Message: fmt.Sprintf(format, args...)}
}
