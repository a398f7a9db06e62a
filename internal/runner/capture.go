package runner

import (
	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/eval"
	"github.com/legzo/hurl/internal/httpclient"
	"github.com/legzo/hurl/internal/variables"
)

// RunCapture evaluates cap's query (and optional subquery) against
// resp and binds the result under cap.Name in vars. Re-binding a name
// overwrites the previous value, per spec.md §4.6.
func RunCapture(cap ast.Capture, resp *httpclient.Response, vars *variables.Variables) error {
	val, err := EvalQuery(cap.Query, resp, vars)
	if err != nil {
		return err
	}
	if cap.Subquery != nil {
		val, err = applySubquery(*cap.Subquery, val, vars)
		if err != nil {
			return err
		}
	}
	vars.Set(cap.Name, val)
	return nil
}

// applySubquery applies a secondary extraction to a query result
// before capture; currently only `regex "..."` is defined by the
// grammar.
func applySubquery(sq ast.Subquery, val ast.Value, vars *variables.Variables) (ast.Value, error) {
	switch sq.Kind {
	case ast.SubqueryRegex:
		text := actualString(val)
		pattern, err := eval.Eval(sq.RegexExpr, vars)
		if err != nil {
			return ast.Value{}, err
		}
		return evalRegexOnText(pattern, text)
	default:
		return val, nil
	}
}
