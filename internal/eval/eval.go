// Package eval implements the template evaluator (C5): substitution
// of {{var}} expressions using a typed variable map, producing a
// rendered string or a localized error tied to the offending
// expression's SourceInfo. Grounded directly on the original
// implementation's runner/template.rs (see SPEC_FULL.md §6.2).
package eval

import (
	"fmt"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/variables"
)

// ErrorKind tags the TemplateError variant.
type ErrorKind int

const (
	VariableNotDefined ErrorKind = iota
	Unrenderable
)

// Error is a template evaluation failure tied to the exact span of
// the offending `{{ variable }}` expression.
type Error struct {
	Kind       ErrorKind
	Name       string // VariableNotDefined
	Value      string // Unrenderable: the value's debug string
	SourceInfo ast.SourceInfo
}

func (e *Error) Error() string {
	switch e.Kind {
	case VariableNotDefined:
		return fmt.Sprintf("variable %q is not defined", e.Name)
	case Unrenderable:
		return fmt.Sprintf("value %s is not renderable", e.Value)
	default:
		return "template error"
	}
}

// Eval substitutes every {{var}} expression in tmpl using vars,
// concatenating literal runs verbatim. A missing variable produces a
// VariableNotDefined error whose SourceInfo equals the variable
// token's span exactly; a present-but-non-renderable variable (List,
// Object, Bytes, Nodeset, Null, Unit) produces Unrenderable carrying
// the value's debug string.
func Eval(tmpl ast.Template, vars *variables.Variables) (string, error) {
	var out []byte
	for _, el := range tmpl.Elements {
		if !el.IsExpression {
			out = append(out, el.Value...)
			continue
		}
		v, ok := vars.Get(el.Expr.Variable.Name)
		if !ok {
			return "", &Error{
				Kind:       VariableNotDefined,
				Name:       el.Expr.Variable.Name,
				SourceInfo: el.Expr.Variable.SourceInfo,
			}
		}
		if !v.IsRenderable() {
			return "", &Error{
				Kind:       Unrenderable,
				Value:      v.DebugString(),
				SourceInfo: el.Expr.Variable.SourceInfo,
			}
		}
		out = append(out, v.Render()...)
	}
	return string(out), nil
}

// EvalValue renders tmpl and wraps the result as a String Value; it
// is the shape predicate arguments of kind ArgTemplate need once
// rendered.
func EvalValue(tmpl ast.Template, vars *variables.Variables) (ast.Value, error) {
	s, err := Eval(tmpl, vars)
	if err != nil {
		return ast.Value{}, err
	}
	return ast.String(s), nil
}
