package eval

import (
	"strconv"
	"strings"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/variables"
)

// EvalJSON renders a parsed JSONValue (the hurl-file superset of JSON,
// with {{var}} holes inside strings) into canonical JSON text, the way
// the request/response body is actually sent or compared. The output
// is compact (no whitespace between tokens): this produces wire bytes,
// not source text.
func EvalJSON(jv ast.JSONValue, vars *variables.Variables) (string, error) {
	var sb strings.Builder
	if err := writeJSON(&sb, jv, vars); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writeJSON(sb *strings.Builder, jv ast.JSONValue, vars *variables.Variables) error {
	switch jv.Kind {
	case ast.JSONNull:
		sb.WriteString("null")
	case ast.JSONBool:
		if jv.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case ast.JSONNumber:
		sb.WriteString(jv.Number)
	case ast.JSONString:
		s, err := Eval(jv.String, vars)
		if err != nil {
			return err
		}
		sb.WriteString(strconv.Quote(s))
	case ast.JSONList:
		sb.WriteByte('[')
		for i, item := range jv.List {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeJSON(sb, item, vars); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case ast.JSONObject:
		sb.WriteByte('{')
		for i, m := range jv.Object {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(m.Key))
			sb.WriteByte(':')
			if err := writeJSON(sb, m.Value, vars); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	}
	return nil
}
