// Package runner implements C7: evaluating a query against an executed
// response, applying a predicate, and producing pass/fail diagnostics
// tied to the offending query's source span. Grounded on check.go's
// Check interface (a check either passes or returns an error) and on
// rocketship-ai-rocketship's gojq.Parse/Run usage for jsonpath.
package runner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/itchyny/gojq"
)

// jsonpathToJQ rewrites the subset of JSONPath the grammar's
// `jsonpath "..."` queries use into a gojq program string: a leading
// `$` is dropped, `.foo` / `['foo']` become gojq's `.foo`, and `[0]` /
// `[*]` become `[0]` / `[]` after a preceding step, or `.[0]` / `.[]`
// at the root (SPEC_FULL.md §6.3).
func jsonpathToJQ(expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	expr = strings.TrimPrefix(expr, "$")
	if expr == "" {
		return ".", nil
	}

	var sb strings.Builder
	i := 0
	for i < len(expr) {
		switch expr[i] {
		case '.':
			sb.WriteByte('.')
			i++
		case '[':
			end := strings.IndexByte(expr[i:], ']')
			if end < 0 {
				return "", fmt.Errorf("unterminated [ in jsonpath %q", expr)
			}
			inner := expr[i+1 : i+end]
			i += end + 1
			inner = strings.TrimSpace(inner)
			atRoot := sb.Len() == 0
			switch {
			case inner == "*":
				if atRoot {
					sb.WriteByte('.')
				}
				sb.WriteString("[]")
			case strings.HasPrefix(inner, "'") && strings.HasSuffix(inner, "'") && len(inner) >= 2:
				sb.WriteByte('.')
				sb.WriteString(inner[1 : len(inner)-1])
			case strings.HasPrefix(inner, `"`) && strings.HasSuffix(inner, `"`) && len(inner) >= 2:
				sb.WriteByte('.')
				sb.WriteString(inner[1 : len(inner)-1])
			default:
				if _, err := strconv.Atoi(inner); err != nil {
					return "", fmt.Errorf("unsupported jsonpath index %q", inner)
				}
				sb.WriteByte('[')
				sb.WriteString(inner)
				sb.WriteByte(']')
			}
		default:
			start := i
			for i < len(expr) && expr[i] != '.' && expr[i] != '[' {
				i++
			}
			sb.WriteString(expr[start:i])
		}
	}
	return sb.String(), nil
}

// evalJSONPath parses doc as JSON and runs expr (translated to a gojq
// program) against it, returning the first result. No results yields
// NoQueryResult; a malformed document or expression yields InvalidJson.
func evalJSONPath(expr string, doc interface{}) (interface{}, error) {
	program, err := jsonpathToJQ(expr)
	if err != nil {
		return nil, &QueryError{Kind: InvalidJSON, Message: err.Error()}
	}
	query, err := gojq.Parse(program)
	if err != nil {
		return nil, &QueryError{Kind: InvalidJSON, Message: fmt.Sprintf("compile %q: %v", program, err)}
	}

	iter := query.Run(doc)
	v, ok := iter.Next()
	if !ok {
		return nil, &QueryError{Kind: NoQueryResult, Message: fmt.Sprintf("no results for jsonpath %q", expr)}
	}
	if err, ok := v.(error); ok {
		return nil, &QueryError{Kind: InvalidJSON, Message: err.Error()}
	}
	return v, nil
}
