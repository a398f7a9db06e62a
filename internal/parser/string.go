package parser

import (
	"strconv"
	"strings"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/combinator"
	"github.com/legzo/hurl/internal/reader"
)

// escapeDecode decodes one of the grammar's recognized escape
// sequences (`\" \\ \/ \b \f \n \r \t \uXXXX`) starting right after
// the backslash. It returns the decoded rune, the number of encoded
// bytes consumed (including the backslash), and whether the sequence
// was recognized.
func escapeDecode(s string) (decoded string, encodedLen int, ok bool) {
	if len(s) < 2 || s[0] != '\\' {
		return "", 0, false
	}
	switch s[1] {
	case '"':
		return "\"", 2, true
	case '\\':
		return "\\", 2, true
	case '/':
		return "/", 2, true
	case 'b':
		return "\b", 2, true
	case 'f':
		return "\f", 2, true
	case 'n':
		return "\n", 2, true
	case 'r':
		return "\r", 2, true
	case 't':
		return "\t", 2, true
	case 'u':
		if len(s) < 6 {
			return "", 0, false
		}
		n, err := strconv.ParseUint(s[2:6], 16, 32)
		if err != nil {
			return "", 0, false
		}
		return string(rune(n)), 6, true
	default:
		return "", 0, false
	}
}

// quotedTemplate parses a `"..."` template: an alternation of literal
// runs (decoding escapes, retaining the verbatim encoded form) and
// `{{ ... }}` expressions. Adjacent literal elements are merged.
func quotedTemplate(r *reader.Reader) (ast.Template, error) {
	start := r.Pos()
	mark := r.Mark()
	if err := combinator.TryLiteral(`"`, r); err != nil {
		return ast.Template{}, err
	}
	elements, err := templateElements(r, '"')
	if err != nil {
		r.Restore(mark)
		return ast.Template{}, err
	}
	if err := combinator.TryLiteral(`"`, r); err != nil {
		r.Restore(mark)
		return ast.Template{}, &combinator.ParseError{
			SourceInfo: ast.SourceInfo{Start: r.Pos(), End: r.Pos()},
			Message:    "expected closing \"",
			Fixme:      "add a closing double quote",
			Commit:     true,
		}
	}
	return ast.Template{Quoted: true, Elements: mergeLiterals(elements), SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}

// unquotedTemplate parses a bare (non double-quoted) template that
// runs until one of the given stop bytes, EOF, or a line terminator.
// Used for contexts like the request URL which is not quoted.
func unquotedTemplate(r *reader.Reader, stop func(byte) bool) (ast.Template, error) {
	start := r.Pos()
	var elements []ast.TemplateElement
	for {
		b, ok := r.PeekByte()
		if !ok || b == '\n' || b == '\r' || stop(b) {
			break
		}
		if r.StartsWith("{{") {
			e, err := expression(r)
			if err != nil {
				return ast.Template{}, err
			}
			elements = append(elements, ast.TemplateElement{IsExpression: true, Expr: e})
			continue
		}
		lit, err := literalRun(r, stop, true)
		if err != nil {
			return ast.Template{}, err
		}
		if lit.Value == "" && lit.Encoded == "" {
			break
		}
		elements = append(elements, lit)
	}
	return ast.Template{Quoted: false, Elements: mergeLiterals(elements), SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}

// templateElements parses the interior of a quoted template: literal
// runs (which stop at the closing quote, an escape, or "{{") and
// expressions, until the closing quote byte is reached.
func templateElements(r *reader.Reader, closing byte) ([]ast.TemplateElement, error) {
	var elements []ast.TemplateElement
	for {
		b, ok := r.PeekByte()
		if !ok || b == closing {
			break
		}
		if r.StartsWith("{{") {
			e, err := expression(r)
			if err != nil {
				return nil, err
			}
			elements = append(elements, ast.TemplateElement{IsExpression: true, Expr: e})
			continue
		}
		lit, err := literalRun(r, func(c byte) bool { return c == closing }, false)
		if err != nil {
			return nil, err
		}
		elements = append(elements, lit)
	}
	return elements, nil
}

// literalRun consumes a maximal run of non-expression, non-stop
// characters, decoding escape sequences as it goes and retaining the
// verbatim encoded form. unquoted controls whether "{{" also
// terminates the run when it is not already handled by the caller
// (it always does; the flag exists for clarity at call sites).
func literalRun(r *reader.Reader, stop func(byte) bool, unquoted bool) (ast.TemplateElement, error) {
	var decoded, encoded strings.Builder
	for {
		b, ok := r.PeekByte()
		if !ok || b == '\n' || b == '\r' || stop(b) || r.StartsWith("{{") {
			break
		}
		if b == '\\' {
			rest := r.Remaining()
			dec, n, okEsc := escapeDecode(rest)
			if !okEsc {
				return ast.TemplateElement{}, &combinator.ParseError{
					SourceInfo: ast.SourceInfo{Start: r.Pos(), End: r.Pos()},
					Message:    "invalid escape sequence",
					Fixme:      `valid escapes are \" \\ \/ \b \f \n \r \t \uXXXX`,
				}
			}
			decoded.WriteString(dec)
			encoded.WriteString(rest[:n])
			r.ConsumeN(n)
			continue
		}
		c, _ := r.ConsumeChar()
		decoded.WriteByte(c)
		encoded.WriteByte(c)
	}
	return ast.TemplateElement{Value: decoded.String(), Encoded: encoded.String()}, nil
}

// expression parses one `{{ space0 name space1 }}` hole.
func expression(r *reader.Reader) (ast.Expr, error) {
	start := r.Pos()
	mark := r.Mark()
	if err := combinator.TryLiteral("{{", r); err != nil {
		return ast.Expr{}, err
	}
	space0 := combinator.ZeroOrMoreSpaces(r)
	nameStart := r.Pos()
	name := identRun(r)
	if name == "" {
		r.Restore(mark)
		return ast.Expr{}, &combinator.ParseError{
			SourceInfo: ast.SourceInfo{Start: nameStart, End: nameStart},
			Message:    "expected a variable name",
			Fixme:      "variable names are alphanumeric, possibly with _ . or -",
			Commit:     true,
		}
	}
	variable := ast.Variable{Name: name, SourceInfo: ast.SourceInfo{Start: nameStart, End: r.Pos()}}
	space1 := combinator.ZeroOrMoreSpaces(r)
	if err := combinator.TryLiteral("}}", r); err != nil {
		r.Restore(mark)
		return ast.Expr{}, &combinator.ParseError{
			SourceInfo: ast.SourceInfo{Start: r.Pos(), End: r.Pos()},
			Message:    "expected closing }}",
			Fixme:      "close the variable expression with }}",
			Commit:     true,
		}
	}
	return ast.Expr{Space0: space0, Variable: variable, Space1: space1, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}

// identRun consumes a variable-name-shaped run: letters, digits, '_',
// '-', and '.' (the last to allow dotted paths like response.status
// used nowhere in core hurl but tolerated by the original grammar's
// permissive identifier rule).
func identRun(r *reader.Reader) string {
	start := r.Cursor()
	for {
		b, ok := r.PeekByte()
		if !ok {
			break
		}
		if isIdentByte(b) {
			r.ConsumeChar()
			continue
		}
		break
	}
	return r.Buf()[start:r.Cursor()]
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '-' || b == '.' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// mergeLiterals merges adjacent non-expression elements, per the
// Template invariant.
func mergeLiterals(elements []ast.TemplateElement) []ast.TemplateElement {
	if len(elements) == 0 {
		return elements
	}
	out := make([]ast.TemplateElement, 0, len(elements))
	for _, e := range elements {
		if !e.IsExpression && len(out) > 0 && !out[len(out)-1].IsExpression {
			last := &out[len(out)-1]
			last.Value += e.Value
			last.Encoded += e.Encoded
			continue
		}
		out = append(out, e)
	}
	return out
}

// quotedString parses a `"..."` string, decoding escapes, and returns
// just the decoded value (used for contexts needing a plain Go string
// rather than a Template, e.g. the outer string that is re-parsed as
// a CookiePath).
func quotedString(r *reader.Reader) (string, error) {
	mark := r.Mark()
	if err := combinator.TryLiteral(`"`, r); err != nil {
		return "", err
	}
	var sb strings.Builder
	for {
		b, ok := r.PeekByte()
		if !ok || b == '"' {
			break
		}
		if b == '\\' {
			dec, n, okEsc := escapeDecode(r.Remaining())
			if !okEsc {
				r.Restore(mark)
				return "", &combinator.ParseError{
					SourceInfo: ast.SourceInfo{Start: r.Pos(), End: r.Pos()},
					Message:    "invalid escape sequence",
				}
			}
			sb.WriteString(dec)
			r.ConsumeN(n)
			continue
		}
		if b == '\n' {
			r.Restore(mark)
			return "", &combinator.ParseError{
				SourceInfo: ast.SourceInfo{Start: r.Pos(), End: r.Pos()},
				Message:    "unterminated string",
			}
		}
		c, _ := r.ConsumeChar()
		sb.WriteByte(c)
	}
	if err := combinator.TryLiteral(`"`, r); err != nil {
		r.Restore(mark)
		return "", &combinator.ParseError{
			SourceInfo: ast.SourceInfo{Start: r.Pos(), End: r.Pos()},
			Message:    "expected closing \"",
			Commit:     true,
		}
	}
	return sb.String(), nil
}
