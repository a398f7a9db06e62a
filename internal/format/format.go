// Package format implements hurlfmt's canonical text rendering: a
// deterministic serialization of an ast.HurlFile back to hurl-file
// source, used for hurlfmt's default formatting and its `--check`
// idempotency test. Spec.md §1 marks pretty-printers as an external,
// unspecified collaborator; this package picks one concrete canonical
// form (section lines unindented, one blank line between entries)
// and holds to it consistently, which is all `--check`
// requires. JSON literals render in a fixed compact spacing rather
// than echoing the input's original interior whitespace exactly —
// Canonical's idempotency (format(format(x)) == format(x)) still
// holds, since every JSON value reaches the same compact form on
// every pass.
package format

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/legzo/hurl/internal/ast"
)

// Canonical renders file back to hurl-file source text.
func Canonical(file ast.HurlFile) string {
	var sb strings.Builder
	for i, e := range file.Entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeEntry(&sb, e)
	}
	return sb.String()
}

func writeEntry(sb *strings.Builder, e ast.Entry) {
	fmt.Fprintf(sb, "%s %s\n", e.Request.Method, renderTemplate(e.Request.URL))
	for _, h := range e.Request.Headers {
		fmt.Fprintf(sb, "%s: %s\n", renderTemplate(h.Name), renderTemplate(h.Value))
	}
	writeKVSection(sb, "QueryStringParams", e.Request.QueryStringParams)
	writeKVSection(sb, "FormParams", e.Request.FormParams)
	writeKVSection(sb, "Cookies", e.Request.Cookies)
	if e.Request.HasMultipart {
		sb.WriteString("[MultipartFormData]\n")
		for _, p := range e.Request.MultipartData {
			if p.IsFile {
				fmt.Fprintf(sb, "%s: file,%s", renderTemplate(p.Name), renderTemplate(p.FileName))
				if len(p.ContentType.Elements) > 0 {
					fmt.Fprintf(sb, ";%s", renderTemplate(p.ContentType))
				}
				sb.WriteString("\n")
			} else {
				fmt.Fprintf(sb, "%s: %s\n", renderTemplate(p.Name), renderTemplate(p.Value))
			}
		}
	}
	if e.Request.Body != nil {
		writeBody(sb, *e.Request.Body)
	}

	if e.Response == nil {
		return
	}
	r := e.Response
	version := r.Version
	if version == "" {
		version = "HTTP/1.1"
	}
	status := "*"
	if !r.Status.Wildcard {
		status = strconv.Itoa(r.Status.Code)
	}
	fmt.Fprintf(sb, "%s %s\n", version, status)
	for _, h := range r.Headers {
		fmt.Fprintf(sb, "%s: %s\n", renderTemplate(h.Name), renderTemplate(h.Value))
	}
	if len(r.Captures) > 0 {
		sb.WriteString("[Captures]\n")
		for _, c := range r.Captures {
			fmt.Fprintf(sb, "%s: %s", c.Name, renderQuery(c.Query))
			if c.Subquery != nil {
				fmt.Fprintf(sb, " regex %s", renderTemplate(c.Subquery.RegexExpr))
			}
			sb.WriteString("\n")
		}
	}
	if len(r.Asserts) > 0 {
		sb.WriteString("[Asserts]\n")
		for _, a := range r.Asserts {
			fmt.Fprintf(sb, "%s %s\n", renderQuery(a.Query), renderPredicate(a.Predicate))
		}
	}
	if r.Body != nil {
		writeBody(sb, *r.Body)
	}
}

func writeKVSection(sb *strings.Builder, name string, kvs []ast.KeyValue) {
	if len(kvs) == 0 {
		return
	}
	fmt.Fprintf(sb, "[%s]\n", name)
	for _, kv := range kvs {
		fmt.Fprintf(sb, "%s: %s\n", renderTemplate(kv.Name), renderTemplate(kv.Value))
	}
}

func writeBody(sb *strings.Builder, b ast.Body) {
	switch b.Kind {
	case ast.BodyRaw:
		fmt.Fprintf(sb, "%s\n", renderTemplate(b.Raw))
	case ast.BodyJSON:
		fmt.Fprintf(sb, "%s\n", renderJSON(b.JSON))
	case ast.BodyXML:
		fmt.Fprintf(sb, "%s\n", b.XML)
	case ast.BodyFile:
		fmt.Fprintf(sb, "file,%s;\n", renderTemplate(b.FilePath))
	}
}

func renderTemplate(t ast.Template) string {
	var sb strings.Builder
	if t.Quoted {
		sb.WriteByte('"')
	}
	for _, el := range t.Elements {
		if !el.IsExpression {
			sb.WriteString(el.Encoded)
			continue
		}
		fmt.Fprintf(&sb, "{{%s%s%s}}", el.Expr.Space0.Value, el.Expr.Variable.Name, el.Expr.Space1.Value)
	}
	if t.Quoted {
		sb.WriteByte('"')
	}
	return sb.String()
}

func renderQuery(q ast.Query) string {
	v := q.Value
	switch v.Kind {
	case ast.QueryStatus:
		return "status"
	case ast.QueryHeader:
		return "header " + renderTemplate(v.HeaderName)
	case ast.QueryCookie:
		path := renderTemplate(v.Cookie.Name)
		if a := v.Cookie.Attribute; a != nil {
			path += "[" + a.Space0.Value + a.Raw + a.Space1.Value + "]"
		}
		return "cookie \"" + path + "\""
	case ast.QueryBody:
		return "body"
	case ast.QueryXpath:
		return "xpath " + renderTemplate(v.XpathExpr)
	case ast.QueryJsonpath:
		return "jsonpath " + renderTemplate(v.JSONExpr)
	case ast.QueryRegex:
		return "regex " + renderTemplate(v.RegexExpr)
	case ast.QueryVariable:
		return "variable " + renderTemplate(v.VarName)
	default:
		return "?"
	}
}

var predicateKeywords = map[ast.PredicateFn]string{
	ast.PredEqual:          "equals",
	ast.PredNotEqual:       "notEquals",
	ast.PredStartsWith:     "startsWith",
	ast.PredEndsWith:       "endsWith",
	ast.PredContains:       "contains",
	ast.PredMatches:        "matches",
	ast.PredCountEquals:    "countEquals",
	ast.PredIncludes:       "includes",
	ast.PredGreaterOrEqual: "greaterThanOrEquals",
	ast.PredGreater:        "greaterThan",
	ast.PredLessOrEqual:    "lessThanOrEquals",
	ast.PredLess:           "lessThan",
	ast.PredExists:         "exists",
}

func renderPredicate(p ast.Predicate) string {
	kw := predicateKeywords[p.Fn]
	prefix := ""
	if p.Negated {
		prefix = "not "
	}
	switch p.Arg.Kind {
	case ast.ArgValue:
		return prefix + kw + " " + renderValue(p.Arg.Value)
	case ast.ArgTemplate:
		return prefix + kw + " " + renderTemplate(p.Arg.Template)
	default:
		return prefix + kw
	}
}

func renderValue(v ast.Value) string {
	switch v.Kind {
	case ast.KindInteger:
		return strconv.FormatInt(v.Integer, 10)
	case ast.KindFloat:
		return fmt.Sprintf("%d.%s", v.FloatInt, v.FloatFrac)
	case ast.KindBool:
		return strconv.FormatBool(v.Bool)
	case ast.KindString:
		return strconv.Quote(v.Str)
	case ast.KindNull:
		return "null"
	default:
		return v.DebugString()
	}
}

// renderJSON renders a JSON literal in a fixed, compact form (no
// spaces after "," or ":"): ast.JSONValue doesn't retain the input's
// original interior whitespace, so this is a normalizing render, not
// a byte-exact echo of however the literal was originally spaced.
func renderJSON(jv ast.JSONValue) string {
	switch jv.Kind {
	case ast.JSONNull:
		return "null"
	case ast.JSONBool:
		return strconv.FormatBool(jv.Bool)
	case ast.JSONNumber:
		return jv.Number
	case ast.JSONString:
		s := jv.String
		s.Quoted = true
		return renderTemplate(s)
	case ast.JSONList:
		parts := make([]string, len(jv.List))
		for i, item := range jv.List {
			parts[i] = renderJSON(item)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case ast.JSONObject:
		parts := make([]string, len(jv.Object))
		for i, m := range jv.Object {
			parts[i] = strconv.Quote(m.Key) + ":" + renderJSON(m.Value)
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return ""
	}
}
