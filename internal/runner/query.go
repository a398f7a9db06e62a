package runner

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/eval"
	"github.com/legzo/hurl/internal/httpclient"
	"github.com/legzo/hurl/internal/variables"
)

// EvalQuery evaluates q against resp, returning the typed Value the
// predicate layer compares against (spec.md §4.6 step 1). A missing
// header or cookie yields Unit rather than an error; a malformed body
// for xpath/jsonpath yields a *QueryError.
func EvalQuery(q ast.Query, resp *httpclient.Response, vars *variables.Variables) (ast.Value, error) {
	switch q.Value.Kind {
	case ast.QueryStatus:
		return ast.Integer(int64(resp.StatusCode)), nil

	case ast.QueryHeader:
		name, err := eval.Eval(q.Value.HeaderName, vars)
		if err != nil {
			return ast.Value{}, err
		}
		values := resp.GetHeaderValues(name)
		if len(values) == 0 {
			return ast.Unit(), nil
		}
		return ast.String(values[0]), nil

	case ast.QueryCookie:
		return evalCookieQuery(q.Value.Cookie, resp, vars)

	case ast.QueryBody:
		return ast.String(string(resp.Body)), nil

	case ast.QueryXpath:
		expr, err := eval.Eval(q.Value.XpathExpr, vars)
		if err != nil {
			return ast.Value{}, err
		}
		text, err := evalXPath(expr, resp.Body)
		if err != nil {
			return ast.Value{}, err
		}
		return ast.String(text), nil

	case ast.QueryJsonpath:
		expr, err := eval.Eval(q.Value.JSONExpr, vars)
		if err != nil {
			return ast.Value{}, err
		}
		var doc interface{}
		if err := json.Unmarshal(resp.Body, &doc); err != nil {
			return ast.Value{}, &QueryError{Kind: InvalidJSON, Message: err.Error()}
		}
		result, err := evalJSONPath(expr, doc)
		if err != nil {
			return ast.Value{}, err
		}
		return jqResultToValue(result), nil

	case ast.QueryRegex:
		pattern, err := eval.Eval(q.Value.RegexExpr, vars)
		if err != nil {
			return ast.Value{}, err
		}
		return evalRegexOnText(pattern, string(resp.Body))

	case ast.QueryVariable:
		name, err := eval.Eval(q.Value.VarName, vars)
		if err != nil {
			return ast.Value{}, err
		}
		v, ok := vars.Get(name)
		if !ok {
			return ast.Unit(), nil
		}
		return v, nil

	default:
		return ast.Value{}, &QueryError{Kind: NoQueryResult, Message: "unknown query kind"}
	}
}

// evalCookieQuery inspects resp's Set-Cookie headers, reusing
// net/http's own cookie parser (http.Response.Cookies) rather than
// hand-rolling attribute parsing, since no third-party cookie-parsing
// library appears anywhere in the retrieval pack.
func evalCookieQuery(cp ast.CookiePath, resp *httpclient.Response, vars *variables.Variables) (ast.Value, error) {
	name, err := eval.Eval(cp.Name, vars)
	if err != nil {
		return ast.Value{}, err
	}
	fake := &http.Response{Header: resp.Header}
	var found *http.Cookie
	for _, c := range fake.Cookies() {
		if c.Name == name {
			found = c
		}
	}
	if found == nil {
		return ast.Unit(), nil
	}

	attr := ast.CookieAttrValue
	if cp.Attribute != nil {
		attr = cp.Attribute.Kind
	}
	switch attr {
	case ast.CookieAttrValue:
		return ast.String(found.Value), nil
	case ast.CookieAttrDomain:
		if found.Domain == "" {
			return ast.Unit(), nil
		}
		return ast.String(found.Domain), nil
	case ast.CookieAttrPath:
		if found.Path == "" {
			return ast.Unit(), nil
		}
		return ast.String(found.Path), nil
	case ast.CookieAttrExpires:
		if found.RawExpires == "" {
			return ast.Unit(), nil
		}
		return ast.String(found.RawExpires), nil
	case ast.CookieAttrMaxAge:
		if found.MaxAge == 0 {
			return ast.Unit(), nil
		}
		return ast.Integer(int64(found.MaxAge)), nil
	case ast.CookieAttrSecure:
		return ast.Bool(found.Secure), nil
	case ast.CookieAttrHTTPOnly:
		return ast.Bool(found.HttpOnly), nil
	case ast.CookieAttrSameSite:
		return ast.String(sameSiteString(found.SameSite)), nil
	default:
		return ast.Unit(), nil
	}
}

func sameSiteString(s http.SameSite) string {
	switch s {
	case http.SameSiteLaxMode:
		return "Lax"
	case http.SameSiteStrictMode:
		return "Strict"
	case http.SameSiteNoneMode:
		return "None"
	default:
		return ""
	}
}

func evalRegexOnText(pattern, text string) (ast.Value, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return ast.Value{}, &QueryError{Kind: InvalidRegex, Message: err.Error()}
	}
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return ast.Value{}, &QueryError{Kind: NoQueryResult, Message: "regex did not match"}
	}
	if len(groups) > 1 {
		return ast.String(groups[1]), nil
	}
	return ast.String(groups[0]), nil
}

// jqResultToValue converts a gojq result (plain interface{} decoded
// from encoding/json) into the runner's typed Value.
func jqResultToValue(v interface{}) ast.Value {
	switch t := v.(type) {
	case nil:
		return ast.Null()
	case bool:
		return ast.Bool(t)
	case string:
		return ast.String(t)
	case float64:
		return numberToValue(t)
	case []interface{}:
		items := make([]ast.Value, len(t))
		for i, e := range t {
			items[i] = jqResultToValue(e)
		}
		return ast.ListOf(items)
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		fields := make(map[string]ast.Value, len(t))
		for k, e := range t {
			keys = append(keys, k)
			fields[k] = jqResultToValue(e)
		}
		return ast.ObjectOf(keys, fields)
	default:
		return ast.Null()
	}
}

// numberToValue converts a JSON-decoded float64 into an Integer Value
// when it has no fractional part, else a Float preserving the
// fractional digits as formatted by strconv (matching how a jq result
// like `3` vs `3.5` should render back in diagnostics).
func numberToValue(f float64) ast.Value {
	if f == float64(int64(f)) {
		return ast.Integer(int64(f))
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	intPart, err := strconv.ParseInt(s[:dot], 10, 64)
	if err != nil {
		return ast.String(s)
	}
	return ast.Float(intPart, s[dot+1:])
}
