package parser

import (
	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/combinator"
	"github.com/legzo/hurl/internal/reader"
)

// query parses one query expression, e.g. `status`, `header "Foo"`,
// `cookie "Foo[Domain]"`, `jsonpath "$.field"`.
func query(r *reader.Reader) (ast.Query, error) {
	start := r.Pos()
	value, err := queryValue(r)
	if err != nil {
		return ast.Query{}, err
	}
	return ast.Query{Value: value, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}

func queryValue(r *reader.Reader) (ast.QueryValue, error) {
	return combinator.Choice([]combinator.Parser[ast.QueryValue]{
		statusQuery,
		headerQuery,
		cookieQuery,
		bodyQuery,
		xpathQuery,
		jsonpathQuery,
		regexQuery,
		variableQuery,
	}, r)
}

func statusQuery(r *reader.Reader) (ast.QueryValue, error) {
	if err := combinator.TryLiteral("status", r); err != nil {
		return ast.QueryValue{}, err
	}
	return ast.QueryValue{Kind: ast.QueryStatus}, nil
}

func bodyQuery(r *reader.Reader) (ast.QueryValue, error) {
	if err := combinator.TryLiteral("body", r); err != nil {
		return ast.QueryValue{}, err
	}
	return ast.QueryValue{Kind: ast.QueryBody}, nil
}

// commitAfterKeyword runs a keyword literal match (the query's commit
// token) followed by required whitespace and a quoted template
// argument. Any failure past the keyword match is a commit failure:
// once `header` (say) has matched, a malformed argument is a real
// parse error, not "try the next query kind".
func commitAfterKeyword(keyword string, r *reader.Reader) (ast.Template, error) {
	if err := combinator.TryLiteral(keyword, r); err != nil {
		return ast.Template{}, err
	}
	if _, err := combinator.OneOrMoreSpaces(r); err != nil {
		return ast.Template{}, commit(err)
	}
	tmpl, err := quotedTemplate(r)
	if err != nil {
		return ast.Template{}, commit(err)
	}
	return tmpl, nil
}

func commit(err error) error {
	if pe, ok := err.(*combinator.ParseError); ok {
		pe.Commit = true
		return pe
	}
	return err
}

func headerQuery(r *reader.Reader) (ast.QueryValue, error) {
	name, err := commitAfterKeyword("header", r)
	if err != nil {
		return ast.QueryValue{}, err
	}
	return ast.QueryValue{Kind: ast.QueryHeader, HeaderName: name}, nil
}

func xpathQuery(r *reader.Reader) (ast.QueryValue, error) {
	expr, err := commitAfterKeyword("xpath", r)
	if err != nil {
		return ast.QueryValue{}, err
	}
	return ast.QueryValue{Kind: ast.QueryXpath, XpathExpr: expr}, nil
}

func jsonpathQuery(r *reader.Reader) (ast.QueryValue, error) {
	expr, err := commitAfterKeyword("jsonpath", r)
	if err != nil {
		return ast.QueryValue{}, err
	}
	return ast.QueryValue{Kind: ast.QueryJsonpath, JSONExpr: expr}, nil
}

func regexQuery(r *reader.Reader) (ast.QueryValue, error) {
	expr, err := commitAfterKeyword("regex", r)
	if err != nil {
		return ast.QueryValue{}, err
	}
	return ast.QueryValue{Kind: ast.QueryRegex, RegexExpr: expr}, nil
}

func variableQuery(r *reader.Reader) (ast.QueryValue, error) {
	name, err := commitAfterKeyword("variable", r)
	if err != nil {
		return ast.QueryValue{}, err
	}
	return ast.QueryValue{Kind: ast.QueryVariable, VarName: name}, nil
}

// cookieQuery parses `cookie "<cookie-path>"`. The quoted string's
// interior is re-parsed as a CookiePath by a sub-reader positioned
// one column past the opening quote, per the grammar's cookie-path
// re-parse design note.
func cookieQuery(r *reader.Reader) (ast.QueryValue, error) {
	if err := combinator.TryLiteral("cookie", r); err != nil {
		return ast.QueryValue{}, err
	}
	if _, err := combinator.OneOrMoreSpaces(r); err != nil {
		return ast.QueryValue{}, commit(err)
	}
	quoteStart := r.Pos()
	s, err := quotedString(r)
	if err != nil {
		return ast.QueryValue{}, commit(err)
	}
	innerStart := ast.Pos{Line: quoteStart.Line, Column: quoteStart.Column + 1}
	sub := reader.Sub(s, innerStart)
	path, err := cookiePath(sub)
	if err != nil {
		return ast.QueryValue{}, commit(err)
	}
	return ast.QueryValue{Kind: ast.QueryCookie, Cookie: path}, nil
}

// subquery parses the (currently single-membered) secondary
// extraction applied to a capture's query result: `regex "..."`.
func subquery(r *reader.Reader) (ast.Subquery, error) {
	start := r.Pos()
	expr, err := commitAfterKeyword("regex", r)
	if err != nil {
		return ast.Subquery{}, err
	}
	return ast.Subquery{Kind: ast.SubqueryRegex, RegexExpr: expr, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}
