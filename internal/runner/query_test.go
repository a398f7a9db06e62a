package runner

import (
	"net/http"
	"testing"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/httpclient"
	"github.com/legzo/hurl/internal/variables"
)

func newResponse(status int, header http.Header, body string) *httpclient.Response {
	if header == nil {
		header = http.Header{}
	}
	return &httpclient.Response{StatusCode: status, Header: header, Body: []byte(body)}
}

func TestEvalQueryStatus(t *testing.T) {
	resp := newResponse(201, nil, "")
	v, err := EvalQuery(statusQuery(), resp, variables.New())
	if err != nil {
		t.Fatal(err)
	}
	if v.Integer != 201 {
		t.Errorf("expected 201, got %v", v)
	}
}

func TestEvalQueryHeaderMissingYieldsUnit(t *testing.T) {
	resp := newResponse(200, nil, "")
	q := ast.Query{Value: ast.QueryValue{Kind: ast.QueryHeader, HeaderName: tmpl("X-Missing")}}
	v, err := EvalQuery(q, resp, variables.New())
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != ast.KindUnit {
		t.Errorf("expected Unit, got %v", v)
	}
}

func TestEvalQueryHeaderPresent(t *testing.T) {
	h := http.Header{}
	h.Set("X-Custom", "abc")
	resp := newResponse(200, h, "")
	q := ast.Query{Value: ast.QueryValue{Kind: ast.QueryHeader, HeaderName: tmpl("X-Custom")}}
	v, err := EvalQuery(q, resp, variables.New())
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "abc" {
		t.Errorf("expected abc, got %v", v)
	}
}

func TestEvalQueryCookieValueAndAttribute(t *testing.T) {
	h := http.Header{}
	h.Add("Set-Cookie", "session=xyz; Domain=example.com; Path=/; HttpOnly")
	resp := newResponse(200, h, "")

	valueQ := ast.Query{Value: ast.QueryValue{Kind: ast.QueryCookie, Cookie: ast.CookiePath{Name: tmpl("session")}}}
	v, err := EvalQuery(valueQ, resp, variables.New())
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "xyz" {
		t.Errorf("expected xyz, got %v", v)
	}

	domainQ := ast.Query{Value: ast.QueryValue{Kind: ast.QueryCookie, Cookie: ast.CookiePath{
		Name:      tmpl("session"),
		Attribute: &ast.CookieAttribute{Kind: ast.CookieAttrDomain},
	}}}
	v, err = EvalQuery(domainQ, resp, variables.New())
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "example.com" {
		t.Errorf("expected example.com, got %v", v)
	}
}

func TestEvalQueryBody(t *testing.T) {
	resp := newResponse(200, nil, "hello world")
	q := ast.Query{Value: ast.QueryValue{Kind: ast.QueryBody}}
	v, err := EvalQuery(q, resp, variables.New())
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", v.Str)
	}
}

func TestEvalQueryRegex(t *testing.T) {
	resp := newResponse(200, nil, "order-id: 12345")
	q := ast.Query{Value: ast.QueryValue{Kind: ast.QueryRegex, RegexExpr: tmpl(`order-id: (\d+)`)}}
	v, err := EvalQuery(q, resp, variables.New())
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "12345" {
		t.Errorf("expected 12345, got %v", v)
	}
}

func TestEvalQueryVariable(t *testing.T) {
	vars := variables.New()
	vars.Set("token", ast.String("abc123"))
	resp := newResponse(200, nil, "")
	q := ast.Query{Value: ast.QueryValue{Kind: ast.QueryVariable, VarName: tmpl("token")}}
	v, err := EvalQuery(q, resp, vars)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "abc123" {
		t.Errorf("expected abc123, got %v", v)
	}
}

func TestEvalQueryJsonpathMalformedBodyReportsInvalidJSON(t *testing.T) {
	resp := newResponse(200, nil, "not json")
	q := jsonpathQuery("$.id")
	_, err := EvalQuery(q, resp, variables.New())
	if err == nil {
		t.Fatal("expected error")
	}
	qe, ok := err.(*QueryError)
	if !ok || qe.Kind != InvalidJSON {
		t.Fatalf("expected InvalidJSON, got %v", err)
	}
}
