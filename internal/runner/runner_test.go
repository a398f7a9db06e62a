package runner

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/httpclient"
	"github.com/legzo/hurl/internal/variables"
)

func tmpl(s string) ast.Template {
	return ast.Template{Elements: []ast.TemplateElement{{Value: s}}}
}

func statusQuery() ast.Query {
	return ast.Query{Value: ast.QueryValue{Kind: ast.QueryStatus}}
}

func jsonpathQuery(expr string) ast.Query {
	return ast.Query{Value: ast.QueryValue{Kind: ast.QueryJsonpath, JSONExpr: tmpl(expr)}}
}

func TestRunEntryPassesOnMatchingStatusAssert(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 42}`)
	}))
	defer ts.Close()

	client, err := httpclient.NewClient()
	if err != nil {
		t.Fatal(err)
	}

	entry := ast.Entry{
		Request: ast.Request{Method: ast.MethodGet, URL: tmpl(ts.URL + "/")},
		Response: &ast.Response{
			Asserts: []ast.Assert{
				{
					Query:     statusQuery(),
					Predicate: ast.Predicate{Fn: ast.PredEqual, Arg: ast.PredicateArg{Kind: ast.ArgValue, Value: ast.Integer(200)}},
				},
			},
			Captures: []ast.Capture{
				{Name: "id", Query: jsonpathQuery("$.id")},
			},
		},
	}

	vars := variables.New()
	result := RunEntry(entry, client, vars, 0)
	if result.Status != Pass {
		t.Fatalf("expected Pass, got %s (%v)", result.Status, result.Error)
	}
	if len(result.Captures) != 1 || result.Captures[0].Status != Pass {
		t.Fatalf("expected one passing capture, got %+v", result.Captures)
	}
	got, ok := vars.Get("id")
	if !ok || got.Integer != 42 {
		t.Fatalf("expected captured id=42, got %+v ok=%v", got, ok)
	}
}

func TestRunEntryFailsOnMismatchedAssertButReportsAll(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer ts.Close()

	client, err := httpclient.NewClient()
	if err != nil {
		t.Fatal(err)
	}

	entry := ast.Entry{
		Request: ast.Request{Method: ast.MethodGet, URL: tmpl(ts.URL + "/")},
		Response: &ast.Response{
			Asserts: []ast.Assert{
				{Query: statusQuery(), Predicate: ast.Predicate{Fn: ast.PredEqual, Arg: ast.PredicateArg{Kind: ast.ArgValue, Value: ast.Integer(200)}}},
				{Query: statusQuery(), Predicate: ast.Predicate{Fn: ast.PredEqual, Arg: ast.PredicateArg{Kind: ast.ArgValue, Value: ast.Integer(404)}}},
			},
		},
	}

	vars := variables.New()
	result := RunEntry(entry, client, vars, 0)
	if result.Status != Fail {
		t.Fatalf("expected Fail, got %s", result.Status)
	}
	if len(result.Asserts) != 2 {
		t.Fatalf("expected both asserts to run, got %d", len(result.Asserts))
	}
	if result.Asserts[0].Status != Fail {
		t.Errorf("expected first assert to fail")
	}
	if result.Asserts[1].Status != Pass {
		t.Errorf("expected second assert to pass")
	}
}

func TestRunEntryTransportErrorShortCircuits(t *testing.T) {
	client, err := httpclient.NewClient()
	if err != nil {
		t.Fatal(err)
	}
	entry := ast.Entry{
		Request: ast.Request{Method: ast.MethodGet, URL: tmpl("http://127.0.0.1:1/unreachable")},
		Response: &ast.Response{
			Asserts: []ast.Assert{{Query: statusQuery(), Predicate: ast.Predicate{Fn: ast.PredExists}}},
		},
	}
	vars := variables.New()
	result := RunEntry(entry, client, vars, 0)
	if result.Status != Error {
		t.Fatalf("expected Error, got %s", result.Status)
	}
	if len(result.Asserts) != 0 {
		t.Fatalf("expected asserts to be skipped, got %d", len(result.Asserts))
	}
}

func TestRunFileStopsAtFirstFailureWithStopOnFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	client, err := httpclient.NewClient()
	if err != nil {
		t.Fatal(err)
	}

	file := ast.HurlFile{Entries: []ast.Entry{
		{
			Request: ast.Request{Method: ast.MethodGet, URL: tmpl(ts.URL + "/")},
			Response: &ast.Response{
				Asserts: []ast.Assert{{Query: statusQuery(), Predicate: ast.Predicate{Fn: ast.PredEqual, Arg: ast.PredicateArg{Kind: ast.ArgValue, Value: ast.Integer(200)}}}},
			},
		},
		{Request: ast.Request{Method: ast.MethodGet, URL: tmpl(ts.URL + "/")}},
	}}

	vars := variables.New()
	result := RunFile(file, client, vars, RunOptions{StopOnFailure: true})
	if result.Status != Fail {
		t.Fatalf("expected Fail, got %s", result.Status)
	}
	if len(result.Entries) != 1 {
		t.Fatalf("expected execution to stop after entry 1, got %d entries", len(result.Entries))
	}
}
