package httpclient

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/variables"
)

func templateOf(s string) ast.Template {
	return ast.Template{Elements: []ast.TemplateElement{{Value: s}}}
}

func getRequest(rawURL string) *ast.Request {
	return &ast.Request{Method: ast.MethodGet, URL: templateOf(rawURL)}
}

func TestExecuteSimpleGet(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "hello")
	}))
	defer ts.Close()

	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}
	resp, redirects, err := c.Execute(getRequest(ts.URL+"/"), variables.New(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redirects != 0 {
		t.Errorf("expected 0 redirects, got %d", redirects)
	}
	if resp.StatusCode != 200 {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if string(resp.Body) != "hello" {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestExecuteFollowsRedirectsAndCountsThem(t *testing.T) {
	var mux http.ServeMux
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/next", http.StatusFound)
	})
	mux.HandleFunc("/next", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusFound)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "done")
	})
	ts := httptest.NewServer(&mux)
	defer ts.Close()

	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}
	c.FollowLocation = true
	c.MaxRedirect = 10

	resp, redirects, err := c.Execute(getRequest(ts.URL+"/start"), variables.New(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redirects != 2 {
		t.Errorf("expected 2 redirects, got %d", redirects)
	}
	if string(resp.Body) != "done" {
		t.Errorf("unexpected body %q", resp.Body)
	}
}

func TestExecuteWithoutFollowLocationLeavesRedirectUntouched(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/wherever", http.StatusFound)
	}))
	defer ts.Close()

	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}
	c.FollowLocation = false

	resp, redirects, err := c.Execute(getRequest(ts.URL+"/"), variables.New(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redirects != 0 {
		t.Errorf("expected 0 redirects, got %d", redirects)
	}
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected 302, got %d", resp.StatusCode)
	}
}

func TestExecuteExceedsMaxRedirectReportsTooManyRedirect(t *testing.T) {
	var mux http.ServeMux
	hops := 0
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		hops++
		http.Redirect(w, r, fmt.Sprintf("/loop?n=%d", hops), http.StatusFound)
	})
	ts := httptest.NewServer(&mux)
	defer ts.Close()

	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}
	c.FollowLocation = true
	c.MaxRedirect = 2

	_, redirects, err := c.Execute(getRequest(ts.URL+"/loop"), variables.New(), 0)
	if err == nil {
		t.Fatal("expected TooManyRedirect error")
	}
	herr, ok := err.(*Error)
	if !ok || herr.Kind != TooManyRedirect {
		t.Fatalf("expected TooManyRedirect, got %v", err)
	}
	if redirects != 2 {
		t.Errorf("expected redirect count 2 at cap, got %d", redirects)
	}
}

func TestExecuteFoldsExternalRedirectCountIntoResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "done")
	}))
	defer ts.Close()

	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}

	_, redirects, err := c.Execute(getRequest(ts.URL+"/"), variables.New(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redirects != 5 {
		t.Errorf("expected external count to pass through unchanged with no redirects, got %d", redirects)
	}
}

func TestExecuteExternalRedirectCountAboveCapFailsImmediately(t *testing.T) {
	var mux http.ServeMux
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	ts := httptest.NewServer(&mux)
	defer ts.Close()

	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}
	c.FollowLocation = true
	c.MaxRedirect = 10

	_, redirects, err := c.Execute(getRequest(ts.URL+"/loop"), variables.New(), 11)
	if err == nil {
		t.Fatal("expected TooManyRedirect error")
	}
	herr, ok := err.(*Error)
	if !ok || herr.Kind != TooManyRedirect {
		t.Fatalf("expected TooManyRedirect, got %v", err)
	}
	if redirects != 11 {
		t.Errorf("expected redirect count to stay at the already-over-cap external value, got %d", redirects)
	}
}

func TestExecuteSendsQueryStringAndHeaders(t *testing.T) {
	var gotQuery, gotHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("name")
		gotHeader = r.Header.Get("X-Custom")
	}))
	defer ts.Close()

	c, err := NewClient()
	if err != nil {
		t.Fatal(err)
	}
	req := getRequest(ts.URL + "/")
	req.QueryStringParams = []ast.KeyValue{{Name: templateOf("name"), Value: templateOf("world")}}
	req.Headers = []ast.KeyValue{{Name: templateOf("X-Custom"), Value: templateOf("abc")}}

	_, _, err = c.Execute(req, variables.New(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery != "world" {
		t.Errorf("expected query param world, got %q", gotQuery)
	}
	if gotHeader != "abc" {
		t.Errorf("expected header abc, got %q", gotHeader)
	}
}
