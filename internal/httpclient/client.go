// Package httpclient implements C6: turning a rendered ast.Request into
// an outgoing *http.Request, executing it with the spec's redirect and
// error semantics, and producing a Response the runner's query layer
// can inspect. Grounded on ht.go's Test.newRequest / ClientPool, with
// an explicit CheckRedirect loop replacing net/http's implicit one so
// the per-entry redirect count is always known exactly.
package httpclient

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/eval"
	"github.com/legzo/hurl/internal/variables"
)

// Response is the executed-request result the runner's query
// evaluator inspects.
type Response struct {
	Version    string
	StatusCode int
	Header     http.Header
	Body       []byte

	// Redirects is the full chain of responses seen before Response,
	// oldest first, populated only when FollowLocation was set.
	Redirects []Response
}

// GetHeaderValues returns header values by name, case-insensitively,
// in receive order.
func (r *Response) GetHeaderValues(name string) []string {
	return r.Header.Values(name)
}

// Client executes hurl requests. It is reused across a file's entries
// so cookies persist naturally via Jar, the way a single curl session
// (or browser tab) would.
type Client struct {
	HTTPClient     *http.Client
	Jar            *cookiejar.Jar
	FollowLocation bool
	MaxRedirect    int // -1 means unlimited, mirroring curl's --max-redirs -1
	Insecure       bool
	ProxyURL       *url.URL
	VerboseWriter  io.Writer
	Timeout        time.Duration
}

// NewClient builds a Client with a fresh, unshared cookie jar.
func NewClient() (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	c := &Client{
		Jar:         jar,
		MaxRedirect: 50,
		Timeout:     30 * time.Second,
	}
	c.HTTPClient = &http.Client{
		Jar:           jar,
		Timeout:       c.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return c, nil
}

// Execute renders req against vars and sends it, following Location
// headers itself (rather than delegating to http.Client's own
// redirect handling) so redirectCount is always exact. externalCount
// is the number of redirects already charged against the cap by
// earlier entries in the same file (0 for a file's first entry, or
// when callers don't need a cross-entry cap); Execute folds it into
// the MaxRedirect check and returns the new cumulative count so a
// caller can thread it into the next entry's call, per spec.md §8's
// "external counter 5 -> redirect_count == 6" / "external counter 11,
// max_redirect=10 -> TooManyRedirect" testable property.
func (c *Client) Execute(req *ast.Request, vars *variables.Variables, externalCount int) (*Response, int, error) {
	httpReq, err := c.buildRequest(req, vars)
	if err != nil {
		return nil, externalCount, err
	}

	var redirects []Response
	current := httpReq
	redirectCount := externalCount

	for {
		resp, err := c.HTTPClient.Do(current)
		if err != nil {
			return nil, redirectCount, classify(err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, redirectCount, classify(err)
		}

		out := &Response{
			Version:    resp.Proto,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
			Body:       body,
		}

		if c.VerboseWriter != nil {
			c.writeVerbose(current, out)
		}

		isRedirect := resp.StatusCode >= 300 && resp.StatusCode < 400
		location := resp.Header.Get("Location")
		if !c.FollowLocation || !isRedirect || location == "" {
			out.Redirects = redirects
			return out, redirectCount, nil
		}

		if c.MaxRedirect >= 0 && redirectCount >= c.MaxRedirect {
			return nil, redirectCount, &Error{Kind: TooManyRedirect, Message: fmt.Sprintf("exceeded max-redirect=%d", c.MaxRedirect)}
		}

		redirects = append(redirects, *out)
		redirectCount++

		nextURL, err := current.URL.Parse(location)
		if err != nil {
			return nil, redirectCount, &Error{Kind: Other, Message: fmt.Sprintf("invalid redirect location %q: %v", location, err)}
		}
		next := current.Clone(current.Context())
		next.URL = nextURL
		next.Host = ""
		if resp.StatusCode == http.StatusSeeOther || (resp.StatusCode == http.StatusMovedPermanently || resp.StatusCode == http.StatusFound) && current.Method == http.MethodPost {
			next.Method = http.MethodGet
			next.Body = nil
			next.ContentLength = 0
			next.Header.Del("Content-Type")
		}
		current = next
	}
}

func (c *Client) writeVerbose(req *http.Request, resp *Response) {
	if line, err := VerboseEcho(req); err == nil {
		fmt.Fprintln(c.VerboseWriter, line)
	}
	status := fmt.Sprintf("%s %d", resp.Version, resp.StatusCode)
	fmt.Fprint(c.VerboseWriter, VerboseResponseHeader(status, resp.Header))
}

// buildRequest turns the rendered sections of req into an *http.Request:
// query-string params appended to the URL, explicit body or
// form/multipart encoding, headers, then cookies. The Content-Type
// inferred from the body encoding is only set when the request has no
// explicit Content-Type header, so an explicit one wins.
func (c *Client) buildRequest(req *ast.Request, vars *variables.Variables) (*http.Request, error) {
	rawURL, err := eval.Eval(req.URL, vars)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	if len(req.QueryStringParams) > 0 {
		q := u.Query()
		for _, kv := range req.QueryStringParams {
			name, err := eval.Eval(kv.Name, vars)
			if err != nil {
				return nil, err
			}
			val, err := eval.Eval(kv.Value, vars)
			if err != nil {
				return nil, err
			}
			q.Add(name, val)
		}
		u.RawQuery = q.Encode()
	}

	var bodyBytes []byte
	contentType := ""

	switch {
	case req.HasMultipart:
		data, ct, err := buildMultipart(req.MultipartData, vars, os.ReadFile)
		if err != nil {
			return nil, err
		}
		bodyBytes, contentType = data, ct
	case len(req.FormParams) > 0:
		form := url.Values{}
		for _, kv := range req.FormParams {
			name, err := eval.Eval(kv.Name, vars)
			if err != nil {
				return nil, err
			}
			val, err := eval.Eval(kv.Value, vars)
			if err != nil {
				return nil, err
			}
			form.Add(name, val)
		}
		bodyBytes = []byte(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.Body != nil:
		bodyBytes, contentType, err = renderBody(*req.Body, vars)
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := http.NewRequest(string(req.Method), u.String(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for _, kv := range req.Headers {
		name, err := eval.Eval(kv.Name, vars)
		if err != nil {
			return nil, err
		}
		val, err := eval.Eval(kv.Value, vars)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Add(name, val)
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	for _, kv := range req.Cookies {
		name, err := eval.Eval(kv.Name, vars)
		if err != nil {
			return nil, err
		}
		val, err := eval.Eval(kv.Value, vars)
		if err != nil {
			return nil, err
		}
		httpReq.AddCookie(&http.Cookie{Name: name, Value: val})
	}

	return httpReq, nil
}

// renderBody renders an explicit [Body], producing the wire bytes and
// an inferred Content-Type when the body syntax implies one.
func renderBody(b ast.Body, vars *variables.Variables) ([]byte, string, error) {
	switch b.Kind {
	case ast.BodyRaw:
		s, err := eval.Eval(b.Raw, vars)
		if err != nil {
			return nil, "", err
		}
		return []byte(s), "", nil
	case ast.BodyJSON:
		s, err := eval.EvalJSON(b.JSON, vars)
		if err != nil {
			return nil, "", err
		}
		return []byte(s), "application/json", nil
	case ast.BodyXML:
		return []byte(b.XML), "application/xml", nil
	case ast.BodyFile:
		path, err := eval.Eval(b.FilePath, vars)
		if err != nil {
			return nil, "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("read body file %s: %w", path, err)
		}
		return data, "", nil
	default:
		return nil, "", fmt.Errorf("unknown body kind")
	}
}

// ApplyTransport rebuilds the client's Transport from ProxyURL and
// Insecure; called after CLI flag parsing sets those fields.
func (c *Client) ApplyTransport() {
	tr, ok := c.HTTPClient.Transport.(*http.Transport)
	if !ok || tr == nil {
		tr = http.DefaultTransport.(*http.Transport).Clone()
	}
	if c.ProxyURL != nil {
		tr.Proxy = http.ProxyURL(c.ProxyURL)
	}
	if c.Insecure {
		if tr.TLSClientConfig == nil {
			tr.TLSClientConfig = &tls.Config{}
		}
		tr.TLSClientConfig.InsecureSkipVerify = true
	}
	c.HTTPClient.Transport = tr
}
