package parser

import (
	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/combinator"
	"github.com/legzo/hurl/internal/reader"
)

var methodKeywords = []ast.Method{
	ast.MethodConnect, // longest-first where prefixes could collide
	ast.MethodOptions,
	ast.MethodDelete,
	ast.MethodPatch,
	ast.MethodTrace,
	ast.MethodHead,
	ast.MethodPost,
	ast.MethodGet,
	ast.MethodPut,
}

func methodKeyword(r *reader.Reader) (ast.Method, error) {
	start := r.Pos()
	for _, m := range methodKeywords {
		s := string(m)
		if r.StartsWith(s) {
			// Require the keyword to be followed by whitespace so
			// "GETsomething" is not mistaken for method "GET".
			after := r.Peek(len(s) + 1)
			if len(after) > len(s) && after[len(s)] != ' ' && after[len(s)] != '\t' {
				continue
			}
			r.ConsumeN(len(s))
			return m, nil
		}
	}
	return "", &combinator.ParseError{
		SourceInfo: ast.SourceInfo{Start: start, End: start},
		Message:    "expected an HTTP method",
		Fixme:      "one of GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH",
	}
}

// request parses the `method SP url LT header* section* body?` grammar.
func request(r *reader.Reader) (ast.Request, error) {
	start := r.Pos()
	method, err := methodKeyword(r)
	if err != nil {
		return ast.Request{}, err
	}
	if _, err := combinator.OneOrMoreSpaces(r); err != nil {
		return ast.Request{}, commit(err)
	}
	url, err := unquotedTemplate(r, func(b byte) bool { return b == ' ' || b == '\t' })
	if err != nil {
		return ast.Request{}, commit(err)
	}
	if err := endOfLine(r); err != nil {
		return ast.Request{}, commit(err)
	}

	req := ast.Request{Method: method, URL: url}

	for {
		blankLines(r)
		if isEntryBoundary(r) || isResponseStart(r) {
			break
		}
		if isSectionStart(r) {
			if err := parseRequestSection(r, &req); err != nil {
				return ast.Request{}, commit(err)
			}
			continue
		}
		if isBodyStart(r) {
			body, err := parseBody(r)
			if err != nil {
				return ast.Request{}, commit(err)
			}
			req.Body = &body
			continue
		}
		kv, err := headerLine(r)
		if err != nil {
			break
		}
		req.Headers = append(req.Headers, kv)
	}

	req.SourceInfo = ast.SourceInfo{Start: start, End: r.Pos()}
	return req, nil
}

// headerLine parses one `Name: Template` header line.
func headerLine(r *reader.Reader) (ast.KeyValue, error) {
	start := r.Pos()
	mark := r.Mark()
	name, err := unquotedTemplate(r, func(b byte) bool { return b == ':' })
	if err != nil || len(name.Elements) == 0 {
		r.Restore(mark)
		return ast.KeyValue{}, &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: start, End: start}, Message: "expected a header name"}
	}
	if err := combinator.TryLiteral(":", r); err != nil {
		r.Restore(mark)
		return ast.KeyValue{}, err
	}
	combinator.ZeroOrMoreSpaces(r)
	value, err := unquotedTemplate(r, func(b byte) bool { return false })
	if err != nil {
		r.Restore(mark)
		return ast.KeyValue{}, commit(err)
	}
	if err := endOfLine(r); err != nil {
		r.Restore(mark)
		return ast.KeyValue{}, commit(err)
	}
	return ast.KeyValue{Name: name, Value: value, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}

func isBodyStart(r *reader.Reader) bool {
	return r.StartsWith("{") || r.StartsWith("[") || r.StartsWith(`"""`) || r.StartsWith(`"`) || r.StartsWith("file,")
}

func parseBody(r *reader.Reader) (ast.Body, error) {
	start := r.Pos()
	if r.StartsWith("file,") {
		r.ConsumeN(5)
		combinator.ZeroOrMoreSpaces(r)
		path, err := unquotedTemplate(r, func(b byte) bool { return b == ';' })
		if err != nil {
			return ast.Body{}, err
		}
		if err := combinator.TryLiteral(";", r); err != nil {
			return ast.Body{}, err
		}
		if err := endOfLine(r); err != nil {
			return ast.Body{}, err
		}
		return ast.Body{Kind: ast.BodyFile, FilePath: path, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
	}
	if r.StartsWith("{") || r.StartsWith("[") {
		v, err := jsonValue(r)
		if err != nil {
			return ast.Body{}, err
		}
		if err := endOfLine(r); err != nil {
			return ast.Body{}, err
		}
		return ast.Body{Kind: ast.BodyJSON, JSON: v, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
	}
	tmpl, err := quotedTemplate(r)
	if err != nil {
		return ast.Body{}, err
	}
	if err := endOfLine(r); err != nil {
		return ast.Body{}, err
	}
	return ast.Body{Kind: ast.BodyRaw, Raw: tmpl, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}
