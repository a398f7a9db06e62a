package parser

import (
	"strconv"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/combinator"
	"github.com/legzo/hurl/internal/reader"
)

var httpVersions = []string{"HTTP/1.0", "HTTP/1.1", "HTTP/2", "HTTP"}

func isResponseStart(r *reader.Reader) bool {
	for _, v := range httpVersions {
		if r.StartsWith(v) {
			return true
		}
	}
	return false
}

// response parses the optional `HTTP/x.y status LT header* section* body?`
// block following a request.
func response(r *reader.Reader) (ast.Response, error) {
	start := r.Pos()
	version, err := httpVersion(r)
	if err != nil {
		return ast.Response{}, err
	}
	if _, err := combinator.OneOrMoreSpaces(r); err != nil {
		return ast.Response{}, commit(err)
	}
	status, err := statusCode(r)
	if err != nil {
		return ast.Response{}, commit(err)
	}
	if err := endOfLine(r); err != nil {
		return ast.Response{}, commit(err)
	}

	resp := ast.Response{Version: version, Status: status}

	for {
		blankLines(r)
		if isEntryBoundary(r) {
			break
		}
		if isSectionStart(r) {
			if err := parseResponseSection(r, &resp); err != nil {
				return ast.Response{}, commit(err)
			}
			continue
		}
		if isBodyStart(r) {
			body, err := parseBody(r)
			if err != nil {
				return ast.Response{}, commit(err)
			}
			resp.Body = &body
			continue
		}
		kv, err := headerLine(r)
		if err != nil {
			break
		}
		resp.Headers = append(resp.Headers, kv)
	}

	resp.SourceInfo = ast.SourceInfo{Start: start, End: r.Pos()}
	return resp, nil
}

func httpVersion(r *reader.Reader) (string, error) {
	start := r.Pos()
	for _, v := range httpVersions {
		if r.StartsWith(v) {
			r.ConsumeN(len(v))
			return v, nil
		}
	}
	return "", &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: start, End: start}, Message: "expected HTTP/1.0, HTTP/1.1, HTTP/2 or HTTP"}
}

func statusCode(r *reader.Reader) (ast.Status, error) {
	start := r.Pos()
	if b, ok := r.PeekByte(); ok && b == '*' {
		r.ConsumeChar()
		return ast.Status{Wildcard: true, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
	}
	digitsStart := r.Cursor()
	for {
		b, ok := r.PeekByte()
		if !ok || b < '0' || b > '9' {
			break
		}
		r.ConsumeChar()
	}
	if r.Cursor() == digitsStart {
		return ast.Status{}, &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: start, End: start}, Message: "expected a status code or *"}
	}
	code, _ := strconv.Atoi(r.Buf()[digitsStart:r.Cursor()])
	return ast.Status{Code: code, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}
