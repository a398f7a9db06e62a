package parser

import (
	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/combinator"
	"github.com/legzo/hurl/internal/reader"
)

const (
	sectionQueryString = "QueryStringParams"
	sectionFormParams  = "FormParams"
	sectionMultipart   = "MultipartFormData"
	sectionCookies     = "Cookies"
	sectionCaptures    = "Captures"
	sectionAsserts     = "Asserts"
)

// sectionName parses a bracketed `[Name]` section header line,
// matched case-sensitively per the spec's open-question resolution.
func sectionName(r *reader.Reader) (string, error) {
	mark := r.Mark()
	if err := combinator.TryLiteral("[", r); err != nil {
		return "", err
	}
	nameStart := r.Cursor()
	for {
		b, ok := r.PeekByte()
		if !ok || b == ']' || b == '\n' {
			break
		}
		r.ConsumeChar()
	}
	name := r.Buf()[nameStart:r.Cursor()]
	if err := combinator.TryLiteral("]", r); err != nil {
		r.Restore(mark)
		return "", err
	}
	if err := endOfLine(r); err != nil {
		r.Restore(mark)
		return "", commit(err)
	}
	return name, nil
}

func parseRequestSection(r *reader.Reader, req *ast.Request) error {
	name, err := sectionName(r)
	if err != nil {
		return err
	}
	switch name {
	case sectionQueryString:
		req.QueryStringParams = append(req.QueryStringParams, keyValueLines(r)...)
	case sectionFormParams:
		req.FormParams = append(req.FormParams, keyValueLines(r)...)
	case sectionCookies:
		req.Cookies = append(req.Cookies, keyValueLines(r)...)
	case sectionMultipart:
		parts, err := multipartLines(r)
		if err != nil {
			return err
		}
		req.MultipartData = append(req.MultipartData, parts...)
		req.HasMultipart = true
	default:
		return &combinator.ParseError{
			SourceInfo: ast.SourceInfo{Start: r.Pos(), End: r.Pos()},
			Message:    "unknown request section [" + name + "]",
			Fixme:      "one of [QueryStringParams], [FormParams], [MultipartFormData], [Cookies]",
		}
	}
	return nil
}

func parseResponseSection(r *reader.Reader, resp *ast.Response) error {
	name, err := sectionName(r)
	if err != nil {
		return err
	}
	switch name {
	case sectionCaptures:
		caps, err := captureLines(r)
		if err != nil {
			return err
		}
		resp.Captures = append(resp.Captures, caps...)
	case sectionAsserts:
		asserts, err := assertLines(r)
		if err != nil {
			return err
		}
		resp.Asserts = append(resp.Asserts, asserts...)
	default:
		return &combinator.ParseError{
			SourceInfo: ast.SourceInfo{Start: r.Pos(), End: r.Pos()},
			Message:    "unknown response section [" + name + "]",
			Fixme:      "one of [Captures], [Asserts]",
		}
	}
	return nil
}

// keyValueLines consumes `name: value` lines until the next section,
// entry, response or body boundary.
func keyValueLines(r *reader.Reader) []ast.KeyValue {
	var out []ast.KeyValue
	for {
		blankLines(r)
		if isEntryBoundary(r) || isSectionStart(r) || isResponseStart(r) || isBodyStart(r) {
			return out
		}
		kv, err := headerLine(r)
		if err != nil {
			return out
		}
		out = append(out, kv)
	}
}

// multipartLines parses [MultipartFormData] entries: either
// `name: value` or `name: file,path;[content-type]`.
func multipartLines(r *reader.Reader) ([]ast.MultipartParam, error) {
	var out []ast.MultipartParam
	for {
		blankLines(r)
		if isEntryBoundary(r) || isSectionStart(r) || isResponseStart(r) {
			return out, nil
		}
		start := r.Pos()
		mark := r.Mark()
		name, err := unquotedTemplate(r, func(b byte) bool { return b == ':' })
		if err != nil || len(name.Elements) == 0 {
			r.Restore(mark)
			return out, nil
		}
		if err := combinator.TryLiteral(":", r); err != nil {
			r.Restore(mark)
			return out, nil
		}
		combinator.ZeroOrMoreSpaces(r)
		if r.StartsWith("file,") {
			r.ConsumeN(5)
			combinator.ZeroOrMoreSpaces(r)
			path, err := unquotedTemplate(r, func(b byte) bool { return b == ';' })
			if err != nil {
				return nil, commit(err)
			}
			var ctype ast.Template
			if err := combinator.TryLiteral(";", r); err == nil {
				combinator.ZeroOrMoreSpaces(r)
				if !isNewlineOrEOF(r) {
					ctype, err = unquotedTemplate(r, func(b byte) bool { return false })
					if err != nil {
						return nil, commit(err)
					}
				}
			}
			if err := endOfLine(r); err != nil {
				return nil, commit(err)
			}
			out = append(out, ast.MultipartParam{
				Name: name, IsFile: true, FileName: path, ContentType: ctype,
				SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()},
			})
			continue
		}
		value, err := unquotedTemplate(r, func(b byte) bool { return false })
		if err != nil {
			return nil, commit(err)
		}
		if err := endOfLine(r); err != nil {
			return nil, commit(err)
		}
		out = append(out, ast.MultipartParam{Name: name, Value: value, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}})
	}
}

func isNewlineOrEOF(r *reader.Reader) bool {
	b, ok := r.PeekByte()
	return !ok || b == '\n' || b == '\r'
}

// assertLines parses [Asserts] lines: `query SP predicate LT`.
func assertLines(r *reader.Reader) ([]ast.Assert, error) {
	var out []ast.Assert
	for {
		blankLines(r)
		if isEntryBoundary(r) || isSectionStart(r) || isResponseStart(r) {
			return out, nil
		}
		start := r.Pos()
		mark := r.Mark()
		q, err := query(r)
		if err != nil {
			r.Restore(mark)
			return out, nil
		}
		if _, err := combinator.OneOrMoreSpaces(r); err != nil {
			return nil, commit(err)
		}
		pred, err := predicate(r)
		if err != nil {
			return nil, commit(err)
		}
		if err := endOfLine(r); err != nil {
			return nil, commit(err)
		}
		out = append(out, ast.Assert{Query: q, Predicate: pred, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}})
	}
}

// captureLines parses [Captures] lines: `name: query subquery? LT`.
func captureLines(r *reader.Reader) ([]ast.Capture, error) {
	var out []ast.Capture
	for {
		blankLines(r)
		if isEntryBoundary(r) || isSectionStart(r) || isResponseStart(r) {
			return out, nil
		}
		start := r.Pos()
		mark := r.Mark()
		name, err := unquotedTemplate(r, func(b byte) bool { return b == ':' })
		if err != nil || len(name.Elements) == 0 {
			r.Restore(mark)
			return out, nil
		}
		if err := combinator.TryLiteral(":", r); err != nil {
			r.Restore(mark)
			return out, nil
		}
		combinator.ZeroOrMoreSpaces(r)
		q, err := query(r)
		if err != nil {
			return nil, commit(err)
		}
		var sub *ast.Subquery
		if ok := func() bool {
			m2 := r.Mark()
			if _, err := combinator.OneOrMoreSpaces(r); err != nil {
				r.Restore(m2)
				return false
			}
			sq, err := subquery(r)
			if err != nil {
				r.Restore(m2)
				return false
			}
			sub = &sq
			return true
		}(); !ok {
			_ = ok
		}
		if err := endOfLine(r); err != nil {
			return nil, commit(err)
		}
		capName := plainTemplateText(name)
		out = append(out, ast.Capture{Name: capName, Query: q, Subquery: sub, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}})
	}
}

// plainTemplateText concatenates a template's literal elements,
// ignoring interpolation (capture names are never templated).
func plainTemplateText(t ast.Template) string {
	s := ""
	for _, e := range t.Elements {
		if !e.IsExpression {
			s += e.Value
		}
	}
	return s
}
