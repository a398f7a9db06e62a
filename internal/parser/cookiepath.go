package parser

import (
	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/combinator"
	"github.com/legzo/hurl/internal/reader"
)

var cookieAttributeNames = []struct {
	kind ast.CookieAttributeKind
	name string
}{
	{ast.CookieAttrExpires, "Expires"},
	{ast.CookieAttrMaxAge, "MaxAge"},
	{ast.CookieAttrDomain, "Domain"},
	{ast.CookieAttrHTTPOnly, "HttpOnly"},
	{ast.CookieAttrPath, "Path"},
	{ast.CookieAttrSecure, "Secure"},
	{ast.CookieAttrSameSite, "SameSite"},
	{ast.CookieAttrValue, "Value"},
}

// cookiePath parses the inner grammar of a `cookie "Name[Attribute]"`
// query argument: a bare (unquoted, un-escaped within this sub-reader)
// cookie name followed by an optional `[Attribute]` suffix.
//
// It is always called on a reader produced by reader.Sub with its
// position offset by +1 column past the outer quote, per the cookie
// path re-parse design note: diagnostics raised here must project
// back onto the outer source span.
func cookiePath(r *reader.Reader) (ast.CookiePath, error) {
	start := r.Pos()
	nameStart := r.Pos()
	nameBuf := []byte{}
	for {
		b, ok := r.PeekByte()
		if !ok || b == '[' {
			break
		}
		c, _ := r.ConsumeChar()
		nameBuf = append(nameBuf, c)
	}
	name := ast.Template{
		Quoted: false,
		Elements: []ast.TemplateElement{
			{Value: string(nameBuf), Encoded: string(nameBuf)},
		},
		SourceInfo: ast.SourceInfo{Start: nameStart, End: r.Pos()},
	}
	if len(nameBuf) == 0 {
		name.Elements = nil
	}

	attr, ok := cookieAttribute(r)
	var attrPtr *ast.CookieAttribute
	if ok {
		attrPtr = &attr
	}
	return ast.CookiePath{Name: name, Attribute: attrPtr, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}

// cookieAttribute parses the `[Attribute]` suffix. The returned
// SourceInfo spans the attribute keyword only, excluding the brackets
// and any padding spaces.
func cookieAttribute(r *reader.Reader) (ast.CookieAttribute, bool) {
	mark := r.Mark()
	if err := combinator.TryLiteral("[", r); err != nil {
		return ast.CookieAttribute{}, false
	}
	space0 := combinator.ZeroOrMoreSpaces(r)

	nameStart := r.Pos()
	kind, raw, ok := matchCookieAttributeName(r)
	if !ok {
		r.Restore(mark)
		return ast.CookieAttribute{}, false
	}
	nameEnd := r.Pos()
	space1 := combinator.ZeroOrMoreSpaces(r)
	if err := combinator.TryLiteral("]", r); err != nil {
		r.Restore(mark)
		return ast.CookieAttribute{}, false
	}
	return ast.CookieAttribute{
		Space0:     space0,
		Kind:       kind,
		Raw:        raw,
		Space1:     space1,
		SourceInfo: ast.SourceInfo{Start: nameStart, End: nameEnd},
	}, true
}

func matchCookieAttributeName(r *reader.Reader) (ast.CookieAttributeKind, string, bool) {
	for _, cand := range cookieAttributeNames {
		if r.StartsWith(cand.name) {
			r.ConsumeN(len(cand.name))
			return cand.kind, cand.name, true
		}
	}
	return 0, "", false
}
