package parser

import (
	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/combinator"
	"github.com/legzo/hurl/internal/reader"
)

// jsonValue parses a JSON literal as used in a hurl file's JSON body:
// a superset of JSON that allows `{{var}}` interpolation inside
// string values. Numbers are kept in their original lexical form
// since re-serializing a parsed float/int would lose the user's
// leading/trailing zeros. Whitespace between tokens is skipped, not
// retained: hurlfmt's JSON rendering is a normalizing formatter, not
// a byte-exact echo of the input's spacing.
func jsonValue(r *reader.Reader) (ast.JSONValue, error) {
	start := r.Pos()
	b, ok := r.PeekByte()
	if !ok {
		return ast.JSONValue{}, &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: start, End: start}, Message: "expected a JSON value"}
	}
	switch {
	case b == '"':
		tmpl, err := quotedTemplate(r)
		if err != nil {
			return ast.JSONValue{}, err
		}
		return ast.JSONValue{Kind: ast.JSONString, String: tmpl, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
	case b == '{':
		return jsonObject(r)
	case b == '[':
		return jsonList(r)
	case r.StartsWith("true"):
		r.ConsumeN(4)
		return ast.JSONValue{Kind: ast.JSONBool, Bool: true, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
	case r.StartsWith("false"):
		r.ConsumeN(5)
		return ast.JSONValue{Kind: ast.JSONBool, Bool: false, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
	case r.StartsWith("null"):
		r.ConsumeN(4)
		return ast.JSONValue{Kind: ast.JSONNull, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
	case b == '-' || (b >= '0' && b <= '9'):
		return jsonNumber(r)
	default:
		return ast.JSONValue{}, &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: start, End: start}, Message: "unrecognized JSON value"}
	}
}

// jsonNumber parses a JSON number, rejecting a leading zero followed
// by further digits (forbidden per spec) while preserving the exact
// lexical text (including trailing fractional zeros) for round-trip
// fidelity.
func jsonNumber(r *reader.Reader) (ast.JSONValue, error) {
	start := r.Pos()
	startOff := r.Cursor()
	if b, ok := r.PeekByte(); ok && b == '-' {
		r.ConsumeChar()
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
		return ast.JSONValue{}, &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: start, End: start}, Message: "expected digits"}
	}
	intText := r.Buf()[digitsStart:r.Cursor()]
	if len(intText) > 1 && intText[0] == '0' {
		return ast.JSONValue{}, &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}, Message: "leading zeros are not allowed in JSON numbers"}
	}
	if b, ok := r.PeekByte(); ok && b == '.' {
		mark := r.Mark()
		r.ConsumeChar()
		fracStart := r.Cursor()
		for {
			b, ok := r.PeekByte()
			if !ok || b < '0' || b > '9' {
				break
			}
			r.ConsumeChar()
		}
		if r.Cursor() == fracStart {
			r.Restore(mark)
		}
	}
	if b, ok := r.PeekByte(); ok && (b == 'e' || b == 'E') {
		mark := r.Mark()
		r.ConsumeChar()
		if b, ok := r.PeekByte(); ok && (b == '+' || b == '-') {
			r.ConsumeChar()
		}
		expStart := r.Cursor()
		for {
			b, ok := r.PeekByte()
			if !ok || b < '0' || b > '9' {
				break
			}
			r.ConsumeChar()
		}
		if r.Cursor() == expStart {
			r.Restore(mark)
		}
	}
	return ast.JSONValue{Kind: ast.JSONNumber, Number: r.Buf()[startOff:r.Cursor()], SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}

func jsonList(r *reader.Reader) (ast.JSONValue, error) {
	start := r.Pos()
	if err := combinator.TryLiteral("[", r); err != nil {
		return ast.JSONValue{}, err
	}
	var items []ast.JSONValue
	combinator.ZeroOrMoreSpaces(r)
	if b, ok := r.PeekByte(); ok && b == ']' {
		r.ConsumeChar()
		return ast.JSONValue{Kind: ast.JSONList, List: items, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
	}
	for {
		combinator.ZeroOrMoreSpaces(r)
		v, err := jsonValue(r)
		if err != nil {
			return ast.JSONValue{}, commit(err)
		}
		items = append(items, v)
		combinator.ZeroOrMoreSpaces(r)
		b, ok := r.PeekByte()
		if ok && b == ',' {
			r.ConsumeChar()
			continue
		}
		if ok && b == ']' {
			r.ConsumeChar()
			break
		}
		return ast.JSONValue{}, &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: r.Pos(), End: r.Pos()}, Message: "expected , or ]", Commit: true}
	}
	return ast.JSONValue{Kind: ast.JSONList, List: items, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}

func jsonObject(r *reader.Reader) (ast.JSONValue, error) {
	start := r.Pos()
	if err := combinator.TryLiteral("{", r); err != nil {
		return ast.JSONValue{}, err
	}
	var members []ast.JSONMember
	combinator.ZeroOrMoreSpaces(r)
	if b, ok := r.PeekByte(); ok && b == '}' {
		r.ConsumeChar()
		return ast.JSONValue{Kind: ast.JSONObject, Object: members, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
	}
	for {
		combinator.ZeroOrMoreSpaces(r)
		memberStart := r.Pos()
		key, err := quotedString(r)
		if err != nil {
			return ast.JSONValue{}, commit(err)
		}
		combinator.ZeroOrMoreSpaces(r)
		if err := combinator.TryLiteral(":", r); err != nil {
			return ast.JSONValue{}, commit(err)
		}
		combinator.ZeroOrMoreSpaces(r)
		v, err := jsonValue(r)
		if err != nil {
			return ast.JSONValue{}, commit(err)
		}
		members = append(members, ast.JSONMember{
			Key:        key,
			Value:      v,
			SourceInfo: ast.SourceInfo{Start: memberStart, End: r.Pos()},
		})
		combinator.ZeroOrMoreSpaces(r)
		b, ok := r.PeekByte()
		if ok && b == ',' {
			r.ConsumeChar()
			continue
		}
		if ok && b == '}' {
			r.ConsumeChar()
			break
		}
		return ast.JSONValue{}, &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: r.Pos(), End: r.Pos()}, Message: "expected , or }", Commit: true}
	}
	return ast.JSONValue{Kind: ast.JSONObject, Object: members, SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}}, nil
}
