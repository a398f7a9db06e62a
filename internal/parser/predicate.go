package parser

import (
	"strings"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/combinator"
	"github.com/legzo/hurl/internal/reader"
)

var predicateFns = []struct {
	fn      ast.PredicateFn
	keyword string
	hasArg  bool
}{
	{ast.PredEqual, "equals", true},
	{ast.PredNotEqual, "notEquals", true},
	{ast.PredStartsWith, "startsWith", true},
	{ast.PredEndsWith, "endsWith", true},
	{ast.PredContains, "contains", true},
	{ast.PredMatches, "matches", true},
	{ast.PredCountEquals, "countEquals", true},
	{ast.PredIncludes, "includes", true},
	{ast.PredGreaterOrEqual, "greaterThanOrEquals", true},
	{ast.PredGreater, "greaterThan", true},
	{ast.PredLessOrEqual, "lessThanOrEquals", true},
	{ast.PredLess, "lessThan", true},
	{ast.PredExists, "exists", false},
}

// predicate parses `"not"? SP predicate-fn SP arg?`.
func predicate(r *reader.Reader) (ast.Predicate, error) {
	start := r.Pos()
	negated := false
	if _, ok := combinator.Optional(func(r *reader.Reader) (struct{}, error) {
		if err := combinator.TryLiteral("not", r); err != nil {
			return struct{}{}, err
		}
		if _, err := combinator.OneOrMoreSpaces(r); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, r); ok {
		negated = true
	}

	fn, hasArg, err := predicateFn(r)
	if err != nil {
		return ast.Predicate{}, err
	}

	var arg ast.PredicateArg
	if hasArg {
		if _, err := combinator.OneOrMoreSpaces(r); err != nil {
			return ast.Predicate{}, commit(err)
		}
		arg, err = predicateArg(r)
		if err != nil {
			return ast.Predicate{}, commit(err)
		}
	}

	return ast.Predicate{
		Negated:    negated,
		Fn:         fn,
		Arg:        arg,
		SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()},
	}, nil
}

func predicateFn(r *reader.Reader) (ast.PredicateFn, bool, error) {
	start := r.Pos()
	for _, cand := range predicateFns {
		if r.StartsWith(cand.keyword) {
			r.ConsumeN(len(cand.keyword))
			return cand.fn, cand.hasArg, nil
		}
	}
	return 0, false, &combinator.ParseError{
		SourceInfo: ast.SourceInfo{Start: start, End: start},
		Message:    "expected a predicate function",
		Fixme:      "one of: equals, notEquals, startsWith, endsWith, contains, matches, exists, countEquals, includes, greaterThan[OrEquals], lessThan[OrEquals]",
	}
}

// predicateArg parses a predicate's argument: either a quoted
// template (resolved against variables at runtime) or a literal
// Value (bool, null, integer or float).
func predicateArg(r *reader.Reader) (ast.PredicateArg, error) {
	if r.Peek(1) == `"` {
		tmpl, err := quotedTemplate(r)
		if err != nil {
			return ast.PredicateArg{}, err
		}
		return ast.PredicateArg{Kind: ast.ArgTemplate, Template: tmpl}, nil
	}
	if r.StartsWith("true") {
		r.ConsumeN(4)
		return ast.PredicateArg{Kind: ast.ArgValue, Value: ast.Bool(true)}, nil
	}
	if r.StartsWith("false") {
		r.ConsumeN(5)
		return ast.PredicateArg{Kind: ast.ArgValue, Value: ast.Bool(false)}, nil
	}
	if r.StartsWith("null") {
		r.ConsumeN(4)
		return ast.PredicateArg{Kind: ast.ArgValue, Value: ast.Null()}, nil
	}
	v, err := number(r)
	if err != nil {
		return ast.PredicateArg{}, err
	}
	return ast.PredicateArg{Kind: ast.ArgValue, Value: v}, nil
}

// number parses an Integer or Float literal: an optional '-', digits,
// and an optional '.' followed by digits, preserving the fractional
// digit string verbatim so re-rendering never invents or drops
// trailing zeros.
func number(r *reader.Reader) (ast.Value, error) {
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
		return ast.Value{}, &combinator.ParseError{
			SourceInfo: ast.SourceInfo{Start: start, End: start},
			Message:    "expected a number",
		}
	}
	isFloat := false
	var frac string
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
		} else {
			isFloat = true
			frac = r.Buf()[fracStart:r.Cursor()]
		}
	}
	text := r.Buf()[startOff:r.Cursor()]
	if !isFloat {
		n, err := parseInt(text)
		if err != nil {
			return ast.Value{}, &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}, Message: "malformed integer"}
		}
		return ast.Integer(n), nil
	}
	intPart := strings.TrimSuffix(text, "."+frac)
	n, err := parseInt(intPart)
	if err != nil {
		return ast.Value{}, &combinator.ParseError{SourceInfo: ast.SourceInfo{Start: start, End: r.Pos()}, Message: "malformed float"}
	}
	return ast.Float(n, frac), nil
}

func parseInt(s string) (int64, error) {
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var n int64
	for _, c := range s {
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}
