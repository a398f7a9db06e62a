package ast

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	KindInteger ValueKind = iota
	KindFloat
	KindBool
	KindString
	KindList
	KindObject
	KindBytes
	KindNull
	KindNodeset
	KindUnit
)

// Value is the runtime tagged union substituted into templates and
// compared against by predicates. Only Integer, Float, Bool and
// String are renderable (see IsRenderable).
type Value struct {
	Kind ValueKind

	Integer int64

	// Float stores the literal's integer and fractional parts
	// separately so re-rendering never loses or invents trailing
	// zeros (e.g. "1.50" must round-trip as "1.50", not "1.5").
	FloatInt   int64
	FloatFrac  string
	Bool       bool
	Str        string
	List       []Value
	Object     map[string]Value
	ObjectKeys []string // preserves insertion order for Object, since map iteration is not stable
	Bytes      []byte
	Nodeset    int
}

// Null is the Value representing JSON/template null.
func Null() Value { return Value{Kind: KindNull} }

// Unit is the Value representing "no meaningful result" (e.g. a
// missing header queried without a predicate).
func Unit() Value { return Value{Kind: KindUnit} }

// Integer constructs an Integer Value.
func Integer(v int64) Value { return Value{Kind: KindInteger, Integer: v} }

// Bool constructs a Bool Value.
func Bool(v bool) Value { return Value{Kind: KindBool, Bool: v} }

// String constructs a String Value.
func String(v string) Value { return Value{Kind: KindString, Str: v} }

// Bytes constructs a Bytes Value.
func Bytes(v []byte) Value { return Value{Kind: KindBytes, Bytes: v} }

// NodesetOf constructs a Nodeset Value holding a match count.
func NodesetOf(count int) Value { return Value{Kind: KindNodeset, Nodeset: count} }

// Float constructs a Float Value from its integer and fractional
// parts. frac is the verbatim digit string after the decimal point
// (e.g. "50" for 1.50), so leading/trailing zeros survive.
func Float(intPart int64, frac string) Value {
	return Value{Kind: KindFloat, FloatInt: intPart, FloatFrac: frac}
}

// ListOf constructs a List Value.
func ListOf(items []Value) Value { return Value{Kind: KindList, List: items} }

// ObjectOf constructs an Object Value, keys in the given order.
func ObjectOf(keys []string, fields map[string]Value) Value {
	return Value{Kind: KindObject, ObjectKeys: keys, Object: fields}
}

// IsRenderable holds for Integer, Float, Bool and String only, per
// the template evaluator's substitution rule.
func (v Value) IsRenderable() bool {
	switch v.Kind {
	case KindInteger, KindFloat, KindBool, KindString:
		return true
	default:
		return false
	}
}

// Render stringifies a renderable Value for template substitution.
// It panics if v is not renderable; callers must check IsRenderable
// first (the template evaluator always does).
func (v Value) Render() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Integer, 10)
	case KindFloat:
		if v.FloatFrac == "" {
			return strconv.FormatInt(v.FloatInt, 10) + "."
		}
		return strconv.FormatInt(v.FloatInt, 10) + "." + v.FloatFrac
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return v.Str
	default:
		panic(fmt.Sprintf("ast: Render called on non-renderable Value kind %d", v.Kind))
	}
}

// DebugString formats v the way an UnrenderableVariable diagnostic
// does: compact, JSON-like, stable key order for objects.
func (v Value) DebugString() string {
	switch v.Kind {
	case KindInteger:
		return strconv.FormatInt(v.Integer, 10)
	case KindFloat:
		return v.FloatInt2Str()
	case KindBool:
		return v.Render()
	case KindString:
		return strconv.Quote(v.Str)
	case KindNull:
		return "null"
	case KindUnit:
		return "unit"
	case KindBytes:
		return fmt.Sprintf("bytes<%d>", len(v.Bytes))
	case KindNodeset:
		return fmt.Sprintf("nodeset<%d>", v.Nodeset)
	case KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = e.DebugString()
		}
		return "[" + strings.Join(parts, ",") + "]"
	case KindObject:
		keys := append([]string(nil), v.ObjectKeys...)
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, strconv.Quote(k)+":"+v.Object[k].DebugString())
		}
		return "{" + strings.Join(parts, ",") + "}"
	default:
		return "?"
	}
}

// FloatInt2Str renders the float's int+frac parts without validating
// renderability, used by DebugString.
func (v Value) FloatInt2Str() string {
	if v.FloatFrac == "" {
		return strconv.FormatInt(v.FloatInt, 10)
	}
	return strconv.FormatInt(v.FloatInt, 10) + "." + v.FloatFrac
}

// Equal implements the structural equality used by the `equals`
// predicate: same Kind, deep-equal payload. Integer(1) and Float(1,"")
// are NOT equal to each other; that coercion, if any, happens at the
// predicate layer, not here.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindInteger:
		return v.Integer == other.Integer
	case KindFloat:
		return v.FloatInt == other.FloatInt && v.FloatFrac == other.FloatFrac
	case KindBool:
		return v.Bool == other.Bool
	case KindString:
		return v.Str == other.Str
	case KindBytes:
		return string(v.Bytes) == string(other.Bytes)
	case KindNull, KindUnit:
		return true
	case KindNodeset:
		return v.Nodeset == other.Nodeset
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.ObjectKeys) != len(other.ObjectKeys) {
			return false
		}
		for _, k := range v.ObjectKeys {
			ov, ok := other.Object[k]
			if !ok || !v.Object[k].Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

// AsFloat64 returns a float64 view of Integer/Float values for
// ordering comparisons (`greater`, `less`, ...). ok is false for any
// other kind.
func (v Value) AsFloat64() (f float64, ok bool) {
	switch v.Kind {
	case KindInteger:
		return float64(v.Integer), true
	case KindFloat:
		s := v.FloatInt2Str()
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
