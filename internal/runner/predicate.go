package runner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/eval"
	"github.com/legzo/hurl/internal/variables"
)

// EvalPredicate applies pred to actual (the result of EvalQuery),
// rendering pred's argument against vars first. It returns nil on a
// pass, or an *AssertError carrying si (the asserting query's span)
// and a rendered "expected X, got Y" message on failure (spec.md §4.6
// step 2-3).
func EvalPredicate(pred ast.Predicate, actual ast.Value, vars *variables.Variables, si ast.SourceInfo) error {
	ok, expectedDesc, err := runPredicate(pred, actual, vars)
	if err != nil {
		return err
	}
	if pred.Negated {
		ok = !ok
	}
	if ok {
		return nil
	}

	verb := "to"
	if pred.Negated {
		verb = "not to"
	}
	return assertErrorf(si, "expected value %s %s, got %s", verb, expectedDesc, actual.DebugString())
}

func runPredicate(pred ast.Predicate, actual ast.Value, vars *variables.Variables) (bool, string, error) {
	switch pred.Fn {
	case ast.PredExists:
		return actual.Kind != ast.KindUnit, "exist", nil

	case ast.PredEqual:
		want, err := argValue(pred.Arg, vars)
		if err != nil {
			return false, "", err
		}
		return actual.Equal(want), fmt.Sprintf("equal %s", want.DebugString()), nil

	case ast.PredNotEqual:
		want, err := argValue(pred.Arg, vars)
		if err != nil {
			return false, "", err
		}
		return !actual.Equal(want), fmt.Sprintf("not equal %s", want.DebugString()), nil

	case ast.PredStartsWith:
		want, err := argString(pred.Arg, vars)
		if err != nil {
			return false, "", err
		}
		return strings.HasPrefix(actualString(actual), want), fmt.Sprintf("start with %q", want), nil

	case ast.PredEndsWith:
		want, err := argString(pred.Arg, vars)
		if err != nil {
			return false, "", err
		}
		return strings.HasSuffix(actualString(actual), want), fmt.Sprintf("end with %q", want), nil

	case ast.PredContains:
		return runContains(pred, actual, vars)

	case ast.PredMatches:
		pattern, err := argString(pred.Arg, vars)
		if err != nil {
			return false, "", err
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, "", &QueryError{Kind: InvalidRegex, Message: err.Error()}
		}
		return re.MatchString(actualString(actual)), fmt.Sprintf("match %q", pattern), nil

	case ast.PredCountEquals:
		want, err := argValue(pred.Arg, vars)
		if err != nil {
			return false, "", err
		}
		n := countOf(actual)
		return int64(n) == want.Integer, fmt.Sprintf("have count %d", want.Integer), nil

	case ast.PredIncludes:
		want, err := argValue(pred.Arg, vars)
		if err != nil {
			return false, "", err
		}
		for _, item := range actual.List {
			if item.Equal(want) {
				return true, fmt.Sprintf("include %s", want.DebugString()), nil
			}
		}
		return false, fmt.Sprintf("include %s", want.DebugString()), nil

	case ast.PredGreater:
		return compareNumeric(actual, pred.Arg, vars, func(a, b float64) bool { return a > b }, "be greater than")

	case ast.PredGreaterOrEqual:
		return compareNumeric(actual, pred.Arg, vars, func(a, b float64) bool { return a >= b }, "be greater than or equal to")

	case ast.PredLess:
		return compareNumeric(actual, pred.Arg, vars, func(a, b float64) bool { return a < b }, "be less than")

	case ast.PredLessOrEqual:
		return compareNumeric(actual, pred.Arg, vars, func(a, b float64) bool { return a <= b }, "be less than or equal to")

	default:
		return false, "", fmt.Errorf("unknown predicate function")
	}
}

// runContains implements `contains`: substring presence on a String
// actual value, element presence on a List (spec.md §4.6 step 2).
func runContains(pred ast.Predicate, actual ast.Value, vars *variables.Variables) (bool, string, error) {
	if actual.Kind == ast.KindList {
		want, err := argValue(pred.Arg, vars)
		if err != nil {
			return false, "", err
		}
		for _, item := range actual.List {
			if item.Equal(want) {
				return true, fmt.Sprintf("contain %s", want.DebugString()), nil
			}
		}
		return false, fmt.Sprintf("contain %s", want.DebugString()), nil
	}
	want, err := argString(pred.Arg, vars)
	if err != nil {
		return false, "", err
	}
	return strings.Contains(actualString(actual), want), fmt.Sprintf("contain %q", want), nil
}

func compareNumeric(actual ast.Value, arg ast.PredicateArg, vars *variables.Variables, cmp func(a, b float64) bool, desc string) (bool, string, error) {
	want, err := argValue(arg, vars)
	if err != nil {
		return false, "", err
	}
	a, aok := actual.AsFloat64()
	b, bok := want.AsFloat64()
	if !aok || !bok {
		return false, "", fmt.Errorf("%s comparison requires numeric operands", desc)
	}
	return cmp(a, b), fmt.Sprintf("%s %s", desc, want.DebugString()), nil
}

func countOf(v ast.Value) int {
	switch v.Kind {
	case ast.KindList:
		return len(v.List)
	case ast.KindObject:
		return len(v.ObjectKeys)
	case ast.KindNodeset:
		return v.Nodeset
	default:
		return 0
	}
}

func actualString(v ast.Value) string {
	if v.IsRenderable() {
		return v.Render()
	}
	return v.DebugString()
}

// argValue resolves a predicate argument to a Value: ArgValue is
// already one, ArgTemplate must be rendered against vars first.
func argValue(arg ast.PredicateArg, vars *variables.Variables) (ast.Value, error) {
	switch arg.Kind {
	case ast.ArgValue:
		return arg.Value, nil
	case ast.ArgTemplate:
		return eval.EvalValue(arg.Template, vars)
	default:
		return ast.Value{}, fmt.Errorf("predicate requires an argument")
	}
}

func argString(arg ast.PredicateArg, vars *variables.Variables) (string, error) {
	v, err := argValue(arg, vars)
	if err != nil {
		return "", err
	}
	return actualString(v), nil
}
