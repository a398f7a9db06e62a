package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/parser"
	"github.com/legzo/hurl/internal/variables"
)

func TestEvalPureLiteral(t *testing.T) {
	tmpl, err := parser.ParseTemplate(`"Hello World"`)
	require.NoError(t, err)
	vars := variables.New()
	got, err := Eval(tmpl, vars)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got)
}

func TestEvalSubstitutesVariable(t *testing.T) {
	tmpl, err := parser.ParseTemplate(`"Hello {{name}}"`)
	require.NoError(t, err)
	vars := variables.New()
	vars.Set("name", ast.String("World"))
	got, err := Eval(tmpl, vars)
	require.NoError(t, err)
	assert.Equal(t, "Hello World", got)
}

func TestEvalMissingVariableReportsExactSpan(t *testing.T) {
	tmpl, err := parser.ParseTemplate(`"Hello {{name}}"`)
	require.NoError(t, err)
	vars := variables.New()
	_, err = Eval(tmpl, vars)
	require.Error(t, err)
	te, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, VariableNotDefined, te.Kind)
	assert.Equal(t, tmpl.Elements[1].Expr.Variable.SourceInfo, te.SourceInfo)
}

func TestEvalUnrenderableVariable(t *testing.T) {
	tmpl, err := parser.ParseTemplate(`"Hello {{name}}"`)
	require.NoError(t, err)
	vars := variables.New()
	vars.Set("name", ast.ListOf([]ast.Value{ast.Integer(1), ast.Integer(2)}))
	_, err = Eval(tmpl, vars)
	require.Error(t, err)
	te, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, Unrenderable, te.Kind)
	assert.Equal(t, "[1,2]", te.Value)
	assert.Equal(t, tmpl.Elements[1].Expr.Variable.SourceInfo, te.SourceInfo)
}

func TestEvalRendersFloatPreservingFraction(t *testing.T) {
	tmpl, err := parser.ParseTemplate(`"{{price}}"`)
	require.NoError(t, err)
	vars := variables.New()
	vars.Set("price", ast.Float(1, "50"))
	got, err := Eval(tmpl, vars)
	require.NoError(t, err)
	assert.Equal(t, "1.50", got)
}
