package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legzo/hurl/internal/reader"
)

func TestQuotedTemplateLiteralOnly(t *testing.T) {
	r := reader.New(`"Foo"`)
	tmpl, err := quotedTemplate(r)
	require.NoError(t, err)
	require.Len(t, tmpl.Elements, 1)
	assert.False(t, tmpl.Elements[0].IsExpression)
	assert.Equal(t, "Foo", tmpl.Elements[0].Value)
}

func TestQuotedTemplateWithExpression(t *testing.T) {
	r := reader.New(`"Hello {{name}}"`)
	tmpl, err := quotedTemplate(r)
	require.NoError(t, err)
	require.Len(t, tmpl.Elements, 2)
	assert.False(t, tmpl.Elements[0].IsExpression)
	assert.Equal(t, "Hello ", tmpl.Elements[0].Value)
	assert.True(t, tmpl.Elements[1].IsExpression)
	assert.Equal(t, "name", tmpl.Elements[1].Expr.Variable.Name)
	assert.Equal(t, 10, tmpl.Elements[1].Expr.Variable.SourceInfo.Start.Column)
	assert.Equal(t, 14, tmpl.Elements[1].Expr.Variable.SourceInfo.End.Column)
}

func TestQuotedTemplateEscapes(t *testing.T) {
	r := reader.New(`"a\nb\"c"`)
	tmpl, err := quotedTemplate(r)
	require.NoError(t, err)
	require.Len(t, tmpl.Elements, 1)
	assert.Equal(t, "a\nb\"c", tmpl.Elements[0].Value)
	assert.Equal(t, `a\nb\"c`, tmpl.Elements[0].Encoded)
}

func TestQuotedTemplateMergesAdjacentLiterals(t *testing.T) {
	r := reader.New(`"{{a}}literal{{b}}"`)
	tmpl, err := quotedTemplate(r)
	require.NoError(t, err)
	require.Len(t, tmpl.Elements, 3)
	assert.True(t, tmpl.Elements[0].IsExpression)
	assert.False(t, tmpl.Elements[1].IsExpression)
	assert.Equal(t, "literal", tmpl.Elements[1].Value)
	assert.True(t, tmpl.Elements[2].IsExpression)
}

func TestQuotedTemplateUnterminatedFails(t *testing.T) {
	r := reader.New(`"unterminated`)
	_, err := quotedTemplate(r)
	require.Error(t, err)
}
