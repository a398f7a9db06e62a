package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/reader"
)

func TestJSONNumberPreservesLexicalForm(t *testing.T) {
	r := reader.New("1.50")
	v, err := jsonValue(r)
	require.NoError(t, err)
	assert.Equal(t, ast.JSONNumber, v.Kind)
	assert.Equal(t, "1.50", v.Number)
}

func TestJSONNumberRejectsLeadingZero(t *testing.T) {
	r := reader.New("007")
	_, err := jsonValue(r)
	require.Error(t, err)
}

func TestJSONObjectSkipsInteriorWhitespace(t *testing.T) {
	r := reader.New(`{  "a" :  1  , "b": 2 }`)
	v, err := jsonValue(r)
	require.NoError(t, err)
	require.Len(t, v.Object, 2)
	assert.Equal(t, "a", v.Object[0].Key)
	assert.Equal(t, "1", v.Object[0].Value.Number)
	assert.Equal(t, "b", v.Object[1].Key)
	assert.Equal(t, "2", v.Object[1].Value.Number)
}

func TestJSONStringAllowsInterpolation(t *testing.T) {
	r := reader.New(`{"name": "{{who}}"}`)
	v, err := jsonValue(r)
	require.NoError(t, err)
	require.Len(t, v.Object, 1)
	str := v.Object[0].Value
	assert.Equal(t, ast.JSONString, str.Kind)
	require.Len(t, str.String.Elements, 1)
	assert.True(t, str.String.Elements[0].IsExpression)
	assert.Equal(t, "who", str.String.Elements[0].Expr.Variable.Name)
}

func TestJSONListSkipsInteriorWhitespace(t *testing.T) {
	r := reader.New(`[1, 2,3 ]`)
	v, err := jsonValue(r)
	require.NoError(t, err)
	require.Len(t, v.List, 3)
	assert.Equal(t, "1", v.List[0].Number)
	assert.Equal(t, "2", v.List[1].Number)
	assert.Equal(t, "3", v.List[2].Number)
}
