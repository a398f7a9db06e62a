package parser

import (
	"testing"

	"github.com/legzo/hurl/internal/ast"
	"github.com/legzo/hurl/internal/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These cases are adapted directly from the original implementation's
// parser/query.rs test table (see SPEC_FULL.md §6.1), with the Rust
// source_info::init(line, col, line, col) numbers kept exactly — they
// are already 1-based line/column pairs.

func TestStatusQuery(t *testing.T) {
	r := reader.New("status")
	q, err := query(r)
	require.NoError(t, err)
	assert.Equal(t, ast.QueryStatus, q.Value.Kind)
	assert.Equal(t, ast.NewSourceInfo(1, 1, 1, 7), q.SourceInfo)
}

func TestHeaderQuery(t *testing.T) {
	r := reader.New(`header "Foo"`)
	v, err := headerQuery(r)
	require.NoError(t, err)
	assert.Equal(t, ast.QueryHeader, v.Kind)
	require.Len(t, v.HeaderName.Elements, 1)
	assert.Equal(t, "Foo", v.HeaderName.Elements[0].Value)
	assert.Equal(t, ast.NewSourceInfo(1, 8, 1, 13), v.HeaderName.SourceInfo)
}

func TestCookieQuery(t *testing.T) {
	r := reader.New(`cookie "Foo[Domain]"`)
	v, err := cookieQuery(r)
	require.NoError(t, err)
	assert.Equal(t, ast.QueryCookie, v.Kind)
	require.Len(t, v.Cookie.Name.Elements, 1)
	assert.Equal(t, "Foo", v.Cookie.Name.Elements[0].Value)
	assert.Equal(t, ast.NewSourceInfo(1, 9, 1, 12), v.Cookie.Name.SourceInfo)
	require.NotNil(t, v.Cookie.Attribute)
	assert.Equal(t, ast.CookieAttrDomain, v.Cookie.Attribute.Kind)
	assert.Equal(t, ast.NewSourceInfo(1, 13, 1, 19), v.Cookie.Attribute.SourceInfo)
	assert.Equal(t, 20, r.Cursor())
}

func TestXpathQuery(t *testing.T) {
	r := reader.New(`xpath "normalize-space(//head/title)"`)
	v, err := xpathQuery(r)
	require.NoError(t, err)
	assert.Equal(t, ast.QueryXpath, v.Kind)
	assert.Equal(t, "normalize-space(//head/title)", v.XpathExpr.Elements[0].Value)
	assert.Equal(t, ast.NewSourceInfo(1, 7, 1, 38), v.XpathExpr.SourceInfo)
}

func TestJsonpathQuery(t *testing.T) {
	r := reader.New(`jsonpath "$['statusCode']"`)
	v, err := jsonpathQuery(r)
	require.NoError(t, err)
	assert.Equal(t, ast.QueryJsonpath, v.Kind)
	assert.Equal(t, "$['statusCode']", v.JSONExpr.Elements[0].Value)
	assert.Equal(t, ast.NewSourceInfo(1, 10, 1, 27), v.JSONExpr.SourceInfo)

	r2 := reader.New(`jsonpath "$.success"`)
	v2, err := jsonpathQuery(r2)
	require.NoError(t, err)
	assert.Equal(t, "$.success", v2.JSONExpr.Elements[0].Value)
	assert.Equal(t, ast.NewSourceInfo(1, 10, 1, 21), v2.JSONExpr.SourceInfo)
}

func TestQueryChoiceRestoresOnFailure(t *testing.T) {
	r := reader.New("bogus-query")
	_, err := query(r)
	require.Error(t, err)
	assert.Equal(t, "bogus-query", r.Remaining())
}
