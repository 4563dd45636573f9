package reader

import (
	"testing"

	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAtoms(t *testing.T) {
	forms, err := Read(`42 3.5 "hi" true false nil foo`, "test.hql")
	require.Nil(t, err)
	require.Len(t, forms, 7)
	assert.Equal(t, ast.KindLiteral, forms[0].Kind)
	assert.Equal(t, float64(42), forms[0].Number)
	assert.Equal(t, ast.KindSymbol, forms[6].Kind)
	assert.Equal(t, "foo", forms[6].Name)
}

func TestReadList(t *testing.T) {
	forms, err := Read(`(+ 1 2)`, "test.hql")
	require.Nil(t, err)
	require.Len(t, forms, 1)
	list := forms[0]
	assert.Equal(t, ast.KindList, list.Kind)
	assert.Equal(t, ast.ProvCall, list.Provenance)
	assert.Equal(t, "+", list.HeadSymbol())
	assert.Len(t, list.Args(), 2)
}

func TestReadVectorProvenance(t *testing.T) {
	forms, err := Read(`[1 2 3]`, "test.hql")
	require.Nil(t, err)
	list := forms[0]
	assert.Equal(t, ast.ProvVector, list.Provenance)
	assert.Equal(t, "vector", list.HeadSymbol())
	assert.Len(t, list.Args(), 3)
}

func TestReadMapProvenance(t *testing.T) {
	forms, err := Read(`{:a 1 :b 2}`, "test.hql")
	require.Nil(t, err)
	list := forms[0]
	assert.Equal(t, ast.ProvMap, list.Provenance)
	assert.Equal(t, "hash-map", list.HeadSymbol())
}

func TestReaderMacros(t *testing.T) {
	cases := map[string]string{
		"'x":   "quote",
		"`x":   "quasiquote",
		"~x":   "unquote",
		"~@x":  "unquote-splicing",
	}
	for src, head := range cases {
		forms, err := Read(src, "test.hql")
		require.Nil(t, err, src)
		require.Len(t, forms, 1)
		assert.Equal(t, head, forms[0].HeadSymbol(), src)
	}
}

func TestUnclosedList(t *testing.T) {
	_, err := Read(`(+ 1 2`, "test.hql")
	require.NotNil(t, err)
	assert.Equal(t, Unclosed, err.Kind)
	assert.Equal(t, "list", err.Which)
}

func TestUnclosedVector(t *testing.T) {
	_, err := Read(`[1 2`, "test.hql")
	require.NotNil(t, err)
	assert.Equal(t, Unclosed, err.Kind)
	assert.Equal(t, "vector", err.Which)
}

func TestUnexpectedClose(t *testing.T) {
	_, err := Read(`(+ 1 2))`, "test.hql")
	require.NotNil(t, err)
	assert.Equal(t, UnexpectedClose, err.Kind)
}

func TestMismatchedCloseDelimiter(t *testing.T) {
	_, err := Read(`(foo]`, "test.hql")
	require.NotNil(t, err)
	assert.Equal(t, UnexpectedClose, err.Kind)
}

func TestBigIntLiteral(t *testing.T) {
	forms, err := Read(`9007199254740993n`, "test.hql")
	require.Nil(t, err)
	require.Len(t, forms, 1)
	assert.True(t, forms[0].IsBigInt)
}

func TestTemplateLiteral(t *testing.T) {
	forms, err := Read(`"hello \(name), you are \(age) years old"`, "test.hql")
	require.Nil(t, err)
	require.Len(t, forms, 1)
	list := forms[0]
	assert.Equal(t, ast.KindList, list.Kind)
	assert.Equal(t, "template-literal", list.HeadSymbol())
	// text, expr(name), text, expr(age), text
	assert.True(t, len(list.Children) >= 5)
	assert.Equal(t, "name", list.Children[2].Name)
}

func TestPlainStringNoTemplateSplit(t *testing.T) {
	forms, err := Read(`"no interpolation here"`, "test.hql")
	require.Nil(t, err)
	assert.Equal(t, ast.KindLiteral, forms[0].Kind)
	assert.Equal(t, "no interpolation here", forms[0].Str)
}

func TestNestedForms(t *testing.T) {
	forms, err := Read(`(defn add [a b] (+ a b))`, "test.hql")
	require.Nil(t, err)
	require.Len(t, forms, 1)
	list := forms[0]
	assert.Equal(t, "defn", list.HeadSymbol())
	args := list.Args()
	require.Len(t, args, 3)
	assert.Equal(t, ast.ProvVector, args[1].Provenance)
}

func TestDotMethodSymbolRoundTrip(t *testing.T) {
	forms, err := Read(`(.toString x)`, "test.hql")
	require.Nil(t, err)
	info := ast.AnalyzeSymbol(forms[0].HeadSymbol())
	assert.True(t, info.IsDotMethod)
	assert.Equal(t, "toString", info.MethodName)
}
