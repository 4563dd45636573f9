package lower

import (
	"testing"

	"github.com/hlvm-dev/hql/internal/ir"
	"github.com/hlvm-dev/hql/internal/reader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lowerSource(t *testing.T, src string) *ir.Program {
	t.Helper()
	forms, perr := reader.Read(src, "test.hql")
	require.Nil(t, perr)
	prog, err := Lower(forms, ".")
	require.NoError(t, err)
	return prog
}

func TestLowerGlobalConstWrapsDeepFreeze(t *testing.T) {
	prog := lowerSource(t, `(const x 10)`)
	require.Len(t, prog.Body, 1)
	decl := prog.Body[0].(*ir.VariableDeclaration)
	assert.Equal(t, ir.DeclConst, decl.DKind)
	call, ok := decl.Declarators[0].Init.(*ir.CallExpression)
	require.True(t, ok)
	assert.Equal(t, "__hql_deepFreeze", call.Callee.(*ir.Identifier).Name)
}

func TestLowerGlobalLetDoesNotFreeze(t *testing.T) {
	prog := lowerSource(t, `(let x 10)`)
	decl := prog.Body[0].(*ir.VariableDeclaration)
	assert.Equal(t, ir.DeclLet, decl.DKind)
	_, isCall := decl.Declarators[0].Init.(*ir.CallExpression)
	assert.False(t, isCall)
}

func TestLowerLocalLetBuildsIIFE(t *testing.T) {
	prog := lowerSource(t, `(let (n 10) (* n n))`)
	stmt := prog.Body[0].(*ir.ExpressionStatement)
	call, ok := stmt.Expression.(*ir.CallExpression)
	require.True(t, ok)
	fn, ok := call.Callee.(*ir.FunctionExpression)
	require.True(t, ok)
	require.Len(t, fn.Body.Body, 2)
	_, isDecl := fn.Body.Body[0].(*ir.VariableDeclaration)
	assert.True(t, isDecl)
	ret, ok := fn.Body.Body[1].(*ir.ReturnStatement)
	require.True(t, ok)
	_, isBinary := ret.Argument.(*ir.BinaryExpression)
	assert.True(t, isBinary)
}

func TestLowerIfAsConditionalExpression(t *testing.T) {
	prog := lowerSource(t, `(const x (if true 1 2))`)
	decl := prog.Body[0].(*ir.VariableDeclaration)
	call, ok := decl.Declarators[0].Init.(*ir.CallExpression)
	require.True(t, ok) // wrapped in deepFreeze
	_, isCond := call.Arguments[0].(*ir.ConditionalExpression)
	assert.True(t, isCond)
}

func TestLowerNamedFn(t *testing.T) {
	prog := lowerSource(t, `(fn add [a b] (+ a b))`)
	fn := prog.Body[0].(*ir.FnFunctionDeclaration)
	assert.Equal(t, "add", fn.Name)
	assert.Len(t, fn.Params, 2)
	ret := fn.Body.Body[0].(*ir.ReturnStatement)
	bin := ret.Argument.(*ir.BinaryExpression)
	assert.Equal(t, "+", bin.Operator)
}

func TestLowerArrowFn(t *testing.T) {
	prog := lowerSource(t, `(const double (=> [x] (* x 2)))`)
	decl := prog.Body[0].(*ir.VariableDeclaration)
	call := decl.Declarators[0].Init.(*ir.CallExpression)
	_, ok := call.Arguments[0].(*ir.FunctionExpression)
	assert.True(t, ok)
}

func TestLowerLoopRecurAsNativeWhile(t *testing.T) {
	prog := lowerSource(t, `(const result (loop [i 0 sum 0] (if (< i 100) (recur (+ i 1) (+ sum i)) sum)))`)
	decl := prog.Body[0].(*ir.VariableDeclaration)
	freezeCall := decl.Declarators[0].Init.(*ir.CallExpression)
	call := freezeCall.Arguments[0].(*ir.CallExpression)
	fn, ok := call.Callee.(*ir.FunctionExpression)
	require.True(t, ok)

	var foundWhile bool
	for _, stmt := range fn.Body.Body {
		if _, ok := stmt.(*ir.WhileStatement); ok {
			foundWhile = true
		}
	}
	assert.True(t, foundWhile, "expected native while lowering for the tail-recursive shape")
}

func TestLowerClassWithFieldsAndMethod(t *testing.T) {
	prog := lowerSource(t, `
(class Point
  (var x 0)
  (var y 0)
  (constructor (px py)
    (= this.x px)
    (= this.y py))
  (fn length () (+ this.x this.y)))`)
	cls := prog.Body[0].(*ir.ClassDeclaration)
	assert.Equal(t, "Point", cls.Name)
	assert.Len(t, cls.Fields, 2)
	require.NotNil(t, cls.Constructor)
	require.Len(t, cls.Methods, 1)
	assert.Equal(t, "length", cls.Methods[0].Name)
}

func TestLowerImportNamedWithAlias(t *testing.T) {
	prog := lowerSource(t, `(import [readFile (writeFile as wf)] from "fs")`)
	imp := prog.Body[0].(*ir.ImportDeclaration)
	assert.Equal(t, "fs", imp.Source)
	require.Len(t, imp.Specifiers, 2)
	assert.Equal(t, "readFile", imp.Specifiers[0].Imported)
	assert.Equal(t, "readFile", imp.Specifiers[0].Local)
	assert.Equal(t, "writeFile", imp.Specifiers[1].Imported)
	assert.Equal(t, "wf", imp.Specifiers[1].Local)
}

func TestLowerJSInterop(t *testing.T) {
	prog := lowerSource(t, `(js-new Date 2024 0 1)`)
	stmt := prog.Body[0].(*ir.ExpressionStatement)
	newExpr, ok := stmt.Expression.(*ir.NewExpression)
	require.True(t, ok)
	assert.Equal(t, "Date", newExpr.Callee.(*ir.Identifier).Name)
	assert.Len(t, newExpr.Arguments, 3)
}

func TestLowerHashMap(t *testing.T) {
	prog := lowerSource(t, `(const m (hash-map "a" 1 "b" 2))`)
	decl := prog.Body[0].(*ir.VariableDeclaration)
	freezeCall := decl.Declarators[0].Init.(*ir.CallExpression)
	mapCall := freezeCall.Arguments[0].(*ir.CallExpression)
	assert.Equal(t, "__hql_hash_map", mapCall.Callee.(*ir.Identifier).Name)
	assert.Len(t, mapCall.Arguments, 4)
}

func TestLowerEnumBare(t *testing.T) {
	prog := lowerSource(t, `(enum Color (case Red) (case Green) (case Blue))`)
	en := prog.Body[0].(*ir.EnumDeclaration)
	assert.Equal(t, "Color", en.Name)
	assert.Len(t, en.Cases, 3)
	assert.False(t, en.HasAssociatedValues)
}

func TestLowerTryCatch(t *testing.T) {
	prog := lowerSource(t, `(try (foo) (catch e (bar e)))`)
	exprStmt := prog.Body[0].(*ir.ExpressionStatement)
	call := exprStmt.Expression.(*ir.CallExpression)
	fn := call.Callee.(*ir.FunctionExpression)
	require.Len(t, fn.Body.Body, 1)
	tryStmt := fn.Body.Body[0].(*ir.TryStatement)
	require.NotNil(t, tryStmt.Handler)
	assert.Equal(t, "e", tryStmt.Handler.Param)
}
