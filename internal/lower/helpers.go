package lower

import (
	"github.com/hlvm-dev/hql/internal/ir"
)

// isExprNode reports whether node already satisfies ir.Expression.
func isExprNode(node ir.Node) (ir.Expression, bool) {
	e, ok := node.(ir.Expression)
	return e, ok
}

// isControlFlowStmt reports whether stmt is one of the statement kinds that
// must never be re-wrapped in an outer ReturnStatement (§4.6.4's "never
// double-wrapped" rule).
func isControlFlowStmt(n ir.Node) bool {
	switch n.(type) {
	case *ir.IfStatement, *ir.ThrowStatement, *ir.ReturnStatement:
		return true
	}
	return false
}

// asBodyStatement converts the last expression of a body into the
// statement the enclosing block needs: a bare ReturnStatement wrapping an
// Expression, or the statement itself if it's already control flow.
func asBodyStatement(node ir.Node) ir.Node {
	if isControlFlowStmt(node) {
		return node
	}
	if expr, ok := isExprNode(node); ok {
		return &ir.ReturnStatement{NodeBase: nb(expr.Pos()), Argument: expr}
	}
	return node
}

// containsAwait/containsYield walk an IR subtree to decide whether an
// enclosing IIFE must be marked async/generator (§4.6.3 invariant 3).
func containsAwait(n ir.Node) bool  { return walkContains(n, func(x ir.Node) bool { _, ok := x.(*ir.AwaitExpression); return ok }) }
func containsYield(n ir.Node) bool  { return walkContains(n, func(x ir.Node) bool { _, ok := x.(*ir.YieldExpression); return ok }) }

// walkContains performs a shallow-to-deep search, but intentionally does
// NOT recurse into nested FunctionExpression bodies: an inner function's
// own await/yield belongs to it, not to the IIFE being inspected here.
func walkContains(n ir.Node, pred func(ir.Node) bool) bool {
	if n == nil {
		return false
	}
	if pred(n) {
		return true
	}
	switch v := n.(type) {
	case *ir.BlockStatement:
		for _, s := range v.Body {
			if walkContains(s, pred) {
				return true
			}
		}
	case *ir.ExpressionStatement:
		return walkContains(v.Expression, pred)
	case *ir.ReturnStatement:
		return walkContains(v.Argument, pred)
	case *ir.ThrowStatement:
		return walkContains(v.Argument, pred)
	case *ir.IfStatement:
		return walkContains(v.Test, pred) || walkContains(v.Consequent, pred) || walkContains(v.Alternate, pred)
	case *ir.WhileStatement:
		return walkContains(v.Test, pred) || walkContains(v.Body, pred)
	case *ir.ForOfStatement:
		return walkContains(v.Right, pred) || walkContains(v.Body, pred)
	case *ir.TryStatement:
		if walkContains(v.Block, pred) {
			return true
		}
		if v.Handler != nil && walkContains(v.Handler.Body, pred) {
			return true
		}
		return v.Finalizer != nil && walkContains(v.Finalizer, pred)
	case *ir.VariableDeclaration:
		for _, d := range v.Declarators {
			if walkContains(d.Init, pred) {
				return true
			}
		}
	case *ir.CallExpression:
		if walkContains(v.Callee, pred) {
			return true
		}
		for _, a := range v.Arguments {
			if walkContains(a, pred) {
				return true
			}
		}
	case *ir.NewExpression:
		if walkContains(v.Callee, pred) {
			return true
		}
		for _, a := range v.Arguments {
			if walkContains(a, pred) {
				return true
			}
		}
	case *ir.BinaryExpression:
		return walkContains(v.Left, pred) || walkContains(v.Right, pred)
	case *ir.LogicalExpression:
		return walkContains(v.Left, pred) || walkContains(v.Right, pred)
	case *ir.AssignmentExpression:
		return walkContains(v.Left, pred) || walkContains(v.Right, pred)
	case *ir.UnaryExpression:
		return walkContains(v.Argument, pred)
	case *ir.ConditionalExpression:
		return walkContains(v.Test, pred) || walkContains(v.Consequent, pred) || walkContains(v.Alternate, pred)
	case *ir.ArrayExpression:
		for _, e := range v.Elements {
			if walkContains(e, pred) {
				return true
			}
		}
	case *ir.SpreadElement:
		return walkContains(v.Argument, pred)
	case *ir.AwaitExpression:
		return walkContains(v.Argument, pred)
	}
	return false
}

// buildIIFE wraps body (already in statement form, last element a
// ReturnStatement if value-producing) in a zero-argument function
// expression, immediately invoked. async/generator flags are determined by
// the caller from containsAwait/containsYield over the raw body.
func buildIIFE(pos ir.NodeBase, body []ir.Node, async, generator bool) ir.Expression {
	fn := &ir.FunctionExpression{
		NodeBase:  pos,
		Async:     async,
		Generator: generator,
		Body:      &ir.BlockStatement{NodeBase: pos, Body: body},
	}
	call := ir.Expression(&ir.CallExpression{NodeBase: pos, Callee: fn})
	if async {
		call = &ir.AwaitExpression{NodeBase: pos, Argument: call}
	} else if generator {
		call = &ir.YieldExpression{NodeBase: pos, Argument: call, Delegate: true}
	}
	return call
}

// deepFreezeWrap wraps init in a call to the runtime's deep-freeze helper,
// the mark every `const` initializer carries (spec §3 invariant 2).
func deepFreezeWrap(pos ir.NodeBase, init ir.Expression) ir.Expression {
	return &ir.CallExpression{
		NodeBase:  pos,
		Callee:    &ir.Identifier{NodeBase: pos, Name: "__hql_deepFreeze"},
		Arguments: []ir.Expression{init},
	}
}

// isEarlyReturnThrow reports whether n is the
// `throw {__hql_early_return__: true, value: ...}` sentinel lowerReturn
// emits for a `return` inside a scoping IIFE (§4.8).
func isEarlyReturnThrow(n ir.Node) bool {
	t, ok := n.(*ir.ThrowStatement)
	if !ok {
		return false
	}
	obj, ok := t.Argument.(*ir.ObjectExpression)
	if !ok {
		return false
	}
	for _, p := range obj.Properties {
		if id, ok := p.Key.(*ir.Identifier); ok && id.Name == "__hql_early_return__" {
			return true
		}
	}
	return false
}

// containsEarlyReturnThrow walks a would-be function body looking for an
// early-return sentinel throw. Unlike containsAwait/containsYield, it
// recurses into nested FunctionExpression/FunctionDeclaration bodies: a
// sentinel thrown inside a scoping IIFE (do/let/try, or loop's internal
// machinery) still targets the nearest enclosing *real* function, not the
// IIFE lexically wrapping it, so the search must see straight through
// every such boundary in between.
func containsEarlyReturnThrow(n ir.Node) bool {
	if n == nil {
		return false
	}
	if isEarlyReturnThrow(n) {
		return true
	}
	switch v := n.(type) {
	case *ir.BlockStatement:
		for _, s := range v.Body {
			if containsEarlyReturnThrow(s) {
				return true
			}
		}
	case *ir.ExpressionStatement:
		return containsEarlyReturnThrow(v.Expression)
	case *ir.ReturnStatement:
		return containsEarlyReturnThrow(v.Argument)
	case *ir.ThrowStatement:
		return containsEarlyReturnThrow(v.Argument)
	case *ir.IfStatement:
		return containsEarlyReturnThrow(v.Test) || containsEarlyReturnThrow(v.Consequent) || containsEarlyReturnThrow(v.Alternate)
	case *ir.WhileStatement:
		return containsEarlyReturnThrow(v.Test) || containsEarlyReturnThrow(v.Body)
	case *ir.ForStatement:
		return containsEarlyReturnThrow(v.Init) || containsEarlyReturnThrow(v.Test) || containsEarlyReturnThrow(v.Update) || containsEarlyReturnThrow(v.Body)
	case *ir.ForOfStatement:
		return containsEarlyReturnThrow(v.Right) || containsEarlyReturnThrow(v.Body)
	case *ir.LabeledStatement:
		return containsEarlyReturnThrow(v.Body)
	case *ir.TryStatement:
		if containsEarlyReturnThrow(v.Block) {
			return true
		}
		if v.Handler != nil && containsEarlyReturnThrow(v.Handler.Body) {
			return true
		}
		return v.Finalizer != nil && containsEarlyReturnThrow(v.Finalizer)
	case *ir.VariableDeclaration:
		for _, d := range v.Declarators {
			if containsEarlyReturnThrow(d.Init) {
				return true
			}
		}
	case *ir.CallExpression:
		if containsEarlyReturnThrow(v.Callee) {
			return true
		}
		for _, a := range v.Arguments {
			if containsEarlyReturnThrow(a) {
				return true
			}
		}
	case *ir.NewExpression:
		if containsEarlyReturnThrow(v.Callee) {
			return true
		}
		for _, a := range v.Arguments {
			if containsEarlyReturnThrow(a) {
				return true
			}
		}
	case *ir.BinaryExpression:
		return containsEarlyReturnThrow(v.Left) || containsEarlyReturnThrow(v.Right)
	case *ir.LogicalExpression:
		return containsEarlyReturnThrow(v.Left) || containsEarlyReturnThrow(v.Right)
	case *ir.AssignmentExpression:
		return containsEarlyReturnThrow(v.Left) || containsEarlyReturnThrow(v.Right)
	case *ir.UnaryExpression:
		return containsEarlyReturnThrow(v.Argument)
	case *ir.ConditionalExpression:
		return containsEarlyReturnThrow(v.Test) || containsEarlyReturnThrow(v.Consequent) || containsEarlyReturnThrow(v.Alternate)
	case *ir.ArrayExpression:
		for _, e := range v.Elements {
			if containsEarlyReturnThrow(e) {
				return true
			}
		}
	case *ir.ObjectExpression:
		for _, p := range v.Properties {
			if containsEarlyReturnThrow(p.Value) {
				return true
			}
		}
	case *ir.SpreadElement:
		return containsEarlyReturnThrow(v.Argument)
	case *ir.AwaitExpression:
		return containsEarlyReturnThrow(v.Argument)
	case *ir.YieldExpression:
		return containsEarlyReturnThrow(v.Argument)
	case *ir.FunctionExpression:
		return containsEarlyReturnThrow(v.Body)
	case *ir.FunctionDeclaration:
		return containsEarlyReturnThrow(v.Body)
	case *ir.FnFunctionDeclaration:
		return containsEarlyReturnThrow(v.Body)
	}
	return false
}

// wrapEarlyReturn implements §4.8's function-body unwrap: when a real
// function body's IR tree contains an early-return sentinel throw (however
// deep through nested scoping IIFEs), the body is wrapped in
// `try { body } catch(e) { if (e && e.__hql_early_return__) return e.value;
// throw e; }`. Call this only at genuine function-boundary construction
// sites (fn/arrow/method/constructor bodies) -- never on a scoping IIFE's
// own body (do/let/try, or a loop's internal self-call function), since
// those must let the sentinel propagate outward untouched.
func wrapEarlyReturn(block *ir.BlockStatement) *ir.BlockStatement {
	if block == nil || !containsEarlyReturnThrow(block) {
		return block
	}
	pos := block.NodeBase
	errID := &ir.Identifier{NodeBase: pos, Name: "e"}
	guard := &ir.LogicalExpression{
		NodeBase: pos, Operator: "&&",
		Left:  errID,
		Right: &ir.MemberExpression{NodeBase: pos, Object: errID, Property: &ir.Identifier{NodeBase: pos, Name: "__hql_early_return__"}},
	}
	unwrap := &ir.ReturnStatement{
		NodeBase: pos,
		Argument: &ir.MemberExpression{NodeBase: pos, Object: errID, Property: &ir.Identifier{NodeBase: pos, Name: "value"}},
	}
	handlerBody := &ir.BlockStatement{NodeBase: pos, Body: []ir.Node{
		&ir.IfStatement{NodeBase: pos, Test: guard, Consequent: unwrap},
		&ir.ThrowStatement{NodeBase: pos, Argument: errID},
	}}
	tryStmt := &ir.TryStatement{
		NodeBase: pos,
		Block:    block,
		Handler:  &ir.CatchClause{NodeBase: pos, Param: "e", Body: handlerBody},
	}
	return &ir.BlockStatement{NodeBase: pos, Body: []ir.Node{tryStmt}}
}
