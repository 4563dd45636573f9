package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
)

func init() {
	register("js-new", lowerJSNew)
	register("js-get", lowerJSGet)
	register("js-set", lowerJSSet)
	register("js-call", lowerJSCall)
	register("js-method", lowerJSMethod)
	register("js-get-invoke", lowerJSGetInvoke)
}

// lowerJSNew implements §4.6.11: `(js-new Ctor args...)`.
func lowerJSNew(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 1 {
		return nil, true, validationErr(n.Pos, "js-new requires a constructor", "(js-new Ctor args...)")
	}
	callee, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	rest, err := c.lowerExprList(args[1:])
	if err != nil {
		return nil, true, err
	}
	return &ir.NewExpression{NodeBase: nb(n.Pos), Callee: callee, Arguments: rest}, true, nil
}

// lowerJSGet implements §4.6.11: `(js-get obj prop)` -> plain member access
// (non-computed for a string-literal prop, computed otherwise).
func lowerJSGet(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 2 {
		return nil, true, validationErr(n.Pos, "js-get requires an object and a property", "(js-get obj prop)")
	}
	obj, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	pos := nb(n.Pos)
	if propName, ok := stringLiteralValue(args[1]); ok {
		return &ir.MemberExpression{NodeBase: pos, Object: obj, Property: &ir.Identifier{NodeBase: pos, Name: propName}}, true, nil
	}
	prop, err := c.lowerExpr(args[1])
	if err != nil {
		return nil, true, err
	}
	return &ir.MemberExpression{NodeBase: pos, Object: obj, Property: prop, Computed: true}, true, nil
}

// lowerJSSet implements §4.6.11: `(js-set obj prop value)` -> assignment.
func lowerJSSet(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 3 {
		return nil, true, validationErr(n.Pos, "js-set requires an object, property, and value", "(js-set obj prop value)")
	}
	obj, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	pos := nb(n.Pos)
	var member ir.Expression
	if propName, ok := stringLiteralValue(args[1]); ok {
		member = &ir.MemberExpression{NodeBase: pos, Object: obj, Property: &ir.Identifier{NodeBase: pos, Name: propName}}
	} else {
		prop, err := c.lowerExpr(args[1])
		if err != nil {
			return nil, true, err
		}
		member = &ir.MemberExpression{NodeBase: pos, Object: obj, Property: prop, Computed: true}
	}
	value, err := c.lowerExpr(args[2])
	if err != nil {
		return nil, true, err
	}
	return &ir.AssignmentExpression{NodeBase: pos, Operator: "=", Left: member, Right: value}, true, nil
}

// lowerJSCall implements §4.6.11: `(js-call fn args...)` -> a plain call,
// distinct from a special-form dispatch because `fn` here is any JS value.
func lowerJSCall(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 1 {
		return nil, true, validationErr(n.Pos, "js-call requires a callee", "(js-call fn args...)")
	}
	callee, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	rest, err := c.lowerExprList(args[1:])
	if err != nil {
		return nil, true, err
	}
	return &ir.CallExpression{NodeBase: nb(n.Pos), Callee: callee, Arguments: rest}, true, nil
}

// lowerJSMethod implements §4.6.11: `(js-method obj "method" args...)`.
func lowerJSMethod(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 2 {
		return nil, true, validationErr(n.Pos, "js-method requires an object and method name", `(js-method obj "method" args...)`)
	}
	obj, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	methodName, ok := stringLiteralValue(args[1])
	if !ok {
		return nil, true, validationErr(args[1].Pos, "js-method name must be a string literal", `(js-method obj "method" args...)`)
	}
	rest, err := c.lowerExprList(args[2:])
	if err != nil {
		return nil, true, err
	}
	return &ir.CallMemberExpression{NodeBase: nb(n.Pos), Object: obj, Method: methodName, Arguments: rest}, true, nil
}

// lowerJSGetInvoke implements §4.6.11: `(js-get-invoke obj "method" args...)`,
// equivalent to js-method but lowered to an optional method call
// (CallMemberExpression with Optional set), guarded against null/undefined.
func lowerJSGetInvoke(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 2 {
		return nil, true, validationErr(n.Pos, "js-get-invoke requires an object and method name", `(js-get-invoke obj "method" args...)`)
	}
	obj, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	methodName, ok := stringLiteralValue(args[1])
	if !ok {
		return nil, true, validationErr(args[1].Pos, "js-get-invoke name must be a string literal", `(js-get-invoke obj "method" args...)`)
	}
	rest, err := c.lowerExprList(args[2:])
	if err != nil {
		return nil, true, err
	}
	return &ir.CallMemberExpression{NodeBase: nb(n.Pos), Object: obj, Method: methodName, Arguments: rest, Optional: true}, true, nil
}
