package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
)

// logicalOps and unaryOnly classify operators of the fixed table of
// first-class operators (spec §4.6.12).
var logicalOps = map[string]bool{"&&": true, "||": true}
var unaryOnly = map[string]bool{"!": true, "~": true}

func init() {
	for _, op := range []string{"+", "-", "*", "/", "%", "**", "===", "==", "!==", "!=",
		"<", ">", "<=", ">=", "&", "|", "^", "<<", ">>", ">>>"} {
		op := op
		register(op, lowerBinaryOrUnaryForm)
	}
	register("&&", lowerBinaryOrUnaryForm)
	register("||", lowerBinaryOrUnaryForm)
	register("!", lowerUnaryForm)
	register("~", lowerUnaryForm)
	register("=", lowerAssignForm)
}

// lowerBinaryOrUnaryForm handles `(+ a b c ...)`-shaped primitive calls:
// two args → BinaryExpression/LogicalExpression; more than two folds
// left-associatively; exactly one arg with a +/- head is a unary form.
func lowerBinaryOrUnaryForm(c *Context, n *ast.Node) (ir.Node, bool, error) {
	op := n.HeadSymbol()
	args := n.Args()
	pos := nb(n.Pos)

	if len(args) == 1 && (op == "+" || op == "-") {
		arg, err := c.lowerExpr(args[0])
		if err != nil {
			return nil, true, err
		}
		return &ir.UnaryExpression{NodeBase: pos, Operator: op, Argument: arg, Prefix: true}, true, nil
	}

	if len(args) < 2 {
		return nil, false, nil
	}

	exprs, err := c.lowerExprList(args)
	if err != nil {
		return nil, true, err
	}

	acc := exprs[0]
	for _, rhs := range exprs[1:] {
		if logicalOps[op] {
			acc = &ir.LogicalExpression{NodeBase: pos, Operator: op, Left: acc, Right: rhs}
		} else {
			acc = &ir.BinaryExpression{NodeBase: pos, Operator: op, Left: acc, Right: rhs}
		}
	}
	return acc, true, nil
}

func lowerUnaryForm(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 1 {
		return nil, false, nil
	}
	arg, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	pos := nb(n.Pos)
	return &ir.UnaryExpression{NodeBase: pos, Operator: n.HeadSymbol(), Argument: arg, Prefix: true}, true, nil
}

// lowerAssignForm lowers `(= target value)` to AssignmentExpression.
func lowerAssignForm(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 2 {
		return nil, false, nil
	}
	left, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	right, err := c.lowerExpr(args[1])
	if err != nil {
		return nil, true, err
	}
	return &ir.AssignmentExpression{NodeBase: nb(n.Pos), Operator: "=", Left: left, Right: right}, true, nil
}
