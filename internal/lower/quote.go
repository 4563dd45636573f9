package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
)

func init() {
	register("quote", lowerQuote)
	register("quasiquote", lowerQuasiquote)
	register("unquote", lowerBareUnquote)
	register("unquote-splicing", lowerBareUnquote)
	register("template-literal", lowerTemplateLiteral)
}

// lowerQuote implements §4.6.1: a straight recursive walk serializing the
// quoted AST to array/object literals.
func lowerQuote(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 1 {
		return nil, true, validationErr(n.Pos, "quote takes exactly one form", "(quote form)")
	}
	return quoteNode(args[0]), true, nil
}

// quoteNode serializes an AST node to its data representation: symbols
// become strings, lists become arrays of serialized children.
func quoteNode(n *ast.Node) ir.Expression {
	pos := nb(n.Pos)
	switch n.Kind {
	case ast.KindLiteral:
		switch n.LitKind {
		case ast.LitNull:
			return &ir.NullLiteral{NodeBase: pos}
		case ast.LitBool:
			return &ir.BooleanLiteral{NodeBase: pos, Value: n.Bool}
		case ast.LitNumber:
			return &ir.NumericLiteral{NodeBase: pos, Value: n.Number}
		case ast.LitString:
			return &ir.StringLiteral{NodeBase: pos, Value: n.Str}
		}
	case ast.KindSymbol:
		return &ir.StringLiteral{NodeBase: pos, Value: n.Name}
	case ast.KindList:
		elems := make([]ir.Expression, 0, len(n.Children))
		for _, child := range n.Children {
			elems = append(elems, quoteNode(child))
		}
		return &ir.ArrayExpression{NodeBase: pos, Elements: elems}
	}
	return &ir.NullLiteral{NodeBase: pos}
}

// lowerQuasiquote walks the template, re-entering normal lowering at each
// `unquote`, and splicing `unquote-splicing` results into the surrounding
// array literal (spec §4.6.1).
func lowerQuasiquote(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 1 {
		return nil, true, validationErr(n.Pos, "quasiquote takes exactly one form", "(quasiquote form)")
	}
	expr, err := c.quasiNode(args[0])
	if err != nil {
		return nil, true, err
	}
	return expr, true, nil
}

func (c *Context) quasiNode(n *ast.Node) (ir.Expression, error) {
	if n.Kind == ast.KindList && n.Provenance == ast.ProvCall && n.HeadSymbol() == "unquote" && len(n.Args()) == 1 {
		return c.lowerExpr(n.Args()[0])
	}
	if n.Kind != ast.KindList {
		return quoteNode(n), nil
	}
	pos := nb(n.Pos)
	elems := make([]ir.Expression, 0, len(n.Children))
	for _, child := range n.Children {
		if child.Kind == ast.KindList && child.Provenance == ast.ProvCall && child.HeadSymbol() == "unquote-splicing" && len(child.Args()) == 1 {
			inner, err := c.lowerExpr(child.Args()[0])
			if err != nil {
				return nil, err
			}
			elems = append(elems, &ir.SpreadElement{NodeBase: nb(child.Pos), Argument: inner})
			continue
		}
		e, err := c.quasiNode(child)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
	}
	return &ir.ArrayExpression{NodeBase: pos, Elements: elems}, nil
}

// lowerBareUnquote handles an `unquote`/`unquote-splicing` encountered
// outside a quasiquote context: re-enter normal lowering of its operand.
func lowerBareUnquote(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 1 {
		return nil, false, nil
	}
	node, err := c.lowerNode(args[0])
	return node, true, err
}

// lowerTemplateLiteral implements §4.6.13: `(template-literal piece...)`
// → TemplateLiteral{quasis, expressions} with len(quasis) = len(exprs)+1.
func lowerTemplateLiteral(c *Context, n *ast.Node) (ir.Node, bool, error) {
	pieces := n.Args()
	pos := nb(n.Pos)
	tl := &ir.TemplateLiteral{NodeBase: pos}

	pendingQuasi := ""
	sawExpr := false
	for _, piece := range pieces {
		if piece.Kind == ast.KindLiteral && piece.LitKind == ast.LitString {
			pendingQuasi += piece.Str
			continue
		}
		tl.Quasis = append(tl.Quasis, pendingQuasi)
		pendingQuasi = ""
		expr, err := c.lowerExpr(piece)
		if err != nil {
			return nil, true, err
		}
		tl.Expressions = append(tl.Expressions, expr)
		sawExpr = true
	}
	tl.Quasis = append(tl.Quasis, pendingQuasi)
	_ = sawExpr
	return tl, true, nil
}
