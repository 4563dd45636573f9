package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
)

func init() {
	register("vector", lowerVector)
	register("hash-map", lowerHashMap)
	register("hash-set", lowerHashSet)
	register("new", lowerNew)
}

// lowerVector implements §4.6.2: `vector` → ArrayExpression, spread forms
// become SpreadElement.
func lowerVector(c *Context, n *ast.Node) (ir.Node, bool, error) {
	pos := nb(n.Pos)
	elements := make([]ir.Expression, 0, len(n.Args()))
	for _, item := range n.Args() {
		e, _, err := c.lowerMaybeSpread(item)
		if err != nil {
			return nil, true, err
		}
		elements = append(elements, e)
	}
	return &ir.ArrayExpression{NodeBase: pos, Elements: elements}, true, nil
}

// lowerMaybeSpread lowers item, wrapping it in SpreadElement when it is a
// `...expr` symbol or an `(... expr)` form, uniformly across array/call
// positions per spec §4.6.13.
func (c *Context) lowerMaybeSpread(item *ast.Node) (ir.Expression, bool, error) {
	if item.Kind == ast.KindSymbol {
		info := ast.AnalyzeSymbol(item.Name)
		if info.IsSpread {
			inner, err := c.lowerExpr(&ast.Node{Kind: ast.KindSymbol, Name: info.SpreadOf, Pos: item.Pos})
			if err != nil {
				return nil, false, err
			}
			return &ir.SpreadElement{NodeBase: nb(item.Pos), Argument: inner}, true, nil
		}
	}
	if item.Kind == ast.KindList && item.Provenance == ast.ProvCall && item.HeadSymbol() == "..." && len(item.Args()) == 1 {
		inner, err := c.lowerExpr(item.Args()[0])
		if err != nil {
			return nil, false, err
		}
		return &ir.SpreadElement{NodeBase: nb(item.Pos), Argument: inner}, true, nil
	}
	e, err := c.lowerExpr(item)
	if err != nil {
		return nil, false, err
	}
	return e, false, nil
}

// lowerHashMap implements §4.6.2: no spread → __hql_hash_map(k,v,...) call;
// with spread → ObjectExpression with mixed properties/spreads.
func lowerHashMap(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	pos := nb(n.Pos)

	hasSpread := false
	for _, a := range args {
		if isSpreadArg(a) {
			hasSpread = true
			break
		}
	}

	if !hasSpread {
		if len(args)%2 != 0 {
			return nil, true, validationErr(n.Pos, "hash-map requires an even number of key/value arguments", "(hash-map k1 v1 k2 v2 ...)")
		}
		exprs, err := c.lowerExprList(args)
		if err != nil {
			return nil, true, err
		}
		return &ir.CallExpression{
			NodeBase:  pos,
			Callee:    &ir.Identifier{NodeBase: pos, Name: "__hql_hash_map"},
			Arguments: exprs,
		}, true, nil
	}

	obj := &ir.ObjectExpression{NodeBase: pos}
	i := 0
	for i < len(args) {
		if isSpreadArg(args[i]) {
			inner, _, err := c.lowerMaybeSpread(args[i])
			if err != nil {
				return nil, true, err
			}
			spreadExpr := inner.(*ir.SpreadElement).Argument
			obj.Spreads = append(obj.Spreads, &ir.SpreadAssignment{NodeBase: nb(args[i].Pos), Argument: spreadExpr})
			obj.SpreadIndex = append(obj.SpreadIndex, len(obj.Properties))
			i++
			continue
		}
		if i+1 >= len(args) {
			return nil, true, validationErr(args[i].Pos, "hash-map requires an even number of key/value arguments", "(hash-map k1 v1 k2 v2 ...)")
		}
		key, err := c.lowerExpr(args[i])
		if err != nil {
			return nil, true, err
		}
		val, err := c.lowerExpr(args[i+1])
		if err != nil {
			return nil, true, err
		}
		obj.Properties = append(obj.Properties, ir.ObjectProperty{Key: key, Value: val})
		i += 2
	}
	return obj, true, nil
}

func isSpreadArg(n *ast.Node) bool {
	if n.Kind == ast.KindSymbol {
		return ast.AnalyzeSymbol(n.Name).IsSpread
	}
	return n.Kind == ast.KindList && n.Provenance == ast.ProvCall && n.HeadSymbol() == "..." && len(n.Args()) == 1
}

// lowerHashSet implements §4.6.2: `hash-set` → `new Set([...])`.
func lowerHashSet(c *Context, n *ast.Node) (ir.Node, bool, error) {
	pos := nb(n.Pos)
	elements, err := c.lowerExprList(n.Args())
	if err != nil {
		return nil, true, err
	}
	return &ir.NewExpression{
		NodeBase: pos,
		Callee:   &ir.Identifier{NodeBase: pos, Name: "Set"},
		Arguments: []ir.Expression{&ir.ArrayExpression{NodeBase: pos, Elements: elements}},
	}, true, nil
}

// lowerNew implements §4.6.2: `(new C args...)` → NewExpression.
func lowerNew(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) == 0 {
		return nil, true, validationErr(n.Pos, "new requires a constructor", "(new Ctor args...)")
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
