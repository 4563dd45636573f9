package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
	"github.com/hlvm-dev/hql/internal/pattern"
	"github.com/hlvm-dev/hql/internal/symtab"
)

func init() {
	register("fn", lowerFn)
	register("fn*", lowerFnStar)
	register("=>", lowerArrow)
	register("async", lowerAsync)
	register("await", lowerAwait)
	register("yield", lowerYield)
	register("yield*", lowerYieldStar)
}

// lowerFn implements §4.6.6: covers named and anonymous forms. A named fn
// in call-head position (the first argument is a symbol before the
// parameter list) produces an FnFunctionDeclaration; otherwise a plain
// FunctionExpression.
func lowerFn(c *Context, n *ast.Node) (ir.Node, bool, error) {
	return c.lowerFnLike(n, false)
}

func lowerFnStar(c *Context, n *ast.Node) (ir.Node, bool, error) {
	node, handled, err := c.lowerFnLike(n, true)
	return node, handled, err
}

func (c *Context) lowerFnLike(n *ast.Node, generator bool) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 2 {
		return nil, false, nil
	}
	pos := nb(n.Pos)

	name := ""
	rest := args
	if args[0].Kind == ast.KindSymbol {
		name = sanitizeIdent(args[0].Name)
		rest = args[1:]
	}
	if len(rest) < 1 || !pattern.IsPatternCandidate(rest[0]) {
		return nil, false, nil
	}

	params, err := c.lowerParamList(rest[0])
	if err != nil {
		return nil, true, err
	}
	body := rest[1:]

	c.Symbols.PushScope()
	defer c.Symbols.PopScope()
	if name != "" {
		c.Symbols.Define(name, symtab.KindFn)
	}

	block, hasAwait, hasYield, err := c.lowerFunctionBody(body)
	if err != nil {
		return nil, true, err
	}
	block = wrapEarlyReturn(block)
	generator = generator || hasYield

	if name != "" {
		return &ir.FnFunctionDeclaration{
			NodeBase: pos, Name: name, Async: hasAwait, Generator: generator, Params: params, Body: block,
		}, true, nil
	}
	return &ir.FunctionExpression{
		NodeBase: pos, Async: hasAwait, Generator: generator, Params: params, Body: block,
	}, true, nil
}

// lowerArrow implements §4.6.6: `(=> [params] body...)`.
func lowerArrow(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 1 || !pattern.IsPatternCandidate(args[0]) {
		return nil, false, nil
	}
	pos := nb(n.Pos)
	params, err := c.lowerParamList(args[0])
	if err != nil {
		return nil, true, err
	}

	c.Symbols.PushScope()
	defer c.Symbols.PopScope()

	block, hasAwait, hasYield, err := c.lowerFunctionBody(args[1:])
	if err != nil {
		return nil, true, err
	}
	block = wrapEarlyReturn(block)
	return &ir.FunctionExpression{NodeBase: pos, Async: hasAwait, Generator: hasYield, Params: params, Body: block}, true, nil
}

// lowerAsync implements §4.6.6: wraps `fn`/`fn*` and forces the async flag.
func lowerAsync(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 1 {
		return nil, false, nil
	}
	inner := args[0]
	if inner.Kind != ast.KindList || (inner.HeadSymbol() != "fn" && inner.HeadSymbol() != "fn*") {
		return nil, false, nil
	}
	node, _, err := c.lowerFnLike(inner, inner.HeadSymbol() == "fn*")
	if err != nil {
		return nil, true, err
	}
	switch v := node.(type) {
	case *ir.FunctionExpression:
		v.Async = true
		return v, true, nil
	case *ir.FnFunctionDeclaration:
		v.Async = true
		return v, true, nil
	}
	return node, true, nil
}

func lowerAwait(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 1 {
		return nil, false, nil
	}
	arg, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	return &ir.AwaitExpression{NodeBase: nb(n.Pos), Argument: arg}, true, nil
}

func lowerYield(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	pos := nb(n.Pos)
	if len(args) == 0 {
		return &ir.YieldExpression{NodeBase: pos}, true, nil
	}
	if len(args) != 1 {
		return nil, false, nil
	}
	arg, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	return &ir.YieldExpression{NodeBase: pos, Argument: arg}, true, nil
}

func lowerYieldStar(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 1 {
		return nil, false, nil
	}
	arg, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	return &ir.YieldExpression{NodeBase: nb(n.Pos), Argument: arg, Delegate: true}, true, nil
}

// lowerParamList converts a parameter list (a vector, or a plain `(...)`
// list as class constructors and methods use) into ir.Pattern
// params, recognizing the "JSON map" single-hash-map-parameter style of
// §4.6.6 (a single `hash-map` parameter whose keys are argument names with
// defaults) as well as ordinary positional/destructuring/rest parameters.
func (c *Context) lowerParamList(paramsNode *ast.Node) ([]ir.Pattern, error) {
	items := paramsNode.Args()
	if paramsNode.Kind == ast.KindList && paramsNode.Provenance == ast.ProvCall {
		items = paramsNode.Children
	}

	if len(items) == 1 && items[0].Kind == ast.KindList && items[0].Provenance == ast.ProvMap {
		return c.lowerJSONMapParam(items[0])
	}

	var params []ir.Pattern
	for i := 0; i < len(items); i++ {
		item := items[i]
		if item.Kind == ast.KindSymbol && (item.Name == "&" || item.Name == "...") {
			if i+1 >= len(items) {
				return nil, validationErr(item.Pos, "rest parameter missing a name", "[a b & rest]")
			}
			restName := items[i+1]
			if restName.Kind != ast.KindSymbol {
				return nil, validationErr(restName.Pos, "rest parameter must bind to a plain symbol", "[a b & rest]")
			}
			c.Symbols.Define(restName.Name, symtab.KindVariable)
			params = append(params, &ir.RestPattern{NodeBase: nb(item.Pos), Argument: &ir.IdentifierPattern{NodeBase: nb(restName.Pos), Name: sanitizeIdent(restName.Name)}})
			i++
			continue
		}
		p, err := c.lowerParamElement(item)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

func (c *Context) lowerParamElement(item *ast.Node) (ir.Pattern, error) {
	if item.Kind == ast.KindSymbol {
		if item.Name == "_" {
			return &ir.SkipPattern{NodeBase: nb(item.Pos)}, nil
		}
		c.Symbols.Define(item.Name, symtab.KindVariable)
		return &ir.IdentifierPattern{NodeBase: nb(item.Pos), Name: sanitizeIdent(item.Name)}, nil
	}
	if item.Kind == ast.KindList && item.Provenance == ast.ProvCall && len(item.Children) == 2 {
		inner, err := c.lowerParamElement(item.Children[0])
		if err != nil {
			return nil, err
		}
		def, err := c.lowerExpr(item.Children[1])
		if err != nil {
			return nil, err
		}
		return &ir.AssignmentPattern{NodeBase: nb(item.Pos), Left: inner, Right: def}, nil
	}
	if pattern.IsPatternCandidate(item) {
		p, perr := pattern.Parse(item)
		if perr != nil {
			return nil, validationErr(perr.Pos, perr.Message, "")
		}
		defineNamesFromPattern(c, p)
		return c.loweredPattern(p), nil
	}
	return nil, validationErr(item.Pos, "invalid parameter", "symbol, (name default), or destructuring pattern")
}

// lowerJSONMapParam handles the single hash-map-parameter style: each
// key/value pair becomes a named parameter with a default.
func (c *Context) lowerJSONMapParam(mapNode *ast.Node) ([]ir.Pattern, error) {
	items := mapNode.Args()
	if len(items)%2 != 0 {
		return nil, validationErr(mapNode.Pos, "JSON-style parameter map requires an even number of entries", "{name default name default}")
	}
	op := &ir.ObjectPattern{NodeBase: nb(mapNode.Pos)}
	for i := 0; i < len(items); i += 2 {
		keyNode := items[i]
		if keyNode.Kind != ast.KindSymbol {
			return nil, validationErr(keyNode.Pos, "JSON-style parameter name must be a symbol", "{name default}")
		}
		c.Symbols.Define(keyNode.Name, symtab.KindVariable)
		def, err := c.lowerExpr(items[i+1])
		if err != nil {
			return nil, err
		}
		op.Properties = append(op.Properties, ir.ObjectPatternProperty{
			Key:     keyNode.Name,
			Value:   &ir.IdentifierPattern{NodeBase: nb(keyNode.Pos), Name: sanitizeIdent(keyNode.Name)},
			Default: def,
		})
	}
	return []ir.Pattern{op}, nil
}

// lowerFunctionBody lowers a function's body forms, always ending with an
// implicit return of the last expression (§4.6.6), and reports whether the
// body needs async/generator marking on the enclosing function.
func (c *Context) lowerFunctionBody(body []*ast.Node) (*ir.BlockStatement, bool, bool, error) {
	if len(body) == 0 {
		return &ir.BlockStatement{}, false, false, nil
	}
	var stmts []ir.Node
	for i, f := range body {
		node, err := c.lowerNode(f)
		if err != nil {
			return nil, false, false, err
		}
		if i == len(body)-1 {
			node = asBodyStatement(node)
		} else {
			node = c.asStatement(node, f.Pos)
		}
		stmts = append(stmts, node)
	}
	block := &ir.BlockStatement{NodeBase: nb(body[0].Pos), Body: stmts}
	return block, containsAwait(block), containsYield(block), nil
}
