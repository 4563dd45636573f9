package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
	"github.com/hlvm-dev/hql/internal/pattern"
	"github.com/hlvm-dev/hql/internal/symtab"
)

func init() {
	register("const", makeBindingForm(ir.DeclConst))
	register("def", makeBindingForm(ir.DeclConst))
	register("let", makeBindingForm(ir.DeclLet))
	register("var", makeBindingForm(ir.DeclVar))
}

// makeBindingForm implements §4.6.3: two surface shapes — global
// `(kw name value)` and local `(kw (n1 v1 ...) body...)`.
func makeBindingForm(kind ir.DeclKind) specialFormFn {
	return func(c *Context, n *ast.Node) (ir.Node, bool, error) {
		args := n.Args()
		if len(args) < 2 {
			return nil, false, nil
		}

		// Global shape: second arg is not a binding-list.
		if !isBindingList(args[0]) {
			return c.lowerGlobalBinding(kind, n, args)
		}
		return c.lowerLocalBinding(kind, n, args)
	}
}

// isBindingList distinguishes `(kw (n1 v1 ...) body...)` from
// `(kw name value)`: the former's first argument is a plain-call-provenance
// list (the binding-pairs list), not a symbol.
func isBindingList(n *ast.Node) bool {
	return n.Kind == ast.KindList && n.Provenance == ast.ProvCall
}

func (c *Context) lowerGlobalBinding(kind ir.DeclKind, n *ast.Node, args []*ast.Node) (ir.Node, bool, error) {
	if len(args) != 2 {
		return nil, false, nil
	}
	nameNode := args[0]
	if nameNode.Kind != ast.KindSymbol {
		return nil, true, validationErr(n.Pos, "binding name must be a symbol", "(const name value)")
	}

	if ast.AnalyzeSymbol(nameNode.Name).IsMemberPath && kind == ir.DeclVar {
		return nil, true, validationErr(n.Pos, "cannot declare a member-path target; use = for assignment", "var name (not var obj.field)")
	}

	info := ast.AnalyzeSymbol(nameNode.Name)
	name := info.BaseName
	if name == "" {
		name = nameNode.Name
	}

	init, err := c.lowerExpr(args[1])
	if err != nil {
		return nil, true, err
	}
	pos := nb(n.Pos)
	if kind == ir.DeclConst {
		init = deepFreezeWrap(pos, init)
	}

	c.Symbols.Define(name, symtab.KindVariable)

	return &ir.VariableDeclaration{
		NodeBase: pos,
		DKind:    kind,
		Declarators: []ir.VariableDeclarator{{
			Id:             &ir.IdentifierPattern{NodeBase: pos, Name: sanitizeIdent(name)},
			Init:           init,
			TypeAnnotation: info.TypeAnnotation,
		}},
	}, true, nil
}

func (c *Context) lowerLocalBinding(kind ir.DeclKind, n *ast.Node, args []*ast.Node) (ir.Node, bool, error) {
	bindingPairs := args[0].Children
	body := args[1:]
	pos := nb(n.Pos)

	if len(bindingPairs)%2 != 0 {
		return nil, true, validationErr(args[0].Pos, "binding list must have an even number of elements", "(name value name value ...)")
	}

	c.Symbols.PushScope()
	defer c.Symbols.PopScope()

	var declarators []ir.VariableDeclarator
	for i := 0; i < len(bindingPairs); i += 2 {
		nameForm := bindingPairs[i]
		valueForm := bindingPairs[i+1]

		init, err := c.lowerExpr(valueForm)
		if err != nil {
			return nil, true, err
		}

		var id ir.Pattern
		typeAnno := ""
		if pattern.IsPatternCandidate(nameForm) {
			pat, perr := pattern.Parse(nameForm)
			if perr != nil {
				return nil, true, validationErr(perr.Pos, perr.Message, "")
			}
			id = c.loweredPattern(pat)
			defineNamesFromPattern(c, pat)
		} else if nameForm.Kind == ast.KindSymbol {
			info := ast.AnalyzeSymbol(nameForm.Name)
			name := info.BaseName
			typeAnno = info.TypeAnnotation
			id = &ir.IdentifierPattern{NodeBase: nb(nameForm.Pos), Name: sanitizeIdent(name)}
			c.Symbols.Define(name, symtab.KindVariable)
		} else {
			return nil, true, validationErr(nameForm.Pos, "invalid binding name", "symbol or destructuring pattern")
		}

		if kind == ir.DeclConst {
			init = deepFreezeWrap(nb(valueForm.Pos), init)
		}
		declarators = append(declarators, ir.VariableDeclarator{Id: id, Init: init, TypeAnnotation: typeAnno})
	}

	decl := &ir.VariableDeclaration{NodeBase: pos, DKind: kind, Declarators: declarators}

	if len(body) == 0 {
		return decl, true, validationErr(n.Pos, "local binding requires a body", "(let (n v) body...)")
	}

	c.enterIIFE()
	bodyStmts := []ir.Node{decl}
	var rawLoweredBody []ir.Node
	for i, b := range body {
		node, err := c.lowerNode(b)
		if err != nil {
			c.leaveIIFE()
			return nil, true, err
		}
		if i == len(body)-1 {
			node = asBodyStatement(node)
		} else {
			node = c.asStatement(node, b.Pos)
		}
		rawLoweredBody = append(rawLoweredBody, node)
	}
	c.leaveIIFE()
	bodyStmts = append(bodyStmts, rawLoweredBody...)

	hasAwait, hasYield := false, false
	for _, s := range bodyStmts {
		if containsAwait(s) {
			hasAwait = true
		}
		if containsYield(s) {
			hasYield = true
		}
	}

	return buildIIFE(pos, bodyStmts, hasAwait, hasYield), true, nil
}

func defineNamesFromPattern(c *Context, p *pattern.Pattern) {
	switch p.Kind {
	case pattern.KindIdentifier:
		c.Symbols.Define(p.Name, symtab.KindVariable)
	case pattern.KindArray:
		for _, el := range p.Elements {
			defineNamesFromPattern(c, el)
		}
		if p.Rest != nil {
			defineNamesFromPattern(c, p.Rest)
		}
	case pattern.KindObject:
		for _, e := range p.Entries {
			c.Symbols.Define(e.Name, symtab.KindVariable)
		}
		if p.Rest != nil {
			defineNamesFromPattern(c, p.Rest)
		}
	case pattern.KindDefault:
		defineNamesFromPattern(c, p.Inner)
	}
}

// loweredPattern converts a pattern.Pattern tree into the matching ir.Pattern
// variant (spec §4.2, "Destructuring as interface abstraction" in §9).
func (c *Context) loweredPattern(p *pattern.Pattern) ir.Pattern {
	pos := nb(p.Pos)
	switch p.Kind {
	case pattern.KindSkip:
		return &ir.SkipPattern{NodeBase: pos}
	case pattern.KindIdentifier:
		return &ir.IdentifierPattern{NodeBase: pos, Name: sanitizeIdent(p.Name)}
	case pattern.KindDefault:
		return &ir.AssignmentPattern{NodeBase: pos, Left: c.loweredPattern(p.Inner), Right: c.exprOrNil(p.DefaultExpr)}
	case pattern.KindArray:
		ap := &ir.ArrayPattern{NodeBase: pos}
		for _, el := range p.Elements {
			ap.Elements = append(ap.Elements, c.loweredPattern(el))
		}
		if p.Rest != nil {
			ap.Rest = c.loweredPattern(p.Rest)
		}
		return ap
	case pattern.KindObject:
		op := &ir.ObjectPattern{NodeBase: pos}
		for _, e := range p.Entries {
			entry := ir.ObjectPatternProperty{Key: e.Key, Value: &ir.IdentifierPattern{NodeBase: pos, Name: sanitizeIdent(e.Name)}}
			if e.Default != nil {
				entry.Default = c.exprOrNil(e.Default)
			}
			op.Properties = append(op.Properties, entry)
		}
		if p.Rest != nil {
			op.Rest = c.loweredPattern(p.Rest)
		}
		return op
	}
	return &ir.IdentifierPattern{NodeBase: pos, Name: "_"}
}

func (c *Context) exprOrNil(n *ast.Node) ir.Expression {
	if n == nil {
		return nil
	}
	e, err := c.lowerExpr(n)
	if err != nil {
		return &ir.NullLiteral{NodeBase: nb(n.Pos)}
	}
	return e
}
