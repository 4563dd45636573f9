package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
	"github.com/hlvm-dev/hql/internal/symtab"
)

func init() {
	register("loop", lowerLoop)
	register("recur", lowerRecur)
	register("while", lowerWhile)
	register("for-of", lowerForOf)
	register("for-await-of", lowerForAwaitOf)
	register("label", lowerLabel)
	register("break", lowerBreak)
	register("continue", lowerContinue)
}

// lowerLoop implements §4.7: `(loop [p1 i1 p2 i2 ...] body...)`. It first
// tries the native-while optimization shape and falls back to a
// self-referencing IIFE naming the loop `loop_N`.
func lowerLoop(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 1 || args[0].Kind != ast.KindList || args[0].Provenance != ast.ProvVector {
		return nil, false, nil
	}
	pairs := args[0].Args()
	if len(pairs)%2 != 0 {
		return nil, true, validationErr(args[0].Pos, "loop binding list must have an even number of elements", "(loop [p1 i1 p2 i2] body...)")
	}
	pos := nb(n.Pos)

	var names []string
	var inits []ir.Expression
	for i := 0; i < len(pairs); i += 2 {
		if pairs[i].Kind != ast.KindSymbol {
			return nil, true, validationErr(pairs[i].Pos, "loop binding name must be a symbol", "(loop [p1 i1] ...)")
		}
		init, err := c.lowerExpr(pairs[i+1])
		if err != nil {
			return nil, true, err
		}
		names = append(names, sanitizeIdent(pairs[i].Name))
		inits = append(inits, init)
	}
	body := args[1:]
	if len(body) == 0 {
		return nil, true, validationErr(n.Pos, "loop requires a body", "(loop [...] body...)")
	}

	c.Symbols.PushScope()
	defer c.Symbols.PopScope()
	for _, nm := range names {
		c.Symbols.Define(nm, symtab.KindVariable)
	}
	frame := c.pushLoop(names)
	defer c.popLoop()

	if len(body) == 1 && body[0].Kind == ast.KindList && body[0].Provenance == ast.ProvCall && body[0].HeadSymbol() == "if" {
		node, handled, err := c.tryLowerLoopAsWhile(pos, names, inits, body[0])
		if err != nil {
			return nil, true, err
		}
		if handled {
			return node, true, nil
		}
	}

	return c.lowerLoopAsIIFE(pos, frame.id, names, inits, body)
}

// tryLowerLoopAsWhile implements the native-`while` optimization: the body
// must be `(if test then alt)` where exactly one branch tail-ends in
// `recur` (possibly the last form of a `do`). Returns handled=false to fall
// back to the general case when the shape doesn't match.
func (c *Context) tryLowerLoopAsWhile(pos ir.NodeBase, names []string, inits []ir.Expression, ifForm *ast.Node) (ir.Node, bool, error) {
	ifArgs := ifForm.Args()
	if len(ifArgs) != 3 {
		return nil, false, nil
	}
	testForm, thenForm, altForm := ifArgs[0], ifArgs[1], ifArgs[2]

	thenPrelude, thenRecur := splitRecurTail(thenForm)
	altPrelude, altRecur := splitRecurTail(altForm)

	var recurForm *ast.Node
	var prelude []*ast.Node
	var valueForm *ast.Node
	negate := false
	switch {
	case thenRecur != nil && altRecur == nil:
		recurForm, prelude, valueForm = thenRecur, thenPrelude, altForm
	case altRecur != nil && thenRecur == nil:
		recurForm, prelude, valueForm = altRecur, altPrelude, thenForm
		negate = true
	default:
		return nil, false, nil
	}

	if len(recurForm.Args()) != len(names) {
		return nil, true, validationErr(recurForm.Pos, "recur argument count must match loop bindings", "(recur newP1 newP2 ...)")
	}

	test, err := c.lowerExpr(testForm)
	if err != nil {
		return nil, true, err
	}
	if negate {
		test = &ir.UnaryExpression{NodeBase: pos, Operator: "!", Argument: test, Prefix: true}
	}

	var stmts []ir.Node
	for i, nm := range names {
		stmts = append(stmts, &ir.VariableDeclaration{
			NodeBase: pos, DKind: ir.DeclLet,
			Declarators: []ir.VariableDeclarator{{Id: &ir.IdentifierPattern{NodeBase: pos, Name: nm}, Init: inits[i]}},
		})
	}

	var bodyStmts []ir.Node
	for _, p := range prelude {
		node, err := c.lowerNode(p)
		if err != nil {
			return nil, true, err
		}
		bodyStmts = append(bodyStmts, c.asStatement(node, p.Pos))
	}

	updateStmts, err := c.buildUpdateBlock(pos, names, recurForm.Args())
	if err != nil {
		return nil, true, err
	}
	bodyStmts = append(bodyStmts, updateStmts...)

	whileStmt := &ir.WhileStatement{NodeBase: pos, Test: test, Body: &ir.BlockStatement{NodeBase: pos, Body: bodyStmts}}
	stmts = append(stmts, whileStmt)

	value, err := c.lowerExpr(valueForm)
	if err != nil {
		return nil, true, err
	}
	stmts = append(stmts, &ir.ReturnStatement{NodeBase: pos, Argument: value})

	hasAwait, hasYield := false, false
	for _, s := range stmts {
		if containsAwait(s) {
			hasAwait = true
		}
		if containsYield(s) {
			hasYield = true
		}
	}
	return buildIIFE(pos, stmts, hasAwait, hasYield), true, nil
}

// splitRecurTail reports whether form tail-ends in `(recur ...)`, either
// directly or as the last form of a `do` block, returning the preceding
// prelude forms (empty for the direct case) and the recur form itself, or
// (nil, nil) if form does not tail-end in recur.
func splitRecurTail(form *ast.Node) ([]*ast.Node, *ast.Node) {
	if form.Kind != ast.KindList || form.Provenance != ast.ProvCall {
		return nil, nil
	}
	if form.HeadSymbol() == "recur" {
		return nil, form
	}
	if form.HeadSymbol() == "do" {
		args := form.Args()
		if len(args) == 0 {
			return nil, nil
		}
		last := args[len(args)-1]
		if last.Kind == ast.KindList && last.Provenance == ast.ProvCall && last.HeadSymbol() == "recur" {
			return args[:len(args)-1], last
		}
	}
	return nil, nil
}

// buildUpdateBlock implements the update-block generation algorithm: simple
// arithmetic updates referencing no other loop parameter become compound
// assignments; everything else routes through a temporary computed from the
// entering values, with compound updates emitted strictly last.
func (c *Context) buildUpdateBlock(pos ir.NodeBase, names []string, recurArgs []*ast.Node) ([]ir.Node, error) {
	type compound struct {
		name   string
		op     string
		amount ir.Expression
	}
	type temp struct {
		name  string
		value ir.Expression
	}
	var compounds []compound
	var temps []temp

	for i, name := range names {
		argForm := recurArgs[i]
		others := otherNames(names, i)
		if op, amountForm, ok := matchCompoundUpdate(argForm, name, others); ok {
			amount, err := c.lowerExpr(amountForm)
			if err != nil {
				return nil, err
			}
			compounds = append(compounds, compound{name: name, op: op, amount: amount})
			continue
		}
		value, err := c.lowerExpr(argForm)
		if err != nil {
			return nil, err
		}
		temps = append(temps, temp{name: name, value: value})
	}

	var stmts []ir.Node
	for _, t := range temps {
		stmts = append(stmts, &ir.VariableDeclaration{
			NodeBase: pos, DKind: ir.DeclLet,
			Declarators: []ir.VariableDeclarator{{Id: &ir.IdentifierPattern{NodeBase: pos, Name: "__hql_temp_" + t.name}, Init: t.value}},
		})
	}
	for _, t := range temps {
		stmts = append(stmts, &ir.ExpressionStatement{NodeBase: pos, Expression: &ir.AssignmentExpression{
			NodeBase: pos, Operator: "=",
			Left:  &ir.Identifier{NodeBase: pos, Name: t.name},
			Right: &ir.Identifier{NodeBase: pos, Name: "__hql_temp_" + t.name},
		}})
	}
	for _, cu := range compounds {
		if lit, ok := cu.amount.(*ir.NumericLiteral); ok && lit.Value == 1 && (cu.op == "+" || cu.op == "-") {
			op := "++"
			if cu.op == "-" {
				op = "--"
			}
			stmts = append(stmts, &ir.ExpressionStatement{NodeBase: pos, Expression: &ir.AssignmentExpression{
				NodeBase: pos, Operator: op, Left: &ir.Identifier{NodeBase: pos, Name: cu.name},
			}})
			continue
		}
		stmts = append(stmts, &ir.ExpressionStatement{NodeBase: pos, Expression: &ir.AssignmentExpression{
			NodeBase: pos, Operator: cu.op + "=",
			Left:  &ir.Identifier{NodeBase: pos, Name: cu.name},
			Right: cu.amount,
		}})
	}
	return stmts, nil
}

func otherNames(names []string, exclude int) []string {
	out := make([]string, 0, len(names)-1)
	for i, n := range names {
		if i != exclude {
			out = append(out, n)
		}
	}
	return out
}

// matchCompoundUpdate recognizes `(+ p amount)`, `(* p amount)`,
// `(- p amount)`, `(/ p amount)` where p is the updated parameter and
// amount references none of the other loop parameters. For `-`/`/`, p must
// be the left operand.
func matchCompoundUpdate(form *ast.Node, param string, otherParams []string) (string, *ast.Node, bool) {
	if form.Kind != ast.KindList || form.Provenance != ast.ProvCall {
		return "", nil, false
	}
	op := form.HeadSymbol()
	if op != "+" && op != "-" && op != "*" && op != "/" {
		return "", nil, false
	}
	args := form.Args()
	if len(args) != 2 {
		return "", nil, false
	}
	a, b := args[0], args[1]

	if isSymbolNamed(a, param) && !referencesAny(b, otherParams) {
		return op, b, true
	}
	if (op == "+" || op == "*") && isSymbolNamed(b, param) && !referencesAny(a, otherParams) {
		return op, a, true
	}
	return "", nil, false
}

func isSymbolNamed(n *ast.Node, name string) bool {
	return n.Kind == ast.KindSymbol && n.Name == name
}

func referencesAny(n *ast.Node, names []string) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.KindSymbol {
		for _, nm := range names {
			if n.Name == nm {
				return true
			}
		}
		return false
	}
	if n.Kind == ast.KindList {
		for _, child := range n.Children {
			if referencesAny(child, names) {
				return true
			}
		}
	}
	return false
}

// lowerLoopAsIIFE is the general case: bindings become parameters of a
// synthesized named function, called once with the initial values; `recur`
// lowers (via lowerRecur) to `return loop_N(newArgs...)`.
func (c *Context) lowerLoopAsIIFE(pos ir.NodeBase, loopID string, names []string, inits []ir.Expression, body []*ast.Node) (ir.Node, bool, error) {
	var params []ir.Pattern
	for _, nm := range names {
		params = append(params, &ir.IdentifierPattern{NodeBase: pos, Name: nm})
	}

	block, hasAwait, hasYield, err := c.lowerFunctionBody(body)
	if err != nil {
		return nil, true, err
	}

	fnDecl := &ir.FunctionDeclaration{NodeBase: pos, Name: loopID, Async: hasAwait, Generator: hasYield, Params: params, Body: block}
	callArgs := make([]ir.Expression, len(inits))
	copy(callArgs, inits)
	call := &ir.CallExpression{NodeBase: pos, Callee: &ir.Identifier{NodeBase: pos, Name: loopID}, Arguments: callArgs}

	stmts := []ir.Node{fnDecl, &ir.ReturnStatement{NodeBase: pos, Argument: call}}
	return buildIIFE(pos, stmts, false, false), true, nil
}

// lowerRecur implements §4.7's tail-position jump: `return loop_N(args...)`.
// The return-wrapping happens naturally wherever recur appears in tail
// position, via the same asBodyStatement/lowerBranchAsStatement machinery
// functions and if-branches already use.
func lowerRecur(c *Context, n *ast.Node) (ir.Node, bool, error) {
	frame := c.currentLoop()
	if frame == nil {
		return nil, true, validationErr(n.Pos, "recur used outside of a loop", "(loop [...] ... (recur ...))")
	}
	args := n.Args()
	if len(args) != len(frame.bindings) {
		return nil, true, validationErr(n.Pos, "recur argument count must match loop bindings", "(recur newP1 newP2 ...)")
	}
	exprs, err := c.lowerExprList(args)
	if err != nil {
		return nil, true, err
	}
	return &ir.CallExpression{NodeBase: nb(n.Pos), Callee: &ir.Identifier{NodeBase: nb(n.Pos), Name: frame.id}, Arguments: exprs}, true, nil
}

// lowerWhile implements §4.6.9's `while` macro directly as a native while
// loop with no bindings to update, since it carries no recur parameters.
func lowerWhile(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 1 {
		return nil, false, nil
	}
	pos := nb(n.Pos)
	test, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}

	c.enterFor()
	var bodyStmts []ir.Node
	for _, b := range args[1:] {
		node, err := c.lowerNode(b)
		if err != nil {
			c.leaveFor()
			return nil, true, err
		}
		bodyStmts = append(bodyStmts, c.asStatement(node, b.Pos))
	}
	c.leaveFor()

	block := &ir.BlockStatement{NodeBase: pos, Body: bodyStmts}
	whileStmt := &ir.WhileStatement{NodeBase: pos, Test: test, Body: block}
	stmts := []ir.Node{whileStmt, &ir.ReturnStatement{NodeBase: pos, Argument: &ir.NullLiteral{NodeBase: pos}}}
	return buildIIFE(pos, stmts, containsAwait(block), containsYield(block)), true, nil
}

// lowerForOf and lowerForAwaitOf implement §4.7's `for-of`/`for-await-of`:
// `(for-of [item coll] body...)`, lowered to a ForOfStatement inside an IIFE
// returning null so the loop can be used in expression position.
func lowerForOf(c *Context, n *ast.Node) (ir.Node, bool, error) {
	return c.lowerForOfForm(n, false)
}

func lowerForAwaitOf(c *Context, n *ast.Node) (ir.Node, bool, error) {
	return c.lowerForOfForm(n, true)
}

func (c *Context) lowerForOfForm(n *ast.Node, await bool) (ir.Node, bool, error) {
	forStmt, _, hasYield, err := c.lowerForOfBare(n, await)
	if err != nil {
		return nil, true, err
	}
	if forStmt == nil {
		return nil, false, nil
	}
	pos := nb(n.Pos)
	stmts := []ir.Node{forStmt, &ir.ReturnStatement{NodeBase: pos, Argument: &ir.NullLiteral{NodeBase: pos}}}
	return buildIIFE(pos, stmts, await || containsAwait(forStmt), hasYield), true, nil
}

// lowerForOfBare lowers the ForOfStatement itself without the expression
// IIFE wrapper, for use both by the ordinary case and by `label` when a
// labeled for-of's break/continue must reach a native JS label (§4.7).
func (c *Context) lowerForOfBare(n *ast.Node, await bool) (*ir.ForOfStatement, bool, bool, error) {
	args := n.Args()
	if len(args) < 1 || args[0].Kind != ast.KindList || args[0].Provenance != ast.ProvVector {
		return nil, false, false, nil
	}
	binding := args[0].Args()
	if len(binding) != 2 || binding[0].Kind != ast.KindSymbol {
		return nil, false, false, validationErr(args[0].Pos, "for-of binding must be [item collection]", "(for-of [item coll] body...)")
	}
	pos := nb(n.Pos)
	itemName := sanitizeIdent(binding[0].Name)

	coll, err := c.lowerExpr(binding[1])
	if err != nil {
		return nil, false, false, err
	}

	c.Symbols.PushScope()
	defer c.Symbols.PopScope()
	c.Symbols.Define(binding[0].Name, symtab.KindVariable)

	c.enterFor()
	var bodyStmts []ir.Node
	for _, b := range args[1:] {
		node, err := c.lowerNode(b)
		if err != nil {
			c.leaveFor()
			return nil, false, false, err
		}
		bodyStmts = append(bodyStmts, c.asStatement(node, b.Pos))
	}
	c.leaveFor()

	block := &ir.BlockStatement{NodeBase: pos, Body: bodyStmts}
	left := &ir.VariableDeclaration{
		NodeBase: pos, DKind: ir.DeclConst,
		Declarators: []ir.VariableDeclarator{{Id: &ir.IdentifierPattern{NodeBase: pos, Name: itemName}, Init: nil}},
	}
	forStmt := &ir.ForOfStatement{NodeBase: pos, Left: left, Right: coll, Body: block, Await: await}
	return forStmt, containsAwait(block), containsYield(block), nil
}

// lowerLabel implements §4.7: `(label L stmt)` -> LabeledStatement{L, stmt}.
// When stmt is a for-of/for-await-of whose body transitively breaks or
// continues to L, the for-of's own native loop must carry the label
// directly (a labeled break cannot cross the for-of's expression-IIFE
// boundary), so the whole labeled loop is instead wrapped in one IIFE
// returning null.
func lowerLabel(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 2 || args[0].Kind != ast.KindSymbol {
		return nil, false, nil
	}
	label := args[0].Name
	pos := nb(n.Pos)
	bodyForm := args[1]

	if bodyForm.Kind == ast.KindList && bodyForm.Provenance == ast.ProvCall &&
		(bodyForm.HeadSymbol() == "for-of" || bodyForm.HeadSymbol() == "for-await-of") &&
		formReferencesLabel(bodyForm, label) {

		await := bodyForm.HeadSymbol() == "for-await-of"
		c.pushLabel(label)
		forStmt, hasAwait, hasYield, err := c.lowerForOfBare(bodyForm, await)
		c.popLabel()
		if err != nil {
			return nil, true, err
		}
		if forStmt == nil {
			return nil, true, validationErr(bodyForm.Pos, "for-of binding must be [item collection]", "(label L (for-of [item coll] body...))")
		}
		labeled := &ir.LabeledStatement{NodeBase: pos, Label: label, Body: forStmt}
		stmts := []ir.Node{labeled, &ir.ReturnStatement{NodeBase: pos, Argument: &ir.NullLiteral{NodeBase: pos}}}
		return buildIIFE(pos, stmts, await || hasAwait, hasYield), true, nil
	}

	c.pushLabel(label)
	node, err := c.lowerNode(bodyForm)
	c.popLabel()
	if err != nil {
		return nil, true, err
	}
	stmt := c.asStatement(node, bodyForm.Pos).(ir.Statement)
	return &ir.LabeledStatement{NodeBase: pos, Label: label, Body: stmt}, true, nil
}

// formReferencesLabel reports whether form transitively contains a
// `break`/`continue` naming label, without descending into a nested
// `label` form that shadows the same name.
func formReferencesLabel(n *ast.Node, label string) bool {
	if n == nil || n.Kind != ast.KindList {
		return false
	}
	switch n.HeadSymbol() {
	case "break", "continue":
		args := n.Args()
		return len(args) == 1 && args[0].Kind == ast.KindSymbol && args[0].Name == label
	case "label":
		inner := n.Args()
		if len(inner) == 2 && inner[0].Kind == ast.KindSymbol && inner[0].Name == label {
			return false
		}
	}
	for _, child := range n.Children {
		if formReferencesLabel(child, label) {
			return true
		}
	}
	return false
}

func lowerBreak(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	pos := nb(n.Pos)
	if len(args) == 0 {
		if !c.inForBody() {
			return nil, true, validationErr(n.Pos, "break used outside of a loop", "(break) or (break label)")
		}
		return &ir.BreakStatement{NodeBase: pos}, true, nil
	}
	if len(args) != 1 || args[0].Kind != ast.KindSymbol {
		return nil, false, nil
	}
	if !c.hasLabel(args[0].Name) {
		return nil, true, validationErr(n.Pos, "break label does not match any enclosing label", "(break label)")
	}
	return &ir.BreakStatement{NodeBase: pos, Label: sanitizeIdent(args[0].Name)}, true, nil
}

func lowerContinue(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	pos := nb(n.Pos)
	if len(args) == 0 {
		if !c.inForBody() {
			return nil, true, validationErr(n.Pos, "continue used outside of a loop", "(continue) or (continue label)")
		}
		return &ir.ContinueStatement{NodeBase: pos}, true, nil
	}
	if len(args) != 1 || args[0].Kind != ast.KindSymbol {
		return nil, false, nil
	}
	if !c.hasLabel(args[0].Name) {
		return nil, true, validationErr(n.Pos, "continue label does not match any enclosing label", "(continue label)")
	}
	return &ir.ContinueStatement{NodeBase: pos, Label: sanitizeIdent(args[0].Name)}, true, nil
}
