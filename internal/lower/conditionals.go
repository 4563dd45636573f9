package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
)

func init() {
	register("if", lowerIf)
	register("?", lowerTernary)
	register("do", lowerDo)
	register("return", lowerReturn)
	register("throw", lowerThrow)
	register("switch", lowerSwitch)
}

// lowerIf implements §4.6.4. When in a recur context and a branch contains
// `recur`, both branches are forced to statement form with explicit
// returns; loop.go's recur handling relies on this shape.
func lowerIf(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 2 || len(args) > 3 {
		return nil, false, nil
	}
	pos := nb(n.Pos)

	test, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}

	inLoop := c.currentLoop() != nil
	thenHasRecur := inLoop && containsRecurForm(args[1])
	elseHasRecur := inLoop && len(args) == 3 && containsRecurForm(args[2])

	if thenHasRecur || elseHasRecur {
		thenStmt, err := c.lowerBranchAsStatement(args[1])
		if err != nil {
			return nil, true, err
		}
		var elseStmt ir.Statement
		if len(args) == 3 {
			elseStmt, err = c.lowerBranchAsStatement(args[2])
			if err != nil {
				return nil, true, err
			}
		}
		return &ir.IfStatement{NodeBase: pos, Test: test, Consequent: thenStmt, Alternate: elseStmt}, true, nil
	}

	thenNode, err := c.lowerNode(args[1])
	if err != nil {
		return nil, true, err
	}

	if len(args) == 2 {
		if isControlFlowStmt(thenNode) {
			stmt, _ := thenNode.(ir.Statement)
			return &ir.IfStatement{NodeBase: pos, Test: test, Consequent: stmt}, true, nil
		}
		thenExpr, _ := isExprNode(thenNode)
		return &ir.IfStatement{NodeBase: pos, Test: test, Consequent: &ir.ExpressionStatement{NodeBase: pos, Expression: thenExpr}}, true, nil
	}

	elseNode, err := c.lowerNode(args[2])
	if err != nil {
		return nil, true, err
	}

	if isControlFlowStmt(thenNode) || isControlFlowStmt(elseNode) {
		return &ir.IfStatement{
			NodeBase:   pos,
			Test:       test,
			Consequent: c.asStatement(thenNode, args[1].Pos).(ir.Statement),
			Alternate:  c.asStatement(elseNode, args[2].Pos).(ir.Statement),
		}, true, nil
	}

	thenExpr, thenOK := isExprNode(thenNode)
	elseExpr, elseOK := isExprNode(elseNode)
	if thenOK && elseOK {
		return &ir.ConditionalExpression{NodeBase: pos, Test: test, Consequent: thenExpr, Alternate: elseExpr}, true, nil
	}

	return &ir.IfStatement{
		NodeBase:   pos,
		Test:       test,
		Consequent: c.asStatement(thenNode, args[1].Pos).(ir.Statement),
		Alternate:  c.asStatement(elseNode, args[2].Pos).(ir.Statement),
	}, true, nil
}

func (c *Context) lowerBranchAsStatement(n *ast.Node) (ir.Statement, error) {
	node, err := c.lowerNode(n)
	if err != nil {
		return nil, err
	}
	if stmt, ok := node.(ir.Statement); ok {
		return stmt, nil
	}
	expr, _ := isExprNode(node)
	return &ir.ReturnStatement{NodeBase: nb(n.Pos), Argument: expr}, nil
}

func containsRecurForm(n *ast.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind == ast.KindList {
		if n.HeadSymbol() == "recur" {
			return true
		}
		if n.HeadSymbol() == "do" {
			for _, child := range n.Args() {
				if containsRecurForm(child) {
					return true
				}
			}
		}
		if n.HeadSymbol() == "if" {
			for _, child := range n.Args() {
				if containsRecurForm(child) {
					return true
				}
			}
		}
	}
	return false
}

// lowerTernary implements §4.6.4: `?` is an expression-only 3-arg form.
func lowerTernary(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 3 {
		return nil, true, validationErr(n.Pos, "? requires exactly 3 arguments", "(? test then else)")
	}
	exprs, err := c.lowerExprList(args)
	if err != nil {
		return nil, true, err
	}
	return &ir.ConditionalExpression{NodeBase: nb(n.Pos), Test: exprs[0], Consequent: exprs[1], Alternate: exprs[2]}, true, nil
}

// lowerDo implements §4.6.4: a single body form containing no `return`
// unwraps; otherwise it becomes an IIFE whose last expression is wrapped in
// return.
func lowerDo(c *Context, n *ast.Node) (ir.Node, bool, error) {
	body := n.Args()
	pos := nb(n.Pos)
	if len(body) == 0 {
		return &ir.NullLiteral{NodeBase: pos}, true, nil
	}

	if len(body) == 1 && !formContainsReturn(body[0]) {
		node, err := c.lowerNode(body[0])
		if err != nil {
			return nil, true, err
		}
		return node, true, nil
	}

	c.enterIIFE()
	var stmts []ir.Node
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
		stmts = append(stmts, node)
	}
	c.leaveIIFE()

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

func formContainsReturn(n *ast.Node) bool {
	if n == nil || n.Kind != ast.KindList {
		return false
	}
	if n.HeadSymbol() == "return" {
		return true
	}
	for _, c := range n.Children {
		if formContainsReturn(c) {
			return true
		}
	}
	return false
}

// lowerReturn implements §4.6.4 / §4.8: inside an IIFE, `return` throws the
// early-return sentinel; at function top level it's a plain return.
func lowerReturn(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	pos := nb(n.Pos)
	var value ir.Expression = &ir.Identifier{NodeBase: pos, Name: "undefined"}
	if len(args) == 1 {
		v, err := c.lowerExpr(args[0])
		if err != nil {
			return nil, true, err
		}
		value = v
	}

	if c.inIIFE() {
		sentinel := &ir.ObjectExpression{
			NodeBase: pos,
			Properties: []ir.ObjectProperty{
				{Key: &ir.Identifier{NodeBase: pos, Name: "__hql_early_return__"}, Value: &ir.BooleanLiteral{NodeBase: pos, Value: true}},
				{Key: &ir.Identifier{NodeBase: pos, Name: "value"}, Value: value},
			},
		}
		return &ir.ThrowStatement{NodeBase: pos, Argument: sentinel}, true, nil
	}
	return &ir.ReturnStatement{NodeBase: pos, Argument: value}, true, nil
}

func lowerThrow(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 1 {
		return nil, false, nil
	}
	v, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	return &ir.ThrowStatement{NodeBase: nb(n.Pos), Argument: v}, true, nil
}

// lowerSwitch is a thin case-table flattening to a chain of
// ConditionalExpressions inside an IIFE; HQL's `switch` is value-comparison
// based rather than ECMAScript's fallthrough switch, so it lowers to a
// cascading conditional rather than a SwitchStatement IR node (no such
// node is in the §3 IR family list).
func lowerSwitch(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 1 {
		return nil, false, nil
	}
	discriminant, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	cases := args[1:]
	pos := nb(n.Pos)

	// The discriminant is bound once to a temp so a side-effecting
	// expression (e.g. a call) is evaluated exactly once rather than once
	// per arm that re-embeds it.
	discID := &ir.Identifier{NodeBase: pos, Name: "__hql_switch_disc"}

	var fallback ir.Expression = &ir.Identifier{NodeBase: pos, Name: "undefined"}
	type arm struct {
		test  ir.Expression
		value ir.Expression
	}
	var arms []arm
	for _, caseForm := range cases {
		if caseForm.Kind != ast.KindList || caseForm.Provenance != ast.ProvCall {
			return nil, true, validationErr(caseForm.Pos, "switch case must be a list", "(match-value result) or (else result)")
		}
		caseArgs := caseForm.Children
		if len(caseArgs) != 2 {
			return nil, true, validationErr(caseForm.Pos, "switch case requires exactly a match and a result", "(match-value result)")
		}
		if caseForm.HeadSymbol() == "else" {
			v, err := c.lowerExpr(caseArgs[1])
			if err != nil {
				return nil, true, err
			}
			fallback = v
			continue
		}
		matchVal, err := c.lowerExpr(caseArgs[0])
		if err != nil {
			return nil, true, err
		}
		resultVal, err := c.lowerExpr(caseArgs[1])
		if err != nil {
			return nil, true, err
		}
		test := &ir.BinaryExpression{NodeBase: pos, Operator: "===", Left: discID, Right: matchVal}
		arms = append(arms, arm{test: test, value: resultVal})
	}

	result := fallback
	for i := len(arms) - 1; i >= 0; i-- {
		result = &ir.ConditionalExpression{NodeBase: pos, Test: arms[i].test, Consequent: arms[i].value, Alternate: result}
	}

	discDecl := &ir.VariableDeclaration{
		NodeBase: pos, DKind: ir.DeclConst,
		Declarators: []ir.VariableDeclarator{{Id: &ir.IdentifierPattern{NodeBase: pos, Name: discID.Name}, Init: discriminant}},
	}
	stmts := []ir.Node{discDecl, &ir.ReturnStatement{NodeBase: pos, Argument: result}}
	hasAwait := containsAwait(discriminant) || containsAwait(result)
	hasYield := containsYield(discriminant) || containsYield(result)
	return buildIIFE(pos, stmts, hasAwait, hasYield), true, nil
}
