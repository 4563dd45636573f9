package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
)

func init() {
	register("try", lowerTry)
}

// lowerTry implements §4.6.5: body forms precede the first `(catch ...)` or
// `(finally ...)`; at most one of each; the whole form is a zero-arg IIFE,
// async if any sub-body contains await.
func lowerTry(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	pos := nb(n.Pos)

	var tryBody []*ast.Node
	var catchForm, finallyForm *ast.Node
	i := 0
	for ; i < len(args); i++ {
		if isClauseHead(args[i], "catch") || isClauseHead(args[i], "finally") {
			break
		}
		tryBody = append(tryBody, args[i])
	}
	for ; i < len(args); i++ {
		if isClauseHead(args[i], "catch") {
			if catchForm != nil {
				return nil, true, validationErr(args[i].Pos, "try accepts at most one catch clause", "(try body... (catch e ...) (finally ...))")
			}
			catchForm = args[i]
		} else if isClauseHead(args[i], "finally") {
			if finallyForm != nil {
				return nil, true, validationErr(args[i].Pos, "try accepts at most one finally clause", "(try body... (catch e ...) (finally ...))")
			}
			finallyForm = args[i]
		} else {
			return nil, true, validationErr(args[i].Pos, "unexpected form after catch/finally", "(catch e ...) or (finally ...)")
		}
	}
	if len(tryBody) == 0 {
		return nil, true, validationErr(n.Pos, "try body must be non-empty", "(try body... (catch e ...)?)")
	}

	c.enterIIFE()
	block, err := c.lowerBlockWithImplicitReturn(tryBody)
	if err != nil {
		c.leaveIIFE()
		return nil, true, err
	}

	var handler *ir.CatchClause
	if catchForm != nil {
		catchArgs := catchForm.Args()
		if len(catchArgs) < 1 {
			c.leaveIIFE()
			return nil, true, validationErr(catchForm.Pos, "catch requires a binding", "(catch e body...)")
		}
		param := ""
		if catchArgs[0].Kind == ast.KindSymbol && catchArgs[0].Name != "_" {
			param = sanitizeIdent(catchArgs[0].Name)
		}
		catchBlock, err := c.lowerBlockWithImplicitReturn(catchArgs[1:])
		if err != nil {
			c.leaveIIFE()
			return nil, true, err
		}
		handler = &ir.CatchClause{NodeBase: nb(catchForm.Pos), Param: param, Body: catchBlock}
	}

	var finalizer *ir.BlockStatement
	if finallyForm != nil {
		finalizer, err = c.lowerBlockNoReturn(finallyForm.Args())
		if err != nil {
			c.leaveIIFE()
			return nil, true, err
		}
	}
	c.leaveIIFE()

	tryStmt := &ir.TryStatement{NodeBase: pos, Block: block, Handler: handler, Finalizer: finalizer}

	hasAwait := containsAwait(block) || (handler != nil && containsAwait(handler.Body)) || (finalizer != nil && containsAwait(finalizer))
	return buildIIFE(pos, []ir.Node{tryStmt}, hasAwait, false), true, nil
}

func isClauseHead(n *ast.Node, head string) bool {
	return n.Kind == ast.KindList && n.Provenance == ast.ProvCall && n.HeadSymbol() == head
}

// lowerBlockWithImplicitReturn lowers forms into a block whose last
// statement is wrapped in return (try/catch bodies, spec §4.6.5).
func (c *Context) lowerBlockWithImplicitReturn(forms []*ast.Node) (*ir.BlockStatement, error) {
	if len(forms) == 0 {
		return &ir.BlockStatement{}, nil
	}
	var stmts []ir.Node
	for i, f := range forms {
		node, err := c.lowerNode(f)
		if err != nil {
			return nil, err
		}
		if i == len(forms)-1 {
			node = asBodyStatement(node)
		} else {
			node = c.asStatement(node, f.Pos)
		}
		stmts = append(stmts, node)
	}
	return &ir.BlockStatement{NodeBase: nb(forms[0].Pos), Body: stmts}, nil
}

// lowerBlockNoReturn lowers forms as plain statements, without the implicit
// return on the last one (finally bodies never produce a value, §4.6.5).
func (c *Context) lowerBlockNoReturn(forms []*ast.Node) (*ir.BlockStatement, error) {
	if len(forms) == 0 {
		return &ir.BlockStatement{}, nil
	}
	var stmts []ir.Node
	for _, f := range forms {
		node, err := c.lowerNode(f)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, c.asStatement(node, f.Pos))
	}
	return &ir.BlockStatement{NodeBase: nb(forms[0].Pos), Body: stmts}, nil
}
