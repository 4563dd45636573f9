// Package lower implements the AST→IR dispatch router and the syntax
// lowerings of spec §4.4–§4.13: a dispatch-driven tree rewriter recognizing
// the HQL special forms and emitting the typed IR of internal/ir.
package lower

import (
	"strconv"
	"strings"

	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/diagnostics"
	"github.com/hlvm-dev/hql/internal/ir"
	"github.com/hlvm-dev/hql/internal/symtab"
	"github.com/hlvm-dev/hql/internal/token"
)

// ValidationError and TransformError are distinguished only by Kind on the
// shared diagnostics.Diagnostic type (spec §7's "single-error-type"
// approach, mirroring the teacher's CompilerError).
func validationErr(pos token.Position, msg, context string) *diagnostics.Diagnostic {
	return &diagnostics.Diagnostic{Kind: diagnostics.KindValidation, Message: msg, Context: context, Pos: pos}
}

func transformErr(pos token.Position, msg string) *diagnostics.Diagnostic {
	return &diagnostics.Diagnostic{Kind: diagnostics.KindTransform, Message: msg, Pos: pos}
}

// nb builds an ir.NodeBase from a source position; every lowering helper
// uses this instead of repeating the keyed literal.
func nb(pos token.Position) ir.NodeBase {
	return ir.NodeBase{Position: pos}
}

// Context carries the compilation-scoped mutable state spec §5 and §9
// describe as the only state threaded across lowering calls: the symbol
// table, the IIFE-depth counter, the loop-context stack, and loop-id
// generation. It is modeled as an explicit handle, never an ambient global,
// so scoped acquisition/release around a `loop`/`label` lowering is simply
// push-then-deferred-pop at the call site.
type Context struct {
	Symbols *symtab.Table

	currentDir string

	iifeDepth int
	loopStack []*loopFrame
	nextLoop  int

	forDepth   int
	labelStack []string
}

type loopFrame struct {
	id       string
	bindings []string
}

// NewContext creates a fresh compilation-scoped lowering context.
func NewContext(currentDir string) *Context {
	return &Context{Symbols: symtab.New(), currentDir: currentDir}
}

func (c *Context) enterIIFE()   { c.iifeDepth++ }
func (c *Context) leaveIIFE()   { c.iifeDepth-- }
func (c *Context) inIIFE() bool { return c.iifeDepth > 0 }

func (c *Context) pushLoop(bindings []string) *loopFrame {
	f := &loopFrame{id: c.freshLoopID(), bindings: bindings}
	c.loopStack = append(c.loopStack, f)
	return f
}

func (c *Context) popLoop() {
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
}

func (c *Context) currentLoop() *loopFrame {
	if len(c.loopStack) == 0 {
		return nil
	}
	return c.loopStack[len(c.loopStack)-1]
}

func (c *Context) enterFor()    { c.forDepth++ }
func (c *Context) leaveFor()    { c.forDepth-- }
func (c *Context) inForBody() bool { return c.forDepth > 0 }

func (c *Context) pushLabel(name string) { c.labelStack = append(c.labelStack, name) }
func (c *Context) popLabel()             { c.labelStack = c.labelStack[:len(c.labelStack)-1] }
func (c *Context) hasLabel(name string) bool {
	for _, l := range c.labelStack {
		if l == name {
			return true
		}
	}
	return false
}

func (c *Context) freshLoopID() string {
	c.nextLoop++
	return "loop_" + strconv.Itoa(c.nextLoop)
}

// Lower is the public entry point: AST[] → IRProgram (spec §6's
// `lower(ast, currentDir) → IRProgram`).
func Lower(forms []*ast.Node, currentDir string) (*ir.Program, error) {
	ctx := NewContext(currentDir)
	prog := &ir.Program{}
	for _, f := range forms {
		node, err := ctx.lowerTopLevel(f)
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, node)
	}
	return prog, nil
}

// lowerTopLevel lowers one top-level form, wrapping bare expressions in
// ExpressionStatement per invariant 1 (spec §3): "every IR node is either a
// declaration/statement or an expression wrapped in ExpressionStatement."
func (c *Context) lowerTopLevel(n *ast.Node) (ir.Node, error) {
	node, err := c.lowerNode(n)
	if err != nil {
		return nil, err
	}
	return c.asStatement(node, n.Pos), nil
}

// asStatement applies the canonical expression-vs-statement classification
// spec §9 insists live in exactly one place.
func (c *Context) asStatement(node ir.Node, pos token.Position) ir.Node {
	switch v := node.(type) {
	case ir.Statement:
		return v
	case ir.Declaration:
		return v
	case ir.Expression:
		return &ir.ExpressionStatement{NodeBase: nb(pos), Expression: v}
	default:
		return node
	}
}

// lowerNode is the central §4.4 dispatch: lower(node) → IR.
func (c *Context) lowerNode(n *ast.Node) (ir.Node, error) {
	if n == nil {
		return nil, transformErr(token.Position{}, "cannot lower a nil node")
	}
	switch n.Kind {
	case ast.KindLiteral:
		return c.lowerLiteral(n), nil
	case ast.KindSymbol:
		return c.lowerSymbol(n)
	case ast.KindList:
		return c.lowerList(n)
	default:
		return nil, transformErr(n.Pos, "unknown AST node kind")
	}
}

func (c *Context) lowerLiteral(n *ast.Node) ir.Expression {
	pos := nb(n.Pos)
	switch n.LitKind {
	case ast.LitNull:
		return &ir.NullLiteral{NodeBase: pos}
	case ast.LitBool:
		return &ir.BooleanLiteral{NodeBase: pos, Value: n.Bool}
	case ast.LitNumber:
		if n.IsBigInt {
			return &ir.BigIntLiteral{NodeBase: pos, Value: trimFloatToDigits(n)}
		}
		return &ir.NumericLiteral{NodeBase: pos, Value: n.Number}
	case ast.LitString:
		return &ir.StringLiteral{NodeBase: pos, Value: n.Str}
	}
	return &ir.NullLiteral{NodeBase: pos}
}

func trimFloatToDigits(n *ast.Node) string {
	s := n.String()
	return strings.TrimSuffix(s, "n")
}

// lowerSymbol handles `_`, first-class operators, optional chains,
// dot-paths, `js/…`, and plain identifiers, per spec §4.4.
func (c *Context) lowerSymbol(n *ast.Node) (ir.Expression, error) {
	info := ast.AnalyzeSymbol(n.Name)
	pos := nb(n.Pos)

	if n.Name == "_" {
		return &ir.StringLiteral{NodeBase: pos, Value: "_"}, nil
	}

	if info.IsJSRaw {
		return &ir.Identifier{NodeBase: pos, Name: info.JSRawIdent}, nil
	}

	if isOperatorSymbol(n.Name) {
		return &ir.CallExpression{
			NodeBase:  pos,
			Callee:    &ir.Identifier{NodeBase: pos, Name: "__hql_get_op"},
			Arguments: []ir.Expression{&ir.StringLiteral{NodeBase: pos, Value: n.Name}},
		}, nil
	}

	if info.IsMemberPath {
		return c.lowerMemberPath(info, pos), nil
	}

	if info.IsDotMethod {
		// A bare `.method` symbol outside call-head position has no
		// receiver; treat the method name as a plain identifier.
		return &ir.Identifier{NodeBase: pos, Name: sanitizeIdent(info.MethodName)}, nil
	}

	return &ir.Identifier{NodeBase: pos, Name: sanitizeIdent(n.Name)}, nil
}

func (c *Context) lowerMemberPath(info ast.SymbolInfo, pos ir.NodeBase) ir.Expression {
	segs := info.PathSegments
	if len(segs) == 0 {
		return &ir.Identifier{NodeBase: pos, Name: sanitizeIdent(info.BaseName)}
	}
	var cur ir.Expression = &ir.Identifier{NodeBase: pos, Name: sanitizeIdent(segs[0].Name)}
	for _, seg := range segs[1:] {
		if seg.Optional {
			cur = &ir.OptionalMemberExpression{NodeBase: pos, Object: cur, Property: &ir.Identifier{NodeBase: pos, Name: seg.Name}, Optional: true}
		} else {
			cur = &ir.MemberExpression{NodeBase: pos, Object: cur, Property: &ir.Identifier{NodeBase: pos, Name: seg.Name}}
		}
	}
	return cur
}

func sanitizeIdent(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// lowerList implements §4.4's List dispatch: empty list, dot-method head,
// nested-list head, or special-form table lookup falling back to a plain
// call.
func (c *Context) lowerList(n *ast.Node) (ir.Node, error) {
	pos := nb(n.Pos)
	if len(n.Children) == 0 {
		return &ir.ArrayExpression{NodeBase: pos}, nil
	}

	head := n.Head()

	if head.Kind == ast.KindSymbol {
		info := ast.AnalyzeSymbol(head.Name)
		if info.IsDotMethod {
			return c.lowerDotMethodCall(n, info)
		}
		if fn, ok := specialForms[head.Name]; ok {
			node, handled, err := fn(c, n)
			if err != nil {
				return nil, err
			}
			if handled {
				return node, nil
			}
		}
		return c.lowerCallOrAccess(n)
	}

	if head.Kind == ast.KindList {
		loweredHead, err := c.lowerNode(head)
		if err != nil {
			return nil, err
		}
		headExpr, ok := loweredHead.(ir.Expression)
		if !ok {
			return nil, transformErr(n.Pos, "list head did not lower to an expression")
		}
		return c.lowerCallWithCallee(n, headExpr)
	}

	return c.lowerCallOrAccess(n)
}

func (c *Context) lowerDotMethodCall(n *ast.Node, info ast.SymbolInfo) (ir.Node, error) {
	args := n.Args()
	if len(args) == 0 {
		return nil, validationErr(n.Pos, "dot-method call requires a receiver", "(.method receiver args...)")
	}
	recv, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, err
	}
	rest, err := c.lowerExprList(args[1:])
	if err != nil {
		return nil, err
	}
	pos := nb(n.Pos)
	return &ir.CallExpression{
		NodeBase: pos,
		Callee: &ir.MemberExpression{
			NodeBase: pos,
			Object:   recv,
			Property: &ir.Identifier{NodeBase: pos, Name: info.MethodName},
		},
		Arguments: rest,
	}, nil
}

func (c *Context) lowerCallWithCallee(n *ast.Node, callee ir.Expression) (ir.Node, error) {
	args, err := c.lowerExprList(n.Args())
	if err != nil {
		return nil, err
	}
	return &ir.CallExpression{NodeBase: nb(n.Pos), Callee: callee, Arguments: args}, nil
}

// lowerCallOrAccess applies §4.5's disambiguation when no special-form
// handler claimed the list: a two-element list `(a b)` is a call if `a` is
// a known function, else an indexed/keyed access, else a call.
func (c *Context) lowerCallOrAccess(n *ast.Node) (ir.Node, error) {
	head := n.Head()
	args := n.Args()
	pos := nb(n.Pos)

	if head.Kind == ast.KindSymbol && len(args) == 1 {
		if !c.Symbols.IsCallable(head.Name) {
			argNode := args[0]
			if argNode.Kind == ast.KindLiteral && argNode.LitKind == ast.LitString {
				obj, err := c.lowerSymbol(head)
				if err != nil {
					return nil, err
				}
				key, err := c.lowerExpr(argNode)
				if err != nil {
					return nil, err
				}
				return &ir.CallExpression{
					NodeBase:  pos,
					Callee:    &ir.Identifier{NodeBase: pos, Name: "__hql_get"},
					Arguments: []ir.Expression{obj, key},
				}, nil
			}
			if argNode.Kind == ast.KindLiteral && argNode.LitKind == ast.LitNumber {
				obj, err := c.lowerSymbol(head)
				if err != nil {
					return nil, err
				}
				idx, err := c.lowerExpr(argNode)
				if err != nil {
					return nil, err
				}
				return &ir.CallExpression{
					NodeBase:  pos,
					Callee:    &ir.Identifier{NodeBase: pos, Name: "__hql_getNumeric"},
					Arguments: []ir.Expression{obj, idx},
				}, nil
			}
		}
	}

	callee, err := c.lowerExpr(head)
	if err != nil {
		return nil, err
	}
	args2, err := c.lowerExprList(args)
	if err != nil {
		return nil, err
	}
	return &ir.CallExpression{NodeBase: pos, Callee: callee, Arguments: args2}, nil
}

// lowerExpr lowers n and asserts the result is an Expression, the shape
// most lowering helpers need.
func (c *Context) lowerExpr(n *ast.Node) (ir.Expression, error) {
	node, err := c.lowerNode(n)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(ir.Expression)
	if !ok {
		return nil, transformErr(n.Pos, "expected an expression here")
	}
	return expr, nil
}

func (c *Context) lowerExprList(ns []*ast.Node) ([]ir.Expression, error) {
	out := make([]ir.Expression, 0, len(ns))
	for _, n := range ns {
		e, err := c.lowerExpr(n)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// specialForms is the static operator table §4.4 dispatches against.
// Populated by init() in each lowering-family file so this router file
// stays free of any one family's detail.
var specialForms = map[string]specialFormFn{}

// specialFormFn returns (node, handled, err). handled=false lets the
// router fall back to "treat as function call" per §4.4's failure policy.
type specialFormFn func(c *Context, n *ast.Node) (ir.Node, bool, error)

func register(name string, fn specialFormFn) {
	specialForms[name] = fn
}

func isOperatorSymbol(name string) bool {
	switch name {
	case "+", "-", "*", "/", "%", "**", "===", "==", "!==", "!=",
		"<", ">", "<=", ">=", "&&", "||", "!", "~", "&", "|", "^", "<<", ">>", ">>>":
		return true
	}
	return false
}
