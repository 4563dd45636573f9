package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
	"github.com/hlvm-dev/hql/internal/symtab"
	"github.com/hlvm-dev/hql/internal/token"
)

func init() {
	register("class", lowerClass)
}

// lowerClass implements §4.6.7: `(class Name [extends Base] body...)` where
// body forms are field declarations (var/let), a constructor, fn methods,
// static variants, and getter/setter forms.
func lowerClass(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 1 || args[0].Kind != ast.KindSymbol {
		return nil, false, nil
	}
	pos := nb(n.Pos)
	name := sanitizeIdent(args[0].Name)
	rest := args[1:]

	var superClass ir.Expression
	if len(rest) >= 2 && rest[0].Kind == ast.KindSymbol && rest[0].Name == "extends" {
		sc, err := c.lowerExpr(rest[1])
		if err != nil {
			return nil, true, err
		}
		superClass = sc
		rest = rest[2:]
	}

	c.Symbols.Define(name, symtab.KindClass)
	c.Symbols.PushScope()
	defer c.Symbols.PopScope()

	decl := &ir.ClassDeclaration{NodeBase: pos, Name: name, SuperClass: superClass}

	for _, member := range rest {
		if member.Kind != ast.KindList || member.Provenance != ast.ProvCall {
			return nil, true, validationErr(member.Pos, "class body members must be forms", "(var name init), (fn name [..] ..), (constructor [..] ..)")
		}
		head := member.HeadSymbol()
		static := false
		body := member
		if head == "static" {
			static = true
			inner := member.Args()
			if len(inner) != 1 || inner[0].Kind != ast.KindList {
				return nil, true, validationErr(member.Pos, "static wraps a single member form", "(static (fn name [..] ..))")
			}
			body = inner[0]
			head = body.HeadSymbol()
		}

		switch head {
		case "var", "let":
			field, err := c.lowerClassField(body, static, true)
			if err != nil {
				return nil, true, err
			}
			decl.Fields = append(decl.Fields, field)
		case "const":
			field, err := c.lowerClassField(body, static, false)
			if err != nil {
				return nil, true, err
			}
			decl.Fields = append(decl.Fields, field)
		case "constructor":
			if static {
				return nil, true, validationErr(body.Pos, "constructor cannot be static", "(constructor [params] body...)")
			}
			ctor, err := c.lowerClassConstructor(body)
			if err != nil {
				return nil, true, err
			}
			decl.Constructor = ctor
		case "fn":
			method, err := c.lowerClassMethod(body, static, "method")
			if err != nil {
				return nil, true, err
			}
			decl.Methods = append(decl.Methods, method)
		case "getter":
			method, err := c.lowerClassMethod(body, static, "get")
			if err != nil {
				return nil, true, err
			}
			decl.Methods = append(decl.Methods, method)
		case "setter":
			method, err := c.lowerClassMethod(body, static, "set")
			if err != nil {
				return nil, true, err
			}
			decl.Methods = append(decl.Methods, method)
		default:
			return nil, true, validationErr(body.Pos, "unrecognized class member form", "var, const, constructor, fn, getter, setter")
		}
	}

	return decl, true, nil
}

func (c *Context) lowerClassField(member *ast.Node, static, mutable bool) (ir.ClassField, error) {
	args := member.Args()
	if len(args) < 1 || args[0].Kind != ast.KindSymbol {
		return ir.ClassField{}, validationErr(member.Pos, "class field requires a name", "(var name init?)")
	}
	rawName := args[0].Name
	private := len(rawName) > 0 && rawName[0] == '#'
	name := sanitizeIdent(rawName)

	var value ir.Expression
	if len(args) >= 2 {
		v, err := c.lowerExpr(args[1])
		if err != nil {
			return ir.ClassField{}, err
		}
		value = v
	}
	if !private {
		c.Symbols.Define(rawName, symtab.KindVariable)
	}
	return ir.ClassField{Name: name, Value: value, Private: private, Static: static, Mutable: mutable}, nil
}

// lowerClassConstructor implements §4.6.7's constructor shape: a parameter
// list followed by body forms, with any top-level `do` block flattened
// directly into the constructor body rather than wrapped in its own IIFE.
func (c *Context) lowerClassConstructor(member *ast.Node) (*ir.FunctionExpression, error) {
	args := member.Args()
	if len(args) < 1 {
		return nil, validationErr(member.Pos, "constructor requires a parameter list", "(constructor [params] body...)")
	}
	c.Symbols.PushScope()
	defer c.Symbols.PopScope()

	params, err := c.lowerParamList(args[0])
	if err != nil {
		return nil, err
	}
	block, err := c.lowerConstructorBody(args[1:])
	if err != nil {
		return nil, err
	}
	block = wrapEarlyReturn(block)
	return &ir.FunctionExpression{NodeBase: nb(member.Pos), Params: params, Body: block}, nil
}

// lowerConstructorBody flattens any top-level `do` forms into the
// constructor's own statement list instead of nesting them in an IIFE,
// since a constructor's body is already a statement context.
func (c *Context) lowerConstructorBody(forms []*ast.Node) (*ir.BlockStatement, error) {
	var stmts []ir.Node
	var walk func(fs []*ast.Node) error
	walk = func(fs []*ast.Node) error {
		for _, f := range fs {
			if f.Kind == ast.KindList && f.Provenance == ast.ProvCall && f.HeadSymbol() == "do" {
				if err := walk(f.Args()); err != nil {
					return err
				}
				continue
			}
			node, err := c.lowerNode(f)
			if err != nil {
				return err
			}
			stmts = append(stmts, c.asStatement(node, f.Pos))
		}
		return nil
	}
	if err := walk(forms); err != nil {
		return nil, err
	}
	pos := token.Position{}
	if len(forms) > 0 {
		pos = forms[0].Pos
	}
	return &ir.BlockStatement{NodeBase: nb(pos), Body: stmts}, nil
}

func (c *Context) lowerClassMethod(member *ast.Node, static bool, kind string) (ir.ClassMethod, error) {
	args := member.Args()
	if len(args) < 2 || args[0].Kind != ast.KindSymbol {
		return ir.ClassMethod{}, validationErr(member.Pos, "method requires a name and parameter list", "(fn name [params] body...)")
	}
	rawName := args[0].Name
	name := sanitizeIdent(rawName)
	if len(rawName) > 0 && rawName[0] == '.' {
		name = sanitizeIdent(rawName[1:])
	}

	c.Symbols.PushScope()
	defer c.Symbols.PopScope()

	params, err := c.lowerParamList(args[1])
	if err != nil {
		return ir.ClassMethod{}, err
	}
	body := args[2:]

	var block *ir.BlockStatement
	var hasAwait, hasYield bool
	if kind == "set" {
		block, err = c.lowerBlockNoReturn(body)
	} else {
		block, hasAwait, hasYield, err = c.lowerFunctionBody(body)
	}
	if err != nil {
		return ir.ClassMethod{}, err
	}
	block = wrapEarlyReturn(block)

	fn := &ir.FunctionExpression{NodeBase: nb(member.Pos), Async: hasAwait, Generator: hasYield, Params: params, Body: block}
	return ir.ClassMethod{Name: name, Fn: fn, Static: static, Kind: kind}, nil
}
