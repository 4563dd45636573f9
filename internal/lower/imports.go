package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
	"github.com/hlvm-dev/hql/internal/symtab"
)

func init() {
	register("import", lowerImport)
	register("import-dynamic", lowerImportDynamic)
	register("export", lowerExport)
}

// lowerImport implements §4.6.10's three surface shapes:
//   (import name from "module")                     -> namespace import
//   (import [a b (c as d)] from "module")            -> named imports
//   (import "module")                                -> side-effect only
func lowerImport(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	pos := nb(n.Pos)

	if len(args) == 1 {
		src, ok := stringLiteralValue(args[0])
		if !ok {
			return nil, false, nil
		}
		return &ir.ImportDeclaration{NodeBase: pos, Source: src, SideEffectOnly: true}, true, nil
	}

	if len(args) != 3 || args[1].Kind != ast.KindSymbol || args[1].Name != "from" {
		return nil, false, nil
	}
	src, ok := stringLiteralValue(args[2])
	if !ok {
		return nil, true, validationErr(args[2].Pos, "import source must be a string literal", `(import name from "module")`)
	}

	if args[0].Kind == ast.KindSymbol {
		name := sanitizeIdent(args[0].Name)
		c.Symbols.Define(args[0].Name, symtab.KindImport)
		return &ir.ImportDeclaration{NodeBase: pos, Source: src, Namespace: name}, true, nil
	}

	if args[0].Kind == ast.KindList && args[0].Provenance == ast.ProvVector {
		specs, err := c.lowerImportSpecifiers(args[0].Args())
		if err != nil {
			return nil, true, err
		}
		return &ir.ImportDeclaration{NodeBase: pos, Source: src, Specifiers: specs}, true, nil
	}

	return nil, true, validationErr(args[0].Pos, "invalid import target", "name or [a b (c as d)]")
}

// lowerImportSpecifiers handles `[n1 n2 (n3 as n4)]`: bare symbols import
// under their own name; a nested `(name as alias)` list aliases it.
func (c *Context) lowerImportSpecifiers(items []*ast.Node) ([]ir.ImportSpecifier, error) {
	var specs []ir.ImportSpecifier
	for _, item := range items {
		var spec ir.ImportSpecifier
		switch {
		case item.Kind == ast.KindSymbol:
			spec = ir.ImportSpecifier{Imported: item.Name, Local: sanitizeIdent(item.Name)}
		case item.Kind == ast.KindList && item.Provenance == ast.ProvCall:
			aliasArgs := item.Args()
			if len(aliasArgs) != 2 || len(item.Children) != 3 {
				return nil, validationErr(item.Pos, "import alias must be (name as alias)", "(n3 as n4)")
			}
			original := item.Children[0]
			asKw := aliasArgs[0]
			alias := aliasArgs[1]
			if original.Kind != ast.KindSymbol || asKw.Kind != ast.KindSymbol || asKw.Name != "as" || alias.Kind != ast.KindSymbol {
				return nil, validationErr(item.Pos, "import alias must be (name as alias)", "(n3 as n4)")
			}
			spec = ir.ImportSpecifier{Imported: original.Name, Local: sanitizeIdent(alias.Name)}
		default:
			return nil, validationErr(item.Pos, "import specifier must be a symbol or (name as alias)", "[a b (c as d)]")
		}
		c.Symbols.Define(spec.Local, symtab.KindImport)
		specs = append(specs, spec)
	}
	return specs, nil
}

// lowerImportDynamic implements §4.6.10: `(import-dynamic "module")`.
func lowerImportDynamic(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 1 {
		return nil, false, nil
	}
	src, err := c.lowerExpr(args[0])
	if err != nil {
		return nil, true, err
	}
	return &ir.DynamicImport{NodeBase: nb(n.Pos), Source: src}, true, nil
}

// lowerExport implements §4.6.10's export shapes:
//   (export name1 name2 ...)              -> named re-export of existing bindings
//   (export default expr)                 -> default export
//   (export (const name value))           -> export a fresh declaration
func lowerExport(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	pos := nb(n.Pos)
	if len(args) == 0 {
		return nil, false, nil
	}

	if args[0].Kind == ast.KindSymbol && args[0].Name == "default" {
		if len(args) != 2 {
			return nil, true, validationErr(n.Pos, "export default takes exactly one form", "(export default expr)")
		}
		node, err := c.lowerNode(args[1])
		if err != nil {
			return nil, true, err
		}
		return &ir.ExportDefaultDeclaration{NodeBase: pos, Declaration: node}, true, nil
	}

	if len(args) == 1 && args[0].Kind == ast.KindList && args[0].Provenance == ast.ProvCall {
		head := args[0].HeadSymbol()
		if head == "const" || head == "def" || head == "let" || head == "var" || head == "class" || head == "enum" || head == "fn" {
			node, err := c.lowerNode(args[0])
			if err != nil {
				return nil, true, err
			}
			decl, ok := node.(ir.Declaration)
			if !ok {
				return nil, true, validationErr(args[0].Pos, "export target is not a declaration", "(export (const name value))")
			}
			return &ir.ExportVariableDeclaration{NodeBase: pos, Declaration: decl}, true, nil
		}
	}

	var specs []ir.ImportSpecifier
	for _, a := range args {
		if a.Kind != ast.KindSymbol {
			return nil, true, validationErr(a.Pos, "export list entries must be symbols", "(export name1 name2 ...)")
		}
		specs = append(specs, ir.ImportSpecifier{Imported: sanitizeIdent(a.Name), Local: sanitizeIdent(a.Name)})
	}
	return &ir.ExportNamedDeclaration{NodeBase: pos, Specifiers: specs}, true, nil
}

func stringLiteralValue(n *ast.Node) (string, bool) {
	if n.Kind == ast.KindLiteral && n.LitKind == ast.LitString {
		return n.Str, true
	}
	return "", false
}
