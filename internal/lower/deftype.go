package lower

import (
	"strings"

	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
)

func init() {
	register("deftype", lowerDeftype)
	register("interface", lowerInterface)
}

// lowerDeftype implements §4.6.14: `(deftype Name<T, U>? "raw body")` — a
// type alias carrying its body verbatim, since the IR schema stops at the
// declaration shell and never parses the aliased type expression itself.
func lowerDeftype(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) != 2 || args[0].Kind != ast.KindSymbol {
		return nil, false, nil
	}
	body, ok := stringLiteralValue(args[1])
	if !ok {
		return nil, true, validationErr(args[1].Pos, "deftype body must be a string literal", `(deftype Name "raw type body")`)
	}
	name, typeParams := parseGenericName(args[0].Name)
	return &ir.TypeAliasDeclaration{
		NodeBase: nb(n.Pos), Name: sanitizeIdent(name), TypeParameters: typeParams, Body: body,
	}, true, nil
}

// lowerInterface implements §4.6.14: `(interface Name<T>? [extends Base ...]? "raw body")`.
func lowerInterface(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 2 || args[0].Kind != ast.KindSymbol {
		return nil, false, nil
	}
	pos := nb(n.Pos)
	name, typeParams := parseGenericName(args[0].Name)
	rest := args[1:]

	var extends []string
	if len(rest) >= 2 && rest[0].Kind == ast.KindSymbol && rest[0].Name == "extends" {
		baseList := rest[1]
		if baseList.Kind == ast.KindSymbol {
			extends = append(extends, baseList.Name)
			rest = rest[2:]
		} else if baseList.Kind == ast.KindList && baseList.Provenance == ast.ProvVector {
			for _, b := range baseList.Args() {
				if b.Kind != ast.KindSymbol {
					return nil, true, validationErr(b.Pos, "interface extends list must contain symbols", "(interface Name extends [Base1 Base2] \"body\")")
				}
				extends = append(extends, b.Name)
			}
			rest = rest[2:]
		}
	}

	if len(rest) != 1 {
		return nil, true, validationErr(n.Pos, "interface requires exactly one raw body string", `(interface Name "raw body")`)
	}
	body, ok := stringLiteralValue(rest[0])
	if !ok {
		return nil, true, validationErr(rest[0].Pos, "interface body must be a string literal", `(interface Name "raw body")`)
	}

	return &ir.InterfaceDeclaration{
		NodeBase: pos, Name: sanitizeIdent(name), TypeParameters: typeParams, Extends: extends, Body: body,
	}, true, nil
}

// parseGenericName splits `Name<T, U>` into its base name and parameter
// list; a name without angle brackets returns no type parameters.
func parseGenericName(raw string) (string, []string) {
	open := strings.IndexByte(raw, '<')
	if open < 0 || !strings.HasSuffix(raw, ">") {
		return raw, nil
	}
	name := raw[:open]
	inner := raw[open+1 : len(raw)-1]
	var params []string
	for _, p := range strings.Split(inner, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			params = append(params, p)
		}
	}
	return name, params
}
