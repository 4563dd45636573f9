package lower

import (
	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/ir"
	"github.com/hlvm-dev/hql/internal/symtab"
)

func init() {
	register("enum", lowerEnum)
}

// lowerEnum implements §4.6.8: `(enum Name[:RawType] (case c1 ...) ...)`.
// Each case is bare, carries a raw value, or carries associated-value
// field names; HasAssociatedValues is set if any case does.
func lowerEnum(c *Context, n *ast.Node) (ir.Node, bool, error) {
	args := n.Args()
	if len(args) < 1 || args[0].Kind != ast.KindSymbol {
		return nil, false, nil
	}
	pos := nb(n.Pos)
	info := ast.AnalyzeSymbol(args[0].Name)
	name := info.BaseName
	if name == "" {
		name = args[0].Name
	}

	decl := &ir.EnumDeclaration{NodeBase: pos, Name: sanitizeIdent(name), RawType: info.TypeAnnotation}
	c.Symbols.Define(name, symtab.KindEnum)

	for _, caseForm := range args[1:] {
		if caseForm.Kind != ast.KindList || caseForm.Provenance != ast.ProvCall || caseForm.HeadSymbol() != "case" {
			return nil, true, validationErr(caseForm.Pos, "enum body must consist of case forms", "(case Name) or (case Name rawValue) or (case Name field1 field2 ...)")
		}
		caseArgs := caseForm.Args()
		if len(caseArgs) < 1 || caseArgs[0].Kind != ast.KindSymbol {
			return nil, true, validationErr(caseForm.Pos, "case requires a name", "(case Name ...)")
		}
		caseName := sanitizeIdent(caseArgs[0].Name)
		ec := ir.EnumCase{NodeBase: nb(caseForm.Pos), Name: caseName}

		rest := caseArgs[1:]
		switch {
		case len(rest) == 0:
			// bare case
		case len(rest) == 1 && isRawValueLiteral(rest[0]):
			v, err := c.lowerExpr(rest[0])
			if err != nil {
				return nil, true, err
			}
			ec.RawValue = v
		default:
			fields := make([]string, 0, len(rest))
			for _, f := range rest {
				if f.Kind != ast.KindSymbol {
					return nil, true, validationErr(f.Pos, "associated-value field name must be a symbol", "(case Name field1 field2 ...)")
				}
				fields = append(fields, sanitizeIdent(f.Name))
			}
			ec.AssociatedValues = fields
			decl.HasAssociatedValues = true
		}
		decl.Cases = append(decl.Cases, ec)
	}

	return decl, true, nil
}

func isRawValueLiteral(n *ast.Node) bool {
	return n.Kind == ast.KindLiteral
}
