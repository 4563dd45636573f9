// Package ast defines the AST node types produced by the HQL reader: a
// tagged variant of {Literal, Symbol, List} carrying source positions and,
// for List nodes, the surface provenance ((), [], {}) that later pattern
// detection and data-structure lowering both depend on.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hlvm-dev/hql/internal/token"
)

// Kind tags which variant of the AST node union a Node holds.
type Kind int

const (
	KindLiteral Kind = iota
	KindSymbol
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindSymbol:
		return "Symbol"
	case KindList:
		return "List"
	default:
		return "Unknown"
	}
}

// LiteralKind distinguishes the four literal value types spec §3 allows.
type LiteralKind int

const (
	LitNull LiteralKind = iota
	LitBool
	LitNumber
	LitString
)

// Provenance records which surface syntax produced a List node. It is
// immutable once parsed and is consulted by the pattern parser (internal/pattern)
// and by data-structure lowering (vector/hash-map) before either one decides
// to strip the synthesized head symbol.
type Provenance int

const (
	// ProvCall is an ordinary (...) form.
	ProvCall Provenance = iota
	// ProvVector is a [...] literal; its first child is the synthetic symbol "vector".
	ProvVector
	// ProvMap is a {...} literal; its first child is the synthetic symbol "hash-map".
	ProvMap
)

func (p Provenance) String() string {
	switch p {
	case ProvVector:
		return "vector"
	case ProvMap:
		return "hash-map"
	default:
		return "call"
	}
}

// Node is the single tagged-union AST node type. Only the fields relevant
// to Kind are meaningful; the zero value of the others is ignored.
type Node struct {
	Kind Kind
	Pos  token.Position

	// Literal fields.
	LitKind  LiteralKind
	Bool     bool
	Number   float64
	IsBigInt bool
	Str      string

	// Symbol fields.
	Name string

	// List fields.
	Children   []*Node
	Provenance Provenance
}

// NewNull creates a Literal node holding null.
func NewNull(pos token.Position) *Node {
	return &Node{Kind: KindLiteral, LitKind: LitNull, Pos: pos}
}

// NewBool creates a Literal node holding a boolean.
func NewBool(v bool, pos token.Position) *Node {
	return &Node{Kind: KindLiteral, LitKind: LitBool, Bool: v, Pos: pos}
}

// NewNumber creates a Literal node holding a number. isBigInt marks a
// trailing-`n` BigInt literal (§4.1 reader contract).
func NewNumber(v float64, isBigInt bool, pos token.Position) *Node {
	return &Node{Kind: KindLiteral, LitKind: LitNumber, Number: v, IsBigInt: isBigInt, Pos: pos}
}

// NewString creates a Literal node holding a string.
func NewString(v string, pos token.Position) *Node {
	return &Node{Kind: KindLiteral, LitKind: LitString, Str: v, Pos: pos}
}

// NewSymbol creates a Symbol node.
func NewSymbol(name string, pos token.Position) *Node {
	return &Node{Kind: KindSymbol, Name: name, Pos: pos}
}

// NewList creates a List node with the given provenance.
func NewList(children []*Node, prov Provenance, pos token.Position) *Node {
	return &Node{Kind: KindList, Children: children, Provenance: prov, Pos: pos}
}

// IsEmptyList reports whether n is a List with no children.
func (n *Node) IsEmptyList() bool {
	return n != nil && n.Kind == KindList && len(n.Children) == 0
}

// Head returns the first child of a List, or nil.
func (n *Node) Head() *Node {
	if n == nil || n.Kind != KindList || len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Args returns every child after the first (the form's arguments).
func (n *Node) Args() []*Node {
	if n == nil || n.Kind != KindList || len(n.Children) < 2 {
		return nil
	}
	return n.Children[1:]
}

// HeadSymbol returns the name of the head symbol, or "" if the list is
// empty or does not start with a Symbol.
func (n *Node) HeadSymbol() string {
	h := n.Head()
	if h == nil || h.Kind != KindSymbol {
		return ""
	}
	return h.Name
}

// String renders a debug/round-trip representation of the node.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindLiteral:
		switch n.LitKind {
		case LitNull:
			return "nil"
		case LitBool:
			return strconv.FormatBool(n.Bool)
		case LitNumber:
			s := strconv.FormatFloat(n.Number, 'g', -1, 64)
			if n.IsBigInt {
				return s + "n"
			}
			return s
		case LitString:
			return strconv.Quote(n.Str)
		}
		return "?"
	case KindSymbol:
		return n.Name
	case KindList:
		open, close := "(", ")"
		switch n.Provenance {
		case ProvVector:
			open, close = "[", "]"
		case ProvMap:
			open, close = "{", "}"
		}
		parts := make([]string, 0, len(n.Children))
		start := 0
		if n.Provenance != ProvCall {
			start = 1 // skip synthesized head symbol for surface round-trip
		}
		for _, c := range n.Children[start:] {
			parts = append(parts, c.String())
		}
		return open + strings.Join(parts, " ") + close
	}
	return fmt.Sprintf("<unknown kind %d>", n.Kind)
}
