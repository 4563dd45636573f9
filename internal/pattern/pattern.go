// Package pattern detects and parses destructuring patterns out of AST list
// nodes whose provenance marks them as vector or map literals (spec §4.2).
package pattern

import (
	"fmt"

	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/token"
)

// Kind tags which pattern-tree variant a Pattern holds.
type Kind int

const (
	KindIdentifier Kind = iota
	KindArray
	KindObject
	KindSkip
	KindDefault
)

// ObjectEntry is one (identifier, key?, default?) member of an Object pattern.
type ObjectEntry struct {
	Name    string // bound local name
	Key     string // source object key, defaults to Name when aliasing isn't used
	Default *ast.Node
}

// Pattern is the destructuring pattern tree spec §4.2 describes.
type Pattern struct {
	Kind Kind
	Pos  token.Position

	// Identifier
	Name string

	// Array
	Elements []*Pattern
	Rest     *Pattern // Identifier pattern, nil if no rest

	// Object
	Entries []ObjectEntry

	// Default
	Inner       *Pattern
	DefaultExpr *ast.Node
}

// ValidationError reports a malformed pattern (spec §4.2 error cases).
type ValidationError struct {
	Message string
	Pos     token.Position
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// IsPatternCandidate reports whether n's provenance makes it eligible for
// pattern parsing at all; ordinary (...) calls are never patterns.
func IsPatternCandidate(n *ast.Node) bool {
	return n != nil && n.Kind == ast.KindList && (n.Provenance == ast.ProvVector || n.Provenance == ast.ProvMap)
}

// Parse converts n into a Pattern tree. n must satisfy IsPatternCandidate,
// or be a bare Symbol (the trivial Identifier/Skip case).
func Parse(n *ast.Node) (*Pattern, *ValidationError) {
	if n == nil {
		return nil, &ValidationError{Message: "cannot parse nil as a pattern"}
	}
	if n.Kind == ast.KindSymbol {
		return parseSymbolPattern(n)
	}
	if n.Kind == ast.KindList && n.Provenance == ast.ProvVector {
		return parseArrayPattern(n)
	}
	if n.Kind == ast.KindList && n.Provenance == ast.ProvMap {
		return parseObjectPattern(n)
	}
	return nil, &ValidationError{Message: "not a destructuring pattern", Pos: n.Pos}
}

func parseSymbolPattern(n *ast.Node) (*Pattern, *ValidationError) {
	if n.Name == "_" {
		return &Pattern{Kind: KindSkip, Pos: n.Pos}, nil
	}
	return &Pattern{Kind: KindIdentifier, Name: n.Name, Pos: n.Pos}, nil
}

func isRestMarker(n *ast.Node) bool {
	return n.Kind == ast.KindSymbol && (n.Name == "&" || n.Name == "...")
}

// parseArrayPattern handles the vector-provenance list; children[0] is the
// synthesized "vector" head symbol and is skipped.
func parseArrayPattern(n *ast.Node) (*Pattern, *ValidationError) {
	items := n.Args()
	p := &Pattern{Kind: KindArray, Pos: n.Pos}

	for i := 0; i < len(items); i++ {
		item := items[i]
		if isRestMarker(item) {
			if p.Rest != nil {
				return nil, &ValidationError{Message: "duplicate rest element in array pattern", Pos: item.Pos}
			}
			if i != len(items)-2 {
				return nil, &ValidationError{Message: "rest element must be last", Pos: item.Pos}
			}
			restName := items[i+1]
			if restName.Kind != ast.KindSymbol {
				return nil, &ValidationError{Message: "rest element must bind to a plain symbol", Pos: restName.Pos}
			}
			p.Rest = &Pattern{Kind: KindIdentifier, Name: restName.Name, Pos: restName.Pos}
			i++
			continue
		}
		child, err := parseElement(item)
		if err != nil {
			return nil, err
		}
		p.Elements = append(p.Elements, child)
	}
	return p, nil
}

// parseElement parses one array-pattern slot: a bare symbol, "_", a nested
// pattern, or a default form (sym default-expr) written as a two-element
// list without vector/map provenance — `(name default)`.
func parseElement(n *ast.Node) (*Pattern, *ValidationError) {
	if n.Kind == ast.KindSymbol {
		return parseSymbolPattern(n)
	}
	if n.Kind == ast.KindList && n.Provenance == ast.ProvCall && len(n.Children) == 2 {
		inner, err := parseElement(n.Children[0])
		if err != nil {
			return nil, err
		}
		return &Pattern{Kind: KindDefault, Pos: n.Pos, Inner: inner, DefaultExpr: n.Children[1]}, nil
	}
	return Parse(n)
}

// parseObjectPattern handles the map-provenance list; children[0] is the
// synthesized "hash-map" head symbol and is skipped. Entries are expected
// as alternating key/binding-symbol pairs, matching {k1 v1 k2 v2 ...}
// surface syntax reused for destructuring.
func parseObjectPattern(n *ast.Node) (*Pattern, *ValidationError) {
	items := n.Args()
	p := &Pattern{Kind: KindObject, Pos: n.Pos}

	i := 0
	for i < len(items) {
		item := items[i]
		if isRestMarker(item) {
			if p.Rest != nil {
				return nil, &ValidationError{Message: "duplicate rest element in object pattern", Pos: item.Pos}
			}
			if i != len(items)-2 {
				return nil, &ValidationError{Message: "rest element must be last", Pos: item.Pos}
			}
			restName := items[i+1]
			if restName.Kind != ast.KindSymbol {
				return nil, &ValidationError{Message: "rest element must bind to a plain symbol", Pos: restName.Pos}
			}
			p.Rest = &Pattern{Kind: KindIdentifier, Name: restName.Name, Pos: restName.Pos}
			i += 2
			continue
		}
		if item.Kind != ast.KindSymbol {
			return nil, &ValidationError{Message: "object pattern keys must be plain symbols", Pos: item.Pos}
		}
		if i+1 >= len(items) {
			return nil, &ValidationError{Message: "object pattern key is missing its binding", Pos: item.Pos}
		}
		entry := ObjectEntry{Name: item.Name, Key: item.Name}
		next := items[i+1]
		if next.Kind == ast.KindList && next.Provenance == ast.ProvCall && len(next.Children) == 2 {
			entry.Name = next.Children[0].Name
			entry.Default = next.Children[1]
		} else if next.Kind == ast.KindSymbol {
			entry.Name = next.Name
		} else {
			return nil, &ValidationError{Message: "object pattern binding must be a symbol or (name default)", Pos: next.Pos}
		}
		p.Entries = append(p.Entries, entry)
		i += 2
	}
	return p, nil
}
