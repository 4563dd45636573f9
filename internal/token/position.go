// Package token defines the lexical tokens and source positions shared by
// the reader and every downstream compiler stage.
package token

import "fmt"

// Position identifies a location in an HQL source file. Column counts
// Unicode code points (runes), not bytes or display cells, matching the
// convention of reporting positions as rune offsets from line start.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

// String renders the position as "file:line:column", omitting the file
// segment when it is empty (useful for REPL/stdin sources).
func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether the position was never set.
func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0 && p.Offset == 0
}
