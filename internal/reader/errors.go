package reader

import (
	"fmt"

	"github.com/hlvm-dev/hql/internal/token"
)

// ErrorKind enumerates the reader failure categories from spec §4.1.
type ErrorKind int

const (
	Unclosed ErrorKind = iota
	UnexpectedClose
	BadNumber
	BadString
	BadEscape
)

func (k ErrorKind) String() string {
	switch k {
	case Unclosed:
		return "Unclosed"
	case UnexpectedClose:
		return "UnexpectedClose"
	case BadNumber:
		return "BadNumber"
	case BadString:
		return "BadString"
	case BadEscape:
		return "BadEscape"
	default:
		return "Unknown"
	}
}

// delimiterKind names which bracket family an Unclosed error refers to.
type delimiterKind int

const (
	delimList delimiterKind = iota
	delimVector
	delimMap
)

func (d delimiterKind) String() string {
	switch d {
	case delimVector:
		return "vector"
	case delimMap:
		return "map"
	default:
		return "list"
	}
}

// ParseError is the single error type the reader produces. Exactly one of
// Which is meaningful and only set for Unclosed errors.
type ParseError struct {
	Kind     ErrorKind
	Message  string
	Pos      token.Position
	Which    string // "list" | "vector" | "map", only for Unclosed
	OpenedAt token.Position
}

func (e *ParseError) Error() string {
	if e.Kind == Unclosed {
		return fmt.Sprintf("%s: unclosed %s opened at %s: %s", e.Pos, e.Which, e.OpenedAt, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}
