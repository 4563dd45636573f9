// Package diagnostics unifies the compiler's error reporting: the reader's
// ParseError, the lowering pipeline's ValidationError/TransformError, all
// format through one Diagnostic type with optional colored source context,
// following the single-error-type approach of the teacher's internal/errors
// package.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/hlvm-dev/hql/internal/token"
)

// Kind distinguishes the three first-class error categories spec §7 names,
// plus InternalError.
type Kind int

const (
	KindParse Kind = iota
	KindValidation
	KindTransform
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindValidation:
		return "ValidationError"
	case KindTransform:
		return "TransformError"
	case KindInternal:
		return "InternalError"
	default:
		return "Error"
	}
}

// Diagnostic is the single error type every compiler stage produces.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Context  string // what shape was expected, empty if not applicable
	Pos      token.Position
	Source   string // full source text, for caret rendering
	Suggestion string // "did you mean ...?" candidate, empty if none
}

// New builds a Diagnostic with no source-context caret available.
func New(kind Kind, message string, pos token.Position) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: message, Pos: pos}
}

func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic the way the teacher's CompilerError does:
// a header line, the offending source line with a caret, then the message.
// When color is true, github.com/fatih/color paints the caret and header.
func (d *Diagnostic) Format(useColor bool) string {
	var sb strings.Builder

	header := fmt.Sprintf("%s: %s", d.Kind, d.Pos)
	if useColor {
		header = color.New(color.FgRed, color.Bold).Sprint(header)
	}
	sb.WriteString(header)
	sb.WriteString("\n")

	if line := d.sourceLine(d.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max0(d.Pos.Column-1)))
		caret := "^"
		if useColor {
			caret = color.New(color.FgRed, color.Bold).Sprint(caret)
		}
		sb.WriteString(caret)
		sb.WriteString("\n")
	}

	sb.WriteString(d.Message)
	if d.Context != "" {
		sb.WriteString(" (expected ")
		sb.WriteString(d.Context)
		sb.WriteString(")")
	}
	if d.Suggestion != "" {
		sb.WriteString("\ndid you mean \"")
		sb.WriteString(d.Suggestion)
		sb.WriteString("\"?")
	}
	return sb.String()
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func (d *Diagnostic) sourceLine(line int) string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// FormatAll renders a batch of diagnostics separated by blank lines.
func FormatAll(diags []*Diagnostic, useColor bool) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = d.Format(useColor)
	}
	return strings.Join(parts, "\n\n")
}

// Suggest computes the closest candidate to name among known by edit
// distance, for the "did you mean ...?" hint spec §7 describes the editor
// layer as consuming (the hint itself is computed here; no UI is built).
func Suggest(name string, known []string) string {
	best := ""
	bestDist := -1
	for _, k := range known {
		d := levenshtein(name, k)
		if bestDist == -1 || d < bestDist {
			bestDist = d
			best = k
		}
	}
	if bestDist >= 0 && bestDist <= maxSuggestDistance(name) {
		return best
	}
	return ""
}

func maxSuggestDistance(s string) int {
	if len(s) <= 4 {
		return 1
	}
	return 2
}

func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	cur := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		cur[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			cur[j] = min3(del, ins, sub)
		}
		prev, cur = cur, prev
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
