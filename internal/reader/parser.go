package reader

import (
	"strconv"
	"strings"

	"github.com/hlvm-dev/hql/internal/ast"
	"github.com/hlvm-dev/hql/internal/token"
)

// openFrame tracks one entry on the parser's stack of open delimiters, used
// to attribute an EOF-with-nonempty-stack error to the position where the
// delimiter was opened (spec §4.1).
type openFrame struct {
	kind delimiterKind
	pos  token.Position
}

// Parser turns a Tokenizer's token stream into a sequence of top-level AST
// nodes. It stops at the first error (spec §7: "Parse errors abort
// reading"), mirroring the teacher's single-pass recursive-descent parser
// but without error-recovery/synchronization, since HQL has no statement
// boundaries to resynchronize on.
type Parser struct {
	tz   *Tokenizer
	file string

	cur  token.Token
	peek token.Token

	stack []openFrame
}

// NewParser constructs a Parser over an already-created Tokenizer.
func NewParser(tz *Tokenizer, file string) *Parser {
	p := &Parser{tz: tz, file: file}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.tz.NextToken()
}

// Read tokenizes and parses source, returning every top-level form or the
// first ParseError encountered.
func Read(source, filePath string) ([]*ast.Node, *ParseError) {
	tz := NewTokenizer(source, filePath)
	p := NewParser(tz, filePath)
	return p.ParseProgram()
}

// ParseProgram parses every top-level form until EOF.
func (p *Parser) ParseProgram() ([]*ast.Node, *ParseError) {
	var forms []*ast.Node
	for p.cur.Type != token.EOF {
		n, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, n)
	}
	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		return nil, &ParseError{
			Kind: Unclosed, Pos: p.cur.Pos, Which: top.kind.String(),
			OpenedAt: top.pos, Message: "unexpected end of input",
		}
	}
	if errs := p.tz.Errors(); len(errs) > 0 {
		return nil, lexErrorToParseError(errs[0])
	}
	return forms, nil
}

func lexErrorToParseError(e LexError) *ParseError {
	kind := BadString
	if strings.Contains(e.Message, "escape") {
		kind = BadEscape
	} else if strings.Contains(e.Message, "illegal character") {
		kind = BadString
	}
	return &ParseError{Kind: kind, Message: e.Message, Pos: e.Pos}
}

func (p *Parser) parseForm() (*ast.Node, *ParseError) {
	switch p.cur.Type {
	case token.EOF:
		return nil, &ParseError{Kind: Unclosed, Pos: p.cur.Pos, Message: "unexpected end of input"}

	case token.RPAREN, token.RBRACK, token.RBRACE:
		return nil, &ParseError{Kind: UnexpectedClose, Pos: p.cur.Pos, Message: "unexpected closing delimiter '" + p.cur.Literal + "'"}

	case token.LPAREN:
		return p.parseDelimited(token.RPAREN, ast.ProvCall, delimList, nil)

	case token.LBRACK:
		return p.parseDelimited(token.RBRACK, ast.ProvVector, delimVector, ast.NewSymbol("vector", p.cur.Pos))

	case token.LBRACE:
		return p.parseDelimited(token.RBRACE, ast.ProvMap, delimMap, ast.NewSymbol("hash-map", p.cur.Pos))

	case token.QUOTE:
		return p.parseReaderMacro("quote")
	case token.QUASIQUOTE:
		return p.parseReaderMacro("quasiquote")
	case token.UNQUOTE:
		return p.parseReaderMacro("unquote")
	case token.UNQUOTE_SPLICE:
		return p.parseReaderMacro("unquote-splicing")

	case token.STRING:
		return p.parseString()

	case token.INT, token.FLOAT:
		return p.parseNumber()

	case token.BOOL:
		v := p.cur.Literal == "true"
		n := ast.NewBool(v, p.cur.Pos)
		p.advance()
		return n, nil

	case token.NIL:
		n := ast.NewNull(p.cur.Pos)
		p.advance()
		return n, nil

	case token.IDENT:
		n := ast.NewSymbol(p.cur.Literal, p.cur.Pos)
		p.advance()
		return n, nil

	case token.ILLEGAL:
		return nil, &ParseError{Kind: BadString, Pos: p.cur.Pos, Message: "illegal token: " + p.cur.Literal}

	default:
		return nil, &ParseError{Kind: BadString, Pos: p.cur.Pos, Message: "unexpected token"}
	}
}

func (p *Parser) parseReaderMacro(head string) (*ast.Node, *ParseError) {
	pos := p.cur.Pos
	p.advance()
	inner, err := p.parseForm()
	if err != nil {
		return nil, err
	}
	return ast.NewList([]*ast.Node{ast.NewSymbol(head, pos), inner}, ast.ProvCall, pos), nil
}

func (p *Parser) parseDelimited(close token.Type, prov ast.Provenance, dk delimiterKind, head *ast.Node) (*ast.Node, *ParseError) {
	pos := p.cur.Pos
	p.stack = append(p.stack, openFrame{kind: dk, pos: pos})
	p.advance() // consume opening delimiter

	var children []*ast.Node
	if head != nil {
		children = append(children, head)
	}

	for {
		if p.cur.Type == token.EOF {
			top := p.stack[len(p.stack)-1]
			return nil, &ParseError{Kind: Unclosed, Pos: p.cur.Pos, Which: top.kind.String(), OpenedAt: top.pos, Message: "unexpected end of input"}
		}
		if p.cur.Type == close {
			p.stack = p.stack[:len(p.stack)-1]
			p.advance()
			return ast.NewList(children, prov, pos), nil
		}
		if p.cur.Type == token.RPAREN || p.cur.Type == token.RBRACK || p.cur.Type == token.RBRACE {
			return nil, &ParseError{Kind: UnexpectedClose, Pos: p.cur.Pos, Message: "unexpected closing delimiter '" + p.cur.Literal + "', expected a matching close"}
		}
		child, err := p.parseForm()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
}

func (p *Parser) parseNumber() (*ast.Node, *ParseError) {
	pos := p.cur.Pos
	lit := p.cur.Literal
	isBigInt := strings.HasSuffix(lit, "n") && p.cur.Type == token.INT
	numLit := lit
	if isBigInt {
		numLit = strings.TrimSuffix(lit, "n")
	}
	numLit = strings.ReplaceAll(numLit, "_", "")
	v, err := strconv.ParseFloat(numLit, 64)
	if err != nil {
		return nil, &ParseError{Kind: BadNumber, Pos: pos, Message: "invalid numeric literal: " + lit}
	}
	p.advance()
	return ast.NewNumber(v, isBigInt, pos), nil
}

func (p *Parser) parseString() (*ast.Node, *ParseError) {
	pos := p.cur.Pos
	tok := p.cur
	p.advance()
	if len(tok.Template) == 0 {
		return ast.NewString(tok.Literal, pos), nil
	}

	children := []*ast.Node{ast.NewSymbol("template-literal", pos)}
	for _, part := range tok.Template {
		if !part.IsExpr {
			children = append(children, ast.NewString(part.Text, pos))
			continue
		}
		exprForms, perr := Read(part.Text, p.file)
		if perr != nil {
			return nil, perr
		}
		if len(exprForms) != 1 {
			return nil, &ParseError{Kind: BadString, Pos: pos, Message: "interpolation must contain exactly one expression"}
		}
		children = append(children, exprForms[0])
	}
	return ast.NewList(children, ast.ProvCall, pos), nil
}
