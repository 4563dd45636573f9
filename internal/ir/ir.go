// Package ir defines the intermediate representation lowering produces: a
// tagged variant approximating ECMAScript with HQL-specific extensions
// (spec §3). Following the teacher's ast.go idiom, each family (Expression,
// Statement, Declaration, Pattern) is a marker interface implemented by
// concrete node structs; callers dispatch with a type switch rather than a
// Kind enum.
package ir

import "github.com/hlvm-dev/hql/internal/token"

// Node is the base interface every IR node implements.
type Node interface {
	Pos() token.Position
}

// Expression is any IR node that produces a value.
type Expression interface {
	Node
	exprNode()
}

// Statement is any IR node that performs an action without producing a value.
type Statement interface {
	Node
	stmtNode()
}

// Declaration is a top-level or class-body binding form.
type Declaration interface {
	Node
	declNode()
}

// Pattern is a binding-position destructuring target.
type Pattern interface {
	Node
	patternNode()
}

// NodeBase carries the source position every IR node exposes through Pos().
type NodeBase struct {
	Position token.Position
}

func (b NodeBase) Pos() token.Position { return b.Position }

// ---- Expressions ----

type Identifier struct {
	NodeBase
	Name string
}

func (*Identifier) exprNode() {}

type StringLiteral struct {
	NodeBase
	Value string
}

func (*StringLiteral) exprNode() {}

type NumericLiteral struct {
	NodeBase
	Value float64
}

func (*NumericLiteral) exprNode() {}

type BooleanLiteral struct {
	NodeBase
	Value bool
}

func (*BooleanLiteral) exprNode() {}

type NullLiteral struct{ NodeBase }

func (*NullLiteral) exprNode() {}

type BigIntLiteral struct {
	NodeBase
	Value string // decimal digits, no trailing 'n'
}

func (*BigIntLiteral) exprNode() {}

// TemplateLiteral maintains len(Quasis) == len(Expressions)+1 (spec §4.6.13).
type TemplateLiteral struct {
	NodeBase
	Quasis      []string
	Expressions []Expression
}

func (*TemplateLiteral) exprNode() {}

type ArrayExpression struct {
	NodeBase
	Elements []Expression // may contain *SpreadElement
}

func (*ArrayExpression) exprNode() {}

// ObjectProperty is one key/value pair of an ObjectExpression; it is not
// itself an Expression, only a constituent of one.
type ObjectProperty struct {
	Key      Expression
	Value    Expression
	Computed bool
}

type ObjectExpression struct {
	NodeBase
	Properties []ObjectProperty
	Spreads    []*SpreadAssignment // interleaved positionally via SpreadIndex
	SpreadIndex []int              // number of Properties preceding each spread, parallel to Spreads
}

func (*ObjectExpression) exprNode() {}

type CallExpression struct {
	NodeBase
	Callee    Expression
	Arguments []Expression // may contain *SpreadElement
}

func (*CallExpression) exprNode() {}

type NewExpression struct {
	NodeBase
	Callee    Expression
	Arguments []Expression
}

func (*NewExpression) exprNode() {}

type MemberExpression struct {
	NodeBase
	Object   Expression
	Property Expression
	Computed bool
}

func (*MemberExpression) exprNode() {}

// OptionalMemberExpression is one step of an optional-chain whose own `?.`
// bit may differ from neighboring steps (invariant 6, spec §3).
type OptionalMemberExpression struct {
	NodeBase
	Object   Expression
	Property Expression
	Computed bool
	Optional bool
}

func (*OptionalMemberExpression) exprNode() {}

// CallMemberExpression is `obj.method(args...)` kept as one node so the
// optional-chain short-circuit on the call covers both the member access
// and the invocation.
type CallMemberExpression struct {
	NodeBase
	Object    Expression
	Method    string
	Arguments []Expression
	Optional  bool
}

func (*CallMemberExpression) exprNode() {}

type BinaryExpression struct {
	NodeBase
	Operator string
	Left     Expression
	Right    Expression
}

func (*BinaryExpression) exprNode() {}

type UnaryExpression struct {
	NodeBase
	Operator string
	Argument Expression
	Prefix   bool
}

func (*UnaryExpression) exprNode() {}

type LogicalExpression struct {
	NodeBase
	Operator string // && or ||
	Left     Expression
	Right    Expression
}

func (*LogicalExpression) exprNode() {}

type AssignmentExpression struct {
	NodeBase
	Operator string // =, +=, -=, *=, /=, ++, --  (compound-assignment operators from §4.7)
	Left     Expression
	Right    Expression
}

func (*AssignmentExpression) exprNode() {}

type ConditionalExpression struct {
	NodeBase
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (*ConditionalExpression) exprNode() {}

type AwaitExpression struct {
	NodeBase
	Argument Expression
}

func (*AwaitExpression) exprNode() {}

type YieldExpression struct {
	NodeBase
	Argument Expression
	Delegate bool
}

func (*YieldExpression) exprNode() {}

type FunctionExpression struct {
	NodeBase
	Name      string // "" for anonymous
	Async     bool
	Generator bool
	Params    []Pattern
	Body      *BlockStatement
}

func (*FunctionExpression) exprNode() {}

// SpreadElement is `...expr` in array/call position.
type SpreadElement struct {
	NodeBase
	Argument Expression
}

func (*SpreadElement) exprNode() {}

// SpreadAssignment is `...expr` in object position.
type SpreadAssignment struct {
	NodeBase
	Argument Expression
}

func (*SpreadAssignment) exprNode() {}

// InteropIIFE guards a dot-path access on a possibly-null object:
// (() => { const o = obj; return o == null ? undefined : o.a.b; })().
type InteropIIFE struct {
	NodeBase
	Object Expression
	Path   []string
}

func (*InteropIIFE) exprNode() {}

// JsMethodAccess is a raw `js/Foo.bar` style verbatim passthrough identifier
// path, kept distinct from InteropIIFE because it is never null-guarded.
type JsMethodAccess struct {
	NodeBase
	Path []string
}

func (*JsMethodAccess) exprNode() {}

// ---- Statements ----

type ExpressionStatement struct {
	NodeBase
	Expression Expression
}

func (*ExpressionStatement) stmtNode() {}

type BlockStatement struct {
	NodeBase
	Body []Node // Statement or Declaration
}

func (*BlockStatement) stmtNode() {}

type ReturnStatement struct {
	NodeBase
	Argument Expression // nil for bare `return`
}

func (*ReturnStatement) stmtNode() {}

type ThrowStatement struct {
	NodeBase
	Argument Expression
}

func (*ThrowStatement) stmtNode() {}

type IfStatement struct {
	NodeBase
	Test       Expression
	Consequent Statement
	Alternate  Statement // nil if no else
}

func (*IfStatement) stmtNode() {}

type WhileStatement struct {
	NodeBase
	Test Expression
	Body Statement
}

func (*WhileStatement) stmtNode() {}

type ForStatement struct {
	NodeBase
	Init   Node // *VariableDeclaration or Expression, nil if absent
	Test   Expression
	Update Expression
	Body   Statement
}

func (*ForStatement) stmtNode() {}

type ForOfStatement struct {
	NodeBase
	Left  *VariableDeclaration
	Right Expression
	Body  Statement
	Await bool
}

func (*ForOfStatement) stmtNode() {}

type LabeledStatement struct {
	NodeBase
	Label string
	Body  Statement
}

func (*LabeledStatement) stmtNode() {}

type BreakStatement struct {
	NodeBase
	Label string // "" if none
}

func (*BreakStatement) stmtNode() {}

type ContinueStatement struct {
	NodeBase
	Label string // "" if none
}

func (*ContinueStatement) stmtNode() {}

type CatchClause struct {
	NodeBase
	Param string // "" if catch takes no binding
	Body  *BlockStatement
}

type TryStatement struct {
	NodeBase
	Block     *BlockStatement
	Handler   *CatchClause // nil if no catch
	Finalizer *BlockStatement // nil if no finally
}

func (*TryStatement) stmtNode() {}

type VariableDeclarator struct {
	Id             Pattern
	Init           Expression // nil for uninitialized `var`/`let`
	TypeAnnotation string     // "" if none
}

type DeclKind int

const (
	DeclConst DeclKind = iota
	DeclLet
	DeclVar
)

func (k DeclKind) String() string {
	switch k {
	case DeclConst:
		return "const"
	case DeclLet:
		return "let"
	default:
		return "var"
	}
}

type VariableDeclaration struct {
	NodeBase
	DKind       DeclKind
	Declarators []VariableDeclarator
}

func (*VariableDeclaration) stmtNode() {}
func (*VariableDeclaration) declNode() {}

// ---- Declarations ----

type FunctionDeclaration struct {
	NodeBase
	Name      string
	Async     bool
	Generator bool
	Params    []Pattern
	Body      *BlockStatement
}

func (*FunctionDeclaration) declNode() {}
func (*FunctionDeclaration) stmtNode() {}

// FnFunctionDeclaration is the named-lambda variant produced by every `fn`
// that carries a name, in statement or value position (spec §3).
type FnFunctionDeclaration struct {
	NodeBase
	Name      string
	Async     bool
	Generator bool
	Params    []Pattern
	Body      *BlockStatement
}

func (*FnFunctionDeclaration) declNode() {}
func (*FnFunctionDeclaration) exprNode() {}

type ClassField struct {
	Name     string
	Value    Expression // nil if uninitialized
	Private  bool
	Static   bool
	Mutable  bool
}

type ClassMethod struct {
	Name   string
	Fn     *FunctionExpression
	Static bool
	Kind   string // "method" | "get" | "set"
}

type ClassDeclaration struct {
	NodeBase
	Name        string
	SuperClass  Expression // nil if no `extends`
	Fields      []ClassField
	Constructor *FunctionExpression // nil if absent
	Methods     []ClassMethod
}

func (*ClassDeclaration) declNode() {}
func (*ClassDeclaration) stmtNode() {}

type EnumCase struct {
	NodeBase
	Name             string
	RawValue         Expression // nil if bare case
	AssociatedValues []string   // non-nil if this case carries a payload
}

type EnumDeclaration struct {
	NodeBase
	Name                string
	RawType             string // "" if none
	Cases               []EnumCase
	HasAssociatedValues bool
}

func (*EnumDeclaration) declNode() {}
func (*EnumDeclaration) stmtNode() {}

type ImportSpecifier struct {
	Imported string
	Local    string // == Imported unless aliased with `as`
}

type ImportDeclaration struct {
	NodeBase
	Source       string
	Namespace    string // non-"" for `(import name from "module")`
	Specifiers   []ImportSpecifier
	SideEffectOnly bool
}

func (*ImportDeclaration) declNode() {}
func (*ImportDeclaration) stmtNode() {}

type ExportNamedDeclaration struct {
	NodeBase
	Specifiers []ImportSpecifier
}

func (*ExportNamedDeclaration) declNode() {}
func (*ExportNamedDeclaration) stmtNode() {}

type ExportVariableDeclaration struct {
	NodeBase
	Declaration Declaration
}

func (*ExportVariableDeclaration) declNode() {}
func (*ExportVariableDeclaration) stmtNode() {}

type ExportDefaultDeclaration struct {
	NodeBase
	Declaration Node // Expression or Declaration
}

func (*ExportDefaultDeclaration) declNode() {}
func (*ExportDefaultDeclaration) stmtNode() {}

type DynamicImport struct {
	NodeBase
	Source Expression
}

func (*DynamicImport) exprNode() {}

type TypeAliasDeclaration struct {
	NodeBase
	Name           string
	TypeParameters []string
	Body           string // raw passthrough, spec §4.6.14 / Open Questions
}

func (*TypeAliasDeclaration) declNode() {}
func (*TypeAliasDeclaration) stmtNode() {}

type InterfaceDeclaration struct {
	NodeBase
	Name           string
	TypeParameters []string
	Extends        []string
	Body           string // raw passthrough
}

func (*InterfaceDeclaration) declNode() {}
func (*InterfaceDeclaration) stmtNode() {}

// ---- Patterns ----

type IdentifierPattern struct {
	NodeBase
	Name string
}

func (*IdentifierPattern) patternNode() {}

type ArrayPattern struct {
	NodeBase
	Elements []Pattern // may contain nil entries for elisions (never emitted by this lowering, kept for IR completeness)
	Rest     Pattern   // nil if no rest
}

func (*ArrayPattern) patternNode() {}

type ObjectPatternProperty struct {
	Key     string
	Value   Pattern
	Default Expression // nil if none
}

type ObjectPattern struct {
	NodeBase
	Properties []ObjectPatternProperty
	Rest       Pattern // nil if no rest
}

func (*ObjectPattern) patternNode() {}

type RestPattern struct {
	NodeBase
	Argument Pattern
}

func (*RestPattern) patternNode() {}

type SkipPattern struct{ NodeBase }

func (*SkipPattern) patternNode() {}

// AssignmentPattern wraps a pattern with a default initializer (destructured
// parameter defaults, §4.6.6).
type AssignmentPattern struct {
	NodeBase
	Left  Pattern
	Right Expression
}

func (*AssignmentPattern) patternNode() {}

// Program is the root of a lowered compilation unit.
type Program struct {
	Body []Node // Statement or Declaration
}
