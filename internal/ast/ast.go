// Package ast defines the NexusLang syntax tree. Every node carries the
// token that introduced it so later stages can report positions without
// re-lexing. Consumers walk the tree through the Visitor interface; adding
// a node type without extending Visitor is a compile error in every
// consumer, which is the point.
package ast

import "github.com/nexuslang/nexus/internal/token"

type Node interface {
	TokenLiteral() string
	GetToken() token.Token
	Accept(v Visitor)
}

type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Program is the root node: an ordered statement list.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) GetToken() token.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].GetToken()
	}
	return token.Token{}
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// Parameter is a function parameter or struct field: a name with an
// optional type tag. Type tags are carried for tooling; the interpreter
// does not enforce them.
type Parameter struct {
	Token   token.Token
	Name    string
	TypeTag string
}

// LetStatement covers both `let` and `const` declarations. A nil Value
// means the name was declared without an initializer and binds to null.
type LetStatement struct {
	Token   token.Token
	Name    *Identifier
	TypeTag string
	Value   Expression
	Const   bool
}

func (s *LetStatement) statementNode()        {}
func (s *LetStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *LetStatement) GetToken() token.Token { return s.Token }
func (s *LetStatement) Accept(v Visitor)      { v.VisitLetStatement(s) }

// AssignStatement reassigns an existing binding. The parser guarantees the
// target is a bare identifier.
type AssignStatement struct {
	Token token.Token
	Name  *Identifier
	Value Expression
}

func (s *AssignStatement) statementNode()        {}
func (s *AssignStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *AssignStatement) GetToken() token.Token { return s.Token }
func (s *AssignStatement) Accept(v Visitor)      { v.VisitAssignStatement(s) }

type FunctionStatement struct {
	Token      token.Token
	Name       *Identifier
	Parameters []*Parameter
	ReturnTag  string
	Body       *BlockStatement
}

func (s *FunctionStatement) statementNode()        {}
func (s *FunctionStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *FunctionStatement) GetToken() token.Token { return s.Token }
func (s *FunctionStatement) Accept(v Visitor)      { v.VisitFunctionStatement(s) }

// ReturnStatement with a nil Value returns null.
type ReturnStatement struct {
	Token token.Token
	Value Expression
}

func (s *ReturnStatement) statementNode()        {}
func (s *ReturnStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *ReturnStatement) GetToken() token.Token { return s.Token }
func (s *ReturnStatement) Accept(v Visitor)      { v.VisitReturnStatement(s) }

type BreakStatement struct {
	Token token.Token
}

func (s *BreakStatement) statementNode()        {}
func (s *BreakStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *BreakStatement) GetToken() token.Token { return s.Token }
func (s *BreakStatement) Accept(v Visitor)      { v.VisitBreakStatement(s) }

type ContinueStatement struct {
	Token token.Token
}

func (s *ContinueStatement) statementNode()        {}
func (s *ContinueStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *ContinueStatement) GetToken() token.Token { return s.Token }
func (s *ContinueStatement) Accept(v Visitor)      { v.VisitContinueStatement(s) }

// IfStatement chains else-if by holding another IfStatement in Alternative.
// A trailing plain else is a BlockStatement.
type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement
}

func (s *IfStatement) statementNode()        {}
func (s *IfStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *IfStatement) GetToken() token.Token { return s.Token }
func (s *IfStatement) Accept(v Visitor)      { v.VisitIfStatement(s) }

type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

func (s *WhileStatement) statementNode()        {}
func (s *WhileStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *WhileStatement) GetToken() token.Token { return s.Token }
func (s *WhileStatement) Accept(v Visitor)      { v.VisitWhileStatement(s) }

type ForStatement struct {
	Token    token.Token
	Item     *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (s *ForStatement) statementNode()        {}
func (s *ForStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *ForStatement) GetToken() token.Token { return s.Token }
func (s *ForStatement) Accept(v Visitor)      { v.VisitForStatement(s) }

type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (s *BlockStatement) statementNode()        {}
func (s *BlockStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *BlockStatement) GetToken() token.Token { return s.Token }
func (s *BlockStatement) Accept(v Visitor)      { v.VisitBlockStatement(s) }

type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (s *ExpressionStatement) statementNode()        {}
func (s *ExpressionStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *ExpressionStatement) GetToken() token.Token { return s.Token }
func (s *ExpressionStatement) Accept(v Visitor)      { v.VisitExpressionStatement(s) }

type StructStatement struct {
	Token  token.Token
	Name   *Identifier
	Fields []*Parameter
}

func (s *StructStatement) statementNode()        {}
func (s *StructStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *StructStatement) GetToken() token.Token { return s.Token }
func (s *StructStatement) Accept(v Visitor)      { v.VisitStructStatement(s) }

// ImportStatement with nil Items imports the module as a namespace; with
// Items it binds the named members directly.
type ImportStatement struct {
	Token token.Token
	Path  string
	Items []string
}

func (s *ImportStatement) statementNode()        {}
func (s *ImportStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *ImportStatement) GetToken() token.Token { return s.Token }
func (s *ImportStatement) Accept(v Visitor)      { v.VisitImportStatement(s) }
