package ast

import "github.com/nexuslang/nexus/internal/token"

type Identifier struct {
	Token token.Token
	Value string
}

func (e *Identifier) expressionNode()       {}
func (e *Identifier) TokenLiteral() string  { return e.Token.Literal }
func (e *Identifier) GetToken() token.Token { return e.Token }
func (e *Identifier) Accept(v Visitor)      { v.VisitIdentifier(e) }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (e *IntegerLiteral) expressionNode()       {}
func (e *IntegerLiteral) TokenLiteral() string  { return e.Token.Literal }
func (e *IntegerLiteral) GetToken() token.Token { return e.Token }
func (e *IntegerLiteral) Accept(v Visitor)      { v.VisitIntegerLiteral(e) }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (e *FloatLiteral) expressionNode()       {}
func (e *FloatLiteral) TokenLiteral() string  { return e.Token.Literal }
func (e *FloatLiteral) GetToken() token.Token { return e.Token }
func (e *FloatLiteral) Accept(v Visitor)      { v.VisitFloatLiteral(e) }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (e *StringLiteral) expressionNode()       {}
func (e *StringLiteral) TokenLiteral() string  { return e.Token.Literal }
func (e *StringLiteral) GetToken() token.Token { return e.Token }
func (e *StringLiteral) Accept(v Visitor)      { v.VisitStringLiteral(e) }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (e *BooleanLiteral) expressionNode()       {}
func (e *BooleanLiteral) TokenLiteral() string  { return e.Token.Literal }
func (e *BooleanLiteral) GetToken() token.Token { return e.Token }
func (e *BooleanLiteral) Accept(v Visitor)      { v.VisitBooleanLiteral(e) }

type NullLiteral struct {
	Token token.Token
}

func (e *NullLiteral) expressionNode()       {}
func (e *NullLiteral) TokenLiteral() string  { return e.Token.Literal }
func (e *NullLiteral) GetToken() token.Token { return e.Token }
func (e *NullLiteral) Accept(v Visitor)      { v.VisitNullLiteral(e) }

type ArrayLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (e *ArrayLiteral) expressionNode()       {}
func (e *ArrayLiteral) TokenLiteral() string  { return e.Token.Literal }
func (e *ArrayLiteral) GetToken() token.Token { return e.Token }
func (e *ArrayLiteral) Accept(v Visitor)      { v.VisitArrayLiteral(e) }

type PrefixExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (e *PrefixExpression) expressionNode()       {}
func (e *PrefixExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *PrefixExpression) GetToken() token.Token { return e.Token }
func (e *PrefixExpression) Accept(v Visitor)      { v.VisitPrefixExpression(e) }

type InfixExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (e *InfixExpression) expressionNode()       {}
func (e *InfixExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *InfixExpression) GetToken() token.Token { return e.Token }
func (e *InfixExpression) Accept(v Visitor)      { v.VisitInfixExpression(e) }

type CallExpression struct {
	Token     token.Token
	Function  Expression
	Arguments []Expression
}

func (e *CallExpression) expressionNode()       {}
func (e *CallExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *CallExpression) GetToken() token.Token { return e.Token }
func (e *CallExpression) Accept(v Visitor)      { v.VisitCallExpression(e) }

type IndexExpression struct {
	Token token.Token
	Left  Expression
	Index Expression
}

func (e *IndexExpression) expressionNode()       {}
func (e *IndexExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *IndexExpression) GetToken() token.Token { return e.Token }
func (e *IndexExpression) Accept(v Visitor)      { v.VisitIndexExpression(e) }

// MemberExpression is `object.property`. The property is a bare name, not
// an expression.
type MemberExpression struct {
	Token    token.Token
	Object   Expression
	Property string
}

func (e *MemberExpression) expressionNode()       {}
func (e *MemberExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *MemberExpression) GetToken() token.Token { return e.Token }
func (e *MemberExpression) Accept(v Visitor)      { v.VisitMemberExpression(e) }
