package ast

import (
	"fmt"

	"github.com/nexuslang/nexus/internal/token"
)

// Trait is a single name/value pair inside a personality block.
type Trait struct {
	Token token.Token
	Name  string
	Value float64
}

// PersonalityBlock declares agent traits. Construct it through
// NewPersonalityBlock so the [0,1] range invariant holds for every
// instance that exists.
type PersonalityBlock struct {
	Token  token.Token
	Traits []*Trait
}

// NewPersonalityBlock validates every trait value against [0,1]. A
// violation is a construction-time error; no PersonalityBlock with an
// out-of-range trait is ever built.
func NewPersonalityBlock(tok token.Token, traits []*Trait) (*PersonalityBlock, error) {
	for _, t := range traits {
		if t.Value < 0.0 || t.Value > 1.0 {
			return nil, fmt.Errorf("personality trait %q is %v, must be in [0.0, 1.0]", t.Name, t.Value)
		}
	}
	return &PersonalityBlock{Token: tok, Traits: traits}, nil
}

// Trait returns the value of a named trait, preserving declaration order
// for iteration elsewhere.
func (s *PersonalityBlock) Trait(name string) (float64, bool) {
	for _, t := range s.Traits {
		if t.Name == name {
			return t.Value, true
		}
	}
	return 0, false
}

func (s *PersonalityBlock) statementNode()        {}
func (s *PersonalityBlock) TokenLiteral() string  { return s.Token.Literal }
func (s *PersonalityBlock) GetToken() token.Token { return s.Token }
func (s *PersonalityBlock) Accept(v Visitor)      { v.VisitPersonalityBlock(s) }

// NamedArg is a `name=value` argument to an AI-native construct.
type NamedArg struct {
	Token token.Token
	Name  string
	Value Expression
}

// KnowledgeQuery is `knowledge(query, ...)`. Named arguments beyond the
// query become Filters, passed through to the knowledge port untouched.
type KnowledgeQuery struct {
	Token   token.Token
	Query   Expression
	Filters []*NamedArg
}

func (e *KnowledgeQuery) expressionNode()       {}
func (e *KnowledgeQuery) TokenLiteral() string  { return e.Token.Literal }
func (e *KnowledgeQuery) GetToken() token.Token { return e.Token }
func (e *KnowledgeQuery) Accept(v Visitor)      { v.VisitKnowledgeQuery(e) }

// VoiceBlock groups statements that run in a voice interaction context.
type VoiceBlock struct {
	Token token.Token
	Body  *BlockStatement
}

func (s *VoiceBlock) statementNode()        {}
func (s *VoiceBlock) TokenLiteral() string  { return s.Token.Literal }
func (s *VoiceBlock) GetToken() token.Token { return s.Token }
func (s *VoiceBlock) Accept(v Visitor)      { v.VisitVoiceBlock(s) }

// SayStatement emits speech. Only Text is required; nil optionals take
// their defaults at evaluation time (speed 1.0).
type SayStatement struct {
	Token   token.Token
	Text    Expression
	Emotion Expression
	VoiceID Expression
	Speed   Expression
}

func (s *SayStatement) statementNode()        {}
func (s *SayStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *SayStatement) GetToken() token.Token { return s.Token }
func (s *SayStatement) Accept(v Visitor)      { v.VisitSayStatement(s) }

// ListenExpression reads speech input. Language defaults to "en".
type ListenExpression struct {
	Token    token.Token
	Timeout  Expression
	Language Expression
}

func (e *ListenExpression) expressionNode()       {}
func (e *ListenExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *ListenExpression) GetToken() token.Token { return e.Token }
func (e *ListenExpression) Accept(v Visitor)      { v.VisitListenExpression(e) }

// OptimizeSelfStatement requests a self-tuning pass. Metric is required by
// the parser; Target and Strategy may be nil.
type OptimizeSelfStatement struct {
	Token    token.Token
	Metric   Expression
	Target   Expression
	Strategy Expression
}

func (s *OptimizeSelfStatement) statementNode()        {}
func (s *OptimizeSelfStatement) TokenLiteral() string  { return s.Token.Literal }
func (s *OptimizeSelfStatement) GetToken() token.Token { return s.Token }
func (s *OptimizeSelfStatement) Accept(v Visitor)      { v.VisitOptimizeSelfStatement(s) }

// LoadModelExpression loads a named model. Config is carried through
// unevaluated structure-wise; the bridge decides what to do with it.
type LoadModelExpression struct {
	Token  token.Token
	Name   Expression
	Config Expression
}

func (e *LoadModelExpression) expressionNode()       {}
func (e *LoadModelExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *LoadModelExpression) GetToken() token.Token { return e.Token }
func (e *LoadModelExpression) Accept(v Visitor)      { v.VisitLoadModelExpression(e) }

// EmotionExpression produces an emotion tag string. Intensity defaults to
// 1.0 at evaluation time.
type EmotionExpression struct {
	Token     token.Token
	Kind      Expression
	Intensity Expression
}

func (e *EmotionExpression) expressionNode()       {}
func (e *EmotionExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *EmotionExpression) GetToken() token.Token { return e.Token }
func (e *EmotionExpression) Accept(v Visitor)      { v.VisitEmotionExpression(e) }

// ConfidenceExpression produces a confidence score as a float.
type ConfidenceExpression struct {
	Token     token.Token
	Value     Expression
	Threshold Expression
}

func (e *ConfidenceExpression) expressionNode()       {}
func (e *ConfidenceExpression) TokenLiteral() string  { return e.Token.Literal }
func (e *ConfidenceExpression) GetToken() token.Token { return e.Token }
func (e *ConfidenceExpression) Accept(v Visitor)      { v.VisitConfidenceExpression(e) }
