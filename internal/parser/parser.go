// Package parser builds a NexusLang AST from a token stream using
// recursive descent with Pratt-style expression parsing. Statement dispatch
// is keyword-driven: the first token of a statement selects the production,
// and anything unrecognized falls through to expression-statement parsing.
package parser

import (
	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
	"github.com/nexuslang/nexus/internal/lexer"
	"github.com/nexuslang/nexus/internal/token"
)

// Expression precedence, lowest to highest.
const (
	_ int = iota
	LOWEST
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALITY    // == !=
	COMPARISON  // < <= > >=
	RANGE       // ..
	SUM         // + -
	PRODUCT     // * / %
	PREFIX      // -x !x
	POSTFIX     // call() index[] member.
)

var precedences = map[token.Type]int{
	token.OR:       LOGICAL_OR,
	token.AND:      LOGICAL_AND,
	token.EQ:       EQUALITY,
	token.NOT_EQ:   EQUALITY,
	token.LT:       COMPARISON,
	token.LTE:      COMPARISON,
	token.GT:       COMPARISON,
	token.GTE:      COMPARISON,
	token.DOT_DOT:  RANGE,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.ASTERISK: PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.LPAREN:   POSTFIX,
	token.LBRACKET: POSTFIX,
	token.DOT:      POSTFIX,
}

// MaxRecursionDepth bounds expression nesting so a hostile input cannot
// overflow the goroutine stack.
const MaxRecursionDepth = 500

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	tokens []token.Token
	pos    int

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	errors []*diagnostics.Diagnostic
	depth  int
}

// Parse lexes and parses source in one step, failing on the first
// diagnostic. This is the entry point used by the pipeline.
func Parse(source string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	p := New(toks)
	program := p.ParseProgram()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return program, nil
}

// New builds a parser over a token stream. Newline tokens are discarded up
// front: layout is not syntactically significant in NexusLang.
func New(tokens []token.Token) *Parser {
	filtered := make([]token.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.Type != token.NEWLINE {
			filtered = append(filtered, tok)
		}
	}

	p := &Parser{tokens: filtered}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:      p.parseIdentifier,
		token.INT:        p.parseIntegerLiteral,
		token.FLOAT:      p.parseFloatLiteral,
		token.STRING:     p.parseStringLiteral,
		token.TRUE:       p.parseBooleanLiteral,
		token.FALSE:      p.parseBooleanLiteral,
		token.NULL:       p.parseNullLiteral,
		token.BANG:       p.parsePrefixExpression,
		token.MINUS:      p.parsePrefixExpression,
		token.LPAREN:     p.parseGroupedExpression,
		token.LBRACKET:   p.parseArrayLiteral,
		token.KNOWLEDGE:  p.parseKnowledgeQuery,
		token.LISTEN:     p.parseListenExpression,
		token.LOAD_MODEL: p.parseLoadModelExpression,
		token.EMOTION:    p.parseEmotionExpression,
		token.CONFIDENCE: p.parseConfidenceExpression,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.OR:       p.parseInfixExpression,
		token.AND:      p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NOT_EQ:   p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.LTE:      p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.GTE:      p.parseInfixExpression,
		token.DOT_DOT:  p.parseInfixExpression,
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.ASTERISK: p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.PERCENT:  p.parseInfixExpression,
		token.LPAREN:   p.parseCallExpression,
		token.LBRACKET: p.parseIndexExpression,
		token.DOT:      p.parseMemberExpression,
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns every diagnostic collected during parsing, in source
// order. The analyzer consumes the full list; execution paths fail on the
// first entry.
func (p *Parser) Errors() []*diagnostics.Diagnostic { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	if p.pos < len(p.tokens) {
		p.peekToken = p.tokens[p.pos]
		p.pos++
	} else {
		p.peekToken = token.Token{Type: token.EOF, Line: p.curToken.Line, Column: p.curToken.Column}
	}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

// expectPeek advances when the next token matches, otherwise records a
// ParseError naming the expected kind and the offending token's position.
func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, diagnostics.NewParseError(diagnostics.ErrP001, string(t), p.peekToken))
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) errorf(code string, tok token.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, diagnostics.NewParseErrorf(code, tok, format, args...))
}

// synchronize skips tokens until a likely statement boundary so one error
// does not cascade into dozens of follow-ups. Always advances at least one
// token: curToken may itself be the keyword whose statement just failed.
func (p *Parser) synchronize() {
	p.nextToken()
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.LET, token.CONST, token.FN, token.RETURN, token.IF, token.WHILE,
			token.FOR, token.BREAK, token.CONTINUE, token.STRUCT, token.IMPORT,
			token.PERSONALITY, token.VOICE, token.SAY, token.OPTIMIZE_SELF, token.RBRACE:
			return
		}
		p.nextToken()
	}
}

// ParseProgram consumes the whole token stream and returns the root node.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(token.EOF) {
		before := len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		if len(p.errors) > before {
			p.synchronize()
			if p.curTokenIs(token.RBRACE) {
				p.nextToken()
			}
			continue
		}
		p.nextToken()
	}

	return program
}
