package parser

import (
	"strconv"

	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
	"github.com/nexuslang/nexus/internal/token"
)

// The AI-native constructs use two surface grammars: brace syntax
// (personality, voice) and call syntax with positional plus named
// arguments. There is no general named-argument mechanism in the language;
// each construct declares its own fixed key set here.

type aiArgs struct {
	positional []ast.Expression
	named      []*ast.NamedArg
}

func (a *aiArgs) get(name string) ast.Expression {
	for _, n := range a.named {
		if n.Name == name {
			return n.Value
		}
	}
	return nil
}

// parseAIArguments parses `( ... )` after an AI construct keyword.
// allowExtra admits arbitrary named keys (used by knowledge, whose extra
// named arguments become filters).
func (p *Parser) parseAIArguments(construct string, allowed []string, allowExtra bool) (*aiArgs, bool) {
	if !p.expectPeek(token.LPAREN) {
		return nil, false
	}

	args := &aiArgs{}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args, true
	}

	for {
		p.nextToken()
		if p.curTokenIsNamedArgKey() {
			nameTok := p.curToken
			name := p.curToken.Literal
			p.nextToken() // consume =
			p.nextToken()
			value := p.parseExpression(LOWEST)
			if value == nil {
				return nil, false
			}
			if !allowExtra && !contains(allowed, name) {
				p.errorf(diagnostics.ErrP004, nameTok,
					"%s does not accept named argument %q", construct, name)
				return nil, false
			}
			args.named = append(args.named, &ast.NamedArg{Token: nameTok, Name: name, Value: value})
		} else {
			if len(args.named) > 0 {
				p.errorf(diagnostics.ErrP006, p.curToken,
					"positional argument after named argument in %s", construct)
				return nil, false
			}
			expr := p.parseExpression(LOWEST)
			if expr == nil {
				return nil, false
			}
			args.positional = append(args.positional, expr)
		}

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return args, true
}

// curTokenIsNamedArgKey reports whether the current token opens a named
// argument. Keys read like identifiers, but several natural key names lex
// as keywords (emotion, confidence, the trait words), so any reserved word
// directly followed by `=` is taken as a key too.
func (p *Parser) curTokenIsNamedArgKey() bool {
	if !p.peekTokenIs(token.ASSIGN) {
		return false
	}
	return p.curTokenIs(token.IDENT) || token.IsKeyword(p.curToken.Type)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// parsePersonalityBlock parses `personality { name: 0.9, ... }`. Trait
// names may be plain identifiers or one of the reserved trait keywords;
// values must be numeric literals. The [0,1] range is enforced by the
// PersonalityBlock constructor, so a violation fails the parse.
func (p *Parser) parsePersonalityBlock() ast.Statement {
	tok := p.curToken

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	var traits []*ast.Trait
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		if !p.curTokenIs(token.IDENT) && !token.IsTraitKeyword(p.curToken.Type) {
			p.errors = append(p.errors, diagnostics.NewParseError(
				diagnostics.ErrP001, "trait name", p.curToken))
			return nil
		}
		traitTok := p.curToken
		name := p.curToken.Literal

		if !p.expectPeek(token.COLON) {
			return nil
		}

		p.nextToken()
		neg := false
		if p.curTokenIs(token.MINUS) {
			neg = true
			p.nextToken()
		}

		var value float64
		switch p.curToken.Type {
		case token.INT:
			iv, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
			if err != nil {
				p.errorf(diagnostics.ErrP006, p.curToken, "could not parse %q as integer", p.curToken.Literal)
				return nil
			}
			value = float64(iv)
		case token.FLOAT:
			fv, err := strconv.ParseFloat(p.curToken.Literal, 64)
			if err != nil {
				p.errorf(diagnostics.ErrP006, p.curToken, "could not parse %q as float", p.curToken.Literal)
				return nil
			}
			value = fv
		default:
			p.errorf(diagnostics.ErrP006, p.curToken,
				"personality trait %q needs a numeric literal value", name)
			return nil
		}
		if neg {
			value = -value
		}

		traits = append(traits, &ast.Trait{Token: traitTok, Name: name, Value: value})

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}

	pb, err := ast.NewPersonalityBlock(tok, traits)
	if err != nil {
		p.errorf(diagnostics.ErrP002, tok, "%s", err)
		return nil
	}
	return pb
}

// parseVoiceBlock parses `voice { ... }` whose statements run sequentially
// in a voice interaction context.
func (p *Parser) parseVoiceBlock() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body := p.parseBlockStatement()
	return &ast.VoiceBlock{Token: tok, Body: body}
}

// parseSayStatement parses `say(text, emotion=..., voice_id=..., speed=...)`.
func (p *Parser) parseSayStatement() ast.Statement {
	tok := p.curToken
	args, ok := p.parseAIArguments("say", []string{"emotion", "voice_id", "speed"}, false)
	if !ok {
		return nil
	}
	if len(args.positional) < 1 {
		p.errorf(diagnostics.ErrP005, tok, "say requires a text argument")
		return nil
	}
	return &ast.SayStatement{
		Token:   tok,
		Text:    args.positional[0],
		Emotion: args.get("emotion"),
		VoiceID: args.get("voice_id"),
		Speed:   args.get("speed"),
	}
}

// parseOptimizeSelfStatement parses
// `optimize_self(metric="accuracy", target=0.95, strategy="gradient")`.
// metric is the one required key.
func (p *Parser) parseOptimizeSelfStatement() ast.Statement {
	tok := p.curToken
	args, ok := p.parseAIArguments("optimize_self", []string{"metric", "target", "strategy"}, false)
	if !ok {
		return nil
	}
	if len(args.positional) > 0 {
		p.errorf(diagnostics.ErrP006, tok, "optimize_self takes named arguments only")
		return nil
	}
	metric := args.get("metric")
	if metric == nil {
		p.errorf(diagnostics.ErrP005, tok, "optimize_self requires metric")
		return nil
	}
	return &ast.OptimizeSelfStatement{
		Token:    tok,
		Metric:   metric,
		Target:   args.get("target"),
		Strategy: args.get("strategy"),
	}
}

// parseKnowledgeQuery parses `knowledge(query, ...)`. Any extra named
// arguments become filters.
func (p *Parser) parseKnowledgeQuery() ast.Expression {
	tok := p.curToken
	args, ok := p.parseAIArguments("knowledge", nil, true)
	if !ok {
		return nil
	}
	if len(args.positional) != 1 {
		p.errorf(diagnostics.ErrP005, tok, "knowledge requires exactly one query argument")
		return nil
	}
	return &ast.KnowledgeQuery{Token: tok, Query: args.positional[0], Filters: args.named}
}

// parseListenExpression parses `listen(timeout=5, language="en")`.
func (p *Parser) parseListenExpression() ast.Expression {
	tok := p.curToken
	args, ok := p.parseAIArguments("listen", []string{"timeout", "language"}, false)
	if !ok {
		return nil
	}
	if len(args.positional) > 0 {
		p.errorf(diagnostics.ErrP006, tok, "listen takes named arguments only")
		return nil
	}
	return &ast.ListenExpression{
		Token:    tok,
		Timeout:  args.get("timeout"),
		Language: args.get("language"),
	}
}

// parseLoadModelExpression parses `load_model(name, config=...)`.
func (p *Parser) parseLoadModelExpression() ast.Expression {
	tok := p.curToken
	args, ok := p.parseAIArguments("load_model", []string{"config"}, false)
	if !ok {
		return nil
	}
	if len(args.positional) != 1 {
		p.errorf(diagnostics.ErrP005, tok, "load_model requires a model name argument")
		return nil
	}
	return &ast.LoadModelExpression{
		Token:  tok,
		Name:   args.positional[0],
		Config: args.get("config"),
	}
}

// parseEmotionExpression parses `emotion(type?, intensity=...)`.
func (p *Parser) parseEmotionExpression() ast.Expression {
	tok := p.curToken
	args, ok := p.parseAIArguments("emotion", []string{"intensity"}, false)
	if !ok {
		return nil
	}
	if len(args.positional) > 1 {
		p.errorf(diagnostics.ErrP006, tok, "emotion takes at most one positional argument")
		return nil
	}
	expr := &ast.EmotionExpression{Token: tok, Intensity: args.get("intensity")}
	if len(args.positional) == 1 {
		expr.Kind = args.positional[0]
	}
	return expr
}

// parseConfidenceExpression parses `confidence(value?, threshold=...)`.
func (p *Parser) parseConfidenceExpression() ast.Expression {
	tok := p.curToken
	args, ok := p.parseAIArguments("confidence", []string{"threshold"}, false)
	if !ok {
		return nil
	}
	if len(args.positional) > 1 {
		p.errorf(diagnostics.ErrP006, tok, "confidence takes at most one positional argument")
		return nil
	}
	expr := &ast.ConfidenceExpression{Token: tok, Threshold: args.get("threshold")}
	if len(args.positional) == 1 {
		expr.Value = args.positional[0]
	}
	return expr
}
