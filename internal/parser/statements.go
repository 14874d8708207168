package parser

import (
	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
	"github.com/nexuslang/nexus/internal/token"
)

// parseStatement selects a production from the leading token. Every
// production returns with curToken on the last token of the statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LET, token.CONST:
		return p.parseLetStatement()
	case token.FN:
		return p.parseFunctionStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return &ast.BreakStatement{Token: p.curToken}
	case token.CONTINUE:
		return &ast.ContinueStatement{Token: p.curToken}
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.STRUCT:
		return p.parseStructStatement()
	case token.IMPORT:
		return p.parseImportStatement()
	case token.PERSONALITY:
		return p.parsePersonalityBlock()
	case token.VOICE:
		return p.parseVoiceBlock()
	case token.SAY:
		return p.parseSayStatement()
	case token.OPTIMIZE_SELF:
		return p.parseOptimizeSelfStatement()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	stmt := &ast.LetStatement{Token: p.curToken, Const: p.curTokenIs(token.CONST)}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(token.COLON) {
		p.nextToken() // consume :
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.TypeTag = p.curToken.Literal
	}

	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken() // consume =
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if stmt.Value == nil {
			return nil
		}
	}

	return stmt
}

func (p *Parser) parseFunctionStatement() ast.Statement {
	stmt := &ast.FunctionStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	params, ok := p.parseParameterList()
	if !ok {
		return nil
	}
	stmt.Parameters = params

	if p.peekTokenIs(token.ARROW) {
		p.nextToken() // consume ->
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		stmt.ReturnTag = p.curToken.Literal
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseParameterList parses `(a, b: int)` with curToken on '('. Returns
// with curToken on ')'.
func (p *Parser) parseParameterList() ([]*ast.Parameter, bool) {
	var params []*ast.Parameter

	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}

	for {
		if !p.expectPeek(token.IDENT) {
			return nil, false
		}
		param := &ast.Parameter{Token: p.curToken, Name: p.curToken.Literal}
		if p.peekTokenIs(token.COLON) {
			p.nextToken() // consume :
			if !p.expectPeek(token.IDENT) {
				return nil, false
			}
			param.TypeTag = p.curToken.Literal
		}
		params = append(params, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(token.RPAREN) {
		return nil, false
	}
	return params, true
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	// Bare return directly before a closing brace carries no value.
	if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) {
		return stmt
	}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement()

	if p.peekTokenIs(token.ELSE) {
		p.nextToken() // consume else
		if p.peekTokenIs(token.IF) {
			p.nextToken()
			stmt.Alternative = p.parseIfStatement()
		} else {
			if !p.expectPeek(token.LBRACE) {
				return nil
			}
			stmt.Alternative = p.parseBlockStatement()
		}
	}

	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Item = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.IN) {
		return nil
	}

	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	if stmt.Iterable == nil {
		return nil
	}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseBlockStatement parses `{ ... }` with curToken on '{'. Returns with
// curToken on '}'.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.curToken}

	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		before := len(p.errors)
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if len(p.errors) > before {
			p.synchronize()
			if p.curTokenIs(token.RBRACE) || p.curTokenIs(token.EOF) {
				break
			}
			continue
		}
		p.nextToken()
	}

	if p.curTokenIs(token.EOF) {
		p.errors = append(p.errors, diagnostics.NewParseError(diagnostics.ErrP001, "}", p.curToken))
	}

	return block
}

func (p *Parser) parseStructStatement() ast.Statement {
	stmt := &ast.StructStatement{Token: p.curToken}

	if !p.expectPeek(token.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	for !p.peekTokenIs(token.RBRACE) {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		field := &ast.Parameter{Token: p.curToken, Name: p.curToken.Literal}
		if p.peekTokenIs(token.COLON) {
			p.nextToken() // consume :
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			field.TypeTag = p.curToken.Literal
		}
		stmt.Fields = append(stmt.Fields, field)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
		} else {
			break
		}
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return stmt
}

func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{Token: p.curToken}

	if !p.expectPeek(token.STRING) {
		return nil
	}
	stmt.Path = p.curToken.Literal

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken() // consume (
		for !p.peekTokenIs(token.RPAREN) {
			if !p.expectPeek(token.IDENT) {
				return nil
			}
			stmt.Items = append(stmt.Items, p.curToken.Literal)
			if p.peekTokenIs(token.COMMA) {
				p.nextToken()
			} else {
				break
			}
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
	}

	return stmt
}

// parseExpressionOrAssignStatement parses an expression statement, then
// reinterprets it as assignment when the next token is `=` (or a compound
// form). Only a bare identifier is a legal target: index and member
// assignment is not part of the grammar.
func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	startToken := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	var desugarOp string
	switch p.peekToken.Type {
	case token.ASSIGN:
	case token.PLUS_ASSIGN:
		desugarOp = "+"
	case token.MINUS_ASSIGN:
		desugarOp = "-"
	case token.ASTERISK_ASSIGN:
		desugarOp = "*"
	case token.SLASH_ASSIGN:
		desugarOp = "/"
	default:
		return &ast.ExpressionStatement{Token: startToken, Expression: expr}
	}

	ident, ok := expr.(*ast.Identifier)
	if !ok {
		p.errorf(diagnostics.ErrP003, p.peekToken,
			"invalid assignment target: only a bare identifier can be assigned")
		return nil
	}

	p.nextToken() // onto the assignment operator
	p.nextToken() // onto the first value token
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}

	if desugarOp != "" {
		// x += e desugars to x = x + e.
		value = &ast.InfixExpression{
			Token:    ident.Token,
			Left:     &ast.Identifier{Token: ident.Token, Value: ident.Value},
			Operator: desugarOp,
			Right:    value,
		}
	}

	return &ast.AssignStatement{Token: startToken, Name: ident, Value: value}
}
