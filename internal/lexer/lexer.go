// Package lexer converts NexusLang source text into an ordered token
// stream. The scanner is hand-written: one rune of lookahead is enough for
// every multi-character operator in the language.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nexuslang/nexus/internal/diagnostics"
	"github.com/nexuslang/nexus/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number, 1-based
	column       int  // current column number, 1-based
	err          *diagnostics.Diagnostic
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns the token stream terminated by
// EOF. It never mutates external state; a fresh Lexer is used per call.
func Tokenize(source string) ([]token.Token, error) {
	l := New(source)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		if l.err != nil {
			return nil, l.err
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

// NextToken scans and returns the next token. After an error NextToken
// returns an ILLEGAL token; Tokenize surfaces the error itself.
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespaceAndComments()
	if l.err != nil {
		return token.Token{Type: token.ILLEGAL, Line: l.line, Column: l.column}
	}

	startLine, startCol := l.line, l.column

	switch l.ch {
	case '\n':
		tok = newToken(token.NEWLINE, "\n", startLine, startCol)
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.EQ, "==", startLine, startCol)
		} else if l.peekChar() == '>' {
			l.readChar()
			tok = newToken(token.FAT_ARROW, "=>", startLine, startCol)
		} else {
			tok = newToken(token.ASSIGN, "=", startLine, startCol)
		}
	case '+':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.PLUS_ASSIGN, "+=", startLine, startCol)
		} else {
			tok = newToken(token.PLUS, "+", startLine, startCol)
		}
	case '-':
		if l.peekChar() == '>' {
			l.readChar()
			tok = newToken(token.ARROW, "->", startLine, startCol)
		} else if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.MINUS_ASSIGN, "-=", startLine, startCol)
		} else {
			tok = newToken(token.MINUS, "-", startLine, startCol)
		}
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.ASTERISK_ASSIGN, "*=", startLine, startCol)
		} else {
			tok = newToken(token.ASTERISK, "*", startLine, startCol)
		}
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.SLASH_ASSIGN, "/=", startLine, startCol)
		} else {
			tok = newToken(token.SLASH, "/", startLine, startCol)
		}
	case '%':
		tok = newToken(token.PERCENT, "%", startLine, startCol)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.NOT_EQ, "!=", startLine, startCol)
		} else {
			tok = newToken(token.BANG, "!", startLine, startCol)
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.LTE, "<=", startLine, startCol)
		} else if l.peekChar() == '<' {
			l.readChar()
			tok = newToken(token.LSHIFT, "<<", startLine, startCol)
		} else {
			tok = newToken(token.LT, "<", startLine, startCol)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(token.GTE, ">=", startLine, startCol)
		} else if l.peekChar() == '>' {
			l.readChar()
			tok = newToken(token.RSHIFT, ">>", startLine, startCol)
		} else {
			tok = newToken(token.GT, ">", startLine, startCol)
		}
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = newToken(token.AND, "&&", startLine, startCol)
		} else {
			tok = newToken(token.AMPERSAND, "&", startLine, startCol)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = newToken(token.OR, "||", startLine, startCol)
		} else {
			tok = newToken(token.PIPE, "|", startLine, startCol)
		}
	case ':':
		if l.peekChar() == ':' {
			l.readChar()
			tok = newToken(token.COLON_COLON, "::", startLine, startCol)
		} else {
			tok = newToken(token.COLON, ":", startLine, startCol)
		}
	case '.':
		if l.peekChar() == '.' {
			l.readChar()
			if l.peekChar() == '.' {
				l.readChar()
				tok = newToken(token.ELLIPSIS, "...", startLine, startCol)
			} else {
				tok = newToken(token.DOT_DOT, "..", startLine, startCol)
			}
		} else {
			tok = newToken(token.DOT, ".", startLine, startCol)
		}
	case '?':
		tok = newToken(token.QUESTION, "?", startLine, startCol)
	case ',':
		tok = newToken(token.COMMA, ",", startLine, startCol)
	case ';':
		tok = newToken(token.SEMICOLON, ";", startLine, startCol)
	case '(':
		tok = newToken(token.LPAREN, "(", startLine, startCol)
	case ')':
		tok = newToken(token.RPAREN, ")", startLine, startCol)
	case '{':
		tok = newToken(token.LBRACE, "{", startLine, startCol)
	case '}':
		tok = newToken(token.RBRACE, "}", startLine, startCol)
	case '[':
		tok = newToken(token.LBRACKET, "[", startLine, startCol)
	case ']':
		tok = newToken(token.RBRACKET, "]", startLine, startCol)
	case '"', '\'':
		content, ok := l.readString(l.ch)
		if !ok {
			return token.Token{Type: token.ILLEGAL, Line: startLine, Column: startCol}
		}
		return token.Token{Type: token.STRING, Lexeme: content, Literal: content, Line: startLine, Column: startCol}
	case 0:
		return token.Token{Type: token.EOF, Line: l.line, Column: l.column}
	default:
		if isLetter(l.ch) {
			lexeme := l.readIdentifier()
			return token.Token{
				Type:    token.LookupIdent(lexeme),
				Lexeme:  lexeme,
				Literal: lexeme,
				Line:    startLine,
				Column:  startCol,
			}
		}
		if isDigit(l.ch) {
			return l.readNumber(startLine, startCol)
		}
		l.err = diagnostics.NewLexerError(diagnostics.ErrL002, startLine, startCol,
			"unrecognized character %q", string(l.ch))
		return token.Token{Type: token.ILLEGAL, Line: startLine, Column: startCol}
	}

	l.readChar()
	return tok
}

func newToken(t token.Type, lexeme string, line, col int) token.Token {
	return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: line, Column: col}
}

// skipWhitespaceAndComments skips spaces, tabs and carriage returns (never
// newlines, those are tokens), plus // line and /* */ block comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			startLine, startCol := l.line, l.column
			l.readChar() // consume /
			l.readChar() // consume *
			for {
				if l.ch == 0 {
					l.err = diagnostics.NewLexerError(diagnostics.ErrL004, startLine, startCol,
						"unterminated block comment")
					return
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar() // consume *
					l.readChar() // consume /
					break
				}
				l.readChar()
			}
		default:
			return
		}
	}
}

// readString reads a quoted string, decoding the escape sequences
// \n \t \r \\ and the matching quote. The opening quote is the current char.
func (l *Lexer) readString(quote rune) (string, bool) {
	startLine, startCol := l.line, l.column
	var sb strings.Builder

	for {
		l.readChar()
		if l.ch == 0 || l.ch == '\n' {
			l.err = diagnostics.NewLexerError(diagnostics.ErrL001, startLine, startCol,
				"unterminated string literal")
			return "", false
		}
		if l.ch == quote {
			l.readChar() // consume closing quote
			return sb.String(), true
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			case 0:
				l.err = diagnostics.NewLexerError(diagnostics.ErrL001, startLine, startCol,
					"unterminated string literal")
				return "", false
			default:
				// Unknown escapes keep the backslash verbatim.
				sb.WriteByte('\\')
				sb.WriteRune(l.ch)
			}
			continue
		}
		sb.WriteRune(l.ch)
	}
}

// readNumber scans an integer or float literal. A '.' makes the literal a
// float only when it is not immediately followed by a second '.', so
// `0..10` lexes as INT, DOT_DOT, INT and never as a float.
func (l *Lexer) readNumber(startLine, startCol int) token.Token {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	isFloat := false
	if l.ch == '.' && l.peekChar() != '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	lexeme := l.input[position:l.position]
	t := token.INT
	if isFloat {
		t = token.FLOAT
	}
	return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Line: startLine, Column: startCol}
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
