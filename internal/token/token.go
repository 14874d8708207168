// Package token defines the lexical token set of NexusLang.
package token

type Type string

type Token struct {
	Type    Type
	Lexeme  string // raw text as it appeared in the source
	Literal string // decoded value for literals (escapes resolved, quotes stripped)
	Line    int    // 1-based
	Column  int    // 1-based
}

const (
	ILLEGAL Type = "ILLEGAL"
	EOF     Type = "EOF"
	NEWLINE Type = "NEWLINE"

	// Identifiers and literals
	IDENT  Type = "IDENT"
	INT    Type = "INT"
	FLOAT  Type = "FLOAT"
	STRING Type = "STRING"

	// Operators
	ASSIGN          Type = "="
	PLUS            Type = "+"
	MINUS           Type = "-"
	ASTERISK        Type = "*"
	SLASH           Type = "/"
	PERCENT         Type = "%"
	BANG            Type = "!"
	PLUS_ASSIGN     Type = "+="
	MINUS_ASSIGN    Type = "-="
	ASTERISK_ASSIGN Type = "*="
	SLASH_ASSIGN    Type = "/="
	EQ              Type = "=="
	NOT_EQ          Type = "!="
	LT              Type = "<"
	GT              Type = ">"
	LTE             Type = "<="
	GTE             Type = ">="
	AND             Type = "&&"
	OR              Type = "||"
	AMPERSAND       Type = "&"
	PIPE            Type = "|"
	LSHIFT          Type = "<<"
	RSHIFT          Type = ">>"
	ARROW           Type = "->"
	FAT_ARROW       Type = "=>"
	COLON_COLON     Type = "::"
	DOT             Type = "."
	DOT_DOT         Type = ".."
	ELLIPSIS        Type = "..."
	QUESTION        Type = "?"

	// Delimiters
	COMMA     Type = ","
	COLON     Type = ":"
	SEMICOLON Type = ";"
	LPAREN    Type = "("
	RPAREN    Type = ")"
	LBRACE    Type = "{"
	RBRACE    Type = "}"
	LBRACKET  Type = "["
	RBRACKET  Type = "]"

	// Keywords
	LET      Type = "LET"
	CONST    Type = "CONST"
	FN       Type = "FN"
	RETURN   Type = "RETURN"
	IF       Type = "IF"
	ELSE     Type = "ELSE"
	WHILE    Type = "WHILE"
	FOR      Type = "FOR"
	IN       Type = "IN"
	BREAK    Type = "BREAK"
	CONTINUE Type = "CONTINUE"
	STRUCT   Type = "STRUCT"
	IMPORT   Type = "IMPORT"
	TRUE     Type = "TRUE"
	FALSE    Type = "FALSE"
	NULL     Type = "NULL"

	// AI-native keywords
	PERSONALITY   Type = "PERSONALITY"
	VOICE         Type = "VOICE"
	SAY           Type = "SAY"
	LISTEN        Type = "LISTEN"
	KNOWLEDGE     Type = "KNOWLEDGE"
	OPTIMIZE_SELF Type = "OPTIMIZE_SELF"
	LOAD_MODEL    Type = "LOAD_MODEL"
	EMOTION       Type = "EMOTION"
	CONFIDENCE    Type = "CONFIDENCE"

	// Reserved personality trait names. They lex as keywords so a
	// personality block can use them without shadowing user identifiers.
	TRAIT_CURIOSITY  Type = "TRAIT_CURIOSITY"
	TRAIT_EMPATHY    Type = "TRAIT_EMPATHY"
	TRAIT_HUMOR      Type = "TRAIT_HUMOR"
	TRAIT_FORMALITY  Type = "TRAIT_FORMALITY"
	TRAIT_CREATIVITY Type = "TRAIT_CREATIVITY"
)

var keywords = map[string]Type{
	"let":      LET,
	"const":    CONST,
	"fn":       FN,
	"return":   RETURN,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"break":    BREAK,
	"continue": CONTINUE,
	"struct":   STRUCT,
	"import":   IMPORT,
	"true":     TRUE,
	"false":    FALSE,
	"null":     NULL,

	"personality":   PERSONALITY,
	"voice":         VOICE,
	"say":           SAY,
	"listen":        LISTEN,
	"knowledge":     KNOWLEDGE,
	"optimize_self": OPTIMIZE_SELF,
	"load_model":    LOAD_MODEL,
	"emotion":       EMOTION,
	"confidence":    CONFIDENCE,

	"curiosity":  TRAIT_CURIOSITY,
	"empathy":    TRAIT_EMPATHY,
	"humor":      TRAIT_HUMOR,
	"formality":  TRAIT_FORMALITY,
	"creativity": TRAIT_CREATIVITY,
}

// LookupIdent resolves an identifier against the static keyword table.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// IsTraitKeyword reports whether t is one of the reserved personality trait
// keywords. These may also appear as trait names inside personality blocks.
func IsTraitKeyword(t Type) bool {
	switch t {
	case TRAIT_CURIOSITY, TRAIT_EMPATHY, TRAIT_HUMOR, TRAIT_FORMALITY, TRAIT_CREATIVITY:
		return true
	}
	return false
}

// IsKeyword reports whether t is a reserved word. Reserved words may still
// appear in identifier positions in a few grammars (trait names, named
// argument keys); their Literal carries the word.
func IsKeyword(t Type) bool {
	for _, kw := range keywords {
		if kw == t {
			return true
		}
	}
	return false
}
