// Package diagnostics defines the error taxonomy shared by every stage of
// the toolchain. All failures are fail-fast: a stage reports a Diagnostic
// and the host decides how to present it. The core never prints on error
// paths.
package diagnostics

import (
	"fmt"

	"github.com/nexuslang/nexus/internal/token"
)

type Stage string

const (
	StageLexer   Stage = "lexer"
	StageParser  Stage = "parser"
	StageName    Stage = "name"
	StageRuntime Stage = "runtime"
	StageBinary  Stage = "binary"
)

// Error codes, grouped by stage.
const (
	ErrL001 = "L001" // unterminated string literal
	ErrL002 = "L002" // unrecognized character
	ErrL003 = "L003" // malformed numeric literal
	ErrL004 = "L004" // unterminated block comment

	ErrP001 = "P001" // unexpected token
	ErrP002 = "P002" // personality trait out of range
	ErrP003 = "P003" // invalid assignment target
	ErrP004 = "P004" // unknown named argument
	ErrP005 = "P005" // missing required argument
	ErrP006 = "P006" // general grammar violation

	ErrN001 = "N001" // undefined name
	ErrN002 = "N002" // reassignment of constant

	ErrR001 = "R001" // division by zero
	ErrR002 = "R002" // calling a non-function
	ErrR003 = "R003" // control signal leaked past its construct
	ErrR004 = "R004" // unresolvable member access
	ErrR005 = "R005" // type error in operator
	ErrR006 = "R006" // execution budget exceeded
	ErrR007 = "R007" // general runtime failure

	ErrB001 = "B001" // bad magic
	ErrB002 = "B002" // truncated artifact
	ErrB003 = "B003" // section size mismatch
	ErrB004 = "B004" // reserved or unknown opcode
	ErrB005 = "B005" // unsupported AST node in compiler
)

// Diagnostic is the one concrete error type produced by the core. Expected
// and Found are populated for parse errors only.
type Diagnostic struct {
	Code     string
	Stage    Stage
	Message  string
	File     string
	Line     int // 1-based
	Column   int // 1-based
	Expected string
	Found    string
}

func (d *Diagnostic) Error() string {
	pos := ""
	if d.Line > 0 {
		if d.File != "" {
			pos = fmt.Sprintf("%s:%d:%d: ", d.File, d.Line, d.Column)
		} else {
			pos = fmt.Sprintf("%d:%d: ", d.Line, d.Column)
		}
	}
	return fmt.Sprintf("%s[%s] %s", pos, d.Code, d.Message)
}

func (d *Diagnostic) IsStage(s Stage) bool { return d.Stage == s }

func NewLexerError(code string, line, column int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Stage:   StageLexer,
		Message: fmt.Sprintf(format, args...),
		Line:    line,
		Column:  column,
	}
}

func NewParseError(code string, expected string, found token.Token) *Diagnostic {
	foundDesc := string(found.Type)
	if found.Type == token.EOF {
		foundDesc = "end of input"
	}
	return &Diagnostic{
		Code:     code,
		Stage:    StageParser,
		Message:  fmt.Sprintf("expected %s, found %s", expected, foundDesc),
		Line:     found.Line,
		Column:   found.Column,
		Expected: expected,
		Found:    foundDesc,
	}
}

// NewParseErrorf builds a parse error with a free-form message, keeping the
// offending token's position.
func NewParseErrorf(code string, tok token.Token, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Stage:   StageParser,
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
		Found:   string(tok.Type),
	}
}

func NewNameError(code string, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Stage: StageName, Message: fmt.Sprintf(format, args...)}
}

func NewRuntimeError(code string, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Stage: StageRuntime, Message: fmt.Sprintf(format, args...)}
}

func NewBinaryError(code string, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Code: code, Stage: StageBinary, Message: fmt.Sprintf(format, args...)}
}
