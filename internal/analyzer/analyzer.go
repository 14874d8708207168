// Package analyzer runs non-executing static checks over a program:
// grammar errors, name-resolution problems, and style findings. It never
// evaluates anything, so analyzing hostile source is safe.
package analyzer

import (
	"fmt"

	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/lexer"
	"github.com/nexuslang/nexus/internal/parser"
	"github.com/nexuslang/nexus/internal/token"
)

// Result is the three-tier report. Errors would stop execution, warnings
// are likely bugs, suggestions are stylistic.
type Result struct {
	Errors      []string
	Warnings    []string
	Suggestions []string
}

// builtinNames are always resolvable; referencing them is never an
// undefined-variable finding.
var builtinNames = map[string]bool{
	"print": true, "len": true, "type": true, "str": true,
	"int": true, "float": true, "abs": true, "min": true, "max": true,
	"range": true, "push": true, "keys": true,
}

// Analyze lexes, parses and walks source. Parse failures land in Errors;
// the walk still runs over whatever partial program the parser recovered.
func Analyze(source string) *Result {
	res := &Result{}

	toks, err := lexer.Tokenize(source)
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
		return res
	}

	p := parser.New(toks)
	program := p.ParseProgram()
	for _, diag := range p.Errors() {
		res.Errors = append(res.Errors, diag.Error())
	}

	a := &analyzer{result: res}
	a.pushScope()
	program.Accept(a)
	a.popScope()
	return res
}

type binding struct {
	tok        token.Token
	isConst    bool
	isFunction bool
	used       bool
	reassigned bool
}

type scope struct {
	names map[string]*binding
	order []string
}

type analyzer struct {
	result *Result
	scopes []*scope
	// loopDepth tracks whether break/continue are legal here.
	loopDepth int
}

func (a *analyzer) warnf(tok token.Token, format string, args ...interface{}) {
	a.result.Warnings = append(a.result.Warnings,
		fmt.Sprintf("%d:%d: %s", tok.Line, tok.Column, fmt.Sprintf(format, args...)))
}

func (a *analyzer) suggestf(tok token.Token, format string, args ...interface{}) {
	a.result.Suggestions = append(a.result.Suggestions,
		fmt.Sprintf("%d:%d: %s", tok.Line, tok.Column, fmt.Sprintf(format, args...)))
}

func (a *analyzer) pushScope() {
	a.scopes = append(a.scopes, &scope{names: make(map[string]*binding)})
}

// popScope reports on the scope's bindings before discarding it: unused
// names warn, mutable bindings that were never reassigned suggest const.
func (a *analyzer) popScope() {
	s := a.scopes[len(a.scopes)-1]
	a.scopes = a.scopes[:len(a.scopes)-1]

	for _, name := range s.order {
		b := s.names[name]
		if !b.used {
			a.warnf(b.tok, "%q is declared but never used", name)
			continue
		}
		if !b.isConst && !b.isFunction && !b.reassigned {
			a.suggestf(b.tok, "%q is never reassigned, consider const", name)
		}
	}
}

func (a *analyzer) declare(name string, tok token.Token, isConst, isFunction bool) {
	s := a.scopes[len(a.scopes)-1]
	if _, exists := s.names[name]; exists {
		a.warnf(tok, "%q shadows an earlier declaration in the same scope", name)
	} else {
		s.order = append(s.order, name)
	}
	s.names[name] = &binding{tok: tok, isConst: isConst, isFunction: isFunction}
}

func (a *analyzer) lookup(name string) *binding {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if b, ok := a.scopes[i].names[name]; ok {
			return b
		}
	}
	return nil
}

func (a *analyzer) walk(node ast.Node) {
	if node == nil {
		return
	}
	node.Accept(a)
}

// walkStatements flags statements that follow an unconditional exit.
func (a *analyzer) walkStatements(stmts []ast.Statement) {
	for i, stmt := range stmts {
		a.walk(stmt)
		if i == len(stmts)-1 {
			continue
		}
		switch stmt.(type) {
		case *ast.ReturnStatement, *ast.BreakStatement, *ast.ContinueStatement:
			next := stmts[i+1]
			a.warnf(next.GetToken(), "unreachable code")
			return
		}
	}
}
