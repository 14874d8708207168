package pipeline

import (
	"github.com/nexuslang/nexus/internal/analyzer"
	"github.com/nexuslang/nexus/internal/bytecode"
	"github.com/nexuslang/nexus/internal/diagnostics"
	"github.com/nexuslang/nexus/internal/lexer"
	"github.com/nexuslang/nexus/internal/parser"
)

// LexStage tokenizes ctx.Source.
type LexStage struct{}

func (LexStage) Name() string { return "lex" }

func (LexStage) Process(ctx *Context) *Context {
	toks, err := lexer.Tokenize(ctx.Source)
	if err != nil {
		if diag, ok := err.(*diagnostics.Diagnostic); ok {
			ctx.report(diag)
		} else {
			ctx.report(diagnostics.NewLexerError(diagnostics.ErrL002, 0, 0, "%v", err))
		}
		return ctx
	}
	ctx.Tokens = toks
	return ctx
}

// ParseStage builds the AST from ctx.Tokens. The parser recovers at
// statement boundaries, so ctx.Program is set even when diagnostics are
// reported; downstream stages that need a complete program must check
// Failed themselves.
type ParseStage struct{}

func (ParseStage) Name() string { return "parse" }

func (ParseStage) Process(ctx *Context) *Context {
	if ctx.Tokens == nil {
		return ctx
	}
	p := parser.New(ctx.Tokens)
	ctx.Program = p.ParseProgram()
	ctx.report(p.Errors()...)
	return ctx
}

// AnalyzeStage runs the static checks. It works from source so it sees the
// same partial program the parser recovered.
type AnalyzeStage struct{}

func (AnalyzeStage) Name() string { return "analyze" }

func (AnalyzeStage) Process(ctx *Context) *Context {
	ctx.Analysis = analyzer.Analyze(ctx.Source)
	return ctx
}

// CompileStage turns a clean program into a binary artifact. It refuses to
// run over a program with earlier diagnostics: a recovered AST drops the
// statements that failed to parse, and compiling the remainder would
// silently produce a binary with different behavior.
type CompileStage struct{}

func (CompileStage) Name() string { return "compile" }

func (CompileStage) Process(ctx *Context) *Context {
	if ctx.Program == nil || ctx.Failed() {
		return ctx
	}
	blob, err := bytecode.Compile(ctx.Program, ctx.Metadata)
	if err != nil {
		if diag, ok := err.(*diagnostics.Diagnostic); ok {
			ctx.report(diag)
		} else {
			ctx.report(diagnostics.NewBinaryError(diagnostics.ErrB005, "%v", err))
		}
		return ctx
	}
	ctx.Artifact = blob
	return ctx
}

// Frontend is the lex and parse stages every driver starts with.
func Frontend() *Pipeline {
	return New(LexStage{}, ParseStage{})
}

// Build is the full source-to-binary pipeline.
func Build() *Pipeline {
	return New(LexStage{}, ParseStage{}, CompileStage{})
}
