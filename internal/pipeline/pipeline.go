// Package pipeline chains the toolchain stages behind one Processor
// interface so the CLI, the embed API and the REPL share a single driver.
package pipeline

import (
	"github.com/nexuslang/nexus/internal/analyzer"
	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
	"github.com/nexuslang/nexus/internal/token"
)

// Context is the state threaded through the stages. Each stage reads what
// earlier stages produced and fills in its own slot.
type Context struct {
	Source string
	File   string

	Tokens  []token.Token
	Program *ast.Program

	// Analysis is filled by the analyze stage only.
	Analysis *analyzer.Result

	// Artifact is the serialized binary, filled by the compile stage.
	Artifact []byte
	// Metadata travels into the artifact's metadata section.
	Metadata map[string]interface{}

	Diagnostics []*diagnostics.Diagnostic
}

// NewContext starts a pipeline run over source.
func NewContext(source, file string) *Context {
	return &Context{Source: source, File: file}
}

// Failed reports whether any stage recorded a diagnostic.
func (c *Context) Failed() bool { return len(c.Diagnostics) > 0 }

func (c *Context) report(diags ...*diagnostics.Diagnostic) {
	for _, d := range diags {
		if d.File == "" {
			d.File = c.File
		}
		c.Diagnostics = append(c.Diagnostics, d)
	}
}

// Processor is one stage of the pipeline.
type Processor interface {
	Name() string
	Process(ctx *Context) *Context
}

// Pipeline is a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the stages in order. It does not stop on diagnostics: later
// stages decide for themselves whether they can work with a partial
// context, so one run collects findings from every stage that can still
// contribute.
func (p *Pipeline) Run(initial *Context) *Context {
	ctx := initial
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
	}
	return ctx
}
