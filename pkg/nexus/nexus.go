// Package nexus is the embedding API. A Runtime bundles configuration,
// cancellation and bridge ports; Execute, Compile and Analyze are the three
// operations a host calls. There are no package-level singletons: every
// Runtime is independent and the convenience functions build a throwaway
// one per call.
package nexus

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nexuslang/nexus/internal/analyzer"
	"github.com/nexuslang/nexus/internal/bridge"
	"github.com/nexuslang/nexus/internal/config"
	"github.com/nexuslang/nexus/internal/evaluator"
	"github.com/nexuslang/nexus/internal/pipeline"
)

// Port types a host implements to back the AI-native constructs.
type (
	SpeechPort    = bridge.SpeechPort
	KnowledgePort = bridge.KnowledgePort
	SpeechRequest = bridge.SpeechRequest
	ListenRequest = bridge.ListenRequest
	Fact          = bridge.Fact
)

// Config re-exports the runtime configuration for hosts.
type Config = config.Config

type Runtime struct {
	cfg       *config.Config
	ctx       context.Context
	speech    bridge.SpeechPort
	knowledge bridge.KnowledgePort
}

type Option func(*Runtime)

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(r *Runtime) { r.cfg = cfg }
}

// WithContext sets the parent context every execution derives from.
func WithContext(ctx context.Context) Option {
	return func(r *Runtime) { r.ctx = ctx }
}

// WithSpeech routes say and listen through the given port.
func WithSpeech(p SpeechPort) Option {
	return func(r *Runtime) { r.speech = p }
}

// WithKnowledge routes knowledge queries through the given port.
func WithKnowledge(p KnowledgePort) Option {
	return func(r *Runtime) { r.knowledge = p }
}

func New(opts ...Option) *Runtime {
	r := &Runtime{cfg: config.Default(), ctx: context.Background()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ExecuteResult reports one program run. Output is everything the program
// printed; Error is empty on success.
type ExecuteResult struct {
	ID            string
	Output        string
	Success       bool
	Error         string
	ExecutionTime time.Duration
}

// Execute parses and interprets source under the runtime's limits.
func (r *Runtime) Execute(source string) ExecuteResult {
	res := ExecuteResult{ID: uuid.NewString()}
	start := time.Now()

	pctx := pipeline.Frontend().Run(pipeline.NewContext(source, ""))
	if pctx.Failed() {
		res.Error = joinDiagnostics(pctx)
		res.ExecutionTime = time.Since(start)
		return res
	}

	runCtx := r.ctx
	if r.cfg.Limits.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, r.cfg.Limits.Timeout)
		defer cancel()
	}

	var out bytes.Buffer
	e := evaluator.New()
	e.Out = &out
	e.Ctx = runCtx
	e.MaxSteps = r.cfg.Limits.MaxSteps
	bridge.Install(e, runCtx, r.speech, r.knowledge)

	val := e.Eval(pctx.Program, evaluator.NewEnvironment())
	res.Output = out.String()
	res.ExecutionTime = time.Since(start)
	if errObj, ok := val.(*evaluator.Error); ok {
		res.Error = errObj.Diag.Error()
		return res
	}
	res.Success = true
	return res
}

// CompileResult reports one ahead-of-time compilation. CompressionRatio is
// binary size over source size.
type CompileResult struct {
	ID               string
	Binary           []byte
	CompressionRatio float64
	Success          bool
	Error            string
}

// Compile translates source into a binary artifact without executing it.
func (r *Runtime) Compile(source string) CompileResult {
	res := CompileResult{ID: uuid.NewString()}

	pctx := pipeline.NewContext(source, "")
	pctx.Metadata = map[string]interface{}{
		"id":           res.ID,
		"source_bytes": len(source),
	}
	pctx = pipeline.Build().Run(pctx)
	if pctx.Failed() {
		res.Error = joinDiagnostics(pctx)
		return res
	}

	res.Binary = pctx.Artifact
	if len(source) > 0 {
		res.CompressionRatio = float64(len(pctx.Artifact)) / float64(len(source))
	}
	res.Success = true
	return res
}

// AnalyzeResult is the static report: errors would stop execution,
// warnings are likely bugs, suggestions are stylistic.
type AnalyzeResult struct {
	Errors      []string
	Warnings    []string
	Suggestions []string
}

// Analyze runs the static checks without executing anything.
func (r *Runtime) Analyze(source string) AnalyzeResult {
	rep := analyzer.Analyze(source)
	return AnalyzeResult{
		Errors:      rep.Errors,
		Warnings:    rep.Warnings,
		Suggestions: rep.Suggestions,
	}
}

// Execute runs source with default options.
func Execute(source string) ExecuteResult { return New().Execute(source) }

// Compile compiles source with default options.
func Compile(source string) CompileResult { return New().Compile(source) }

// Analyze checks source with default options.
func Analyze(source string) AnalyzeResult { return New().Analyze(source) }

func joinDiagnostics(pctx *pipeline.Context) string {
	msgs := make([]string, 0, len(pctx.Diagnostics))
	for _, d := range pctx.Diagnostics {
		msgs = append(msgs, d.Error())
	}
	return strings.Join(msgs, "\n")
}
