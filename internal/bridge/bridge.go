// Package bridge connects the interpreter's AI-native constructs to real
// backends. A SpeechPort handles say/listen, a KnowledgePort handles
// knowledge queries. Install registers the translation layer as evaluator
// builtins; constructs whose port is nil keep the interpreter's fallback
// behavior.
package bridge

import (
	"context"
	"time"

	"github.com/nexuslang/nexus/internal/diagnostics"
	"github.com/nexuslang/nexus/internal/evaluator"
)

// SpeechRequest is one utterance. Zero-value fields mean "not specified";
// the port applies its own defaults.
type SpeechRequest struct {
	Text    string
	Emotion string
	VoiceID string
	Speed   float64
}

// ListenRequest asks the port for one transcribed utterance. A zero
// Timeout means the port's default.
type ListenRequest struct {
	Timeout  time.Duration
	Language string
}

type SpeechPort interface {
	Say(ctx context.Context, req SpeechRequest) error
	Listen(ctx context.Context, req ListenRequest) (string, error)
}

// Fact is one knowledge result. Programs see it as a struct instance with
// title, summary, confidence and verified fields.
type Fact struct {
	Title      string
	Summary    string
	Confidence float64
	Verified   bool
}

// KnowledgePort answers knowledge queries with an ordered fact list.
// Filters are name/value pairs from the query's named arguments.
type KnowledgePort interface {
	Query(ctx context.Context, query string, filters map[string]string) ([]Fact, error)
}

// Install registers say, listen and knowledge handlers on the evaluator
// for every non-nil port. ctx bounds each port call; nil means Background.
func Install(e *evaluator.Evaluator, ctx context.Context, speech SpeechPort, knowledge KnowledgePort) {
	if ctx == nil {
		ctx = context.Background()
	}
	if speech != nil {
		e.RegisterBuiltin("say", sayHandler(ctx, speech))
		e.RegisterBuiltin("listen", listenHandler(ctx, speech))
	}
	if knowledge != nil {
		e.RegisterBuiltin("knowledge", knowledgeHandler(ctx, knowledge))
	}
}

func sayHandler(ctx context.Context, port SpeechPort) evaluator.BuiltinFunction {
	return func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		if len(args) != 4 {
			return portError("say expects text, emotion, voice and speed")
		}
		req := SpeechRequest{
			Text:    objString(args[0]),
			Emotion: objString(args[1]),
			VoiceID: objString(args[2]),
			Speed:   objFloat(args[3], 1.0),
		}
		if err := port.Say(ctx, req); err != nil {
			return portError("say failed: %v", err)
		}
		return evaluator.NULL
	}
}

func listenHandler(ctx context.Context, port SpeechPort) evaluator.BuiltinFunction {
	return func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		if len(args) != 2 {
			return portError("listen expects timeout and language")
		}
		req := ListenRequest{
			Timeout:  objSeconds(args[0]),
			Language: objString(args[1]),
		}
		text, err := port.Listen(ctx, req)
		if err != nil {
			return portError("listen failed: %v", err)
		}
		return &evaluator.String{Value: text}
	}
}

func knowledgeHandler(ctx context.Context, port KnowledgePort) evaluator.BuiltinFunction {
	return func(e *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
		if len(args) != 2 {
			return portError("knowledge expects a query and filters")
		}
		filters, err := objFilters(args[1])
		if err != nil {
			return portError("%v", err)
		}
		facts, qerr := port.Query(ctx, objString(args[0]), filters)
		if qerr != nil {
			return portError("knowledge query failed: %v", qerr)
		}
		out := &evaluator.Array{Elements: make([]evaluator.Object, 0, len(facts))}
		for _, fact := range facts {
			out.Elements = append(out.Elements, factObject(fact))
		}
		return out
	}
}

var factFieldOrder = []string{"title", "summary", "confidence", "verified"}

func factObject(f Fact) *evaluator.StructInstance {
	return &evaluator.StructInstance{
		TypeName: "Fact",
		Fields: map[string]evaluator.Object{
			"title":      &evaluator.String{Value: f.Title},
			"summary":    &evaluator.String{Value: f.Summary},
			"confidence": &evaluator.Float{Value: f.Confidence},
			"verified":   boolObject(f.Verified),
		},
		Order: factFieldOrder,
	}
}

func boolObject(b bool) evaluator.Object {
	if b {
		return evaluator.TRUE
	}
	return evaluator.FALSE
}

func portError(format string, args ...interface{}) *evaluator.Error {
	return &evaluator.Error{Diag: diagnostics.NewRuntimeError(diagnostics.ErrR007, format, args...)}
}
