package evaluator

import (
	"bytes"
	"strings"
	"testing"
)

func TestSayFallbackWritesToOut(t *testing.T) {
	var out bytes.Buffer
	e := New()
	e.Out = &out
	evalWith(t, e, `say("hello world", emotion="happy")`)

	if got := strings.TrimSpace(out.String()); got != "hello world" {
		t.Errorf("say fallback: got %q", got)
	}
}

func TestListenFallbackReturnsEmptyString(t *testing.T) {
	res := testEval(t, `listen(timeout=5)`)
	s, ok := res.(*String)
	if !ok || s.Value != "" {
		t.Errorf("listen fallback: got %s", res.Inspect())
	}
}

func TestKnowledgeFallbackReturnsEmptyArray(t *testing.T) {
	res := testEval(t, `knowledge("quantum computing", limit=3)`)
	arr, ok := res.(*Array)
	if !ok || len(arr.Elements) != 0 {
		t.Errorf("knowledge fallback: got %s", res.Inspect())
	}
}

func TestEmotionFallbackEchoesType(t *testing.T) {
	res := testEval(t, `emotion("joy", intensity=0.8)`)
	s, ok := res.(*String)
	if !ok || s.Value != "joy" {
		t.Errorf("emotion: got %s", res.Inspect())
	}

	res = testEval(t, `emotion()`)
	s, ok = res.(*String)
	if !ok || s.Value != "neutral" {
		t.Errorf("emotion default: got %s", res.Inspect())
	}
}

func TestConfidenceFallback(t *testing.T) {
	res := testEval(t, `confidence(0.7)`)
	f, ok := res.(*Float)
	if !ok || f.Value != 0.7 {
		t.Errorf("confidence: got %s", res.Inspect())
	}

	res = testEval(t, `confidence()`)
	f, ok = res.(*Float)
	if !ok || f.Value != 1.0 {
		t.Errorf("confidence default: got %s", res.Inspect())
	}
}

func TestOptimizeSelfFallbackIsNoop(t *testing.T) {
	res := testEval(t, `optimize_self(metric="accuracy", target=0.95)`)
	if res != NULL {
		t.Errorf("optimize_self fallback: got %s", res.Inspect())
	}
}

func TestRegisteredSayHandlerReceivesArguments(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}

	var gotText, gotEmotion string
	var gotSpeed float64
	e.RegisterBuiltin("say", func(ev *Evaluator, args ...Object) Object {
		gotText = args[0].(*String).Value
		if s, ok := args[1].(*String); ok {
			gotEmotion = s.Value
		}
		gotSpeed = args[3].(*Float).Value
		return NULL
	})

	evalWith(t, e, `say("hi", emotion="calm")`)
	if gotText != "hi" || gotEmotion != "calm" || gotSpeed != 1.0 {
		t.Errorf("handler saw text=%q emotion=%q speed=%v", gotText, gotEmotion, gotSpeed)
	}
}

func TestRegisteredKnowledgeHandlerSeesFilters(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}

	var query string
	var filterNames []string
	e.RegisterBuiltin("knowledge", func(ev *Evaluator, args ...Object) Object {
		query = args[0].(*String).Value
		for _, pair := range args[1].(*Array).Elements {
			filterNames = append(filterNames, pair.(*Array).Elements[0].(*String).Value)
		}
		return &Array{Elements: []Object{&String{Value: "fact"}}}
	})

	res := evalWith(t, e, `knowledge("go", source="wiki", limit=2)`)
	arr, ok := res.(*Array)
	if !ok || len(arr.Elements) != 1 {
		t.Fatalf("handler result: got %s", res.Inspect())
	}
	if query != "go" {
		t.Errorf("query: got %q", query)
	}
	if len(filterNames) != 2 || filterNames[0] != "source" || filterNames[1] != "limit" {
		t.Errorf("filters: got %v", filterNames)
	}
}

func TestPersonalityBlockEvaluation(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}
	evalWith(t, e, `personality { curiosity: 0.9, humor: 0.4 }`)

	if e.Personality == nil {
		t.Fatal("personality not recorded")
	}
	if e.Personality.Traits["curiosity"] != 0.9 {
		t.Errorf("curiosity: got %v", e.Personality.Traits["curiosity"])
	}
	if len(e.Personality.Order) != 2 || e.Personality.Order[0] != "curiosity" {
		t.Errorf("trait order: got %v", e.Personality.Order)
	}
}

func TestVoiceBlockRunsSequentially(t *testing.T) {
	var out bytes.Buffer
	e := New()
	e.Out = &out
	evalWith(t, e, `
voice {
    say("one")
    say("two")
}
`)
	lines := strings.Fields(out.String())
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Errorf("voice block output: %q", out.String())
	}
}

func TestLoadModelFallbackReturnsNull(t *testing.T) {
	res := testEval(t, `let m = load_model("sentiment-v2")
m`)
	if res != NULL {
		t.Errorf("load_model fallback: got %s", res.Inspect())
	}
}
