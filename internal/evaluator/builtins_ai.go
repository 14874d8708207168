package evaluator

import (
	"fmt"

	"github.com/nexuslang/nexus/internal/ast"
)

// AI-native nodes evaluate by dispatching to the correspondingly-named
// entry in the builtin registry. The host's bridge registers those
// handlers; with no handler present each construct degrades to a
// documented fallback instead of failing the program:
//
//	say         writes its text to Out
//	listen      returns ""
//	knowledge   returns an empty array
//	optimize_self is a no-op
//	load_model  returns null
//	emotion     echoes its type string ("neutral" when absent)
//	confidence  returns its value as a float (1.0 when absent)

// evalOptional evaluates a possibly-nil expression, substituting def.
func (e *Evaluator) evalOptional(expr ast.Expression, def Object) Object {
	if expr == nil {
		return def
	}
	return e.eval(expr, e.env)
}

func (e *Evaluator) dispatchAI(name string, args ...Object) (Object, bool) {
	builtin, ok := e.builtins[name]
	if !ok {
		return nil, false
	}
	return builtin.Fn(e, args...), true
}

func (e *Evaluator) VisitPersonalityBlock(n *ast.PersonalityBlock) {
	p := &Personality{
		Traits: make(map[string]float64, len(n.Traits)),
		Order:  make([]string, 0, len(n.Traits)),
	}
	for _, t := range n.Traits {
		if _, seen := p.Traits[t.Name]; !seen {
			p.Order = append(p.Order, t.Name)
		}
		p.Traits[t.Name] = t.Value
	}
	e.Personality = p

	if res, ok := e.dispatchAI("personality", p); ok {
		e.result = res
		return
	}
	e.result = NULL
}

func (e *Evaluator) VisitVoiceBlock(n *ast.VoiceBlock) {
	res := e.evalBlock(n.Body, NewEnclosedEnvironment(e.env))
	if isSignal(res) {
		e.result = res
		return
	}
	e.result = NULL
}

func (e *Evaluator) VisitSayStatement(n *ast.SayStatement) {
	text := e.eval(n.Text, e.env)
	if isError(text) {
		e.result = text
		return
	}
	emotion := e.evalOptional(n.Emotion, NULL)
	if isError(emotion) {
		e.result = emotion
		return
	}
	voiceID := e.evalOptional(n.VoiceID, NULL)
	if isError(voiceID) {
		e.result = voiceID
		return
	}
	speed := e.evalOptional(n.Speed, &Float{Value: 1.0})
	if isError(speed) {
		e.result = speed
		return
	}

	if res, ok := e.dispatchAI("say", text, emotion, voiceID, speed); ok {
		e.result = res
		return
	}
	fmt.Fprintln(e.Out, text.Inspect())
	e.result = NULL
}

func (e *Evaluator) VisitListenExpression(n *ast.ListenExpression) {
	timeout := e.evalOptional(n.Timeout, NULL)
	if isError(timeout) {
		e.result = timeout
		return
	}
	language := e.evalOptional(n.Language, &String{Value: "en"})
	if isError(language) {
		e.result = language
		return
	}

	if res, ok := e.dispatchAI("listen", timeout, language); ok {
		e.result = res
		return
	}
	e.result = &String{Value: ""}
}

func (e *Evaluator) VisitKnowledgeQuery(n *ast.KnowledgeQuery) {
	query := e.eval(n.Query, e.env)
	if isError(query) {
		e.result = query
		return
	}

	// Filters travel as an array of [name, value] pairs, in source order.
	filters := &Array{Elements: make([]Object, 0, len(n.Filters))}
	for _, f := range n.Filters {
		val := e.eval(f.Value, e.env)
		if isError(val) {
			e.result = val
			return
		}
		filters.Elements = append(filters.Elements, &Array{
			Elements: []Object{&String{Value: f.Name}, val},
		})
	}

	if res, ok := e.dispatchAI("knowledge", query, filters); ok {
		e.result = res
		return
	}
	e.result = &Array{}
}

func (e *Evaluator) VisitOptimizeSelfStatement(n *ast.OptimizeSelfStatement) {
	metric := e.eval(n.Metric, e.env)
	if isError(metric) {
		e.result = metric
		return
	}
	target := e.evalOptional(n.Target, NULL)
	if isError(target) {
		e.result = target
		return
	}
	strategy := e.evalOptional(n.Strategy, NULL)
	if isError(strategy) {
		e.result = strategy
		return
	}

	if res, ok := e.dispatchAI("optimize_self", metric, target, strategy); ok {
		e.result = res
		return
	}
	e.result = NULL
}

func (e *Evaluator) VisitLoadModelExpression(n *ast.LoadModelExpression) {
	name := e.eval(n.Name, e.env)
	if isError(name) {
		e.result = name
		return
	}
	config := e.evalOptional(n.Config, NULL)
	if isError(config) {
		e.result = config
		return
	}

	if res, ok := e.dispatchAI("load_model", name, config); ok {
		e.result = res
		return
	}
	e.result = NULL
}

func (e *Evaluator) VisitEmotionExpression(n *ast.EmotionExpression) {
	kind := e.evalOptional(n.Kind, &String{Value: "neutral"})
	if isError(kind) {
		e.result = kind
		return
	}
	intensity := e.evalOptional(n.Intensity, &Float{Value: 1.0})
	if isError(intensity) {
		e.result = intensity
		return
	}

	if res, ok := e.dispatchAI("emotion", kind, intensity); ok {
		e.result = res
		return
	}
	if s, ok := kind.(*String); ok {
		e.result = s
		return
	}
	e.result = &String{Value: kind.Inspect()}
}

func (e *Evaluator) VisitConfidenceExpression(n *ast.ConfidenceExpression) {
	value := e.evalOptional(n.Value, NULL)
	if isError(value) {
		e.result = value
		return
	}
	threshold := e.evalOptional(n.Threshold, NULL)
	if isError(threshold) {
		e.result = threshold
		return
	}

	if res, ok := e.dispatchAI("confidence", value, threshold); ok {
		e.result = res
		return
	}
	if isNumeric(value) {
		e.result = &Float{Value: toFloat(value)}
		return
	}
	e.result = &Float{Value: 1.0}
}
