// Package evaluator is the tree-walking interpreter. It implements
// ast.Visitor so that an AST node without an evaluation rule is a compile
// error, not a silent fallthrough. Evaluation is synchronous and
// re-entrant: two Evaluators share no mutable state.
package evaluator

import (
	"context"
	"io"
	"os"

	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
)

// budgetCheckInterval is how many evaluated nodes pass between deadline
// and step-budget checks. A power of two so the check is a mask.
const budgetCheckInterval = 64

type Evaluator struct {
	// Out is the program's standard output channel. print writes here,
	// and say falls back to it when no speech bridge is registered.
	Out io.Writer

	// Ctx, when set, is consulted periodically so a host can cancel a
	// runaway program. MaxSteps caps evaluated nodes; 0 means unlimited.
	Ctx      context.Context
	MaxSteps int64

	// ModuleLoader resolves import paths. Nil means imports fail at
	// runtime.
	ModuleLoader func(path string) (*Module, error)

	// Personality is the most recently evaluated personality block, for
	// the host and the AI bridge to consult.
	Personality *Personality

	builtins map[string]*Builtin

	steps  int64
	env    *Environment
	result Object
}

func New() *Evaluator {
	e := &Evaluator{Out: os.Stdout, builtins: make(map[string]*Builtin)}
	registerStdBuiltins(e)
	return e
}

// RegisterBuiltin installs or replaces a builtin. The AI bridge registers
// its handlers ("say", "listen", "knowledge", ...) through this; AI-native
// nodes degrade to documented fallbacks when no handler is present.
func (e *Evaluator) RegisterBuiltin(name string, fn BuiltinFunction) {
	e.builtins[name] = &Builtin{Name: name, Fn: fn}
}

// Steps reports how many nodes have been evaluated so far.
func (e *Evaluator) Steps() int64 { return e.steps }

// Eval evaluates a node in the given environment and returns its value.
// An *Error result carries the diagnostic; control-flow signals leak out
// only on malformed programs.
func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	return e.eval(node, env)
}

func (e *Evaluator) eval(node ast.Node, env *Environment) Object {
	if node == nil {
		return NULL
	}

	e.steps++
	if e.steps&(budgetCheckInterval-1) == 0 {
		if err := e.checkBudget(); err != nil {
			return err
		}
	}

	prev := e.env
	e.env = env
	node.Accept(e)
	e.env = prev

	res := e.result
	e.result = NULL
	return res
}

func (e *Evaluator) checkBudget() *Error {
	if e.MaxSteps > 0 && e.steps > e.MaxSteps {
		return newError(diagnostics.ErrR006, "execution budget exceeded after %d steps", e.steps)
	}
	if e.Ctx != nil {
		select {
		case <-e.Ctx.Done():
			return newError(diagnostics.ErrR006, "execution cancelled: %v", e.Ctx.Err())
		default:
		}
	}
	return nil
}

func (e *Evaluator) VisitProgram(n *ast.Program) {
	var result Object = NULL
	for _, stmt := range n.Statements {
		result = e.eval(stmt, e.env)
		switch res := result.(type) {
		case *Error:
			e.result = res
			return
		case *ReturnValue:
			// A top-level return ends the program with its value.
			e.result = res.Value
			return
		case *BreakSignal, *ContinueSignal:
			e.result = newError(diagnostics.ErrR003, "%s outside of a loop", result.Inspect())
			return
		}
	}
	e.result = result
}

// evalBlock runs statements sequentially, stopping at the first signal.
// The caller decides which signals it absorbs.
func (e *Evaluator) evalBlock(block *ast.BlockStatement, env *Environment) Object {
	var result Object = NULL
	for _, stmt := range block.Statements {
		result = e.eval(stmt, env)
		if isSignal(result) {
			return result
		}
	}
	return result
}

func (e *Evaluator) VisitBlockStatement(n *ast.BlockStatement) {
	e.result = e.evalBlock(n, NewEnclosedEnvironment(e.env))
}

func (e *Evaluator) VisitLetStatement(n *ast.LetStatement) {
	var val Object = NULL
	if n.Value != nil {
		val = e.eval(n.Value, e.env)
		if isError(val) {
			e.result = val
			return
		}
	}
	e.env.Define(n.Name.Value, val, n.Const)
	e.result = NULL
}

func (e *Evaluator) VisitAssignStatement(n *ast.AssignStatement) {
	val := e.eval(n.Value, e.env)
	if isError(val) {
		e.result = val
		return
	}
	if diag := e.env.Set(n.Name.Value, val); diag != nil {
		e.result = &Error{Diag: diag}
		return
	}
	e.result = NULL
}

func (e *Evaluator) VisitFunctionStatement(n *ast.FunctionStatement) {
	fn := &Function{
		Name:       n.Name.Value,
		Parameters: n.Parameters,
		Body:       n.Body,
		Env:        e.env,
	}
	e.env.Define(n.Name.Value, fn, false)
	e.result = NULL
}

func (e *Evaluator) VisitReturnStatement(n *ast.ReturnStatement) {
	var val Object = NULL
	if n.Value != nil {
		val = e.eval(n.Value, e.env)
		if isError(val) {
			e.result = val
			return
		}
	}
	e.result = &ReturnValue{Value: val}
}

func (e *Evaluator) VisitBreakStatement(n *ast.BreakStatement) {
	e.result = &BreakSignal{}
}

func (e *Evaluator) VisitContinueStatement(n *ast.ContinueStatement) {
	e.result = &ContinueSignal{}
}

func (e *Evaluator) VisitIfStatement(n *ast.IfStatement) {
	cond := e.eval(n.Condition, e.env)
	if isError(cond) {
		e.result = cond
		return
	}
	if isTruthy(cond) {
		e.result = e.evalBlock(n.Consequence, NewEnclosedEnvironment(e.env))
		return
	}
	if n.Alternative != nil {
		e.result = e.eval(n.Alternative, e.env)
		return
	}
	e.result = NULL
}

func (e *Evaluator) VisitWhileStatement(n *ast.WhileStatement) {
	for {
		cond := e.eval(n.Condition, e.env)
		if isError(cond) {
			e.result = cond
			return
		}
		if !isTruthy(cond) {
			break
		}

		res := e.evalBlock(n.Body, NewEnclosedEnvironment(e.env))
		switch res.(type) {
		case *BreakSignal:
			e.result = NULL
			return
		case *ContinueSignal:
			continue
		case *ReturnValue, *Error:
			e.result = res
			return
		}
	}
	e.result = NULL
}

func (e *Evaluator) VisitForStatement(n *ast.ForStatement) {
	iterable := e.eval(n.Iterable, e.env)
	if isError(iterable) {
		e.result = iterable
		return
	}

	runBody := func(item Object) Object {
		iterEnv := NewEnclosedEnvironment(e.env)
		iterEnv.Define(n.Item.Value, item, false)
		return e.evalBlock(n.Body, iterEnv)
	}

	step := func(item Object) (done bool) {
		res := runBody(item)
		switch res.(type) {
		case *BreakSignal:
			e.result = NULL
			return true
		case *ReturnValue, *Error:
			e.result = res
			return true
		}
		return false
	}

	switch it := iterable.(type) {
	case *Range:
		for i := it.Start; i < it.End; i++ {
			if e.steps++; e.steps&(budgetCheckInterval-1) == 0 {
				if err := e.checkBudget(); err != nil {
					e.result = err
					return
				}
			}
			if step(&Integer{Value: i}) {
				return
			}
		}
	case *Array:
		for _, el := range it.Elements {
			if step(el) {
				return
			}
		}
	case *String:
		for _, r := range it.Value {
			if step(&String{Value: string(r)}) {
				return
			}
		}
	default:
		e.result = newError(diagnostics.ErrR005, "cannot iterate over %s", iterable.Type())
		return
	}
	e.result = NULL
}

func (e *Evaluator) VisitExpressionStatement(n *ast.ExpressionStatement) {
	e.result = e.eval(n.Expression, e.env)
}

func (e *Evaluator) VisitStructStatement(n *ast.StructStatement) {
	e.env.Define(n.Name.Value, &StructType{Name: n.Name.Value, Fields: n.Fields}, false)
	e.result = NULL
}

func (e *Evaluator) VisitImportStatement(n *ast.ImportStatement) {
	if e.ModuleLoader == nil {
		e.result = newError(diagnostics.ErrR007, "cannot import %q: no module loader configured", n.Path)
		return
	}
	mod, err := e.ModuleLoader(n.Path)
	if err != nil {
		e.result = newError(diagnostics.ErrR007, "import %q failed: %v", n.Path, err)
		return
	}

	if n.Items == nil {
		e.env.Define(moduleBindingName(n.Path), mod, false)
		e.result = NULL
		return
	}
	for _, item := range n.Items {
		val, ok := mod.Members[item]
		if !ok {
			e.result = &Error{Diag: diagnostics.NewNameError(
				diagnostics.ErrN001, "module %q has no member %q", n.Path, item)}
			return
		}
		e.env.Define(item, val, false)
	}
	e.result = NULL
}

// moduleBindingName derives the namespace binding from the import path:
// the final path segment.
func moduleBindingName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

func (e *Evaluator) VisitIdentifier(n *ast.Identifier) {
	if val, ok := e.env.Get(n.Value); ok {
		e.result = val
		return
	}
	if builtin, ok := e.builtins[n.Value]; ok {
		e.result = builtin
		return
	}
	e.result = &Error{Diag: diagnostics.NewNameError(diagnostics.ErrN001, "undefined variable %q", n.Value)}
}

func (e *Evaluator) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	e.result = &Integer{Value: n.Value}
}

func (e *Evaluator) VisitFloatLiteral(n *ast.FloatLiteral) {
	e.result = &Float{Value: n.Value}
}

func (e *Evaluator) VisitStringLiteral(n *ast.StringLiteral) {
	e.result = &String{Value: n.Value}
}

func (e *Evaluator) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	e.result = nativeBool(n.Value)
}

func (e *Evaluator) VisitNullLiteral(n *ast.NullLiteral) {
	e.result = NULL
}

func (e *Evaluator) VisitArrayLiteral(n *ast.ArrayLiteral) {
	elements := make([]Object, 0, len(n.Elements))
	for _, el := range n.Elements {
		val := e.eval(el, e.env)
		if isError(val) {
			e.result = val
			return
		}
		elements = append(elements, val)
	}
	e.result = &Array{Elements: elements}
}
