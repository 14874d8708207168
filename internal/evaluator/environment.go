package evaluator

import (
	"sync"

	"github.com/nexuslang/nexus/internal/diagnostics"
)

// Environment is one lexical scope: an insertion-ordered name to value
// mapping, the set of names declared const, and a non-owning reference to
// the enclosing scope. Lookup and assignment walk outward; assignment to a
// constant fails no matter which scope in the chain declared it.
type Environment struct {
	mu     sync.RWMutex
	store  map[string]Object
	order  []string
	consts map[string]bool
	outer  *Environment
}

func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object), consts: make(map[string]bool)}
}

func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

// Define binds a name in this scope, shadowing any outer binding.
// Redeclaring in the same scope overwrites, including the const flag.
func (e *Environment) Define(name string, val Object, isConst bool) Object {
	e.mu.Lock()
	if _, exists := e.store[name]; !exists {
		e.order = append(e.order, name)
	}
	e.store[name] = val
	if isConst {
		e.consts[name] = true
	} else {
		delete(e.consts, name)
	}
	e.mu.Unlock()
	return val
}

func (e *Environment) Get(name string) (Object, bool) {
	e.mu.RLock()
	obj, ok := e.store[name]
	e.mu.RUnlock()
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return obj, ok
}

func (e *Environment) Exists(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Set reassigns an existing binding, walking outward to find it. It fails
// with a NameError if the name is undefined anywhere, or if the scope that
// holds it declared it const.
func (e *Environment) Set(name string, val Object) *diagnostics.Diagnostic {
	e.mu.Lock()
	if _, ok := e.store[name]; ok {
		if e.consts[name] {
			e.mu.Unlock()
			return diagnostics.NewNameError(diagnostics.ErrN002, "cannot reassign constant %q", name)
		}
		e.store[name] = val
		e.mu.Unlock()
		return nil
	}
	e.mu.Unlock()
	if e.outer != nil {
		return e.outer.Set(name, val)
	}
	return diagnostics.NewNameError(diagnostics.ErrN001, "undefined variable %q", name)
}

// Names returns the bindings of this scope only, in declaration order.
func (e *Environment) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}
