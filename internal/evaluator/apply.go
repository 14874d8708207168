package evaluator

import (
	"strings"

	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
)

func (e *Evaluator) VisitCallExpression(n *ast.CallExpression) {
	callee := e.eval(n.Function, e.env)
	if isError(callee) {
		e.result = callee
		return
	}

	args := make([]Object, 0, len(n.Arguments))
	for _, arg := range n.Arguments {
		val := e.eval(arg, e.env)
		if isError(val) {
			e.result = val
			return
		}
		args = append(args, val)
	}

	e.result = e.apply(callee, args)
}

func (e *Evaluator) apply(callee Object, args []Object) Object {
	switch fn := callee.(type) {
	case *Function:
		return e.applyFunction(fn, args)
	case *Builtin:
		return fn.Fn(e, args...)
	case *StructType:
		return instantiateStruct(fn, args)
	}
	return newError(diagnostics.ErrR002, "cannot call %s as a function", callee.Type())
}

// applyFunction runs a user function in a fresh scope rooted at the
// closure's defining environment, never the call site. Parameters bind
// positionally: missing arguments become null, extras are ignored.
func (e *Evaluator) applyFunction(fn *Function, args []Object) Object {
	callEnv := NewEnclosedEnvironment(fn.Env)
	for i, param := range fn.Parameters {
		if i < len(args) {
			callEnv.Define(param.Name, args[i], false)
		} else {
			callEnv.Define(param.Name, NULL, false)
		}
	}

	res := e.evalBlock(fn.Body, callEnv)
	switch r := res.(type) {
	case *ReturnValue:
		return r.Value
	case *BreakSignal, *ContinueSignal:
		return newError(diagnostics.ErrR003, "%s outside of a loop", res.Inspect())
	case *Error:
		return r
	}
	return NULL
}

func instantiateStruct(st *StructType, args []Object) Object {
	inst := &StructInstance{
		TypeName: st.Name,
		Fields:   make(map[string]Object, len(st.Fields)),
		Order:    make([]string, 0, len(st.Fields)),
	}
	for i, field := range st.Fields {
		var val Object = NULL
		if i < len(args) {
			val = args[i]
		}
		inst.Fields[field.Name] = val
		inst.Order = append(inst.Order, field.Name)
	}
	return inst
}

func (e *Evaluator) VisitIndexExpression(n *ast.IndexExpression) {
	left := e.eval(n.Left, e.env)
	if isError(left) {
		e.result = left
		return
	}
	index := e.eval(n.Index, e.env)
	if isError(index) {
		e.result = index
		return
	}

	idx, ok := index.(*Integer)
	if !ok {
		e.result = newError(diagnostics.ErrR005, "index must be an integer, got %s", index.Type())
		return
	}

	switch target := left.(type) {
	case *Array:
		if idx.Value < 0 || idx.Value >= int64(len(target.Elements)) {
			e.result = newError(diagnostics.ErrR007,
				"index %d out of range for array of length %d", idx.Value, len(target.Elements))
			return
		}
		e.result = target.Elements[idx.Value]
	case *String:
		runes := []rune(target.Value)
		if idx.Value < 0 || idx.Value >= int64(len(runes)) {
			e.result = newError(diagnostics.ErrR007,
				"index %d out of range for string of length %d", idx.Value, len(runes))
			return
		}
		e.result = &String{Value: string(runes[idx.Value])}
	default:
		e.result = newError(diagnostics.ErrR005, "cannot index %s", left.Type())
	}
}

// VisitMemberExpression resolves `object.property`. The fixed builtin
// method table is consulted first, keyed by host value kind; its names
// shadow any same-named attribute on the object. Only after that miss does
// generic attribute lookup run.
func (e *Evaluator) VisitMemberExpression(n *ast.MemberExpression) {
	obj := e.eval(n.Object, e.env)
	if isError(obj) {
		e.result = obj
		return
	}

	if method := builtinMethod(obj, n.Property); method != nil {
		e.result = method
		return
	}

	switch target := obj.(type) {
	case *StructInstance:
		if val, ok := target.Fields[n.Property]; ok {
			e.result = val
			return
		}
		e.result = newError(diagnostics.ErrR004, "%s has no field %q", target.TypeName, n.Property)
	case *Module:
		if val, ok := target.Members[n.Property]; ok {
			e.result = val
			return
		}
		e.result = newError(diagnostics.ErrR004, "module %q has no member %q", target.Path, n.Property)
	case *Personality:
		if val, ok := target.Traits[n.Property]; ok {
			e.result = &Float{Value: val}
			return
		}
		e.result = newError(diagnostics.ErrR004, "personality has no trait %q", n.Property)
	default:
		e.result = newError(diagnostics.ErrR004, "%s has no member %q", obj.Type(), n.Property)
	}
}

// builtinMethod returns a bound builtin for the fixed method table, or nil.
// Array: len, push. String: len, upper, lower.
func builtinMethod(obj Object, name string) *Builtin {
	switch target := obj.(type) {
	case *Array:
		switch name {
		case "len":
			return &Builtin{Name: "len", Fn: func(e *Evaluator, args ...Object) Object {
				return &Integer{Value: int64(len(target.Elements))}
			}}
		case "push":
			return &Builtin{Name: "push", Fn: func(e *Evaluator, args ...Object) Object {
				target.Elements = append(target.Elements, args...)
				return target
			}}
		}
	case *String:
		switch name {
		case "len":
			return &Builtin{Name: "len", Fn: func(e *Evaluator, args ...Object) Object {
				return &Integer{Value: int64(len([]rune(target.Value)))}
			}}
		case "upper":
			return &Builtin{Name: "upper", Fn: func(e *Evaluator, args ...Object) Object {
				return &String{Value: strings.ToUpper(target.Value)}
			}}
		case "lower":
			return &Builtin{Name: "lower", Fn: func(e *Evaluator, args ...Object) Object {
				return &String{Value: strings.ToLower(target.Value)}
			}}
		}
	}
	return nil
}
