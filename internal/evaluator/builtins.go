package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nexuslang/nexus/internal/diagnostics"
)

func registerStdBuiltins(e *Evaluator) {
	e.RegisterBuiltin("print", builtinPrint)
	e.RegisterBuiltin("len", builtinLen)
	e.RegisterBuiltin("type", builtinType)
	e.RegisterBuiltin("str", builtinStr)
	e.RegisterBuiltin("int", builtinInt)
	e.RegisterBuiltin("float", builtinFloat)
	e.RegisterBuiltin("abs", builtinAbs)
	e.RegisterBuiltin("min", builtinMin)
	e.RegisterBuiltin("max", builtinMax)
	e.RegisterBuiltin("range", builtinRange)
	e.RegisterBuiltin("push", builtinPush)
	e.RegisterBuiltin("keys", builtinKeys)
}

func wrongArgs(name string, want string, got int) *Error {
	return newError(diagnostics.ErrR007, "%s expects %s argument(s), got %d", name, want, got)
}

func builtinPrint(e *Evaluator, args ...Object) Object {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.Inspect()
	}
	fmt.Fprintln(e.Out, strings.Join(parts, " "))
	return NULL
}

func builtinLen(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return wrongArgs("len", "1", len(args))
	}
	switch arg := args[0].(type) {
	case *String:
		return &Integer{Value: int64(len([]rune(arg.Value)))}
	case *Array:
		return &Integer{Value: int64(len(arg.Elements))}
	}
	return newError(diagnostics.ErrR005, "len does not support %s", args[0].Type())
}

func builtinType(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return wrongArgs("type", "1", len(args))
	}
	return &String{Value: strings.ToLower(string(args[0].Type()))}
}

func builtinStr(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return wrongArgs("str", "1", len(args))
	}
	return &String{Value: args[0].Inspect()}
}

func builtinInt(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return wrongArgs("int", "1", len(args))
	}
	switch arg := args[0].(type) {
	case *Integer:
		return arg
	case *Float:
		return &Integer{Value: int64(arg.Value)}
	case *Boolean:
		if arg.Value {
			return &Integer{Value: 1}
		}
		return &Integer{Value: 0}
	case *String:
		v, err := strconv.ParseInt(strings.TrimSpace(arg.Value), 10, 64)
		if err != nil {
			return newError(diagnostics.ErrR005, "cannot convert %q to int", arg.Value)
		}
		return &Integer{Value: v}
	}
	return newError(diagnostics.ErrR005, "cannot convert %s to int", args[0].Type())
}

func builtinFloat(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return wrongArgs("float", "1", len(args))
	}
	switch arg := args[0].(type) {
	case *Integer:
		return &Float{Value: float64(arg.Value)}
	case *Float:
		return arg
	case *String:
		v, err := strconv.ParseFloat(strings.TrimSpace(arg.Value), 64)
		if err != nil {
			return newError(diagnostics.ErrR005, "cannot convert %q to float", arg.Value)
		}
		return &Float{Value: v}
	}
	return newError(diagnostics.ErrR005, "cannot convert %s to float", args[0].Type())
}

func builtinAbs(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return wrongArgs("abs", "1", len(args))
	}
	switch arg := args[0].(type) {
	case *Integer:
		if arg.Value < 0 {
			return &Integer{Value: -arg.Value}
		}
		return arg
	case *Float:
		if arg.Value < 0 {
			return &Float{Value: -arg.Value}
		}
		return arg
	}
	return newError(diagnostics.ErrR005, "abs does not support %s", args[0].Type())
}

func builtinMin(e *Evaluator, args ...Object) Object {
	return extremum("min", args, func(a, b float64) bool { return a < b })
}

func builtinMax(e *Evaluator, args ...Object) Object {
	return extremum("max", args, func(a, b float64) bool { return a > b })
}

func extremum(name string, args []Object, better func(a, b float64) bool) Object {
	if len(args) == 1 {
		if arr, ok := args[0].(*Array); ok {
			args = arr.Elements
		}
	}
	if len(args) == 0 {
		return wrongArgs(name, "at least 1", 0)
	}
	best := args[0]
	if !isNumeric(best) {
		return newError(diagnostics.ErrR005, "%s does not support %s", name, best.Type())
	}
	for _, arg := range args[1:] {
		if !isNumeric(arg) {
			return newError(diagnostics.ErrR005, "%s does not support %s", name, arg.Type())
		}
		if better(toFloat(arg), toFloat(best)) {
			best = arg
		}
	}
	return best
}

// builtinRange mirrors the `..` operator for callers that prefer a
// function: range(n) is 0..n, range(a, b) is a..b.
func builtinRange(e *Evaluator, args ...Object) Object {
	switch len(args) {
	case 1:
		end, ok := args[0].(*Integer)
		if !ok {
			return newError(diagnostics.ErrR005, "range bounds must be integers")
		}
		return &Range{Start: 0, End: end.Value}
	case 2:
		start, sok := args[0].(*Integer)
		end, eok := args[1].(*Integer)
		if !sok || !eok {
			return newError(diagnostics.ErrR005, "range bounds must be integers")
		}
		return &Range{Start: start.Value, End: end.Value}
	}
	return wrongArgs("range", "1 or 2", len(args))
}

func builtinPush(e *Evaluator, args ...Object) Object {
	if len(args) < 2 {
		return wrongArgs("push", "at least 2", len(args))
	}
	arr, ok := args[0].(*Array)
	if !ok {
		return newError(diagnostics.ErrR005, "push does not support %s", args[0].Type())
	}
	arr.Elements = append(arr.Elements, args[1:]...)
	return arr
}

// builtinKeys lists the fields of a struct instance or the traits of a
// personality, in declaration order.
func builtinKeys(e *Evaluator, args ...Object) Object {
	if len(args) != 1 {
		return wrongArgs("keys", "1", len(args))
	}
	switch arg := args[0].(type) {
	case *StructInstance:
		out := make([]Object, len(arg.Order))
		for i, name := range arg.Order {
			out[i] = &String{Value: name}
		}
		return &Array{Elements: out}
	case *Personality:
		out := make([]Object, len(arg.Order))
		for i, name := range arg.Order {
			out[i] = &String{Value: name}
		}
		return &Array{Elements: out}
	case *Module:
		out := make([]Object, 0, len(arg.Members))
		for name := range arg.Members {
			out = append(out, &String{Value: name})
		}
		return &Array{Elements: out}
	}
	return newError(diagnostics.ErrR005, "keys does not support %s", args[0].Type())
}
