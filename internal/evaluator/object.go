package evaluator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
)

type ObjectType string

const (
	INTEGER_OBJ         = "INTEGER"
	FLOAT_OBJ           = "FLOAT"
	STRING_OBJ          = "STRING"
	BOOLEAN_OBJ         = "BOOLEAN"
	NULL_OBJ            = "NULL"
	ARRAY_OBJ           = "ARRAY"
	RANGE_OBJ           = "RANGE"
	FUNCTION_OBJ        = "FUNCTION"
	BUILTIN_OBJ         = "BUILTIN"
	STRUCT_TYPE_OBJ     = "STRUCT_TYPE"
	STRUCT_INSTANCE_OBJ = "STRUCT_INSTANCE"
	MODULE_OBJ          = "MODULE"
	PERSONALITY_OBJ     = "PERSONALITY"
	ERROR_OBJ           = "ERROR"
	RETURN_VALUE_OBJ    = "RETURN_VALUE"
	BREAK_SIGNAL_OBJ    = "BREAK_SIGNAL"
	CONTINUE_SIGNAL_OBJ = "CONTINUE_SIGNAL"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

// Shared singletons. Boolean and null values are compared by pointer
// throughout the evaluator.
var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type Integer struct {
	Value int64
}

func (o *Integer) Type() ObjectType { return INTEGER_OBJ }
func (o *Integer) Inspect() string  { return fmt.Sprintf("%d", o.Value) }

type Float struct {
	Value float64
}

func (o *Float) Type() ObjectType { return FLOAT_OBJ }
func (o *Float) Inspect() string  { return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", o.Value), "0"), ".") }

type String struct {
	Value string
}

func (o *String) Type() ObjectType { return STRING_OBJ }
func (o *String) Inspect() string  { return o.Value }

type Boolean struct {
	Value bool
}

func (o *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (o *Boolean) Inspect() string  { return fmt.Sprintf("%t", o.Value) }

type Null struct{}

func (o *Null) Type() ObjectType { return NULL_OBJ }
func (o *Null) Inspect() string  { return "null" }

type Array struct {
	Elements []Object
}

func (o *Array) Type() ObjectType { return ARRAY_OBJ }
func (o *Array) Inspect() string {
	parts := make([]string, len(o.Elements))
	for i, el := range o.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Range is the half-open pair produced by `..`. Only `for` consumes it.
type Range struct {
	Start int64
	End   int64
}

func (o *Range) Type() ObjectType { return RANGE_OBJ }
func (o *Range) Inspect() string  { return fmt.Sprintf("%d..%d", o.Start, o.End) }

// Function pairs a declaration with the environment it was declared in.
// Env is the capture; calls build child scopes under it, never under the
// call site.
type Function struct {
	Name       string
	Parameters []*ast.Parameter
	Body       *ast.BlockStatement
	Env        *Environment
}

func (o *Function) Type() ObjectType { return FUNCTION_OBJ }
func (o *Function) Inspect() string {
	names := make([]string, len(o.Parameters))
	for i, p := range o.Parameters {
		names[i] = p.Name
	}
	return fmt.Sprintf("fn %s(%s)", o.Name, strings.Join(names, ", "))
}

type BuiltinFunction func(e *Evaluator, args ...Object) Object

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (o *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (o *Builtin) Inspect() string  { return "builtin " + o.Name }

// StructType is the value bound by a struct declaration. Calling it
// constructs an instance, binding arguments to fields positionally.
type StructType struct {
	Name   string
	Fields []*ast.Parameter
}

func (o *StructType) Type() ObjectType { return STRUCT_TYPE_OBJ }
func (o *StructType) Inspect() string  { return "struct " + o.Name }

type StructInstance struct {
	TypeName string
	Fields   map[string]Object
	Order    []string
}

func (o *StructInstance) Type() ObjectType { return STRUCT_INSTANCE_OBJ }
func (o *StructInstance) Inspect() string {
	parts := make([]string, len(o.Order))
	for i, name := range o.Order {
		parts[i] = fmt.Sprintf("%s: %s", name, o.Fields[name].Inspect())
	}
	return fmt.Sprintf("%s{%s}", o.TypeName, strings.Join(parts, ", "))
}

// Module is an imported namespace: exported name to value.
type Module struct {
	Path    string
	Members map[string]Object
}

func (o *Module) Type() ObjectType { return MODULE_OBJ }
func (o *Module) Inspect() string  { return fmt.Sprintf("module %q", o.Path) }

// Personality is the evaluated form of a personality block.
type Personality struct {
	Traits map[string]float64
	Order  []string
}

func (o *Personality) Type() ObjectType { return PERSONALITY_OBJ }
func (o *Personality) Inspect() string {
	names := o.Order
	if names == nil {
		names = make([]string, 0, len(o.Traits))
		for name := range o.Traits {
			names = append(names, name)
		}
		sort.Strings(names)
	}
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %g", name, o.Traits[name])
	}
	return "personality{" + strings.Join(parts, ", ") + "}"
}

// Error wraps a Diagnostic as a runtime value so it can propagate through
// the evaluation stack the same way any result does.
type Error struct {
	Diag *diagnostics.Diagnostic
}

func (o *Error) Type() ObjectType { return ERROR_OBJ }
func (o *Error) Inspect() string  { return "error: " + o.Diag.Error() }

// ReturnValue, BreakSignal and ContinueSignal are control-flow carriers.
// They unwind through block evaluation until the construct that owns them
// absorbs them; reaching the top unabsorbed is a runtime error.
type ReturnValue struct {
	Value Object
}

func (o *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (o *ReturnValue) Inspect() string  { return o.Value.Inspect() }

type BreakSignal struct{}

func (o *BreakSignal) Type() ObjectType { return BREAK_SIGNAL_OBJ }
func (o *BreakSignal) Inspect() string  { return "break" }

type ContinueSignal struct{}

func (o *ContinueSignal) Type() ObjectType { return CONTINUE_SIGNAL_OBJ }
func (o *ContinueSignal) Inspect() string  { return "continue" }

func isError(obj Object) bool {
	if obj == nil {
		return false
	}
	return obj.Type() == ERROR_OBJ
}

func isSignal(obj Object) bool {
	if obj == nil {
		return false
	}
	switch obj.Type() {
	case RETURN_VALUE_OBJ, BREAK_SIGNAL_OBJ, CONTINUE_SIGNAL_OBJ, ERROR_OBJ:
		return true
	}
	return false
}

func newError(code string, format string, args ...interface{}) *Error {
	return &Error{Diag: diagnostics.NewRuntimeError(code, format, args...)}
}

func nativeBool(v bool) *Boolean {
	if v {
		return TRUE
	}
	return FALSE
}

// isTruthy follows the language's loose truthiness: false and null are
// falsy, every other value is truthy.
func isTruthy(obj Object) bool {
	switch obj {
	case NULL, FALSE:
		return false
	case TRUE:
		return true
	}
	return true
}
