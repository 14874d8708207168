package evaluator

import (
	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
)

func (e *Evaluator) VisitPrefixExpression(n *ast.PrefixExpression) {
	right := e.eval(n.Right, e.env)
	if isError(right) {
		e.result = right
		return
	}

	switch n.Operator {
	case "!":
		e.result = nativeBool(!isTruthy(right))
	case "-":
		switch val := right.(type) {
		case *Integer:
			e.result = &Integer{Value: -val.Value}
		case *Float:
			e.result = &Float{Value: -val.Value}
		default:
			e.result = newError(diagnostics.ErrR005, "unknown operator: -%s", right.Type())
		}
	default:
		e.result = newError(diagnostics.ErrR005, "unknown operator: %s%s", n.Operator, right.Type())
	}
}

func (e *Evaluator) VisitInfixExpression(n *ast.InfixExpression) {
	// && and || short-circuit: the right operand is evaluated only when
	// the left does not decide the result.
	if n.Operator == "&&" || n.Operator == "||" {
		left := e.eval(n.Left, e.env)
		if isError(left) {
			e.result = left
			return
		}
		if n.Operator == "&&" && !isTruthy(left) {
			e.result = FALSE
			return
		}
		if n.Operator == "||" && isTruthy(left) {
			e.result = TRUE
			return
		}
		right := e.eval(n.Right, e.env)
		if isError(right) {
			e.result = right
			return
		}
		e.result = nativeBool(isTruthy(right))
		return
	}

	left := e.eval(n.Left, e.env)
	if isError(left) {
		e.result = left
		return
	}
	right := e.eval(n.Right, e.env)
	if isError(right) {
		e.result = right
		return
	}
	e.result = evalInfix(n.Operator, left, right)
}

func evalInfix(op string, left, right Object) Object {
	switch {
	case op == "..":
		l, lok := left.(*Integer)
		r, rok := right.(*Integer)
		if !lok || !rok {
			return newError(diagnostics.ErrR005, "range bounds must be integers, got %s..%s", left.Type(), right.Type())
		}
		return &Range{Start: l.Value, End: r.Value}

	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return evalIntegerInfix(op, left.(*Integer), right.(*Integer))

	case isNumeric(left) && isNumeric(right):
		return evalFloatInfix(op, toFloat(left), toFloat(right))

	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return evalStringInfix(op, left.(*String), right.(*String))

	case op == "==":
		return nativeBool(objectsEqual(left, right))
	case op == "!=":
		return nativeBool(!objectsEqual(left, right))
	}
	return newError(diagnostics.ErrR005, "unknown operator: %s %s %s", left.Type(), op, right.Type())
}

func evalIntegerInfix(op string, left, right *Integer) Object {
	switch op {
	case "+":
		return &Integer{Value: left.Value + right.Value}
	case "-":
		return &Integer{Value: left.Value - right.Value}
	case "*":
		return &Integer{Value: left.Value * right.Value}
	case "/":
		if right.Value == 0 {
			return newError(diagnostics.ErrR001, "division by zero")
		}
		return &Integer{Value: left.Value / right.Value}
	case "%":
		if right.Value == 0 {
			return newError(diagnostics.ErrR001, "division by zero")
		}
		return &Integer{Value: left.Value % right.Value}
	case "<":
		return nativeBool(left.Value < right.Value)
	case "<=":
		return nativeBool(left.Value <= right.Value)
	case ">":
		return nativeBool(left.Value > right.Value)
	case ">=":
		return nativeBool(left.Value >= right.Value)
	case "==":
		return nativeBool(left.Value == right.Value)
	case "!=":
		return nativeBool(left.Value != right.Value)
	}
	return newError(diagnostics.ErrR005, "unknown operator: INTEGER %s INTEGER", op)
}

func evalFloatInfix(op string, left, right float64) Object {
	switch op {
	case "+":
		return &Float{Value: left + right}
	case "-":
		return &Float{Value: left - right}
	case "*":
		return &Float{Value: left * right}
	case "/":
		if right == 0 {
			return newError(diagnostics.ErrR001, "division by zero")
		}
		return &Float{Value: left / right}
	case "<":
		return nativeBool(left < right)
	case "<=":
		return nativeBool(left <= right)
	case ">":
		return nativeBool(left > right)
	case ">=":
		return nativeBool(left >= right)
	case "==":
		return nativeBool(left == right)
	case "!=":
		return nativeBool(left != right)
	}
	return newError(diagnostics.ErrR005, "unknown operator: FLOAT %s FLOAT", op)
}

func evalStringInfix(op string, left, right *String) Object {
	switch op {
	case "+":
		return &String{Value: left.Value + right.Value}
	case "<":
		return nativeBool(left.Value < right.Value)
	case "<=":
		return nativeBool(left.Value <= right.Value)
	case ">":
		return nativeBool(left.Value > right.Value)
	case ">=":
		return nativeBool(left.Value >= right.Value)
	case "==":
		return nativeBool(left.Value == right.Value)
	case "!=":
		return nativeBool(left.Value != right.Value)
	}
	return newError(diagnostics.ErrR005, "unknown operator: STRING %s STRING", op)
}

func isNumeric(obj Object) bool {
	return obj.Type() == INTEGER_OBJ || obj.Type() == FLOAT_OBJ
}

func toFloat(obj Object) float64 {
	switch val := obj.(type) {
	case *Integer:
		return float64(val.Value)
	case *Float:
		return val.Value
	}
	return 0
}

// objectsEqual compares values of any type. Mixed-kind comparisons are
// false rather than errors, except numerics which compare by value.
func objectsEqual(left, right Object) bool {
	if isNumeric(left) && isNumeric(right) {
		return toFloat(left) == toFloat(right)
	}
	if left.Type() != right.Type() {
		return false
	}
	switch l := left.(type) {
	case *String:
		return l.Value == right.(*String).Value
	case *Boolean:
		return l.Value == right.(*Boolean).Value
	case *Null:
		return true
	case *Range:
		r := right.(*Range)
		return l.Start == r.Start && l.End == r.End
	}
	return left == right
}
