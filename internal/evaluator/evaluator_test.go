package evaluator

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/nexuslang/nexus/internal/diagnostics"
	"github.com/nexuslang/nexus/internal/parser"
)

func testEval(t *testing.T, input string) Object {
	t.Helper()
	e := New()
	e.Out = &bytes.Buffer{}
	return evalWith(t, e, input)
}

func evalWith(t *testing.T, e *Evaluator, input string) Object {
	t.Helper()
	program, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return e.Eval(program, NewEnvironment())
}

func wantInteger(t *testing.T, obj Object, want int64) {
	t.Helper()
	got, ok := obj.(*Integer)
	if !ok {
		t.Fatalf("expected Integer, got %T (%s)", obj, obj.Inspect())
	}
	if got.Value != want {
		t.Errorf("got %d, want %d", got.Value, want)
	}
}

func wantErrorCode(t *testing.T, obj Object, code string) {
	t.Helper()
	errObj, ok := obj.(*Error)
	if !ok {
		t.Fatalf("expected Error, got %T (%s)", obj, obj.Inspect())
	}
	if errObj.Diag.Code != code {
		t.Errorf("error code: got %s (%s), want %s", errObj.Diag.Code, errObj.Diag.Message, code)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"5", 5},
		{"-5", -5},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"7 / 2", 3},
		{"7 % 3", 1},
		{"10 - 2 - 3", 5},
	}
	for _, tt := range tests {
		wantInteger(t, testEval(t, tt.input), tt.want)
	}
}

func TestFloatPromotion(t *testing.T) {
	res := testEval(t, "1 + 2.5")
	f, ok := res.(*Float)
	if !ok || f.Value != 3.5 {
		t.Fatalf("got %v, want 3.5", res.Inspect())
	}
}

func TestDivisionByZero(t *testing.T) {
	wantErrorCode(t, testEval(t, "1 / 0"), diagnostics.ErrR001)
	wantErrorCode(t, testEval(t, "1.0 / 0.0"), diagnostics.ErrR001)
	wantErrorCode(t, testEval(t, "5 % 0"), diagnostics.ErrR001)
}

func TestBooleansAndComparison(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1 < 2", true},
		{"2 <= 2", true},
		{"1 > 2", false},
		{"1 == 1.0", true},
		{"\"a\" < \"b\"", true},
		{"\"a\" == \"a\"", true},
		{"null == null", true},
		{"1 != 2", true},
		{"!true", false},
		{"!null", true},
	}
	for _, tt := range tests {
		res := testEval(t, tt.input)
		b, ok := res.(*Boolean)
		if !ok {
			t.Fatalf("%q: expected Boolean, got %s", tt.input, res.Inspect())
		}
		if b.Value != tt.want {
			t.Errorf("%q: got %t, want %t", tt.input, b.Value, tt.want)
		}
	}
}

func TestShortCircuit(t *testing.T) {
	// The right side divides by zero; it must not be evaluated.
	res := testEval(t, "false && 1 / 0 == 1")
	if res != FALSE {
		t.Errorf("&& short circuit: got %s", res.Inspect())
	}
	res = testEval(t, "true || 1 / 0 == 1")
	if res != TRUE {
		t.Errorf("|| short circuit: got %s", res.Inspect())
	}
	wantErrorCode(t, testEval(t, "true && 1 / 0 == 1"), diagnostics.ErrR001)
}

func TestLetConstAndAssignment(t *testing.T) {
	wantInteger(t, testEval(t, "let x = 5\nx = x + 1\nx"), 6)
	wantInteger(t, testEval(t, "let x = 5\nx += 3\nx"), 8)
	wantErrorCode(t, testEval(t, "const PI = 3\nPI = 4"), diagnostics.ErrN002)
	wantErrorCode(t, testEval(t, "missing"), diagnostics.ErrN001)
	wantErrorCode(t, testEval(t, "y = 1"), diagnostics.ErrN001)

	// Assignment to a constant declared in an enclosing scope fails too.
	wantErrorCode(t, testEval(t, `
const LIMIT = 10
fn bump() { LIMIT = 11 }
bump()
`), diagnostics.ErrN002)

	// A declaration without an initializer binds null.
	res := testEval(t, "let x\nx")
	if res != NULL {
		t.Errorf("uninitialized let: got %s", res.Inspect())
	}
}

func TestControlFlow(t *testing.T) {
	wantInteger(t, testEval(t, "if 1 < 2 { 10 } else { 20 }"), 10)
	wantInteger(t, testEval(t, "if 1 > 2 { 10 } else if 2 > 1 { 15 } else { 20 }"), 15)

	wantInteger(t, testEval(t, `
let sum = 0
let i = 0
while i < 5 {
    i = i + 1
    if i == 3 { continue }
    sum = sum + i
}
sum
`), 12)

	wantInteger(t, testEval(t, `
let total = 0
for i in 0..10 {
    if i == 5 { break }
    total = total + i
}
total
`), 10)

	wantInteger(t, testEval(t, `
let total = 0
for x in [2, 4, 6] { total = total + x }
total
`), 12)
}

func TestLeakedControlSignals(t *testing.T) {
	wantErrorCode(t, testEval(t, "break"), diagnostics.ErrR003)
	wantErrorCode(t, testEval(t, "continue"), diagnostics.ErrR003)
	wantErrorCode(t, testEval(t, "fn f() { break }\nf()"), diagnostics.ErrR003)
}

func TestFunctionsAndClosures(t *testing.T) {
	wantInteger(t, testEval(t, "fn add(a, b) { return a + b }\nadd(2, 3)"), 5)

	// Missing arguments bind null, extras are ignored.
	res := testEval(t, "fn first(a, b) { return b }\nfirst(1)")
	if res != NULL {
		t.Errorf("missing argument: got %s", res.Inspect())
	}
	wantInteger(t, testEval(t, "fn first(a) { return a }\nfirst(1, 2, 3)"), 1)

	// A function without a return produces null.
	res = testEval(t, "fn noop() { 1 + 1 }\nnoop()")
	if res != NULL {
		t.Errorf("implicit return: got %s", res.Inspect())
	}

	// The counter closure captures its defining environment by reference.
	wantInteger(t, testEval(t, `
fn make_counter() {
    let count = 0
    fn increment() {
        count = count + 1
        return count
    }
    return increment
}
let counter = make_counter()
counter()
counter()
`), 2)

	wantErrorCode(t, testEval(t, "5(1)"), diagnostics.ErrR002)
}

func TestIndexing(t *testing.T) {
	wantInteger(t, testEval(t, "[10, 20, 30][1]"), 20)
	res := testEval(t, `"hello"[1]`)
	if s, ok := res.(*String); !ok || s.Value != "e" {
		t.Errorf("string index: got %s", res.Inspect())
	}
	wantErrorCode(t, testEval(t, "[1][5]"), diagnostics.ErrR007)
	wantErrorCode(t, testEval(t, "[1][-1]"), diagnostics.ErrR007)
	wantErrorCode(t, testEval(t, "5[0]"), diagnostics.ErrR005)
}

func TestBuiltinMethods(t *testing.T) {
	wantInteger(t, testEval(t, "[1, 2, 3].len()"), 3)
	wantInteger(t, testEval(t, `"hello".len()`), 5)
	wantInteger(t, testEval(t, "let a = [1]\na.push(2, 3)\na.len()"), 3)

	res := testEval(t, `"MiXeD".lower()`)
	if s, ok := res.(*String); !ok || s.Value != "mixed" {
		t.Errorf("lower: got %s", res.Inspect())
	}
	res = testEval(t, `"hi".upper()`)
	if s, ok := res.(*String); !ok || s.Value != "HI" {
		t.Errorf("upper: got %s", res.Inspect())
	}

	wantErrorCode(t, testEval(t, "[1].reverse()"), diagnostics.ErrR004)
}

func TestStructs(t *testing.T) {
	wantInteger(t, testEval(t, `
struct Point { x: int, y: int }
let p = Point(3, 4)
p.x + p.y
`), 7)

	// Missing constructor arguments bind null.
	res := testEval(t, "struct Pair { a, b }\nPair(1).b")
	if res != NULL {
		t.Errorf("missing field: got %s", res.Inspect())
	}

	wantErrorCode(t, testEval(t, "struct P { x }\nP(1).y"), diagnostics.ErrR004)
}

func TestScopeIsolation(t *testing.T) {
	// A block-scoped let does not leak outward.
	wantErrorCode(t, testEval(t, "if true { let inner = 1 }\ninner"), diagnostics.ErrN001)

	// Shadowing in a block does not clobber the outer binding.
	wantInteger(t, testEval(t, `
let x = 1
if true { let x = 99 }
x
`), 1)
}

func TestStepBudget(t *testing.T) {
	e := New()
	e.Out = &bytes.Buffer{}
	e.MaxSteps = 10000
	res := evalWith(t, e, "while true { }")
	wantErrorCode(t, res, diagnostics.ErrR006)
}

func TestContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	e := New()
	e.Out = &bytes.Buffer{}
	e.Ctx = ctx

	start := time.Now()
	res := evalWith(t, e, "while true { }")
	elapsed := time.Since(start)

	wantErrorCode(t, res, diagnostics.ErrR006)
	if elapsed > 500*time.Millisecond {
		t.Errorf("cancellation took %v", elapsed)
	}
}
