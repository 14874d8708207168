package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nexuslang/nexus/internal/diagnostics"
)

func TestStdBuiltins(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`len("hello")`, "5"},
		{`len([1, 2])`, "2"},
		{`type(1)`, "integer"},
		{`type(1.5)`, "float"},
		{`type("s")`, "string"},
		{`type(null)`, "null"},
		{`str(42)`, "42"},
		{`str(true)`, "true"},
		{`int("12")`, "12"},
		{`int(3.9)`, "3"},
		{`float(2)`, "2"},
		{`abs(-7)`, "7"},
		{`abs(-1.5)`, "1.5"},
		{`min(3, 1, 2)`, "1"},
		{`max([3, 1, 2])`, "3"},
		{`push([1], 2)[1]`, "2"},
	}
	for _, tt := range tests {
		res := testEval(t, tt.input)
		if isError(res) {
			t.Errorf("%q: %s", tt.input, res.Inspect())
			continue
		}
		if got := res.Inspect(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRangeBuiltin(t *testing.T) {
	wantInteger(t, testEval(t, `
let total = 0
for i in range(4) { total = total + i }
total
`), 6)
	wantInteger(t, testEval(t, `
let total = 0
for i in range(2, 5) { total = total + i }
total
`), 9)
}

func TestKeysBuiltin(t *testing.T) {
	res := testEval(t, `
struct Point { x, y }
keys(Point(1, 2))
`)
	arr, ok := res.(*Array)
	if !ok || len(arr.Elements) != 2 {
		t.Fatalf("keys: got %s", res.Inspect())
	}
	if arr.Elements[0].Inspect() != "x" || arr.Elements[1].Inspect() != "y" {
		t.Errorf("keys order: got %s", res.Inspect())
	}
}

func TestBuiltinErrors(t *testing.T) {
	wantErrorCode(t, testEval(t, `len(1)`), diagnostics.ErrR005)
	wantErrorCode(t, testEval(t, `len()`), diagnostics.ErrR007)
	wantErrorCode(t, testEval(t, `int("abc")`), diagnostics.ErrR005)
	wantErrorCode(t, testEval(t, `abs("x")`), diagnostics.ErrR005)
	wantErrorCode(t, testEval(t, `min()`), diagnostics.ErrR007)
}

func TestPrintBuiltin(t *testing.T) {
	var out bytes.Buffer
	e := New()
	e.Out = &out
	evalWith(t, e, `print("a", 1, [2, 3])`)
	if got := strings.TrimSpace(out.String()); got != "a 1 [2, 3]" {
		t.Errorf("print: got %q", got)
	}
}

func TestUserBindingShadowsBuiltin(t *testing.T) {
	wantInteger(t, testEval(t, "let len = 99\nlen"), 99)
}
