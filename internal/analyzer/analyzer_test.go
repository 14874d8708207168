package analyzer

import (
	"strings"
	"testing"
)

func findContaining(list []string, substr string) bool {
	for _, s := range list {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

func TestCleanProgramHasNoFindings(t *testing.T) {
	res := Analyze(`
fn add(a, b) { return a + b }
const total = add(1, 2)
print(total)
`)
	if len(res.Errors) != 0 {
		t.Errorf("errors: %v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("warnings: %v", res.Warnings)
	}
	if len(res.Suggestions) != 0 {
		t.Errorf("suggestions: %v", res.Suggestions)
	}
}

func TestParseErrorsAreCollected(t *testing.T) {
	res := Analyze("let = 5\nlet = 6")
	if len(res.Errors) < 2 {
		t.Errorf("errors: %v", res.Errors)
	}
}

func TestUndefinedVariableWarning(t *testing.T) {
	res := Analyze("print(missing)")
	if !findContaining(res.Warnings, `undefined variable "missing"`) {
		t.Errorf("warnings: %v", res.Warnings)
	}
}

func TestUnusedVariableWarning(t *testing.T) {
	res := Analyze("let unused = 5")
	if !findContaining(res.Warnings, `"unused" is declared but never used`) {
		t.Errorf("warnings: %v", res.Warnings)
	}
}

func TestConstSuggestion(t *testing.T) {
	res := Analyze("let x = 5\nprint(x)")
	if !findContaining(res.Suggestions, "consider const") {
		t.Errorf("suggestions: %v", res.Suggestions)
	}

	// A reassigned variable gets no const suggestion.
	res = Analyze("let x = 5\nx = 6\nprint(x)")
	if findContaining(res.Suggestions, "consider const") {
		t.Errorf("suggestions: %v", res.Suggestions)
	}
}

func TestConstReassignmentWarning(t *testing.T) {
	res := Analyze("const PI = 3\nPI = 4\nprint(PI)")
	if !findContaining(res.Warnings, `assignment to constant "PI"`) {
		t.Errorf("warnings: %v", res.Warnings)
	}
}

func TestDivisionByZeroWarning(t *testing.T) {
	res := Analyze("let x = 1 / 0\nprint(x)")
	if !findContaining(res.Warnings, "division by zero") {
		t.Errorf("warnings: %v", res.Warnings)
	}
	res = Analyze("let x = 1 % 0\nprint(x)")
	if !findContaining(res.Warnings, "division by zero") {
		t.Errorf("warnings: %v", res.Warnings)
	}
}

func TestUnreachableCodeWarning(t *testing.T) {
	res := Analyze(`
fn f() {
    return 1
    print("never")
}
print(f())
`)
	if !findContaining(res.Warnings, "unreachable code") {
		t.Errorf("warnings: %v", res.Warnings)
	}
}

func TestBreakOutsideLoopWarning(t *testing.T) {
	res := Analyze("break")
	if !findContaining(res.Warnings, "break outside of a loop") {
		t.Errorf("warnings: %v", res.Warnings)
	}
}

func TestInfiniteLoopWarning(t *testing.T) {
	res := Analyze("while true { print(1) }")
	if !findContaining(res.Warnings, "never terminates") {
		t.Errorf("warnings: %v", res.Warnings)
	}

	// A break inside satisfies the check.
	res = Analyze("while true { break }")
	if findContaining(res.Warnings, "never terminates") {
		t.Errorf("warnings: %v", res.Warnings)
	}
}

func TestDuplicateTraitWarning(t *testing.T) {
	res := Analyze("personality { humor: 0.5, humor: 0.6 }")
	if !findContaining(res.Warnings, `duplicate trait "humor"`) {
		t.Errorf("warnings: %v", res.Warnings)
	}
}

func TestEmptySayTextSuggestion(t *testing.T) {
	res := Analyze(`say("")`)
	if !findContaining(res.Suggestions, "empty text") {
		t.Errorf("suggestions: %v", res.Suggestions)
	}
}

func TestLoopVariableIsNotFlaggedUnused(t *testing.T) {
	res := Analyze("for i in 0..3 { print(1) }")
	if findContaining(res.Warnings, `"i" is declared`) {
		t.Errorf("warnings: %v", res.Warnings)
	}
}

func TestNegativeIndexWarning(t *testing.T) {
	res := Analyze("let a = [1]\nprint(a[-1])")
	if !findContaining(res.Warnings, "negative index") {
		t.Errorf("warnings: %v", res.Warnings)
	}
}
