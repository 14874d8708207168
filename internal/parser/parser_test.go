package parser

import (
	"testing"

	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
	"github.com/nexuslang/nexus/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	p := New(toks)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parser errors: %v", p.Errors()[0])
	}
	return program
}

func parseErrors(t *testing.T, input string) []*diagnostics.Diagnostic {
	t.Helper()
	toks, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	p := New(toks)
	p.ParseProgram()
	return p.Errors()
}

func TestLetStatements(t *testing.T) {
	program := parseProgram(t, "let x = 5\nconst PI = 3.14\nlet name: string = \"nexus\"\nlet empty")

	if len(program.Statements) != 4 {
		t.Fatalf("statement count: got %d, want 4", len(program.Statements))
	}

	first := program.Statements[0].(*ast.LetStatement)
	if first.Name.Value != "x" || first.Const {
		t.Errorf("first statement: name %q const %v", first.Name.Value, first.Const)
	}
	if lit, ok := first.Value.(*ast.IntegerLiteral); !ok || lit.Value != 5 {
		t.Errorf("first initializer: %#v", first.Value)
	}

	second := program.Statements[1].(*ast.LetStatement)
	if !second.Const {
		t.Errorf("const flag not set on PI")
	}
	if lit, ok := second.Value.(*ast.FloatLiteral); !ok || lit.Value != 3.14 {
		t.Errorf("PI initializer: %#v", second.Value)
	}

	third := program.Statements[2].(*ast.LetStatement)
	if third.TypeTag != "string" {
		t.Errorf("type tag: got %q", third.TypeTag)
	}

	fourth := program.Statements[3].(*ast.LetStatement)
	if fourth.Value != nil {
		t.Errorf("declaration without initializer should have nil Value")
	}
}

func TestLetMissingNameReportsPosition(t *testing.T) {
	errs := parseErrors(t, "let = 5")
	if len(errs) == 0 {
		t.Fatal("expected a parse error")
	}
	diag := errs[0]
	if diag.Expected != "IDENT" {
		t.Errorf("expected kind: got %q, want IDENT", diag.Expected)
	}
	if diag.Line != 1 || diag.Column != 5 {
		t.Errorf("position: got %d:%d, want 1:5", diag.Line, diag.Column)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	program := parseProgram(t, "1 + 2 * 3")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	expr := stmt.Expression.(*ast.InfixExpression)
	if expr.Operator != "+" {
		t.Fatalf("top operator: got %q, want +", expr.Operator)
	}
	right := expr.Right.(*ast.InfixExpression)
	if right.Operator != "*" {
		t.Fatalf("nested operator: got %q, want *", right.Operator)
	}

	// Range binds looser than additive: 0..n-1 is 0..(n-1).
	program = parseProgram(t, "0..n-1")
	expr = program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.InfixExpression)
	if expr.Operator != ".." {
		t.Fatalf("top operator: got %q, want ..", expr.Operator)
	}
	if sub, ok := expr.Right.(*ast.InfixExpression); !ok || sub.Operator != "-" {
		t.Fatalf("range end: %#v", expr.Right)
	}

	// Logical or binds loosest.
	program = parseProgram(t, "a == 1 || b < 2 && c")
	expr = program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.InfixExpression)
	if expr.Operator != "||" {
		t.Fatalf("top operator: got %q, want ||", expr.Operator)
	}
}

func TestPostfixChaining(t *testing.T) {
	program := parseProgram(t, "items[0].name.upper()")
	stmt := program.Statements[0].(*ast.ExpressionStatement)

	call, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("outer expression: %#v", stmt.Expression)
	}
	member, ok := call.Function.(*ast.MemberExpression)
	if !ok || member.Property != "upper" {
		t.Fatalf("callee: %#v", call.Function)
	}
	inner, ok := member.Object.(*ast.MemberExpression)
	if !ok || inner.Property != "name" {
		t.Fatalf("inner member: %#v", member.Object)
	}
	if _, ok := inner.Object.(*ast.IndexExpression); !ok {
		t.Fatalf("index base: %#v", inner.Object)
	}
}

func TestAssignmentTargets(t *testing.T) {
	program := parseProgram(t, "x = 5")
	if _, ok := program.Statements[0].(*ast.AssignStatement); !ok {
		t.Fatalf("expected AssignStatement, got %#v", program.Statements[0])
	}

	// Compound assignment desugars to x = x + 2.
	program = parseProgram(t, "x += 2")
	assign := program.Statements[0].(*ast.AssignStatement)
	infix, ok := assign.Value.(*ast.InfixExpression)
	if !ok || infix.Operator != "+" {
		t.Fatalf("desugared value: %#v", assign.Value)
	}
	if id, ok := infix.Left.(*ast.Identifier); !ok || id.Value != "x" {
		t.Fatalf("desugared left: %#v", infix.Left)
	}

	// Index and member targets are rejected.
	for _, input := range []string{"a[0] = 5", "a.b = 5"} {
		errs := parseErrors(t, input)
		if len(errs) == 0 {
			t.Errorf("%q: expected assignment-target error", input)
			continue
		}
		if errs[0].Code != diagnostics.ErrP003 {
			t.Errorf("%q: code got %s, want %s", input, errs[0].Code, diagnostics.ErrP003)
		}
	}
}

func TestFunctionStatement(t *testing.T) {
	program := parseProgram(t, "fn add(a: int, b) -> int { return a + b }")
	fn := program.Statements[0].(*ast.FunctionStatement)
	if fn.Name.Value != "add" {
		t.Errorf("name: got %q", fn.Name.Value)
	}
	if len(fn.Parameters) != 2 {
		t.Fatalf("parameter count: got %d", len(fn.Parameters))
	}
	if fn.Parameters[0].Name != "a" || fn.Parameters[0].TypeTag != "int" {
		t.Errorf("first parameter: %+v", fn.Parameters[0])
	}
	if fn.Parameters[1].TypeTag != "" {
		t.Errorf("second parameter should be untyped")
	}
	if fn.ReturnTag != "int" {
		t.Errorf("return tag: got %q", fn.ReturnTag)
	}
	if len(fn.Body.Statements) != 1 {
		t.Errorf("body statements: got %d", len(fn.Body.Statements))
	}
}

func TestControlFlowStatements(t *testing.T) {
	program := parseProgram(t, `
if x > 0 { say("pos") } else if x < 0 { say("neg") } else { say("zero") }
while running { count = count + 1 }
for i in 0..10 { print(i) }
`)
	if len(program.Statements) != 3 {
		t.Fatalf("statement count: got %d, want 3", len(program.Statements))
	}

	ifStmt := program.Statements[0].(*ast.IfStatement)
	elseIf, ok := ifStmt.Alternative.(*ast.IfStatement)
	if !ok {
		t.Fatalf("alternative: %#v", ifStmt.Alternative)
	}
	if _, ok := elseIf.Alternative.(*ast.BlockStatement); !ok {
		t.Fatalf("final else: %#v", elseIf.Alternative)
	}

	forStmt := program.Statements[2].(*ast.ForStatement)
	if forStmt.Item.Value != "i" {
		t.Errorf("loop variable: got %q", forStmt.Item.Value)
	}
	rng, ok := forStmt.Iterable.(*ast.InfixExpression)
	if !ok || rng.Operator != ".." {
		t.Fatalf("iterable: %#v", forStmt.Iterable)
	}
}

func TestStructAndImport(t *testing.T) {
	program := parseProgram(t, `
struct Agent { name: string, score }
import "agents/util" (helper, format)
import "agents/base"
`)
	st := program.Statements[0].(*ast.StructStatement)
	if st.Name.Value != "Agent" || len(st.Fields) != 2 {
		t.Fatalf("struct: %+v", st)
	}
	if st.Fields[0].TypeTag != "string" || st.Fields[1].TypeTag != "" {
		t.Errorf("field tags: %+v", st.Fields)
	}

	imp := program.Statements[1].(*ast.ImportStatement)
	if imp.Path != "agents/util" || len(imp.Items) != 2 {
		t.Fatalf("import: %+v", imp)
	}
	plain := program.Statements[2].(*ast.ImportStatement)
	if plain.Items != nil {
		t.Errorf("plain import should have nil Items")
	}
}

func TestPersonalityBlock(t *testing.T) {
	program := parseProgram(t, "personality { curiosity: 0.9, humor: 0.4, focus: 1 }")
	pb := program.Statements[0].(*ast.PersonalityBlock)
	if len(pb.Traits) != 3 {
		t.Fatalf("trait count: got %d", len(pb.Traits))
	}
	if v, ok := pb.Trait("curiosity"); !ok || v != 0.9 {
		t.Errorf("curiosity: got %v %v", v, ok)
	}
	if v, _ := pb.Trait("focus"); v != 1.0 {
		t.Errorf("integer-valued trait: got %v", v)
	}
}

func TestPersonalityTraitRangeFailsAtParse(t *testing.T) {
	for _, input := range []string{
		"personality { curiosity: 1.5 }",
		"personality { humor: -0.1 }",
	} {
		errs := parseErrors(t, input)
		if len(errs) == 0 {
			t.Errorf("%q: expected trait range error", input)
			continue
		}
		if errs[0].Code != diagnostics.ErrP002 {
			t.Errorf("%q: code got %s, want %s", input, errs[0].Code, diagnostics.ErrP002)
		}
	}

	// Non-literal values are rejected outright.
	errs := parseErrors(t, "personality { humor: x }")
	if len(errs) == 0 {
		t.Error("expected error for non-literal trait value")
	}
}

func TestSayStatement(t *testing.T) {
	program := parseProgram(t, `say("hi", emotion="happy", speed=1.2)`)
	say := program.Statements[0].(*ast.SayStatement)
	if lit, ok := say.Text.(*ast.StringLiteral); !ok || lit.Value != "hi" {
		t.Fatalf("text: %#v", say.Text)
	}
	if say.Emotion == nil || say.Speed == nil {
		t.Errorf("named args not captured: %+v", say)
	}
	if say.VoiceID != nil {
		t.Errorf("voice_id should be nil when absent")
	}

	errs := parseErrors(t, `say("hi", volume=3)`)
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrP004 {
		t.Errorf("unknown named arg: %v", errs)
	}

	errs = parseErrors(t, `say(emotion="happy")`)
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrP005 {
		t.Errorf("missing text: %v", errs)
	}
}

func TestKeywordNamedArgumentKeys(t *testing.T) {
	// emotion lexes as a keyword, yet it is the canonical say key.
	program := parseProgram(t, `say("hi", emotion="happy")`)
	say := program.Statements[0].(*ast.SayStatement)
	if lit, ok := say.Emotion.(*ast.StringLiteral); !ok || lit.Value != "happy" {
		t.Fatalf("emotion: %#v", say.Emotion)
	}

	// Trait keywords and other reserved words work as knowledge filters.
	program = parseProgram(t, `knowledge("jokes", humor=1, confidence=0.5)`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	kq := stmt.Expression.(*ast.KnowledgeQuery)
	if len(kq.Filters) != 2 || kq.Filters[0].Name != "humor" || kq.Filters[1].Name != "confidence" {
		t.Fatalf("filters: %+v", kq.Filters)
	}

	// A keyword not followed by = is still the construct, not a key.
	program = parseProgram(t, `say("hi", emotion("joy"))`)
	say = program.Statements[0].(*ast.SayStatement)
	if _, ok := say.Text.(*ast.StringLiteral); !ok {
		t.Fatalf("text: %#v", say.Text)
	}
}

func TestKnowledgeQueryFilters(t *testing.T) {
	program := parseProgram(t, `let facts = knowledge("quantum computing", source="arxiv", limit=5)`)
	let := program.Statements[0].(*ast.LetStatement)
	kq := let.Value.(*ast.KnowledgeQuery)
	if len(kq.Filters) != 2 {
		t.Fatalf("filters: %+v", kq.Filters)
	}
	if kq.Filters[0].Name != "source" || kq.Filters[1].Name != "limit" {
		t.Errorf("filter names: %+v", kq.Filters)
	}
}

func TestOptimizeSelfRequiresMetric(t *testing.T) {
	program := parseProgram(t, `optimize_self(metric="accuracy", target=0.95)`)
	opt := program.Statements[0].(*ast.OptimizeSelfStatement)
	if opt.Metric == nil || opt.Target == nil || opt.Strategy != nil {
		t.Errorf("fields: %+v", opt)
	}

	errs := parseErrors(t, `optimize_self(target=0.95)`)
	if len(errs) == 0 || errs[0].Code != diagnostics.ErrP005 {
		t.Errorf("missing metric: %v", errs)
	}
}

func TestVoiceBlockAndListen(t *testing.T) {
	program := parseProgram(t, `
voice {
    say("name?")
    let reply = listen(timeout=5, language="de")
}
`)
	vb := program.Statements[0].(*ast.VoiceBlock)
	if len(vb.Body.Statements) != 2 {
		t.Fatalf("voice body: got %d statements", len(vb.Body.Statements))
	}
	let := vb.Body.Statements[1].(*ast.LetStatement)
	listen := let.Value.(*ast.ListenExpression)
	if listen.Timeout == nil || listen.Language == nil {
		t.Errorf("listen args: %+v", listen)
	}
}

func TestEmotionAndConfidenceExpressions(t *testing.T) {
	program := parseProgram(t, `let e = emotion("joy", intensity=0.8)
let c = confidence(0.7, threshold=0.5)
let m = load_model("sentiment-v2")`)

	e := program.Statements[0].(*ast.LetStatement).Value.(*ast.EmotionExpression)
	if e.Kind == nil || e.Intensity == nil {
		t.Errorf("emotion: %+v", e)
	}
	c := program.Statements[1].(*ast.LetStatement).Value.(*ast.ConfidenceExpression)
	if c.Value == nil || c.Threshold == nil {
		t.Errorf("confidence: %+v", c)
	}
	m := program.Statements[2].(*ast.LetStatement).Value.(*ast.LoadModelExpression)
	if m.Name == nil || m.Config != nil {
		t.Errorf("load_model: %+v", m)
	}
}

func TestMultipleErrorsAreCollected(t *testing.T) {
	errs := parseErrors(t, "let = 1\nlet = 2")
	if len(errs) < 2 {
		t.Fatalf("expected two independent errors, got %d", len(errs))
	}
}
