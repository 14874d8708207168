package bytecode

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
	"github.com/nexuslang/nexus/internal/parser"
)

func compileSource(t *testing.T, source string) *Artifact {
	t.Helper()
	program, err := parser.Parse(source)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	artifact, err := CompileArtifact(program, nil)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	return artifact
}

func wantBinaryError(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	diag, ok := err.(*diagnostics.Diagnostic)
	if !ok {
		t.Fatalf("expected Diagnostic, got %T: %v", err, err)
	}
	if diag.Code != code {
		t.Errorf("error code: got %s (%s), want %s", diag.Code, diag.Message, code)
	}
}

func TestOperandWidthRule(t *testing.T) {
	var buf bytes.Buffer
	emitOperand(&buf, 0)
	emitOperand(&buf, 255)
	if buf.Len() != 2 {
		t.Errorf("values under 256 must take one byte each, got %d bytes", buf.Len())
	}

	buf.Reset()
	emitOperand(&buf, 256)
	got := buf.Bytes()
	if len(got) != 4 {
		t.Fatalf("256 must take four bytes, got %d", len(got))
	}
	// Little-endian.
	if got[0] != 0x00 || got[1] != 0x01 || got[2] != 0x00 || got[3] != 0x00 {
		t.Errorf("256 encoded as % x", got)
	}

	if operandWidth(255) != 1 || operandWidth(256) != 4 {
		t.Error("operandWidth disagrees with emitOperand")
	}

	buf.Reset()
	emitWideOperand(&buf, 3)
	if got := buf.Bytes(); len(got) != 4 || got[0] != 0x03 {
		t.Errorf("wide operands must take four bytes regardless of value, got % x", got)
	}
}

func TestCompileLetStatement(t *testing.T) {
	a := compileSource(t, "let x = 5")

	want := []byte{
		byte(OpLoadInt), 0x00,
		byte(OpDefineName), 0x00, 0x00,
	}
	if !bytes.Equal(a.Code, want) {
		t.Errorf("code: got % x, want % x", a.Code, want)
	}
	if len(a.Constants) != 1 || a.Constants[0] != int64(5) {
		t.Errorf("constants: %#v", a.Constants)
	}
	if len(a.Symbols) != 1 || a.Symbols[0].Name != "x" || a.Symbols[0].ID != 0 {
		t.Errorf("symbols: %#v", a.Symbols)
	}
}

func TestConstantPoolDeduplication(t *testing.T) {
	a := compileSource(t, `
let a = 5
let b = 5
let c = "s"
let d = "s"
let e = 2.5
let f = 2.5
`)
	if len(a.Constants) != 3 {
		t.Errorf("constants not deduplicated: %#v", a.Constants)
	}
}

func TestSymbolIdsAreDenseInFirstReferenceOrder(t *testing.T) {
	a := compileSource(t, "let b = 1\nlet a = 2\nb = a")
	if len(a.Symbols) != 2 {
		t.Fatalf("symbols: %#v", a.Symbols)
	}
	if a.Symbols[0].Name != "b" || a.Symbols[0].ID != 0 {
		t.Errorf("first symbol: %+v", a.Symbols[0])
	}
	if a.Symbols[1].Name != "a" || a.Symbols[1].ID != 1 {
		t.Errorf("second symbol: %+v", a.Symbols[1])
	}
}

func TestRoundTrip(t *testing.T) {
	program, err := parser.Parse(`
fn greet(name) {
    say("hello", emotion="warm")
    return name
}
let result = greet("world")
personality { curiosity: 0.9 }
`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	blob, err := Compile(program, map[string]interface{}{"source": "round_trip.nx"})
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	back, err := Decompile(blob)
	if err != nil {
		t.Fatalf("decompile error: %v", err)
	}

	if back.Header.Version != Version {
		t.Errorf("version: %v", back.Header.Version)
	}
	if int(back.Header.CodeSize) != len(back.Code) {
		t.Errorf("code size field %d, section %d", back.Header.CodeSize, len(back.Code))
	}

	orig, err := CompileArtifact(program, nil)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if !bytes.Equal(back.Code, orig.Code) {
		t.Errorf("code section changed across round trip")
	}
	if len(back.Constants) != len(orig.Constants) {
		t.Fatalf("constants: got %#v, want %#v", back.Constants, orig.Constants)
	}
	for i := range orig.Constants {
		if back.Constants[i] != orig.Constants[i] {
			t.Errorf("constant %d: got %#v, want %#v", i, back.Constants[i], orig.Constants[i])
		}
	}
	if len(back.Symbols) != len(orig.Symbols) {
		t.Fatalf("symbols: got %#v, want %#v", back.Symbols, orig.Symbols)
	}
	for i := range orig.Symbols {
		if back.Symbols[i] != orig.Symbols[i] {
			t.Errorf("symbol %d: got %+v, want %+v", i, back.Symbols[i], orig.Symbols[i])
		}
	}

	meta, err := back.MetadataMap()
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["source"] != "round_trip.nx" {
		t.Errorf("metadata: %#v", meta)
	}

	// Re-serializing the decoded artifact reproduces the original bytes.
	if !bytes.Equal(back.Bytes(), blob) {
		t.Errorf("re-serialized artifact differs from original")
	}
}

func TestDecompileRejectsBadMagic(t *testing.T) {
	blob := compileSource(t, "let x = 1").Bytes()
	blob[0] = 'X'
	_, err := Decompile(blob)
	wantBinaryError(t, err, diagnostics.ErrB001)
}

func TestDecompileRejectsTruncation(t *testing.T) {
	blob := compileSource(t, "let x = 1").Bytes()

	_, err := Decompile(blob[:16])
	wantBinaryError(t, err, diagnostics.ErrB002)

	_, err = Decompile(blob[:HeaderSize+1])
	wantBinaryError(t, err, diagnostics.ErrB002)
}

func TestDecompileRejectsSizeMismatch(t *testing.T) {
	blob := compileSource(t, "let x = 1").Bytes()
	blob = append(blob, 0xAB)
	_, err := Decompile(blob)
	wantBinaryError(t, err, diagnostics.ErrB003)
}

func TestUnsupportedNodesAbortCompilation(t *testing.T) {
	for _, src := range []string{
		"struct Point { x, y }",
		`import "agents/base"`,
	} {
		program, err := parser.Parse(src)
		if err != nil {
			t.Fatalf("parse error: %v", err)
		}
		blob, err := Compile(program, nil)
		wantBinaryError(t, err, diagnostics.ErrB005)
		if blob != nil {
			t.Errorf("%q: partial artifact emitted", src)
		}
	}
}

func TestSayDefaultsInBytecode(t *testing.T) {
	a := compileSource(t, `say("hi")`)

	instrs, err := Disassemble(a)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	ops := make([]Opcode, len(instrs))
	for i, ins := range instrs {
		ops[i] = ins.Op
	}
	want := []Opcode{OpLoadString, OpLoadNull, OpLoadNull, OpLoadFloat, OpSay}
	if len(ops) != len(want) {
		t.Fatalf("ops: %v", ops)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("op %d: got %s, want %s", i, ops[i], want[i])
		}
	}
	// Default speed pools 1.0.
	if a.Constants[instrs[3].Operands[0]] != 1.0 {
		t.Errorf("speed constant: %#v", a.Constants)
	}
}

func TestIfElseJumpLayout(t *testing.T) {
	a := compileSource(t, "if true { let x = 1 } else { let x = 2 }")
	instrs, err := Disassemble(a)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}

	// LOAD_TRUE, JUMP_IF_FALSE, LOAD_INT, DEFINE_NAME, JUMP, LOAD_INT, DEFINE_NAME
	if instrs[1].Op != OpJumpIfFalse {
		t.Fatalf("instrs: %v", instrs)
	}
	jumpTarget := instrs[1].Offset + jumpSize + instrs[1].Operands[0]
	if jumpTarget != instrs[5].Offset {
		t.Errorf("JUMP_IF_FALSE lands at %d, alternative starts at %d", jumpTarget, instrs[5].Offset)
	}
	skip := instrs[4]
	if skip.Op != OpJump {
		t.Fatalf("expected JUMP before alternative, got %s", skip.Op)
	}
	if skip.Offset+jumpSize+skip.Operands[0] != len(a.Code) {
		t.Errorf("JUMP over alternative lands at %d, code ends at %d",
			skip.Offset+jumpSize+skip.Operands[0], len(a.Code))
	}
}

func TestWhileLoopJumpsCloseTheLoop(t *testing.T) {
	a := compileSource(t, "let i = 0\nwhile i < 3 { i = i + 1 }")
	instrs, err := Disassemble(a)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}

	var exit, back *Instruction
	for i := range instrs {
		switch instrs[i].Op {
		case OpJumpIfFalse:
			exit = &instrs[i]
		case OpJumpBack:
			back = &instrs[i]
		}
	}
	if exit == nil || back == nil {
		t.Fatalf("loop jumps missing: %v", instrs)
	}

	endOfLoop := back.Offset + jumpSize
	if exit.Offset+jumpSize+exit.Operands[0] != endOfLoop {
		t.Errorf("exit jump lands at %d, loop ends at %d", exit.Offset+jumpSize+exit.Operands[0], endOfLoop)
	}
	condStart := endOfLoop - back.Operands[0]
	// The condition is the first instruction after the initial let.
	if condStart != instrs[2].Offset {
		t.Errorf("back jump lands at %d, condition starts at %d", condStart, instrs[2].Offset)
	}
}

func TestLargeLoopBodyDisassembles(t *testing.T) {
	// A loop body past 255 bytes forces multi-byte jump offsets.
	var src strings.Builder
	src.WriteString("let i = 0\nwhile i < 3 {\n")
	for j := 0; j < 60; j++ {
		fmt.Fprintf(&src, "i = i + %d\n", j)
	}
	src.WriteString("}")

	a := compileSource(t, src.String())
	instrs, err := Disassemble(a)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}

	var exit, back *Instruction
	for i := range instrs {
		switch instrs[i].Op {
		case OpJumpIfFalse:
			exit = &instrs[i]
		case OpJumpBack:
			back = &instrs[i]
		}
	}
	if exit == nil || back == nil {
		t.Fatalf("loop jumps missing")
	}
	if exit.Operands[0] < 256 {
		t.Fatalf("loop body is only %d bytes, widen the test program", exit.Operands[0])
	}

	endOfLoop := back.Offset + jumpSize
	if exit.Offset+jumpSize+exit.Operands[0] != endOfLoop {
		t.Errorf("exit jump lands at %d, loop ends at %d", exit.Offset+jumpSize+exit.Operands[0], endOfLoop)
	}
	condStart := endOfLoop - back.Operands[0]
	if condStart != instrs[2].Offset {
		t.Errorf("back jump lands at %d, condition starts at %d", condStart, instrs[2].Offset)
	}

	// The serialized form must survive the same decoding.
	restored, err := Decompile(a.Bytes())
	if err != nil {
		t.Fatalf("decompile: %v", err)
	}
	if _, err := Disassemble(restored); err != nil {
		t.Errorf("disassemble after round trip: %v", err)
	}
}

func TestDisassembleRejectsReservedAndUnknownOpcodes(t *testing.T) {
	a := &Artifact{Code: []byte{0x90}}
	_, err := Disassemble(a)
	wantBinaryError(t, err, diagnostics.ErrB004)

	a = &Artifact{Code: []byte{0x0F}}
	_, err = Disassemble(a)
	wantBinaryError(t, err, diagnostics.ErrB004)
}

func TestMakeFunctionOperands(t *testing.T) {
	a := compileSource(t, "fn add(a, b) { return a + b }")
	instrs, err := Disassemble(a)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}

	mk := instrs[0]
	if mk.Op != OpMakeFunction {
		t.Fatalf("first op: %s", mk.Op)
	}
	// name symbol, param count, two param symbols, body length.
	if len(mk.Operands) != 5 {
		t.Fatalf("operands: %v", mk.Operands)
	}
	if mk.Operands[1] != 2 {
		t.Errorf("param count: %d", mk.Operands[1])
	}
	// 1 opcode byte, 4 one-byte operands, 4-byte body length.
	bodyLen := mk.Operands[4]
	if mk.Offset+9+bodyLen != len(a.Code) {
		t.Errorf("body length %d does not reach end of code (%d)", bodyLen, len(a.Code))
	}
}

func TestVoiceBlockIsTransparent(t *testing.T) {
	withVoice := compileSource(t, "voice { say(\"a\") }")
	bare := compileSource(t, "say(\"a\")")
	if !bytes.Equal(withVoice.Code, bare.Code) {
		t.Errorf("voice framing leaked into bytecode: % x vs % x", withVoice.Code, bare.Code)
	}
}

func TestPersonalityOperands(t *testing.T) {
	a := compileSource(t, "personality { curiosity: 0.9, humor: 0.4 }")
	instrs, err := Disassemble(a)
	if err != nil {
		t.Fatalf("disassemble: %v", err)
	}
	p := instrs[0]
	if p.Op != OpPersonality {
		t.Fatalf("first op: %s", p.Op)
	}
	// trait count + (symbol, constant) per trait.
	if len(p.Operands) != 5 || p.Operands[0] != 2 {
		t.Fatalf("operands: %v", p.Operands)
	}
	if a.Constants[p.Operands[2]] != 0.9 || a.Constants[p.Operands[4]] != 0.4 {
		t.Errorf("trait constants: %#v", a.Constants)
	}
}

var _ ast.Visitor = (*Compiler)(nil)
