package bytecode

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/nexuslang/nexus/internal/ast"
	"github.com/nexuslang/nexus/internal/diagnostics"
)

// Compiler emits the opcode stream via a single depth-first visit. It
// implements ast.Visitor, so a node variant without an emission rule does
// not compile. The first error aborts the whole compilation; no partial
// artifact is ever produced.
type Compiler struct {
	code      *bytes.Buffer
	constants []interface{}
	constIdx  map[interface{}]int
	symbols   []Symbol
	symIdx    map[string]int
	err       *diagnostics.Diagnostic
}

func NewCompiler() *Compiler {
	return &Compiler{
		code:     &bytes.Buffer{},
		constIdx: make(map[interface{}]int),
		symIdx:   make(map[string]int),
	}
}

// Compile builds a serialized artifact from a program. Metadata is
// marshaled to JSON and stored verbatim in the trailing section.
func Compile(program *ast.Program, metadata map[string]interface{}) ([]byte, error) {
	artifact, err := CompileArtifact(program, metadata)
	if err != nil {
		return nil, err
	}
	return artifact.Bytes(), nil
}

// CompileArtifact is Compile without the final serialization, for callers
// that want the structured form.
func CompileArtifact(program *ast.Program, metadata map[string]interface{}) (*Artifact, error) {
	c := NewCompiler()
	program.Accept(c)
	if c.err != nil {
		return nil, c.err
	}

	var meta []byte
	if metadata != nil {
		var err error
		meta, err = json.Marshal(metadata)
		if err != nil {
			return nil, diagnostics.NewBinaryError(diagnostics.ErrB002, "metadata not serializable: %v", err)
		}
	}

	return &Artifact{
		Header: Header{
			Version:   Version,
			Timestamp: uint64(time.Now().Unix()),
		},
		Code:      c.code.Bytes(),
		Constants: c.constants,
		Symbols:   c.symbols,
		Metadata:  meta,
	}, nil
}

func (c *Compiler) fail(code string, format string, args ...interface{}) {
	if c.err == nil {
		c.err = diagnostics.NewBinaryError(code, format, args...)
	}
}

func (c *Compiler) emit(op Opcode, operands ...int) {
	if c.err != nil {
		return
	}
	c.code.WriteByte(byte(op))
	for i, operand := range operands {
		if operandIsWide(op, i) {
			emitWideOperand(c.code, operand)
		} else {
			emitOperand(c.code, operand)
		}
	}
}

// addConstant pools a value, reusing the index of an equal existing entry.
func (c *Compiler) addConstant(v interface{}) int {
	if idx, ok := c.constIdx[v]; ok {
		return idx
	}
	idx := len(c.constants)
	c.constants = append(c.constants, v)
	c.constIdx[v] = idx
	return idx
}

// symbolID interns a name, assigning dense ids from 0 in first-reference
// order.
func (c *Compiler) symbolID(name string) int {
	if id, ok := c.symIdx[name]; ok {
		return id
	}
	id := len(c.symbols)
	c.symbols = append(c.symbols, Symbol{ID: uint32(id), Name: name})
	c.symIdx[name] = id
	return id
}

func (c *Compiler) compile(node ast.Node) {
	if c.err != nil || node == nil {
		return
	}
	node.Accept(c)
}

// compileInto runs fn with a fresh code buffer and returns what it
// emitted. Constant and symbol pools are shared with the outer stream.
func (c *Compiler) compileInto(fn func()) []byte {
	saved := c.code
	c.code = &bytes.Buffer{}
	fn()
	out := c.code.Bytes()
	c.code = saved
	return out
}

// compileNullable emits the expression, or LOAD_NULL when absent.
func (c *Compiler) compileNullable(expr ast.Expression) {
	if expr == nil {
		c.emit(OpLoadNull)
		return
	}
	c.compile(expr)
}

func (c *Compiler) VisitProgram(n *ast.Program) {
	for _, stmt := range n.Statements {
		c.compile(stmt)
	}
}

func (c *Compiler) VisitLetStatement(n *ast.LetStatement) {
	c.compileNullable(n.Value)
	constFlag := 0
	if n.Const {
		constFlag = 1
	}
	c.emit(OpDefineName, c.symbolID(n.Name.Value), constFlag)
}

func (c *Compiler) VisitAssignStatement(n *ast.AssignStatement) {
	c.compile(n.Value)
	c.emit(OpStoreName, c.symbolID(n.Name.Value))
}

func (c *Compiler) VisitFunctionStatement(n *ast.FunctionStatement) {
	body := c.compileInto(func() {
		for _, stmt := range n.Body.Statements {
			c.compile(stmt)
		}
	})
	if c.err != nil {
		return
	}

	operands := make([]int, 0, 2+len(n.Parameters))
	operands = append(operands, c.symbolID(n.Name.Value), len(n.Parameters))
	for _, p := range n.Parameters {
		operands = append(operands, c.symbolID(p.Name))
	}
	c.emit(OpMakeFunction, operands...)
	emitWideOperand(c.code, len(body))
	c.code.Write(body)
}

func (c *Compiler) VisitReturnStatement(n *ast.ReturnStatement) {
	c.compileNullable(n.Value)
	c.emit(OpReturn)
}

func (c *Compiler) VisitBreakStatement(n *ast.BreakStatement) {
	c.emit(OpBreak)
}

func (c *Compiler) VisitContinueStatement(n *ast.ContinueStatement) {
	c.emit(OpContinue)
}

// jumpSize is the byte length of a jump instruction: one opcode byte plus
// a wide four-byte offset operand.
const jumpSize = 5

func (c *Compiler) VisitIfStatement(n *ast.IfStatement) {
	c.compile(n.Condition)

	consequence := c.compileInto(func() {
		for _, stmt := range n.Consequence.Statements {
			c.compile(stmt)
		}
	})
	var alternative []byte
	if n.Alternative != nil {
		alternative = c.compileInto(func() { c.compile(n.Alternative) })
	}
	if c.err != nil {
		return
	}

	if alternative == nil {
		c.emit(OpJumpIfFalse, len(consequence))
		c.code.Write(consequence)
		return
	}

	// The skip over the consequence also clears the trailing jump that
	// hops the alternative.
	c.emit(OpJumpIfFalse, len(consequence)+jumpSize)
	c.code.Write(consequence)
	c.emit(OpJump, len(alternative))
	c.code.Write(alternative)
}

func (c *Compiler) VisitWhileStatement(n *ast.WhileStatement) {
	cond := c.compileInto(func() { c.compile(n.Condition) })
	body := c.compileInto(func() {
		for _, stmt := range n.Body.Statements {
			c.compile(stmt)
		}
	})
	if c.err != nil {
		return
	}

	// The exit jump clears the body and the back jump behind it; the back
	// jump rewinds over the whole loop to the condition.
	c.code.Write(cond)
	c.emit(OpJumpIfFalse, len(body)+jumpSize)
	c.code.Write(body)
	c.emit(OpJumpBack, len(cond)+jumpSize+len(body)+jumpSize)
}

func (c *Compiler) VisitForStatement(n *ast.ForStatement) {
	c.compile(n.Iterable)
	body := c.compileInto(func() {
		for _, stmt := range n.Body.Statements {
			c.compile(stmt)
		}
	})
	if c.err != nil {
		return
	}
	c.emit(OpForEach, c.symbolID(n.Item.Value), len(body))
	c.code.Write(body)
}

func (c *Compiler) VisitBlockStatement(n *ast.BlockStatement) {
	for _, stmt := range n.Statements {
		c.compile(stmt)
	}
}

func (c *Compiler) VisitExpressionStatement(n *ast.ExpressionStatement) {
	c.compile(n.Expression)
}

func (c *Compiler) VisitStructStatement(n *ast.StructStatement) {
	c.fail(diagnostics.ErrB005, "struct declarations are not compilable, interpret %q instead", n.Name.Value)
}

func (c *Compiler) VisitImportStatement(n *ast.ImportStatement) {
	c.fail(diagnostics.ErrB005, "imports are not compilable, interpret %q instead", n.Path)
}

func (c *Compiler) VisitIdentifier(n *ast.Identifier) {
	c.emit(OpLoadName, c.symbolID(n.Value))
}

func (c *Compiler) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	c.emit(OpLoadInt, c.addConstant(n.Value))
}

func (c *Compiler) VisitFloatLiteral(n *ast.FloatLiteral) {
	c.emit(OpLoadFloat, c.addConstant(n.Value))
}

func (c *Compiler) VisitStringLiteral(n *ast.StringLiteral) {
	c.emit(OpLoadString, c.addConstant(n.Value))
}

func (c *Compiler) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	if n.Value {
		c.emit(OpLoadTrue)
	} else {
		c.emit(OpLoadFalse)
	}
}

func (c *Compiler) VisitNullLiteral(n *ast.NullLiteral) {
	c.emit(OpLoadNull)
}

func (c *Compiler) VisitArrayLiteral(n *ast.ArrayLiteral) {
	for _, el := range n.Elements {
		c.compile(el)
	}
	c.emit(OpBuildArray, len(n.Elements))
}

func (c *Compiler) VisitPrefixExpression(n *ast.PrefixExpression) {
	c.compile(n.Right)
	switch n.Operator {
	case "-":
		c.emit(OpNeg)
	case "!":
		c.emit(OpNot)
	default:
		c.fail(diagnostics.ErrB005, "no opcode for prefix operator %q", n.Operator)
	}
}

var infixOpcodes = map[string]Opcode{
	"+":  OpAdd,
	"-":  OpSub,
	"*":  OpMul,
	"/":  OpDiv,
	"%":  OpMod,
	"==": OpEq,
	"!=": OpNotEq,
	"<":  OpLt,
	"<=": OpLte,
	">":  OpGt,
	">=": OpGte,
	"&&": OpAnd,
	"||": OpOr,
	"..": OpRange,
}

func (c *Compiler) VisitInfixExpression(n *ast.InfixExpression) {
	c.compile(n.Left)
	c.compile(n.Right)
	op, ok := infixOpcodes[n.Operator]
	if !ok {
		c.fail(diagnostics.ErrB005, "no opcode for operator %q", n.Operator)
		return
	}
	c.emit(op)
}

func (c *Compiler) VisitCallExpression(n *ast.CallExpression) {
	c.compile(n.Function)
	for _, arg := range n.Arguments {
		c.compile(arg)
	}
	c.emit(OpCall, len(n.Arguments))
}

func (c *Compiler) VisitIndexExpression(n *ast.IndexExpression) {
	c.compile(n.Left)
	c.compile(n.Index)
	c.emit(OpIndex)
}

func (c *Compiler) VisitMemberExpression(n *ast.MemberExpression) {
	c.compile(n.Object)
	c.emit(OpMember, c.symbolID(n.Property))
}

func (c *Compiler) VisitPersonalityBlock(n *ast.PersonalityBlock) {
	operands := make([]int, 0, 1+2*len(n.Traits))
	operands = append(operands, len(n.Traits))
	for _, t := range n.Traits {
		operands = append(operands, c.symbolID(t.Name), c.addConstant(t.Value))
	}
	c.emit(OpPersonality, operands...)
}

// Voice blocks are transparent in bytecode: the statements compile in
// place, the voice framing is an interpreter concern.
func (c *Compiler) VisitVoiceBlock(n *ast.VoiceBlock) {
	for _, stmt := range n.Body.Statements {
		c.compile(stmt)
	}
}

func (c *Compiler) VisitSayStatement(n *ast.SayStatement) {
	c.compile(n.Text)
	c.compileNullable(n.Emotion)
	c.compileNullable(n.VoiceID)
	if n.Speed == nil {
		c.emit(OpLoadFloat, c.addConstant(1.0))
	} else {
		c.compile(n.Speed)
	}
	c.emit(OpSay)
}

func (c *Compiler) VisitListenExpression(n *ast.ListenExpression) {
	c.compileNullable(n.Timeout)
	if n.Language == nil {
		c.emit(OpLoadString, c.addConstant("en"))
	} else {
		c.compile(n.Language)
	}
	c.emit(OpListen)
}

func (c *Compiler) VisitKnowledgeQuery(n *ast.KnowledgeQuery) {
	c.compile(n.Query)
	for _, f := range n.Filters {
		c.emit(OpLoadString, c.addConstant(f.Name))
		c.compile(f.Value)
	}
	c.emit(OpKnowledge, len(n.Filters))
}

func (c *Compiler) VisitOptimizeSelfStatement(n *ast.OptimizeSelfStatement) {
	c.compile(n.Metric)
	c.compileNullable(n.Target)
	c.compileNullable(n.Strategy)
	c.emit(OpOptimizeSelf)
}

func (c *Compiler) VisitLoadModelExpression(n *ast.LoadModelExpression) {
	c.compile(n.Name)
	c.compileNullable(n.Config)
	c.emit(OpLoadModel)
}

func (c *Compiler) VisitEmotionExpression(n *ast.EmotionExpression) {
	if n.Kind == nil {
		c.emit(OpLoadString, c.addConstant("neutral"))
	} else {
		c.compile(n.Kind)
	}
	if n.Intensity == nil {
		c.emit(OpLoadFloat, c.addConstant(1.0))
	} else {
		c.compile(n.Intensity)
	}
	c.emit(OpEmotion)
}

func (c *Compiler) VisitConfidenceExpression(n *ast.ConfidenceExpression) {
	c.compileNullable(n.Value)
	c.compileNullable(n.Threshold)
	c.emit(OpConfidence)
}
