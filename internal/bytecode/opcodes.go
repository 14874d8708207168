// Package bytecode is the ahead-of-time compiler for the NXB2 container
// format: a depth-first AST visit emitting a dense opcode stream, a
// value-deduplicated constant pool and a symbol table, serialized behind a
// fixed 32-byte header.
package bytecode

// Opcode is one byte. The catalogue is closed and grouped by category;
// byte values are part of the wire format and never change.
type Opcode byte

const (
	// Literals
	OpLoadInt    Opcode = 0x01 // operand: constant pool index
	OpLoadFloat  Opcode = 0x02 // operand: constant pool index
	OpLoadString Opcode = 0x03 // operand: constant pool index
	OpLoadTrue   Opcode = 0x04
	OpLoadFalse  Opcode = 0x05
	OpLoadNull   Opcode = 0x06

	// Variables
	OpLoadName   Opcode = 0x10 // operand: symbol id
	OpStoreName  Opcode = 0x11 // operand: symbol id
	OpDefineName Opcode = 0x12 // operands: symbol id, const flag

	// Functions
	OpMakeFunction Opcode = 0x20 // operands: name symbol, param count, param symbols..., wide body length; body follows inline
	OpCall         Opcode = 0x21 // operand: argument count
	OpReturn       Opcode = 0x22

	// Control flow
	OpJump        Opcode = 0x30 // operand: wide forward byte offset
	OpJumpIfFalse Opcode = 0x31 // operand: wide forward byte offset
	OpJumpBack    Opcode = 0x32 // operand: wide backward byte offset
	OpBreak       Opcode = 0x33
	OpContinue    Opcode = 0x34
	OpForEach     Opcode = 0x35 // operands: item symbol, wide body length; body follows inline

	// Arithmetic
	OpAdd Opcode = 0x40
	OpSub Opcode = 0x41
	OpMul Opcode = 0x42
	OpDiv Opcode = 0x43
	OpMod Opcode = 0x44
	OpNeg Opcode = 0x45

	// Comparisons
	OpEq    Opcode = 0x50
	OpNotEq Opcode = 0x51
	OpLt    Opcode = 0x52
	OpLte   Opcode = 0x53
	OpGt    Opcode = 0x54
	OpGte   Opcode = 0x55

	// Logical
	OpAnd Opcode = 0x60
	OpOr  Opcode = 0x61
	OpNot Opcode = 0x62

	// Data structures
	OpBuildArray Opcode = 0x70 // operand: element count
	OpIndex      Opcode = 0x71
	OpMember     Opcode = 0x72 // operand: property symbol
	OpRange      Opcode = 0x73

	// AI-native
	OpPersonality  Opcode = 0x80 // operands: trait count, then name symbol + float constant index per trait
	OpSay          Opcode = 0x81 // pops text, emotion, voice_id, speed
	OpListen       Opcode = 0x82 // pops timeout, language
	OpKnowledge    Opcode = 0x83 // operand: filter count; pops query, then name/value per filter
	OpOptimizeSelf Opcode = 0x84 // pops metric, target, strategy
	OpLoadModel    Opcode = 0x85 // pops name, config
	OpEmotion      Opcode = 0x86 // pops type, intensity
	OpConfidence   Opcode = 0x87 // pops value, threshold

	// Tensor/NN block 0x90-0xA4 is reserved. No visitor emits these and
	// the disassembler rejects them.
	OpTensorReservedLo Opcode = 0x90
	OpTensorReservedHi Opcode = 0xA4

	OpNop Opcode = 0xFF
)

// operandCounts maps each opcode to its fixed operand count. Opcodes with
// instance-dependent extra operands (OpMakeFunction parameter symbols,
// OpPersonality trait pairs) list only the leading fixed operands; the
// disassembler derives the rest from those counts.
var operandCounts = map[Opcode]int{
	OpLoadInt:    1,
	OpLoadFloat:  1,
	OpLoadString: 1,
	OpLoadTrue:   0,
	OpLoadFalse:  0,
	OpLoadNull:   0,

	OpLoadName:   1,
	OpStoreName:  1,
	OpDefineName: 2,

	OpMakeFunction: 2,
	OpCall:         1,
	OpReturn:       0,

	OpJump:        1,
	OpJumpIfFalse: 1,
	OpJumpBack:    1,
	OpBreak:       0,
	OpContinue:    0,
	OpForEach:     2,

	OpAdd: 0, OpSub: 0, OpMul: 0, OpDiv: 0, OpMod: 0, OpNeg: 0,
	OpEq: 0, OpNotEq: 0, OpLt: 0, OpLte: 0, OpGt: 0, OpGte: 0,
	OpAnd: 0, OpOr: 0, OpNot: 0,

	OpBuildArray: 1,
	OpIndex:      0,
	OpMember:     1,
	OpRange:      0,

	OpPersonality:  1,
	OpSay:          0,
	OpListen:       0,
	OpKnowledge:    1,
	OpOptimizeSelf: 0,
	OpLoadModel:    0,
	OpEmotion:      0,
	OpConfidence:   0,

	OpNop: 0,
}

// operandIsWide reports whether operand i of op belongs to the wide width
// class: byte offsets and inline body lengths, always four little-endian
// bytes. These grow with the size of the enclosed code, so their width
// cannot depend on the value the way pool index operands' does.
// OpMakeFunction's trailing body length is wide too, but it sits after a
// variable number of parameter symbols; the compiler and disassembler
// handle it at the point it is written and read.
func operandIsWide(op Opcode, i int) bool {
	switch op {
	case OpJump, OpJumpIfFalse, OpJumpBack:
		return i == 0
	case OpForEach:
		return i == 1
	}
	return false
}

var opcodeNames = map[Opcode]string{
	OpLoadInt:    "LOAD_INT",
	OpLoadFloat:  "LOAD_FLOAT",
	OpLoadString: "LOAD_STRING",
	OpLoadTrue:   "LOAD_TRUE",
	OpLoadFalse:  "LOAD_FALSE",
	OpLoadNull:   "LOAD_NULL",

	OpLoadName:   "LOAD_NAME",
	OpStoreName:  "STORE_NAME",
	OpDefineName: "DEFINE_NAME",

	OpMakeFunction: "MAKE_FUNCTION",
	OpCall:         "CALL",
	OpReturn:       "RETURN",

	OpJump:        "JUMP",
	OpJumpIfFalse: "JUMP_IF_FALSE",
	OpJumpBack:    "JUMP_BACK",
	OpBreak:       "BREAK",
	OpContinue:    "CONTINUE",
	OpForEach:     "FOR_EACH",

	OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD", OpNeg: "NEG",
	OpEq: "EQ", OpNotEq: "NOT_EQ", OpLt: "LT", OpLte: "LTE", OpGt: "GT", OpGte: "GTE",
	OpAnd: "AND", OpOr: "OR", OpNot: "NOT",

	OpBuildArray: "BUILD_ARRAY",
	OpIndex:      "INDEX",
	OpMember:     "MEMBER",
	OpRange:      "RANGE",

	OpPersonality:  "PERSONALITY",
	OpSay:          "SAY",
	OpListen:       "LISTEN",
	OpKnowledge:    "KNOWLEDGE",
	OpOptimizeSelf: "OPTIMIZE_SELF",
	OpLoadModel:    "LOAD_MODEL",
	OpEmotion:      "EMOTION",
	OpConfidence:   "CONFIDENCE",

	OpNop: "NOP",
}

func (op Opcode) String() string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	if op.IsReserved() {
		return "RESERVED_TENSOR"
	}
	return "UNKNOWN"
}

// IsReserved reports whether op lies in the declared-but-unimplemented
// tensor/NN block.
func (op Opcode) IsReserved() bool {
	return op >= OpTensorReservedLo && op <= OpTensorReservedHi
}

func validOpcode(op Opcode) bool {
	_, ok := operandCounts[op]
	return ok
}
