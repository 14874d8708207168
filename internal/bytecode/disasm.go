package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/nexuslang/nexus/internal/diagnostics"
)

// Instruction is one decoded opcode with its operand values.
type Instruction struct {
	Offset   int
	Op       Opcode
	Operands []int
}

// Disassemble decodes an artifact's code section into instructions.
//
// Two operand width classes exist. Wide operands (jump offsets, inline
// body lengths) are always four little-endian bytes. Every other operand
// was written value-dependently: one byte under 256, four bytes above,
// with nothing in the stream recording the choice. The decoder assumes
// the one-byte form for those, so artifacts whose constant pool or symbol
// table exceeds 256 entries are rejected outright; their index operands
// would be ambiguous. Reserved tensor opcodes (0x90-0xA4) and unknown
// bytes fail decoding.
func Disassemble(a *Artifact) ([]Instruction, error) {
	if len(a.Constants) > 256 || len(a.Symbols) > 256 {
		return nil, diagnostics.NewBinaryError(diagnostics.ErrB004,
			"ambiguous operand widths: %d constants, %d symbols", len(a.Constants), len(a.Symbols))
	}

	var out []Instruction
	r := &codeReader{code: a.Code}

	for !r.done() {
		offset := r.pos
		op := Opcode(r.code[r.pos])
		r.pos++

		if op.IsReserved() {
			return nil, diagnostics.NewBinaryError(diagnostics.ErrB004,
				"reserved tensor opcode 0x%02x at offset %d", byte(op), offset)
		}
		if !validOpcode(op) {
			return nil, diagnostics.NewBinaryError(diagnostics.ErrB004,
				"unknown opcode 0x%02x at offset %d", byte(op), offset)
		}

		fixed := operandCounts[op]
		operands := make([]int, 0, fixed)
		for i := 0; i < fixed; i++ {
			v, diag := r.operand(operandIsWide(op, i))
			if diag != nil {
				return nil, diag
			}
			operands = append(operands, v)
		}

		// Instance-dependent trailing operands.
		switch op {
		case OpMakeFunction:
			// operands so far: name symbol, param count. Read the
			// parameter symbols, then the wide body length.
			for i := 0; i < operands[1]; i++ {
				v, diag := r.operand(false)
				if diag != nil {
					return nil, diag
				}
				operands = append(operands, v)
			}
			bodyLen, diag := r.operand(true)
			if diag != nil {
				return nil, diag
			}
			operands = append(operands, bodyLen)
		case OpPersonality:
			for i := 0; i < operands[0]*2; i++ {
				v, diag := r.operand(false)
				if diag != nil {
					return nil, diag
				}
				operands = append(operands, v)
			}
		}

		out = append(out, Instruction{Offset: offset, Op: op, Operands: operands})
	}
	return out, nil
}

type codeReader struct {
	code []byte
	pos  int
}

func (r *codeReader) done() bool { return r.pos >= len(r.code) }

// operand reads one operand: four little-endian bytes for the wide class,
// one byte otherwise.
func (r *codeReader) operand(wide bool) (int, *diagnostics.Diagnostic) {
	if wide {
		if r.pos+4 > len(r.code) {
			return 0, truncated("code section")
		}
		v := int(binary.LittleEndian.Uint32(r.code[r.pos:]))
		r.pos += 4
		return v, nil
	}
	if r.pos >= len(r.code) {
		return 0, truncated("code section")
	}
	v := int(r.code[r.pos])
	r.pos++
	return v, nil
}

// DisassembleText renders the code section as one instruction per line,
// resolving constant and symbol operands against the artifact's tables.
func DisassembleText(a *Artifact) (string, error) {
	instrs, err := Disassemble(a)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, ins := range instrs {
		fmt.Fprintf(&b, "%04d  %-14s", ins.Offset, ins.Op.String())
		for i, operand := range ins.Operands {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, " %d", operand)
		}
		if note := operandNote(a, ins); note != "" {
			fmt.Fprintf(&b, "  ; %s", note)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func operandNote(a *Artifact, ins Instruction) string {
	if len(ins.Operands) == 0 {
		return ""
	}
	idx := ins.Operands[0]
	switch ins.Op {
	case OpLoadInt, OpLoadFloat, OpLoadString:
		if idx < len(a.Constants) {
			return fmt.Sprintf("%#v", a.Constants[idx])
		}
	case OpLoadName, OpStoreName, OpDefineName, OpMember, OpMakeFunction:
		if idx < len(a.Symbols) {
			return a.Symbols[idx].Name
		}
	}
	return ""
}
