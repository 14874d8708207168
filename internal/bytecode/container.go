package bytecode

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/nexuslang/nexus/internal/diagnostics"
)

// Magic opens every artifact. HeaderSize is fixed; the three size fields
// must equal the exact byte length of the code, data and symbol sections
// or the decompiler cannot locate section boundaries.
const (
	Magic      = "NXB2"
	HeaderSize = 32
)

// Container format version.
var Version = [3]byte{2, 0, 0}

// Constant pool entry tags.
const (
	tagInt    byte = 0x01
	tagFloat  byte = 0x02
	tagString byte = 0x03
	tagBool   byte = 0x04
	tagNull   byte = 0x05
)

type Header struct {
	Version    [3]byte
	Flags      byte
	Timestamp  uint64
	CodeSize   uint32
	DataSize   uint32
	SymbolSize uint32
	Reserved   uint32
}

// Symbol is one name table entry. Ids are dense from 0 in first-reference
// order.
type Symbol struct {
	ID   uint32
	Name string
}

// Artifact is a compiled unit in its structured form. Constants hold
// int64, float64, string, bool or nil values.
type Artifact struct {
	Header    Header
	Code      []byte
	Constants []interface{}
	Symbols   []Symbol
	Metadata  []byte // raw JSON
}

// emitOperand appends an operand using the value-dependent width rule:
// values under 256 take one byte, larger values take 4 little-endian
// bytes. The stream does not record which width was chosen; decoders
// must track it.
func emitOperand(buf *bytes.Buffer, value int) {
	if value < 256 {
		buf.WriteByte(byte(value))
		return
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(value))
	buf.Write(b[:])
}

// emitWideOperand appends four little-endian bytes regardless of value.
// Jump offsets and inline body lengths use this form; see operandIsWide.
func emitWideOperand(buf *bytes.Buffer, value int) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(value))
	buf.Write(b[:])
}

// operandWidth reports how many bytes emitOperand used for value.
func operandWidth(value int) int {
	if value < 256 {
		return 1
	}
	return 4
}

// Bytes serializes the artifact: 32-byte header, then code, constant
// pool, symbol table and length-prefixed JSON metadata in that order.
func (a *Artifact) Bytes() []byte {
	data := encodeConstants(a.Constants)
	symbols := encodeSymbols(a.Symbols)

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(a.Code) + len(data) + len(symbols) + 4 + len(a.Metadata))

	buf.WriteString(Magic)
	buf.Write(a.Header.Version[:])
	buf.WriteByte(a.Header.Flags)

	var u64 [8]byte
	binary.LittleEndian.PutUint64(u64[:], a.Header.Timestamp)
	buf.Write(u64[:])

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(a.Code)))
	buf.Write(u32[:])
	binary.LittleEndian.PutUint32(u32[:], uint32(len(data)))
	buf.Write(u32[:])
	binary.LittleEndian.PutUint32(u32[:], uint32(len(symbols)))
	buf.Write(u32[:])
	binary.LittleEndian.PutUint32(u32[:], a.Header.Reserved)
	buf.Write(u32[:])

	buf.Write(a.Code)
	buf.Write(data)
	buf.Write(symbols)

	binary.LittleEndian.PutUint32(u32[:], uint32(len(a.Metadata)))
	buf.Write(u32[:])
	buf.Write(a.Metadata)

	return buf.Bytes()
}

func encodeConstants(constants []interface{}) []byte {
	var buf bytes.Buffer
	var u32 [4]byte
	var u64 [8]byte

	for _, c := range constants {
		switch v := c.(type) {
		case int64:
			buf.WriteByte(tagInt)
			binary.LittleEndian.PutUint64(u64[:], uint64(v))
			buf.Write(u64[:])
		case float64:
			buf.WriteByte(tagFloat)
			binary.LittleEndian.PutUint64(u64[:], math.Float64bits(v))
			buf.Write(u64[:])
		case string:
			buf.WriteByte(tagString)
			binary.LittleEndian.PutUint32(u32[:], uint32(len(v)))
			buf.Write(u32[:])
			buf.WriteString(v)
		case bool:
			buf.WriteByte(tagBool)
			if v {
				buf.WriteByte(1)
			} else {
				buf.WriteByte(0)
			}
		case nil:
			buf.WriteByte(tagNull)
		}
	}
	return buf.Bytes()
}

func decodeConstants(data []byte) ([]interface{}, *diagnostics.Diagnostic) {
	var constants []interface{}
	pos := 0
	for pos < len(data) {
		tag := data[pos]
		pos++
		switch tag {
		case tagInt:
			if pos+8 > len(data) {
				return nil, truncated("constant pool")
			}
			constants = append(constants, int64(binary.LittleEndian.Uint64(data[pos:])))
			pos += 8
		case tagFloat:
			if pos+8 > len(data) {
				return nil, truncated("constant pool")
			}
			constants = append(constants, math.Float64frombits(binary.LittleEndian.Uint64(data[pos:])))
			pos += 8
		case tagString:
			if pos+4 > len(data) {
				return nil, truncated("constant pool")
			}
			n := int(binary.LittleEndian.Uint32(data[pos:]))
			pos += 4
			if pos+n > len(data) {
				return nil, truncated("constant pool")
			}
			constants = append(constants, string(data[pos:pos+n]))
			pos += n
		case tagBool:
			if pos >= len(data) {
				return nil, truncated("constant pool")
			}
			constants = append(constants, data[pos] == 1)
			pos++
		case tagNull:
			constants = append(constants, nil)
		default:
			return nil, diagnostics.NewBinaryError(diagnostics.ErrB002,
				"unknown constant pool tag 0x%02x", tag)
		}
	}
	return constants, nil
}

func encodeSymbols(symbols []Symbol) []byte {
	var buf bytes.Buffer
	var u32 [4]byte

	binary.LittleEndian.PutUint32(u32[:], uint32(len(symbols)))
	buf.Write(u32[:])
	for _, s := range symbols {
		binary.LittleEndian.PutUint32(u32[:], s.ID)
		buf.Write(u32[:])
		binary.LittleEndian.PutUint32(u32[:], uint32(len(s.Name)))
		buf.Write(u32[:])
		buf.WriteString(s.Name)
	}
	return buf.Bytes()
}

func decodeSymbols(data []byte) ([]Symbol, *diagnostics.Diagnostic) {
	if len(data) < 4 {
		return nil, truncated("symbol table")
	}
	count := int(binary.LittleEndian.Uint32(data))
	pos := 4

	symbols := make([]Symbol, 0, count)
	for i := 0; i < count; i++ {
		if pos+8 > len(data) {
			return nil, truncated("symbol table")
		}
		id := binary.LittleEndian.Uint32(data[pos:])
		n := int(binary.LittleEndian.Uint32(data[pos+4:]))
		pos += 8
		if pos+n > len(data) {
			return nil, truncated("symbol table")
		}
		symbols = append(symbols, Symbol{ID: id, Name: string(data[pos : pos+n])})
		pos += n
	}
	return symbols, nil
}

func truncated(section string) *diagnostics.Diagnostic {
	return diagnostics.NewBinaryError(diagnostics.ErrB002, "truncated %s", section)
}

// Decompile parses an artifact back into its structured form. It fails on
// a bad magic, on any section extending past the input, and on size
// fields that do not match the actual byte layout.
func Decompile(data []byte) (*Artifact, error) {
	if len(data) < 4 || string(data[:4]) != Magic {
		return nil, diagnostics.NewBinaryError(diagnostics.ErrB001, "bad magic: not an NXB2 artifact")
	}
	if len(data) < HeaderSize {
		return nil, truncated("header")
	}

	var h Header
	copy(h.Version[:], data[4:7])
	h.Flags = data[7]
	h.Timestamp = binary.LittleEndian.Uint64(data[8:])
	h.CodeSize = binary.LittleEndian.Uint32(data[16:])
	h.DataSize = binary.LittleEndian.Uint32(data[20:])
	h.SymbolSize = binary.LittleEndian.Uint32(data[24:])
	h.Reserved = binary.LittleEndian.Uint32(data[28:])

	pos := HeaderSize
	sections := int(h.CodeSize) + int(h.DataSize) + int(h.SymbolSize)
	if pos+sections+4 > len(data) {
		return nil, truncated("sections")
	}

	code := data[pos : pos+int(h.CodeSize)]
	pos += int(h.CodeSize)
	constData := data[pos : pos+int(h.DataSize)]
	pos += int(h.DataSize)
	symData := data[pos : pos+int(h.SymbolSize)]
	pos += int(h.SymbolSize)

	metaLen := int(binary.LittleEndian.Uint32(data[pos:]))
	pos += 4
	if pos+metaLen > len(data) {
		return nil, truncated("metadata")
	}
	if pos+metaLen != len(data) {
		return nil, diagnostics.NewBinaryError(diagnostics.ErrB003,
			"size fields cover %d bytes but artifact has %d", pos+metaLen, len(data))
	}
	meta := data[pos : pos+metaLen]

	constants, diag := decodeConstants(constData)
	if diag != nil {
		return nil, diag
	}
	symbols, diag := decodeSymbols(symData)
	if diag != nil {
		return nil, diag
	}

	out := &Artifact{
		Header:    h,
		Code:      append([]byte(nil), code...),
		Constants: constants,
		Symbols:   symbols,
		Metadata:  append([]byte(nil), meta...),
	}
	return out, nil
}

// MetadataMap unmarshals the metadata blob. An empty blob is an empty map.
func (a *Artifact) MetadataMap() (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if len(a.Metadata) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(a.Metadata, &out); err != nil {
		return nil, diagnostics.NewBinaryError(diagnostics.ErrB002, "malformed metadata: %v", err)
	}
	return out, nil
}
