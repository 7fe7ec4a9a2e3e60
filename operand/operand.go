// Package operand implements the four COIL operand kinds and their
// binary encoding.
package operand

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

// Class is the operand's top-level kind, carried in the top two bits of
// its type byte.
type Class byte

const (
	ClassRegister  Class = 0x00
	ClassImmediate Class = 0x40
	ClassMemory    Class = 0x80
	ClassVariable  Class = 0xC0
)

const classMask = 0xC0
const subKindMask = 0x3F

// Register sub-kinds (bits 5-0 of the type byte).
const (
	RegGP      byte = 0x00
	RegFP      byte = 0x01
	RegVec     byte = 0x02
	RegSpecial byte = 0x03
)

// Immediate sub-kinds.
const (
	ImmInt8    byte = 0x00
	ImmInt16   byte = 0x01
	ImmInt32   byte = 0x02
	ImmInt64   byte = 0x03
	ImmFloat32 byte = 0x04
	ImmFloat64 byte = 0x05
	ImmSymbol  byte = 0x06
)

// Memory sub-kinds.
const (
	MemDirect      byte = 0x00
	MemReg         byte = 0x01
	MemRegDisp     byte = 0x02
	MemRegReg      byte = 0x03
	MemRegRegScale byte = 0x04
	MemRegPreInc   byte = 0x05
	MemRegPreDec   byte = 0x06
	MemRegPostInc  byte = 0x07
	MemRegPostDec  byte = 0x08
)

// Variable sub-kinds.
const (
	VarDirect byte = 0x00
	VarAddr   byte = 0x01
	VarElem   byte = 0x02
	VarField  byte = 0x03
)

// Special virtual register ids, outside the 0-15 GP/FP/Vec numbering.
const (
	RegIDPC    byte = 0x30
	RegIDSP    byte = 0x31
	RegIDFP    byte = 0x32
	RegIDFlags byte = 0x33
	RegIDLR    byte = 0x34
)

// Operand is a tagged union over the four operand kinds. Only the
// fields relevant to Class/SubKind are meaningful; the rest are zero.
type Operand struct {
	Class   Class
	SubKind byte

	// Register
	RegID byte
	Flags byte

	// Immediate: raw little-endian bytes, or a NUL-terminated symbol name
	// for ImmSymbol.
	Value []byte

	// Memory: interpretation depends on SubKind. RegID/RegID2/Scale hold
	// register operands; Displacement and Address hold the 32-bit
	// little-endian payloads for MemRegDisp and MemDirect respectively.
	RegID2       byte
	Scale        byte
	Displacement int32
	Address      uint32

	// Variable
	VarID byte
}

func typeByte(class Class, sub byte) byte {
	return byte(class) | (sub & subKindMask)
}

// TypeByte returns the operand's encoded type byte.
func (o Operand) TypeByte() byte {
	return typeByte(o.Class, o.SubKind)
}

// NewRegister builds a register operand.
func NewRegister(regType byte, regID byte, flags byte) Operand {
	return Operand{Class: ClassRegister, SubKind: regType, RegID: regID, Flags: flags}
}

// NewImmediateInt8 builds an 8-bit integer immediate.
func NewImmediateInt8(v int8) Operand {
	return Operand{Class: ClassImmediate, SubKind: ImmInt8, Value: []byte{byte(v)}}
}

// NewImmediateInt16 builds a 16-bit integer immediate.
func NewImmediateInt16(v int16) Operand {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return Operand{Class: ClassImmediate, SubKind: ImmInt16, Value: b}
}

// NewImmediateInt32 builds a 32-bit integer immediate.
func NewImmediateInt32(v int32) Operand {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return Operand{Class: ClassImmediate, SubKind: ImmInt32, Value: b}
}

// NewImmediateInt64 builds a 64-bit integer immediate.
func NewImmediateInt64(v int64) Operand {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return Operand{Class: ClassImmediate, SubKind: ImmInt64, Value: b}
}

// NewImmediateFloat32 builds a 32-bit float immediate.
func NewImmediateFloat32(v float32) Operand {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return Operand{Class: ClassImmediate, SubKind: ImmFloat32, Value: b}
}

// NewImmediateFloat64 builds a 64-bit float immediate.
func NewImmediateFloat64(v float64) Operand {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return Operand{Class: ClassImmediate, SubKind: ImmFloat64, Value: b}
}

// NewImmediateSymbol builds a symbol-reference immediate, used for
// label operands pending linker resolution.
func NewImmediateSymbol(name string) Operand {
	v := append([]byte(name), 0)
	return Operand{Class: ClassImmediate, SubKind: ImmSymbol, Value: v}
}

// NewMemoryDirect builds a [addr] memory operand.
func NewMemoryDirect(addr uint32) Operand {
	return Operand{Class: ClassMemory, SubKind: MemDirect, Address: addr}
}

// NewMemoryReg builds a [reg] memory operand.
func NewMemoryReg(regID byte) Operand {
	return Operand{Class: ClassMemory, SubKind: MemReg, RegID: regID}
}

// NewMemoryRegDisp builds a [reg+disp] memory operand.
func NewMemoryRegDisp(regID byte, disp int32) Operand {
	return Operand{Class: ClassMemory, SubKind: MemRegDisp, RegID: regID, Displacement: disp}
}

// NewMemoryRegReg builds a [reg1+reg2] memory operand.
func NewMemoryRegReg(regID1, regID2 byte) Operand {
	return Operand{Class: ClassMemory, SubKind: MemRegReg, RegID: regID1, RegID2: regID2}
}

// NewMemoryRegRegScale builds a [reg1+reg2*scale] memory operand.
func NewMemoryRegRegScale(regID1, regID2, scale byte) Operand {
	return Operand{Class: ClassMemory, SubKind: MemRegRegScale, RegID: regID1, RegID2: regID2, Scale: scale}
}

// NewMemoryRegPreInc builds a [++reg] memory operand.
func NewMemoryRegPreInc(regID byte) Operand {
	return Operand{Class: ClassMemory, SubKind: MemRegPreInc, RegID: regID}
}

// NewMemoryRegPreDec builds a [--reg] memory operand.
func NewMemoryRegPreDec(regID byte) Operand {
	return Operand{Class: ClassMemory, SubKind: MemRegPreDec, RegID: regID}
}

// NewMemoryRegPostInc builds a [reg++] memory operand.
func NewMemoryRegPostInc(regID byte) Operand {
	return Operand{Class: ClassMemory, SubKind: MemRegPostInc, RegID: regID}
}

// NewMemoryRegPostDec builds a [reg--] memory operand.
func NewMemoryRegPostDec(regID byte) Operand {
	return Operand{Class: ClassMemory, SubKind: MemRegPostDec, RegID: regID}
}

// NewVariable builds a variable operand of the given reference kind.
func NewVariable(refKind byte, varID byte) Operand {
	return Operand{Class: ClassVariable, SubKind: refKind, VarID: varID}
}

// Encode serializes the operand to its binary form: type byte followed
// by a kind-specific payload.
func (o Operand) Encode() []byte {
	switch o.Class {
	case ClassRegister:
		return []byte{o.TypeByte(), o.RegID, o.Flags}
	case ClassImmediate:
		return append([]byte{o.TypeByte()}, o.Value...)
	case ClassMemory:
		return append([]byte{o.TypeByte()}, o.memoryPayload()...)
	case ClassVariable:
		return []byte{o.TypeByte(), o.VarID}
	default:
		return []byte{o.TypeByte()}
	}
}

func (o Operand) memoryPayload() []byte {
	switch o.SubKind {
	case MemDirect:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, o.Address)
		return b
	case MemReg, MemRegPreInc, MemRegPreDec, MemRegPostInc, MemRegPostDec:
		return []byte{o.RegID}
	case MemRegDisp:
		b := make([]byte, 5)
		b[0] = o.RegID
		binary.LittleEndian.PutUint32(b[1:], uint32(o.Displacement))
		return b
	case MemRegReg:
		return []byte{o.RegID, o.RegID2}
	case MemRegRegScale:
		return []byte{o.RegID, o.RegID2, o.Scale}
	default:
		return nil
	}
}

// Decode reads one operand starting at data[offset] and returns it
// along with the offset just past the operand.
func Decode(data []byte, offset int) (Operand, int, error) {
	if offset >= len(data) {
		return Operand{}, offset, errors.New("operand: truncated input at type byte")
	}
	tb := data[offset]
	class := Class(tb & classMask)
	sub := tb & subKindMask
	offset++

	switch class {
	case ClassRegister:
		if offset+2 > len(data) {
			return Operand{}, offset, errors.New("operand: truncated register operand")
		}
		o := Operand{Class: class, SubKind: sub, RegID: data[offset], Flags: data[offset+1]}
		return o, offset + 2, nil
	case ClassImmediate:
		return decodeImmediate(data, offset, sub)
	case ClassMemory:
		return decodeMemory(data, offset, sub)
	case ClassVariable:
		if offset+1 > len(data) {
			return Operand{}, offset, errors.New("operand: truncated variable operand")
		}
		o := Operand{Class: class, SubKind: sub, VarID: data[offset]}
		return o, offset + 1, nil
	default:
		return Operand{}, offset, errors.Errorf("operand: unknown operand class 0x%02X", byte(class))
	}
}

func decodeImmediate(data []byte, offset int, sub byte) (Operand, int, error) {
	var size int
	switch sub {
	case ImmInt8:
		size = 1
	case ImmInt16:
		size = 2
	case ImmInt32, ImmFloat32:
		size = 4
	case ImmInt64, ImmFloat64:
		size = 8
	case ImmSymbol:
		n := offset
		for n < len(data) && data[n] != 0 {
			n++
		}
		if n >= len(data) {
			return Operand{}, offset, errors.New("operand: unterminated symbol immediate")
		}
		size = n - offset + 1
	default:
		return Operand{}, offset, errors.Errorf("operand: unknown immediate sub-kind 0x%02X", sub)
	}
	if offset+size > len(data) {
		return Operand{}, offset, errors.New("operand: truncated immediate operand")
	}
	value := append([]byte(nil), data[offset:offset+size]...)
	return Operand{Class: ClassImmediate, SubKind: sub, Value: value}, offset + size, nil
}

func decodeMemory(data []byte, offset int, sub byte) (Operand, int, error) {
	switch sub {
	case MemDirect:
		if offset+4 > len(data) {
			return Operand{}, offset, errors.New("operand: truncated direct memory operand")
		}
		addr := binary.LittleEndian.Uint32(data[offset:])
		return Operand{Class: ClassMemory, SubKind: sub, Address: addr}, offset + 4, nil
	case MemReg, MemRegPreInc, MemRegPreDec, MemRegPostInc, MemRegPostDec:
		if offset+1 > len(data) {
			return Operand{}, offset, errors.New("operand: truncated register memory operand")
		}
		return Operand{Class: ClassMemory, SubKind: sub, RegID: data[offset]}, offset + 1, nil
	case MemRegDisp:
		if offset+5 > len(data) {
			return Operand{}, offset, errors.New("operand: truncated reg+disp memory operand")
		}
		disp := int32(binary.LittleEndian.Uint32(data[offset+1:]))
		return Operand{Class: ClassMemory, SubKind: sub, RegID: data[offset], Displacement: disp}, offset + 5, nil
	case MemRegReg:
		if offset+2 > len(data) {
			return Operand{}, offset, errors.New("operand: truncated reg+reg memory operand")
		}
		return Operand{Class: ClassMemory, SubKind: sub, RegID: data[offset], RegID2: data[offset+1]}, offset + 2, nil
	case MemRegRegScale:
		if offset+3 > len(data) {
			return Operand{}, offset, errors.New("operand: truncated scaled memory operand")
		}
		return Operand{Class: ClassMemory, SubKind: sub, RegID: data[offset], RegID2: data[offset+1], Scale: data[offset+2]}, offset + 3, nil
	default:
		return Operand{}, offset, errors.Errorf("operand: unknown memory sub-kind 0x%02X", sub)
	}
}

// String renders the operand in its canonical assembly text form.
func (o Operand) String() string {
	switch o.Class {
	case ClassRegister:
		return o.registerString()
	case ClassImmediate:
		return o.immediateString()
	case ClassMemory:
		return "[" + o.memoryString() + "]"
	case ClassVariable:
		return o.variableString()
	default:
		return fmt.Sprintf("<unknown operand 0x%02X>", o.TypeByte())
	}
}

func (o Operand) registerString() string {
	var s string
	switch o.SubKind {
	case RegGP:
		s = fmt.Sprintf("R%d", o.RegID)
	case RegFP:
		s = fmt.Sprintf("F%d", o.RegID&0x0F)
	case RegVec:
		s = fmt.Sprintf("V%d", o.RegID&0x0F)
	case RegSpecial:
		switch o.RegID {
		case RegIDPC:
			s = "PC"
		case RegIDSP:
			s = "SP"
		case RegIDFP:
			s = "FP"
		case RegIDFlags:
			s = "FLAGS"
		case RegIDLR:
			s = "LR"
		default:
			s = fmt.Sprintf("SPECIAL%d", o.RegID)
		}
	default:
		s = fmt.Sprintf("REG%d", o.RegID)
	}
	if o.Flags != 0 {
		s += fmt.Sprintf(".%02x", o.Flags)
	}
	return s
}

func (o Operand) immediateString() string {
	switch o.SubKind {
	case ImmInt8:
		return fmt.Sprintf("%d", int8(o.Value[0]))
	case ImmInt16:
		return fmt.Sprintf("%d", int16(binary.LittleEndian.Uint16(o.Value)))
	case ImmInt32:
		return fmt.Sprintf("%d", int32(binary.LittleEndian.Uint32(o.Value)))
	case ImmInt64:
		return fmt.Sprintf("%d", int64(binary.LittleEndian.Uint64(o.Value)))
	case ImmFloat32:
		return fmt.Sprintf("%f", math.Float32frombits(binary.LittleEndian.Uint32(o.Value)))
	case ImmFloat64:
		return fmt.Sprintf("%.15f", math.Float64frombits(binary.LittleEndian.Uint64(o.Value)))
	case ImmSymbol:
		return strings.TrimSuffix(string(o.Value), "\x00")
	default:
		return fmt.Sprintf("0x%x", o.Value)
	}
}

func (o Operand) memoryString() string {
	switch o.SubKind {
	case MemDirect:
		return fmt.Sprintf("0x%x", o.Address)
	case MemReg:
		return fmt.Sprintf("R%d", o.RegID)
	case MemRegDisp:
		if o.Displacement > 0 {
			return fmt.Sprintf("R%d + %d", o.RegID, o.Displacement)
		} else if o.Displacement < 0 {
			return fmt.Sprintf("R%d - %d", o.RegID, -o.Displacement)
		}
		return fmt.Sprintf("R%d", o.RegID)
	case MemRegReg:
		return fmt.Sprintf("R%d + R%d", o.RegID, o.RegID2)
	case MemRegRegScale:
		if o.Scale > 1 {
			return fmt.Sprintf("R%d + R%d*%d", o.RegID, o.RegID2, o.Scale)
		}
		return fmt.Sprintf("R%d + R%d", o.RegID, o.RegID2)
	case MemRegPreInc:
		return fmt.Sprintf("++R%d", o.RegID)
	case MemRegPreDec:
		return fmt.Sprintf("--R%d", o.RegID)
	case MemRegPostInc:
		return fmt.Sprintf("R%d++", o.RegID)
	case MemRegPostDec:
		return fmt.Sprintf("R%d--", o.RegID)
	default:
		return "UNKNOWN"
	}
}

func (o Operand) variableString() string {
	switch o.SubKind {
	case VarDirect:
		return fmt.Sprintf("$%d", o.VarID)
	case VarAddr:
		return fmt.Sprintf("&$%d", o.VarID)
	case VarElem:
		return fmt.Sprintf("$%d[idx]", o.VarID)
	case VarField:
		return fmt.Sprintf("$%d.field", o.VarID)
	default:
		return fmt.Sprintf("$%d.<unknown>", o.VarID)
	}
}
