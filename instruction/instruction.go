package instruction

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/LowLevelDaniel/coilasm/operand"
)

// Instruction is one COIL instruction: a category+operation opcode, an
// ordered operand list, and optional extended data.
type Instruction struct {
	Category     Category
	Operation    Operation
	Operands     []operand.Operand
	ExtendedData []byte
}

// New constructs an Instruction with no operands and no extended data.
func New(cat Category, op Operation) Instruction {
	return Instruction{Category: cat, Operation: op}
}

// Opcode returns the combined category|operation byte.
func (i Instruction) Opcode() byte {
	return byte(i.Category) | (byte(i.Operation) & operationMask)
}

// AddOperand appends an operand to the instruction.
func (i *Instruction) AddOperand(o operand.Operand) {
	i.Operands = append(i.Operands, o)
}

// Encode serializes the instruction: opcode, operand count, 16-bit LE
// extended-data length, the operands, then the extended data.
func (i Instruction) Encode() ([]byte, error) {
	if len(i.Operands) > 0xFF {
		return nil, errors.Errorf("instruction: operand count %d exceeds 8-bit limit", len(i.Operands))
	}
	if len(i.ExtendedData) > 0xFFFF {
		return nil, errors.Errorf("instruction: extended data length %d exceeds 16-bit limit", len(i.ExtendedData))
	}

	out := make([]byte, 0, 4+len(i.Operands)*3+len(i.ExtendedData))
	out = append(out, i.Opcode(), byte(len(i.Operands)))
	extLen := make([]byte, 2)
	binary.LittleEndian.PutUint16(extLen, uint16(len(i.ExtendedData)))
	out = append(out, extLen...)

	for _, op := range i.Operands {
		out = append(out, op.Encode()...)
	}
	out = append(out, i.ExtendedData...)
	return out, nil
}

// Decode reads one instruction starting at data[offset] and returns it
// along with the offset just past the instruction.
func Decode(data []byte, offset int) (Instruction, int, error) {
	if offset+4 > len(data) {
		return Instruction{}, offset, errors.New("instruction: truncated header")
	}
	opcode := data[offset]
	operandCount := data[offset+1]
	extLen := binary.LittleEndian.Uint16(data[offset+2:])
	offset += 4

	inst := Instruction{
		Category:  Category(opcode & categoryMask),
		Operation: Operation(opcode & operationMask),
	}

	for n := byte(0); n < operandCount; n++ {
		op, next, err := operand.Decode(data, offset)
		if err != nil {
			return Instruction{}, offset, errors.Wrapf(err, "instruction: decoding operand %d", n)
		}
		inst.Operands = append(inst.Operands, op)
		offset = next
	}

	if int(extLen) > 0 {
		if offset+int(extLen) > len(data) {
			return Instruction{}, offset, errors.New("instruction: truncated extended data")
		}
		inst.ExtendedData = append([]byte(nil), data[offset:offset+int(extLen)]...)
		offset += int(extLen)
	}

	return inst, offset, nil
}

// String renders the instruction in its canonical text form:
// "<CATEGORY> <OPERATION> op1, op2, ..." with an optional trailing
// "; Extended data: <hex bytes>" when ExtendedData is non-empty.
func (i Instruction) String() string {
	var b strings.Builder
	b.WriteString(CategoryName(i.Category))
	b.WriteByte(' ')
	b.WriteString(OperationName(i.Category, i.Operation))

	if len(i.Operands) > 0 {
		b.WriteByte(' ')
		for idx, op := range i.Operands {
			if idx > 0 {
				b.WriteString(", ")
			}
			b.WriteString(op.String())
		}
	}

	if len(i.ExtendedData) > 0 {
		b.WriteString(" ; Extended data: ")
		for _, by := range i.ExtendedData {
			fmt.Fprintf(&b, "%02x ", by)
		}
	}

	return strings.TrimRight(b.String(), " ")
}
