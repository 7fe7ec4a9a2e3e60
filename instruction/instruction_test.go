package instruction

import (
	"reflect"
	"testing"

	"github.com/LowLevelDaniel/coilasm/operand"
)

func TestInstructionRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		inst Instruction
	}{
		{
			name: "frame enter no operands",
			inst: New(CatFRAME, FRAME_ENTER),
		},
		{
			name: "mem mov reg imm",
			inst: func() Instruction {
				i := New(CatMEM, MEM_MOV)
				i.AddOperand(operand.NewRegister(operand.RegGP, 0, 0))
				i.AddOperand(operand.NewImmediateInt32(42))
				return i
			}(),
		},
		{
			name: "cf brc with extended data",
			inst: func() Instruction {
				i := New(CatCF, CF_BRC)
				i.AddOperand(operand.NewImmediateSymbol("loop_top"))
				i.ExtendedData = []byte{0x02}
				return i
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := tt.inst.Encode()
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, n, err := Decode(enc, 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if n != len(enc) {
				t.Errorf("consumed %d bytes, want %d", n, len(enc))
			}
			if got.Category != tt.inst.Category || got.Operation != tt.inst.Operation {
				t.Errorf("opcode mismatch: got cat=%v op=%v, want cat=%v op=%v",
					got.Category, got.Operation, tt.inst.Category, tt.inst.Operation)
			}
			if len(got.Operands) != len(tt.inst.Operands) {
				t.Fatalf("operand count = %d, want %d", len(got.Operands), len(tt.inst.Operands))
			}
			for i := range got.Operands {
				if !reflect.DeepEqual(got.Operands[i], tt.inst.Operands[i]) {
					t.Errorf("operand %d = %+v, want %+v", i, got.Operands[i], tt.inst.Operands[i])
				}
			}
			if string(got.ExtendedData) != string(tt.inst.ExtendedData) {
				t.Errorf("extended data = %v, want %v", got.ExtendedData, tt.inst.ExtendedData)
			}
		})
	}
}

func TestInstructionString(t *testing.T) {
	i := New(CatMATH, MATH_ADD)
	i.AddOperand(operand.NewRegister(operand.RegGP, 0, 0))
	i.AddOperand(operand.NewRegister(operand.RegGP, 1, 0))
	want := "MATH ADD R0, R1"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestInstructionStringWithExtendedData(t *testing.T) {
	i := New(CatCF, CF_BRC)
	i.ExtendedData = []byte{0x01, 0xFF}
	want := "CF BRC ; Extended data: 01 ff"
	if got := i.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestOpcodeByteLayout(t *testing.T) {
	i := New(CatMEM, MEM_STORE)
	if got, want := i.Opcode(), byte(0x20)|byte(0x04); got != want {
		t.Errorf("Opcode() = 0x%02X, want 0x%02X", got, want)
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	_, _, err := Decode([]byte{0x00, 0x00}, 0)
	if err == nil {
		t.Fatal("expected error for truncated instruction header")
	}
}

func TestEncodeRejectsOversizedExtendedData(t *testing.T) {
	i := New(CatCF, CF_NOP)
	i.ExtendedData = make([]byte, 0x10000)
	if _, err := i.Encode(); err == nil {
		t.Fatal("expected error for extended data exceeding 16-bit length")
	}
}

func TestCategoryAndOperationNameLookup(t *testing.T) {
	if CategoryName(CatBIT) != "BIT" {
		t.Errorf("CategoryName(CatBIT) = %q", CategoryName(CatBIT))
	}
	if OperationName(CatBIT, BIT_CMP) != "CMP" {
		t.Errorf("OperationName(CatBIT, BIT_CMP) = %q", OperationName(CatBIT, BIT_CMP))
	}
	if _, ok := CategoryByName("NOPE"); ok {
		t.Error("CategoryByName(\"NOPE\") should not resolve")
	}
	op, ok := OperationByName(CatFRAME, "LEAVE")
	if !ok || op != FRAME_LEAVE {
		t.Errorf("OperationByName(CatFRAME, \"LEAVE\") = (%v, %v), want (%v, true)", op, ok, FRAME_LEAVE)
	}
}
