package operand

import (
	"reflect"
	"testing"
)

func TestRegisterRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		op   Operand
	}{
		{"gp", NewRegister(RegGP, 5, 0)},
		{"fp with flags", NewRegister(RegFP, 2, 0x01)},
		{"special pc", NewRegister(RegSpecial, RegIDPC, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := tt.op.Encode()
			got, n, err := Decode(enc, 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if n != len(enc) {
				t.Errorf("consumed %d bytes, want %d", n, len(enc))
			}
			if !reflect.DeepEqual(got, tt.op) {
				t.Errorf("got %+v, want %+v", got, tt.op)
			}
		})
	}
}

func TestImmediateRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		op   Operand
		text string
	}{
		{"int8", NewImmediateInt8(-12), "-12"},
		{"int16", NewImmediateInt16(-1000), "-1000"},
		{"int32", NewImmediateInt32(-100000), "-100000"},
		{"int64", NewImmediateInt64(1 << 40), "1099511627776"},
		{"float32", NewImmediateFloat32(1.5), "1.500000"},
		{"symbol", NewImmediateSymbol("my_label"), "my_label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := tt.op.Encode()
			got, n, err := Decode(enc, 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if n != len(enc) {
				t.Errorf("consumed %d bytes, want %d", n, len(enc))
			}
			if got.String() != tt.text {
				t.Errorf("String() = %q, want %q", got.String(), tt.text)
			}
		})
	}
}

func TestMemoryRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		op   Operand
		text string
	}{
		{"direct", NewMemoryDirect(0x1000), "[0x1000]"},
		{"reg", NewMemoryReg(3), "[R3]"},
		{"reg+disp positive", NewMemoryRegDisp(3, 8), "[R3 + 8]"},
		{"reg+disp negative", NewMemoryRegDisp(3, -8), "[R3 - 8]"},
		{"reg+reg", NewMemoryRegReg(1, 2), "[R1 + R2]"},
		{"reg+reg*scale", NewMemoryRegRegScale(1, 2, 4), "[R1 + R2*4]"},
		{"pre-inc", NewMemoryRegPreInc(5), "[++R5]"},
		{"pre-dec", NewMemoryRegPreDec(5), "[--R5]"},
		{"post-inc", NewMemoryRegPostInc(5), "[R5++]"},
		{"post-dec", NewMemoryRegPostDec(5), "[R5--]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := tt.op.Encode()
			got, n, err := Decode(enc, 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if n != len(enc) {
				t.Errorf("consumed %d bytes, want %d", n, len(enc))
			}
			if !reflect.DeepEqual(got, tt.op) {
				t.Errorf("got %+v, want %+v", got, tt.op)
			}
			if got.String() != tt.text {
				t.Errorf("String() = %q, want %q", got.String(), tt.text)
			}
		})
	}
}

func TestVariableRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		op   Operand
		text string
	}{
		{"direct", NewVariable(VarDirect, 9), "$9"},
		{"addr", NewVariable(VarAddr, 9), "&$9"},
		{"elem", NewVariable(VarElem, 9), "$9[idx]"},
		{"field", NewVariable(VarField, 9), "$9.field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := tt.op.Encode()
			got, n, err := Decode(enc, 0)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if n != len(enc) {
				t.Errorf("consumed %d bytes, want %d", n, len(enc))
			}
			if !reflect.DeepEqual(got, tt.op) {
				t.Errorf("got %+v, want %+v", got, tt.op)
			}
			if got.String() != tt.text {
				t.Errorf("String() = %q, want %q", got.String(), tt.text)
			}
		})
	}
}

func TestDecodeTruncatedInputReturnsError(t *testing.T) {
	_, _, err := Decode([]byte{byte(ClassRegister) | RegGP}, 0)
	if err == nil {
		t.Fatal("expected error decoding truncated register operand")
	}
}

func TestDecodeSequentialOperandsAtOffsets(t *testing.T) {
	var buf []byte
	buf = append(buf, NewRegister(RegGP, 1, 0).Encode()...)
	buf = append(buf, NewImmediateInt32(42).Encode()...)

	first, off, err := Decode(buf, 0)
	if err != nil {
		t.Fatalf("Decode first: %v", err)
	}
	if first.RegID != 1 {
		t.Fatalf("first.RegID = %d, want 1", first.RegID)
	}
	second, off2, err := Decode(buf, off)
	if err != nil {
		t.Fatalf("Decode second: %v", err)
	}
	if off2 != len(buf) {
		t.Errorf("final offset = %d, want %d", off2, len(buf))
	}
	if second.String() != "42" {
		t.Errorf("second.String() = %q, want 42", second.String())
	}
}
