package ir

import (
	"github.com/LowLevelDaniel/coilasm/instruction"
)

// Section is the IR-side view of one COF section: a byte buffer fed
// either directly (data sections) or by encoding a pending instruction
// stream (code sections) once Finalize runs.
type Section struct {
	Name           string
	Type           SectionType
	Flags          SectionFlags
	TargetID       uint32
	VirtualAddress uint64
	Alignment      uint32

	data         []byte
	relocations  []RelocationEntry
	pendingInsts []instruction.Instruction
}

// NewSection constructs a Section with the given attributes. Alignment
// defaults to 4 when 0 is passed.
func NewSection(name string, typ SectionType, flags SectionFlags, targetID uint32, alignment uint32) *Section {
	if alignment == 0 {
		alignment = 4
	}
	return &Section{Name: name, Type: typ, Flags: flags, TargetID: targetID, Alignment: alignment}
}

// Size returns the section's current data length.
func (s *Section) Size() uint64 {
	return uint64(len(s.data))
}

// Data returns the section's finalized byte content.
func (s *Section) Data() []byte {
	return s.data
}

// AddData appends raw bytes and returns the offset they were written at.
func (s *Section) AddData(b []byte) uint64 {
	offset := uint64(len(s.data))
	s.data = append(s.data, b...)
	return offset
}

// FillZero appends n zero bytes and returns the offset they start at.
func (s *Section) FillZero(n int) uint64 {
	offset := uint64(len(s.data))
	s.data = append(s.data, make([]byte, n)...)
	return offset
}

// Align pads the section's data to the given byte boundary with zeros
// and returns the resulting (aligned) length.
func (s *Section) Align(alignment uint32) uint64 {
	if alignment <= 1 {
		return uint64(len(s.data))
	}
	pad := (int(alignment) - (len(s.data) % int(alignment))) % int(alignment)
	if pad > 0 {
		s.data = append(s.data, make([]byte, pad)...)
	}
	return uint64(len(s.data))
}

// AddRelocation records a fixup against this section's data.
func (s *Section) AddRelocation(offset uint64, symbolIndex, relType uint32, addend int64, targetID uint32) {
	s.relocations = append(s.relocations, RelocationEntry{
		Offset: offset, SymbolIndex: symbolIndex, Type: relType, Addend: addend, TargetID: targetID,
	})
}

// Relocations returns the section's recorded relocations.
func (s *Section) Relocations() []RelocationEntry {
	return s.relocations
}

// AddInstruction appends inst to the section's pending instruction
// stream (for code sections, ahead of Finalize) and returns its index.
func (s *Section) AddInstruction(inst instruction.Instruction) int {
	s.pendingInsts = append(s.pendingInsts, inst)
	return len(s.pendingInsts) - 1
}

// Instructions returns the section's pending instruction stream.
func (s *Section) Instructions() []instruction.Instruction {
	return s.pendingInsts
}

// Finalize encodes every pending instruction into the section's data
// buffer, in order, and clears the pending stream. Code sections must
// call this before the COF writer reads Data().
func (s *Section) Finalize() error {
	for _, inst := range s.pendingInsts {
		enc, err := inst.Encode()
		if err != nil {
			return err
		}
		s.data = append(s.data, enc...)
	}
	s.pendingInsts = nil
	return nil
}

// Bytes returns size bytes of section data starting at offset.
func (s *Section) Bytes(offset uint64, size int) []byte {
	if offset >= uint64(len(s.data)) {
		return nil
	}
	end := offset + uint64(size)
	if end > uint64(len(s.data)) {
		end = uint64(len(s.data))
	}
	return s.data[offset:end]
}
