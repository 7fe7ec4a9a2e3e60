package ir

// RelocationEntry records a fixup the linker must apply: at Offset
// within its owning section, a reference to symbol SymbolIndex of the
// given Type, plus an Addend.
type RelocationEntry struct {
	Offset      uint64
	SymbolIndex uint32
	Type        uint32
	Addend      int64
	TargetID    uint32
}
