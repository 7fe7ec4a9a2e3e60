package ir

// Symbol is an entry the module contributes to the eventual COF symbol
// table. SectionIndex 0 means external/absolute.
type Symbol struct {
	Name         string
	SectionIndex uint32
	Value        uint64
	Size         uint64
	Type         SymbolType
	Flags        SymbolFlags
	TargetID     uint32
}

// IsGlobal reports whether the symbol carries the global flag.
func (s Symbol) IsGlobal() bool {
	return s.Flags.Has(SymbolFlagGlobal)
}

// IsUndefined reports whether the symbol is unresolved (external).
func (s Symbol) IsUndefined() bool {
	return s.Flags.Has(SymbolFlagUndefined)
}

// IsFunction reports whether the symbol names a function.
func (s Symbol) IsFunction() bool {
	return s.Type == SymbolFunction
}
