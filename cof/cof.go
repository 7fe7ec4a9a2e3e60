package cof

import (
	"github.com/LowLevelDaniel/coilasm/ir"
)

// Clock is injected so tests can pin the header timestamp (spec.md
// §4.5's determinism requirement). The UUID source is not injected: New
// always draws a fresh random UUID, and a caller that needs a fixed one
// overwrites Header.UUID before writing.
type Clock func() int64

// CofFile is the in-memory model of one COIL Object Format file: a
// header, target table, section list, symbol list, and string pool.
// Mirrors the original implementation's CofFile one to one
// (addTarget/addSection/addSymbol/addString, getSection/getSymbol/
// getSymbolByName, setEntryPoint).
type CofFile struct {
	Header  Header
	Targets []TargetEntry

	sections []*ir.Section
	symbols  []ir.Symbol
	strings  *stringPool
}

// New constructs an empty CofFile: header populated with magic,
// version, a fresh UUIDv4, and the current time, string pool seeded
// with the reserved empty string at offset 0.
func New(now Clock) (*CofFile, error) {
	uuid, err := newUUID()
	if err != nil {
		return nil, err
	}
	c := &CofFile{
		strings: newStringPool(),
		Header: Header{
			Magic:        Magic,
			VersionMajor: VersionMajor,
			VersionMinor: VersionMinor,
			Timestamp:    uint64(now()),
			UUID:         uuid,
			HeaderSize:   HeaderSize,
		},
	}
	return c, nil
}

// AddTarget registers a target architecture entry and returns its
// target_id (1-based; 0 means generic/no target, per spec.md §3/§4.7).
func (c *CofFile) AddTarget(archType ir.ArchType, features uint32, name string) uint32 {
	id := uint32(len(c.Targets)) + 1
	c.Targets = append(c.Targets, TargetEntry{
		TargetID: id,
		ArchType: uint32(archType),
		Features: features,
		Name:     name,
	})
	c.Header.TargetCount = uint32(len(c.Targets))
	return id
}

// AddSection appends a new Section and returns it.
func (c *CofFile) AddSection(name string, typ ir.SectionType, flags ir.SectionFlags, targetID uint32) *ir.Section {
	s := ir.NewSection(name, typ, flags, targetID, 0)
	c.sections = append(c.sections, s)
	c.Header.SectionCount = uint32(len(c.sections))
	return s
}

// Sections returns every section in declaration order.
func (c *CofFile) Sections() []*ir.Section {
	return c.sections
}

// SectionByIndex returns the section at index, or false if out of range.
func (c *CofFile) SectionByIndex(index uint32) (*ir.Section, bool) {
	if index >= uint32(len(c.sections)) {
		return nil, false
	}
	return c.sections[index], true
}

// AddSymbol appends sym and returns its symbol-table index.
func (c *CofFile) AddSymbol(sym ir.Symbol) uint32 {
	idx := uint32(len(c.symbols))
	c.symbols = append(c.symbols, sym)
	c.Header.SymbolCount = uint32(len(c.symbols))
	return idx
}

// Symbols returns every symbol in declaration order.
func (c *CofFile) Symbols() []ir.Symbol {
	return c.symbols
}

// SymbolByIndex returns the symbol at index, or false if out of range.
func (c *CofFile) SymbolByIndex(index uint32) (ir.Symbol, bool) {
	if index >= uint32(len(c.symbols)) {
		return ir.Symbol{}, false
	}
	return c.symbols[index], true
}

// SymbolByName returns the first symbol named name, if any.
func (c *CofFile) SymbolByName(name string) (ir.Symbol, bool) {
	for _, s := range c.symbols {
		if s.Name == name {
			return s, true
		}
	}
	return ir.Symbol{}, false
}

// AddString interns s in the string pool and returns its offset.
func (c *CofFile) AddString(s string) uint32 {
	return c.strings.add(s)
}

// SetEntryPoint records the program entry point address and marks it
// present, distinguishing a real offset-0 entry point from one that was
// never set.
func (c *CofFile) SetEntryPoint(addr uint64) {
	c.Header.EntryPoint = addr
	c.Header.Flags |= HeaderFlagEntryPoint
}

// HasEntryPoint reports whether SetEntryPoint was ever called for this
// file (directly, or by FromModule inferring one from a "main" symbol).
func (c *CofFile) HasEntryPoint() bool {
	return c.Header.Flags&HeaderFlagEntryPoint != 0
}
