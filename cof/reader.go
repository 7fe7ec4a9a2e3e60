package cof

import (
	"encoding/binary"
	"os"

	"github.com/pkg/errors"

	"github.com/LowLevelDaniel/coilasm/ir"
)

// Read opens path, validates its header, and reconstructs a CofFile:
// targets, sections (with their data and relocations), symbols, and
// the string pool. Any short read or magic mismatch is an
// InvalidFormat failure (spec.md §4.6); I/O failures opening or
// reading the file are reported as such.
func Read(path string) (*CofFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cof: reading %s", path)
	}

	if len(data) < HeaderSize {
		return nil, errors.Errorf("cof: %s: truncated header (need %d bytes, have %d)", path, HeaderSize, len(data))
	}
	h := readHeader(data)
	if h.Magic != Magic {
		return nil, errors.Errorf("cof: %s: bad magic 0x%08X (want 0x%08X)", path, h.Magic, Magic)
	}

	c := &CofFile{Header: h, strings: newStringPool()}

	targetEntries, err := sliceAt(data, path, "target table", h.TargetTableOffset, h.TargetCount, TargetEntrySize)
	if err != nil {
		return nil, err
	}
	sectionEntries, err := sliceAt(data, path, "section table", h.SectionTableOffset, h.SectionCount, SectionEntrySize)
	if err != nil {
		return nil, err
	}
	symbolEntries, err := sliceAt(data, path, "symbol table", h.SymbolTableOffset, h.SymbolCount, SymbolEntrySize)
	if err != nil {
		return nil, err
	}

	stringEnd := uint64(h.StringTableOffset) + uint64(h.StringTableSize)
	if stringEnd > uint64(len(data)) {
		return nil, errors.Errorf("cof: %s: string table extends past end of file", path)
	}
	pool := data[h.StringTableOffset:stringEnd]

	for i := uint32(0); i < h.TargetCount; i++ {
		e := targetEntries[i*TargetEntrySize:]
		c.Targets = append(c.Targets, TargetEntry{
			TargetID:     binary.LittleEndian.Uint32(e[0:]),
			ArchType:     binary.LittleEndian.Uint32(e[4:]),
			Features:     binary.LittleEndian.Uint32(e[8:]),
			NameOffset:   binary.LittleEndian.Uint32(e[12:]),
			ConfigOffset: binary.LittleEndian.Uint32(e[16:]),
			ConfigSize:   binary.LittleEndian.Uint32(e[20:]),
			Name:         stringAt(pool, binary.LittleEndian.Uint32(e[12:])),
		})
	}

	for i := uint32(0); i < h.SectionCount; i++ {
		e := sectionEntries[i*SectionEntrySize:]
		name := stringAt(pool, binary.LittleEndian.Uint32(e[0:]))
		typ := ir.SectionType(binary.LittleEndian.Uint32(e[4:]))
		flags := ir.SectionFlags(binary.LittleEndian.Uint32(e[8:]))
		targetID := binary.LittleEndian.Uint32(e[12:])
		address := binary.LittleEndian.Uint64(e[16:])
		size := binary.LittleEndian.Uint64(e[24:])
		dataOffset := binary.LittleEndian.Uint64(e[32:])
		alignment := binary.LittleEndian.Uint32(e[40:])
		relocCount := binary.LittleEndian.Uint32(e[44:])
		relocOffset := binary.LittleEndian.Uint32(e[48:])

		sec := ir.NewSection(name, typ, flags, targetID, alignment)
		sec.VirtualAddress = address

		if size > 0 {
			end := dataOffset + size
			if end > uint64(len(data)) {
				return nil, errors.Errorf("cof: %s: section %q data extends past end of file", path, name)
			}
			sec.AddData(data[dataOffset:end])
		}

		if relocCount > 0 {
			relocs, err := sliceAt(data, path, "section "+name+" relocations", relocOffset, relocCount, RelocationEntrySize)
			if err != nil {
				return nil, err
			}
			for j := uint32(0); j < relocCount; j++ {
				r := relocs[j*RelocationEntrySize:]
				sec.AddRelocation(
					binary.LittleEndian.Uint64(r[0:]),
					binary.LittleEndian.Uint32(r[8:]),
					binary.LittleEndian.Uint32(r[12:]),
					int64(binary.LittleEndian.Uint64(r[16:])),
					binary.LittleEndian.Uint32(r[24:]),
				)
			}
		}

		c.sections = append(c.sections, sec)
	}

	for i := uint32(0); i < h.SymbolCount; i++ {
		e := symbolEntries[i*SymbolEntrySize:]
		name := stringAt(pool, binary.LittleEndian.Uint32(e[0:]))
		c.symbols = append(c.symbols, ir.Symbol{
			Name:         name,
			SectionIndex: binary.LittleEndian.Uint32(e[4:]),
			Value:        binary.LittleEndian.Uint64(e[8:]),
			Size:         binary.LittleEndian.Uint64(e[16:]),
			Type:         ir.SymbolType(binary.LittleEndian.Uint16(e[24:])),
			Flags:        ir.SymbolFlags(binary.LittleEndian.Uint16(e[26:])),
			TargetID:     binary.LittleEndian.Uint32(e[28:]),
		})
	}

	// Re-intern every name so the in-memory pool matches what a
	// subsequent Write would produce for this same CofFile.
	for _, t := range c.Targets {
		c.strings.add(t.Name)
	}
	for _, sec := range c.sections {
		c.strings.add(sec.Name)
	}
	for _, sym := range c.symbols {
		c.strings.add(sym.Name)
	}

	return c, nil
}

func readHeader(data []byte) Header {
	var h Header
	h.Magic = binary.LittleEndian.Uint32(data[0:])
	h.VersionMajor = binary.LittleEndian.Uint16(data[4:])
	h.VersionMinor = binary.LittleEndian.Uint16(data[6:])
	h.Flags = binary.LittleEndian.Uint32(data[8:])
	h.TargetCount = binary.LittleEndian.Uint32(data[12:])
	h.SectionCount = binary.LittleEndian.Uint32(data[16:])
	h.SymbolCount = binary.LittleEndian.Uint32(data[20:])
	h.StringTableSize = binary.LittleEndian.Uint32(data[24:])
	h.EntryPoint = binary.LittleEndian.Uint64(data[28:])
	h.Timestamp = binary.LittleEndian.Uint64(data[36:])
	copy(h.UUID[:], data[44:60])
	h.HeaderSize = binary.LittleEndian.Uint32(data[60:])
	h.SectionTableOffset = binary.LittleEndian.Uint32(data[64:])
	h.SymbolTableOffset = binary.LittleEndian.Uint32(data[68:])
	h.StringTableOffset = binary.LittleEndian.Uint32(data[72:])
	h.TargetTableOffset = binary.LittleEndian.Uint32(data[76:])
	return h
}

// sliceAt returns the byte range [offset, offset+count*entrySize) of
// data, failing with InvalidFormat-style context if it runs past the
// end of the file.
func sliceAt(data []byte, path, what string, offset, count uint32, entrySize int) ([]byte, error) {
	start := uint64(offset)
	end := start + uint64(count)*uint64(entrySize)
	if end > uint64(len(data)) {
		return nil, errors.Errorf("cof: %s: truncated %s (need %d bytes at offset %d, have %d total)", path, what, end-start, start, len(data))
	}
	return data[start:end], nil
}
