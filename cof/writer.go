package cof

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/pkg/errors"

	"github.com/LowLevelDaniel/coilasm/ir"
)

// sectionLayout is the pair of file offsets a Section's table entry
// needs, computed before anything is written (spec.md §4.5).
type sectionLayout struct {
	dataOffset  uint64
	relocOffset uint32
}

// layout interns every name the tables reference, then computes the
// header's table offsets and each section's data/relocation offsets in
// one pass, without writing anything. Names are interned up front
// (targets, sections, then symbols) so the string pool's final size is
// known before string_table_offset is fixed — unlike
// original_source's updateOffsets, which interns section names during
// the section-offset walk, after string_table_offset/size were already
// recorded, silently growing the pool past what its own header
// declares.
func (c *CofFile) layout() ([]uint32, []uint32, []uint32, []sectionLayout) {
	targetNameOffsets := make([]uint32, len(c.Targets))
	for i, t := range c.Targets {
		targetNameOffsets[i] = c.strings.add(t.Name)
	}
	sectionNameOffsets := make([]uint32, len(c.sections))
	for i, sec := range c.sections {
		sectionNameOffsets[i] = c.strings.add(sec.Name)
	}
	symbolNameOffsets := make([]uint32, len(c.symbols))
	for i, sym := range c.symbols {
		symbolNameOffsets[i] = c.strings.add(sym.Name)
	}

	offset := uint32(HeaderSize)
	c.Header.TargetTableOffset = offset
	offset += uint32(len(c.Targets)) * TargetEntrySize
	c.Header.SectionTableOffset = offset
	offset += uint32(len(c.sections)) * SectionEntrySize
	c.Header.SymbolTableOffset = offset
	offset += uint32(len(c.symbols)) * SymbolEntrySize
	c.Header.StringTableOffset = offset
	c.Header.StringTableSize = c.strings.size()
	offset += c.Header.StringTableSize

	layouts := make([]sectionLayout, len(c.sections))
	cursor := uint64(offset)
	for i, sec := range c.sections {
		align := uint64(sec.Alignment)
		if align == 0 {
			align = 1
		}
		pad := (align - (cursor % align)) % align
		cursor += pad
		layouts[i].dataOffset = cursor
		cursor += sec.Size()
		layouts[i].relocOffset = uint32(cursor)
		cursor += uint64(len(sec.Relocations())) * RelocationEntrySize
	}

	c.Header.TargetCount = uint32(len(c.Targets))
	c.Header.SectionCount = uint32(len(c.sections))
	c.Header.SymbolCount = uint32(len(c.symbols))

	return targetNameOffsets, sectionNameOffsets, symbolNameOffsets, layouts
}

// Write computes the file's layout and writes it in one pass: header,
// target table, section table, symbol table, string pool, then for
// each section its zero-padding, data, and relocation table in
// declaration order (spec.md §4.5).
func (c *CofFile) Write(path string) error {
	targetNames, sectionNames, symbolNames, layouts := c.layout()

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cof: opening %s for write", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	if err := writeHeader(w, c.Header); err != nil {
		return err
	}
	for i, t := range c.Targets {
		if err := writeTargetEntry(w, t, targetNames[i]); err != nil {
			return err
		}
	}
	for i, sec := range c.sections {
		if err := writeSectionEntry(w, sec, sectionNames[i], layouts[i]); err != nil {
			return err
		}
	}
	for i, sym := range c.symbols {
		if err := writeSymbolEntry(w, sym, symbolNames[i]); err != nil {
			return err
		}
	}
	if _, err := w.Write(c.strings.bytes()); err != nil {
		return errors.Wrap(err, "cof: writing string table")
	}

	pos := uint64(c.Header.StringTableOffset) + uint64(c.Header.StringTableSize)
	for i, sec := range c.sections {
		pad := layouts[i].dataOffset - pos
		if pad > 0 {
			if _, err := w.Write(make([]byte, pad)); err != nil {
				return errors.Wrap(err, "cof: writing section padding")
			}
		}
		if _, err := w.Write(sec.Data()); err != nil {
			return errors.Wrapf(err, "cof: writing section %q data", sec.Name)
		}
		pos = layouts[i].dataOffset + sec.Size()

		for _, reloc := range sec.Relocations() {
			if err := writeRelocationEntry(w, reloc); err != nil {
				return err
			}
		}
		pos += uint64(len(sec.Relocations())) * RelocationEntrySize
	}

	if err := w.Flush(); err != nil {
		return errors.Wrapf(err, "cof: flushing %s", path)
	}
	return nil
}

func writeHeader(w *bufio.Writer, h Header) error {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:], h.Magic)
	binary.LittleEndian.PutUint16(buf[4:], h.VersionMajor)
	binary.LittleEndian.PutUint16(buf[6:], h.VersionMinor)
	binary.LittleEndian.PutUint32(buf[8:], h.Flags)
	binary.LittleEndian.PutUint32(buf[12:], h.TargetCount)
	binary.LittleEndian.PutUint32(buf[16:], h.SectionCount)
	binary.LittleEndian.PutUint32(buf[20:], h.SymbolCount)
	binary.LittleEndian.PutUint32(buf[24:], h.StringTableSize)
	binary.LittleEndian.PutUint64(buf[28:], h.EntryPoint)
	binary.LittleEndian.PutUint64(buf[36:], h.Timestamp)
	copy(buf[44:60], h.UUID[:])
	binary.LittleEndian.PutUint32(buf[60:], h.HeaderSize)
	binary.LittleEndian.PutUint32(buf[64:], h.SectionTableOffset)
	binary.LittleEndian.PutUint32(buf[68:], h.SymbolTableOffset)
	binary.LittleEndian.PutUint32(buf[72:], h.StringTableOffset)
	binary.LittleEndian.PutUint32(buf[76:], h.TargetTableOffset)
	_, err := w.Write(buf)
	return errors.Wrap(err, "cof: writing header")
}

func writeTargetEntry(w *bufio.Writer, t TargetEntry, nameOffset uint32) error {
	buf := make([]byte, TargetEntrySize)
	binary.LittleEndian.PutUint32(buf[0:], t.TargetID)
	binary.LittleEndian.PutUint32(buf[4:], t.ArchType)
	binary.LittleEndian.PutUint32(buf[8:], t.Features)
	binary.LittleEndian.PutUint32(buf[12:], nameOffset)
	binary.LittleEndian.PutUint32(buf[16:], t.ConfigOffset)
	binary.LittleEndian.PutUint32(buf[20:], t.ConfigSize)
	_, err := w.Write(buf)
	return errors.Wrap(err, "cof: writing target entry")
}

func writeSectionEntry(w *bufio.Writer, sec *ir.Section, nameOffset uint32, l sectionLayout) error {
	buf := make([]byte, SectionEntrySize)
	binary.LittleEndian.PutUint32(buf[0:], nameOffset)
	binary.LittleEndian.PutUint32(buf[4:], uint32(sec.Type))
	binary.LittleEndian.PutUint32(buf[8:], uint32(sec.Flags))
	binary.LittleEndian.PutUint32(buf[12:], sec.TargetID)
	binary.LittleEndian.PutUint64(buf[16:], sec.VirtualAddress)
	binary.LittleEndian.PutUint64(buf[24:], sec.Size())
	binary.LittleEndian.PutUint64(buf[32:], l.dataOffset)
	binary.LittleEndian.PutUint32(buf[40:], sec.Alignment)
	binary.LittleEndian.PutUint32(buf[44:], uint32(len(sec.Relocations())))
	binary.LittleEndian.PutUint32(buf[48:], l.relocOffset)
	_, err := w.Write(buf)
	return errors.Wrapf(err, "cof: writing section %q entry", sec.Name)
}

func writeSymbolEntry(w *bufio.Writer, sym ir.Symbol, nameOffset uint32) error {
	buf := make([]byte, SymbolEntrySize)
	binary.LittleEndian.PutUint32(buf[0:], nameOffset)
	binary.LittleEndian.PutUint32(buf[4:], sym.SectionIndex)
	binary.LittleEndian.PutUint64(buf[8:], sym.Value)
	binary.LittleEndian.PutUint64(buf[16:], sym.Size)
	binary.LittleEndian.PutUint16(buf[24:], uint16(sym.Type))
	binary.LittleEndian.PutUint16(buf[26:], uint16(sym.Flags))
	binary.LittleEndian.PutUint32(buf[28:], sym.TargetID)
	_, err := w.Write(buf)
	return errors.Wrapf(err, "cof: writing symbol %q entry", sym.Name)
}

func writeRelocationEntry(w *bufio.Writer, r ir.RelocationEntry) error {
	buf := make([]byte, RelocationEntrySize)
	binary.LittleEndian.PutUint64(buf[0:], r.Offset)
	binary.LittleEndian.PutUint32(buf[8:], r.SymbolIndex)
	binary.LittleEndian.PutUint32(buf[12:], r.Type)
	binary.LittleEndian.PutUint64(buf[16:], uint64(r.Addend))
	binary.LittleEndian.PutUint32(buf[24:], r.TargetID)
	_, err := w.Write(buf)
	return errors.Wrap(err, "cof: writing relocation entry")
}
