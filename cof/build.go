package cof

import (
	"github.com/pkg/errors"

	"github.com/LowLevelDaniel/coilasm/ir"
)

// FromModule translates a parsed Module into a CofFile: one target
// entry for the requested architecture, one Section per section the
// Module registered (in declaration order), each function's
// instructions encoded and appended to its declaring section's data
// with a matching function Symbol, and one Symbol per module-scoped
// label. It validates every Function's pending label references before
// returning, since spec.md §4.4/§8 treats an unresolved label as a
// build-failing error rather than something the writer should silently
// emit.
func FromModule(mod *ir.Module, now Clock, archType ir.ArchType, targetName string) (*CofFile, error) {
	c, err := New(now)
	if err != nil {
		return nil, err
	}
	targetID := c.AddTarget(archType, 0, targetName)

	sectionIndex := make(map[string]uint32)
	for i, sec := range mod.Sections() {
		c.sections = append(c.sections, sec)
		sectionIndex[sec.Name] = uint32(i)
	}
	c.Header.SectionCount = uint32(len(c.sections))

	for _, fn := range mod.Functions() {
		sec, ok := mod.Section(fn.Section)
		if !ok {
			return nil, errors.Errorf("cof: function %q declares unknown section %q", fn.Name, fn.Section)
		}
		idx := sectionIndex[fn.Section]

		start := sec.Size()
		for _, inst := range fn.Instructions {
			enc, err := inst.Encode()
			if err != nil {
				return nil, errors.Wrapf(err, "cof: encoding function %q", fn.Name)
			}
			sec.AddData(enc)
		}
		size := sec.Size() - start

		c.AddSymbol(ir.Symbol{
			Name: fn.Name, SectionIndex: idx, Value: start, Size: size,
			Type: ir.SymbolFunction, Flags: fn.Flags, TargetID: targetID,
		})
	}

	for _, label := range mod.ModuleLabels() {
		idx, ok := sectionIndex[label.Section]
		if !ok {
			return nil, errors.Errorf("cof: label %q declares unknown section %q", label.Name, label.Section)
		}
		c.AddSymbol(ir.Symbol{
			Name: label.Name, SectionIndex: idx, Value: label.Offset,
			Type: ir.SymbolData, TargetID: targetID,
		})
	}

	for _, fn := range mod.Functions() {
		if err := fn.ResolveLabels(c.symbols, nil); err != nil {
			return nil, errors.Wrapf(err, "cof: function %q", fn.Name)
		}
	}

	if entry, ok := c.SymbolByName("main"); ok && entry.IsFunction() {
		c.SetEntryPoint(entry.Value)
	}

	return c, nil
}
