// Package disasm renders a CofFile's sections back to COIL's textual
// form: code sections are decoded instruction by instruction, other
// sections are dumped as byte listings, both annotated with the
// symbols defined at each offset.
package disasm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/LowLevelDaniel/coilasm/cof"
	"github.com/LowLevelDaniel/coilasm/instruction"
	"github.com/LowLevelDaniel/coilasm/ir"
)

const bytesPerLine = 16

// Disassemble writes a textual listing of every section in c to w, in
// section declaration order.
func Disassemble(c *cof.CofFile, w io.Writer) error {
	bw := bufio.NewWriter(w)

	symbolsBySection := make(map[uint32][]ir.Symbol)
	for _, sym := range c.Symbols() {
		symbolsBySection[sym.SectionIndex] = append(symbolsBySection[sym.SectionIndex], sym)
	}

	for i, sec := range c.Sections() {
		fmt.Fprintf(bw, "; section %q (type=%d flags=%#x size=%d)\n", sec.Name, sec.Type, sec.Flags, sec.Size())
		labels := labelsByOffset(symbolsBySection[uint32(i)])

		var err error
		if sec.Type == ir.SectionCode {
			err = disassembleCode(bw, sec.Data(), labels)
		} else {
			err = dumpBytes(bw, sec.Data(), labels)
		}
		if err != nil {
			return errors.Wrapf(err, "disasm: section %q", sec.Name)
		}
		fmt.Fprintln(bw)
	}

	return errors.Wrap(bw.Flush(), "disasm: writing output")
}

func labelsByOffset(symbols []ir.Symbol) map[uint64][]string {
	out := make(map[uint64][]string)
	for _, sym := range symbols {
		out[sym.Value] = append(out[sym.Value], sym.Name)
	}
	return out
}

func disassembleCode(w *bufio.Writer, data []byte, labels map[uint64][]string) error {
	offset := 0
	for offset < len(data) {
		for _, name := range labels[uint64(offset)] {
			fmt.Fprintf(w, "%s:\n", name)
		}
		inst, next, err := instruction.Decode(data, offset)
		if err != nil {
			return errors.Wrapf(err, "decoding instruction at offset %d", offset)
		}
		fmt.Fprintf(w, "%#06x: %s\n", offset, inst.String())
		offset = next
	}
	return nil
}

func dumpBytes(w *bufio.Writer, data []byte, labels map[uint64][]string) error {
	for offset := 0; offset < len(data); offset += bytesPerLine {
		for _, name := range labels[uint64(offset)] {
			fmt.Fprintf(w, "%s:\n", name)
		}
		end := offset + bytesPerLine
		if end > len(data) {
			end = len(data)
		}
		fmt.Fprintf(w, "%#06x: ", offset)
		for i, b := range data[offset:end] {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%02x", b)
		}
		fmt.Fprintln(w)
	}
	return nil
}
