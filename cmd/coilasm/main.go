// Command coilasm assembles COIL textual assembly into a relocatable
// COF object (spec.md §1/§6).
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/LowLevelDaniel/coilasm/cof"
	"github.com/LowLevelDaniel/coilasm/diag"
	"github.com/LowLevelDaniel/coilasm/disasm"
	"github.com/LowLevelDaniel/coilasm/ir"
	"github.com/LowLevelDaniel/coilasm/parser"
	"github.com/LowLevelDaniel/coilasm/token"
)

const defaultTarget = "x86-64"

func main() {
	output := flag.String("o", "", "output file (default: input with .cof extension)")
	targetName := flag.String("t", defaultTarget, "target architecture")
	verbose := flag.Bool("v", false, "raise logging to debug level")
	disassemble := flag.Bool("d", false, "disassemble an existing .cof file instead of assembling")
	flag.Usage = usage
	flag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if flag.NArg() != 1 {
		usage()
		os.Exit(1)
	}
	input := flag.Arg(0)

	if *disassemble {
		if err := runDisassemble(input); err != nil {
			log.WithError(err).Error("disassembly failed")
			os.Exit(1)
		}
		return
	}

	out := *output
	if out == "" {
		out = defaultOutputName(input)
	}
	if err := runAssemble(input, out, *targetName); err != nil {
		log.WithError(err).Error("assembly failed")
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: coilasm [-o <output>] [-t <target>] [-v] [-d] [-h|--help] <input>\n")
	flag.PrintDefaults()
}

// defaultOutputName replaces input's extension with ".cof", or appends
// it if input has none (spec.md §6).
func defaultOutputName(input string) string {
	ext := filepath.Ext(input)
	if ext == "" {
		return input + ".cof"
	}
	return strings.TrimSuffix(input, ext) + ".cof"
}

func runAssemble(input, output, targetName string) error {
	log.Debugf("assembling %s -> %s (target %s)", input, output, targetName)

	archType, ok := ir.ArchByName(targetName)
	if !ok {
		return fmt.Errorf("unknown target %q", targetName)
	}

	src, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	diags := diag.New()
	lex := token.New(src, input, diags)
	tokens := lex.Tokenize()

	p := parser.New(tokens, diags)
	mod, ok := p.Parse()
	diags.PrintDefault()
	if !ok {
		return fmt.Errorf("%s: parse failed with %d diagnostic(s)", input, len(diags.Diagnostics()))
	}

	obj, err := cof.FromModule(mod, func() int64 { return time.Now().Unix() }, archType, targetName)
	if err != nil {
		return err
	}

	if err := obj.Write(output); err != nil {
		return err
	}
	log.Debugf("wrote %d section(s), %d symbol(s)", len(obj.Sections()), len(obj.Symbols()))
	return nil
}

func runDisassemble(input string) error {
	obj, err := cof.Read(input)
	if err != nil {
		return err
	}
	return disasm.Disassemble(obj, os.Stdout)
}
