package cof

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/LowLevelDaniel/coilasm/diag"
	"github.com/LowLevelDaniel/coilasm/ir"
	"github.com/LowLevelDaniel/coilasm/parser"
	"github.com/LowLevelDaniel/coilasm/token"
)

func fixedClock() int64 { return 1735689600 } // 2025-01-01T00:00:00Z

func buildModule(t *testing.T, src string) *ir.Module {
	t.Helper()
	diags := diag.New()
	lex := token.New([]byte(src), "test.asm", diags)
	p := parser.New(lex.Tokenize(), diags)
	mod, ok := p.Parse()
	if !ok {
		for _, d := range diags.Diagnostics() {
			t.Logf("diagnostic: %s", d)
		}
		t.Fatal("expected Parse to succeed")
	}
	return mod
}

// sectionSummary and symbolSummary capture only the fields a round trip must preserve,
// sidestepping ir.Section's unexported buffers so cmp.Diff can compare
// plain structs instead of needing IgnoreUnexported.
type sectionSummary struct {
	Name      string
	Type      ir.SectionType
	Flags     ir.SectionFlags
	Alignment uint32
	Data      []byte
}

type symbolSummary struct {
	Name         string
	SectionIndex uint32
	Value        uint64
	Size         uint64
	Type         ir.SymbolType
	Flags        ir.SymbolFlags
}

func summarizeSections(c *CofFile) []sectionSummary {
	var out []sectionSummary
	for _, s := range c.Sections() {
		out = append(out, sectionSummary{s.Name, s.Type, s.Flags, s.Alignment, append([]byte(nil), s.Data()...)})
	}
	return out
}

func summarizeSymbols(c *CofFile) []symbolSummary {
	var out []symbolSummary
	for _, s := range c.Symbols() {
		out = append(out, symbolSummary{s.Name, s.SectionIndex, s.Value, s.Size, s.Type, s.Flags})
	}
	return out
}

func TestFromModuleAndRoundTrip(t *testing.T) {
	src := `
DIR SECT text READ EXEC
DIR HINT main FUNC GLOBAL
DIR LABEL main
  FRAME ENTER
  MEM MOV R0, 42
  FRAME LEAVE
  CF RET
DIR HINT main ENDFUNC
`
	mod := buildModule(t, src)

	built, err := FromModule(mod, fixedClock, ir.ArchX86_64, "x86-64")
	if err != nil {
		t.Fatalf("FromModule: %v", err)
	}
	if !built.HasEntryPoint() {
		t.Error("expected entry point to be set from the 'main' symbol")
	}
	if len(built.Sections()) != 1 || built.Sections()[0].Name != "text" {
		t.Fatalf("sections = %+v, want one 'text' section", built.Sections())
	}
	mainSym, ok := built.SymbolByName("main")
	if !ok || !mainSym.IsFunction() {
		t.Fatalf("SymbolByName(main) = (%+v, %v)", mainSym, ok)
	}

	path := filepath.Join(t.TempDir(), "test.cof")
	if err := built.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	read, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if read.Header.Magic != Magic {
		t.Errorf("Magic = %#x, want %#x", read.Header.Magic, Magic)
	}
	if read.Header.VersionMajor != VersionMajor || read.Header.VersionMinor != VersionMinor {
		t.Errorf("version = %d.%d, want %d.%d", read.Header.VersionMajor, read.Header.VersionMinor, VersionMajor, VersionMinor)
	}
	if read.Header.Timestamp != uint64(fixedClock()) {
		t.Errorf("Timestamp = %d, want %d", read.Header.Timestamp, fixedClock())
	}
	if read.Header.UUID != built.Header.UUID {
		t.Errorf("UUID mismatch after round trip: got %x, want %x", read.Header.UUID, built.Header.UUID)
	}
	if read.Header.EntryPoint != built.Header.EntryPoint {
		t.Errorf("EntryPoint = %d, want %d", read.Header.EntryPoint, built.Header.EntryPoint)
	}
	if read.HasEntryPoint() != built.HasEntryPoint() {
		t.Errorf("HasEntryPoint() = %v, want %v", read.HasEntryPoint(), built.HasEntryPoint())
	}

	if diff := cmp.Diff(summarizeSections(built), summarizeSections(read)); diff != "" {
		t.Errorf("section round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(summarizeSymbols(built), summarizeSymbols(read)); diff != "" {
		t.Errorf("symbol round trip mismatch (-want +got):\n%s", diff)
	}
	if len(read.Targets) != 1 || read.Targets[0].Name != "x86-64" {
		t.Errorf("Targets = %+v, want one entry named x86-64", read.Targets)
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	src := `
DIR HINT f FUNC
DIR LABEL f
  CF RET
DIR HINT f ENDFUNC
`
	mod1 := buildModule(t, src)
	mod2 := buildModule(t, src)

	built1, err := FromModule(mod1, fixedClock, ir.ArchX86_64, "x86-64")
	if err != nil {
		t.Fatalf("FromModule: %v", err)
	}
	built1.Header.UUID = [16]byte{1, 2, 3, 4}
	built2, err := FromModule(mod2, fixedClock, ir.ArchX86_64, "x86-64")
	if err != nil {
		t.Fatalf("FromModule: %v", err)
	}
	built2.Header.UUID = built1.Header.UUID

	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.cof")
	p2 := filepath.Join(dir, "b.cof")
	if err := built1.Write(p1); err != nil {
		t.Fatalf("Write a: %v", err)
	}
	if err := built2.Write(p2); err != nil {
		t.Fatalf("Write b: %v", err)
	}

	a, err := Read(p1)
	if err != nil {
		t.Fatalf("Read a: %v", err)
	}
	b, err := Read(p2)
	if err != nil {
		t.Fatalf("Read b: %v", err)
	}
	if diff := cmp.Diff(summarizeSections(a), summarizeSections(b)); diff != "" {
		t.Errorf("determinism mismatch in sections (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(summarizeSymbols(a), summarizeSymbols(b)); diff != "" {
		t.Errorf("determinism mismatch in symbols (-a +b):\n%s", diff)
	}
}

func TestWriteIsDeterministicWithMultipleModuleLabels(t *testing.T) {
	src := `
DIR LABEL alpha
DIR LABEL beta
DIR LABEL gamma
`
	mod1 := buildModule(t, src)
	mod2 := buildModule(t, src)

	built1, err := FromModule(mod1, fixedClock, ir.ArchX86_64, "x86-64")
	if err != nil {
		t.Fatalf("FromModule: %v", err)
	}
	built2, err := FromModule(mod2, fixedClock, ir.ArchX86_64, "x86-64")
	if err != nil {
		t.Fatalf("FromModule: %v", err)
	}

	wantNames := []string{"alpha", "beta", "gamma"}
	for i, sym := range built1.Symbols() {
		if sym.Name != wantNames[i] {
			t.Fatalf("built1 symbol %d = %q, want %q (declaration order)", i, sym.Name, wantNames[i])
		}
	}
	if diff := cmp.Diff(summarizeSymbols(built1), summarizeSymbols(built2)); diff != "" {
		t.Errorf("symbol order differs between two builds of the same Module (-built1 +built2):\n%s", diff)
	}

	built1.Header.UUID = [16]byte{1, 2, 3, 4}
	built2.Header.UUID = built1.Header.UUID

	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.cof")
	p2 := filepath.Join(dir, "b.cof")
	if err := built1.Write(p1); err != nil {
		t.Fatalf("Write a: %v", err)
	}
	if err := built2.Write(p2); err != nil {
		t.Fatalf("Write b: %v", err)
	}
	a, err := Read(p1)
	if err != nil {
		t.Fatalf("Read a: %v", err)
	}
	b, err := Read(p2)
	if err != nil {
		t.Fatalf("Read b: %v", err)
	}
	if diff := cmp.Diff(summarizeSymbols(a), summarizeSymbols(b)); diff != "" {
		t.Errorf("determinism mismatch in symbols after round trip (-a +b):\n%s", diff)
	}
}

func TestFromModuleUnresolvedLabelIsError(t *testing.T) {
	src := `
DIR HINT f FUNC
DIR LABEL f
  CF BR nowhere
DIR HINT f ENDFUNC
`
	mod := buildModule(t, src)
	if _, err := FromModule(mod, fixedClock, ir.ArchX86_64, "x86-64"); err == nil {
		t.Fatal("expected FromModule to fail on an unresolved label reference")
	}
}
