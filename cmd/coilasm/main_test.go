package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultOutputName(t *testing.T) {
	cases := map[string]string{
		"foo.asm":       "foo.cof",
		"/tmp/bar.coil": "/tmp/bar.cof",
		"noext":         "noext.cof",
	}
	for in, want := range cases {
		if got := defaultOutputName(in); got != want {
			t.Errorf("defaultOutputName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRunAssembleAndDisassemble(t *testing.T) {
	dir := t.TempDir()
	src := "DIR HINT main FUNC GLOBAL\nDIR LABEL main\n  FRAME ENTER\n  CF RET\nDIR HINT main ENDFUNC\n"
	input := filepath.Join(dir, "prog.asm")
	if err := os.WriteFile(input, []byte(src), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	output := filepath.Join(dir, "prog.cof")

	if err := runAssemble(input, output, defaultTarget); err != nil {
		t.Fatalf("runAssemble: %v", err)
	}
	if err := runDisassemble(output); err != nil {
		t.Fatalf("runDisassemble: %v", err)
	}
}
