package diag

import (
	"bytes"
	"strings"
	"testing"
)

func TestEngineLatchesOnError(t *testing.T) {
	tests := []struct {
		name       string
		severities []Severity
		wantLatch  bool
	}{
		{"no diagnostics", nil, false},
		{"only notes", []Severity{Note, Note}, false},
		{"note and warning", []Severity{Note, Warning}, false},
		{"single error", []Severity{Error}, true},
		{"warning then fatal", []Severity{Warning, Fatal}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New()
			for _, sev := range tt.severities {
				e.Report(sev, Syntax, "msg", Location{"f.asm", 1, 1})
			}
			if e.Latched() != tt.wantLatch {
				t.Errorf("Latched() = %v, want %v", e.Latched(), tt.wantLatch)
			}
		})
	}
}

func TestEnginePreservesReportOrder(t *testing.T) {
	e := New()
	e.Error(Syntax, "first", Location{"f.asm", 3, 1})
	e.Error(Syntax, "second", Location{"f.asm", 1, 1})
	diags := e.Diagnostics()
	if len(diags) != 2 || diags[0].Message != "first" || diags[1].Message != "second" {
		t.Fatalf("diagnostics not preserved in report order: %+v", diags)
	}
}

func TestPrintRoutesBySeverity(t *testing.T) {
	e := New()
	e.Note(Syntax, "a note", Location{"f.asm", 1, 1})
	e.Warning(Syntax, "a warning", Location{"f.asm", 2, 1})
	e.Error(Semantic, "an error", Location{"f.asm", 3, 1})

	var out, errOut bytes.Buffer
	e.Print(&out, &errOut)

	if !strings.Contains(out.String(), "a note") || !strings.Contains(out.String(), "a warning") {
		t.Errorf("stdout missing note/warning: %q", out.String())
	}
	if strings.Contains(out.String(), "an error") {
		t.Errorf("stdout should not contain error: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "an error") {
		t.Errorf("stderr missing error: %q", errOut.String())
	}
}

func TestClearResetsLatch(t *testing.T) {
	e := New()
	e.Error(Syntax, "boom", Location{"f.asm", 1, 1})
	if !e.Latched() {
		t.Fatal("expected latch after error")
	}
	e.Clear()
	if e.Latched() || e.HasDiagnostics() {
		t.Fatal("expected clean engine after Clear")
	}
}

func TestDiagnosticStringFormat(t *testing.T) {
	d := Diagnostic{Severity: Error, Kind: Syntax, Message: "unexpected token", Location: Location{"a.coil", 4, 7}}
	want := "a.coil:4:7: error: unexpected token"
	if got := d.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
