package controller

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/goistanbul/internal/coverage"
	m "github.com/mouse-blink/goistanbul/internal/model"
	"github.com/mouse-blink/goistanbul/internal/report"
)

// sampleCoverage has one file with 1/2 statements and 1/1 functions covered.
func sampleCoverage(t *testing.T, path string) *coverage.CoverageMap {
	t.Helper()

	sc := coverage.NewSourceCoverage(path, false)
	sc.NewStatement(m.NewRange(1, 0, 1, 10))
	sc.NewStatement(m.NewRange(2, 0, 2, 10))
	sc.NewFunction("run", m.NewRange(1, 0, 1, 10), m.NewRange(1, 11, 3, 1))

	fc := sc.Snapshot()
	fc.S = []uint32{1, 0}
	fc.F = []uint32{1}

	cm, err := coverage.CoverageMapFrom(fc)
	if err != nil {
		t.Fatalf("CoverageMapFrom() error = %v", err)
	}

	return cm
}

func newTestSimpleUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func TestSimpleUI_DisplayInstrumented_PrintsTable(t *testing.T) {
	ui, buf := newTestSimpleUI()

	files := []m.InstrumentedFile{
		{Source: m.Source{Origin: &m.File{Path: "path/a.go"}}, Statements: 4, Functions: 2, Branches: 1},
		{Source: m.Source{Origin: &m.File{Path: "path/b.go"}}, Statements: 3, Functions: 1},
		{Source: m.Source{Origin: &m.File{Path: "path/gen.go"}}, Ignored: true},
	}

	if err := ui.DisplayInstrumented(files); err != nil {
		t.Fatalf("DisplayInstrumented() error = %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"path/a.go",
		"path/b.go",
		"path/gen.go (ignored)",
		"TOTAL FILES 3",
		"7",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestSimpleUI_DisplayInstrumented_PrintsDiffs(t *testing.T) {
	ui, buf := newTestSimpleUI()

	files := []m.InstrumentedFile{
		{Source: m.Source{Origin: &m.File{Path: "a.go"}}, Diff: "--- a.go\n+++ a.go (instrumented)\n"},
	}

	if err := ui.DisplayInstrumented(files); err != nil {
		t.Fatalf("DisplayInstrumented() error = %v", err)
	}

	if !strings.Contains(buf.String(), "+++ a.go (instrumented)") {
		t.Fatalf("output missing diff\noutput:\n%s", buf.String())
	}
}

func TestSimpleUI_DisplayReport(t *testing.T) {
	ui, buf := newTestSimpleUI()

	r, err := report.New("text-summary", report.Options{})
	if err != nil {
		t.Fatalf("report.New() error = %v", err)
	}

	if err := ui.DisplayReport(r, sampleCoverage(t, "/p/a.go")); err != nil {
		t.Fatalf("DisplayReport() error = %v", err)
	}

	if !strings.Contains(buf.String(), "Statements   : 50% ( 1/2 )") {
		t.Fatalf("output missing summary\noutput:\n%s", buf.String())
	}
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	ui, buf := newTestSimpleUI()

	if err := ui.DisplaySummary(sampleCoverage(t, "/p/a.go")); err != nil {
		t.Fatalf("DisplaySummary() error = %v", err)
	}

	want := "Coverage: statements 50% (1/2), branches 100% (0/0), functions 100% (1/1), lines 50% (1/2)\n"
	if buf.String() != want {
		t.Fatalf("DisplaySummary() = %q, want %q", buf.String(), want)
	}
}

func TestSimpleUI_DisplaySummary_Empty(t *testing.T) {
	ui, buf := newTestSimpleUI()

	if err := ui.DisplaySummary(coverage.NewCoverageMap()); err != nil {
		t.Fatalf("DisplaySummary() error = %v", err)
	}

	if !strings.Contains(buf.String(), "No coverage information") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
