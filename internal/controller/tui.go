package controller

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"

	"github.com/mouse-blink/goistanbul/internal/coverage"
	m "github.com/mouse-blink/goistanbul/internal/model"
	"github.com/mouse-blink/goistanbul/internal/report"
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer
	// run drives a model until it quits.
	run func(model tea.Model) error
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	t := &TUI{output: output}
	t.run = func(model tea.Model) error {
		_, err := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen()).Run()
		return err
	}

	return t
}

// DisplayInstrumented prints totals of the instrument pass and any diffs.
func (t *TUI) DisplayInstrumented(files []m.InstrumentedFile) error {
	var stmts, funcs, branches, ignored int

	for _, file := range files {
		if file.Ignored {
			ignored++
			continue
		}

		stmts += file.Statements
		funcs += file.Functions
		branches += file.Branches
	}

	_, _ = fmt.Fprintf(t.output, "Instrumented %d files: %d statements, %d functions, %d branches (%d ignored)\n",
		len(files)-ignored, stmts, funcs, branches, ignored)

	for _, file := range files {
		if file.Diff != "" {
			_, _ = fmt.Fprintf(t.output, "\n%s", file.Diff)
		}
	}

	return nil
}

// DisplayReport writes the report to the terminal.
func (t *TUI) DisplayReport(r report.Reporter, cm *coverage.CoverageMap) error {
	return r.Write(t.output, cm)
}

// DisplaySummary opens a browser of per-file coverage.
func (t *TUI) DisplaySummary(cm *coverage.CoverageMap) error {
	if cm.Len() == 0 {
		_, _ = fmt.Fprintln(t.output, "No coverage information was collected")
		return nil
	}

	model := newSummaryModel().handleSummaryMsg(newSummaryMsg(cm))

	return errors.Wrap(t.run(model), "coverage browser")
}
