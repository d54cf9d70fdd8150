package controller

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/goistanbul/internal/coverage"
	m "github.com/mouse-blink/goistanbul/internal/model"
	"github.com/mouse-blink/goistanbul/internal/report"
)

// SimpleUI implements UI with plain text written to the command output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayInstrumented prints a table of instrumented files followed by any
// diffs.
func (s *SimpleUI) DisplayInstrumented(files []m.InstrumentedFile) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "Statements", "Functions", "Branches"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	var stmts, funcs, branches int

	for _, file := range files {
		path := originPath(file.Source)
		if file.Ignored {
			table.Append([]string{path + " (ignored)", "-", "-", "-"})
			continue
		}

		table.Append([]string{
			path,
			fmt.Sprintf("%d", file.Statements),
			fmt.Sprintf("%d", file.Functions),
			fmt.Sprintf("%d", file.Branches),
		})

		stmts += file.Statements
		funcs += file.Functions
		branches += file.Branches
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(files)),
		fmt.Sprintf("%d", stmts),
		fmt.Sprintf("%d", funcs),
		fmt.Sprintf("%d", branches),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	for _, file := range files {
		if file.Diff != "" {
			s.printf("\n%s", file.Diff)
		}
	}

	return nil
}

// DisplayReport writes the report to the command output.
func (s *SimpleUI) DisplayReport(r report.Reporter, cm *coverage.CoverageMap) error {
	return r.Write(s.cmd.OutOrStdout(), cm)
}

// DisplaySummary prints the totals on one line.
func (s *SimpleUI) DisplaySummary(cm *coverage.CoverageMap) error {
	if cm.Len() == 0 {
		s.printf("No coverage information was collected\n")
		return nil
	}

	summary := cm.CoverageSummary()
	s.printf("Coverage: statements %s, branches %s, functions %s, lines %s\n",
		formatTotals(summary.Statements),
		formatTotals(summary.Branches),
		formatTotals(summary.Functions),
		formatTotals(summary.Lines),
	)

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func formatTotals(t coverage.Totals) string {
	return fmt.Sprintf("%s%% (%d/%d)", t.Pct, t.Covered, t.Total)
}

func originPath(source m.Source) string {
	if source.Origin == nil {
		return ""
	}

	return string(source.Origin.Path)
}
