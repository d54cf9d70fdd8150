package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/mouse-blink/goistanbul/internal/coverage"
)

// TextReporter prints the istanbul per-file table.
type TextReporter struct {
	opts Options
}

// Name implements Reporter.
func (r *TextReporter) Name() string { return "text" }

// File implements Reporter.
func (r *TextReporter) File() string { return "" }

// Write implements Reporter.
func (r *TextReporter) Write(w io.Writer, cm *coverage.CoverageMap) error {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"File", "% Stmts", "% Branch", "% Funcs", "% Lines", "Uncovered Line #s"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
	})

	table.Append(summaryRow("All files", cm.CoverageSummary(), ""))

	for _, path := range cm.Files() {
		fc, _ := cm.CoverageForFile(path)
		table.Append(summaryRow(displayPath(r.opts.Root, path), fc.ToSummary(), formatLineRanges(fc.UncoveredLines())))
	}

	table.Render()

	_, err := w.Write(tableBuffer.Bytes())

	return err
}

func summaryRow(name string, s coverage.CoverageSummary, uncovered string) []string {
	return []string{
		name,
		s.Statements.Pct.String(),
		s.Branches.Pct.String(),
		s.Functions.Pct.String(),
		s.Lines.Pct.String(),
		uncovered,
	}
}

// TextSummaryReporter prints the four overall totals.
type TextSummaryReporter struct{}

// Name implements Reporter.
func (r *TextSummaryReporter) Name() string { return "text-summary" }

// File implements Reporter.
func (r *TextSummaryReporter) File() string { return "" }

// Write implements Reporter.
func (r *TextSummaryReporter) Write(w io.Writer, cm *coverage.CoverageMap) error {
	s := cm.CoverageSummary()

	const width = 80

	title := " Coverage summary "
	pad := (width - len(title)) / 2

	writef(w, "\n%s%s%s\n", strings.Repeat("=", pad), title, strings.Repeat("=", width-pad-len(title)))
	writef(w, "%s\n", totalsLine("Statements", s.Statements))
	writef(w, "%s\n", totalsLine("Branches", s.Branches))
	writef(w, "%s\n", totalsLine("Functions", s.Functions))
	writef(w, "%s\n", totalsLine("Lines", s.Lines))
	writef(w, "%s\n", strings.Repeat("=", width))

	return nil
}

func totalsLine(label string, t coverage.Totals) string {
	return fmt.Sprintf("%-12s : %s%% ( %d/%d )", label, t.Pct, t.Covered, t.Total)
}
