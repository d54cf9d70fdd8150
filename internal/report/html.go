package report

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/mouse-blink/goistanbul/internal/coverage"
)

// HTMLReporter renders per-file percentages as an interactive bar chart.
type HTMLReporter struct {
	opts Options
}

// Name implements Reporter.
func (r *HTMLReporter) Name() string { return "html" }

// File implements Reporter.
func (r *HTMLReporter) File() string { return "index.html" }

// Write implements Reporter.
func (r *HTMLReporter) Write(w io.Writer, cm *coverage.CoverageMap) error {
	title := r.opts.Title
	if title == "" {
		title = "Coverage report"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithInitializationOpts(opts.Initialization{
		Theme:     types.ThemeWesteros,
		PageTitle: title,
		Height:    "900px",
	}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle(cm.CoverageSummary()),
		}))

	labels := make([]string, 0, cm.Len())
	stmts := make([]opts.BarData, 0, cm.Len())
	branches := make([]opts.BarData, 0, cm.Len())
	funcs := make([]opts.BarData, 0, cm.Len())
	lines := make([]opts.BarData, 0, cm.Len())

	for _, path := range cm.Files() {
		fc, _ := cm.CoverageForFile(path)
		s := fc.ToSummary()

		labels = append(labels, displayPath(r.opts.Root, path))
		stmts = append(stmts, barValue(s.Statements))
		branches = append(branches, barValue(s.Branches))
		funcs = append(funcs, barValue(s.Functions))
		lines = append(lines, barValue(s.Lines))
	}

	bar.SetXAxis(labels).
		AddSeries("% Stmts", stmts).
		AddSeries("% Branch", branches).
		AddSeries("% Funcs", funcs).
		AddSeries("% Lines", lines)
	bar.XYReversal()

	return errors.Wrap(bar.Render(w), "rendering HTML report")
}

func barValue(t coverage.Totals) opts.BarData {
	pct, _ := t.Pct.Value()
	return opts.BarData{Value: pct}
}

func subtitle(s coverage.CoverageSummary) string {
	return "Statements " + s.Statements.Pct.String() + "%, Branches " + s.Branches.Pct.String() +
		"%, Functions " + s.Functions.Pct.String() + "%, Lines " + s.Lines.Pct.String() + "%"
}
