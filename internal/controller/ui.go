// Package controller provides output adapters for displaying instrumentation
// and coverage results.
package controller

import (
	"github.com/mouse-blink/goistanbul/internal/coverage"
	m "github.com/mouse-blink/goistanbul/internal/model"
	"github.com/mouse-blink/goistanbul/internal/report"
)

// UI defines how results reach the user.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	// DisplayInstrumented lists the files rewritten by an instrument pass.
	DisplayInstrumented(files []m.InstrumentedFile) error
	// DisplayReport renders a reporter that writes to the terminal.
	DisplayReport(r report.Reporter, cm *coverage.CoverageMap) error
	// DisplaySummary shows the totals of cm.
	DisplaySummary(cm *coverage.CoverageMap) error
}
