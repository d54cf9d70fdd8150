package controller

import (
	"github.com/mouse-blink/goistanbul/internal/coverage"
)

// Message types.
type summaryMsg struct {
	total coverage.CoverageSummary
	files []fileItem
}

func newSummaryMsg(cm *coverage.CoverageMap) summaryMsg {
	msg := summaryMsg{total: cm.CoverageSummary()}

	for _, path := range cm.Files() {
		fc, _ := cm.CoverageForFile(path)
		msg.files = append(msg.files, fileItem{path: path, summary: fc.ToSummary()})
	}

	return msg
}

// List item types.
type fileItem struct {
	path    string
	summary coverage.CoverageSummary
}

func (f fileItem) FilterValue() string {
	return f.path
}
