package domain

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/mouse-blink/goistanbul/internal/config"
	"github.com/mouse-blink/goistanbul/internal/coverage"
)

// ErrThresholdNotMet is returned when coverage falls below a configured minimum.
var ErrThresholdNotMet = errors.New("coverage threshold not met")

// CheckThresholds compares summary against the configured minimums. A zero
// minimum disables its check, and a metric with nothing to measure passes.
func CheckThresholds(summary coverage.CoverageSummary, min config.Thresholds) error {
	checks := []struct {
		name   string
		min    float64
		totals coverage.Totals
	}{
		{"statements", min.Statements, summary.Statements},
		{"branches", min.Branches, summary.Branches},
		{"functions", min.Functions, summary.Functions},
		{"lines", min.Lines, summary.Lines},
	}

	var failed []string

	for _, c := range checks {
		if c.min <= 0 {
			continue
		}

		pct, known := c.totals.Pct.Value()
		if !known || pct >= c.min {
			continue
		}

		failed = append(failed, fmt.Sprintf("%s %s%% < %v%%", c.name, c.totals.Pct, c.min))
	}

	if len(failed) == 0 {
		return nil
	}

	return errors.Wrap(ErrThresholdNotMet, strings.Join(failed, ", "))
}
