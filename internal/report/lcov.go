package report

import (
	"io"

	"github.com/mouse-blink/goistanbul/internal/coverage"
)

// LCOVReporter outputs coverage in LCOV tracefile format.
// This is compatible with genhtml and many IDE extensions.
type LCOVReporter struct{}

// Name implements Reporter.
func (r *LCOVReporter) Name() string { return "lcov" }

// File implements Reporter.
func (r *LCOVReporter) File() string { return "lcov.info" }

// Write implements Reporter.
func (r *LCOVReporter) Write(w io.Writer, cm *coverage.CoverageMap) error {
	for _, path := range cm.Files() {
		fc, _ := cm.CoverageForFile(path)

		writef(w, "TN:\n")
		writef(w, "SF:%s\n", path)

		var fnHit int

		for i, fn := range fc.FnMap {
			writef(w, "FN:%d,%s\n", fn.Decl.Start.Line, fn.Name)

			if fc.F[i] > 0 {
				fnHit++
			}
		}

		for i, fn := range fc.FnMap {
			writef(w, "FNDA:%d,%s\n", fc.F[i], fn.Name)
		}

		writef(w, "FNF:%d\n", len(fc.FnMap))
		writef(w, "FNH:%d\n", fnHit)

		var brFound, brHit int

		for i, branch := range fc.BranchMap {
			line := branch.RepresentativeLine()

			for j, hits := range fc.B[i] {
				brFound++

				if hits > 0 {
					brHit++
				}

				writef(w, "BRDA:%d,%d,%d,%d\n", line, i, j, hits)
			}
		}

		writef(w, "BRF:%d\n", brFound)
		writef(w, "BRH:%d\n", brHit)

		lines := fc.LineCoverage()

		var lineHit int

		for _, line := range sortedLines(lines) {
			writef(w, "DA:%d,%d\n", line, lines[line])

			if lines[line] > 0 {
				lineHit++
			}
		}

		writef(w, "LF:%d\n", len(lines))
		writef(w, "LH:%d\n", lineHit)
		writef(w, "end_of_record\n")
	}

	return nil
}
