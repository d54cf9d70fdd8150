package coverage

import (
	"fmt"

	"github.com/cockroachdb/errors"

	m "github.com/mouse-blink/goistanbul/internal/model"
)

// SourceCoverage builds the FileCoverage of one file while the instrumentor
// walks it. Every registration appends a fresh index; identical ranges are
// never deduplicated. Once frozen, any further structural change panics.
//
// A SourceCoverage is owned by a single traversal and is not safe for
// concurrent use.
type SourceCoverage struct {
	inner  *FileCoverage
	frozen bool
}

// NewSourceCoverage starts an empty builder for path.
func NewSourceCoverage(path string, reportLogic bool) *SourceCoverage {
	return &SourceCoverage{inner: NewFileCoverage(path, reportLogic)}
}

// Coverage gives read access to the record under construction.
func (sc *SourceCoverage) Coverage() *FileCoverage {
	return sc.inner
}

// Frozen reports whether Freeze has been called.
func (sc *SourceCoverage) Frozen() bool {
	return sc.frozen
}

func (sc *SourceCoverage) mustBuild(op string) {
	if sc.frozen {
		panic(errors.AssertionFailedf("%s on frozen coverage of %s", op, sc.inner.Path))
	}
}

// NewStatement registers a statement and returns its index.
func (sc *SourceCoverage) NewStatement(loc m.Range) int {
	sc.mustBuild("NewStatement")

	idx := len(sc.inner.StatementMap)
	sc.inner.StatementMap = append(sc.inner.StatementMap, loc)
	sc.inner.S = append(sc.inner.S, 0)

	return idx
}

// NewFunction registers a function and returns its index. An empty name is
// recorded as "(anonymous_N)".
func (sc *SourceCoverage) NewFunction(name string, decl, loc m.Range) int {
	sc.mustBuild("NewFunction")

	idx := len(sc.inner.FnMap)
	if name == "" {
		name = fmt.Sprintf("(anonymous_%d)", idx)
	}

	sc.inner.FnMap = append(sc.inner.FnMap, m.FunctionMapping{
		Name: name,
		Decl: decl,
		Loc:  loc,
		Line: decl.Start.Line,
	})
	sc.inner.F = append(sc.inner.F, 0)

	return idx
}

// NewBranch registers a branch without paths and returns its index. Truthy
// counters are kept for it when isReportLogic is set and the file was
// created in report-logic mode.
func (sc *SourceCoverage) NewBranch(branchType m.BranchType, loc m.Range, isReportLogic bool) int {
	sc.mustBuild("NewBranch")

	idx := len(sc.inner.BranchMap)
	l := loc
	line := loc.Start.Line

	sc.inner.BranchMap = append(sc.inner.BranchMap, m.BranchMapping{
		Loc:       &l,
		Type:      branchType,
		Locations: []m.Range{},
		Line:      &line,
	})
	sc.inner.B = append(sc.inner.B, []uint32{})

	if isReportLogic && sc.inner.BT != nil {
		sc.inner.BT[idx] = []uint32{}
	}

	return idx
}

// AddBranchPath appends a path to branch and returns the path's position
// within it. It panics when branch was never created.
func (sc *SourceCoverage) AddBranchPath(branch int, loc m.Range) int {
	sc.mustBuild("AddBranchPath")

	if branch < 0 || branch >= len(sc.inner.BranchMap) {
		panic(errors.AssertionFailedf("invalid branch %d in %s", branch, sc.inner.Path))
	}

	sc.inner.BranchMap[branch].Locations = append(sc.inner.BranchMap[branch].Locations, loc)
	sc.inner.B[branch] = append(sc.inner.B[branch], 0)

	if hits, ok := sc.inner.BT[branch]; ok {
		sc.inner.BT[branch] = append(hits, 0)
	}

	return len(sc.inner.B[branch]) - 1
}

// SetInputSourceMap attaches a source map. The last call wins.
func (sc *SourceCoverage) SetInputSourceMap(sourceMap *m.SourceMap) {
	sc.mustBuild("SetInputSourceMap")

	sc.inner.InputSourceMap = sourceMap.Clone()
}

// MarkAll flags the whole file as a single covered unit.
func (sc *SourceCoverage) MarkAll() {
	sc.mustBuild("MarkAll")

	sc.inner.All = true
}

// Freeze ends the building phase. It is idempotent.
func (sc *SourceCoverage) Freeze() {
	sc.frozen = true
}

// Snapshot freezes the builder and returns an independent copy of the record.
func (sc *SourceCoverage) Snapshot() *FileCoverage {
	sc.Freeze()

	return sc.inner.Clone()
}
