// Package coverage implements the istanbul coverage data model: per-file
// records, the builder used during instrumentation, summaries and the
// keyed map used at report time.
//
// Statement, function and branch indices are dense and start at zero, so
// every map of the wire format is held as a slice here and only turned into
// string keys by the JSON codec.
package coverage

import (
	"sort"

	"github.com/cockroachdb/errors"

	m "github.com/mouse-blink/goistanbul/internal/model"
)

// Sentinel errors returned by merge and decode operations.
var (
	ErrPathMismatch      = errors.New("coverage paths differ")
	ErrShapeMismatch     = errors.New("coverage shapes differ")
	ErrSchemaMismatch    = errors.New("coverage schema mismatch")
	ErrMalformedCoverage = errors.New("malformed coverage record")
)

// FileCoverage holds the declarations and hit counts of one source file.
//
// S, F and B are parallel to StatementMap, FnMap and BranchMap; B[i] is
// parallel to BranchMap[i].Locations. BT is nil unless the file was created
// in report-logic mode, and then only holds entries for branches that track
// truthy evaluations.
type FileCoverage struct {
	Path           string
	All            bool
	StatementMap   []m.Range
	FnMap          []m.FunctionMapping
	BranchMap      []m.BranchMapping
	S              []uint32
	F              []uint32
	B              [][]uint32
	BT             map[int][]uint32
	InputSourceMap *m.SourceMap
}

// NewFileCoverage returns an empty record for path.
func NewFileCoverage(path string, reportLogic bool) *FileCoverage {
	fc := &FileCoverage{
		Path:         path,
		StatementMap: []m.Range{},
		FnMap:        []m.FunctionMapping{},
		BranchMap:    []m.BranchMapping{},
		S:            []uint32{},
		F:            []uint32{},
		B:            [][]uint32{},
	}

	if reportLogic {
		fc.BT = map[int][]uint32{}
	}

	return fc
}

// ReportLogic reports whether truthy evaluations are tracked.
func (fc *FileCoverage) ReportLogic() bool {
	return fc.BT != nil
}

// Clone returns a deep copy sharing no mutable state with fc.
func (fc *FileCoverage) Clone() *FileCoverage {
	out := &FileCoverage{
		Path:           fc.Path,
		All:            fc.All,
		StatementMap:   append([]m.Range{}, fc.StatementMap...),
		FnMap:          append([]m.FunctionMapping{}, fc.FnMap...),
		BranchMap:      make([]m.BranchMapping, len(fc.BranchMap)),
		S:              append([]uint32{}, fc.S...),
		F:              append([]uint32{}, fc.F...),
		B:              cloneHits(fc.B),
		InputSourceMap: fc.InputSourceMap.Clone(),
	}

	for i, b := range fc.BranchMap {
		out.BranchMap[i] = b.Clone()
	}

	if fc.BT != nil {
		out.BT = make(map[int][]uint32, len(fc.BT))
		for k, v := range fc.BT {
			out.BT[k] = append([]uint32{}, v...)
		}
	}

	return out
}

func cloneHits(hits [][]uint32) [][]uint32 {
	out := make([][]uint32, len(hits))
	for i, h := range hits {
		out[i] = append([]uint32{}, h...)
	}

	return out
}

// LineCoverage maps each line that starts a statement to the highest hit
// count among the statements starting there.
func (fc *FileCoverage) LineCoverage() map[uint32]uint32 {
	lines := make(map[uint32]uint32, len(fc.S))

	for idx, count := range fc.S {
		if idx >= len(fc.StatementMap) {
			panic(errors.AssertionFailedf("statement %d of %s has no location", idx, fc.Path))
		}

		line := fc.StatementMap[idx].Start.Line
		if prev, ok := lines[line]; !ok || prev < count {
			lines[line] = count
		}
	}

	return lines
}

// UncoveredLines returns the lines whose line coverage is zero, ascending.
func (fc *FileCoverage) UncoveredLines() []uint32 {
	var out []uint32

	for line, hits := range fc.LineCoverage() {
		if hits == 0 {
			out = append(out, line)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// BranchCoverage is the branch coverage of one line.
type BranchCoverage struct {
	Covered  uint32
	Total    uint32
	Coverage float64
}

// BranchCoverageByLine buckets every path counter by the representative line
// of its branch. Coverage is a plain covered/total*100 ratio. Lines whose
// branches have no paths yet are omitted.
func (fc *FileCoverage) BranchCoverageByLine() map[uint32]BranchCoverage {
	buckets := make(map[uint32][]uint32)

	for idx, branch := range fc.BranchMap {
		if idx >= len(fc.B) {
			panic(errors.AssertionFailedf("branch %d of %s has no counters", idx, fc.Path))
		}

		line := branch.RepresentativeLine()
		buckets[line] = append(buckets[line], fc.B[idx]...)
	}

	out := make(map[uint32]BranchCoverage, len(buckets))

	for line, hits := range buckets {
		// branches without paths have no ratio to report
		if len(hits) == 0 {
			continue
		}

		var covered uint32

		for _, h := range hits {
			if h > 0 {
				covered++
			}
		}

		total := uint32(len(hits))
		out[line] = BranchCoverage{
			Covered:  covered,
			Total:    total,
			Coverage: float64(covered) / float64(total) * 100,
		}
	}

	return out
}

// CompatibleWith returns nil when other describes the same file with the same
// declaration shape, so that hit counts can be added positionally.
func (fc *FileCoverage) CompatibleWith(other *FileCoverage) error {
	if fc.Path != other.Path {
		return errors.Wrapf(ErrPathMismatch, "%q vs %q", fc.Path, other.Path)
	}

	if fc.All || other.All {
		return nil
	}

	if len(fc.S) != len(other.S) || len(fc.F) != len(other.F) || len(fc.B) != len(other.B) {
		return errors.Wrapf(ErrShapeMismatch,
			"%s: %d/%d/%d statements/functions/branches vs %d/%d/%d",
			fc.Path, len(fc.S), len(fc.F), len(fc.B), len(other.S), len(other.F), len(other.B))
	}

	for i := range fc.B {
		if len(fc.B[i]) != len(other.B[i]) {
			return errors.Wrapf(ErrShapeMismatch, "%s: branch %d has %d paths vs %d",
				fc.Path, i, len(fc.B[i]), len(other.B[i]))
		}
	}

	for k, hits := range fc.BT {
		if theirs, ok := other.BT[k]; ok && len(theirs) != len(hits) {
			return errors.Wrapf(ErrShapeMismatch, "%s: branch %d has %d truthy counters vs %d",
				fc.Path, k, len(hits), len(theirs))
		}
	}

	return nil
}

// Merge adds the hit counts of other into fc. Both records must share path
// and shape; nothing is modified when they do not.
//
// A record marked All absorbs nothing: merging one in is a no-op, and merging
// into one replaces it with a copy of other.
func (fc *FileCoverage) Merge(other *FileCoverage) error {
	if err := fc.CompatibleWith(other); err != nil {
		return err
	}

	if other.All {
		return nil
	}

	if fc.All {
		*fc = *other.Clone()
		return nil
	}

	for i, h := range other.S {
		fc.S[i] += h
	}

	for i, h := range other.F {
		fc.F[i] += h
	}

	for i, paths := range other.B {
		for j, h := range paths {
			fc.B[i][j] += h
		}
	}

	for k, hits := range fc.BT {
		theirs, ok := other.BT[k]
		if !ok {
			continue
		}

		for j, h := range theirs {
			hits[j] += h
		}
	}

	return nil
}

// ResetHits zeroes every counter and keeps the declarations.
func (fc *FileCoverage) ResetHits() {
	clear(fc.S)
	clear(fc.F)

	for _, paths := range fc.B {
		clear(paths)
	}

	for _, hits := range fc.BT {
		clear(hits)
	}
}

// ToSummary computes the totals of this file.
func (fc *FileCoverage) ToSummary() CoverageSummary {
	lineHits := make([]uint32, 0, len(fc.S))
	for _, h := range fc.LineCoverage() {
		lineHits = append(lineHits, h)
	}

	var branchesTrue *Totals

	if fc.BT != nil {
		keys := make([]int, 0, len(fc.BT))
		for k := range fc.BT {
			keys = append(keys, k)
		}

		sort.Ints(keys)

		truthy := make([][]uint32, 0, len(keys))
		for _, k := range keys {
			truthy = append(truthy, fc.BT[k])
		}

		bt := computeBranchTotals(truthy)
		branchesTrue = &bt
	}

	return NewCoverageSummary(
		computeSimpleTotals(lineHits),
		computeSimpleTotals(fc.S),
		computeSimpleTotals(fc.F),
		computeBranchTotals(fc.B),
		branchesTrue,
	)
}
