package coverage

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverageMap_InsertionOrder(t *testing.T) {
	cm := NewCoverageMap()

	for _, path := range []string{"z.go", "a.go", "m.go"} {
		require.NoError(t, cm.AddCoverageForFile(sampleCoverage(path, false)))
	}

	// re-adding an existing path keeps its slot
	require.NoError(t, cm.AddCoverageForFile(sampleCoverage("z.go", false)))

	assert.Equal(t, []string{"z.go", "a.go", "m.go"}, cm.Files())
	assert.Equal(t, 3, cm.Len())
}

func TestCoverageMap_AddMergesAndCopies(t *testing.T) {
	first := sampleCoverage("a.go", false)
	first.S[0] = 1

	cm, err := CoverageMapFrom(first)
	require.NoError(t, err)

	first.S[0] = 100

	second := sampleCoverage("a.go", false)
	second.S[0] = 2
	require.NoError(t, cm.AddCoverageForFile(second))

	got, ok := cm.CoverageForFile("a.go")
	require.True(t, ok)
	assert.Equal(t, uint32(3), got.S[0])

	_, ok = cm.CoverageForFile("missing.go")
	assert.False(t, ok)
}

func TestCoverageMap_Merge(t *testing.T) {
	left, err := CoverageMapFrom(sampleCoverage("a.go", false), sampleCoverage("b.go", false))
	require.NoError(t, err)

	b := sampleCoverage("b.go", false)
	b.F[0] = 4
	right, err := CoverageMapFrom(sampleCoverage("c.go", false), b)
	require.NoError(t, err)

	require.NoError(t, left.Merge(right))

	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, left.Files())

	gotB, _ := left.CoverageForFile("b.go")
	assert.Equal(t, uint32(4), gotB.F[0])
}

func TestCoverageMap_MergeFailureLeavesMapUntouched(t *testing.T) {
	left, err := CoverageMapFrom(sampleCoverage("a.go", false), sampleCoverage("b.go", false))
	require.NoError(t, err)

	a := sampleCoverage("a.go", false)
	a.S[0] = 5

	broken := sampleCoverage("b.go", false)
	broken.S = broken.S[:1]
	broken.StatementMap = broken.StatementMap[:1]

	right, err := CoverageMapFrom(a, sampleCoverage("new.go", false), broken)
	require.NoError(t, err)

	err = left.Merge(right)
	assert.True(t, errors.Is(err, ErrShapeMismatch), "got %v", err)

	gotA, _ := left.CoverageForFile("a.go")
	assert.Equal(t, uint32(0), gotA.S[0])
	assert.Equal(t, []string{"a.go", "b.go"}, left.Files())
}

func TestCoverageMap_Filter(t *testing.T) {
	cm, err := CoverageMapFrom(
		sampleCoverage("a.go", false),
		sampleCoverage("a_gen.go", false),
		sampleCoverage("b.go", false),
	)
	require.NoError(t, err)

	cm.Filter(func(fc *FileCoverage) bool { return fc.Path != "a_gen.go" })

	assert.Equal(t, []string{"a.go", "b.go"}, cm.Files())
	_, ok := cm.CoverageForFile("a_gen.go")
	assert.False(t, ok)
}

func TestCoverageMap_CoverageSummary(t *testing.T) {
	a := sampleCoverage("a.go", false)
	a.S = []uint32{1, 1, 1, 1}
	b := sampleCoverage("b.go", true)

	cm, err := CoverageMapFrom(a, b)
	require.NoError(t, err)

	s := cm.CoverageSummary()

	assert.Equal(t, Totals{Total: 8, Covered: 4, Pct: PercentageOf(50)}, s.Statements)
	assert.Equal(t, Totals{Total: 6, Covered: 3, Pct: PercentageOf(50)}, s.Lines)
	require.NotNil(t, s.BranchesTrue)
	assert.Equal(t, uint32(2), s.BranchesTrue.Total)
}

func TestCoverageMap_EmptySummary(t *testing.T) {
	s := NewCoverageMap().CoverageSummary()

	assert.True(t, s.IsEmpty())
	assert.False(t, s.Statements.Pct.Known())
	assert.Nil(t, s.BranchesTrue)
}

func TestCoverageMap_CloneAndReset(t *testing.T) {
	a := sampleCoverage("a.go", false)
	a.S[0] = 3

	cm, err := CoverageMapFrom(a)
	require.NoError(t, err)

	cp := cm.Clone()
	cp.ResetHits()

	gotOrig, _ := cm.CoverageForFile("a.go")
	gotCopy, _ := cp.CoverageForFile("a.go")

	assert.Equal(t, uint32(3), gotOrig.S[0])
	assert.Equal(t, uint32(0), gotCopy.S[0])
	assert.Equal(t, cm.Files(), cp.Files())
}
