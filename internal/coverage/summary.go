package coverage

// CoverageSummary rolls up totals for a file or a set of files.
type CoverageSummary struct {
	Lines      Totals `json:"lines" yaml:"lines"`
	Statements Totals `json:"statements" yaml:"statements"`
	Functions  Totals `json:"functions" yaml:"functions"`
	Branches   Totals `json:"branches" yaml:"branches"`
	// BranchesTrue is only present when report-logic data contributed.
	BranchesTrue *Totals `json:"branchesTrue,omitempty" yaml:"branchesTrue,omitempty"`
}

// NewCoverageSummary assembles a summary from computed totals.
func NewCoverageSummary(lines, statements, functions, branches Totals, branchesTrue *Totals) CoverageSummary {
	s := CoverageSummary{
		Lines:      lines,
		Statements: statements,
		Functions:  functions,
		Branches:   branches,
	}

	if branchesTrue != nil {
		bt := *branchesTrue
		s.BranchesTrue = &bt
	}

	return s
}

// Merge adds the counts of other into s and recomputes every percentage.
// A BranchesTrue on other is added to a zeroed Totals when s has none.
func (s *CoverageSummary) Merge(other CoverageSummary) {
	s.Lines.add(other.Lines)
	s.Statements.add(other.Statements)
	s.Functions.add(other.Functions)
	s.Branches.add(other.Branches)

	if other.BranchesTrue == nil {
		return
	}

	var bt Totals
	if s.BranchesTrue != nil {
		bt = *s.BranchesTrue
	}

	bt.add(*other.BranchesTrue)
	s.BranchesTrue = &bt
}

// IsEmpty reports whether the summary covers no lines. Statements are
// checked too so that a hand-built summary without line totals still counts.
func (s CoverageSummary) IsEmpty() bool {
	return s.Lines.Total == 0 && s.Statements.Total == 0
}
