package coverage

// CoverageMap is an insertion-ordered collection of FileCoverage keyed by
// path. It owns its entries: records passed in are copied, never aliased.
//
// A CoverageMap is not safe for concurrent mutation; callers that build
// records in parallel must funnel them through a single goroutine.
type CoverageMap struct {
	order []string
	files map[string]*FileCoverage
}

// NewCoverageMap returns an empty map.
func NewCoverageMap() *CoverageMap {
	return &CoverageMap{files: make(map[string]*FileCoverage)}
}

// CoverageMapFrom builds a map from records, merging duplicate paths.
func CoverageMapFrom(records ...*FileCoverage) (*CoverageMap, error) {
	cm := NewCoverageMap()

	for _, fc := range records {
		if err := cm.AddCoverageForFile(fc); err != nil {
			return nil, err
		}
	}

	return cm, nil
}

// AddCoverageForFile merges fc into the entry with the same path, or stores a
// copy of it as a new entry after all existing ones.
func (cm *CoverageMap) AddCoverageForFile(fc *FileCoverage) error {
	if existing, ok := cm.files[fc.Path]; ok {
		return existing.Merge(fc)
	}

	cm.files[fc.Path] = fc.Clone()
	cm.order = append(cm.order, fc.Path)

	return nil
}

// Merge adds every entry of other in its order. All entries are checked for
// compatibility first, so a failed merge leaves cm untouched.
func (cm *CoverageMap) Merge(other *CoverageMap) error {
	for _, path := range other.order {
		if existing, ok := cm.files[path]; ok {
			if err := existing.CompatibleWith(other.files[path]); err != nil {
				return err
			}
		}
	}

	for _, path := range other.order {
		if err := cm.AddCoverageForFile(other.files[path]); err != nil {
			return err
		}
	}

	return nil
}

// Filter keeps only the entries for which keep returns true, preserving
// their relative order.
func (cm *CoverageMap) Filter(keep func(fc *FileCoverage) bool) {
	order := make([]string, 0, len(cm.order))
	files := make(map[string]*FileCoverage, len(cm.files))

	for _, path := range cm.order {
		fc := cm.files[path]
		if keep(fc) {
			order = append(order, path)
			files[path] = fc
		}
	}

	cm.order = order
	cm.files = files
}

// Files returns the paths in insertion order.
func (cm *CoverageMap) Files() []string {
	return append([]string(nil), cm.order...)
}

// Len returns the number of files.
func (cm *CoverageMap) Len() int {
	return len(cm.order)
}

// CoverageForFile returns the record stored for path.
func (cm *CoverageMap) CoverageForFile(path string) (*FileCoverage, bool) {
	fc, ok := cm.files[path]

	return fc, ok
}

// CoverageSummary folds the summaries of all files together.
func (cm *CoverageMap) CoverageSummary() CoverageSummary {
	var total CoverageSummary

	for _, path := range cm.order {
		total.Merge(cm.files[path].ToSummary())
	}

	return total
}

// Clone returns a deep copy.
func (cm *CoverageMap) Clone() *CoverageMap {
	out := NewCoverageMap()

	for _, path := range cm.order {
		out.order = append(out.order, path)
		out.files[path] = cm.files[path].Clone()
	}

	return out
}

// ResetHits zeroes the counters of every file.
func (cm *CoverageMap) ResetHits() {
	for _, fc := range cm.files {
		fc.ResetHits()
	}
}
