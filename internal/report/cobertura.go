package report

import (
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/mouse-blink/goistanbul/internal/coverage"
)

// CoberturaReporter outputs coverage in Cobertura XML format.
// This is compatible with most CI systems (Jenkins, GitLab, etc.).
type CoberturaReporter struct {
	opts Options
	// now is replaced in tests.
	now func() time.Time
}

// Name implements Reporter.
func (r *CoberturaReporter) Name() string { return "cobertura" }

// File implements Reporter.
func (r *CoberturaReporter) File() string { return "cobertura-coverage.xml" }

type coberturaCoverage struct {
	XMLName         xml.Name          `xml:"coverage"`
	LineRate        string            `xml:"line-rate,attr"`
	BranchRate      string            `xml:"branch-rate,attr"`
	LinesCovered    uint32            `xml:"lines-covered,attr"`
	LinesValid      uint32            `xml:"lines-valid,attr"`
	BranchesCovered uint32            `xml:"branches-covered,attr"`
	BranchesValid   uint32            `xml:"branches-valid,attr"`
	Complexity      int               `xml:"complexity,attr"`
	Version         string            `xml:"version,attr"`
	Timestamp       int64             `xml:"timestamp,attr"`
	Sources         coberturaSources  `xml:"sources"`
	Packages        coberturaPackages `xml:"packages"`
}

type coberturaSources struct {
	Source []string `xml:"source"`
}

type coberturaPackages struct {
	Package []coberturaPackage `xml:"package"`
}

type coberturaPackage struct {
	Name       string           `xml:"name,attr"`
	LineRate   string           `xml:"line-rate,attr"`
	BranchRate string           `xml:"branch-rate,attr"`
	Complexity int              `xml:"complexity,attr"`
	Classes    coberturaClasses `xml:"classes"`
}

type coberturaClasses struct {
	Class []coberturaClass `xml:"class"`
}

type coberturaClass struct {
	Name       string           `xml:"name,attr"`
	Filename   string           `xml:"filename,attr"`
	LineRate   string           `xml:"line-rate,attr"`
	BranchRate string           `xml:"branch-rate,attr"`
	Complexity int              `xml:"complexity,attr"`
	Methods    coberturaMethods `xml:"methods"`
	Lines      coberturaLines   `xml:"lines"`
}

type coberturaMethods struct {
	Method []coberturaMethod `xml:"method"`
}

type coberturaMethod struct {
	Name       string         `xml:"name,attr"`
	Hits       uint32         `xml:"hits,attr"`
	Signature  string         `xml:"signature,attr"`
	LineRate   string         `xml:"line-rate,attr"`
	BranchRate string         `xml:"branch-rate,attr"`
	Lines      coberturaLines `xml:"lines"`
}

type coberturaLines struct {
	Line []coberturaLine `xml:"line"`
}

type coberturaLine struct {
	Number            uint32 `xml:"number,attr"`
	Hits              uint32 `xml:"hits,attr"`
	Branch            bool   `xml:"branch,attr"`
	ConditionCoverage string `xml:"condition-coverage,attr,omitempty"`
}

// Write implements Reporter.
func (r *CoberturaReporter) Write(w io.Writer, cm *coverage.CoverageMap) error {
	now := time.Now
	if r.now != nil {
		now = r.now
	}

	total := cm.CoverageSummary()
	cov := coberturaCoverage{
		LineRate:        ratio(total.Lines.Covered, total.Lines.Total),
		BranchRate:      ratio(total.Branches.Covered, total.Branches.Total),
		LinesCovered:    total.Lines.Covered,
		LinesValid:      total.Lines.Total,
		BranchesCovered: total.Branches.Covered,
		BranchesValid:   total.Branches.Total,
		Version:         "0.1",
		Timestamp:       now().UnixMilli(),
	}

	if r.opts.Root != "" {
		cov.Sources.Source = []string{r.opts.Root}
	}

	// Group files by directory (package), keeping first-seen order.
	var dirs []string

	byDir := make(map[string][]string)

	for _, path := range cm.Files() {
		dir := filepath.Dir(displayPath(r.opts.Root, path))
		if _, ok := byDir[dir]; !ok {
			dirs = append(dirs, dir)
		}

		byDir[dir] = append(byDir[dir], path)
	}

	for _, dir := range dirs {
		pkgSummary := coverage.CoverageSummary{}
		pkg := coberturaPackage{Name: filepath.ToSlash(dir)}

		for _, path := range byDir[dir] {
			fc, _ := cm.CoverageForFile(path)
			summary := fc.ToSummary()
			pkgSummary.Merge(summary)

			pkg.Classes.Class = append(pkg.Classes.Class, r.class(path, fc, summary))
		}

		pkg.LineRate = ratio(pkgSummary.Lines.Covered, pkgSummary.Lines.Total)
		pkg.BranchRate = ratio(pkgSummary.Branches.Covered, pkgSummary.Branches.Total)
		cov.Packages.Package = append(cov.Packages.Package, pkg)
	}

	_, _ = w.Write([]byte(xml.Header))
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if err := enc.Encode(cov); err != nil {
		return errors.Wrap(err, "encoding Cobertura XML")
	}

	_, _ = w.Write([]byte("\n"))

	return nil
}

func (r *CoberturaReporter) class(path string, fc *coverage.FileCoverage, summary coverage.CoverageSummary) coberturaClass {
	rel := displayPath(r.opts.Root, path)
	class := coberturaClass{
		Name:       filepath.Base(rel),
		Filename:   rel,
		LineRate:   ratio(summary.Lines.Covered, summary.Lines.Total),
		BranchRate: ratio(summary.Branches.Covered, summary.Branches.Total),
	}

	for i, fn := range fc.FnMap {
		class.Methods.Method = append(class.Methods.Method, coberturaMethod{
			Name:       fn.Name,
			Hits:       fc.F[i],
			Signature:  "",
			LineRate:   ratio(boolCount(fc.F[i] > 0), 1),
			BranchRate: "1",
			Lines: coberturaLines{Line: []coberturaLine{
				{Number: fn.Decl.Start.Line, Hits: fc.F[i]},
			}},
		})
	}

	lines := fc.LineCoverage()
	branches := fc.BranchCoverageByLine()

	for _, line := range sortedLines(lines) {
		entry := coberturaLine{Number: line, Hits: lines[line]}

		if b, ok := branches[line]; ok {
			entry.Branch = true
			entry.ConditionCoverage = fmt.Sprintf("%d%% (%d/%d)", int(b.Coverage), b.Covered, b.Total)
		}

		class.Lines.Line = append(class.Lines.Line, entry)
	}

	return class
}

func boolCount(b bool) uint32 {
	if b {
		return 1
	}

	return 0
}
