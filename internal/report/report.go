// Package report renders coverage maps in the formats istanbul users expect:
// terminal tables, JSON and YAML documents, lcov tracefiles, Cobertura XML
// and an HTML chart.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/mouse-blink/goistanbul/internal/coverage"
)

// Reporter outputs a coverage map in one format.
type Reporter interface {
	// Name is the identifier used in configuration, e.g. "lcov".
	Name() string
	// File is the output file name inside the report directory. An empty
	// name means the report goes to standard output.
	File() string
	// Write renders cm to w.
	Write(w io.Writer, cm *coverage.CoverageMap) error
}

// Options are shared by every reporter.
type Options struct {
	// Root makes file paths relative to it when displayed.
	Root string
	// Title names the project in documents that carry one.
	Title string
}

var factories = map[string]func(Options) Reporter{
	"text":         func(o Options) Reporter { return &TextReporter{opts: o} },
	"text-summary": func(o Options) Reporter { return &TextSummaryReporter{} },
	"json":         func(o Options) Reporter { return &JSONReporter{} },
	"json-summary": func(o Options) Reporter { return &JSONSummaryReporter{} },
	"yaml-summary": func(o Options) Reporter { return &YAMLSummaryReporter{} },
	"lcov":         func(o Options) Reporter { return &LCOVReporter{} },
	"cobertura":    func(o Options) Reporter { return &CoberturaReporter{opts: o} },
	"html":         func(o Options) Reporter { return &HTMLReporter{opts: o} },
}

// New returns the reporter registered under name.
func New(name string, opts Options) (Reporter, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, errors.Newf("unknown reporter %q (available: %s)", name, strings.Join(Names(), ", "))
	}

	return factory(opts), nil
}

// Names lists the registered reporters in lexical order.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// displayPath shortens path relative to root when it lies below it.
func displayPath(root, path string) string {
	if root == "" {
		return path
	}

	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}

	return filepath.ToSlash(rel)
}

// sortedLines returns the keys of a per-line map in ascending order.
func sortedLines[T any](byLine map[uint32]T) []uint32 {
	lines := make([]uint32, 0, len(byLine))
	for line := range byLine {
		lines = append(lines, line)
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })

	return lines
}

// formatLineRanges formats line numbers as ranges (e.g., "1-5,10,15-20").
func formatLineRanges(lines []uint32) string {
	if len(lines) == 0 {
		return ""
	}

	var parts []string

	start, end := lines[0], lines[0]

	for _, line := range lines[1:] {
		if line == end+1 {
			end = line
			continue
		}

		parts = append(parts, formatRange(start, end))
		start, end = line, line
	}

	parts = append(parts, formatRange(start, end))

	return strings.Join(parts, ",")
}

func formatRange(start, end uint32) string {
	if start == end {
		return fmt.Sprintf("%d", start)
	}

	return fmt.Sprintf("%d-%d", start, end)
}

// ratio turns totals into the 0..1 rate used by Cobertura.
func ratio(covered, total uint32) string {
	if total == 0 {
		return "1"
	}

	return fmt.Sprintf("%.4f", float64(covered)/float64(total))
}

// Helper for writing to io.Writer
func writef(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
