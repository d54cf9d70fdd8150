package adapter

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// Insertion adds Text in front of the byte at Offset.
type Insertion struct {
	Offset int
	Text   string
}

// GoFileAdapter encapsulates Go-specific parsing and rewriting so the domain
// layer can focus on instrumentation rules while delegating compilation
// details to an infrastructure component.
type GoFileAdapter interface {
	// Parse builds an AST using the provided file set and optional source bytes.
	Parse(fileSet *token.FileSet, filename string, src []byte) (*ast.File, error)
	// Insert applies insertions to src. Insertions at the same offset keep
	// their relative order. Comments and line numbers of src are preserved.
	Insert(src []byte, insertions []Insertion) ([]byte, error)
	// Diff returns a unified diff between two versions of filename.
	Diff(filename string, before, after []byte) (string, error)
}

// LocalGoFileAdapter provides a concrete GoFileAdapter backed by go/parser.
type LocalGoFileAdapter struct{}

// NewLocalGoFileAdapter constructs a LocalGoFileAdapter.
func NewLocalGoFileAdapter() *LocalGoFileAdapter {
	return &LocalGoFileAdapter{}
}

// Parse builds an AST for the provided filename/source pair.
func (a *LocalGoFileAdapter) Parse(fileSet *token.FileSet, filename string, src []byte) (*ast.File, error) {
	file, err := parser.ParseFile(fileSet, filename, src, parser.ParseComments)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", filename)
	}

	return file, nil
}

// Insert splices insertions into a copy of src.
func (a *LocalGoFileAdapter) Insert(src []byte, insertions []Insertion) ([]byte, error) {
	sorted := make([]Insertion, len(insertions))
	copy(sorted, insertions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	size := len(src)
	for _, ins := range sorted {
		if ins.Offset < 0 || ins.Offset > len(src) {
			return nil, errors.Newf("insertion offset %d outside source of %d bytes", ins.Offset, len(src))
		}

		size += len(ins.Text)
	}

	var buf bytes.Buffer
	buf.Grow(size)

	last := 0
	for _, ins := range sorted {
		buf.Write(src[last:ins.Offset])
		buf.WriteString(ins.Text)
		last = ins.Offset
	}

	buf.Write(src[last:])

	return buf.Bytes(), nil
}

// Diff renders a unified diff with three lines of context.
func (a *LocalGoFileAdapter) Diff(filename string, before, after []byte) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: filename,
		ToFile:   filename + " (instrumented)",
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", errors.Wrapf(err, "failed to diff %s", filename)
	}

	return text, nil
}
