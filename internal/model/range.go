package model

import "fmt"

// Location is a position in a source file. Lines are 1-based, columns are
// 0-based byte offsets within the line.
type Location struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

// Range is a source span between two locations.
type Range struct {
	Start Location `json:"start"`
	End   Location `json:"end"`
}

// NewRange constructs a Range from raw line/column pairs.
func NewRange(startLine, startColumn, endLine, endColumn uint32) Range {
	return Range{
		Start: Location{Line: startLine, Column: startColumn},
		End:   Location{Line: endLine, Column: endColumn},
	}
}

// Key returns the canonical "startLine|startCol|endLine|endCol" form.
func (r Range) Key() string {
	return fmt.Sprintf("%d|%d|%d|%d", r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}

// IsZero reports whether r was never assigned a position.
func (r Range) IsZero() bool {
	return r == Range{}
}
