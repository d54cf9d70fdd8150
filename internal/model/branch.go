package model

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
)

// BranchType classifies a decision point. It only affects reporting.
type BranchType int

// Known branch types.
const (
	BranchIf BranchType = iota
	BranchElseIf
	BranchCondExpr
	BranchBinaryExpr
	BranchSwitch
	BranchDefaultArg
)

var branchTypeNames = map[BranchType]string{
	BranchIf:         "if",
	BranchElseIf:     "if", // istanbul has no dedicated else-if type
	BranchCondExpr:   "cond-expr",
	BranchBinaryExpr: "binary-expr",
	BranchSwitch:     "switch",
	BranchDefaultArg: "default-arg",
}

// String returns the wire name of the branch type.
func (t BranchType) String() string {
	if name, ok := branchTypeNames[t]; ok {
		return name
	}

	return fmt.Sprintf("BranchType(%d)", int(t))
}

// ParseBranchType converts a wire name back into a BranchType.
func ParseBranchType(name string) (BranchType, error) {
	switch name {
	case "if":
		return BranchIf, nil
	case "cond-expr":
		return BranchCondExpr, nil
	case "binary-expr":
		return BranchBinaryExpr, nil
	case "switch":
		return BranchSwitch, nil
	case "default-arg":
		return BranchDefaultArg, nil
	default:
		return 0, errors.Newf("unknown branch type %q", name)
	}
}

// MarshalJSON implements json.Marshaler.
func (t BranchType) MarshalJSON() ([]byte, error) {
	if _, ok := branchTypeNames[t]; !ok {
		return nil, errors.Newf("cannot marshal %s", t)
	}

	return json.Marshal(t.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *BranchType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	parsed, err := ParseBranchType(name)
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

// FunctionMapping describes a declared function. Decl covers the signature,
// Loc the whole body.
type FunctionMapping struct {
	Name string `json:"name"`
	Decl Range  `json:"decl"`
	Loc  Range  `json:"loc"`
	Line uint32 `json:"line"`
}

// BranchMapping describes a decision point and the locations of its paths.
// Locations grows as paths are discovered.
type BranchMapping struct {
	Loc       *Range     `json:"loc,omitempty"`
	Type      BranchType `json:"type"`
	Locations []Range    `json:"locations,omitempty"`
	Line      *uint32    `json:"line,omitempty"`
}

// RepresentativeLine returns Line when set and nonzero, else the start line
// of Loc, else 0.
func (b BranchMapping) RepresentativeLine() uint32 {
	if b.Line != nil && *b.Line > 0 {
		return *b.Line
	}

	if b.Loc != nil {
		return b.Loc.Start.Line
	}

	return 0
}

// Clone returns a deep copy.
func (b BranchMapping) Clone() BranchMapping {
	out := BranchMapping{Type: b.Type}

	if b.Loc != nil {
		loc := *b.Loc
		out.Loc = &loc
	}

	if b.Line != nil {
		line := *b.Line
		out.Line = &line
	}

	if b.Locations != nil {
		out.Locations = append([]Range{}, b.Locations...)
	}

	return out
}
