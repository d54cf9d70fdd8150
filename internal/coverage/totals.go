package coverage

import (
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
)

const unknownPct = "Unknown"

// Percentage is a coverage percentage that may not have been computed yet.
// The zero value is Unknown.
type Percentage struct {
	value float64
	known bool
}

// PercentageOf returns a known percentage.
func PercentageOf(v float64) Percentage {
	return Percentage{value: v, known: true}
}

// Value returns the percentage and whether it is known.
func (p Percentage) Value() (float64, bool) {
	return p.value, p.known
}

// Known reports whether the percentage has been computed.
func (p Percentage) Known() bool {
	return p.known
}

func (p Percentage) String() string {
	if !p.known {
		return unknownPct
	}

	return strconv.FormatFloat(p.value, 'f', -1, 64)
}

// MarshalJSON encodes a known percentage as a number and an unknown one as
// the string "Unknown", matching istanbul summaries.
func (p Percentage) MarshalJSON() ([]byte, error) {
	if !p.known {
		return json.Marshal(unknownPct)
	}

	return json.Marshal(p.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Percentage) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*p = PercentageOf(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.Wrap(err, "decode pct")
	}

	if s != unknownPct {
		return errors.Newf("invalid pct %q", s)
	}

	*p = Percentage{}

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p Percentage) MarshalYAML() (interface{}, error) {
	if !p.known {
		return unknownPct, nil
	}

	return p.value, nil
}

// Totals aggregates one coverage dimension.
type Totals struct {
	Total   uint32     `json:"total" yaml:"total"`
	Covered uint32     `json:"covered" yaml:"covered"`
	Skipped uint32     `json:"skipped" yaml:"skipped"`
	Pct     Percentage `json:"pct" yaml:"pct"`
}

func (t *Totals) add(other Totals) {
	t.Total += other.Total
	t.Covered += other.Covered
	t.Skipped += other.Skipped
	t.Pct = PercentageOf(Percent(t.Covered, t.Total))
}

func computeSimpleTotals(hits []uint32) Totals {
	var t Totals

	for _, h := range hits {
		t.Total++

		if h > 0 {
			t.Covered++
		}
	}

	t.Pct = PercentageOf(Percent(t.Covered, t.Total))

	return t
}

func computeBranchTotals(branches [][]uint32) Totals {
	var t Totals

	for _, paths := range branches {
		for _, h := range paths {
			t.Total++

			if h > 0 {
				t.Covered++
			}
		}
	}

	t.Pct = PercentageOf(Percent(t.Covered, t.Total))

	return t
}
