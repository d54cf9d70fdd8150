package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		name    string
		covered uint32
		total   uint32
		want    float64
	}{
		{name: "empty counts as covered", covered: 0, total: 0, want: 100},
		{name: "nothing covered", covered: 0, total: 7, want: 0},
		{name: "all covered", covered: 7, total: 7, want: 100},
		{name: "one third", covered: 1, total: 3, want: 33.33},
		{name: "two thirds truncates", covered: 2, total: 3, want: 66.66},
		{name: "never rounds up to full", covered: 999998, total: 999999, want: 99.99},
		{name: "half", covered: 1, total: 2, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.covered, tt.total))
		})
	}
}

func TestPercentageJSON(t *testing.T) {
	raw, err := Percentage{}.MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `"Unknown"`, string(raw))

	raw, err = PercentageOf(66.66).MarshalJSON()
	assert.NoError(t, err)
	assert.Equal(t, `66.66`, string(raw))

	var p Percentage
	assert.NoError(t, p.UnmarshalJSON([]byte(`"Unknown"`)))
	assert.False(t, p.Known())

	assert.NoError(t, p.UnmarshalJSON([]byte(`12.5`)))
	v, ok := p.Value()
	assert.True(t, ok)
	assert.Equal(t, 12.5, v)

	assert.Error(t, p.UnmarshalJSON([]byte(`"bogus"`)))
}
