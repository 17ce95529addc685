package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentsBetween(t *testing.T) {
	assert.InDelta(t, 1200.0, CentsBetween(880, 440), 1e-9)
	assert.InDelta(t, -1200.0, CentsBetween(440, 880), 1e-9)
	assert.InDelta(t, 0.0, CentsBetween(440, 440), 1e-9)
	assert.InDelta(t, 100.0, CentsBetween(MustParse("A#4").Frequency(440), 440), 1e-9)
	assert.InDelta(t, 701.955, CentsBetween(3, 2), 1e-3)
	assert.InDelta(t, 498.045, CentsBetween(1, 0.75), 1e-3)
}

func TestRatioFromCents(t *testing.T) {
	assert.InDelta(t, 2.0, RatioFromCents(1200), 1e-12)
	assert.InDelta(t, 1.5, RatioFromCents(CentsBetween(3, 2)), 1e-12)
	assert.InDelta(t, 0.5, RatioFromCents(-1200), 1e-12)
}

func TestIntervalName(t *testing.T) {
	tests := []struct {
		cents float64
		name  string
		ok    bool
	}{
		{CentsBetween(6, 5), "a just minor third", true},
		{CentsBetween(5, 4), "a just major third", true},
		{CentsBetween(4, 3), "a just fourth", true},
		{CentsBetween(3, 2), "a just fifth", true},
		{1200, "an octave", true},
		{1199.6, "an octave", true},
		{400, "", false},
		{497.4, "", false},
	}

	for _, tt := range tests {
		name, ok := IntervalName(tt.cents)
		assert.Equal(t, tt.ok, ok, "%v", tt.cents)
		assert.Equal(t, tt.name, name, "%v", tt.cents)
	}
}

func TestIntervalLabel(t *testing.T) {
	assert.Equal(t, "a just fourth (498.04¢)", IntervalLabel(CentsBetween(4, 3)))
	assert.Equal(t, "a just major third (386.31¢)", IntervalLabel(CentsBetween(5, 4)))
	assert.Equal(t, "an octave (1200.00¢)", IntervalLabel(1200))
	assert.Equal(t, "400.00¢", IntervalLabel(400))
}

func TestJustIntervalsCopy(t *testing.T) {
	ivs := JustIntervals()
	assert.Len(t, ivs, 5)
	ivs[0].Name = "changed"
	assert.Equal(t, "a just minor third", JustIntervals()[0].Name)
}
