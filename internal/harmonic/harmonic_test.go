package harmonic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjcdawkins/harmonics/internal/pitch"
)

func TestStop(t *testing.T) {
	violin := preset(t, "violin")
	a := violin.StringAt(2)

	s := Stop{Position: 0.5}
	assert.True(t, s.Valid())
	assert.Equal(t, 0.5, s.RemainingLength())
	assert.InDelta(t, 880.0, s.Frequency(a), 1e-9)
	assert.InDelta(t, 164.0, s.RemainingMillimetres(a), 1e-9)

	assert.False(t, Stop{Position: 0}.Valid())
	assert.False(t, Stop{Position: 1}.Valid())
	assert.InDelta(t, 0.25, StopAtRemaining(0.75).Position, 1e-15)

	assert.InDelta(t, 82.0, DistanceMillimetres(Stop{Position: 0.25}, Stop{Position: 0.5}, a), 1e-9)
	assert.InDelta(t, 82.0, DistanceMillimetres(Stop{Position: 0.5}, Stop{Position: 0.25}, a), 1e-9)
}

func TestNatural(t *testing.T) {
	a := preset(t, "violin").StringAt(2)

	n := newNatural(a, 3)
	assert.Equal(t, KindNatural, n.Kind())
	assert.True(t, n.IsNatural())
	assert.False(t, n.IsOpen())
	assert.InDelta(t, 1320.0, n.SoundingFrequency(), 1e-9)

	node, ok := n.Node()
	require.True(t, ok)
	assert.Equal(t, "1/3", node.String())

	stop, ok := n.TouchStop()
	require.True(t, ok)
	assert.InDelta(t, 1.0/3, stop.Position, 1e-15)
	assert.InDelta(t, 2.0/3, n.RemainingLength(), 1e-15)
	assert.InDelta(t, 660.0, stop.Frequency(a), 1e-9)

	open := newNatural(a, 1)
	assert.True(t, open.IsOpen())
	_, ok = open.Node()
	assert.False(t, ok)
	assert.Equal(t, "open A4", Describe(open))
	assert.Equal(t, "natural 3 on A4 at 1/3", Describe(n))
}

func TestArtificial(t *testing.T) {
	g := preset(t, "violin").StringAt(0)

	a, ok := newArtificial(g, 9, Fourth)
	require.True(t, ok)
	assert.Equal(t, KindArtificial, a.Kind())
	assert.False(t, a.IsNatural())
	assert.Equal(t, 4, a.Number())
	assert.Equal(t, 9, a.Semitones())
	assert.Equal(t, Fourth, a.Interval())

	e4 := pitch.MustParse("E4").Frequency(440)
	assert.InDelta(t, e4, a.BaseStop().Frequency(g), 1e-9)
	assert.InDelta(t, 4*e4, a.SoundingFrequency(), 1e-9)

	touch, ok := a.TouchStop()
	require.True(t, ok)
	assert.InDelta(t, 0.75, touch.RemainingLength()/a.BaseStop().RemainingLength(), 1e-12)
	assert.InDelta(t, 498.045, a.IntervalCents(), 1e-3)
	assert.InDelta(t, 48.76, a.StopDistanceMillimetres(), 1e-2)
	assert.Equal(t, "artificial fourth on G3, pressed 9 semitones up", Describe(a))

	third, ok := newArtificial(g, 5, MajorThird)
	require.True(t, ok)
	assert.InDelta(t, 386.314, third.IntervalCents(), 1e-3)
	c4 := pitch.MustParse("C4").Frequency(440)
	assert.InDelta(t, 5*c4, third.SoundingFrequency(), 1e-9)
}

func TestIntervals(t *testing.T) {
	tests := []struct {
		iv      Interval
		name    string
		partial int
		ratio   float64
	}{
		{Octave, "octave", 2, 0.5},
		{Fifth, "fifth", 3, 2.0 / 3},
		{Fourth, "fourth", 4, 0.75},
		{MajorThird, "major-third", 5, 0.8},
		{MinorThird, "minor-third", 6, 5.0 / 6},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.iv.String())
		assert.Equal(t, tt.partial, tt.iv.Partial())
		assert.InDelta(t, tt.ratio, tt.iv.TouchRatio(), 1e-15)

		parsed, err := ParseInterval(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.iv, parsed)
	}

	iv, err := ParseInterval("Major Third")
	require.NoError(t, err)
	assert.Equal(t, MajorThird, iv)
	iv, err = ParseInterval("minor_third")
	require.NoError(t, err)
	assert.Equal(t, MinorThird, iv)

	_, err = ParseInterval("tritone")
	assert.Error(t, err)

	ivs, err := ParseIntervals([]string{"fourth", "fifth"})
	require.NoError(t, err)
	assert.Equal(t, []Interval{Fourth, Fifth}, ivs)
	_, err = ParseIntervals([]string{"fourth", "ninth"})
	assert.Error(t, err)

	assert.Equal(t, "Interval(9)", Interval(9).String())
	assert.Len(t, AllIntervals(), 5)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "natural", KindNatural.String())
	assert.Equal(t, "artificial", KindArtificial.String())
}
