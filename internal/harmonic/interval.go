package harmonic

import (
	"fmt"
	"strings"
)

// Interval is the gap between the pressed and the touched finger of an
// artificial harmonic. Touching a string at the interval above a pressed
// note isolates one partial of that note.
type Interval int

const (
	Octave Interval = iota
	Fifth
	Fourth
	MajorThird
	MinorThird
)

type intervalDef struct {
	name    string
	partial int
}

var intervals = [...]intervalDef{
	Octave:     {name: "octave", partial: 2},
	Fifth:      {name: "fifth", partial: 3},
	Fourth:     {name: "fourth", partial: 4},
	MajorThird: {name: "major-third", partial: 5},
	MinorThird: {name: "minor-third", partial: 6},
}

// DefaultIntervals are the fingerings in everyday use: the touched fourth
// (two octaves above the pressed note) and the touched major third (two
// octaves and a major third above).
func DefaultIntervals() []Interval {
	return []Interval{Fourth, MajorThird}
}

// AllIntervals lists every supported interval, widest first.
func AllIntervals() []Interval {
	out := make([]Interval, len(intervals))
	for i := range intervals {
		out[i] = Interval(i)
	}
	return out
}

func (iv Interval) valid() bool {
	return iv >= 0 && int(iv) < len(intervals)
}

// String returns the interval's name, e.g. "major-third".
func (iv Interval) String() string {
	if !iv.valid() {
		return fmt.Sprintf("Interval(%d)", int(iv))
	}
	return intervals[iv].name
}

// Partial is the partial of the pressed note that sounds.
func (iv Interval) Partial() int {
	return intervals[iv].partial
}

// TouchRatio is the touched stop's remaining length as a fraction of the
// pressed stop's remaining length: (p-1)/p for partial p.
func (iv Interval) TouchRatio() float64 {
	p := float64(iv.Partial())
	return (p - 1) / p
}

// ParseInterval accepts an interval name, case-insensitively, with either
// a hyphen, underscore or space between words.
func ParseInterval(s string) (Interval, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "-", " ", "-").Replace(key)
	for i, def := range intervals {
		if def.name == key {
			return Interval(i), nil
		}
	}
	return 0, fmt.Errorf("unknown interval %q", s)
}

// ParseIntervals parses a list of interval names.
func ParseIntervals(names []string) ([]Interval, error) {
	out := make([]Interval, 0, len(names))
	for _, n := range names {
		iv, err := ParseInterval(n)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}
