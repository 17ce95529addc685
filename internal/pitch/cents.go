package pitch

import (
	"fmt"
	"math"
)

// CentsPerOctave is the size of an octave in cents.
const CentsPerOctave = 1200.0

// CentsBetween returns the size of the interval a/b in cents. Positive when
// a is higher than b. Works on frequency ratios and on length ratios alike.
func CentsBetween(a, b float64) float64 {
	return CentsPerOctave * math.Log2(a/b)
}

// RatioFromCents is the inverse of CentsBetween: the ratio spanned by c cents.
func RatioFromCents(c float64) float64 {
	return math.Exp2(c / CentsPerOctave)
}

// Interval is a named just interval.
type Interval struct {
	// Cents is the interval size rounded to the nearest cent.
	Cents int
	Name  string
}

// justIntervals is ordered by size.
var justIntervals = [...]Interval{
	{Cents: 316, Name: "a just minor third"},
	{Cents: 386, Name: "a just major third"},
	{Cents: 498, Name: "a just fourth"},
	{Cents: 702, Name: "a just fifth"},
	{Cents: 1200, Name: "an octave"},
}

// JustIntervals returns a copy of the interval table.
func JustIntervals() []Interval {
	out := make([]Interval, len(justIntervals))
	copy(out, justIntervals[:])
	return out
}

// IntervalName returns the name of the just interval whose rounded size
// equals round(cents).
func IntervalName(cents float64) (string, bool) {
	r := int(math.Round(cents))
	for _, iv := range justIntervals {
		if iv.Cents == r {
			return iv.Name, true
		}
	}
	return "", false
}

// IntervalLabel renders cents for display: "a just fourth (498.04¢)" when
// the value names a just interval, "123.45¢" otherwise.
func IntervalLabel(cents float64) string {
	raw := fmt.Sprintf("%.2f¢", cents)
	if name, ok := IntervalName(cents); ok {
		return name + " (" + raw + ")"
	}
	return raw
}
