// Package ratio reduces fractions to lowest terms.
package ratio

import (
	"fmt"
	"strconv"
)

// GCD returns the greatest common divisor of |a| and |b|. GCD(0, 0) is 0.
func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// Reduce returns n/d in lowest terms with a positive denominator.
// A zero numerator reduces to 0/1. Reduce panics if d is zero.
func Reduce(n, d int) (int, int) {
	if d == 0 {
		panic("ratio: zero denominator")
	}
	if n == 0 {
		return 0, 1
	}
	if d < 0 {
		n, d = -n, -d
	}
	g := GCD(n, d)
	return n / g, d / g
}

// Ratio is a fraction held in lowest terms.
type Ratio struct {
	Num int
	Den int
}

// New returns n/d reduced. It fails on a zero denominator.
func New(n, d int) (Ratio, error) {
	if d == 0 {
		return Ratio{}, fmt.Errorf("ratio %d/0: zero denominator", n)
	}
	n, d = Reduce(n, d)
	return Ratio{Num: n, Den: d}, nil
}

// Float64 returns the value of the ratio.
func (r Ratio) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

// String renders "n/d", or just "n" when the denominator is 1.
func (r Ratio) String() string {
	if r.Den == 1 {
		return strconv.Itoa(r.Num)
	}
	return strconv.Itoa(r.Num) + "/" + strconv.Itoa(r.Den)
}
