// Package harmonic finds natural and artificial harmonics on bowed strings.
//
// A natural harmonic touches an open string lightly at a node of one of its
// partials; the nth partial sounds at n times the open frequency. This
// package always reports the node nearest the nut, at 1/n of the string.
//
// An artificial harmonic presses the string firmly (the base stop) and
// touches it lightly an interval higher (the touch stop). Touching a fourth
// above the pressed note sounds its 4th partial, two octaves up; touching a
// major third above sounds its 5th partial, two octaves and a major third
// up. Pressed positions are searched a semitone apart.
//
// Calculator applies Constraints to every candidate: the sounding pitch
// must lie within MaxCentsDeviation of the target, the string left for the
// bow must be at least MinBowedLength, and the fingers of an artificial
// harmonic must be between MinStopDistance and MaxStopDistance apart.
package harmonic
