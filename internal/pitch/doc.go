// Package pitch models notes in scientific pitch notation under 12-tone
// equal temperament.
//
// A Note is a letter, an accidental and an octave. Its frequency is derived
// from a reference frequency for A4 (DefaultReference, 440 Hz):
//
//	f = ref * 2^((n-57)/12)
//
// where n = 12*octave + letter semitone + accidental, so C4 = 48 and A4 = 57.
//
// The package also carries the cents arithmetic used for pitch tolerances
// and the table of just intervals used to label the gap between two stops.
//
// Nothing in this package logs or holds mutable state; every function is
// safe for concurrent use.
package pitch
