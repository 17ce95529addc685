package pitch

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultReference is the concert pitch of A4 in hertz.
const DefaultReference = 440.0

// a4Index is the absolute semitone index of A4 (C0 = 0).
const a4Index = 57

// Octave bounds accepted by Parse. They keep frequencies finite for any
// sensible reference.
const (
	MinOctave = -10
	MaxOctave = 20
)

// Letter is a pitch-class letter, C through B.
type Letter uint8

const (
	C Letter = iota
	D
	E
	F
	G
	A
	B
)

var letterSemitones = [...]int{C: 0, D: 2, E: 4, F: 5, G: 7, A: 9, B: 11}

const letterNames = "CDEFGAB"

// Semitone returns the letter's offset above C.
func (l Letter) Semitone() int {
	return letterSemitones[l]
}

func (l Letter) String() string {
	if int(l) >= len(letterNames) {
		return "?"
	}
	return letterNames[l : l+1]
}

// Accidental is a signed semitone offset applied to a letter.
type Accidental int8

const (
	Flat    Accidental = -1
	Natural Accidental = 0
	Sharp   Accidental = 1
)

// Symbol returns the typographic symbol, empty for Natural.
func (a Accidental) Symbol() string {
	switch a {
	case Sharp:
		return "♯"
	case Flat:
		return "♭"
	default:
		return ""
	}
}

// ASCII returns the keyboard spelling, empty for Natural.
func (a Accidental) ASCII() string {
	switch a {
	case Sharp:
		return "#"
	case Flat:
		return "b"
	default:
		return ""
	}
}

func (a Accidental) String() string {
	switch a {
	case Sharp:
		return "sharp"
	case Flat:
		return "flat"
	default:
		return "natural"
	}
}

// ParseAccidental accepts "sharp", "flat", "natural" or a single symbol.
func ParseAccidental(s string) (Accidental, error) {
	switch strings.ToLower(strings.TrimSpace(norm.NFC.String(s))) {
	case "sharp", "#", "♯":
		return Sharp, nil
	case "flat", "b", "♭":
		return Flat, nil
	case "natural", "", "♮":
		return Natural, nil
	}
	return Natural, fmt.Errorf("unknown accidental %q", s)
}

// Note is a pitch in scientific pitch notation. The zero value is C0.
type Note struct {
	Letter     Letter
	Accidental Accidental
	Octave     int
}

// Parse reads a note name such as "A4", "C#7", "E♭5" or "B-1".
//
// The letter may be upper or lower case. The accidental is optional and
// may be "#", "♯", "b", "♭" or "♮". The octave is a signed integer between
// MinOctave and MaxOctave.
func Parse(name string) (Note, error) {
	s := strings.TrimSpace(norm.NFC.String(name))
	if s == "" {
		return Note{}, &NoteNameError{Name: name, Reason: "empty name"}
	}

	letter, ok := parseLetter(s[0])
	if !ok {
		r, _ := utf8.DecodeRuneInString(s)
		return Note{}, &NoteNameError{Name: name, Reason: fmt.Sprintf("unknown letter %q", r)}
	}
	rest := s[1:]

	acc := Natural
	for _, m := range accidentalMarks {
		if strings.HasPrefix(rest, m.mark) {
			acc = m.acc
			rest = rest[len(m.mark):]
			break
		}
	}

	if rest == "" {
		return Note{}, &NoteNameError{Name: name, Reason: "missing octave"}
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Note{}, &NoteNameError{Name: name, Reason: fmt.Sprintf("octave %q is not an integer", rest)}
	}
	if octave < MinOctave || octave > MaxOctave {
		return Note{}, &NoteNameError{Name: name, Reason: fmt.Sprintf("octave %d out of range [%d, %d]", octave, MinOctave, MaxOctave)}
	}

	return Note{Letter: letter, Accidental: acc, Octave: octave}, nil
}

// MustParse is like Parse but panics on error.
// Use only in tests or for names known to be valid.
func MustParse(name string) Note {
	n, err := Parse(name)
	if err != nil {
		panic(err)
	}
	return n
}

var accidentalMarks = []struct {
	mark string
	acc  Accidental
}{
	{"#", Sharp},
	{"♯", Sharp},
	{"b", Flat},
	{"♭", Flat},
	{"♮", Natural},
}

func parseLetter(c byte) (Letter, bool) {
	if c >= 'a' && c <= 'g' {
		c -= 'a' - 'A'
	}
	i := strings.IndexByte(letterNames, c)
	if i < 0 {
		return 0, false
	}
	return Letter(i), true
}

// Index returns the absolute semitone index, with C0 = 0 and A4 = 57.
func (n Note) Index() int {
	return 12*n.Octave + n.Letter.Semitone() + int(n.Accidental)
}

// Frequency returns the equal-tempered frequency for the given A4 reference.
func (n Note) Frequency(reference float64) float64 {
	return FrequencyOf(n, reference)
}

// String renders the note with typographic accidentals, e.g. "C♯7".
func (n Note) String() string {
	return n.Letter.String() + n.Accidental.Symbol() + strconv.Itoa(n.Octave)
}

// ASCII renders the note with keyboard accidentals, e.g. "C#7".
func (n Note) ASCII() string {
	return n.Letter.String() + n.Accidental.ASCII() + strconv.Itoa(n.Octave)
}

// FrequencyOf converts a note to hertz under equal temperament.
func FrequencyOf(n Note, reference float64) float64 {
	return IndexFrequency(n.Index(), reference)
}

// IndexFrequency converts an absolute semitone index to hertz.
func IndexFrequency(index int, reference float64) float64 {
	return reference * math.Exp2(float64(index-a4Index)/12)
}

// Nearest returns the equal-tempered note closest to freq.
//
// Exact quarter-tone ties resolve to the lower semitone. Black keys are
// spelled with the first entry of preferred that is Sharp or Flat; without
// one they are spelled sharp.
func Nearest(freq, reference float64, preferred ...Accidental) (Note, error) {
	if !validFrequency(freq) {
		return Note{}, fmt.Errorf("%w: %v Hz", ErrInvalidFrequency, freq)
	}
	if !validFrequency(reference) {
		return Note{}, fmt.Errorf("%w: reference %v Hz", ErrInvalidFrequency, reference)
	}
	semis := 12*math.Log2(freq/reference) + a4Index
	return FromIndex(roundSemitone(semis), preferred...), nil
}

// roundSemitone rounds to the nearest integer, halves toward the lower one.
func roundSemitone(semis float64) int {
	return int(math.Ceil(semis - 0.5))
}

// FromIndex spells an absolute semitone index. See Nearest for the
// spelling rule.
func FromIndex(index int, preferred ...Accidental) Note {
	octave := floorDiv(index, 12)
	class := index - 12*octave

	if l, ok := naturalAt(class); ok {
		return Note{Letter: l, Octave: octave}
	}

	acc := Sharp
	for _, p := range preferred {
		if p == Sharp || p == Flat {
			acc = p
			break
		}
	}
	l, _ := naturalAt(class - int(acc))
	return Note{Letter: l, Accidental: acc, Octave: octave}
}

// naturalAt returns the letter whose natural sits on pitch class c (0-11).
func naturalAt(c int) (Letter, bool) {
	for l, s := range letterSemitones {
		if s == c {
			return Letter(l), true
		}
	}
	return 0, false
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func validFrequency(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}
