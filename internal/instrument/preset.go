package instrument

import (
	"github.com/pjcdawkins/harmonics/internal/pitch"
)

// Preset identifies one of the built-in instruments.
type Preset int

const (
	Violin Preset = iota
	Viola
	Cello
	DoubleBass
)

type presetDef struct {
	name    string
	tunings []pitch.Note
	// length is the scale length in millimetres, shared by every string.
	length float64
}

func note(l pitch.Letter, octave int) pitch.Note {
	return pitch.Note{Letter: l, Octave: octave}
}

var presets = [...]presetDef{
	Violin: {
		name:    "violin",
		tunings: []pitch.Note{note(pitch.G, 3), note(pitch.D, 4), note(pitch.A, 4), note(pitch.E, 5)},
		length:  328,
	},
	Viola: {
		name:    "viola",
		tunings: []pitch.Note{note(pitch.C, 3), note(pitch.G, 3), note(pitch.D, 4), note(pitch.A, 4)},
		length:  370,
	},
	Cello: {
		name:    "cello",
		tunings: []pitch.Note{note(pitch.C, 2), note(pitch.G, 2), note(pitch.D, 3), note(pitch.A, 3)},
		length:  690,
	},
	DoubleBass: {
		name:    "double bass",
		tunings: []pitch.Note{note(pitch.E, 1), note(pitch.A, 1), note(pitch.D, 2), note(pitch.G, 2)},
		length:  1060,
	},
}

// Presets returns every preset in table order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	for i := range presets {
		out[i] = Preset(i)
	}
	return out
}

// PresetNames returns the preset names in table order.
func PresetNames() []string {
	out := make([]string, len(presets))
	for i, p := range presets {
		out[i] = p.name
	}
	return out
}

// String returns the preset's name, e.g. "double bass".
func (p Preset) String() string {
	if p < 0 || int(p) >= len(presets) {
		return "unknown"
	}
	return presets[p].name
}

// ParsePreset matches name exactly (case-sensitive) against the preset names.
func ParsePreset(name string) (Preset, bool) {
	for i, p := range presets {
		if p.name == name {
			return Preset(i), true
		}
	}
	return 0, false
}

// Instrument builds the preset tuned against reference.
func (p Preset) Instrument(reference float64) (*Instrument, error) {
	if p < 0 || int(p) >= len(presets) {
		return nil, &UnknownError{Name: p.String()}
	}
	def := presets[p]
	specs := make([]StringSpec, len(def.tunings))
	for i, t := range def.tunings {
		specs[i] = StringSpec{Tuning: t, Length: def.length}
	}
	return New(def.name, reference, specs...)
}

// FromPreset builds a preset instrument tuned to A4 = 440 Hz.
func FromPreset(name string) (*Instrument, error) {
	return FromPresetAt(name, pitch.DefaultReference)
}

// FromPresetAt builds a preset instrument tuned against reference.
// Unknown names fail with an *UnknownError.
func FromPresetAt(name string, reference float64) (*Instrument, error) {
	p, ok := ParsePreset(name)
	if !ok {
		return nil, &UnknownError{Name: name, Known: PresetNames()}
	}
	return p.Instrument(reference)
}
