package instrument

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/pjcdawkins/harmonics/internal/pitch"
)

// LoadCUE reads custom instrument definitions from a CUE file and tunes
// them against reference. See CompileCUE for the format.
func LoadCUE(path string, reference float64) ([]*Instrument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read instrument definitions: %w", err)
	}
	return CompileCUE(data, path, reference)
}

// CompileCUE compiles custom instrument definitions. Instruments live under
// the top-level "instrument" struct, keyed by name, in declaration order:
//
//	instrument: "five-string violin": {
//		length: 328
//		strings: [
//			{note: "C3"},
//			{note: "G3"},
//			{note: "D4"},
//			{note: "A4"},
//			{note: "E5", length: 327},
//		]
//	}
//
// A string's length defaults to the instrument's length. Errors carry the
// CUE source position where one is known.
func CompileCUE(src []byte, filename string, reference float64) ([]*Instrument, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError("", err)
	}

	root := v.LookupPath(cue.ParsePath("instrument"))
	if !root.Exists() {
		return nil, &DefinitionError{Message: "no instrument definitions found", Pos: v.Pos()}
	}

	iter, err := root.Fields()
	if err != nil {
		return nil, formatCUEError("", err)
	}

	var out []*Instrument
	for iter.Next() {
		inst, err := compileInstrument(iter.Label(), iter.Value(), reference)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	if len(out) == 0 {
		return nil, &DefinitionError{Message: "no instrument definitions found", Pos: root.Pos()}
	}
	return out, nil
}

func compileInstrument(name string, v cue.Value, reference float64) (*Instrument, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(name, err)
	}

	defaultLength := 0.0
	if lv := v.LookupPath(cue.ParsePath("length")); lv.Exists() {
		l, err := lv.Float64()
		if err != nil {
			return nil, formatCUEError(name, err)
		}
		defaultLength = l
	}

	sv := v.LookupPath(cue.ParsePath("strings"))
	if !sv.Exists() {
		return nil, &DefinitionError{Name: name, Message: "strings list is required", Pos: v.Pos()}
	}
	list, err := sv.List()
	if err != nil {
		return nil, formatCUEError(name, err)
	}

	var specs []StringSpec
	for i := 0; list.Next(); i++ {
		spec, err := compileString(name, i, list.Value(), defaultLength)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	inst, err := New(name, reference, specs...)
	if err != nil {
		var de *DefinitionError
		if errors.As(err, &de) && !de.Pos.IsValid() {
			de.Pos = v.Pos()
		}
		return nil, err
	}
	return inst, nil
}

func compileString(name string, i int, v cue.Value, defaultLength float64) (StringSpec, error) {
	nv := v.LookupPath(cue.ParsePath("note"))
	if !nv.Exists() {
		return StringSpec{}, &DefinitionError{Name: name, Message: fmt.Sprintf("strings[%d]: note is required", i), Pos: v.Pos()}
	}
	noteName, err := nv.String()
	if err != nil {
		return StringSpec{}, formatCUEError(name, err)
	}
	tuning, err := pitch.Parse(noteName)
	if err != nil {
		return StringSpec{}, &DefinitionError{Name: name, Message: fmt.Sprintf("strings[%d]: %v", i, err), Pos: nv.Pos()}
	}

	length := defaultLength
	if lv := v.LookupPath(cue.ParsePath("length")); lv.Exists() {
		length, err = lv.Float64()
		if err != nil {
			return StringSpec{}, formatCUEError(name, err)
		}
	}
	if length <= 0 {
		return StringSpec{}, &DefinitionError{Name: name, Message: fmt.Sprintf("strings[%d]: length must be positive", i), Pos: v.Pos()}
	}

	return StringSpec{Tuning: tuning, Length: length}, nil
}
