package ir

import (
	"encoding/json"
	"fmt"
	"math"
)

// Scale factors for storing measurements as integers.
const (
	// Milli scales hertz, millimetres and cents to thousandths.
	Milli = 1000

	// PPM scales string fractions to parts per million.
	PPM = 1_000_000
)

// Scale rounds v*factor to the nearest integer, saturating at the int64
// range. NaN scales to zero.
func Scale(v float64, factor int64) int64 {
	r := math.Round(v * float64(factor))
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}

// Unscale is the inverse of Scale.
func Unscale(n, factor int64) float64 {
	return float64(n) / float64(factor)
}

// Constraints are the search limits of a lookup, in thousandths of a
// millimetre or cent.
type Constraints struct {
	MinStopDistance   int64 `json:"min_stop_distance_um"`
	MaxStopDistance   int64 `json:"max_stop_distance_um"`
	MinBowedLength    int64 `json:"min_bowed_distance_um"`
	MaxCentsDeviation int64 `json:"max_millicents"`
}

// ToIR converts the constraints to an IRObject.
func (c Constraints) ToIR() IRObject {
	return IRObject{
		"min_stop_distance_um":  IRInt(c.MinStopDistance),
		"max_stop_distance_um":  IRInt(c.MaxStopDistance),
		"min_bowed_distance_um": IRInt(c.MinBowedLength),
		"max_millicents":        IRInt(c.MaxCentsDeviation),
	}
}

// Request is the canonical record of a lookup request: everything needed
// to repeat the search.
type Request struct {
	Note        string      `json:"note"`
	Instrument  string      `json:"instrument"`
	Reference   int64       `json:"reference_millihz"`
	Constraints Constraints `json:"constraints"`
	Intervals   []string    `json:"intervals"`
}

// ToIR converts the request to an IRObject.
func (r Request) ToIR() IRObject {
	return IRObject{
		"note":              IRString(r.Note),
		"instrument":        IRString(r.Instrument),
		"reference_millihz": IRInt(r.Reference),
		"constraints":       r.Constraints.ToIR(),
		"intervals":         Strings(r.Intervals),
	}
}

// Canonical returns the request's canonical JSON.
func (r Request) Canonical() ([]byte, error) {
	return MarshalCanonical(r.ToIR())
}

// ParseRequest decodes a request stored as canonical JSON.
func ParseRequest(data []byte) (Request, error) {
	if _, err := UnmarshalIRValue(data); err != nil {
		return Request{}, fmt.Errorf("parse request: %w", err)
	}
	var r Request
	if err := json.Unmarshal(data, &r); err != nil {
		return Request{}, fmt.Errorf("parse request: %w", err)
	}
	if r.Intervals == nil {
		r.Intervals = []string{}
	}
	return r, nil
}

// HarmonicRecord is the canonical record of one harmonic in a result.
// Positions are fractions of the string from the nut in parts per
// million; a natural harmonic has no base stop and the open string has no
// touch stop.
type HarmonicRecord struct {
	Ordinal     int64  `json:"ordinal"`
	StringIndex int64  `json:"string_index"`
	String      string `json:"string"`
	Kind        string `json:"kind"`
	Number      int64  `json:"number"`
	Interval    string `json:"interval,omitempty"`
	Semitones   int64  `json:"semitones,omitempty"`
	BaseStop    int64  `json:"base_stop_ppm,omitempty"`
	TouchStop   int64  `json:"touch_stop_ppm,omitempty"`
	Sounding    int64  `json:"sounding_millihz"`
}

// ToIR converts the record to an IRObject. Fields that do not apply to the
// harmonic's kind are omitted.
func (h HarmonicRecord) ToIR() IRObject {
	obj := IRObject{
		"ordinal":          IRInt(h.Ordinal),
		"string_index":     IRInt(h.StringIndex),
		"string":           IRString(h.String),
		"kind":             IRString(h.Kind),
		"number":           IRInt(h.Number),
		"sounding_millihz": IRInt(h.Sounding),
	}
	if h.Interval != "" {
		obj["interval"] = IRString(h.Interval)
	}
	if h.Semitones != 0 {
		obj["semitones"] = IRInt(h.Semitones)
	}
	if h.BaseStop != 0 {
		obj["base_stop_ppm"] = IRInt(h.BaseStop)
	}
	if h.TouchStop != 0 {
		obj["touch_stop_ppm"] = IRInt(h.TouchStop)
	}
	return obj
}

// ResultToIR converts an ordered result to an IRArray.
func ResultToIR(records []HarmonicRecord) IRArray {
	arr := make(IRArray, len(records))
	for i, r := range records {
		arr[i] = r.ToIR()
	}
	return arr
}
