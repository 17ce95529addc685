// Package report derives the display data for a lookup result: note names
// for every stop, remaining string lengths, finger distances and interval
// labels. It renders the result as text; JSON output marshals Report.
package report

import (
	"fmt"
	"math"

	"github.com/pjcdawkins/harmonics/internal/harmonic"
	"github.com/pjcdawkins/harmonics/internal/lookup"
	"github.com/pjcdawkins/harmonics/internal/pitch"
)

// Thresholds below which a length is flagged as short.
const (
	ShortRemainingMillimetres    = 100.0
	ShortStopDistanceMillimetres = 20.0
)

// Report is the display form of a lookup result.
type Report struct {
	Target     string  `json:"target"`
	Instrument string  `json:"instrument"`
	Reference  float64 `json:"reference_hz"`
	Count      int     `json:"count"`
	Strings    []Group `json:"strings"`
}

// Group holds the rows for one string, in result order.
type Group struct {
	String string `json:"string"`
	Index  int    `json:"index"`
	Rows   []Row  `json:"harmonics"`
}

// Row describes one harmonic.
type Row struct {
	Kind   string `json:"kind"`
	Number int    `json:"number"`
	Open   bool   `json:"open,omitempty"`

	// Node is the touch point of a natural harmonic as a reduced fraction
	// of the string from the nut, e.g. "1/3".
	Node string `json:"node,omitempty"`

	Sounding       string  `json:"sounding"`
	SoundingHz     float64 `json:"sounding_hz"`
	DeviationCents float64 `json:"deviation_cents"`

	// BaseStop is the pressed note of an artificial harmonic.
	BaseStop string `json:"base_stop,omitempty"`

	// TouchStop is the note that would sound if the touch point were
	// pressed down.
	TouchStop string `json:"touch_stop,omitempty"`

	Interval      string  `json:"interval,omitempty"`
	IntervalCents float64 `json:"interval_cents,omitempty"`

	StopDistanceMM    float64 `json:"stop_distance_mm,omitempty"`
	StopDistanceShort bool    `json:"stop_distance_short,omitempty"`

	RemainingPercent float64 `json:"remaining_percent"`
	RemainingMM      float64 `json:"remaining_mm"`
	RemainingShort   bool    `json:"remaining_short,omitempty"`
}

// Build derives the report for res. Stop and sounding notes are spelled
// with the target's accidental where a choice exists.
func Build(res *lookup.Result) (*Report, error) {
	r := &Report{
		Target:     res.Target.String(),
		Instrument: res.Instrument.Name(),
		Reference:  res.Reference,
		Count:      len(res.Harmonics),
		Strings:    []Group{},
	}

	b := builder{
		target:    res.Target.Frequency(res.Reference),
		reference: res.Reference,
		prefer:    res.Target.Accidental,
	}
	for _, h := range res.Harmonics {
		str := h.InstrumentString()
		if n := len(r.Strings); n == 0 || r.Strings[n-1].Index != str.Index() {
			r.Strings = append(r.Strings, Group{String: str.Name(), Index: str.Index()})
		}
		row, err := b.row(h)
		if err != nil {
			return nil, err
		}
		g := &r.Strings[len(r.Strings)-1]
		g.Rows = append(g.Rows, row)
	}
	return r, nil
}

type builder struct {
	target    float64
	reference float64
	prefer    pitch.Accidental
}

func (b builder) name(freq float64) (string, error) {
	n, err := pitch.Nearest(freq, b.reference, b.prefer)
	if err != nil {
		return "", err
	}
	return n.String(), nil
}

func (b builder) row(h harmonic.Harmonic) (Row, error) {
	str := h.InstrumentString()
	length := str.PhysicalLength()
	sounding := h.SoundingFrequency()

	row := Row{
		Kind:           h.Kind().String(),
		Number:         h.Number(),
		SoundingHz:     sounding,
		DeviationCents: pitch.CentsBetween(sounding, b.target),
	}
	var err error
	if row.Sounding, err = b.name(sounding); err != nil {
		return Row{}, err
	}

	remaining := 1.0
	if touch, ok := h.TouchStop(); ok {
		remaining = touch.RemainingLength()
		if row.TouchStop, err = b.name(touch.Frequency(str)); err != nil {
			return Row{}, err
		}
	}
	row.RemainingPercent = remaining * 100
	row.RemainingMM = remaining * length
	row.RemainingShort = row.RemainingMM < ShortRemainingMillimetres

	switch v := h.(type) {
	case harmonic.Natural:
		row.Open = v.IsOpen()
		if node, ok := v.Node(); ok {
			row.Node = node.String()
		}
	case harmonic.Artificial:
		if row.BaseStop, err = b.name(v.BaseStop().Frequency(str)); err != nil {
			return Row{}, err
		}
		row.IntervalCents = v.IntervalCents()
		row.Interval = pitch.IntervalLabel(row.IntervalCents)
		row.StopDistanceMM = v.StopDistanceMillimetres()
		row.StopDistanceShort = row.StopDistanceMM < ShortStopDistanceMillimetres
	}
	return row, nil
}

// truncate drops the fractional part for whole-unit display.
func truncate(v float64) int {
	return int(math.Trunc(v))
}

func flag(short bool) string {
	if short {
		return " (short)"
	}
	return ""
}

func deviation(cents float64) string {
	if math.Abs(cents) < 0.005 {
		return ""
	}
	return fmt.Sprintf(" (%+.2f¢)", cents)
}
