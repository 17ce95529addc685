package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() Request {
	return Request{
		Note:       "E6",
		Instrument: "violin",
		Reference:  440_000,
		Constraints: Constraints{
			MinStopDistance:   1_000,
			MaxStopDistance:   120_000,
			MinBowedLength:    20_000,
			MaxCentsDeviation: 50_000,
		},
		Intervals: []string{"fourth", "major-third"},
	}
}

func TestRequestCanonical(t *testing.T) {
	data, err := sampleRequest().Canonical()
	require.NoError(t, err)
	assert.Equal(t,
		`{"constraints":{"max_millicents":50000,"max_stop_distance_um":120000,"min_bowed_distance_um":20000,"min_stop_distance_um":1000},`+
			`"instrument":"violin","intervals":["fourth","major-third"],"note":"E6","reference_millihz":440000}`,
		string(data))
}

func TestParseRequestRoundTrip(t *testing.T) {
	req := sampleRequest()
	data, err := req.Canonical()
	require.NoError(t, err)

	parsed, err := ParseRequest(data)
	require.NoError(t, err)
	assert.Equal(t, req, parsed)

	empty := Request{Note: "A4", Instrument: "viola", Intervals: []string{}}
	data, err = empty.Canonical()
	require.NoError(t, err)
	parsed, err = ParseRequest(data)
	require.NoError(t, err)
	assert.Equal(t, empty, parsed)
}

func TestParseRequestRejectsFloats(t *testing.T) {
	_, err := ParseRequest([]byte(`{"note":"E6","reference_millihz":440.5}`))
	assert.Error(t, err)
}

func TestRequestHashDeterminism(t *testing.T) {
	h1, err := RequestHash(sampleRequest())
	require.NoError(t, err)
	h2, err := RequestHash(sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestRequestHashChangesWithInput(t *testing.T) {
	base := MustRequestHash(sampleRequest())

	note := sampleRequest()
	note.Note = "E5"
	ref := sampleRequest()
	ref.Reference = 415_000
	tol := sampleRequest()
	tol.Constraints.MaxCentsDeviation = 1_000
	order := sampleRequest()
	order.Intervals = []string{"major-third", "fourth"}

	for _, r := range []Request{note, ref, tol, order} {
		assert.NotEqual(t, base, MustRequestHash(r))
	}
}

func TestResultHash(t *testing.T) {
	records := []HarmonicRecord{
		{Ordinal: 0, StringIndex: 2, String: "A4", Kind: "natural", Number: 3, TouchStop: 333_333, Sounding: 1_320_000},
		{Ordinal: 1, StringIndex: 3, String: "E5", Kind: "natural", Number: 2, TouchStop: 500_000, Sounding: 1_318_510},
	}

	h1, err := ResultHash(records)
	require.NoError(t, err)
	h2, err := ResultHash([]HarmonicRecord{records[1], records[0]})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2, "result order is part of its identity")

	empty, err := ResultHash(nil)
	require.NoError(t, err)
	assert.NotEqual(t, h1, empty)
	assert.Len(t, empty, 64)
}

func TestHarmonicRecordToIR(t *testing.T) {
	open := HarmonicRecord{StringIndex: 3, String: "E5", Kind: "natural", Number: 1, Sounding: 659_255}
	assert.Equal(t, IRObject{
		"ordinal":          IRInt(0),
		"string_index":     IRInt(3),
		"string":           IRString("E5"),
		"kind":             IRString("natural"),
		"number":           IRInt(1),
		"sounding_millihz": IRInt(659_255),
	}, open.ToIR())

	art := HarmonicRecord{
		Ordinal: 1, String: "G3", Kind: "artificial", Number: 4,
		Interval: "fourth", Semitones: 9, BaseStop: 405_396, TouchStop: 554_047, Sounding: 1_318_510,
	}
	obj := art.ToIR()
	assert.Equal(t, IRString("fourth"), obj["interval"])
	assert.Equal(t, IRInt(9), obj["semitones"])
	assert.Equal(t, IRInt(405_396), obj["base_stop_ppm"])
	assert.Equal(t, IRInt(554_047), obj["touch_stop_ppm"])
}

func TestLookupID(t *testing.T) {
	req := MustRequestHash(sampleRequest())

	id1, err := LookupID("run-1", req, 1)
	require.NoError(t, err)
	id2, err := LookupID("run-1", req, 2)
	require.NoError(t, err)
	id3, err := LookupID("run-2", req, 1)
	require.NoError(t, err)
	again, err := LookupID("run-1", req, 1)
	require.NoError(t, err)

	assert.Equal(t, id1, again)
	assert.NotEqual(t, id1, id2)
	assert.NotEqual(t, id1, id3)
}

func TestScale(t *testing.T) {
	assert.Equal(t, int64(440_000), Scale(440, Milli))
	assert.Equal(t, int64(333_333), Scale(1.0/3, PPM))
	assert.Equal(t, int64(-13_686), Scale(-13.6857, Milli))
	assert.InDelta(t, 440.0, Unscale(440_000, Milli), 1e-12)
}

func TestScaleSaturates(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), Scale(1e17, Milli))
	assert.Equal(t, int64(math.MinInt64), Scale(-1e17, Milli))
	assert.Equal(t, int64(math.MaxInt64), Scale(math.Inf(1), Milli))
	assert.Equal(t, int64(0), Scale(math.NaN(), Milli))
}
