package store

import (
	"encoding/json"
	"fmt"

	"github.com/pjcdawkins/harmonics/internal/ir"
)

// marshalRequest converts a request to canonical JSON TEXT for storage.
func marshalRequest(req ir.Request) (string, error) {
	data, err := req.Canonical()
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	return string(data), nil
}

func unmarshalRequest(data string) (ir.Request, error) {
	req, err := ir.ParseRequest([]byte(data))
	if err != nil {
		return ir.Request{}, fmt.Errorf("unmarshal request: %w", err)
	}
	return req, nil
}

// marshalRecord converts a harmonic record to canonical JSON TEXT.
func marshalRecord(rec ir.HarmonicRecord) (string, error) {
	data, err := ir.MarshalCanonical(rec.ToIR())
	if err != nil {
		return "", fmt.Errorf("marshal harmonic %d: %w", rec.Ordinal, err)
	}
	return string(data), nil
}

func unmarshalRecord(data string) (ir.HarmonicRecord, error) {
	if _, err := ir.UnmarshalIRValue([]byte(data)); err != nil {
		return ir.HarmonicRecord{}, fmt.Errorf("unmarshal harmonic: %w", err)
	}
	var rec ir.HarmonicRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return ir.HarmonicRecord{}, fmt.Errorf("unmarshal harmonic: %w", err)
	}
	return rec, nil
}
