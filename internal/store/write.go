package store

import (
	"context"
	"fmt"

	"github.com/pjcdawkins/harmonics/internal/ir"
)

// Lookup is one recorded search.
type Lookup struct {
	ID               string
	RunToken         string
	Seq              int64
	Request          ir.Request
	RequestHash      string
	ResultHash       string
	ResultCount      int64
	AlgorithmVersion string
	IRVersion        string
}

// NewLookup builds the record for a search, computing its hashes and
// content-addressed ID.
func NewLookup(runToken string, seq int64, req ir.Request, records []ir.HarmonicRecord) (Lookup, error) {
	reqHash, err := ir.RequestHash(req)
	if err != nil {
		return Lookup{}, err
	}
	resHash, err := ir.ResultHash(records)
	if err != nil {
		return Lookup{}, err
	}
	id, err := ir.LookupID(runToken, reqHash, seq)
	if err != nil {
		return Lookup{}, err
	}
	return Lookup{
		ID:               id,
		RunToken:         runToken,
		Seq:              seq,
		Request:          req,
		RequestHash:      reqHash,
		ResultHash:       resHash,
		ResultCount:      int64(len(records)),
		AlgorithmVersion: ir.AlgorithmVersion,
		IRVersion:        ir.IRVersion,
	}, nil
}

// WriteLookup inserts a lookup and its harmonics in one transaction.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: writing a lookup that
// already exists leaves the store unchanged and returns inserted=false.
func (s *Store) WriteLookup(ctx context.Context, l Lookup, records []ir.HarmonicRecord) (inserted bool, err error) {
	if int64(len(records)) != l.ResultCount {
		return false, fmt.Errorf("write lookup: %d harmonics for result count %d", len(records), l.ResultCount)
	}
	reqJSON, err := marshalRequest(l.Request)
	if err != nil {
		return false, fmt.Errorf("write lookup: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write lookup: begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO lookups
		(id, run_token, seq, note, instrument, request, request_hash, result_hash, result_count, algorithm_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		l.ID,
		l.RunToken,
		l.Seq,
		l.Request.Note,
		l.Request.Instrument,
		reqJSON,
		l.RequestHash,
		l.ResultHash,
		l.ResultCount,
		l.AlgorithmVersion,
		l.IRVersion,
	)
	if err != nil {
		return false, fmt.Errorf("write lookup: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write lookup: rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	for _, rec := range records {
		recJSON, err := marshalRecord(rec)
		if err != nil {
			return false, fmt.Errorf("write lookup: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO lookup_harmonics (lookup_id, ordinal, string, kind, number, record)
			VALUES (?, ?, ?, ?, ?, ?)
		`, l.ID, rec.Ordinal, rec.String, rec.Kind, rec.Number, recJSON)
		if err != nil {
			return false, fmt.Errorf("write lookup harmonic %d: %w", rec.Ordinal, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write lookup: commit: %w", err)
	}
	return true, nil
}
