package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pjcdawkins/harmonics/internal/ir"
)

const lookupColumns = `id, run_token, seq, request, request_hash, result_hash, result_count, algorithm_version, ir_version`

// ListLookups returns every recorded lookup, ordered by seq ASC, id ASC.
// Returns an empty slice (not nil) if the history is empty.
func (s *Store) ListLookups(ctx context.Context) ([]Lookup, error) {
	return s.queryLookups(ctx, `
		SELECT `+lookupColumns+`
		FROM lookups
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

// ListRun returns the lookups recorded under runToken, in seq order.
func (s *Store) ListRun(ctx context.Context, runToken string) ([]Lookup, error) {
	return s.queryLookups(ctx, `
		SELECT `+lookupColumns+`
		FROM lookups
		WHERE run_token = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runToken)
}

// FindByRequest returns the lookups whose request hashes to requestHash.
func (s *Store) FindByRequest(ctx context.Context, requestHash string) ([]Lookup, error) {
	return s.queryLookups(ctx, `
		SELECT `+lookupColumns+`
		FROM lookups
		WHERE request_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, requestHash)
}

func (s *Store) queryLookups(ctx context.Context, query string, args ...any) ([]Lookup, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lookups: %w", err)
	}
	defer rows.Close()

	lookups := []Lookup{}
	for rows.Next() {
		l, err := scanLookup(rows)
		if err != nil {
			return nil, err
		}
		lookups = append(lookups, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lookups: %w", err)
	}
	return lookups, nil
}

// ReadLookup retrieves a single lookup by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadLookup(ctx context.Context, id string) (Lookup, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+lookupColumns+`
		FROM lookups
		WHERE id = ?
	`, id)
	return scanLookup(row)
}

// ReadHarmonics returns the harmonics of a lookup in result order.
func (s *Store) ReadHarmonics(ctx context.Context, lookupID string) ([]ir.HarmonicRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record
		FROM lookup_harmonics
		WHERE lookup_id = ?
		ORDER BY ordinal ASC
	`, lookupID)
	if err != nil {
		return nil, fmt.Errorf("query harmonics: %w", err)
	}
	defer rows.Close()

	records := []ir.HarmonicRecord{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan harmonic: %w", err)
		}
		rec, err := unmarshalRecord(data)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate harmonics: %w", err)
	}
	return records, nil
}

// LastSeq returns the highest recorded sequence number, or 0 if the
// history is empty.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM lookups`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLookup(sc scanner) (Lookup, error) {
	var (
		l       Lookup
		reqJSON string
	)
	err := sc.Scan(&l.ID, &l.RunToken, &l.Seq, &reqJSON, &l.RequestHash, &l.ResultHash,
		&l.ResultCount, &l.AlgorithmVersion, &l.IRVersion)
	if err == sql.ErrNoRows {
		return Lookup{}, err
	}
	if err != nil {
		return Lookup{}, fmt.Errorf("scan lookup: %w", err)
	}
	if l.Request, err = unmarshalRequest(reqJSON); err != nil {
		return Lookup{}, err
	}
	return l, nil
}
