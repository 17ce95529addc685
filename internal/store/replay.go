package store

import (
	"context"
	"fmt"

	"github.com/pjcdawkins/harmonics/internal/ir"
)

// ReplayFunc recomputes the result of a stored request.
type ReplayFunc func(req ir.Request) ([]ir.HarmonicRecord, error)

// Mismatch is a stored lookup whose replay differs from the record.
type Mismatch struct {
	Lookup Lookup

	// ResultHash is the hash of the replayed result. Empty if the replay
	// failed.
	ResultHash  string
	ResultCount int64
	Err         error
}

// ReplayReport summarizes a Verify run.
type ReplayReport struct {
	Checked    int
	Skipped    int
	Mismatches []Mismatch
}

// OK reports whether every checked lookup reproduced its result.
func (r ReplayReport) OK() bool {
	return len(r.Mismatches) == 0
}

// Verify replays every stored lookup in seq order and compares result
// hashes. Lookups recorded under another algorithm version are skipped.
// A replay error is recorded as a mismatch; only store errors are
// returned.
func (s *Store) Verify(ctx context.Context, replay ReplayFunc) (ReplayReport, error) {
	lookups, err := s.ListLookups(ctx)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("verify: %w", err)
	}

	var report ReplayReport
	for _, l := range lookups {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if l.AlgorithmVersion != ir.AlgorithmVersion {
			report.Skipped++
			continue
		}
		report.Checked++

		records, err := replay(l.Request)
		if err != nil {
			report.Mismatches = append(report.Mismatches, Mismatch{Lookup: l, Err: err})
			continue
		}
		hash, err := ir.ResultHash(records)
		if err != nil {
			report.Mismatches = append(report.Mismatches, Mismatch{Lookup: l, Err: err})
			continue
		}
		if hash != l.ResultHash {
			report.Mismatches = append(report.Mismatches, Mismatch{
				Lookup:      l,
				ResultHash:  hash,
				ResultCount: int64(len(records)),
			})
		}
	}
	return report, nil
}
