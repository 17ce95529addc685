// Package store provides the SQLite-backed lookup history.
//
// The store is an append-only log with:
//   - lookups: one row per recorded search, holding the canonical request
//     and the hash of its result
//   - lookup_harmonics: the ordered harmonics of each result
//
// # Ordering and identity
//
// Every lookup is stamped with a logical sequence number, never a wall
// clock time. Queries order by seq ASC, id ASC COLLATE BINARY so that
// history reads are identical across runs.
//
// Lookup IDs, request hashes and result hashes are computed by package ir
// from RFC 8785 canonical JSON with SHA-256 and domain separation. Writing
// the same lookup twice is a no-op.
//
// # Replay
//
// Verify recomputes every stored request and compares result hashes. The
// search is deterministic, so any mismatch means the algorithm changed
// without a new ir.AlgorithmVersion.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON
package store
