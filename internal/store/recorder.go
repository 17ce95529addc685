package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/pjcdawkins/harmonics/internal/ir"
)

// Clock is a monotonic logical clock. Every recorded lookup is stamped
// with a strictly increasing seq from it.
type Clock interface {
	Next() int64
}

// SeqClock is the default Clock. It is safe for concurrent use.
type SeqClock struct {
	seq atomic.Int64
}

// NewClockAt returns a clock whose first Next returns start+1. Recorders
// resume from the store's LastSeq so that seq keeps increasing across
// processes.
func NewClockAt(start int64) *SeqClock {
	c := &SeqClock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number.
func (c *SeqClock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last sequence number handed out.
func (c *SeqClock) Current() int64 {
	return c.seq.Load()
}

// TokenGenerator produces run tokens.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Recorder appends lookups to a store under one run token.
type Recorder struct {
	store    *Store
	runToken string
	clock    Clock

	mu sync.Mutex
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderConfig)

type recorderConfig struct {
	tokens TokenGenerator
	clock  Clock
}

// WithTokenGenerator replaces the UUIDv7 run token generator.
func WithTokenGenerator(g TokenGenerator) RecorderOption {
	return func(c *recorderConfig) { c.tokens = g }
}

// WithClock replaces the clock that would resume from the store's
// LastSeq.
func WithClock(clock Clock) RecorderOption {
	return func(c *recorderConfig) { c.clock = clock }
}

// NewRecorder starts a run. The run token is generated once; seq resumes
// after the highest seq already stored.
func NewRecorder(ctx context.Context, s *Store, opts ...RecorderOption) (*Recorder, error) {
	cfg := recorderConfig{tokens: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.clock == nil {
		last, err := s.LastSeq(ctx)
		if err != nil {
			return nil, fmt.Errorf("new recorder: %w", err)
		}
		cfg.clock = NewClockAt(last)
	}
	return &Recorder{store: s, runToken: cfg.tokens.Generate(), clock: cfg.clock}, nil
}

// RunToken returns the token shared by every lookup this recorder writes.
func (r *Recorder) RunToken() string {
	return r.runToken
}

// Record stamps a lookup with the next seq and writes it.
func (r *Recorder) Record(ctx context.Context, req ir.Request, records []ir.HarmonicRecord) (Lookup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, err := NewLookup(r.runToken, r.clock.Next(), req, records)
	if err != nil {
		return Lookup{}, fmt.Errorf("record lookup: %w", err)
	}
	if _, err := r.store.WriteLookup(ctx, l, records); err != nil {
		return Lookup{}, err
	}
	return l, nil
}
