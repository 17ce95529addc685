package store_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjcdawkins/harmonics/internal/ir"
	"github.com/pjcdawkins/harmonics/internal/store"
	"github.com/pjcdawkins/harmonics/internal/testutil"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func request(note string) ir.Request {
	return ir.Request{Note: note, Instrument: "cello", Reference: 440_000, Intervals: []string{"fourth"}}
}

func TestRecorderDeterministic(t *testing.T) {
	ctx := context.Background()
	record := func() []store.Lookup {
		s := openStore(t)
		rec, err := store.NewRecorder(ctx, s,
			store.WithTokenGenerator(testutil.NewFixedTokenGenerator("run-fixed")),
			store.WithClock(testutil.NewDeterministicClock()),
		)
		require.NoError(t, err)
		assert.Equal(t, "run-fixed", rec.RunToken())

		for _, n := range []string{"A5", "G5", "A5"} {
			_, err := rec.Record(ctx, request(n), nil)
			require.NoError(t, err)
		}
		all, err := s.ListLookups(ctx)
		require.NoError(t, err)
		return all
	}

	first, second := record(), record()
	require.Len(t, first, 3)
	assert.Equal(t, first, second, "same run token and clock produce identical history")
	assert.Equal(t, []int64{1, 2, 3}, []int64{first[0].Seq, first[1].Seq, first[2].Seq})
	assert.Equal(t, first[0].RequestHash, first[2].RequestHash)
	assert.NotEqual(t, first[0].ID, first[2].ID, "repeated request is a new lookup")
}

func TestRecorderResumesSeq(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	rec, err := store.NewRecorder(ctx, s)
	require.NoError(t, err)
	_, err = rec.Record(ctx, request("A5"), nil)
	require.NoError(t, err)
	_, err = rec.Record(ctx, request("G5"), nil)
	require.NoError(t, err)

	next, err := store.NewRecorder(ctx, s)
	require.NoError(t, err)
	l, err := next.Record(ctx, request("D5"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), l.Seq)
	assert.NotEqual(t, rec.RunToken(), next.RunToken())

	parsed, err := uuid.Parse(next.RunToken())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	run, err := s.ListRun(ctx, rec.RunToken())
	require.NoError(t, err)
	assert.Len(t, run, 2)
}

func TestRecorderConcurrent(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	rec, err := store.NewRecorder(ctx, s)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, n := range []string{"A4", "B4", "C5", "D5", "E5", "F5", "G5", "A5"} {
		n := n
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rec.Record(ctx, request(n), nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := s.ListLookups(ctx)
	require.NoError(t, err)
	require.Len(t, all, 8)
	for i, l := range all {
		assert.Equal(t, int64(i+1), l.Seq)
	}
}

func TestSeqClock(t *testing.T) {
	c := store.NewClockAt(10)
	assert.Equal(t, int64(11), c.Next())
	assert.Equal(t, int64(11), c.Current())
}
