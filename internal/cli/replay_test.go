package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pjcdawkins/harmonics/internal/config"
	"github.com/pjcdawkins/harmonics/internal/lookup"
	"github.com/pjcdawkins/harmonics/internal/store"
)

const customCUE = "../instrument/testdata/custom.cue"

func TestReplayMissingDatabaseFlag(t *testing.T) {
	_, err := execute(t, NewReplayCommand, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}

func TestReplayMissingDatabase(t *testing.T) {
	out, err := execute(t, NewReplayCommand, "json", "--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeStore, resp.Error.Code)
}

func TestReplayEmptyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	// Create empty database
	st, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	out, err := execute(t, NewReplayCommand, "text", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay Summary: 0 checked, 0 skipped")
	assert.Contains(t, out, "✓ All lookups verified deterministic")
}

func TestReplayRecordedLookups(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	recordFinds(t, dbPath, "E6", "Db6", "D♭6")

	out, err := execute(t, NewReplayCommand, "text", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay Summary: 3 checked, 0 skipped")
	assert.Contains(t, out, "✓ All lookups verified deterministic")
}

func TestReplayJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	recordFinds(t, dbPath, "E6")

	out, err := execute(t, NewReplayCommand, "json", "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   ReplayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Checked)
	assert.True(t, resp.Data.AllDeterministic)
	assert.Empty(t, resp.Data.Mismatches)
}

// writeTampered stores an E6 violin lookup that keeps only its first
// harmonic.
func writeTampered(t *testing.T, dbPath string) {
	t.Helper()
	ctx := context.Background()

	svc, err := config.Default().Service()
	require.NoError(t, err)
	res, err := svc.Lookup(lookup.Request{Note: "E6", Instrument: "violin"})
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	records := res.Records()[:1]
	l, err := store.NewLookup("run-tampered", 1, res.Request, records)
	require.NoError(t, err)
	_, err = st.WriteLookup(ctx, l, records)
	require.NoError(t, err)
}

func TestReplayDetectsMismatch(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	writeTampered(t, dbPath)

	out, err := execute(t, NewReplayCommand, "text", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ #1 E6 on violin")
	assert.Contains(t, out, "recorded 1 harmonics, replayed 5")
	assert.Contains(t, out, "✗ Determinism verification failed")
}

func TestReplayMismatchJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	writeTampered(t, dbPath)

	out, err := execute(t, NewReplayCommand, "json", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E_DETERMINISM", resp.Error.Code)
}

func TestReplayCustomInstruments(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	_, err := execute(t, NewFindCommand, "text", "C5", "-i", "five-string violin",
		"--instruments", customCUE, "--db", dbPath)
	require.NoError(t, err)

	// Without the definitions the instrument is unknown.
	out, err := execute(t, NewReplayCommand, "text", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ #1 C5 on five-string violin")
	assert.Contains(t, out, "replay failed:")

	out, err = execute(t, NewReplayCommand, "text", "--db", dbPath, "--instruments", customCUE)
	require.NoError(t, err)
	assert.Contains(t, out, "Replay Summary: 1 checked, 0 skipped")
}
