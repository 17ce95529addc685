package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/violin_lookups.yaml")
	require.NoError(t, err)

	assert.Equal(t, "violin_lookups", scenario.Name)
	require.Len(t, scenario.Lookups, 7)
	assert.Equal(t, "E6", scenario.Lookups[0].Note)
	assert.Equal(t, []string{}, scenario.Lookups[1].Intervals)
	require.NotNil(t, scenario.Lookups[6].Constraints)
	require.NotNil(t, scenario.Lookups[6].Constraints.MaxCents)
	assert.Equal(t, -1.0, *scenario.Lookups[6].Constraints.MaxCents)
	assert.Len(t, scenario.Assertions, 3)
}

func TestLoadScenario_NormalizesMatches(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/violin_lookups.yaml")
	require.NoError(t, err)

	m := scenario.Lookups[2].Expect.Contains[0]
	assert.Equal(t, "D♭4", m.BaseStop)
	assert.Equal(t, "fourth", m.Interval)
}

func TestLoadScenario_ResolvesInstrumentPaths(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/custom_instruments.yaml")
	require.NoError(t, err)

	require.Len(t, scenario.Instruments, 1)
	assert.Equal(t,
		filepath.Join("testdata", "scenarios", "../../../instrument/testdata/custom.cue"),
		scenario.Instruments[0])
	assert.Equal(t, "run-custom-0001", scenario.RunToken)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "name: x\ndescription: y\nlookup: []\n",
			wantErr: "lookup",
		},
		{
			name:    "missing name",
			yaml:    "description: y\nlookups:\n  - {note: E6, instrument: violin}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			yaml:    "name: x\nlookups:\n  - {note: E6, instrument: violin}\n",
			wantErr: "description is required",
		},
		{
			name:    "no lookups",
			yaml:    "name: x\ndescription: y\n",
			wantErr: "lookups list is required",
		},
		{
			name:    "missing note",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {instrument: violin}\n",
			wantErr: "note is required",
		},
		{
			name:    "missing instrument",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {note: E6}\n",
			wantErr: "instrument is required",
		},
		{
			name:    "unknown interval",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {note: E6, instrument: violin, intervals: [tritone]}\n",
			wantErr: "tritone",
		},
		{
			name:    "unknown error kind",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {note: E6, instrument: violin, expect: {error: boom}}\n",
			wantErr: "unknown error kind",
		},
		{
			name:    "error with count",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {note: E6, instrument: violin, expect: {error: invalid_note, count: 1}}\n",
			wantErr: "cannot be combined",
		},
		{
			name:    "empty with count",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {note: E6, instrument: violin, expect: {empty: true, count: 2}}\n",
			wantErr: "contradicts",
		},
		{
			name:    "bad match note",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {note: E6, instrument: violin, expect: {contains: [{sounding: X1}]}}\n",
			wantErr: "contains[0]",
		},
		{
			name:    "bad match kind",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {note: E6, instrument: violin, expect: {contains: [{kind: pinched}]}}\n",
			wantErr: "pinched",
		},
		{
			name:    "missing instrument file",
			yaml:    "name: x\ndescription: y\ninstruments: [nope.cue]\nlookups:\n  - {note: E6, instrument: violin}\n",
			wantErr: "instrument file not found",
		},
		{
			name:    "unknown assertion",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {note: E6, instrument: violin}\nassertions:\n  - type: final_state\n",
			wantErr: "unknown assertion type",
		},
		{
			name:    "same_request needs two steps",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {note: E6, instrument: violin}\nassertions:\n  - {type: same_request, steps: [1]}\n",
			wantErr: "at least two steps",
		},
		{
			name:    "same_request step out of range",
			yaml:    "name: x\ndescription: y\nlookups:\n  - {note: E6, instrument: violin}\nassertions:\n  - {type: same_request, steps: [1, 2]}\n",
			wantErr: "step 2 out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
