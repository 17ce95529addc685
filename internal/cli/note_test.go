package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteByName(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"A4"}, "A4 = 440.00 Hz\n"},
		{[]string{"Db4"}, "D♭4 = 277.18 Hz\n"},
		{[]string{"A4", "--reference", "415"}, "A4 = 415.00 Hz\n"},
		{[]string{"C4"}, "C4 = 261.63 Hz\n"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			out, err := execute(t, NewNoteCommand, "text", tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestNoteByFrequency(t *testing.T) {
	out, err := execute(t, NewNoteCommand, "text", "--frequency", "440")
	require.NoError(t, err)
	assert.Equal(t, "440.00 Hz is A4 (440.00 Hz)\n", out)

	out, err = execute(t, NewNoteCommand, "text", "--frequency", "445")
	require.NoError(t, err)
	assert.Contains(t, out, "445.00 Hz is A4 (440.00 Hz) ")
	assert.Contains(t, out, "¢")

	out, err = execute(t, NewNoteCommand, "text", "--frequency", "466.16", "--prefer", "flat")
	require.NoError(t, err)
	assert.Contains(t, out, "466.16 Hz is B♭4 (466.16 Hz)")
}

func TestNoteJSON(t *testing.T) {
	out, err := execute(t, NewNoteCommand, "json", "--frequency", "440")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   NoteResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "A4", resp.Data.Note)
	assert.InDelta(t, 440.0, resp.Data.Frequency, 1e-9)
	assert.InDelta(t, 440.0, resp.Data.Input, 1e-9)
	assert.InDelta(t, 0.0, resp.Data.Cents, 1e-9)
}

func TestNoteErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"nothing given", nil, ErrCodeGeneric},
		{"name and frequency", []string{"A4", "--frequency", "440"}, ErrCodeGeneric},
		{"invalid name", []string{"H9"}, ErrCodeInvalidNote},
		{"zero reference", []string{"A4", "--reference", "0"}, ErrCodeInvalidFrequency},
		{"negative frequency", []string{"--frequency=-5"}, ErrCodeInvalidFrequency},
		{"unknown accidental", []string{"--frequency", "440", "--prefer", "double"}, ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewNoteCommand, "json", tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
