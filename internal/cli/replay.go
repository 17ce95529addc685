package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pjcdawkins/harmonics/internal/ir"
	"github.com/pjcdawkins/harmonics/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	CatalogOptions
	Database string
}

// ReplayMismatch describes a lookup whose replay differs from the record.
type ReplayMismatch struct {
	ID            string `json:"id"`
	Seq           int64  `json:"seq"`
	Note          string `json:"note"`
	Instrument    string `json:"instrument"`
	RecordedCount int64  `json:"recorded_count"`
	ReplayedCount int64  `json:"replayed_count"`
	RecordedHash  string `json:"recorded_hash"`
	ReplayedHash  string `json:"replayed_hash,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Checked          int              `json:"checked"`
	Skipped          int              `json:"skipped"`
	Mismatches       []ReplayMismatch `json:"mismatches"`
	AllDeterministic bool             `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay recorded lookups and verify determinism",
		Long: `Recompute every lookup in the history database from its stored request
and compare the result hash with the recorded one.

Lookups recorded by a different algorithm version are skipped. Custom
instruments used by recorded lookups must be given again with
--instruments or --config.

Exit codes:
  0 - Every lookup reproduced its recorded result
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  harmonics replay --db ./history.db
  harmonics replay --db ./history.db --instruments ./my-instruments.cue
  harmonics replay --db ./history.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	addCatalogFlags(cmd.Flags(), &opts.CatalogOptions)

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmdContext(cmd)

	cfg, err := loadConfig(f, cmd.Flags(), &opts.CatalogOptions, nil)
	if err != nil {
		return configFailure(f, err)
	}
	svc, err := cfg.Service()
	if err != nil {
		return configFailure(f, err)
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	report, err := st.Verify(ctx, func(req ir.Request) ([]ir.HarmonicRecord, error) {
		res, err := svc.Replay(req)
		if err != nil {
			return nil, err
		}
		return res.Records(), nil
	})
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to replay lookups", err)
	}

	result := ReplayResult{
		Checked:          report.Checked,
		Skipped:          report.Skipped,
		Mismatches:       make([]ReplayMismatch, 0, len(report.Mismatches)),
		AllDeterministic: report.OK(),
	}
	for _, m := range report.Mismatches {
		rm := ReplayMismatch{
			ID:            m.Lookup.ID,
			Seq:           m.Lookup.Seq,
			Note:          m.Lookup.Request.Note,
			Instrument:    m.Lookup.Request.Instrument,
			RecordedCount: m.Lookup.ResultCount,
			ReplayedCount: m.ResultCount,
			RecordedHash:  m.Lookup.ResultHash,
			ReplayedHash:  m.ResultHash,
		}
		if m.Err != nil {
			rm.Error = m.Err.Error()
		}
		result.Mismatches = append(result.Mismatches, rm)
	}

	if opts.Format == "json" {
		return outputReplayJSON(f, result)
	}
	return outputReplayText(cmd, result)
}

// openExisting opens a history database that must already exist.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	return store.Open(path)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(f *OutputFormatter, result ReplayResult) error {
	if result.AllDeterministic {
		return f.Success(result)
	}
	if err := f.Error("E_DETERMINISM", "determinism verification failed", result); err != nil {
		return err
	}
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}

// outputReplayText outputs the replay result as text.
func outputReplayText(cmd *cobra.Command, result ReplayResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Replay Summary: %d checked, %d skipped\n", result.Checked, result.Skipped)

	for _, m := range result.Mismatches {
		fmt.Fprintf(w, "✗ #%d %s on %s\n", m.Seq, m.Note, m.Instrument)
		if m.Error != "" {
			fmt.Fprintf(w, "  replay failed: %s\n", m.Error)
			continue
		}
		fmt.Fprintf(w, "  recorded %d harmonics, replayed %d\n", m.RecordedCount, m.ReplayedCount)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All lookups verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	// Determinism failure = exit code 1
	return NewExitError(ExitFailure, "determinism verification failed")
}
