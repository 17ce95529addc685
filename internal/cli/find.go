package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pjcdawkins/harmonics/internal/lookup"
	"github.com/pjcdawkins/harmonics/internal/report"
	"github.com/pjcdawkins/harmonics/internal/store"
)

// FindOptions holds flags for the find command.
type FindOptions struct {
	*RootOptions
	CatalogOptions
	SearchOptions
	Instrument string
	Database   string
}

// NewFindCommand creates the find command.
func NewFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find <note>",
		Short: "Find harmonics that sound a note",
		Long: `List every natural and artificial harmonic that sounds the given note
on an instrument, grouped by string.

Constraints and intervals default to the configuration file, then to the
built-in defaults. With --db the lookup is appended to the history
database.

Exit codes:
  0 - Lookup succeeded (including when nothing was found)
  2 - Invalid note, instrument, constraint or configuration

Examples:
  harmonics find E6
  harmonics find "C#7" --instrument viola
  harmonics find A5 --instrument cello --reference 415
  harmonics find E6 --intervals fourth,fifth --max-cents 10
  harmonics find E6 --db history.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Instrument, "instrument", "i", "violin", "instrument name")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record the lookup in this SQLite database")
	addCatalogFlags(cmd.Flags(), &opts.CatalogOptions)
	addSearchFlags(cmd.Flags(), &opts.SearchOptions)

	return cmd
}

func runFind(opts *FindOptions, note string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(f, cmd.Flags(), &opts.CatalogOptions, &opts.SearchOptions)
	if err != nil {
		return configFailure(f, err)
	}
	svc, err := cfg.Service()
	if err != nil {
		return configFailure(f, err)
	}

	slog.Debug("lookup", "note", note, "instrument", opts.Instrument, "reference", cfg.Reference)
	res, err := svc.Lookup(lookup.Request{Note: note, Instrument: opts.Instrument})
	if err != nil {
		return f.Fail(ExitCommandError, ErrorCode(err), "lookup failed", err)
	}
	slog.Debug("lookup complete", "found", len(res.Harmonics))

	database := opts.Database
	if database == "" {
		database = cfg.History
	}
	if database != "" {
		if err := recordLookup(cmdContext(cmd), database, res); err != nil {
			return f.Fail(ExitCommandError, ErrCodeStore, "failed to record lookup", err)
		}
	}

	rep, err := report.Build(res)
	if err != nil {
		return f.Fail(ExitCommandError, ErrorCode(err), "failed to build report", err)
	}
	if opts.Format == "json" {
		return f.Success(rep)
	}
	return report.WriteText(cmd.OutOrStdout(), rep)
}

// recordLookup appends res to the history database at path.
func recordLookup(ctx context.Context, path string, res *lookup.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	rec, err := store.NewRecorder(ctx, st)
	if err != nil {
		return err
	}
	l, err := rec.Record(ctx, res.Request, res.Records())
	if err != nil {
		return fmt.Errorf("record %s: %w", res.Request.Note, err)
	}
	slog.Info("lookup recorded", "id", l.ID, "seq", l.Seq, "run", l.RunToken)
	return nil
}

// cmdContext returns the command's context, or Background when it has none.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
