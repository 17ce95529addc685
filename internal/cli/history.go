package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pjcdawkins/harmonics/internal/ir"
	"github.com/pjcdawkins/harmonics/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	RunToken string // optional - specific run only
}

// HistoryEntry is one recorded lookup.
type HistoryEntry struct {
	ID          string   `json:"id"`
	RunToken    string   `json:"run_token"`
	Seq         int64    `json:"seq"`
	Note        string   `json:"note"`
	Instrument  string   `json:"instrument"`
	Reference   float64  `json:"reference_hz"`
	Intervals   []string `json:"intervals"`
	ResultCount int64    `json:"result_count"`
	RequestHash string   `json:"request_hash"`
	ResultHash  string   `json:"result_hash"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded lookups",
		Long: `List the lookups recorded in a history database, oldest first.

Examples:
  harmonics history --db ./history.db
  harmonics history --db ./history.db --run 0193e0c4-...
  harmonics history --db ./history.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "list one run only")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	ctx := cmdContext(cmd)

	st, err := openExisting(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	var lookups []store.Lookup
	if opts.RunToken != "" {
		lookups, err = st.ListRun(ctx, opts.RunToken)
	} else {
		lookups, err = st.ListLookups(ctx)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to list lookups", err)
	}

	entries := make([]HistoryEntry, len(lookups))
	for i, l := range lookups {
		entries[i] = HistoryEntry{
			ID:          l.ID,
			RunToken:    l.RunToken,
			Seq:         l.Seq,
			Note:        l.Request.Note,
			Instrument:  l.Request.Instrument,
			Reference:   ir.Unscale(l.Request.Reference, ir.Milli),
			Intervals:   l.Request.Intervals,
			ResultCount: l.ResultCount,
			RequestHash: l.RequestHash,
			ResultHash:  l.ResultHash,
		}
	}

	if opts.Format == "json" {
		return f.Success(entries)
	}

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(w, "No lookups recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tNOTE\tINSTRUMENT\tA4\tFOUND\tRUN")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%d\t%s\n", e.Seq, e.Note, e.Instrument, e.Reference, e.ResultCount, e.RunToken)
	}
	return tw.Flush()
}
