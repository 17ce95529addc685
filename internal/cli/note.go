package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/pjcdawkins/harmonics/internal/pitch"
)

// NoteOptions holds flags for the note command.
type NoteOptions struct {
	*RootOptions
	Frequency float64
	Reference float64
	Prefer    string
}

// NoteResult is a note with its equal-tempered frequency. For a frequency
// query, Cents is the distance from the nearest note.
type NoteResult struct {
	Note      string  `json:"note"`
	Frequency float64 `json:"frequency_hz"`
	Input     float64 `json:"input_hz,omitempty"`
	Cents     float64 `json:"cents,omitempty"`
}

// NewNoteCommand creates the note command.
func NewNoteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NoteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "note [<name>]",
		Short: "Convert between note names and frequencies",
		Long: `Print the equal-tempered frequency of a note, or with --frequency the
nearest note to a frequency and the distance from it in cents.

Examples:
  harmonics note A4
  harmonics note "E♭5" --reference 442
  harmonics note --frequency 445
  harmonics note --frequency 277.2 --prefer flat`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNote(opts, args, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.Frequency, "frequency", 0, "find the nearest note to this frequency in Hz")
	cmd.Flags().Float64Var(&opts.Reference, "reference", pitch.DefaultReference, "frequency of A4 in Hz")
	cmd.Flags().StringVar(&opts.Prefer, "prefer", "sharp", "accidental for black keys (sharp|flat)")

	return cmd
}

func runNote(opts *NoteOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	byFrequency := cmd.Flags().Changed("frequency")
	if byFrequency == (len(args) == 1) {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "give either a note name or --frequency", nil)
	}

	if !(opts.Reference > 0) || math.IsInf(opts.Reference, 0) {
		err := fmt.Errorf("%w: reference %v Hz", pitch.ErrInvalidFrequency, opts.Reference)
		return f.Fail(ExitCommandError, ErrCodeInvalidFrequency, "invalid reference", err)
	}

	var result NoteResult
	if byFrequency {
		prefer, err := pitch.ParseAccidental(opts.Prefer)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeGeneric, "invalid --prefer", err)
		}
		n, err := pitch.Nearest(opts.Frequency, opts.Reference, prefer)
		if err != nil {
			return f.Fail(ExitCommandError, ErrorCode(err), "invalid frequency", err)
		}
		exact := n.Frequency(opts.Reference)
		result = NoteResult{
			Note:      n.String(),
			Frequency: exact,
			Input:     opts.Frequency,
			Cents:     pitch.CentsBetween(opts.Frequency, exact),
		}
	} else {
		n, err := pitch.Parse(args[0])
		if err != nil {
			return f.Fail(ExitCommandError, ErrorCode(err), "invalid note", err)
		}
		result = NoteResult{Note: n.String(), Frequency: n.Frequency(opts.Reference)}
	}

	if opts.Format == "json" {
		return f.Success(result)
	}

	w := cmd.OutOrStdout()
	if byFrequency {
		fmt.Fprintf(w, "%.2f Hz is %s (%.2f Hz)%s\n", result.Input, result.Note, result.Frequency, centsSuffix(result.Cents))
		return nil
	}
	fmt.Fprintf(w, "%s = %.2f Hz\n", result.Note, result.Frequency)
	return nil
}

func centsSuffix(c float64) string {
	if c > -0.005 && c < 0.005 {
		return ""
	}
	return fmt.Sprintf(" %+.2f¢", c)
}
