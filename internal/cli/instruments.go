package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// InstrumentsOptions holds flags for the instruments command.
type InstrumentsOptions struct {
	*RootOptions
	CatalogOptions
}

// InstrumentInfo describes one catalog instrument.
type InstrumentInfo struct {
	Name    string       `json:"name"`
	Strings []StringInfo `json:"strings"`
}

// StringInfo describes one string, lowest first.
type StringInfo struct {
	Note      string  `json:"note"`
	Frequency float64 `json:"frequency_hz"`
	Length    float64 `json:"length_mm"`
}

// NewInstrumentsCommand creates the instruments command.
func NewInstrumentsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InstrumentsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "instruments",
		Short: "List known instruments and their strings",
		Long: `List the preset instruments and any custom instruments loaded from CUE
files, with each string's tuning, open frequency and scale length.

Examples:
  harmonics instruments
  harmonics instruments --instruments ./my-instruments.cue
  harmonics instruments --reference 415 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstruments(opts, cmd)
		},
	}

	addCatalogFlags(cmd.Flags(), &opts.CatalogOptions)

	return cmd
}

func runInstruments(opts *InstrumentsOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(f, cmd.Flags(), &opts.CatalogOptions, nil)
	if err != nil {
		return configFailure(f, err)
	}
	catalog, err := cfg.Catalog()
	if err != nil {
		return configFailure(f, err)
	}

	infos := make([]InstrumentInfo, 0, len(catalog.Names()))
	for _, inst := range catalog.Instruments() {
		info := InstrumentInfo{Name: inst.Name(), Strings: make([]StringInfo, 0, inst.NumStrings())}
		for _, s := range inst.Strings() {
			info.Strings = append(info.Strings, StringInfo{
				Note:      s.Name(),
				Frequency: s.OpenFrequency(),
				Length:    s.PhysicalLength(),
			})
		}
		infos = append(infos, info)
	}

	if opts.Format == "json" {
		return f.Success(infos)
	}

	w := cmd.OutOrStdout()
	for _, info := range infos {
		notes := make([]string, len(info.Strings))
		for i, s := range info.Strings {
			notes[i] = s.Note
		}
		fmt.Fprintf(w, "%s: %s\n", info.Name, strings.Join(notes, " "))
		if opts.Verbose {
			for _, s := range info.Strings {
				fmt.Fprintf(w, "  %-4s %8.2f Hz  %g mm\n", s.Note, s.Frequency, s.Length)
			}
		}
	}
	return nil
}
