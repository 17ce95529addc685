package report

import (
	"bufio"
	"fmt"
	"io"
)

// WriteText renders r for a terminal. Lengths are shown in whole
// millimetres and percent, truncated.
func WriteText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	if r.Count == 0 {
		fmt.Fprintf(bw, "No harmonics found for sounding note %s on a %s\n", r.Target, r.Instrument)
		return bw.Flush()
	}

	fmt.Fprintf(bw, "Sounding note: %s\n", r.Target)
	for _, g := range r.Strings {
		fmt.Fprintf(bw, "\nString: %s\n", g.String)
		for _, row := range g.Rows {
			writeRow(bw, row)
		}
	}
	return bw.Flush()
}

func writeRow(w io.Writer, row Row) {
	const indent = "    "

	if row.Kind == "artificial" {
		fmt.Fprintf(w, "Artificial harmonic, %s apart:\n", row.Interval)
		fmt.Fprintf(w, "%ssounding: %s%s\n", indent, row.Sounding, deviation(row.DeviationCents))
		fmt.Fprintf(w, "%slower stop: %s\n", indent, row.BaseStop)
		fmt.Fprintf(w, "%supper (harmonic-pressure) stop: %s\n", indent, row.TouchStop)
		fmt.Fprintf(w, "%sdistance between stops: %d mm%s\n", indent, truncate(row.StopDistanceMM), flag(row.StopDistanceShort))
		writeRemaining(w, indent, row)
		return
	}

	if row.Open {
		fmt.Fprintf(w, "Natural harmonic:\n")
		fmt.Fprintf(w, "%sfundamental / open string\n", indent)
		return
	}

	fmt.Fprintf(w, "Natural harmonic, %s along string:\n", row.Node)
	fmt.Fprintf(w, "%ssounding: %s%s\n", indent, row.Sounding, deviation(row.DeviationCents))
	fmt.Fprintf(w, "%sharmonic-pressure stop: %s\n", indent, row.TouchStop)
	writeRemaining(w, indent, row)
}

func writeRemaining(w io.Writer, indent string, row Row) {
	fmt.Fprintf(w, "%sremaining string length: %d%% (%d mm)%s\n",
		indent, truncate(row.RemainingPercent), truncate(row.RemainingMM), flag(row.RemainingShort))
}
