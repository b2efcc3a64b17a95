package compare

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// SummaryColumns is the schema of the machine-readable summary table.
var SummaryColumns = []string{
	"identifier", "pe", "simd", "status", "output_file", "golden_file",
}

func writeSummary(path string, result *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary table: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(SummaryColumns); err != nil {
		return err
	}
	for _, e := range result.Entries {
		row := []string{
			e.Ident,
			strconv.Itoa(e.PE),
			strconv.Itoa(e.SIMD),
			string(e.Status),
			e.OutputFile,
			e.GoldenFile,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeReport(path, stamp string, result *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	WriteReport(f, stamp, result)
	return nil
}

// WriteReport writes the human-readable comparison report to w.
func WriteReport(w io.Writer, stamp string, result *Result) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "DECONVOLUTION OUTPUT COMPARISON REPORT")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "\nRun: %s\n", stamp)
	fmt.Fprintf(w, "Compared %d output file(s)\n", result.Total)

	if result.Total == 0 {
		fmt.Fprintln(w, "\n⚠ Nothing to compare. Run the simulation and gather")
		fmt.Fprintln(w, "stages first; this run is recorded for audit continuity.")
	}

	for _, e := range result.Entries {
		fmt.Fprintln(w, "\n"+dash)
		fmt.Fprintf(w, "%s  PE=%d SIMD=%d\n", e.Ident, e.PE, e.SIMD)
		fmt.Fprintln(w, dash)
		fmt.Fprintf(w, "Output: %s\n", e.OutputFile)

		switch e.Status {
		case StatusMatch:
			fmt.Fprintf(w, "Golden: %s\n", e.GoldenFile)
			fmt.Fprintln(w, "✓ MATCH")
		case StatusNoGolden:
			fmt.Fprintln(w, "⚠ NO_GOLDEN: no reference table for this configuration")
		case StatusMismatch:
			fmt.Fprintf(w, "Golden: %s\n", e.GoldenFile)
			fmt.Fprintln(w, "✗ MISMATCH")
			fmt.Fprintln(w, "\nOutput content:")
			fmt.Fprintln(w, e.OutputContent)
			fmt.Fprintln(w, "Golden content:")
			fmt.Fprintln(w, e.GoldenContent)
		}
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "COMPARISON SUMMARY")
	fmt.Fprintln(w, separator)
	fmt.Fprintf(w, "Total:      %d\n", result.Total)
	fmt.Fprintf(w, "Matched:    %d\n", result.Matched)
	fmt.Fprintf(w, "Mismatched: %d\n", result.Mismatched)
	fmt.Fprintf(w, "No golden:  %d\n", result.NoGolden)
	fmt.Fprintf(w, "Skipped:    %d\n", result.Skipped)

	if result.Mismatched == 0 && result.NoGolden == 0 && result.Total > 0 {
		fmt.Fprintln(w, "\n✓ ALL OUTPUTS MATCH THEIR GOLDEN REFERENCES")
	} else if result.Mismatched > 0 {
		fmt.Fprintln(w, "\n✗ REGRESSIONS DETECTED")
		fmt.Fprintln(w, "Every mismatch above is a genuine behavioral divergence;")
		fmt.Fprintln(w, "the comparison ignores whitespace only, never values.")
	}
	fmt.Fprintln(w)
}

// RenderTable renders the summary entries as a console table.
func RenderTable(w io.Writer, result *Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Identifier", "PE", "SIMD", "Status", "Output", "Golden"})
	for _, e := range result.Entries {
		t.AppendRow(table.Row{e.Ident, e.PE, e.SIMD, string(e.Status), e.OutputFile, e.GoldenFile})
	}
	t.AppendFooter(table.Row{"", "", "",
		fmt.Sprintf("%d/%d matched", result.Matched, result.Total), "", ""})
	t.Render()
}
