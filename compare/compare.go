// Package compare pairs gathered simulation outputs with their golden
// references, performs exact content comparison, and records each pass as an
// immutable timestamped run in the comparison history.
package compare

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sarchlab/deconvbench/config"
	"github.com/sarchlab/deconvbench/gather"
)

// Status classifies one output/golden pairing.
type Status string

const (
	StatusMatch    Status = "MATCH"
	StatusMismatch Status = "MISMATCH"
	StatusNoGolden Status = "NO_GOLDEN"
)

// Entry is one row of the comparison summary.
type Entry struct {
	Ident      string // canonical configuration identifier
	PE         int
	SIMD       int
	Status     Status
	OutputFile string
	GoldenFile string

	// Raw contents, captured verbatim for the mismatch dumps in the
	// narrative report.
	OutputContent string
	GoldenContent string
}

// Result aggregates one comparison pass.
type Result struct {
	Entries    []Entry
	Total      int
	Matched    int
	Mismatched int
	NoGolden   int
	Skipped    int // staged files whose names did not decode

	RunDir string // the timestamped run directory this pass was recorded in
}

// Run compares every staged output against its golden counterpart and records
// the pass under historyRoot. Both staging directories must exist; a missing
// one aborts with the gather command that produces it. A pass that found
// nothing to compare is still recorded, for audit continuity.
func Run(outputsDir, goldenDir, historyRoot string, now time.Time) (*Result, error) {
	if _, err := os.Stat(outputsDir); err != nil {
		return nil, &config.MissingPrerequisiteError{
			Missing: outputsDir,
			Remedy:  "deconvbench gather-outputs",
		}
	}
	if _, err := os.Stat(goldenDir); err != nil {
		return nil, &config.MissingPrerequisiteError{
			Missing: goldenDir,
			Remedy:  "deconvbench gather-golden",
		}
	}

	result, err := comparePass(outputsDir, goldenDir)
	if err != nil {
		return nil, err
	}
	if result.Total == 0 {
		slog.Warn("No comparable output/golden pairs found",
			"outputs", outputsDir, "golden", goldenDir)
	}

	runDir, err := recordRun(historyRoot, now, result)
	if err != nil {
		return nil, err
	}
	result.RunDir = runDir
	return result, nil
}

func comparePass(outputsDir, goldenDir string) (*Result, error) {
	entries, err := os.ReadDir(outputsDir)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		c, pe, simd, err := parseOutputName(name)
		if err != nil {
			result.Skipped++
			slog.Warn("Skipping output with unparseable name", "file", name, "error", err)
			continue
		}

		outputContent, err := os.ReadFile(filepath.Join(outputsDir, name))
		if err != nil {
			result.Skipped++
			slog.Warn("Skipping unreadable output", "file", name, "error", err)
			continue
		}

		e := Entry{
			Ident:         c.Ident(),
			PE:            pe,
			SIMD:          simd,
			OutputFile:    name,
			GoldenFile:    c.DataBase() + gather.GoldenSuffix,
			OutputContent: string(outputContent),
		}

		goldenContent, err := os.ReadFile(filepath.Join(goldenDir, e.GoldenFile))
		switch {
		case err != nil:
			e.Status = StatusNoGolden
			e.GoldenFile = ""
			result.NoGolden++
		default:
			e.GoldenContent = string(goldenContent)
			if NormalizeContent(e.OutputContent) == NormalizeContent(e.GoldenContent) {
				e.Status = StatusMatch
				result.Matched++
			} else {
				e.Status = StatusMismatch
				result.Mismatched++
			}
		}

		result.Entries = append(result.Entries, e)
		result.Total++
	}
	return result, nil
}

// parseOutputName decodes a staged output filename, e.g.
// "deconv_3x3_in1_out3_k3_s1_p2_output_hls_PE1_SIMD1.csv", into its
// configuration and parallelism pair.
func parseOutputName(name string) (config.Config, int, int, error) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	base, pe, simd, err := config.SplitVariantSuffix(stem)
	if err != nil {
		return config.Config{}, 0, 0, err
	}

	base = strings.TrimSuffix(base, "_output_hls")
	c, err := config.ParseDataBase(base)
	if err != nil {
		return config.Config{}, 0, 0, err
	}
	return c, pe, simd, nil
}

// NormalizeContent strips all spaces, tabs, newlines and carriage returns.
// Equality of the normalized content is byte-for-byte: the outputs are
// integer-quantized simulation results, so any non-whitespace deviation is a
// real behavioral divergence, never floating-point noise.
func NormalizeContent(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return -1
		}
		return r
	}, s)
}
