package gather

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/deconvbench/config"
)

// GoldenSuffix marks a reference output table in the experimental data tree.
// Golden tables carry no PE/SIMD suffix: the reference values are invariant
// under hardware parallelism.
const GoldenSuffix = "_output.csv"

// Golden stages every reference output table from the experimental data root
// into stagingDir. A missing data root is fatal for this stage: without
// golden data no comparison is meaningful.
func Golden(expDataRoot, stagingDir string) (Counts, error) {
	var counts Counts

	if _, err := os.Stat(expDataRoot); err != nil {
		return counts, &config.MissingPrerequisiteError{
			Missing: expDataRoot,
			Remedy:  "deconv_benchmark.py --param-file <space> (reference data generation)",
		}
	}

	if err := resetDir(stagingDir); err != nil {
		return counts, err
	}

	entries, err := os.ReadDir(expDataRoot)
	if err != nil {
		return counts, fmt.Errorf("failed to read experimental data root: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, GoldenSuffix) {
			continue
		}

		// Only stage tables whose name decodes to a configuration; stray
		// files in the data tree are counted, not copied.
		base := strings.TrimSuffix(name, GoldenSuffix)
		if _, err := config.ParseDataBase(base); err != nil {
			counts.Skipped++
			slog.Warn("Skipping unrecognized reference table", "file", name)
			continue
		}

		src := filepath.Join(expDataRoot, name)
		if err := copyFile(src, filepath.Join(stagingDir, name)); err != nil {
			return counts, fmt.Errorf("failed to stage %s: %w", name, err)
		}
		counts.Copied++
	}

	slog.Info("Gathered golden references",
		"copied", counts.Copied, "skipped", counts.Skipped, "staging", stagingDir)
	return counts, nil
}
