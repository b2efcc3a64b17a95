// Package gather stages simulation outputs and golden reference tables into
// flat directories for the comparator. Each gathering pass is an idempotent
// snapshot: the staging directory is cleared first and sources are copied,
// never moved.
package gather

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/deconvbench/config"
)

// ProjectPrefix is the per-variant HLS project directory prefix.
const ProjectPrefix = "proj_"

// solutionBuildDir is the vendor layout under each project directory where
// C-simulation result tables land.
var solutionBuildDir = filepath.Join("solution1", "csim", "build")

// OutputSuffix marks a simulation result table inside a build directory.
const OutputSuffix = "_output_hls.csv"

// Counts summarizes one gathering pass. Every stage reports one regardless of
// outcome.
type Counts struct {
	Copied  int
	Skipped int
}

// Outputs stages every simulation result table found under projectsRoot into
// stagingDir, renaming each with its variant's PE/SIMD suffix. A missing
// projects root is non-fatal (simulation may simply not have run yet); a
// project directory without the expected solution layout is skipped.
func Outputs(projectsRoot, stagingDir string) (Counts, error) {
	var counts Counts

	if err := resetDir(stagingDir); err != nil {
		return counts, err
	}

	entries, err := os.ReadDir(projectsRoot)
	if err != nil {
		slog.Warn("No simulation projects found, staging directory left empty",
			"root", projectsRoot)
		return counts, nil
	}

	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), ProjectPrefix) {
			continue
		}

		v, err := ParseProjectName(entry.Name())
		if err != nil {
			counts.Skipped++
			slog.Warn("Skipping project with unparseable name",
				"dir", entry.Name(), "error", err)
			continue
		}

		buildDir := filepath.Join(projectsRoot, entry.Name(), solutionBuildDir)
		files, err := filepath.Glob(filepath.Join(buildDir, "*"+OutputSuffix))
		if err != nil || len(files) == 0 {
			counts.Skipped++
			slog.Warn("Project has no simulation outputs, skipping",
				"dir", entry.Name())
			continue
		}

		for _, src := range files {
			base := filepath.Base(src)
			ext := filepath.Ext(base)
			stem := strings.TrimSuffix(base, ext)
			dst := filepath.Join(stagingDir,
				stem+config.VariantSuffix(v.PE, v.SIMD)+ext)
			if err := copyFile(src, dst); err != nil {
				return counts, fmt.Errorf("failed to stage %s: %w", base, err)
			}
			counts.Copied++
		}
	}

	slog.Info("Gathered simulation outputs",
		"copied", counts.Copied, "skipped", counts.Skipped, "staging", stagingDir)
	return counts, nil
}

// ProjectName returns the build directory name of a variant's HLS project.
func ProjectName(v config.Variant) string {
	return ProjectPrefix + v.Tag()
}

// ParseProjectName inverts ProjectName.
func ParseProjectName(name string) (config.Variant, error) {
	tag := strings.TrimPrefix(name, ProjectPrefix)
	ident, pe, simd, err := config.SplitVariantSuffix(tag)
	if err != nil {
		return config.Variant{}, err
	}
	c, err := config.ParseIdent(ident)
	if err != nil {
		return config.Variant{}, err
	}
	return config.Variant{Config: c, PE: pe, SIMD: simd}, nil
}

// resetDir recreates dir empty so repeated gathering runs never mix sweeps.
func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear staging directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create staging directory %s: %w", dir, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
