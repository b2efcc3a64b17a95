// Deconvbench drives the deconvolution HLS benchmark sweep: it expands a
// parameter space into configuration headers, invokes the vendor toolchain,
// and validates simulation outputs against golden reference tensors.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/deconvbench/compare"
	"github.com/sarchlab/deconvbench/config"
	"github.com/sarchlab/deconvbench/emit"
	"github.com/sarchlab/deconvbench/gather"
	"github.com/sarchlab/deconvbench/hls"
	"github.com/sarchlab/deconvbench/sweep"
)

// paths fixes the on-disk layout of one benchmark workspace. Everything but
// the history root is regenerated by the pipeline and safe to clean; the
// history root is append-only and never cleaned.
type paths struct {
	workDir string
}

func (p paths) configTable() string {
	return filepath.Join(p.workDir, "deconv_data", "configs", "deconv_configs.csv")
}

func (p paths) expData() string {
	return filepath.Join(p.workDir, "deconv_data", "exp_data")
}

func (p paths) generatedConfigs() string {
	return filepath.Join(p.workDir, "generated_configs")
}

func (p paths) projectsRoot() string {
	return filepath.Join(p.workDir, "hls_projects")
}

func (p paths) outputStaging() string {
	return filepath.Join(p.workDir, "staging", "outputs")
}

func (p paths) goldenStaging() string {
	return filepath.Join(p.workDir, "staging", "golden")
}

func (p paths) historyRoot() string {
	return filepath.Join(p.workDir, "comparison_runs")
}

func main() {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	if len(os.Args) < 2 {
		usage()
		atexit.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "validate":
		err = runValidate(args)
	case "generate":
		err = runGenerate(args)
	case "simulate":
		err = runSimulate(args)
	case "gather-outputs":
		err = runGatherOutputs(args)
	case "gather-golden":
		err = runGatherGolden(args)
	case "compare":
		err = runCompare(args)
	case "run":
		err = runChain(args)
	case "clean":
		err = runClean(args)
	case "list":
		err = runList(args)
	case "status":
		err = runStatus(args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		atexit.Exit(2)
	}

	if err != nil {
		var missing *config.MissingPrerequisiteError
		if errors.As(err, &missing) {
			slog.Error("Stage aborted on missing prerequisite",
				"missing", missing.Missing, "remedy", missing.Remedy)
		} else {
			slog.Error("Command failed", "command", cmd, "error", err)
		}
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: deconvbench <command> [flags]

Commands:
  validate        Load and validate a parameter space, report the sweep size
  generate        Enumerate the sweep and emit configuration headers
  simulate        Drive the HLS toolchain (project generation + C simulation)
  gather-outputs  Stage simulation result tables with PE/SIMD suffixes
  gather-golden   Stage golden reference tables from the experimental data
  compare         Compare staged outputs against goldens, record a run
  run             gather-outputs + gather-golden + compare
  clean           Remove generated projects and staging (never the run history)
  list            List the configuration table and its variants
  status          Show staging and comparison-run history state`)
}

func commonFlags(fs *flag.FlagSet) *string {
	return fs.String("workdir", ".", "benchmark workspace root")
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	workDir := commonFlags(fs)
	paramFile := fs.String("param-file", "parameter_space.yaml", "parameter space file")
	limit := fs.Int("limit", 0, "cap on enumerated configurations")
	dryRun := fs.Bool("dry-run", false, "list the sweep without writing the table")
	fs.Parse(args)
	p := paths{workDir: *workDir}

	space, err := sweep.LoadSpace(*paramFile)
	if err != nil {
		return err
	}
	opts := sweep.DefaultOptions()
	opts.Limit = *limit
	opts.DryRun = *dryRun
	tbl := sweep.Enumerate(space, opts)

	if opts.DryRun {
		for i, c := range tbl.Configs {
			fmt.Printf("[%d/%d] %s\n", i+1, len(tbl.Configs), c)
		}
		printSummary("validate", len(tbl.Configs), tbl.Skipped, 0)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(p.configTable()), 0o755); err != nil {
		return err
	}
	if err := config.WriteTable(p.configTable(), tbl); err != nil {
		return err
	}

	slog.Info("Sweep validated",
		"configurations", len(tbl.Configs), "skipped", tbl.Skipped,
		"table", p.configTable())
	printSummary("validate", len(tbl.Configs), tbl.Skipped, 0)
	return nil
}

func runGenerate(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	workDir := commonFlags(fs)
	seed := fs.Int64("seed", 1234, "seed for synthetic weight fallback")
	maxPE := fs.Int("max-pe", 0, "cap on PE divisor options (0 = all)")
	maxSIMD := fs.Int("max-simd", 0, "cap on SIMD divisor options (0 = all)")
	fs.Parse(args)
	p := paths{workDir: *workDir}

	tbl, err := config.LoadTable(p.configTable())
	if err != nil {
		return err
	}

	emitter := emit.NewBuilder().
		WithOutputDir(p.generatedConfigs()).
		WithDataDir(p.expData()).
		WithSeed(*seed).
		WithVariantCaps(*maxPE, *maxSIMD).
		Build()

	result, err := emitter.EmitAll(tbl)
	if err != nil {
		return err
	}

	slog.Info("Emitted configuration headers",
		"artifacts", len(result.Artifacts),
		"syntheticFallbacks", result.Fallbacks,
		"ignoredTokens", result.IgnoredTokens,
		"dir", p.generatedConfigs())
	printSummary("generate", len(result.Artifacts), tbl.Skipped, 0)
	return nil
}

func runSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	workDir := commonFlags(fs)
	tool := fs.String("tool", "vitis_hls", "HLS toolchain executable")
	maxPE := fs.Int("max-pe", 0, "cap on PE divisor options (0 = all)")
	maxSIMD := fs.Int("max-simd", 0, "cap on SIMD divisor options (0 = all)")
	fs.Parse(args)
	p := paths{workDir: *workDir}

	tbl, err := config.LoadTable(p.configTable())
	if err != nil {
		return err
	}

	runner := hls.RunnerBuilder{}.
		WithTool(*tool).
		WithProjectsRoot(p.projectsRoot()).
		WithConfigDir(p.generatedConfigs()).
		Build()

	done, failed := hls.SimulateAll(runner, tbl, *maxPE, *maxSIMD)
	printSummary("simulate", done, 0, failed)
	if failed > 0 && done == 0 {
		return fmt.Errorf("all %d variant simulations failed", failed)
	}
	return nil
}

func runGatherOutputs(args []string) error {
	fs := flag.NewFlagSet("gather-outputs", flag.ExitOnError)
	workDir := commonFlags(fs)
	fs.Parse(args)
	p := paths{workDir: *workDir}

	counts, err := gather.Outputs(p.projectsRoot(), p.outputStaging())
	if err != nil {
		return err
	}
	printSummary("gather-outputs", counts.Copied, counts.Skipped, 0)
	return nil
}

func runGatherGolden(args []string) error {
	fs := flag.NewFlagSet("gather-golden", flag.ExitOnError)
	workDir := commonFlags(fs)
	fs.Parse(args)
	p := paths{workDir: *workDir}

	counts, err := gather.Golden(p.expData(), p.goldenStaging())
	if err != nil {
		return err
	}
	printSummary("gather-golden", counts.Copied, counts.Skipped, 0)
	return nil
}

func runCompare(args []string) error {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	workDir := commonFlags(fs)
	fs.Parse(args)
	p := paths{workDir: *workDir}

	result, err := compare.Run(
		p.outputStaging(), p.goldenStaging(), p.historyRoot(), time.Now())
	if err != nil {
		return err
	}

	compare.RenderTable(os.Stdout, result)
	slog.Info("Comparison run recorded", "run", result.RunDir)
	printSummary("compare", result.Matched, result.Skipped,
		result.Mismatched+result.NoGolden)
	if result.Mismatched > 0 {
		return fmt.Errorf("%d output(s) diverge from their golden references",
			result.Mismatched)
	}
	return nil
}

// runChain is the gather-outputs + gather-golden + compare sequence. Strictly
// sequential: each stage consumes the previous stage's staging directory.
func runChain(args []string) error {
	if err := runGatherOutputs(args); err != nil {
		return err
	}
	if err := runGatherGolden(args); err != nil {
		return err
	}
	return runCompare(args)
}

// runClean removes regenerable artifacts. The comparison-run history is
// deliberately left alone: it is the append-only audit trail.
func runClean(args []string) error {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	workDir := commonFlags(fs)
	fs.Parse(args)
	p := paths{workDir: *workDir}

	removed := 0
	for _, dir := range []string{
		p.generatedConfigs(),
		p.projectsRoot(),
		filepath.Join(p.workDir, "staging"),
	} {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
		slog.Info("Removed", "dir", dir)
		removed++
	}
	printSummary("clean", removed, 0, 0)
	return nil
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	workDir := commonFlags(fs)
	maxPE := fs.Int("max-pe", 0, "cap on PE divisor options (0 = all)")
	maxSIMD := fs.Int("max-simd", 0, "cap on SIMD divisor options (0 = all)")
	fs.Parse(args)
	p := paths{workDir: *workDir}

	tbl, err := config.LoadTable(p.configTable())
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"#", "Identifier", "Data base", "PE/SIMD variants"})
	for i, c := range tbl.Configs {
		variants := config.Variants(c, *maxPE, *maxSIMD)
		pairs := ""
		for j, v := range variants {
			if j > 0 {
				pairs += ", "
			}
			pairs += fmt.Sprintf("(%d,%d)", v.PE, v.SIMD)
		}
		t.AppendRow(table.Row{i + 1, c.Ident(), c.DataBase(), pairs})
	}
	t.Render()

	printSummary("list", len(tbl.Configs), tbl.Skipped, 0)
	return nil
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	workDir := commonFlags(fs)
	fs.Parse(args)
	p := paths{workDir: *workDir}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Stage", "Path", "State"})
	t.AppendRow(table.Row{"config table", p.configTable(), fileState(p.configTable())})
	t.AppendRow(table.Row{"generated headers", p.generatedConfigs(), dirState(p.generatedConfigs())})
	t.AppendRow(table.Row{"HLS projects", p.projectsRoot(), dirState(p.projectsRoot())})
	t.AppendRow(table.Row{"output staging", p.outputStaging(), dirState(p.outputStaging())})
	t.AppendRow(table.Row{"golden staging", p.goldenStaging(), dirState(p.goldenStaging())})

	latest, err := compare.Latest(p.historyRoot())
	switch {
	case err != nil:
		t.AppendRow(table.Row{"latest run", p.historyRoot(), err.Error()})
	case latest == "":
		t.AppendRow(table.Row{"latest run", p.historyRoot(), "no runs recorded"})
	default:
		t.AppendRow(table.Row{"latest run", latest, "ok"})
	}
	t.Render()

	printSummary("status", 0, 0, 0)
	return err
}

func fileState(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "absent"
	}
	return "present"
}

func dirState(path string) string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return "absent"
	}
	return fmt.Sprintf("%d entries", len(entries))
}

// printSummary is the mandatory end-of-stage line: every command reports its
// processed/skipped/failed counts regardless of outcome.
func printSummary(stage string, processed, skipped, failed int) {
	fmt.Printf("%s: processed=%d skipped=%d failed=%d\n",
		stage, processed, skipped, failed)
}
