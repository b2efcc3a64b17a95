// Package hls drives the vendor HLS toolchain for each configuration
// variant. The toolchain is an opaque, synchronous collaborator: this package
// only prepares per-variant batch scripts and invokes the tool on them.
package hls

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/sarchlab/deconvbench/config"
	"github.com/sarchlab/deconvbench/gather"
)

//go:generate mockgen -write_package_comment=false -package=hls -destination=mock_runner_test.go -source=runner.go

// Runner drives the vendor toolchain for one variant at a time. Each call
// blocks until the tool finishes.
type Runner interface {
	// GenerateProject creates the variant's HLS project directory.
	GenerateProject(v config.Variant) error
	// RunCSim builds and runs the C simulation, producing the result
	// tables the output gatherer collects.
	RunCSim(v config.Variant) error
	// RunCosim runs RTL co-simulation after synthesis.
	RunCosim(v config.Variant) error
}

// RunnerBuilder can build toolchain runners.
type RunnerBuilder struct {
	tool         string
	projectsRoot string
	configDir    string
}

// WithTool sets the toolchain executable. Default "vitis_hls".
func (b RunnerBuilder) WithTool(tool string) RunnerBuilder {
	b.tool = tool
	return b
}

// WithProjectsRoot sets the directory the per-variant projects live in.
func (b RunnerBuilder) WithProjectsRoot(root string) RunnerBuilder {
	b.projectsRoot = root
	return b
}

// WithConfigDir sets the directory holding the generated headers.
func (b RunnerBuilder) WithConfigDir(dir string) RunnerBuilder {
	b.configDir = dir
	return b
}

// Build creates the subprocess-backed runner.
func (b RunnerBuilder) Build() Runner {
	if b.tool == "" {
		b.tool = "vitis_hls"
	}
	return &runnerImpl{
		tool:         b.tool,
		projectsRoot: b.projectsRoot,
		configDir:    b.configDir,
	}
}

type runnerImpl struct {
	tool         string
	projectsRoot string
	configDir    string
}

func (r *runnerImpl) GenerateProject(v config.Variant) error {
	return r.runStage(v, stageGenerate)
}

func (r *runnerImpl) RunCSim(v config.Variant) error {
	return r.runStage(v, stageCSim)
}

func (r *runnerImpl) RunCosim(v config.Variant) error {
	return r.runStage(v, stageCosim)
}

func (r *runnerImpl) runStage(v config.Variant, st stage) error {
	if err := os.MkdirAll(r.projectsRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create projects root: %w", err)
	}

	// The tool runs with the projects root as working directory, so the
	// header include path must not depend on it.
	configDir, err := filepath.Abs(r.configDir)
	if err != nil {
		return err
	}

	script := filepath.Join(r.projectsRoot,
		fmt.Sprintf("%s_%s.tcl", st, v.Tag()))
	if err := WriteProjectScript(script, v, configDir, st); err != nil {
		return err
	}

	slog.Info("Invoking HLS toolchain",
		"tool", r.tool, "stage", string(st), "variant", v.Tag())

	cmd := exec.Command(r.tool, "-f", script)
	cmd.Dir = r.projectsRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed for %s: %w", r.tool, st, v.Tag(), err)
	}
	return nil
}

// ProjectDir returns the project directory of a variant under the runner's
// projects root.
func ProjectDir(projectsRoot string, v config.Variant) string {
	return filepath.Join(projectsRoot, gather.ProjectName(v))
}
