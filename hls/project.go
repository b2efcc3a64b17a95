package hls

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/sarchlab/deconvbench/config"
	"github.com/sarchlab/deconvbench/emit"
	"github.com/sarchlab/deconvbench/gather"
)

// stage names a toolchain batch step. Each stage gets its own Tcl script so a
// failed step can be rerun in isolation.
type stage string

const (
	stageGenerate stage = "generate"
	stageCSim     stage = "csim"
	stageCosim    stage = "cosim"
)

// WriteProjectScript emits the Tcl batch script that drives one stage of one
// variant's project. The variant is activated through the selector header by
// defining its macro; no other variant can be active in the same compilation.
func WriteProjectScript(path string, v config.Variant, configDir string, st stage) error {
	macro := emit.Macro(emit.Artifact{
		Variant:  v,
		Filename: fmt.Sprintf("%s_%s.hpp", emit.HeaderPrefix, v.Tag()),
	})
	cflags := fmt.Sprintf("-I%s -D%s", configDir, macro)

	var sb strings.Builder
	fmt.Fprintf(&sb, "open_project %s\n", gather.ProjectName(v))
	sb.WriteString("set_top deconv_top\n")
	fmt.Fprintf(&sb, "add_files ../src/deconv_top.cpp -cflags {%s}\n", cflags)
	fmt.Fprintf(&sb, "add_files -tb ../src/deconv_tb.cpp -cflags {%s}\n", cflags)
	sb.WriteString("open_solution solution1\n")
	sb.WriteString("set_part {xczu7ev-ffvc1156-2-e}\n")
	sb.WriteString("create_clock -period 10 -name default\n")

	switch st {
	case stageGenerate:
		// Project and solution creation only.
	case stageCSim:
		sb.WriteString("csim_design\n")
	case stageCosim:
		sb.WriteString("csynth_design\n")
		sb.WriteString("cosim_design\n")
	default:
		return fmt.Errorf("unknown toolchain stage %q", st)
	}
	sb.WriteString("exit\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// SimulateAll runs project generation and C simulation for every variant of
// the table, in table order. Per-variant failures are counted and logged; the
// sweep keeps going so one broken variant cannot sink the batch.
func SimulateAll(runner Runner, tbl *config.Table, maxPE, maxSIMD int) (done, failed int) {
	for _, c := range tbl.Configs {
		for _, v := range config.Variants(c, maxPE, maxSIMD) {
			if err := runner.GenerateProject(v); err != nil {
				failed++
				slog.Warn("Project generation failed", "variant", v.Tag(), "error", err)
				continue
			}
			if err := runner.RunCSim(v); err != nil {
				failed++
				slog.Warn("C simulation failed", "variant", v.Tag(), "error", err)
				continue
			}
			done++
		}
	}
	return done, failed
}
