package gather

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sarchlab/deconvbench/config"
)

func makeProject(t *testing.T, root, projName string, outputs map[string]string) {
	t.Helper()
	buildDir := filepath.Join(root, projName, "solution1", "csim", "build")
	if err := os.MkdirAll(buildDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range outputs {
		if err := os.WriteFile(filepath.Join(buildDir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestOutputsStageWithVariantSuffix(t *testing.T) {
	root := t.TempDir()
	staging := filepath.Join(t.TempDir(), "outputs")

	makeProject(t, root, "proj_K3_S1_H3_W3_CI1_CO3_P2_PE1_SIMD1", map[string]string{
		"deconv_3x3_in1_out3_k3_s1_p2_output_hls.csv": "5\n10\n15\n",
	})
	makeProject(t, root, "proj_K3_S1_H3_W3_CI1_CO3_P2_PE3_SIMD1", map[string]string{
		"deconv_3x3_in1_out3_k3_s1_p2_output_hls.csv": "5\n10\n15\n",
	})

	counts, err := Outputs(root, staging)
	if err != nil {
		t.Fatalf("Outputs failed: %v", err)
	}
	if counts.Copied != 2 {
		t.Fatalf("Expected 2 staged files, got %d", counts.Copied)
	}

	for _, want := range []string{
		"deconv_3x3_in1_out3_k3_s1_p2_output_hls_PE1_SIMD1.csv",
		"deconv_3x3_in1_out3_k3_s1_p2_output_hls_PE3_SIMD1.csv",
	} {
		if _, err := os.Stat(filepath.Join(staging, want)); err != nil {
			t.Errorf("Expected staged file %s: %v", want, err)
		}
	}

	// Copy, not move: the source result tables stay in place.
	src := filepath.Join(root, "proj_K3_S1_H3_W3_CI1_CO3_P2_PE1_SIMD1",
		"solution1", "csim", "build", "deconv_3x3_in1_out3_k3_s1_p2_output_hls.csv")
	if _, err := os.Stat(src); err != nil {
		t.Errorf("Source output was removed by gathering: %v", err)
	}
}

func TestOutputsClearsStaleStaging(t *testing.T) {
	root := t.TempDir()
	staging := filepath.Join(t.TempDir(), "outputs")

	if err := os.MkdirAll(staging, 0o755); err != nil {
		t.Fatal(err)
	}
	stale := filepath.Join(staging, "stale_output_hls_PE7_SIMD7.csv")
	if err := os.WriteFile(stale, []byte("old sweep"), 0o644); err != nil {
		t.Fatal(err)
	}

	makeProject(t, root, "proj_K3_S1_H3_W3_CI1_CO3_P2_PE1_SIMD1", map[string]string{
		"deconv_3x3_in1_out3_k3_s1_p2_output_hls.csv": "1\n",
	})

	if _, err := Outputs(root, staging); err != nil {
		t.Fatalf("Outputs failed: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("Stale file from a previous sweep survived re-gathering")
	}
}

func TestOutputsMissingRootIsNonFatal(t *testing.T) {
	staging := filepath.Join(t.TempDir(), "outputs")
	counts, err := Outputs(filepath.Join(t.TempDir(), "no_projects"), staging)
	if err != nil {
		t.Fatalf("A missing projects root must not be fatal: %v", err)
	}
	if counts.Copied != 0 {
		t.Errorf("Expected empty staging, got %d files", counts.Copied)
	}
	entries, err := os.ReadDir(staging)
	if err != nil {
		t.Fatalf("Staging directory was not created: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty staging directory, found %d entries", len(entries))
	}
}

func TestOutputsSkipsBrokenProjectLayout(t *testing.T) {
	root := t.TempDir()

	// Valid name, but no solution1/csim/build underneath.
	if err := os.MkdirAll(filepath.Join(root, "proj_K3_S1_H3_W3_CI1_CO3_P2_PE1_SIMD1"), 0o755); err != nil {
		t.Fatal(err)
	}
	makeProject(t, root, "proj_K3_S1_H5_W5_CI1_CO3_P2_PE1_SIMD1", map[string]string{
		"deconv_5x5_in1_out3_k3_s1_p2_output_hls.csv": "1\n",
	})

	counts, err := Outputs(root, filepath.Join(t.TempDir(), "outputs"))
	if err != nil {
		t.Fatalf("Outputs failed: %v", err)
	}
	if counts.Copied != 1 || counts.Skipped != 1 {
		t.Errorf("Expected 1 copied and 1 skipped, got %+v", counts)
	}
}

func TestGoldenStagesReferenceTables(t *testing.T) {
	expData := t.TempDir()
	staging := filepath.Join(t.TempDir(), "golden")

	files := map[string]string{
		"deconv_3x3_in1_out3_k3_s1_p2_output.csv":  "5\n10\n15\n",
		"deconv_3x3_in1_out3_k3_s1_p2_input.csv":   "1\n1\n",   // not a golden table
		"deconv_3x3_in1_out3_k3_s1_p2_weights.csv": "7\n7\n",   // not a golden table
		"notes_output.csv":                         "whatever", // undecodable name
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(expData, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	counts, err := Golden(expData, staging)
	if err != nil {
		t.Fatalf("Golden failed: %v", err)
	}
	if counts.Copied != 1 {
		t.Errorf("Expected exactly the golden table staged, got %d", counts.Copied)
	}
	if counts.Skipped != 1 {
		t.Errorf("Expected the undecodable table counted as skipped, got %d", counts.Skipped)
	}
	if _, err := os.Stat(filepath.Join(staging, "deconv_3x3_in1_out3_k3_s1_p2_output.csv")); err != nil {
		t.Errorf("Golden table was not staged: %v", err)
	}
}

func TestGoldenMissingRootIsFatal(t *testing.T) {
	_, err := Golden(filepath.Join(t.TempDir(), "no_exp_data"), filepath.Join(t.TempDir(), "golden"))
	if err == nil {
		t.Fatal("A missing experimental data root must abort the stage")
	}
	var missing *config.MissingPrerequisiteError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingPrerequisiteError, got %T: %v", err, err)
	}
	if missing.Remedy == "" {
		t.Error("The error must name the step that produces the golden data")
	}
}

func TestProjectNameRoundTrip(t *testing.T) {
	v := config.Variant{Config: config.New(3, 1, 3, 3, 1, 3), PE: 3, SIMD: 1}
	name := ProjectName(v)
	if name != "proj_K3_S1_H3_W3_CI1_CO3_P2_PE3_SIMD1" {
		t.Fatalf("Unexpected project name %s", name)
	}
	parsed, err := ParseProjectName(name)
	if err != nil {
		t.Fatalf("ParseProjectName failed: %v", err)
	}
	if parsed != v {
		t.Errorf("Project name did not round-trip: %+v", parsed)
	}
}
