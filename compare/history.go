package compare

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sarchlab/deconvbench/config"
)

// Run directory timestamp layout and the fixed filenames inside each run.
const (
	RunStampLayout = "20060102_150405"
	SummaryName    = "comparison_summary.csv"
	ReportName     = "comparison_report.txt"
	LatestName     = "latest"
)

// recordRun writes a fully populated timestamped run directory under
// historyRoot and only then repoints the latest pointer. Existing runs are
// never touched: the history is append-only.
func recordRun(historyRoot string, now time.Time, result *Result) (string, error) {
	stamp := now.Format(RunStampLayout)
	runDir := filepath.Join(historyRoot, stamp)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create run directory: %w", err)
	}

	if err := writeSummary(filepath.Join(runDir, SummaryName), result); err != nil {
		return "", err
	}
	if err := writeReport(filepath.Join(runDir, ReportName), stamp, result); err != nil {
		return "", err
	}

	if err := updateLatest(historyRoot, stamp); err != nil {
		return "", err
	}
	return runDir, nil
}

// updateLatest atomically repoints <historyRoot>/latest at the named run. The
// pointer is replaced by rename, so a concurrent reader sees either the old
// run or the new one, never a partial write. Pointing at a run that is not
// fully written is an IntegrityError.
func updateLatest(historyRoot, stamp string) error {
	runDir := filepath.Join(historyRoot, stamp)
	for _, name := range []string{SummaryName, ReportName} {
		if _, err := os.Stat(filepath.Join(runDir, name)); err != nil {
			return &config.IntegrityError{
				Reason: fmt.Sprintf("run %s is missing %s", stamp, name),
			}
		}
	}

	tmp, err := os.CreateTemp(historyRoot, ".latest-*")
	if err != nil {
		return fmt.Errorf("failed to stage latest pointer: %w", err)
	}
	if _, err := tmp.WriteString(stamp + "\n"); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	if err := os.Rename(tmp.Name(), filepath.Join(historyRoot, LatestName)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to update latest pointer: %w", err)
	}
	return nil
}

// Latest resolves the run directory the latest pointer references, or an
// empty string if no run has been recorded yet.
func Latest(historyRoot string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(historyRoot, LatestName))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	stamp := string(trimNewlines(raw))
	runDir := filepath.Join(historyRoot, stamp)
	if _, err := os.Stat(runDir); err != nil {
		return "", &config.IntegrityError{
			Reason: fmt.Sprintf("latest points at missing run %s", stamp),
		}
	}
	return runDir, nil
}

func trimNewlines(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
