package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/annealbench/annealbench/harness"
)

// Invocation captures one synchronous solver run.
type Invocation struct {
	Command      []string // binary followed by its arguments
	Stdout       string
	Stderr       string
	ExitCode     int   // -1 when the process never started
	StartErr     error // non-nil when the process could not be started
	Elapsed      time.Duration
	OutCSV       string
	OutputExists bool
}

// Succeeded reports exit code 0 together with an existing output file.
func (inv Invocation) Succeeded() bool {
	return inv.StartErr == nil && inv.ExitCode == 0 && inv.OutputExists
}

// FailureReason is the diagnostic stored in RunRecord.Error for a failed run.
func (inv Invocation) FailureReason() string {
	reason := fmt.Sprintf("rc=%d, csv_exists=%t", inv.ExitCode, inv.OutputExists)
	if inv.StartErr != nil {
		reason += ": " + inv.StartErr.Error()
	}
	return reason
}

// Runner executes one experiment and blocks until it finishes.
// The returned error reports harness-side I/O problems (the diagnostic log);
// solver failures are described by the Invocation itself.
type Runner interface {
	Run(ctx context.Context, cfg harness.ExperimentConfig, paths Paths) (Invocation, error)
}

// ExecRunner runs the solver binary as a child process.
// The working directory is the binary's directory.
type ExecRunner struct {
	Binary string
}

// NewExecRunner returns a Runner for the solver at binary.
func NewExecRunner(binary string) *ExecRunner {
	return &ExecRunner{Binary: binary}
}

// Run executes cfg and always writes the diagnostic log to paths.Log.
// A stale output file from an earlier sweep is removed first so that it
// cannot be mistaken for this run's output.
func (r *ExecRunner) Run(ctx context.Context, cfg harness.ExperimentConfig, paths Paths) (Invocation, error) {
	if err := os.Remove(paths.CSV); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Invocation{}, fmt.Errorf("removing stale output %s: %w", paths.CSV, err)
	}

	// The child runs inside the binary's directory, so relative paths are
	// resolved here.
	bin := r.Binary
	if strings.ContainsRune(bin, filepath.Separator) {
		if abs, err := filepath.Abs(bin); err == nil {
			bin = abs
		}
	}
	outCSV, err := filepath.Abs(paths.CSV)
	if err != nil {
		return Invocation{}, fmt.Errorf("resolving output path: %w", err)
	}

	args := BuildArgs(cfg, outCSV)
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = filepath.Dir(bin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	inv := Invocation{
		Command: append([]string{bin}, args...),
		OutCSV:  paths.CSV,
	}

	start := time.Now()
	err = cmd.Run()
	inv.Elapsed = time.Since(start)
	inv.Stdout = stdout.String()
	inv.Stderr = stderr.String()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		inv.ExitCode = 0
	case errors.As(err, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
	default:
		inv.ExitCode = -1
		inv.StartErr = err
	}
	_, statErr := os.Stat(paths.CSV)
	inv.OutputExists = statErr == nil

	if err := WriteLog(paths.Log, inv); err != nil {
		return inv, err
	}
	return inv, nil
}

// WriteLog writes the diagnostic log of an invocation: the command, both
// output streams and the elapsed wall time in seconds.
func WriteLog(path string, inv Invocation) error {
	var b strings.Builder
	b.WriteString("COMMAND:\n" + strings.Join(inv.Command, " ") + "\n\n")
	b.WriteString("STDOUT:\n" + inv.Stdout + "\n")
	b.WriteString("STDERR:\n" + inv.Stderr + "\n")
	if inv.StartErr != nil {
		b.WriteString("START_ERROR: " + inv.StartErr.Error() + "\n")
	}
	fmt.Fprintf(&b, "RUNTIME_SEC: %f\n", inv.Elapsed.Seconds())
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing diagnostic log: %w", err)
	}
	return nil
}
