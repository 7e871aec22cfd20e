// Package solver drives the external annealing solver as a black box.
//
// It owns the command-line contract, synchronous process execution with
// diagnostic logging, and conversion of the solver's CSV output into
// RunRecords.
package solver

import (
	"path/filepath"
	"strconv"

	"github.com/annealbench/annealbench/harness"
)

// BuildArgs returns the solver arguments for cfg, writing results to outCSV.
// Parallel-only flags are appended for par mode.
func BuildArgs(cfg harness.ExperimentConfig, outCSV string) []string {
	args := []string{
		"--mode", string(cfg.Mode),
		"--M-list", strconv.Itoa(cfg.Machines),
		"--N-list", strconv.Itoa(cfg.Jobs),
		"--p-min", strconv.Itoa(cfg.PMin),
		"--p-max", strconv.Itoa(cfg.PMax),
		"--runs", strconv.Itoa(cfg.Runs),
		"--cooling", cfg.Cooling.Type, formatFloat(cfg.Cooling.T0), formatFloat(cfg.Cooling.Param),
		"--max-no-improve", strconv.Itoa(cfg.MaxNoImprove),
		"--hard-limit", strconv.Itoa(cfg.HardLimit),
		"--csv", outCSV,
		"--seed", strconv.FormatInt(cfg.Seed, 10),
	}
	if cfg.Mode == harness.ModeParallel {
		args = append(args,
			"--threads", strconv.Itoa(cfg.Threads),
			"--outer-no-improve", strconv.Itoa(cfg.OuterNoImprove),
		)
	}
	return args
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Paths are the per-experiment artifacts under the data directory.
type Paths struct {
	CSV string // raw solver output; may be absent after a failure
	Log string // diagnostic log; always written
}

// PathsFor returns the artifact paths of experiment name inside dataDir.
func PathsFor(dataDir, name string) Paths {
	return Paths{
		CSV: filepath.Join(dataDir, name+".csv"),
		Log: filepath.Join(dataDir, name+".log"),
	}
}
