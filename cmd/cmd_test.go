package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annealbench/annealbench/harness"
	"github.com/annealbench/annealbench/harness/grid"
	"github.com/annealbench/annealbench/harness/ledger"
	"github.com/annealbench/annealbench/harness/solver"
)

const cmdTestPlans = `
version: "1"
plans:
  compare:
    summary: summary.csv
    machines: 4
    jobs:
      values: [100, 200]
    threads:
      values: [2, 4]
    sequential: true
    order: jobs-major
    p_min: 1
    p_max: 50
    cooling: {type: geom, t0: 3000, param: 0.995}
    max_no_improve: 200
    outer_no_improve: 5
    runs:
      default: 2
    hard_limit:
      default: 1000
    seed:
      base: 7
      add_jobs: true
  heatmap:
    summary: summary_heatmap.csv
    name_prefix: heat_
    machines: 4
    jobs:
      start: 100
      end: 300
      step: 100
    threads:
      start: 1
      end: 3
      step: 1
    order: threads-major
    p_min: 1
    p_max: 50
    cooling: {type: geom, t0: 3000, param: 0.995}
    max_no_improve: 200
    outer_no_improve: 5
    runs:
      default: 1
    hard_limit:
      default: 1000
    seed:
      base: 900000
      add_jobs: true
`

// modelRunner writes solver output where more threads run faster.
// Experiments named in fail exit with code 1 and no output.
type modelRunner struct {
	fail map[string]bool
}

func (m *modelRunner) Run(_ context.Context, cfg harness.ExperimentConfig, paths solver.Paths) (solver.Invocation, error) {
	inv := solver.Invocation{OutCSV: paths.CSV}
	if m.fail[cfg.Name] {
		inv.ExitCode = 1
		return inv, solver.WriteLog(paths.Log, inv)
	}
	speedup := float64(max(cfg.Threads, 1))
	cost := 5*float64(cfg.Jobs) - float64(cfg.Threads)
	body := fmt.Sprintf("M,N,avg_time_ms,best_cost\n%d,%d,%g,%g\n", cfg.Machines, cfg.Jobs, float64(cfg.Jobs)/speedup, cost)
	if err := os.WriteFile(paths.CSV, []byte(body), 0644); err != nil {
		return inv, err
	}
	inv.OutputExists = true
	return inv, solver.WriteLog(paths.Log, inv)
}

// setupWorkspace writes the test plans and points viper at a fresh output tree.
func setupWorkspace(t *testing.T) ledger.Layout {
	t.Helper()
	dir := t.TempDir()
	plans := filepath.Join(dir, "plans.yaml")
	require.NoError(t, os.WriteFile(plans, []byte(cmdTestPlans), 0644))
	viper.Set(keyPlans, plans)
	viper.Set(keyOut, dir)
	t.Cleanup(func() {
		viper.Set(keyPlans, nil)
		viper.Set(keyOut, nil)
	})
	layout, err := ledger.EnsureDirs(dir)
	require.NoError(t, err)
	return layout
}

func TestPlanArg_Default(t *testing.T) {
	assert.Equal(t, "compare", planArg(nil, "compare"))
	assert.Equal(t, "heatmap", planArg([]string{"heatmap"}, "compare"))
}

func TestLoadPlan_UnknownName(t *testing.T) {
	setupWorkspace(t)

	_, err := loadPlan("nightly")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "available: [compare heatmap]")
}

func TestPrintPlan_ListsCommands(t *testing.T) {
	setupWorkspace(t)
	spec, err := loadPlan("compare")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printPlan(&buf, spec, "./research", "data", false))

	// GIVEN 2 job counts x (seq + 2 thread counts)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[0], "seq_M4_N100"))
	assert.Contains(t, lines[1], "--threads 2")
	assert.Contains(t, lines[0], "--csv data/seq_M4_N100.csv")
	assert.Equal(t, "6 experiments", lines[6])
}

func TestPrintPlan_Verbose(t *testing.T) {
	setupWorkspace(t)
	spec, err := loadPlan("compare")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printPlan(&buf, spec, "./research", "data", true))

	assert.Contains(t, buf.String(), "par4_M4_N200")
	assert.Contains(t, buf.String(), "OuterNoImprove")
	assert.NotContains(t, buf.String(), "\x1b[", "dump written to a file must not carry colour codes")
}

func TestAnalysisCommands_MissingLedgerNamesSweep(t *testing.T) {
	layout := setupWorkspace(t)
	spec, err := loadPlan("compare")
	require.NoError(t, err)

	_, err = plotCompare(layout, "compare", spec)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ledger.ErrMissingInput))
	assert.Contains(t, err.Error(), "run `annealbench sweep compare` first")
}

func TestCompareWorkflow_SweepPlotReport(t *testing.T) {
	// GIVEN a compare sweep in which par-2 fails at N=200
	layout := setupWorkspace(t)
	spec, err := loadPlan("compare")
	require.NoError(t, err)
	runner := &modelRunner{fail: map[string]bool{"par2_M4_N200": true}}

	// WHEN the sweep runs
	st, err := runSweep(context.Background(), runner, layout, spec)

	// THEN every experiment ran and the failure is counted
	require.NoError(t, err)
	assert.Equal(t, 6, st.Total)
	assert.Equal(t, 1, st.Failed)

	// WHEN the comparison charts are plotted
	written, err := plotCompare(layout, "compare", spec)

	// THEN the full figure set exists
	require.NoError(t, err)
	assert.Len(t, written, 6)
	for _, p := range written {
		assert.FileExists(t, p)
	}

	// WHEN the report is printed
	var buf bytes.Buffer
	require.NoError(t, printReport(&buf, layout, "compare", spec))

	// THEN it covers the ledger and the gains
	out := buf.String()
	assert.Contains(t, out, "6 ledger rows, 1 failed")
	assert.Contains(t, out, "par-4thr")
	assert.Contains(t, out, "400.00%")
}

func TestHeatmapWorkflow_ExportsGridsAndImages(t *testing.T) {
	layout := setupWorkspace(t)
	spec, err := loadPlan("heatmap")
	require.NoError(t, err)
	runner := &modelRunner{fail: map[string]bool{"heat_par2_M4_N300": true}}

	_, err = runSweep(context.Background(), runner, layout, spec)
	require.NoError(t, err)

	written, err := plotHeatmaps(layout, "heatmap", spec, []grid.Metric{grid.MetricTime, grid.MetricCost})

	require.NoError(t, err)
	assert.Len(t, written, 4)
	data, err := os.ReadFile(filepath.Join(layout.Data, "heatmap_avg_time_ms.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "threads,100,200,300", lines[0])
	assert.Equal(t, "2,50,100,", lines[2], "failed cell stays empty")
	assert.FileExists(t, filepath.Join(layout.Figs, "heatmap_time.png"))
	assert.FileExists(t, filepath.Join(layout.Figs, "heatmap_quality.png"))
}
