// Package sweep runs a list of experiment configs through the solver, one at
// a time, and accumulates the results in the SummaryTable ledger.
package sweep

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/annealbench/annealbench/harness"
	"github.com/annealbench/annealbench/harness/ledger"
	"github.com/annealbench/annealbench/harness/solver"
)

// Driver executes configs sequentially. A config runs to completion before
// the next one starts.
type Driver struct {
	runner      solver.Runner
	dataDir     string
	summaryPath string
	sweepID     string
	table       *ledger.SummaryTable
}

// New returns a Driver writing per-experiment artifacts to layout.Data and
// the ledger to the named summary file. Every record is tagged with a fresh
// sweep ID.
func New(runner solver.Runner, layout ledger.Layout, summary string) *Driver {
	return &Driver{
		runner:      runner,
		dataDir:     layout.Data,
		summaryPath: layout.SummaryPath(summary),
		sweepID:     uuid.NewString(),
		table:       ledger.New(),
	}
}

// SweepID identifies this sweep's records in the ledger.
func (d *Driver) SweepID() string { return d.sweepID }

// Table returns the ledger accumulated so far.
func (d *Driver) Table() *ledger.SummaryTable { return d.table }

// Stats counts invocations by outcome.
type Stats struct {
	Total  int
	Failed int
}

// Run executes every config in order.
//
// A failed invocation is recorded in the ledger and the sweep moves on. The
// ledger is saved after every invocation, so an interrupted sweep keeps the
// results gathered so far. Run returns early only when ctx is done or when
// the harness itself cannot write its artifacts.
func (d *Driver) Run(ctx context.Context, cfgs []harness.ExperimentConfig) (Stats, error) {
	var st Stats
	for i, cfg := range cfgs {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		logrus.Infof("[%d/%d] %s (mode=%s threads=%d M=%d N=%d runs=%d)",
			i+1, len(cfgs), cfg.Name, cfg.Mode, cfg.ThreadCount(), cfg.Machines, cfg.Jobs, cfg.Runs)

		inv, err := d.runner.Run(ctx, cfg, solver.PathsFor(d.dataDir, cfg.Name))
		if err != nil {
			return st, fmt.Errorf("experiment %s: %w", cfg.Name, err)
		}
		st.Total++

		records := solver.Collect(cfg, inv, d.sweepID)
		for _, r := range records {
			if r.Error != "" {
				st.Failed++
				logrus.Warnf("%s failed: %s", cfg.Name, r.Error)
			}
		}
		if inv.Succeeded() {
			logrus.Debugf("%s finished in %.2fs", cfg.Name, inv.Elapsed.Seconds())
		}

		d.table.Append(records...)
		if err := d.table.Save(d.summaryPath); err != nil {
			return st, err
		}
	}
	logrus.Infof("Sweep %s complete: %d invocations, %d failed. Summary: %s",
		d.sweepID, st.Total, st.Failed, d.summaryPath)
	return st, nil
}
