package cmd

import (
	"fmt"

	"github.com/annealbench/annealbench/harness"
	"github.com/annealbench/annealbench/harness/analysis"
	"github.com/annealbench/annealbench/harness/ledger"
	"github.com/annealbench/annealbench/harness/plan"
)

// comparison is one analysis pass over a plan's ledger.
type comparison struct {
	spec    *plan.Spec
	series  []int
	records []harness.RunRecord
	points  []analysis.AggregatedPoint
	norm    []analysis.NormalizedPoint
	gains   []analysis.GainPoint
}

// analyze aggregates the plan's ledger on the plan's own machine count and
// job axis, then normalizes and compares against the seq baseline.
func analyze(layout ledger.Layout, planName string, spec *plan.Spec) (*comparison, error) {
	tbl, err := loadLedger(layout, planName, spec)
	if err != nil {
		return nil, err
	}
	jobs, err := spec.JobAxis()
	if err != nil {
		return nil, err
	}
	series, err := spec.Series()
	if err != nil {
		return nil, err
	}

	c := &comparison{spec: spec, series: series, records: tbl.Records()}
	c.points = analysis.Aggregate(c.records, analysis.Filter{
		Machines: harness.Some(spec.Machines),
		Jobs:     jobs,
	})
	if len(c.points) == 0 {
		return nil, fmt.Errorf("no error-free results in %s for M=%d", layout.SummaryPath(spec.Summary), spec.Machines)
	}
	c.norm = analysis.Normalize(c.points)
	c.gains = analysis.Gains(c.points, 0, series)
	return c, nil
}

func (c *comparison) failed() int {
	n := 0
	for _, r := range c.records {
		if r.Error != "" {
			n++
		}
	}
	return n
}
