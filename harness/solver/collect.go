package solver

import (
	"errors"

	"github.com/aclements/go-moremath/stats"

	"github.com/annealbench/annealbench/harness"
)

// Collect turns one invocation into RunRecords tagged with run metadata.
//
// A failed invocation, or output that cannot be parsed, yields exactly one
// record with an error and no numeric fields. Rows that repeat an (M, N) pair
// inside one invocation are collapsed first (mean time, minimum cost), so
// downstream sees at most one record per (threads, M, N) per invocation.
func Collect(cfg harness.ExperimentConfig, inv Invocation, sweepID string) []harness.RunRecord {
	if !inv.Succeeded() {
		return []harness.RunRecord{harness.FailedRecord(cfg, sweepID, inv.FailureReason())}
	}
	rows, err := ReadOutput(inv.OutCSV)
	if err != nil {
		reason := "output: " + err.Error()
		if errors.Is(err, harness.ErrSchemaMismatch) {
			reason = "schema: " + err.Error()
		}
		return []harness.RunRecord{harness.FailedRecord(cfg, sweepID, reason)}
	}
	if len(rows) == 0 {
		return []harness.RunRecord{harness.FailedRecord(cfg, sweepID, "output: no rows")}
	}

	collapsed := CollapseRows(rows)
	records := make([]harness.RunRecord, 0, len(collapsed))
	for _, row := range collapsed {
		records = append(records, harness.RunRecord{
			Mode:      cfg.Mode,
			Threads:   cfg.ThreadCount(),
			M:         harness.Some(row.M),
			N:         harness.Some(row.N),
			AvgTimeMs: harness.Some(row.AvgTimeMs),
			BestCost:  harness.Some(row.BestCost),
			Runs:      cfg.Runs,
			Seed:      cfg.Seed,
			Name:      cfg.Name,
			SweepID:   sweepID,
		})
	}
	return records
}

type rowKey struct{ m, n int }

// CollapseRows merges rows sharing an (M, N) pair: mean of avg_time_ms and
// minimum of best_cost. First-seen order is kept.
func CollapseRows(rows []OutputRow) []OutputRow {
	var order []rowKey
	times := map[rowKey][]float64{}
	costs := map[rowKey][]float64{}
	for _, r := range rows {
		k := rowKey{r.M, r.N}
		if _, seen := times[k]; !seen {
			order = append(order, k)
		}
		times[k] = append(times[k], r.AvgTimeMs)
		costs[k] = append(costs[k], r.BestCost)
	}
	out := make([]OutputRow, 0, len(order))
	for _, k := range order {
		minCost, _ := stats.Bounds(costs[k])
		out = append(out, OutputRow{
			M:         k.m,
			N:         k.n,
			AvgTimeMs: stats.Mean(times[k]),
			BestCost:  minCost,
		})
	}
	return out
}
