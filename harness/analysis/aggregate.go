// Package analysis turns SummaryTable records into comparable metrics:
// per-(threads, N) aggregates, quality normalized against the best variant
// for each N, and parallel-versus-baseline gains.
//
// All views are recomputed from the ledger on every pass and are never
// written back to it.
package analysis

import (
	"sort"

	"github.com/aclements/go-moremath/stats"

	"github.com/annealbench/annealbench/harness"
)

// Key identifies one variant at one job count. Threads is 0 for seq.
type Key struct {
	Threads int
	N       int
}

// AggregatedPoint summarizes every error-free record sharing a Key.
type AggregatedPoint struct {
	Key
	AvgTimeMs  float64 // mean of the contributing avg_time_ms values
	BestCost   float64 // minimum of the contributing best_cost values
	Samples    int     // contributing record count
	TimeStdDev float64 // sample standard deviation of avg_time_ms; 0 for one sample
}

// Filter restricts which records enter aggregation.
// Zero value: every error-free record.
type Filter struct {
	Machines harness.Opt[int] // keep only this M
	Jobs     []int            // keep only these N; empty keeps all
}

// Match reports whether r is error-free and passes the filter.
func (f Filter) Match(r harness.RunRecord) bool {
	if !r.OK() {
		return false
	}
	if m, ok := f.Machines.Get(); ok && r.M.Or(-1) != m {
		return false
	}
	if len(f.Jobs) == 0 {
		return true
	}
	n := r.N.Or(-1)
	for _, j := range f.Jobs {
		if j == n {
			return true
		}
	}
	return false
}

// Aggregate groups the matching records by (Threads, N).
// Time is averaged; cost keeps the best value found. The result is sorted
// by Threads, then N.
func Aggregate(records []harness.RunRecord, f Filter) []AggregatedPoint {
	times := map[Key][]float64{}
	costs := map[Key][]float64{}
	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		k := Key{Threads: r.Threads, N: r.N.Or(0)}
		times[k] = append(times[k], r.AvgTimeMs.Or(0))
		costs[k] = append(costs[k], r.BestCost.Or(0))
	}

	points := make([]AggregatedPoint, 0, len(times))
	for k, ts := range times {
		minCost, _ := stats.Bounds(costs[k])
		p := AggregatedPoint{
			Key:       k,
			AvgTimeMs: stats.Mean(ts),
			BestCost:  minCost,
			Samples:   len(ts),
		}
		if len(ts) > 1 {
			p.TimeStdDev = stats.StdDev(ts)
		}
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Threads != points[j].Threads {
			return points[i].Threads < points[j].Threads
		}
		return points[i].N < points[j].N
	})
	return points
}

// JobCounts returns the distinct N values present in points, ascending.
func JobCounts[P interface{ key() Key }](points []P) []int {
	seen := map[int]bool{}
	var ns []int
	for _, p := range points {
		n := p.key().N
		if !seen[n] {
			seen[n] = true
			ns = append(ns, n)
		}
	}
	sort.Ints(ns)
	return ns
}

func (k Key) key() Key { return k }
