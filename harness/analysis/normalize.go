package analysis

import "github.com/annealbench/annealbench/harness"

// NormalizedPoint relates an aggregate to the best cost any variant found
// for the same N.
type NormalizedPoint struct {
	AggregatedPoint
	BestOverall float64              // min BestCost over all variants at this N
	ExcessCost  float64              // BestCost - BestOverall; >= 0
	RelCostPct  harness.Opt[float64] // 100 * BestCost / BestOverall; absent when BestOverall is 0
}

// Normalize computes per-N quality metrics. Order of points is kept.
//
// A lone variant at some N is its own best (excess 0, relative 100%).
// When the best cost at an N is 0 the relative percentage is left absent
// for every variant at that N.
func Normalize(points []AggregatedPoint) []NormalizedPoint {
	best := map[int]float64{}
	for _, p := range points {
		if b, ok := best[p.N]; !ok || p.BestCost < b {
			best[p.N] = p.BestCost
		}
	}

	out := make([]NormalizedPoint, len(points))
	for i, p := range points {
		b := best[p.N]
		np := NormalizedPoint{
			AggregatedPoint: p,
			BestOverall:     b,
			ExcessCost:      p.BestCost - b,
		}
		if b != 0 {
			np.RelCostPct = harness.Some(100 * p.BestCost / b)
		}
		out[i] = np
	}
	return out
}
