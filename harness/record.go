package harness

import "strconv"

// RunRecord is the outcome of one ExperimentConfig for one (M, N) pair.
// A record with a non-empty Error carries no numeric results.
type RunRecord struct {
	Mode      Mode
	Threads   int // 0 for seq
	M         Opt[int]
	N         Opt[int]
	AvgTimeMs Opt[float64]
	BestCost  Opt[float64]
	Runs      int
	Seed      int64
	Name      string
	Error     string
	SweepID   string
}

// OK reports whether the record is error-free and carries every numeric field.
func (r RunRecord) OK() bool {
	return r.Error == "" && r.M.IsSet() && r.N.IsSet() && r.AvgTimeMs.IsSet() && r.BestCost.IsSet()
}

// FailedRecord builds the single record emitted for a failed invocation.
// Only run metadata is kept; every numeric field is absent.
func FailedRecord(cfg ExperimentConfig, sweepID, reason string) RunRecord {
	return RunRecord{
		Mode:    cfg.Mode,
		Threads: cfg.ThreadCount(),
		Runs:    cfg.Runs,
		Seed:    cfg.Seed,
		Name:    cfg.Name,
		Error:   reason,
		SweepID: sweepID,
	}
}

// SeriesLabel names a thread-count series for legends and tables.
// Thread count 0 is the sequential baseline.
func SeriesLabel(threads int) string {
	if threads == 0 {
		return "seq"
	}
	return "par-" + strconv.Itoa(threads) + "thr"
}
