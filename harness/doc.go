// Package harness provides the data model for benchmarking an external
// simulated-annealing scheduler.
//
// # Reading Guide
//
// Start with these files:
//   - config.go: ExperimentConfig, one immutable sweep point
//   - record.go: RunRecord, the outcome of one invocation
//   - opt.go: Opt, the explicit optional used for every absent numeric field
//
// # Architecture
//
// Sub-packages implement the pipeline stages:
//   - harness/plan/: sweep plans (YAML) and config generation
//   - harness/solver/: solver command line, process execution, output collection
//   - harness/ledger/: the append-only SummaryTable and its CSV form
//   - harness/sweep/: sequential sweep driver
//   - harness/analysis/: aggregation, quality normalization, gains
//   - harness/grid/: dense matrices over declared coordinate axes
//   - harness/scale/: zero-preserving pseudo-log display scale
//   - harness/chart/: PNG chart emission
//   - harness/report/: terminal summary tables
package harness
