package harness

import (
	"fmt"
	"math"
)

// Mode selects the solver variant.
type Mode string

const (
	// ModeSequential is the single-chain baseline. Its thread count is 0 by convention.
	ModeSequential Mode = "seq"
	// ModeParallel runs the solver's internal parallel search with a declared thread count.
	ModeParallel Mode = "par"
)

// Valid cooling schedule names accepted by the solver.
var validCoolingTypes = map[string]bool{
	"geom": true, "linear": true, "cauchy": true,
}

// CoolingSpec is the cooling-schedule triple passed to the solver.
// Param is alpha for geom, beta for linear and gamma for cauchy.
type CoolingSpec struct {
	Type  string  `yaml:"type"`
	T0    float64 `yaml:"t0"`
	Param float64 `yaml:"param"`
}

// Validate checks the cooling type and that both numbers are finite.
func (c CoolingSpec) Validate() error {
	if !validCoolingTypes[c.Type] {
		return fmt.Errorf("unknown cooling type %q; valid: geom, linear, cauchy", c.Type)
	}
	if math.IsNaN(c.T0) || math.IsInf(c.T0, 0) || c.T0 <= 0 {
		return fmt.Errorf("cooling t0 must be a positive finite number, got %f", c.T0)
	}
	if math.IsNaN(c.Param) || math.IsInf(c.Param, 0) {
		return fmt.Errorf("cooling param must be a finite number, got %f", c.Param)
	}
	return nil
}

// ExperimentConfig is one sweep point: everything needed to invoke the solver once.
// Configs are generated by a plan, consumed once and never modified.
//
// Seq and par configs of the same plan share Seed, Machines and Jobs for a given
// job count, so every variant solves the same problem instance.
type ExperimentConfig struct {
	Name           string
	Mode           Mode
	Machines       int // M
	Jobs           int // N
	Runs           int // repetitions averaged by the solver
	PMin           int // processing-time lower bound
	PMax           int // processing-time upper bound
	Cooling        CoolingSpec
	MaxNoImprove   int
	HardLimit      int
	OuterNoImprove int // par only
	Threads        int // par only
	Seed           int64
}

// ThreadCount returns the thread count recorded for this config: 0 for seq.
func (c ExperimentConfig) ThreadCount() int {
	if c.Mode == ModeSequential {
		return 0
	}
	return c.Threads
}

// Validate checks that the config can be turned into a solver command line.
func (c ExperimentConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("experiment name is required")
	}
	prefix := fmt.Sprintf("experiment %q", c.Name)
	switch c.Mode {
	case ModeSequential:
	case ModeParallel:
		if c.Threads <= 0 {
			return fmt.Errorf("%s: par mode needs threads > 0, got %d", prefix, c.Threads)
		}
		if c.OuterNoImprove <= 0 {
			return fmt.Errorf("%s: par mode needs outer_no_improve > 0, got %d", prefix, c.OuterNoImprove)
		}
	default:
		return fmt.Errorf("%s: unknown mode %q; valid: seq, par", prefix, c.Mode)
	}
	if c.Machines <= 0 || c.Jobs <= 0 {
		return fmt.Errorf("%s: machines and jobs must be positive, got M=%d N=%d", prefix, c.Machines, c.Jobs)
	}
	if c.Runs <= 0 {
		return fmt.Errorf("%s: runs must be positive, got %d", prefix, c.Runs)
	}
	if c.PMin <= 0 || c.PMax < c.PMin {
		return fmt.Errorf("%s: need 0 < p_min <= p_max, got [%d, %d]", prefix, c.PMin, c.PMax)
	}
	if c.MaxNoImprove <= 0 || c.HardLimit <= 0 {
		return fmt.Errorf("%s: max_no_improve and hard_limit must be positive", prefix)
	}
	if err := c.Cooling.Validate(); err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}
	return nil
}
