package plan

import (
	"fmt"

	"github.com/annealbench/annealbench/harness"
)

// Generate expands a validated spec into the ordered list of experiment configs.
//
// For every job count the seq baseline (when enabled) and every par variant
// receive the same seed, machine count and job count.
func Generate(s *Spec) ([]harness.ExperimentConfig, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	jobs, err := s.JobAxis()
	if err != nil {
		return nil, err
	}
	threads, err := s.ThreadAxis()
	if err != nil {
		return nil, err
	}

	var out []harness.ExperimentConfig
	emit := func(n, thr int) error {
		cfg, err := s.configFor(n, thr)
		if err != nil {
			return err
		}
		out = append(out, cfg)
		return nil
	}

	if s.Order == OrderThreadsMajor {
		if s.Sequential {
			for _, n := range jobs {
				if err := emit(n, 0); err != nil {
					return nil, err
				}
			}
		}
		for _, thr := range threads {
			for _, n := range jobs {
				if err := emit(n, thr); err != nil {
					return nil, err
				}
			}
		}
		return out, nil
	}

	for _, n := range jobs {
		if s.Sequential {
			if err := emit(n, 0); err != nil {
				return nil, err
			}
		}
		for _, thr := range threads {
			if err := emit(n, thr); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// configFor builds the config for job count n; thr == 0 means the seq baseline.
func (s *Spec) configFor(n, thr int) (harness.ExperimentConfig, error) {
	runs, err := s.Runs.Resolve(n)
	if err != nil {
		return harness.ExperimentConfig{}, fmt.Errorf("runs: %w", err)
	}
	hardLimit, err := s.HardLimit.Resolve(n)
	if err != nil {
		return harness.ExperimentConfig{}, fmt.Errorf("hard_limit: %w", err)
	}
	cfg := harness.ExperimentConfig{
		Mode:         harness.ModeSequential,
		Machines:     s.Machines,
		Jobs:         n,
		Runs:         runs,
		PMin:         s.PMin,
		PMax:         s.PMax,
		Cooling:      s.Cooling,
		MaxNoImprove: s.MaxNoImprove,
		HardLimit:    hardLimit,
		Seed:         s.Seed.Resolve(n),
	}
	if thr == 0 {
		cfg.Name = fmt.Sprintf("%sseq_M%d_N%d", s.NamePrefix, s.Machines, n)
	} else {
		cfg.Mode = harness.ModeParallel
		cfg.Threads = thr
		cfg.OuterNoImprove = s.OuterNoImprove
		cfg.Name = fmt.Sprintf("%spar%d_M%d_N%d", s.NamePrefix, thr, s.Machines, n)
	}
	if err := cfg.Validate(); err != nil {
		return harness.ExperimentConfig{}, err
	}
	return cfg, nil
}
