// Package plan loads sweep plans and expands them into experiment configs.
//
// A plan file holds named plans. Each plan declares its coordinate axes
// (job counts and thread counts) explicitly; the same axes are later passed to
// the grid and chart stages so that sweeps never share hidden coordinate state.
package plan

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/annealbench/annealbench/harness"
)

// Order controls the nesting of the sweep loops.
type Order string

const (
	// OrderJobsMajor runs every variant of one job count before the next job count.
	OrderJobsMajor Order = "jobs-major"
	// OrderThreadsMajor runs every job count of one thread count before the next.
	OrderThreadsMajor Order = "threads-major"
)

// File is the top-level plan file structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type File struct {
	Version string           `yaml:"version"`
	Plans   map[string]*Spec `yaml:"plans"`
}

// Spec describes one sweep.
type Spec struct {
	Summary        string              `yaml:"summary"`               // ledger file name under data/
	NamePrefix     string              `yaml:"name_prefix,omitempty"` // prepended to every experiment name
	Machines       int                 `yaml:"machines"`
	Jobs           Axis                `yaml:"jobs"`
	Threads        Axis                `yaml:"threads"`
	Sequential     bool                `yaml:"sequential"` // add a seq baseline per job count
	Order          Order               `yaml:"order"`
	PMin           int                 `yaml:"p_min"`
	PMax           int                 `yaml:"p_max"`
	Cooling        harness.CoolingSpec `yaml:"cooling"`
	MaxNoImprove   int                 `yaml:"max_no_improve"`
	OuterNoImprove int                 `yaml:"outer_no_improve"`
	Runs           IntRule             `yaml:"runs"`
	HardLimit      IntRule             `yaml:"hard_limit"`
	Seed           SeedRule            `yaml:"seed"`
}

// Axis is a list of integer coordinates, given explicitly or as an inclusive range.
type Axis struct {
	Values []int `yaml:"values,omitempty"`
	Start  int   `yaml:"start,omitempty"`
	End    int   `yaml:"end,omitempty"`
	Step   int   `yaml:"step,omitempty"`
}

// Expand returns the axis coordinates in declaration order.
// Explicit values take precedence over the range fields.
func (a Axis) Expand() ([]int, error) {
	if len(a.Values) > 0 {
		return append([]int(nil), a.Values...), nil
	}
	if a.Step <= 0 {
		return nil, fmt.Errorf("axis needs explicit values or a positive step, got step=%d", a.Step)
	}
	if a.End < a.Start {
		return nil, fmt.Errorf("axis end %d is below start %d", a.End, a.Start)
	}
	var out []int
	for v := a.Start; v <= a.End; v += a.Step {
		out = append(out, v)
	}
	return out, nil
}

// Step is one threshold of a stepped rule: applies to job counts <= MaxJobs.
type Step struct {
	MaxJobs int `yaml:"max_jobs"`
	Value   int `yaml:"value"`
}

// IntRule resolves a per-job-count integer parameter.
// Lookup order: ByJobs exact match, then the first Step whose MaxJobs covers
// the job count (steps sorted ascending), then Default.
type IntRule struct {
	Default int         `yaml:"default,omitempty"`
	ByJobs  map[int]int `yaml:"by_jobs,omitempty"`
	Steps   []Step      `yaml:"steps,omitempty"`
}

// Resolve returns the value for job count n.
func (r IntRule) Resolve(n int) (int, error) {
	if v, ok := r.ByJobs[n]; ok {
		return v, nil
	}
	steps := append([]Step(nil), r.Steps...)
	sort.Slice(steps, func(i, j int) bool { return steps[i].MaxJobs < steps[j].MaxJobs })
	for _, s := range steps {
		if n <= s.MaxJobs {
			return s.Value, nil
		}
	}
	if r.Default > 0 {
		return r.Default, nil
	}
	return 0, fmt.Errorf("no value for N=%d", n)
}

// SeedRule resolves the instance seed for a job count.
// Every variant at one job count receives the same seed.
type SeedRule struct {
	Base    int64         `yaml:"base,omitempty"`
	AddJobs bool          `yaml:"add_jobs,omitempty"` // seed = base + N
	ByJobs  map[int]int64 `yaml:"by_jobs,omitempty"`
}

// Resolve returns the seed for job count n.
func (r SeedRule) Resolve(n int) int64 {
	if v, ok := r.ByJobs[n]; ok {
		return v
	}
	if r.AddJobs {
		return r.Base + int64(n)
	}
	return r.Base
}

var validOrders = map[Order]bool{
	"": true, OrderJobsMajor: true, OrderThreadsMajor: true,
}

// Load reads and parses a plan file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &f, nil
}

// Get returns the named plan after validating it.
func (f *File) Get(name string) (*Spec, error) {
	spec, ok := f.Plans[name]
	if !ok || spec == nil {
		names := make([]string, 0, len(f.Plans))
		for n := range f.Plans {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown plan %q; available: %v", name, names)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("plan %q: %w", name, err)
	}
	return spec, nil
}

// Validate checks that the spec can generate a complete sweep.
func (s *Spec) Validate() error {
	if s.Summary == "" {
		return fmt.Errorf("summary file name is required")
	}
	if s.Machines <= 0 {
		return fmt.Errorf("machines must be positive, got %d", s.Machines)
	}
	if !validOrders[s.Order] {
		return fmt.Errorf("unknown order %q; valid: jobs-major, threads-major", s.Order)
	}
	jobs, err := s.Jobs.Expand()
	if err != nil {
		return fmt.Errorf("jobs: %w", err)
	}
	threads, err := s.ThreadAxis()
	if err != nil {
		return fmt.Errorf("threads: %w", err)
	}
	if len(threads) == 0 && !s.Sequential {
		return fmt.Errorf("plan has neither thread counts nor a sequential baseline")
	}
	for _, t := range threads {
		if t <= 0 {
			return fmt.Errorf("thread counts must be positive, got %d", t)
		}
	}
	for _, n := range jobs {
		if n <= 0 {
			return fmt.Errorf("job counts must be positive, got %d", n)
		}
		if _, err := s.Runs.Resolve(n); err != nil {
			return fmt.Errorf("runs: %w", err)
		}
		if _, err := s.HardLimit.Resolve(n); err != nil {
			return fmt.Errorf("hard_limit: %w", err)
		}
	}
	return s.Cooling.Validate()
}

// JobAxis returns the declared job counts (the N axis).
func (s *Spec) JobAxis() ([]int, error) {
	return s.Jobs.Expand()
}

// ThreadAxis returns the declared parallel thread counts.
// An empty threads section yields an empty axis.
func (s *Spec) ThreadAxis() ([]int, error) {
	if len(s.Threads.Values) == 0 && s.Threads.Step == 0 {
		return nil, nil
	}
	return s.Threads.Expand()
}

// Series returns the ordered series list for comparison charts:
// 0 (the sequential baseline) first when the plan has one, then the thread counts.
func (s *Spec) Series() ([]int, error) {
	threads, err := s.ThreadAxis()
	if err != nil {
		return nil, err
	}
	var series []int
	if s.Sequential {
		series = append(series, 0)
	}
	return append(series, threads...), nil
}
