// Package ledger persists the SummaryTable, the append-only record of every
// solver invocation in a sweep, as a CSV file.
package ledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/annealbench/annealbench/harness"
)

// ErrMissingInput reports that a file an analysis stage depends on does not exist.
var ErrMissingInput = errors.New("missing input")

// Columns is the summary CSV header, in write order.
var Columns = []string{
	"mode", "threads", "M", "N", "avg_time_ms", "best_cost",
	"runs", "seed", "exp_name", "error", "sweep_id",
}

// SummaryTable is the append-only ledger of RunRecords.
// Records are never modified once appended.
type SummaryTable struct {
	records []harness.RunRecord
}

// New returns an empty table.
func New() *SummaryTable {
	return &SummaryTable{}
}

// Append adds records at the end of the ledger.
func (t *SummaryTable) Append(recs ...harness.RunRecord) {
	t.records = append(t.records, recs...)
}

// Len returns the number of records.
func (t *SummaryTable) Len() int {
	return len(t.records)
}

// Records returns a copy of the ledger in append order.
func (t *SummaryTable) Records() []harness.RunRecord {
	out := make([]harness.RunRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Write encodes the ledger as CSV. Absent values are written as empty cells.
func (t *SummaryTable) Write(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i, r := range t.records {
		row := []string{
			string(r.Mode),
			strconv.Itoa(r.Threads),
			r.M.String(),
			r.N.String(),
			formatOptFloat(r.AvgTimeMs),
			formatOptFloat(r.BestCost),
			strconv.Itoa(r.Runs),
			strconv.FormatInt(r.Seed, 10),
			r.Name,
			r.Error,
			r.SweepID,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// Save writes the ledger to path, replacing any previous file.
// The file is written next to its destination and renamed into place so a
// crash mid-write leaves the previous ledger intact.
func (t *SummaryTable) Save(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := t.Write(tmp); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing summary %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing summary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing summary %s: %w", path, err)
	}
	return nil
}

// Load reads a summary CSV written by Save.
// A missing file wraps ErrMissingInput; a header without the expected
// columns wraps harness.ErrSchemaMismatch.
func Load(path string) (*SummaryTable, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening summary: %w", err)
	}
	defer func() { _ = file.Close() }()

	t, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read decodes a summary CSV. Columns are matched by name.
func Read(r io.Reader) (*SummaryTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", harness.ErrSchemaMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	idx, err := harness.RequireColumns(header, Columns...)
	if err != nil {
		return nil, err
	}

	t := New()
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row: %w", err)
		}
		rec, err := parseRecord(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t.records = append(t.records, rec)
	}
	return t, nil
}

func parseRecord(row []string, idx map[string]int) (harness.RunRecord, error) {
	cell := func(name string) string {
		i := idx[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var rec harness.RunRecord
	switch mode := harness.Mode(cell("mode")); mode {
	case harness.ModeSequential, harness.ModeParallel:
		rec.Mode = mode
	default:
		return rec, fmt.Errorf("unknown mode %q", mode)
	}

	var err error
	if rec.Threads, err = parseInt(cell("threads")); err != nil {
		return rec, fmt.Errorf("threads: %w", err)
	}
	if rec.M, err = parseOptInt(cell("M")); err != nil {
		return rec, fmt.Errorf("M: %w", err)
	}
	if rec.N, err = parseOptInt(cell("N")); err != nil {
		return rec, fmt.Errorf("N: %w", err)
	}
	if rec.AvgTimeMs, err = parseOptFloat(cell("avg_time_ms")); err != nil {
		return rec, fmt.Errorf("avg_time_ms: %w", err)
	}
	if rec.BestCost, err = parseOptFloat(cell("best_cost")); err != nil {
		return rec, fmt.Errorf("best_cost: %w", err)
	}
	if rec.Runs, err = parseInt(cell("runs")); err != nil {
		return rec, fmt.Errorf("runs: %w", err)
	}
	if s := cell("seed"); s != "" {
		if rec.Seed, err = strconv.ParseInt(s, 10, 64); err != nil {
			return rec, fmt.Errorf("seed: %w", err)
		}
	}
	rec.Name = cell("exp_name")
	rec.Error = cell("error")
	rec.SweepID = cell("sweep_id")
	return rec, nil
}

// parseInt treats an empty cell as 0.
func parseInt(s string) (int, error) {
	v, err := parseOptInt(s)
	return v.Or(0), err
}

// parseOptInt accepts integral floats ("100.0") written by other tools.
func parseOptInt(s string) (harness.Opt[int], error) {
	if s == "" {
		return harness.None[int](), nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return harness.Some(v), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return harness.None[int](), fmt.Errorf("not an integer: %q", s)
	}
	return harness.Some(int(f)), nil
}

func parseOptFloat(s string) (harness.Opt[float64], error) {
	if s == "" {
		return harness.None[float64](), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return harness.None[float64](), err
	}
	return harness.Some(v), nil
}

func formatOptFloat(o harness.Opt[float64]) string {
	v, ok := o.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
