package solver

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/annealbench/annealbench/harness"
)

// Solver output CSV columns.
var outputColumns = []string{"M", "N", "avg_time_ms", "best_cost"}

// OutputRow is one row of solver output: one requested (M, N) pair.
type OutputRow struct {
	M         int
	N         int
	AvgTimeMs float64
	BestCost  float64
}

// ReadOutput parses a solver output file. Columns are matched by name;
// a missing column yields harness.ErrSchemaMismatch.
func ReadOutput(path string) ([]OutputRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening solver output: %w", err)
	}
	defer func() { _ = file.Close() }()
	return parseOutput(file)
}

func parseOutput(r io.Reader) ([]OutputRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty solver output", harness.ErrSchemaMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	idx, err := harness.RequireColumns(header, outputColumns...)
	if err != nil {
		return nil, err
	}

	var rows []OutputRow
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", line, err)
		}
		row, err := parseOutputRow(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseOutputRow(rec []string, idx map[string]int) (OutputRow, error) {
	field := func(name string) (string, error) {
		i := idx[name]
		if i >= len(rec) {
			return "", fmt.Errorf("%w: column %s absent from row", harness.ErrSchemaMismatch, name)
		}
		return strings.TrimSpace(rec[i]), nil
	}
	var row OutputRow
	var err error
	var s string
	if s, err = field("M"); err != nil {
		return row, err
	}
	if row.M, err = parseCount(s); err != nil {
		return row, fmt.Errorf("M: %w", err)
	}
	if s, err = field("N"); err != nil {
		return row, err
	}
	if row.N, err = parseCount(s); err != nil {
		return row, fmt.Errorf("N: %w", err)
	}
	if s, err = field("avg_time_ms"); err != nil {
		return row, err
	}
	if row.AvgTimeMs, err = parseMeasure(s); err != nil {
		return row, fmt.Errorf("avg_time_ms: %w", err)
	}
	if s, err = field("best_cost"); err != nil {
		return row, err
	}
	if row.BestCost, err = parseMeasure(s); err != nil {
		return row, fmt.Errorf("best_cost: %w", err)
	}
	return row, nil
}

// parseMeasure rejects NaN and infinities, which ParseFloat accepts.
func parseMeasure(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// parseCount accepts integral counts written either as "100" or "100.0".
func parseCount(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}
