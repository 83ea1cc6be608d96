package analyzer

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// NumericStats summarizes a numeric column.
type NumericStats struct {
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	Count  int
}

// Frame provides column aggregations over a loaded Table. Small uploads use
// the in-memory implementation; larger ones are spilled into DuckDB.
type Frame interface {
	RowCount() int
	Columns() []string
	// ValueCounts counts non-empty values in a column.
	ValueCounts(col string) (map[string]int, error)
	// DistinctCount counts distinct non-empty values in a column.
	DistinctCount(col string) (int, error)
	// NumericStats returns stats for a column, with ok=false when the
	// column holds any non-numeric value or no values at all.
	NumericStats(col string) (*NumericStats, bool, error)
	// Values returns the column's cells in row order, empties included.
	Values(col string) ([]string, error)
	Close() error
}

type memFrame struct {
	table    *Table
	colIndex map[string]int
}

// NewMemFrame wraps a Table in an in-memory Frame.
func NewMemFrame(t *Table) Frame {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[c] = i
	}
	return &memFrame{table: t, colIndex: idx}
}

func (f *memFrame) RowCount() int {
	return len(f.table.Rows)
}

func (f *memFrame) Columns() []string {
	return f.table.Columns
}

func (f *memFrame) ValueCounts(col string) (map[string]int, error) {
	i, ok := f.colIndex[col]
	if !ok {
		return nil, fmt.Errorf("unknown column: %s", col)
	}

	counts := map[string]int{}
	for _, row := range f.table.Rows {
		if row[i] != "" {
			counts[row[i]]++
		}
	}
	return counts, nil
}

func (f *memFrame) DistinctCount(col string) (int, error) {
	counts, err := f.ValueCounts(col)
	if err != nil {
		return 0, err
	}
	return len(counts), nil
}

func (f *memFrame) NumericStats(col string) (*NumericStats, bool, error) {
	i, ok := f.colIndex[col]
	if !ok {
		return nil, false, fmt.Errorf("unknown column: %s", col)
	}

	var values []float64
	for _, row := range f.table.Rows {
		if row[i] == "" {
			continue
		}
		v, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			return nil, false, nil
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, false, nil
	}

	return computeStats(values), true, nil
}

func (f *memFrame) Values(col string) ([]string, error) {
	i, ok := f.colIndex[col]
	if !ok {
		return nil, fmt.Errorf("unknown column: %s", col)
	}

	out := make([]string, len(f.table.Rows))
	for r, row := range f.table.Rows {
		out[r] = row[i]
	}
	return out, nil
}

func (f *memFrame) Close() error {
	return nil
}

func computeStats(values []float64) *NumericStats {
	n := len(values)

	var sum float64
	min, max := values[0], values[0]
	for _, v := range values {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	// Sample standard deviation
	var std float64
	if n > 1 {
		var ss float64
		for _, v := range values {
			d := v - mean
			ss += d * d
		}
		std = math.Sqrt(ss / float64(n-1))
	}

	return &NumericStats{
		Mean:   mean,
		Median: median,
		Std:    std,
		Min:    min,
		Max:    max,
		Count:  n,
	}
}
