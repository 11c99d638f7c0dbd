package stats

import (
	"github.com/montanaflynn/stats"

	"github.com/waferlab/mdmreport/internal/wpro"
)

// ParameterStats are the descriptive statistics for one result column.
// CV is the coefficient of variation in percent, defined as 0 when the mean
// is exactly 0.
type ParameterStats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Median float64
	CV     float64
}

// Flat computes per-parameter statistics over the given result columns.
// Cells that fail numeric coercion are excluded from the sample; columns
// with no numeric values at all are omitted from the result.
func Flat(t *wpro.Table, resultCols []string) map[string]ParameterStats {
	out := make(map[string]ParameterStats)
	for _, col := range resultCols {
		if !t.HasColumn(col) {
			continue
		}
		var data stats.Float64Data
		for i := 0; i < t.Len(); i++ {
			if v, ok := Coerce(t.Get(i, col)); ok {
				data = append(data, v)
			}
		}
		if len(data) == 0 {
			continue
		}
		mean, _ := stats.Mean(data)
		min, _ := stats.Min(data)
		max, _ := stats.Max(data)
		median, _ := stats.Median(data)
		var std float64
		if len(data) > 1 {
			std, _ = stats.StandardDeviationSample(data)
		}
		cv := 0.0
		if mean != 0 {
			cv = std / mean * 100
		}
		out[col] = ParameterStats{
			Count:  len(data),
			Mean:   mean,
			Std:    std,
			Min:    min,
			Max:    max,
			Median: median,
			CV:     cv,
		}
	}
	return out
}
