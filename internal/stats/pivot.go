package stats

import (
	"github.com/montanaflynn/stats"

	"github.com/waferlab/mdmreport/internal/wpro"
)

// PivotSummary holds the five summary statistics computed across a pivot
// row's numeric die values.
type PivotSummary struct {
	Min     float64
	Max     float64
	Average float64
	Median  float64
	StdDev  float64
}

// PivotRow is one (wafer, temperature, device, parameter) combination.
// Values maps die identifiers to the raw cell observed for that die; a die
// seen twice keeps the later value (table row order). Stats is nil when no
// die value coerces to a number — undefined, never zero.
type PivotRow struct {
	Wafer       string
	Temperature string
	Device      string
	Parameter   string
	Values      map[string]string
	Stats       *PivotSummary
}

// PivotTable is the full pivot: rows in first-creation order and the sorted
// universe of every die seen anywhere in the source table, so a row's
// display may contain holes.
type PivotTable struct {
	Dies []string
	Rows []*PivotRow
}

type pivotKey struct {
	wafer, temperature, device, parameter string
}

// Pivot reshapes the table into cross-die rows. It is rebuilt in full on
// every call; non-numeric die values stay in the value map for display but
// are excluded from the statistics.
func Pivot(t *wpro.Table, resultCols []string) *PivotTable {
	dies := t.Dies()
	wpro.SortValues(dies)

	pt := &PivotTable{Dies: dies}
	byKey := make(map[pivotKey]*PivotRow)

	for i := 0; i < t.Len(); i++ {
		wafer := t.Get(i, wpro.ColWafer)
		temperature := t.Get(i, wpro.ColTemperature)
		die := t.Get(i, wpro.ColDie)
		device := t.Get(i, wpro.ColName)

		for _, param := range resultCols {
			if !t.HasColumn(param) {
				continue
			}
			value := t.Get(i, param)
			if value == "" {
				continue
			}
			key := pivotKey{wafer, temperature, device, param}
			row, ok := byKey[key]
			if !ok {
				row = &PivotRow{
					Wafer:       wafer,
					Temperature: temperature,
					Device:      device,
					Parameter:   param,
					Values:      make(map[string]string),
				}
				byKey[key] = row
				pt.Rows = append(pt.Rows, row)
			}
			// Last write wins for a die measured twice.
			row.Values[die] = value
		}
	}

	for _, row := range pt.Rows {
		var data stats.Float64Data
		for _, v := range row.Values {
			if f, ok := Coerce(v); ok {
				data = append(data, f)
			}
		}
		if len(data) == 0 {
			continue
		}
		min, _ := stats.Min(data)
		max, _ := stats.Max(data)
		mean, _ := stats.Mean(data)
		median, _ := stats.Median(data)
		var std float64
		if len(data) > 1 {
			std, _ = stats.StandardDeviationPopulation(data)
		}
		row.Stats = &PivotSummary{Min: min, Max: max, Average: mean, Median: median, StdDev: std}
	}
	return pt
}
