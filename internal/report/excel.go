package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/waferlab/mdmreport/internal/stats"
)

// WriteWorkbook exports both statistical views to an .xlsx workbook: a
// Statistics sheet with the flat per-parameter statistics and a Pivot sheet
// with one column per die plus the five summary statistics.
func WriteWorkbook(path string, resultCols []string, flat map[string]stats.ParameterStats, pivot *stats.PivotTable) error {
	f := excelize.NewFile()
	defer f.Close()

	const statsSheet = "Statistics"
	if err := f.SetSheetName("Sheet1", statsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	statsHeader := []any{"Parameter", "Count", "Mean", "StdDev", "Min", "Max", "Median", "CV (%)"}
	if err := setRow(f, statsSheet, 1, statsHeader); err != nil {
		return err
	}
	row := 2
	for _, col := range resultCols {
		s, ok := flat[col]
		if !ok {
			continue
		}
		values := []any{col, s.Count, s.Mean, s.Std, s.Min, s.Max, s.Median, s.CV}
		if err := setRow(f, statsSheet, row, values); err != nil {
			return err
		}
		row++
	}

	const pivotSheet = "Pivot"
	if _, err := f.NewSheet(pivotSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	pivotHeader := []any{"Wafer", "Temperature", "Device", "Parameter"}
	for _, die := range pivot.Dies {
		pivotHeader = append(pivotHeader, die)
	}
	pivotHeader = append(pivotHeader, "Min", "Max", "Average", "Median", "StdDev")
	if err := setRow(f, pivotSheet, 1, pivotHeader); err != nil {
		return err
	}
	for i, pr := range pivot.Rows {
		values := []any{pr.Wafer, pr.Temperature, pr.Device, pr.Parameter}
		for _, die := range pivot.Dies {
			if v, ok := pr.Values[die]; ok {
				if num, numeric := stats.Coerce(v); numeric {
					values = append(values, num)
				} else {
					values = append(values, v)
				}
			} else {
				values = append(values, nil)
			}
		}
		if pr.Stats != nil {
			values = append(values, pr.Stats.Min, pr.Stats.Max, pr.Stats.Average, pr.Stats.Median, pr.Stats.StdDev)
		} else {
			values = append(values, nil, nil, nil, nil, nil)
		}
		if err := setRow(f, pivotSheet, i+2, values); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}
