package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/waferlab/mdmreport/internal/report"
	"github.com/waferlab/mdmreport/internal/stats"
	"github.com/waferlab/mdmreport/internal/wpro"
)

var (
	stPivot      bool
	stOutputPath string
)

var statsCmd = &cobra.Command{
	Use:   "stats <WPro.csv>",
	Short: "Print per-parameter statistics (and optionally the pivot) for a WPro CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := wpro.Load(args[0])
		if err != nil {
			return err
		}
		resultCols := table.ResultColumns()
		if len(resultCols) == 0 {
			fmt.Println("No result columns found ($ / ResultRead sentinels missing)")
			return nil
		}

		var b strings.Builder
		writeFlatStats(&b, table, resultCols)
		if stPivot {
			writePivot(&b, table, resultCols)
		}

		if stOutputPath != "" {
			if err := os.WriteFile(stOutputPath, []byte(b.String()), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote statistics to %s\n", stOutputPath)
			return nil
		}
		fmt.Print(b.String())
		return nil
	},
}

func writeFlatStats(b *strings.Builder, table *wpro.Table, resultCols []string) {
	flat := stats.Flat(table, resultCols)
	b.WriteString("[PARAMETER STATISTICS]\n")
	fmt.Fprintf(b, "| %-24s | %5s | %12s | %12s | %12s | %12s | %12s | %8s |\n",
		"Parameter", "Count", "Mean", "StdDev", "Min", "Max", "Median", "CV (%)")
	for _, col := range resultCols {
		s, ok := flat[col]
		if !ok {
			continue
		}
		fmt.Fprintf(b, "| %-24s | %5d | %12s | %12s | %12s | %12s | %12s | %8.2f |\n",
			col, s.Count,
			report.FormatNumber(s.Mean), report.FormatNumber(s.Std),
			report.FormatNumber(s.Min), report.FormatNumber(s.Max),
			report.FormatNumber(s.Median), s.CV)
	}
}

func writePivot(b *strings.Builder, table *wpro.Table, resultCols []string) {
	pivot := stats.Pivot(table, resultCols)
	b.WriteString("\n[PIVOT]\n")
	b.WriteString("| Wafer | T (C) | Device | Parameter |")
	for _, die := range pivot.Dies {
		fmt.Fprintf(b, " %s |", die)
	}
	b.WriteString(" Min | Max | Average | Median | StdDev |\n")
	for _, row := range pivot.Rows {
		fmt.Fprintf(b, "| %s | %s | %s | %s |", row.Wafer, row.Temperature, row.Device, row.Parameter)
		for _, die := range pivot.Dies {
			if v, ok := row.Values[die]; ok {
				if num, numeric := stats.Coerce(v); numeric {
					fmt.Fprintf(b, " %s |", report.FormatNumber(num))
				} else {
					fmt.Fprintf(b, " %s |", v)
				}
			} else {
				b.WriteString(" — |")
			}
		}
		if row.Stats != nil {
			fmt.Fprintf(b, " %s | %s | %s | %s | %s |\n",
				report.FormatNumber(row.Stats.Min), report.FormatNumber(row.Stats.Max),
				report.FormatNumber(row.Stats.Average), report.FormatNumber(row.Stats.Median),
				report.FormatNumber(row.Stats.StdDev))
		} else {
			b.WriteString(" — | — | — | — | — |\n")
		}
	}
}

func init() {
	statsCmd.Flags().BoolVar(&stPivot, "pivot", false, "include the cross-die pivot table")
	statsCmd.Flags().StringVar(&stOutputPath, "output", "", "write to a file instead of stdout")
	rootCmd.AddCommand(statsCmd)
}
