package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/waferlab/mdmreport/internal/report"
	"github.com/waferlab/mdmreport/internal/stats"
	"github.com/waferlab/mdmreport/internal/wpro"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <WPro.csv>",
	Short: "Export statistics and the pivot table to an .xlsx workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportOut == "" {
			return fmt.Errorf("--out is required")
		}
		table, err := wpro.Load(args[0])
		if err != nil {
			return err
		}
		resultCols := table.ResultColumns()
		flat := stats.Flat(table, resultCols)
		pivot := stats.Pivot(table, resultCols)
		if err := report.WriteWorkbook(exportOut, resultCols, flat, pivot); err != nil {
			return err
		}
		fmt.Printf("✓ Workbook written to %s\n", exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output .xlsx path")
	rootCmd.AddCommand(exportCmd)
}
