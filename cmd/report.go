package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/waferlab/mdmreport/internal/discover"
	"github.com/waferlab/mdmreport/internal/mdm"
	"github.com/waferlab/mdmreport/internal/report"
	"github.com/waferlab/mdmreport/internal/stats"
	"github.com/waferlab/mdmreport/internal/utils"
	"github.com/waferlab/mdmreport/internal/wpro"
)

var (
	repOpen   bool
	repNoOpen bool
	repXLSX   string
	repLotDir string
	repOutDir string
)

var reportCmd = &cobra.Command{
	Use:   "report <WPro.csv>",
	Short: "Generate the full HTML report for a lot",
	Long: `Parses the WaferPro CSV, discovers all MDM files in the lot folder,
renders one viewer page per MDM file and an index page with statistics,
a cross-die pivot table and a wafer-map view.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		csvPath := args[0]
		conf := effectiveConfig()

		table, err := wpro.Load(csvPath)
		if err != nil {
			return err
		}
		preamble, err := wpro.LoadPreamble(csvPath)
		if err != nil {
			return err
		}
		lot := preamble.Lot()
		fmt.Printf("Processing %s (lot %s)\n", filepath.Base(csvPath), lot)

		lotRoot := repLotDir
		if lotRoot == "" {
			lotRoot = discover.LotFolder(csvPath, lot)
		}
		reportRoot := repOutDir
		if reportRoot == "" {
			reportRoot = filepath.Join(lotRoot, conf.ReportDir)
		}
		if err := utils.EnsureDir(reportRoot); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
		debugf("lot folder: %s, report folder: %s", lotRoot, reportRoot)

		files, err := discover.FindMDMFiles(lotRoot)
		if err != nil {
			return err
		}
		if conf.MaxNavFiles > 0 && len(files) > conf.MaxNavFiles {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %d MDM files found, rendering only the first %d\n", len(files), conf.MaxNavFiles)
			files = files[:conf.MaxNavFiles]
		}
		fmt.Printf("Found %d MDM files\n", len(files))

		// One bad file must not sink the run: report it and keep going.
		pages := make(map[string]string, len(files))
		for _, f := range files {
			parsed, err := mdm.ParseFile(f)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
				continue
			}
			out, err := discover.OutputPath(f, lotRoot, reportRoot)
			if err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
				continue
			}
			if err := report.WriteViewer(parsed, out, conf.PlotlyURL); err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: %s: %v\n", f, err)
				continue
			}
			pages[f] = out
		}
		fmt.Printf("Generated %d viewer pages\n", len(pages))

		resultCols := table.ResultColumns()
		flat := stats.Flat(table, resultCols)
		pivot := stats.Pivot(table, resultCols)

		manifest := report.NewManifest(csvPath, lot)
		manifest.MDMFiles = len(files)
		for _, p := range pages {
			rel, err := filepath.Rel(reportRoot, p)
			if err == nil {
				manifest.Pages = append(manifest.Pages, filepath.ToSlash(rel))
			}
		}

		indexPath := filepath.Join(reportRoot, "index.html")
		in := report.IndexInput{
			Source:     csvPath,
			Preamble:   preamble,
			Table:      table,
			ResultCols: resultCols,
			Flat:       flat,
			Pivot:      pivot,
			Tree:       discover.Organize(files, lotRoot),
			Pages:      pages,
			ReportRoot: reportRoot,
			MDMCount:   len(files),
			RunID:      manifest.RunID,
			PlotlyURL:  conf.PlotlyURL,
		}
		if err := report.WriteIndex(in, indexPath); err != nil {
			return err
		}
		if err := manifest.Write(filepath.Join(reportRoot, "report.json")); err != nil {
			return err
		}
		fmt.Printf("✓ Report written to %s\n", indexPath)

		if repXLSX != "" {
			if err := report.WriteWorkbook(repXLSX, resultCols, flat, pivot); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Printf("✓ Workbook written to %s\n", repXLSX)
		}

		open := conf.AutoOpen
		if cmd.Flags().Changed("open") {
			open = repOpen
		}
		if repNoOpen {
			open = false
		}
		if open {
			if err := report.Open(indexPath); err != nil {
				fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
			}
		}
		return nil
	},
}

func init() {
	reportCmd.Flags().BoolVar(&repOpen, "open", false, "open the index page in the default browser")
	reportCmd.Flags().BoolVar(&repNoOpen, "no-open", false, "never open a browser, regardless of config")
	reportCmd.Flags().StringVar(&repXLSX, "xlsx", "", "also export statistics and pivot to the given .xlsx path")
	reportCmd.Flags().StringVar(&repLotDir, "lot-dir", "", "lot folder to scan for MDM files (default: resolved next to the CSV)")
	reportCmd.Flags().StringVar(&repOutDir, "out", "", "report output directory (default: <lot>/Report)")
	rootCmd.AddCommand(reportCmd)
}
