package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/waferlab/mdmreport/internal/mdm"
	"github.com/waferlab/mdmreport/internal/report"
	"github.com/waferlab/mdmreport/internal/utils"
)

var (
	insBlock int
	insJSON  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.mdm>",
	Short: "Show the header, metadata and block summary of an MDM file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := mdm.ParseFile(args[0])
		if err != nil {
			return err
		}

		if insJSON {
			b, err := utils.PrettyJSON(f.Export())
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(b))
			return nil
		}

		fmt.Printf("File: %s (%s)\n\n", f.Name, f.Header.DataType())

		if len(f.Header.Values) > 0 {
			fmt.Println("Values:")
			for _, item := range sortedPairs(f.Header.Values) {
				fmt.Printf("  %s: %s\n", item[0], item[1])
			}
			fmt.Println()
		}

		fmt.Println("Inputs:")
		for _, in := range f.Header.Inputs() {
			fmt.Printf("  %-10s %-3s %-4s %-6s %s\n", in.Name, in.Unit, in.Terminal, in.SweepLabel, in.SweepDesc)
		}
		fmt.Println("Outputs:")
		for _, out := range f.Header.Outputs() {
			fmt.Printf("  %-10s %-3s %-4s %s\n", out.Name, out.Unit, out.Terminal, out.Source)
		}
		fmt.Println()

		if cmd.Flags().Changed("block") {
			b, err := f.Block(insBlock)
			if err != nil {
				return err
			}
			printBlock(b)
			return nil
		}

		fmt.Printf("Blocks: %d regions, %d with data\n", f.BlockCount(), len(f.Blocks))
		for i := range f.Blocks {
			printBlock(&f.Blocks[i])
		}
		return nil
	},
}

func printBlock(b *mdm.Block) {
	fmt.Printf("  DB%d: %d columns, %d rows\n", b.Index, len(b.Columns), len(b.Rows))
	for _, item := range sortedPairsFloat(b.Vars) {
		fmt.Printf("    %s = %s\n", item.name, report.FormatNumber(item.value))
	}
}

func sortedPairs(m map[string]string) [][2]string {
	out := make([][2]string, 0, len(m))
	for k, v := range m {
		out = append(out, [2]string{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}

type floatPair struct {
	name  string
	value float64
}

func sortedPairsFloat(m map[string]float64) []floatPair {
	out := make([]floatPair, 0, len(m))
	for k, v := range m {
		out = append(out, floatPair{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

func init() {
	inspectCmd.Flags().IntVar(&insBlock, "block", 0, "show only the block at this index")
	inspectCmd.Flags().BoolVar(&insJSON, "json", false, "dump the parsed file as JSON")
	rootCmd.AddCommand(inspectCmd)
}
