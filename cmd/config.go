package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/waferlab/mdmreport/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set mdmreport configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("report_dir: %s\n", cfg.ReportDir)
		fmt.Printf("auto_open: %t\n", cfg.AutoOpen)
		fmt.Printf("plotly_url: %s\n", cfg.PlotlyURL)
		if cfg.MaxNavFiles > 0 {
			fmt.Printf("max_nav_files: %d\n", cfg.MaxNavFiles)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "report_dir":
			if val == "" {
				return fmt.Errorf("report_dir must not be empty")
			}
			cfg.ReportDir = val
		case "auto_open":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for auto_open: %v", val)
			}
			cfg.AutoOpen = b
		case "plotly_url":
			cfg.PlotlyURL = val
		case "max_nav_files":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_nav_files: %v", val)
			}
			cfg.MaxNavFiles = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
