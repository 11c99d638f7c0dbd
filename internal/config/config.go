package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// ReportDir is the directory name created inside the lot folder.
	ReportDir string `mapstructure:"report_dir" yaml:"report_dir"`
	// AutoOpen opens the generated index page in the default browser.
	AutoOpen bool `mapstructure:"auto_open" yaml:"auto_open"`
	// PlotlyURL is the script source embedded in viewer pages.
	PlotlyURL string `mapstructure:"plotly_url" yaml:"plotly_url"`
	// MaxNavFiles caps the navigation tree size on the index page; 0 means
	// unlimited.
	MaxNavFiles int `mapstructure:"max_nav_files" yaml:"max_nav_files"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.mdmreport/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".mdmreport")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("MDMREPORT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("report_dir", "Report")
	v.SetDefault("auto_open", true)
	v.SetDefault("plotly_url", "https://cdn.plot.ly/plotly-2.27.0.min.js")
	v.SetDefault("max_nav_files", 0)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".mdmreport")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
