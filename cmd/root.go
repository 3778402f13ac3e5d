package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/datalens/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "datalens",
	Short: "DataLens: instant analysis of CSV and Excel files",
	Long: `DataLens profiles a tabular file, recommends a chart, detects trends and anomalies,
and explains the result in plain sentences. Run it as an HTTP API with "serve" or on a
single file with "analyze".`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datalens/config.yaml)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands that need config load it again and report the error
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// currentConfig returns the loaded configuration, loading it on first use.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}
