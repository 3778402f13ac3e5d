package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/datalens/internal/analysis"
	"github.com/KaramelBytes/datalens/internal/parser"
	"github.com/KaramelBytes/datalens/internal/utils"
)

var (
	anaOutputPath string
	anaPretty     bool
	anaFormat     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV, XLSX or XLS file and print the report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		opt := analysis.DefaultOptions()

		var out []byte
		var failure error
		switch strings.ToLower(strings.TrimSpace(anaFormat)) {
		case "", "json":
			raw, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			payload := analysis.Run(filepath.Base(path), raw, opt)
			if msg, ok := payload["error"]; ok {
				failure = fmt.Errorf("analysis failed: %v", msg)
			}
			if anaPretty {
				out, err = utils.PrettyJSON(payload)
			} else {
				out, err = json.Marshal(payload)
			}
			if err != nil {
				return err
			}
		case "markdown", "md":
			t, err := parser.ParseFile(path)
			if err != nil {
				return err
			}
			out = []byte(analysis.Analyze(t, opt).Markdown())
		default:
			return fmt.Errorf("unsupported --format: %s (use json|markdown)", anaFormat)
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
			return failure
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return failure
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
	analyzeCmd.Flags().BoolVar(&anaPretty, "pretty", false, "indent JSON output")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "json", "output format: json | markdown")
}
