package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/epipolar/internal/batch"
)

const (
	outputFormatJSON = "json"
	outputFormatCSV  = "csv"
	outputFormatText = "text"
)

// estimateCmd represents the estimate command.
var estimateCmd = &cobra.Command{
	Use:   "estimate [files...]",
	Short: "Estimate a fundamental matrix from point correspondences",
	Long: `Estimate a fundamental matrix from correspondence files.

Each file holds two matching point sets (and optional weights) in YAML or
JSON. The 7-point algorithm requires exactly 7 correspondences, the 8-point
algorithm at least 8.

Examples:
  epipolar estimate pair.yaml
  epipolar estimate pair.yaml --method 7point
  epipolar estimate *.yaml --format json --output results.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()

		method := cfg.Estimator.Method
		if cmd.Flags().Changed("method") {
			method, _ = cmd.Flags().GetString("method")
		}
		selectBest := cfg.Estimator.SelectBest
		if cmd.Flags().Changed("select-best") {
			selectBest, _ = cmd.Flags().GetBool("select-best")
		}
		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}
		precision := cfg.Output.Precision
		if cmd.Flags().Changed("precision") {
			precision, _ = cmd.Flags().GetInt("precision")
		}

		if err := validateOutputFormat(format); err != nil {
			return err
		}

		files := make([]*batch.FileResult, 0, len(args))
		failed := 0
		for _, path := range args {
			fr := batch.EstimateFile(path, strings.ToUpper(method), selectBest)
			if fr.Err != nil {
				failed++
			}
			files = append(files, fr)
		}

		result := &batch.Result{Files: files}
		if err := result.SaveResults(format, outputFile, precision, true); err != nil {
			return err
		}

		if failed == len(files) {
			return fmt.Errorf("all %d input file(s) failed", failed)
		}
		return nil
	},
}

func validateOutputFormat(format string) error {
	switch format {
	case outputFormatText, outputFormatJSON, outputFormatCSV:
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, csv)", format)
	}
}

func init() {
	rootCmd.AddCommand(estimateCmd)
	estimateCmd.Flags().StringP("method", "m", "8point", "estimation method (7point, 8point)")
	estimateCmd.Flags().Bool("select-best", true, "pick the candidate with the lowest mean epipolar error")
	estimateCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv)")
	estimateCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	estimateCmd.Flags().Int("precision", 6, "significant digits in formatted output")
}
