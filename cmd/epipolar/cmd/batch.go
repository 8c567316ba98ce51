package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/epipolar/internal/batch"
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch [files or directories...]",
	Short: "Estimate fundamental matrices for directories of correspondence files",
	Long: `Process many correspondence files at once using a worker pool.

Directories are scanned for YAML and JSON correspondence files; include and
exclude patterns filter by base name.

Examples:
  epipolar batch ./pairs
  epipolar batch ./pairs --recursive --workers 8
  epipolar batch ./pairs --format csv --output results.csv`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input paths provided")
		}

		cfg := GetConfig()

		bc := &batch.Config{
			Method:          cfg.Estimator.Method,
			SelectBest:      cfg.Estimator.SelectBest,
			Format:          cfg.Output.Format,
			OutputFile:      cfg.Output.File,
			Precision:       cfg.Output.Precision,
			Workers:         cfg.Batch.Workers,
			Recursive:       cfg.Batch.Recursive,
			IncludePatterns: cfg.Batch.IncludePatterns,
			ExcludePatterns: cfg.Batch.ExcludePatterns,
			Quiet:           cfg.Batch.Quiet,
			ShowStats:       cfg.Batch.ShowStats,
		}

		if cmd.Flags().Changed("method") {
			bc.Method, _ = cmd.Flags().GetString("method")
		}
		if cmd.Flags().Changed("select-best") {
			bc.SelectBest, _ = cmd.Flags().GetBool("select-best")
		}
		if cmd.Flags().Changed("format") {
			bc.Format, _ = cmd.Flags().GetString("format")
		}
		if cmd.Flags().Changed("output") {
			bc.OutputFile, _ = cmd.Flags().GetString("output")
		}
		if cmd.Flags().Changed("precision") {
			bc.Precision, _ = cmd.Flags().GetInt("precision")
		}
		if cmd.Flags().Changed("workers") {
			bc.Workers, _ = cmd.Flags().GetInt("workers")
		}
		if cmd.Flags().Changed("recursive") {
			bc.Recursive, _ = cmd.Flags().GetBool("recursive")
		}
		if cmd.Flags().Changed("include") {
			bc.IncludePatterns, _ = cmd.Flags().GetStringSlice("include")
		}
		if cmd.Flags().Changed("exclude") {
			bc.ExcludePatterns, _ = cmd.Flags().GetStringSlice("exclude")
		}
		if cmd.Flags().Changed("quiet") {
			bc.Quiet, _ = cmd.Flags().GetBool("quiet")
		}
		if cmd.Flags().Changed("stats") {
			bc.ShowStats, _ = cmd.Flags().GetBool("stats")
		}

		if err := validateOutputFormat(bc.Format); err != nil {
			return err
		}

		result, err := batch.ProcessBatch(args, bc)
		if err != nil {
			return err
		}

		if err := result.SaveResults(bc.Format, bc.OutputFile, bc.Precision, bc.Quiet); err != nil {
			return err
		}

		if bc.ShowStats {
			result.PrintStats(bc.Quiet)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().StringP("method", "m", "8point", "estimation method (7point, 8point)")
	batchCmd.Flags().Bool("select-best", true, "pick the candidate with the lowest mean epipolar error")
	batchCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv)")
	batchCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	batchCmd.Flags().Int("precision", 6, "significant digits in formatted output")
	batchCmd.Flags().IntP("workers", "w", 0, "number of worker goroutines (0 = number of CPUs)")
	batchCmd.Flags().BoolP("recursive", "r", false, "process directories recursively")
	batchCmd.Flags().StringSlice("include", nil, "include file patterns (e.g. '*.yaml')")
	batchCmd.Flags().StringSlice("exclude", nil, "exclude file patterns")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress non-result output")
	batchCmd.Flags().Bool("stats", true, "print processing statistics")
}
