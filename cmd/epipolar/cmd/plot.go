package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/epipolar/internal/batch"
	"github.com/MeKo-Tech/epipolar/internal/corrio"
	"github.com/MeKo-Tech/epipolar/internal/visualize"
)

// plotCmd represents the plot command.
var plotCmd = &cobra.Command{
	Use:   "plot [files...]",
	Short: "Render correspondences and epipolar lines as PNG plots",
	Long: `Estimate a fundamental matrix for each correspondence file and render
both views with their epipolar lines as PNG images.

Examples:
  epipolar plot pair.yaml
  epipolar plot pair.yaml --output-dir plots --method 7point`,
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
		outputDir, _ := cmd.Flags().GetString("output-dir")

		for _, path := range args {
			fr := batch.EstimateFile(path, strings.ToUpper(method), true)
			if fr.Err != nil {
				return fr.Err
			}

			doc, err := corrio.Load(path)
			if err != nil {
				return err
			}
			pts1, pts2 := doc.PointSets()

			base := filepath.Base(path)
			base = strings.TrimSuffix(base, filepath.Ext(base))
			paths, err := visualize.RenderPair(pts1, pts2, fr.Fundamental, outputDir, base)
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", path, err)
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	plotCmd.Flags().StringP("method", "m", "8point", "estimation method (7point, 8point)")
	plotCmd.Flags().StringP("output-dir", "d", "plots", "directory for generated PNG files")
}
