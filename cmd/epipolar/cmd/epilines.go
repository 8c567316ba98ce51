package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/MeKo-Tech/epipolar/internal/batch"
	"github.com/MeKo-Tech/epipolar/internal/corrio"
	"github.com/MeKo-Tech/epipolar/internal/epipolar"
)

// epilinesCmd represents the epilines command.
var epilinesCmd = &cobra.Command{
	Use:   "epilines <file>",
	Short: "Compute epipolar lines for a correspondence file",
	Long: `Estimate a fundamental matrix from a correspondence file and print the
epipolar line of each first-view point in the second view, together with the
closest point on that line to the matching second-view point.

Each line is printed as (a, b, c) with ax + by + c = 0 and unit normal.

Examples:
  epipolar epilines pair.yaml
  epipolar epilines pair.yaml --method 7point --format json`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input file provided")
		}

		cfg := GetConfig()

		method := cfg.Estimator.Method
		if cmd.Flags().Changed("method") {
			method, _ = cmd.Flags().GetString("method")
		}
		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		precision := cfg.Output.Precision
		if cmd.Flags().Changed("precision") {
			precision, _ = cmd.Flags().GetInt("precision")
		}
		if format != outputFormatText && format != outputFormatJSON {
			return fmt.Errorf("invalid output format: %s (must be one of: text, json)", format)
		}

		var f *mat.Dense
		if matrixFile, _ := cmd.Flags().GetString("fundamental"); matrixFile != "" {
			var err error
			f, err = loadFundamentalFile(matrixFile)
			if err != nil {
				return err
			}
		} else {
			fr := batch.EstimateFile(args[0], strings.ToUpper(method), true)
			if fr.Err != nil {
				return fr.Err
			}
			f = fr.Fundamental
		}

		doc, err := corrio.Load(args[0])
		if err != nil {
			return err
		}
		pts1, pts2 := doc.PointSets()

		lines, err := epipolar.ComputeCorrespondEpilines(pts1, f)
		if err != nil {
			return err
		}
		closest, err := epipolar.GetClosestPointOnEpipolarLine(pts1, pts2, f)
		if err != nil {
			return err
		}

		switch format {
		case outputFormatJSON:
			return writeEpilinesJSON(lines, closest)
		default:
			writeEpilinesText(lines, closest, precision)
			return nil
		}
	},
}

// loadFundamentalFile reads a 3x3 matrix stored as JSON rows.
func loadFundamentalFile(path string) (*mat.Dense, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is expected user input
	if err != nil {
		return nil, fmt.Errorf("read fundamental file: %w", err)
	}
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) != 3 {
		return nil, fmt.Errorf("fundamental must have 3 rows, got %d", len(rows))
	}
	flat := make([]float64, 0, 9)
	for _, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("fundamental rows must have 3 columns, got %d", len(row))
		}
		flat = append(flat, row...)
	}
	return mat.NewDense(3, 3, flat), nil
}

func writeEpilinesJSON(lines []epipolar.Line, closest []epipolar.Point) error {
	out := struct {
		Lines   [][3]float64 `json:"lines"`
		Closest [][2]float64 `json:"closest_points"`
	}{
		Lines:   make([][3]float64, len(lines)),
		Closest: make([][2]float64, len(closest)),
	}
	for i, l := range lines {
		out.Lines[i] = [3]float64{l.A, l.B, l.C}
	}
	for i, p := range closest {
		out.Closest[i] = [2]float64{p.X, p.Y}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeEpilinesText(lines []epipolar.Line, closest []epipolar.Point, precision int) {
	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', precision, 64) }
	for i, l := range lines {
		fmt.Printf("line %d: a=%s b=%s c=%s  closest=(%s, %s)\n",
			i, ff(l.A), ff(l.B), ff(l.C), ff(closest[i].X), ff(closest[i].Y))
	}
}

func init() {
	rootCmd.AddCommand(epilinesCmd)
	epilinesCmd.Flags().StringP("method", "m", "8point", "estimation method (7point, 8point)")
	epilinesCmd.Flags().String("fundamental", "", "JSON file with a 3x3 fundamental matrix (skips estimation)")
	epilinesCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	epilinesCmd.Flags().Int("precision", 6, "significant digits in formatted output")
}
