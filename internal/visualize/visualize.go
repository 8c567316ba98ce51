// Package visualize renders correspondence sets and their epipolar lines
// to PNG files for visual inspection of estimation results.
package visualize

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/MeKo-Tech/epipolar/internal/epipolar"
)

// RenderPair renders both views of a correspondence set: each view shows its
// own points together with the epipolar lines induced by the other view's
// points. Two PNG files are written to outDir, named after baseName.
// Returns the paths of the generated files.
func RenderPair(pts1, pts2 []epipolar.Point, f *mat.Dense, outDir, baseName string) ([]string, error) {
	if len(pts1) == 0 || len(pts1) != len(pts2) {
		return nil, fmt.Errorf("need matching non-empty point sets, got %d and %d", len(pts1), len(pts2))
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	// Lines in view 2 come from points in view 1 under F; lines in view 1
	// come from points in view 2 under the transpose.
	linesIn2, err := epipolar.ComputeCorrespondEpilines(pts1, f)
	if err != nil {
		return nil, err
	}
	ft := mat.NewDense(3, 3, nil)
	ft.CloneFrom(f.T())
	linesIn1, err := epipolar.ComputeCorrespondEpilines(pts2, ft)
	if err != nil {
		return nil, err
	}

	view1 := filepath.Join(outDir, baseName+"_view1.png")
	if err := renderView(pts1, linesIn1, baseName+" view 1", view1); err != nil {
		return nil, fmt.Errorf("view 1: %w", err)
	}

	view2 := filepath.Join(outDir, baseName+"_view2.png")
	if err := renderView(pts2, linesIn2, baseName+" view 2", view2); err != nil {
		return nil, fmt.Errorf("view 2: %w", err)
	}

	return []string{view1, view2}, nil
}

// renderView plots one image plane: the view's points as a scatter and one
// epipolar line per correspondence, clipped to the point bounding box.
func renderView(points []epipolar.Point, lines []epipolar.Line, title, outPath string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	minX, maxX, minY, maxY := bounds(points)

	colors := generateColors(len(points))

	scatterPts := make(plotter.XYs, len(points))
	for i, pt := range points {
		scatterPts[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	scatter, err := plotter.NewScatter(scatterPts)
	if err != nil {
		return err
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	for i, l := range lines {
		seg := lineSegment(l, minX, maxX, minY, maxY)
		if seg == nil {
			continue
		}
		line, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		line.Color = colors[i]
		line.Width = vg.Points(1)
		p.Add(line)
	}

	return p.Save(8*vg.Inch, 8*vg.Inch, outPath)
}

// bounds returns the point bounding box expanded by a margin.
func bounds(points []epipolar.Point) (minX, maxX, minY, maxY float64) {
	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	marginX := 0.1 * (maxX - minX)
	marginY := 0.1 * (maxY - minY)
	if marginX == 0 {
		marginX = 1
	}
	if marginY == 0 {
		marginY = 1
	}
	return minX - marginX, maxX + marginX, minY - marginY, maxY + marginY
}

// lineSegment produces a two-point polyline for the line ax + by + c = 0
// spanning the given box, or nil when the line is degenerate.
func lineSegment(l epipolar.Line, minX, maxX, minY, maxY float64) plotter.XYs {
	if math.Abs(l.B) >= math.Abs(l.A) {
		if l.B == 0 {
			return nil
		}
		y1 := -(l.A*minX + l.C) / l.B
		y2 := -(l.A*maxX + l.C) / l.B
		return plotter.XYs{{X: minX, Y: y1}, {X: maxX, Y: y2}}
	}
	if l.A == 0 {
		return nil
	}
	x1 := -(l.B*minY + l.C) / l.A
	x2 := -(l.B*maxY + l.C) / l.A
	return plotter.XYs{{X: x1, Y: minY}, {X: x2, Y: maxY}}
}

// generateColors creates a palette of distinct colors for epipolar lines.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
