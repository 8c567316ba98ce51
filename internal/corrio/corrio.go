// Package corrio reads and writes correspondence documents: point pairs
// (and optional weights) exchanged as YAML or JSON files. The format is the
// on-disk boundary of the estimation CLI; the estimators themselves only
// see plain point slices.
package corrio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/epipolar/internal/epipolar"
	"gopkg.in/yaml.v3"
)

// Document is a set of point correspondences between two views.
type Document struct {
	Points1 [][2]float64 `yaml:"points1" json:"points1"`
	Points2 [][2]float64 `yaml:"points2" json:"points2"`
	Weights []float64    `yaml:"weights,omitempty" json:"weights,omitempty"`
}

// Validate checks the structural invariants a document must satisfy before
// estimation: equally sized non-empty point sets and, when present, one
// weight per correspondence.
func (d *Document) Validate() error {
	if len(d.Points1) == 0 {
		return fmt.Errorf("document has no correspondences")
	}
	if len(d.Points1) != len(d.Points2) {
		return fmt.Errorf("points1 has %d entries but points2 has %d", len(d.Points1), len(d.Points2))
	}
	if d.Weights != nil && len(d.Weights) != len(d.Points1) {
		return fmt.Errorf("weights has %d entries but there are %d correspondences",
			len(d.Weights), len(d.Points1))
	}
	for i, w := range d.Weights {
		if w < 0 {
			return fmt.Errorf("weight %d is negative: %v", i, w)
		}
	}
	return nil
}

// PointSets converts the document into the estimator's point representation.
func (d *Document) PointSets() ([]epipolar.Point, []epipolar.Point) {
	pts1 := make([]epipolar.Point, len(d.Points1))
	pts2 := make([]epipolar.Point, len(d.Points2))
	for i, p := range d.Points1 {
		pts1[i] = epipolar.Point{X: p[0], Y: p[1]}
	}
	for i, p := range d.Points2 {
		pts2[i] = epipolar.Point{X: p[0], Y: p[1]}
	}
	return pts1, pts2
}

// IsSupported reports whether path has a recognized document extension.
func IsSupported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Load reads and validates a correspondence document, choosing the decoder
// by file extension.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is expected user input
	if err != nil {
		return nil, fmt.Errorf("read correspondence file: %w", err)
	}

	var doc Document
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported correspondence format: %s", filepath.Ext(path))
	}

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid document %s: %w", path, err)
	}
	return &doc, nil
}

// Save writes a document next to Load's decoders, again keyed on extension.
func Save(path string, doc *Document) error {
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	case ".json":
		data, err = json.MarshalIndent(doc, "", "  ")
	default:
		return fmt.Errorf("unsupported correspondence format: %s", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write correspondence file: %w", err)
	}
	return nil
}

// FromPointSets builds a document from estimator-side point slices.
func FromPointSets(pts1, pts2 []epipolar.Point, weights []float64) *Document {
	doc := &Document{
		Points1: make([][2]float64, len(pts1)),
		Points2: make([][2]float64, len(pts2)),
		Weights: weights,
	}
	for i, p := range pts1 {
		doc.Points1[i] = [2]float64{p.X, p.Y}
	}
	for i, p := range pts2 {
		doc.Points2[i] = [2]float64{p.X, p.Y}
	}
	return doc
}
