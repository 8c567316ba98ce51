package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/MeKo-Tech/epipolar/internal/corrio"
	"github.com/MeKo-Tech/epipolar/internal/epipolar"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// estimateHandler estimates a fundamental matrix from posted correspondences.
func (s *Server) estimateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyMB*1024*1024)

	var req EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeEstimateError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	doc := &corrio.Document{Points1: req.Points1, Points2: req.Points2, Weights: req.Weights}
	if err := doc.Validate(); err != nil {
		s.writeEstimateError(w, err.Error(), http.StatusBadRequest)
		return
	}

	method := s.method
	if req.Method != "" {
		method = strings.ToUpper(req.Method)
	}
	if method != epipolar.MethodSevenPoint && method != epipolar.MethodEightPoint {
		s.writeEstimateError(w, fmt.Sprintf("invalid method %q", req.Method), http.StatusBadRequest)
		return
	}

	pts1, pts2 := doc.PointSets()
	estimationPoints.Observe(float64(len(pts1)))

	var weights [][]float64
	if len(doc.Weights) > 0 {
		weights = [][]float64{doc.Weights}
	}

	start := time.Now()
	out, err := epipolar.FindFundamental([][]epipolar.Point{pts1}, [][]epipolar.Point{pts2}, weights, method)
	estimationDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		estimationsTotal.WithLabelValues(method, "error").Inc()
		s.writeEstimateError(w, fmt.Sprintf("estimation failed: %v", err), http.StatusUnprocessableEntity)
		return
	}
	estimationsTotal.WithLabelValues(method, "ok").Inc()

	candidates := out[0]
	best := candidates[0]
	bestIdx := 0
	if s.selectBest && len(candidates) > 1 {
		if chosen, idx, err := epipolar.SelectBestCandidate(candidates, pts1, pts2); err == nil {
			best, bestIdx = chosen, idx
		}
	}

	response := EstimateResponse{
		Success:     true,
		Method:      method,
		Fundamental: matrixRows(best),
		Candidates:  len(candidates),
		BestIndex:   bestIdx,
	}
	if me, err := epipolar.MeanEpipolarError(pts1, pts2, best); err == nil {
		response.MeanError = me
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding estimate response: %v\n", err)
	}
}

// epilinesHandler computes epipolar lines for posted points and matrix.
func (s *Server) epilinesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyMB*1024*1024)

	var req EpilinesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeEpilinesError(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	if len(req.Points) == 0 {
		s.writeEpilinesError(w, "no points provided", http.StatusBadRequest)
		return
	}

	f, err := denseFromRows(req.Fundamental)
	if err != nil {
		s.writeEpilinesError(w, err.Error(), http.StatusBadRequest)
		return
	}

	points := make([]epipolar.Point, len(req.Points))
	for i, p := range req.Points {
		points[i] = epipolar.Point{X: p[0], Y: p[1]}
	}

	lines, err := epipolar.ComputeCorrespondEpilines(points, f)
	if err != nil {
		s.writeEpilinesError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	response := EpilinesResponse{Success: true, Lines: make([][3]float64, len(lines))}
	for i, l := range lines {
		response.Lines[i] = [3]float64{l.A, l.B, l.C}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding epilines response: %v\n", err)
	}
}

func (s *Server) writeEstimateError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := EstimateResponse{Success: false, Error: message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}

func (s *Server) writeEpilinesError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := EpilinesResponse{Success: false, Error: message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}

// denseFromRows builds a 3x3 matrix from JSON rows.
func denseFromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) != 3 {
		return nil, fmt.Errorf("fundamental must have 3 rows, got %d", len(rows))
	}
	data := make([]float64, 0, 9)
	for _, row := range rows {
		if len(row) != 3 {
			return nil, fmt.Errorf("fundamental rows must have 3 columns, got %d", len(row))
		}
		data = append(data, row...)
	}
	return mat.NewDense(3, 3, data), nil
}

// matrixRows flattens a matrix into JSON-friendly rows.
func matrixRows(m *mat.Dense) [][]float64 {
	if m == nil {
		return nil
	}
	r, c := m.Dims()
	rows := make([][]float64, r)
	for i := 0; i < r; i++ {
		rows[i] = make([]float64, c)
		for j := 0; j < c; j++ {
			rows[i][j] = m.At(i, j)
		}
	}
	return rows
}
