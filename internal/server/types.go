package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/epipolar/internal/epipolar"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	corsOrigin string
	maxBodyMB  int64
	timeoutSec int
	method     string
	selectBest bool
	version    string
}

// Config holds server configuration.
type Config struct {
	Host       string
	Port       int
	CORSOrigin string
	MaxBodyMB  int64
	TimeoutSec int
	Method     string
	SelectBest bool
	Version    string
}

// EstimateRequest is the JSON body of POST /estimate.
type EstimateRequest struct {
	Points1 [][2]float64 `json:"points1"`
	Points2 [][2]float64 `json:"points2"`
	Weights []float64    `json:"weights,omitempty"`
	Method  string       `json:"method,omitempty"`
}

// EstimateResponse is the JSON body returned by POST /estimate.
type EstimateResponse struct {
	Success     bool        `json:"success"`
	Method      string      `json:"method,omitempty"`
	Fundamental [][]float64 `json:"fundamental,omitempty"`
	Candidates  int         `json:"candidates,omitempty"`
	BestIndex   int         `json:"best_index,omitempty"`
	MeanError   float64     `json:"mean_error,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// EpilinesRequest is the JSON body of POST /epilines.
type EpilinesRequest struct {
	Points      [][2]float64 `json:"points"`
	Fundamental [][]float64  `json:"fundamental"`
}

// EpilinesResponse is the JSON body returned by POST /epilines. Each line is
// (a, b, c) with ax + by + c = 0 and unit normal.
type EpilinesResponse struct {
	Success bool         `json:"success"`
	Lines   [][3]float64 `json:"lines,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// HealthResponse is the JSON body returned by GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// NewServer creates a new estimation server instance.
func NewServer(config Config) (*Server, error) {
	method := strings.ToUpper(config.Method)
	if method == "" {
		method = epipolar.MethodEightPoint
	}
	if method != epipolar.MethodSevenPoint && method != epipolar.MethodEightPoint {
		return nil, fmt.Errorf("invalid estimation method %q", config.Method)
	}

	maxBodyMB := config.MaxBodyMB
	if maxBodyMB <= 0 {
		maxBodyMB = 10
	}

	return &Server{
		corsOrigin: config.CORSOrigin,
		maxBodyMB:  maxBodyMB,
		timeoutSec: config.TimeoutSec,
		method:     method,
		selectBest: config.SelectBest,
		version:    config.Version,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/estimate", s.corsMiddleware(s.estimateHandler))
	mux.HandleFunc("/epilines", s.corsMiddleware(s.epilinesHandler))
	mux.Handle("/metrics", promhttp.Handler())
}
