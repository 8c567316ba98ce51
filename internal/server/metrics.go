package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epipolar_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "epipolar_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Estimation metrics
	estimationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "epipolar_estimations_total",
			Help: "Total number of fundamental matrix estimations",
		},
		[]string{"method", "status"}, // method: 7POINT, 8POINT
	)

	estimationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "epipolar_estimation_duration_seconds",
			Help:    "Fundamental matrix estimation duration in seconds",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		},
		[]string{"method"},
	)

	estimationPoints = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "epipolar_estimation_points",
			Help:    "Number of correspondences per estimation request",
			Buckets: []float64{7, 8, 16, 32, 64, 128, 256, 512, 1024},
		},
	)
)
