package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flightfix",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "flightfix",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	repairsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flightfix",
		Subsystem: "repair",
		Name:      "runs_total",
		Help:      "Repair runs by outcome",
	}, []string{"outcome"})

	detoursTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "flightfix",
		Subsystem: "repair",
		Name:      "detours_total",
		Help:      "Legs routed along the inner margin",
	})

	snappedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "flightfix",
		Subsystem: "repair",
		Name:      "snapped_total",
		Help:      "Waypoints moved onto the inner margin",
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flightfix",
		Subsystem: "cache",
		Name:      "lookups_total",
		Help:      "Boundary cache lookups by result",
	}, []string{"result"})
)
