// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OptimizationRuns counts completed optimization runs by method.
	OptimizationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blood_optimization",
		Name:      "runs_total",
		Help:      "Completed optimization runs by method.",
	}, []string{"method"})

	// OptimizationDuration tracks end-to-end run duration.
	OptimizationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "blood_optimization",
		Name:      "run_duration_seconds",
		Help:      "End-to-end optimization run duration.",
		Buckets:   prometheus.DefBuckets,
	})

	// ForecastFallbacks counts demand estimates served from the static
	// fallback table instead of the forecasting collaborator.
	ForecastFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blood_optimization",
		Name:      "forecast_fallbacks_total",
		Help:      "Demand estimates served from the static fallback table.",
	}, []string{"blood_type"})

	// SolverFallbacks counts constrained solves that fell back to the
	// heuristic strategy.
	SolverFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "blood_optimization",
		Name:      "solver_fallbacks_total",
		Help:      "Constrained solves that fell back to the heuristic strategy.",
	})

	// ReportPersistFailures counts reports that could not be saved.
	ReportPersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "blood_optimization",
		Name:      "report_persist_failures_total",
		Help:      "Optimization reports that failed to persist.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
