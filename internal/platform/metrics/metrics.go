// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Validation outcome labels.
const (
	OutcomeAccepted         = "accepted"
	OutcomeRejectedFormat   = "rejected_format"
	OutcomeRejectedNotFound = "rejected_not_found"
)

var (
	validationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hsn_validations_total",
		Help: "Per-code validation outcomes across all entry points.",
	}, []string{"outcome"})

	reloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hsn_dataset_reloads_total",
		Help: "Dataset reload attempts by status.",
	}, []string{"status"})

	catalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hsn_catalog_codes",
		Help: "Number of codes in the active catalog snapshot.",
	})
)

// ObserveValidation counts one per-code outcome.
func ObserveValidation(outcome string) {
	validationsTotal.WithLabelValues(outcome).Inc()
}

// ObserveReload counts one reload attempt ("ok" or "error").
func ObserveReload(status string) {
	reloadsTotal.WithLabelValues(status).Inc()
}

// SetCatalogSize records the active snapshot's size.
func SetCatalogSize(n int) {
	catalogSize.Set(float64(n))
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
