// Package metrics exposes Prometheus instrumentation for scans and reference
// list changes.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecdapp_scans_total",
			Help: "Total image extractions by outcome",
		},
		[]string{"outcome"},
	)

	candidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecdapp_candidates_total",
			Help: "Total classified candidates by matching list",
		},
		[]string{"list"},
	)

	entriesAddedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecdapp_entries_added_total",
			Help: "Total reference entries added at runtime by list",
		},
		[]string{"list"},
	)

	ocrDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecdapp_ocr_duration_seconds",
			Help:    "Time spent in the OCR engine per image",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry.
// Must be called once at startup.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(scansTotal, candidatesTotal, entriesAddedTotal, ocrDuration)
	})
}

// Handler serves the default registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordScan counts one extraction and how long the OCR engine took
func RecordScan(success bool, seconds float64) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	scansTotal.WithLabelValues(outcome).Inc()
	ocrDuration.Observe(seconds)
}

// RecordCandidate counts a classified candidate. An empty list means the
// candidate matched neither table.
func RecordCandidate(list string) {
	if list == "" {
		list = "unknown"
	}
	candidatesTotal.WithLabelValues(list).Inc()
}

// RecordEntryAdded counts an entry appended to a reference list
func RecordEntryAdded(list string) {
	entriesAddedTotal.WithLabelValues(list).Inc()
}
