// Package metrics holds the prometheus collectors shared by the site engine
// and the data pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sigsite_fetch_requests_total",
		Help: "Upstream requests by source and outcome",
	}, []string{"source", "outcome"}) // outcome=success|failure

	fetchRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sigsite_fetch_retries_total",
		Help: "Upstream retries by source and reason",
	}, []string{"source", "reason"}) // reason=rate_limited|network

	recordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sigsite_dblp_records_total",
		Help: "dblp records by filter decision",
	}, []string{"decision"}) // decision=kept|skipped_type|skipped_pages

	datasetAuthors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sigsite_dataset_authors",
		Help: "Authors in the current frequent-authors dataset",
	})

	contentViolations = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sigsite_content_violations",
		Help: "Content validation violations found at startup",
	}, []string{"edition"})
)

// RecordFetch counts one upstream request.
func RecordFetch(source string, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	fetchRequests.WithLabelValues(source, outcome).Inc()
}

// RecordRetry counts one retry of an upstream request.
func RecordRetry(source, reason string) {
	fetchRetries.WithLabelValues(source, reason).Inc()
}

// RecordDecision counts one dblp record filter decision.
func RecordDecision(decision string) {
	recordsProcessed.WithLabelValues(decision).Inc()
}

// SetDatasetAuthors publishes the author count of the stored dataset.
func SetDatasetAuthors(n int) {
	datasetAuthors.Set(float64(n))
}

// SetContentViolations publishes the validation result for an edition.
func SetContentViolations(edition string, n int) {
	contentViolations.WithLabelValues(edition).Set(float64(n))
}
