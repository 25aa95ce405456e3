// Package metrics exposes Prometheus collectors for the harvest pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	articlesSavedTotal     prometheus.Counter
	duplicatesSkippedTotal prometheus.Counter
	emptyBodySkippedTotal  prometheus.Counter
	fetchFailuresTotal     prometheus.Counter
	cyclesTotal            prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		articlesSavedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "harvest_articles_saved_total",
			Help: "Total number of articles persisted to the store.",
		})
		duplicatesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "harvest_duplicates_skipped_total",
			Help: "Total number of URLs skipped because their fingerprint was already stored.",
		})
		emptyBodySkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "harvest_empty_body_skipped_total",
			Help: "Total number of extractions discarded for having no body text.",
		})
		fetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "harvest_fetch_failures_total",
			Help: "Total number of per-URL fetch or extraction failures.",
		})
		cyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "harvest_cycles_total",
			Help: "Total number of completed harvest cycles.",
		})
	})
}

// IncArticlesSaved records one persisted article.
func IncArticlesSaved() {
	if articlesSavedTotal != nil {
		articlesSavedTotal.Inc()
	}
}

// IncDuplicatesSkipped records one duplicate-fingerprint skip.
func IncDuplicatesSkipped() {
	if duplicatesSkippedTotal != nil {
		duplicatesSkippedTotal.Inc()
	}
}

// IncEmptyBodySkipped records one empty-body discard.
func IncEmptyBodySkipped() {
	if emptyBodySkippedTotal != nil {
		emptyBodySkippedTotal.Inc()
	}
}

// IncFetchFailures records one per-URL failure.
func IncFetchFailures() {
	if fetchFailuresTotal != nil {
		fetchFailuresTotal.Inc()
	}
}

// IncCycles records one completed cycle.
func IncCycles() {
	if cyclesTotal != nil {
		cyclesTotal.Inc()
	}
}
