// Package metrics holds the Prometheus collectors for the profile module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DocumentsIngested    prometheus.Counter
	ClassificationTier   *prometheus.CounterVec
	EnrichmentsCompleted prometheus.Counter
	EnrichmentDuration   prometheus.Histogram
	GenerationRetries    prometheus.Counter
	GenerationFallbacks  *prometheus.CounterVec
	NotificationFailures *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		DocumentsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dossier_documents_ingested_total",
			Help: "Total number of documents accepted and classified",
		}),
		ClassificationTier: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_classification_tier_total",
			Help: "Which classification tier produced the stored buckets",
		}, []string{"tier"}),
		EnrichmentsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dossier_enrichments_completed_total",
			Help: "Total number of enrichment workflows that reached the completed state",
		}),
		EnrichmentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dossier_enrichment_duration_seconds",
			Help:    "Wall time of one enrichment workflow run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		GenerationRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dossier_generation_retries_total",
			Help: "Total number of generation attempts retried after a retryable failure",
		}),
		GenerationFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_generation_fallbacks_total",
			Help: "Total number of artifacts that fell back to templated content",
		}, []string{"artifact"}),
		NotificationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dossier_notification_failures_total",
			Help: "Total number of best-effort downstream notifications that failed",
		}, []string{"target"}),
	}
}

func (m *Metrics) IncrementDocumentsIngested(tier string) {
	if m == nil {
		return
	}
	m.DocumentsIngested.Inc()
	m.ClassificationTier.WithLabelValues(tier).Inc()
}

func (m *Metrics) ObserveEnrichmentCompleted(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.EnrichmentsCompleted.Inc()
	m.EnrichmentDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) IncrementGenerationRetries() {
	if m == nil {
		return
	}
	m.GenerationRetries.Inc()
}

func (m *Metrics) IncrementGenerationFallbacks(artifact string) {
	if m == nil {
		return
	}
	m.GenerationFallbacks.WithLabelValues(artifact).Inc()
}

func (m *Metrics) IncrementNotificationFailures(target string) {
	if m == nil {
		return
	}
	m.NotificationFailures.WithLabelValues(target).Inc()
}
