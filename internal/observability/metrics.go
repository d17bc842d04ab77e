package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the video curation service.
// Metrics are organized by subsystem: uploads, extraction, batches, searches,
// videos, and moderation. All counters and histograms are registered via
// promauto for automatic registration with the default Prometheus registry.
type Metrics struct {
	// UploadsReceived counts upload requests accepted by the HTTP layer.
	UploadsReceived prometheus.Counter

	// ExtractionsCompleted counts extraction tasks that finished successfully.
	ExtractionsCompleted prometheus.Counter

	// ExtractionsFailed counts extraction tasks that ended in failure.
	ExtractionsFailed prometheus.Counter

	// KeywordsExtracted counts keywords extracted across all uploads.
	KeywordsExtracted prometheus.Counter

	// TagsCreated counts tags newly created by ingestion.
	TagsCreated prometheus.Counter

	// TagsReused counts ingestion hits on tags that already existed.
	TagsReused prometheus.Counter

	// BatchesStarted counts batch runs started, labeled by kind (tag, topic).
	BatchesStarted *prometheus.CounterVec

	// BatchItemsClaimed observes how many items each batch run claimed, by kind.
	BatchItemsClaimed *prometheus.HistogramVec

	// BatchItemsCompleted counts items that finished a batch run, by kind.
	BatchItemsCompleted *prometheus.CounterVec

	// BatchItemsFailed counts items that failed inside a batch run, by kind.
	BatchItemsFailed *prometheus.CounterVec

	// BatchDuration observes end-to-end batch run duration in seconds, by kind.
	BatchDuration *prometheus.HistogramVec

	// StaleClaimsRequeued counts items swept back to PENDING after a stale claim.
	StaleClaimsRequeued *prometheus.CounterVec

	// SearchRequestsTotal counts calls to the video source API, by endpoint.
	SearchRequestsTotal *prometheus.CounterVec

	// SearchRequestsFailed counts failed video source calls, by endpoint.
	SearchRequestsFailed *prometheus.CounterVec

	// SearchRequestDuration observes video source call duration in seconds.
	SearchRequestDuration *prometheus.HistogramVec

	// VideosPerSearch observes the number of videos returned per search.
	VideosPerSearch prometheus.Histogram

	// VideosUpserted counts result rows written, labeled by outcome
	// (inserted, updated, skipped).
	VideosUpserted *prometheus.CounterVec

	// ApprovalUpdates counts moderation decisions, labeled by status.
	ApprovalUpdates *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		UploadsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_received_total",
			Help:      "Total number of upload requests accepted",
		}),
		ExtractionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_completed_total",
			Help:      "Total number of extraction tasks completed successfully",
		}),
		ExtractionsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_failed_total",
			Help:      "Total number of extraction tasks that failed",
		}),
		KeywordsExtracted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keywords_extracted_total",
			Help:      "Total number of keywords extracted",
		}),
		TagsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tags_created_total",
			Help:      "Total number of tags newly created",
		}),
		TagsReused: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tags_reused_total",
			Help:      "Total number of ingestion hits on existing tags",
		}),
		BatchesStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batches_started_total",
			Help:      "Total number of batch runs started by kind",
		}, []string{"kind"}),
		BatchItemsClaimed: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_items_claimed",
			Help:      "Number of items claimed per batch run by kind",
			Buckets:   []float64{0, 1, 5, 10, 20, 40, 80},
		}, []string{"kind"}),
		BatchItemsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_completed_total",
			Help:      "Total number of batch items completed by kind",
		}, []string{"kind"}),
		BatchItemsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_failed_total",
			Help:      "Total number of batch items that failed by kind",
		}, []string{"kind"}),
		BatchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Duration of batch runs in seconds by kind",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		}, []string{"kind"}),
		StaleClaimsRequeued: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_claims_requeued_total",
			Help:      "Total number of stale PROCESSING items swept back to PENDING by kind",
		}, []string{"kind"}),
		SearchRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of requests to the video source API",
		}, []string{"endpoint"}),
		SearchRequestsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_failed_total",
			Help:      "Total number of failed requests to the video source API",
		}, []string{"endpoint"}),
		SearchRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_request_duration_seconds",
			Help:      "Duration of requests to the video source API in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		VideosPerSearch: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "videos_per_search",
			Help:      "Number of videos returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
		}),
		VideosUpserted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "videos_upserted_total",
			Help:      "Total number of video result writes by outcome",
		}, []string{"outcome"}),
		ApprovalUpdates: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "approval_updates_total",
			Help:      "Total number of moderation decisions by status",
		}, []string{"status"}),
	}
}

// RecordUploadReceived records an accepted upload request.
func (m *Metrics) RecordUploadReceived() {
	m.UploadsReceived.Inc()
}

// RecordExtractionCompleted records a successful extraction with its keyword count.
func (m *Metrics) RecordExtractionCompleted(keywordCount int) {
	m.ExtractionsCompleted.Inc()
	m.KeywordsExtracted.Add(float64(keywordCount))
}

// RecordExtractionFailed records a failed extraction.
func (m *Metrics) RecordExtractionFailed() {
	m.ExtractionsFailed.Inc()
}

// RecordTagCreated records a newly created tag.
func (m *Metrics) RecordTagCreated() {
	m.TagsCreated.Inc()
}

// RecordTagReused records an ingestion hit on an existing tag.
func (m *Metrics) RecordTagReused() {
	m.TagsReused.Inc()
}

// RecordBatchStarted records a batch run start with its claimed item count.
func (m *Metrics) RecordBatchStarted(kind string, claimed int) {
	m.BatchesStarted.WithLabelValues(kind).Inc()
	m.BatchItemsClaimed.WithLabelValues(kind).Observe(float64(claimed))
}

// RecordBatchItemCompleted records one item finishing a batch run.
func (m *Metrics) RecordBatchItemCompleted(kind string) {
	m.BatchItemsCompleted.WithLabelValues(kind).Inc()
}

// RecordBatchItemFailed records one item failing inside a batch run.
func (m *Metrics) RecordBatchItemFailed(kind string) {
	m.BatchItemsFailed.WithLabelValues(kind).Inc()
}

// RecordBatchDuration records the end-to-end duration of a batch run.
func (m *Metrics) RecordBatchDuration(kind string, durationSeconds float64) {
	m.BatchDuration.WithLabelValues(kind).Observe(durationSeconds)
}

// RecordStaleClaimsRequeued records items swept back to PENDING.
func (m *Metrics) RecordStaleClaimsRequeued(kind string, count int) {
	m.StaleClaimsRequeued.WithLabelValues(kind).Add(float64(count))
}

// RecordSearchRequest records a call to the video source API.
func (m *Metrics) RecordSearchRequest(endpoint string, durationSeconds float64) {
	m.SearchRequestsTotal.WithLabelValues(endpoint).Inc()
	m.SearchRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordSearchRequestFailed records a failed call to the video source API.
func (m *Metrics) RecordSearchRequestFailed(endpoint string) {
	m.SearchRequestsFailed.WithLabelValues(endpoint).Inc()
}

// RecordVideosReturned records the size of one search result.
func (m *Metrics) RecordVideosReturned(count int) {
	m.VideosPerSearch.Observe(float64(count))
}

// RecordVideoUpserted records a video result write by outcome.
func (m *Metrics) RecordVideoUpserted(outcome string) {
	m.VideosUpserted.WithLabelValues(outcome).Inc()
}

// RecordApprovalUpdate records a moderation decision.
func (m *Metrics) RecordApprovalUpdate(status string) {
	m.ApprovalUpdates.WithLabelValues(status).Inc()
}
