// Package observability provides logging and metrics support for the video
// curation service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for uploads, batches, searches, and moderation
//   - Context helpers for propagating observability data
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:  "info",
//	    Format: "json",
//	    Output: "stdout",
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("request_id", reqID).Msg("upload accepted")
//
// Add domain context to a logger:
//
//	logger = observability.WithTagContext(logger, tagID, tagText)
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("video_curation")
//
// Record metrics:
//
//	metrics.RecordUploadReceived()
//	metrics.RecordBatchStarted("tag", 80)
//	metrics.RecordVideoUpserted("inserted")
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - request_id: Upload request identifier
//   - tag_id, tag_text: Keyword tag identity
//   - topic_id, query: Topic identity and derived search query
//   - batch_kind, batch_size: Batch run identity
//   - workflow_id, workflow_run_id: Temporal execution identity
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
