package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: prometheus/promauto registers metrics globally, so we need to use
// unique namespaces per test to avoid registration conflicts.

func TestNewMetrics(t *testing.T) {
	m := NewMetrics("test_video_curation_new")

	assert.NotNil(t, m.UploadsReceived)
	assert.NotNil(t, m.ExtractionsCompleted)
	assert.NotNil(t, m.ExtractionsFailed)
	assert.NotNil(t, m.KeywordsExtracted)
	assert.NotNil(t, m.TagsCreated)
	assert.NotNil(t, m.TagsReused)
	assert.NotNil(t, m.BatchesStarted)
	assert.NotNil(t, m.BatchItemsClaimed)
	assert.NotNil(t, m.BatchItemsCompleted)
	assert.NotNil(t, m.BatchItemsFailed)
	assert.NotNil(t, m.BatchDuration)
	assert.NotNil(t, m.StaleClaimsRequeued)
	assert.NotNil(t, m.SearchRequestsTotal)
	assert.NotNil(t, m.SearchRequestsFailed)
	assert.NotNil(t, m.SearchRequestDuration)
	assert.NotNil(t, m.VideosPerSearch)
	assert.NotNil(t, m.VideosUpserted)
	assert.NotNil(t, m.ApprovalUpdates)
}

func TestRecordUploadReceived(t *testing.T) {
	m := NewMetrics("test_upload_received")

	initial := testutil.ToFloat64(m.UploadsReceived)
	m.RecordUploadReceived()
	assert.Equal(t, initial+1, testutil.ToFloat64(m.UploadsReceived))
}

func TestRecordExtractionCompleted(t *testing.T) {
	m := NewMetrics("test_extraction_completed")

	m.RecordExtractionCompleted(5)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExtractionsCompleted))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.KeywordsExtracted))
}

func TestRecordExtractionFailed(t *testing.T) {
	m := NewMetrics("test_extraction_failed")

	m.RecordExtractionFailed()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ExtractionsFailed))
}

func TestRecordTagCounters(t *testing.T) {
	m := NewMetrics("test_tag_counters")

	m.RecordTagCreated()
	m.RecordTagCreated()
	m.RecordTagReused()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.TagsCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TagsReused))
}

func TestRecordBatchStarted(t *testing.T) {
	m := NewMetrics("test_batch_started")

	m.RecordBatchStarted("tag", 80)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BatchesStarted.WithLabelValues("tag")))

	histCount, err := getHistogramSampleCount(m.BatchItemsClaimed.WithLabelValues("tag").(prometheus.Histogram))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)
}

func TestRecordBatchItems(t *testing.T) {
	m := NewMetrics("test_batch_items")

	m.RecordBatchItemCompleted("tag")
	m.RecordBatchItemCompleted("topic")
	m.RecordBatchItemFailed("tag")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.BatchItemsCompleted.WithLabelValues("tag")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BatchItemsCompleted.WithLabelValues("topic")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BatchItemsFailed.WithLabelValues("tag")))
}

func TestRecordStaleClaimsRequeued(t *testing.T) {
	m := NewMetrics("test_stale_claims")

	m.RecordStaleClaimsRequeued("tag", 3)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.StaleClaimsRequeued.WithLabelValues("tag")))
}

func TestRecordSearchRequest(t *testing.T) {
	m := NewMetrics("test_search_request")

	m.RecordSearchRequest("search.list", 0.4)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchRequestsTotal.WithLabelValues("search.list")))

	m.RecordSearchRequestFailed("videos.list")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SearchRequestsFailed.WithLabelValues("videos.list")))
}

func TestRecordVideosReturned(t *testing.T) {
	m := NewMetrics("test_videos_returned")

	m.RecordVideosReturned(10)
	histCount, err := getHistogramSampleCount(m.VideosPerSearch)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histCount)
}

func TestRecordVideoUpserted(t *testing.T) {
	m := NewMetrics("test_video_upserted")

	m.RecordVideoUpserted("inserted")
	m.RecordVideoUpserted("updated")
	m.RecordVideoUpserted("skipped")
	m.RecordVideoUpserted("inserted")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.VideosUpserted.WithLabelValues("inserted")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.VideosUpserted.WithLabelValues("updated")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.VideosUpserted.WithLabelValues("skipped")))
}

func TestRecordApprovalUpdate(t *testing.T) {
	m := NewMetrics("test_approval_update")

	m.RecordApprovalUpdate("APPROVED")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ApprovalUpdates.WithLabelValues("APPROVED")))
}

// getHistogramSampleCount extracts the sample count from a histogram metric.
func getHistogramSampleCount(h prometheus.Histogram) (uint64, error) {
	ch := make(chan prometheus.Metric, 1)
	h.Collect(ch)
	close(ch)

	var m prometheus.Metric
	for m = range ch {
		break
	}

	var dto = &dto.Metric{}
	if err := m.Write(dto); err != nil {
		return 0, err
	}

	return dto.Histogram.GetSampleCount(), nil
}
