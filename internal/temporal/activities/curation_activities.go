package activities

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/surajit20072003/guddu-backend/internal/ingest"
	"github.com/surajit20072003/guddu-backend/internal/scheduler"
)

// CurationActivities bundles the background units of work registered with the
// worker: tag extraction, the two batch search variants, and the stale-claim
// sweep.
type CurationActivities struct {
	ingest     *ingest.Service
	tagBatch   *scheduler.TagBatch
	topicBatch *scheduler.TopicBatch
	sweeper    *scheduler.Sweeper
	logger     zerolog.Logger
}

// NewCurationActivities creates the activity set.
func NewCurationActivities(
	ingestSvc *ingest.Service,
	tagBatch *scheduler.TagBatch,
	topicBatch *scheduler.TopicBatch,
	sweeper *scheduler.Sweeper,
	logger zerolog.Logger,
) *CurationActivities {
	return &CurationActivities{
		ingest:     ingestSvc,
		tagBatch:   tagBatch,
		topicBatch: topicBatch,
		sweeper:    sweeper,
		logger:     logger.With().Str("component", "activities").Logger(),
	}
}

// ExtractTags runs keyword extraction and tag registration for one request.
// The activity is idempotent; a retry re-registers the same tags.
func (a *CurationActivities) ExtractTags(ctx context.Context, input ExtractTagsInput) error {
	return a.ingest.IngestRequest(ctx, input.RequestID)
}

// ProcessTagBatch sweeps stale claims and runs one tag batch. The sweep is a
// pre-step so work stranded by a crashed run rejoins this batch's claim pool.
func (a *CurationActivities) ProcessTagBatch(ctx context.Context) (*BatchOutput, error) {
	if err := a.sweeper.SweepOnce(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("stale-claim sweep before tag batch failed")
	}

	summary, err := a.tagBatch.Run(ctx)
	if err != nil {
		return nil, err
	}
	return batchOutput(summary), nil
}

// ProcessTopicBatch sweeps stale claims and runs one topic batch.
func (a *CurationActivities) ProcessTopicBatch(ctx context.Context) (*BatchOutput, error) {
	if err := a.sweeper.SweepOnce(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("stale-claim sweep before topic batch failed")
	}

	summary, err := a.topicBatch.Run(ctx)
	if err != nil {
		return nil, err
	}
	return batchOutput(summary), nil
}

// RequeueStaleClaims runs one standalone sweep of both batch variants.
func (a *CurationActivities) RequeueStaleClaims(ctx context.Context) error {
	return a.sweeper.SweepOnce(ctx)
}

func batchOutput(summary *scheduler.BatchSummary) *BatchOutput {
	return &BatchOutput{
		Kind:            summary.Kind,
		Claimed:         summary.Claimed,
		Completed:       summary.Completed,
		Failed:          summary.Failed,
		DurationSeconds: summary.Duration.Seconds(),
	}
}
