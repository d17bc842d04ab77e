package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/surajit20072003/guddu-backend/internal/domain"
	"github.com/surajit20072003/guddu-backend/internal/observability"
	"github.com/surajit20072003/guddu-backend/internal/repository"
	"github.com/surajit20072003/guddu-backend/internal/videosource"
)

// TopicBatch searches the video source for claimed curriculum topics. Unlike
// the tag variant, existing (topic, video) rows are skipped rather than
// refreshed, and the query is derived from the hierarchy path.
type TopicBatch struct {
	topics     repository.TopicRepository
	videos     repository.VideoRepository
	source     videosource.Source
	locker     AdvisoryLocker
	batchSize  int
	maxResults int64
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// NewTopicBatch creates a topic batch processor. locker may be nil, in which
// case mutual exclusion relies on the claim CAS alone.
func NewTopicBatch(
	topics repository.TopicRepository,
	videos repository.VideoRepository,
	source videosource.Source,
	locker AdvisoryLocker,
	batchSize int,
	maxResults int64,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *TopicBatch {
	return &TopicBatch{
		topics:     topics,
		videos:     videos,
		source:     source,
		locker:     locker,
		batchSize:  batchSize,
		maxResults: maxResults,
		metrics:    metrics,
		logger:     logger.With().Str("component", "topic_batch").Logger(),
	}
}

// Run claims up to the configured batch size of active PENDING topics and
// processes them sequentially. A topic with zero search hits still completes.
func (b *TopicBatch) Run(ctx context.Context) (*BatchSummary, error) {
	start := time.Now()

	if b.locker != nil {
		acquired, err := b.locker.AcquireAdvisoryLock(ctx, topicBatchLockKey)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire topic batch lock: %w", err)
		}
		if !acquired {
			b.logger.Info().Msg("topic batch already running, skipping")
			return &BatchSummary{Kind: "topic"}, nil
		}
		defer func() {
			if err := b.locker.ReleaseAdvisoryLock(context.WithoutCancel(ctx), topicBatchLockKey); err != nil {
				b.logger.Error().Err(err).Msg("failed to release topic batch lock")
			}
		}()
	}

	claimed, err := b.topics.ClaimPendingBatch(ctx, b.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to claim topic batch: %w", err)
	}

	summary := &BatchSummary{Kind: "topic", Claimed: len(claimed)}
	b.metrics.RecordBatchStarted("topic", len(claimed))
	logger := observability.WithBatchContext(b.logger, "topic", len(claimed))
	logger.Info().Msg("topic batch claimed")

	for _, topic := range claimed {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("topic batch interrupted: %w", err)
		}
		if b.processTopic(ctx, topic) {
			summary.Completed++
			b.metrics.RecordBatchItemCompleted("topic")
		} else {
			summary.Failed++
			b.metrics.RecordBatchItemFailed("topic")
		}
	}

	summary.Duration = time.Since(start)
	b.metrics.RecordBatchDuration("topic", summary.Duration.Seconds())
	logger.Info().
		Int("completed", summary.Completed).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("topic batch finished")
	return summary, nil
}

func (b *TopicBatch) processTopic(ctx context.Context, topic *domain.TopicSearchQuery) bool {
	query := topic.Query()
	logger := observability.WithTopicContext(b.logger, topic.TopicID.String(), query)

	items, err := b.source.Search(ctx, query, b.maxResults)
	if err != nil {
		logger.Error().Err(err).Msg("video search failed")
		b.markFailed(ctx, topic, logger)
		return false
	}
	b.metrics.RecordVideosReturned(len(items))

	for _, item := range items {
		if item.VideoID == "" {
			continue
		}
		result := videoResultFromItem(item, domain.TopicParent(topic.TopicID))
		inserted, err := b.videos.InsertForTopic(ctx, result)
		if err != nil {
			logger.Error().Err(err).Str("video_id", item.VideoID).Msg("failed to insert video result")
			b.markFailed(ctx, topic, logger)
			return false
		}
		if inserted {
			b.metrics.RecordVideoUpserted("inserted")
		} else {
			b.metrics.RecordVideoUpserted("skipped")
		}
	}

	if err := b.topics.MarkCompleted(ctx, topic.TopicID, time.Now().UTC()); err != nil {
		logger.Error().Err(err).Msg("failed to mark topic completed")
		return false
	}
	logger.Debug().Int("videos", len(items)).Msg("topic searched")
	return true
}

func (b *TopicBatch) markFailed(ctx context.Context, topic *domain.TopicSearchQuery, logger zerolog.Logger) {
	if err := b.topics.MarkFailed(ctx, topic.TopicID); err != nil {
		logger.Error().Err(err).Msg("failed to mark topic failed")
	}
}
