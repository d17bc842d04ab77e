package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/surajit20072003/guddu-backend/internal/domain"
	"github.com/surajit20072003/guddu-backend/internal/observability"
	"github.com/surajit20072003/guddu-backend/internal/repository"
	"github.com/surajit20072003/guddu-backend/internal/videosource"
)

// TagBatch searches the video source for claimed keyword tags and upserts the
// results, overwriting source-reported stats on re-search.
type TagBatch struct {
	tags       repository.TagRepository
	videos     repository.VideoRepository
	source     videosource.Source
	locker     AdvisoryLocker
	batchSize  int
	maxResults int64
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// NewTagBatch creates a tag batch processor. locker may be nil, in which case
// mutual exclusion relies on the claim CAS alone.
func NewTagBatch(
	tags repository.TagRepository,
	videos repository.VideoRepository,
	source videosource.Source,
	locker AdvisoryLocker,
	batchSize int,
	maxResults int64,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *TagBatch {
	return &TagBatch{
		tags:       tags,
		videos:     videos,
		source:     source,
		locker:     locker,
		batchSize:  batchSize,
		maxResults: maxResults,
		metrics:    metrics,
		logger:     logger.With().Str("component", "tag_batch").Logger(),
	}
}

// Run claims up to the configured batch size of PENDING tags and processes
// them sequentially. Per-tag failures mark that tag FAILED and continue; the
// batch itself only errors on claim failure or context cancellation.
func (b *TagBatch) Run(ctx context.Context) (*BatchSummary, error) {
	start := time.Now()

	if b.locker != nil {
		acquired, err := b.locker.AcquireAdvisoryLock(ctx, tagBatchLockKey)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire tag batch lock: %w", err)
		}
		if !acquired {
			b.logger.Info().Msg("tag batch already running, skipping")
			return &BatchSummary{Kind: "tag"}, nil
		}
		defer func() {
			if err := b.locker.ReleaseAdvisoryLock(context.WithoutCancel(ctx), tagBatchLockKey); err != nil {
				b.logger.Error().Err(err).Msg("failed to release tag batch lock")
			}
		}()
	}

	claimed, err := b.tags.ClaimPendingBatch(ctx, b.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to claim tag batch: %w", err)
	}

	summary := &BatchSummary{Kind: "tag", Claimed: len(claimed)}
	b.metrics.RecordBatchStarted("tag", len(claimed))
	logger := observability.WithBatchContext(b.logger, "tag", len(claimed))
	logger.Info().Msg("tag batch claimed")

	for _, tag := range claimed {
		if err := ctx.Err(); err != nil {
			// Remaining PROCESSING claims are reclaimed by the lease sweeper.
			summary.Duration = time.Since(start)
			return summary, fmt.Errorf("tag batch interrupted: %w", err)
		}
		if b.processTag(ctx, tag) {
			summary.Completed++
			b.metrics.RecordBatchItemCompleted("tag")
		} else {
			summary.Failed++
			b.metrics.RecordBatchItemFailed("tag")
		}
	}

	summary.Duration = time.Since(start)
	b.metrics.RecordBatchDuration("tag", summary.Duration.Seconds())
	logger.Info().
		Int("completed", summary.Completed).
		Int("failed", summary.Failed).
		Dur("duration", summary.Duration).
		Msg("tag batch finished")
	return summary, nil
}

// processTag searches and persists results for one tag, returning true when
// the tag reached COMPLETED.
func (b *TagBatch) processTag(ctx context.Context, tag *domain.KeywordTag) bool {
	logger := observability.WithTagContext(b.logger, tag.ID, tag.TagText)

	items, err := b.source.Search(ctx, tag.TagText, b.maxResults)
	if err != nil {
		logger.Error().Err(err).Msg("video search failed")
		b.markFailed(ctx, tag.ID, logger)
		return false
	}
	b.metrics.RecordVideosReturned(len(items))

	for _, item := range items {
		if item.VideoID == "" {
			continue
		}
		result := videoResultFromItem(item, domain.TagParent(tag.ID))
		inserted, err := b.videos.UpsertForTag(ctx, result)
		if err != nil {
			logger.Error().Err(err).Str("video_id", item.VideoID).Msg("failed to upsert video result")
			b.markFailed(ctx, tag.ID, logger)
			return false
		}
		if inserted {
			b.metrics.RecordVideoUpserted("inserted")
		} else {
			b.metrics.RecordVideoUpserted("updated")
		}
	}

	if err := b.tags.MarkCompleted(ctx, tag.ID, time.Now().UTC()); err != nil {
		logger.Error().Err(err).Msg("failed to mark tag completed")
		return false
	}
	logger.Debug().Int("videos", len(items)).Msg("tag searched")
	return true
}

func (b *TagBatch) markFailed(ctx context.Context, tagID int64, logger zerolog.Logger) {
	if err := b.tags.MarkFailed(ctx, tagID); err != nil {
		logger.Error().Err(err).Msg("failed to mark tag failed")
	}
}

// videoResultFromItem binds a search hit to its owning tag or topic.
func videoResultFromItem(item *videosource.VideoItem, parent domain.VideoParent) *domain.VideoResult {
	return &domain.VideoResult{
		ID:             uuid.New(),
		Parent:         parent,
		VideoID:        item.VideoID,
		Title:          item.Title,
		Description:    item.Description,
		URL:            item.URL,
		ThumbnailURL:   item.ThumbnailURL,
		ChannelTitle:   item.ChannelTitle,
		PublishedAt:    item.PublishedAt,
		Duration:       item.Duration,
		ViewCount:      item.ViewCount,
		LikeCount:      item.LikeCount,
		CommentCount:   item.CommentCount,
		TagsFromVideo:  item.Tags,
		CategoryID:     item.CategoryID,
		ApprovalStatus: domain.ApprovalStatusPending,
	}
}
