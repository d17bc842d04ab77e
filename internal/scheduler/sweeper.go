package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/surajit20072003/guddu-backend/internal/observability"
	"github.com/surajit20072003/guddu-backend/internal/repository"
)

// Sweeper requeues PROCESSING items whose claim outlived the lease, so work
// stranded by a crashed batch run becomes claimable again.
type Sweeper struct {
	tags     repository.TagRepository
	topics   repository.TopicRepository
	lease    time.Duration
	interval time.Duration
	metrics  *observability.Metrics
	logger   zerolog.Logger
}

// NewSweeper creates a stale-claim sweeper.
func NewSweeper(
	tags repository.TagRepository,
	topics repository.TopicRepository,
	lease time.Duration,
	interval time.Duration,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *Sweeper {
	return &Sweeper{
		tags:     tags,
		topics:   topics,
		lease:    lease,
		interval: interval,
		metrics:  metrics,
		logger:   logger.With().Str("component", "sweeper").Logger(),
	}
}

// SweepOnce requeues stale claims for both batch variants. Failures on one
// variant do not stop the other; the first error is returned.
func (s *Sweeper) SweepOnce(ctx context.Context) error {
	var firstErr error

	tagCount, err := s.tags.RequeueStale(ctx, s.lease)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to requeue stale tag claims")
		firstErr = err
	} else if tagCount > 0 {
		s.metrics.RecordStaleClaimsRequeued("tag", int(tagCount))
		s.logger.Warn().Int64("count", tagCount).Msg("requeued stale tag claims")
	}

	topicCount, err := s.topics.RequeueStale(ctx, s.lease)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to requeue stale topic claims")
		if firstErr == nil {
			firstErr = err
		}
	} else if topicCount > 0 {
		s.metrics.RecordStaleClaimsRequeued("topic", int(topicCount))
		s.logger.Warn().Int64("count", topicCount).Msg("requeued stale topic claims")
	}

	return firstErr
}

// Run sweeps on the configured interval until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("interval", s.interval).
		Dur("lease", s.lease).
		Msg("stale-claim sweeper started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("stale-claim sweeper stopped")
			return
		case <-ticker.C:
			if err := s.SweepOnce(ctx); err != nil {
				s.logger.Error().Err(err).Msg("sweep failed")
			}
		}
	}
}
