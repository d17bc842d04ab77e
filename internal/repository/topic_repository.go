package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/surajit20072003/guddu-backend/internal/domain"
)

// TopicRepository handles the curriculum topic batch claim lifecycle.
// Topics carry the same PENDING/PROCESSING/COMPLETED/FAILED state machine as
// keyword tags but their search query is derived from the hierarchy join.
type TopicRepository interface {
	// ClaimPendingBatch atomically moves up to limit active PENDING topics to
	// PROCESSING, stamps their claim time, and returns each topic joined with
	// its chapter, subject, and course grade labels. Concurrent callers never
	// claim the same topic. Results are ordered by topic id; an empty slice
	// means nothing was pending.
	ClaimPendingBatch(ctx context.Context, limit int) ([]*domain.TopicSearchQuery, error)

	// MarkCompleted moves a topic to COMPLETED, records the search time, and
	// clears the claim.
	MarkCompleted(ctx context.Context, id uuid.UUID, searchedAt time.Time) error

	// MarkFailed moves a topic to FAILED and clears the claim.
	MarkFailed(ctx context.Context, id uuid.UUID) error

	// RequeueStale moves PROCESSING topics whose claim is older than the
	// lease back to PENDING. Returns the number of topics requeued.
	RequeueStale(ctx context.Context, lease time.Duration) (int64, error)
}
