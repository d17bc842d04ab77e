package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/surajit20072003/guddu-backend/internal/domain"
)

// TagRepository handles the keyword tag registry and batch claim lifecycle.
// Tags are globally deduplicated by exact text; the bigint id gives batch
// runs a stable claim ordering.
type TagRepository interface {
	// GetOrCreate retrieves an existing tag by its exact text or creates a
	// new PENDING one. The second return value reports whether a new row was
	// inserted. Uses a single INSERT...ON CONFLICT...RETURNING query.
	GetOrCreate(ctx context.Context, tagText string) (*domain.KeywordTag, bool, error)

	// GetByID retrieves a tag by its id.
	// Returns domain.ErrNotFound if no matching tag exists.
	GetByID(ctx context.Context, id int64) (*domain.KeywordTag, error)

	// LinkRequest associates a tag with the request that contributed it.
	// The association is idempotent; linking twice is a no-op.
	// Returns domain.ErrNotFound if either side does not exist.
	LinkRequest(ctx context.Context, requestID uuid.UUID, tagID int64) error

	// List retrieves tags matching the filter criteria.
	// Returns the matching tags and total count for pagination.
	List(ctx context.Context, filter TagFilter) ([]*domain.KeywordTag, int64, error)

	// ClaimPendingBatch atomically moves up to limit PENDING tags, ordered by
	// id, to PROCESSING and stamps their claim time. Concurrent callers never
	// claim the same tag. Returns the claimed tags in id order; an empty
	// slice means nothing was pending.
	ClaimPendingBatch(ctx context.Context, limit int) ([]*domain.KeywordTag, error)

	// MarkCompleted moves a tag to COMPLETED, records the search time, and
	// clears the claim.
	MarkCompleted(ctx context.Context, id int64, searchedAt time.Time) error

	// MarkFailed moves a tag to FAILED and clears the claim.
	MarkFailed(ctx context.Context, id int64) error

	// RequeueStale moves PROCESSING tags whose claim is older than the lease
	// back to PENDING. Returns the number of tags requeued.
	RequeueStale(ctx context.Context, lease time.Duration) (int64, error)
}

// TagFilter specifies criteria for listing tags via TagRepository.List.
type TagFilter struct {
	// Status filters to tags in a specific batch lifecycle state (optional).
	Status *domain.SearchStatus

	// TextContains filters to tags containing this substring (optional).
	TextContains string

	// RequestID filters to tags contributed by a specific request (optional).
	RequestID *uuid.UUID

	// Limit specifies maximum number of results (default: 100, max: 1000).
	Limit int

	// Offset specifies the starting position for pagination.
	Offset int
}

// Validate checks if the filter has valid values and sets defaults.
func (f *TagFilter) Validate() error {
	applyPaginationDefaults(&f.Limit, &f.Offset)
	return nil
}
