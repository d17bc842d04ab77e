package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/surajit20072003/guddu-backend/internal/domain"
)

// VideoRepository handles persisted search results and their moderation state.
type VideoRepository interface {
	// UpsertForTag inserts a result owned by a keyword tag, or refreshes the
	// source-reported fields of an existing (tag, video) row. Approval state
	// is never touched on conflict. The return value reports whether a new
	// row was inserted.
	UpsertForTag(ctx context.Context, video *domain.VideoResult) (bool, error)

	// InsertForTopic inserts a result owned by a topic, skipping silently if
	// the (topic, video) pair already exists. The return value reports
	// whether a new row was inserted.
	InsertForTopic(ctx context.Context, video *domain.VideoResult) (bool, error)

	// GetByID retrieves a video result by its primary key.
	// Returns domain.ErrNotFound if no matching result exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.VideoResult, error)

	// ListForTag retrieves results owned by a tag, matching the filter.
	// Returns the matching results and total count for pagination.
	ListForTag(ctx context.Context, tagID int64, filter VideoFilter) ([]*domain.VideoResult, int64, error)

	// UpdateApproval moves a video result to the given moderation state.
	// Returns domain.ErrNotFound if no matching result exists.
	UpdateApproval(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) error
}

// VideoFilter specifies criteria for listing video results.
type VideoFilter struct {
	// ApprovalStatus filters to results in a specific moderation state (optional).
	ApprovalStatus *domain.ApprovalStatus

	// Limit specifies maximum number of results (default: 100, max: 1000).
	Limit int

	// Offset specifies the starting position for pagination.
	Offset int
}

// Validate checks if the filter has valid values and sets defaults.
func (f *VideoFilter) Validate() error {
	if f.ApprovalStatus != nil && !domain.IsValidApprovalStatus(*f.ApprovalStatus) {
		return domain.NewValidationError("approval_status", "unknown approval status")
	}
	applyPaginationDefaults(&f.Limit, &f.Offset)
	return nil
}
