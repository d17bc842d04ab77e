package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/surajit20072003/guddu-backend/internal/domain"
)

// RequestRepository handles upload request persistence.
type RequestRepository interface {
	// Create persists a new search request in PENDING state.
	Create(ctx context.Context, req *domain.SearchRequest) error

	// GetByID retrieves a search request by its UUID.
	// Returns domain.ErrNotFound if no matching request exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SearchRequest, error)

	// UpdateStatus moves a request to the given lifecycle state.
	// Returns domain.ErrNotFound if no matching request exists.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error
}
