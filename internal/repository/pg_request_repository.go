package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/surajit20072003/guddu-backend/internal/domain"
)

// Compile-time interface verification.
var _ RequestRepository = (*PgRequestRepository)(nil)

// PgRequestRepository is a PostgreSQL implementation of RequestRepository.
type PgRequestRepository struct {
	db DBTX
}

// NewPgRequestRepository creates a new PostgreSQL request repository.
func NewPgRequestRepository(db DBTX) *PgRequestRepository {
	return &PgRequestRepository{db: db}
}

// Create persists a new search request.
func (r *PgRequestRepository) Create(ctx context.Context, req *domain.SearchRequest) error {
	if req == nil {
		return domain.NewValidationError("request", "request cannot be nil")
	}
	if req.ID == uuid.Nil {
		return domain.NewValidationError("id", "request id is required")
	}

	query := `
		INSERT INTO search_requests (id, uploaded_file, tags_from_user, class_level, year, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.UploadedFile,
		req.TagsFromUser,
		req.ClassLevel,
		req.Year,
		req.Status,
		req.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("request %s: %w", req.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// GetByID retrieves a search request by its UUID.
func (r *PgRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SearchRequest, error) {
	query := `
		SELECT id, uploaded_file, tags_from_user, class_level, year, status, created_at
		FROM search_requests
		WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("request", id.String())
		}
		return nil, fmt.Errorf("failed to get request by ID: %w", err)
	}

	return req, nil
}

// UpdateStatus moves a request to the given lifecycle state.
func (r *PgRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error {
	query := `UPDATE search_requests SET status = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("request", id.String())
	}

	return nil
}

// requestScanDest holds the destination pointers for scanning a SearchRequest row.
type requestScanDest struct {
	req domain.SearchRequest
}

// destinations returns the slice of pointers for Scan operations.
func (d *requestScanDest) destinations() []interface{} {
	return []interface{}{
		&d.req.ID, &d.req.UploadedFile, &d.req.TagsFromUser,
		&d.req.ClassLevel, &d.req.Year, &d.req.Status, &d.req.CreatedAt,
	}
}

// finalize performs post-scan processing.
func (d *requestScanDest) finalize() (*domain.SearchRequest, error) {
	return &d.req, nil
}

// scanRequest scans a single row into a SearchRequest.
func scanRequest(row pgx.Row) (*domain.SearchRequest, error) {
	var dest requestScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}
