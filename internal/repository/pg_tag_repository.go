package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/surajit20072003/guddu-backend/internal/domain"
)

// Compile-time interface verification.
var _ TagRepository = (*PgTagRepository)(nil)

// PgTagRepository is a PostgreSQL implementation of TagRepository.
type PgTagRepository struct {
	db DBTX
}

// NewPgTagRepository creates a new PostgreSQL tag repository.
func NewPgTagRepository(db DBTX) *PgTagRepository {
	return &PgTagRepository{db: db}
}

// GetOrCreate retrieves an existing tag by its exact text or creates a new one.
// Uses a single INSERT...ON CONFLICT...RETURNING query to avoid two roundtrips.
// The xmax system column distinguishes a fresh insert from a conflict hit.
func (r *PgTagRepository) GetOrCreate(ctx context.Context, tagText string) (*domain.KeywordTag, bool, error) {
	if strings.TrimSpace(tagText) == "" {
		return nil, false, domain.NewValidationError("tag_text", "tag text cannot be empty or whitespace-only")
	}

	query := `
		INSERT INTO keyword_tags (tag_text)
		VALUES ($1)
		ON CONFLICT (tag_text) DO UPDATE SET
			tag_text = keyword_tags.tag_text
		RETURNING id, tag_text, status, last_searched_at, claimed_at, created_at, (xmax = 0) AS inserted`

	var tag domain.KeywordTag
	var inserted bool
	err := r.db.QueryRow(ctx, query, tagText).
		Scan(&tag.ID, &tag.TagText, &tag.Status, &tag.LastSearchedAt, &tag.ClaimedAt, &tag.CreatedAt, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get or create tag: %w", err)
	}

	return &tag, inserted, nil
}

// GetByID retrieves a tag by its id.
func (r *PgTagRepository) GetByID(ctx context.Context, id int64) (*domain.KeywordTag, error) {
	query := `
		SELECT id, tag_text, status, last_searched_at, claimed_at, created_at
		FROM keyword_tags
		WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	tag, err := scanTag(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("tag", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to get tag by ID: %w", err)
	}

	return tag, nil
}

// LinkRequest associates a tag with the request that contributed it.
func (r *PgTagRepository) LinkRequest(ctx context.Context, requestID uuid.UUID, tagID int64) error {
	query := `
		INSERT INTO search_request_tags (request_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT (request_id, tag_id) DO NOTHING`

	_, err := r.db.Exec(ctx, query, requestID, tagID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.NewNotFoundError("request or tag", fmt.Sprintf("request=%s, tag=%d", requestID, tagID))
		}
		return fmt.Errorf("failed to link request and tag: %w", err)
	}

	return nil
}

// List retrieves tags matching the filter criteria.
func (r *PgTagRepository) List(ctx context.Context, filter TagFilter) ([]*domain.KeywordTag, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	// Build dynamic WHERE clause
	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.TextContains != "" {
		conditions = append(conditions, fmt.Sprintf("t.tag_text ILIKE $%d", argIndex))
		// Escape LIKE special characters to prevent pattern injection.
		escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(filter.TextContains)
		args = append(args, "%"+escaped+"%")
		argIndex++
	}

	if filter.RequestID != nil {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM search_request_tags srt WHERE srt.tag_id = t.id AND srt.request_id = $%d)", argIndex))
		args = append(args, *filter.RequestID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total matching records
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM keyword_tags t %s", whereClause)
	var totalCount int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count tags: %w", err)
	}

	// Query with pagination
	selectQuery := fmt.Sprintf(`
		SELECT t.id, t.tag_text, t.status, t.last_searched_at, t.claimed_at, t.created_at
		FROM keyword_tags t
		%s
		ORDER BY t.id
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := make([]*domain.KeywordTag, 0, filter.Limit)
	for rows.Next() {
		tag, err := scanTagFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating tags: %w", err)
	}

	return tags, totalCount, nil
}

// ClaimPendingBatch atomically moves up to limit PENDING tags to PROCESSING.
// The inner SELECT uses FOR UPDATE SKIP LOCKED so concurrent claimers never
// block on or double-claim the same rows.
func (r *PgTagRepository) ClaimPendingBatch(ctx context.Context, limit int) ([]*domain.KeywordTag, error) {
	if limit <= 0 {
		return nil, domain.NewValidationError("limit", "claim limit must be positive")
	}

	query := `
		WITH claimed AS (
			UPDATE keyword_tags
			SET status = 'PROCESSING', claimed_at = now()
			WHERE id IN (
				SELECT id FROM keyword_tags
				WHERE status = 'PENDING'
				ORDER BY id
				LIMIT $1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING id, tag_text, status, last_searched_at, claimed_at, created_at
		)
		SELECT id, tag_text, status, last_searched_at, claimed_at, created_at
		FROM claimed
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending tags: %w", err)
	}
	defer rows.Close()

	var tags []*domain.KeywordTag
	for rows.Next() {
		tag, err := scanTagFromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claimed tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating claimed tags: %w", err)
	}

	return tags, nil
}

// MarkCompleted moves a tag to COMPLETED and records the search time.
func (r *PgTagRepository) MarkCompleted(ctx context.Context, id int64, searchedAt time.Time) error {
	query := `
		UPDATE keyword_tags
		SET status = 'COMPLETED', last_searched_at = $2, claimed_at = NULL
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, searchedAt)
	if err != nil {
		return fmt.Errorf("failed to mark tag completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("tag", fmt.Sprintf("%d", id))
	}

	return nil
}

// MarkFailed moves a tag to FAILED.
func (r *PgTagRepository) MarkFailed(ctx context.Context, id int64) error {
	query := `
		UPDATE keyword_tags
		SET status = 'FAILED', claimed_at = NULL
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark tag failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("tag", fmt.Sprintf("%d", id))
	}

	return nil
}

// RequeueStale moves PROCESSING tags with an expired claim back to PENDING.
func (r *PgTagRepository) RequeueStale(ctx context.Context, lease time.Duration) (int64, error) {
	if lease <= 0 {
		return 0, domain.NewValidationError("lease", "lease duration must be positive")
	}

	query := `
		UPDATE keyword_tags
		SET status = 'PENDING', claimed_at = NULL
		WHERE status = 'PROCESSING' AND claimed_at < now() - $1::interval`

	tag, err := r.db.Exec(ctx, query, lease)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue stale tags: %w", err)
	}

	return tag.RowsAffected(), nil
}

// tagScanDest holds the destination pointers for scanning a KeywordTag row.
type tagScanDest struct {
	tag domain.KeywordTag
}

// destinations returns the slice of pointers for Scan operations.
func (d *tagScanDest) destinations() []interface{} {
	return []interface{}{
		&d.tag.ID, &d.tag.TagText, &d.tag.Status,
		&d.tag.LastSearchedAt, &d.tag.ClaimedAt, &d.tag.CreatedAt,
	}
}

// finalize performs post-scan processing.
func (d *tagScanDest) finalize() (*domain.KeywordTag, error) {
	return &d.tag, nil
}

// scanTag scans a single row into a KeywordTag.
func scanTag(row pgx.Row) (*domain.KeywordTag, error) {
	var dest tagScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// scanTagFromRows scans the current row from pgx.Rows into a KeywordTag.
func scanTagFromRows(rows pgx.Rows) (*domain.KeywordTag, error) {
	var dest tagScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}
