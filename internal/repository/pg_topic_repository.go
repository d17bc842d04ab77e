package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/surajit20072003/guddu-backend/internal/domain"
)

// Compile-time interface verification.
var _ TopicRepository = (*PgTopicRepository)(nil)

// PgTopicRepository is a PostgreSQL implementation of TopicRepository.
type PgTopicRepository struct {
	db DBTX
}

// NewPgTopicRepository creates a new PostgreSQL topic repository.
func NewPgTopicRepository(db DBTX) *PgTopicRepository {
	return &PgTopicRepository{db: db}
}

// ClaimPendingBatch atomically moves up to limit active PENDING topics to
// PROCESSING and returns them joined with their hierarchy path. The claim
// happens in a CTE so the hierarchy join reads exactly the claimed rows.
func (r *PgTopicRepository) ClaimPendingBatch(ctx context.Context, limit int) ([]*domain.TopicSearchQuery, error) {
	if limit <= 0 {
		return nil, domain.NewValidationError("limit", "claim limit must be positive")
	}

	query := `
		WITH claimed AS (
			UPDATE topics
			SET status = 'PROCESSING', claimed_at = now()
			WHERE id IN (
				SELECT id FROM topics
				WHERE status = 'PENDING' AND is_active
				ORDER BY id
				LIMIT $1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING id, chapter_id, title
		)
		SELECT t.id, t.title, ch.title, sub.name, co.grade_label
		FROM claimed t
		JOIN chapters ch ON ch.id = t.chapter_id
		JOIN subjects sub ON sub.id = ch.subject_id
		JOIN syllabi sy ON sy.id = sub.syllabus_id
		JOIN courses co ON co.id = sy.course_id
		ORDER BY t.id`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending topics: %w", err)
	}
	defer rows.Close()

	var topics []*domain.TopicSearchQuery
	for rows.Next() {
		var q domain.TopicSearchQuery
		if err := rows.Scan(&q.TopicID, &q.TopicTitle, &q.ChapterTitle, &q.SubjectName, &q.GradeLabel); err != nil {
			return nil, fmt.Errorf("failed to scan claimed topic: %w", err)
		}
		topics = append(topics, &q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating claimed topics: %w", err)
	}

	return topics, nil
}

// MarkCompleted moves a topic to COMPLETED and records the search time.
func (r *PgTopicRepository) MarkCompleted(ctx context.Context, id uuid.UUID, searchedAt time.Time) error {
	query := `
		UPDATE topics
		SET status = 'COMPLETED', last_searched_at = $2, claimed_at = NULL
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, searchedAt)
	if err != nil {
		return fmt.Errorf("failed to mark topic completed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("topic", id.String())
	}

	return nil
}

// MarkFailed moves a topic to FAILED.
func (r *PgTopicRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE topics
		SET status = 'FAILED', claimed_at = NULL
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark topic failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("topic", id.String())
	}

	return nil
}

// RequeueStale moves PROCESSING topics with an expired claim back to PENDING.
func (r *PgTopicRepository) RequeueStale(ctx context.Context, lease time.Duration) (int64, error) {
	if lease <= 0 {
		return 0, domain.NewValidationError("lease", "lease duration must be positive")
	}

	query := `
		UPDATE topics
		SET status = 'PENDING', claimed_at = NULL
		WHERE status = 'PROCESSING' AND claimed_at < now() - $1::interval`

	tag, err := r.db.Exec(ctx, query, lease)
	if err != nil {
		return 0, fmt.Errorf("failed to requeue stale topics: %w", err)
	}

	return tag.RowsAffected(), nil
}
