package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/surajit20072003/guddu-backend/internal/domain"
)

// Compile-time interface verification.
var _ VideoRepository = (*PgVideoRepository)(nil)

// PgVideoRepository is a PostgreSQL implementation of VideoRepository.
type PgVideoRepository struct {
	db DBTX
}

// NewPgVideoRepository creates a new PostgreSQL video repository.
func NewPgVideoRepository(db DBTX) *PgVideoRepository {
	return &PgVideoRepository{db: db}
}

// UpsertForTag inserts a tag-owned result or refreshes the source-reported
// fields of an existing (tag, video) row. The conflict target names the
// partial unique index, and the xmax system column reports insert vs update.
// approval_status and created_at are left alone on conflict so moderation
// decisions survive re-searches.
func (r *PgVideoRepository) UpsertForTag(ctx context.Context, video *domain.VideoResult) (bool, error) {
	tagID, err := validateTagParent(video)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO video_results (
			id, tag_id, video_id, title, description, url, thumbnail_url,
			channel_title, published_at, duration, view_count, like_count,
			comment_count, tags_from_video, category_id, approval_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (tag_id, video_id) WHERE tag_id IS NOT NULL DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			url = EXCLUDED.url,
			thumbnail_url = EXCLUDED.thumbnail_url,
			channel_title = EXCLUDED.channel_title,
			published_at = EXCLUDED.published_at,
			duration = EXCLUDED.duration,
			view_count = EXCLUDED.view_count,
			like_count = EXCLUDED.like_count,
			comment_count = EXCLUDED.comment_count,
			tags_from_video = EXCLUDED.tags_from_video,
			category_id = EXCLUDED.category_id,
			updated_at = now()
		RETURNING id, created_at, updated_at, approval_status, (xmax = 0) AS inserted`

	var inserted bool
	err = r.db.QueryRow(ctx, query,
		video.ID, tagID, video.VideoID, video.Title, video.Description,
		video.URL, video.ThumbnailURL, video.ChannelTitle, video.PublishedAt,
		video.Duration, video.ViewCount, video.LikeCount, video.CommentCount,
		video.TagsFromVideo, video.CategoryID, video.ApprovalStatus,
	).Scan(&video.ID, &video.CreatedAt, &video.UpdatedAt, &video.ApprovalStatus, &inserted)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return false, domain.NewNotFoundError("tag", fmt.Sprintf("%d", tagID))
		}
		return false, fmt.Errorf("failed to upsert video result: %w", err)
	}

	return inserted, nil
}

// InsertForTopic inserts a topic-owned result, skipping silently when the
// (topic, video) pair already exists.
func (r *PgVideoRepository) InsertForTopic(ctx context.Context, video *domain.VideoResult) (bool, error) {
	topicID, err := validateTopicParent(video)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO video_results (
			id, topic_id, video_id, title, description, url, thumbnail_url,
			channel_title, published_at, duration, view_count, like_count,
			comment_count, tags_from_video, category_id, approval_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (topic_id, video_id) WHERE topic_id IS NOT NULL DO NOTHING`

	tag, err := r.db.Exec(ctx, query,
		video.ID, topicID, video.VideoID, video.Title, video.Description,
		video.URL, video.ThumbnailURL, video.ChannelTitle, video.PublishedAt,
		video.Duration, video.ViewCount, video.LikeCount, video.CommentCount,
		video.TagsFromVideo, video.CategoryID, video.ApprovalStatus,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return false, domain.NewNotFoundError("topic", topicID.String())
		}
		return false, fmt.Errorf("failed to insert video result: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetByID retrieves a video result by its primary key.
func (r *PgVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.VideoResult, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM video_results
		WHERE id = $1`, videoColumns)

	row := r.db.QueryRow(ctx, query, id)
	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("video result", id.String())
		}
		return nil, fmt.Errorf("failed to get video result by ID: %w", err)
	}

	return video, nil
}

// ListForTag retrieves results owned by a tag, matching the filter.
func (r *PgVideoRepository) ListForTag(ctx context.Context, tagID int64, filter VideoFilter) ([]*domain.VideoResult, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	conditions := []string{"tag_id = $1"}
	args := []interface{}{tagID}
	argIndex := 2

	if filter.ApprovalStatus != nil {
		conditions = append(conditions, fmt.Sprintf("approval_status = $%d", argIndex))
		args = append(args, *filter.ApprovalStatus)
		argIndex++
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM video_results %s", whereClause)
	var totalCount int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count video results: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM video_results
		%s
		ORDER BY created_at DESC, id
		LIMIT $%d OFFSET $%d`,
		videoColumns, whereClause, argIndex, argIndex+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list video results: %w", err)
	}
	defer rows.Close()

	videos := make([]*domain.VideoResult, 0, filter.Limit)
	for rows.Next() {
		video, err := scanVideoFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan video result: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating video results: %w", err)
	}

	return videos, totalCount, nil
}

// UpdateApproval moves a video result to the given moderation state.
func (r *PgVideoRepository) UpdateApproval(ctx context.Context, id uuid.UUID, status domain.ApprovalStatus) error {
	if !domain.IsValidApprovalStatus(status) {
		return domain.NewValidationError("approval_status", "unknown approval status")
	}

	query := `
		UPDATE video_results
		SET approval_status = $2, updated_at = now()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update approval status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("video result", id.String())
	}

	return nil
}

// videoColumns is the canonical select list shared by GetByID and ListForTag.
const videoColumns = `id, tag_id, topic_id, video_id, title, description, url,
		thumbnail_url, channel_title, published_at, duration, view_count,
		like_count, comment_count, tags_from_video, category_id,
		approval_status, created_at, updated_at`

// validateTagParent checks the video and returns the owning tag id.
func validateTagParent(video *domain.VideoResult) (int64, error) {
	if video == nil {
		return 0, domain.NewValidationError("video", "video result cannot be nil")
	}
	if video.VideoID == "" {
		return 0, domain.NewValidationError("video_id", "video id is required")
	}
	tagID, ok := video.Parent.TagID()
	if !ok {
		return 0, domain.NewValidationError("parent", "video result must be owned by a tag")
	}
	return tagID, nil
}

// validateTopicParent checks the video and returns the owning topic id.
func validateTopicParent(video *domain.VideoResult) (uuid.UUID, error) {
	if video == nil {
		return uuid.Nil, domain.NewValidationError("video", "video result cannot be nil")
	}
	if video.VideoID == "" {
		return uuid.Nil, domain.NewValidationError("video_id", "video id is required")
	}
	topicID, ok := video.Parent.TopicID()
	if !ok {
		return uuid.Nil, domain.NewValidationError("parent", "video result must be owned by a topic")
	}
	return topicID, nil
}

// videoScanDest holds the destination pointers for scanning a VideoResult row.
type videoScanDest struct {
	video   domain.VideoResult
	tagID   *int64
	topicID *uuid.UUID
}

// destinations returns the slice of pointers for Scan operations.
func (d *videoScanDest) destinations() []interface{} {
	return []interface{}{
		&d.video.ID, &d.tagID, &d.topicID, &d.video.VideoID,
		&d.video.Title, &d.video.Description, &d.video.URL,
		&d.video.ThumbnailURL, &d.video.ChannelTitle, &d.video.PublishedAt,
		&d.video.Duration, &d.video.ViewCount, &d.video.LikeCount,
		&d.video.CommentCount, &d.video.TagsFromVideo, &d.video.CategoryID,
		&d.video.ApprovalStatus, &d.video.CreatedAt, &d.video.UpdatedAt,
	}
}

// finalize reconstructs the parent from the nullable owner columns.
func (d *videoScanDest) finalize() (*domain.VideoResult, error) {
	switch {
	case d.tagID != nil:
		d.video.Parent = domain.TagParent(*d.tagID)
	case d.topicID != nil:
		d.video.Parent = domain.TopicParent(*d.topicID)
	}
	if err := d.video.Parent.Validate(); err != nil {
		return nil, err
	}
	return &d.video, nil
}

// scanVideo scans a single row into a VideoResult.
func scanVideo(row pgx.Row) (*domain.VideoResult, error) {
	var dest videoScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// scanVideoFromRows scans the current row from pgx.Rows into a VideoResult.
func scanVideoFromRows(rows pgx.Rows) (*domain.VideoResult, error) {
	var dest videoScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}
