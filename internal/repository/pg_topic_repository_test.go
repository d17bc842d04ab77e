package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surajit20072003/guddu-backend/internal/domain"
)

func TestPgTopicRepository_ClaimPendingBatch(t *testing.T) {
	t.Run("claims topics joined with hierarchy", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgTopicRepository(mock)
		ctx := context.Background()

		topicID := uuid.New()
		mock.ExpectQuery(`WITH claimed AS`).
			WithArgs(80).
			WillReturnRows(pgxmock.NewRows([]string{"id", "title", "title", "name", "grade_label"}).
				AddRow(topicID, "Photosynthesis", "Plants", "Science", "Class 4"))

		topics, err := repo.ClaimPendingBatch(ctx, 80)
		require.NoError(t, err)
		require.Len(t, topics, 1)
		assert.Equal(t, topicID, topics[0].TopicID)
		assert.Equal(t, "Photosynthesis Plants Science Class 4", topics[0].Query())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns empty slice when nothing pending", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgTopicRepository(mock)
		ctx := context.Background()

		mock.ExpectQuery(`WITH claimed AS`).
			WithArgs(80).
			WillReturnRows(pgxmock.NewRows([]string{"id", "title", "title", "name", "grade_label"}))

		topics, err := repo.ClaimPendingBatch(ctx, 80)
		require.NoError(t, err)
		assert.Empty(t, topics)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive limit", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgTopicRepository(mock)

		_, err = repo.ClaimPendingBatch(context.Background(), -1)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

func TestPgTopicRepository_MarkCompleted(t *testing.T) {
	t.Run("marks topic completed", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgTopicRepository(mock)
		ctx := context.Background()

		topicID := uuid.New()
		searchedAt := time.Now().UTC()
		mock.ExpectExec(`UPDATE topics`).
			WithArgs(topicID, searchedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = repo.MarkCompleted(ctx, topicID, searchedAt)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing topic", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgTopicRepository(mock)
		ctx := context.Background()

		topicID := uuid.New()
		searchedAt := time.Now().UTC()
		mock.ExpectExec(`UPDATE topics`).
			WithArgs(topicID, searchedAt).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err = repo.MarkCompleted(ctx, topicID, searchedAt)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrNotFound))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgTopicRepository_MarkFailed(t *testing.T) {
	t.Run("marks topic failed", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgTopicRepository(mock)
		ctx := context.Background()

		topicID := uuid.New()
		mock.ExpectExec(`UPDATE topics`).
			WithArgs(topicID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = repo.MarkFailed(ctx, topicID)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPgTopicRepository_RequeueStale(t *testing.T) {
	t.Run("requeues stale claims", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPgTopicRepository(mock)
		ctx := context.Background()

		lease := 30 * time.Minute
		mock.ExpectExec(`UPDATE topics`).
			WithArgs(lease).
			WillReturnResult(pgxmock.NewResult("UPDATE", 2))

		count, err := repo.RequeueStale(ctx, lease)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
