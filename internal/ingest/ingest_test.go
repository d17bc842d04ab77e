package ingest

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surajit20072003/guddu-backend/internal/domain"
	"github.com/surajit20072003/guddu-backend/internal/observability"
)

// One metrics instance per test binary; promauto registers globally.
var testMetrics = observability.NewMetrics("ingest_test")

type fakeRequestRepo struct {
	req      *domain.SearchRequest
	getErr   error
	statuses []domain.RequestStatus
}

func (f *fakeRequestRepo) Create(ctx context.Context, req *domain.SearchRequest) error {
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SearchRequest, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.req, nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.RequestStatus) error {
	f.statuses = append(f.statuses, status)
	return nil
}

// mockTxRunner drives transactions through a pgxmock pool.
type mockTxRunner struct {
	pool pgxmock.PgxPoolIface
}

func (r mockTxRunner) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func expectTagRegistration(mock pgxmock.PgxPoolIface, requestID uuid.UUID, tagID int64, tagText string, inserted bool) {
	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO keyword_tags`).
		WithArgs(tagText).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tag_text", "status", "last_searched_at", "claimed_at", "created_at", "inserted"}).
			AddRow(tagID, tagText, domain.SearchStatusPending, nil, nil, now, inserted))
	mock.ExpectExec(`INSERT INTO search_request_tags`).
		WithArgs(requestID, tagID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
}

func TestService_IngestRequest(t *testing.T) {
	t.Run("registers suffixed tags from user text", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		req := domain.NewSearchRequest("", "Counting, Shapes", "1", nil)
		repo := &fakeRequestRepo{req: req}
		svc := NewService(mockTxRunner{mock}, repo, testMetrics, zerolog.Nop())

		mock.ExpectBegin()
		expectTagRegistration(mock, req.ID, 1, "Counting for class 1", true)
		expectTagRegistration(mock, req.ID, 2, "Shapes for class 1", false)
		mock.ExpectCommit()

		err = svc.IngestRequest(context.Background(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.RequestStatus{domain.RequestStatusCompleted}, repo.statuses)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("applies non-numeric class suffix", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		req := domain.NewSearchRequest("", "Addition", "LKG", nil)
		repo := &fakeRequestRepo{req: req}
		svc := NewService(mockTxRunner{mock}, repo, testMetrics, zerolog.Nop())

		mock.ExpectBegin()
		expectTagRegistration(mock, req.ID, 1, "Addition for LKG", true)
		mock.ExpectCommit()

		err = svc.IngestRequest(context.Background(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.RequestStatus{domain.RequestStatusCompleted}, repo.statuses)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("keeps user tags the document filters would drop", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		req := domain.NewSearchRequest("", "Math, ab", "", nil)
		repo := &fakeRequestRepo{req: req}
		svc := NewService(mockTxRunner{mock}, repo, testMetrics, zerolog.Nop())

		mock.ExpectBegin()
		expectTagRegistration(mock, req.ID, 1, "Math", true)
		expectTagRegistration(mock, req.ID, 2, "ab", true)
		mock.ExpectCommit()

		err = svc.IngestRequest(context.Background(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.RequestStatus{domain.RequestStatusCompleted}, repo.statuses)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails request when nothing extractable", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		req := domain.NewSearchRequest("", " ,  , ", "", nil)
		repo := &fakeRequestRepo{req: req}
		svc := NewService(mockTxRunner{mock}, repo, testMetrics, zerolog.Nop())

		err = svc.IngestRequest(context.Background(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.RequestStatus{domain.RequestStatusFailed}, repo.statuses)
	})

	t.Run("swallows missing request", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := &fakeRequestRepo{getErr: domain.NewNotFoundError("request", "gone")}
		svc := NewService(mockTxRunner{mock}, repo, testMetrics, zerolog.Nop())

		err = svc.IngestRequest(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.Empty(t, repo.statuses)
	})

	t.Run("fails request when registration cannot commit", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		req := domain.NewSearchRequest("", "Fractions", "", nil)
		repo := &fakeRequestRepo{req: req}
		svc := NewService(mockTxRunner{mock}, repo, testMetrics, zerolog.Nop())

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO keyword_tags`).
			WithArgs("Fractions").
			WillReturnError(errors.New("connection reset"))
		mock.ExpectRollback()

		err = svc.IngestRequest(context.Background(), req.ID)
		assert.Error(t, err)
		assert.Equal(t, []domain.RequestStatus{domain.RequestStatusFailed}, repo.statuses)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("merges document keywords with user tags", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		docPath := writeTestDocx(t, "Multiplication tables, Long division")
		req := domain.NewSearchRequest(docPath, "Multiplication tables", "", nil)
		repo := &fakeRequestRepo{req: req}
		svc := NewService(mockTxRunner{mock}, repo, testMetrics, zerolog.Nop())

		mock.ExpectBegin()
		expectTagRegistration(mock, req.ID, 1, "Multiplication tables", true)
		expectTagRegistration(mock, req.ID, 2, "Long division", true)
		mock.ExpectCommit()

		err = svc.IngestRequest(context.Background(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.RequestStatus{domain.RequestStatusCompleted}, repo.statuses)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("degrades to user tags when document unreadable", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		req := domain.NewSearchRequest("/nonexistent/file.pdf", "Water cycle", "", nil)
		repo := &fakeRequestRepo{req: req}
		svc := NewService(mockTxRunner{mock}, repo, testMetrics, zerolog.Nop())

		mock.ExpectBegin()
		expectTagRegistration(mock, req.ID, 1, "Water cycle", true)
		mock.ExpectCommit()

		err = svc.IngestRequest(context.Background(), req.ID)
		require.NoError(t, err)
		assert.Equal(t, []domain.RequestStatus{domain.RequestStatusCompleted}, repo.statuses)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// writeTestDocx writes a minimal OpenXML document containing the given text.
func writeTestDocx(t *testing.T, text string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "upload.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	doc, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write([]byte(`<?xml version="1.0"?>
		<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
			<w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body>
		</w:document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}
