// Package ingest turns uploaded documents and raw tag text into keyword tags.
//
// IngestRequest is the extraction task behind POST /api/v1/admin/upload: it
// loads the search request, extracts keyword candidates from the user-supplied
// tag string and the uploaded document, registers each candidate in the tag
// registry, and moves the request to a terminal status.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/surajit20072003/guddu-backend/internal/domain"
	"github.com/surajit20072003/guddu-backend/internal/extract"
	"github.com/surajit20072003/guddu-backend/internal/observability"
	"github.com/surajit20072003/guddu-backend/internal/repository"
)

// TxRunner runs a function within a database transaction.
// *database.DB satisfies this interface.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// Service performs keyword extraction and tag registration for uploads.
type Service struct {
	db       TxRunner
	requests repository.RequestRepository
	metrics  *observability.Metrics
	logger   zerolog.Logger
}

// NewService creates an ingestion service.
func NewService(db TxRunner, requests repository.RequestRepository, metrics *observability.Metrics, logger zerolog.Logger) *Service {
	return &Service{
		db:       db,
		requests: requests,
		metrics:  metrics,
		logger:   logger.With().Str("component", "ingest").Logger(),
	}
}

// IngestRequest extracts keyword candidates for the request and registers
// them as tags. The request always ends in a terminal status: COMPLETED when
// at least one tag was registered, FAILED when extraction yielded nothing or
// registration could not be committed. A request that no longer exists is
// logged and swallowed so the background task does not retry forever.
func (s *Service) IngestRequest(ctx context.Context, requestID uuid.UUID) error {
	logger := observability.WithRequestContext(s.logger, requestID.String())

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn().Msg("search request not found, nothing to ingest")
			return nil
		}
		return fmt.Errorf("failed to load search request: %w", err)
	}

	candidates := s.collectCandidates(req, logger)
	if len(candidates) == 0 {
		logger.Warn().Msg("no usable keywords extracted, failing request")
		s.metrics.RecordExtractionFailed()
		if err := s.requests.UpdateStatus(ctx, requestID, domain.RequestStatusFailed); err != nil {
			return fmt.Errorf("failed to mark request failed: %w", err)
		}
		return nil
	}

	suffix := domain.ClassSuffix(req.ClassLevel)

	var created, reused int
	err = s.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		tags := repository.NewPgTagRepository(tx)
		for _, candidate := range candidates {
			tagText := domain.ComposeTagText(candidate, suffix)
			tag, inserted, err := tags.GetOrCreate(ctx, tagText)
			if err != nil {
				return fmt.Errorf("failed to register tag %q: %w", tagText, err)
			}
			if err := tags.LinkRequest(ctx, req.ID, tag.ID); err != nil {
				return fmt.Errorf("failed to link tag %q: %w", tagText, err)
			}
			if inserted {
				created++
			} else {
				reused++
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.RecordExtractionFailed()
		if updateErr := s.requests.UpdateStatus(ctx, requestID, domain.RequestStatusFailed); updateErr != nil {
			logger.Error().Err(updateErr).Msg("failed to mark request failed after registration error")
		}
		return fmt.Errorf("tag registration failed: %w", err)
	}

	for i := 0; i < created; i++ {
		s.metrics.RecordTagCreated()
	}
	for i := 0; i < reused; i++ {
		s.metrics.RecordTagReused()
	}
	s.metrics.RecordExtractionCompleted(len(candidates))

	if err := s.requests.UpdateStatus(ctx, requestID, domain.RequestStatusCompleted); err != nil {
		return fmt.Errorf("failed to mark request completed: %w", err)
	}

	logger.Info().
		Int("candidates", len(candidates)).
		Int("tags_created", created).
		Int("tags_reused", reused).
		Msg("request ingested")
	return nil
}

// collectCandidates merges keywords from the user tag string and the uploaded
// document, preserving first-seen order. The user tag string is taken as-is,
// comma-split and trimmed; the length and noise filters apply only to text
// extracted from documents. Document read failures degrade to the
// user-supplied tags alone.
func (s *Service) collectCandidates(req *domain.SearchRequest, logger zerolog.Logger) []string {
	candidates := splitUserTags(req.TagsFromUser)

	if req.UploadedFile != "" {
		text, err := extract.FileText(req.UploadedFile)
		if err != nil {
			logger.Warn().Err(err).Str("file", req.UploadedFile).Msg("failed to extract document text")
		} else {
			candidates = mergeCandidates(candidates, extract.ExtractKeywords(text))
		}
	}

	return candidates
}

// splitUserTags splits the free-text tags field on commas, trimming
// whitespace and dropping empty entries.
func splitUserTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func mergeCandidates(base, extra []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, c := range base {
		seen[c] = struct{}{}
	}
	for _, c := range extra {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		base = append(base, c)
	}
	return base
}
