package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/surajit20072003/guddu-backend/internal/domain"
	"github.com/surajit20072003/guddu-backend/internal/repository"
	"github.com/surajit20072003/guddu-backend/internal/temporal"
	"github.com/surajit20072003/guddu-backend/internal/temporal/activities"
)

// Pagination and validation constants.
const (
	defaultPageSize    = 50
	maxPageSize        = 100
	maxRequestBodySize = 1 << 20 // 1 MB limit for JSON request bodies
)

// allowedUploadExtensions is the document whitelist; it mirrors what the
// extractor can read.
var allowedUploadExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".xlsx": true,
}

// uploadForm is the validated shape of the multipart upload fields.
type uploadForm struct {
	Tags       string `validate:"omitempty,max=10000"`
	ClassLevel string `validate:"omitempty,max=32"`
	Year       *int   `validate:"omitempty,gte=2000,lte=2100"`
}

// updateApprovalRequest is the JSON request body for the moderation endpoint.
type updateApprovalRequest struct {
	Status string `json:"status"`
}

// uploadHandler handles POST /api/v1/admin/upload. It persists the request
// and the uploaded document, fires the extraction workflow, and returns 202.
// Extraction outcomes are never surfaced synchronously.
func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart payload")
		return
	}

	form := uploadForm{
		Tags:       strings.TrimSpace(r.FormValue("tags")),
		ClassLevel: strings.TrimSpace(r.FormValue("class_level")),
	}
	if yearStr := strings.TrimSpace(r.FormValue("year")); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year must be an integer")
			return
		}
		form.Year = &year
	}
	if err := s.validate.Struct(&form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid upload fields")
		return
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
	case errors.Is(err, http.ErrMissingFile):
		file = nil
	default:
		writeError(w, http.StatusBadRequest, "malformed file part")
		return
	}

	if file == nil && form.Tags == "" {
		writeError(w, http.StatusBadRequest, "either a file or tags must be provided")
		return
	}

	requestID := uuid.New()

	var storedPath string
	if file != nil {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !allowedUploadExtensions[ext] {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported document type: %s", ext))
			return
		}
		storedPath, err = s.saveUpload(requestID, ext, file)
		if err != nil {
			s.logger.Error().Err(err).Str("request_id", requestID.String()).Msg("failed to store uploaded document")
			writeError(w, http.StatusInternalServerError, "failed to store uploaded document")
			return
		}
	}

	req := domain.NewSearchRequest(storedPath, form.Tags, form.ClassLevel, form.Year)
	req.ID = requestID

	if err := s.requestRepo.Create(ctx, req); err != nil {
		writeDomainError(w, err)
		return
	}

	s.metrics.RecordUploadReceived()

	workflowID, _, err := s.workflowClient.StartExtraction(ctx, requestID,
		s.workflows.Extraction, activities.ExtractTagsInput{RequestID: requestID})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info().
		Str("request_id", requestID.String()).
		Str("workflow_id", workflowID).
		Bool("has_file", storedPath != "").
		Msg("upload accepted")

	writeJSON(w, http.StatusAccepted, uploadResponse{
		RequestID:  requestID.String(),
		WorkflowID: workflowID,
		Status:     string(domain.RequestStatusPending),
		Message:    "extraction queued",
	})
}

// saveUpload writes an uploaded document to the upload directory. The stored
// name is derived from the request ID so uploads never collide.
func (s *Server) saveUpload(requestID uuid.UUID, ext string, file io.Reader) (string, error) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(s.cfg.UploadDir, requestID.String()+ext)
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return path, nil
}

// startTagBatchHandler handles POST /api/v1/admin/start-batch.
func (s *Server) startTagBatchHandler(w http.ResponseWriter, r *http.Request) {
	workflowID, runID, err := s.workflowClient.StartTagBatch(r.Context(), s.workflows.TagBatch)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info().Str("workflow_id", workflowID).Str("run_id", runID).Msg("tag batch queued")
	writeJSON(w, http.StatusAccepted, batchStartResponse{
		WorkflowID: workflowID,
		RunID:      runID,
		Message:    "tag batch queued",
	})
}

// startTopicBatchHandler handles POST /api/v1/admin/process-topics.
func (s *Server) startTopicBatchHandler(w http.ResponseWriter, r *http.Request) {
	workflowID, runID, err := s.workflowClient.StartTopicBatch(r.Context(), s.workflows.TopicBatch)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.logger.Info().Str("workflow_id", workflowID).Str("run_id", runID).Msg("topic batch queued")
	writeJSON(w, http.StatusAccepted, batchStartResponse{
		WorkflowID: workflowID,
		RunID:      runID,
		Message:    "topic batch queued",
	})
}

// getRequestHandler handles GET /api/v1/requests/{requestID}.
func (s *Server) getRequestHandler(w http.ResponseWriter, r *http.Request) {
	requestID, ok := parseUUID(w, chi.URLParam(r, "requestID"), "request_id")
	if !ok {
		return
	}

	req, err := s.requestRepo.GetByID(r.Context(), requestID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := domainRequestToResponse(req)

	// Surface the extraction execution state while Temporal still has it. A
	// missing execution or an unreachable server never fails the read.
	workflowID := temporal.ExtractionWorkflowID(requestID)
	desc, err := s.workflowClient.DescribeWorkflow(r.Context(), workflowID, "")
	switch {
	case err == nil:
		resp.ExtractionWorkflow = &workflowStateResponse{
			WorkflowID: desc.WorkflowID,
			Status:     desc.Status,
		}
	case errors.Is(err, temporal.ErrWorkflowNotFound):
	default:
		s.logger.Warn().Err(err).Str("workflow_id", workflowID).Msg("failed to describe extraction workflow")
	}

	writeJSON(w, http.StatusOK, resp)
}

// listTagsHandler handles GET /api/v1/tags.
func (s *Server) listTagsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePaginationParams(r)

	filter := repository.TagFilter{
		TextContains: strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:        limit,
		Offset:       offset,
	}

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status, ok := parseSearchStatus(statusParam)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status: %s", statusParam))
			return
		}
		filter.Status = &status
	}

	if requestIDParam := r.URL.Query().Get("request_id"); requestIDParam != "" {
		requestID, ok := parseUUID(w, requestIDParam, "request_id")
		if !ok {
			return
		}
		filter.RequestID = &requestID
	}

	tags, totalCount, err := s.tagRepo.List(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	responses := make([]tagResponse, len(tags))
	for i, t := range tags {
		responses[i] = domainTagToResponse(t)
	}

	writeJSON(w, http.StatusOK, listTagsResponse{
		Tags:          responses,
		NextPageToken: encodePageToken(offset, limit, int(totalCount)),
		TotalCount:    int(totalCount),
	})
}

// listTagVideosHandler handles GET /api/v1/tags/{tagID}/videos.
func (s *Server) listTagVideosHandler(w http.ResponseWriter, r *http.Request) {
	tagID, err := strconv.ParseInt(chi.URLParam(r, "tagID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "tag_id must be an integer")
		return
	}

	if _, err := s.tagRepo.GetByID(r.Context(), tagID); err != nil {
		writeDomainError(w, err)
		return
	}

	limit, offset := parsePaginationParams(r)
	filter := repository.VideoFilter{
		Limit:  limit,
		Offset: offset,
	}

	if approvalParam := r.URL.Query().Get("approval_status"); approvalParam != "" {
		status := domain.ApprovalStatus(strings.ToUpper(approvalParam))
		if !domain.IsValidApprovalStatus(status) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown approval status: %s", approvalParam))
			return
		}
		filter.ApprovalStatus = &status
	}

	videos, totalCount, err := s.videoRepo.ListForTag(r.Context(), tagID, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	responses := make([]videoResponse, len(videos))
	for i, v := range videos {
		responses[i] = domainVideoToResponse(v)
	}

	writeJSON(w, http.StatusOK, listVideosResponse{
		Videos:        responses,
		NextPageToken: encodePageToken(offset, limit, int(totalCount)),
		TotalCount:    int(totalCount),
	})
}

// updateApprovalHandler handles PATCH /api/v1/videos/{videoID}/approval.
func (s *Server) updateApprovalHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	videoID, ok := parseUUID(w, chi.URLParam(r, "videoID"), "video_id")
	if !ok {
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var req updateApprovalRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}

	status := domain.ApprovalStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !domain.IsValidApprovalStatus(status) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("status must be one of %s, %s, %s",
			domain.ApprovalStatusPending, domain.ApprovalStatusApproved, domain.ApprovalStatusDisapproved))
		return
	}

	if err := s.videoRepo.UpdateApproval(ctx, videoID, status); err != nil {
		writeDomainError(w, err)
		return
	}

	s.metrics.RecordApprovalUpdate(string(status))

	video, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainVideoToResponse(video))
}

// writeDomainError maps domain and temporal errors to HTTP status codes and
// writes a JSON error response. Internal error details are not leaked.
func writeDomainError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrInvalidInput):
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
		} else {
			writeError(w, http.StatusBadRequest, "invalid input")
		}
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "resource already exists")
	case errors.Is(err, domain.ErrServiceUnavailable):
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
	case errors.Is(err, temporal.ErrWorkflowNotFound):
		writeError(w, http.StatusNotFound, "workflow not found")
	case errors.Is(err, temporal.ErrWorkflowAlreadyStarted):
		writeError(w, http.StatusConflict, "a run is already in progress")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseUUID parses a UUID from a string, writing a 400 error response if
// invalid. The parse error details are not echoed back.
func parseUUID(w http.ResponseWriter, s, fieldName string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a valid UUID", fieldName))
		return uuid.Nil, false
	}
	return id, true
}

// parseSearchStatus validates a batch lifecycle status query parameter.
func parseSearchStatus(s string) (domain.SearchStatus, bool) {
	status := domain.SearchStatus(strings.ToUpper(s))
	switch status {
	case domain.SearchStatusPending, domain.SearchStatusProcessing,
		domain.SearchStatusCompleted, domain.SearchStatusFailed:
		return status, true
	}
	return "", false
}

// parsePaginationParams extracts page_size and page_token from query
// parameters, applying default and maximum bounds to the page size.
func parsePaginationParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if pageSizeStr := r.URL.Query().Get("page_size"); pageSizeStr != "" {
		if parsed, err := strconv.Atoi(pageSizeStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	if pageToken := r.URL.Query().Get("page_token"); pageToken != "" {
		decoded, err := base64.StdEncoding.DecodeString(pageToken)
		if err == nil {
			if parsed, parseErr := strconv.Atoi(string(decoded)); parseErr == nil && parsed > 0 {
				offset = parsed
			}
		}
	}

	return limit, offset
}

// encodePageToken encodes the next offset as a base64 page token. Returns an
// empty string when there are no more results.
func encodePageToken(offset, limit, totalCount int) string {
	nextOffset := offset + limit
	if nextOffset < totalCount {
		return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(nextOffset)))
	}
	return ""
}
