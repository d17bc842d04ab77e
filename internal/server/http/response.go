package httpserver

import (
	"time"

	"github.com/surajit20072003/guddu-backend/internal/domain"
)

// Response types for JSON serialization.

type uploadResponse struct {
	RequestID  string `json:"request_id"`
	WorkflowID string `json:"workflow_id"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type batchStartResponse struct {
	WorkflowID string `json:"workflow_id"`
	RunID      string `json:"run_id"`
	Message    string `json:"message"`
}

type requestResponse struct {
	RequestID    string    `json:"request_id"`
	UploadedFile string    `json:"uploaded_file,omitempty"`
	TagsFromUser string    `json:"tags_from_user,omitempty"`
	ClassLevel   string    `json:"class_level,omitempty"`
	Year         *int      `json:"year,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`

	// ExtractionWorkflow is present while Temporal still has the extraction
	// execution on record.
	ExtractionWorkflow *workflowStateResponse `json:"extraction_workflow,omitempty"`
}

type workflowStateResponse struct {
	WorkflowID string `json:"workflow_id"`
	Status     string `json:"status"`
}

type tagResponse struct {
	ID             int64      `json:"id"`
	TagText        string     `json:"tag_text"`
	Status         string     `json:"status"`
	LastSearchedAt *time.Time `json:"last_searched_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type listTagsResponse struct {
	Tags          []tagResponse `json:"tags"`
	NextPageToken string        `json:"next_page_token,omitempty"`
	TotalCount    int           `json:"total_count"`
}

type videoResponse struct {
	ID             string     `json:"id"`
	VideoID        string     `json:"video_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	URL            string     `json:"url"`
	ThumbnailURL   string     `json:"thumbnail_url,omitempty"`
	ChannelTitle   string     `json:"channel_title,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	Duration       string     `json:"duration,omitempty"`
	ViewCount      int64      `json:"view_count"`
	LikeCount      int64      `json:"like_count"`
	CommentCount   int64      `json:"comment_count"`
	TagsFromVideo  string     `json:"tags_from_video,omitempty"`
	CategoryID     string     `json:"category_id,omitempty"`
	ApprovalStatus string     `json:"approval_status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type listVideosResponse struct {
	Videos        []videoResponse `json:"videos"`
	NextPageToken string          `json:"next_page_token,omitempty"`
	TotalCount    int             `json:"total_count"`
}

// Converter functions

func domainRequestToResponse(r *domain.SearchRequest) requestResponse {
	return requestResponse{
		RequestID:    r.ID.String(),
		UploadedFile: r.UploadedFile,
		TagsFromUser: r.TagsFromUser,
		ClassLevel:   r.ClassLevel,
		Year:         r.Year,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt,
	}
}

func domainTagToResponse(t *domain.KeywordTag) tagResponse {
	return tagResponse{
		ID:             t.ID,
		TagText:        t.TagText,
		Status:         string(t.Status),
		LastSearchedAt: t.LastSearchedAt,
		CreatedAt:      t.CreatedAt,
	}
}

func domainVideoToResponse(v *domain.VideoResult) videoResponse {
	return videoResponse{
		ID:             v.ID.String(),
		VideoID:        v.VideoID,
		Title:          v.Title,
		Description:    v.Description,
		URL:            v.URL,
		ThumbnailURL:   v.ThumbnailURL,
		ChannelTitle:   v.ChannelTitle,
		PublishedAt:    v.PublishedAt,
		Duration:       v.Duration,
		ViewCount:      v.ViewCount,
		LikeCount:      v.LikeCount,
		CommentCount:   v.CommentCount,
		TagsFromVideo:  v.TagsFromVideo,
		CategoryID:     v.CategoryID,
		ApprovalStatus: string(v.ApprovalStatus),
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}
