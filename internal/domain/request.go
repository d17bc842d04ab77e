package domain

import (
	"time"

	"github.com/google/uuid"
)

// SearchRequest tracks one file-or-text upload submitted by an admin.
// It is created PENDING and mutated exactly once by the extraction task
// to a terminal status.
type SearchRequest struct {
	// ID is the primary key for this request.
	ID uuid.UUID

	// UploadedFile is the stored path of the uploaded document, if any.
	UploadedFile string

	// TagsFromUser is the raw comma-separated tag string supplied with the
	// upload, if any.
	TagsFromUser string

	// ClassLevel is the optional class-level label (e.g. "5", "LKG").
	ClassLevel string

	// Year is the optional academic year.
	Year *int

	// Status is the extraction lifecycle state of this request.
	Status RequestStatus

	// CreatedAt records when the request was received.
	CreatedAt time.Time
}

// NewSearchRequest creates a PENDING SearchRequest with a generated ID.
func NewSearchRequest(uploadedFile, tagsFromUser, classLevel string, year *int) *SearchRequest {
	return &SearchRequest{
		ID:           uuid.New(),
		UploadedFile: uploadedFile,
		TagsFromUser: tagsFromUser,
		ClassLevel:   classLevel,
		Year:         year,
		Status:       RequestStatusPending,
		CreatedAt:    time.Now().UTC(),
	}
}
