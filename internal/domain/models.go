// Package domain provides domain models and business logic for the video
// curation service.
package domain

// RequestStatus represents the lifecycle states of an upload request.
// These values must match the database enum request_status.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusCompleted RequestStatus = "COMPLETED"
	RequestStatusFailed    RequestStatus = "FAILED"
)

// IsTerminal returns true if the status represents a final state that will not change.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusCompleted, RequestStatusFailed:
		return true
	default:
		return false
	}
}

// SearchStatus represents the state of a tag or topic in the batch search
// pipeline. These values must match the database enum search_status.
type SearchStatus string

const (
	SearchStatusPending    SearchStatus = "PENDING"
	SearchStatusProcessing SearchStatus = "PROCESSING"
	SearchStatusCompleted  SearchStatus = "COMPLETED"
	SearchStatusFailed     SearchStatus = "FAILED"
)

// IsTerminal returns true once a tag or topic has finished its batch run.
func (s SearchStatus) IsTerminal() bool {
	switch s {
	case SearchStatusCompleted, SearchStatusFailed:
		return true
	default:
		return false
	}
}

// ApprovalStatus represents the human-review state of a video result.
// These values must match the database enum approval_status.
type ApprovalStatus string

const (
	ApprovalStatusPending     ApprovalStatus = "PENDING"
	ApprovalStatusApproved    ApprovalStatus = "APPROVED"
	ApprovalStatusDisapproved ApprovalStatus = "DISAPPROVED"
)

// IsValidApprovalStatus reports whether s is one of the known approval states.
func IsValidApprovalStatus(s ApprovalStatus) bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusDisapproved:
		return true
	default:
		return false
	}
}
