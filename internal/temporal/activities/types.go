// Package activities provides Temporal activity implementations for the
// video curation pipeline.
//
// Activity inputs and outputs are defined as serializable structs that cross
// the Temporal serialization boundary. All fields must be exported for JSON
// serialization by the Temporal SDK's default data converter.
package activities

import (
	"github.com/google/uuid"
)

// ExtractTagsInput contains the parameters for the tag extraction activity.
type ExtractTagsInput struct {
	// RequestID is the search request to extract keyword tags for.
	RequestID uuid.UUID
}

// BatchOutput contains the summary of one batch search activity run.
type BatchOutput struct {
	// Kind identifies the batch variant ("tag" or "topic").
	Kind string

	// Claimed is the number of items claimed for the run.
	Claimed int

	// Completed is the number of items that reached COMPLETED.
	Completed int

	// Failed is the number of items that reached FAILED.
	Failed int

	// DurationSeconds is the wall-clock duration of the run.
	DurationSeconds float64
}
