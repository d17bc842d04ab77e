package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VideoParent identifies the single owner of a VideoResult: either a
// KeywordTag or a Topic, never both. The zero value is invalid.
type VideoParent struct {
	tagID   *int64
	topicID *uuid.UUID
}

// TagParent returns a VideoParent owned by a keyword tag.
func TagParent(tagID int64) VideoParent {
	return VideoParent{tagID: &tagID}
}

// TopicParent returns a VideoParent owned by a topic.
func TopicParent(topicID uuid.UUID) VideoParent {
	return VideoParent{topicID: &topicID}
}

// TagID returns the owning tag ID, if this parent is a tag.
func (p VideoParent) TagID() (int64, bool) {
	if p.tagID == nil {
		return 0, false
	}
	return *p.tagID, true
}

// TopicID returns the owning topic ID, if this parent is a topic.
func (p VideoParent) TopicID() (uuid.UUID, bool) {
	if p.topicID == nil {
		return uuid.Nil, false
	}
	return *p.topicID, true
}

// Validate reports an error unless exactly one owner is set.
func (p VideoParent) Validate() error {
	if (p.tagID == nil) == (p.topicID == nil) {
		return NewValidationError("parent", "video result must be owned by exactly one tag or topic")
	}
	return nil
}

// String renders the parent for logging.
func (p VideoParent) String() string {
	if p.tagID != nil {
		return fmt.Sprintf("tag:%d", *p.tagID)
	}
	if p.topicID != nil {
		return fmt.Sprintf("topic:%s", *p.topicID)
	}
	return "none"
}

// VideoResult is one external search hit persisted for review. Identity for
// upsert purposes is (parent, VideoID).
type VideoResult struct {
	// ID is the primary key for this result row.
	ID uuid.UUID

	// Parent is the owning tag or topic.
	Parent VideoParent

	// VideoID is the external service's unique identifier for the video.
	VideoID string

	Title        string
	Description  string
	URL          string
	ThumbnailURL string
	ChannelTitle string

	// PublishedAt is the video's publish timestamp at the source, if known.
	PublishedAt *time.Time

	// Duration is the ISO-8601 duration string reported by the source.
	Duration string

	ViewCount    int64
	LikeCount    int64
	CommentCount int64

	// TagsFromVideo is the source's own tag list joined into one string.
	TagsFromVideo string

	// CategoryID is the source's category identifier.
	CategoryID string

	// ApprovalStatus is mutated by the human-review workflow, never by the
	// batch scheduler after insert.
	ApprovalStatus ApprovalStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}
