// Package videosource provides clients for searching external video platforms.
//
// The package defines the Source abstraction the batch scheduler searches
// through. Each platform (currently YouTube Data API v3) implements Source,
// transforming its wire responses into neutral VideoItem values.
package videosource

import (
	"context"
	"time"
)

// VideoItem is one search hit from an external video platform, before it is
// bound to an owning tag or topic and persisted.
type VideoItem struct {
	// VideoID is the platform's unique identifier for the video.
	VideoID string

	Title        string
	Description  string
	URL          string
	ThumbnailURL string
	ChannelTitle string

	// PublishedAt is the publish timestamp reported by the platform, if known.
	PublishedAt *time.Time

	// Duration is the ISO-8601 duration string reported by the platform.
	Duration string

	ViewCount    int64
	LikeCount    int64
	CommentCount int64

	// Tags is the platform's own tag list joined into one string.
	Tags string

	// CategoryID is the platform's category identifier.
	CategoryID string
}

// Source defines the interface video platform clients must implement.
type Source interface {
	// Search queries the platform for videos matching the query, returning at
	// most maxResults items. Items without a usable video id are dropped.
	// Platform-side search failures (quota, auth, API errors) are absorbed
	// into an empty result; only context cancellation and transport setup
	// failures surface as errors.
	Search(ctx context.Context, query string, maxResults int64) ([]*VideoItem, error)

	// Name returns a human-readable name for this source.
	// Used for logging and metrics.
	Name() string
}
