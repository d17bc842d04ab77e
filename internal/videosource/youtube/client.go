// Package youtube implements the videosource.Source interface against the
// YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"github.com/surajit20072003/guddu-backend/internal/config"
	"github.com/surajit20072003/guddu-backend/internal/domain"
	"github.com/surajit20072003/guddu-backend/internal/videosource"
)

// Compile-time interface verification.
var _ videosource.Source = (*Client)(nil)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// Client searches YouTube via the Data API v3. Searches run in two calls:
// search.list for matching ids, then videos.list for statistics and duration.
// API-side failures (quota exhaustion, auth) are absorbed into empty results
// so a batch run degrades instead of aborting.
type Client struct {
	service *youtubeapi.Service
	limiter *videosource.RateLimiter
	cfg     config.YouTubeConfig
	logger  zerolog.Logger
}

// New creates a YouTube client. Extra options are appended after the API key
// option, which lets tests point the service at a local endpoint.
func New(ctx context.Context, cfg config.YouTubeConfig, logger zerolog.Logger, opts ...option.ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, domain.NewValidationError("api_key", "YouTube API key is required")
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 5
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	service, err := youtubeapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		service: service,
		limiter: videosource.NewRateLimiter(cfg.RateLimit, 1),
		cfg:     cfg,
		logger:  logger.With().Str("source", "youtube").Logger(),
	}, nil
}

// Name returns the source name.
func (c *Client) Name() string {
	return "youtube"
}

// Search queries YouTube for videos matching the query. Items without a video
// id are dropped. Statistics enrichment is best-effort: if videos.list fails
// the snippet-only items are still returned.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) ([]*videosource.VideoItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.NewValidationError("query", "search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = c.cfg.MaxResults
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	call := c.service.Search.List([]string{"snippet"}).
		Context(ctx).
		Q(query).
		Type("video").
		MaxResults(maxResults)
	if c.cfg.RegionCode != "" {
		call = call.RegionCode(c.cfg.RegionCode)
	}
	if c.cfg.RelevanceLanguage != "" {
		call = call.RelevanceLanguage(c.cfg.RelevanceLanguage)
	}

	resp, err := call.Do()
	if err != nil {
		if absorbed := c.absorbAPIError("search.list", query, err); absorbed {
			return nil, nil
		}
		return nil, fmt.Errorf("YouTube search failed: %w", err)
	}

	items := make([]*videosource.VideoItem, 0, len(resp.Items))
	ids := make([]string, 0, len(resp.Items))
	for _, result := range resp.Items {
		if result.Id == nil || result.Id.VideoId == "" {
			continue
		}
		item := &videosource.VideoItem{
			VideoID: result.Id.VideoId,
			URL:     watchURLPrefix + result.Id.VideoId,
		}
		if result.Snippet != nil {
			item.Title = result.Snippet.Title
			item.Description = result.Snippet.Description
			item.ChannelTitle = result.Snippet.ChannelTitle
			item.PublishedAt = parseTimestamp(result.Snippet.PublishedAt)
			item.ThumbnailURL = thumbnailURL(result.Snippet.Thumbnails)
		}
		items = append(items, item)
		ids = append(ids, result.Id.VideoId)
	}

	if len(items) == 0 {
		return nil, nil
	}

	c.enrich(ctx, items, ids)
	return items, nil
}

// enrich fills statistics, duration, tags, and category from videos.list.
// Failures are logged and leave the snippet-only items untouched.
func (c *Client) enrich(ctx context.Context, items []*videosource.VideoItem, ids []string) {
	resp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Context(ctx).
		Id(ids...).
		Do()
	if err != nil {
		c.logger.Warn().Err(err).Int("video_count", len(ids)).Msg("videos.list enrichment failed")
		return
	}

	byID := make(map[string]*videosource.VideoItem, len(items))
	for _, item := range items {
		byID[item.VideoID] = item
	}

	for _, video := range resp.Items {
		item, ok := byID[video.Id]
		if !ok {
			continue
		}
		if video.Snippet != nil {
			item.Tags = strings.Join(video.Snippet.Tags, ",")
			item.CategoryID = video.Snippet.CategoryId
		}
		if video.ContentDetails != nil {
			item.Duration = video.ContentDetails.Duration
		}
		if video.Statistics != nil {
			item.ViewCount = int64(video.Statistics.ViewCount)
			item.LikeCount = int64(video.Statistics.LikeCount)
			item.CommentCount = int64(video.Statistics.CommentCount)
		}
	}
}

// absorbAPIError reports whether the error is an API-side failure that should
// degrade to an empty result. Context cancellation always surfaces.
func (c *Client) absorbAPIError(operation, query string, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	c.logger.Warn().
		Err(err).
		Str("operation", operation).
		Str("query", query).
		Int("status_code", apiErr.Code).
		Msg("YouTube API error absorbed, returning empty result")
	return true
}

func parseTimestamp(value string) *time.Time {
	if value == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &ts
}

// thumbnailURL picks the best available thumbnail, largest first.
func thumbnailURL(thumbs *youtubeapi.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	for _, t := range []*youtubeapi.Thumbnail{thumbs.High, thumbs.Medium, thumbs.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}
