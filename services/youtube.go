package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
)

// videoIDPattern accepts the common YouTube URL shapes: youtu.be short links,
// /v/, /u/<x>/, /embed/ paths and watch?v= query parameters.
var videoIDPattern = regexp.MustCompile(`(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)

// VideoID extracts the 11-character video id from a YouTube URL. It returns
// an empty string when the URL carries no recognizable id.
func VideoID(url string) string {
	match := videoIDPattern.FindStringSubmatch(url)
	if match == nil || len(match[2]) != 11 {
		return ""
	}
	return match[2]
}

// EmbedURL returns the embeddable player address for a video id.
func EmbedURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s", videoID)
}

// WatchURL returns the canonical watch address for a video id.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

// ThumbnailURL returns the high-quality still frame YouTube serves for a
// video id. This frame also stands in for the video itself in analysis calls.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", videoID)
}

// YouTube wraps the YouTube Data API for channel and video metadata. All
// methods require an API key; the zero value is not usable.
type YouTube struct {
	svc    *youtube.Service
	logger zerolog.Logger
}

func NewYouTube(ctx context.Context, apiKey string) (*YouTube, error) {
	if apiKey == "" {
		return nil, errs.NewInvalidInputError("apiKey", "YouTube Data API key is missing")
	}

	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errs.NewServiceUnavailableError("YouTube Data API", err)
	}

	return &YouTube{
		svc:    svc,
		logger: log.With().Str("component", "youtube").Logger(),
	}, nil
}

// FetchChannel loads a channel's snippet, statistics and uploads playlist.
func (y *YouTube) FetchChannel(ctx context.Context, channelID string) (models.ChannelData, error) {
	if channelID == "" {
		return models.ChannelData{}, errs.NewInvalidInputError("channelId", "YouTube channel ID is missing")
	}

	resp, err := y.svc.Channels.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return models.ChannelData{}, CategorizeGoogleAPIError("YouTube Data API", err)
	}
	if len(resp.Items) == 0 {
		return models.ChannelData{}, errs.NewNotFoundError("channel")
	}

	ch := resp.Items[0]
	publishedAt, _ := time.Parse(time.RFC3339, ch.Snippet.PublishedAt)

	data := models.ChannelData{
		ID:              ch.Id,
		Title:           ch.Snippet.Title,
		Description:     ch.Snippet.Description,
		SubscriberCount: ch.Statistics.SubscriberCount,
		VideoCount:      ch.Statistics.VideoCount,
		PublishedAt:     publishedAt,
	}
	if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
		data.UploadsPlaylistID = ch.ContentDetails.RelatedPlaylists.Uploads
	}
	if thumb := ch.Snippet.Thumbnails; thumb != nil && thumb.High != nil {
		data.ThumbnailURL = thumb.High.Url
	}
	return data, nil
}

// FetchChannelVideos pages through the channel's uploads playlist and joins
// in per-video statistics. The returned page token is empty on the last page.
func (y *YouTube) FetchChannelVideos(ctx context.Context, channel models.ChannelData, maxResults int64, pageToken string) ([]models.VideoData, string, error) {
	if channel.UploadsPlaylistID == "" {
		return nil, "", errs.NewInvalidInputError("channel", "channel has no uploads playlist")
	}
	if maxResults <= 0 {
		maxResults = 50
	}

	call := y.svc.PlaylistItems.
		List([]string{"snippet", "contentDetails", "status"}).
		PlaylistId(channel.UploadsPlaylistID).
		MaxResults(maxResults)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, "", CategorizeGoogleAPIError("YouTube Data API", err)
	}
	if len(resp.Items) == 0 {
		return nil, "", errs.NewNotFoundError("channel videos")
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		ids = append(ids, item.ContentDetails.VideoId)
	}

	stats, err := y.fetchStatistics(ctx, ids)
	if err != nil {
		// Statistics are decoration; the video list is still useful.
		y.logger.Warn().Err(err).Msg("fetching video statistics failed")
		stats = map[string]*youtube.VideoStatistics{}
	}

	videos := make([]models.VideoData, 0, len(resp.Items))
	for _, item := range resp.Items {
		videoID := item.ContentDetails.VideoId
		publishedAt, _ := time.Parse(time.RFC3339, item.Snippet.PublishedAt)

		video := models.VideoData{
			ID:          videoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			PublishedAt: publishedAt,
			URL:         WatchURL(videoID),
		}
		if thumb := item.Snippet.Thumbnails; thumb != nil && thumb.High != nil {
			video.ThumbnailURL = thumb.High.Url
		}
		if st := stats[videoID]; st != nil {
			video.ViewCount = st.ViewCount
			video.LikeCount = st.LikeCount
			video.CommentCount = st.CommentCount
		}
		videos = append(videos, video)
	}

	return videos, resp.NextPageToken, nil
}

// FetchVideoTitle resolves a single video's title. Used by the blog generator
// to describe the source video in the prompt.
func (y *YouTube) FetchVideoTitle(ctx context.Context, videoID string) (string, error) {
	resp, err := y.svc.Videos.
		List([]string{"snippet"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return "", CategorizeGoogleAPIError("YouTube Data API", err)
	}
	if len(resp.Items) == 0 {
		return "", errs.NewNotFoundError("video")
	}
	return resp.Items[0].Snippet.Title, nil
}

func (y *YouTube) fetchStatistics(ctx context.Context, videoIDs []string) (map[string]*youtube.VideoStatistics, error) {
	resp, err := y.svc.Videos.
		List([]string{"statistics"}).
		Id(videoIDs...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, CategorizeGoogleAPIError("YouTube Data API", err)
	}

	stats := make(map[string]*youtube.VideoStatistics, len(resp.Items))
	for _, item := range resp.Items {
		stats[item.Id] = item.Statistics
	}
	return stats, nil
}
