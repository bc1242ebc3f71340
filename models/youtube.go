package models

import "time"

// ChannelData is the subset of YouTube channel metadata the channel loader
// needs: identity, statistics, and the uploads playlist used to page through
// the channel's videos.
type ChannelData struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	SubscriberCount   uint64    `json:"subscriberCount"`
	VideoCount        uint64    `json:"videoCount"`
	UploadsPlaylistID string    `json:"uploadsPlaylistId"`
	PublishedAt       time.Time `json:"publishedAt"`
	ThumbnailURL      string    `json:"thumbnailUrl,omitempty"`
}

// VideoData is one video of a channel's uploads playlist.
type VideoData struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	PublishedAt  time.Time `json:"publishedAt"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	ViewCount    uint64    `json:"viewCount"`
	LikeCount    uint64    `json:"likeCount"`
	CommentCount uint64    `json:"commentCount"`
	URL          string    `json:"url"`
}

// Conversion status values for bulk channel-to-blog runs.
const (
	ConversionProcessing = "processing"
	ConversionCompleted  = "completed"
	ConversionFailed     = "failed"
)

// ConversionResult records the outcome of converting one channel video into a
// blog post. Completed items reference the persisted blog; failed items keep
// the error message and are not retried automatically.
type ConversionResult struct {
	VideoID     string    `json:"videoId"`
	VideoTitle  string    `json:"videoTitle"`
	BlogID      string    `json:"blogId,omitempty"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	ProcessedAt time.Time `json:"processedAt"`
}
