package models

import (
	"time"
)

// BlogPost represents one AI-generated blog derived from a YouTube video.
type BlogPost struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"userId,omitempty"`
	VideoTitle     string    `json:"videoTitle"`
	VideoURL       string    `json:"videoUrl"`
	VideoEmbedURL  string    `json:"videoEmbedUrl"`
	ThumbnailURL   string    `json:"thumbnailUrl,omitempty"`
	BlogContent    string    `json:"blogContent"`
	TargetAudience string    `json:"targetAudience"`
	DesiredTone    string    `json:"desiredTone"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
	IsPublished    bool      `json:"isPublished"`
}

// BlogPostInput carries the caller-supplied fields of a new blog post.
// ID and both timestamps are assigned by the store at creation time.
type BlogPostInput struct {
	OwnerID        string `json:"userId,omitempty"`
	VideoTitle     string `json:"videoTitle"`
	VideoURL       string `json:"videoUrl"`
	VideoEmbedURL  string `json:"videoEmbedUrl"`
	ThumbnailURL   string `json:"thumbnailUrl,omitempty"`
	BlogContent    string `json:"blogContent"`
	TargetAudience string `json:"targetAudience"`
	DesiredTone    string `json:"desiredTone"`
	IsPublished    bool   `json:"isPublished"`
}

// BlogPatch is a partial update. Nil fields are left untouched; set fields
// overwrite the stored value. UpdatedAt is always re-stamped by the store.
type BlogPatch struct {
	VideoTitle     *string `json:"videoTitle,omitempty"`
	VideoURL       *string `json:"videoUrl,omitempty"`
	VideoEmbedURL  *string `json:"videoEmbedUrl,omitempty"`
	ThumbnailURL   *string `json:"thumbnailUrl,omitempty"`
	BlogContent    *string `json:"blogContent,omitempty"`
	TargetAudience *string `json:"targetAudience,omitempty"`
	DesiredTone    *string `json:"desiredTone,omitempty"`
	IsPublished    *bool   `json:"isPublished,omitempty"`
}

// Apply merges the set fields of the patch into the post.
func (p BlogPatch) Apply(post *BlogPost) {
	if p.VideoTitle != nil {
		post.VideoTitle = *p.VideoTitle
	}
	if p.VideoURL != nil {
		post.VideoURL = *p.VideoURL
	}
	if p.VideoEmbedURL != nil {
		post.VideoEmbedURL = *p.VideoEmbedURL
	}
	if p.ThumbnailURL != nil {
		post.ThumbnailURL = *p.ThumbnailURL
	}
	if p.BlogContent != nil {
		post.BlogContent = *p.BlogContent
	}
	if p.TargetAudience != nil {
		post.TargetAudience = *p.TargetAudience
	}
	if p.DesiredTone != nil {
		post.DesiredTone = *p.DesiredTone
	}
	if p.IsPublished != nil {
		post.IsPublished = *p.IsPublished
	}
}
