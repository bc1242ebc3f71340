package api

import (
	"context"

	"github.com/yaskovbs/tube2blog-backend/models"
	"github.com/yaskovbs/tube2blog-backend/services"
	"github.com/yaskovbs/tube2blog-backend/session"
)

// BlogStorage is the persistence surface the handlers need.
type BlogStorage interface {
	Create(ctx context.Context, input models.BlogPostInput) (models.BlogPost, error)
	Update(ctx context.Context, id string, patch models.BlogPatch) (models.BlogPost, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetAll(ctx context.Context) []models.BlogPost
	GetByID(ctx context.Context, id string) *models.BlogPost
	Search(ctx context.Context, query string) []models.BlogPost
	GetDomainSettings(ctx context.Context) *models.DomainSettings
	SaveDomainSettings(ctx context.Context, settings models.DomainSettings) error
}

// SessionState is the application state machine behind the stateful
// endpoints: navigation, sign-in bookkeeping and the generation pipeline.
type SessionState interface {
	Snapshot() session.Snapshot
	Navigate(view session.View) error
	BeginAuth()
	CompleteSignIn(profile models.UserProfile)
	FailAuth(reason string)
	SignOut()
	GenerateBlog(ctx context.Context, youtubeURL, targetAudience, desiredTone string) (*models.BlogPost, error)
	HandlePublishToggle(ctx context.Context, blogID string) (*models.BlogPost, error)
}

// GenerativeClient covers the AI endpoints.
type GenerativeClient interface {
	GenerateBlogPost(ctx context.Context, youtubeURL, targetAudience, desiredTone string) (models.BlogResponse, error)
	GenerateImage(ctx context.Context, req models.ImageRequest) (models.GeneratedImage, error)
	EditImage(ctx context.Context, req models.EditImageRequest) (models.GeneratedImage, error)
	AnalyzeVideo(ctx context.Context, analysisPrompt string, keyframeJPEG []byte) (string, error)
	Chat(ctx context.Context, history []models.ChatMessage, newMessage string) (models.ChatMessage, error)
	GenerateSpeech(ctx context.Context, text string) (models.GeneratedSpeech, error)
}

// ChannelClient covers the YouTube Data API lookups.
type ChannelClient interface {
	FetchChannel(ctx context.Context, channelID string) (models.ChannelData, error)
	FetchChannelVideos(ctx context.Context, channel models.ChannelData, maxResults int64, pageToken string) ([]models.VideoData, string, error)
}

// ChannelConverter runs bulk video-to-blog conversions.
type ChannelConverter interface {
	ConvertVideos(ctx context.Context, ownerID string, videos []models.VideoData, targetAudience, desiredTone string) ([]models.ConversionResult, error)
}

// ClipRenderer produces procedural video clips.
type ClipRenderer interface {
	Render(ctx context.Context, req models.VideoRequest) (string, error)
}

// AuthClient is the Google sign-in flow.
type AuthClient interface {
	AuthURL(state string) string
	SignIn(ctx context.Context, code string) (models.UserProfile, error)
	SignOut()
}

// AssetSink stores generated media and returns a servable URL.
type AssetSink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// ContactSender delivers contact-form submissions.
type ContactSender interface {
	Send(ctx context.Context, msg services.ContactMessage) error
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	blogPostHandler blogPostHandler
	generateHandler generateHandler
	channelHandler  channelHandler
	authHandler     authHandler
	systemHandler   systemHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"youtubeUrl"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}
