package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
)

// Model names per task. Pro handles the multimodal analysis calls; flash is
// enough for plain text generation and chat.
const (
	modelText   = "gemini-2.5-flash"
	modelVision = "gemini-2.5-pro"
	modelImage  = "imagen-4.0-generate-001"
	modelEdit   = "gemini-2.5-flash-image"
	modelSpeech = "gemini-2.5-flash-preview-tts"

	geminiServiceName = "Gemini API"
)

// Gemini is the client for the generative-AI collaborator. Multimodal
// analysis goes through langchaingo; search-grounded text generation, image
// and speech synthesis use the REST endpoints directly (see media.go)
// because the LLM abstraction models neither binary payloads nor the
// grounding metadata carrying cited sources.
type Gemini struct {
	llm     *googleai.GoogleAI
	rest    *geminiREST
	youtube *YouTube
	logger  zerolog.Logger
}

// NewGemini builds the client. The YouTube client is optional; without it the
// blog generator falls back to a placeholder video title.
func NewGemini(ctx context.Context, apiKey string, yt *YouTube) (*Gemini, error) {
	if apiKey == "" {
		return nil, errs.NewUnauthorizedError("GEMINI_API_KEY is not defined, add your API key in the API key settings")
	}

	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(modelText),
	)
	if err != nil {
		return nil, CategorizeGoogleAPIError(geminiServiceName, err)
	}

	return &Gemini{
		llm:     llm,
		rest:    newGeminiREST(apiKey),
		youtube: yt,
		logger:  log.With().Str("component", "gemini").Logger(),
	}, nil
}

// VideoDetails is what the generator needs to know about the source video.
type VideoDetails struct {
	Title     string
	Thumbnail string
	EmbedURL  string
}

// resolveVideoDetails turns a YouTube URL into title, thumbnail and embed
// address. The title comes from the Data API when a client is configured,
// otherwise a placeholder derived from the video id is used.
func (g *Gemini) resolveVideoDetails(ctx context.Context, youtubeURL string) (VideoDetails, error) {
	videoID := VideoID(youtubeURL)
	if videoID == "" {
		return VideoDetails{}, errs.NewInvalidInputError("youtubeUrl", "invalid YouTube URL")
	}

	details := VideoDetails{
		Title:     fmt.Sprintf("Blog post for video %s", videoID),
		Thumbnail: ThumbnailURL(videoID),
		EmbedURL:  EmbedURL(videoID),
	}

	if g.youtube != nil {
		title, err := g.youtube.FetchVideoTitle(ctx, videoID)
		if err != nil {
			g.logger.Warn().Err(err).Str("videoId", videoID).Msg("video title lookup failed, using placeholder")
		} else {
			details.Title = title
		}
	}
	return details, nil
}

// blogPrompt builds the generation prompt from the video title and the
// optional audience and tone parameters.
func blogPrompt(videoTitle, targetAudience, desiredTone string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Based on a YouTube video with the title %q, generate a high-quality, engaging blog post.
Assume the role of analyzing the video's script and tone. Capture the main ideas, key insights, and subtle nuances present in the video's narrative style.
The blog post should introduce the topic, provide compelling insights or information derived from the video's content and its presentation, and conclude with a call to action or summary that reflects the video's overall message.
Make it detailed enough to be insightful but concise for a blog format, ensuring it aligns with the video's original tone.
The blog should be around 500-700 words.`, videoTitle)

	if audience := strings.TrimSpace(targetAudience); audience != "" {
		fmt.Fprintf(&b, " The target audience for this blog post is: %s.", audience)
	}
	if tone := strings.TrimSpace(desiredTone); tone != "" {
		fmt.Fprintf(&b, " The desired tone for this blog post is: %s.", tone)
	}
	return b.String()
}

// GenerateBlogPost converts a YouTube video into a blog post. The URL is
// validated before any external call; generation failures come back
// categorized by status class and nothing is persisted here.
func (g *Gemini) GenerateBlogPost(ctx context.Context, youtubeURL, targetAudience, desiredTone string) (models.BlogResponse, error) {
	details, err := g.resolveVideoDetails(ctx, youtubeURL)
	if err != nil {
		return models.BlogResponse{}, err
	}

	prompt := blogPrompt(details.Title, targetAudience, desiredTone)
	temperature, topK, topP := 0.7, 64, 0.95
	content, sources, err := g.generateGroundedText(ctx, modelText,
		[]restContent{{Role: "user", Parts: []restPart{{Text: prompt}}}},
		&restGenerationConfig{Temperature: &temperature, TopK: &topK, TopP: &topP},
	)
	if err != nil {
		return models.BlogResponse{}, err
	}
	if content == "" {
		return models.BlogResponse{}, errs.NewServiceUnavailableError(geminiServiceName, fmt.Errorf("empty response"))
	}

	return models.BlogResponse{
		BlogContent:    content,
		VideoTitle:     details.Title,
		VideoThumbnail: details.Thumbnail,
		VideoEmbedURL:  details.EmbedURL,
		GroundingURLs:  sources,
	}, nil
}

// AnalyzeVideo answers an analysis prompt about a video represented by a
// single keyframe. The video itself is never processed; the still frame
// standing in for it is a product-level simplification, kept on purpose.
func (g *Gemini) AnalyzeVideo(ctx context.Context, analysisPrompt string, keyframeJPEG []byte) (string, error) {
	if strings.TrimSpace(analysisPrompt) == "" {
		return "", errs.NewInvalidInputError("analysisPrompt", "analysis prompt is required")
	}
	if len(keyframeJPEG) == 0 {
		return "", errs.NewInvalidInputError("keyframe", "keyframe image is required")
	}

	prompt := fmt.Sprintf("Analyze the provided video (represented by this keyframe) based on the following request: %s", analysisPrompt)
	messages := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
				llms.BinaryPart("image/jpeg", keyframeJPEG),
			},
		},
	}

	resp, err := g.llm.GenerateContent(ctx, messages, llms.WithModel(modelVision))
	if err != nil {
		return "", CategorizeGoogleAPIError(geminiServiceName, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", errs.NewServiceUnavailableError(geminiServiceName, fmt.Errorf("no analysis text returned"))
	}
	return resp.Choices[0].Content, nil
}

// Chat sends a conversation plus one new user message and returns the model's
// reply as the next turn.
func (g *Gemini) Chat(ctx context.Context, history []models.ChatMessage, newMessage string) (models.ChatMessage, error) {
	if strings.TrimSpace(newMessage) == "" {
		return models.ChatMessage{}, errs.NewInvalidInputError("message", "message is required")
	}

	contents := make([]restContent, 0, len(history)+1)
	for _, msg := range history {
		role := "user"
		if msg.Role == models.ChatRoleModel {
			role = "model"
		}
		contents = append(contents, restContent{Role: role, Parts: []restPart{{Text: msg.Content}}})
	}
	contents = append(contents, restContent{Role: "user", Parts: []restPart{{Text: newMessage}}})

	content, sources, err := g.generateGroundedText(ctx, modelText, contents, nil)
	if err != nil {
		return models.ChatMessage{}, err
	}
	return models.ChatMessage{Role: models.ChatRoleModel, Content: content, GroundingURLs: sources}, nil
}
