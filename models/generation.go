package models

// GroundingURL is a web source the model cited while generating content.
type GroundingURL struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title"`
}

// BlogResponse is the result of one successful blog generation call.
type BlogResponse struct {
	BlogContent    string         `json:"blogContent"`
	VideoTitle     string         `json:"videoTitle"`
	VideoThumbnail string         `json:"videoThumbnail"`
	VideoEmbedURL  string         `json:"videoEmbedUrl"`
	GroundingURLs  []GroundingURL `json:"groundingUrls,omitempty"`
}

// ChatRole distinguishes the two sides of a chatbot conversation.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of a chatbot conversation.
type ChatMessage struct {
	Role          ChatRole       `json:"role"`
	Content       string         `json:"content"`
	GroundingURLs []GroundingURL `json:"groundingUrls,omitempty"`
}

// ImageRequest asks for a generated image.
type ImageRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio"`
}

// EditImageRequest asks for an edit of an existing image.
type EditImageRequest struct {
	ImageBytes []byte `json:"imageBytes"`
	MimeType   string `json:"mimeType"`
	Prompt     string `json:"prompt"`
}

// GeneratedImage is raw image data plus its media type.
type GeneratedImage struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mimeType"`
	URL      string `json:"url,omitempty"`
}

// GeneratedSpeech is raw PCM audio returned by the speech model.
// The sample rate and channel count match what the model emits; decoding into
// a playable buffer is the caller's concern.
type GeneratedSpeech struct {
	PCM        []byte `json:"pcm"`
	SampleRate int    `json:"sampleRate"`
	Channels   int    `json:"channels"`
	URL        string `json:"url,omitempty"`
}

// VideoRequest describes a procedurally rendered video clip. This is not
// genuine video synthesis: the clip is assembled from a filter graph seeded by
// the prompt and an optional input image, matching the product's intentionally
// limited "video generation" feature.
type VideoRequest struct {
	Prompt      string `json:"prompt,omitempty"`
	ImageBytes  []byte `json:"imageBytes,omitempty"`
	ImageMime   string `json:"imageMimeType,omitempty"`
	Resolution  string `json:"resolution,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
	LastFrame   []byte `json:"lastFrame,omitempty"`
}
