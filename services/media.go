package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// speechSampleRate is what the TTS model emits: 24 kHz mono PCM.
const (
	speechSampleRate = 24000
	speechChannels   = 1
)

// geminiREST covers the generative endpoints the LLM client abstraction
// cannot express: binary payloads (image synthesis, image editing, speech)
// and search-grounded text, where the cited web sources only exist in the
// raw response metadata.
type geminiREST struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newGeminiREST(apiKey string) *geminiREST {
	return &geminiREST{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (r *geminiREST) post(ctx context.Context, model, verb string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.NewInternalErrorWithCause("encode request", err)
	}

	url := fmt.Sprintf("%s/models/%s:%s?key=%s", r.baseURL, model, verb, r.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errs.NewInternalErrorWithCause("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return errs.NewServiceUnavailableError(geminiServiceName, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewServiceUnavailableError(geminiServiceName, err)
	}
	if resp.StatusCode != http.StatusOK {
		return errs.FromStatusCode(geminiServiceName, resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(respBody))))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return errs.NewServiceUnavailableError(geminiServiceName, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// generateContent request/response shapes, trimmed to the fields used here.
type restPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *restInlineData `json:"inlineData,omitempty"`
}

type restInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type restContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []restPart `json:"parts"`
}

type restTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type generateContentRequest struct {
	Contents         []restContent         `json:"contents"`
	Tools            []restTool            `json:"tools,omitempty"`
	GenerationConfig *restGenerationConfig `json:"generationConfig,omitempty"`
}

type restGenerationConfig struct {
	Temperature        *float64          `json:"temperature,omitempty"`
	TopK               *int              `json:"topK,omitempty"`
	TopP               *float64          `json:"topP,omitempty"`
	ResponseModalities []string          `json:"responseModalities,omitempty"`
	SpeechConfig       *restSpeechConfig `json:"speechConfig,omitempty"`
}

type restSpeechConfig struct {
	VoiceConfig struct {
		PrebuiltVoiceConfig struct {
			VoiceName string `json:"voiceName"`
		} `json:"prebuiltVoiceConfig"`
	} `json:"voiceConfig"`
}

type restGroundingMetadata struct {
	GroundingChunks []struct {
		Web *struct {
			URI   string `json:"uri"`
			Title string `json:"title"`
		} `json:"web"`
	} `json:"groundingChunks"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content           restContent            `json:"content"`
		GroundingMetadata *restGroundingMetadata `json:"groundingMetadata"`
	} `json:"candidates"`
}

func (resp generateContentResponse) firstInlineData() *restInlineData {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				return part.InlineData
			}
		}
	}
	return nil
}

// firstText joins the text parts of the first candidate that has any.
func (resp generateContentResponse) firstText() string {
	for _, candidate := range resp.Candidates {
		var b strings.Builder
		for _, part := range candidate.Content.Parts {
			b.WriteString(part.Text)
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

// groundingURLs collects the web sources the model cited, deduplicated by URI.
func (resp generateContentResponse) groundingURLs() []models.GroundingURL {
	var urls []models.GroundingURL
	seen := make(map[string]bool)
	for _, candidate := range resp.Candidates {
		if candidate.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" || seen[chunk.Web.URI] {
				continue
			}
			seen[chunk.Web.URI] = true
			urls = append(urls, models.GroundingURL{URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}
	return urls
}

// generateGroundedText runs a text call with Google Search grounding enabled
// and returns the reply plus the web sources the model cited.
func (g *Gemini) generateGroundedText(ctx context.Context, model string, contents []restContent, cfg *restGenerationConfig) (string, []models.GroundingURL, error) {
	payload := generateContentRequest{
		Contents:         contents,
		Tools:            []restTool{{GoogleSearch: &struct{}{}}},
		GenerationConfig: cfg,
	}

	var resp generateContentResponse
	if err := g.rest.post(ctx, model, "generateContent", payload, &resp); err != nil {
		return "", nil, err
	}
	return resp.firstText(), resp.groundingURLs(), nil
}

// GenerateImage renders one image from a prompt.
func (g *Gemini) GenerateImage(ctx context.Context, req models.ImageRequest) (models.GeneratedImage, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return models.GeneratedImage{}, errs.NewInvalidInputError("prompt", "prompt is required")
	}
	aspectRatio := req.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	payload := map[string]any{
		"instances": []map[string]any{{"prompt": req.Prompt}},
		"parameters": map[string]any{
			"sampleCount":    1,
			"aspectRatio":    aspectRatio,
			"outputMimeType": "image/jpeg",
		},
	}

	var resp struct {
		Predictions []struct {
			BytesBase64Encoded string `json:"bytesBase64Encoded"`
			MimeType           string `json:"mimeType"`
		} `json:"predictions"`
	}
	if err := g.rest.post(ctx, modelImage, "predict", payload, &resp); err != nil {
		return models.GeneratedImage{}, err
	}
	if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
		return models.GeneratedImage{}, errs.NewServiceUnavailableError(geminiServiceName, fmt.Errorf("no images generated"))
	}

	data, err := base64.StdEncoding.DecodeString(resp.Predictions[0].BytesBase64Encoded)
	if err != nil {
		return models.GeneratedImage{}, errs.NewServiceUnavailableError(geminiServiceName, fmt.Errorf("decode image bytes: %w", err))
	}
	mimeType := resp.Predictions[0].MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return models.GeneratedImage{Data: data, MimeType: mimeType}, nil
}

// EditImage sends the image plus an instruction and returns the edited image.
func (g *Gemini) EditImage(ctx context.Context, req models.EditImageRequest) (models.GeneratedImage, error) {
	if len(req.ImageBytes) == 0 {
		return models.GeneratedImage{}, errs.NewInvalidInputError("image", "image data is required")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return models.GeneratedImage{}, errs.NewInvalidInputError("prompt", "prompt is required")
	}
	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = "image/png"
	}

	payload := generateContentRequest{
		Contents: []restContent{{
			Parts: []restPart{
				{InlineData: &restInlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(req.ImageBytes)}},
				{Text: req.Prompt},
			},
		}},
		GenerationConfig: &restGenerationConfig{ResponseModalities: []string{"IMAGE"}},
	}

	var resp generateContentResponse
	if err := g.rest.post(ctx, modelEdit, "generateContent", payload, &resp); err != nil {
		return models.GeneratedImage{}, err
	}

	edited := resp.firstInlineData()
	if edited == nil {
		return models.GeneratedImage{}, errs.NewServiceUnavailableError(geminiServiceName, fmt.Errorf("no image data returned"))
	}
	data, err := base64.StdEncoding.DecodeString(edited.Data)
	if err != nil {
		return models.GeneratedImage{}, errs.NewServiceUnavailableError(geminiServiceName, fmt.Errorf("decode image bytes: %w", err))
	}
	return models.GeneratedImage{Data: data, MimeType: edited.MimeType}, nil
}

// GenerateSpeech synthesizes the text with the prebuilt Kore voice and
// returns raw PCM.
func (g *Gemini) GenerateSpeech(ctx context.Context, text string) (models.GeneratedSpeech, error) {
	if strings.TrimSpace(text) == "" {
		return models.GeneratedSpeech{}, errs.NewInvalidInputError("text", "text is required")
	}

	speechConfig := &restSpeechConfig{}
	speechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName = "Kore"
	payload := generateContentRequest{
		Contents: []restContent{{Parts: []restPart{{Text: text}}}},
		GenerationConfig: &restGenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig:       speechConfig,
		},
	}

	var resp generateContentResponse
	if err := g.rest.post(ctx, modelSpeech, "generateContent", payload, &resp); err != nil {
		return models.GeneratedSpeech{}, err
	}

	audio := resp.firstInlineData()
	if audio == nil {
		return models.GeneratedSpeech{}, errs.NewServiceUnavailableError(geminiServiceName, fmt.Errorf("no audio data returned"))
	}
	pcm, err := base64.StdEncoding.DecodeString(audio.Data)
	if err != nil {
		return models.GeneratedSpeech{}, errs.NewServiceUnavailableError(geminiServiceName, fmt.Errorf("decode audio bytes: %w", err))
	}
	return models.GeneratedSpeech{
		PCM:        pcm,
		SampleRate: speechSampleRate,
		Channels:   speechChannels,
	}, nil
}
