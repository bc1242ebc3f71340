package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
)

type generateHandler struct {
	responder Responder
	logger    zerolog.Logger
	session   SessionState
	gemini    GenerativeClient
	renderer  ClipRenderer
	assets    AssetSink
}

func newGenerateHandler(sess SessionState, gemini GenerativeClient, renderer ClipRenderer, assets AssetSink) generateHandler {
	logger := log.With().Str("handlerName", "generateHandler").Logger()

	return generateHandler{
		responder: NewResponder(logger),
		logger:    logger,
		session:   sess,
		gemini:    gemini,
		renderer:  renderer,
		assets:    assets,
	}
}

func (h generateHandler) requireGemini(w http.ResponseWriter) bool {
	if h.gemini == nil {
		h.responder.WriteError(w, errs.NewUnauthorizedError("GEMINI_API_KEY is not defined, add your API key in the API key settings"))
		return false
	}
	return true
}

// generateBlog runs the URL-to-blog pipeline through the session so stale
// results from superseded requests are dropped.
func (h generateHandler) generateBlog() http.HandlerFunc {
	type request struct {
		YoutubeURL     string `json:"youtubeUrl"`
		TargetAudience string `json:"targetAudience"`
		DesiredTone    string `json:"desiredTone"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireGemini(w) {
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.YoutubeURL == "" {
			h.responder.WriteError(w, errs.NewInvalidInputError("youtubeUrl", "YouTube URL is required"))
			return
		}

		post, err := h.session.GenerateBlog(r.Context(), req.YoutubeURL, req.TargetAudience, req.DesiredTone)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if post == nil {
			// A newer request superseded this one; nothing was persisted.
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, post)
	}
}

func (h generateHandler) generateImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireGemini(w) {
			return
		}

		var req models.ImageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		image, err := h.gemini.GenerateImage(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.writeImage(w, r, image)
	}
}

func (h generateHandler) editImage() http.HandlerFunc {
	type request struct {
		ImageBase64 string `json:"imageBase64"`
		MimeType    string `json:"mimeType"`
		Prompt      string `json:"prompt"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireGemini(w) {
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		imageBytes, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidInputError("imageBase64", "image data is not valid base64"))
			return
		}

		image, err := h.gemini.EditImage(r.Context(), models.EditImageRequest{
			ImageBytes: imageBytes,
			MimeType:   req.MimeType,
			Prompt:     req.Prompt,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.writeImage(w, r, image)
	}
}

// writeImage optionally uploads the image to the asset store so the frontend
// can reference a URL instead of carrying megabytes of base64 around.
func (h generateHandler) writeImage(w http.ResponseWriter, r *http.Request, image models.GeneratedImage) {
	if h.assets != nil {
		ext := ".jpg"
		if image.MimeType == "image/png" {
			ext = ".png"
		}
		url, err := h.assets.Put(r.Context(), "image"+ext, image.MimeType, image.Data)
		if err != nil {
			h.logger.Warn().Err(err).Msg("asset upload failed, returning inline data only")
		} else {
			image.URL = url
		}
	}

	h.responder.WriteJSON(w, map[string]any{
		"imageBase64": base64.StdEncoding.EncodeToString(image.Data),
		"mimeType":    image.MimeType,
		"url":         image.URL,
	})
}

func (h generateHandler) analyzeVideo() http.HandlerFunc {
	type request struct {
		Prompt         string `json:"prompt"`
		KeyframeBase64 string `json:"keyframeBase64"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireGemini(w) {
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		keyframe, err := base64.StdEncoding.DecodeString(req.KeyframeBase64)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidInputError("keyframeBase64", "keyframe data is not valid base64"))
			return
		}

		analysis, err := h.gemini.AnalyzeVideo(r.Context(), req.Prompt, keyframe)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{"analysis": analysis})
	}
}

func (h generateHandler) chat() http.HandlerFunc {
	type request struct {
		History []models.ChatMessage `json:"history"`
		Message string               `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireGemini(w) {
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		reply, err := h.gemini.Chat(r.Context(), req.History, req.Message)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, reply)
	}
}

func (h generateHandler) generateSpeech() http.HandlerFunc {
	type request struct {
		Text string `json:"text"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireGemini(w) {
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		speech, err := h.gemini.GenerateSpeech(r.Context(), req.Text)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if h.assets != nil {
			url, err := h.assets.Put(r.Context(), "speech.pcm", "audio/L16", speech.PCM)
			if err != nil {
				h.logger.Warn().Err(err).Msg("asset upload failed, returning inline data only")
			} else {
				speech.URL = url
			}
		}

		h.responder.WriteJSON(w, map[string]any{
			"pcmBase64":  base64.StdEncoding.EncodeToString(speech.PCM),
			"sampleRate": speech.SampleRate,
			"channels":   speech.Channels,
			"url":        speech.URL,
		})
	}
}

func (h generateHandler) generateVideo() http.HandlerFunc {
	type request struct {
		Prompt      string `json:"prompt"`
		ImageBase64 string `json:"imageBase64"`
		MimeType    string `json:"mimeType"`
		Resolution  string `json:"resolution"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if h.renderer == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("video renderer", fmt.Errorf("renderer not configured")))
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		var imageBytes []byte
		if req.ImageBase64 != "" {
			var err error
			imageBytes, err = base64.StdEncoding.DecodeString(req.ImageBase64)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidInputError("imageBase64", "image data is not valid base64"))
				return
			}
		}

		clipPath, err := h.renderer.Render(r.Context(), models.VideoRequest{
			Prompt:     req.Prompt,
			ImageBytes: imageBytes,
			ImageMime:  req.MimeType,
			Resolution: req.Resolution,
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		defer os.Remove(clipPath)

		clip, err := os.ReadFile(clipPath)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("read rendered clip", err))
			return
		}

		response := map[string]any{"mimeType": "video/mp4"}
		if h.assets != nil {
			url, err := h.assets.Put(r.Context(), "clip.mp4", "video/mp4", clip)
			if err != nil {
				h.logger.Warn().Err(err).Msg("asset upload failed, returning inline data only")
			} else {
				response["url"] = url
			}
		}
		if _, ok := response["url"]; !ok {
			response["videoBase64"] = base64.StdEncoding.EncodeToString(clip)
		}

		h.responder.WriteJSON(w, response)
	}
}
