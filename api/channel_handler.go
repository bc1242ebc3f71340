package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
)

type channelHandler struct {
	responder Responder
	logger    zerolog.Logger
	youtube   ChannelClient
	converter ChannelConverter
}

func newChannelHandler(youtube ChannelClient, converter ChannelConverter) channelHandler {
	logger := log.With().Str("handlerName", "channelHandler").Logger()

	return channelHandler{
		responder: NewResponder(logger),
		logger:    logger,
		youtube:   youtube,
		converter: converter,
	}
}

func (h channelHandler) requireYouTube(w http.ResponseWriter) bool {
	if h.youtube == nil {
		h.responder.WriteError(w, errs.NewServiceUnavailableError("YouTube Data API", fmt.Errorf("no API key configured")))
		return false
	}
	return true
}

func (h channelHandler) getChannel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireYouTube(w) {
			return
		}

		channelID := r.URL.Query().Get("channelId")
		channel, err := h.youtube.FetchChannel(r.Context(), channelID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, channel)
	}
}

// getChannelVideos pages through a channel's uploads. ?pageToken= continues a
// previous page; the response's nextPageToken is empty on the last one.
func (h channelHandler) getChannelVideos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireYouTube(w) {
			return
		}

		channelID := r.URL.Query().Get("channelId")
		channel, err := h.youtube.FetchChannel(r.Context(), channelID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		maxResults, _ := strconv.ParseInt(r.URL.Query().Get("maxResults"), 10, 64)
		videos, nextPageToken, err := h.youtube.FetchChannelVideos(r.Context(), channel, maxResults, r.URL.Query().Get("pageToken"))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"videos":        videos,
			"nextPageToken": nextPageToken,
		})
	}
}

// convertChannel generates and persists one blog post per submitted video.
// The response carries one result per video, completed or failed; partial
// success is the normal outcome for large batches.
func (h channelHandler) convertChannel() http.HandlerFunc {
	type request struct {
		Videos         []models.VideoData `json:"videos"`
		TargetAudience string             `json:"targetAudience"`
		DesiredTone    string             `json:"desiredTone"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if h.converter == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("converter", fmt.Errorf("converter not configured")))
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if len(req.Videos) == 0 {
			h.responder.WriteError(w, errs.NewInvalidInputError("videos", "at least one video is required"))
			return
		}

		var ownerID string
		if profile, ok := profileFromCtx(r.Context()); ok {
			ownerID = profile.ID
		}

		results, err := h.converter.ConvertVideos(r.Context(), ownerID, req.Videos, req.TargetAudience, req.DesiredTone)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{"results": results})
	}
}
