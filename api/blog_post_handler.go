package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
)

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     BlogStorage
	session   SessionState
	sanitizer *bluemonday.Policy
}

func newBlogPostHandler(store BlogStorage, sess SessionState) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()

	return blogPostHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     store,
		session:   sess,
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// BlogPostCollection wraps a list of posts with its count.
type BlogPostCollection struct {
	BlogPosts []models.BlogPost `json:"blogPosts"`
	Total     int               `json:"total"`
}

// getAllBlogPosts lists every stored post, optionally filtered by ?q=.
func (h blogPostHandler) getAllBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		posts := h.store.Search(r.Context(), query)

		h.responder.WriteJSON(w, BlogPostCollection{
			BlogPosts: posts,
			Total:     len(posts),
		})
	}
}

func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID := chi.URLParam(r, "blogPostID")
		if blogPostID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing blogPostID"))
			return
		}

		post := h.store.GetByID(r.Context(), blogPostID)
		if post == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post"))
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

func (h blogPostHandler) createBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input models.BlogPostInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog post request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if input.BlogContent == "" {
			h.responder.WriteError(w, errs.NewInvalidInputError("blogContent", "blog content is required"))
			return
		}
		if input.VideoTitle == "" {
			h.responder.WriteError(w, errs.NewInvalidInputError("videoTitle", "video title is required"))
			return
		}
		if profile, ok := profileFromCtx(r.Context()); ok {
			input.OwnerID = profile.ID
		}

		post, err := h.store.Create(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, post)
	}
}

func (h blogPostHandler) updateBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID := chi.URLParam(r, "blogPostID")
		if blogPostID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing blogPostID"))
			return
		}

		var patch models.BlogPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode blog patch request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		post, err := h.store.Update(r.Context(), blogPostID, patch)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

func (h blogPostHandler) deleteBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID := chi.URLParam(r, "blogPostID")
		if blogPostID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing blogPostID"))
			return
		}

		deleted, err := h.store.Delete(r.Context(), blogPostID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"status":  "success",
			"deleted": deleted,
		})
	}
}

// togglePublish flips the published flag through the session so the user
// gets the same toast the in-app toggle produces.
func (h blogPostHandler) togglePublish() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID := chi.URLParam(r, "blogPostID")
		if blogPostID == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing blogPostID"))
			return
		}

		post, err := h.session.HandlePublishToggle(r.Context(), blogPostID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// getDomainSettings returns the single settings record, active or not.
func (h blogPostHandler) getDomainSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings := h.store.GetDomainSettings(r.Context())
		if settings == nil {
			settings = &models.DomainSettings{}
		}
		h.responder.WriteJSON(w, settings)
	}
}

func (h blogPostHandler) saveDomainSettings() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var settings models.DomainSettings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if profile, ok := profileFromCtx(r.Context()); ok {
			settings.OwnerID = profile.ID
		}

		if err := h.store.SaveDomainSettings(r.Context(), settings); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		settings.Normalize()
		h.responder.WriteJSON(w, settings)
	}
}

// publicBlogPost serves a published post as sanitized HTML. Unpublished
// posts are indistinguishable from missing ones.
func (h blogPostHandler) publicBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blogPostID := chi.URLParam(r, "blogPostID")
		post := h.store.GetByID(r.Context(), blogPostID)
		if post == nil || !post.IsPublished {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post"))
			return
		}

		p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
		renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
		rendered := markdown.ToHTML([]byte(post.BlogContent), p, renderer)
		safe := h.sanitizer.SanitizeBytes(rendered)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<article><h1>%s</h1>\n%s</article>\n", h.sanitizer.Sanitize(post.VideoTitle), safe)
	}
}
