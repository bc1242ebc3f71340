package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/session"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      AuthClient
	session   SessionState
}

func newAuthHandler(auth AuthClient, sess SessionState) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
		session:   sess,
	}
}

func (h authHandler) requireAuth(w http.ResponseWriter) bool {
	if h.auth == nil {
		h.responder.WriteError(w, errs.NewServiceUnavailableError("Google sign-in", fmt.Errorf("OAuth client not configured")))
		return false
	}
	return true
}

// loginURL hands the frontend the Google consent page address and marks the
// session as authenticating.
func (h authHandler) loginURL() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireAuth(w) {
			return
		}

		state := uuid.NewString()
		h.session.BeginAuth()
		h.responder.WriteJSON(w, map[string]string{
			"authUrl": h.auth.AuthURL(state),
			"state":   state,
		})
	}
}

// signIn exchanges the authorization code and completes the session's
// sign-in, landing the user on the view they originally asked for.
func (h authHandler) signIn() http.HandlerFunc {
	type request struct {
		Code string `json:"code"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireAuth(w) {
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		profile, err := h.auth.SignIn(r.Context(), req.Code)
		if err != nil {
			h.session.FailAuth("Sign-in failed")
			h.responder.WriteError(w, err)
			return
		}

		h.session.CompleteSignIn(profile)
		h.responder.WriteJSON(w, map[string]any{
			"profile":     profile,
			"currentView": h.session.Snapshot().CurrentView,
		})
	}
}

func (h authHandler) signOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.auth != nil {
			h.auth.SignOut()
		}
		h.session.SignOut()
		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// sessionState exposes the state machine to the frontend for rendering.
func (h authHandler) sessionState() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, h.session.Snapshot())
	}
}

// navigate drives the view router; protected views redirect to login when
// nobody is signed in.
func (h authHandler) navigate() http.HandlerFunc {
	type request struct {
		View session.View `json:"view"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if err := h.session.Navigate(req.View); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, h.session.Snapshot())
	}
}
