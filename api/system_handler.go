package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/services"
)

type systemHandler struct {
	responder   Responder
	logger      zerolog.Logger
	startupTime time.Time
	contact     ContactSender
}

func newSystemHandler(startupTime time.Time, contact ContactSender) systemHandler {
	logger := log.With().Str("handlerName", "systemHandler").Logger()

	return systemHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		startupTime: startupTime,
		contact:     contact,
	}
}

func (h systemHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, map[string]any{
			"status":        "ok",
			"uptimeSeconds": int(time.Since(h.startupTime).Seconds()),
		})
	}
}

// sendContact forwards a contact-form message to the site owner.
func (h systemHandler) sendContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.contact == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("contact mailer", fmt.Errorf("mailer not configured")))
			return
		}

		var msg services.ContactMessage
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if err := h.contact.Send(r.Context(), msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, map[string]string{"status": "sent"})
	}
}
