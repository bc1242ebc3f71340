package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/errs"
)

const resendEndpoint = "https://api.resend.com/emails"

// ContactMessage is one submission of the contact form.
type ContactMessage struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ContactMailer forwards contact-form submissions to the site owner's inbox
// through the Resend API.
type ContactMailer struct {
	apiKey    string
	fromEmail string
	toEmail   string
	client    *http.Client
	logger    zerolog.Logger
}

func NewContactMailer(apiKey, fromEmail, toEmail string) (*ContactMailer, error) {
	if apiKey == "" || fromEmail == "" || toEmail == "" {
		return nil, errs.NewInvalidInputError("resend", "RESEND_API_KEY, RESEND_FROM_EMAIL and CONTACT_EMAIL are all required")
	}

	return &ContactMailer{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		client:    &http.Client{Timeout: 15 * time.Second},
		logger:    log.With().Str("component", "contactMailer").Logger(),
	}, nil
}

// Send delivers one contact-form message. Validation errors come back typed;
// delivery failures surface as service-unavailable.
func (m *ContactMailer) Send(ctx context.Context, msg ContactMessage) error {
	if strings.TrimSpace(msg.Email) == "" {
		return errs.NewInvalidInputError("email", "a reply address is required")
	}
	if strings.TrimSpace(msg.Body) == "" {
		return errs.NewInvalidInputError("body", "a message is required")
	}

	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		subject = "Contact form message"
	}

	payload := map[string]any{
		"from":     m.fromEmail,
		"to":       []string{m.toEmail},
		"reply_to": msg.Email,
		"subject":  fmt.Sprintf("[tube2blog] %s", subject),
		"text":     fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Body),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.NewInternalErrorWithCause("encode email payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return errs.NewInternalErrorWithCause("build email request", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errs.NewServiceUnavailableError("Resend", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewServiceUnavailableError("Resend", err)
	}
	if resp.StatusCode != http.StatusOK {
		return errs.FromStatusCode("Resend", resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(respBody))))
	}

	var emailResp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &emailResp); err != nil {
		m.logger.Warn().Err(err).Msg("email sent but response unparsable")
		return nil
	}
	m.logger.Info().Str("emailId", emailResp.ID).Msg("contact message delivered")
	return nil
}
