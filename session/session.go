package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
	"github.com/yaskovbs/tube2blog-backend/services"
	"github.com/yaskovbs/tube2blog-backend/storage"
)

// AuthState tracks where the user is in the sign-in flow.
type AuthState string

const (
	AuthAnonymous      AuthState = "anonymous"
	AuthAuthenticating AuthState = "authenticating"
	AuthAuthenticated  AuthState = "authenticated"
)

// ToastLevel classifies a toast notification.
type ToastLevel string

const (
	ToastInfo    ToastLevel = "info"
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
)

// Toast is a transient user-facing notification.
type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
}

// Session is the application state machine: which view is showing, who is
// signed in, and whether a blog generation is in flight. A monotonic
// generation counter tags each generation request so that a completion
// arriving after a newer request started is dropped instead of clobbering the
// newer request's state.
type Session struct {
	mu sync.Mutex

	store     *storage.BlogStore
	generator services.BlogGenerator
	toast     func(Toast)
	logger    zerolog.Logger

	currentView View
	pendingView View
	authState   AuthState
	profile     *models.UserProfile

	generation uint64
	loading    bool
	lastResult *models.BlogResponse
	lastError  string
}

// New builds a session showing the home view with nobody signed in. The toast
// sink may be nil.
func New(store *storage.BlogStore, generator services.BlogGenerator, toast func(Toast)) *Session {
	if toast == nil {
		toast = func(Toast) {}
	}
	return &Session{
		store:       store,
		generator:   generator,
		toast:       toast,
		logger:      log.With().Str("component", "session").Logger(),
		currentView: ViewHome,
		authState:   AuthAnonymous,
	}
}

// Snapshot is a read-only view of the session for rendering.
type Snapshot struct {
	CurrentView View                 `json:"currentView"`
	AuthState   AuthState            `json:"authState"`
	Profile     *models.UserProfile  `json:"profile,omitempty"`
	Loading     bool                 `json:"loading"`
	LastResult  *models.BlogResponse `json:"lastResult,omitempty"`
	LastError   string               `json:"lastError,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		CurrentView: s.currentView,
		AuthState:   s.authState,
		Profile:     s.profile,
		Loading:     s.loading,
		LastResult:  s.lastResult,
		LastError:   s.lastError,
	}
}

// Navigate switches to the requested view. A protected view requested while
// not signed in redirects to the login view and remembers the destination, so
// a later sign-in lands where the user wanted to go.
func (s *Session) Navigate(view View) error {
	if !view.Valid() {
		return errs.NewInvalidInputError("view", "unknown view")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if view.Protected() && s.authState != AuthAuthenticated {
		s.pendingView = view
		s.currentView = ViewLogin
		s.toast(Toast{Level: ToastInfo, Message: "Please sign in to continue"})
		return nil
	}

	s.currentView = view
	return nil
}

// BeginAuth marks the sign-in flow as started.
func (s *Session) BeginAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authState = AuthAuthenticating
}

// CompleteSignIn records the signed-in profile and navigates to the view the
// user originally asked for, defaulting to the dashboard.
func (s *Session) CompleteSignIn(profile models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authState = AuthAuthenticated
	s.profile = &profile

	destination := s.pendingView
	if destination == "" {
		destination = ViewDashboard
	}
	s.pendingView = ""
	s.currentView = destination
	s.toast(Toast{Level: ToastSuccess, Message: "Signed in as " + profile.Name})
}

// FailAuth aborts an in-flight sign-in and returns to anonymous.
func (s *Session) FailAuth(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authState = AuthAnonymous
	s.profile = nil
	if reason != "" {
		s.toast(Toast{Level: ToastError, Message: reason})
	}
}

// SignOut clears the identity. If the user was on a protected view it falls
// back to home rather than showing a screen they can no longer use.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.authState = AuthAnonymous
	s.profile = nil
	s.pendingView = ""
	if s.currentView.Protected() {
		s.currentView = ViewHome
	}
}

// GenerateBlog runs one blog generation and persists the result. Each call
// takes the next generation number; when the call finishes, its outcome is
// applied only if no newer call has started since. Stale outcomes are dropped
// entirely, including persistence.
func (s *Session) GenerateBlog(ctx context.Context, youtubeURL, targetAudience, desiredTone string) (*models.BlogPost, error) {
	if s.generator == nil {
		return nil, errs.NewUnauthorizedError("GEMINI_API_KEY is not defined, add your API key in the API key settings")
	}

	s.mu.Lock()
	if s.authState != AuthAuthenticated {
		s.mu.Unlock()
		return nil, errs.NewUnauthorizedError("sign in to generate blog posts")
	}
	ownerID := s.profile.ID
	s.generation++
	gen := s.generation
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()

	resp, err := s.generator.GenerateBlogPost(ctx, youtubeURL, targetAudience, desiredTone)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		s.logger.Debug().Uint64("generation", gen).Msg("dropping stale generation result")
		return nil, nil
	}
	s.loading = false

	if err != nil {
		s.lastResult = nil
		s.lastError = err.Error()
		s.mu.Unlock()
		s.toast(Toast{Level: ToastError, Message: "Blog generation failed"})
		return nil, err
	}
	s.lastResult = &resp
	s.mu.Unlock()

	post, err := s.store.Create(ctx, models.BlogPostInput{
		OwnerID:        ownerID,
		VideoTitle:     resp.VideoTitle,
		VideoURL:       youtubeURL,
		VideoEmbedURL:  resp.VideoEmbedURL,
		ThumbnailURL:   resp.VideoThumbnail,
		BlogContent:    resp.BlogContent,
		TargetAudience: targetAudience,
		DesiredTone:    desiredTone,
	})
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.mu.Unlock()
		s.toast(Toast{Level: ToastError, Message: "Saving the blog post failed"})
		return nil, err
	}

	s.toast(Toast{Level: ToastSuccess, Message: "Blog post created"})
	return &post, nil
}

// HandlePublishToggle flips the post's published flag.
func (s *Session) HandlePublishToggle(ctx context.Context, blogID string) (*models.BlogPost, error) {
	post := s.store.GetByID(ctx, blogID)
	if post == nil {
		return nil, errs.NewNotFoundError("blog post")
	}

	published := !post.IsPublished
	updated, err := s.store.Update(ctx, blogID, models.BlogPatch{IsPublished: &published})
	if err != nil {
		return nil, err
	}

	message := "Blog post unpublished"
	if updated.IsPublished {
		message = "Blog post published"
	}
	s.toast(Toast{Level: ToastSuccess, Message: message})
	return &updated, nil
}
