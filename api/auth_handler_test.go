package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
	"github.com/yaskovbs/tube2blog-backend/session"
	"github.com/yaskovbs/tube2blog-backend/storage"
)

type fakeAuth struct {
	signedOut bool
}

func (f *fakeAuth) AuthURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (f *fakeAuth) SignIn(_ context.Context, code string) (models.UserProfile, error) {
	if code != "good-code" {
		return models.UserProfile{}, errs.NewUnauthorizedError("authorization code exchange failed")
	}
	return models.UserProfile{ID: "user-1", Name: "Ada"}, nil
}

func (f *fakeAuth) SignOut() { f.signedOut = true }

func newAuthTest() (authHandler, *session.Session, *fakeAuth) {
	store := storage.NewBlogStore(storage.NewMemoryKV())
	sess := session.New(store, nil, nil)
	auth := &fakeAuth{}
	return newAuthHandler(auth, sess), sess, auth
}

func TestLoginURLMarksAuthenticating(t *testing.T) {
	handler, sess, _ := newAuthTest()

	w := httptest.NewRecorder()
	handler.loginURL()(w, httptest.NewRequest(http.MethodGet, "/auth/login-url", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AuthURL string `json:"authUrl"`
		State   string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.AuthURL, "state="+resp.State)
	assert.Equal(t, session.AuthAuthenticating, sess.Snapshot().AuthState)
}

func TestSignInCompletesSession(t *testing.T) {
	handler, sess, _ := newAuthTest()

	w := httptest.NewRecorder()
	handler.signIn()(w, httptest.NewRequest(http.MethodPost, "/auth/sign-in",
		strings.NewReader(`{"code":"good-code"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	snap := sess.Snapshot()
	assert.Equal(t, session.AuthAuthenticated, snap.AuthState)
	require.NotNil(t, snap.Profile)
	assert.Equal(t, "user-1", snap.Profile.ID)
}

func TestSignInBadCodeFailsAuth(t *testing.T) {
	handler, sess, _ := newAuthTest()

	w := httptest.NewRecorder()
	handler.signIn()(w, httptest.NewRequest(http.MethodPost, "/auth/sign-in",
		strings.NewReader(`{"code":"wrong"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, session.AuthAnonymous, sess.Snapshot().AuthState)
}

func TestSignOutEndpoint(t *testing.T) {
	handler, sess, auth := newAuthTest()
	sess.BeginAuth()
	sess.CompleteSignIn(models.UserProfile{ID: "user-1"})

	w := httptest.NewRecorder()
	handler.signOut()(w, httptest.NewRequest(http.MethodPost, "/auth/sign-out", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, session.AuthAnonymous, sess.Snapshot().AuthState)
	assert.True(t, auth.signedOut, "the auth client is told about the sign-out")
}

func TestNavigateEndpointGatesProtectedViews(t *testing.T) {
	handler, _, _ := newAuthTest()

	w := httptest.NewRecorder()
	handler.navigate()(w, httptest.NewRequest(http.MethodPost, "/session/navigate",
		strings.NewReader(`{"view":"dashboard"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var snap session.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, session.ViewLogin, snap.CurrentView, "anonymous users get redirected to login")
}

func TestNavigateEndpointRejectsUnknownView(t *testing.T) {
	handler, _, _ := newAuthTest()

	w := httptest.NewRecorder()
	handler.navigate()(w, httptest.NewRequest(http.MethodPost, "/session/navigate",
		strings.NewReader(`{"view":"control-panel"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
