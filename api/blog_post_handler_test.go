package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaskovbs/tube2blog-backend/models"
	"github.com/yaskovbs/tube2blog-backend/session"
	"github.com/yaskovbs/tube2blog-backend/storage"
)

func newTestHandler(t *testing.T) (blogPostHandler, *storage.BlogStore) {
	t.Helper()
	store := storage.NewBlogStore(storage.NewMemoryKV())
	sess := session.New(store, nil, nil)
	return newBlogPostHandler(store, sess), store
}

func requestWithParam(method, target, param, value string, body string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(param, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx))
}

func seedPost(t *testing.T, store *storage.BlogStore, input models.BlogPostInput) models.BlogPost {
	t.Helper()
	post, err := store.Create(context.Background(), input)
	require.NoError(t, err)
	return post
}

func TestGetAllBlogPostsWithSearch(t *testing.T) {
	handler, store := newTestHandler(t)
	seedPost(t, store, models.BlogPostInput{VideoTitle: "Cat Videos", BlogContent: "cats"})
	seedPost(t, store, models.BlogPostInput{VideoTitle: "Dogs", BlogContent: "dogs"})

	w := httptest.NewRecorder()
	handler.getAllBlogPosts()(w, httptest.NewRequest(http.MethodGet, "/blog-posts?q=cat", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp BlogPostCollection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "Cat Videos", resp.BlogPosts[0].VideoTitle)
}

func TestCreateBlogPostValidation(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	body := `{"videoTitle":"Title"}`
	handler.createBlogPost()(w, httptest.NewRequest(http.MethodPost, "/blog-post", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAndGetBlogPost(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	body := `{"videoTitle":"Title","blogContent":"Content","videoUrl":"https://youtu.be/dQw4w9WgXcQ"}`
	handler.createBlogPost()(w, httptest.NewRequest(http.MethodPost, "/blog-post", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Result().Header.Get("Content-Type"), "application/json")

	var created models.BlogPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	w = httptest.NewRecorder()
	handler.getBlogPost()(w, requestWithParam(http.MethodGet, "/blog-post/"+created.ID, "blogPostID", created.ID, ""))
	require.Equal(t, http.StatusOK, w.Code)

	var fetched models.BlogPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
}

func TestGetBlogPostNotFound(t *testing.T) {
	handler, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.getBlogPost()(w, requestWithParam(http.MethodGet, "/blog-post/missing", "blogPostID", "missing", ""))
	assert.Equal(t, http.StatusNotFound, w.Code)
	// Result snapshots the headers as they stood when the status was written.
	assert.Contains(t, w.Result().Header.Get("Content-Type"), "application/json")
}

func TestUpdateBlogPostPatchesFields(t *testing.T) {
	handler, store := newTestHandler(t)
	post := seedPost(t, store, models.BlogPostInput{VideoTitle: "Old", BlogContent: "Old content"})

	w := httptest.NewRecorder()
	handler.updateBlogPost()(w, requestWithParam(http.MethodPut, "/blog-post/"+post.ID, "blogPostID", post.ID,
		`{"blogContent":"New content"}`))
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.BlogPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "New content", updated.BlogContent)
	assert.Equal(t, "Old", updated.VideoTitle)
}

func TestDeleteBlogPost(t *testing.T) {
	handler, store := newTestHandler(t)
	post := seedPost(t, store, models.BlogPostInput{VideoTitle: "t", BlogContent: "c"})

	w := httptest.NewRecorder()
	handler.deleteBlogPost()(w, requestWithParam(http.MethodDelete, "/blog-post/"+post.ID, "blogPostID", post.ID, ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.GetAll(context.Background()))
}

func TestTogglePublish(t *testing.T) {
	handler, store := newTestHandler(t)
	post := seedPost(t, store, models.BlogPostInput{VideoTitle: "t", BlogContent: "c"})

	w := httptest.NewRecorder()
	handler.togglePublish()(w, requestWithParam(http.MethodPost, "/publish", "blogPostID", post.ID, ""))
	require.Equal(t, http.StatusOK, w.Code)

	var toggled models.BlogPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &toggled))
	assert.True(t, toggled.IsPublished)
}

func TestDomainSettingsRoundTrip(t *testing.T) {
	handler, _ := newTestHandler(t)

	// Unset settings come back as an inactive zero record, not an error.
	w := httptest.NewRecorder()
	handler.getDomainSettings()(w, httptest.NewRequest(http.MethodGet, "/domain-settings", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var settings models.DomainSettings
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.False(t, settings.IsActive)

	w = httptest.NewRecorder()
	handler.saveDomainSettings()(w, httptest.NewRequest(http.MethodPut, "/domain-settings",
		strings.NewReader(`{"subdomain":"mysite"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.getDomainSettings()(w, httptest.NewRequest(http.MethodGet, "/domain-settings", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "mysite", settings.Subdomain)
	assert.True(t, settings.IsActive)
}

func TestPublicBlogPostOnlyServesPublished(t *testing.T) {
	handler, store := newTestHandler(t)
	post := seedPost(t, store, models.BlogPostInput{
		VideoTitle:  "My Post",
		BlogContent: "# Heading\n\nSome **bold** text.",
	})

	// Unpublished: indistinguishable from missing.
	w := httptest.NewRecorder()
	handler.publicBlogPost()(w, requestWithParam(http.MethodGet, "/public/blog/"+post.ID, "blogPostID", post.ID, ""))
	assert.Equal(t, http.StatusNotFound, w.Code)

	published := true
	_, err := store.Update(context.Background(), post.ID, models.BlogPatch{IsPublished: &published})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	handler.publicBlogPost()(w, requestWithParam(http.MethodGet, "/public/blog/"+post.ID, "blogPostID", post.ID, ""))
	require.Equal(t, http.StatusOK, w.Code)

	html := w.Body.String()
	assert.Contains(t, html, "<h1>My Post</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestPublicBlogPostSanitizesMarkup(t *testing.T) {
	handler, store := newTestHandler(t)
	post := seedPost(t, store, models.BlogPostInput{
		VideoTitle:  "XSS",
		BlogContent: `hello <script>alert("x")</script> world`,
		IsPublished: true,
	})

	w := httptest.NewRecorder()
	handler.publicBlogPost()(w, requestWithParam(http.MethodGet, "/public/blog/"+post.ID, "blogPostID", post.ID, ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<script>")
}
