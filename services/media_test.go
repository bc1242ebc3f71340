package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaskovbs/tube2blog-backend/models"
)

func newRESTTestClient(t *testing.T, handler http.HandlerFunc) *Gemini {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rest := newGeminiREST("test-key")
	rest.baseURL = srv.URL
	rest.client = srv.Client()
	return &Gemini{rest: rest}
}

func groundedReply(text string, sources ...models.GroundingURL) map[string]any {
	chunks := make([]map[string]any, 0, len(sources))
	for _, s := range sources {
		chunks = append(chunks, map[string]any{"web": map[string]any{"uri": s.URI, "title": s.Title}})
	}
	return map[string]any{
		"candidates": []map[string]any{{
			"content":           map[string]any{"parts": []map[string]any{{"text": text}}},
			"groundingMetadata": map[string]any{"groundingChunks": chunks},
		}},
	}
}

func TestGenerateBlogPostCarriesCitedSources(t *testing.T) {
	var gotPath string
	var gotBody []byte
	g := newRESTTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(groundedReply("the generated blog",
			models.GroundingURL{URI: "https://example.com/a", Title: "Source A"}))
	})

	resp, err := g.GenerateBlogPost(context.Background(), "https://youtu.be/dQw4w9WgXcQ", "developers", "casual")
	require.NoError(t, err)

	assert.Equal(t, "the generated blog", resp.BlogContent)
	assert.Equal(t, "Blog post for video dQw4w9WgXcQ", resp.VideoTitle, "no YouTube client, placeholder title")
	require.Len(t, resp.GroundingURLs, 1)
	assert.Equal(t, "https://example.com/a", resp.GroundingURLs[0].URI)
	assert.Equal(t, "Source A", resp.GroundingURLs[0].Title)

	assert.Contains(t, gotPath, "gemini-2.5-flash:generateContent")
	assert.Contains(t, string(gotBody), "google_search", "search grounding is requested")
}

func TestChatCarriesCitedSources(t *testing.T) {
	var gotBody []byte
	g := newRESTTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		json.NewEncoder(w).Encode(groundedReply("a grounded answer",
			models.GroundingURL{URI: "https://example.com/b", Title: "Source B"}))
	})

	history := []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: "hi"},
		{Role: models.ChatRoleModel, Content: "hello"},
	}
	reply, err := g.Chat(context.Background(), history, "what changed last week?")
	require.NoError(t, err)

	assert.Equal(t, models.ChatRoleModel, reply.Role)
	assert.Equal(t, "a grounded answer", reply.Content)
	require.Len(t, reply.GroundingURLs, 1)
	assert.Equal(t, "https://example.com/b", reply.GroundingURLs[0].URI)

	var sent generateContentRequest
	require.NoError(t, json.Unmarshal(gotBody, &sent))
	require.Len(t, sent.Contents, 3, "history plus the new message")
	assert.Equal(t, "model", sent.Contents[1].Role)
	assert.Equal(t, "user", sent.Contents[2].Role)
}

func TestGroundingURLsDeduplicatedByURI(t *testing.T) {
	raw := `{
		"candidates": [{
			"content": {"parts": [{"text": "x"}]},
			"groundingMetadata": {"groundingChunks": [
				{"web": {"uri": "https://example.com/a", "title": "A"}},
				{"web": {"uri": "https://example.com/a", "title": "A again"}},
				{},
				{"web": {"uri": "https://example.com/b", "title": "B"}}
			]}
		}]
	}`

	var resp generateContentResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	urls := resp.groundingURLs()
	require.Len(t, urls, 2)
	assert.Equal(t, "https://example.com/a", urls[0].URI)
	assert.Equal(t, "https://example.com/b", urls[1].URI)
}
