package api

import (
	"context"
	"encoding/base64"
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

type fakeGenerative struct {
	chatReply string
	imageData []byte
	err       error
}

func (f *fakeGenerative) GenerateBlogPost(context.Context, string, string, string) (models.BlogResponse, error) {
	if f.err != nil {
		return models.BlogResponse{}, f.err
	}
	return models.BlogResponse{BlogContent: "generated", VideoTitle: "title"}, nil
}

func (f *fakeGenerative) GenerateImage(context.Context, models.ImageRequest) (models.GeneratedImage, error) {
	if f.err != nil {
		return models.GeneratedImage{}, f.err
	}
	return models.GeneratedImage{Data: f.imageData, MimeType: "image/jpeg"}, nil
}

func (f *fakeGenerative) EditImage(context.Context, models.EditImageRequest) (models.GeneratedImage, error) {
	return f.GenerateImage(context.Background(), models.ImageRequest{})
}

func (f *fakeGenerative) AnalyzeVideo(context.Context, string, []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "analysis text", nil
}

func (f *fakeGenerative) Chat(_ context.Context, _ []models.ChatMessage, _ string) (models.ChatMessage, error) {
	if f.err != nil {
		return models.ChatMessage{}, f.err
	}
	return models.ChatMessage{Role: models.ChatRoleModel, Content: f.chatReply}, nil
}

func (f *fakeGenerative) GenerateSpeech(context.Context, string) (models.GeneratedSpeech, error) {
	if f.err != nil {
		return models.GeneratedSpeech{}, f.err
	}
	return models.GeneratedSpeech{PCM: []byte{1, 2}, SampleRate: 24000, Channels: 1}, nil
}

func newGenerateTest(gemini GenerativeClient) generateHandler {
	store := storage.NewBlogStore(storage.NewMemoryKV())
	sess := session.New(store, nil, nil)
	return newGenerateHandler(sess, gemini, nil, nil)
}

func TestGenerateEndpointsWithoutGeminiReturn401(t *testing.T) {
	handler := newGenerateTest(nil)

	w := httptest.NewRecorder()
	handler.chat()(w, httptest.NewRequest(http.MethodPost, "/generate/chat", strings.NewReader(`{"message":"hi"}`)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChatReturnsModelTurn(t *testing.T) {
	handler := newGenerateTest(&fakeGenerative{chatReply: "hello there"})

	w := httptest.NewRecorder()
	handler.chat()(w, httptest.NewRequest(http.MethodPost, "/generate/chat",
		strings.NewReader(`{"history":[{"role":"user","content":"hi"}],"message":"how are you"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var reply models.ChatMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, models.ChatRoleModel, reply.Role)
	assert.Equal(t, "hello there", reply.Content)
}

func TestGenerateImageReturnsBase64(t *testing.T) {
	handler := newGenerateTest(&fakeGenerative{imageData: []byte{0xff, 0xd8, 0xff}})

	w := httptest.NewRecorder()
	handler.generateImage()(w, httptest.NewRequest(http.MethodPost, "/generate/image",
		strings.NewReader(`{"prompt":"a cat","aspectRatio":"1:1"}`)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ImageBase64 string `json:"imageBase64"`
		MimeType    string `json:"mimeType"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "image/jpeg", resp.MimeType)

	data, err := base64.StdEncoding.DecodeString(resp.ImageBase64)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
}

func TestAnalyzeVideoRejectsBadBase64(t *testing.T) {
	handler := newGenerateTest(&fakeGenerative{})

	w := httptest.NewRecorder()
	handler.analyzeVideo()(w, httptest.NewRequest(http.MethodPost, "/generate/video-analysis",
		strings.NewReader(`{"prompt":"what happens","keyframeBase64":"!!!not base64!!!"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateEndpointsPropagateServiceErrors(t *testing.T) {
	handler := newGenerateTest(&fakeGenerative{err: errs.NewRateLimitedError("Gemini API")})

	w := httptest.NewRecorder()
	handler.chat()(w, httptest.NewRequest(http.MethodPost, "/generate/chat", strings.NewReader(`{"message":"hi"}`)))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
