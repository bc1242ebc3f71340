package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaskovbs/tube2blog-backend/models"
	"github.com/yaskovbs/tube2blog-backend/storage"
)

// fakeGenerator fails any video whose id carries the "bad" marker.
type fakeGenerator struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeGenerator) GenerateBlogPost(_ context.Context, youtubeURL, _, _ string) (models.BlogResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if strings.Contains(youtubeURL, "bad") {
		return models.BlogResponse{}, fmt.Errorf("generation blew up")
	}
	return models.BlogResponse{
		BlogContent: "content for " + youtubeURL,
		VideoTitle:  "title for " + youtubeURL,
	}, nil
}

func testVideos(ids ...string) []models.VideoData {
	videos := make([]models.VideoData, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, models.VideoData{ID: id, Title: "video " + id})
	}
	return videos
}

func TestConvertVideosAllSucceed(t *testing.T) {
	store := storage.NewBlogStore(storage.NewMemoryKV())
	gen := &fakeGenerator{}
	converter := NewConverter(gen, store)
	ctx := context.Background()

	results, err := converter.ConvertVideos(ctx, "user-1", testVideos("aaa", "bbb", "ccc"), "devs", "formal")
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, result := range results {
		assert.Equal(t, models.ConversionCompleted, result.Status, "result %d", i)
		assert.NotEmpty(t, result.BlogID)
		assert.Empty(t, result.Error)
	}
	assert.Len(t, store.GetAll(ctx), 3)
	assert.Equal(t, 3, gen.calls)
}

func TestConvertVideosPartialFailure(t *testing.T) {
	store := storage.NewBlogStore(storage.NewMemoryKV())
	converter := NewConverter(&fakeGenerator{}, store)
	ctx := context.Background()

	results, err := converter.ConvertVideos(ctx, "user-1", testVideos("aaa", "bad-one", "ccc"), "", "")
	require.NoError(t, err, "per-video failures must not fail the batch")
	require.Len(t, results, 3)

	assert.Equal(t, models.ConversionCompleted, results[0].Status)
	assert.Equal(t, models.ConversionFailed, results[1].Status)
	assert.Contains(t, results[1].Error, "generation blew up")
	assert.Empty(t, results[1].BlogID)
	assert.Equal(t, models.ConversionCompleted, results[2].Status)

	// Completed conversions stay persisted despite the failure.
	assert.Len(t, store.GetAll(ctx), 2)
}

func TestConvertVideosResultsKeepInputOrder(t *testing.T) {
	store := storage.NewBlogStore(storage.NewMemoryKV())
	converter := NewConverter(&fakeGenerator{}, store)

	ids := []string{"v01", "v02", "v03", "v04", "v05", "v06", "v07", "v08"}
	results, err := converter.ConvertVideos(context.Background(), "", testVideos(ids...), "", "")
	require.NoError(t, err)
	require.Len(t, results, len(ids))

	for i, id := range ids {
		assert.Equal(t, id, results[i].VideoID)
	}
}

func TestConvertVideosStampsOwner(t *testing.T) {
	store := storage.NewBlogStore(storage.NewMemoryKV())
	converter := NewConverter(&fakeGenerator{}, store)
	ctx := context.Background()

	_, err := converter.ConvertVideos(ctx, "owner-42", testVideos("aaa"), "", "")
	require.NoError(t, err)

	posts := store.GetAll(ctx)
	require.Len(t, posts, 1)
	assert.Equal(t, "owner-42", posts[0].OwnerID)
}
