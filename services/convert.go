package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/yaskovbs/tube2blog-backend/models"
	"github.com/yaskovbs/tube2blog-backend/storage"
)

// BlogGenerator is the slice of the Gemini client the converter needs.
type BlogGenerator interface {
	GenerateBlogPost(ctx context.Context, youtubeURL, targetAudience, desiredTone string) (models.BlogResponse, error)
}

// convertWorkers bounds concurrent generation calls so a large channel does
// not trip the API's rate limits all at once.
const convertWorkers = 4

// Converter turns a batch of channel videos into persisted blog posts. Items
// are independent: one video's failure is recorded in its result and does not
// stop the batch, and posts persisted before a failure stay persisted.
type Converter struct {
	generator BlogGenerator
	store     *storage.BlogStore
	logger    zerolog.Logger
	now       func() time.Time
}

func NewConverter(generator BlogGenerator, store *storage.BlogStore) *Converter {
	return &Converter{
		generator: generator,
		store:     store,
		logger:    log.With().Str("component", "converter").Logger(),
		now:       time.Now,
	}
}

// ConvertVideos generates and persists one blog post per video, up to
// convertWorkers at a time. Results come back in input order, one per video,
// each marked completed or failed. The returned error is only ever a context
// cancellation; per-video failures live in the results.
func (c *Converter) ConvertVideos(ctx context.Context, ownerID string, videos []models.VideoData, targetAudience, desiredTone string) ([]models.ConversionResult, error) {
	results := make([]models.ConversionResult, len(videos))
	var mu sync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(convertWorkers)

	for i, video := range videos {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			result := c.convertOne(groupCtx, ownerID, video, targetAudience, desiredTone)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return results, err
	}

	completed := 0
	for _, result := range results {
		if result.Status == models.ConversionCompleted {
			completed++
		}
	}
	c.logger.Info().
		Int("total", len(videos)).
		Int("completed", completed).
		Int("failed", len(videos)-completed).
		Msg("channel conversion finished")
	return results, nil
}

func (c *Converter) convertOne(ctx context.Context, ownerID string, video models.VideoData, targetAudience, desiredTone string) models.ConversionResult {
	result := models.ConversionResult{
		VideoID:     video.ID,
		VideoTitle:  video.Title,
		Status:      models.ConversionProcessing,
		ProcessedAt: c.now(),
	}

	resp, err := c.generator.GenerateBlogPost(ctx, WatchURL(video.ID), targetAudience, desiredTone)
	if err != nil {
		c.logger.Warn().Err(err).Str("videoId", video.ID).Msg("conversion failed")
		result.Status = models.ConversionFailed
		result.Error = err.Error()
		return result
	}

	post, err := c.store.Create(ctx, models.BlogPostInput{
		OwnerID:        ownerID,
		VideoTitle:     resp.VideoTitle,
		VideoURL:       WatchURL(video.ID),
		VideoEmbedURL:  resp.VideoEmbedURL,
		ThumbnailURL:   resp.VideoThumbnail,
		BlogContent:    resp.BlogContent,
		TargetAudience: targetAudience,
		DesiredTone:    desiredTone,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("videoId", video.ID).Msg("persisting converted blog failed")
		result.Status = models.ConversionFailed
		result.Error = err.Error()
		return result
	}

	result.Status = models.ConversionCompleted
	result.BlogID = post.ID
	result.ProcessedAt = c.now()
	return result
}
