package storage

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/errs"
	"github.com/yaskovbs/tube2blog-backend/models"
)

// Storage keys. The whole blog collection is serialized as one JSON array
// under blogsKey; the single domain-settings record lives under domainKey.
const (
	blogsKey  = "userBlogs"
	domainKey = "domainSettings"
)

// BlogStore is durable CRUD over blog posts and the domain-settings record,
// backed by an injected KV substrate. Every mutation is a full
// read-modify-write of the collection under its key; the design assumes a
// single writer at a time and makes no correctness guarantee under concurrent
// writers.
type BlogStore struct {
	kv     KV
	logger zerolog.Logger
	now    func() time.Time
}

func NewBlogStore(kv KV) *BlogStore {
	return &BlogStore{
		kv:     kv,
		logger: log.With().Str("component", "blogStore").Logger(),
		now:    time.Now,
	}
}

// newBlogID builds an id from the current time plus random bits, the same
// scheme the collection has always used. Collision-free within the store's
// lifetime; cryptographic strength is not required.
func newBlogID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + strconv.FormatInt(rand.Int63(), 36)
}

// Create assigns an id and timestamps, appends the post to the collection and
// rewrites it. A rejected substrate write surfaces as ErrStorageUnavailable
// and is not retried.
func (s *BlogStore) Create(ctx context.Context, input models.BlogPostInput) (models.BlogPost, error) {
	now := s.now()
	post := models.BlogPost{
		ID:             newBlogID(now),
		OwnerID:        input.OwnerID,
		VideoTitle:     input.VideoTitle,
		VideoURL:       input.VideoURL,
		VideoEmbedURL:  input.VideoEmbedURL,
		ThumbnailURL:   input.ThumbnailURL,
		BlogContent:    input.BlogContent,
		TargetAudience: input.TargetAudience,
		DesiredTone:    input.DesiredTone,
		CreatedAt:      now,
		UpdatedAt:      now,
		IsPublished:    input.IsPublished,
	}

	posts := s.GetAll(ctx)
	posts = append(posts, post)
	if err := s.writeAll(ctx, posts); err != nil {
		return models.BlogPost{}, err
	}
	return post, nil
}

// Update merges the patch into the matching post, re-stamps UpdatedAt and
// rewrites the collection. A miss returns ErrNotFound and leaves the stored
// collection untouched; the id may simply have been deleted elsewhere, so the
// miss is an expected condition, not logged as an error.
func (s *BlogStore) Update(ctx context.Context, id string, patch models.BlogPatch) (models.BlogPost, error) {
	posts := s.GetAll(ctx)
	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		patch.Apply(&posts[i])
		posts[i].UpdatedAt = s.now()
		if err := s.writeAll(ctx, posts); err != nil {
			return models.BlogPost{}, err
		}
		return posts[i], nil
	}
	return models.BlogPost{}, errs.NewNotFoundError("blog post")
}

// Delete removes the matching post and rewrites the collection. Deleting an
// absent id returns false with no error, so a double delete is harmless.
func (s *BlogStore) Delete(ctx context.Context, id string) (bool, error) {
	posts := s.GetAll(ctx)
	kept := posts[:0]
	for _, post := range posts {
		if post.ID != id {
			kept = append(kept, post)
		}
	}
	if len(kept) == len(posts) {
		return false, nil
	}
	if err := s.writeAll(ctx, kept); err != nil {
		return false, err
	}
	return true, nil
}

// GetAll deserializes the whole collection. A missing key or corrupt payload
// yields an empty collection rather than an error.
func (s *BlogStore) GetAll(ctx context.Context) []models.BlogPost {
	data, ok, err := s.kv.Get(ctx, blogsKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("reading blog collection failed, treating as empty")
		return []models.BlogPost{}
	}
	if !ok {
		return []models.BlogPost{}
	}

	var posts []models.BlogPost
	if err := json.Unmarshal(data, &posts); err != nil {
		s.logger.Warn().Err(err).Msg("blog collection corrupt, treating as empty")
		return []models.BlogPost{}
	}
	if posts == nil {
		return []models.BlogPost{}
	}
	return posts
}

// GetByID returns the matching post or nil.
func (s *BlogStore) GetByID(ctx context.Context, id string) *models.BlogPost {
	for _, post := range s.GetAll(ctx) {
		if post.ID == id {
			return &post
		}
	}
	return nil
}

// Search returns every post whose video title or blog content contains the
// query, case-insensitively, in insertion order. An empty query matches
// everything.
func (s *BlogStore) Search(ctx context.Context, query string) []models.BlogPost {
	posts := s.GetAll(ctx)
	if query == "" {
		return posts
	}

	lower := strings.ToLower(query)
	matches := make([]models.BlogPost, 0, len(posts))
	for _, post := range posts {
		if strings.Contains(strings.ToLower(post.VideoTitle), lower) ||
			strings.Contains(strings.ToLower(post.BlogContent), lower) {
			matches = append(matches, post)
		}
	}
	return matches
}

// GetDomainSettings returns the single settings record, or nil when none has
// been saved or the stored payload is corrupt.
func (s *BlogStore) GetDomainSettings(ctx context.Context) *models.DomainSettings {
	data, ok, err := s.kv.Get(ctx, domainKey)
	if err != nil || !ok {
		if err != nil {
			s.logger.Warn().Err(err).Msg("reading domain settings failed, treating as absent")
		}
		return nil
	}

	var settings models.DomainSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		s.logger.Warn().Err(err).Msg("domain settings corrupt, treating as absent")
		return nil
	}
	return &settings
}

// SaveDomainSettings overwrites the settings record entirely (no merge) after
// deriving IsActive from the domain fields.
func (s *BlogStore) SaveDomainSettings(ctx context.Context, settings models.DomainSettings) error {
	settings.Normalize()

	data, err := json.Marshal(settings)
	if err != nil {
		return errs.NewInternalErrorWithCause("encode domain settings", err)
	}
	if err := s.kv.Set(ctx, domainKey, data); err != nil {
		return errs.NewStorageUnavailableError("save domain settings", err)
	}
	return nil
}

// ClearAll removes both storage keys. Test and reset paths only; not exposed
// to end users in the normal flow.
func (s *BlogStore) ClearAll(ctx context.Context) error {
	if err := s.kv.Delete(ctx, blogsKey); err != nil {
		return errs.NewStorageUnavailableError("clear blogs", err)
	}
	if err := s.kv.Delete(ctx, domainKey); err != nil {
		return errs.NewStorageUnavailableError("clear domain settings", err)
	}
	return nil
}

func (s *BlogStore) writeAll(ctx context.Context, posts []models.BlogPost) error {
	data, err := json.Marshal(posts)
	if err != nil {
		return errs.NewInternalErrorWithCause("encode blog collection", err)
	}
	if err := s.kv.Set(ctx, blogsKey, data); err != nil {
		return errs.NewStorageUnavailableError("write blog collection", err)
	}
	return nil
}
