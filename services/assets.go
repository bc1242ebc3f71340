package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yaskovbs/tube2blog-backend/errs"
)

// AssetStore persists generated media (images, clips, audio) and returns a
// URL the frontend can serve.
type AssetStore interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// S3AssetStore uploads generated media to an S3 bucket.
type S3AssetStore struct {
	client *s3.Client
	bucket string
	region string
	logger zerolog.Logger
}

func NewS3AssetStore(ctx context.Context, bucket string) (*S3AssetStore, error) {
	if bucket == "" {
		return nil, errs.NewInvalidInputError("bucket", "asset bucket name is missing")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errs.NewServiceUnavailableError("S3", err)
	}

	return &S3AssetStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: cfg.Region,
		logger: log.With().Str("component", "s3AssetStore").Logger(),
	}, nil
}

func (s *S3AssetStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := assetKey(name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errs.NewServiceUnavailableError("S3", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	s.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("uploaded asset")
	return url, nil
}

// LocalAssetStore writes media into a directory served as static files.
// Development fallback when no bucket is configured.
type LocalAssetStore struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

func NewLocalAssetStore(dir, baseURL string) (*LocalAssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errs.NewStorageUnavailableError("create asset directory", err)
	}
	return &LocalAssetStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.With().Str("component", "localAssetStore").Logger(),
	}, nil
}

func (l *LocalAssetStore) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := assetKey(name)
	if err := os.WriteFile(filepath.Join(l.dir, key), data, 0o644); err != nil {
		return "", errs.NewStorageUnavailableError("write asset", err)
	}
	l.logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("stored asset")
	return l.baseURL + "/" + key, nil
}

// assetKey makes keys collision-free while keeping the original extension so
// content sniffing stays unnecessary.
func assetKey(name string) string {
	ext := filepath.Ext(name)
	return uuid.NewString() + ext
}
