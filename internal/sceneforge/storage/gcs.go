package storage

import (
	"context"
	"path"

	"github.com/yungbote/sceneforge-backend/internal/clients/gcp"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

const (
	audioPrefix   = "audio/"
	previewPrefix = "previews/"
)

// GCS stores artifacts in a bucket and hands out public (or CDN) URLs.
type GCS struct {
	log    *logger.Logger
	bucket gcp.BucketService
}

var _ Store = (*GCS)(nil)

func NewGCS(log *logger.Logger, bucket gcp.BucketService) *GCS {
	return &GCS{log: log.With("service", "GCSStorage"), bucket: bucket}
}

func (g *GCS) LoadManifest(ctx context.Context) ([]byte, error) {
	return g.bucket.ReadObject(ctx, manifestName)
}

func (g *GCS) SaveAudio(ctx context.Context, name string, data []byte) (string, error) {
	key := audioPrefix + path.Base(name)
	if err := g.bucket.UploadBytes(ctx, key, data); err != nil {
		return "", err
	}
	return g.bucket.PublicURL(key), nil
}

func (g *GCS) SavePreview(ctx context.Context, name string, data []byte) (string, error) {
	key := previewPrefix + path.Base(name)
	if err := g.bucket.UploadBytes(ctx, key, data); err != nil {
		return "", err
	}
	return g.bucket.PublicURL(key), nil
}

func (g *GCS) Healthy(ctx context.Context) bool {
	ok, err := g.bucket.ObjectExists(ctx, manifestName)
	if err != nil {
		g.log.Warn("Manifest existence check failed", "error", err)
		return false
	}
	return ok
}
