// Package storage persists generated audio and preview posters and
// serves the asset manifest, either from a local directory or GCS.
package storage

import (
	"context"
	"strings"

	"github.com/yungbote/sceneforge-backend/internal/clients/gcp"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/config"
)

// Store is the blob backend the generation pipeline works against.
type Store interface {
	LoadManifest(ctx context.Context) ([]byte, error)
	SaveAudio(ctx context.Context, name string, data []byte) (string, error)
	SavePreview(ctx context.Context, name string, data []byte) (string, error)
	Healthy(ctx context.Context) bool
}

// New selects the backend for cfg.Mode. Anything other than "gcs" falls
// back to local disk.
func New(ctx context.Context, log *logger.Logger, cfg config.StorageConfig) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Mode)) {
	case "gcs":
		bucket, err := gcp.NewBucketService(ctx, log, cfg.Bucket, cfg.CDNDomain)
		if err != nil {
			return nil, err
		}
		return NewGCS(log, bucket), nil
	default:
		return NewLocal(log, cfg.LocalRoot, cfg.PublicBaseURL)
	}
}
