package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

type BucketService interface {
	UploadBytes(ctx context.Context, key string, data []byte) error
	ReadObject(ctx context.Context, key string) ([]byte, error)
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	bucket        string
	cdnDomain     string
}

func NewBucketService(ctx context.Context, log *logger.Logger, bucket, cdnDomain string) (BucketService, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("gcp: bucket name required")
	}

	storageCfg, err := ResolveObjectStorageConfigFromEnv()
	if err != nil {
		return nil, err
	}

	opts := ClientOptionsFromEnv()
	if storageCfg.IsEmulatorMode() {
		// The storage library routes to STORAGE_EMULATOR_HOST on its own.
		opts = append(opts, option.WithoutAuthentication())
	} else {
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
	}
	stClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog := log.With("service", "BucketService", "bucket", bucket)
	serviceLog.Info("object storage ready", "mode", string(storageCfg.Mode))

	return &bucketService{
		log:           serviceLog,
		storageClient: stClient,
		bucket:        bucket,
		cdnDomain:     strings.TrimSpace(cdnDomain),
	}, nil
}

func (bs *bucketService) UploadBytes(ctx context.Context, key string, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.bucket).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) ReadObject(ctx context.Context, key string) ([]byte, error) {
	r, err := bs.DownloadFile(ctx, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS object %q: %w", key, err)
	}
	return raw, nil
}

// The cancel must outlive this function: callers stream from the
// returned reader, so it is attached to Close() instead of deferred.
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (bs *bucketService) DownloadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)

	r, err := bs.storageClient.Bucket(bs.bucket).Object(key).NewReader(ctx2)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open GCS reader: %w", err)
	}
	return &readCloserWithCancel{ReadCloser: r, cancel: cancel}, nil
}

func (bs *bucketService) ObjectExists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := bs.storageClient.Bucket(bs.bucket).Object(key).Attrs(ctx)
	if err == storage.ErrObjectNotExist {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (bs *bucketService) PublicURL(key string) string {
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucket, key)
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if s == "" {
		return ""
	}
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".html"):
		return "text/html; charset=utf-8"
	case strings.HasSuffix(s, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".glb"):
		return "model/gltf-binary"
	case strings.HasSuffix(s, ".gltf"):
		return "model/gltf+json"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	default:
		return ""
	}
}
