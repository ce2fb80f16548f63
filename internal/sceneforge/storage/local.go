package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

const manifestName = "manifest.json"

// Local keeps everything under a single directory. Audio and previews
// are written beneath it and served back through the /static route, so
// returned URLs are only reachable while the server is running.
type Local struct {
	log     *logger.Logger
	root    string
	baseURL string
}

var _ Store = (*Local)(nil)

func NewLocal(log *logger.Logger, root, baseURL string) (*Local, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("local storage root required")
	}
	for _, dir := range []string{root, filepath.Join(root, "audio"), filepath.Join(root, "previews")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
		}
	}
	return &Local{
		log:     log.With("service", "LocalStorage", "root", root),
		root:    root,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}, nil
}

func (l *Local) LoadManifest(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.root, manifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return data, nil
}

func (l *Local) SaveAudio(ctx context.Context, name string, data []byte) (string, error) {
	// Names come from model-chosen ids; never let them escape the dir.
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(l.root, "audio", name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}
	return l.baseURL + "/static/audio/" + name, nil
}

func (l *Local) SavePreview(ctx context.Context, name string, data []byte) (string, error) {
	name = filepath.Base(name)
	if err := os.WriteFile(filepath.Join(l.root, "previews", name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write preview file: %w", err)
	}
	return l.baseURL + "/static/previews/" + name, nil
}

// Healthy reports whether the manifest is present, matching what the
// health endpoint promises about the catalog.
func (l *Local) Healthy(ctx context.Context) bool {
	_, err := os.Stat(filepath.Join(l.root, manifestName))
	return err == nil
}
