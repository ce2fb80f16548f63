package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

// Entry is one asset in the manifest.
type Entry struct {
	ID          string   `json:"id"`
	URL         string   `json:"url"`
	Name        string   `json:"name"`
	Keywords    []string `json:"keywords"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
}

type manifest struct {
	Models []Entry `json:"models"`
}

// Source loads the raw manifest bytes.
type Source interface {
	LoadManifest(ctx context.Context) ([]byte, error)
}

// Cache holds the manifest for the lifetime of the process. The first
// caller triggers the load; concurrent callers share that load via
// singleflight. A failed load is not cached, so the next request
// retries.
type Cache struct {
	log    *logger.Logger
	source Source

	group   singleflight.Group
	mu      sync.RWMutex
	entries []Entry
	loaded  bool
}

func NewCache(log *logger.Logger, source Source) *Cache {
	return &Cache{
		log:    log.With("service", "CatalogCache"),
		source: source,
	}
}

// Entries returns the cached manifest, loading it on first use.
func (c *Cache) Entries(ctx context.Context) ([]Entry, error) {
	c.mu.RLock()
	if c.loaded {
		e := c.entries
		c.mu.RUnlock()
		return e, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("manifest", func() (any, error) {
		c.mu.RLock()
		if c.loaded {
			e := c.entries
			c.mu.RUnlock()
			return e, nil
		}
		c.mu.RUnlock()

		entries, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries = entries
		c.loaded = true
		c.mu.Unlock()
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Entry), nil
}

func (c *Cache) load(ctx context.Context) ([]Entry, error) {
	raw, err := c.source.LoadManifest(ctx)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	entries := make([]Entry, 0, len(m.Models))
	for i, e := range m.Models {
		if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.URL) == "" {
			c.log.Warn("Skipping manifest entry without id or url", "index", i, "name", e.Name)
			continue
		}
		entries = append(entries, e)
	}
	c.log.Info("Loaded asset manifest", "entries", len(entries))
	return entries, nil
}
