package narration

import (
	"context"
	"encoding/base64"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/sceneforge-backend/internal/clients/elevenlabs"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

// AudioResult holds the stored reference and the inlined data URI for
// every item synthesized. An id present in URLs is always present in
// Base64; items that failed are absent from both.
type AudioResult struct {
	URLs   map[string]string
	Base64 map[string]string
}

// AudioStore persists synthesized audio bytes under a name.
type AudioStore interface {
	SaveAudio(ctx context.Context, name string, data []byte) (string, error)
}

// Synthesizer converts narrations to speech and stores the result.
// Concurrency defaults to one in-flight request to stay friendly to
// TTS rate limits; raise it via config when the account allows.
type Synthesizer struct {
	tts   *elevenlabs.Client
	store AudioStore
	limit int
	log   *logger.Logger
}

func NewSynthesizer(log *logger.Logger, tts *elevenlabs.Client, store AudioStore, limit int) *Synthesizer {
	if limit <= 0 {
		limit = 1
	}
	return &Synthesizer{
		tts:   tts,
		store: store,
		limit: limit,
		log:   log.With("service", "AudioSynth"),
	}
}

// Synthesize produces audio for each narration. When the TTS client is
// not configured this is a no-op returning empty maps. Per-item
// failures are logged and skipped; the stage itself never fails.
func (s *Synthesizer) Synthesize(ctx context.Context, narrations map[string]string) AudioResult {
	result := AudioResult{
		URLs:   make(map[string]string),
		Base64: make(map[string]string),
	}
	if !s.tts.Enabled() {
		s.log.Info("TTS not configured, skipping audio synthesis")
		return result
	}

	ids := make([]string, 0, len(narrations))
	for id := range narrations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.limit)
	for _, id := range ids {
		text := narrations[id]
		g.Go(func() error {
			audio, err := s.tts.Synthesize(ctx, text)
			if err != nil {
				s.log.Warn("Audio synthesis failed, skipping item", "item_id", id, "error", err)
				return nil
			}
			url, err := s.store.SaveAudio(ctx, id+".mp3", audio)
			if err != nil {
				s.log.Warn("Audio upload failed, skipping item", "item_id", id, "error", err)
				return nil
			}
			mu.Lock()
			result.URLs[id] = url
			result.Base64[id] = "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	s.log.Info("Audio synthesis complete", "synthesized", len(result.URLs), "requested", len(narrations))
	return result
}
