package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yungbote/sceneforge-backend/internal/platform/envutil"
	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

const (
	defaultVoiceID = "EXAVITQu4vr4xnSDxMaL"
	modelID        = "eleven_monolingual_v1"

	// Keys that still carry the template placeholder count as unset.
	placeholderMarker = "your_elevenlabs_api_key"
)

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type synthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type elevenLabsHTTPError struct {
	StatusCode int
	Body       string
}

func (e *elevenLabsHTTPError) Error() string {
	return fmt.Sprintf("elevenlabs http %d: %s", e.StatusCode, e.Body)
}

func (e *elevenLabsHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// Client speaks to the ElevenLabs text-to-speech API. A client built
// without a usable key reports Enabled() == false and callers skip
// audio synthesis entirely.
type Client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	voiceID    string
	httpClient *http.Client
}

func NewFromEnv(log *logger.Logger) *Client {
	apiKey := strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY"))
	baseURL := strings.TrimRight(envutil.String("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"), "/")
	voiceID := envutil.String("ELEVENLABS_VOICE_ID", defaultVoiceID)
	timeout := envutil.Seconds("ELEVENLABS_TIMEOUT_SECONDS", 30*time.Second)

	return &Client{
		log:        log.With("service", "ElevenLabsClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		voiceID:    voiceID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Enabled() bool {
	if c == nil {
		return false
	}
	if c.apiKey == "" {
		return false
	}
	return !strings.Contains(strings.ToLower(c.apiKey), placeholderMarker)
}

// Synthesize renders text to MP3 bytes with the configured voice.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("elevenlabs: client disabled")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("elevenlabs: empty text")
	}

	body := synthesizeRequest{
		Text:    text,
		ModelID: modelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, c.voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(raw)
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, &elevenLabsHTTPError{StatusCode: resp.StatusCode, Body: snippet}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("elevenlabs: empty audio response")
	}
	return raw, nil
}
