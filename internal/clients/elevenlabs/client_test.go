package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestEnabled(t *testing.T) {
	cases := []struct {
		name string
		key  string
		want bool
	}{
		{"empty", "", false},
		{"placeholder", "your_elevenlabs_api_key_here", false},
		{"real", "xi-0123456789", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ELEVENLABS_API_KEY", tc.key)
			c := NewFromEnv(testLogger(t))
			if got := c.Enabled(); got != tc.want {
				t.Fatalf("Enabled()=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestSynthesize(t *testing.T) {
	audio := []byte("ID3\x04fake-mp3-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/text-to-speech/voice-abc" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "xi-test" {
			t.Errorf("xi-api-key=%q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req["model_id"] != "eleven_monolingual_v1" {
			t.Errorf("model_id=%v", req["model_id"])
		}
		vs, _ := req["voice_settings"].(map[string]any)
		if vs == nil || vs["stability"] != 0.5 || vs["similarity_boost"] != 0.75 {
			t.Errorf("voice_settings=%v", vs)
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer srv.Close()

	t.Setenv("ELEVENLABS_API_KEY", "xi-test")
	t.Setenv("ELEVENLABS_BASE_URL", srv.URL)
	t.Setenv("ELEVENLABS_VOICE_ID", "voice-abc")

	c := NewFromEnv(testLogger(t))
	got, err := c.Synthesize(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !bytes.Equal(got, audio) {
		t.Fatalf("audio mismatch: got %d bytes", len(got))
	}
}

func TestSynthesizeErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	t.Setenv("ELEVENLABS_API_KEY", "xi-test")
	t.Setenv("ELEVENLABS_BASE_URL", srv.URL)

	c := NewFromEnv(testLogger(t))
	if _, err := c.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("want error for 429 response")
	}
}

func TestSynthesizeDisabled(t *testing.T) {
	t.Setenv("ELEVENLABS_API_KEY", "")
	c := NewFromEnv(testLogger(t))
	if _, err := c.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("want error when disabled")
	}
}
