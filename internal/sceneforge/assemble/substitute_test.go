package assemble

import (
	"strings"
	"testing"
)

func TestEmbedAudioReplacesEveryOccurrence(t *testing.T) {
	url := "https://files.example.com/audio/m1.mp3"
	html := `<audio src="` + url + `"></audio><a href="` + url + `">download</a>`
	urls := map[string]string{"m1": url}
	encoded := map[string]string{"m1": "data:audio/mpeg;base64,AAAA"}

	got := EmbedAudio(html, urls, encoded)
	if strings.Contains(got, url) {
		t.Fatalf("storage url still present:\n%s", got)
	}
	if strings.Count(got, "data:audio/mpeg;base64,AAAA") != 2 {
		t.Fatalf("expected both occurrences replaced:\n%s", got)
	}
}

func TestEmbedAudioLeavesUnencodedURLs(t *testing.T) {
	html := `<audio src="https://files.example.com/audio/a.mp3"></audio><audio src="https://files.example.com/audio/b.mp3"></audio>`
	urls := map[string]string{
		"a": "https://files.example.com/audio/a.mp3",
		"b": "https://files.example.com/audio/b.mp3",
	}
	encoded := map[string]string{"a": "data:audio/mpeg;base64,QQ=="}

	got := EmbedAudio(html, urls, encoded)
	if strings.Contains(got, "audio/a.mp3") {
		t.Fatalf("encoded url should be replaced:\n%s", got)
	}
	if !strings.Contains(got, "audio/b.mp3") {
		t.Fatalf("unencoded url should stay:\n%s", got)
	}
}

func TestEmbedAudioNoEntries(t *testing.T) {
	html := "<html><body>nothing</body></html>"
	if got := EmbedAudio(html, nil, nil); got != html {
		t.Fatalf("document changed with no audio: %q", got)
	}
}
