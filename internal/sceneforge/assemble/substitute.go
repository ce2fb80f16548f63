package assemble

import (
	"sort"
	"strings"
)

// EmbedAudio replaces every storage URL that has an encoded counterpart
// with its data URI so the document plays narration offline. URLs with
// no encoded audio are left untouched.
func EmbedAudio(html string, urls, encoded map[string]string) string {
	ids := make([]string, 0, len(urls))
	for id := range urls {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		url := urls[id]
		dataURI, ok := encoded[id]
		if url == "" || !ok || dataURI == "" {
			continue
		}
		html = strings.ReplaceAll(html, url, dataURI)
	}
	return html
}
