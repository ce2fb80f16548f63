package assemble

import (
	"strings"
	"unicode"
)

const filenameStemLimit = 50

// Filename derives a download filename from a scene title. Runes outside
// letters, digits, spaces, hyphens and underscores become underscores,
// spaces become underscores, and the stem is capped at 50 runes before
// the suffix is attached.
func Filename(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	stem := strings.ReplaceAll(b.String(), " ", "_")
	if runes := []rune(stem); len(runes) > filenameStemLimit {
		stem = string(runes[:filenameStemLimit])
	}
	return stem + "_3D.html"
}
