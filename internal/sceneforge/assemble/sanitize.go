package assemble

import "strings"

const (
	docTypeToken = "<!DOCTYPE html>"
	closingToken = "</html>"
)

// sanitize strips markdown fences and conversational chatter from a raw
// model response and guarantees the result is a complete HTML document.
// The returned string always starts with the doctype and ends with the
// closing html tag, or an error is returned.
func (a *Assembler) sanitize(raw string) (string, error) {
	out := strings.TrimSpace(raw)

	if strings.HasPrefix(out, "```html") {
		out = out[len("```html"):]
	} else if strings.HasPrefix(out, "```") {
		out = out[len("```"):]
	}
	if strings.HasSuffix(out, "```") {
		out = out[:len(out)-len("```")]
	}
	out = strings.TrimSpace(out)

	if !strings.HasPrefix(out, docTypeToken) {
		idx := strings.Index(out, docTypeToken)
		if idx < 0 {
			return "", &GenerationError{Reason: "model output does not contain an HTML document"}
		}
		out = out[idx:]
	}

	if !strings.HasSuffix(strings.TrimRight(out, " \t\r\n"), closingToken) {
		if idx := strings.LastIndex(out, closingToken); idx >= 0 {
			out = out[:idx+len(closingToken)]
		} else {
			repaired, ok := repairTruncated(out)
			if !ok {
				return "", &GenerationError{Reason: "model output is missing the closing html tag"}
			}
			a.log.Warn("Model output truncated, repaired closing tags", "size_bytes", len(repaired))
			out = repaired
		}
	}

	return out, nil
}

// repairTruncated closes the tags a truncated document left open. It
// reports false when the text carries nothing recognizable to close.
func repairTruncated(html string) (string, bool) {
	var closers []string
	if strings.Count(html, "<script") > strings.Count(html, "</script>") {
		closers = append(closers, "\n</script>")
	}
	if strings.Contains(html, "<body") && !strings.Contains(html, "</body>") {
		closers = append(closers, "\n</body>")
	}
	if len(closers) == 0 && !strings.Contains(html, "<html") {
		return "", false
	}
	closers = append(closers, "\n"+closingToken)
	return html + strings.Join(closers, ""), true
}
