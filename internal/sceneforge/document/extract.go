package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// Extract sniffs the true container format from the bytes, then pulls
// plain text out of it. Pages and slides keep positional markers so the
// analysis stage can reason about document structure.
func (e *Extractor) Extract(name, contentType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyDocument
	}

	k := resolveKind(name, contentType)

	var (
		text string
		err  error
	)
	switch {
	case isPDF(data):
		text, err = e.extractPDF(name, data)
	case isZip(data):
		text, err = e.extractPPTX(name, data)
	case k == kindPDF:
		// Claimed PDF without the magic header is corrupt, not plain text.
		return "", &ExtractError{Name: name, Err: fmt.Errorf("missing %%PDF header, head=%s", firstBytesHex(data, 16))}
	case k == kindPPTX:
		return "", &ExtractError{Name: name, Err: fmt.Errorf("not a valid zip container, head=%s", firstBytesHex(data, 16))}
	case isProbablyText(data):
		text = string(data)
	default:
		return "", &ExtractError{Name: name, Err: fmt.Errorf("binary content where plain text was claimed, head=%s", firstBytesHex(data, 16))}
	}
	if err != nil {
		return "", err
	}

	text = normalizeText(text)
	if text == "" {
		return "", ErrEmptyDocument
	}
	e.log.Debug("document text extracted", "name", name, "chars", len(text))
	return text, nil
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func isProbablyText(b []byte) bool {
	sample := b[:min(len(b), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func firstBytesHex(b []byte, n int) string {
	n = min(len(b), n)
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, hexdigits[b[i]>>4], hexdigits[b[i]&0x0f])
	}
	return string(out)
}

func (e *Extractor) extractPDF(name string, data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractError{Name: name, Err: fmt.Errorf("pdf reader: %w", err)}
	}

	var out strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			// One unreadable page should not sink the document.
			e.log.Warn("pdf page unreadable, skipping", "name", name, "page", i, "error", err)
			continue
		}
		fmt.Fprintf(&out, "--- Page %d ---\n%s\n", i, pageText)
	}
	if out.Len() == 0 {
		return "", &ExtractError{Name: name, Err: fmt.Errorf("no readable pages (total=%d)", total)}
	}
	return out.String(), nil
}

func (e *Extractor) extractPPTX(name string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractError{Name: name, Err: fmt.Errorf("zip reader: %w", err)}
	}

	type slide struct {
		index int
		file  *zip.File
	}
	slides := []slide{}
	for _, f := range zr.File {
		idx, ok := slideIndex(f.Name)
		if !ok {
			continue
		}
		slides = append(slides, slide{index: idx, file: f})
	}
	if len(slides) == 0 {
		return "", &ExtractError{Name: name, Err: fmt.Errorf("zip has no ppt/slides entries")}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].index < slides[j].index })

	var out strings.Builder
	for _, s := range slides {
		rc, err := s.file.Open()
		if err != nil {
			return "", &ExtractError{Name: name, Err: fmt.Errorf("open %s: %w", s.file.Name, err)}
		}
		raw, _ := io.ReadAll(rc)
		_ = rc.Close()
		fmt.Fprintf(&out, "--- Slide %d ---\n%s\n", s.index, textElements(raw))
	}
	return out.String(), nil
}

// slideIndex parses N out of "ppt/slides/slideN.xml".
func slideIndex(zipName string) (int, bool) {
	const prefix = "ppt/slides/slide"
	if !strings.HasPrefix(zipName, prefix) || !strings.HasSuffix(zipName, ".xml") {
		return 0, false
	}
	numPart := strings.TrimSuffix(strings.TrimPrefix(zipName, prefix), ".xml")
	idx, err := strconv.Atoi(numPart)
	if err != nil || idx <= 0 {
		return 0, false
	}
	return idx, true
}

// textElements walks the slide XML collecting every <a:t> run.
func textElements(xmlBytes []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "t" {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

// normalizeText collapses runs of spaces within lines and runs of blank
// lines between them, preserving the page and slide markers.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
				blank = true
			}
			continue
		}
		out = append(out, line)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
