package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yungbote/sceneforge-backend/internal/platform/logger"
)

// Supported upload media types. The whitelist is closed: anything else
// is rejected before extraction is attempted.
const (
	MimePDF  = "application/pdf"
	MimePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	MimeText = "text/plain"
)

type kind int

const (
	kindUnknown kind = iota
	kindPDF
	kindPPTX
	kindText
)

// ErrEmptyDocument reports that extraction succeeded but produced no text.
var ErrEmptyDocument = errors.New("document contains no extractable text")

type UnsupportedTypeError struct {
	Name        string
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: name=%s mime=%s (supported: pdf, pptx, plain text)", e.Name, e.ContentType)
}

type TooLargeError struct {
	Size  int64
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("file too large: size=%d limit=%d", e.Size, e.Limit)
}

type ExtractError struct {
	Name string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("text extraction failed: name=%s: %v", e.Name, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

type Extractor struct {
	log      *logger.Logger
	maxBytes int64
}

func NewExtractor(log *logger.Logger, maxBytes int64) *Extractor {
	return &Extractor{
		log:      log.With("service", "DocumentExtractor"),
		maxBytes: maxBytes,
	}
}

// Validate enforces the media-type whitelist and the size cap. It runs
// before any bytes are parsed so oversized or foreign uploads fail fast.
func (e *Extractor) Validate(name, contentType string, size int64) error {
	if resolveKind(name, contentType) == kindUnknown {
		return &UnsupportedTypeError{Name: name, ContentType: contentType}
	}
	if e.maxBytes > 0 && size > e.maxBytes {
		return &TooLargeError{Size: size, Limit: e.maxBytes}
	}
	return nil
}

func resolveKind(name, contentType string) kind {
	mt := normalizeMediaType(contentType)
	switch mt {
	case MimePDF:
		return kindPDF
	case MimePPTX:
		return kindPPTX
	case MimeText:
		return kindText
	}

	// Browsers sometimes send generic types; fall back to the extension.
	if mt == "" || mt == "application/octet-stream" {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".pdf":
			return kindPDF
		case ".pptx":
			return kindPPTX
		case ".txt", ".md":
			return kindText
		}
	}
	return kindUnknown
}

func normalizeMediaType(contentType string) string {
	mt := contentType
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = mt[:i]
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
