package pipeline

import (
	"errors"
	"net/http"

	"github.com/yungbote/sceneforge-backend/internal/platform/apierr"
	"github.com/yungbote/sceneforge-backend/internal/sceneforge/document"
)

// Stable error codes surfaced in response bodies. Clients key retry and
// messaging behavior off these, so they never change meaning.
const (
	CodeUnsupportedFileType     = "UNSUPPORTED_FILE_TYPE"
	CodeFileTooLarge            = "FILE_TOO_LARGE"
	CodeExtractionFailed        = "EXTRACTION_FAILED"
	CodeEmptyDocument           = "EMPTY_DOCUMENT"
	CodeAnalysisFailed          = "ANALYSIS_FAILED"
	CodeConceptExtractionFailed = "CONCEPT_EXTRACTION_FAILED"
	CodeNoMatchingModels        = "NO_MATCHING_MODELS"
	CodeHTMLGenerationFailed    = "HTML_GENERATION_FAILED"
	CodeManifestUnavailable     = "MANIFEST_UNAVAILABLE"
)

// classifyDocumentError maps validation and extraction failures onto
// the API error surface, keeping the original response wording.
func classifyDocumentError(err error) *apierr.Error {
	var unsupported *document.UnsupportedTypeError
	if errors.As(err, &unsupported) {
		return apierr.Newf(http.StatusBadRequest, CodeUnsupportedFileType,
			"Unsupported file type: %s", unsupported.ContentType)
	}

	var tooLarge *document.TooLargeError
	if errors.As(err, &tooLarge) {
		return apierr.Newf(http.StatusRequestEntityTooLarge, CodeFileTooLarge,
			"File too large. Maximum size: %dMB", tooLarge.Limit>>20)
	}

	if errors.Is(err, document.ErrEmptyDocument) {
		return apierr.Newf(http.StatusUnprocessableEntity, CodeEmptyDocument,
			"No text content found in document")
	}

	return apierr.New(http.StatusUnprocessableEntity, CodeExtractionFailed, err)
}

// errorCode extracts the stable code for history rows; non-API errors
// collapse to an internal marker.
func errorCode(err error) string {
	var apiErr *apierr.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return "INTERNAL"
}
