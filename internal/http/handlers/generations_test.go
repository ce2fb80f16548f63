package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sceneforge-backend/internal/sceneforge/history"
)

func generationsRouter(t *testing.T, svc Generator) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewGenerationsHandler(testLogger(t), svc)
	r.GET("/api/v1/generations", h.List)
	return r
}

func TestGenerationsListsHistory(t *testing.T) {
	svc := &stubService{rows: []history.Generation{
		{Mode: "document", Title: "The Human Heart", Status: history.StatusCompleted},
		{Mode: "concepts", Title: "Water Cycle", Status: history.StatusFailed, ErrorCode: "CONCEPT_EXTRACTION_FAILED"},
	}}
	r := generationsRouter(t, svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/generations?limit=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var rows []history.Generation
	if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 || rows[0].Title != "The Human Heart" || rows[1].ErrorCode != "CONCEPT_EXTRACTION_FAILED" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestGenerationsRejectsBadLimit(t *testing.T) {
	r := generationsRouter(t, &stubService{})

	for _, bad := range []string{"0", "-1", "many"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/generations?limit="+bad, nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%q: status = %d", bad, rec.Code)
		}
		_, code := decodeError(t, rec)
		if code != "INVALID_REQUEST" {
			t.Fatalf("%q: error code = %q", bad, code)
		}
	}
}

func TestGenerationsEmptyWithoutStore(t *testing.T) {
	r := generationsRouter(t, &stubService{rows: []history.Generation{}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/generations", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != "[]" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
