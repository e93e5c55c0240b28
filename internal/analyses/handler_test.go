package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func multipartUpload(t *testing.T, fileName string, fileData []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(fileData); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var out struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("unmarshal error body %q: %v", body, err)
	}
	return out.Error.Code
}

func TestAnalyzeEndpointRequiresFile(t *testing.T) {
	r := newTestRouter(&Service{Analyzer: &Analyzer{}})

	body, contentType := multipartUpload(t, "", nil, map[string]string{"user_id": "u"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ats/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errorCode(t, rec.Body.Bytes()); code != "validation_error" {
		t.Fatalf("code = %q", code)
	}
}

func TestAnalyzeEndpointUnsupportedFormat(t *testing.T) {
	r := newTestRouter(&Service{Analyzer: &Analyzer{}})

	body, contentType := multipartUpload(t, "resume.txt", []byte("plain text resume"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ats/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if code := errorCode(t, rec.Body.Bytes()); code != "unsupported_format" {
		t.Fatalf("code = %q", code)
	}
}

func TestAnalyzeEndpointReturnsReport(t *testing.T) {
	repo := NewMemoryRepo()
	r := newTestRouter(&Service{Analyzer: &Analyzer{}, Repo: repo})

	data := docxBytes(t, "Jane Doe", "Backend engineer working with python and sql for several years now.")
	body, contentType := multipartUpload(t, "resume.docx", data, map[string]string{"user_id": "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ats/analyze", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var out struct {
		ID     string `json:"id"`
		Result Report `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.ID == "" {
		t.Fatalf("missing id in response: %s", rec.Body.String())
	}
	// Offline instance: heuristic report.
	if out.Result.Score != 55 || out.Result.Error != ErrorFallbackUsed {
		t.Fatalf("result = %+v", out.Result)
	}

	stored, err := repo.GetByID(context.Background(), out.ID)
	if err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if stored.UserID != "user-1" {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestHistoryEndpointList(t *testing.T) {
	repo := NewMemoryRepo()
	_ = repo.Create(context.Background(), Record{
		ID: "rec-1", UserID: "user-1", Score: 60,
		Report: DefaultReport(), CreatedAt: time.Now().UTC(),
	})
	r := newTestRouter(&Service{Analyzer: &Analyzer{}, Repo: repo})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ats/history?user_id=user-1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var out struct {
		History []Record `json:"history"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.History) != 1 || out.History[0].ID != "rec-1" {
		t.Fatalf("history = %+v", out.History)
	}
}

func TestHistoryEndpointNotFound(t *testing.T) {
	r := newTestRouter(&Service{Analyzer: &Analyzer{}, Repo: NewMemoryRepo()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ats/history/missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errorCode(t, rec.Body.Bytes()); code != "not_found" {
		t.Fatalf("code = %q", code)
	}
}
