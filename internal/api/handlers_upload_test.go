// handlers_upload_test.go - Tests for upload handlers
package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pm-dashboard/backend/internal/analyzer"
	"github.com/pm-dashboard/backend/internal/models"
	"github.com/pm-dashboard/backend/internal/report"
	"github.com/pm-dashboard/backend/internal/session"
	"github.com/pm-dashboard/backend/internal/testutil"
)

const tasksCSV = "Task,Status,Assignee\nDesign,Done,Alice\nBuild,Pending,Bob\n"

func newTestDeps(t *testing.T) *Dependencies {
	t.Helper()
	return &Dependencies{
		Store:       testutil.NewMockStorage(t.TempDir()),
		Sessions:    session.NewManager(),
		Spreadsheet: analyzer.NewSpreadsheetAnalyzer(t.TempDir(), 0, nil),
		Document:    analyzer.NewDocumentAnalyzer(),
		Generator:   report.NewGenerator(nil),
		Version:     "test",
	}
}

// multipartBody builds a multipart form with one part per file name under
// the given field.
func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		part.Write([]byte(content))
	}
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestUploadHandler_HandleUploadSingle(t *testing.T) {
	t.Run("csv upload returns dashboard payload", func(t *testing.T) {
		deps := newTestDeps(t)
		handlers := NewHandlers(deps)
		e := echo.New()

		body, contentType := multipartBody(t, "file", map[string]string{"tasks.csv": tasksCSV})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handlers.Upload.HandleUploadSingle(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		var resp models.UploadResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		if !resp.Success {
			t.Fatalf("expected success, got error %q", resp.Error)
		}
		if resp.AnalysisID == "" {
			t.Error("expected analysis_id")
		}
		if resp.AnalysisType != models.AnalysisTypeSpreadsheet {
			t.Errorf("unexpected type %s", resp.AnalysisType)
		}
		if resp.Data == nil || len(resp.Data.SummaryCards) == 0 {
			t.Error("expected summary cards in payload")
		}

		// Staged upload is removed after analysis
		if n := deps.Store.(*testutil.MockStorage).GetFileCount(); n != 0 {
			t.Errorf("expected staged file deleted, %d left", n)
		}
	})

	t.Run("missing file field", func(t *testing.T) {
		handlers := NewHandlers(newTestDeps(t))
		e := echo.New()

		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handlers.Upload.HandleUploadSingle(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}

		var resp models.UploadResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Success || resp.Error == "" {
			t.Errorf("expected failure envelope, got %+v", resp)
		}
	})

	t.Run("unsupported file type", func(t *testing.T) {
		handlers := NewHandlers(newTestDeps(t))
		e := echo.New()

		body, contentType := multipartBody(t, "file", map[string]string{"movie.mp4": "binary"})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handlers.Upload.HandleUploadSingle(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}

		var resp models.UploadResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.Success {
			t.Error("expected failure envelope")
		}
	})

	t.Run("document upload", func(t *testing.T) {
		handlers := NewHandlers(newTestDeps(t))
		e := echo.New()

		body, contentType := multipartBody(t, "file", map[string]string{
			"report.txt": "Project kickoff 2024-01-15. Setup completed. Review pending.",
		})
		req := httptest.NewRequest(http.MethodPost, "/upload", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handlers.Upload.HandleUploadSingle(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var resp models.UploadResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if !resp.Success || resp.AnalysisType != models.AnalysisTypeDocument {
			t.Errorf("expected document analysis, got %+v", resp)
		}
		if resp.Data == nil || resp.Data.AIAnalysis == nil {
			t.Error("expected ai_analysis payload for document uploads")
		}
	})
}

func TestUploadHandler_HandleUploadMultiple(t *testing.T) {
	t.Run("combines analyzable files and skips failures", func(t *testing.T) {
		deps := newTestDeps(t)
		handlers := NewHandlers(deps)
		e := echo.New()

		body, contentType := multipartBody(t, "files", map[string]string{
			"a.csv":     tasksCSV,
			"b.csv":     tasksCSV,
			"movie.mp4": "binary",
		})
		req := httptest.NewRequest(http.MethodPost, "/upload-multiple", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handlers.Upload.HandleUploadMultiple(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var resp models.UploadResponse
		json.Unmarshal(rec.Body.Bytes(), &resp)
		if !resp.Success {
			t.Fatalf("expected success, got %q", resp.Error)
		}
		if resp.FilesProcessed != 2 {
			t.Errorf("expected 2 files processed, got %d", resp.FilesProcessed)
		}
		if resp.AnalysisType != models.AnalysisTypeCombined {
			t.Errorf("unexpected type %s", resp.AnalysisType)
		}
	})

	t.Run("all files fail", func(t *testing.T) {
		handlers := NewHandlers(newTestDeps(t))
		e := echo.New()

		body, contentType := multipartBody(t, "files", map[string]string{"x.mp4": "nope"})
		req := httptest.NewRequest(http.MethodPost, "/upload-multiple", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handlers.Upload.HandleUploadMultiple(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("empty form", func(t *testing.T) {
		handlers := NewHandlers(newTestDeps(t))
		e := echo.New()

		body, contentType := multipartBody(t, "other", map[string]string{})
		req := httptest.NewRequest(http.MethodPost, "/upload-multiple", body)
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handlers.Upload.HandleUploadMultiple(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
