// handlers_upload.go - Upload and analysis operation handlers
package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pm-dashboard/backend/internal/analyzer"
	"github.com/pm-dashboard/backend/internal/models"
	"github.com/pm-dashboard/backend/internal/report"
	"github.com/pm-dashboard/backend/internal/session"
	"github.com/pm-dashboard/backend/internal/storage"
)

var spreadsheetExts = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
	".json": true,
}

var documentExts = map[string]bool{
	".txt":  true,
	".md":   true,
	".log":  true,
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".ppt":  true,
	".pptx": true,
}

// UploadHandlerImpl implements the UploadHandler interface
type UploadHandlerImpl struct {
	store       storage.Store
	sessions    *session.Manager
	spreadsheet *analyzer.SpreadsheetAnalyzer
	document    *analyzer.DocumentAnalyzer
	generator   *report.Generator
}

// NewUploadHandler creates a new upload handler instance
func NewUploadHandler(store storage.Store, sessions *session.Manager, spreadsheet *analyzer.SpreadsheetAnalyzer, document *analyzer.DocumentAnalyzer, generator *report.Generator) UploadHandler {
	return &UploadHandlerImpl{
		store:       store,
		sessions:    sessions,
		spreadsheet: spreadsheet,
		document:    document,
		generator:   generator,
	}
}

// HandleUploadSingle accepts one file under the "file" form field, analyzes
// it and returns the dashboard payload in the response envelope.
func (h *UploadHandlerImpl) HandleUploadSingle(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return respondFailure(c, http.StatusBadRequest, "No file provided")
	}

	result, err := h.analyzeUpload(file)
	if err != nil {
		fmt.Printf("[Upload] Analysis of %s failed: %v\n", file.Filename, err)
		return respondFailure(c, http.StatusBadRequest, err.Error())
	}

	id := h.sessions.Put(file.Filename, result)
	fmt.Printf("[Upload] Analyzed %s (%s), stored as %s\n", file.Filename, result.AnalysisType, id[:8])

	return c.JSON(http.StatusOK, models.UploadResponse{
		Success:      true,
		Data:         result,
		AnalysisID:   id,
		AnalysisType: result.AnalysisType,
	})
}

// HandleUploadMultiple accepts files under the "files" form field and
// returns one combined dashboard. Files that fail to analyze are skipped;
// the request only fails when nothing could be analyzed.
func (h *UploadHandlerImpl) HandleUploadMultiple(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return respondFailure(c, http.StatusBadRequest, "No files provided")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return respondFailure(c, http.StatusBadRequest, "No files provided")
	}

	var names []string
	var results []*models.AnalysisResult
	var failures []string

	for _, file := range files {
		result, err := h.analyzeUpload(file)
		if err != nil {
			fmt.Printf("[Upload] Skipping %s: %v\n", file.Filename, err)
			failures = append(failures, fmt.Sprintf("%s: %v", file.Filename, err))
			continue
		}
		names = append(names, file.Filename)
		results = append(results, result)
	}

	if len(results) == 0 {
		return respondFailure(c, http.StatusBadRequest, strings.Join(failures, "; "))
	}

	combined := h.generator.GenerateCombined(names, results)
	id := h.sessions.Put(strings.Join(names, ", "), combined)
	fmt.Printf("[Upload] Combined %d/%d files, stored as %s\n", len(results), len(files), id[:8])

	return c.JSON(http.StatusOK, models.UploadResponse{
		Success:        true,
		Data:           combined,
		AnalysisID:     id,
		AnalysisType:   combined.AnalysisType,
		FilesProcessed: len(results),
	})
}

// analyzeUpload stages the file on disk, runs the matching analyzer and
// builds the dashboard. Staged files are removed once analyzed.
func (h *UploadHandlerImpl) analyzeUpload(file *multipart.FileHeader) (*models.AnalysisResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	info, err := h.store.Save(file.Filename, src)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	defer h.store.Delete(info.ID)

	path, err := h.store.GetFilePath(info.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to locate upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch {
	case spreadsheetExts[ext]:
		analysis, err := h.spreadsheet.Analyze(path, file.Filename)
		if err != nil {
			return nil, err
		}
		return h.generator.GenerateDashboard(analysis, models.AnalysisTypeSpreadsheet), nil
	case documentExts[ext]:
		analysis, err := h.document.Analyze(path, file.Filename)
		if err != nil {
			return nil, err
		}
		return h.generator.GenerateDashboard(analysis, models.AnalysisTypeDocument), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}
}

// respondFailure writes the failure envelope the frontend expects.
func respondFailure(c echo.Context, status int, message string) error {
	return c.JSON(status, models.UploadResponse{
		Success: false,
		Error:   message,
	})
}
