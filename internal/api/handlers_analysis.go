// handlers_analysis.go - Stored analysis replay, export and listing handlers
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pm-dashboard/backend/internal/export"
	"github.com/pm-dashboard/backend/internal/session"
	"github.com/vmihailenco/msgpack/v5"
)

// AnalysisHandlerImpl implements the AnalysisHandler interface
type AnalysisHandlerImpl struct {
	sessions *session.Manager
}

// NewAnalysisHandler creates a new analysis handler instance
func NewAnalysisHandler(sessions *session.Manager) AnalysisHandler {
	return &AnalysisHandlerImpl{sessions: sessions}
}

// HandleRecentAnalyses returns summaries of retained analyses, newest first
func (h *AnalysisHandlerImpl) HandleRecentAnalyses(c echo.Context) error {
	return c.JSON(http.StatusOK, h.sessions.Recent(20))
}

// HandleGetAnalysis replays a stored analysis as JSON
func (h *AnalysisHandlerImpl) HandleGetAnalysis(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	record, ok := h.sessions.Get(id)
	if !ok {
		return NewNotFoundError("analysis", id)
	}

	return c.JSON(http.StatusOK, record)
}

// HandleGetAnalysisMsgpack replays a stored analysis in msgpack encoding,
// a smaller payload for dashboards polling large results.
func (h *AnalysisHandlerImpl) HandleGetAnalysisMsgpack(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	record, ok := h.sessions.Get(id)
	if !ok {
		return NewNotFoundError("analysis", id)
	}

	data, err := msgpack.Marshal(record.Result)
	if err != nil {
		return NewInternalError("failed to encode analysis", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleDownloadReport serves the date-stamped JSON report as an attachment
func (h *AnalysisHandlerImpl) HandleDownloadReport(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	record, ok := h.sessions.Get(id)
	if !ok {
		return NewNotFoundError("analysis", id)
	}

	now := time.Now()
	report := export.BuildReport(record.FileName, record.Result, now)
	if report == nil {
		return NewNotFoundError("analysis result", id)
	}

	data, err := report.Bytes()
	if err != nil {
		return NewInternalError("failed to encode report", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", export.Filename(now)))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// HandleDeleteAnalysis removes a stored analysis
func (h *AnalysisHandlerImpl) HandleDeleteAnalysis(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if !h.sessions.Delete(id) {
		return NewNotFoundError("analysis", id)
	}

	return c.NoContent(http.StatusNoContent)
}
