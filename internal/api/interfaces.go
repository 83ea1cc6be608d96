// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// UploadHandler handles file upload and analysis operations
type UploadHandler interface {
	HandleUploadSingle(c echo.Context) error
	HandleUploadMultiple(c echo.Context) error
}

// AnalysisHandler handles stored analysis operations
type AnalysisHandler interface {
	HandleRecentAnalyses(c echo.Context) error
	HandleGetAnalysis(c echo.Context) error
	HandleGetAnalysisMsgpack(c echo.Context) error
	HandleDownloadReport(c echo.Context) error
	HandleDeleteAnalysis(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
