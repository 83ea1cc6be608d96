// routes.go - Route registration helpers
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/pm-dashboard/backend/internal/analyzer"
	"github.com/pm-dashboard/backend/internal/report"
	"github.com/pm-dashboard/backend/internal/session"
	"github.com/pm-dashboard/backend/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store       storage.Store
	Sessions    *session.Manager
	Spreadsheet *analyzer.SpreadsheetAnalyzer
	Document    *analyzer.DocumentAnalyzer
	Generator   *report.Generator
	Version     string
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Upload   UploadHandler
	Analysis AnalysisHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Version, deps.Sessions),
		Upload:   NewUploadHandler(deps.Store, deps.Sessions, deps.Spreadsheet, deps.Document, deps.Generator),
		Analysis: NewAnalysisHandler(deps.Sessions),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Upload endpoints consumed by the upload form
	e.POST("/upload", handlers.Upload.HandleUploadSingle)
	e.POST("/upload-multiple", handlers.Upload.HandleUploadMultiple)

	// Stored analysis routes
	analysisGroup := e.Group("/api/analysis")
	analysisGroup.GET("/recent", handlers.Analysis.HandleRecentAnalyses)
	analysisGroup.GET("/:id", handlers.Analysis.HandleGetAnalysis)
	analysisGroup.GET("/:id/msgpack", handlers.Analysis.HandleGetAnalysisMsgpack)
	analysisGroup.GET("/:id/report", handlers.Analysis.HandleDownloadReport)
	analysisGroup.DELETE("/:id", handlers.Analysis.HandleDeleteAnalysis)

	// Health check
	e.GET("/api/health", handlers.Health.HandleHealth)
}

// SetupMiddleware configures the custom error handler
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
}
