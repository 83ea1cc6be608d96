// Package export builds the downloadable JSON report for a completed
// analysis.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pm-dashboard/backend/internal/models"
)

// Report is the exported document: timestamp, analyzed file and the
// result's summary, insights and raw analysis sections.
type Report struct {
	Timestamp    string               `json:"timestamp"`
	FileAnalyzed string               `json:"file_analyzed"`
	Summary      []models.SummaryCard `json:"summary"`
	Insights     []models.Insight     `json:"insights"`
	RawAnalysis  map[string]any       `json:"raw_analysis"`
}

// BuildReport shapes a result for export. A nil result yields nil so
// callers can treat "nothing to export" as a no-op. An empty file label
// is reported as "Unknown".
func BuildReport(fileLabel string, result *models.AnalysisResult, now time.Time) *Report {
	if result == nil {
		return nil
	}
	if fileLabel == "" {
		fileLabel = "Unknown"
	}
	return &Report{
		Timestamp:    now.Format(time.RFC3339),
		FileAnalyzed: fileLabel,
		Summary:      result.SummaryCards,
		Insights:     result.Insights,
		RawAnalysis:  result.RawData,
	}
}

// Filename returns the date-stamped report file name.
func Filename(now time.Time) string {
	return fmt.Sprintf("pm_analysis_report_%s.json", now.Format("2006-01-02"))
}

// Bytes renders the report as indented JSON.
func (r *Report) Bytes() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// WriteFile writes the report into dir using the date-stamped name and
// returns the full path.
func (r *Report) WriteFile(dir string, now time.Time) (string, error) {
	data, err := r.Bytes()
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, Filename(now))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
