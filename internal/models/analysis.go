package models

import "time"

// AnalysisType identifies which analyzer produced a result.
const (
	AnalysisTypeSpreadsheet = "spreadsheet"
	AnalysisTypeDocument    = "document"
	AnalysisTypeCombined    = "combined"
	AnalysisTypeAI          = "ai"
)

// SummaryCard is one headline metric tile on the dashboard.
type SummaryCard struct {
	Title    string `json:"title"`
	Value    string `json:"value"`
	Subtitle string `json:"subtitle"`
	Icon     string `json:"icon"`
}

// ChartSpec describes one chart. Data carries a Plotly-shaped figure
// ("data" traces plus "layout") that is handed verbatim to the plotting
// capability; the backend never interprets it beyond construction.
type ChartSpec struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Type  string         `json:"type,omitempty"`
	Data  map[string]any `json:"data"`
}

// Insight severity levels.
const (
	InsightSuccess = "success"
	InsightWarning = "warning"
	InsightInfo    = "info"
	InsightError   = "error"
)

// Insight is a single textual finding shown below the charts.
type Insight struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// AnalysisResult is the dashboard payload produced by the report generator
// and consumed by the renderer. Field names are part of the wire format, so
// stored results stay replayable.
type AnalysisResult struct {
	SummaryCards []SummaryCard  `json:"summary_cards"`
	Charts       []ChartSpec    `json:"charts"`
	Insights     []Insight      `json:"insights"`
	RawData      map[string]any `json:"raw_data"`
	AnalysisType string         `json:"analysis_type"`
	AIAnalysis   map[string]any `json:"ai_analysis,omitempty"`
}

// UploadResponse is the envelope returned by the upload endpoints.
type UploadResponse struct {
	Success        bool            `json:"success"`
	Data           *AnalysisResult `json:"data,omitempty"`
	Error          string          `json:"error,omitempty"`
	AnalysisID     string          `json:"analysis_id,omitempty"`
	AnalysisType   string          `json:"analysis_type,omitempty"`
	FilesProcessed int             `json:"files_processed,omitempty"`
}

// AnalysisRecord is a completed analysis retained for replay and export.
type AnalysisRecord struct {
	ID        string          `json:"id"`
	FileName  string          `json:"fileName"`
	CreatedAt time.Time       `json:"createdAt"`
	Result    *AnalysisResult `json:"result"`
}

// AnalysisSummary is the listing form of a record (no payload).
type AnalysisSummary struct {
	ID           string    `json:"id"`
	FileName     string    `json:"fileName"`
	AnalysisType string    `json:"analysisType"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Summary returns the listing form of r.
func (r *AnalysisRecord) Summary() AnalysisSummary {
	s := AnalysisSummary{
		ID:        r.ID,
		FileName:  r.FileName,
		CreatedAt: r.CreatedAt,
	}
	if r.Result != nil {
		s.AnalysisType = r.Result.AnalysisType
	}
	return s
}
