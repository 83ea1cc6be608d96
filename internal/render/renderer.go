// Package render turns an analysis result into the view model the
// dashboard screen displays.
package render

import (
	"encoding/json"
	"fmt"

	"github.com/pm-dashboard/backend/internal/models"
)

// Plotter draws one chart figure into a named container. Implementations
// wrap whatever charting capability the host environment offers; a nil
// Plotter skips chart drawing entirely.
type Plotter interface {
	Plot(containerID string, figure map[string]any) error
}

// CardView is a rendered summary card.
type CardView struct {
	Title    string
	Value    string
	Subtitle string
	Icon     string
}

// ChartView records one chart container and whether its figure was drawn.
type ChartView struct {
	ContainerID string
	Title       string
	Plotted     bool
}

// InsightView is a rendered insight line.
type InsightView struct {
	Severity string
	Icon     string
	Title    string
	Message  string
}

// AIPanel is the document analysis panel. Missing fields carry the
// fallback strings rather than empty text.
type AIPanel struct {
	ProjectName string
	ProjectType string
	Status      string
	Description string
	Method      string
	Confidence  float64
	KeyInsights []string
}

// Dashboard is the fully rendered view model. Render builds a fresh one
// on every call so stale widgets from a previous result never linger.
type Dashboard struct {
	Cards      []CardView
	Charts     []ChartView
	Insights   []InsightView
	RawSummary string
	AIPanel    *AIPanel
}

// NoInsightsPlaceholder is shown when an analysis produced no findings.
const NoInsightsPlaceholder = "No insights available for this dataset."

// Renderer builds dashboards from analysis results.
type Renderer struct {
	plotter Plotter
}

// NewRenderer creates a renderer. plotter may be nil.
func NewRenderer(plotter Plotter) *Renderer {
	return &Renderer{plotter: plotter}
}

// Render builds the complete view model for result. Chart containers get
// unique IDs derived from the chart spec so repeated renders and combined
// reports never collide.
func (r *Renderer) Render(result *models.AnalysisResult) *Dashboard {
	if result == nil {
		return &Dashboard{RawSummary: "{}"}
	}

	d := &Dashboard{}

	for _, card := range result.SummaryCards {
		d.Cards = append(d.Cards, CardView{
			Title:    card.Title,
			Value:    card.Value,
			Subtitle: card.Subtitle,
			Icon:     CardIcon(card.Icon),
		})
	}

	for _, spec := range result.Charts {
		view := ChartView{
			ContainerID: "chart-" + spec.ID,
			Title:       spec.Title,
		}
		if r.plotter != nil {
			if err := r.plotter.Plot(view.ContainerID, spec.Data); err == nil {
				view.Plotted = true
			} else {
				fmt.Printf("[Render] Plotting %s failed: %v\n", view.ContainerID, err)
			}
		}
		d.Charts = append(d.Charts, view)
	}

	for _, insight := range result.Insights {
		d.Insights = append(d.Insights, InsightView{
			Severity: insight.Type,
			Icon:     InsightIcon(insight.Type),
			Title:    insight.Title,
			Message:  insight.Message,
		})
	}
	if len(d.Insights) == 0 {
		d.Insights = append(d.Insights, InsightView{
			Severity: models.InsightInfo,
			Icon:     InsightIcon(models.InsightInfo),
			Message:  NoInsightsPlaceholder,
		})
	}

	d.RawSummary = condenseRaw(result.RawData)

	if result.AIAnalysis != nil {
		d.AIPanel = buildAIPanel(result.AIAnalysis)
	}

	return d
}

// condenseRaw derives the display summary from the raw analysis sections:
// file metadata plus a few cross-referenced counts. Absent sections show
// their zero or empty defaults rather than being dropped.
func condenseRaw(raw map[string]any) string {
	tasks := models.GetMap(raw, "task_analysis")
	summary := map[string]any{
		"file_info":        models.GetMap(raw, "file_info"),
		"total_tasks":      models.GetInt(tasks, "total_tasks", 0),
		"status_breakdown": models.GetCountMap(tasks, "status_breakdown"),
		"team_size":        models.GetInt(models.GetMap(raw, "team_analysis"), "team_size", 0),
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func buildAIPanel(analysis map[string]any) *AIPanel {
	overview := models.GetMap(analysis, "project_overview")
	status := models.GetMap(analysis, "status_and_progress")
	metadata := models.GetMap(analysis, "document_metadata")

	return &AIPanel{
		ProjectName: models.GetString(overview, "project_name", "Unknown"),
		ProjectType: models.GetString(overview, "project_type", "Unknown"),
		Status:      models.GetString(status, "current_status", "Unknown"),
		Description: models.GetString(overview, "description", "Not available"),
		Method:      models.GetString(metadata, "analysis_method", "Not available"),
		Confidence:  models.GetFloat(metadata, "confidence_score", 0),
		KeyInsights: models.GetStringSlice(analysis, "key_insights"),
	}
}
