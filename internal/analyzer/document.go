package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// DocumentAnalyzer extracts project signals from text documents with a
// rule-based pass: keyword matching for status and metrics, pattern
// matching for dates and numeric targets.
type DocumentAnalyzer struct{}

func NewDocumentAnalyzer() *DocumentAnalyzer {
	return &DocumentAnalyzer{}
}

var (
	datePattern   = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4})\b`)
	targetPattern = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(%|percent|days?|weeks?|months?|hours?)\b`)

	completedLinePattern  = regexp.MustCompile(`(?i)^.*\b(completed|done|finished|delivered)\b.*$`)
	inProgressLinePattern = regexp.MustCompile(`(?i)^.*\b(in progress|ongoing|underway|started)\b.*$`)
	pendingLinePattern    = regexp.MustCompile(`(?i)^.*\b(pending|planned|todo|to do|blocked)\b.*$`)

	metricKeywords = []string{"kpi", "metric", "target", "goal", "milestone", "budget", "velocity"}
)

var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
	".log": true,
}

var binaryDocExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
	".pptx": true,
	".ppt":  true,
}

// Analyze reads a text document and produces an analysis map holding the
// structured ai_analysis section plus a preview of the extracted text.
func (a *DocumentAnalyzer) Analyze(path, name string) (map[string]any, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if binaryDocExtensions[ext] {
		return nil, fmt.Errorf("text extraction not supported for %s files", ext)
	}
	if !textExtensions[ext] {
		return nil, fmt.Errorf("unsupported document format: %s", ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("document is not valid text")
	}

	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("document is empty")
	}

	preview := text
	if len(preview) > 500 {
		preview = preview[:500]
	}

	return map[string]any{
		"source_file":            name,
		"text_length":            len(text),
		"ai_analysis":            ruleBasedAnalysis(name, text),
		"extracted_text_preview": preview,
	}, nil
}

// ruleBasedAnalysis builds the nested analysis structure the dashboard's
// document panel renders.
func ruleBasedAnalysis(name, text string) map[string]any {
	lines := strings.Split(text, "\n")
	words := len(strings.Fields(text))

	var completed, inProgress, pending []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case completedLinePattern.MatchString(trimmed):
			completed = appendCapped(completed, trimmed, 10)
		case inProgressLinePattern.MatchString(trimmed):
			inProgress = appendCapped(inProgress, trimmed, 10)
		case pendingLinePattern.MatchString(trimmed):
			pending = appendCapped(pending, trimmed, 10)
		}
	}

	dates := datePattern.FindAllString(text, -1)
	var startDate, endDate string
	if len(dates) > 0 {
		startDate = dates[0]
		endDate = dates[len(dates)-1]
	}
	milestones := dates
	if len(milestones) > 5 {
		milestones = milestones[:5]
	}

	var metrics []string
	lowerText := strings.ToLower(text)
	for _, kw := range metricKeywords {
		if strings.Contains(lowerText, kw) {
			metrics = append(metrics, kw)
		}
	}

	targets := targetPattern.FindAllString(text, -1)
	if len(targets) > 10 {
		targets = targets[:10]
	}

	status := "Unknown"
	switch {
	case len(completed) > 0 && len(pending) == 0 && len(inProgress) == 0:
		status = "Completed"
	case len(inProgress) > 0 || len(completed) > 0:
		status = "In Progress"
	case len(pending) > 0:
		status = "Planned"
	}

	return map[string]any{
		"project_overview": map[string]any{
			"project_name": strings.TrimSuffix(name, filepath.Ext(name)),
			"project_type": "Unknown",
			"description":  fmt.Sprintf("Document contains %d words", words),
			"objectives":   []string{},
		},
		"timeline_info": map[string]any{
			"start_date": startDate,
			"end_date":   endDate,
			"milestones": milestones,
			"deadlines":  []string{},
		},
		"kpis_and_metrics": map[string]any{
			"performance_metrics": metrics,
			"numerical_targets":   targets,
		},
		"status_and_progress": map[string]any{
			"current_status":    status,
			"completed_tasks":   completed,
			"in_progress_tasks": inProgress,
			"pending_tasks":     pending,
		},
		"key_insights": keyInsights(words, len(dates), len(completed), len(pending)),
		"document_metadata": map[string]any{
			"document_type":    "Unknown document type",
			"confidence_score": 0.3,
			"analysis_method":  "rule_based",
		},
	}
}

func keyInsights(words, dates, completed, pending int) []string {
	var insights []string
	insights = append(insights, fmt.Sprintf("Document contains %d words", words))
	if dates > 0 {
		insights = append(insights, fmt.Sprintf("Found %d date references", dates))
	}
	if completed > 0 {
		insights = append(insights, fmt.Sprintf("Identified %d completed items", completed))
	}
	if pending > 0 {
		insights = append(insights, fmt.Sprintf("Identified %d pending items", pending))
	}
	return insights
}

func appendCapped(list []string, item string, limit int) []string {
	if len(list) >= limit {
		return list
	}
	return append(list, item)
}
