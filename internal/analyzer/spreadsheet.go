package analyzer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pm-dashboard/backend/internal/models"
)

// Column discovery is keyword based: a column participates in an analysis
// when its lowercased name contains one of the keywords.
var (
	taskKeywords       = []string{"task", "title", "name", "summary", "item"}
	statusKeywords     = []string{"status", "state", "phase", "stage"}
	priorityKeywords   = []string{"priority", "importance", "severity", "urgency"}
	dateKeywords       = []string{"date", "due", "start", "end", "created", "updated", "deadline"}
	assigneeKeywords   = []string{"assignee", "assigned", "owner", "responsible", "team"}
	completionKeywords = []string{"complete", "done", "finished", "progress"}
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// SpreadsheetAnalyzer turns a tabular upload into the raw analysis maps the
// report generator consumes.
type SpreadsheetAnalyzer struct {
	tempDir       string
	duckThreshold int // rows at or above which DuckDB is used; <=0 disables
	rules         *models.InsightRules
}

func NewSpreadsheetAnalyzer(tempDir string, duckThreshold int, rules *models.InsightRules) *SpreadsheetAnalyzer {
	if rules == nil {
		rules = models.DefaultInsightRules()
	}
	return &SpreadsheetAnalyzer{
		tempDir:       tempDir,
		duckThreshold: duckThreshold,
		rules:         rules,
	}
}

// Analyze loads the file at path and produces the analysis maps keyed
// file_info, data_summary, task_analysis, timeline_analysis,
// completion_analysis and team_analysis. Sections with no matching columns
// are omitted.
func (a *SpreadsheetAnalyzer) Analyze(path, name string) (map[string]any, error) {
	table, err := LoadTable(path, name)
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("no data found in file")
	}

	frame := a.openFrame(table)
	defer frame.Close()

	analysis := map[string]any{
		"file_info": a.fileInfo(frame),
	}

	if summary := a.dataSummary(frame); len(summary) > 0 {
		analysis["data_summary"] = summary
	}
	if tasks := a.taskAnalysis(frame); len(tasks) > 0 {
		analysis["task_analysis"] = tasks
	}
	if timeline := a.timelineAnalysis(frame); len(timeline) > 0 {
		analysis["timeline_analysis"] = timeline
	}
	if completion := a.completionAnalysis(frame); len(completion) > 0 {
		analysis["completion_analysis"] = completion
	}
	if team := a.teamAnalysis(frame); len(team) > 0 {
		analysis["team_analysis"] = team
	}

	return analysis, nil
}

// openFrame picks the in-memory frame for small uploads and spills larger
// ones into DuckDB. A spill failure falls back to memory.
func (a *SpreadsheetAnalyzer) openFrame(table *Table) Frame {
	if a.duckThreshold > 0 && len(table.Rows) >= a.duckThreshold {
		frame, err := NewDuckFrame(a.tempDir, uuid.New().String(), table)
		if err == nil {
			return frame
		}
		fmt.Printf("[Analyzer] DuckDB spill failed, using memory: %v\n", err)
	}
	return NewMemFrame(table)
}

func (a *SpreadsheetAnalyzer) fileInfo(f Frame) map[string]any {
	return map[string]any{
		"total_rows":    f.RowCount(),
		"total_columns": len(f.Columns()),
		"columns":       f.Columns(),
	}
}

func (a *SpreadsheetAnalyzer) dataSummary(f Frame) map[string]any {
	summary := map[string]any{}
	for _, col := range f.Columns() {
		stats, ok, err := f.NumericStats(col)
		if err != nil || !ok {
			continue
		}
		summary[col] = map[string]any{
			"mean":   stats.Mean,
			"median": stats.Median,
			"std":    stats.Std,
			"min":    stats.Min,
			"max":    stats.Max,
		}
	}
	return summary
}

func (a *SpreadsheetAnalyzer) taskAnalysis(f Frame) map[string]any {
	tasks := map[string]any{}

	if col := findColumn(f.Columns(), taskKeywords); col != "" {
		tasks["total_tasks"] = f.RowCount()
		if n, err := f.DistinctCount(col); err == nil {
			tasks["unique_tasks"] = n
		}
	}
	if col := findColumn(f.Columns(), statusKeywords); col != "" {
		if counts, err := f.ValueCounts(col); err == nil && len(counts) > 0 {
			tasks["status_breakdown"] = counts
		}
	}
	if col := findColumn(f.Columns(), priorityKeywords); col != "" {
		if counts, err := f.ValueCounts(col); err == nil && len(counts) > 0 {
			tasks["priority_breakdown"] = counts
		}
	}

	return tasks
}

func (a *SpreadsheetAnalyzer) timelineAnalysis(f Frame) map[string]any {
	timeline := map[string]any{}

	// At most two date columns keeps the dashboard readable.
	cols := findColumns(f.Columns(), dateKeywords)
	if len(cols) > 2 {
		cols = cols[:2]
	}

	for _, col := range cols {
		values, err := f.Values(col)
		if err != nil {
			continue
		}

		var dates []time.Time
		for _, v := range values {
			if t, ok := parseDate(v); ok {
				dates = append(dates, t)
			}
		}
		if len(dates) == 0 {
			continue
		}

		earliest, latest := dates[0], dates[0]
		for _, d := range dates[1:] {
			if d.Before(earliest) {
				earliest = d
			}
			if d.After(latest) {
				latest = d
			}
		}

		timeline[col+"_analysis"] = map[string]any{
			"earliest":      earliest.Format("2006-01-02"),
			"latest":        latest.Format("2006-01-02"),
			"span_days":     int(latest.Sub(earliest).Hours() / 24),
			"valid_dates":   len(dates),
			"missing_dates": len(values) - len(dates),
		}
	}

	return timeline
}

func (a *SpreadsheetAnalyzer) completionAnalysis(f Frame) map[string]any {
	completion := map[string]any{}

	for _, col := range findColumns(f.Columns(), completionKeywords) {
		if stats, ok, err := f.NumericStats(col); err == nil && ok {
			completion[col+"_average"] = stats.Mean
			continue
		}

		values, err := f.Values(col)
		if err != nil {
			continue
		}
		var nonEmpty, done int
		for _, v := range values {
			if v == "" {
				continue
			}
			nonEmpty++
			if a.rules.IsCompleted(v) {
				done++
			}
		}
		if nonEmpty > 0 {
			completion[col+"_rate"] = float64(done) / float64(nonEmpty) * 100
		}
	}

	return completion
}

func (a *SpreadsheetAnalyzer) teamAnalysis(f Frame) map[string]any {
	team := map[string]any{}

	if col := findColumn(f.Columns(), assigneeKeywords); col != "" {
		counts, err := f.ValueCounts(col)
		if err == nil && len(counts) > 0 {
			team["task_distribution"] = counts
			team["team_size"] = len(counts)
		}
	}

	return team
}

func findColumn(columns, keywords []string) string {
	cols := findColumns(columns, keywords)
	if len(cols) == 0 {
		return ""
	}
	return cols[0]
}

func findColumns(columns, keywords []string) []string {
	var matched []string
	for _, col := range columns {
		lower := strings.ToLower(col)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, col)
				break
			}
		}
	}
	return matched
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
