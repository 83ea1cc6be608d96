package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pm-dashboard/backend/internal/models"
)

// Generator turns raw analysis maps into the dashboard payload: summary
// cards, Plotly chart figures and threshold-driven insights.
type Generator struct {
	rules *models.InsightRules
}

func NewGenerator(rules *models.InsightRules) *Generator {
	if rules == nil {
		rules = models.DefaultInsightRules()
	}
	return &Generator{rules: rules}
}

// GenerateDashboard builds the full result for a single analyzed file.
func (g *Generator) GenerateDashboard(analysis map[string]any, analysisType string) *models.AnalysisResult {
	result := &models.AnalysisResult{
		RawData:      analysis,
		AnalysisType: analysisType,
	}

	if analysisType == models.AnalysisTypeDocument {
		g.fillDocument(result, analysis)
		return result
	}

	result.SummaryCards = g.summaryCards(analysis)
	result.Charts = g.charts(analysis)
	result.Insights = g.insights(analysis)
	return result
}

// GenerateCombined merges per-file results into one dashboard. Chart IDs
// are prefixed per file so every container ID stays unique.
func (g *Generator) GenerateCombined(fileNames []string, results []*models.AnalysisResult) *models.AnalysisResult {
	combined := &models.AnalysisResult{
		AnalysisType: models.AnalysisTypeCombined,
		RawData:      map[string]any{},
	}

	combined.SummaryCards = append(combined.SummaryCards, models.SummaryCard{
		Title:    "Files Analyzed",
		Value:    fmt.Sprintf("%d", len(results)),
		Subtitle: "combined view",
		Icon:     "folder",
	})

	for i, res := range results {
		name := fileNames[i]
		combined.RawData[name] = res.RawData

		for _, card := range res.SummaryCards {
			card.Subtitle = strings.TrimSpace(card.Subtitle + " (" + name + ")")
			combined.SummaryCards = append(combined.SummaryCards, card)
		}
		for _, chart := range res.Charts {
			chart.ID = fmt.Sprintf("file%d_%s", i+1, chart.ID)
			chart.Title = chart.Title + " / " + name
			combined.Charts = append(combined.Charts, chart)
		}
		for _, insight := range res.Insights {
			insight.Message = insight.Message + " [" + name + "]"
			combined.Insights = append(combined.Insights, insight)
		}
		if res.AIAnalysis != nil && combined.AIAnalysis == nil {
			combined.AIAnalysis = res.AIAnalysis
		}
	}

	return combined
}

func (g *Generator) summaryCards(analysis map[string]any) []models.SummaryCard {
	var cards []models.SummaryCard

	fileInfo := models.GetMap(analysis, "file_info")
	if len(fileInfo) > 0 {
		cards = append(cards, models.SummaryCard{
			Title:    "Data Overview",
			Value:    fmt.Sprintf("%d rows", models.GetInt(fileInfo, "total_rows", 0)),
			Subtitle: fmt.Sprintf("%d columns", models.GetInt(fileInfo, "total_columns", 0)),
			Icon:     "database",
		})
	}

	tasks := models.GetMap(analysis, "task_analysis")
	if total := models.GetInt(tasks, "total_tasks", 0); total > 0 {
		cards = append(cards, models.SummaryCard{
			Title:    "Total Tasks",
			Value:    fmt.Sprintf("%d", total),
			Subtitle: fmt.Sprintf("%d unique", models.GetInt(tasks, "unique_tasks", 0)),
			Icon:     "tasks",
		})
	}

	if key, rate, ok := completionRate(analysis); ok {
		cards = append(cards, models.SummaryCard{
			Title:    "Completion Rate",
			Value:    fmt.Sprintf("%.1f%%", rate),
			Subtitle: strings.TrimSuffix(key, "_rate"),
			Icon:     "check-circle",
		})
	}

	team := models.GetMap(analysis, "team_analysis")
	if size := models.GetInt(team, "team_size", 0); size > 0 {
		cards = append(cards, models.SummaryCard{
			Title:    "Team Members",
			Value:    fmt.Sprintf("%d", size),
			Subtitle: "active assignees",
			Icon:     "users",
		})
	}

	return cards
}

func (g *Generator) charts(analysis map[string]any) []models.ChartSpec {
	var charts []models.ChartSpec

	tasks := models.GetMap(analysis, "task_analysis")

	if statuses := models.GetCountMap(tasks, "status_breakdown"); len(statuses) > 0 {
		labels, values := sortedCounts(statuses, 0)
		charts = append(charts, models.ChartSpec{
			ID:    "status_chart",
			Title: "Task Status Distribution",
			Type:  "pie",
			Data: map[string]any{
				"data": []map[string]any{{
					"type":   "pie",
					"labels": labels,
					"values": values,
					"hole":   0.3,
				}},
				"layout": map[string]any{
					"title":  "Task Status Distribution",
					"height": 400,
				},
			},
		})
	}

	if priorities := models.GetCountMap(tasks, "priority_breakdown"); len(priorities) > 0 {
		labels, values := sortedCounts(priorities, 0)
		charts = append(charts, models.ChartSpec{
			ID:    "priority_chart",
			Title: "Priority Breakdown",
			Type:  "bar",
			Data: map[string]any{
				"data": []map[string]any{{
					"type":   "bar",
					"x":      labels,
					"y":      values,
					"marker": map[string]any{"color": "lightblue"},
				}},
				"layout": map[string]any{
					"title":  "Priority Breakdown",
					"height": 400,
				},
			},
		})
	}

	team := models.GetMap(analysis, "team_analysis")
	if dist := models.GetCountMap(team, "task_distribution"); len(dist) > 0 {
		// Top 10 busiest assignees, busiest at the top of the bar chart.
		labels, values := sortedCounts(dist, 10)
		charts = append(charts, models.ChartSpec{
			ID:    "team_chart",
			Title: "Tasks per Team Member",
			Type:  "bar",
			Data: map[string]any{
				"data": []map[string]any{{
					"type":        "bar",
					"orientation": "h",
					"x":           values,
					"y":           labels,
					"marker":      map[string]any{"color": "lightgreen"},
				}},
				"layout": map[string]any{
					"title":  "Tasks per Team Member",
					"height": 500,
				},
			},
		})
	}

	return charts
}

func (g *Generator) insights(analysis map[string]any) []models.Insight {
	var insights []models.Insight

	if _, rate, ok := completionRate(analysis); ok {
		switch {
		case rate > g.rules.HighCompletionPct:
			insights = append(insights, models.Insight{
				Type:    models.InsightSuccess,
				Title:   "Strong Progress",
				Message: fmt.Sprintf("Completion rate is %.1f%%, most work is finished", rate),
			})
		case rate < g.rules.LowCompletionPct:
			insights = append(insights, models.Insight{
				Type:    models.InsightWarning,
				Title:   "Low Completion",
				Message: fmt.Sprintf("Completion rate is only %.1f%%, the project may need attention", rate),
			})
		}
	}

	team := models.GetMap(analysis, "team_analysis")
	if dist := models.GetCountMap(team, "task_distribution"); len(dist) > 1 {
		min, max := -1, 0
		for _, n := range dist {
			if min == -1 || n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
		if min > 0 && float64(max) >= float64(min)*g.rules.WorkloadImbalanceRatio {
			insights = append(insights, models.Insight{
				Type:    models.InsightWarning,
				Title:   "Workload Imbalance",
				Message: fmt.Sprintf("Busiest member has %d tasks while the least busy has %d", max, min),
			})
		}
	}

	timeline := models.GetMap(analysis, "timeline_analysis")
	for key := range timeline {
		span := models.GetInt(models.GetMap(timeline, key), "span_days", 0)
		col := strings.TrimSuffix(key, "_analysis")
		if span > g.rules.LongProjectDays {
			insights = append(insights, models.Insight{
				Type:    models.InsightInfo,
				Title:   "Long Timeline",
				Message: fmt.Sprintf("%s spans %d days, consider breaking the work into phases", col, span),
			})
		} else if span > 0 && span < g.rules.ShortProjectDays {
			insights = append(insights, models.Insight{
				Type:    models.InsightInfo,
				Title:   "Short Timeline",
				Message: fmt.Sprintf("%s spans only %d days", col, span),
			})
		}
	}

	sort.Slice(insights, func(i, j int) bool {
		return insights[i].Title < insights[j].Title
	})
	return insights
}

// fillDocument maps a document analysis onto cards and insights. Charts are
// not produced; the structured panel carries the content instead.
func (g *Generator) fillDocument(result *models.AnalysisResult, analysis map[string]any) {
	ai := models.GetMap(analysis, "ai_analysis")
	result.AIAnalysis = ai

	overview := models.GetMap(ai, "project_overview")
	status := models.GetMap(ai, "status_and_progress")
	timeline := models.GetMap(ai, "timeline_info")

	result.SummaryCards = append(result.SummaryCards, models.SummaryCard{
		Title:    "Document",
		Value:    models.GetString(overview, "project_name", "Unknown"),
		Subtitle: fmt.Sprintf("%d characters", models.GetInt(analysis, "text_length", 0)),
		Icon:     "file-alt",
	})
	result.SummaryCards = append(result.SummaryCards, models.SummaryCard{
		Title:    "Status",
		Value:    models.GetString(status, "current_status", "Unknown"),
		Subtitle: fmt.Sprintf("%d completed items", len(models.GetStringSlice(status, "completed_tasks"))),
		Icon:     "clipboard-check",
	})
	if milestones := models.GetStringSlice(timeline, "milestones"); len(milestones) > 0 {
		result.SummaryCards = append(result.SummaryCards, models.SummaryCard{
			Title:    "Milestones",
			Value:    fmt.Sprintf("%d", len(milestones)),
			Subtitle: "dates referenced",
			Icon:     "calendar",
		})
	}

	for _, line := range models.GetStringSlice(ai, "key_insights") {
		result.Insights = append(result.Insights, models.Insight{
			Type:    models.InsightInfo,
			Title:   "Document Finding",
			Message: line,
		})
	}
}

// completionRate finds the first *_rate entry in completion_analysis.
func completionRate(analysis map[string]any) (string, float64, bool) {
	completion := models.GetMap(analysis, "completion_analysis")

	keys := make([]string, 0, len(completion))
	for key := range completion {
		if strings.HasSuffix(key, "_rate") {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return "", 0, false
	}
	sort.Strings(keys)
	return keys[0], models.GetFloat(completion, keys[0], 0), true
}

// sortedCounts flattens a counter map into parallel label/value slices,
// sorted by count descending then label, optionally truncated.
func sortedCounts(counts map[string]int, limit int) ([]string, []int) {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})

	if limit > 0 && len(labels) > limit {
		labels = labels[:limit]
	}

	values := make([]int, len(labels))
	for i, label := range labels {
		values[i] = counts[label]
	}
	return labels, values
}
