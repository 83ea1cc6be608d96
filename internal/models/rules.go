package models

import "strings"

// InsightRules defines the YAML-configurable thresholds the report
// generator uses when turning analysis numbers into insights.
type InsightRules struct {
	HighCompletionPct      float64  `json:"highCompletionPct" yaml:"high_completion_pct"`
	LowCompletionPct       float64  `json:"lowCompletionPct" yaml:"low_completion_pct"`
	WorkloadImbalanceRatio float64  `json:"workloadImbalanceRatio" yaml:"workload_imbalance_ratio"`
	LongProjectDays        int      `json:"longProjectDays" yaml:"long_project_days"`
	ShortProjectDays       int      `json:"shortProjectDays" yaml:"short_project_days"`
	CompletionKeywords     []string `json:"completionKeywords" yaml:"completion_keywords"`
}

// DefaultInsightRules returns the compiled-in thresholds.
func DefaultInsightRules() *InsightRules {
	return &InsightRules{
		HighCompletionPct:      80,
		LowCompletionPct:       50,
		WorkloadImbalanceRatio: 3,
		LongProjectDays:        365,
		ShortProjectDays:       30,
		CompletionKeywords:     []string{"done", "complete", "finished", "resolved", "closed"},
	}
}

// IsCompleted reports whether a status cell counts as finished work.
func (r *InsightRules) IsCompleted(value string) bool {
	lower := strings.ToLower(strings.TrimSpace(value))
	for _, kw := range r.CompletionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
