package report

import (
	"io"
	"os"

	"github.com/pm-dashboard/backend/internal/models"
	"gopkg.in/yaml.v3"
)

// LoadInsightRules parses a YAML thresholds file. Missing or zero fields
// fall back to the defaults so a partial file only overrides what it names.
func LoadInsightRules(filePath string) (*models.InsightRules, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return LoadInsightRulesFromReader(file)
}

// LoadInsightRulesFromReader parses rules from an io.Reader.
func LoadInsightRulesFromReader(r io.Reader) (*models.InsightRules, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	rules := models.DefaultInsightRules()
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, err
	}

	defaults := models.DefaultInsightRules()
	if rules.HighCompletionPct <= 0 {
		rules.HighCompletionPct = defaults.HighCompletionPct
	}
	if rules.LowCompletionPct <= 0 {
		rules.LowCompletionPct = defaults.LowCompletionPct
	}
	if rules.WorkloadImbalanceRatio <= 0 {
		rules.WorkloadImbalanceRatio = defaults.WorkloadImbalanceRatio
	}
	if rules.LongProjectDays <= 0 {
		rules.LongProjectDays = defaults.LongProjectDays
	}
	if rules.ShortProjectDays <= 0 {
		rules.ShortProjectDays = defaults.ShortProjectDays
	}
	if len(rules.CompletionKeywords) == 0 {
		rules.CompletionKeywords = defaults.CompletionKeywords
	}

	return rules, nil
}
