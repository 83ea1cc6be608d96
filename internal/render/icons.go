package render

// cardIcons maps the icon names the report generator emits to glyph
// classes the front end knows. Unknown names fall back to a neutral
// chart glyph so a card never renders without an icon.
var cardIcons = map[string]string{
	"database":        "fa-database",
	"tasks":           "fa-tasks",
	"check-circle":    "fa-check-circle",
	"users":           "fa-users",
	"folder":          "fa-folder",
	"file-alt":        "fa-file-alt",
	"clipboard-check": "fa-clipboard-check",
	"calendar":        "fa-calendar",
}

const defaultCardIcon = "fa-chart-bar"

// insightIcons maps insight severities to glyphs.
var insightIcons = map[string]string{
	"success": "fa-circle-check",
	"warning": "fa-triangle-exclamation",
	"info":    "fa-circle-info",
	"error":   "fa-circle-xmark",
}

const defaultInsightIcon = "fa-circle-info"

// CardIcon resolves a card icon name with fallback.
func CardIcon(name string) string {
	if glyph, ok := cardIcons[name]; ok {
		return glyph
	}
	return defaultCardIcon
}

// InsightIcon resolves an insight severity to a glyph with fallback.
func InsightIcon(severity string) string {
	if glyph, ok := insightIcons[severity]; ok {
		return glyph
	}
	return defaultInsightIcon
}
