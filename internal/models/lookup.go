package models

// Total lookup helpers for the free-form analysis maps. Every accessor
// takes a default so callers never branch on key presence.

// GetMap returns m[key] as a map, or an empty map when absent or mistyped.
func GetMap(m map[string]any, key string) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

// GetString returns m[key] as a string, or def.
func GetString(m map[string]any, key, def string) string {
	if m == nil {
		return def
	}
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return def
}

// GetInt returns m[key] as an int, tolerating the numeric types JSON
// decoding and the analyzers produce. Absent or mistyped values yield def.
func GetInt(m map[string]any, key string, def int) int {
	if m == nil {
		return def
	}
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// GetFloat returns m[key] as a float64, or def.
func GetFloat(m map[string]any, key string, def float64) float64 {
	if m == nil {
		return def
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}

// GetStringSlice returns m[key] as a slice of strings. Non-string members
// are skipped; absent or mistyped values yield nil.
func GetStringSlice(m map[string]any, key string) []string {
	if m == nil {
		return nil
	}
	raw, ok := m[key].([]any)
	if !ok {
		// Already-typed slices occur when the map was built in-process.
		if typed, ok := m[key].([]string); ok {
			return typed
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// GetCountMap returns m[key] as a string→int counter map, or an empty map.
func GetCountMap(m map[string]any, key string) map[string]int {
	out := map[string]int{}
	if m == nil {
		return out
	}
	switch v := m[key].(type) {
	case map[string]int:
		return v
	case map[string]any:
		for k := range v {
			out[k] = GetInt(v, k, 0)
		}
	}
	return out
}
