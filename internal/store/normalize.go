package store

import (
	"encoding/json"
	"strings"
)

// NormalizeList coerces the accepted wire forms for requirements/benefits
// into a list of trimmed, non-empty strings. Dashboards have historically
// sent a JSON-encoded array, a comma-separated string, or a native array;
// all three converge on the same stored value.
func NormalizeList(value any) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		return cleanList(v)
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				items = append(items, s)
			}
		}
		return cleanList(items)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return []string{}
		}
		if strings.HasPrefix(s, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				return cleanList(arr)
			}
		}
		return cleanList(strings.Split(s, ","))
	default:
		return []string{}
	}
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
