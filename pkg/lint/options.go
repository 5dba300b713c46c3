package lint

import "strings"

// GetOption extracts a typed option with a default value.
func GetOption[T any](opts map[string]any, key string, defaultVal T) T {
	if v, ok := opts[key]; ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}
	return defaultVal
}

// GetStringOption extracts a string option. Blank strings fall back to the default.
func GetStringOption(opts map[string]any, key string, defaultVal string) string {
	s := GetOption(opts, key, defaultVal)
	if strings.TrimSpace(s) == "" {
		return defaultVal
	}
	return s
}

// GetStringSliceOption extracts a string slice option. Values decoded from
// YAML arrive as []any; values from environment variables arrive as a
// comma separated string.
func GetStringSliceOption(opts map[string]any, key string, defaultVal []string) []string {
	v, ok := opts[key]
	if !ok {
		return defaultVal
	}
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	case string:
		var result []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				result = append(result, part)
			}
		}
		return result
	default:
		return defaultVal
	}
}
