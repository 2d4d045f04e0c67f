package compendium

import (
	"strconv"
	"strings"
)

// Raw compendium records arrive with inconsistent key casing and nesting.
// These helpers look fields up by normalized key and coerce values across
// the shapes different sources use.

// normalizeKey lowers a key and strips separators so "hit_points",
// "hitPoints" and "Hit Points" all collide.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, " ", "")
	return key
}

// field returns the first value whose normalized key matches any of the
// given names. Names must already be in normalized form.
func field(raw map[string]any, names ...string) (any, bool) {
	for key, value := range raw {
		normalized := normalizeKey(key)
		for _, name := range names {
			if normalized == name {
				return value, true
			}
		}
	}
	return nil, false
}

// asInt coerces a raw value to an integer: JSON numbers, numeric strings,
// strings with a leading number ("30 ft."), or objects with a "value" key.
func asInt(v any) (int, bool) {
	switch value := v.(type) {
	case int:
		return value, true
	case float64:
		return int(value), true
	case string:
		return leadingInt(value)
	case map[string]any:
		if inner, ok := field(value, "value"); ok {
			return asInt(inner)
		}
	case []any:
		if len(value) > 0 {
			return asInt(value[0])
		}
	}
	return 0, false
}

// leadingInt extracts the integer at the start of a string, skipping
// leading whitespace.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// asString coerces a raw value to a string
func asString(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case int:
		return strconv.Itoa(value), true
	}
	return "", false
}

// asStringList accepts a single value or a list and returns the string
// forms of its elements. Comma-separated strings are split.
func asStringList(v any) []string {
	var out []string
	switch value := v.(type) {
	case string:
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	case []any:
		for _, item := range value {
			if s, ok := asString(item); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	default:
		if s, ok := asString(v); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// asMap coerces a raw value to an object
func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// asList coerces a raw value to a list
func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}
