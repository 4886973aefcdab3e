package feeds

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CountryNames resolves ISO3 codes to display names.
type CountryNames interface {
	NameForISO3(code string) (string, bool)
}

// intValue reads an integral JSON value decoded with or without UseNumber.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	}
	return ""
}

func nested(rec map[string]any, key string) map[string]any {
	m, _ := rec[key].(map[string]any)
	return m
}

// joinField joins field of every object of a list, skipping blanks.
func joinField(v any, field string) string {
	items, _ := v.([]any)
	parts := make([]string, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if s := strings.TrimSpace(stringValue(obj[field])); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// joinStrings joins a list of strings, skipping blanks.
func joinStrings(v any) string {
	items, _ := v.([]any)
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(stringValue(it)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
