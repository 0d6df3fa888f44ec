// Package model defines the brief, payload, metric, and memory structures
// shared across the analysis engine.
package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a single row from a data source. Keys are source-defined and
// heterogeneous; accessors degrade missing or malformed values to absent.
type Record map[string]any

// AsFloat converts a heterogeneous value to a float64. Native numbers pass
// through; text is trimmed and may carry a trailing percent sign. The second
// return is false when the value is absent or unparseable.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case bool:
		return 0, false
	}

	text := strings.TrimSpace(fmt.Sprint(v))
	text = strings.TrimSpace(strings.TrimSuffix(text, "%"))
	if text == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Float extracts a numeric field from the record via AsFloat.
func (r Record) Float(key string) (float64, bool) {
	return AsFloat(r[key])
}

// String renders the field under key as a trimmed string. Absent values
// yield the empty string.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// List returns the field under key as a slice. A scalar wraps into a
// one-element slice; absent values yield nil.
func (r Record) List(key string) []any {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		return list
	}
	if list, ok := v.([]string); ok {
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out
	}
	return []any{v}
}
