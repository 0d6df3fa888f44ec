package server

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/insightforge/insightforge/internal/model"
)

var timeNow = time.Now

// decodeBrief accepts the loose brief shapes clients actually send and
// normalizes them before decoding into the canonical struct. Scope may be
// a string or a {type, value} object; data sources may be a list ordered
// by convention or a map of plain path strings.
func decodeBrief(raw json.RawMessage) (*model.Brief, error) {
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, eris.Wrap(err, "server: parse brief")
	}

	loose["scope"] = normalizeScope(loose)
	loose["data_sources"] = normalizeDataSources(loose["data_sources"])

	if _, ok := loose["mode"]; !ok {
		return nil, eris.New("server: missing required brief field: mode")
	}
	if sources, ok := loose["data_sources"].(map[string]any); !ok || len(sources) == 0 {
		return nil, eris.New("server: missing required brief field: data_sources")
	}

	canonical, err := json.Marshal(loose)
	if err != nil {
		return nil, eris.Wrap(err, "server: re-encode brief")
	}
	var brief model.Brief
	if err := json.Unmarshal(canonical, &brief); err != nil {
		return nil, eris.Wrap(err, "server: decode brief")
	}
	return &brief, nil
}

func normalizeScope(brief map[string]any) map[string]any {
	fallback := func(category string) map[string]any {
		scope := map[string]any{
			"marketplaces":        brief["marketplaces"],
			"category_or_product": category,
			"region":              stringOr(brief["region"], "Unknown"),
			"timeframe":           stringOr(brief["timeframe"], "Unspecified"),
		}
		if scope["marketplaces"] == nil {
			scope["marketplaces"] = []any{"Unknown"}
		}
		return scope
	}

	switch scope := brief["scope"].(type) {
	case map[string]any:
		value, _ := scope["value"].(string)
		scopeType, _ := scope["type"].(string)
		if value != "" || scopeType != "" {
			return fallback(stringOr(value, "Unknown"))
		}
		return scope
	case string:
		if strings.TrimSpace(scope) != "" {
			return fallback(strings.TrimSpace(scope))
		}
	}
	return fallback("Unknown")
}

func normalizeDataSources(raw any) map[string]any {
	wrap := func(v any) any {
		if path, ok := v.(string); ok {
			return map[string]any{"path": path}
		}
		return v
	}

	switch sources := raw.(type) {
	case map[string]any:
		normalized := make(map[string]any, len(sources))
		for key, value := range sources {
			normalized[key] = wrap(value)
		}
		return normalized
	case []any:
		mapped := make(map[string]any)
		for i, value := range sources {
			if i >= len(model.ExpectedSources) {
				break
			}
			mapped[model.ExpectedSources[i]] = wrap(value)
		}
		return mapped
	}
	return map[string]any{}
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}
