package model

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Mode selects the report verbosity profile.
type Mode string

const (
	ModeQuick Mode = "quick"
	ModeDeep  Mode = "deep"
)

// Goal is the normalized business goal driving recommendation synthesis.
type Goal string

const (
	GoalGrowth          Goal = "growth"
	GoalRetention       Goal = "retention"
	GoalProfitability   Goal = "profitability"
	GoalMarketExpansion Goal = "market expansion"
)

var validGoals = map[Goal]bool{
	GoalGrowth:          true,
	GoalRetention:       true,
	GoalProfitability:   true,
	GoalMarketExpansion: true,
}

// NormalizeMode lowercases and validates a raw mode value.
func NormalizeMode(raw string) (Mode, error) {
	mode := Mode(strings.ToLower(strings.TrimSpace(raw)))
	if mode != ModeQuick && mode != ModeDeep {
		return "", eris.Errorf("brief: unsupported mode %q, use 'quick' or 'deep'", raw)
	}
	return mode, nil
}

// NormalizeGoal lowercases and validates a raw business goal. The
// underscore form ("market_expansion") is accepted on input.
func NormalizeGoal(raw string) (Goal, error) {
	goal := Goal(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "_", " "))
	if !validGoals[goal] {
		allowed := make([]string, 0, len(validGoals))
		for g := range validGoals {
			allowed = append(allowed, string(g))
		}
		sort.Strings(allowed)
		return "", eris.Errorf("brief: unsupported business_goal %q, allowed: %s", raw, strings.Join(allowed, ", "))
	}
	return goal, nil
}

// Scope bounds the analysis to marketplaces, a category, a region, and a
// timeframe. All fields are advisory; none gate the engine.
type Scope struct {
	Marketplaces      []string `json:"marketplaces" yaml:"marketplaces"`
	CategoryOrProduct string   `json:"category_or_product" yaml:"category_or_product"`
	Region            string   `json:"region" yaml:"region"`
	Timeframe         string   `json:"timeframe" yaml:"timeframe"`
}

// Brief is the validated research request entering the engine.
type Brief struct {
	Mode          string                       `json:"mode" yaml:"mode"`
	BusinessGoal  string                       `json:"business_goal" yaml:"business_goal"`
	Scope         Scope                        `json:"scope" yaml:"scope"`
	DataSources   map[string]*SourceDescriptor `json:"data_sources" yaml:"data_sources"`
	Constraints   []string                     `json:"constraints" yaml:"constraints"`
	KPIPriority   []string                     `json:"kpi_priority" yaml:"kpi_priority"`
	Query         string                       `json:"query" yaml:"query"`
	QueryType     string                       `json:"query_type" yaml:"query_type"`
	AnalysisTheme string                       `json:"analysis_theme" yaml:"analysis_theme"`
}

// SourceDescriptor locates the records for one source category. A
// descriptor is either a file reference (Path non-empty) or an inline
// record list; the polymorphic wire shapes (object with "path", array of
// records, bare scalar) collapse into these two forms at decode time.
type SourceDescriptor struct {
	Path    string
	Records []Record
}

func (d *SourceDescriptor) fromValue(v any) {
	switch val := v.(type) {
	case map[string]any:
		if p, ok := val["path"].(string); ok {
			d.Path = p
			return
		}
		// An object without a path is a single inline record.
		d.Records = []Record{Record(val)}
	case []any:
		d.Records = toRecords(val)
	default:
		// Bare scalar: wrap into a single record.
		d.Records = []Record{{"value": val}}
	}
}

// toRecords converts decoded elements to Records, wrapping non-object
// elements under a "value" key.
func toRecords(items []any) []Record {
	records := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			records = append(records, Record(m))
			continue
		}
		records = append(records, Record{"value": item})
	}
	return records
}

// UnmarshalJSON accepts the descriptor's polymorphic wire shapes.
func (d *SourceDescriptor) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return eris.Wrap(err, "brief: decode data source descriptor")
	}
	if v == nil {
		return nil
	}
	d.fromValue(v)
	return nil
}

// UnmarshalYAML accepts the same shapes from YAML briefs.
func (d *SourceDescriptor) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return eris.Wrap(err, "brief: decode data source descriptor")
	}
	if v == nil {
		return nil
	}
	d.fromValue(normalizeYAML(v))
	return nil
}

// normalizeYAML rewrites yaml.v3's map[string]any values so nested maps
// and slices match the JSON decode shapes.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}
