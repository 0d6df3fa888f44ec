package model

// DomainMemory is the durable cross-session preference document. The four
// list fields are append-only ordered sets: values are unique and keep
// insertion order, and merging never removes or reorders existing entries.
// The engine receives it in-memory; the caller owns persistence.
type DomainMemory struct {
	PreferredKPIs      []string `json:"preferred_kpis" yaml:"preferred_kpis"`
	TargetMarketplaces []string `json:"target_marketplaces" yaml:"target_marketplaces"`
	ProductCategories  []string `json:"product_categories" yaml:"product_categories"`
	PastAnalysisThemes []string `json:"past_analysis_themes" yaml:"past_analysis_themes"`
	LastUpdated        string   `json:"last_updated" yaml:"last_updated"`
}
