package model

// AnalysisResult carries the synthesized report plus the structured
// numbers behind it, so callers (CLI, API, store) never have to re-parse
// the markdown.
type AnalysisResult struct {
	Report       string `json:"report"`
	Mode         Mode   `json:"mode"`
	BusinessGoal Goal   `json:"business_goal,omitempty"`

	// Clarification short-circuit: when true only Report and Questions
	// are populated; no sources were loaded and no metrics computed.
	ClarificationNeeded bool     `json:"clarification_needed,omitempty"`
	Questions           []string `json:"questions,omitempty"`

	Confidence        int      `json:"confidence"`
	CompletenessScore int      `json:"completeness_score"`
	CompletenessLabel string   `json:"completeness_label"`
	MissingSources    []string `json:"missing_sources,omitempty"`
	NoiseFlags        []string `json:"noise_flags,omitempty"`
	RiskFlags         []string `json:"risk_flags,omitempty"`

	Metrics         MetricsBundle `json:"metrics"`
	Complaints      []ThemeCount  `json:"complaints,omitempty"`
	FeatureGaps     []FeatureGap  `json:"feature_gaps,omitempty"`
	Citations       []string      `json:"citations,omitempty"`
	Recommendations []string      `json:"recommendations,omitempty"`
	NextCategory    string        `json:"next_category,omitempty"`
}
