package model

// Source categories expected by the engine. Every run loads all five,
// present or not; the completeness scorer treats the set as fixed.
const (
	SourceCatalog     = "catalog"
	SourceReviews     = "reviews"
	SourcePricing     = "pricing"
	SourceCompetitors = "competitors"
	SourcePerformance = "performance_signals"
)

// ExpectedSources lists the five categories in report order.
var ExpectedSources = []string{
	SourceCatalog,
	SourceReviews,
	SourcePricing,
	SourceCompetitors,
	SourcePerformance,
}

// Provenance values for payloads that did not come from a file.
const (
	ProvenanceInline = "inline"
	ProvenanceNone   = "none"
)

// SourcePayload is the loaded, normalized record set for one category.
type SourcePayload struct {
	Name       string   `json:"name"`
	Records    []Record `json:"records"`
	Provenance string   `json:"provenance"`
}
