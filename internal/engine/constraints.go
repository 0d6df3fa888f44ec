package engine

import "strings"

// ConstraintFlags are the coarse filters parsed from the brief's free-text
// constraints. Parsing is keyword containment over the joined text, not
// semantic analysis.
type ConstraintFlags struct {
	NegativeReviewsOnly    bool
	PremiumCompetitorsOnly bool
	OptimizeMargins        bool
}

// ParseConstraints scans the joined, lowercased constraint text for the
// fixed trigger phrases.
func ParseConstraints(constraints []string) ConstraintFlags {
	text := strings.ToLower(strings.Join(constraints, " "))
	return ConstraintFlags{
		NegativeReviewsOnly:    strings.Contains(text, "negative review"),
		PremiumCompetitorsOnly: strings.Contains(text, "premium competitor"),
		OptimizeMargins:        strings.Contains(text, "margin"),
	}
}
