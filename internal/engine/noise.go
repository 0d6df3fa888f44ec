package engine

import (
	"fmt"

	"github.com/insightforge/insightforge/internal/model"
)

// Defect-ratio thresholds above which a category is flagged as noisy.
const (
	reviewNoiseThreshold      = 0.3
	pricingNoiseThreshold     = 0.2
	performanceNoiseThreshold = 0.3
)

// detectNoise inspects the loaded payloads for quality defects and emits
// human-readable flags. Empty categories never produce a flag; noise is a
// report-visible condition, never an error.
func detectNoise(payloads map[string]*model.SourcePayload) []string {
	var flags []string

	if reviews := payloads[model.SourceReviews].Records; len(reviews) > 0 {
		missing := 0
		for _, row := range reviews {
			if _, ok := row.Float("rating"); !ok {
				missing++
			}
		}
		ratio := float64(missing) / float64(len(reviews))
		if ratio > reviewNoiseThreshold {
			flags = append(flags, fmt.Sprintf("Reviews are noisy: %.0f%% records missing rating.", ratio*100))
		}
	}

	if pricing := payloads[model.SourcePricing].Records; len(pricing) > 0 {
		invalid := 0
		for _, row := range pricing {
			ourPrice, ourOK := row.Float("our_price")
			competitorPrice, compOK := row.Float("competitor_price")
			if (ourOK && ourPrice <= 0) || (compOK && competitorPrice <= 0) {
				invalid++
			}
		}
		ratio := float64(invalid) / float64(len(pricing))
		if ratio > pricingNoiseThreshold {
			flags = append(flags, fmt.Sprintf("Pricing feed has anomalies: %.0f%% records have non-positive prices.", ratio*100))
		}
	}

	if perf := payloads[model.SourcePerformance].Records; len(perf) > 0 {
		missing := 0
		for _, row := range perf {
			if _, ok := row.Float("views"); !ok {
				missing++
			}
		}
		ratio := float64(missing) / float64(len(perf))
		if ratio > performanceNoiseThreshold {
			flags = append(flags, fmt.Sprintf("Performance signals are incomplete: %.0f%% rows missing views.", ratio*100))
		}
	}

	return flags
}
