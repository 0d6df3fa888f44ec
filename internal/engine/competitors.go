package engine

import (
	"strings"

	"github.com/insightforge/insightforge/internal/model"
)

// competitorFeatureGaps counts competitor features absent from our
// catalog's normalized feature set. Returns the top 5 by count, ties in
// first-encountered order.
func competitorFeatureGaps(catalog, competitors []model.Record, premiumOnly bool) []model.FeatureGap {
	ourFeatures := make(map[string]bool)
	for _, row := range catalog {
		for _, feature := range row.List("features") {
			if normalized := normalizeFeature(feature); normalized != "" {
				ourFeatures[normalized] = true
			}
		}
	}

	counter := newOrderedCounter()
	for _, row := range competitors {
		if premiumOnly && strings.ToLower(row.String("tier")) != "premium" {
			continue
		}
		for _, feature := range row.List("features") {
			normalized := normalizeFeature(feature)
			if normalized != "" && !ourFeatures[normalized] {
				counter.add(normalized)
			}
		}
	}

	entries := counter.top(5)
	out := make([]model.FeatureGap, len(entries))
	for i, e := range entries {
		out[i] = model.FeatureGap{Feature: e.key, Count: e.count}
	}
	return out
}

func normalizeFeature(v any) string {
	return strings.ToLower(strings.TrimSpace(toString(v)))
}
