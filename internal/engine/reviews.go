package engine

import (
	"strings"

	"github.com/insightforge/insightforge/internal/model"
)

// negativeRatingCeiling is the highest rating still counted as negative.
const negativeRatingCeiling = 2

// reviewMetrics aggregates parseable ratings. With negativeOnly set,
// ratings above the negative ceiling are dropped before aggregation.
func reviewMetrics(reviews []model.Record, negativeOnly bool) model.ReviewMetrics {
	var (
		ratings  []float64
		negative int
	)

	for _, row := range reviews {
		rating, ok := row.Float("rating")
		if !ok {
			continue
		}
		if negativeOnly && rating > negativeRatingCeiling {
			continue
		}
		ratings = append(ratings, rating)
		if rating <= negativeRatingCeiling {
			negative++
		}
	}

	m := model.ReviewMetrics{ReviewCountUsed: len(ratings)}
	if len(ratings) > 0 {
		m.AverageRating = ptr(round2(mean(ratings)))
		m.NegativeSharePct = ptr(round2(float64(negative) / float64(len(ratings)) * 100))
	}
	return m
}

// themeKeywords maps review-text keywords to complaint themes. Plain
// ordered lookup table; extend here without touching calculator logic.
var themeKeywords = []struct {
	keyword string
	theme   string
}{
	{"battery", "battery"},
	{"fit", "fit"},
	{"comfort", "fit"},
	{"delivery", "delivery"},
	{"quality", "product quality"},
	{"defect", "product quality"},
}

// topComplaints counts complaint themes across reviews, preferring an
// explicit themes tag list and falling back to keyword inference over the
// review text. Returns the top 5 by count, ties in first-encountered order.
func topComplaints(reviews []model.Record, negativeOnly bool) []model.ThemeCount {
	counter := newOrderedCounter()

	for _, row := range reviews {
		rating, ok := row.Float("rating")
		if negativeOnly && (!ok || rating > negativeRatingCeiling) {
			continue
		}

		themes := row.List("themes")
		if len(themes) == 0 {
			themes = inferThemes(strings.ToLower(row.String("text")))
		}
		for _, theme := range themes {
			normalized := strings.ToLower(strings.TrimSpace(toString(theme)))
			if normalized != "" {
				counter.add(normalized)
			}
		}
	}

	entries := counter.top(5)
	out := make([]model.ThemeCount, len(entries))
	for i, e := range entries {
		out[i] = model.ThemeCount{Theme: e.key, Count: e.count}
	}
	return out
}

// inferThemes matches the keyword table against lowercased review text.
// Each theme is reported at most once per review.
func inferThemes(text string) []any {
	var inferred []any
	seen := make(map[string]bool)
	for _, kw := range themeKeywords {
		if seen[kw.theme] || !strings.Contains(text, kw.keyword) {
			continue
		}
		seen[kw.theme] = true
		inferred = append(inferred, kw.theme)
	}
	return inferred
}
