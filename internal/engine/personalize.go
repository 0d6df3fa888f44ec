package engine

import (
	"fmt"
	"strings"

	"github.com/insightforge/insightforge/internal/model"
)

// Personalization biases applied to a category's mean catalog price.
const (
	marginBias  = 1.25
	noveltyBias = 1.15
)

// nextCategoryAdvisory is returned when no catalog row carries both a
// category and a parseable price. Advisory, not an error.
const nextCategoryAdvisory = "Insufficient catalog data to recommend a next category."

// chooseNextCategory recommends the next product category to explore
// using persisted preferences: mean catalog price per category, boosted
// when the memory's KPI preferences mention margins and when the category
// is novel to memory. Ties break by first appearance in the catalog.
func chooseNextCategory(mem model.DomainMemory, catalog []model.Record) string {
	marginFocused := false
	for _, kpi := range mem.PreferredKPIs {
		if strings.Contains(strings.ToLower(kpi), "margin") {
			marginFocused = true
			break
		}
	}

	known := make(map[string]bool, len(mem.ProductCategories))
	for _, category := range mem.ProductCategories {
		known[category] = true
	}

	var order []string
	prices := make(map[string][]float64)
	for _, row := range catalog {
		category := row.String("category")
		price, ok := row.Float("price")
		if category == "" || !ok {
			continue
		}
		if _, seen := prices[category]; !seen {
			order = append(order, category)
		}
		prices[category] = append(prices[category], price)
	}

	if len(order) == 0 {
		return nextCategoryAdvisory
	}

	best := ""
	bestScore := 0.0
	for _, category := range order {
		score := mean(prices[category])
		if marginFocused {
			score *= marginBias
		}
		if !known[category] {
			score *= noveltyBias
		}
		if best == "" || score > bestScore {
			best = category
			bestScore = score
		}
	}

	return fmt.Sprintf("Explore '%s' next based on margin-oriented and novelty-weighted scoring from your memory profile.", best)
}

// wantsNextCategory reports whether the brief expresses next-category
// intent, by query substring or the query_type sentinel.
func wantsNextCategory(brief model.Brief) bool {
	return strings.Contains(strings.ToLower(brief.Query), "what category should i explore next") ||
		brief.QueryType == "next_category"
}
