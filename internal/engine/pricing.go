package engine

import (
	"strings"

	"github.com/insightforge/insightforge/internal/model"
)

// priceGapMetrics computes our-vs-competitor gaps over rows with both a
// parseable our_price and a non-zero parseable competitor_price. With
// premiumOnly set, rows whose tier is not "premium" are skipped first.
func priceGapMetrics(pricing []model.Record, premiumOnly bool) model.PriceGapMetrics {
	var (
		gaps       []float64
		overPriced int
	)

	for _, row := range pricing {
		if premiumOnly && strings.ToLower(row.String("tier")) != "premium" {
			continue
		}
		ourPrice, ok := row.Float("our_price")
		if !ok {
			continue
		}
		competitorPrice, ok := row.Float("competitor_price")
		if !ok || competitorPrice == 0 {
			continue
		}

		gapPct := (ourPrice - competitorPrice) / competitorPrice * 100
		gaps = append(gaps, gapPct)
		if gapPct > 0 {
			overPriced++
		}
	}

	m := model.PriceGapMetrics{PairCount: len(gaps)}
	if len(gaps) > 0 {
		m.AvgPriceGapPct = ptr(round2(mean(gaps)))
		m.OverPricedSharePct = ptr(round2(float64(overPriced) / float64(len(gaps)) * 100))
	}
	return m
}
