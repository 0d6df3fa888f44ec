package model

// ReviewMetrics aggregates parseable review ratings. Nil pointer fields
// mean no underlying samples existed; they are never a computed zero.
type ReviewMetrics struct {
	ReviewCountUsed  int      `json:"review_count_used"`
	AverageRating    *float64 `json:"average_rating"`
	NegativeSharePct *float64 `json:"negative_share_pct"`
}

// PriceGapMetrics summarizes our-vs-competitor price gaps over matched
// SKU pairs. PairCount counts pairs actually used, never raw input rows.
type PriceGapMetrics struct {
	PairCount          int      `json:"pair_count"`
	AvgPriceGapPct     *float64 `json:"avg_price_gap_pct"`
	OverPricedSharePct *float64 `json:"over_priced_share_pct"`
}

// SKUConversion pairs a SKU with its rounded conversion percentage.
type SKUConversion struct {
	SKU           string  `json:"sku"`
	ConversionPct float64 `json:"conversion_pct"`
}

// PerformanceMetrics summarizes conversion and return behavior.
type PerformanceMetrics struct {
	AvgConversionPct    *float64        `json:"avg_conversion_pct"`
	AvgReturnPct        *float64        `json:"avg_return_pct"`
	UnderperformingSKUs []SKUConversion `json:"underperforming_skus"`
}

// MetricsBundle groups the three numeric summaries under fixed keys.
type MetricsBundle struct {
	Reviews     ReviewMetrics      `json:"reviews"`
	Pricing     PriceGapMetrics    `json:"pricing"`
	Performance PerformanceMetrics `json:"performance"`
}

// ThemeCount is a complaint theme with its accumulated frequency.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// FeatureGap is a competitor feature absent from our catalog, with the
// number of competitor rows mentioning it.
type FeatureGap struct {
	Feature string `json:"feature"`
	Count   int    `json:"count"`
}
