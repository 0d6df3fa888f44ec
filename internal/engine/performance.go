package engine

import (
	"github.com/insightforge/insightforge/internal/model"
)

// underperformerConversionPct marks a SKU as underperforming when its
// conversion rate falls below this percentage.
const underperformerConversionPct = 2

// maxUnderperformers caps the reported underperforming SKU list.
const maxUnderperformers = 5

// performanceMetrics derives per-row conversion and return rates.
// Conversion needs views > 0 and a parseable conversions value; return
// rate needs conversions > 0 and a parseable returns value. One malformed
// row never aborts the rest.
func performanceMetrics(perf []model.Record) model.PerformanceMetrics {
	var (
		conversionRates []float64
		returnRates     []float64
		underperformers []model.SKUConversion
	)

	for _, row := range perf {
		sku := row.String("sku")
		if sku == "" {
			sku = "unknown"
		}
		views, viewsOK := row.Float("views")
		conversions, convOK := row.Float("conversions")
		returns, returnsOK := row.Float("returns")

		if viewsOK && views > 0 && convOK {
			conversionPct := conversions / views * 100
			conversionRates = append(conversionRates, conversionPct)
			if conversionPct < underperformerConversionPct {
				underperformers = append(underperformers, model.SKUConversion{
					SKU:           sku,
					ConversionPct: round2(conversionPct),
				})
			}
		}

		if convOK && conversions > 0 && returnsOK {
			returnRates = append(returnRates, returns/conversions*100)
		}
	}

	if len(underperformers) > maxUnderperformers {
		underperformers = underperformers[:maxUnderperformers]
	}

	m := model.PerformanceMetrics{UnderperformingSKUs: underperformers}
	if len(conversionRates) > 0 {
		m.AvgConversionPct = ptr(round2(mean(conversionRates)))
	}
	if len(returnRates) > 0 {
		m.AvgReturnPct = ptr(round2(mean(returnRates)))
	}
	return m
}
