package report

import (
	"fmt"
	"strings"
)

// limitedDataFinding is the fallback used when no metric yields a finding.
const limitedDataFinding = "Data limitations reduce diagnostic depth; current findings are directional."

// Deep assembles the deep-mode report: executive summary, key findings,
// supporting evidence, competitive insights, risks and opportunities,
// strategic recommendations, and confidence. A downgrade note, when set,
// is surfaced in the executive summary rather than silently degrading.
func Deep(in Input) string {
	reviews := in.Metrics.Reviews
	pricing := in.Metrics.Pricing
	perf := in.Metrics.Performance

	var findings []string
	if reviews.NegativeSharePct != nil {
		findings = append(findings, fmt.Sprintf(
			"Customer dissatisfaction signal: %s%% negative review share.", num(reviews.NegativeSharePct)))
	}
	if pricing.OverPricedSharePct != nil {
		findings = append(findings, fmt.Sprintf(
			"Pricing pressure: %s%% of matched SKUs are priced above competitors.", num(pricing.OverPricedSharePct)))
	}
	if len(perf.UnderperformingSKUs) > 0 {
		skus := perf.UnderperformingSKUs
		if len(skus) > 3 {
			skus = skus[:3]
		}
		names := make([]string, len(skus))
		for i, s := range skus {
			names[i] = s.SKU
		}
		findings = append(findings, fmt.Sprintf(
			"Execution bottleneck: underperforming SKUs detected (%s).", strings.Join(names, ", ")))
	}
	if len(findings) == 0 {
		findings = append(findings, limitedDataFinding)
	}

	complaintText := themeList(in.Complaints, 5)
	if complaintText == "" {
		complaintText = "N/A"
	}
	featureGapText := featureList(in.FeatureGaps, 5)
	if featureGapText == "" {
		featureGapText = "N/A"
	}

	var b strings.Builder
	b.WriteString("# Deep Research Report\n")
	b.WriteString("- Mode: Deep\n")
	fmt.Fprintf(&b, "- Business Goal: %s\n", goalTitle(in.Goal))

	b.WriteString("\n## Executive Summary\n")
	b.WriteString("- Multi-source analysis identifies primary drag from complaint density, relative pricing pressure, and conversion inefficiency.\n")
	b.WriteString("- Business impact is concentrated in SKUs with low conversion and higher negative sentiment, implying both revenue and margin risk.\n")
	if in.DowngradeNote != "" {
		fmt.Fprintf(&b, "- %s\n", in.DowngradeNote)
	}

	b.WriteString("\n## Key Findings\n")
	for _, finding := range findings {
		fmt.Fprintf(&b, "- %s\n", finding)
	}

	b.WriteString("\n## Supporting Evidence\n")
	fmt.Fprintf(&b, "- Review signals: Average rating %s with complaint concentration in %s.\n",
		num(reviews.AverageRating), complaintText)
	fmt.Fprintf(&b, "- Pricing signals: Average price gap %s%% from %d matched SKU pairs.\n",
		num(pricing.AvgPriceGapPct), pricing.PairCount)
	fmt.Fprintf(&b, "- Performance signals: Average conversion %s%%, average return-rate %s%%.\n",
		num(perf.AvgConversionPct), num(perf.AvgReturnPct))
	fmt.Fprintf(&b, "- Citations: %s\n", joinCitations(in.Citations))

	b.WriteString("\n## Competitive Insights\n")
	fmt.Fprintf(&b, "- Feature gaps observed: %s.\n", featureGapText)
	fmt.Fprintf(&b, "- Over-priced exposure: %s%% of tracked matches.\n", num(pricing.OverPricedSharePct))

	b.WriteString("\n## Risks & Opportunities\n")
	b.WriteString("- Risks:\n")
	if len(in.RiskFlags) > 0 {
		for _, flag := range in.RiskFlags {
			fmt.Fprintf(&b, "  - %s\n", flag)
		}
	} else {
		b.WriteString("  - No severe data quality or coverage risk detected.\n")
	}
	b.WriteString("- Opportunities:\n")
	b.WriteString("  - Improve conversion by targeting complaint-prone SKUs with packaging/listing fixes.\n")
	b.WriteString("  - Gain share through feature-led differentiation where competitors dominate perception.\n")

	b.WriteString("\n## Strategic Recommendations\n")
	for _, rec := range in.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	b.WriteString("\n## Confidence Level\n")
	fmt.Fprintf(&b, "- Confidence Score: %d%%\n", in.Confidence)
	fmt.Fprintf(&b, "- Data Completeness Assessment: %s (%d%%)\n", in.CompletenessLabel, in.CompletenessScore)
	b.WriteString("- Risk Flags:\n")
	if len(in.RiskFlags) > 0 {
		for _, flag := range in.RiskFlags {
			fmt.Fprintf(&b, "  - %s\n", flag)
		}
	} else {
		b.WriteString("  - None\n")
	}

	b.WriteString("\n## What should the business do next — and why?\n")
	b.WriteString("- Launch a focused 30-day plan combining complaint reduction, price-position correction, and feature-gap closure to improve conversion while protecting contribution margin.")
	return b.String()
}
