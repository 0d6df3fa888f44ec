package report

import (
	"fmt"
	"strings"
)

// limitedDataInsight is the fallback bullet used when no metric produced
// a usable signal.
const limitedDataInsight = "Available data is limited; immediate insights are directional and should be validated with additional sources."

// Quick assembles the quick-mode report: bullet insights, key metrics,
// immediate recommendations, confidence, and supporting evidence.
func Quick(in Input) string {
	reviews := in.Metrics.Reviews
	pricing := in.Metrics.Pricing
	perf := in.Metrics.Performance

	var insights []string
	if reviews.NegativeSharePct != nil {
		insights = append(insights, fmt.Sprintf(
			"Negative review share is %s%%, indicating the top friction points should be prioritized in product fixes.",
			num(reviews.NegativeSharePct)))
	}
	if pricing.AvgPriceGapPct != nil {
		insights = append(insights, fmt.Sprintf(
			"Average price gap vs competitors is %s%%; pricing strategy needs calibration where value perception is weaker.",
			num(pricing.AvgPriceGapPct)))
	}
	if perf.AvgConversionPct != nil {
		insights = append(insights, fmt.Sprintf(
			"Average conversion rate is %s%%, with low-converting SKUs requiring merchandising or listing optimization.",
			num(perf.AvgConversionPct)))
	}
	if len(insights) == 0 {
		insights = append(insights, limitedDataInsight)
	}

	complaintText := themeList(in.Complaints, 3)
	if complaintText == "" {
		complaintText = "No complaint themes detected."
	}

	var b strings.Builder
	b.WriteString("# Quick Research Report\n")
	b.WriteString("- Mode: Quick\n")
	fmt.Fprintf(&b, "- Business Goal: %s\n", goalTitle(in.Goal))
	b.WriteString("\n## Bullet Insights\n")
	for _, insight := range insights {
		fmt.Fprintf(&b, "- %s\n", insight)
	}

	b.WriteString("\n## Key Metrics\n")
	fmt.Fprintf(&b, "- Reviews used: %d\n", reviews.ReviewCountUsed)
	fmt.Fprintf(&b, "- Average rating: %s\n", num(reviews.AverageRating))
	fmt.Fprintf(&b, "- Negative review share: %s%%\n", num(reviews.NegativeSharePct))
	fmt.Fprintf(&b, "- Avg price gap vs competitors: %s%%\n", num(pricing.AvgPriceGapPct))
	fmt.Fprintf(&b, "- Avg conversion rate: %s%%\n", num(perf.AvgConversionPct))
	fmt.Fprintf(&b, "- Top complaints: %s\n", complaintText)

	b.WriteString("\n## Immediate Recommendations\n")
	for _, rec := range in.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}

	b.WriteString("\n## Confidence & Reliability\n")
	fmt.Fprintf(&b, "- Confidence Score: %d%%\n", in.Confidence)
	fmt.Fprintf(&b, "- Data Completeness: %s\n", in.CompletenessLabel)
	b.WriteString("- Risk Flags:\n")
	if len(in.RiskFlags) > 0 {
		for _, flag := range in.RiskFlags {
			fmt.Fprintf(&b, "  - %s\n", flag)
		}
	} else {
		b.WriteString("  - None\n")
	}

	b.WriteString("\n## Supporting Evidence\n")
	fmt.Fprintf(&b, "- Sources: %s\n", joinCitations(in.Citations))

	b.WriteString("\n## What should the business do next — and why?\n")
	b.WriteString("- Execute a 2-week fix-and-test cycle on top complaints and pricing outliers to improve conversion while reducing margin leakage.")
	return b.String()
}
