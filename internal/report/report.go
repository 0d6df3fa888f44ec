// Package report synthesizes the mode-specific markdown reports. Both
// templates are pure functions over a shared input contract; nothing here
// touches I/O or mutates state.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/insightforge/insightforge/internal/model"
)

// Input is the shared contract consumed by both report templates.
type Input struct {
	Goal              model.Goal
	Metrics           model.MetricsBundle
	Complaints        []model.ThemeCount
	FeatureGaps       []model.FeatureGap
	Citations         []string
	Confidence        int
	CompletenessScore int
	CompletenessLabel string
	RiskFlags         []string
	DowngradeNote     string
	NextCategory      string
	Recommendations   []string
}

// Recommendations returns the fixed, mode-appropriate action list. A
// margin-protection item is prepended in deep mode when the goal is
// profitability, and the personalizer's suggestion is appended when set.
func Recommendations(mode model.Mode, goal model.Goal, nextCategory string) []string {
	var recs []string
	if mode == model.ModeQuick {
		recs = []string{
			"Prioritize top two complaint themes in the next sprint and validate impact on rating and return-rate.",
			"Run price-position tests on over-priced SKUs against closest alternatives.",
			"Adjust traffic allocation toward SKUs with stronger conversion and lower complaint density.",
		}
	} else {
		recs = []string{
			"Rebalance portfolio investment toward high-conversion, lower-return SKUs and reduce spend on low-yield listings.",
			"Address top complaint drivers through product and listing improvements, then measure impact on conversion and returns.",
			"Close high-frequency feature gaps versus competitors to improve value perception and win-rate.",
		}
		if goal == model.GoalProfitability {
			recs = append([]string{
				"Prioritize margin protection by reducing discount dependency on SKUs already price-competitive.",
			}, recs...)
		}
	}
	if nextCategory != "" {
		recs = append(recs, nextCategory)
	}
	return recs
}

// Clarification builds the short-circuit report emitted before any
// analysis when required business context is missing.
func Clarification(questions []string) string {
	var b strings.Builder
	b.WriteString("# Clarification Required\n")
	b.WriteString("To generate high-confidence business recommendations, please clarify:\n")
	for _, q := range questions {
		fmt.Fprintf(&b, "- %s\n", q)
	}
	b.WriteString("\nI can still provide a partial directional analysis if needed.")
	return b.String()
}

// num renders an optional metric, with "N/A" standing in for absence.
// Whole numbers keep one decimal so a 3.0 average never reads as 3.
func num(v *float64) string {
	if v == nil {
		return "N/A"
	}
	s := strconv.FormatFloat(*v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// goalTitle title-cases the goal for report headers. A Caser carries
// internal state, so one is built per call rather than shared.
func goalTitle(goal model.Goal) string {
	return cases.Title(language.English).String(string(goal))
}

func joinCitations(citations []string) string {
	if len(citations) == 0 {
		return "Inline data only"
	}
	return strings.Join(citations, ", ")
}

func themeList(complaints []model.ThemeCount, limit int) string {
	if len(complaints) > limit {
		complaints = complaints[:limit]
	}
	parts := make([]string, len(complaints))
	for i, c := range complaints {
		parts[i] = fmt.Sprintf("%s (%d)", c.Theme, c.Count)
	}
	return strings.Join(parts, ", ")
}

func featureList(gaps []model.FeatureGap, limit int) string {
	if len(gaps) > limit {
		gaps = gaps[:limit]
	}
	parts := make([]string, len(gaps))
	for i, g := range gaps {
		parts[i] = fmt.Sprintf("%s (%d)", g.Feature, g.Count)
	}
	return strings.Join(parts, ", ")
}
