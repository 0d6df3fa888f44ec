// Package prompt renders a memory-aware research prompt from a request
// document and a base agent prompt. Unlike an analysis brief, a prompt
// request carries source availability flags rather than the data itself.
package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/insightforge/insightforge/internal/model"
)

// Request is the prompt-building request.
type Request struct {
	Mode          string          `json:"mode" yaml:"mode"`
	BusinessGoal  string          `json:"business_goal" yaml:"business_goal"`
	Scope         model.Scope     `json:"scope" yaml:"scope"`
	DataAvailable map[string]bool `json:"data_available" yaml:"data_available"`
	Constraints   []string        `json:"constraints" yaml:"constraints"`
	KPIPriority   []string        `json:"kpi_priority" yaml:"kpi_priority"`
	AnalysisTheme string          `json:"analysis_theme" yaml:"analysis_theme"`
}

// completeness scores availability flags over the fixed source set.
// There is no jitter here; the prompt states the plain estimate.
func completeness(avail map[string]bool) (int, string) {
	present := 0
	for _, name := range model.ExpectedSources {
		if avail[name] {
			present++
		}
	}
	score := present * 100 / len(model.ExpectedSources)
	switch {
	case score >= 80:
		return score, "High"
	case score >= 50:
		return score, "Medium"
	default:
		return score, "Low"
	}
}

func bullets(items []string, fallback string) string {
	if len(items) == 0 {
		return "- " + fallback
	}
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orNotProvided(s string) string {
	if s == "" {
		return "Not provided"
	}
	return s
}

func outputInstructions(mode model.Mode) string {
	if mode == model.ModeQuick {
		return strings.Join([]string{
			"Output format:",
			"1) Bullet Insights",
			"2) Key Metrics",
			"3) Immediate Recommendations",
			"4) What should the business do next — and why?",
		}, "\n")
	}
	return strings.Join([]string{
		"Output format (mandatory sections):",
		"1) Executive Summary",
		"2) Key Findings",
		"3) Supporting Evidence",
		"4) Competitive Insights",
		"5) Risks & Opportunities",
		"6) Strategic Recommendations",
		"7) Confidence Score (0-100%)",
		"8) Data Completeness Assessment",
		"9) Risk Flags",
		"10) What should the business do next — and why?",
	}, "\n")
}

// Build renders the full prompt: the base agent prompt followed by the
// current brief, data availability, memory personalization context,
// analysis requirements, reliability flags, and output instructions.
// Missing request fields, when any, append a clarification section.
func Build(basePrompt string, req Request, missing []string, mem model.DomainMemory) (string, error) {
	mode, err := model.NormalizeMode(req.Mode)
	if err != nil {
		return "", err
	}
	goal, err := model.NormalizeGoal(req.BusinessGoal)
	if err != nil {
		return "", err
	}

	score, label := completeness(req.DataAvailable)

	var reliability []string
	if score < 50 {
		reliability = append(reliability, "Data coverage is sparse; conclusions must be treated as directional.")
	}
	if !req.DataAvailable[model.SourceReviews] {
		reliability = append(reliability, "Review sentiment confidence is reduced because review data is missing.")
	}
	if !req.DataAvailable[model.SourcePricing] {
		reliability = append(reliability, "Price competitiveness analysis is constrained due to missing pricing data.")
	}
	if !req.DataAvailable[model.SourceCompetitors] {
		reliability = append(reliability, "Competitive benchmarking depth is limited due to missing competitor data.")
	}
	if len(reliability) == 0 {
		reliability = append(reliability, "No major reliability warning detected from availability flags.")
	}

	title := cases.Title(language.English)

	marketplaces := strings.Join(req.Scope.Marketplaces, ", ")
	if marketplaces == "" {
		marketplaces = "Not provided"
	}

	lines := []string{
		basePrompt,
		"",
		"---",
		"",
		"## CURRENT RESEARCH BRIEF",
		fmt.Sprintf("- Mode: %s", title.String(string(mode))),
		fmt.Sprintf("- Business Goal: %s", title.String(string(goal))),
		"- Scope:",
		bullets([]string{
			fmt.Sprintf("Marketplaces: %s", marketplaces),
			fmt.Sprintf("Category/Product: %s", orNotProvided(req.Scope.CategoryOrProduct)),
			fmt.Sprintf("Region: %s", orNotProvided(req.Scope.Region)),
			fmt.Sprintf("Timeframe: %s", orNotProvided(req.Scope.Timeframe)),
		}, "Not provided"),
		"- KPI Priority:",
		bullets(req.KPIPriority, "Not provided"),
		"- Constraints:",
		bullets(req.Constraints, "Not provided"),
		"",
		"## DATA AVAILABILITY",
		"- Available Sources:",
		bullets([]string{
			fmt.Sprintf("Catalog: %s", yesNo(req.DataAvailable[model.SourceCatalog])),
			fmt.Sprintf("Reviews: %s", yesNo(req.DataAvailable[model.SourceReviews])),
			fmt.Sprintf("Pricing: %s", yesNo(req.DataAvailable[model.SourcePricing])),
			fmt.Sprintf("Competitor Listings: %s", yesNo(req.DataAvailable[model.SourceCompetitors])),
			fmt.Sprintf("Performance Signals: %s", yesNo(req.DataAvailable[model.SourcePerformance])),
		}, "Not provided"),
		fmt.Sprintf("- Data Completeness Estimate: %d%% (%s)", score, label),
		"",
		"## MEMORY PERSONALIZATION CONTEXT",
		"Use persistent memory to personalize recommendations:",
		"- Preferred KPIs from prior sessions:",
		bullets(mem.PreferredKPIs, "Not provided"),
		"- Preferred marketplaces from prior sessions:",
		bullets(mem.TargetMarketplaces, "Not provided"),
		"- Product categories of interest from prior sessions:",
		bullets(mem.ProductCategories, "Not provided"),
		"- Past analysis themes:",
		bullets(mem.PastAnalysisThemes, "Not provided"),
		"",
		"## ANALYSIS REQUIREMENTS FOR THIS RUN",
		"- If request fields are ambiguous, ask clarifying questions before final recommendations.",
		"- Quantify risks and likely business impact where evidence exists.",
		"- Avoid unsupported claims; explicitly state assumptions.",
		"- Include competitive context and prioritize decision usefulness over metric dumps.",
		"- Optimize retrieval effort: keep analysis lean unless deeper synthesis is required.",
		"",
		"## RELIABILITY FLAGS",
		bullets(reliability, "Not provided"),
		"",
		"## OUTPUT INSTRUCTIONS",
		outputInstructions(mode),
	}

	if len(missing) > 0 {
		lines = append(lines,
			"",
			"## CLARIFICATION REQUIRED BEFORE HIGH-CONFIDENCE OUTPUT",
			"Missing required fields detected:",
			bullets(missing, "Not provided"),
			"Ask concise clarifying questions and provide a partial analysis if user cannot provide all fields.",
		)
	}

	return strings.Join(lines, "\n"), nil
}
