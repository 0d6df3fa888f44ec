package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightforge/insightforge/internal/model"
)

func fullRequest() Request {
	return Request{
		Mode:         "quick",
		BusinessGoal: "growth",
		Scope: model.Scope{
			Marketplaces:      []string{"Amazon.in", "Flipkart"},
			CategoryOrProduct: "wireless earbuds",
			Region:            "India",
			Timeframe:         "last 90 days",
		},
		DataAvailable: map[string]bool{
			"catalog":             true,
			"reviews":             true,
			"pricing":             true,
			"competitors":         true,
			"performance_signals": false,
		},
		Constraints: []string{"budget-sensitive"},
		KPIPriority: []string{"conversion", "rating"},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	got, err := Build("You are a research analyst.", fullRequest(), nil, model.DomainMemory{
		PreferredKPIs:     []string{"margin"},
		ProductCategories: []string{"audio"},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got, "You are a research analyst.\n"))
	for _, section := range []string{
		"## CURRENT RESEARCH BRIEF",
		"## DATA AVAILABILITY",
		"## MEMORY PERSONALIZATION CONTEXT",
		"## ANALYSIS REQUIREMENTS FOR THIS RUN",
		"## RELIABILITY FLAGS",
		"## OUTPUT INSTRUCTIONS",
	} {
		assert.Contains(t, got, section)
	}

	assert.Contains(t, got, "- Mode: Quick\n")
	assert.Contains(t, got, "- Business Goal: Growth\n")
	assert.Contains(t, got, "- Marketplaces: Amazon.in, Flipkart\n")
	assert.Contains(t, got, "- Category/Product: wireless earbuds\n")
	assert.Contains(t, got, "- Catalog: Yes\n")
	assert.Contains(t, got, "- Performance Signals: No\n")
	assert.Contains(t, got, "- Data Completeness Estimate: 80% (High)\n")
	assert.Contains(t, got, "- margin\n")
	assert.Contains(t, got, "- audio\n")
	assert.Contains(t, got, "- No major reliability warning detected from availability flags.\n")
	assert.Contains(t, got, "4) What should the business do next — and why?")
	assert.NotContains(t, got, "## CLARIFICATION REQUIRED")
}

func TestBuildReliabilityNotes(t *testing.T) {
	t.Parallel()

	req := fullRequest()
	req.DataAvailable = map[string]bool{"catalog": true}

	got, err := Build("base", req, nil, model.DomainMemory{})
	require.NoError(t, err)

	assert.Contains(t, got, "- Data Completeness Estimate: 20% (Low)\n")
	assert.Contains(t, got, "Data coverage is sparse; conclusions must be treated as directional.")
	assert.Contains(t, got, "Review sentiment confidence is reduced because review data is missing.")
	assert.Contains(t, got, "Price competitiveness analysis is constrained due to missing pricing data.")
	assert.Contains(t, got, "Competitive benchmarking depth is limited due to missing competitor data.")
}

func TestBuildDeepInstructions(t *testing.T) {
	t.Parallel()

	req := fullRequest()
	req.Mode = "deep"

	got, err := Build("base", req, nil, model.DomainMemory{})
	require.NoError(t, err)

	assert.Contains(t, got, "- Mode: Deep\n")
	assert.Contains(t, got, "Output format (mandatory sections):")
	assert.Contains(t, got, "10) What should the business do next — and why?")
}

func TestBuildClarificationSection(t *testing.T) {
	t.Parallel()

	missing := []string{"scope.region", "data_available.pricing"}
	got, err := Build("base", fullRequest(), missing, model.DomainMemory{})
	require.NoError(t, err)

	assert.Contains(t, got, "## CLARIFICATION REQUIRED BEFORE HIGH-CONFIDENCE OUTPUT")
	assert.Contains(t, got, "- scope.region\n")
	assert.Contains(t, got, "- data_available.pricing\n")
}

func TestBuildFallbacks(t *testing.T) {
	t.Parallel()

	req := Request{Mode: "quick", BusinessGoal: "retention", DataAvailable: map[string]bool{}}
	got, err := Build("base", req, nil, model.DomainMemory{})
	require.NoError(t, err)

	assert.Contains(t, got, "- Marketplaces: Not provided\n")
	assert.Contains(t, got, "- Category/Product: Not provided\n")
	assert.Contains(t, got, "- KPI Priority:\n- Not provided\n")
	assert.Contains(t, got, "- Preferred KPIs from prior sessions:\n- Not provided\n")
}

func TestBuildValidation(t *testing.T) {
	t.Parallel()

	req := fullRequest()
	req.Mode = "exhaustive"
	_, err := Build("base", req, nil, model.DomainMemory{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported mode")

	req = fullRequest()
	req.BusinessGoal = "fame"
	_, err = Build("base", req, nil, model.DomainMemory{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported business_goal")
}

func TestLoadRequest(t *testing.T) {
	t.Parallel()

	writeRequest := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("json with all fields", func(t *testing.T) {
		t.Parallel()
		path := writeRequest(t, "request.json", `{
			"mode": "deep",
			"business_goal": "profitability",
			"scope": {"marketplaces": ["Amazon.in"], "category_or_product": "earbuds", "region": "India", "timeframe": "Q1"},
			"data_available": {"catalog": true, "reviews": true, "pricing": false, "competitors": false, "performance_signals": false}
		}`)

		req, missing, err := LoadRequest(path)
		require.NoError(t, err)
		assert.Empty(t, missing)
		assert.Equal(t, "deep", req.Mode)
		assert.Equal(t, []string{"Amazon.in"}, req.Scope.Marketplaces)
		assert.False(t, req.DataAvailable["pricing"])
	})

	t.Run("yaml with missing subkeys", func(t *testing.T) {
		t.Parallel()
		path := writeRequest(t, "request.yaml", `
mode: quick
business_goal: growth
scope:
  marketplaces: [Amazon.in]
data_available:
  catalog: true
  reviews: true
`)

		req, missing, err := LoadRequest(path)
		require.NoError(t, err)
		assert.Equal(t, "quick", req.Mode)
		assert.Contains(t, missing, "scope.region")
		assert.Contains(t, missing, "scope.timeframe")
		assert.Contains(t, missing, "data_available.pricing")
		assert.NotContains(t, missing, "data_available.catalog")
	})

	t.Run("missing top level fields", func(t *testing.T) {
		t.Parallel()
		path := writeRequest(t, "request.json", `{"mode": "quick"}`)

		_, _, err := LoadRequest(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required request fields: business_goal, scope, data_available")
	})

	t.Run("absent file", func(t *testing.T) {
		t.Parallel()
		_, _, err := LoadRequest(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "prompt: read request")
	})
}
