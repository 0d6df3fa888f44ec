package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNormalizeMode(t *testing.T) {
	t.Parallel()

	mode, err := NormalizeMode("  Quick ")
	require.NoError(t, err)
	assert.Equal(t, ModeQuick, mode)

	mode, err = NormalizeMode("DEEP")
	require.NoError(t, err)
	assert.Equal(t, ModeDeep, mode)

	_, err = NormalizeMode("exhaustive")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported mode")
}

func TestNormalizeGoal(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Goal{
		"growth":           GoalGrowth,
		"Retention":        GoalRetention,
		"PROFITABILITY":    GoalProfitability,
		"market expansion": GoalMarketExpansion,
		"market_expansion": GoalMarketExpansion,
	} {
		goal, err := NormalizeGoal(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, goal, raw)
	}

	_, err := NormalizeGoal("fame")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "growth, market expansion, profitability, retention")
}

func TestSourceDescriptorJSON(t *testing.T) {
	t.Parallel()

	decode := func(t *testing.T, raw string) *SourceDescriptor {
		t.Helper()
		var d SourceDescriptor
		require.NoError(t, json.Unmarshal([]byte(raw), &d))
		return &d
	}

	t.Run("path object", func(t *testing.T) {
		d := decode(t, `{"path": "reviews.json"}`)
		assert.Equal(t, "reviews.json", d.Path)
		assert.Nil(t, d.Records)
	})

	t.Run("record array", func(t *testing.T) {
		d := decode(t, `[{"rating": 5}, {"rating": 1}]`)
		assert.Empty(t, d.Path)
		require.Len(t, d.Records, 2)
		v, ok := d.Records[0].Float("rating")
		require.True(t, ok)
		assert.InDelta(t, 5.0, v, 0.0001)
	})

	t.Run("array with scalar elements", func(t *testing.T) {
		d := decode(t, `[{"rating": 5}, 42]`)
		require.Len(t, d.Records, 2)
		assert.Equal(t, Record{"value": float64(42)}, d.Records[1])
	})

	t.Run("object without path is a single record", func(t *testing.T) {
		d := decode(t, `{"rating": 3}`)
		require.Len(t, d.Records, 1)
	})

	t.Run("bare scalar wraps", func(t *testing.T) {
		d := decode(t, `"just a note"`)
		require.Len(t, d.Records, 1)
		assert.Equal(t, Record{"value": "just a note"}, d.Records[0])
	})

	t.Run("null stays empty", func(t *testing.T) {
		d := decode(t, `null`)
		assert.Empty(t, d.Path)
		assert.Nil(t, d.Records)
	})
}

func TestBriefYAML(t *testing.T) {
	t.Parallel()

	raw := `
mode: deep
business_goal: retention
scope:
  marketplaces: [Amazon, Flipkart]
  category_or_product: earbuds
data_sources:
  catalog:
    path: catalog.json
  reviews:
    - rating: 5
      text: great
    - rating: 1
  pricing: 99
kpi_priority: [margin]
`
	var brief Brief
	require.NoError(t, yaml.Unmarshal([]byte(raw), &brief))

	assert.Equal(t, "deep", brief.Mode)
	assert.Equal(t, []string{"Amazon", "Flipkart"}, brief.Scope.Marketplaces)
	assert.Equal(t, "catalog.json", brief.DataSources["catalog"].Path)
	require.Len(t, brief.DataSources["reviews"].Records, 2)
	assert.Equal(t, "great", brief.DataSources["reviews"].Records[0].String("text"))
	require.Len(t, brief.DataSources["pricing"].Records, 1)
	assert.Equal(t, Record{"value": 99}, brief.DataSources["pricing"].Records[0])
}
