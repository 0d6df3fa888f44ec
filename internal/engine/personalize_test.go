package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insightforge/insightforge/internal/model"
)

func TestChooseNextCategory(t *testing.T) {
	t.Parallel()

	catalog := []model.Record{
		{"category": "audio", "price": 100},
		{"category": "wearables", "price": 100},
		{"category": "audio", "price": 120},
	}

	t.Run("highest mean price wins", func(t *testing.T) {
		got := chooseNextCategory(model.DomainMemory{}, catalog)
		assert.Contains(t, got, "'audio'")
	})

	t.Run("novelty bias flips the choice", func(t *testing.T) {
		mem := model.DomainMemory{ProductCategories: []string{"audio"}}
		// wearables: 100 * 1.15 = 115 beats audio's known 110.
		got := chooseNextCategory(mem, catalog)
		assert.Contains(t, got, "'wearables'")
	})

	t.Run("margin KPI mention boosts all categories", func(t *testing.T) {
		mem := model.DomainMemory{PreferredKPIs: []string{"Gross Margin %"}}
		got := chooseNextCategory(mem, catalog)
		assert.Contains(t, got, "'audio'")
	})

	t.Run("rows without category or price are skipped", func(t *testing.T) {
		got := chooseNextCategory(model.DomainMemory{}, []model.Record{
			{"category": "", "price": 10},
			{"category": "x", "price": "n/a"},
		})
		assert.Equal(t, nextCategoryAdvisory, got)
	})

	t.Run("empty catalog yields advisory", func(t *testing.T) {
		assert.Equal(t, nextCategoryAdvisory, chooseNextCategory(model.DomainMemory{}, nil))
	})

	t.Run("ties keep first catalog appearance", func(t *testing.T) {
		got := chooseNextCategory(model.DomainMemory{}, []model.Record{
			{"category": "b", "price": 50},
			{"category": "a", "price": 50},
		})
		assert.Contains(t, got, "'b'")
	})
}

func TestWantsNextCategory(t *testing.T) {
	t.Parallel()

	assert.True(t, wantsNextCategory(model.Brief{Query: "So, WHAT Category Should I Explore Next?"}))
	assert.True(t, wantsNextCategory(model.Brief{QueryType: "next_category"}))
	assert.False(t, wantsNextCategory(model.Brief{Query: "how are margins trending"}))
	assert.False(t, wantsNextCategory(model.Brief{}))
}

func TestParseConstraints(t *testing.T) {
	t.Parallel()

	flags := ParseConstraints([]string{
		"Focus on NEGATIVE REVIEWS only",
		"compare against premium competitors",
	})
	assert.True(t, flags.NegativeReviewsOnly)
	assert.True(t, flags.PremiumCompetitorsOnly)
	assert.False(t, flags.OptimizeMargins)

	flags = ParseConstraints([]string{"optimize margins aggressively"})
	assert.True(t, flags.OptimizeMargins)
	assert.False(t, flags.NegativeReviewsOnly)

	assert.Equal(t, ConstraintFlags{}, ParseConstraints(nil))
}
