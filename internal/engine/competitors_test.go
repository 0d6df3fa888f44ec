package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightforge/insightforge/internal/model"
)

func TestCompetitorFeatureGaps(t *testing.T) {
	t.Parallel()

	catalog := []model.Record{
		{"features": []any{"Bluetooth 5.0", "fast charging"}},
	}

	t.Run("counts features we lack", func(t *testing.T) {
		competitors := []model.Record{
			{"features": []any{"noise cancellation", "Fast Charging"}},
			{"features": []any{"noise cancellation", "wireless charging"}},
		}
		got := competitorFeatureGaps(catalog, competitors, false)
		require.Len(t, got, 2)
		assert.Equal(t, model.FeatureGap{Feature: "noise cancellation", Count: 2}, got[0])
		assert.Equal(t, model.FeatureGap{Feature: "wireless charging", Count: 1}, got[1])
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		competitors := []model.Record{
			{"features": []any{"BLUETOOTH 5.0"}},
		}
		assert.Empty(t, competitorFeatureGaps(catalog, competitors, false))
	})

	t.Run("premium only filter", func(t *testing.T) {
		competitors := []model.Record{
			{"tier": "mass", "features": []any{"noise cancellation"}},
			{"tier": "premium", "features": []any{"aptX codec"}},
		}
		got := competitorFeatureGaps(catalog, competitors, true)
		require.Len(t, got, 1)
		assert.Equal(t, "aptx codec", got[0].Feature)
	})

	t.Run("scalar feature values wrap", func(t *testing.T) {
		competitors := []model.Record{
			{"features": "water resistance"},
		}
		got := competitorFeatureGaps(nil, competitors, false)
		require.Len(t, got, 1)
		assert.Equal(t, "water resistance", got[0].Feature)
	})

	t.Run("top five cap", func(t *testing.T) {
		competitors := []model.Record{
			{"features": []any{"a", "b", "c", "d", "e", "f"}},
		}
		assert.Len(t, competitorFeatureGaps(nil, competitors, false), 5)
	})
}
