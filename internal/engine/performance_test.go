package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightforge/insightforge/internal/model"
)

func TestPerformanceMetrics(t *testing.T) {
	t.Parallel()

	t.Run("conversion and return rates", func(t *testing.T) {
		perf := []model.Record{
			{"sku": "A", "views": 100, "conversions": 5, "returns": 1},
			{"sku": "B", "views": 50, "conversions": 0, "returns": 0},
		}
		m := performanceMetrics(perf)

		// B's zero conversions still yield a 0% conversion sample but no
		// return sample.
		require.NotNil(t, m.AvgConversionPct)
		assert.InDelta(t, 2.5, *m.AvgConversionPct, 0.001)
		require.NotNil(t, m.AvgReturnPct)
		assert.InDelta(t, 20.0, *m.AvgReturnPct, 0.001)

		require.Len(t, m.UnderperformingSKUs, 1)
		assert.Equal(t, "B", m.UnderperformingSKUs[0].SKU)
		assert.InDelta(t, 0.0, m.UnderperformingSKUs[0].ConversionPct, 0.001)
	})

	t.Run("zero views yields no conversion sample", func(t *testing.T) {
		perf := []model.Record{
			{"sku": "A", "views": 0, "conversions": 5, "returns": 1},
		}
		m := performanceMetrics(perf)
		assert.Nil(t, m.AvgConversionPct)
		// returns/conversions still computable
		require.NotNil(t, m.AvgReturnPct)
		assert.InDelta(t, 20.0, *m.AvgReturnPct, 0.001)
	})

	t.Run("missing sku reported as unknown", func(t *testing.T) {
		perf := []model.Record{
			{"views": 1000, "conversions": 1},
		}
		m := performanceMetrics(perf)
		require.Len(t, m.UnderperformingSKUs, 1)
		assert.Equal(t, "unknown", m.UnderperformingSKUs[0].SKU)
	})

	t.Run("underperformer cap", func(t *testing.T) {
		var perf []model.Record
		for i := 0; i < 8; i++ {
			perf = append(perf, model.Record{"sku": "S", "views": 1000, "conversions": 1})
		}
		m := performanceMetrics(perf)
		assert.Len(t, m.UnderperformingSKUs, 5)
	})

	t.Run("malformed rows never abort", func(t *testing.T) {
		perf := []model.Record{
			{"sku": "A", "views": "many", "conversions": "few"},
			{"sku": "B", "views": 100, "conversions": 4, "returns": "none"},
		}
		m := performanceMetrics(perf)
		require.NotNil(t, m.AvgConversionPct)
		assert.InDelta(t, 4.0, *m.AvgConversionPct, 0.001)
		assert.Nil(t, m.AvgReturnPct)
	})
}
