package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/insightforge/insightforge/internal/model"
)

func TestCalculateCompleteness(t *testing.T) {
	t.Parallel()

	t.Run("all sources missing clamps to floor", func(t *testing.T) {
		e := New("", WithSeed(1))
		for i := 0; i < 20; i++ {
			c := e.calculateCompleteness(payloadsWith(nil))
			assert.Equal(t, 10, c.Score, "0% coverage plus jitter always clamps to the floor")
			assert.Equal(t, "Low", c.Label)
			assert.Equal(t, model.ExpectedSources, c.Missing)
		}
	})

	t.Run("all sources present stays high", func(t *testing.T) {
		e := New("", WithSeed(1))
		full := map[string][]model.Record{}
		for _, name := range model.ExpectedSources {
			full[name] = []model.Record{{"x": 1}}
		}
		for i := 0; i < 20; i++ {
			c := e.calculateCompleteness(payloadsWith(full))
			assert.GreaterOrEqual(t, c.Score, 95)
			assert.LessOrEqual(t, c.Score, 100)
			assert.Equal(t, "High", c.Label)
			assert.Empty(t, c.Missing)
		}
	})

	t.Run("three of five is medium band", func(t *testing.T) {
		e := New("", WithSeed(1))
		c := e.calculateCompleteness(payloadsWith(map[string][]model.Record{
			model.SourceCatalog: {{"x": 1}},
			model.SourceReviews: {{"x": 1}},
			model.SourcePricing: {{"x": 1}},
		}))
		// 60 +/- 5 keeps the label Medium either way.
		assert.GreaterOrEqual(t, c.Score, 55)
		assert.LessOrEqual(t, c.Score, 65)
		assert.Equal(t, "Medium", c.Label)
		assert.Equal(t, []string{model.SourceCompetitors, model.SourcePerformance}, c.Missing)
	})

	t.Run("missing list is jitter independent", func(t *testing.T) {
		a := New("", WithSeed(3))
		b := New("", WithSeed(99))
		in := map[string][]model.Record{model.SourceReviews: {{"x": 1}}}
		assert.Equal(t,
			a.calculateCompleteness(payloadsWith(in)).Missing,
			b.calculateCompleteness(payloadsWith(in)).Missing,
		)
	})
}

func TestScoreConfidence(t *testing.T) {
	t.Parallel()

	t.Run("bounded", func(t *testing.T) {
		e := New("", WithSeed(5))
		for _, completeness := range []int{10, 50, 100} {
			for i := 0; i < 20; i++ {
				got := e.scoreConfidence(completeness, nil, payloadsWith(nil))
				assert.GreaterOrEqual(t, got, 10)
				assert.LessOrEqual(t, got, 100)
			}
		}
	})

	t.Run("monotone in completeness at fixed seed", func(t *testing.T) {
		payloads := payloadsWith(map[string][]model.Record{
			model.SourceReviews: {{"rating": 5}, {"rating": 4}},
		})
		low := New("", WithSeed(11)).scoreConfidence(20, nil, payloads)
		high := New("", WithSeed(11)).scoreConfidence(90, nil, payloads)
		assert.GreaterOrEqual(t, high, low)
	})

	t.Run("noise penalty lowers score", func(t *testing.T) {
		payloads := make(map[string]*model.SourcePayload)
		for _, name := range model.ExpectedSources {
			records := make([]model.Record, 30)
			for i := range records {
				records[i] = model.Record{"x": 1}
			}
			payloads[name] = &model.SourcePayload{Name: name, Records: records, Provenance: model.ProvenanceInline}
		}
		noise := []string{"a", "b", "c", "d"}

		clean := New("", WithSeed(21)).scoreConfidence(90, nil, payloads)
		noisy := New("", WithSeed(21)).scoreConfidence(90, noise, payloads)
		assert.Equal(t, 20, clean-noisy, "four flags cost the full capped penalty")
	})

	t.Run("dynamic floor scales with loaded sources", func(t *testing.T) {
		// Five loaded sources but a rock-bottom completeness: the floor
		// 30 + 8*5 = 70 dominates the blended base.
		payloads := make(map[string]*model.SourcePayload)
		for _, name := range model.ExpectedSources {
			payloads[name] = &model.SourcePayload{Name: name, Records: []model.Record{{"x": 1}}, Provenance: model.ProvenanceInline}
		}
		for i := 0; i < 20; i++ {
			got := New("", WithSeed(int64(i))).scoreConfidence(10, []string{"n1", "n2", "n3", "n4"}, payloads)
			assert.GreaterOrEqual(t, got, 66, "floor 70 plus worst jitter -4")
		}
	})
}

func TestJitterBounds(t *testing.T) {
	t.Parallel()

	e := New("", WithSeed(123))
	for i := 0; i < 1000; i++ {
		v := e.jitter(-5, 5)
		assert.GreaterOrEqual(t, v, -5)
		assert.LessOrEqual(t, v, 5)
	}
}
