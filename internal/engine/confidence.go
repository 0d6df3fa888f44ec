package engine

import (
	"math"

	"github.com/insightforge/insightforge/internal/model"
)

// Confidence formula constants.
const (
	completenessWeight = 0.65
	evidenceWeight     = 0.35
	evidencePerRecord  = 2
	maxNoisePenalty    = 20
	penaltyPerFlag     = 5
	floorBase          = 30
	floorPerSource     = 8
	floorMinimum       = 15
)

// scoreConfidence blends completeness, evidence volume, and noise
// penalties into a bounded trust score. The dynamic floor scales with how
// many categories supplied any data, so richer inputs never score below a
// proportionally higher baseline even when noisy.
func (e *Engine) scoreConfidence(completenessScore int, noiseFlags []string, payloads map[string]*model.SourcePayload) int {
	evidenceVolume := 0
	loadedSources := 0
	for _, payload := range payloads {
		evidenceVolume += len(payload.Records)
		if len(payload.Records) > 0 {
			loadedSources++
		}
	}
	evidenceScore := min(100, evidenceVolume*evidencePerRecord)

	base := int(math.Round(completenessWeight*float64(completenessScore) + evidenceWeight*float64(evidenceScore)))
	penalty := min(maxNoisePenalty, len(noiseFlags)*penaltyPerFlag)

	dynamicFloor := max(floorMinimum, floorBase+loadedSources*floorPerSource)

	final := max(dynamicFloor, base-penalty)
	return clamp(final+e.jitter(-4, 6), 10, 100)
}
