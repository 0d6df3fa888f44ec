package engine

import (
	"math"

	"github.com/insightforge/insightforge/internal/model"
)

// Completeness bounds and label thresholds.
const (
	completenessFloor    = 10
	completenessCeiling  = 100
	labelHighThreshold   = 80
	labelMediumThreshold = 50
)

// Completeness measures how many expected source categories contributed
// at least one record. Missing is jitter-independent.
type Completeness struct {
	Score   int      `json:"score"`
	Label   string   `json:"label"`
	Missing []string `json:"missing"`
}

// calculateCompleteness scores category coverage out of the fixed
// expected set, perturbed by a bounded jitter to simulate production
// variance, then clamped to [10, 100].
func (e *Engine) calculateCompleteness(payloads map[string]*model.SourcePayload) Completeness {
	available := 0
	var missing []string
	for _, name := range model.ExpectedSources {
		if len(payloads[name].Records) > 0 {
			available++
		} else {
			missing = append(missing, name)
		}
	}

	score := int(math.Round(float64(available) / float64(len(model.ExpectedSources)) * 100))
	score = clamp(score+e.jitter(-5, 5), completenessFloor, completenessCeiling)

	label := "Low"
	switch {
	case score >= labelHighThreshold:
		label = "High"
	case score >= labelMediumThreshold:
		label = "Medium"
	}

	return Completeness{Score: score, Label: label, Missing: missing}
}
