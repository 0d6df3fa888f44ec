// Package engine implements the analysis core: source normalization,
// metric computation, noise detection, confidence scoring, memory-driven
// personalization, and report synthesis.
package engine

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/insightforge/insightforge/internal/model"
	"github.com/insightforge/insightforge/internal/report"
	"github.com/insightforge/insightforge/internal/source"
)

// downgradeNote is prepended to deep reports when completeness falls
// below the medium threshold; the output is directional, not silent
// degradation.
const downgradeNote = "Deep mode was partially downgraded to directional output due to low data completeness; " +
	"add missing sources for stronger confidence."

// clarificationGoalQuestion is asked when the brief omits business_goal.
const clarificationGoalQuestion = "What is the primary business goal: growth, retention, profitability, or market expansion?"

// Engine runs analyses against a root directory. It is synchronous,
// holds no state between runs beyond its jitter source, and never
// writes files. The jitter source is guarded, so one Engine may serve
// concurrent invocations.
type Engine struct {
	rootDir string

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed pins the jitter source, making the perturbed portion of the
// completeness and confidence scores reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates an Engine resolving relative source paths against rootDir.
// Successive analyses on the same Engine share one jitter stream, seeded
// from the clock unless WithSeed is given.
func New(rootDir string, opts ...Option) *Engine {
	e := &Engine{
		rootDir: rootDir,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// jitter draws a uniform integer in [lo, hi].
func (e *Engine) jitter(lo, hi int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return lo + e.rng.Intn(hi-lo+1)
}

// Analyze runs the full pipeline for one brief and returns the report
// plus its structured backing numbers. Mode and goal validation fail
// before any I/O; a missing business_goal short-circuits to a
// clarification report instead of failing.
func (e *Engine) Analyze(brief model.Brief, mem model.DomainMemory) (*model.AnalysisResult, error) {
	mode, err := model.NormalizeMode(brief.Mode)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(brief.BusinessGoal) == "" {
		questions := []string{clarificationGoalQuestion}
		return &model.AnalysisResult{
			Report:              report.Clarification(questions),
			Mode:                mode,
			ClarificationNeeded: true,
			Questions:           questions,
		}, nil
	}
	goal, err := model.NormalizeGoal(brief.BusinessGoal)
	if err != nil {
		return nil, err
	}

	payloads := make(map[string]*model.SourcePayload, len(model.ExpectedSources))
	for _, name := range model.ExpectedSources {
		payload, err := source.Load(name, brief.DataSources[name], e.rootDir)
		if err != nil {
			return nil, err
		}
		payloads[name] = payload
	}

	flags := ParseConstraints(brief.Constraints)

	reviews := payloads[model.SourceReviews].Records
	pricing := payloads[model.SourcePricing].Records
	perf := payloads[model.SourcePerformance].Records
	catalog := payloads[model.SourceCatalog].Records
	competitors := payloads[model.SourceCompetitors].Records

	metrics := model.MetricsBundle{
		Reviews:     reviewMetrics(reviews, flags.NegativeReviewsOnly),
		Pricing:     priceGapMetrics(pricing, flags.PremiumCompetitorsOnly),
		Performance: performanceMetrics(perf),
	}
	complaints := topComplaints(reviews, flags.NegativeReviewsOnly)
	featureGaps := competitorFeatureGaps(catalog, competitors, flags.PremiumCompetitorsOnly)

	completeness := e.calculateCompleteness(payloads)
	noiseFlags := detectNoise(payloads)

	var riskFlags []string
	if len(completeness.Missing) > 0 {
		riskFlags = append(riskFlags, fmt.Sprintf("Missing sources: %s", strings.Join(completeness.Missing, ", ")))
	}
	riskFlags = append(riskFlags, noiseFlags...)

	var citations []string
	for _, name := range model.ExpectedSources {
		if payload := payloads[name]; len(payload.Records) > 0 {
			citations = append(citations, fmt.Sprintf("%s: %s", name, payload.Provenance))
		}
	}

	confidence := e.scoreConfidence(completeness.Score, noiseFlags, payloads)

	nextCategory := ""
	if wantsNextCategory(brief) {
		nextCategory = chooseNextCategory(mem, catalog)
	}

	note := ""
	if mode == model.ModeDeep && completeness.Score < labelMediumThreshold {
		note = downgradeNote
	}

	recommendations := report.Recommendations(mode, goal, nextCategory)

	in := report.Input{
		Goal:              goal,
		Metrics:           metrics,
		Complaints:        complaints,
		FeatureGaps:       featureGaps,
		Citations:         citations,
		Confidence:        confidence,
		CompletenessScore: completeness.Score,
		CompletenessLabel: completeness.Label,
		RiskFlags:         riskFlags,
		DowngradeNote:     note,
		NextCategory:      nextCategory,
		Recommendations:   recommendations,
	}

	var text string
	if mode == model.ModeQuick {
		text = report.Quick(in)
	} else {
		text = report.Deep(in)
	}

	zap.L().Debug("engine: analysis complete",
		zap.String("mode", string(mode)),
		zap.String("business_goal", string(goal)),
		zap.Int("confidence", confidence),
		zap.Int("completeness", completeness.Score),
		zap.Int("noise_flags", len(noiseFlags)),
	)

	return &model.AnalysisResult{
		Report:            text,
		Mode:              mode,
		BusinessGoal:      goal,
		Confidence:        confidence,
		CompletenessScore: completeness.Score,
		CompletenessLabel: completeness.Label,
		MissingSources:    completeness.Missing,
		NoiseFlags:        noiseFlags,
		RiskFlags:         riskFlags,
		Metrics:           metrics,
		Complaints:        complaints,
		FeatureGaps:       featureGaps,
		Citations:         citations,
		Recommendations:   recommendations,
		NextCategory:      nextCategory,
	}, nil
}
