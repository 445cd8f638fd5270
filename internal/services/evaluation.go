package services

import (
	"context"
	"fmt"
	"math"

	"github.com/reelforge/reelforge/internal/models"
)

// PassThreshold is the fixed quality cutoff. Assets scoring at or above it
// are approved; below it they are routed to the iterate phase. Applied
// uniformly to every section regardless of narrative importance.
const PassThreshold = 70

// Axis weights for the composite score
const (
	weightRelevance = 0.35
	weightTechnical = 0.25
	weightBrandFit  = 0.20
	weightEmotional = 0.20
)

// AssetEvaluation is the gate's verdict for one asset
type AssetEvaluation struct {
	AssetID string
	Section models.SectionName
	Score   int
	Passed  bool
}

// QualityGate scores produced assets along four axes via the evaluation
// capability and gates each against the fixed pass threshold
type QualityGate struct {
	evaluator EvaluationCapability
}

// NewQualityGate creates a gate over the given evaluator
func NewQualityGate(evaluator EvaluationCapability) *QualityGate {
	return &QualityGate{evaluator: evaluator}
}

// Evaluate submits the batch to the evaluator and returns one verdict per
// asset whose section the evaluator scored. The error is returned as-is so
// the caller can apply its fail-open policy.
func (g *QualityGate) Evaluate(ctx context.Context, productionID string, brief models.Brief, assets []models.Asset) ([]AssetEvaluation, error) {
	if g.evaluator == nil {
		return nil, fmt.Errorf("no evaluation capability configured")
	}

	sectionScores, err := g.evaluator.EvaluateAssets(ctx, productionID, brief)
	if err != nil {
		return nil, fmt.Errorf("evaluation capability failed: %w", err)
	}

	bySection := make(map[models.SectionName]int, len(sectionScores))
	for _, s := range sectionScores {
		bySection[s.Section] = CompositeScore(s)
	}

	evaluations := make([]AssetEvaluation, 0, len(assets))
	for _, asset := range assets {
		score, ok := bySection[asset.Section]
		if !ok {
			continue
		}
		evaluations = append(evaluations, AssetEvaluation{
			AssetID: asset.ID,
			Section: asset.Section,
			Score:   score,
			Passed:  score >= PassThreshold,
		})
	}

	return evaluations, nil
}

// CompositeScore collapses the four axis scores into one 0-100 composite
func CompositeScore(s SectionScore) int {
	composite := weightRelevance*float64(s.Relevance) +
		weightTechnical*float64(s.Technical) +
		weightBrandFit*float64(s.BrandFit) +
		weightEmotional*float64(s.Emotional)
	return clampScore(int(math.Round(composite)))
}
