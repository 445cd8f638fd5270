package services

import (
	"context"

	"github.com/reelforge/reelforge/internal/models"
)

// SceneClassifier labels each scene of a project with a content
// classification and a recommended/fallback provider pair. Both strategies
// (Gemini-backed and rule-based) implement this interface and share the
// same output contract, so the rule-based path is a drop-in substitute.
type SceneClassifier interface {
	ClassifyScenes(ctx context.Context, scenes []models.SceneForSelection) ([]models.SceneClassification, error)
}

// providersForClassification maps a classification to a recommended and
// fallback provider from the catalog. Deterministic: first-match in
// catalog declaration order.
func providersForClassification(catalog *Catalog, c models.ContentClassification) (recommended, fallback string) {
	cinematic := catalog.FirstWithStrength(StrengthCinematic)
	switch c {
	case models.ClassificationCinematic:
		return cinematic, catalog.FirstWithStrength(StrengthProductReveal)
	case models.ClassificationHumanSubjects:
		return catalog.FirstWithStrength(StrengthHumanSubjects), cinematic
	case models.ClassificationProductReveal:
		return catalog.FirstWithStrength(StrengthProductReveal), cinematic
	case models.ClassificationBRoll:
		return catalog.FirstWithStrength(StrengthBRoll), catalog.FirstWithStrength(StrengthCostEfficient)
	default:
		return cinematic, catalog.FirstWithStrength(StrengthHumanSubjects)
	}
}
