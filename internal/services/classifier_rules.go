package services

import (
	"context"
	"strings"

	"github.com/reelforge/reelforge/internal/models"
)

// Rule-based classification confidences
const (
	confidenceOverride = 85
	confidenceKeyword  = 75
	confidenceDefault  = 60
)

// Keyword vocabularies for frequency scoring. Matching is case-insensitive
// substring containment over narration plus visual direction.
var (
	cinematicTerms = []string{"cinematic", "dramatic", "sweeping", "aerial", "epic", "slow motion", "montage"}
	humanTerms     = []string{"person", "people", "face", "woman", "man", "smiling", "speaking", "talking", "customer"}
	productTerms   = []string{"product", "bottle", "packshot", "close-up", "closeup", "reveal", "packaging", "label"}
	brollTerms     = []string{"b-roll", "broll", "footage", "everyday", "background", "ambient", "scenery"}
)

// RuleClassifier is the deterministic fallback classifier. It is a pure
// function of scene text and type: no randomness, no external calls. It is
// also the default strategy when no model credential is configured.
type RuleClassifier struct {
	catalog *Catalog
}

// NewRuleClassifier creates the rule-based classifier over the catalog
func NewRuleClassifier(catalog *Catalog) *RuleClassifier {
	return &RuleClassifier{catalog: catalog}
}

// ClassifyScenes labels every scene using scene-type overrides layered on
// keyword-frequency scoring. Never returns an error.
func (rc *RuleClassifier) ClassifyScenes(ctx context.Context, scenes []models.SceneForSelection) ([]models.SceneClassification, error) {
	results := make([]models.SceneClassification, 0, len(scenes))
	for _, scene := range scenes {
		results = append(results, rc.classifyScene(scene))
	}
	return results, nil
}

func (rc *RuleClassifier) classifyScene(scene models.SceneForSelection) models.SceneClassification {
	// Hard overrides by scene type take precedence over keyword counts
	if classification, reason, ok := overrideForSceneType(scene.SceneType); ok {
		recommended, fallback := providersForClassification(rc.catalog, classification)
		return models.SceneClassification{
			SceneID:             scene.ID,
			SceneIndex:          scene.Index,
			RecommendedProvider: recommended,
			FallbackProvider:    fallback,
			Confidence:          confidenceOverride,
			Reasoning:           reason,
			Classification:      classification,
		}
	}

	text := strings.ToLower(scene.Narration + " " + scene.VisualDirection)
	counts := map[models.ContentClassification]int{
		models.ClassificationCinematic:     countTerms(text, cinematicTerms),
		models.ClassificationHumanSubjects: countTerms(text, humanTerms),
		models.ClassificationProductReveal: countTerms(text, productTerms),
		models.ClassificationBRoll:         countTerms(text, brollTerms),
	}

	best := models.ClassificationMixed
	bestCount := 0
	// Fixed iteration order keeps ties deterministic
	for _, c := range []models.ContentClassification{
		models.ClassificationCinematic,
		models.ClassificationHumanSubjects,
		models.ClassificationProductReveal,
		models.ClassificationBRoll,
	} {
		if counts[c] > bestCount {
			best = c
			bestCount = counts[c]
		}
	}

	recommended, fallback := providersForClassification(rc.catalog, best)
	if bestCount == 0 {
		return models.SceneClassification{
			SceneID:             scene.ID,
			SceneIndex:          scene.Index,
			RecommendedProvider: recommended,
			FallbackProvider:    fallback,
			Confidence:          confidenceDefault,
			Reasoning:           "No keyword or scene-type signal; defaulting to mixed",
			Classification:      models.ClassificationMixed,
		}
	}

	return models.SceneClassification{
		SceneID:             scene.ID,
		SceneIndex:          scene.Index,
		RecommendedProvider: recommended,
		FallbackProvider:    fallback,
		Confidence:          confidenceKeyword,
		Reasoning:           "Keyword frequency scoring over narration and visual direction",
		Classification:      best,
	}
}

func overrideForSceneType(sceneType models.SceneType) (models.ContentClassification, string, bool) {
	switch sceneType {
	case models.SceneTypeHook, models.SceneTypeCTA:
		return models.ClassificationCinematic, "Opening and closing scenes default to cinematic treatment", true
	case models.SceneTypeTestimonial:
		return models.ClassificationHumanSubjects, "Testimonial scenes require human subjects", true
	case models.SceneTypeProduct:
		return models.ClassificationProductReveal, "Product scenes default to product reveal treatment", true
	case models.SceneTypeBRoll, models.SceneTypeExplanation:
		return models.ClassificationBRoll, "Explanatory scenes default to b-roll coverage", true
	}
	return "", "", false
}

func countTerms(text string, terms []string) int {
	count := 0
	for _, term := range terms {
		count += strings.Count(text, term)
	}
	return count
}
