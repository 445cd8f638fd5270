package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/reelforge/reelforge/internal/logger"
	"github.com/reelforge/reelforge/internal/models"
	"google.golang.org/api/option"
)

const geminiTemperature = 0.2

// contentGenerator is the slice of *genai.GenerativeModel the classifier
// uses, extracted so tests can substitute a fake
type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClassifier batches all scenes of a project into one structured
// extraction request against Gemini. Any transport error, parse failure or
// empty response triggers a full fallback to the rule-based strategy for
// the entire batch: partial LLM results are never trusted.
type GeminiClassifier struct {
	client   *genai.Client
	gen      contentGenerator
	catalog  *Catalog
	fallback *RuleClassifier
}

// NewGeminiClassifier creates the Gemini-backed classifier
func NewGeminiClassifier(apiKey, modelName string, catalog *Catalog, fallback *RuleClassifier) (*GeminiClassifier, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	temp := float32(geminiTemperature)
	model.Temperature = &temp

	return &GeminiClassifier{
		client:   client,
		gen:      model,
		catalog:  catalog,
		fallback: fallback,
	}, nil
}

// Close releases the underlying Gemini client
func (gc *GeminiClassifier) Close() error {
	if gc.client == nil {
		return nil
	}
	return gc.client.Close()
}

// geminiSceneResult mirrors one element of the expected JSON array
type geminiSceneResult struct {
	SceneID               string `json:"scene_id"`
	SceneIndex            int    `json:"scene_index"`
	RecommendedProvider   string `json:"recommended_provider"`
	FallbackProvider      string `json:"fallback_provider"`
	Confidence            int    `json:"confidence"`
	Reasoning             string `json:"reasoning"`
	ContentClassification string `json:"content_classification"`
}

// ClassifyScenes sends one batched extraction request and validates every
// field of the response against the closed enumerations
func (gc *GeminiClassifier) ClassifyScenes(ctx context.Context, scenes []models.SceneForSelection) ([]models.SceneClassification, error) {
	if len(scenes) == 0 {
		return nil, nil
	}

	prompt := gc.buildPrompt(scenes)

	resp, err := gc.gen.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Warn("Gemini classification failed, falling back to rule-based classifier")
		return gc.fallback.ClassifyScenes(ctx, scenes)
	}

	jsonString, err := extractResponseText(resp)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Warn("Gemini returned an unusable response, falling back to rule-based classifier")
		return gc.fallback.ClassifyScenes(ctx, scenes)
	}

	var raw []geminiSceneResult
	if err := json.Unmarshal([]byte(jsonString), &raw); err != nil {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Warn("Failed to parse Gemini classification JSON, falling back to rule-based classifier")
		return gc.fallback.ClassifyScenes(ctx, scenes)
	}
	if len(raw) != len(scenes) {
		logger.WithFields(map[string]interface{}{
			"expected": len(scenes),
			"got":      len(raw),
		}).Warn("Gemini returned wrong number of scene results, falling back to rule-based classifier")
		return gc.fallback.ClassifyScenes(ctx, scenes)
	}

	results := make([]models.SceneClassification, 0, len(scenes))
	for i, r := range raw {
		results = append(results, gc.validateResult(scenes[i], r))
	}
	return results, nil
}

// validateResult coerces one raw result into the closed enumerations.
// Invalid or missing providers default to the cinematic-tier provider;
// invalid classifications default to mixed.
func (gc *GeminiClassifier) validateResult(scene models.SceneForSelection, r geminiSceneResult) models.SceneClassification {
	classification := models.ContentClassification(r.ContentClassification)
	if !models.ValidClassification(classification) {
		classification = models.ClassificationMixed
	}

	cinematicDefault := gc.catalog.FirstWithStrength(StrengthCinematic)

	recommended := r.RecommendedProvider
	if !gc.catalog.Has(recommended) {
		recommended = cinematicDefault
	}
	fallbackProvider := r.FallbackProvider
	if !gc.catalog.Has(fallbackProvider) {
		fallbackProvider = cinematicDefault
	}

	return models.SceneClassification{
		SceneID:             scene.ID,
		SceneIndex:          scene.Index,
		RecommendedProvider: recommended,
		FallbackProvider:    fallbackProvider,
		Confidence:          clampScore(r.Confidence),
		Reasoning:           r.Reasoning,
		Classification:      classification,
	}
}

func (gc *GeminiClassifier) buildPrompt(scenes []models.SceneForSelection) string {
	var sb strings.Builder
	sb.WriteString("You are classifying scenes of a video advertisement for provider routing.\n")
	sb.WriteString("Classify every scene into exactly one of: cinematic, human_subjects, product_reveal, broll, mixed.\n")
	sb.WriteString("Available providers: ")
	for i, p := range gc.catalog.Providers() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.ID)
	}
	sb.WriteString(".\n")
	sb.WriteString("Respond with a JSON array, one object per scene in the given order, with fields: ")
	sb.WriteString("scene_id, scene_index, recommended_provider, fallback_provider, confidence (0-100), reasoning, content_classification.\n\nScenes:\n")

	for _, scene := range scenes {
		sb.WriteString(fmt.Sprintf("- scene_id=%s index=%d type=%s narration=%q visual_direction=%q duration=%.1fs\n",
			scene.ID, scene.Index, scene.SceneType, scene.Narration, scene.VisualDirection, scene.DurationSeconds))
	}

	return sb.String()
}

// extractResponseText pulls the text part out of a Gemini response
func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	text, ok := part.(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response part type: %T", part)
	}

	return string(text), nil
}
