package services

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/reelforge/reelforge/internal/models"
)

// mockGenerator is a mock implementation of the content generator for testing
type mockGenerator struct {
	response *genai.GenerateContentResponse
	err      error
	calls    int
}

func (m *mockGenerator) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func textResponse(payload string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []genai.Part{genai.Text(payload)},
				},
			},
		},
	}
}

func newTestGeminiClassifier(gen contentGenerator) *GeminiClassifier {
	catalog := DefaultCatalog()
	return &GeminiClassifier{
		gen:      gen,
		catalog:  catalog,
		fallback: NewRuleClassifier(catalog),
	}
}

func classifierScenes() []models.SceneForSelection {
	return []models.SceneForSelection{
		{ID: "scene-1", Index: 0, SceneType: models.SceneTypeHook, Narration: "Opening line", DurationSeconds: 6},
		{ID: "scene-2", Index: 1, SceneType: models.SceneTypeTestimonial, Narration: "A happy customer speaking", DurationSeconds: 6},
	}
}

func TestGeminiClassifier_TransportErrorFallsBackToRules(t *testing.T) {
	gen := &mockGenerator{err: fmt.Errorf("connection refused")}
	classifier := newTestGeminiClassifier(gen)
	scenes := classifierScenes()

	got, err := classifier.ClassifyScenes(context.Background(), scenes)
	if err != nil {
		t.Fatalf("ClassifyScenes returned error: %v", err)
	}

	want, _ := classifier.fallback.ClassifyScenes(context.Background(), scenes)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback output differs from rule classifier:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestGeminiClassifier_MalformedJSONFallsBackToRules(t *testing.T) {
	gen := &mockGenerator{response: textResponse("this is not json")}
	classifier := newTestGeminiClassifier(gen)
	scenes := classifierScenes()

	got, err := classifier.ClassifyScenes(context.Background(), scenes)
	if err != nil {
		t.Fatalf("ClassifyScenes returned error: %v", err)
	}

	want, _ := classifier.fallback.ClassifyScenes(context.Background(), scenes)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fallback output differs from rule classifier:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestGeminiClassifier_WrongResultCountFallsBackToRules(t *testing.T) {
	// One result for two scenes: the whole batch is discarded
	payload := `[{"scene_id":"scene-1","scene_index":0,"recommended_provider":"runway","fallback_provider":"veo","confidence":90,"reasoning":"x","content_classification":"cinematic"}]`
	gen := &mockGenerator{response: textResponse(payload)}
	classifier := newTestGeminiClassifier(gen)
	scenes := classifierScenes()

	got, err := classifier.ClassifyScenes(context.Background(), scenes)
	if err != nil {
		t.Fatalf("ClassifyScenes returned error: %v", err)
	}

	want, _ := classifier.fallback.ClassifyScenes(context.Background(), scenes)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected full-batch fallback, got %+v", got)
	}
}

func TestGeminiClassifier_EmptyResponseFallsBackToRules(t *testing.T) {
	gen := &mockGenerator{response: &genai.GenerateContentResponse{}}
	classifier := newTestGeminiClassifier(gen)
	scenes := classifierScenes()

	got, err := classifier.ClassifyScenes(context.Background(), scenes)
	if err != nil {
		t.Fatalf("ClassifyScenes returned error: %v", err)
	}

	want, _ := classifier.fallback.ClassifyScenes(context.Background(), scenes)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected full-batch fallback, got %+v", got)
	}
}

func TestGeminiClassifier_ValidResponse(t *testing.T) {
	payload := `[
		{"scene_id":"scene-1","scene_index":0,"recommended_provider":"veo","fallback_provider":"runway","confidence":88,"reasoning":"sweeping opening","content_classification":"cinematic"},
		{"scene_id":"scene-2","scene_index":1,"recommended_provider":"kling","fallback_provider":"runway","confidence":92,"reasoning":"person on camera","content_classification":"human_subjects"}
	]`
	gen := &mockGenerator{response: textResponse(payload)}
	classifier := newTestGeminiClassifier(gen)

	results, err := classifier.ClassifyScenes(context.Background(), classifierScenes())
	if err != nil {
		t.Fatalf("ClassifyScenes returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].RecommendedProvider != "veo" || results[0].Classification != models.ClassificationCinematic {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].RecommendedProvider != "kling" || results[1].Confidence != 92 {
		t.Errorf("unexpected second result: %+v", results[1])
	}
	if gen.calls != 1 {
		t.Errorf("expected one batched request, got %d", gen.calls)
	}
}

func TestGeminiClassifier_CoercesInvalidFields(t *testing.T) {
	payload := `[
		{"scene_id":"scene-1","scene_index":0,"recommended_provider":"sora","fallback_provider":"","confidence":250,"reasoning":"made up provider","content_classification":"avant_garde"},
		{"scene_id":"scene-2","scene_index":1,"recommended_provider":"kling","fallback_provider":"veo","confidence":-5,"reasoning":"fine","content_classification":"human_subjects"}
	]`
	gen := &mockGenerator{response: textResponse(payload)}
	classifier := newTestGeminiClassifier(gen)

	results, err := classifier.ClassifyScenes(context.Background(), classifierScenes())
	if err != nil {
		t.Fatalf("ClassifyScenes returned error: %v", err)
	}

	// Unknown provider and classification collapse to the safe defaults
	if results[0].RecommendedProvider != "runway" {
		t.Errorf("expected cinematic-tier default runway, got %s", results[0].RecommendedProvider)
	}
	if results[0].FallbackProvider != "runway" {
		t.Errorf("expected cinematic-tier default for empty fallback, got %s", results[0].FallbackProvider)
	}
	if results[0].Classification != models.ClassificationMixed {
		t.Errorf("expected mixed for unknown classification, got %s", results[0].Classification)
	}
	if results[0].Confidence != 100 {
		t.Errorf("expected confidence clamped to 100, got %d", results[0].Confidence)
	}
	if results[1].Confidence != 0 {
		t.Errorf("expected confidence clamped to 0, got %d", results[1].Confidence)
	}
}

func TestGeminiClassifier_EmptySceneList(t *testing.T) {
	gen := &mockGenerator{}
	classifier := newTestGeminiClassifier(gen)

	results, err := classifier.ClassifyScenes(context.Background(), nil)
	if err != nil {
		t.Fatalf("ClassifyScenes returned error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil results, got %+v", results)
	}
	if gen.calls != 0 {
		t.Errorf("expected no request for an empty batch, got %d", gen.calls)
	}
}
