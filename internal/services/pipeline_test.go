package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/reelforge/reelforge/internal/database"
	"github.com/reelforge/reelforge/internal/models"
)

// fakeProductionRepo records every persisted snapshot in order
type fakeProductionRepo struct {
	mu        sync.Mutex
	snapshots []*models.Production
}

func (f *fakeProductionRepo) Create(ctx context.Context, p *models.Production) error { return nil }

func (f *fakeProductionRepo) Get(ctx context.Context, id string) (*models.Production, error) {
	return nil, database.ErrNotFound
}

func (f *fakeProductionRepo) GetByUser(ctx context.Context, userID string) ([]*models.Production, error) {
	return nil, nil
}

func (f *fakeProductionRepo) Update(ctx context.Context, p *models.Production) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots = append(f.snapshots, p)
	return nil
}

func (f *fakeProductionRepo) last() *models.Production {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.snapshots) == 0 {
		return nil
	}
	return f.snapshots[len(f.snapshots)-1]
}

type failingScripting struct{}

func (failingScripting) GenerateScript(ctx context.Context, brief models.Brief) (*models.ScriptManifest, error) {
	return nil, fmt.Errorf("scripting backend unreachable")
}

type fakeVoiceover struct {
	err error
}

func (f *fakeVoiceover) GenerateVoiceover(ctx context.Context, script, voiceID string) (*VoiceoverResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &VoiceoverResult{URL: "https://audio.example/vo.mp3", DurationSeconds: 58.5}, nil
}

type fakeImage struct {
	mu           sync.Mutex
	failSections map[models.SectionName]bool
	calls        map[models.SectionName]int
	onGenerate   func(section models.SectionName)
}

func newFakeImage() *fakeImage {
	return &fakeImage{
		failSections: map[models.SectionName]bool{},
		calls:        map[models.SectionName]int{},
	}
}

func (f *fakeImage) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	f.mu.Lock()
	f.calls[req.Section.Name]++
	f.mu.Unlock()
	if f.onGenerate != nil {
		f.onGenerate(req.Section.Name)
	}
	if f.failSections[req.Section.Name] {
		return nil, fmt.Errorf("image provider rejected the request")
	}
	return &ImageResult{
		URL:    fmt.Sprintf("https://img.example/%s.png", strings.ToLower(string(req.Section.Name))),
		Source: "ai",
		Width:  1920,
		Height: 1080,
	}, nil
}

func (f *fakeImage) callCount(section models.SectionName) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[section]
}

type fakeMotion struct {
	err   error
	calls int
}

func (f *fakeMotion) GenerateClip(ctx context.Context, req ClipRequest) (*ClipResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ClipResult{URL: "https://video.example/hook.mp4", DurationSeconds: req.DurationSeconds}, nil
}

// scriptedEvaluator returns a different score batch on each call
type scriptedEvaluator struct {
	batches [][]SectionScore
	calls   int
}

func (s *scriptedEvaluator) EvaluateAssets(ctx context.Context, productionID string, brief models.Brief) ([]SectionScore, error) {
	batch := s.batches[s.calls]
	if s.calls < len(s.batches)-1 {
		s.calls++
	}
	return batch, nil
}

func uniformScores(score int, failing map[models.SectionName]int) []SectionScore {
	scores := make([]SectionScore, 0, 5)
	for _, name := range models.DefaultSectionOrder() {
		v := score
		if override, ok := failing[name]; ok {
			v = override
		}
		scores = append(scores, SectionScore{Section: name, Relevance: v, Technical: v, BrandFit: v, Emotional: v})
	}
	return scores
}

func cbdProduction() *models.Production {
	return &models.Production{
		ID:     "prod-1",
		UserID: "user-1",
		Brief: models.Brief{
			ProductName:     "Calm CBD Oil",
			Description:     "Premium hemp extract for relaxation",
			TargetAudience:  "stressed professionals",
			Benefits:        []string{"better sleep", "less stress"},
			DurationSeconds: 60,
			Platform:        models.PlatformInstagram,
			Style:           models.StyleProfessional,
			CallToAction:    "Order yours today",
		},
		Status: models.ProductionStatusQueued,
		Phases: models.NewPhases(),
	}
}

func newTestPipeline(repo *fakeProductionRepo, caps CapabilitySet) *PipelineService {
	catalog := DefaultCatalog()
	ps := NewPipelineService(
		repo,
		NewSelectorService(catalog),
		NewRuleClassifier(catalog),
		NewQualityGate(caps.Evaluator),
		nil,
		caps,
	)
	ps.sleep = func(time.Duration) {}
	return ps
}

func phaseByName(p *models.Production, name models.PhaseName) models.Phase {
	for _, phase := range p.Phases {
		if phase.Name == name {
			return phase
		}
	}
	return models.Phase{}
}

func hasLog(p *models.Production, category models.LogCategory, substr string) bool {
	for _, e := range p.Logs {
		if e.Category == category && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestRun_CompletesAllPhases(t *testing.T) {
	repo := &fakeProductionRepo{}
	caps := CapabilitySet{
		Scripting: NewTemplateScripting(),
		Voiceover: &fakeVoiceover{},
		Image:     newFakeImage(),
		Motion:    &fakeMotion{},
		Evaluator: &scriptedEvaluator{batches: [][]SectionScore{uniformScores(84, nil)}},
	}
	pipeline := newTestPipeline(repo, caps)
	production := cbdProduction()

	if err := pipeline.Run(context.Background(), production); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	final := repo.last()
	if final == nil {
		t.Fatal("no snapshot was persisted")
	}
	if final.Status != models.ProductionStatusCompleted {
		t.Fatalf("expected completed status, got %s", final.Status)
	}

	wantStatuses := map[models.PhaseName]models.PhaseStatus{
		models.PhaseAnalyze:  models.PhaseStatusCompleted,
		models.PhaseGenerate: models.PhaseStatusCompleted,
		models.PhaseEvaluate: models.PhaseStatusCompleted,
		models.PhaseIterate:  models.PhaseStatusSkipped,
		models.PhaseAssemble: models.PhaseStatusCompleted,
	}
	for name, want := range wantStatuses {
		phase := phaseByName(final, name)
		if phase.Status != want {
			t.Errorf("phase %s: expected %s, got %s", name, want, phase.Status)
		}
		if phase.Progress != 100 {
			t.Errorf("phase %s: expected progress 100, got %d", name, phase.Progress)
		}
	}

	// 5 section images + hook clip + music track
	if len(final.Assets) != 7 {
		t.Fatalf("expected 7 assets, got %d", len(final.Assets))
	}
	for _, asset := range final.Assets {
		if asset.Status != models.AssetStatusApproved {
			t.Errorf("asset %s (%s): expected approved, got %s", asset.ID, asset.Section, asset.Status)
		}
	}

	if final.Voiceover == nil || final.Voiceover.URL == "" {
		t.Error("expected a voiceover on the aggregate")
	}
	if final.OverallScore == nil || *final.OverallScore != 84 {
		t.Errorf("expected overall score 84, got %v", final.OverallScore)
	}
	if !hasLog(final, models.LogCategorySuccess, "Video assembled: 60s total") {
		t.Error("expected the assembly summary log")
	}
	if !hasLog(final, models.LogCategorySuccess, "84/100") {
		t.Error("expected the overall score in the summary log")
	}
	if !hasLog(final, models.LogCategoryDecision, "Script manifest created with 5 sections") {
		t.Error("expected the manifest decision log")
	}
}

func TestRun_PhaseOrderingAndMonotonicProgress(t *testing.T) {
	repo := &fakeProductionRepo{}
	caps := CapabilitySet{
		Scripting: NewTemplateScripting(),
		Voiceover: &fakeVoiceover{},
		Image:     newFakeImage(),
		Motion:    &fakeMotion{},
		Evaluator: &scriptedEvaluator{batches: [][]SectionScore{uniformScores(84, nil)}},
	}
	pipeline := newTestPipeline(repo, caps)

	if err := pipeline.Run(context.Background(), cbdProduction()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	order := models.PhaseOrder()
	lastProgress := map[models.PhaseName]int{}
	for i, snap := range repo.snapshots {
		for _, name := range order {
			phase := phaseByName(snap, name)
			if phase.Progress < lastProgress[name] {
				t.Fatalf("snapshot %d: phase %s progress went backwards (%d -> %d)",
					i, name, lastProgress[name], phase.Progress)
			}
			lastProgress[name] = phase.Progress
		}
		// A later phase can only leave pending once every earlier phase
		// has reached a terminal status
		for j := 1; j < len(order); j++ {
			later := phaseByName(snap, order[j])
			if later.Status == models.PhaseStatusPending {
				continue
			}
			for k := 0; k < j; k++ {
				earlier := phaseByName(snap, order[k])
				if earlier.Status != models.PhaseStatusCompleted &&
					earlier.Status != models.PhaseStatusSkipped &&
					earlier.Status != models.PhaseStatusFailed {
					t.Fatalf("snapshot %d: phase %s active while %s is %s",
						i, order[j], order[k], earlier.Status)
				}
			}
		}
	}
}

func TestRun_ScriptingFailureIsFatal(t *testing.T) {
	repo := &fakeProductionRepo{}
	caps := CapabilitySet{Scripting: failingScripting{}}
	pipeline := newTestPipeline(repo, caps)

	err := pipeline.Run(context.Background(), cbdProduction())
	if err == nil {
		t.Fatal("expected an error, got nil")
	}

	final := repo.last()
	if final.Status != models.ProductionStatusFailed {
		t.Errorf("expected failed status, got %s", final.Status)
	}
	if got := phaseByName(final, models.PhaseAnalyze).Status; got != models.PhaseStatusFailed {
		t.Errorf("expected analyze phase failed, got %s", got)
	}
	if got := phaseByName(final, models.PhaseGenerate).Status; got != models.PhaseStatusPending {
		t.Errorf("expected generate phase untouched, got %s", got)
	}
	if !hasLog(final, models.LogCategoryError, "Script generation failed") {
		t.Error("expected the fatal error to be logged")
	}
}

func TestRun_VoiceoverFailureDegrades(t *testing.T) {
	repo := &fakeProductionRepo{}
	caps := CapabilitySet{
		Scripting: NewTemplateScripting(),
		Voiceover: &fakeVoiceover{err: fmt.Errorf("tts quota exceeded")},
		Image:     newFakeImage(),
		Motion:    &fakeMotion{},
		Evaluator: &scriptedEvaluator{batches: [][]SectionScore{uniformScores(84, nil)}},
	}
	pipeline := newTestPipeline(repo, caps)

	if err := pipeline.Run(context.Background(), cbdProduction()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	final := repo.last()
	if final.Status != models.ProductionStatusCompleted {
		t.Errorf("expected completed status despite voiceover failure, got %s", final.Status)
	}
	if final.Voiceover != nil {
		t.Error("expected no voiceover on the aggregate")
	}
	if !hasLog(final, models.LogCategoryFallback, "Voiceover generation failed") {
		t.Error("expected a voiceover fallback log")
	}
	if !hasLog(final, models.LogCategoryGeneration, "timing scenes to music") {
		t.Error("expected assembly to note the missing narration track")
	}
}

func TestRun_ImageFailureSkipsSection(t *testing.T) {
	repo := &fakeProductionRepo{}
	image := newFakeImage()
	image.failSections[models.SectionSolution] = true
	caps := CapabilitySet{
		Scripting: NewTemplateScripting(),
		Voiceover: &fakeVoiceover{},
		Image:     image,
		Motion:    &fakeMotion{},
		Evaluator: &scriptedEvaluator{batches: [][]SectionScore{uniformScores(84, nil)}},
	}
	pipeline := newTestPipeline(repo, caps)

	if err := pipeline.Run(context.Background(), cbdProduction()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	final := repo.last()
	if final.Status != models.ProductionStatusCompleted {
		t.Errorf("expected completed status, got %s", final.Status)
	}
	for _, asset := range final.Assets {
		if asset.Section == models.SectionSolution && asset.Type == models.AssetTypeAIImage {
			t.Error("expected no image asset for the failed section")
		}
	}
	if len(final.Assets) != 6 {
		t.Errorf("expected 6 assets with one section skipped, got %d", len(final.Assets))
	}
	if !hasLog(final, models.LogCategoryError, "Image generation failed for SOLUTION") {
		t.Error("expected an error log for the skipped section")
	}
}

func TestRun_MotionFailureSubstitutesStock(t *testing.T) {
	repo := &fakeProductionRepo{}
	caps := CapabilitySet{
		Scripting: NewTemplateScripting(),
		Voiceover: &fakeVoiceover{},
		Image:     newFakeImage(),
		Motion:    &fakeMotion{err: fmt.Errorf("render farm offline")},
		Evaluator: &scriptedEvaluator{batches: [][]SectionScore{uniformScores(84, nil)}},
	}
	pipeline := newTestPipeline(repo, caps)

	if err := pipeline.Run(context.Background(), cbdProduction()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	final := repo.last()
	var video *models.Asset
	for i := range final.Assets {
		if final.Assets[i].Type == models.AssetTypeVideo {
			video = &final.Assets[i]
		}
	}
	if video == nil {
		t.Fatal("expected a video asset")
	}
	if video.Provider != "stock" {
		t.Errorf("expected stock substitute, got provider %s", video.Provider)
	}
	if !hasLog(final, models.LogCategoryFallback, "substituting licensed stock clip") {
		t.Error("expected a stock substitution fallback log")
	}
}

func TestRun_FailingAssetRegeneratedOnce(t *testing.T) {
	repo := &fakeProductionRepo{}
	image := newFakeImage()
	evaluator := &scriptedEvaluator{batches: [][]SectionScore{
		uniformScores(84, map[models.SectionName]int{models.SectionSolution: 62}),
		uniformScores(78, nil),
	}}
	caps := CapabilitySet{
		Scripting: NewTemplateScripting(),
		Voiceover: &fakeVoiceover{},
		Image:     image,
		Motion:    &fakeMotion{},
		Evaluator: evaluator,
	}
	pipeline := newTestPipeline(repo, caps)

	if err := pipeline.Run(context.Background(), cbdProduction()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	final := repo.last()
	if got := phaseByName(final, models.PhaseIterate).Status; got != models.PhaseStatusCompleted {
		t.Fatalf("expected iterate phase completed, got %s", got)
	}

	var original, regenerated *models.Asset
	for i := range final.Assets {
		a := &final.Assets[i]
		if a.Section != models.SectionSolution || a.Type != models.AssetTypeAIImage {
			continue
		}
		if a.RegenerationCount == 0 {
			original = a
		} else {
			regenerated = a
		}
	}

	if original == nil || regenerated == nil {
		t.Fatal("expected both the rejected original and the regenerated asset to be retained")
	}
	if original.Status != models.AssetStatusRejected {
		t.Errorf("expected the original to stay rejected, got %s", original.Status)
	}
	if original.QualityScore == nil || *original.QualityScore != 62 {
		t.Errorf("expected original score 62, got %v", original.QualityScore)
	}
	if regenerated.RegenerationCount != 1 {
		t.Errorf("expected regeneration count 1, got %d", regenerated.RegenerationCount)
	}
	if regenerated.Status != models.AssetStatusApproved {
		t.Errorf("expected the regenerated asset approved, got %s", regenerated.Status)
	}
	if regenerated.QualityScore == nil || *regenerated.QualityScore != 78 {
		t.Errorf("expected regenerated score 78, got %v", regenerated.QualityScore)
	}

	// One original generation plus exactly one regeneration
	if got := image.callCount(models.SectionSolution); got != 2 {
		t.Errorf("expected 2 image calls for SOLUTION, got %d", got)
	}
	if !hasLog(final, models.LogCategoryError, "below quality threshold") {
		t.Error("expected the failing evaluation log")
	}
	if !hasLog(final, models.LogCategorySuccess, "Regenerated SOLUTION asset (score 78/100)") {
		t.Error("expected the regeneration success log")
	}
}

func TestRun_EvaluatorAbsentFailsOpen(t *testing.T) {
	repo := &fakeProductionRepo{}
	caps := CapabilitySet{
		Scripting: NewTemplateScripting(),
		Voiceover: &fakeVoiceover{},
		Image:     newFakeImage(),
		Motion:    &fakeMotion{},
	}
	pipeline := newTestPipeline(repo, caps)

	if err := pipeline.Run(context.Background(), cbdProduction()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	final := repo.last()
	if final.Status != models.ProductionStatusCompleted {
		t.Fatalf("expected completed status, got %s", final.Status)
	}
	if got := phaseByName(final, models.PhaseEvaluate).Status; got != models.PhaseStatusCompleted {
		t.Errorf("expected evaluate phase completed, got %s", got)
	}
	if got := phaseByName(final, models.PhaseIterate).Status; got != models.PhaseStatusSkipped {
		t.Errorf("expected iterate phase skipped, got %s", got)
	}
	for _, asset := range final.Assets {
		if asset.Status != models.AssetStatusApproved {
			t.Errorf("asset %s: expected fail-open approval, got %s", asset.ID, asset.Status)
		}
		if asset.QualityScore != nil {
			t.Errorf("asset %s: expected no score without an evaluator", asset.ID)
		}
	}
	if final.OverallScore != nil {
		t.Errorf("expected no overall score, got %v", final.OverallScore)
	}
	if !hasLog(final, models.LogCategoryFallback, "Quality evaluation unavailable") {
		t.Error("expected an evaluation fallback log")
	}
}

func TestRun_CancellationRetainsPartialWork(t *testing.T) {
	repo := &fakeProductionRepo{}
	ctx, cancel := context.WithCancel(context.Background())

	image := newFakeImage()
	image.onGenerate = func(section models.SectionName) {
		if section == models.SectionSolution {
			cancel()
		}
	}
	caps := CapabilitySet{
		Scripting: NewTemplateScripting(),
		Voiceover: &fakeVoiceover{},
		Image:     image,
		Motion:    &fakeMotion{},
		Evaluator: &scriptedEvaluator{batches: [][]SectionScore{uniformScores(84, nil)}},
	}
	pipeline := newTestPipeline(repo, caps)

	err := pipeline.Run(ctx, cbdProduction())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	final := repo.last()
	if final.Status != models.ProductionStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", final.Status)
	}
	if len(final.Assets) == 0 {
		t.Error("expected produced assets to be retained after cancellation")
	}
	if len(final.Logs) == 0 {
		t.Error("expected run logs to be retained after cancellation")
	}
	if !hasLog(final, models.LogCategoryError, "cancelled by user") {
		t.Error("expected a cancellation log entry")
	}
	// No further phases ran
	if got := phaseByName(final, models.PhaseEvaluate).Status; got != models.PhaseStatusPending {
		t.Errorf("expected evaluate phase untouched, got %s", got)
	}
}

func TestRun_BrandOverlayPlacement(t *testing.T) {
	repo := &fakeProductionRepo{}
	caps := CapabilitySet{
		Scripting: NewTemplateScripting(),
		Voiceover: &fakeVoiceover{},
		Image:     newFakeImage(),
		Motion:    &fakeMotion{},
		Evaluator: &scriptedEvaluator{batches: [][]SectionScore{uniformScores(84, nil)}},
	}
	pipeline := newTestPipeline(repo, caps)
	pipeline.brands = NewBrandMatcher(&mockBrandAssetRepo{pool: []models.BrandAsset{
		{
			ID: "logo-1", Name: "Calm Logo", MediaType: models.BrandMediaLogo,
			UsageContexts: []string{"closing"}, Priority: 5, Active: true,
		},
	}})

	if err := pipeline.Run(context.Background(), cbdProduction()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	final := repo.last()
	if !hasLog(final, models.LogCategoryDecision, `Placing brand logo "Calm Logo"`) {
		t.Error("expected a brand overlay decision log")
	}
}
