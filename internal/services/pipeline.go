package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reelforge/reelforge/internal/logger"
	"github.com/reelforge/reelforge/internal/models"
	"github.com/reelforge/reelforge/internal/repository"
)

// evaluationLogDelay paces per-asset evaluation log entries so streaming
// consumers see them arrive individually rather than in one burst
const evaluationLogDelay = 150 * time.Millisecond

// defaultVoiceID is the narration voice used until per-brief voice
// selection is exposed on the request
const defaultVoiceID = "narrator-1"

// PipelineService drives a production through the five phases. One
// instance serves all runs; per-run state lives in productionRun.
type PipelineService struct {
	productions repository.ProductionRepository
	selector    *SelectorService
	classifier  SceneClassifier
	gate        *QualityGate
	brands      *BrandMatcher
	caps        CapabilitySet

	// sleep is swappable in tests
	sleep func(time.Duration)
}

// NewPipelineService creates a pipeline over the given collaborators
func NewPipelineService(
	productions repository.ProductionRepository,
	selector *SelectorService,
	classifier SceneClassifier,
	gate *QualityGate,
	brands *BrandMatcher,
	caps CapabilitySet,
) *PipelineService {
	return &PipelineService{
		productions: productions,
		selector:    selector,
		classifier:  classifier,
		gate:        gate,
		brands:      brands,
		caps:        caps,
		sleep:       time.Sleep,
	}
}

// scenePlan is the ephemeral analysis output consumed by the later phases
type scenePlan struct {
	manifest   *models.ScriptManifest
	selections map[models.SectionName]models.ProviderSelection
}

// Run executes the full pipeline for one production. The production
// aggregate is owned by the run until a terminal status is persisted.
func (ps *PipelineService) Run(ctx context.Context, production *models.Production) error {
	run := newProductionRun(production)
	run.setStatus(models.ProductionStatusRunning)
	ps.persist(ctx, run)

	logger.WithFields(map[string]interface{}{
		"production_id": production.ID,
		"product":       production.Brief.ProductName,
	}).Info("Starting production pipeline")

	plan, err := ps.phaseAnalyze(ctx, run)
	if err != nil {
		run.failPhase(models.PhaseAnalyze)
		run.setStatus(models.ProductionStatusFailed)
		ps.persist(context.Background(), run)
		return err
	}
	if ps.cancelled(ctx, run) {
		return ctx.Err()
	}

	ps.phaseGenerate(ctx, run, plan)
	if ps.cancelled(ctx, run) {
		return ctx.Err()
	}

	failing := ps.phaseEvaluate(ctx, run)
	if ps.cancelled(ctx, run) {
		return ctx.Err()
	}

	ps.phaseIterate(ctx, run, plan, failing)
	if ps.cancelled(ctx, run) {
		return ctx.Err()
	}

	ps.phaseAssemble(ctx, run, plan)
	run.setStatus(models.ProductionStatusCompleted)
	ps.persist(context.Background(), run)

	logger.WithField("production_id", production.ID).Info("Production pipeline completed")
	return nil
}

// cancelled checks the run context at a phase boundary. A cancelled run
// keeps everything produced so far and lands in the cancelled status.
func (ps *PipelineService) cancelled(ctx context.Context, run *productionRun) bool {
	if ctx.Err() == nil {
		return false
	}
	run.appendLog(models.LogCategoryError, run.currentPhase(), "Production cancelled by user")
	run.setStatus(models.ProductionStatusCancelled)
	ps.persist(context.Background(), run)
	logger.WithField("production_id", run.production.ID).Info("Production cancelled")
	return true
}

// phaseAnalyze derives the script manifest, classifies scenes, and locks
// in a provider selection per section. A scripting failure here is the
// pipeline's only fatal error.
func (ps *PipelineService) phaseAnalyze(ctx context.Context, run *productionRun) (*scenePlan, error) {
	run.startPhase(models.PhaseAnalyze)
	ps.persist(ctx, run)

	brief := run.production.Brief
	manifest, err := ps.caps.Scripting.GenerateScript(ctx, brief)
	if err != nil {
		run.appendLog(models.LogCategoryError, models.PhaseAnalyze,
			fmt.Sprintf("Script generation failed: %v", err))
		return nil, fmt.Errorf("script generation failed: %w", err)
	}
	run.appendLog(models.LogCategoryDecision, models.PhaseAnalyze,
		fmt.Sprintf("Script manifest created with %d sections", len(manifest.Sections)))
	run.setProgress(models.PhaseAnalyze, 50)
	ps.persist(ctx, run)

	scenes := scenesFromManifest(manifest)
	classifications := ps.classifyScenes(ctx, run, scenes)

	prefs := PreferencesForStyle(brief.Style)
	selections := make(map[models.SectionName]models.ProviderSelection, len(scenes))
	for i, scene := range scenes {
		if c, ok := classifications[scene.ID]; ok {
			scene.ContentType = contentTypeForClassification(c.Classification)
		}
		selection := ps.selector.SelectForScene(scene, prefs)
		section := manifest.Sections[i].Name
		selections[section] = selection
		run.appendLog(models.LogCategoryDecision, models.PhaseAnalyze,
			fmt.Sprintf("Selected %s for %s: %s", selection.Provider, section, selection.Reason))
	}

	run.appendLog(models.LogCategoryDecision, models.PhaseAnalyze,
		fmt.Sprintf("Visual style directive: %s", manifest.VisualStyle))
	run.completePhase(models.PhaseAnalyze)
	ps.persist(ctx, run)

	return &scenePlan{manifest: manifest, selections: selections}, nil
}

// classifyScenes runs the configured classifier and indexes the results
// by scene ID. Classification is advisory; any failure degrades to
// selection without content-type enrichment.
func (ps *PipelineService) classifyScenes(ctx context.Context, run *productionRun, scenes []models.SceneForSelection) map[string]models.SceneClassification {
	results, err := ps.classifier.ClassifyScenes(ctx, scenes)
	if err != nil {
		run.appendLog(models.LogCategoryFallback, models.PhaseAnalyze,
			"Scene classification unavailable, selecting on narrative role only")
		return nil
	}
	byID := make(map[string]models.SceneClassification, len(results))
	for _, r := range results {
		byID[r.SceneID] = r
	}
	return byID
}

// phaseGenerate produces the voiceover, one image per section, the hook
// motion clip, and the background track. Every failure in this phase is
// degradable; the phase itself always completes.
func (ps *PipelineService) phaseGenerate(ctx context.Context, run *productionRun, plan *scenePlan) {
	run.startPhase(models.PhaseGenerate)
	ps.persist(ctx, run)

	brief := run.production.Brief

	if ps.caps.Voiceover == nil {
		run.appendLog(models.LogCategoryFallback, models.PhaseGenerate,
			"Voiceover capability unavailable, continuing without narration audio")
	} else if vo, err := ps.caps.Voiceover.GenerateVoiceover(ctx, plan.manifest.FullScript, defaultVoiceID); err != nil {
		run.appendLog(models.LogCategoryFallback, models.PhaseGenerate,
			fmt.Sprintf("Voiceover generation failed (%v), continuing without narration audio", err))
	} else {
		run.setVoiceover(&models.Voiceover{URL: vo.URL, DurationSeconds: vo.DurationSeconds})
		run.appendLog(models.LogCategoryGeneration, models.PhaseGenerate,
			fmt.Sprintf("Voiceover generated (%.1fs)", vo.DurationSeconds))
	}
	run.setProgress(models.PhaseGenerate, 15)
	ps.persist(ctx, run)

	sections := plan.manifest.Sections
	for i, section := range sections {
		if ctx.Err() != nil {
			return
		}
		ps.generateSectionImage(ctx, run, brief, section)
		run.setProgress(models.PhaseGenerate, 15+(i+1)*55/len(sections))
		ps.persist(ctx, run)
	}

	if ctx.Err() != nil {
		return
	}
	ps.generateHookClip(ctx, run, plan)
	run.setProgress(models.PhaseGenerate, 85)

	track := MusicFor(brief.Style)
	run.addAsset(models.Asset{
		ID:        uuid.New().String(),
		Type:      models.AssetTypeAudio,
		Provider:  "music-library",
		URL:       track.URL,
		Section:   models.SectionHook,
		Status:    models.AssetStatusPending,
		CreatedAt: time.Now(),
	})
	run.appendLog(models.LogCategoryDecision, models.PhaseGenerate,
		fmt.Sprintf("Selected background track %q (%s)", track.Name, track.Mood))

	run.completePhase(models.PhaseGenerate)
	ps.persist(ctx, run)
}

// generateSectionImage produces one still for a section. A failure is
// logged and the section is skipped; the run continues.
func (ps *PipelineService) generateSectionImage(ctx context.Context, run *productionRun, brief models.Brief, section models.ScriptSection) {
	if ps.caps.Image == nil {
		run.appendLog(models.LogCategoryError, models.PhaseGenerate,
			fmt.Sprintf("Image generation failed for %s: capability unavailable", section.Name))
		return
	}
	img, err := ps.caps.Image.GenerateImage(ctx, ImageRequest{
		Section:     section,
		ProductName: brief.ProductName,
		Style:       string(brief.Style),
	})
	if err != nil {
		run.appendLog(models.LogCategoryError, models.PhaseGenerate,
			fmt.Sprintf("Image generation failed for %s: %v", section.Name, err))
		return
	}
	assetType := models.AssetTypeImage
	if img.Source == "ai" {
		assetType = models.AssetTypeAIImage
	}
	asset := models.Asset{
		ID:        uuid.New().String(),
		Type:      assetType,
		Provider:  img.Source,
		URL:       img.URL,
		Section:   section.Name,
		Width:     img.Width,
		Height:    img.Height,
		Status:    models.AssetStatusPending,
		CreatedAt: time.Now(),
	}
	run.addAsset(asset)
	run.appendAssetLog(models.LogCategoryGeneration, models.PhaseGenerate,
		fmt.Sprintf("Generated image for %s", section.Name), asset.ID)
}

// generateHookClip produces the single motion clip of the run, for the
// hook section. Motion is the costliest capability so only the opening
// scene gets a real clip; a failure substitutes licensed stock footage.
func (ps *PipelineService) generateHookClip(ctx context.Context, run *productionRun, plan *scenePlan) {
	hook := plan.manifest.Section(models.SectionHook)
	if hook == nil {
		return
	}
	selection := plan.selections[models.SectionHook]

	var clip *ClipResult
	var err error
	if ps.caps.Motion == nil {
		err = fmt.Errorf("motion capability unavailable")
	} else {
		clip, err = ps.caps.Motion.GenerateClip(ctx, ClipRequest{
			Section:         *hook,
			Provider:        selection.Provider,
			Style:           string(run.production.Brief.Style),
			DurationSeconds: hook.DurationSeconds,
		})
	}

	provider := selection.Provider
	if err != nil {
		run.appendLog(models.LogCategoryFallback, models.PhaseGenerate,
			fmt.Sprintf("Motion clip failed for %s (%v), substituting licensed stock clip", models.SectionHook, err))
		stock := StockClipFor(models.SectionHook)
		clip = &ClipResult{URL: stock.URL, DurationSeconds: stock.DurationSeconds}
		provider = "stock"
	}

	asset := models.Asset{
		ID:              uuid.New().String(),
		Type:            models.AssetTypeVideo,
		Provider:        provider,
		URL:             clip.URL,
		Section:         models.SectionHook,
		DurationSeconds: clip.DurationSeconds,
		Status:          models.AssetStatusPending,
		CreatedAt:       time.Now(),
	}
	run.addAsset(asset)
	run.appendAssetLog(models.LogCategoryGeneration, models.PhaseGenerate,
		fmt.Sprintf("Generated motion clip for %s via %s", models.SectionHook, provider), asset.ID)
}

// phaseEvaluate scores every produced asset in one batch and returns the
// failing evaluations. An evaluator failure fails open: all assets stay
// as produced and iteration is skipped.
func (ps *PipelineService) phaseEvaluate(ctx context.Context, run *productionRun) []AssetEvaluation {
	run.startPhase(models.PhaseEvaluate)
	ps.persist(ctx, run)

	assets := run.assets()
	evaluations, err := ps.gate.Evaluate(ctx, run.production.ID, run.production.Brief, assets)
	if err != nil {
		run.appendLog(models.LogCategoryFallback, models.PhaseEvaluate,
			fmt.Sprintf("Quality evaluation unavailable (%v), approving produced assets", err))
		run.approveUnscored()
		run.completePhase(models.PhaseEvaluate)
		ps.persist(ctx, run)
		return nil
	}

	var failing []AssetEvaluation
	for i, ev := range evaluations {
		score := ev.Score
		status := models.AssetStatusApproved
		if !ev.Passed {
			status = models.AssetStatusRejected
			failing = append(failing, ev)
		}
		run.updateAsset(ev.AssetID, func(a *models.Asset) {
			a.QualityScore = &score
			a.Status = status
		})
		if ev.Passed {
			run.appendAssetLog(models.LogCategoryEvaluation, models.PhaseEvaluate,
				fmt.Sprintf("%s asset scored %d/100", ev.Section, ev.Score), ev.AssetID)
		} else {
			run.appendAssetLog(models.LogCategoryError, models.PhaseEvaluate,
				fmt.Sprintf("%s asset scored %d/100, below quality threshold", ev.Section, ev.Score), ev.AssetID)
		}
		run.setProgress(models.PhaseEvaluate, (i+1)*100/len(evaluations))
		ps.persist(ctx, run)
		ps.sleep(evaluationLogDelay)
	}

	run.completePhase(models.PhaseEvaluate)
	ps.persist(ctx, run)
	return failing
}

// phaseIterate regenerates each failing asset exactly once and rescores
// the regenerated batch. With nothing failing the phase is skipped at
// full progress.
func (ps *PipelineService) phaseIterate(ctx context.Context, run *productionRun, plan *scenePlan, failing []AssetEvaluation) {
	if len(failing) == 0 {
		run.skipPhase(models.PhaseIterate)
		run.appendLog(models.LogCategoryDecision, models.PhaseIterate,
			"All assets passed the quality gate, iteration not required")
		ps.persist(ctx, run)
		return
	}

	run.startPhase(models.PhaseIterate)
	ps.persist(ctx, run)

	regenerated := make([]models.Asset, 0, len(failing))
	for i, ev := range failing {
		if ctx.Err() != nil {
			return
		}
		original, ok := run.asset(ev.AssetID)
		if !ok {
			continue
		}
		asset, err := ps.regenerateAsset(ctx, run, plan, original)
		if err != nil {
			run.appendAssetLog(models.LogCategoryError, models.PhaseIterate,
				fmt.Sprintf("Regeneration failed for %s: %v", original.Section, err), original.ID)
		} else {
			run.addAsset(*asset)
			regenerated = append(regenerated, *asset)
		}
		run.setProgress(models.PhaseIterate, (i+1)*80/len(failing))
		ps.persist(ctx, run)
	}

	ps.scoreRegenerated(ctx, run, regenerated)
	run.completePhase(models.PhaseIterate)
	ps.persist(ctx, run)
}

// regenerateAsset re-invokes the capability that produced the original.
// The result is a new asset record; the rejected original is kept.
func (ps *PipelineService) regenerateAsset(ctx context.Context, run *productionRun, plan *scenePlan, original models.Asset) (*models.Asset, error) {
	section := plan.manifest.Section(original.Section)
	if section == nil {
		return nil, fmt.Errorf("no script section for %s", original.Section)
	}
	brief := run.production.Brief

	asset := models.Asset{
		ID:                uuid.New().String(),
		Type:              original.Type,
		Section:           original.Section,
		Status:            models.AssetStatusPending,
		RegenerationCount: original.RegenerationCount + 1,
		CreatedAt:         time.Now(),
	}

	switch original.Type {
	case models.AssetTypeImage, models.AssetTypeAIImage:
		if ps.caps.Image == nil {
			return nil, fmt.Errorf("image capability unavailable")
		}
		img, err := ps.caps.Image.GenerateImage(ctx, ImageRequest{
			Section:     *section,
			ProductName: brief.ProductName,
			Style:       string(brief.Style),
		})
		if err != nil {
			return nil, err
		}
		asset.Provider = img.Source
		asset.URL = img.URL
		asset.Width = img.Width
		asset.Height = img.Height
		if img.Source == "ai" {
			asset.Type = models.AssetTypeAIImage
		} else {
			asset.Type = models.AssetTypeImage
		}
	case models.AssetTypeVideo:
		if ps.caps.Motion == nil {
			return nil, fmt.Errorf("motion capability unavailable")
		}
		selection := plan.selections[original.Section]
		clip, err := ps.caps.Motion.GenerateClip(ctx, ClipRequest{
			Section:         *section,
			Provider:        selection.Provider,
			Style:           string(brief.Style),
			DurationSeconds: section.DurationSeconds,
		})
		if err != nil {
			return nil, err
		}
		asset.Provider = selection.Provider
		asset.URL = clip.URL
		asset.DurationSeconds = clip.DurationSeconds
	default:
		return nil, fmt.Errorf("asset type %s is not regenerable", original.Type)
	}

	return &asset, nil
}

// scoreRegenerated rescores the regenerated batch. If the evaluator has
// gone away since the evaluate phase the batch is approved as produced.
func (ps *PipelineService) scoreRegenerated(ctx context.Context, run *productionRun, regenerated []models.Asset) {
	if len(regenerated) == 0 {
		return
	}
	evaluations, err := ps.gate.Evaluate(ctx, run.production.ID, run.production.Brief, regenerated)
	if err != nil {
		for _, asset := range regenerated {
			run.updateAsset(asset.ID, func(a *models.Asset) {
				a.Status = models.AssetStatusApproved
			})
			run.appendAssetLog(models.LogCategorySuccess, models.PhaseIterate,
				fmt.Sprintf("Regenerated %s asset", asset.Section), asset.ID)
		}
		return
	}
	for _, ev := range evaluations {
		score := ev.Score
		status := models.AssetStatusApproved
		if !ev.Passed {
			status = models.AssetStatusRejected
		}
		run.updateAsset(ev.AssetID, func(a *models.Asset) {
			a.QualityScore = &score
			a.Status = status
		})
		run.appendAssetLog(models.LogCategorySuccess, models.PhaseIterate,
			fmt.Sprintf("Regenerated %s asset (score %d/100)", ev.Section, ev.Score), ev.AssetID)
	}
}

// phaseAssemble walks the fixed assembly substeps and writes the final
// summary. Assembly itself is deterministic; the only external call is
// the brand-asset lookup for the closing overlay.
func (ps *PipelineService) phaseAssemble(ctx context.Context, run *productionRun, plan *scenePlan) {
	run.startPhase(models.PhaseAssemble)
	ps.persist(ctx, run)

	run.appendLog(models.LogCategoryGeneration, models.PhaseAssemble, "Applying transitions and scene timing")
	run.setProgress(models.PhaseAssemble, 30)

	if run.voiceover() != nil {
		run.appendLog(models.LogCategoryGeneration, models.PhaseAssemble, "Synchronizing narration with scene boundaries")
	} else {
		run.appendLog(models.LogCategoryGeneration, models.PhaseAssemble, "No narration track, timing scenes to music")
	}
	run.setProgress(models.PhaseAssemble, 50)

	run.appendLog(models.LogCategoryGeneration, models.PhaseAssemble, "Applying color grade and motion effects")
	run.setProgress(models.PhaseAssemble, 70)

	ps.placeBrandOverlay(ctx, run)
	run.setProgress(models.PhaseAssemble, 90)
	ps.persist(ctx, run)

	var total float64
	for _, section := range plan.manifest.Sections {
		total += section.DurationSeconds
	}
	summary := fmt.Sprintf("Video assembled: %.0fs total", total)
	if overall, ok := run.computeOverallScore(); ok {
		summary += fmt.Sprintf(", overall quality %d/100", overall)
	}
	run.appendLog(models.LogCategorySuccess, models.PhaseAssemble, summary)
	run.completePhase(models.PhaseAssemble)
}

// placeBrandOverlay looks up a logo or watermark for the closing frames.
// No match, or a lookup failure, simply means no overlay.
func (ps *PipelineService) placeBrandOverlay(ctx context.Context, run *productionRun) {
	if ps.brands == nil {
		return
	}
	query := BrandMatchQuery{
		MediaTypes:      []models.BrandMediaType{models.BrandMediaLogo, models.BrandMediaWatermark},
		ContextKeywords: []string{"cta", "closing", "outro"},
		NameKeywords:    strings.Fields(strings.ToLower(run.production.Brief.ProductName)),
	}
	match, err := ps.brands.Match(ctx, query)
	if err != nil {
		run.appendLog(models.LogCategoryFallback, models.PhaseAssemble,
			"Brand asset lookup failed, finishing without brand overlay")
		return
	}
	if match == nil {
		return
	}
	run.appendLog(models.LogCategoryDecision, models.PhaseAssemble,
		fmt.Sprintf("Placing brand %s %q on closing frames", match.MediaType, match.Name))
}

// persist writes the current snapshot. Persistence failures are logged
// and do not interrupt the run; the next snapshot retries.
func (ps *PipelineService) persist(ctx context.Context, run *productionRun) {
	if err := ps.productions.Update(ctx, run.snapshot()); err != nil {
		logger.WithFields(map[string]interface{}{
			"production_id": run.production.ID,
			"error":         err.Error(),
		}).Warn("Failed to persist production snapshot")
	}
}

// scenesFromManifest projects script sections into selection inputs
func scenesFromManifest(manifest *models.ScriptManifest) []models.SceneForSelection {
	scenes := make([]models.SceneForSelection, 0, len(manifest.Sections))
	for i, section := range manifest.Sections {
		scenes = append(scenes, models.SceneForSelection{
			ID:              fmt.Sprintf("scene-%d", i+1),
			Index:           i,
			SceneType:       sceneTypeForSection(section.Name),
			Narration:       section.Narration,
			VisualDirection: section.VisualDirection,
			DurationSeconds: section.DurationSeconds,
		})
	}
	return scenes
}

func sceneTypeForSection(name models.SectionName) models.SceneType {
	switch name {
	case models.SectionHook:
		return models.SceneTypeHook
	case models.SectionProblem:
		return models.SceneTypeExplanation
	case models.SectionSolution:
		return models.SceneTypeProduct
	case models.SectionSocialProof:
		return models.SceneTypeTestimonial
	case models.SectionCTA:
		return models.SceneTypeCTA
	}
	return models.SceneTypeBRoll
}

func contentTypeForClassification(c models.ContentClassification) models.ContentType {
	switch c {
	case models.ClassificationHumanSubjects:
		return models.ContentTypeHuman
	case models.ClassificationProductReveal:
		return models.ContentTypeProduct
	case models.ClassificationBRoll:
		return models.ContentTypeNature
	}
	return models.ContentTypeLifestyle
}

// productionRun wraps the aggregate with a mutex so phase helpers and
// snapshot reads never observe a half-applied mutation
type productionRun struct {
	mu         sync.Mutex
	production *models.Production
	logs       *RunLogger
}

func newProductionRun(production *models.Production) *productionRun {
	logs := NewRunLogger()
	// carry over any entries from a prior snapshot
	for _, entry := range production.Logs {
		logs.restore(entry)
	}
	return &productionRun{production: production, logs: logs}
}

func (r *productionRun) setStatus(status models.ProductionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.production.Status = status
}

func (r *productionRun) currentPhase() models.PhaseName {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.production.Phases) - 1; i >= 0; i-- {
		if r.production.Phases[i].Status == models.PhaseStatusInProgress {
			return r.production.Phases[i].Name
		}
	}
	return models.PhaseAnalyze
}

func (r *productionRun) phase(name models.PhaseName) *models.Phase {
	for i := range r.production.Phases {
		if r.production.Phases[i].Name == name {
			return &r.production.Phases[i]
		}
	}
	return nil
}

func (r *productionRun) startPhase(name models.PhaseName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.phase(name); p != nil {
		now := time.Now()
		p.Status = models.PhaseStatusInProgress
		p.StartedAt = &now
	}
}

// setProgress raises a phase's progress. Progress never moves backwards.
func (r *productionRun) setProgress(name models.PhaseName, progress int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.phase(name); p != nil && progress > p.Progress {
		if progress > 100 {
			progress = 100
		}
		p.Progress = progress
	}
}

func (r *productionRun) completePhase(name models.PhaseName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.phase(name); p != nil {
		now := time.Now()
		p.Status = models.PhaseStatusCompleted
		p.Progress = 100
		p.CompletedAt = &now
	}
}

func (r *productionRun) skipPhase(name models.PhaseName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.phase(name); p != nil {
		now := time.Now()
		p.Status = models.PhaseStatusSkipped
		p.Progress = 100
		p.CompletedAt = &now
	}
}

func (r *productionRun) failPhase(name models.PhaseName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p := r.phase(name); p != nil {
		now := time.Now()
		p.Status = models.PhaseStatusFailed
		p.CompletedAt = &now
	}
}

func (r *productionRun) appendLog(category models.LogCategory, phase models.PhaseName, message string) {
	r.logs.Append(category, phase, message)
}

func (r *productionRun) appendAssetLog(category models.LogCategory, phase models.PhaseName, message, assetID string) {
	r.logs.AppendAsset(category, phase, message, assetID)
}

func (r *productionRun) addAsset(asset models.Asset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.production.Assets = append(r.production.Assets, asset)
}

func (r *productionRun) asset(id string) (models.Asset, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.production.Assets {
		if a.ID == id {
			return a, true
		}
	}
	return models.Asset{}, false
}

func (r *productionRun) assets() []models.Asset {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Asset, len(r.production.Assets))
	copy(out, r.production.Assets)
	return out
}

func (r *productionRun) updateAsset(id string, apply func(*models.Asset)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.production.Assets {
		if r.production.Assets[i].ID == id {
			apply(&r.production.Assets[i])
			return
		}
	}
}

// approveUnscored approves every still-pending asset, used when the
// evaluator fails open
func (r *productionRun) approveUnscored() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.production.Assets {
		if r.production.Assets[i].Status == models.AssetStatusPending {
			r.production.Assets[i].Status = models.AssetStatusApproved
		}
	}
}

func (r *productionRun) setVoiceover(vo *models.Voiceover) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.production.Voiceover = vo
}

func (r *productionRun) voiceover() *models.Voiceover {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.production.Voiceover
}

// computeOverallScore averages the scored assets and stores the result
// on the aggregate. Returns false when nothing was scored.
func (r *productionRun) computeOverallScore() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum, count := 0, 0
	for _, a := range r.production.Assets {
		if a.QualityScore != nil {
			sum += *a.QualityScore
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	overall := int(math.Round(float64(sum) / float64(count)))
	r.production.OverallScore = &overall
	return overall, true
}

// snapshot returns a consistent copy of the aggregate for persistence
// and API reads
func (r *productionRun) snapshot() *models.Production {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := *r.production
	snap.Phases = make([]models.Phase, len(r.production.Phases))
	copy(snap.Phases, r.production.Phases)
	snap.Assets = make([]models.Asset, len(r.production.Assets))
	copy(snap.Assets, r.production.Assets)
	snap.Logs = r.logs.EntriesWithSizeLimit()
	if r.production.Voiceover != nil {
		vo := *r.production.Voiceover
		snap.Voiceover = &vo
	}
	if r.production.OverallScore != nil {
		score := *r.production.OverallScore
		snap.OverallScore = &score
	}
	snap.UpdatedAt = time.Now()
	return &snap
}
