package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/reelforge/reelforge/internal/models"
)

// Scoring constants. Every provider starts at the neutral baseline and the
// five passes add or subtract fixed deltas from there.
const (
	scoreBaseline = 50

	bonusHumanContent     = 25
	bonusProductContent   = 20
	bonusNatureContent    = 15
	bonusLifestyleContent = 10

	bonusOpeningClosing = 20
	bonusTestimonial    = 30
	bonusBRollCheapest  = 15
	bonusProductScene   = 15

	bonusKeywordMajor = 10
	bonusKeywordMinor = 8

	stylePreferenceTop  = 15
	stylePreferenceStep = 5

	penaltyDurationExceeded = 30
)

// Visual-direction vocabularies. Matches are additive, not mutually
// exclusive: one description can trigger several categories at once.
var (
	cinematicPattern = regexp.MustCompile(`(?i)\b(cinematic|dramatic|sweeping|aerial|epic|slow[- ]motion)\b`)
	humanPattern     = regexp.MustCompile(`(?i)\b(person|people|face|woman|man|smiling|speaking|testimonial)\b`)
	productPattern   = regexp.MustCompile(`(?i)\b(product|bottle|packshot|close[- ]?up|reveal|packaging)\b`)
	naturePattern    = regexp.MustCompile(`(?i)\b(nature|outdoor|forest|ocean|landscape|ambient|sunlight)\b`)
	wellnessPattern  = regexp.MustCompile(`(?i)\b(calm|relax|wellness|spa|serene|soothing|peaceful)\b`)
)

// StylePreferences carries a ranked provider preference list for a style.
// Position in the list maps to a decreasing bonus.
type StylePreferences struct {
	Style     models.Style
	Providers []string
}

// PreferencesForStyle returns the built-in ranked preference list
func PreferencesForStyle(style models.Style) StylePreferences {
	prefs := map[models.Style][]string{
		models.StyleProfessional: {"runway", "veo", "kling"},
		models.StyleCinematic:    {"veo", "runway", "luma"},
		models.StyleEnergetic:    {"pika", "kling", "runway"},
		models.StyleCasual:       {"kling", "pika", "luma"},
	}
	return StylePreferences{Style: style, Providers: prefs[style]}
}

// ScoreBreakdown keeps scoring auditable: one entry per catalog provider
// with the accumulated score and every reason recorded along the way
type ScoreBreakdown struct {
	Provider models.ProviderCapability
	Score    int
	Reasons  []string
}

// SelectorService ranks catalog providers per scene with additive weighted
// scoring. Selection is a pure function of scene, preferences and catalog
// state: no hidden state, no randomness.
type SelectorService struct {
	catalog *Catalog
}

// NewSelectorService creates a new selector over the given catalog
func NewSelectorService(catalog *Catalog) *SelectorService {
	return &SelectorService{catalog: catalog}
}

// SelectForScene scores every catalog provider for the scene and returns
// the winner with its two runners-up as alternatives
func (s *SelectorService) SelectForScene(scene models.SceneForSelection, prefs StylePreferences) models.ProviderSelection {
	breakdowns := s.ScoreScene(scene, prefs)
	if len(breakdowns) == 0 {
		return models.ProviderSelection{Reason: "Default selection"}
	}

	// Stable sort preserves catalog declaration order among equal scores
	sort.SliceStable(breakdowns, func(i, j int) bool {
		return breakdowns[i].Score > breakdowns[j].Score
	})

	winner := breakdowns[0]

	alternatives := make([]string, 0, 2)
	for _, b := range breakdowns[1:] {
		if len(alternatives) == 2 {
			break
		}
		alternatives = append(alternatives, b.Provider.ID)
	}

	reason := "Default selection"
	if len(winner.Reasons) > 0 {
		end := len(winner.Reasons)
		if end > 2 {
			end = 2
		}
		reason = strings.Join(winner.Reasons[:end], "; ")
	}

	return models.ProviderSelection{
		Provider:     winner.Provider.ID,
		Reason:       reason,
		Confidence:   clampScore(winner.Score),
		Alternatives: alternatives,
	}
}

// ScoreScene runs the five scoring passes and returns one breakdown per
// catalog provider, in catalog declaration order
func (s *SelectorService) ScoreScene(scene models.SceneForSelection, prefs StylePreferences) []ScoreBreakdown {
	providers := s.catalog.Providers()
	breakdowns := make([]ScoreBreakdown, len(providers))
	for i, p := range providers {
		breakdowns[i] = ScoreBreakdown{Provider: p, Score: scoreBaseline}
	}

	s.applyContentTypeAffinity(breakdowns, scene)
	s.applySceneTypeAffinity(breakdowns, scene)
	s.applyVisualDirectionScan(breakdowns, scene)
	s.applyStylePreferences(breakdowns, prefs)
	s.applyDurationPenalty(breakdowns, scene)

	return breakdowns
}

func (s *SelectorService) applyContentTypeAffinity(breakdowns []ScoreBreakdown, scene models.SceneForSelection) {
	switch scene.ContentType {
	case models.ContentTypeHuman:
		addToStrength(breakdowns, StrengthHumanSubjects, bonusHumanContent, "Strong with human subjects")
	case models.ContentTypeProduct:
		addToStrength(breakdowns, StrengthProductReveal, bonusProductContent, "Specializes in product reveals")
	case models.ContentTypeNature:
		addToStrength(breakdowns, StrengthCostEfficient, bonusNatureContent, "Cost-efficient for ambient content")
	case models.ContentTypeLifestyle:
		addToStrength(breakdowns, StrengthCinematic, bonusLifestyleContent, "Versatile look for lifestyle content")
	}
}

func (s *SelectorService) applySceneTypeAffinity(breakdowns []ScoreBreakdown, scene models.SceneForSelection) {
	switch scene.SceneType {
	case models.SceneTypeHook, models.SceneTypeCTA:
		addToStrength(breakdowns, StrengthCinematic, bonusOpeningClosing, "Cinematic quality for opening and closing scenes")
	case models.SceneTypeTestimonial:
		addToStrength(breakdowns, StrengthHumanSubjects, bonusTestimonial, "Best choice for testimonial scenes")
	case models.SceneTypeProduct:
		addToStrength(breakdowns, StrengthProductReveal, bonusProductScene, "Product scene specialist")
	case models.SceneTypeBRoll, models.SceneTypeExplanation:
		cheapest := s.catalog.Cheapest()
		addToProvider(breakdowns, cheapest, bonusBRollCheapest, "Lowest cost for b-roll coverage")
	}
}

func (s *SelectorService) applyVisualDirectionScan(breakdowns []ScoreBreakdown, scene models.SceneForSelection) {
	direction := scene.VisualDirection
	if cinematicPattern.MatchString(direction) {
		addToStrength(breakdowns, StrengthCinematic, bonusKeywordMajor, "Visual direction calls for cinematic footage")
	}
	if humanPattern.MatchString(direction) {
		addToStrength(breakdowns, StrengthHumanSubjects, bonusKeywordMajor, "Visual direction features people")
	}
	if productPattern.MatchString(direction) {
		addToStrength(breakdowns, StrengthProductReveal, bonusKeywordMajor, "Visual direction centers the product")
	}
	if naturePattern.MatchString(direction) {
		addToStrength(breakdowns, StrengthCostEfficient, bonusKeywordMinor, "Visual direction suits ambient footage")
	}
	if wellnessPattern.MatchString(direction) {
		addToStrength(breakdowns, StrengthHumanSubjects, bonusKeywordMinor, "Wellness tone suits human-centric framing")
	}
}

func (s *SelectorService) applyStylePreferences(breakdowns []ScoreBreakdown, prefs StylePreferences) {
	for i, id := range prefs.Providers {
		bonus := stylePreferenceTop - stylePreferenceStep*i
		if bonus <= 0 {
			break
		}
		addToProvider(breakdowns, id, bonus, fmt.Sprintf("Ranked #%d for %s style", i+1, prefs.Style))
	}
}

func (s *SelectorService) applyDurationPenalty(breakdowns []ScoreBreakdown, scene models.SceneForSelection) {
	for i := range breakdowns {
		if scene.DurationSeconds > breakdowns[i].Provider.MaxDurationSeconds {
			breakdowns[i].Score -= penaltyDurationExceeded
			breakdowns[i].Reasons = append(breakdowns[i].Reasons,
				fmt.Sprintf("Scene duration %.0fs exceeds provider limit of %.0fs", scene.DurationSeconds, breakdowns[i].Provider.MaxDurationSeconds))
		}
	}
}

// EstimateProject selects a provider for every scene independently and
// aggregates the estimated cost (duration × cost per second) per provider
// and overall, plus a provider→scene-count histogram
func (s *SelectorService) EstimateProject(scenes []models.SceneForSelection, prefs StylePreferences) models.ProjectEstimate {
	estimate := models.ProjectEstimate{
		Selections:  make([]models.ProviderSelection, 0, len(scenes)),
		PerProvider: make(map[string]float64),
		SceneCounts: make(map[string]int),
	}

	for _, scene := range scenes {
		selection := s.SelectForScene(scene, prefs)
		estimate.Selections = append(estimate.Selections, selection)

		provider, ok := s.catalog.Get(selection.Provider)
		if !ok {
			continue
		}
		cost := scene.DurationSeconds * provider.CostPerSecond
		estimate.PerProvider[provider.ID] += cost
		estimate.SceneCounts[provider.ID]++
		estimate.TotalCost += cost
	}

	return estimate
}

func addToStrength(breakdowns []ScoreBreakdown, strength string, delta int, reason string) {
	for i := range breakdowns {
		if breakdowns[i].Provider.HasStrength(strength) {
			breakdowns[i].Score += delta
			breakdowns[i].Reasons = append(breakdowns[i].Reasons, reason)
		}
	}
}

func addToProvider(breakdowns []ScoreBreakdown, providerID string, delta int, reason string) {
	for i := range breakdowns {
		if breakdowns[i].Provider.ID == providerID {
			breakdowns[i].Score += delta
			breakdowns[i].Reasons = append(breakdowns[i].Reasons, reason)
			return
		}
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
