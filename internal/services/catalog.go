package services

import (
	"fmt"
	"os"

	"github.com/reelforge/reelforge/internal/models"
	"gopkg.in/yaml.v2"
)

// Strength tags understood by the selector and classifiers. Catalog entries
// declare zero or more of these.
const (
	StrengthCinematic     = "cinematic"
	StrengthHumanSubjects = "human_subjects"
	StrengthProductReveal = "product_reveal"
	StrengthBRoll         = "broll"
	StrengthCostEfficient = "cost_efficient"
)

// Catalog is the static registry of generation backends. Immutable during
// a run and safe for concurrent read; refreshed only between runs.
type Catalog struct {
	providers []models.ProviderCapability
	byID      map[string]models.ProviderCapability
}

// NewCatalog builds a catalog from the given providers, preserving
// declaration order (the selector's tie-break depends on it)
func NewCatalog(providers []models.ProviderCapability) *Catalog {
	byID := make(map[string]models.ProviderCapability, len(providers))
	for _, p := range providers {
		byID[p.ID] = p
	}
	return &Catalog{providers: providers, byID: byID}
}

// DefaultCatalog returns the built-in provider registry
func DefaultCatalog() *Catalog {
	return NewCatalog(defaultProviders())
}

// LoadCatalog reads a provider registry from a YAML file
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read provider catalog: %w", err)
	}

	var doc struct {
		Providers []models.ProviderCapability `yaml:"providers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid provider catalog YAML: %w", err)
	}
	if len(doc.Providers) == 0 {
		return nil, fmt.Errorf("provider catalog is empty")
	}
	for _, p := range doc.Providers {
		if p.ID == "" {
			return nil, fmt.Errorf("provider catalog entry missing id")
		}
		if p.CostPerSecond < 0 || p.MaxDurationSeconds <= 0 {
			return nil, fmt.Errorf("provider %s has invalid cost or duration limits", p.ID)
		}
	}

	return NewCatalog(doc.Providers), nil
}

// Providers returns all catalog entries in declaration order
func (c *Catalog) Providers() []models.ProviderCapability {
	out := make([]models.ProviderCapability, len(c.providers))
	copy(out, c.providers)
	return out
}

// Get returns the provider with the given id
func (c *Catalog) Get(id string) (models.ProviderCapability, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Has reports whether the catalog contains the given provider id
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// FirstWithStrength returns the first provider in declaration order that
// declares the given strength tag, falling back to the first provider
func (c *Catalog) FirstWithStrength(tag string) string {
	for _, p := range c.providers {
		if p.HasStrength(tag) {
			return p.ID
		}
	}
	if len(c.providers) > 0 {
		return c.providers[0].ID
	}
	return ""
}

// Cheapest returns the id of the lowest cost-per-second provider
func (c *Catalog) Cheapest() string {
	if len(c.providers) == 0 {
		return ""
	}
	best := c.providers[0]
	for _, p := range c.providers[1:] {
		if p.CostPerSecond < best.CostPerSecond {
			best = p
		}
	}
	return best.ID
}

func defaultProviders() []models.ProviderCapability {
	return []models.ProviderCapability{
		{
			ID:                 "runway",
			Name:               "Runway Gen-3",
			Modes:              []models.GenerationMode{models.ModeTextToVideo, models.ModeImageToVideo},
			MaxWidth:           1920,
			MaxHeight:          1080,
			MaxFPS:             30,
			MaxDurationSeconds: 10,
			CostPerSecond:      0.45,
			Strengths:          []string{StrengthCinematic},
			Weaknesses:         []string{"text rendering"},
			MotionQuality:      "excellent",
		},
		{
			ID:                 "kling",
			Name:               "Kling",
			Modes:              []models.GenerationMode{models.ModeTextToVideo, models.ModeImageToVideo},
			MaxWidth:           1920,
			MaxHeight:          1080,
			MaxFPS:             30,
			MaxDurationSeconds: 10,
			CostPerSecond:      0.35,
			Strengths:          []string{StrengthHumanSubjects},
			Weaknesses:         []string{"fine product detail"},
			MotionQuality:      "excellent",
			LipSync:            true,
		},
		{
			ID:                 "veo",
			Name:               "Veo",
			Modes:              []models.GenerationMode{models.ModeTextToVideo, models.ModeImageToVideo},
			MaxWidth:           3840,
			MaxHeight:          2160,
			MaxFPS:             24,
			MaxDurationSeconds: 8,
			CostPerSecond:      0.50,
			Strengths:          []string{StrengthCinematic, StrengthProductReveal},
			Weaknesses:         []string{"clip length"},
			MotionQuality:      "excellent",
			NativeAudio:        true,
		},
		{
			ID:                 "luma",
			Name:               "Luma Dream Machine",
			Modes:              []models.GenerationMode{models.ModeTextToVideo, models.ModeImageToVideo, models.ModeImageToImage},
			MaxWidth:           1920,
			MaxHeight:          1080,
			MaxFPS:             24,
			MaxDurationSeconds: 9,
			CostPerSecond:      0.30,
			Strengths:          []string{StrengthProductReveal},
			Weaknesses:         []string{"crowd scenes"},
			MotionQuality:      "good",
		},
		{
			ID:                 "pika",
			Name:               "Pika",
			Modes:              []models.GenerationMode{models.ModeTextToVideo, models.ModeImageToVideo},
			MaxWidth:           1280,
			MaxHeight:          720,
			MaxFPS:             24,
			MaxDurationSeconds: 6,
			CostPerSecond:      0.12,
			Strengths:          []string{StrengthBRoll, StrengthCostEfficient},
			Weaknesses:         []string{"complex motion"},
			MotionQuality:      "good",
		},
	}
}
