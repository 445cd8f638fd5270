package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/reelforge/reelforge/internal/models"
)

// StockClip is one licensed clip from the fallback footage library
type StockClip struct {
	URL             string
	DurationSeconds float64
	Tags            []string
}

// MusicTrack is one entry of the static background-music catalog
type MusicTrack struct {
	Name string
	URL  string
	Mood string
}

// stockClips is the licensed fallback footage library, keyed loosely by
// section role. Substituted when a motion-clip provider call fails.
var stockClips = map[models.SectionName]StockClip{
	models.SectionHook:        {URL: "https://cdn.reelforge.io/stock/opening-montage.mp4", DurationSeconds: 6, Tags: []string{"opening", "cinematic"}},
	models.SectionProblem:     {URL: "https://cdn.reelforge.io/stock/daily-life.mp4", DurationSeconds: 8, Tags: []string{"broll", "lifestyle"}},
	models.SectionSolution:    {URL: "https://cdn.reelforge.io/stock/product-table.mp4", DurationSeconds: 6, Tags: []string{"product"}},
	models.SectionSocialProof: {URL: "https://cdn.reelforge.io/stock/people-talking.mp4", DurationSeconds: 8, Tags: []string{"people"}},
	models.SectionCTA:         {URL: "https://cdn.reelforge.io/stock/logo-ready.mp4", DurationSeconds: 5, Tags: []string{"closing"}},
}

// musicCatalog is the static background-music library. Track choice is a
// pure lookup, no external call.
var musicCatalog = map[models.Style]MusicTrack{
	models.StyleProfessional: {Name: "Steady Horizon", URL: "https://cdn.reelforge.io/music/steady-horizon.mp3", Mood: "confident"},
	models.StyleCasual:       {Name: "Front Porch", URL: "https://cdn.reelforge.io/music/front-porch.mp3", Mood: "warm"},
	models.StyleCinematic:    {Name: "First Light", URL: "https://cdn.reelforge.io/music/first-light.mp3", Mood: "sweeping"},
	models.StyleEnergetic:    {Name: "Kinetic", URL: "https://cdn.reelforge.io/music/kinetic.mp3", Mood: "driving"},
}

// StockClipFor returns the fallback clip for a section
func StockClipFor(section models.SectionName) StockClip {
	if clip, ok := stockClips[section]; ok {
		return clip
	}
	return stockClips[models.SectionProblem]
}

// MusicFor returns the background track for a style
func MusicFor(style models.Style) MusicTrack {
	if track, ok := musicCatalog[style]; ok {
		return track
	}
	return musicCatalog[models.StyleProfessional]
}

// StockLibrary is the built-in image and motion capability backed by the
// licensed stock collection. Used as the production default until real
// provider clients are wired in, and always as the degraded path.
type StockLibrary struct{}

// NewStockLibrary creates the stock-backed capability
func NewStockLibrary() *StockLibrary {
	return &StockLibrary{}
}

// GenerateImage returns a stock still for the section
func (sl *StockLibrary) GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slug := strings.ToLower(string(req.Section.Name))
	return &ImageResult{
		URL:    fmt.Sprintf("https://cdn.reelforge.io/stock/stills/%s.jpg", slug),
		Source: "stock",
		Width:  1920,
		Height: 1080,
	}, nil
}

// GenerateClip returns a stock clip for the section
func (sl *StockLibrary) GenerateClip(ctx context.Context, req ClipRequest) (*ClipResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clip := StockClipFor(req.Section.Name)
	return &ClipResult{
		URL:             clip.URL,
		DurationSeconds: clip.DurationSeconds,
	}, nil
}
