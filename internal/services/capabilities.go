package services

import (
	"context"

	"github.com/reelforge/reelforge/internal/models"
)

// The pipeline talks to every external generation backend through one of
// these capability interfaces. Each call is a blocking round-trip with an
// explicit {payload | error} result; implementations are expected to bound
// the call with a timeout and return a transport error on expiry.

// ScriptingCapability derives a script manifest from a brief.
// Its failure is the only fatal error class in the pipeline.
type ScriptingCapability interface {
	GenerateScript(ctx context.Context, brief models.Brief) (*models.ScriptManifest, error)
}

// VoiceoverResult is the payload of a successful voiceover call
type VoiceoverResult struct {
	URL             string
	DurationSeconds float64
}

// VoiceoverCapability produces a narration track from the full script
type VoiceoverCapability interface {
	GenerateVoiceover(ctx context.Context, script, voiceID string) (*VoiceoverResult, error)
}

// ImageRequest carries one section's still-image generation inputs
type ImageRequest struct {
	Section     models.ScriptSection
	ProductName string
	Style       string
}

// ImageResult is the payload of a successful image call. Source
// distinguishes AI-generated output from licensed stock.
type ImageResult struct {
	URL    string
	Source string // "ai" or "stock"
	Width  int
	Height int
}

// ImageCapability produces one still image per section
type ImageCapability interface {
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error)
}

// ClipRequest carries one section's motion-clip generation inputs
type ClipRequest struct {
	Section         models.ScriptSection
	Provider        string
	Style           string
	DurationSeconds float64
}

// ClipResult is the payload of a successful motion-clip call
type ClipResult struct {
	URL             string
	DurationSeconds float64
}

// MotionCapability produces short motion clips
type MotionCapability interface {
	GenerateClip(ctx context.Context, req ClipRequest) (*ClipResult, error)
}

// SectionScore carries the evaluator's per-section axis scores (0-100 each)
type SectionScore struct {
	Section   models.SectionName
	Relevance int
	Technical int
	BrandFit  int
	Emotional int
}

// EvaluationCapability scores produced assets against the original brief
type EvaluationCapability interface {
	EvaluateAssets(ctx context.Context, productionID string, brief models.Brief) ([]SectionScore, error)
}

// CapabilitySet bundles the external collaborators for one pipeline.
// Scripting is required; any other capability may be nil, in which case
// the pipeline takes that capability's documented fallback path.
type CapabilitySet struct {
	Scripting ScriptingCapability
	Voiceover VoiceoverCapability
	Image     ImageCapability
	Motion    MotionCapability
	Evaluator EvaluationCapability
}
