package models

// GenerationMode is a supported input→output mode of a generation backend
type GenerationMode string

const (
	ModeTextToVideo  GenerationMode = "text_to_video"
	ModeImageToVideo GenerationMode = "image_to_video"
	ModeImageToImage GenerationMode = "image_to_image"
)

// ProviderCapability is the static catalog descriptor for one generation
// backend. Immutable during a run; refreshed only between runs.
type ProviderCapability struct {
	ID                 string           `yaml:"id" json:"id"`
	Name               string           `yaml:"name" json:"name"`
	Modes              []GenerationMode `yaml:"modes" json:"modes"`
	MaxWidth           int              `yaml:"max_width" json:"max_width"`
	MaxHeight          int              `yaml:"max_height" json:"max_height"`
	MaxFPS             int              `yaml:"max_fps" json:"max_fps"`
	MaxDurationSeconds float64          `yaml:"max_duration_seconds" json:"max_duration_seconds"`
	CostPerSecond      float64          `yaml:"cost_per_second" json:"cost_per_second"`
	Strengths          []string         `yaml:"strengths" json:"strengths"`
	Weaknesses         []string         `yaml:"weaknesses" json:"weaknesses"`
	MotionQuality      string           `yaml:"motion_quality" json:"motion_quality"`
	NativeAudio        bool             `yaml:"native_audio" json:"native_audio"`
	LipSync            bool             `yaml:"lip_sync" json:"lip_sync"`
}

// HasStrength reports whether the provider declares the given strength tag
func (p ProviderCapability) HasStrength(tag string) bool {
	for _, s := range p.Strengths {
		if s == tag {
			return true
		}
	}
	return false
}

// SceneType characterizes a scene's narrative role for selection scoring
type SceneType string

const (
	SceneTypeHook        SceneType = "hook"
	SceneTypeTestimonial SceneType = "testimonial"
	SceneTypeProduct     SceneType = "product"
	SceneTypeBRoll       SceneType = "broll"
	SceneTypeExplanation SceneType = "explanation"
	SceneTypeCTA         SceneType = "cta"
)

// ContentType characterizes a scene's dominant subject matter
type ContentType string

const (
	ContentTypeHuman     ContentType = "human"
	ContentTypeProduct   ContentType = "product"
	ContentTypeNature    ContentType = "nature"
	ContentTypeLifestyle ContentType = "lifestyle"
)

// SceneForSelection is the ephemeral per-scene input to provider selection.
// Not persisted; recomputed per run.
type SceneForSelection struct {
	ID              string      `json:"id"`
	Index           int         `json:"index"`
	SceneType       SceneType   `json:"scene_type"`
	ContentType     ContentType `json:"content_type"`
	Narration       string      `json:"narration"`
	VisualDirection string      `json:"visual_direction"`
	DurationSeconds float64     `json:"duration_seconds"`
}

// ProviderSelection is the pure result of ranking providers for one scene
type ProviderSelection struct {
	Provider     string   `json:"provider"`
	Reason       string   `json:"reason"`
	Confidence   int      `json:"confidence"`
	Alternatives []string `json:"alternatives"`
}

// ProjectEstimate aggregates per-scene selections into a cost estimate
type ProjectEstimate struct {
	Selections  []ProviderSelection `json:"selections"`
	TotalCost   float64             `json:"total_cost"`
	PerProvider map[string]float64  `json:"per_provider"`
	SceneCounts map[string]int      `json:"scene_counts"`
}
