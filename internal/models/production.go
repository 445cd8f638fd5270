package models

import "time"

// ProductionStatus represents the overall state of a video production run
type ProductionStatus string

const (
	ProductionStatusQueued    ProductionStatus = "queued"
	ProductionStatusRunning   ProductionStatus = "running"
	ProductionStatusCompleted ProductionStatus = "completed"
	ProductionStatusFailed    ProductionStatus = "failed"
	ProductionStatusCancelled ProductionStatus = "cancelled"
)

// PhaseName identifies one of the five pipeline phases
type PhaseName string

const (
	PhaseAnalyze  PhaseName = "analyze"
	PhaseGenerate PhaseName = "generate"
	PhaseEvaluate PhaseName = "evaluate"
	PhaseIterate  PhaseName = "iterate"
	PhaseAssemble PhaseName = "assemble"
)

// PhaseOrder returns the phases in execution order
func PhaseOrder() []PhaseName {
	return []PhaseName{PhaseAnalyze, PhaseGenerate, PhaseEvaluate, PhaseIterate, PhaseAssemble}
}

// PhaseStatus represents the state of a single pipeline phase
type PhaseStatus string

const (
	PhaseStatusPending    PhaseStatus = "pending"
	PhaseStatusInProgress PhaseStatus = "in_progress"
	PhaseStatusCompleted  PhaseStatus = "completed"
	PhaseStatusFailed     PhaseStatus = "failed"
	PhaseStatusSkipped    PhaseStatus = "skipped"
)

// Phase tracks status and progress for one pipeline phase.
// Progress is monotonically non-decreasing; a phase only completes at 100.
type Phase struct {
	Name        PhaseName   `json:"name" dynamodbav:"Name"`
	Status      PhaseStatus `json:"status" dynamodbav:"Status"`
	Progress    int         `json:"progress" dynamodbav:"Progress"`
	StartedAt   *time.Time  `json:"started_at,omitempty" dynamodbav:"StartedAt,omitempty"`
	CompletedAt *time.Time  `json:"completed_at,omitempty" dynamodbav:"CompletedAt,omitempty"`
}

// LogCategory classifies run log entries for streaming consumers
type LogCategory string

const (
	LogCategoryDecision   LogCategory = "decision"
	LogCategoryGeneration LogCategory = "generation"
	LogCategoryEvaluation LogCategory = "evaluation"
	LogCategorySuccess    LogCategory = "success"
	LogCategoryError      LogCategory = "error"
	LogCategoryFallback   LogCategory = "fallback"
)

// RunLogEntry is one immutable, append-only record in a production's log stream
type RunLogEntry struct {
	ID        string      `json:"id" dynamodbav:"Id"`
	Timestamp time.Time   `json:"timestamp" dynamodbav:"Timestamp"`
	Category  LogCategory `json:"category" dynamodbav:"Category"`
	Message   string      `json:"message" dynamodbav:"Message"`
	Phase     PhaseName   `json:"phase" dynamodbav:"Phase"`
	AssetID   string      `json:"asset_id,omitempty" dynamodbav:"AssetId,omitempty"`
}

// AssetType distinguishes produced media units
type AssetType string

const (
	AssetTypeImage   AssetType = "image"
	AssetTypeAIImage AssetType = "ai_image"
	AssetTypeVideo   AssetType = "video"
	AssetTypeAudio   AssetType = "audio"
)

// AssetStatus represents the quality-gate state of an asset
type AssetStatus string

const (
	AssetStatusPending  AssetStatus = "pending"
	AssetStatusApproved AssetStatus = "approved"
	AssetStatusRejected AssetStatus = "rejected"
)

// Asset is one produced unit of media. Assets are never deleted; a
// regenerated asset is a new record referencing the same section.
type Asset struct {
	ID                string      `json:"id" dynamodbav:"Id"`
	Type              AssetType   `json:"type" dynamodbav:"Type"`
	Provider          string      `json:"provider" dynamodbav:"Provider"`
	URL               string      `json:"url" dynamodbav:"Url"`
	Section           SectionName `json:"section" dynamodbav:"Section"`
	Width             int         `json:"width,omitempty" dynamodbav:"Width,omitempty"`
	Height            int         `json:"height,omitempty" dynamodbav:"Height,omitempty"`
	DurationSeconds   float64     `json:"duration_seconds,omitempty" dynamodbav:"DurationSeconds,omitempty"`
	Status            AssetStatus `json:"status" dynamodbav:"Status"`
	QualityScore      *int        `json:"quality_score,omitempty" dynamodbav:"QualityScore,omitempty"`
	RegenerationCount int         `json:"regeneration_count" dynamodbav:"RegenerationCount"`
	CreatedAt         time.Time   `json:"created_at" dynamodbav:"CreatedAt"`
}

// Voiceover references the generated narration track
type Voiceover struct {
	URL             string  `json:"url" dynamodbav:"Url"`
	DurationSeconds float64 `json:"duration_seconds" dynamodbav:"DurationSeconds"`
}

// Platform is the distribution target for the finished video
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
)

// Style is the requested visual/tonal direction
type Style string

const (
	StyleProfessional Style = "professional"
	StyleCasual       Style = "casual"
	StyleCinematic    Style = "cinematic"
	StyleEnergetic    Style = "energetic"
)

// Brief is the structured input describing the ad to be produced
type Brief struct {
	ProductName     string   `json:"product_name" dynamodbav:"ProductName"`
	Description     string   `json:"description" dynamodbav:"Description"`
	TargetAudience  string   `json:"target_audience" dynamodbav:"TargetAudience"`
	Benefits        []string `json:"benefits" dynamodbav:"Benefits"`
	DurationSeconds int      `json:"duration_seconds" dynamodbav:"DurationSeconds"`
	Platform        Platform `json:"platform" dynamodbav:"Platform"`
	Style           Style    `json:"style" dynamodbav:"Style"`
	CallToAction    string   `json:"call_to_action" dynamodbav:"CallToAction"`
}

// Production is the root aggregate for one video job. It is owned
// exclusively by the pipeline for the duration of a run; external
// observers read persisted snapshots.
type Production struct {
	ID           string
	UserID       string
	Brief        Brief
	Status       ProductionStatus
	Phases       []Phase
	Logs         []RunLogEntry
	Assets       []Asset
	Voiceover    *Voiceover
	OverallScore *int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewPhases returns the five phases in order, all pending at zero progress
func NewPhases() []Phase {
	order := PhaseOrder()
	phases := make([]Phase, 0, len(order))
	for _, name := range order {
		phases = append(phases, Phase{Name: name, Status: PhaseStatusPending})
	}
	return phases
}
