package models

import "time"

// CreateProductionRequest represents the request body for starting a production
type CreateProductionRequest struct {
	ProductName     string   `json:"product_name" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	TargetAudience  string   `json:"target_audience"`
	Benefits        []string `json:"benefits"`
	DurationSeconds int      `json:"duration_seconds" binding:"required,min=5,max=300"`
	Platform        Platform `json:"platform" binding:"required,oneof=youtube tiktok instagram facebook"`
	Style           Style    `json:"style" binding:"required,oneof=professional casual cinematic energetic"`
	CallToAction    string   `json:"call_to_action"`
}

// ToDomain converts a CreateProductionRequest to a new Production aggregate
func (req *CreateProductionRequest) ToDomain(id, userID string) *Production {
	now := time.Now()
	return &Production{
		ID:     id,
		UserID: userID,
		Brief: Brief{
			ProductName:     req.ProductName,
			Description:     req.Description,
			TargetAudience:  req.TargetAudience,
			Benefits:        req.Benefits,
			DurationSeconds: req.DurationSeconds,
			Platform:        req.Platform,
			Style:           req.Style,
			CallToAction:    req.CallToAction,
		},
		Status:    ProductionStatusQueued,
		Phases:    NewPhases(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ProductionResponse represents the response structure for a single production
type ProductionResponse struct {
	ID           string           `json:"id"`
	UserID       string           `json:"user_id,omitempty"`
	Brief        Brief            `json:"brief"`
	Status       ProductionStatus `json:"status"`
	Phases       []Phase          `json:"phases"`
	Logs         []RunLogEntry    `json:"logs,omitempty"`
	Assets       []Asset          `json:"assets,omitempty"`
	Voiceover    *Voiceover       `json:"voiceover,omitempty"`
	OverallScore *int             `json:"overall_score,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductionListResponse represents the response structure for listing productions
type ProductionListResponse struct {
	Productions []ProductionResponse `json:"productions"`
	Total       int                  `json:"total"`
}

// ToResponse converts a domain Production to a ProductionResponse DTO
func (p *Production) ToResponse() ProductionResponse {
	return ProductionResponse{
		ID:           p.ID,
		UserID:       p.UserID,
		Brief:        p.Brief,
		Status:       p.Status,
		Phases:       p.Phases,
		Logs:         p.Logs,
		Assets:       p.Assets,
		Voiceover:    p.Voiceover,
		OverallScore: p.OverallScore,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// EstimateRequest carries scenes to price against the provider catalog
type EstimateRequest struct {
	Style  Style               `json:"style" binding:"required,oneof=professional casual cinematic energetic"`
	Scenes []SceneForSelection `json:"scenes" binding:"required,min=1,dive"`
}
