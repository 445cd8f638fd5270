package repository

import (
	"context"

	"github.com/reelforge/reelforge/internal/database"
	"github.com/reelforge/reelforge/internal/models"
)

// BrandAssetRepository defines read-only access to the brand-media pool
type BrandAssetRepository interface {
	ListActive(ctx context.Context) ([]models.BrandAsset, error)
}

// dynamoBrandAssetRepository implements BrandAssetRepository using DynamoDB
type dynamoBrandAssetRepository struct {
	db *database.BrandAssetOperations
}

// NewBrandAssetRepository creates a new DynamoDB-backed brand asset repository
func NewBrandAssetRepository(db *database.BrandAssetOperations) BrandAssetRepository {
	return &dynamoBrandAssetRepository{
		db: db,
	}
}

// ListActive retrieves all active brand assets
func (r *dynamoBrandAssetRepository) ListActive(ctx context.Context) ([]models.BrandAsset, error) {
	return r.db.ListActiveBrandAssets(ctx)
}
