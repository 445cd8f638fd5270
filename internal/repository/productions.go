package repository

import (
	"context"

	"github.com/reelforge/reelforge/internal/database"
	"github.com/reelforge/reelforge/internal/models"
)

// ProductionRepository defines the interface for production operations
type ProductionRepository interface {
	Create(ctx context.Context, production *models.Production) error
	Get(ctx context.Context, productionID string) (*models.Production, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Production, error)
	Update(ctx context.Context, production *models.Production) error
}

// dynamoProductionRepository implements ProductionRepository using DynamoDB
type dynamoProductionRepository struct {
	db *database.ProductionOperations
}

// NewProductionRepository creates a new DynamoDB-backed production repository
func NewProductionRepository(db *database.ProductionOperations) ProductionRepository {
	return &dynamoProductionRepository{
		db: db,
	}
}

// Create stores a new production record
func (r *dynamoProductionRepository) Create(ctx context.Context, production *models.Production) error {
	return r.db.CreateProduction(ctx, production)
}

// Get retrieves a production by ID
func (r *dynamoProductionRepository) Get(ctx context.Context, productionID string) (*models.Production, error) {
	return r.db.GetProduction(ctx, productionID)
}

// GetByUser retrieves all productions for a user
func (r *dynamoProductionRepository) GetByUser(ctx context.Context, userID string) ([]*models.Production, error) {
	return r.db.GetProductionsByUserId(ctx, userID)
}

// Update persists a full production snapshot
func (r *dynamoProductionRepository) Update(ctx context.Context, production *models.Production) error {
	return r.db.UpdateProduction(ctx, production)
}
