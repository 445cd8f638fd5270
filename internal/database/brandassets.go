package database

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/reelforge/reelforge/internal/logger"
	"github.com/reelforge/reelforge/internal/models"
)

// BrandAssetOperations handles DynamoDB reads of the brand-media pool.
// The pool is owned by an external brand-media store; this service never
// writes to it.
type BrandAssetOperations struct {
	client    *Client
	tableName string
}

// NewBrandAssetOperations creates a new BrandAssetOperations instance
func NewBrandAssetOperations(client *Client, tableName string) *BrandAssetOperations {
	return &BrandAssetOperations{
		client:    client,
		tableName: tableName,
	}
}

// ListActiveBrandAssets retrieves all active brand assets from DynamoDB
func (bo *BrandAssetOperations) ListActiveBrandAssets(ctx context.Context) ([]models.BrandAsset, error) {
	result, err := bo.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(bo.tableName),
		FilterExpression: aws.String("Active = :active"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberBOOL{Value: true},
		},
	})
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"error": err.Error(),
		}).Error("Failed to scan brand assets from DynamoDB")
		return nil, fmt.Errorf("failed to scan brand assets: %w", err)
	}

	assets := make([]models.BrandAsset, 0, len(result.Items))
	for _, item := range result.Items {
		var asset models.BrandAsset
		if err := attributevalue.UnmarshalMap(item, &asset); err != nil {
			return nil, fmt.Errorf("failed to unmarshal brand asset: %w", err)
		}
		assets = append(assets, asset)
	}

	logger.WithFields(map[string]interface{}{
		"count": len(assets),
	}).Debug("Brand assets retrieved from DynamoDB")

	return assets, nil
}
