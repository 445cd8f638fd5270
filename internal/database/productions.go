package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/reelforge/reelforge/internal/logger"
	"github.com/reelforge/reelforge/internal/models"
)

// ProductionOperations handles all DynamoDB operations for productions
type ProductionOperations struct {
	client    *Client
	tableName string
}

// NewProductionOperations creates a new ProductionOperations instance
func NewProductionOperations(client *Client, tableName string) *ProductionOperations {
	return &ProductionOperations{
		client:    client,
		tableName: tableName,
	}
}

// CreateProduction stores a new production record in DynamoDB
func (po *ProductionOperations) CreateProduction(ctx context.Context, production *models.Production) error {
	logger.WithFields(map[string]interface{}{
		"production_id": production.ID,
		"user_id":       production.UserID,
	}).Debug("Creating production in DynamoDB")

	briefAv, err := attributevalue.Marshal(production.Brief)
	if err != nil {
		return fmt.Errorf("failed to marshal brief: %w", err)
	}
	phasesAv, err := attributevalue.Marshal(production.Phases)
	if err != nil {
		return fmt.Errorf("failed to marshal phases: %w", err)
	}

	av, err := attributevalue.MarshalMap(map[string]interface{}{
		"ProductionId": production.ID,
		"UserId":       production.UserID,
		"Status":       string(production.Status),
		"CreatedAt":    production.CreatedAt.Unix(),
		"UpdatedAt":    production.UpdatedAt.Unix(),
	})
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"production_id": production.ID,
			"error":         err.Error(),
		}).Error("Failed to marshal production")
		return fmt.Errorf("failed to marshal production: %w", err)
	}
	av["Brief"] = briefAv
	av["Phases"] = phasesAv

	_, err = po.client.DynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(po.tableName),
		Item:      av,
	})
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"production_id": production.ID,
			"error":         err.Error(),
		}).Error("Failed to create production in DynamoDB")
		return fmt.Errorf("failed to create production: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"production_id": production.ID,
	}).Info("Production created successfully in DynamoDB")

	return nil
}

// GetProduction retrieves a production by ID from DynamoDB
func (po *ProductionOperations) GetProduction(ctx context.Context, productionID string) (*models.Production, error) {
	logger.WithFields(map[string]interface{}{
		"production_id": productionID,
	}).Debug("Retrieving production from DynamoDB")

	result, err := po.client.DynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(po.tableName),
		Key: map[string]types.AttributeValue{
			"ProductionId": &types.AttributeValueMemberS{Value: productionID},
		},
	})
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"production_id": productionID,
			"error":         err.Error(),
		}).Error("Failed to get production from DynamoDB")
		return nil, fmt.Errorf("failed to get production: %w", err)
	}

	if result.Item == nil {
		logger.WithFields(map[string]interface{}{
			"production_id": productionID,
		}).Warn("Production not found in DynamoDB")
		return nil, ErrNotFound
	}

	production, err := po.unmarshalProduction(result.Item)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal production: %w", err)
	}

	return production, nil
}

// GetProductionsByUserId retrieves all productions for a specific user from DynamoDB
func (po *ProductionOperations) GetProductionsByUserId(ctx context.Context, userID string) ([]*models.Production, error) {
	result, err := po.client.DynamoDB.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(po.tableName),
		FilterExpression: aws.String("UserId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan productions by user_id: %w", err)
	}

	productions := make([]*models.Production, 0, len(result.Items))
	for _, item := range result.Items {
		production, err := po.unmarshalProduction(item)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal production: %w", err)
		}
		productions = append(productions, production)
	}

	return productions, nil
}

// UpdateProduction persists a full production snapshot including phases,
// logs, assets, voiceover and overall score
func (po *ProductionOperations) UpdateProduction(ctx context.Context, production *models.Production) error {
	logger.WithFields(map[string]interface{}{
		"production_id": production.ID,
		"status":        production.Status,
	}).Debug("Updating production in DynamoDB")

	phasesAv, _ := attributevalue.Marshal(production.Phases)
	logsAv, _ := attributevalue.Marshal(production.Logs)
	assetsAv, _ := attributevalue.Marshal(production.Assets)
	voiceoverAv, _ := attributevalue.Marshal(production.Voiceover)
	scoreAv, _ := attributevalue.Marshal(production.OverallScore)

	updateExpr := "SET #status = :status, #phases = :phases, #logs = :logs, #assets = :assets, #voiceover = :voiceover, #score = :score, UpdatedAt = :updated_at"
	exprAttrNames := map[string]string{
		"#status":    "Status",
		"#phases":    "Phases",
		"#logs":      "Logs",
		"#assets":    "Assets",
		"#voiceover": "Voiceover",
		"#score":     "OverallScore",
	}
	exprAttrVals := map[string]types.AttributeValue{
		":status":     &types.AttributeValueMemberS{Value: string(production.Status)},
		":phases":     phasesAv,
		":logs":       logsAv,
		":assets":     assetsAv,
		":voiceover":  voiceoverAv,
		":score":      scoreAv,
		":updated_at": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", production.UpdatedAt.Unix())},
	}

	_, err := po.client.DynamoDB.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(po.tableName),
		Key: map[string]types.AttributeValue{
			"ProductionId": &types.AttributeValueMemberS{Value: production.ID},
		},
		UpdateExpression:          aws.String(updateExpr),
		ExpressionAttributeNames:  exprAttrNames,
		ExpressionAttributeValues: exprAttrVals,
		ConditionExpression:       aws.String("attribute_exists(ProductionId)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			logger.WithFields(map[string]interface{}{
				"production_id": production.ID,
			}).Warn("Production not found during update")
			return ErrNotFound
		}
		logger.WithFields(map[string]interface{}{
			"production_id": production.ID,
			"error":         err.Error(),
		}).Error("Failed to update production in DynamoDB")
		return fmt.Errorf("failed to update production: %w", err)
	}

	return nil
}

// unmarshalProduction is a helper function to unmarshal a DynamoDB item to the Production domain model
func (po *ProductionOperations) unmarshalProduction(item map[string]types.AttributeValue) (*models.Production, error) {
	var temp struct {
		ProductionID string               `dynamodbav:"ProductionId"`
		UserID       string               `dynamodbav:"UserId"`
		Brief        models.Brief         `dynamodbav:"Brief"`
		Status       string               `dynamodbav:"Status"`
		Phases       []models.Phase       `dynamodbav:"Phases"`
		Logs         []models.RunLogEntry `dynamodbav:"Logs"`
		Assets       []models.Asset       `dynamodbav:"Assets"`
		Voiceover    *models.Voiceover    `dynamodbav:"Voiceover"`
		OverallScore *int                 `dynamodbav:"OverallScore"`
		CreatedAt    int64                `dynamodbav:"CreatedAt"`
		UpdatedAt    int64                `dynamodbav:"UpdatedAt"`
	}

	if err := attributevalue.UnmarshalMap(item, &temp); err != nil {
		return nil, err
	}

	return &models.Production{
		ID:           temp.ProductionID,
		UserID:       temp.UserID,
		Brief:        temp.Brief,
		Status:       models.ProductionStatus(temp.Status),
		Phases:       temp.Phases,
		Logs:         temp.Logs,
		Assets:       temp.Assets,
		Voiceover:    temp.Voiceover,
		OverallScore: temp.OverallScore,
		CreatedAt:    time.Unix(temp.CreatedAt, 0),
		UpdatedAt:    time.Unix(temp.UpdatedAt, 0),
	}, nil
}
