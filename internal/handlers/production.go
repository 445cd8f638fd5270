package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reelforge/reelforge/internal/database"
	"github.com/reelforge/reelforge/internal/logger"
	"github.com/reelforge/reelforge/internal/models"
	"github.com/reelforge/reelforge/internal/queue"
	"github.com/reelforge/reelforge/internal/repository"
	"github.com/reelforge/reelforge/internal/services"
)

// ProductionHandler handles production-related requests
type ProductionHandler struct {
	productionRepo repository.ProductionRepository
	selector       *services.SelectorService
	jobQueue       *queue.JobQueue
	registry       *services.RunRegistry
}

// NewProductionHandler creates a new production handler
func NewProductionHandler(
	productionRepo repository.ProductionRepository,
	selector *services.SelectorService,
	jobQueue *queue.JobQueue,
	registry *services.RunRegistry,
) *ProductionHandler {
	return &ProductionHandler{
		productionRepo: productionRepo,
		selector:       selector,
		jobQueue:       jobQueue,
		registry:       registry,
	}
}

// Create handles starting a new production asynchronously
func (h *ProductionHandler) Create(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	var req models.CreateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	production := req.ToDomain(uuid.New().String(), userID)

	ctx := c.Request.Context()
	if err := h.productionRepo.Create(ctx, production); err != nil {
		logger.WithFields(map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		}).Error("Failed to create production record")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to create production",
		})
		return
	}

	job := &queue.ProductionJob{
		ProductionID: production.ID,
		UserID:       userID,
	}
	if err := h.jobQueue.Enqueue(job); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "queue_unavailable",
			"message": "Production queue is not accepting jobs: " + err.Error(),
		})
		return
	}

	logger.WithFields(map[string]interface{}{
		"production_id": production.ID,
		"user_id":       userID,
		"product":       production.Brief.ProductName,
	}).Info("Production enqueued")

	c.JSON(http.StatusAccepted, production.ToResponse())
}

// Get handles retrieving one production with its full log stream
func (h *ProductionHandler) Get(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	productionID := c.Param("production_id")
	if productionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Production ID is required",
		})
		return
	}

	production, err := h.productionRepo.Get(c.Request.Context(), productionID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "production_not_found",
				"message": "Production not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to retrieve production",
		})
		return
	}

	if production.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to view this production",
		})
		return
	}

	c.JSON(http.StatusOK, production.ToResponse())
}

// List handles retrieving all productions for the authenticated user
func (h *ProductionHandler) List(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	productions, err := h.productionRepo.GetByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to list productions",
		})
		return
	}

	responses := make([]models.ProductionResponse, 0, len(productions))
	for _, p := range productions {
		// omit log streams from the list view
		resp := p.ToResponse()
		resp.Logs = nil
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, models.ProductionListResponse{
		Productions: responses,
		Total:       len(responses),
	})
}

// Cancel handles stopping an in-flight production. Produced assets and
// logs are retained; the run lands in the cancelled status.
func (h *ProductionHandler) Cancel(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	productionID := c.Param("production_id")
	ctx := c.Request.Context()

	production, err := h.productionRepo.Get(ctx, productionID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":   "production_not_found",
				"message": "Production not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to retrieve production",
		})
		return
	}

	if production.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to cancel this production",
		})
		return
	}

	if h.registry.Cancel(productionID) {
		logger.WithField("production_id", productionID).Info("Cancellation requested for running production")
		c.JSON(http.StatusAccepted, gin.H{
			"message": "Cancellation requested",
		})
		return
	}

	// Not in flight. A queued production can be cancelled directly; a
	// finished one cannot.
	if production.Status == models.ProductionStatusQueued {
		production.Status = models.ProductionStatusCancelled
		if err := h.productionRepo.Update(ctx, production); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "Failed to cancel production",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Production cancelled",
		})
		return
	}

	c.JSON(http.StatusConflict, gin.H{
		"error":   "not_cancellable",
		"message": "Production is already in a terminal state: " + string(production.Status),
	})
}

// Estimate handles pricing a scene list against the provider catalog
// without starting a production
func (h *ProductionHandler) Estimate(c *gin.Context) {
	if _, ok := userIDFromContext(c); !ok {
		return
	}

	var req models.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "bad_request",
			"message": "Invalid request body: " + err.Error(),
		})
		return
	}

	prefs := services.PreferencesForStyle(req.Style)
	estimate := h.selector.EstimateProject(req.Scenes, prefs)

	c.JSON(http.StatusOK, estimate)
}

// userIDFromContext extracts the authenticated user id set by the auth
// middleware, writing the error response itself on failure
func userIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":   "unauthorized",
			"message": "User ID not found in context",
		})
		return "", false
	}
	userIDStr, ok := userID.(string)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Invalid user ID format",
		})
		return "", false
	}
	return userIDStr, true
}
