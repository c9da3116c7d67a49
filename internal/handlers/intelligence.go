package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/atlasmetrics/foresight/internal/database"
	"github.com/atlasmetrics/foresight/internal/forecast"
	"github.com/atlasmetrics/foresight/internal/models"
)

// historyLimit caps how many samples one report trains on.
const historyLimit = 120

// HistoryStore is the persistence surface the handler needs.
type HistoryStore interface {
	GetEntity(ctx context.Context, entityID string) (*models.Entity, error)
	GetHistory(ctx context.Context, entityID string, limit int) ([]models.HistoricalDataPoint, error)
}

// IntelligenceHandler serves forward intelligence reports.
type IntelligenceHandler struct {
	engine  *forecast.Engine
	history HistoryStore
	logger  *logrus.Logger
}

// NewIntelligenceHandler creates the report handler. history may be nil when
// the service runs without persistence; the stored-entity route then 404s.
func NewIntelligenceHandler(engine *forecast.Engine, history HistoryStore, logger *logrus.Logger) *IntelligenceHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &IntelligenceHandler{engine: engine, history: history, logger: logger}
}

// GetIntelligence loads a stored entity and its history, then runs the
// engine. GET /api/v1/intelligence/:entityId
func (h *IntelligenceHandler) GetIntelligence(c *gin.Context) {
	entityID := c.Param("entityId")

	if h.history == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity storage not configured"})
		return
	}

	entity, err := h.history.GetEntity(c.Request.Context(), entityID)
	if errors.Is(err, database.ErrEntityNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("entity_id", entityID).Error("Failed to load entity")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load entity"})
		return
	}

	history, err := h.history.GetHistory(c.Request.Context(), entityID, historyLimit)
	if err != nil {
		h.logger.WithError(err).WithField("entity_id", entityID).Error("Failed to load history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	h.respond(c, *entity, history)
}

// AnalyzeRequest is the inline-payload body for POST /analyze.
type AnalyzeRequest struct {
	Entity         models.Entity                `json:"entity" binding:"required"`
	HistoricalData []models.HistoricalDataPoint `json:"historical_data" binding:"required"`
}

// Analyze runs the engine over a caller-supplied snapshot without touching
// storage. POST /api/v1/intelligence/analyze
func (h *IntelligenceHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	if req.Entity.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "entity.id is required"})
		return
	}

	h.respond(c, req.Entity, req.HistoricalData)
}

func (h *IntelligenceHandler) respond(c *gin.Context, entity models.Entity, history []models.HistoricalDataPoint) {
	intel, err := h.engine.Analyze(c.Request.Context(), entity, history)
	if err != nil {
		var insufficient *forecast.InsufficientDataError
		if errors.As(err, &insufficient) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  insufficient.Error(),
				"got":    insufficient.Got,
				"needed": insufficient.Need,
			})
			return
		}
		h.logger.WithError(err).WithField("entity_id", entity.ID).Error("Intelligence computation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "intelligence computation failed"})
		return
	}

	c.JSON(http.StatusOK, intel)
}
