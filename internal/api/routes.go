package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/atlasmetrics/foresight/internal/database"
	"github.com/atlasmetrics/foresight/internal/handlers"
	"github.com/atlasmetrics/foresight/internal/telemetry"
)

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Services  Services  `json:"services"`
}

type Services struct {
	Database string `json:"database"`
	Redis    string `json:"redis"`
}

// SetupRoutes wires the HTTP surface. db and redis may be nil when the
// service runs engine-only.
func SetupRoutes(router *gin.Engine, intelligence *handlers.IntelligenceHandler, db *database.PostgresDB, redis *database.RedisClient) {
	router.Use(otelgin.Middleware(telemetry.ServiceName))

	router.GET("/health", healthCheck(db, redis))

	v1 := router.Group("/api/v1")
	{
		intel := v1.Group("/intelligence")
		{
			intel.GET("/:entityId", intelligence.GetIntelligence)
			intel.POST("/analyze", intelligence.Analyze)
		}
	}
}

func healthCheck(db *database.PostgresDB, redis *database.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   telemetry.ServiceVersion,
			Services:  Services{Database: "not configured", Redis: "not configured"},
		}

		if db != nil {
			response.Services.Database = "ok"
			if err := db.HealthCheck(c.Request.Context()); err != nil {
				response.Services.Database = "unhealthy"
				response.Status = "degraded"
			}
		}
		if redis != nil {
			response.Services.Redis = "ok"
			if err := redis.HealthCheck(c.Request.Context()); err != nil {
				response.Services.Redis = "unhealthy"
				response.Status = "degraded"
			}
		}

		c.JSON(http.StatusOK, response)
	}
}
