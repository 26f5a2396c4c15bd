package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachly/backend-auth/pkg/database"
	pkgredis "github.com/coachly/backend-auth/pkg/redis"
)

// HealthHandler handles health check HTTP requests.
type HealthHandler struct {
	db    *database.PostgresDB
	redis *pkgredis.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *database.PostgresDB, redis *pkgredis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Health returns basic liveness status
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "coachly-auth",
	})
}

// Ready checks if the service is ready to accept traffic
// GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := gin.H{
		"database": "connected",
		"redis":    "connected",
	}
	ready := true

	if err := h.db.Ping(c.Request.Context()); err != nil {
		checks["database"] = "disconnected"
		ready = false
	}
	// Redis is optional capacity, but report it so operators see drift.
	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()); err != nil {
			checks["redis"] = "disconnected"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"service": "coachly-auth",
			"checks":  checks,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ready",
		"service": "coachly-auth",
		"checks":  checks,
	})
}
