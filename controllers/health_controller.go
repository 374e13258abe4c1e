package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/Govind-619/PayGate/utils"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthController struct {
	db Pinger
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health handles GET /api/health
func (ctl *HealthController) Health(c *gin.Context) {
	if ctl.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "memory"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := ctl.db.PingContext(ctx); err != nil {
		appErr := utils.ServiceUnavailableError("Health check failed - database unreachable", err)
		utils.LogError("%v", appErr)
		c.JSON(appErr.Code, gin.H{"status": "error", "database": "down"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}
