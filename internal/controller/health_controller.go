package controller

import (
	"net/http"

	"gis_quiz_backend/internal/repository"
	"gis_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	History *repository.HistoryRepository
}

func NewHealthController(history *repository.HistoryRepository) *HealthController {
	return &HealthController{History: history}
}

// @Summary Health check
// @Description Service liveness plus history-store readability
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	if err := c.History.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "History log unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"history": "up",
		},
	})
}
