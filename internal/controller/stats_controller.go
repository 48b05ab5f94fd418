package controller

import (
	"errors"
	"net/http"

	"gis_quiz_backend/internal/service"
	"gis_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	Service *service.StatsService

	worstLimit int
}

func NewStatsController(svc *service.StatsService, worstLimit int) *StatsController {
	return &StatsController{Service: svc, worstLimit: worstLimit}
}

// @Summary Overall accuracy
// @Description Whole-log accuracy; hasData=false when no attempts exist yet
// @Tags stats
// @Produce json
// @Success 200 {object} util.Response
// @Router /stats/overview [get]
func (c *StatsController) GetOverview(ctx *gin.Context) {
	overview, err := c.Service.Overview()
	if err != nil {
		c.writeStatsError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// @Summary Accuracy by question type
// @Tags stats
// @Produce json
// @Success 200 {object} util.Response
// @Router /stats/labels [get]
func (c *StatsController) GetByLabel(ctx *gin.Context) {
	rows, err := c.Service.ByLabel()
	if err != nil {
		c.writeStatsError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": rows, "hasData": len(rows) > 0})
}

// @Summary Accuracy trend by date
// @Tags stats
// @Produce json
// @Success 200 {object} util.Response
// @Router /stats/daily [get]
func (c *StatsController) GetByDate(ctx *gin.Context) {
	rows, err := c.Service.ByDate()
	if err != nil {
		c.writeStatsError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": rows, "hasData": len(rows) > 0})
}

// @Summary Highest miss-rate questions
// @Tags stats
// @Produce json
// @Success 200 {object} util.Response
// @Router /stats/worst [get]
func (c *StatsController) GetWorst(ctx *gin.Context) {
	rows, err := c.Service.WorstRanking(c.worstLimit)
	if err != nil {
		c.writeStatsError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"items": rows, "hasData": len(rows) > 0})
}

func (c *StatsController) writeStatsError(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrHistoryCorrupt) {
		util.Error(ctx, http.StatusInternalServerError, err.Error())
		return
	}
	util.LogInternalError(ctx, err)
}
