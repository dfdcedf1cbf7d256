package handler

import (
	"tontine-core/internal/handler/response"
	"tontine-core/internal/middleware"
	"tontine-core/internal/service"
	"tontine-core/pkg/monitor"

	"github.com/gin-gonic/gin"
)

type RoundHandler struct {
	rounds *service.RoundService
}

func NewRoundHandler(rounds *service.RoundService) *RoundHandler {
	return &RoundHandler{rounds: rounds}
}

// Get returns a round with its collector
// @Summary Get round details
// @Tags Rounds
// @Produce json
// @Security BearerAuth
// @Param roundId path int true "Round ID"
// @Success 200 {object} response.Response
// @Router /rounds/{roundId} [get]
func (h *RoundHandler) Get(c *gin.Context) {
	roundID, err := pathID(c, "roundId")
	if err != nil {
		response.Error(c, err)
		return
	}

	round, err := h.rounds.GetRound(c.Request.Context(), roundID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, round)
}

// Close closes an open round, pays out its collector and advances the
// cycle, completing it after the last round (owner only)
// @Summary Close a round
// @Tags Rounds
// @Produce json
// @Security BearerAuth
// @Param roundId path int true "Round ID"
// @Success 200 {object} response.Response
// @Router /rounds/{roundId}/close [post]
func (h *RoundHandler) Close(c *gin.Context) {
	roundID, err := pathID(c, "roundId")
	if err != nil {
		response.Error(c, err)
		return
	}

	round, completed, err := h.rounds.CloseRound(c.Request.Context(), roundID, middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.RoundClosedTotal.Inc()
	if completed {
		monitor.Business.CycleCompletedTotal.Inc()
	}
	response.Success(c, gin.H{
		"round":           round,
		"cycle_completed": completed,
	})
}
