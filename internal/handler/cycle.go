package handler

import (
	"tontine-core/internal/handler/request"
	"tontine-core/internal/handler/response"
	"tontine-core/internal/middleware"
	"tontine-core/internal/service"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/monitor"
	"tontine-core/pkg/validator"

	"github.com/gin-gonic/gin"
)

type CycleHandler struct {
	cycles *service.CycleService
}

func NewCycleHandler(cycles *service.CycleService) *CycleHandler {
	return &CycleHandler{cycles: cycles}
}

// Create creates a pending cycle for a closed tontine (owner only)
// @Summary Create a cycle
// @Tags Cycles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tontine ID"
// @Param request body request.CreateCycleRequest false "Cycle parameters"
// @Success 201 {object} response.Response
// @Router /tontines/{id}/cycles [post]
func (h *CycleHandler) Create(c *gin.Context) {
	tontineID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.CreateCycleRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
			return
		}
	}

	cycle, err := h.cycles.CreateCycle(c.Request.Context(), tontineID, middleware.UserID(c), service.CreateCycleInput{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CustomOrder: req.CustomOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.CycleCreatedTotal.Inc()
	response.Created(c, cycle)
}

// ListByTontine lists all cycles of a tontine
// @Summary List cycles of a tontine
// @Tags Cycles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tontine ID"
// @Success 200 {object} response.Response
// @Router /tontines/{id}/cycles [get]
func (h *CycleHandler) ListByTontine(c *gin.Context) {
	tontineID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	cycles, err := h.cycles.ListCycles(c.Request.Context(), tontineID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cycles)
}

// Get returns a cycle with its payout order and rounds
// @Summary Get cycle details
// @Tags Cycles
// @Produce json
// @Security BearerAuth
// @Param cycleId path int true "Cycle ID"
// @Success 200 {object} response.Response
// @Router /cycles/{cycleId} [get]
func (h *CycleHandler) Get(c *gin.Context) {
	cycleID, err := pathID(c, "cycleId")
	if err != nil {
		response.Error(c, err)
		return
	}

	cycle, err := h.cycles.GetCycle(c.Request.Context(), cycleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cycle)
}

// SetPayoutOrder replaces a pending cycle's payout order (owner only)
// @Summary Set custom payout order
// @Tags Cycles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param cycleId path int true "Cycle ID"
// @Param request body request.SetPayoutOrderRequest true "Ordered member IDs"
// @Success 200 {object} response.Response
// @Router /cycles/{cycleId}/payout-order [put]
func (h *CycleHandler) SetPayoutOrder(c *gin.Context) {
	cycleID, err := pathID(c, "cycleId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.SetPayoutOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	order, err := h.cycles.SetPayoutOrder(c.Request.Context(), cycleID, middleware.UserID(c), req.CustomOrder)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"cycle_id":     cycleID,
		"payout_order": order,
	})
}

// Start activates a pending cycle and opens round 1 (owner only)
// @Summary Start a cycle
// @Tags Cycles
// @Produce json
// @Security BearerAuth
// @Param cycleId path int true "Cycle ID"
// @Success 200 {object} response.Response
// @Router /cycles/{cycleId}/start [post]
func (h *CycleHandler) Start(c *gin.Context) {
	cycleID, err := pathID(c, "cycleId")
	if err != nil {
		response.Error(c, err)
		return
	}

	cycle, err := h.cycles.StartCycle(c.Request.Context(), cycleID, middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cycle)
}

// Stats reports round progress and per-member payment state (owner only)
// @Summary Get cycle statistics
// @Tags Cycles
// @Produce json
// @Security BearerAuth
// @Param cycleId path int true "Cycle ID"
// @Success 200 {object} response.Response
// @Router /cycles/{cycleId}/stats [get]
func (h *CycleHandler) Stats(c *gin.Context) {
	cycleID, err := pathID(c, "cycleId")
	if err != nil {
		response.Error(c, err)
		return
	}

	stats, err := h.cycles.GetCycleStats(c.Request.Context(), cycleID, middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
