package handler

import (
	"tontine-core/internal/handler/request"
	"tontine-core/internal/handler/response"
	"tontine-core/internal/middleware"
	"tontine-core/internal/model"
	"tontine-core/internal/service"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/monitor"
	"tontine-core/pkg/pagination"
	"tontine-core/pkg/validator"

	"github.com/gin-gonic/gin"
)

type TontineHandler struct {
	tontines *service.TontineService
	payments *service.PaymentService
}

func NewTontineHandler(tontines *service.TontineService, payments *service.PaymentService) *TontineHandler {
	return &TontineHandler{tontines: tontines, payments: payments}
}

// Create creates a tontine; the creator joins as first member
// @Summary Create a tontine
// @Tags Tontines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.CreateTontineRequest true "Tontine definition"
// @Success 201 {object} response.Response
// @Router /tontines [post]
func (h *TontineHandler) Create(c *gin.Context) {
	var req request.CreateTontineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	policy := req.PickupPolicy
	if policy == "" {
		policy = model.PolicyArrival
	}

	tontine := &model.Tontine{
		Name:         req.Name,
		Amount:       req.Amount,
		MinMembers:   req.MinMembers,
		Frequency:    req.Frequency,
		PickupPolicy: policy,
		OwnerID:      middleware.UserID(c),
	}
	if err := h.tontines.CreateTontine(c.Request.Context(), tontine); err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.TontineCreatedTotal.Inc()
	response.Created(c, tontine)
}

// List returns tontines with optional status filter
// @Summary List tontines
// @Tags Tontines
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(open, closed)
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /tontines [get]
func (h *TontineHandler) List(c *gin.Context) {
	p := pagination.Parse(c.Query("page"), c.Query("limit"))
	status := c.Query("status")

	tontines, total, err := h.tontines.ListTontines(c.Request.Context(), status, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pagination.NewPage(tontines, total, p))
}

// Get returns a tontine with members and payments
// @Summary Get tontine details
// @Tags Tontines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tontine ID"
// @Success 200 {object} response.Response
// @Router /tontines/{id} [get]
func (h *TontineHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	details, err := h.tontines.GetTontine(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, details)
}

// Update edits a tontine definition (owner only)
// @Summary Update a tontine
// @Tags Tontines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tontine ID"
// @Param request body request.UpdateTontineRequest true "Fields to change"
// @Success 200 {object} response.Response
// @Router /tontines/{id} [put]
func (h *TontineHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.UpdateTontineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	tontine, err := h.tontines.UpdateTontine(c.Request.Context(), id, middleware.UserID(c), func(t *model.Tontine) {
		if req.Name != "" {
			t.Name = req.Name
		}
		if req.Amount != nil {
			t.Amount = *req.Amount
		}
		if req.MinMembers != nil {
			t.MinMembers = *req.MinMembers
		}
		if req.Frequency != "" {
			t.Frequency = req.Frequency
		}
		if req.PickupPolicy != "" {
			t.PickupPolicy = req.PickupPolicy
		}
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tontine)
}

// Delete removes a tontine (owner only)
// @Summary Delete a tontine
// @Tags Tontines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tontine ID"
// @Success 200 {object} response.Response
// @Router /tontines/{id} [delete]
func (h *TontineHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.tontines.DeleteTontine(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Join adds the caller to an open tontine
// @Summary Join a tontine
// @Tags Tontines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tontine ID"
// @Success 201 {object} response.Response
// @Router /tontines/{id}/join [post]
func (h *TontineHandler) Join(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	userID := middleware.UserID(c)
	status, err := h.tontines.JoinTontine(c.Request.Context(), id, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if status == model.TontineClosed {
		monitor.Business.TontineClosedTotal.Inc()
	}
	response.Created(c, gin.H{
		"tontine_id": id,
		"user_id":    userID,
		"status":     status,
	})
}

// Leave removes the caller from a tontine with all cycles completed
// @Summary Leave a tontine
// @Tags Tontines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tontine ID"
// @Success 200 {object} response.Response
// @Router /tontines/{id}/leave [post]
func (h *TontineHandler) Leave(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	userID := middleware.UserID(c)
	if err := h.tontines.LeaveTontine(c.Request.Context(), id, userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"tontine_id": id,
		"user_id":    userID,
	})
}

// Pay records a simulated contribution to the tontine's open round
// @Summary Make a payment (simulation)
// @Tags Tontines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tontine ID"
// @Param request body request.MakePaymentRequest true "Payment"
// @Success 201 {object} response.Response
// @Router /tontines/{id}/pay [post]
func (h *TontineHandler) Pay(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.MakePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	payment, err := h.payments.CreateForTontine(c.Request.Context(), id, middleware.UserID(c), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.PaymentRecordedTotal.WithLabelValues(payment.Status).Inc()
	response.Created(c, payment)
}

// Members lists a tontine's members in join order
// @Summary Get tontine members
// @Tags Tontines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Tontine ID"
// @Success 200 {object} response.Response
// @Router /tontines/{id}/members [get]
func (h *TontineHandler) Members(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	members, err := h.tontines.GetMembers(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"tontine_id":    id,
		"members_count": len(members),
		"members":       members,
	})
}

// My lists the caller's owned and member tontines
// @Summary Get own tontines
// @Tags Tontines
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /tontines/my [get]
func (h *TontineHandler) My(c *gin.Context) {
	result, err := h.tontines.GetUserTontines(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
