package handler

import (
	"tontine-core/internal/handler/request"
	"tontine-core/internal/handler/response"
	"tontine-core/internal/middleware"
	"tontine-core/internal/service"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/monitor"
	"tontine-core/pkg/pagination"
	"tontine-core/pkg/validator"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	payments *service.PaymentService
}

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// Create records a contribution to an open round
// @Summary Pay into a round
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param roundId path int true "Round ID"
// @Param request body request.MakePaymentRequest true "Payment"
// @Success 201 {object} response.Response
// @Router /rounds/{roundId}/payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	roundID, err := pathID(c, "roundId")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.MakePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	payment, err := h.payments.CreateForRound(c.Request.Context(), roundID, middleware.UserID(c), req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	monitor.Business.PaymentRecordedTotal.WithLabelValues(payment.Status).Inc()
	response.Created(c, payment)
}

// ListByRound lists the payments recorded for a round
// @Summary List round payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param roundId path int true "Round ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /rounds/{roundId}/payments [get]
func (h *PaymentHandler) ListByRound(c *gin.Context) {
	roundID, err := pathID(c, "roundId")
	if err != nil {
		response.Error(c, err)
		return
	}

	p := pagination.Parse(c.Query("page"), c.Query("limit"))
	payments, total, err := h.payments.ListByRound(c.Request.Context(), roundID, p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pagination.NewPage(payments, total, p))
}

// ListMine lists the caller's payment history
// @Summary List own payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /users/me/payments [get]
func (h *PaymentHandler) ListMine(c *gin.Context) {
	p := pagination.Parse(c.Query("page"), c.Query("limit"))
	payments, total, err := h.payments.ListByUser(c.Request.Context(), middleware.UserID(c), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pagination.NewPage(payments, total, p))
}
