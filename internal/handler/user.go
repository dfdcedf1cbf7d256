package handler

import (
	"tontine-core/internal/handler/request"
	"tontine-core/internal/handler/response"
	"tontine-core/internal/middleware"
	"tontine-core/internal/service"
	"tontine-core/pkg/errno"
	"tontine-core/pkg/validator"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile returns the caller's own profile
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.users.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateProfile changes the caller's name and/or email
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} response.Response
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}
	if req.Name == "" && req.Email == "" {
		response.Error(c, errno.ErrBind.WithMessage("Name or email required"))
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.UserID(c), req.Name, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}
