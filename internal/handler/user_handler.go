package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-api/internal/dto"
	"github.com/noah-isme/thesis-api/pkg/response"
)

type userService interface {
	List(ctx context.Context) ([]dto.UserSummary, error)
}

// UserHandler lists accounts for the frontend user picker.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} dto.UserSummary
// @Failure 500 {object} response.ErrorBody
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if users == nil {
		users = []dto.UserSummary{}
	}
	response.JSON(c, http.StatusOK, users)
}
