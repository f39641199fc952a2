package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/thesis-api/internal/dto"
	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
	"github.com/noah-isme/thesis-api/pkg/response"
)

type declarationService interface {
	Submit(ctx context.Context, topicID int64, studentID *int64) (*dto.DeclarationResult, error)
	Handle(ctx context.Context, accountID, topicID int64) (*dto.DeclarationResult, error)
}

// DeclarationHandler exposes the declaration workflow.
type DeclarationHandler struct {
	service   declarationService
	validator *validator.Validate
}

// NewDeclarationHandler constructs the handler.
func NewDeclarationHandler(service declarationService) *DeclarationHandler {
	return &DeclarationHandler{service: service, validator: validator.New()}
}

// Declare godoc
// @Summary Declare participation in a topic
// @Description With user_id the account role decides the student or teacher path; otherwise the topic declaration is submitted and student_id, when given, joins the topic
// @Tags Declarations
// @Accept json
// @Produce json
// @Param id path int true "Topic ID"
// @Param payload body dto.DeclareRequest false "Declaring party"
// @Success 200 {object} dto.DeclarationResult
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /topics/{id}/declare [post]
func (h *DeclarationHandler) Declare(c *gin.Context) {
	topicID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.DeclareRequest
	if err := bindOptionalJSON(c, &req, "invalid declaration payload"); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid declaration payload"))
		return
	}

	var result *dto.DeclarationResult
	if req.UserID != nil {
		result, err = h.service.Handle(c.Request.Context(), *req.UserID, topicID)
	} else {
		result, err = h.service.Submit(c.Request.Context(), topicID, req.StudentID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}
