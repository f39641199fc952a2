package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-api/internal/dto"
	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
	"github.com/noah-isme/thesis-api/pkg/response"
)

type topicService interface {
	List(ctx context.Context, supervisorID *int64) ([]dto.TopicResponse, error)
	Get(ctx context.Context, id int64) (*dto.TopicResponse, error)
	ListPending(ctx context.Context) (*dto.PendingTopicsResponse, error)
	Supervisor(ctx context.Context, accountID int64) (*dto.Supervisor, error)
	Create(ctx context.Context, accountID *int64, req dto.CreateTopicRequest) (*dto.TopicResponse, error)
	Approve(ctx context.Context, id int64) (*dto.TopicResponse, error)
	Reject(ctx context.Context, id int64, reason string) (*dto.TopicResponse, error)
	BulkApprove(ctx context.Context, ids []int64) (int64, error)
}

// TopicHandler exposes topic browsing and committee decisions.
type TopicHandler struct {
	service topicService
}

// NewTopicHandler constructs the handler.
func NewTopicHandler(service topicService) *TopicHandler {
	return &TopicHandler{service: service}
}

// List godoc
// @Summary List topics
// @Description List every topic, or only those of one supervisor
// @Tags Topics
// @Produce json
// @Param supervisor_id query int false "Supervisor (teacher) ID"
// @Success 200 {array} dto.TopicResponse
// @Failure 400 {object} response.ErrorBody
// @Router /topics [get]
func (h *TopicHandler) List(c *gin.Context) {
	supervisorID, err := optionalIDQuery(c, "supervisor_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	topics, err := h.service.List(c.Request.Context(), supervisorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if topics == nil {
		topics = []dto.TopicResponse{}
	}
	response.JSON(c, http.StatusOK, topics)
}

// Pending godoc
// @Summary List pending topics
// @Tags Topics
// @Produce json
// @Success 200 {object} dto.PendingTopicsResponse
// @Failure 500 {object} response.ErrorBody
// @Router /topics/pending [get]
func (h *TopicHandler) Pending(c *gin.Context) {
	result, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// SupervisorMe godoc
// @Summary Current supervisor
// @Description Teacher profile of the caller identified by the X-User-ID header
// @Tags Topics
// @Produce json
// @Param X-User-ID header int true "Account ID"
// @Success 200 {object} dto.Supervisor
// @Failure 404 {object} response.ErrorBody
// @Router /topics/supervisor/me [get]
func (h *TopicHandler) SupervisorMe(c *gin.Context) {
	accountID := accountFromContext(c)
	if accountID == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "No teacher found"))
		return
	}
	supervisor, err := h.service.Supervisor(c.Request.Context(), *accountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, supervisor)
}

// Get godoc
// @Summary Get topic
// @Tags Topics
// @Produce json
// @Param id path int true "Topic ID"
// @Success 200 {object} dto.TopicResponse
// @Failure 404 {object} response.ErrorBody
// @Router /topics/{id} [get]
func (h *TopicHandler) Get(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	topic, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, topic)
}

// Create godoc
// @Summary Create topic
// @Description Creates a pending topic owned by the caller's teacher profile, if any
// @Tags Topics
// @Accept json
// @Produce json
// @Param X-User-ID header int false "Account ID"
// @Param payload body dto.CreateTopicRequest true "Topic payload"
// @Success 201 {object} dto.TopicResponse
// @Failure 400 {object} response.ErrorBody
// @Router /topics [post]
func (h *TopicHandler) Create(c *gin.Context) {
	var req dto.CreateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid topic payload"))
		return
	}
	topic, err := h.service.Create(c.Request.Context(), accountFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, topic)
}

// Approve godoc
// @Summary Approve topic
// @Tags Topics
// @Produce json
// @Param id path int true "Topic ID"
// @Success 200 {object} dto.TopicActionResponse
// @Failure 404 {object} response.ErrorBody
// @Router /topics/{id}/approve [patch]
func (h *TopicHandler) Approve(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	topic, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.TopicActionResponse{Message: "Topic approved successfully", Topic: *topic})
}

// Reject godoc
// @Summary Reject topic
// @Tags Topics
// @Accept json
// @Produce json
// @Param id path int true "Topic ID"
// @Param payload body dto.RejectTopicRequest true "Rejection reason"
// @Success 200 {object} dto.TopicActionResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /topics/{id}/reject [patch]
func (h *TopicHandler) Reject(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.RejectTopicRequest
	if err := bindOptionalJSON(c, &req, "invalid rejection payload"); err != nil {
		response.Error(c, err)
		return
	}
	topic, err := h.service.Reject(c.Request.Context(), id, req.RejectionReason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.TopicActionResponse{Message: "Topic rejected successfully", Topic: *topic})
}

// BulkApprove godoc
// @Summary Approve many topics
// @Tags Topics
// @Accept json
// @Produce json
// @Param payload body dto.BulkApproveRequest true "Topic IDs"
// @Success 200 {object} dto.BulkApproveResponse
// @Failure 400 {object} response.ErrorBody
// @Router /topics/approve-bulk [patch]
func (h *TopicHandler) BulkApprove(c *gin.Context) {
	var req dto.BulkApproveRequest
	if err := bindOptionalJSON(c, &req, "invalid bulk payload"); err != nil {
		response.Error(c, err)
		return
	}
	count, err := h.service.BulkApprove(c.Request.Context(), req.TopicIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.BulkApproveResponse{
		Message: fmt.Sprintf("%d topics approved successfully", count),
		Count:   count,
	})
}
