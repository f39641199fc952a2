package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/thesis-api/internal/service"
	"github.com/noah-isme/thesis-api/pkg/response"
)

type exportService interface {
	StudentsByTopic(ctx context.Context, format string) (*service.ExportFile, error)
}

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportService) *ExportHandler {
	return &ExportHandler{service: service}
}

// StudentsByTopic godoc
// @Summary Export students grouped by topic
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "xlsx, csv or pdf" default(xlsx)
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Failure 500 {object} response.ErrorBody
// @Router /export/students-by-topic [get]
func (h *ExportHandler) StudentsByTopic(c *gin.Context) {
	file, err := h.service.StudentsByTopic(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}
