package handler

import "github.com/gin-gonic/gin"

// Handlers groups the API handlers mounted under the API prefix.
type Handlers struct {
	Topics       *TopicHandler
	Declarations *DeclarationHandler
	Users        *UserHandler
	Export       *ExportHandler
}

// Register mounts the API routes on group.
func Register(group gin.IRouter, h Handlers) {
	topics := group.Group("/topics")
	topics.GET("", h.Topics.List)
	topics.POST("", h.Topics.Create)
	topics.GET("/pending", h.Topics.Pending)
	topics.GET("/supervisor/me", h.Topics.SupervisorMe)
	topics.PATCH("/approve-bulk", h.Topics.BulkApprove)
	topics.GET("/:id", h.Topics.Get)
	topics.PATCH("/:id/approve", h.Topics.Approve)
	topics.PATCH("/:id/reject", h.Topics.Reject)
	topics.POST("/:id/declare", h.Declarations.Declare)

	group.GET("/users", h.Users.List)
	group.GET("/export/students-by-topic", h.Export.StudentsByTopic)
}

// RegisterOps mounts the probe and metrics endpoints at the root.
func RegisterOps(r gin.IRouter, h *MetricsHandler) {
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", h.Prometheus)
}
