package dto

import (
	"time"

	"github.com/noah-isme/thesis-api/internal/models"
)

// DeclareRequest selects the declaration path: user_id dispatches on the
// account role, otherwise the topic-level declaration is submitted with an
// optional student joining the topic.
type DeclareRequest struct {
	StudentID *int64 `json:"student_id" validate:"omitempty,min=1"`
	UserID    *int64 `json:"user_id" validate:"omitempty,min=1"`
}

// DeclarationResult summarises a submitted declaration.
type DeclarationResult struct {
	Message           string                   `json:"message"`
	DeclarationID     int64                    `json:"declaration_id"`
	DeclarationStatus models.DeclarationStatus `json:"declaration_status"`
	SubmissionDate    time.Time                `json:"submission_date"`
	TopicID           int64                    `json:"topic_id"`
	StudentID         *int64                   `json:"student_id,omitempty"`
	Role              string                   `json:"role,omitempty"`
}
