package dto

import "github.com/noah-isme/thesis-api/internal/models"

// UserSummary is the minimal account view used by the frontend user picker.
type UserSummary struct {
	UserID int64           `json:"user_id"`
	Name   string          `json:"name"`
	Role   models.UserRole `json:"role"`
}
