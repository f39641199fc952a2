package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/thesis-api/internal/dto"
	"github.com/noah-isme/thesis-api/internal/models"
	appErrors "github.com/noah-isme/thesis-api/pkg/errors"
)

type accountLister interface {
	List(ctx context.Context) ([]models.Account, error)
}

// UserService exposes the account directory.
type UserService struct {
	repo   accountLister
	logger *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo accountLister, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, logger: logger}
}

// List returns every account as {user_id, name, role}.
func (s *UserService) List(ctx context.Context) ([]dto.UserSummary, error) {
	accounts, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	result := make([]dto.UserSummary, 0, len(accounts))
	for _, a := range accounts {
		result = append(result, dto.UserSummary{UserID: a.ID, Name: a.FullName, Role: a.Role})
	}
	return result, nil
}
