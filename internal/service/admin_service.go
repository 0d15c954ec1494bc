package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/music-collection/internal/domain"
	"github.com/spec-kit/music-collection/internal/events"
	"github.com/spec-kit/music-collection/internal/repository"
	apperrors "github.com/spec-kit/music-collection/pkg/util"
)

// AdminService implements account management available to admins only.
// Callers are expected to have passed auth.RequireAdmin.
type AdminService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAdminService constructs the service.
func NewAdminService(users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{users: users, dispatcher: dispatcher, logger: logger}
}

// ListUsers returns every account.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// DeleteUser removes an account together with everything it owns.
func (s *AdminService) DeleteUser(ctx context.Context, actor *domain.User, userID int64) (*domain.User, error) {
	user, err := s.users.Delete(ctx, userID)
	if err != nil {
		return nil, userError(err)
	}
	s.logger.Info("user deleted", zap.Int64("user_id", user.ID), zap.Int64("actor_id", actor.ID))
	publish(ctx, s.dispatcher, s.logger, events.EventUserDeleted, user, &actor.ID)
	return user, nil
}

// Promote grants the admin role.
func (s *AdminService) Promote(ctx context.Context, actor *domain.User, userID int64) (*domain.User, error) {
	user, err := s.users.SetRole(ctx, userID, domain.RoleAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrRoleUnchanged) {
			return nil, apperrors.NewConflict("user is already an admin", nil)
		}
		return nil, userError(err)
	}
	publish(ctx, s.dispatcher, s.logger, events.EventUserPromoted, user, &actor.ID)
	return user, nil
}

// Demote revokes the admin role.
func (s *AdminService) Demote(ctx context.Context, actor *domain.User, userID int64) (*domain.User, error) {
	user, err := s.users.SetRole(ctx, userID, domain.RoleUser)
	if err != nil {
		if errors.Is(err, repository.ErrRoleUnchanged) {
			return nil, apperrors.NewConflict("user is not an admin", nil)
		}
		return nil, userError(err)
	}
	publish(ctx, s.dispatcher, s.logger, events.EventUserDemoted, user, &actor.ID)
	return user, nil
}

func userError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("user", nil)
	}
	return apperrors.NewInternalError(err)
}
