package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/music-collection/internal/auth"
	"github.com/spec-kit/music-collection/internal/config"
	"github.com/spec-kit/music-collection/internal/domain"
	"github.com/spec-kit/music-collection/internal/events"
	"github.com/spec-kit/music-collection/internal/repository"
	apperrors "github.com/spec-kit/music-collection/pkg/util"
)

// invalidCredentialsMessage is shared by every login failure.
const invalidCredentialsMessage = "incorrect username or password"

// LoginResult carries an issued bearer token.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}

// AuthService coordinates registration and login flows.
type AuthService struct {
	users          repository.UserRepository
	tokenMgr       *auth.TokenManager
	hasher         *auth.PasswordHasher
	dispatcher     events.Dispatcher
	logger         *zap.Logger
	adminUsername  string
	adminBootstrap bool
	now            func() time.Time
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:          deps.UserRepo,
		tokenMgr:       auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.AccessTokenTTL()),
		hasher:         auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		dispatcher:     deps.Dispatcher,
		logger:         logger,
		adminUsername:  cfg.Auth.AdminUsername,
		adminBootstrap: cfg.Auth.AdminBootstrap,
		now:            time.Now,
	}
}

// Register creates a new account. The configured admin username is created
// with the admin role when bootstrap is enabled.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}
	if s.adminBootstrap && s.adminUsername != "" && username == s.adminUsername {
		user.Role = domain.RoleAdmin
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, apperrors.NewConflict("username already registered", map[string]any{"field": "username"})
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, apperrors.NewConflict("email already registered", map[string]any{"field": "email"})
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	if user.IsAdmin() {
		s.logger.Info("admin account bootstrapped", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	}
	s.publishEvent(ctx, events.EventUserRegistered, user, nil)
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown usernames and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorized(invalidCredentialsMessage)
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.upgradeHash(ctx, user, password)
	}

	token, exp, err := s.tokenMgr.Issue(user.Username, s.now())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) upgradeHash(ctx context.Context, user *domain.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		s.logger.Warn("password hash upgrade failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}
	user.PasswordHash = hash
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) publishEvent(ctx context.Context, eventType events.EventType, user *domain.User, actorID *int64) {
	publish(ctx, s.dispatcher, s.logger, eventType, user, actorID)
}

func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, eventType events.EventType, user *domain.User, actorID *int64) {
	if dispatcher == nil {
		return
	}
	err := dispatcher.Publish(ctx, events.Event{
		Type:    eventType,
		UserID:  user.ID,
		ActorID: actorID,
		Payload: events.UserPayload{Username: user.Username, Role: user.Role},
	})
	if err != nil {
		logger.Warn("event publish failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
