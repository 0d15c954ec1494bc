package auth

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/music-collection/internal/domain"
	"github.com/spec-kit/music-collection/internal/repository"
	apperrors "github.com/spec-kit/music-collection/pkg/util"
)

// UserLookup is the storage capability the resolver needs.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// Resolver turns a bearer token into the user it was issued for.
type Resolver struct {
	tokens *TokenManager
	users  UserLookup
}

// NewResolver constructs a resolver.
func NewResolver(tokens *TokenManager, users UserLookup) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve verifies token as of now and loads its subject. Invalid tokens and
// subjects that no longer exist both fail as unauthorized.
func (r *Resolver) Resolve(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	username, err := r.tokens.Verify(token, now)
	if err != nil {
		return nil, apperrors.NewUnauthorized("could not validate credentials")
	}

	user, err := r.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("could not validate credentials")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// RequireAdmin passes user through only when it holds the admin role.
func RequireAdmin(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !user.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	return user, nil
}
