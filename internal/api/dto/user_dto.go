package dto

import (
	"net/mail"
	"strings"
	"time"

	"github.com/spec-kit/music-collection/internal/auth"
	"github.com/spec-kit/music-collection/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate checks field bounds before the request reaches the service.
func (r UserRegisterRequest) Validate() error {
	var v validator
	v.length("username", r.Username, 3, 50)
	v.length("password", r.Password, 6, 0)
	v.maxBytes("password", r.Password, auth.MaxPasswordBytes)
	if addr, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil || addr.Address != strings.TrimSpace(r.Email) {
		v.fail("email", "must be a valid email address")
	}
	return v.err()
}

// UserLoginRequest payload for login. Accepted as form or JSON.
type UserLoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Validate requires both credentials to be present.
func (r UserLoginRequest) Validate() error {
	var v validator
	v.required("username", r.Username)
	v.required("password", r.Password)
	return v.err()
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	IsAdmin   bool        `json:"is_admin"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewUserResponse maps a domain user, dropping the password hash.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsAdmin:   u.IsAdmin(),
		CreatedAt: u.CreatedAt,
	}
}

// NewUserList maps a slice of users.
func NewUserList(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
