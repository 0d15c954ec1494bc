package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/music-collection/pkg/util"
)

// RequireUser ensures a principal was resolved by AuthMiddleware.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdminRole ensures the resolved principal is an admin.
func RequireAdminRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if _, err := RequireAdmin(principal); err != nil {
			return err
		}
		return c.Next()
	}
}
