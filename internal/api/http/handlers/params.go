package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/music-collection/internal/auth"
	"github.com/spec-kit/music-collection/internal/domain"
	apperrors "github.com/spec-kit/music-collection/pkg/util"
)

// bodyValidator is implemented by every request DTO.
type bodyValidator interface {
	Validate() error
}

func parseBody(c *fiber.Ctx, out bodyValidator) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return out.Validate()
}

func principal(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return user, nil
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

// ownerQuery parses the optional owner_id filter of admin listings.
func ownerQuery(c *fiber.Ctx) (int64, error) {
	raw := c.Query("owner_id")
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid owner_id", map[string]any{"owner_id": raw})
	}
	return id, nil
}
