package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/travel-crm/internal/api/dto"
	"github.com/spec-kit/travel-crm/internal/auth"
	"github.com/spec-kit/travel-crm/internal/domain"
	apperrors "github.com/spec-kit/travel-crm/pkg/util/errorutil"
)

func actorFromContext(c *fiber.Ctx) (*domain.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Actor(), nil
}

// parseBody decodes the JSON body into req and runs its validation tags.
func parseBody(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}

func parseFilter(c *fiber.Ctx) (dto.FilterQuery, error) {
	var q dto.FilterQuery
	if err := c.QueryParser(&q); err != nil {
		return q, apperrors.NewValidationError("invalid query", nil)
	}
	return q, nil
}
