package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/policy"
	"github.com/gofiber/fiber/v2"
)

// Require runs the request-level part of a permission against the current
// user. It must be mounted after JWTProtected or OptionalAuth.
func Require(p policy.Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := policy.Check(p, policy.Request{Method: c.Method(), Actor: CurrentUser(c)})
		if err == nil {
			return c.Next()
		}
		if errors.Is(err, policy.ErrNotAuthenticated) {
			return unauthorized(c, dto.MsgNotAuthenticated)
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.DetailResponse{Detail: dto.MsgPermissionDenied})
	}
}

// SuperuserRequired guards staff-only routes.
func SuperuserRequired() fiber.Handler {
	return Require(policy.IsSuperuser)
}
