package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/services"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const currentUserKey = "current_user"

// JWTProtected requires a valid, unrevoked access token and stores the
// resolved user for CurrentUser.
func JWTProtected(tokens *services.TokenService, auth *services.AuthService) fiber.Handler {
	return jwtware.New(jwtConfig(tokens, auth))
}

// OptionalAuth resolves the user when an Authorization header is sent and
// lets anonymous requests through otherwise. A bad token is still rejected.
func OptionalAuth(tokens *services.TokenService, auth *services.AuthService) fiber.Handler {
	cfg := jwtConfig(tokens, auth)
	cfg.Filter = func(c *fiber.Ctx) bool {
		return c.Get(fiber.HeaderAuthorization) == ""
	}
	return jwtware.New(cfg)
}

func jwtConfig(tokens *services.TokenService, auth *services.AuthService) jwtware.Config {
	return jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: tokens.SigningKey()},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return unauthorized(c, dto.MsgTokenNotValid)
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return unauthorized(c, dto.MsgTokenNotValid)
			}

			user, err := auth.Authenticate(c.UserContext(), claims)
			if err != nil {
				if errors.Is(err, services.ErrInvalidToken) {
					return unauthorized(c, dto.MsgTokenNotValid)
				}
				return err
			}

			c.Locals(currentUserKey, user)
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) && c.Get(fiber.HeaderAuthorization) == "" {
				return unauthorized(c, dto.MsgNotAuthenticated)
			}
			return unauthorized(c, dto.MsgTokenNotValid)
		},
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(currentUserKey).(*models.User); ok {
		return user
	}
	return nil
}

func unauthorized(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.DetailResponse{Detail: detail})
}
