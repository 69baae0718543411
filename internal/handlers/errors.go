package handlers

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/eventhub-backend/internal/validators"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError maps service errors onto HTTP responses. Anything it does not
// recognize is logged, reported to Sentry and hidden behind a 500.
func respondError(c *fiber.Ctx, err error) error {
	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(verr.Fields)
	}

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return detail(c, fiber.StatusUnauthorized, dto.MsgInvalidCredentials)
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrTokenBlacklisted):
		return detail(c, fiber.StatusUnauthorized, dto.MsgTokenNotValid)
	case errors.Is(err, services.ErrNotAuthenticated):
		return detail(c, fiber.StatusUnauthorized, dto.MsgNotAuthenticated)
	case errors.Is(err, services.ErrPermissionDenied):
		return detail(c, fiber.StatusForbidden, dto.MsgPermissionDenied)
	case errors.Is(err, services.ErrNotOpenForAttendance):
		return detail(c, fiber.StatusBadRequest, dto.MsgNotOpenForAttendance)
	case errors.Is(err, services.ErrNotFound):
		return detail(c, fiber.StatusNotFound, dto.MsgNotFound)
	}

	return internalError(c, err)
}

func internalError(c *fiber.Ctx, err error) error {
	slog.Error("unhandled server error",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", requestID(c),
		"error", err.Error(),
	)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return detail(c, fiber.StatusInternalServerError, dto.MsgInternalError)
}

// ErrorHandler is the app-wide fallback for errors returned by handlers and
// middleware. Client errors keep their message; server errors do not.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		if fe.Code == fiber.StatusNotFound {
			return detail(c, fe.Code, dto.MsgNotFound)
		}
		return detail(c, fe.Code, fe.Message)
	}
	return respondError(c, err)
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.DetailResponse{Detail: msg})
}

func badBody(c *fiber.Ctx) error {
	return detail(c, fiber.StatusBadRequest, dto.MsgInvalidBody)
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

// pathID parses the :id parameter. A malformed id cannot match any row, so it
// is reported as not found.
func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, services.ErrNotFound
	}
	return id, nil
}
