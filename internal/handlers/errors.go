package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"storefront/internal/services"
)

// ErrorHandler returns a fiber.ErrorHandler that maps service errors to status
// codes and renders {"message": "..."}. Unexpected errors are logged and
// reported as a generic 500.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := resolveError(err)
		if code == fiber.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("unhandled error")
		}
		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}

func resolveError(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	switch {
	case errors.Is(err, services.ErrMissingFields):
		return fiber.StatusBadRequest, "Missing required fields"
	case errors.Is(err, services.ErrInvalidBody):
		return fiber.StatusBadRequest, "Invalid request body"
	case errors.Is(err, services.ErrUsernameTaken):
		return fiber.StatusBadRequest, "Username already exists"
	case errors.Is(err, services.ErrInvalidProduct):
		return fiber.StatusBadRequest, "Invalid product"
	case errors.Is(err, services.ErrProductAlreadyInOrder):
		return fiber.StatusBadRequest, "Product already in order"
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized, "Invalid token."
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, "Forbidden"
	case errors.Is(err, services.ErrOrderNotFound):
		return fiber.StatusNotFound, "Order not found"
	case errors.Is(err, services.ErrProductNotFound):
		return fiber.StatusNotFound, "Product not found"
	}
	return fiber.StatusInternalServerError, "Internal server error"
}
