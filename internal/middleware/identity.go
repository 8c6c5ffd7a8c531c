package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/internal/models"
	"storefront/internal/services"
)

type userKey struct{}

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// ResolveUser attaches the caller's user to the request when a bearer token is
// presented. Requests without one continue as guests; an unverifiable token
// ends the request with services.ErrInvalidToken.
func ResolveUser(authenticator Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok {
			return c.Next()
		}

		user, err := authenticator.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}

		c.Locals(userKey{}, user)
		return c.Next()
	}
}

// CurrentUser returns the user attached by ResolveUser, or nil for guests.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey{}).(*models.User)
	return user
}

// RequireUser rejects guests with services.ErrUnauthenticated.
func RequireUser(c *fiber.Ctx) error {
	if CurrentUser(c) == nil {
		return services.ErrUnauthenticated
	}
	return c.Next()
}
