package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/models"
)

// idParam reads :id. Values that are not integers or cannot name a row are
// reported as absent so they answer 404 like any unknown id.
func idParam(c *fiber.Ctx) (int, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || !models.ValidID(id) {
		return 0, false
	}
	return id, true
}
