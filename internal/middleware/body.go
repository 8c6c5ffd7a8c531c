package middleware

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
)

var validate = validator.New()

// RequireBody rejects requests whose JSON body lacks any of fields.
func RequireBody(fields ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := CheckBody(c, fields...); err != nil {
			return err
		}
		return c.Next()
	}
}

// CheckBody reports services.ErrMissingFields unless the body is a JSON object
// in which every field is present and non-zero (null, "", 0 and false all
// count as missing).
func CheckBody(c *fiber.Ctx, fields ...string) error {
	var body map[string]interface{}
	if err := json.Unmarshal(c.Body(), &body); err != nil || body == nil {
		return services.ErrMissingFields
	}

	for _, field := range fields {
		value, ok := body[field]
		if !ok || value == nil {
			return services.ErrMissingFields
		}
		if err := validate.Var(value, "required"); err != nil {
			return services.ErrMissingFields
		}
	}
	return nil
}
