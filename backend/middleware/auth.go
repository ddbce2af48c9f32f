package middleware

import (
	"github.com/gofiber/fiber/v2"

	"mundokids/backend/config"
	"mundokids/backend/utils"
)

// AuthMiddleware rejects requests without a valid bearer token. Role checks
// happen in the controllers, where the error messages belong to the operation.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_, _, err := utils.ExtractUserFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Not authorized, token failed")
		}
		return c.Next()
	}
}
