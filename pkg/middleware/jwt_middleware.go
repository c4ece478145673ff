package middleware

import (
	"github.com/goaltracker/goaltracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected rejects requests that do not carry a valid access token in
// the Authorization header or the access_token cookie.
func JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}
