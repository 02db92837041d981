package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	// UserIDHeader carries the authenticated user's id, set by the gateway in front of the API.
	UserIDHeader = "X-User-ID"
	// UserIDLocalKey is the key used to store the user id in Fiber's context locals.
	UserIDLocalKey = "user_id"
)

// RequireUser rejects requests without a user id header and stores the id in locals.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(UserIDHeader))
		if id == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "user id is required")
		}
		c.Locals(UserIDLocalKey, id)
		return c.Next()
	}
}

// UserID returns the id stored by RequireUser, or "".
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDLocalKey).(string)
	return id
}
