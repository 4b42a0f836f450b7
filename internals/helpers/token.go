// file: internals/helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetUserIDFromToken reads the user id stored by the auth middleware in
// c.Locals("user_id"). Returns 401 when missing, 400 when malformed.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals("user_id")
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User is not logged in")
	}

	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User is not logged in")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User is not logged in")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid user ID in token")
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid user ID in token")
	}
}
