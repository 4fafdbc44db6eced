package handler

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"skill-compass/internal/delivery/http/middleware"
)

// userIDFromContext reads the authenticated user id placed by the auth
// middleware.
func userIDFromContext(c fiber.Ctx) (string, bool) {
	value := c.Locals(middleware.CtxUserIDKey)
	if id, ok := value.(uuid.UUID); ok && id != uuid.Nil {
		return id.String(), true
	}
	if id, ok := value.(string); ok && id != "" {
		return id, true
	}
	return "", false
}
