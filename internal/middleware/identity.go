package middleware

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/devconnector/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const identityKey = "user"

// CurrentUser returns the identity attached by AuthRequired.
func CurrentUser(c *fiber.Ctx) (*services.TokenUser, bool) {
	identity, ok := c.Locals(identityKey).(*services.TokenUser)
	return identity, ok && identity != nil
}

// CurrentUserID extracts the authenticated user's UUID from the request.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	identity, ok := CurrentUser(c)
	if !ok {
		return uuid.Nil, errors.New("no identity in context")
	}
	return uuid.Parse(identity.ID)
}
