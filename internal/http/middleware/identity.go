package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"theforum/internal/model"
)

const (
	// UserIDHeader carries the authenticated user id set by the auth proxy.
	UserIDHeader = "X-User-ID"
	// UserNameHeader carries the user's display name.
	UserNameHeader = "X-User-Name"
	// IdentityLocalKey is the key used to store the *model.Identity in Fiber's context locals.
	IdentityLocalKey = "identity"
)

// Identity reads the trusted identity headers and stores the caller in locals.
// Requests without a user id carry no identity; handlers decide whether that is allowed.
func Identity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(UserIDHeader))
		if id != "" {
			c.Locals(IdentityLocalKey, &model.Identity{
				ID:          id,
				DisplayName: strings.TrimSpace(c.Get(UserNameHeader)),
			})
		}
		return c.Next()
	}
}

// IdentityFromCtx returns the caller identity, or nil when unauthenticated.
func IdentityFromCtx(c *fiber.Ctx) *model.Identity {
	id, _ := c.Locals(IdentityLocalKey).(*model.Identity)
	return id
}
