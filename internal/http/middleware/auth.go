package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"filehub/internal/auth"
)

// OwnerIDLocalKey is the key used to store the authenticated owner identity
// in Fiber's context locals.
const OwnerIDLocalKey = "owner_id"

// Auth requires a valid Bearer token on every request and stores the owner
// identity it resolves to in context locals. Downstream handlers treat that
// identity as an opaque, pre-validated string.
func Auth(verifier auth.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		ownerID, err := verifier.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(OwnerIDLocalKey, ownerID)
		return c.Next()
	}
}

// OwnerIDFromCtx extracts the owner identity stored by Auth. It returns an
// empty string when the request was not authenticated.
func OwnerIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(OwnerIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
