package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const ownerKey = "owner_id"

// JWTMiddleware validates bearer tokens and stores owner_id in locals.
func JWTMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := parseClaims(secretBytes, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		c.Locals(ownerKey, claims.OwnerID)
		return c.Next()
	}
}

// OptionalOwner resolves the owner from a bearer token when one is sent and
// falls back to AnonymousOwner otherwise. Bad tokens are still rejected.
func OptionalOwner(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			c.Locals(ownerKey, AnonymousOwner)
			return c.Next()
		}
		claims, err := parseClaims(secretBytes, token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		c.Locals(ownerKey, claims.OwnerID)
		return c.Next()
	}
}

func OwnerID(c *fiber.Ctx) string {
	if id, ok := c.Locals(ownerKey).(string); ok && id != "" {
		return id
	}
	return AnonymousOwner
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
