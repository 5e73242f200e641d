package middleware

import (
	"errors"
	"log"
	"strings"

	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DealerProof restores dealer access from an "Authorization: Bearer <proof>"
// header. Requests without the header pass through unchanged, as do requests
// carrying a proof that was logged out; a malformed or invalid proof is
// rejected. Must run after Session.
func DealerProof(auth *services.DealerAuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		sess := CurrentSession(c)
		if sess == nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Session is not available",
			})
		}
		if err := auth.Restore(sess, parts[1]); err != nil {
			if errors.Is(err, services.ErrProofRevoked) {
				return c.Next()
			}
			log.Printf("Dealer proof rejected for session %s: %v", sess.ID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}
		return c.Next()
	}
}
