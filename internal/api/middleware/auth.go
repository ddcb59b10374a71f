package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/auth"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

const (
	// LocalOwnerID is the key to retrieve the account id from context
	LocalOwnerID = "owner_id"
	// LocalRole is the key to retrieve the operator role from context
	LocalRole = "role"
	// LocalClaims is the key to retrieve the full claims from context
	LocalClaims = "claims"
)

// Auth creates an authentication middleware using operator JWTs. The
// authenticated operator's id is the account every query is scoped by.
func Auth(jwtService *auth.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearerToken(c)
		if token == "" {
			return domain.ErrUnauthorized
		}

		claims, err := jwtService.ValidateToken(c.Context(), token)
		if err != nil {
			// Don't reveal whether the token was expired or malformed
			return domain.ErrUnauthorized
		}

		if !domain.IsValidRole(claims.Role) {
			return domain.ErrUnauthorized
		}

		c.Locals(LocalOwnerID, claims.OperatorID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalClaims, claims)

		return c.Next()
	}
}

// extractBearerToken extracts token from Authorization header
func extractBearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}

	// Expected format: "Bearer <token>"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// GetOwnerID retrieves the account id from Fiber context
func GetOwnerID(c *fiber.Ctx) (uuid.UUID, error) {
	ownerID, ok := c.Locals(LocalOwnerID).(uuid.UUID)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return ownerID, nil
}

// GetRole retrieves the operator role from Fiber context
func GetRole(c *fiber.Ctx) (string, error) {
	role, ok := c.Locals(LocalRole).(string)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return role, nil
}
