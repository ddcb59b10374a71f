package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

// RequireWrite rejects viewers. Must be chained after Auth.
func RequireWrite() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := GetRole(c)
		if err != nil {
			return err
		}

		if !domain.CanWrite(role) {
			return domain.ErrForbidden
		}

		return c.Next()
	}
}

// RequireManage restricts client and operator management to admins.
// Must be chained after Auth.
func RequireManage() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := GetRole(c)
		if err != nil {
			return err
		}

		if !domain.CanManage(role) {
			return domain.ErrForbidden
		}

		return c.Next()
	}
}
