package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/auth"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

func newAuthApp(t *testing.T, jwtService *auth.JWTService, extra ...fiber.Handler) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var appErr *domain.AppError
			if e, ok := err.(*domain.AppError); ok {
				appErr = e
			} else {
				return c.SendStatus(fiber.StatusInternalServerError)
			}
			return c.SendStatus(appErr.StatusCode)
		},
	})

	handlers := []fiber.Handler{Auth(jwtService)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		ownerID, err := GetOwnerID(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"owner_id": ownerID})
	})

	app.Get("/protected", handlers...)
	return app
}

func TestAuth(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", "parkeo-test", time.Hour)

	t.Run("valid token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(uuid.New(), "ana@lot.test", domain.RoleOperator)
		require.NoError(t, err)

		app := newAuthApp(t, jwtService)
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("missing header", func(t *testing.T) {
		app := newAuthApp(t, jwtService)
		req := httptest.NewRequest("GET", "/protected", nil)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		app := newAuthApp(t, jwtService)
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Token abc")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := auth.NewJWTService("other-secret", "parkeo-test", time.Hour)
		token, err := other.GenerateToken(uuid.New(), "ana@lot.test", domain.RoleAdmin)
		require.NoError(t, err)

		app := newAuthApp(t, jwtService)
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRequireWrite(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", "parkeo-test", time.Hour)

	tests := []struct {
		role       string
		wantStatus int
	}{
		{role: domain.RoleAdmin, wantStatus: fiber.StatusOK},
		{role: domain.RoleOperator, wantStatus: fiber.StatusOK},
		{role: domain.RoleViewer, wantStatus: fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, err := jwtService.GenerateToken(uuid.New(), "x@lot.test", tt.role)
			require.NoError(t, err)

			app := newAuthApp(t, jwtService, RequireWrite())
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestRequireManage(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", "parkeo-test", time.Hour)

	tests := []struct {
		role       string
		wantStatus int
	}{
		{role: domain.RoleAdmin, wantStatus: fiber.StatusOK},
		{role: domain.RoleOperator, wantStatus: fiber.StatusForbidden},
		{role: domain.RoleViewer, wantStatus: fiber.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, err := jwtService.GenerateToken(uuid.New(), "x@lot.test", tt.role)
			require.NoError(t, err)

			app := newAuthApp(t, jwtService, RequireManage())
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
