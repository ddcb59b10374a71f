package handler

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealthChecker struct {
	err error
}

func (s stubHealthChecker) HealthCheck(ctx context.Context) error {
	return s.err
}

func TestHealthHandler_Health(t *testing.T) {
	app := fiber.New()
	h := NewHealthHandler(nil)
	app.Get("/health", h.Health)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Run("database reachable", func(t *testing.T) {
		app := fiber.New()
		h := NewHealthHandler(stubHealthChecker{})
		app.Get("/ready", h.Ready)

		resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("database down", func(t *testing.T) {
		app := fiber.New()
		h := NewHealthHandler(stubHealthChecker{err: errors.New("connection refused")})
		app.Get("/ready", h.Ready)

		resp, err := app.Test(httptest.NewRequest("GET", "/ready", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	})
}
