package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/client"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

// ClientService interface for billing client management
type ClientService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input client.Input) (*domain.Client, error)
	Get(ctx context.Context, clientID, ownerID uuid.UUID) (*domain.Client, error)
	ListActive(ctx context.Context, ownerID uuid.UUID) ([]domain.Client, error)
	Update(ctx context.Context, clientID, ownerID uuid.UUID, input client.Input) (*domain.Client, error)
	Deactivate(ctx context.Context, clientID, ownerID uuid.UUID) error
}

type ClientHandler struct {
	service ClientService
}

func NewClientHandler(service ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// Create POST /v1/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	var input client.Input
	if err := c.BodyParser(&input); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	created, err := h.service.Create(c.Context(), ownerID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// Get GET /v1/clients/:id
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid client id"))
	}

	found, err := h.service.Get(c.Context(), clientID, ownerID)
	if err != nil {
		return err
	}

	return c.JSON(found)
}

// List GET /v1/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	clients, err := h.service.ListActive(c.Context(), ownerID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"clients": clients, "count": len(clients)})
}

// Update PUT /v1/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid client id"))
	}

	var input client.Input
	if err := c.BodyParser(&input); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	updated, err := h.service.Update(c.Context(), clientID, ownerID, input)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

// Delete DELETE /v1/clients/:id - soft delete
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	clientID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid client id"))
	}

	if err := h.service.Deactivate(c.Context(), clientID, ownerID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
