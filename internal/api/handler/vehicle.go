package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/parking"
)

// VehicleService interface for vehicle record management
type VehicleService interface {
	UpdateVehicle(ctx context.Context, ownerID uuid.UUID, plate string, input parking.VehicleInput) (*domain.Vehicle, error)
	DeactivateVehicle(ctx context.Context, ownerID uuid.UUID, plate string) error
}

type VehicleHandler struct {
	service VehicleService
}

func NewVehicleHandler(service VehicleService) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// Update PUT /v1/vehicles/:plate - fill in brand, color or owner details
func (h *VehicleHandler) Update(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	plate := c.Params("plate")
	if plate == "" {
		return domain.ErrValidationFailed.WithError(errors.New("plate is required"))
	}

	var input parking.VehicleInput
	if err := c.BodyParser(&input); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	vehicle, err := h.service.UpdateVehicle(c.Context(), ownerID, plate, input)
	if err != nil {
		return err
	}

	return c.JSON(vehicle)
}

// Deactivate DELETE /v1/vehicles/:plate - block a plate from entering
func (h *VehicleHandler) Deactivate(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	plate := c.Params("plate")
	if plate == "" {
		return domain.ErrValidationFailed.WithError(errors.New("plate is required"))
	}

	if err := h.service.DeactivateVehicle(c.Context(), ownerID, plate); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
