package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/parking"
)

// ParkingService interface for session lifecycle operations
type ParkingService interface {
	OpenSession(ctx context.Context, ownerID uuid.UUID, input parking.EntryInput) (*domain.ParkingSession, error)
	CloseSession(ctx context.Context, sessionID, ownerID uuid.UUID, exitTime time.Time) (*domain.ParkingSession, error)
	CloseSessionByPlate(ctx context.Context, ownerID uuid.UUID, plate string, exitTime time.Time) (*domain.ParkingSession, error)
	CancelSession(ctx context.Context, sessionID, ownerID uuid.UUID) (*domain.ParkingSession, error)
	GetSession(ctx context.Context, sessionID, ownerID uuid.UUID) (*domain.ParkingSession, error)
	ListActive(ctx context.Context, ownerID uuid.UUID) ([]domain.ParkingSession, error)
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.ParkingSession, error)
	ListByPlate(ctx context.Context, ownerID uuid.UUID, plate string) ([]domain.ParkingSession, error)
}

type ParkingHandler struct {
	service ParkingService
}

func NewParkingHandler(service ParkingService) *ParkingHandler {
	return &ParkingHandler{service: service}
}

type exitRequest struct {
	Plate    string     `json:"plate"`
	ExitTime *time.Time `json:"exit_time"`
}

// Enter POST /v1/sessions - register a vehicle entry
func (h *ParkingHandler) Enter(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	var input parking.EntryInput
	if err := c.BodyParser(&input); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	session, err := h.service.OpenSession(c.Context(), ownerID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// Exit POST /v1/sessions/exit - close the active session for a plate
func (h *ParkingHandler) Exit(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	var req exitRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if req.Plate == "" {
		return domain.ErrValidationFailed.WithError(errors.New("plate is required"))
	}

	exitTime := time.Now()
	if req.ExitTime != nil {
		exitTime = *req.ExitTime
	}

	session, err := h.service.CloseSessionByPlate(c.Context(), ownerID, req.Plate, exitTime)
	if err != nil {
		return err
	}

	return c.JSON(session)
}

// Close POST /v1/sessions/:id/close - close a specific session
func (h *ParkingHandler) Close(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid session id"))
	}

	var req exitRequest
	_ = c.BodyParser(&req)

	exitTime := time.Now()
	if req.ExitTime != nil {
		exitTime = *req.ExitTime
	}

	session, err := h.service.CloseSession(c.Context(), sessionID, ownerID, exitTime)
	if err != nil {
		return err
	}

	return c.JSON(session)
}

// Cancel POST /v1/sessions/:id/cancel - void a mistaken entry
func (h *ParkingHandler) Cancel(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid session id"))
	}

	session, err := h.service.CancelSession(c.Context(), sessionID, ownerID)
	if err != nil {
		return err
	}

	return c.JSON(session)
}

// Get GET /v1/sessions/:id
func (h *ParkingHandler) Get(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid session id"))
	}

	session, err := h.service.GetSession(c.Context(), sessionID, ownerID)
	if err != nil {
		return err
	}

	return c.JSON(session)
}

// List GET /v1/sessions - all sessions, or only open ones with ?active=true
func (h *ParkingHandler) List(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	var sessions []domain.ParkingSession
	switch {
	case c.Query("active") == "true":
		sessions, err = h.service.ListActive(c.Context(), ownerID)
	case c.Query("plate") != "":
		sessions, err = h.service.ListByPlate(c.Context(), ownerID, c.Query("plate"))
	default:
		sessions, err = h.service.ListAll(c.Context(), ownerID)
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"sessions": sessions, "count": len(sessions)})
}
