package handler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/invoice"
)

// InvoiceService interface for invoice operations
type InvoiceService interface {
	Derive(ctx context.Context, sessionID, ownerID uuid.UUID, notes string) (*domain.Invoice, error)
	Get(ctx context.Context, invoiceID, ownerID uuid.UUID) (*domain.Invoice, error)
	GetBySession(ctx context.Context, sessionID, ownerID uuid.UUID) (*domain.Invoice, error)
	MarkPaid(ctx context.Context, invoiceID, ownerID uuid.UUID, paymentMethod string) (*domain.Invoice, error)
	Cancel(ctx context.Context, invoiceID, ownerID uuid.UUID) (*domain.Invoice, error)
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Invoice, error)
	ListByClient(ctx context.Context, clientID, ownerID uuid.UUID) ([]domain.Invoice, error)
	ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.Invoice, error)
}

type InvoiceHandler struct {
	service  InvoiceService
	renderer invoice.Renderer
}

func NewInvoiceHandler(service InvoiceService, renderer invoice.Renderer) *InvoiceHandler {
	return &InvoiceHandler{service: service, renderer: renderer}
}

type deriveRequest struct {
	SessionID uuid.UUID `json:"session_id"`
	Notes     string    `json:"notes"`
}

type payRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// Derive POST /v1/invoices - derive an invoice from a completed session
func (h *InvoiceHandler) Derive(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	var req deriveRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if req.SessionID == uuid.Nil {
		return domain.ErrValidationFailed.WithError(errors.New("session_id is required"))
	}

	invoice, err := h.service.Derive(c.Context(), req.SessionID, ownerID, req.Notes)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// Get GET /v1/invoices/:id
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid invoice id"))
	}

	invoice, err := h.service.Get(c.Context(), invoiceID, ownerID)
	if err != nil {
		return err
	}

	return c.JSON(invoice)
}

// Pay POST /v1/invoices/:id/pay - settle a pending invoice
func (h *InvoiceHandler) Pay(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid invoice id"))
	}

	var req payRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	invoice, err := h.service.MarkPaid(c.Context(), invoiceID, ownerID, req.PaymentMethod)
	if err != nil {
		return err
	}

	return c.JSON(invoice)
}

// Cancel POST /v1/invoices/:id/cancel - void a pending invoice
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid invoice id"))
	}

	invoice, err := h.service.Cancel(c.Context(), invoiceID, ownerID)
	if err != nil {
		return err
	}

	return c.JSON(invoice)
}

// Receipt GET /v1/invoices/:id/receipt - download the rendered invoice
func (h *InvoiceHandler) Receipt(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	invoiceID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("invalid invoice id"))
	}

	inv, err := h.service.Get(c.Context(), invoiceID, ownerID)
	if err != nil {
		return err
	}

	body, err := h.renderer.Render(inv)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	c.Set(fiber.HeaderContentType, h.renderer.ContentType())
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s.%s", inv.InvoiceNumber, h.renderer.FileExtension()))
	return c.Send(body)
}

// List GET /v1/invoices - optionally filtered by client or date range
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	var invoices []domain.Invoice
	switch {
	case c.Query("client_id") != "":
		clientID, parseErr := uuid.Parse(c.Query("client_id"))
		if parseErr != nil {
			return domain.ErrValidationFailed.WithError(errors.New("invalid client_id"))
		}
		invoices, err = h.service.ListByClient(c.Context(), clientID, ownerID)
	case c.Query("start") != "" && c.Query("end") != "":
		start, parseErr := time.Parse("2006-01-02", c.Query("start"))
		if parseErr != nil {
			return domain.ErrValidationFailed.WithError(errors.New("invalid start date"))
		}
		end, parseErr := time.Parse("2006-01-02", c.Query("end"))
		if parseErr != nil {
			return domain.ErrValidationFailed.WithError(errors.New("invalid end date"))
		}
		invoices, err = h.service.ListByDateRange(c.Context(), ownerID, start, end.Add(24*time.Hour-time.Nanosecond))
	default:
		invoices, err = h.service.ListAll(c.Context(), ownerID)
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"invoices": invoices, "count": len(invoices)})
}
