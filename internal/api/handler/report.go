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
	"github.com/saturnino-fabrica-de-software/parkeo/internal/report"
)

// ReportService interface for report generation and export
type ReportService interface {
	GenerateDaily(ctx context.Context, ownerID uuid.UUID, date time.Time) (*domain.DailyReport, error)
	GenerateMonthly(ctx context.Context, ownerID uuid.UUID, month, year int) (*domain.MonthlyReport, error)
	ListDaily(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.DailyReport, error)
	ListMonthly(ctx context.Context, ownerID uuid.UUID, year int) ([]domain.MonthlyReport, error)
	BuildDailyExport(ctx context.Context, ownerID uuid.UUID, date time.Time) (*report.Export, error)
	BuildMonthlyExport(ctx context.Context, ownerID uuid.UUID, month, year int) (*report.Export, error)
}

type ReportHandler struct {
	service  ReportService
	renderer report.Renderer
}

func NewReportHandler(service ReportService, renderer report.Renderer) *ReportHandler {
	return &ReportHandler{service: service, renderer: renderer}
}

type generateDailyRequest struct {
	Date string `json:"date"`
}

type generateMonthlyRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// GenerateDaily POST /v1/reports/daily
func (h *ReportHandler) GenerateDaily(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	var req generateDailyRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	date := time.Now()
	if req.Date != "" {
		date, err = time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			return domain.ErrValidationFailed.WithError(errors.New("date must be YYYY-MM-DD"))
		}
	}

	generated, err := h.service.GenerateDaily(c.Context(), ownerID, date)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(generated)
}

// GenerateMonthly POST /v1/reports/monthly
func (h *ReportHandler) GenerateMonthly(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	var req generateMonthlyRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	generated, err := h.service.GenerateMonthly(c.Context(), ownerID, req.Month, req.Year)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(generated)
}

// ListDaily GET /v1/reports/daily?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *ReportHandler) ListDaily(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	start, err := time.ParseInLocation("2006-01-02", c.Query("start"), time.Local)
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("start must be YYYY-MM-DD"))
	}
	end, err := time.ParseInLocation("2006-01-02", c.Query("end"), time.Local)
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("end must be YYYY-MM-DD"))
	}

	reports, err := h.service.ListDaily(c.Context(), ownerID, start, end)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"reports": reports, "count": len(reports)})
}

// ListMonthly GET /v1/reports/monthly?year=YYYY
func (h *ReportHandler) ListMonthly(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	year := c.QueryInt("year")
	if year == 0 {
		year = time.Now().Year()
	}

	reports, err := h.service.ListMonthly(c.Context(), ownerID, year)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"reports": reports, "count": len(reports)})
}

// ExportDaily GET /v1/reports/daily/export?date=YYYY-MM-DD
func (h *ReportHandler) ExportDaily(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	date, err := time.ParseInLocation("2006-01-02", c.Query("date"), time.Local)
	if err != nil {
		return domain.ErrValidationFailed.WithError(errors.New("date must be YYYY-MM-DD"))
	}

	export, err := h.service.BuildDailyExport(c.Context(), ownerID, date)
	if err != nil {
		return err
	}

	return h.send(c, export)
}

// ExportMonthly GET /v1/reports/monthly/export?month=M&year=YYYY
func (h *ReportHandler) ExportMonthly(c *fiber.Ctx) error {
	ownerID, err := middleware.GetOwnerID(c)
	if err != nil {
		return err
	}

	export, err := h.service.BuildMonthlyExport(c.Context(), ownerID, c.QueryInt("month"), c.QueryInt("year"))
	if err != nil {
		return err
	}

	return h.send(c, export)
}

func (h *ReportHandler) send(c *fiber.Ctx, export *report.Export) error {
	body, err := h.renderer.Render(export)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}

	c.Set(fiber.HeaderContentType, h.renderer.ContentType())
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s.%s"`, export.Title, h.renderer.FileExtension()))
	return c.Send(body)
}
