package api

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/auth"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/billing"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/client"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/config"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/database"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/invoice"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/parking"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/report"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/repository"
)

type Dependencies struct {
	Config *config.Config
	DB     *pgxpool.Pool
}

type Router struct {
	app    *fiber.App
	logger *slog.Logger
	deps   *Dependencies
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Parkeo API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() error {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation (no auth required)
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints (no auth required)
	healthHandler := handler.NewHealthHandler(database.NewHealth(r.deps.DB))
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	cfg := r.deps.Config

	// Repositories
	vehicleRepo := repository.NewVehicleRepository(r.deps.DB)
	clientRepo := repository.NewClientRepository(r.deps.DB)
	sessionRepo := repository.NewSessionRepository(r.deps.DB)
	invoiceRepo := repository.NewInvoiceRepository(r.deps.DB)
	reportRepo := repository.NewReportRepository(r.deps.DB)
	operatorRepo := repository.NewOperatorRepository(r.deps.DB)

	// Billing policy
	hourlyRate, err := decimal.NewFromString(cfg.HourlyRate)
	if err != nil {
		return fmt.Errorf("invalid hourly rate %q: %w", cfg.HourlyRate, err)
	}
	policy := billing.NewPolicy(hourlyRate)

	// Invoice numbering
	numbers, err := invoice.NewNumberGenerator(cfg.SnowflakeNode)
	if err != nil {
		return err
	}

	// Services
	var jwtOpts []auth.JWTOption
	if cfg.JWKSURL != "" {
		keys := auth.NewKeyCache(
			auth.HTTPKeyFetcher(cfg.JWKSURL),
			time.Duration(cfg.JWKSCacheTTLMinutes)*time.Minute,
		)
		jwtOpts = append(jwtOpts, auth.WithKeyCache(keys))
	}
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLHours)*time.Hour, jwtOpts...)
	authService := auth.NewService(operatorRepo, jwtService)
	parkingService := parking.NewService(sessionRepo, vehicleRepo, clientRepo, policy, cfg.VehicleScope)
	invoiceService := invoice.NewService(invoiceRepo, sessionRepo, numbers)
	reportService := report.NewService(reportRepo, sessionRepo, clientRepo)
	clientService := client.NewService(clientRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	parkingHandler := handler.NewParkingHandler(parkingService)
	vehicleHandler := handler.NewVehicleHandler(parkingService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, invoice.TextRenderer{})
	reportHandler := handler.NewReportHandler(reportService, report.CSVRenderer{})
	clientHandler := handler.NewClientHandler(clientService)

	v1 := r.app.Group("/v1")

	// Auth routes (no token required)
	v1.Post("/auth/register", authHandler.Register)
	v1.Post("/auth/login", authHandler.Login)

	// Everything below requires an operator token
	v1.Use(middleware.Auth(jwtService))

	write := middleware.RequireWrite()
	manage := middleware.RequireManage()

	// Operator routes (admin only; self-registration cannot mint admins)
	v1.Post("/operators", manage, authHandler.CreateOperator)

	// Session routes
	v1.Post("/sessions", write, parkingHandler.Enter)
	v1.Post("/sessions/exit", write, parkingHandler.Exit)
	v1.Get("/sessions", parkingHandler.List)
	v1.Get("/sessions/:id", parkingHandler.Get)
	v1.Post("/sessions/:id/close", write, parkingHandler.Close)
	v1.Post("/sessions/:id/cancel", write, parkingHandler.Cancel)

	// Vehicle routes
	v1.Put("/vehicles/:plate", write, vehicleHandler.Update)
	v1.Delete("/vehicles/:plate", manage, vehicleHandler.Deactivate)

	// Invoice routes
	v1.Post("/invoices", write, invoiceHandler.Derive)
	v1.Get("/invoices", invoiceHandler.List)
	v1.Get("/invoices/:id", invoiceHandler.Get)
	v1.Get("/invoices/:id/receipt", invoiceHandler.Receipt)
	v1.Post("/invoices/:id/pay", write, invoiceHandler.Pay)
	v1.Post("/invoices/:id/cancel", write, invoiceHandler.Cancel)

	// Report routes
	v1.Post("/reports/daily", write, reportHandler.GenerateDaily)
	v1.Post("/reports/monthly", write, reportHandler.GenerateMonthly)
	v1.Get("/reports/daily", reportHandler.ListDaily)
	v1.Get("/reports/monthly", reportHandler.ListMonthly)
	v1.Get("/reports/daily/export", reportHandler.ExportDaily)
	v1.Get("/reports/monthly/export", reportHandler.ExportMonthly)

	// Client routes (admin only)
	v1.Post("/clients", manage, clientHandler.Create)
	v1.Get("/clients", clientHandler.List)
	v1.Get("/clients/:id", clientHandler.Get)
	v1.Put("/clients/:id", manage, clientHandler.Update)
	v1.Delete("/clients/:id", manage, clientHandler.Delete)

	return nil
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	return r.app.Shutdown()
}
