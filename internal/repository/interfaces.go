package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

// VehicleRepositoryInterface defines operations for vehicle data access.
// scope is the owner_scope partition: the owning account under
// per-account scoping, domain.GlobalScope otherwise.
type VehicleRepositoryInterface interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)
	GetByPlate(ctx context.Context, plate string, scope uuid.UUID) (*domain.Vehicle, error)
	Update(ctx context.Context, vehicle *domain.Vehicle) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// ClientRepositoryInterface defines operations for client data access
type ClientRepositoryInterface interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Client, error)
	GetByDocument(ctx context.Context, document string, ownerID uuid.UUID) (*domain.Client, error)
	ListActive(ctx context.Context, ownerID uuid.UUID) ([]domain.Client, error)
	ListMonthly(ctx context.Context, ownerID uuid.UUID) ([]domain.Client, error)
	Update(ctx context.Context, client *domain.Client) error
	Deactivate(ctx context.Context, id, ownerID uuid.UUID) error
}

// SessionRepositoryInterface defines operations for parking session data access
type SessionRepositoryInterface interface {
	Create(ctx context.Context, session *domain.ParkingSession) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.ParkingSession, error)
	ListActiveByVehicle(ctx context.Context, vehicleID, ownerID uuid.UUID) ([]domain.ParkingSession, error)
	// Complete performs the single conditional active→completed update;
	// returns domain.ErrSessionNotActive when another caller won the race.
	Complete(ctx context.Context, id, ownerID uuid.UUID, exitTime time.Time, durationHours float64, totalAmount decimal.Decimal) error
	// Cancel performs the conditional active→cancelled update.
	Cancel(ctx context.Context, id, ownerID uuid.UUID, exitTime time.Time) error
	ListActive(ctx context.Context, ownerID uuid.UUID) ([]domain.ParkingSession, error)
	ListByVehicle(ctx context.Context, vehicleID, ownerID uuid.UUID) ([]domain.ParkingSession, error)
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.ParkingSession, error)
	ListByEntryRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.ParkingSession, error)
}

// InvoiceRepositoryInterface defines operations for invoice data access
type InvoiceRepositoryInterface interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Invoice, error)
	GetBySessionID(ctx context.Context, sessionID, ownerID uuid.UUID) (*domain.Invoice, error)
	// MarkPaid is guarded by status='pending'; a concurrent payment or
	// cancellation makes it return domain.ErrInvoicePaid / Cancelled.
	MarkPaid(ctx context.Context, id, ownerID uuid.UUID, paymentMethod string, paymentDate time.Time) error
	Cancel(ctx context.Context, id, ownerID uuid.UUID) error
	ListByClient(ctx context.Context, clientID, ownerID uuid.UUID) ([]domain.Invoice, error)
	ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.Invoice, error)
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Invoice, error)
}

// ReportRepositoryInterface defines operations for report snapshots
type ReportRepositoryInterface interface {
	UpsertDaily(ctx context.Context, report *domain.DailyReport) error
	UpsertMonthly(ctx context.Context, report *domain.MonthlyReport) error
	ListDaily(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.DailyReport, error)
	ListMonthly(ctx context.Context, ownerID uuid.UUID, year int) ([]domain.MonthlyReport, error)
}

// OperatorRepositoryInterface defines operations for operator accounts
type OperatorRepositoryInterface interface {
	Create(ctx context.Context, operator *domain.Operator) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error)
	GetByEmail(ctx context.Context, email string) (*domain.Operator, error)
}
