package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/repository"
)

type Service struct {
	invoiceRepo repository.InvoiceRepositoryInterface
	sessionRepo repository.SessionRepositoryInterface
	numbers     *NumberGenerator
	notifier    Notifier
}

type Option func(*Service)

// WithNotifier plugs in an external delivery channel for invoice events.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func NewService(
	invoiceRepo repository.InvoiceRepositoryInterface,
	sessionRepo repository.SessionRepositoryInterface,
	numbers *NumberGenerator,
	opts ...Option,
) *Service {
	s := &Service{
		invoiceRepo: invoiceRepo,
		sessionRepo: sessionRepo,
		numbers:     numbers,
		notifier:    nopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Derive converts a completed session into its invoice. Each session
// yields at most one invoice; deriving twice is a conflict.
func (s *Service) Derive(ctx context.Context, sessionID, ownerID uuid.UUID, notes string) (*domain.Invoice, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}

	if session.Status != domain.SessionCompleted {
		return nil, domain.ErrSessionNotCompleted.WithError(
			fmt.Errorf("session %s is %s", sessionID, session.Status),
		)
	}

	invoice := &domain.Invoice{
		OwnerID:          ownerID,
		ParkingSessionID: session.ID,
		ClientID:         session.ClientID,
		InvoiceNumber:    s.numbers.Next(),
		EntryTime:        session.EntryTime,
		ExitTime:         *session.ExitTime,
		Amount:           session.RevenueAmount(),
		DurationHours:    *session.DurationHours,
		Status:           domain.InvoicePending,
		Notes:            notes,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	return invoice, nil
}

func (s *Service) Get(ctx context.Context, invoiceID, ownerID uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, invoiceID, ownerID)
}

func (s *Service) GetBySession(ctx context.Context, sessionID, ownerID uuid.UUID) (*domain.Invoice, error) {
	return s.invoiceRepo.GetBySessionID(ctx, sessionID, ownerID)
}

// MarkPaid settles a pending invoice. The repository's status guard
// makes repeated or racing payments deterministic conflicts.
func (s *Service) MarkPaid(ctx context.Context, invoiceID, ownerID uuid.UUID, paymentMethod string) (*domain.Invoice, error) {
	if paymentMethod == "" {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("payment_method is required"))
	}

	if err := s.invoiceRepo.MarkPaid(ctx, invoiceID, ownerID, paymentMethod, time.Now()); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID, ownerID)
	if err != nil {
		return nil, err
	}

	// Delivery failures never undo the payment
	if err := s.notifier.InvoicePaid(ctx, invoice); err != nil {
		slog.Warn("invoice notification failed",
			slog.String("invoice_id", invoice.ID.String()),
			slog.Any("error", err),
		)
	}

	return invoice, nil
}

// Cancel voids a pending invoice, e.g. when the underlying charge was
// disputed before payment.
func (s *Service) Cancel(ctx context.Context, invoiceID, ownerID uuid.UUID) (*domain.Invoice, error) {
	if err := s.invoiceRepo.Cancel(ctx, invoiceID, ownerID); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetByID(ctx, invoiceID, ownerID)
}

func (s *Service) ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Invoice, error) {
	return s.invoiceRepo.ListAll(ctx, ownerID)
}

func (s *Service) ListByClient(ctx context.Context, clientID, ownerID uuid.UUID) ([]domain.Invoice, error) {
	return s.invoiceRepo.ListByClient(ctx, clientID, ownerID)
}

func (s *Service) ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.Invoice, error) {
	if end.Before(start) {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("end date before start date"))
	}
	return s.invoiceRepo.ListByDateRange(ctx, ownerID, start, end)
}
