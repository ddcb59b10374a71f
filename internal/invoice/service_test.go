package invoice

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

type mockInvoiceRepo struct {
	mock.Mock
}

func (m *mockInvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) GetBySessionID(ctx context.Context, sessionID, ownerID uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, sessionID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) MarkPaid(ctx context.Context, id, ownerID uuid.UUID, paymentMethod string, paymentDate time.Time) error {
	args := m.Called(ctx, id, ownerID, paymentMethod, paymentDate)
	return args.Error(0)
}

func (m *mockInvoiceRepo) Cancel(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *mockInvoiceRepo) ListByClient(ctx context.Context, clientID, ownerID uuid.UUID) ([]domain.Invoice, error) {
	args := m.Called(ctx, clientID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.Invoice, error) {
	args := m.Called(ctx, ownerID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *mockInvoiceRepo) ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Invoice, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

type mockSessionRepo struct {
	mock.Mock
}

func (m *mockSessionRepo) Create(ctx context.Context, session *domain.ParkingSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepo) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.ParkingSession, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSession), args.Error(1)
}

func (m *mockSessionRepo) ListActiveByVehicle(ctx context.Context, vehicleID, ownerID uuid.UUID) ([]domain.ParkingSession, error) {
	args := m.Called(ctx, vehicleID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingSession), args.Error(1)
}

func (m *mockSessionRepo) Complete(ctx context.Context, id, ownerID uuid.UUID, exitTime time.Time, durationHours float64, totalAmount decimal.Decimal) error {
	args := m.Called(ctx, id, ownerID, exitTime, durationHours, totalAmount)
	return args.Error(0)
}

func (m *mockSessionRepo) Cancel(ctx context.Context, id, ownerID uuid.UUID, exitTime time.Time) error {
	args := m.Called(ctx, id, ownerID, exitTime)
	return args.Error(0)
}

func (m *mockSessionRepo) ListActive(ctx context.Context, ownerID uuid.UUID) ([]domain.ParkingSession, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingSession), args.Error(1)
}

func (m *mockSessionRepo) ListByVehicle(ctx context.Context, vehicleID, ownerID uuid.UUID) ([]domain.ParkingSession, error) {
	args := m.Called(ctx, vehicleID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingSession), args.Error(1)
}

func (m *mockSessionRepo) ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.ParkingSession, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingSession), args.Error(1)
}

func (m *mockSessionRepo) ListByEntryRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.ParkingSession, error) {
	args := m.Called(ctx, ownerID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingSession), args.Error(1)
}

func newTestService(t *testing.T, invoices *mockInvoiceRepo, sessions *mockSessionRepo, opts ...Option) *Service {
	t.Helper()
	numbers, err := NewNumberGenerator(1)
	require.NoError(t, err)
	return NewService(invoices, sessions, numbers, opts...)
}

type recordingNotifier struct {
	paid []string
	err  error
}

func (n *recordingNotifier) InvoicePaid(_ context.Context, inv *domain.Invoice) error {
	n.paid = append(n.paid, inv.InvoiceNumber)
	return n.err
}

func completedSession(ownerID uuid.UUID) *domain.ParkingSession {
	entry := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	exit := entry.Add(2*time.Hour + 15*time.Minute)
	duration := 2.25
	amount := decimal.NewFromInt(15000)
	return &domain.ParkingSession{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		VehicleID:     uuid.New(),
		EntryTime:     entry,
		ExitTime:      &exit,
		DurationHours: &duration,
		TotalAmount:   &amount,
		Status:        domain.SessionCompleted,
	}
}

func TestService_Derive(t *testing.T) {
	ownerID := uuid.New()

	t.Run("completed session yields a pending invoice", func(t *testing.T) {
		invoices := new(mockInvoiceRepo)
		sessions := new(mockSessionRepo)
		session := completedSession(ownerID)

		sessions.On("GetByID", mock.Anything, session.ID, ownerID).Return(session, nil)
		invoices.On("Create", mock.Anything, mock.MatchedBy(func(inv *domain.Invoice) bool {
			return inv.ParkingSessionID == session.ID &&
				inv.Status == domain.InvoicePending &&
				inv.Amount.Equal(decimal.NewFromInt(15000)) &&
				inv.DurationHours == 2.25
		})).Return(nil)

		svc := newTestService(t, invoices, sessions)
		got, err := svc.Derive(context.Background(), session.ID, ownerID, "gate 2")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got.InvoiceNumber, "INV-"))
		assert.Equal(t, "gate 2", got.Notes)
		invoices.AssertExpectations(t)
	})

	t.Run("active session cannot be invoiced", func(t *testing.T) {
		invoices := new(mockInvoiceRepo)
		sessions := new(mockSessionRepo)
		sessionID := uuid.New()

		sessions.On("GetByID", mock.Anything, sessionID, ownerID).
			Return(&domain.ParkingSession{ID: sessionID, Status: domain.SessionActive}, nil)

		svc := newTestService(t, invoices, sessions)
		_, err := svc.Derive(context.Background(), sessionID, ownerID, "")

		assert.ErrorIs(t, err, domain.ErrSessionNotCompleted)
		invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("cancelled session cannot be invoiced", func(t *testing.T) {
		invoices := new(mockInvoiceRepo)
		sessions := new(mockSessionRepo)
		sessionID := uuid.New()

		sessions.On("GetByID", mock.Anything, sessionID, ownerID).
			Return(&domain.ParkingSession{ID: sessionID, Status: domain.SessionCancelled}, nil)

		svc := newTestService(t, invoices, sessions)
		_, err := svc.Derive(context.Background(), sessionID, ownerID, "")

		assert.ErrorIs(t, err, domain.ErrSessionNotCompleted)
	})

	t.Run("second derivation conflicts", func(t *testing.T) {
		invoices := new(mockInvoiceRepo)
		sessions := new(mockSessionRepo)
		session := completedSession(ownerID)

		sessions.On("GetByID", mock.Anything, session.ID, ownerID).Return(session, nil)
		invoices.On("Create", mock.Anything, mock.Anything).Return(domain.ErrInvoiceExists)

		svc := newTestService(t, invoices, sessions)
		_, err := svc.Derive(context.Background(), session.ID, ownerID, "")

		assert.ErrorIs(t, err, domain.ErrInvoiceExists)
	})
}

func TestService_MarkPaid(t *testing.T) {
	ownerID := uuid.New()
	invoiceID := uuid.New()

	t.Run("pending invoice is paid", func(t *testing.T) {
		invoices := new(mockInvoiceRepo)

		invoices.On("MarkPaid", mock.Anything, invoiceID, ownerID, "card", mock.Anything).Return(nil)
		invoices.On("GetByID", mock.Anything, invoiceID, ownerID).
			Return(&domain.Invoice{ID: invoiceID, Status: domain.InvoicePaid, PaymentMethod: "card"}, nil)

		svc := newTestService(t, invoices, new(mockSessionRepo))
		got, err := svc.MarkPaid(context.Background(), invoiceID, ownerID, "card")

		require.NoError(t, err)
		assert.Equal(t, domain.InvoicePaid, got.Status)
	})

	t.Run("missing payment method", func(t *testing.T) {
		svc := newTestService(t, new(mockInvoiceRepo), new(mockSessionRepo))

		_, err := svc.MarkPaid(context.Background(), invoiceID, ownerID, "")

		assert.ErrorIs(t, err, domain.ErrValidationFailed)
	})

	t.Run("repeated payment conflicts", func(t *testing.T) {
		invoices := new(mockInvoiceRepo)
		invoices.On("MarkPaid", mock.Anything, invoiceID, ownerID, "cash", mock.Anything).
			Return(domain.ErrInvoicePaid)

		svc := newTestService(t, invoices, new(mockSessionRepo))
		_, err := svc.MarkPaid(context.Background(), invoiceID, ownerID, "cash")

		assert.ErrorIs(t, err, domain.ErrInvoicePaid)
	})

	t.Run("notifier is told about payments", func(t *testing.T) {
		invoices := new(mockInvoiceRepo)
		invoices.On("MarkPaid", mock.Anything, invoiceID, ownerID, "card", mock.Anything).Return(nil)
		invoices.On("GetByID", mock.Anything, invoiceID, ownerID).
			Return(&domain.Invoice{ID: invoiceID, InvoiceNumber: "INV-42", Status: domain.InvoicePaid}, nil)

		notifier := &recordingNotifier{}
		svc := newTestService(t, invoices, new(mockSessionRepo), WithNotifier(notifier))

		_, err := svc.MarkPaid(context.Background(), invoiceID, ownerID, "card")

		require.NoError(t, err)
		assert.Equal(t, []string{"INV-42"}, notifier.paid)
	})

	t.Run("notifier failure does not undo the payment", func(t *testing.T) {
		invoices := new(mockInvoiceRepo)
		invoices.On("MarkPaid", mock.Anything, invoiceID, ownerID, "card", mock.Anything).Return(nil)
		invoices.On("GetByID", mock.Anything, invoiceID, ownerID).
			Return(&domain.Invoice{ID: invoiceID, Status: domain.InvoicePaid}, nil)

		notifier := &recordingNotifier{err: errors.New("smtp down")}
		svc := newTestService(t, invoices, new(mockSessionRepo), WithNotifier(notifier))

		got, err := svc.MarkPaid(context.Background(), invoiceID, ownerID, "card")

		require.NoError(t, err)
		assert.Equal(t, domain.InvoicePaid, got.Status)
	})
}

func TestTextRenderer(t *testing.T) {
	inv := &domain.Invoice{
		InvoiceNumber: "INV-99",
		EntryTime:     time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
		ExitTime:      time.Date(2025, 3, 1, 10, 15, 0, 0, time.UTC),
		DurationHours: 2.25,
		Amount:        decimal.NewFromInt(15000),
		Status:        domain.InvoicePaid,
		PaymentMethod: "card",
	}

	body, err := TextRenderer{}.Render(inv)
	require.NoError(t, err)

	receipt := string(body)
	assert.Contains(t, receipt, "RECEIPT INV-99")
	assert.Contains(t, receipt, "Amount:   15000")
	assert.Contains(t, receipt, "Paid via: card")
	assert.Equal(t, "txt", TextRenderer{}.FileExtension())
}

func TestService_ListByDateRange(t *testing.T) {
	svc := newTestService(t, new(mockInvoiceRepo), new(mockSessionRepo))
	now := time.Now()

	_, err := svc.ListByDateRange(context.Background(), uuid.New(), now, now.Add(-time.Hour))

	assert.ErrorIs(t, err, domain.ErrValidationFailed)
}

func TestNumberGenerator_Unique(t *testing.T) {
	numbers, err := NewNumberGenerator(1)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		n := numbers.Next()
		_, dup := seen[n]
		require.False(t, dup, "duplicate invoice number %s", n)
		seen[n] = struct{}{}
	}
}

func TestNewNumberGenerator_InvalidNode(t *testing.T) {
	_, err := NewNumberGenerator(-1)
	assert.Error(t, err)
}
