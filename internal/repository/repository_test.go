package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

// SessionRepository tests

func TestSessionRepository_Create(t *testing.T) {
	ownerID := uuid.New()
	vehicleID := uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful creation",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"created_at", "updated_at"}).
					AddRow(now, now)
				mock.ExpectQuery(`INSERT INTO parking_sessions`).
					WillReturnRows(rows)
			},
		},
		{
			name: "second open for same vehicle conflicts",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO parking_sessions`).
					WillReturnError(errors.New(`duplicate key value violates unique constraint "idx_sessions_one_active" (SQLSTATE 23505)`))
			},
			wantErr: domain.ErrSessionAlreadyOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewSessionRepository(mock)
			session := &domain.ParkingSession{
				OwnerID:   ownerID,
				VehicleID: vehicleID,
				EntryTime: now,
				Status:    domain.SessionActive,
			}

			err = repo.Create(context.Background(), session)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, session.ID)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_Complete(t *testing.T) {
	sessionID := uuid.New()
	ownerID := uuid.New()
	exitTime := time.Now()
	amount := decimal.NewFromInt(15000)

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "conditional update wins",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE parking_sessions SET exit_time = \$1, duration_hours = \$2, total_amount = \$3, status = 'completed', updated_at = NOW\(\) WHERE id = \$4 AND owner_id = \$5 AND status = 'active'`).
					WithArgs(exitTime, 2.25, amount, sessionID, ownerID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "loser of a concurrent close gets a conflict",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE parking_sessions SET exit_time = \$1`).
					WithArgs(exitTime, 2.25, amount, sessionID, ownerID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrSessionNotActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewSessionRepository(mock)
			err = repo.Complete(context.Background(), sessionID, ownerID, exitTime, 2.25, amount)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionRepository_GetByID(t *testing.T) {
	sessionID := uuid.New()
	ownerID := uuid.New()
	vehicleID := uuid.New()
	now := time.Now()

	t.Run("found with joined projection fields", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{
			"id", "owner_id", "vehicle_id", "client_id", "entry_time", "exit_time",
			"duration_hours", "total_amount", "status", "created_at", "updated_at",
			"plate", "name",
		}).AddRow(
			sessionID, ownerID, vehicleID, nil, now, nil,
			nil, nil, domain.SessionActive, now, now,
			"ABC123", "",
		)

		mock.ExpectQuery(`WHERE s.id = \$1 AND s.owner_id = \$2`).
			WithArgs(sessionID, ownerID).
			WillReturnRows(rows)

		repo := NewSessionRepository(mock)
		got, err := repo.GetByID(context.Background(), sessionID, ownerID)

		require.NoError(t, err)
		assert.Equal(t, sessionID, got.ID)
		assert.Equal(t, "ABC123", got.Plate)
		assert.Nil(t, got.ExitTime)
		assert.Nil(t, got.TotalAmount)
		assert.True(t, got.IsActive())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not owned maps to not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`WHERE s.id = \$1 AND s.owner_id = \$2`).
			WithArgs(sessionID, ownerID).
			WillReturnError(pgx.ErrNoRows)

		repo := NewSessionRepository(mock)
		got, err := repo.GetByID(context.Background(), sessionID, ownerID)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// InvoiceRepository tests

func TestInvoiceRepository_Create(t *testing.T) {
	ownerID := uuid.New()
	sessionID := uuid.New()
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "successful creation",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"created_at", "updated_at"}).
					AddRow(now, now)
				mock.ExpectQuery(`INSERT INTO invoices`).
					WillReturnRows(rows)
			},
		},
		{
			name: "second derivation for the same session conflicts",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`INSERT INTO invoices`).
					WillReturnError(errors.New(`duplicate key value violates unique constraint "invoices_parking_session_id_key" (SQLSTATE 23505)`))
			},
			wantErr: domain.ErrInvoiceExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewInvoiceRepository(mock)
			invoice := &domain.Invoice{
				OwnerID:          ownerID,
				ParkingSessionID: sessionID,
				InvoiceNumber:    "INV-1834759283741921280",
				EntryTime:        now.Add(-3 * time.Hour),
				ExitTime:         now,
				Amount:           decimal.NewFromInt(15000),
				DurationHours:    2.25,
				Status:           domain.InvoicePending,
			}

			err = repo.Create(context.Background(), invoice)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestInvoiceRepository_MarkPaid(t *testing.T) {
	invoiceID := uuid.New()
	ownerID := uuid.New()
	sessionID := uuid.New()
	paymentDate := time.Now()
	now := time.Now()

	invoiceRows := func(status string) *pgxmock.Rows {
		return pgxmock.NewRows([]string{
			"id", "owner_id", "parking_session_id", "client_id", "invoice_number",
			"entry_time", "exit_time", "amount", "duration_hours", "status",
			"payment_method", "payment_date", "notes", "created_at", "updated_at",
		}).AddRow(
			invoiceID, ownerID, sessionID, nil, "INV-1",
			now.Add(-2*time.Hour), now, decimal.NewFromInt(10000), 2.0, status,
			"", nil, "", now, now,
		)
	}

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		wantErr   error
	}{
		{
			name: "pending invoice is paid",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE invoices SET status = 'paid'`).
					WithArgs("cash", paymentDate, invoiceID, ownerID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "already paid invoice is rejected",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE invoices SET status = 'paid'`).
					WithArgs("cash", paymentDate, invoiceID, ownerID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				mock.ExpectQuery(`SELECT .+ FROM invoices WHERE id = \$1 AND owner_id = \$2`).
					WithArgs(invoiceID, ownerID).
					WillReturnRows(invoiceRows(domain.InvoicePaid))
			},
			wantErr: domain.ErrInvoicePaid,
		},
		{
			name: "cancelled invoice is rejected",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE invoices SET status = 'paid'`).
					WithArgs("cash", paymentDate, invoiceID, ownerID).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
				mock.ExpectQuery(`SELECT .+ FROM invoices WHERE id = \$1 AND owner_id = \$2`).
					WithArgs(invoiceID, ownerID).
					WillReturnRows(invoiceRows(domain.InvoiceCancelled))
			},
			wantErr: domain.ErrInvoiceCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			tt.mockSetup(mock)

			repo := NewInvoiceRepository(mock)
			err = repo.MarkPaid(context.Background(), invoiceID, ownerID, "cash", paymentDate)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ClientRepository tests

func TestClientRepository_Create_DuplicateDocument(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO clients`).
		WillReturnError(errors.New(`duplicate key value violates unique constraint "clients_owner_id_document_key" (SQLSTATE 23505)`))

	repo := NewClientRepository(mock)
	client := &domain.Client{
		OwnerID:     uuid.New(),
		Name:        "Acme Corp",
		Document:    "900123456-7",
		BillingType: domain.BillingHourly,
		IsActive:    true,
	}

	err = repo.Create(context.Background(), client)
	assert.ErrorIs(t, err, domain.ErrClientExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ReportRepository tests

func TestReportRepository_UpsertDaily(t *testing.T) {
	ownerID := uuid.New()
	reportDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	now := time.Now()
	reportID := uuid.New()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(reportID, now)
	mock.ExpectQuery(`INSERT INTO daily_reports .+ ON CONFLICT \(owner_id, report_date\) DO UPDATE SET`).
		WillReturnRows(rows)

	repo := NewReportRepository(mock)
	report := &domain.DailyReport{
		OwnerID:       ownerID,
		ReportDate:    reportDate,
		TotalVehicles: 2,
		TotalRevenue:  decimal.NewFromInt(23000),
		HoursOpen:     24,
		Details:       "Daily report for 2025-03-10",
	}

	err = repo.UpsertDaily(context.Background(), report)
	require.NoError(t, err)
	assert.Equal(t, reportID, report.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// OperatorRepository tests

func TestOperatorRepository_GetByEmail(t *testing.T) {
	operatorID := uuid.New()
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		rows := pgxmock.NewRows([]string{
			"id", "email", "name", "password_hash", "role", "is_active", "created_at", "updated_at",
		}).AddRow(operatorID, "ana@lot.test", "Ana", "$2a$10$hash", domain.RoleAdmin, true, now, now)

		mock.ExpectQuery(`SELECT .+ FROM operators WHERE email = \$1`).
			WithArgs("ana@lot.test").
			WillReturnRows(rows)

		repo := NewOperatorRepository(mock)
		got, err := repo.GetByEmail(context.Background(), "ana@lot.test")

		require.NoError(t, err)
		assert.Equal(t, operatorID, got.ID)
		assert.Equal(t, domain.RoleAdmin, got.Role)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT .+ FROM operators WHERE email = \$1`).
			WithArgs("ghost@lot.test").
			WillReturnError(pgx.ErrNoRows)

		repo := NewOperatorRepository(mock)
		got, err := repo.GetByEmail(context.Background(), "ghost@lot.test")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, domain.ErrOperatorNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
