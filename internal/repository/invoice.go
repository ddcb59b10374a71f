package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

const invoiceColumns = `
	id, owner_id, parking_session_id, client_id, invoice_number, entry_time,
	exit_time, amount, duration_hours, status, COALESCE(payment_method, ''),
	payment_date, COALESCE(notes, ''), created_at, updated_at`

type InvoiceRepository struct {
	pool PgxPool
}

func NewInvoiceRepository(pool PgxPool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	query := `
		INSERT INTO invoices (id, owner_id, parking_session_id, client_id, invoice_number,
			entry_time, exit_time, amount, duration_hours, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		invoice.ID,
		invoice.OwnerID,
		invoice.ParkingSessionID,
		invoice.ClientID,
		invoice.InvoiceNumber,
		invoice.EntryTime,
		invoice.ExitTime,
		invoice.Amount,
		invoice.DurationHours,
		invoice.Status,
		invoice.Notes,
	).Scan(&invoice.CreatedAt, &invoice.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			// parking_session_id unique: the session was already invoiced.
			return domain.ErrInvoiceExists
		}
		return fmt.Errorf("create invoice: %w", err)
	}

	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE id = $1 AND owner_id = $2`

	return r.getOne(ctx, query, "get invoice by id", id, ownerID)
}

func (r *InvoiceRepository) GetBySessionID(ctx context.Context, sessionID, ownerID uuid.UUID) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE parking_session_id = $1 AND owner_id = $2`

	return r.getOne(ctx, query, "get invoice by session", sessionID, ownerID)
}

func (r *InvoiceRepository) MarkPaid(ctx context.Context, id, ownerID uuid.UUID, paymentMethod string, paymentDate time.Time) error {
	query := `
		UPDATE invoices
		SET status = 'paid', payment_method = $1, payment_date = $2, updated_at = NOW()
		WHERE id = $3 AND owner_id = $4 AND status = 'pending'
	`

	result, err := r.pool.Exec(ctx, query, paymentMethod, paymentDate, id, ownerID)
	if err != nil {
		return fmt.Errorf("mark invoice paid: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Lost against a concurrent payment or cancellation; report the
		// current state so the caller sees a deterministic failure.
		current, err := r.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if current.Status == domain.InvoiceCancelled {
			return domain.ErrInvoiceCancelled
		}
		return domain.ErrInvoicePaid
	}

	return nil
}

func (r *InvoiceRepository) Cancel(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `
		UPDATE invoices
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND status = 'pending'
	`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("cancel invoice: %w", err)
	}

	if result.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, id, ownerID)
		if err != nil {
			return err
		}
		if current.Status == domain.InvoicePaid {
			return domain.ErrInvoicePaid
		}
		return domain.ErrInvoiceCancelled
	}

	return nil
}

func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID, ownerID uuid.UUID) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE client_id = $1 AND owner_id = $2
		ORDER BY created_at DESC`

	return r.list(ctx, query, clientID, ownerID)
}

func (r *InvoiceRepository) ListByDateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE owner_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC`

	return r.list(ctx, query, ownerID, start, end)
}

func (r *InvoiceRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, ownerID)
}

func (r *InvoiceRepository) getOne(ctx context.Context, query, op string, args ...interface{}) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := scanInvoiceRow(r.pool.QueryRow(ctx, query, args...), &invoice)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &invoice, nil
}

func (r *InvoiceRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Invoice, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var invoice domain.Invoice
		if err := scanInvoiceRow(rows, &invoice); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, invoice)
	}

	return invoices, rows.Err()
}

func scanInvoiceRow(row pgx.Row, invoice *domain.Invoice) error {
	var (
		clientID    uuid.NullUUID
		paymentDate sql.NullTime
	)

	err := row.Scan(
		&invoice.ID,
		&invoice.OwnerID,
		&invoice.ParkingSessionID,
		&clientID,
		&invoice.InvoiceNumber,
		&invoice.EntryTime,
		&invoice.ExitTime,
		&invoice.Amount,
		&invoice.DurationHours,
		&invoice.Status,
		&invoice.PaymentMethod,
		&paymentDate,
		&invoice.Notes,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if clientID.Valid {
		id := clientID.UUID
		invoice.ClientID = &id
	}
	if paymentDate.Valid {
		t := paymentDate.Time
		invoice.PaymentDate = &t
	}

	return nil
}
