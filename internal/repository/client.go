package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

const clientColumns = `id, owner_id, name, document, email, COALESCE(phone, ''), billing_type, monthly_fee, is_active, created_at, updated_at`

type ClientRepository struct {
	pool PgxPool
}

func NewClientRepository(pool PgxPool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `
		INSERT INTO clients (id, owner_id, name, document, email, phone, billing_type, monthly_fee, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		client.ID,
		client.OwnerID,
		client.Name,
		client.Document,
		client.Email,
		client.Phone,
		client.BillingType,
		client.MonthlyFee,
		client.IsActive,
	).Scan(&client.CreatedAt, &client.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrClientExists
		}
		return fmt.Errorf("create client: %w", err)
	}

	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE id = $1 AND owner_id = $2
	`

	return scanClient(r.pool.QueryRow(ctx, query, id, ownerID), "get client by id")
}

func (r *ClientRepository) GetByDocument(ctx context.Context, document string, ownerID uuid.UUID) (*domain.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE document = $1 AND owner_id = $2
	`

	return scanClient(r.pool.QueryRow(ctx, query, document, ownerID), "get client by document")
}

func (r *ClientRepository) ListActive(ctx context.Context, ownerID uuid.UUID) ([]domain.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE owner_id = $1 AND is_active = true
		ORDER BY name ASC
	`

	return r.list(ctx, query, ownerID)
}

func (r *ClientRepository) ListMonthly(ctx context.Context, ownerID uuid.UUID) ([]domain.Client, error) {
	query := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE owner_id = $1 AND billing_type = 'monthly' AND is_active = true
		ORDER BY name ASC
	`

	return r.list(ctx, query, ownerID)
}

func (r *ClientRepository) Update(ctx context.Context, client *domain.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, billing_type = $4, monthly_fee = $5, updated_at = NOW()
		WHERE id = $6 AND owner_id = $7
	`

	result, err := r.pool.Exec(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.BillingType,
		client.MonthlyFee,
		client.ID,
		client.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

func (r *ClientRepository) Deactivate(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `
		UPDATE clients
		SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("deactivate client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

func (r *ClientRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Client, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := scanClientRow(rows, &client); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, client)
	}

	return clients, rows.Err()
}

func scanClient(row pgx.Row, op string) (*domain.Client, error) {
	var client domain.Client
	err := scanClientRow(row, &client)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &client, nil
}

func scanClientRow(row pgx.Row, client *domain.Client) error {
	return row.Scan(
		&client.ID,
		&client.OwnerID,
		&client.Name,
		&client.Document,
		&client.Email,
		&client.Phone,
		&client.BillingType,
		&client.MonthlyFee,
		&client.IsActive,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
}
