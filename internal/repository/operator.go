package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

type OperatorRepository struct {
	pool PgxPool
}

func NewOperatorRepository(pool PgxPool) *OperatorRepository {
	return &OperatorRepository{pool: pool}
}

func (r *OperatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	query := `
		INSERT INTO operators (id, email, name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	if operator.ID == uuid.Nil {
		operator.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		operator.ID,
		operator.Email,
		operator.Name,
		operator.PasswordHash,
		operator.Role,
		operator.IsActive,
	).Scan(&operator.CreatedAt, &operator.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOperatorExists
		}
		return fmt.Errorf("create operator: %w", err)
	}

	return nil
}

func (r *OperatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error) {
	query := `
		SELECT id, email, name, password_hash, role, is_active, created_at, updated_at
		FROM operators
		WHERE id = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get operator by id")
}

func (r *OperatorRepository) GetByEmail(ctx context.Context, email string) (*domain.Operator, error) {
	query := `
		SELECT id, email, name, password_hash, role, is_active, created_at, updated_at
		FROM operators
		WHERE email = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, email), "get operator by email")
}

func (r *OperatorRepository) scanOne(row pgx.Row, op string) (*domain.Operator, error) {
	var operator domain.Operator

	err := row.Scan(
		&operator.ID,
		&operator.Email,
		&operator.Name,
		&operator.PasswordHash,
		&operator.Role,
		&operator.IsActive,
		&operator.CreatedAt,
		&operator.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOperatorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &operator, nil
}
