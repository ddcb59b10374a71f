package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

type VehicleRepository struct {
	pool PgxPool
}

func NewVehicleRepository(pool PgxPool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, plate, brand, color, owner, owner_scope, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		vehicle.ID,
		vehicle.Plate,
		vehicle.Brand,
		vehicle.Color,
		vehicle.Owner,
		vehicle.OwnerScope,
		vehicle.IsActive,
	).Scan(&vehicle.CreatedAt, &vehicle.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			// Lost a create race for the same plate; the caller re-reads.
			return domain.ErrBadRequest.WithError(err)
		}
		return fmt.Errorf("create vehicle: %w", err)
	}

	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	query := `
		SELECT id, plate, brand, color, COALESCE(owner, ''), owner_scope, is_active, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get vehicle by id")
}

func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string, scope uuid.UUID) (*domain.Vehicle, error) {
	query := `
		SELECT id, plate, brand, color, COALESCE(owner, ''), owner_scope, is_active, created_at, updated_at
		FROM vehicles
		WHERE plate = $1 AND owner_scope = $2
	`

	return r.scanOne(r.pool.QueryRow(ctx, query, plate, scope), "get vehicle by plate")
}

func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET brand = $1, color = $2, owner = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.pool.Exec(ctx, query,
		vehicle.Brand,
		vehicle.Color,
		vehicle.Owner,
		vehicle.IsActive,
		vehicle.ID,
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *VehicleRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE vehicles
		SET is_active = false, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deactivate vehicle: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *VehicleRepository) scanOne(row pgx.Row, op string) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle

	err := row.Scan(
		&vehicle.ID,
		&vehicle.Plate,
		&vehicle.Brand,
		&vehicle.Color,
		&vehicle.Owner,
		&vehicle.OwnerScope,
		&vehicle.IsActive,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &vehicle, nil
}
