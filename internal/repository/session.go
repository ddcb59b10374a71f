package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

// Session rows are joined with vehicles/clients so list projections can
// surface the plate and client name without extra round-trips.
const sessionColumns = `
	s.id, s.owner_id, s.vehicle_id, s.client_id, s.entry_time, s.exit_time,
	s.duration_hours, s.total_amount, s.status, s.created_at, s.updated_at,
	v.plate, COALESCE(c.name, '')`

const sessionJoins = `
	FROM parking_sessions s
	INNER JOIN vehicles v ON v.id = s.vehicle_id
	LEFT JOIN clients c ON c.id = s.client_id`

type SessionRepository struct {
	pool PgxPool
}

func NewSessionRepository(pool PgxPool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.ParkingSession) error {
	query := `
		INSERT INTO parking_sessions (id, owner_id, vehicle_id, client_id, entry_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		session.ID,
		session.OwnerID,
		session.VehicleID,
		session.ClientID,
		session.EntryTime,
		session.Status,
	).Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			// idx_sessions_one_active: an active session already exists
			// for this vehicle under this account.
			return domain.ErrSessionAlreadyOpen
		}
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + sessionJoins + `
		WHERE s.id = $1 AND s.owner_id = $2`

	var session domain.ParkingSession
	err := scanSessionRow(r.pool.QueryRow(ctx, query, id, ownerID), &session)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return &session, nil
}

func (r *SessionRepository) ListActiveByVehicle(ctx context.Context, vehicleID, ownerID uuid.UUID) ([]domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + sessionJoins + `
		WHERE s.vehicle_id = $1 AND s.owner_id = $2 AND s.status = 'active'`

	return r.list(ctx, query, vehicleID, ownerID)
}

// Complete is the single atomic active→completed transition: the status
// guard in the WHERE clause makes at most one concurrent close win.
func (r *SessionRepository) Complete(ctx context.Context, id, ownerID uuid.UUID, exitTime time.Time, durationHours float64, totalAmount decimal.Decimal) error {
	query := `
		UPDATE parking_sessions
		SET exit_time = $1, duration_hours = $2, total_amount = $3, status = 'completed', updated_at = NOW()
		WHERE id = $4 AND owner_id = $5 AND status = 'active'
	`

	result, err := r.pool.Exec(ctx, query, exitTime, durationHours, totalAmount, id, ownerID)
	if err != nil {
		return fmt.Errorf("complete session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrSessionNotActive
	}

	return nil
}

func (r *SessionRepository) Cancel(ctx context.Context, id, ownerID uuid.UUID, exitTime time.Time) error {
	query := `
		UPDATE parking_sessions
		SET exit_time = $1, status = 'cancelled', updated_at = NOW()
		WHERE id = $2 AND owner_id = $3 AND status = 'active'
	`

	result, err := r.pool.Exec(ctx, query, exitTime, id, ownerID)
	if err != nil {
		return fmt.Errorf("cancel session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrSessionNotActive
	}

	return nil
}

func (r *SessionRepository) ListActive(ctx context.Context, ownerID uuid.UUID) ([]domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + sessionJoins + `
		WHERE s.owner_id = $1 AND s.status = 'active'
		ORDER BY s.entry_time ASC`

	return r.list(ctx, query, ownerID)
}

func (r *SessionRepository) ListByVehicle(ctx context.Context, vehicleID, ownerID uuid.UUID) ([]domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + sessionJoins + `
		WHERE s.vehicle_id = $1 AND s.owner_id = $2
		ORDER BY s.created_at DESC`

	return r.list(ctx, query, vehicleID, ownerID)
}

func (r *SessionRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + sessionJoins + `
		WHERE s.owner_id = $1
		ORDER BY s.created_at DESC`

	return r.list(ctx, query, ownerID)
}

func (r *SessionRepository) ListByEntryRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.ParkingSession, error) {
	query := `SELECT ` + sessionColumns + sessionJoins + `
		WHERE s.owner_id = $1 AND s.entry_time >= $2 AND s.entry_time <= $3
		ORDER BY s.entry_time ASC`

	return r.list(ctx, query, ownerID, start, end)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.ParkingSession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.ParkingSession
	for rows.Next() {
		var session domain.ParkingSession
		if err := scanSessionRow(rows, &session); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func scanSessionRow(row pgx.Row, session *domain.ParkingSession) error {
	var (
		clientID uuid.NullUUID
		exitTime sql.NullTime
		duration sql.NullFloat64
		amount   decimal.NullDecimal
	)

	err := row.Scan(
		&session.ID,
		&session.OwnerID,
		&session.VehicleID,
		&clientID,
		&session.EntryTime,
		&exitTime,
		&duration,
		&amount,
		&session.Status,
		&session.CreatedAt,
		&session.UpdatedAt,
		&session.Plate,
		&session.ClientName,
	)
	if err != nil {
		return err
	}

	if clientID.Valid {
		id := clientID.UUID
		session.ClientID = &id
	}
	if exitTime.Valid {
		t := exitTime.Time
		session.ExitTime = &t
	}
	if duration.Valid {
		d := duration.Float64
		session.DurationHours = &d
	}
	if amount.Valid {
		a := amount.Decimal
		session.TotalAmount = &a
	}

	return nil
}
