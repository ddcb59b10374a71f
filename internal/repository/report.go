package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

type ReportRepository struct {
	pool PgxPool
}

func NewReportRepository(pool PgxPool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// UpsertDaily stores a daily snapshot, replacing any previous snapshot
// for the same (owner, date). Regenerating a report never duplicates rows.
func (r *ReportRepository) UpsertDaily(ctx context.Context, report *domain.DailyReport) error {
	query := `
		INSERT INTO daily_reports (
			id, owner_id, report_date, total_vehicles, total_revenue,
			monthly_subscription_revenue, hours_open, details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_id, report_date)
		DO UPDATE SET
			total_vehicles = EXCLUDED.total_vehicles,
			total_revenue = EXCLUDED.total_revenue,
			monthly_subscription_revenue = EXCLUDED.monthly_subscription_revenue,
			hours_open = EXCLUDED.hours_open,
			details = EXCLUDED.details
		RETURNING id, created_at
	`

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		report.ID,
		report.OwnerID,
		report.ReportDate,
		report.TotalVehicles,
		report.TotalRevenue,
		report.MonthlySubscriptionRevenue,
		report.HoursOpen,
		report.Details,
	).Scan(&report.ID, &report.CreatedAt)

	if err != nil {
		return fmt.Errorf("upsert daily report: %w", err)
	}

	return nil
}

// UpsertMonthly stores a monthly snapshot keyed by (owner, month, year).
func (r *ReportRepository) UpsertMonthly(ctx context.Context, report *domain.MonthlyReport) error {
	query := `
		INSERT INTO monthly_reports (
			id, owner_id, month, year, total_vehicles, total_revenue,
			monthly_subscription_revenue, average_revenue_per_vehicle, details
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (owner_id, month, year)
		DO UPDATE SET
			total_vehicles = EXCLUDED.total_vehicles,
			total_revenue = EXCLUDED.total_revenue,
			monthly_subscription_revenue = EXCLUDED.monthly_subscription_revenue,
			average_revenue_per_vehicle = EXCLUDED.average_revenue_per_vehicle,
			details = EXCLUDED.details
		RETURNING id, created_at
	`

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	err := r.pool.QueryRow(ctx, query,
		report.ID,
		report.OwnerID,
		report.Month,
		report.Year,
		report.TotalVehicles,
		report.TotalRevenue,
		report.MonthlySubscriptionRevenue,
		report.AverageRevenuePerVehicle,
		report.Details,
	).Scan(&report.ID, &report.CreatedAt)

	if err != nil {
		return fmt.Errorf("upsert monthly report: %w", err)
	}

	return nil
}

func (r *ReportRepository) ListDaily(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.DailyReport, error) {
	query := `
		SELECT id, owner_id, report_date, total_vehicles, total_revenue,
		       monthly_subscription_revenue, hours_open, COALESCE(details, ''), created_at
		FROM daily_reports
		WHERE owner_id = $1 AND report_date >= $2 AND report_date <= $3
		ORDER BY report_date DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list daily reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.DailyReport
	for rows.Next() {
		var report domain.DailyReport
		err := rows.Scan(
			&report.ID,
			&report.OwnerID,
			&report.ReportDate,
			&report.TotalVehicles,
			&report.TotalRevenue,
			&report.MonthlySubscriptionRevenue,
			&report.HoursOpen,
			&report.Details,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan daily report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}

func (r *ReportRepository) ListMonthly(ctx context.Context, ownerID uuid.UUID, year int) ([]domain.MonthlyReport, error) {
	query := `
		SELECT id, owner_id, month, year, total_vehicles, total_revenue,
		       monthly_subscription_revenue, average_revenue_per_vehicle,
		       COALESCE(details, ''), created_at
		FROM monthly_reports
		WHERE owner_id = $1 AND year = $2
		ORDER BY month ASC
	`

	rows, err := r.pool.Query(ctx, query, ownerID, year)
	if err != nil {
		return nil, fmt.Errorf("list monthly reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.MonthlyReport
	for rows.Next() {
		var report domain.MonthlyReport
		err := rows.Scan(
			&report.ID,
			&report.OwnerID,
			&report.Month,
			&report.Year,
			&report.TotalVehicles,
			&report.TotalRevenue,
			&report.MonthlySubscriptionRevenue,
			&report.AverageRevenuePerVehicle,
			&report.Details,
			&report.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan monthly report: %w", err)
		}
		reports = append(reports, report)
	}

	return reports, rows.Err()
}
