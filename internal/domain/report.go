package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyReport is an immutable snapshot of aggregated figures for one
// calendar day. Regeneration for the same (owner, date) replaces the
// snapshot in place.
type DailyReport struct {
	ID                         uuid.UUID       `json:"id"`
	OwnerID                    uuid.UUID       `json:"owner_id"`
	ReportDate                 time.Time       `json:"report_date"`
	TotalVehicles              int             `json:"total_vehicles"`
	TotalRevenue               decimal.Decimal `json:"total_revenue"`
	MonthlySubscriptionRevenue decimal.Decimal `json:"monthly_subscription_revenue"`
	HoursOpen                  int             `json:"hours_open"`
	Details                    string          `json:"details,omitempty"`
	CreatedAt                  time.Time       `json:"created_at"`
}

// MonthlyReport is the calendar-month counterpart of DailyReport.
type MonthlyReport struct {
	ID                         uuid.UUID       `json:"id"`
	OwnerID                    uuid.UUID       `json:"owner_id"`
	Month                      int             `json:"month"`
	Year                       int             `json:"year"`
	TotalVehicles              int             `json:"total_vehicles"`
	TotalRevenue               decimal.Decimal `json:"total_revenue"`
	MonthlySubscriptionRevenue decimal.Decimal `json:"monthly_subscription_revenue"`
	AverageRevenuePerVehicle   decimal.Decimal `json:"average_revenue_per_vehicle"`
	Details                    string          `json:"details,omitempty"`
	CreatedAt                  time.Time       `json:"created_at"`
}
