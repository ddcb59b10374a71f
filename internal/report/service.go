package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/repository"
)

const hoursOpenPerDay = 24

type Service struct {
	reportRepo  repository.ReportRepositoryInterface
	sessionRepo repository.SessionRepositoryInterface
	clientRepo  repository.ClientRepositoryInterface
}

func NewService(
	reportRepo repository.ReportRepositoryInterface,
	sessionRepo repository.SessionRepositoryInterface,
	clientRepo repository.ClientRepositoryInterface,
) *Service {
	return &Service{
		reportRepo:  reportRepo,
		sessionRepo: sessionRepo,
		clientRepo:  clientRepo,
	}
}

// aggregate holds figures computed over one set of sessions.
type aggregate struct {
	totalVehicles       int
	totalRevenue        decimal.Decimal
	subscriptionRevenue decimal.Decimal
	sessions            []domain.ParkingSession
}

// GenerateDaily aggregates one calendar day, bounded by [00:00, 23:59:59.999999999]
// in the date's location, and stores the snapshot. Re-running replaces
// the previous snapshot for the same day.
func (s *Service) GenerateDaily(ctx context.Context, ownerID uuid.UUID, date time.Time) (*domain.DailyReport, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)

	agg, err := s.aggregateRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	report := &domain.DailyReport{
		OwnerID:                    ownerID,
		ReportDate:                 start,
		TotalVehicles:              agg.totalVehicles,
		TotalRevenue:               agg.totalRevenue,
		MonthlySubscriptionRevenue: agg.subscriptionRevenue,
		HoursOpen:                  hoursOpenPerDay,
		Details:                    fmt.Sprintf("Daily report for %s", start.Format("2006-01-02")),
	}

	if err := s.reportRepo.UpsertDaily(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// GenerateMonthly aggregates one calendar month and stores the snapshot.
func (s *Service) GenerateMonthly(ctx context.Context, ownerID uuid.UUID, month, year int) (*domain.MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("month %d out of range", month))
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	agg, err := s.aggregateRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	average := decimal.Zero
	if agg.totalVehicles > 0 {
		average = agg.totalRevenue.Div(decimal.NewFromInt(int64(agg.totalVehicles))).Round(2)
	}

	report := &domain.MonthlyReport{
		OwnerID:                    ownerID,
		Month:                      month,
		Year:                       year,
		TotalVehicles:              agg.totalVehicles,
		TotalRevenue:               agg.totalRevenue,
		MonthlySubscriptionRevenue: agg.subscriptionRevenue,
		AverageRevenuePerVehicle:   average,
		Details:                    fmt.Sprintf("Monthly report for %04d-%02d", year, month),
	}

	if err := s.reportRepo.UpsertMonthly(ctx, report); err != nil {
		return nil, err
	}

	return report, nil
}

// aggregateRange computes the report figures for sessions whose entry
// falls inside [start, end]. Vehicles are counted once no matter how
// many sessions they had; open sessions count as vehicles but add no
// revenue yet.
func (s *Service) aggregateRange(ctx context.Context, ownerID uuid.UUID, start, end time.Time) (*aggregate, error) {
	sessions, err := s.sessionRepo.ListByEntryRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	vehicles := make(map[uuid.UUID]struct{})
	monthlyClients := make(map[uuid.UUID]struct{})
	totalRevenue := decimal.Zero

	for _, session := range sessions {
		if session.Status == domain.SessionCancelled {
			continue
		}
		vehicles[session.VehicleID] = struct{}{}
		totalRevenue = totalRevenue.Add(session.RevenueAmount())

		if session.ClientID != nil {
			monthlyClients[*session.ClientID] = struct{}{}
		}
	}

	subscription, err := s.subscriptionRevenue(ctx, ownerID, monthlyClients)
	if err != nil {
		return nil, err
	}

	return &aggregate{
		totalVehicles:       len(vehicles),
		totalRevenue:        totalRevenue,
		subscriptionRevenue: subscription,
		sessions:            sessions,
	}, nil
}

// subscriptionRevenue sums the monthly fee of each distinct monthly
// client that parked in the period. Hourly clients referenced by
// sessions contribute nothing here.
func (s *Service) subscriptionRevenue(ctx context.Context, ownerID uuid.UUID, clientIDs map[uuid.UUID]struct{}) (decimal.Decimal, error) {
	if len(clientIDs) == 0 {
		return decimal.Zero, nil
	}

	monthly, err := s.clientRepo.ListMonthly(ctx, ownerID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, client := range monthly {
		if _, ok := clientIDs[client.ID]; ok {
			total = total.Add(client.MonthlyFee)
		}
	}

	return total, nil
}

func (s *Service) ListDaily(ctx context.Context, ownerID uuid.UUID, start, end time.Time) ([]domain.DailyReport, error) {
	if end.Before(start) {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("end date before start date"))
	}
	return s.reportRepo.ListDaily(ctx, ownerID, start, end)
}

func (s *Service) ListMonthly(ctx context.Context, ownerID uuid.UUID, year int) ([]domain.MonthlyReport, error) {
	return s.reportRepo.ListMonthly(ctx, ownerID, year)
}
