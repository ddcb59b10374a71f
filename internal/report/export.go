package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

// Sheet is one logical table of an export: a named grid with a header
// row. Renderers decide the physical format.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Export is a renderable report: a summary sheet plus a session detail
// sheet.
type Export struct {
	Title  string
	Sheets []Sheet
}

// Renderer turns a logical export into bytes in some spreadsheet
// format.
type Renderer interface {
	Render(export *Export) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// BuildDailyExport recomputes one day and lays it out as summary plus
// per-session detail.
func (s *Service) BuildDailyExport(ctx context.Context, ownerID uuid.UUID, date time.Time) (*Export, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)

	agg, err := s.aggregateRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	summary := Sheet{
		Name:   "Summary",
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Date", start.Format("2006-01-02")},
			{"Total Vehicles", fmt.Sprintf("%d", agg.totalVehicles)},
			{"Total Revenue", agg.totalRevenue.String()},
			{"Subscription Revenue", agg.subscriptionRevenue.String()},
			{"Hours Open", fmt.Sprintf("%d", hoursOpenPerDay)},
		},
	}

	return &Export{
		Title:  fmt.Sprintf("daily-report-%s", start.Format("2006-01-02")),
		Sheets: []Sheet{summary, sessionSheet(agg.sessions)},
	}, nil
}

// BuildMonthlyExport recomputes one month and lays it out the same way.
func (s *Service) BuildMonthlyExport(ctx context.Context, ownerID uuid.UUID, month, year int) (*Export, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrValidationFailed.WithError(fmt.Errorf("month %d out of range", month))
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	agg, err := s.aggregateRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	average := "0"
	if agg.totalVehicles > 0 {
		average = agg.totalRevenue.DivRound(decimal.NewFromInt(int64(agg.totalVehicles)), 2).String()
	}

	summary := Sheet{
		Name:   "Summary",
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Period", fmt.Sprintf("%04d-%02d", year, month)},
			{"Total Vehicles", fmt.Sprintf("%d", agg.totalVehicles)},
			{"Total Revenue", agg.totalRevenue.String()},
			{"Subscription Revenue", agg.subscriptionRevenue.String()},
			{"Average Revenue Per Vehicle", average},
		},
	}

	return &Export{
		Title:  fmt.Sprintf("monthly-report-%04d-%02d", year, month),
		Sheets: []Sheet{summary, sessionSheet(agg.sessions)},
	}, nil
}

func sessionSheet(sessions []domain.ParkingSession) Sheet {
	sheet := Sheet{
		Name:   "Sessions",
		Header: []string{"Plate", "Entry Time", "Exit Time", "Duration (h)", "Amount", "Client", "Status"},
	}

	for _, session := range sessions {
		exitTime := ""
		if session.ExitTime != nil {
			exitTime = session.ExitTime.Format(time.RFC3339)
		}
		duration := ""
		if session.DurationHours != nil {
			duration = fmt.Sprintf("%.2f", *session.DurationHours)
		}
		amount := ""
		if session.TotalAmount != nil {
			amount = session.TotalAmount.String()
		}

		sheet.Rows = append(sheet.Rows, []string{
			session.Plate,
			session.EntryTime.Format(time.RFC3339),
			exitTime,
			duration,
			amount,
			session.ClientName,
			session.Status,
		})
	}

	return sheet
}

// CSVRenderer writes each sheet as a CSV section separated by a blank
// line, a portable fallback for spreadsheet tools.
type CSVRenderer struct{}

func (CSVRenderer) Render(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	for i, sheet := range export.Sheets {
		if i > 0 {
			buf.WriteString("\n")
		}
		if err := writer.Write([]string{sheet.Name}); err != nil {
			return nil, fmt.Errorf("render sheet %s: %w", sheet.Name, err)
		}
		if err := writer.Write(sheet.Header); err != nil {
			return nil, fmt.Errorf("render sheet %s: %w", sheet.Name, err)
		}
		for _, row := range sheet.Rows {
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("render sheet %s: %w", sheet.Name, err)
			}
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return nil, fmt.Errorf("render sheet %s: %w", sheet.Name, err)
		}
	}

	return buf.Bytes(), nil
}

func (CSVRenderer) ContentType() string {
	return "text/csv"
}

func (CSVRenderer) FileExtension() string {
	return "csv"
}
