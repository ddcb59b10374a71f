package billing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

// DefaultHourlyRate is charged when an account has no configured rate.
var DefaultHourlyRate = decimal.NewFromInt(5000)

// Policy computes the charge for a closed parking session.
//
// Hourly billing rounds the stay up to whole hours (any started hour is
// billed in full). Monthly clients pay a flat subscription and owe nothing
// per session.
type Policy struct {
	hourlyRate decimal.Decimal
}

func NewPolicy(hourlyRate decimal.Decimal) *Policy {
	if hourlyRate.LessThanOrEqual(decimal.Zero) {
		hourlyRate = DefaultHourlyRate
	}
	return &Policy{hourlyRate: hourlyRate}
}

func (p *Policy) HourlyRate() decimal.Decimal {
	return p.hourlyRate
}

// Quote is the outcome of pricing a session.
type Quote struct {
	// DurationHours is the raw stay length in hours, rounded to two decimals.
	DurationHours float64
	// BilledHours is the ceiling of the raw duration, the unit actually charged.
	BilledHours int64
	Amount      decimal.Decimal
}

// Price computes the quote for a stay between entry and exit.
//
// A monthly client yields a zero amount with the real duration preserved,
// so reports still see how long the vehicle stayed.
func (p *Policy) Price(entry, exit time.Time, client *domain.Client) (Quote, error) {
	if exit.Before(entry) {
		return Quote{}, domain.ErrExitBeforeEntry
	}

	rawHours := exit.Sub(entry).Hours()
	quote := Quote{
		DurationHours: math.Round(rawHours*100) / 100,
		BilledHours:   int64(math.Ceil(rawHours)),
	}

	if client != nil && client.IsMonthly() {
		quote.Amount = decimal.Zero
		return quote, nil
	}

	quote.Amount = p.hourlyRate.Mul(decimal.NewFromInt(quote.BilledHours))
	return quote, nil
}
