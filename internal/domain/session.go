package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session statuses. active → completed and active → cancelled are the
// only legal transitions; both are terminal.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// ParkingSession is one parking-lot visit by a vehicle, bounded by
// entry and exit events. DurationHours and TotalAmount are set exactly
// once, at the active→completed transition, and never recomputed.
type ParkingSession struct {
	ID            uuid.UUID        `json:"id"`
	OwnerID       uuid.UUID        `json:"owner_id"`
	VehicleID     uuid.UUID        `json:"vehicle_id"`
	ClientID      *uuid.UUID       `json:"client_id,omitempty"`
	EntryTime     time.Time        `json:"entry_time"`
	ExitTime      *time.Time       `json:"exit_time,omitempty"`
	DurationHours *float64         `json:"duration_hours,omitempty"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
	Status        string           `json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Populated by list projections, not stored on the session row.
	Plate      string `json:"plate,omitempty"`
	ClientName string `json:"client_name,omitempty"`
}

// IsActive reports whether the session is still open.
func (s *ParkingSession) IsActive() bool {
	return s.Status == SessionActive
}

// RevenueAmount returns the billed amount, zero while the session is
// still open.
func (s *ParkingSession) RevenueAmount() decimal.Decimal {
	if s.TotalAmount == nil {
		return decimal.Zero
	}
	return *s.TotalAmount
}
