package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	InvoicePending   = "pending"
	InvoicePaid      = "paid"
	InvoiceCancelled = "cancelled"
)

// Invoice is the one-time conversion of a completed parking session
// into a billable, payable record. Entry/exit/amount/duration are
// copied from the session at derivation time and frozen thereafter.
type Invoice struct {
	ID               uuid.UUID       `json:"id"`
	OwnerID          uuid.UUID       `json:"owner_id"`
	ParkingSessionID uuid.UUID       `json:"parking_session_id"`
	ClientID         *uuid.UUID      `json:"client_id,omitempty"`
	InvoiceNumber    string          `json:"invoice_number"`
	EntryTime        time.Time       `json:"entry_time"`
	ExitTime         time.Time       `json:"exit_time"`
	Amount           decimal.Decimal `json:"amount"`
	DurationHours    float64         `json:"duration_hours"`
	Status           string          `json:"status"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	PaymentDate      *time.Time      `json:"payment_date,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
