package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Billing types
const (
	BillingHourly  = "hourly"
	BillingMonthly = "monthly"
)

var validBillingTypes = map[string]bool{
	BillingHourly:  true,
	BillingMonthly: true,
}

// Client representa a contraparte de cobrança de um estacionamento
type Client struct {
	ID          uuid.UUID       `json:"id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	Name        string          `json:"name"`
	Document    string          `json:"document"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone,omitempty"`
	BillingType string          `json:"billing_type"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsMonthly reports whether the client is a flat-fee subscriber with
// zero marginal cost per visit.
func (c *Client) IsMonthly() bool {
	return c.BillingType == BillingMonthly
}

// Validate verifica se o cliente é válido
func (c *Client) Validate() error {
	if c.Name == "" {
		return errors.New("client name cannot be empty")
	}

	if c.Document == "" {
		return errors.New("client document cannot be empty")
	}

	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			return errors.New("invalid client email")
		}
	}

	if !validBillingTypes[c.BillingType] {
		return errors.New("invalid billing type")
	}

	if c.MonthlyFee.IsNegative() {
		return errors.New("monthly fee cannot be negative")
	}

	return nil
}

// IsValidBillingType verifica se o tipo de cobrança é válido
func IsValidBillingType(billingType string) bool {
	return validBillingTypes[billingType]
}
