package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClient_Validate(t *testing.T) {
	tests := []struct {
		name    string
		client  Client
		wantErr string
	}{
		{
			name: "valid hourly client",
			client: Client{
				Name:        "Acme Corp",
				Document:    "900123456-7",
				Email:       "billing@acme.test",
				BillingType: BillingHourly,
			},
		},
		{
			name: "valid monthly client with fee",
			client: Client{
				Name:        "Monthly Co",
				Document:    "800999888-1",
				BillingType: BillingMonthly,
				MonthlyFee:  decimal.NewFromInt(120000),
			},
		},
		{
			name: "empty name",
			client: Client{
				Document:    "123",
				BillingType: BillingHourly,
			},
			wantErr: "client name cannot be empty",
		},
		{
			name: "empty document",
			client: Client{
				Name:        "No Document",
				BillingType: BillingHourly,
			},
			wantErr: "client document cannot be empty",
		},
		{
			name: "invalid email",
			client: Client{
				Name:        "Bad Email",
				Document:    "123",
				Email:       "not-an-email",
				BillingType: BillingHourly,
			},
			wantErr: "invalid client email",
		},
		{
			name: "invalid billing type",
			client: Client{
				Name:        "Bad Billing",
				Document:    "123",
				BillingType: "weekly",
			},
			wantErr: "invalid billing type",
		},
		{
			name: "negative monthly fee",
			client: Client{
				Name:        "Negative Fee",
				Document:    "123",
				BillingType: BillingMonthly,
				MonthlyFee:  decimal.NewFromInt(-1),
			},
			wantErr: "monthly fee cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.client.Validate()
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestClient_IsMonthly(t *testing.T) {
	assert.True(t, (&Client{BillingType: BillingMonthly}).IsMonthly())
	assert.False(t, (&Client{BillingType: BillingHourly}).IsMonthly())
}

func TestIsValidBillingType(t *testing.T) {
	assert.True(t, IsValidBillingType(BillingHourly))
	assert.True(t, IsValidBillingType(BillingMonthly))
	assert.False(t, IsValidBillingType("weekly"))
	assert.False(t, IsValidBillingType(""))
}
