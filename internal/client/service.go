package client

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/repository"
)

// Input carries the writable client fields.
type Input struct {
	Name        string          `json:"name"`
	Document    string          `json:"document"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	BillingType string          `json:"billing_type"`
	MonthlyFee  decimal.Decimal `json:"monthly_fee"`
}

type Service struct {
	clientRepo repository.ClientRepositoryInterface
}

func NewService(clientRepo repository.ClientRepositoryInterface) *Service {
	return &Service{clientRepo: clientRepo}
}

// Create registers a billing client. The document is unique per account.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input Input) (*domain.Client, error) {
	client := &domain.Client{
		OwnerID:     ownerID,
		Name:        input.Name,
		Document:    input.Document,
		Email:       input.Email,
		Phone:       input.Phone,
		BillingType: input.BillingType,
		MonthlyFee:  input.MonthlyFee,
		IsActive:    true,
	}

	if err := client.Validate(); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

func (s *Service) Get(ctx context.Context, clientID, ownerID uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.GetByID(ctx, clientID, ownerID)
}

func (s *Service) GetByDocument(ctx context.Context, document string, ownerID uuid.UUID) (*domain.Client, error) {
	return s.clientRepo.GetByDocument(ctx, document, ownerID)
}

func (s *Service) ListActive(ctx context.Context, ownerID uuid.UUID) ([]domain.Client, error) {
	return s.clientRepo.ListActive(ctx, ownerID)
}

// Update rewrites the client's writable fields. Changing the document to
// one already registered under the account is a conflict.
func (s *Service) Update(ctx context.Context, clientID, ownerID uuid.UUID, input Input) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Document != client.Document {
		existing, err := s.clientRepo.GetByDocument(ctx, input.Document, ownerID)
		if err != nil && !errors.Is(err, domain.ErrClientNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrClientExists
		}
	}

	client.Name = input.Name
	client.Document = input.Document
	client.Email = input.Email
	client.Phone = input.Phone
	client.BillingType = input.BillingType
	client.MonthlyFee = input.MonthlyFee

	if err := client.Validate(); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// Deactivate soft-deletes a client. History referencing the client is
// kept intact.
func (s *Service) Deactivate(ctx context.Context, clientID, ownerID uuid.UUID) error {
	return s.clientRepo.Deactivate(ctx, clientID, ownerID)
}
