package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/repository"
)

// RegisterInput carries the data for a new operator account.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginResult is a successful authentication: the operator plus a
// signed session token.
type LoginResult struct {
	Operator *domain.Operator `json:"operator"`
	Token    string           `json:"token"`
}

type Service struct {
	operatorRepo repository.OperatorRepositoryInterface
	jwt          *JWTService
}

func NewService(operatorRepo repository.OperatorRepositoryInterface, jwt *JWTService) *Service {
	return &Service{operatorRepo: operatorRepo, jwt: jwt}
}

// Register creates a self-service operator account. Role defaults to
// operator and may not be admin: admin accounts are created by an
// existing admin through CreateOperator.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.Operator, error) {
	if input.Role == "" {
		input.Role = domain.RoleOperator
	}
	if input.Role == domain.RoleAdmin {
		return nil, domain.ErrForbidden.WithError(errors.New("admin accounts cannot be self-registered"))
	}

	return s.createOperator(ctx, input)
}

// CreateOperator creates an account with any valid role. Callers gate
// this behind the admin capability check.
func (s *Service) CreateOperator(ctx context.Context, input RegisterInput) (*domain.Operator, error) {
	if input.Role == "" {
		input.Role = domain.RoleOperator
	}

	return s.createOperator(ctx, input)
}

func (s *Service) createOperator(ctx context.Context, input RegisterInput) (*domain.Operator, error) {
	operator := &domain.Operator{
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Name:     input.Name,
		Role:     input.Role,
		IsActive: true,
	}

	if err := operator.Validate(); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}
	operator.PasswordHash = hash

	if err := s.operatorRepo.Create(ctx, operator); err != nil {
		return nil, err
	}

	return operator, nil
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	operator, err := s.operatorRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !operator.IsActive {
		return nil, domain.ErrInvalidCredentials
	}

	if !CheckPassword(password, operator.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(operator.ID, operator.Email, operator.Role)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResult{Operator: operator, Token: token}, nil
}
