package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/auth"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

// AuthService interface for operator authentication
type AuthService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*domain.Operator, error)
	CreateOperator(ctx context.Context, input auth.RegisterInput) (*domain.Operator, error)
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

type AuthHandler struct {
	service AuthService
}

func NewAuthHandler(service AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register POST /v1/auth/register - create an operator account
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input auth.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	operator, err := h.service.Register(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(operator)
}

// CreateOperator POST /v1/operators - admin creates an account with any role
func (h *AuthHandler) CreateOperator(c *fiber.Ctx) error {
	var input auth.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	operator, err := h.service.CreateOperator(c.Context(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(operator)
}

// Login POST /v1/auth/login - exchange credentials for a token
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if req.Email == "" || req.Password == "" {
		return domain.ErrValidationFailed.WithError(errors.New("email and password are required"))
	}

	result, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(result)
}
