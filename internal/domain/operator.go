package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// Operator roles. The role claim is a closed enumeration; capability
// checks happen per operation, never by inspecting free-form claims.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
	RoleViewer   = "viewer"
)

var validRoles = map[string]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// Operator representa a conta autenticada dona de uma partição de dados
type Operator struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate verifica se o operador é válido
func (o *Operator) Validate() error {
	if o.Name == "" {
		return errors.New("operator name cannot be empty")
	}

	if _, err := mail.ParseAddress(o.Email); err != nil {
		return errors.New("invalid operator email")
	}

	if !validRoles[o.Role] {
		return errors.New("invalid role")
	}

	return nil
}

// IsValidRole verifica se o papel é válido
func IsValidRole(role string) bool {
	return validRoles[role]
}

// CanWrite reports whether the role may open/close sessions, derive and
// pay invoices and generate reports.
func CanWrite(role string) bool {
	return role == RoleAdmin || role == RoleOperator
}

// CanManage reports whether the role may manage clients, vehicles and
// operator accounts.
func CanManage(role string) bool {
	return role == RoleAdmin
}
