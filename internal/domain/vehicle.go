package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Vehicle scoping policies
const (
	VehicleScopeGlobal  = "global"
	VehicleScopeAccount = "account"
)

var plateRegex = regexp.MustCompile(`^[A-Za-z0-9-]{2,12}$`)

// GlobalScope is the owner_scope value used when vehicles are shared
// across accounts. A dedicated sentinel keeps the (plate, owner_scope)
// uniqueness constraint valid under either scoping policy.
var GlobalScope = uuid.Nil

// Vehicle identifies a physical vehicle by its plate. Created lazily on
// first entry registration; never deleted, only deactivated.
type Vehicle struct {
	ID         uuid.UUID `json:"id"`
	Plate      string    `json:"plate"`
	Brand      string    `json:"brand"`
	Color      string    `json:"color"`
	Owner      string    `json:"owner,omitempty"`
	OwnerScope uuid.UUID `json:"-"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsValidVehicleScope verifica se a política de escopo é válida
func IsValidVehicleScope(scope string) bool {
	return scope == VehicleScopeGlobal || scope == VehicleScopeAccount
}

// ValidatePlate checks the plate token. Plates are case-sensitive and
// stored exactly as received.
func ValidatePlate(plate string) error {
	if plate == "" {
		return errors.New("plate cannot be empty")
	}
	if !plateRegex.MatchString(plate) {
		return errors.New("plate must be 2-12 alphanumeric characters")
	}
	return nil
}
