package parking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/billing"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/repository"
)

// EntryInput carries the data recorded at the gate when a vehicle enters.
type EntryInput struct {
	Plate     string     `json:"plate"`
	Brand     string     `json:"brand"`
	Color     string     `json:"color"`
	Owner     string     `json:"owner"`
	ClientID  *uuid.UUID `json:"client_id"`
	EntryTime *time.Time `json:"entry_time"`
}

type Service struct {
	sessionRepo  repository.SessionRepositoryInterface
	vehicleRepo  repository.VehicleRepositoryInterface
	clientRepo   repository.ClientRepositoryInterface
	policy       *billing.Policy
	vehicleScope string
}

func NewService(
	sessionRepo repository.SessionRepositoryInterface,
	vehicleRepo repository.VehicleRepositoryInterface,
	clientRepo repository.ClientRepositoryInterface,
	policy *billing.Policy,
	vehicleScope string,
) *Service {
	return &Service{
		sessionRepo:  sessionRepo,
		vehicleRepo:  vehicleRepo,
		clientRepo:   clientRepo,
		policy:       policy,
		vehicleScope: vehicleScope,
	}
}

// scope maps an account to its vehicle partition. Under global scoping
// all accounts share one plate namespace.
func (s *Service) scope(ownerID uuid.UUID) uuid.UUID {
	if s.vehicleScope == domain.VehicleScopeAccount {
		return ownerID
	}
	return domain.GlobalScope
}

// OpenSession registers a vehicle entry. The vehicle is created on first
// sight of its plate; a vehicle with an active session cannot enter again.
func (s *Service) OpenSession(ctx context.Context, ownerID uuid.UUID, input EntryInput) (*domain.ParkingSession, error) {
	if err := domain.ValidatePlate(input.Plate); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	if input.ClientID != nil {
		client, err := s.clientRepo.GetByID(ctx, *input.ClientID, ownerID)
		if err != nil {
			return nil, err
		}
		if !client.IsActive {
			return nil, domain.ErrClientInactive
		}
	}

	vehicle, err := s.resolveVehicle(ctx, ownerID, input)
	if err != nil {
		return nil, err
	}

	entryTime := time.Now()
	if input.EntryTime != nil {
		entryTime = *input.EntryTime
	}

	session := &domain.ParkingSession{
		OwnerID:   ownerID,
		VehicleID: vehicle.ID,
		ClientID:  input.ClientID,
		EntryTime: entryTime,
		Status:    domain.SessionActive,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	session.Plate = vehicle.Plate
	return session, nil
}

// resolveVehicle finds the plate in the configured scope, creating the
// vehicle record on first entry. A concurrent create for the same plate
// is resolved by re-reading.
func (s *Service) resolveVehicle(ctx context.Context, ownerID uuid.UUID, input EntryInput) (*domain.Vehicle, error) {
	scope := s.scope(ownerID)

	vehicle, err := s.vehicleRepo.GetByPlate(ctx, input.Plate, scope)
	if err == nil {
		if !vehicle.IsActive {
			return nil, domain.ErrVehicleNotFound.WithError(fmt.Errorf("vehicle %s is deactivated", input.Plate))
		}
		return vehicle, nil
	}
	if !errors.Is(err, domain.ErrVehicleNotFound) {
		return nil, err
	}

	vehicle = &domain.Vehicle{
		Plate:      input.Plate,
		Brand:      orUnknown(input.Brand),
		Color:      orUnknown(input.Color),
		Owner:      input.Owner,
		OwnerScope: scope,
		IsActive:   true,
	}

	err = s.vehicleRepo.Create(ctx, vehicle)
	if err == nil {
		return vehicle, nil
	}
	if errors.Is(err, domain.ErrBadRequest) {
		return s.vehicleRepo.GetByPlate(ctx, input.Plate, scope)
	}

	return nil, err
}

// CloseSession completes an active session: prices the stay and performs
// the atomic active→completed transition. Only the transition winner
// returns the priced session.
func (s *Service) CloseSession(ctx context.Context, sessionID, ownerID uuid.UUID, exitTime time.Time) (*domain.ParkingSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, domain.ErrSessionNotActive
	}

	if exitTime.IsZero() {
		exitTime = time.Now()
	}

	var client *domain.Client
	if session.ClientID != nil {
		client, err = s.clientRepo.GetByID(ctx, *session.ClientID, ownerID)
		if err != nil {
			return nil, err
		}
	}

	quote, err := s.policy.Price(session.EntryTime, exitTime, client)
	if err != nil {
		return nil, err
	}

	err = s.sessionRepo.Complete(ctx, sessionID, ownerID, exitTime, quote.DurationHours, quote.Amount)
	if err != nil {
		return nil, err
	}

	return s.sessionRepo.GetByID(ctx, sessionID, ownerID)
}

// CloseSessionByPlate closes the single active session for a plate, the
// common flow at the exit gate where only the plate is known.
func (s *Service) CloseSessionByPlate(ctx context.Context, ownerID uuid.UUID, plate string, exitTime time.Time) (*domain.ParkingSession, error) {
	if err := domain.ValidatePlate(plate); err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	vehicle, err := s.vehicleRepo.GetByPlate(ctx, plate, s.scope(ownerID))
	if err != nil {
		if errors.Is(err, domain.ErrVehicleNotFound) {
			return nil, domain.ErrNoActiveSession
		}
		return nil, err
	}

	active, err := s.sessionRepo.ListActiveByVehicle(ctx, vehicle.ID, ownerID)
	if err != nil {
		return nil, err
	}

	switch len(active) {
	case 0:
		return nil, domain.ErrNoActiveSession
	case 1:
		return s.CloseSession(ctx, active[0].ID, ownerID, exitTime)
	default:
		// More than one active session for a vehicle means the invariant
		// was violated outside this service; refuse to guess which to close.
		return nil, domain.ErrSessionStateConflict.WithError(
			fmt.Errorf("vehicle %s has %d active sessions", plate, len(active)),
		)
	}
}

// CancelSession voids an active session without billing. Used when an
// entry was registered by mistake.
func (s *Service) CancelSession(ctx context.Context, sessionID, ownerID uuid.UUID) (*domain.ParkingSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, domain.ErrSessionNotActive
	}

	if err := s.sessionRepo.Cancel(ctx, sessionID, ownerID, time.Now()); err != nil {
		return nil, err
	}

	return s.sessionRepo.GetByID(ctx, sessionID, ownerID)
}

func (s *Service) GetSession(ctx context.Context, sessionID, ownerID uuid.UUID) (*domain.ParkingSession, error) {
	return s.sessionRepo.GetByID(ctx, sessionID, ownerID)
}

func (s *Service) ListActive(ctx context.Context, ownerID uuid.UUID) ([]domain.ParkingSession, error) {
	return s.sessionRepo.ListActive(ctx, ownerID)
}

func (s *Service) ListAll(ctx context.Context, ownerID uuid.UUID) ([]domain.ParkingSession, error) {
	return s.sessionRepo.ListAll(ctx, ownerID)
}

// ListByPlate returns the full session history for a plate.
func (s *Service) ListByPlate(ctx context.Context, ownerID uuid.UUID, plate string) ([]domain.ParkingSession, error) {
	vehicle, err := s.vehicleRepo.GetByPlate(ctx, plate, s.scope(ownerID))
	if err != nil {
		return nil, err
	}

	return s.sessionRepo.ListByVehicle(ctx, vehicle.ID, ownerID)
}

// VehicleInput carries the editable fields of a vehicle record. Empty
// fields keep their current value.
type VehicleInput struct {
	Brand string `json:"brand"`
	Color string `json:"color"`
	Owner string `json:"owner"`
}

// UpdateVehicle fills in vehicle details recorded after the fact, e.g.
// brand and color observed at the gate.
func (s *Service) UpdateVehicle(ctx context.Context, ownerID uuid.UUID, plate string, input VehicleInput) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByPlate(ctx, plate, s.scope(ownerID))
	if err != nil {
		return nil, err
	}

	if input.Brand != "" {
		vehicle.Brand = input.Brand
	}
	if input.Color != "" {
		vehicle.Color = input.Color
	}
	if input.Owner != "" {
		vehicle.Owner = input.Owner
	}

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// DeactivateVehicle blocks a plate from entering. Session history stays.
func (s *Service) DeactivateVehicle(ctx context.Context, ownerID uuid.UUID, plate string) error {
	vehicle, err := s.vehicleRepo.GetByPlate(ctx, plate, s.scope(ownerID))
	if err != nil {
		return err
	}

	return s.vehicleRepo.Deactivate(ctx, vehicle.ID)
}

func orUnknown(v string) string {
	if v == "" {
		return "Unknown"
	}
	return v
}
