//go:build integration

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/database"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

var testDB *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "parkeo_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Printf("Failed to start container: %v\n", err)
		os.Exit(1)
	}

	defer func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}()

	host, _ := container.Host(ctx)
	port, _ := container.MappedPort(ctx, "5432")

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/parkeo_test?sslmode=disable", host, port.Port())

	// Run migrations through the embedded migrator
	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	migrator, err := database.NewMigrator(sqlDB, "parkeo_test")
	if err != nil {
		fmt.Printf("Failed to create migrator: %v\n", err)
		os.Exit(1)
	}
	if err := migrator.Up(); err != nil {
		fmt.Printf("Failed to run migrations: %v\n", err)
		os.Exit(1)
	}
	_ = migrator.Close()
	_ = sqlDB.Close()

	testDB, err = pgxpool.New(ctx, connStr)
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer testDB.Close()

	os.Exit(m.Run())
}

func createTestVehicle(t *testing.T, plate string) *domain.Vehicle {
	t.Helper()

	vehicle := &domain.Vehicle{
		Plate:      plate,
		OwnerScope: domain.GlobalScope,
		IsActive:   true,
	}
	require.NoError(t, NewVehicleRepository(testDB).Create(context.Background(), vehicle))
	return vehicle
}

func TestIntegration_SingleActiveSessionPerVehicle(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(testDB)
	ownerID := uuid.New()
	vehicle := createTestVehicle(t, "INT001")

	first := &domain.ParkingSession{
		OwnerID:   ownerID,
		VehicleID: vehicle.ID,
		EntryTime: time.Now(),
		Status:    domain.SessionActive,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &domain.ParkingSession{
		OwnerID:   ownerID,
		VehicleID: vehicle.ID,
		EntryTime: time.Now(),
		Status:    domain.SessionActive,
	}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, domain.ErrSessionAlreadyOpen)

	// After completing the first, a new session may open
	require.NoError(t, repo.Complete(ctx, first.ID, ownerID, time.Now(), 1.0, decimal.NewFromInt(5000)))
	require.NoError(t, repo.Create(ctx, second))
}

func TestIntegration_ConcurrentCloseSingleWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(testDB)
	ownerID := uuid.New()
	vehicle := createTestVehicle(t, "INT002")

	session := &domain.ParkingSession{
		OwnerID:   ownerID,
		VehicleID: vehicle.ID,
		EntryTime: time.Now().Add(-2 * time.Hour),
		Status:    domain.SessionActive,
	}
	require.NoError(t, repo.Create(ctx, session))

	const closers = 8
	var wg sync.WaitGroup
	errs := make([]error, closers)

	for i := 0; i < closers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Complete(ctx, session.ID, ownerID, time.Now(), 2.0, decimal.NewFromInt(10000))
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domain.ErrSessionNotActive)
		}
	}
	assert.Equal(t, 1, winners, "exactly one close must win")

	got, err := repo.GetByID(ctx, session.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, got.Status)
	require.NotNil(t, got.TotalAmount)
	assert.True(t, got.TotalAmount.Equal(decimal.NewFromInt(10000)))
}

func TestIntegration_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(testDB)
	ownerA := uuid.New()
	ownerB := uuid.New()
	vehicle := createTestVehicle(t, "INT003")

	session := &domain.ParkingSession{
		OwnerID:   ownerA,
		VehicleID: vehicle.ID,
		EntryTime: time.Now(),
		Status:    domain.SessionActive,
	}
	require.NoError(t, repo.Create(ctx, session))

	// Another account cannot see or close the session
	_, err := repo.GetByID(ctx, session.ID, ownerB)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	err = repo.Complete(ctx, session.ID, ownerB, time.Now(), 1.0, decimal.NewFromInt(5000))
	assert.ErrorIs(t, err, domain.ErrSessionNotActive)

	got, err := repo.GetByID(ctx, session.ID, ownerA)
	require.NoError(t, err)
	assert.True(t, got.IsActive())
}

func TestIntegration_InvoicePerSession(t *testing.T) {
	ctx := context.Background()
	sessionRepo := NewSessionRepository(testDB)
	invoiceRepo := NewInvoiceRepository(testDB)
	ownerID := uuid.New()
	vehicle := createTestVehicle(t, "INT004")

	session := &domain.ParkingSession{
		OwnerID:   ownerID,
		VehicleID: vehicle.ID,
		EntryTime: time.Now().Add(-time.Hour),
		Status:    domain.SessionActive,
	}
	require.NoError(t, sessionRepo.Create(ctx, session))
	require.NoError(t, sessionRepo.Complete(ctx, session.ID, ownerID, time.Now(), 1.0, decimal.NewFromInt(5000)))

	invoice := func(number string) *domain.Invoice {
		return &domain.Invoice{
			OwnerID:          ownerID,
			ParkingSessionID: session.ID,
			InvoiceNumber:    number,
			EntryTime:        session.EntryTime,
			ExitTime:         time.Now(),
			Amount:           decimal.NewFromInt(5000),
			DurationHours:    1.0,
			Status:           domain.InvoicePending,
		}
	}

	require.NoError(t, invoiceRepo.Create(ctx, invoice("INV-IT-1")))

	err := invoiceRepo.Create(ctx, invoice("INV-IT-2"))
	assert.True(t, errors.Is(err, domain.ErrInvoiceExists), "second invoice for the session must conflict")
}
