package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/parkeo/internal/auth"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/config"
	"github.com/saturnino-fabrica-de-software/parkeo/internal/domain"
)

// gentoken mints an operator JWT without going through the login flow.
// Useful for local testing and for bootstrapping the first admin.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	operatorID := flag.String("id", "", "Operator id (random UUID when empty)")
	email := flag.String("email", "dev@parkeo.local", "Operator email claim")
	role := flag.String("role", domain.RoleAdmin, "Operator role: admin, operator or viewer")
	flag.Parse()

	if !domain.IsValidRole(*role) {
		return fmt.Errorf("invalid role %q", *role)
	}

	id := uuid.New()
	if *operatorID != "" {
		parsed, err := uuid.Parse(*operatorID)
		if err != nil {
			return fmt.Errorf("invalid operator id: %w", err)
		}
		id = parsed
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTTTLHours)*time.Hour)
	token, err := jwtService.GenerateToken(id, *email, *role)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	fmt.Printf("OPERATOR_ID=%s\nTOKEN=%s\n", id, token)
	return nil
}
