package main

import (
	"context"
	"os"
	"time"

	"barslot/internal/auth"
	"barslot/internal/bar"
	"barslot/internal/config"
	"barslot/internal/db"
	"barslot/internal/ledger"
	"barslot/internal/logger"
	"barslot/internal/user"
)

// seed inserts the sample bars and accounts, then provisions a week of slots.
// It is safe to run repeatedly.
func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	barRepo := bar.NewRepository(database)
	userRepo := user.NewRepository(database)

	s := &seeder{
		bars:  barRepo,
		users: userRepo,
		provisioner: ledger.NewService(ledger.NewRepository(database), barRepo, userRepo, nil, nil, nil, ledger.Config{
			DefaultCapacity: cfg.DefaultSlotCapacity,
			ProvisionDays:   cfg.ProvisionDays,
			TimeSlots:       cfg.ProvisionTimeSlots,
		}),
	}

	admin := seedUser{
		Name:     "Admin",
		Lastname: "BarSlot",
		Email:    envOr("SEED_ADMIN_EMAIL", "admin@barslot.app"),
		Password: envOr("SEED_ADMIN_PASSWORD", "admin12345"),
		Role:     auth.RoleAdmin,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := s.run(ctx, admin)
	if err != nil {
		logger.Fatalf("Seeding failed: %v", err)
	}

	logger.Info("Seeding completed",
		"bars_created", res.BarsCreated,
		"users_created", res.UsersCreated,
		"slots_created", res.SlotsCreated,
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
