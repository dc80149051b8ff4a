package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barslot/internal/bar"
	"barslot/internal/cache"
	"barslot/internal/config"
	"barslot/internal/db"
	"barslot/internal/email"
	"barslot/internal/events"
	"barslot/internal/ledger"
	"barslot/internal/logger"
	"barslot/internal/scheduler"
	"barslot/internal/server"
	"barslot/internal/user"
)

// @title BarSlot API
// @version 1.0
// @description Reservation ledger for bar time slots.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()
	logger.Info("Starting BarSlot application")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Warn("Redis unavailable, cache and email queue will degrade", "error", err)
	}
	defer rdb.Close()

	var sender email.Sender
	smtpClient, err := email.NewSMTPClient(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	if err != nil {
		logger.Error("SMTP client not configured, queued emails will fail", "error", err)
	} else {
		sender = smtpClient
	}
	emailService := email.New(rdb, sender, cfg.EmailFrom, cfg.EmailFromName)

	var publisher ledger.EventPublisher
	if cfg.EventsEnabled {
		rabbit := events.NewPublisher(events.Dial(cfg.RabbitMQURL))
		defer rabbit.Close()
		publisher = rabbit
		logger.Info("Reservation events enabled")
	}

	userRepo := user.NewRepository(database)
	barRepo := bar.NewRepository(database)

	ledgerService := ledger.NewService(
		ledger.NewRepository(database),
		barRepo,
		userRepo,
		emailService,
		publisher,
		cache.NewAvailability(rdb, cfg.CacheTTL),
		ledger.Config{
			DefaultCapacity: cfg.DefaultSlotCapacity,
			ProvisionDays:   cfg.ProvisionDays,
			TimeSlots:       cfg.ProvisionTimeSlots,
		},
	)

	jobs, err := scheduler.New(barRepo, ledgerService, emailService, scheduler.Config{
		ProvisionInterval: cfg.ProvisionInterval,
	})
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}

	srv := server.New(cfg, server.Deps{
		Users:  user.NewService(userRepo, cfg.JWTSecret),
		Bars:   bar.NewService(barRepo),
		Ledger: ledgerService,
		DB:     database,
		Emails: emailService,
	})

	go emailService.Start(ctx)
	jobs.Start()

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	if err := jobs.Shutdown(); err != nil {
		logger.Errorf("Error stopping scheduler: %v", err)
	}
	cancel()

	logger.Info("Server stopped")
}
