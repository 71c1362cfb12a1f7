package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "drivoro-backend/internal/api/http"
	"drivoro-backend/internal/config"
	"drivoro-backend/internal/logger"
	"drivoro-backend/internal/payment"
	"drivoro-backend/internal/ratelimit"
	"drivoro-backend/internal/repository/postgres"
	"drivoro-backend/internal/security"
	"drivoro-backend/internal/service"

	_ "github.com/lib/pq"
)

// Password change attempts allowed per user per window.
const (
	passwordChangeLimit  = 3
	passwordChangeWindow = 15 * time.Minute
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Drivoro Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute,
	)
	passwordLimiter := ratelimit.NewRedisLimiter(redisClient, "drivoro", passwordChangeLimit, passwordChangeWindow)

	// Initialize Payment Gateway
	gateway := payment.NewStripeGateway(cfg.Stripe.APIKey)

	// Initialize Email Service
	emailSvc := service.NewSendGridEmailService(
		cfg.SendGrid.APIKey,
		cfg.SendGrid.FromEmail,
		cfg.SendGrid.FromName,
		cfg.SendGrid.AdminEmail,
	)

	// Initialize Services
	authSvc := service.NewAuthService(store.Users, tokenManager, passwordLimiter)
	carSvc := service.NewCarService(store.Cars)
	bookingSvc := service.NewBookingService(
		store.Bookings,
		store.Cars,
		store.Charges,
		store.Users,
		store.Notifications,
		gateway,
		emailSvc,
	)
	chargeSvc := service.NewChargeService(
		store.Charges,
		store.Bookings,
		store.Users,
		gateway,
		emailSvc,
	)
	claimSvc := service.NewClaimService(
		store.Claims,
		store.Bookings,
		store.Users,
		store.Notifications,
		emailSvc,
	)
	adminSvc := service.NewAdminService(
		store.HostApplications,
		store.Users,
		store.Notifications,
		emailSvc,
	)
	noteSvc := service.NewNotificationService(store.Notifications, store.Messages)

	// Set up HTTP router
	router := httpapi.NewRouter(httpapi.Services{
		Auth:          authSvc,
		Cars:          carSvc,
		Bookings:      bookingSvc,
		Charges:       chargeSvc,
		Claims:        claimSvc,
		Admin:         adminSvc,
		Notifications: noteSvc,
	}, tokenManager)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to serve HTTP", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown: drain in-flight requests before exiting.
	logger.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}
