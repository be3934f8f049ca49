package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ledgerly/internal/auth"
	"ledgerly/internal/config"
	apphttp "ledgerly/internal/http"
	"ledgerly/internal/log"
	"ledgerly/internal/session"
	"ledgerly/internal/storage"
)

func main() {
	// Local development convenience; in production the environment is set
	// by the deployment.
	_ = godotenv.Load()

	logger := log.New(log.Config{})
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", log.FieldError, err)
		os.Exit(1)
	}

	connectCtx, connectCancel := context.WithTimeout(context.Background(), 15*time.Second)
	client, err := storage.Connect(connectCtx, cfg.MongoURI)
	connectCancel()
	if err != nil {
		logger.Error("Failed to connect to MongoDB", log.FieldError, err, log.FieldOperation, log.OpStartup)
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("MongoDB disconnect error", log.FieldError, err)
		}
	}()

	provider := storage.NewMongoProvider(client, cfg.MongoDB)
	stores := session.Stores{
		Transactions: storage.NewTransactionStore(provider, logger),
		Bills:        storage.NewBillStore(provider, logger),
		Reminders:    storage.NewReminderStore(provider, logger),
	}

	authSvc := auth.NewService(storage.NewUserStore(provider), logger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	sessions := session.NewManager(stores, cfg.UpcomingWindowDays, logger)
	unsubscribe := sessions.Attach(authSvc)
	defer unsubscribe()

	srv := apphttp.NewServer(apphttp.Options{
		Addr:               ":" + cfg.Port,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		UpcomingWindowDays: cfg.UpcomingWindowDays,
	}, apphttp.Dependencies{
		Auth:     authSvc,
		Tokens:   tokens,
		Sessions: sessions,
		Stores:   stores,
		Logger:   logger,
	})

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String(), log.FieldOperation, log.OpShutdown)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting ledgerly server", "port", cfg.Port, "db", cfg.MongoDB, log.FieldOperation, log.OpStartup)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
