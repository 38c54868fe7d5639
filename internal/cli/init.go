// Package cli provides common binary initialization utilities.
// This package consolidates the bootstrap sequence shared by
// cmd/wallet and cmd/taskpanel.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"wallet/internal/backend"
	"wallet/internal/config"
	"wallet/internal/log"
	"wallet/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging for the named binary and sets
// it as the process default. The level comes from LOG_LEVEL.
func SetupLogger(component string) *log.Logger {
	logger := log.New(log.ParseLevel(os.Getenv("LOG_LEVEL")), component)
	log.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenBackend builds the persistence gateway named by the config.
// Returns the gateway and its cleanup, or exits the process on failure.
func OpenBackend(logger *log.Logger, cfg *config.Config) *backend.Result {
	factory := backend.NewFactory(logger.Logger)
	res, err := factory.CreateGateway(backend.Config{
		Type:         backend.Type(cfg.DataBackend),
		DataFile:     cfg.DataFile(),
		Variant:      storage.Variant(cfg.Variant),
		SQLiteDBPath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to initialize persistence backend",
			log.FieldError, err,
			log.FieldBackend, cfg.DataBackend,
			log.FieldPath, cfg.DataFile())
		os.Exit(1)
	}
	logger.Info("Initialized persistence backend",
		log.FieldBackend, cfg.DataBackend,
		log.FieldVariant, cfg.Variant,
		log.FieldPath, cfg.DataFile())
	return res
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
