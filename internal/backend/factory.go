package backend

import (
	"fmt"
	"log/slog"

	"wallet/internal/storage"
)

// Factory creates gateways based on configuration.
type Factory interface {
	CreateGateway(config Config) (*Result, error)
}

// DefaultFactory implements Factory.
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory returns a factory that logs through the given logger.
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateGateway builds the gateway named by config.Type.
func (f *DefaultFactory) CreateGateway(config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteGateway(config)
	default:
		return f.createJSONGateway(config)
	}
}

func (f *DefaultFactory) createJSONGateway(config Config) (*Result, error) {
	if config.DataFile == "" {
		return nil, fmt.Errorf("json backend requires a data file path")
	}
	if !config.Variant.IsValid() {
		return nil, fmt.Errorf("invalid file variant: %s", config.Variant)
	}
	gw := storage.NewJSONFile(config.DataFile, config.Variant)
	f.logger.Info("Initialized JSON file backend",
		"path", config.DataFile,
		"variant", string(config.Variant))
	return &Result{Gateway: gw, Cleanup: nil}, nil
}

func (f *DefaultFactory) createSQLiteGateway(config Config) (*Result, error) {
	gw, err := storage.NewSQLiteGateway(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite gateway: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &Result{Gateway: gw, Cleanup: gw.Close}, nil
}
