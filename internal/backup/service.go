package backup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"k8s.io/utils/clock"
)

// BackupService performs lifecycle runs for one configured table
type BackupService struct {
	config  Config
	service TableService
	clock   clock.PassiveClock
	logger  *slog.Logger
}

// NewBackupService creates a backup service over an existing TableService
func NewBackupService(cfg Config, service TableService, clk clock.PassiveClock, logger *slog.Logger) *BackupService {
	return &BackupService{
		config:  cfg.WithDefaults(),
		service: service,
		clock:   clk,
		logger:  logger,
	}
}

// NewDynamoDBBackupService creates a backup service talking to DynamoDB
func NewDynamoDBBackupService(ctx context.Context, cfg Config, logger *slog.Logger) (*BackupService, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := NewDynamoDBClient(initCtx, cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}

	logger.Info("Backup service initialized",
		"table", cfg.TableName,
		"ttl_days", cfg.TTLDays,
		"destinations", len(activeDestinations(cfg.Destinations())),
		"region", cfg.AWS.Region,
		"custom_endpoint", cfg.AWS.Endpoint != "",
	)

	return NewBackupService(cfg, NewDynamoDBTableService(client), clock.RealClock{}, logger), nil
}

// Config returns the effective configuration
func (s *BackupService) Config() Config {
	return s.config
}

// RunOnce validates the configuration and executes one lifecycle run
func (s *BackupService) RunOnce(ctx context.Context) (*RunResult, error) {
	if err := s.config.Validate(); err != nil {
		s.logger.Error("Invalid backup configuration", "error", err)
		return &RunResult{Table: s.config.TableName, State: StateFailed, Error: err.Error()}, err
	}

	return NewLifecycle(s.service, s.config, s.clock, s.logger).Run(ctx)
}
