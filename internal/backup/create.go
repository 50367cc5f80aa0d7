package backup

import (
	"context"
	"log/slog"

	"k8s.io/utils/clock"
)

const stageCreate = "create"

// CreateStage requests a new backup of the configured table
type CreateStage struct {
	service   TableService
	tableName string
	clock     clock.PassiveClock
	logger    *slog.Logger
}

// NewCreateStage creates a new create stage
func NewCreateStage(service TableService, tableName string, clk clock.PassiveClock, logger *slog.Logger) *CreateStage {
	return &CreateStage{
		service:   service,
		tableName: tableName,
		clock:     clk,
		logger:    logger,
	}
}

// Create starts the backup and returns its name and ARN
func (s *CreateStage) Create(ctx context.Context) (Backup, error) {
	if s.tableName == "" {
		return Backup{}, &ConfigurationError{Key: "TABLE_NAME"}
	}

	backupName := GenerateName(s.tableName, s.clock)
	s.logger.Info("Creating backup", "table", s.tableName, "backup_name", backupName)

	created, err := s.service.CreateBackup(ctx, s.tableName, backupName)
	if err != nil {
		s.logger.Error("Backup request failed", "table", s.tableName, "error", err)
		return Backup{}, serviceError(stageCreate, "CreateBackup", err)
	}
	if created.Name == "" {
		created.Name = backupName
	}

	s.logger.Info("Backup created successfully", "backup_name", created.Name, "backup_arn", created.ARN)
	return created, nil
}
