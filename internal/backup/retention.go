package backup

import (
	"context"
	"log/slog"
	"time"

	"k8s.io/utils/clock"
)

const stageDelete = "delete"

// RetentionPolicy holds the age threshold, in days, for deleting backups
type RetentionPolicy struct {
	TTLDays int
}

// DeleteFailure records a backup whose deletion failed
type DeleteFailure struct {
	Backup Backup `json:"backup"`
	Err    string `json:"error"`
}

// DeleteResult summarises one delete stage
type DeleteResult struct {
	Listed     int             `json:"listed"`
	Candidates []Backup        `json:"candidates,omitempty"`
	Deleted    []Backup        `json:"deleted,omitempty"`
	Failed     []DeleteFailure `json:"failed,omitempty"`
}

// DeleteStage lists the table's backups and deletes the expired ones
type DeleteStage struct {
	service   TableService
	tableName string
	policy    RetentionPolicy
	clock     clock.PassiveClock
	logger    *slog.Logger
}

// NewDeleteStage creates a new delete stage
func NewDeleteStage(service TableService, tableName string, policy RetentionPolicy, clk clock.PassiveClock, logger *slog.Logger) *DeleteStage {
	return &DeleteStage{
		service:   service,
		tableName: tableName,
		policy:    policy,
		clock:     clk,
		logger:    logger,
	}
}

// Prune deletes every expired backup. A failed listing fails the stage; a
// failed deletion is logged and the remaining candidates are still processed.
func (s *DeleteStage) Prune(ctx context.Context) (DeleteResult, error) {
	if s.tableName == "" {
		return DeleteResult{}, &ConfigurationError{Key: "TABLE_NAME"}
	}
	if s.policy.TTLDays < 0 {
		return DeleteResult{}, &ConfigurationError{Key: "BACKUP_TTL", Reason: "must not be negative"}
	}

	s.logger.Info("Managing backup retention", "table", s.tableName, "ttl_days", s.policy.TTLDays)

	backups, err := s.service.ListBackups(ctx, s.tableName)
	if err != nil {
		s.logger.Error("Failed to list backups", "table", s.tableName, "error", err)
		return DeleteResult{}, serviceError(stageDelete, "ListBackups", err)
	}

	result := DeleteResult{
		Listed:     len(backups),
		Candidates: GetBackupsToDelete(backups, s.policy, s.clock.Now()),
	}

	if len(result.Candidates) == 0 {
		s.logger.Info("No backups to delete after retention analysis", "listed", result.Listed)
		return result, nil
	}

	s.logger.Info("Deleting expired backups", "count", len(result.Candidates))

	for _, candidate := range result.Candidates {
		if err := s.service.DeleteBackup(ctx, candidate.ARN); err != nil {
			deletionsTotal.WithLabelValues(s.tableName, "failed").Inc()
			s.logger.Error("Failed to delete backup", "backup_name", candidate.Name, "backup_arn", candidate.ARN, "error", err)
			result.Failed = append(result.Failed, DeleteFailure{Backup: candidate, Err: err.Error()})
			continue
		}
		deletionsTotal.WithLabelValues(s.tableName, "succeeded").Inc()
		result.Deleted = append(result.Deleted, candidate)
	}

	s.logger.Info("Finished cleaning up expired backups",
		"deleted_count", len(result.Deleted),
		"failed_count", len(result.Failed),
	)
	return result, nil
}

// GetBackupsToDelete returns, in listing order, the backups whose names follow
// the naming convention and whose age is at least the policy's TTL. Backups
// with foreign names are never candidates.
func GetBackupsToDelete(backups []Backup, policy RetentionPolicy, now time.Time) []Backup {
	var expired []Backup
	for _, b := range backups {
		if !IsValidName(b.Name) {
			continue
		}
		if IsExpired(b.Name, policy.TTLDays, now) {
			expired = append(expired, b)
		}
	}
	return expired
}
