package backup

import (
	"context"
	"fmt"
	"log/slog"
	"path"
)

const stageShare = "share"

// ShareStage exports a freshly created backup to every configured destination.
//
// Destinations are exported one at a time in configured order. The first
// failed export aborts the remaining destinations and fails the stage; exports
// accepted before the failure are still returned so callers can report them.
type ShareStage struct {
	service      TableService
	tableName    string
	destinations []Destination
	keyPrefix    string
	format       ExportFormat
	logger       *slog.Logger
}

// NewShareStage creates a new share stage from the run configuration
func NewShareStage(service TableService, cfg Config, logger *slog.Logger) *ShareStage {
	return &ShareStage{
		service:      service,
		tableName:    cfg.TableName,
		destinations: cfg.Destinations(),
		keyPrefix:    cfg.ExportPrefix,
		format:       cfg.ExportFormat,
		logger:       logger,
	}
}

// ExportKeyPrefix scopes exports of one backup under the application prefix
func ExportKeyPrefix(appPrefix, backupName string) string {
	return path.Join(appPrefix, backupName)
}

// Share exports the created backup to each destination
func (s *ShareStage) Share(ctx context.Context, created Backup) ([]ExportResult, error) {
	if s.tableName == "" {
		return nil, &ConfigurationError{Key: "TABLE_NAME"}
	}

	targets := activeDestinations(s.destinations)
	if len(targets) == 0 {
		s.logger.Info("No export destinations configured, skipping share", "backup_name", created.Name)
		return nil, nil
	}

	parsed, ok := ParseBackupName(created.Name)
	if !ok {
		return nil, fmt.Errorf("[%s] backup name %q does not follow the naming convention", stageShare, created.Name)
	}

	table, err := s.service.DescribeTable(ctx, s.tableName)
	if err != nil {
		s.logger.Error("Failed to describe table", "table", s.tableName, "error", err)
		return nil, serviceError(stageShare, "DescribeTable", err)
	}
	if table.ARN == "" {
		return nil, serviceError(stageShare, "DescribeTable", fmt.Errorf("table %s has no ARN", s.tableName))
	}

	keyPrefix := ExportKeyPrefix(s.keyPrefix, created.Name)
	format := s.format
	if format == "" {
		format = ExportFormatDynamoDBJSON
	}

	results := make([]ExportResult, 0, len(targets))
	for i, dest := range targets {
		s.logger.Info("Exporting backup",
			"backup_name", created.Name,
			"bucket", dest.BucketName,
			"position", i+1,
			"of", len(targets),
		)

		result, err := s.service.ExportTableSnapshot(ctx, ExportRequest{
			TableARN:    table.ARN,
			BackupName:  created.Name,
			Destination: dest,
			KeyPrefix:   keyPrefix,
			Format:      format,
			ExportTime:  parsed.CreatedAt,
		})
		if err != nil {
			exportsTotal.WithLabelValues(s.tableName, "failed").Inc()
			s.logger.Error("Export failed, aborting remaining destinations",
				"bucket", dest.BucketName,
				"remaining", len(targets)-i-1,
				"error", err,
			)
			return results, serviceError(stageShare, fmt.Sprintf("ExportTableSnapshot(%s)", dest.BucketName), err)
		}

		exportsTotal.WithLabelValues(s.tableName, "succeeded").Inc()
		s.logger.Info("Export triggered", "bucket", dest.BucketName, "export_arn", result.ExportARN, "status", result.Status)
		results = append(results, result)
	}

	return results, nil
}

// activeDestinations returns the destinations up to the first blank bucket name
func activeDestinations(destinations []Destination) []Destination {
	for i, d := range destinations {
		if d.BucketName == "" {
			return destinations[:i]
		}
	}
	return destinations
}
