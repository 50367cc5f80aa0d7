package backup

import (
	"context"
	"time"
)

// Backup is one snapshot of the protected table
type Backup struct {
	Name string `json:"name"`
	ARN  string `json:"arn"`
}

// TableDescription holds the parts of a table description the stages use
type TableDescription struct {
	Name string
	ARN  string
}

// ExportFormat is the on-disk format of a table export
type ExportFormat string

const (
	ExportFormatDynamoDBJSON ExportFormat = "DYNAMODB_JSON"
	ExportFormatION          ExportFormat = "ION"
)

// ExportRequest describes one export of a backup to a destination bucket
type ExportRequest struct {
	TableARN    string
	BackupName  string
	Destination Destination
	KeyPrefix   string
	Format      ExportFormat
	// ExportTime is the point in time exported, taken from the backup name
	ExportTime time.Time
}

// ExportResult is what the service reports for an accepted export
type ExportResult struct {
	Destination Destination `json:"destination"`
	KeyPrefix   string      `json:"keyPrefix"`
	ExportARN   string      `json:"exportArn"`
	Status      string      `json:"status"`
}

// TableService is the backup/export service the lifecycle stages drive
type TableService interface {
	// CreateBackup starts an on-demand backup of the table under backupName
	CreateBackup(ctx context.Context, tableName, backupName string) (Backup, error)

	// ListBackups returns every user backup known for the table
	ListBackups(ctx context.Context, tableName string) ([]Backup, error)

	// DeleteBackup removes a backup by its ARN
	DeleteBackup(ctx context.Context, backupARN string) error

	// DescribeTable resolves the table's current ARN
	DescribeTable(ctx context.Context, tableName string) (TableDescription, error)

	// ExportTableSnapshot exports the table at a point in time to an object store
	ExportTableSnapshot(ctx context.Context, req ExportRequest) (ExportResult, error)
}

// Creator runs the create stage
type Creator interface {
	Create(ctx context.Context) (Backup, error)
}

// Sharer runs the share stage for a freshly created backup
type Sharer interface {
	Share(ctx context.Context, created Backup) ([]ExportResult, error)
}

// Pruner runs the delete stage
type Pruner interface {
	Prune(ctx context.Context) (DeleteResult, error)
}
