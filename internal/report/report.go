package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

const (
	DefaultPrefix = "run-reports"
	uploadedBy    = "table-backup-operator"
)

// Uploader stores the outcome of a lifecycle run
type Uploader interface {
	Upload(ctx context.Context, result *backup.RunResult) (string, error)
}

// Config holds the report destination
type Config struct {
	Bucket string
	Prefix string
	AWS    backup.AWSConfig
}

// S3Uploader writes run reports as JSON objects to an S3 bucket
type S3Uploader struct {
	uploader *manager.Uploader
	bucket   string
	prefix   string
	logger   *slog.Logger
}

// NewS3Uploader creates a new S3 report uploader
func NewS3Uploader(ctx context.Context, cfg Config, logger *slog.Logger) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("report bucket is required")
	}

	client, err := backup.NewS3Client(ctx, cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	return NewS3UploaderWithClient(client, cfg, logger), nil
}

// NewS3UploaderWithClient creates an uploader over an existing S3 client
func NewS3UploaderWithClient(client *s3.Client, cfg Config, logger *slog.Logger) *S3Uploader {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &S3Uploader{
		uploader: manager.NewUploader(client),
		bucket:   cfg.Bucket,
		prefix:   prefix,
		logger:   logger,
	}
}

// Key returns the object key a run report is stored under:
// <prefix>/<table>/<backupName>.json, or run-<startedMs>.json when the run
// failed before a backup was named.
func Key(prefix string, result *backup.RunResult) string {
	name := result.Backup.Name
	if name == "" {
		name = "run-" + strconv.FormatInt(result.StartedAt.UnixMilli(), 10)
	}
	return path.Join(prefix, result.Table, name+".json")
}

// Upload implements Uploader.Upload
func (u *S3Uploader) Upload(ctx context.Context, result *backup.RunResult) (string, error) {
	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode run report: %w", err)
	}

	key := Key(u.prefix, result)
	_, err = u.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"uploaded-by": uploadedBy,
			"state":       string(result.State),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload run report to s3://%s/%s: %w", u.bucket, key, err)
	}

	u.logger.Info("Uploaded run report", "bucket", u.bucket, "key", key, "state", result.State)
	return key, nil
}

// MockUploader records reports in memory
type MockUploader struct {
	Reports map[string]*backup.RunResult
	Err     error
}

// NewMockUploader creates an empty MockUploader
func NewMockUploader() *MockUploader {
	return &MockUploader{Reports: make(map[string]*backup.RunResult)}
}

// Upload implements Uploader.Upload
func (m *MockUploader) Upload(ctx context.Context, result *backup.RunResult) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	key := Key(DefaultPrefix, result)
	m.Reports[key] = result
	return key, nil
}
