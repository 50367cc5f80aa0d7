package exports

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

// S3Store implements ObjectStore for AWS S3 or S3-compatible storage
type S3Store struct {
	client     *s3.Client
	downloader *manager.Downloader
	bucket     string
	logger     *slog.Logger
}

// NewS3Store creates a new S3Store instance for cfg.Bucket
func NewS3Store(ctx context.Context, cfg Config, logger *slog.Logger) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("export bucket is required")
	}

	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := backup.NewS3Client(initCtx, cfg.AWS)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}

	logger.Info("S3 client initialized",
		"bucket", cfg.Bucket,
		"region", cfg.AWS.Region,
		"custom_endpoint", cfg.AWS.Endpoint != "",
	)

	return &S3Store{
		client:     client,
		downloader: manager.NewDownloader(client),
		bucket:     cfg.Bucket,
		logger:     logger,
	}, nil
}

// ListFiles implements ObjectStore.ListFiles
func (s *S3Store) ListFiles(ctx context.Context, prefix string) ([]ObjectStoreFile, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	}

	var files []ObjectStoreFile

	paginator := s3.NewListObjectsV2Paginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list S3 objects: %w", err)
		}

		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}

			files = append(files, ObjectStoreFile{
				Key:          aws.ToString(obj.Key),
				LastModified: aws.ToTime(obj.LastModified),
				Size:         aws.ToInt64(obj.Size),
			})
		}
	}

	return files, nil
}

// DownloadFile implements ObjectStore.DownloadFile
func (s *S3Store) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	n, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", s.bucket, key, err)
	}

	s.logger.Debug("Downloaded object", "key", key, "bytes", n)
	return buf.Bytes(), nil
}

// GetBucketName implements ObjectStore.GetBucketName
func (s *S3Store) GetBucketName() string {
	return s.bucket
}

// Close implements ObjectStore.Close
func (s *S3Store) Close() error {
	// S3 client doesn't require explicit cleanup
	return nil
}
