package exports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

const manifestSummaryFile = "manifest-summary.json"

// Export is one table snapshot exported under <prefix>/<backupName>/
type Export struct {
	BackupName  string    `json:"backupName"`
	Table       string    `json:"table"`
	CreatedAt   time.Time `json:"createdAt"`
	KeyPrefix   string    `json:"keyPrefix"`
	ManifestKey string    `json:"manifestKey,omitempty"`
	Files       int       `json:"files"`
	Size        int64     `json:"size"`
}

// ManifestSummary is the subset of the export manifest-summary.json we read
type ManifestSummary struct {
	ExportARN       string    `json:"exportArn"`
	TableARN        string    `json:"tableArn"`
	ExportTime      time.Time `json:"exportTime"`
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	S3Bucket        string    `json:"s3Bucket"`
	S3Prefix        string    `json:"s3Prefix"`
	OutputFormat    string    `json:"outputFormat"`
	ItemCount       int64     `json:"itemCount"`
	BilledSizeBytes int64     `json:"billedSizeBytes"`
}

// Service inspects the exports held in one destination bucket
type Service struct {
	store  ObjectStore
	prefix string
	logger *slog.Logger
}

// NewService creates an export inspection service rooted at prefix
func NewService(store ObjectStore, prefix string, logger *slog.Logger) *Service {
	if prefix == "" {
		prefix = backup.DefaultExportPrefix
	}
	return &Service{
		store:  store,
		prefix: strings.TrimSuffix(prefix, "/"),
		logger: logger,
	}
}

// List returns the exports found in the bucket, newest first. Only directories
// named like generated backups are considered; an empty table matches all.
func (s *Service) List(ctx context.Context, table string) ([]Export, error) {
	s.logger.Info("Searching for exports", "bucket", s.store.GetBucketName(), "prefix", s.prefix, "table", table)

	files, err := s.store.ListFiles(ctx, s.prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}

	byName := make(map[string]*Export)
	for _, file := range files {
		rest := strings.TrimPrefix(file.Key, s.prefix+"/")
		dir, _, found := strings.Cut(rest, "/")
		if !found {
			continue
		}

		name, ok := backup.ParseBackupName(dir)
		if !ok || (table != "" && name.Table != table) {
			continue
		}

		exp, seen := byName[dir]
		if !seen {
			exp = &Export{
				BackupName: dir,
				Table:      name.Table,
				CreatedAt:  name.CreatedAt,
				KeyPrefix:  backup.ExportKeyPrefix(s.prefix, dir),
			}
			byName[dir] = exp
		}
		exp.Files++
		exp.Size += file.Size
		if path.Base(file.Key) == manifestSummaryFile && exp.ManifestKey == "" {
			exp.ManifestKey = file.Key
		}
	}

	found := make([]Export, 0, len(byName))
	for _, exp := range byName {
		found = append(found, *exp)
	}
	sort.Slice(found, func(i, j int) bool {
		return found[i].CreatedAt.After(found[j].CreatedAt)
	})

	s.logger.Info("Found exports", "count", len(found))
	return found, nil
}

// Latest returns the newest export, or nil when the bucket holds none
func (s *Service) Latest(ctx context.Context, table string) (*Export, error) {
	found, err := s.List(ctx, table)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// ReadManifest downloads and decodes the manifest summary of exp
func (s *Service) ReadManifest(ctx context.Context, exp Export) (*ManifestSummary, error) {
	if exp.ManifestKey == "" {
		return nil, fmt.Errorf("export %s has no %s yet", exp.BackupName, manifestSummaryFile)
	}

	data, err := s.store.DownloadFile(ctx, exp.ManifestKey)
	if err != nil {
		return nil, fmt.Errorf("failed to download manifest: %w", err)
	}

	var summary ManifestSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", exp.ManifestKey, err)
	}
	return &summary, nil
}
