package exports

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	olderExport  = "orders-snapshot-1685000000000"
	newerExport  = "orders-snapshot-1685417086355"
	otherExport  = "users-snapshot-1685500000000"
	testManifest = `{
  "exportArn": "arn:aws:dynamodb:us-east-1:000000000000:table/orders/export/01",
  "tableArn": "arn:aws:dynamodb:us-east-1:000000000000:table/orders",
  "exportTime": "2023-05-30T03:24:46.355Z",
  "s3Bucket": "bucket1",
  "s3Prefix": "dynamodb-backups/orders-snapshot-1685417086355",
  "outputFormat": "DYNAMODB_JSON",
  "itemCount": 42,
  "billedSizeBytes": 2048
}`
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func seededStore() *MockObjectStore {
	now := time.Now()
	store := NewMockObjectStore("bucket1")
	store.AddFile("dynamodb-backups/"+olderExport+"/AWSDynamoDB/01/manifest-summary.json", now, []byte("{}"))
	store.AddFile("dynamodb-backups/"+newerExport+"/AWSDynamoDB/02/data/part-0000.json.gz", now, make([]byte, 100))
	store.AddFile("dynamodb-backups/"+newerExport+"/AWSDynamoDB/02/manifest-summary.json", now, []byte(testManifest))
	store.AddFile("dynamodb-backups/"+otherExport+"/AWSDynamoDB/03/manifest-summary.json", now, []byte("{}"))
	store.AddFile("dynamodb-backups/manual-export/AWSDynamoDB/04/manifest-summary.json", now, []byte("{}"))
	store.AddFile("dynamodb-backups/stray.txt", now, []byte("x"))
	store.AddFile("elsewhere/"+newerExport+"/manifest-summary.json", now, []byte("{}"))
	return store
}

func TestServiceListNewestFirst(t *testing.T) {
	service := NewService(seededStore(), "", newTestLogger())

	found, err := service.List(context.Background(), "orders")
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, newerExport, found[0].BackupName)
	assert.Equal(t, olderExport, found[1].BackupName)
	assert.Equal(t, "dynamodb-backups/"+newerExport, found[0].KeyPrefix)
	assert.Equal(t, 2, found[0].Files)
	assert.Equal(t, int64(100+len(testManifest)), found[0].Size)
	assert.Equal(t, int64(1685417086355), found[0].CreatedAt.UnixMilli())
}

func TestServiceListAllTables(t *testing.T) {
	service := NewService(seededStore(), "dynamodb-backups/", newTestLogger())

	found, err := service.List(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, found, 3)
	assert.Equal(t, otherExport, found[0].BackupName)
	assert.Equal(t, "users", found[0].Table)
}

func TestServiceLatestAndManifest(t *testing.T) {
	service := NewService(seededStore(), "", newTestLogger())

	latest, err := service.Latest(context.Background(), "orders")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, newerExport, latest.BackupName)

	summary, err := service.ReadManifest(context.Background(), *latest)
	require.NoError(t, err)
	assert.Equal(t, int64(42), summary.ItemCount)
	assert.Equal(t, "DYNAMODB_JSON", summary.OutputFormat)
	assert.Equal(t, "dynamodb-backups/"+newerExport, summary.S3Prefix)
	assert.Equal(t, int64(1685417086355), summary.ExportTime.UnixMilli())
}

func TestServiceLatestEmptyBucket(t *testing.T) {
	service := NewService(NewMockObjectStore("empty"), "", newTestLogger())

	latest, err := service.Latest(context.Background(), "orders")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestServiceListError(t *testing.T) {
	store := NewMockObjectStore("bucket1")
	store.SetError("access denied")
	service := NewService(store, "", newTestLogger())

	_, err := service.List(context.Background(), "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestServiceReadManifestMissing(t *testing.T) {
	service := NewService(seededStore(), "", newTestLogger())

	_, err := service.ReadManifest(context.Background(), Export{BackupName: newerExport})
	assert.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("EXPORT_BUCKET", "")
	t.Setenv("BUCKET_NAMES", " bucket1 ,bucket2")
	t.Setenv("EXPORT_PREFIX", "")
	t.Setenv("TABLE_NAME", "orders")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "bucket1", cfg.Bucket)
	assert.Equal(t, "dynamodb-backups", cfg.Prefix)
	assert.Equal(t, "orders", cfg.Table)

	t.Setenv("EXPORT_BUCKET", "audit")
	cfg, err = LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "audit", cfg.Bucket)

	t.Setenv("EXPORT_BUCKET", "")
	t.Setenv("BUCKET_NAMES", "")
	_, err = LoadConfigFromEnv()
	assert.Error(t, err)
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("TEST_VAR", "test_value")
	assert.Equal(t, "test_value", getEnvOrDefault("TEST_VAR", "default_value"))
	assert.Equal(t, "default_value", getEnvOrDefault("NON_EXISTING_VAR", "default_value"))
}
