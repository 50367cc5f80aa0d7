package backup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

const createdBackupName = "mock-table-snapshot-1685417086355"

func shareConfig(names, owners string) backup.Config {
	return backup.Config{
		TableName:    mockTable,
		TTLDays:      7,
		BucketNames:  names,
		BucketOwners: owners,
		ExportPrefix: "carwash-db",
	}.WithDefaults()
}

func createdBackup() backup.Backup {
	return backup.Backup{Name: createdBackupName, ARN: backup.MockBackupARN(mockTable, createdBackupName)}
}

func TestExportKeyPrefix(t *testing.T) {
	assert.Equal(t, "carwash-db/"+createdBackupName, backup.ExportKeyPrefix("carwash-db", createdBackupName))
	assert.Equal(t, "a/b/"+createdBackupName, backup.ExportKeyPrefix("a/b/", createdBackupName))
}

func TestShareStageExportsToEveryDestinationInOrder(t *testing.T) {
	svc := backup.NewMockTableService(testTableARN)
	stage := backup.NewShareStage(svc, shareConfig("bucket1, bucket2, bucket3", "100,101,102"), newTestLogger())

	results, err := stage.Share(context.Background(), createdBackup())
	require.NoError(t, err)

	assert.Equal(t, []string{"bucket1", "bucket2", "bucket3"}, argsOf(svc.CallsTo(backup.OpExport)))
	require.Len(t, results, 3)

	exports := svc.Exports()
	require.Len(t, exports, 3)
	for i, req := range exports {
		assert.Equal(t, testTableARN, req.TableARN)
		assert.Equal(t, createdBackupName, req.BackupName)
		assert.Equal(t, "carwash-db/"+createdBackupName, req.KeyPrefix)
		assert.Equal(t, backup.ExportFormatDynamoDBJSON, req.Format)
		assert.Equal(t, mockCreatedAtMs, req.ExportTime.UnixMilli())
		assert.Equal(t, results[i].Destination, req.Destination)
	}
	assert.Equal(t, "102", exports[2].Destination.OwnerAccountID)
}

func TestShareStageSingleDestination(t *testing.T) {
	svc := backup.NewMockTableService(testTableARN)
	stage := backup.NewShareStage(svc, shareConfig("bucket1", "100"), newTestLogger())

	results, err := stage.Share(context.Background(), createdBackup())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, backup.Destination{BucketName: "bucket1", OwnerAccountID: "100"}, results[0].Destination)
}

func TestShareStageSkipsWhenNoDestinations(t *testing.T) {
	svc := backup.NewMockTableService(testTableARN)
	stage := backup.NewShareStage(svc, shareConfig("", ""), newTestLogger())

	results, err := stage.Share(context.Background(), createdBackup())
	require.NoError(t, err)

	assert.Empty(t, results)
	assert.Empty(t, svc.CallsTo(backup.OpDescribeTable))
	assert.Empty(t, svc.CallsTo(backup.OpExport))
}

func TestShareStageStopsAtBlankDestination(t *testing.T) {
	svc := backup.NewMockTableService(testTableARN)
	stage := backup.NewShareStage(svc, shareConfig("bucket1,,bucket3", "100,101,102"), newTestLogger())

	_, err := stage.Share(context.Background(), createdBackup())
	require.NoError(t, err)

	assert.Equal(t, []string{"bucket1"}, argsOf(svc.CallsTo(backup.OpExport)))
}

func TestShareStageAbortsRemainingDestinationsOnFailure(t *testing.T) {
	svc := backup.NewMockTableService(testTableARN)
	svc.FailExportTo("bucket2", errServiceUnavailable)
	stage := backup.NewShareStage(svc, shareConfig("bucket1,bucket2,bucket3", "100,101,102"), newTestLogger())

	results, err := stage.Share(context.Background(), createdBackup())
	require.Error(t, err)

	assert.True(t, backup.IsExternalServiceError(err))
	assert.ErrorIs(t, err, errServiceUnavailable)
	assert.Equal(t, []string{"bucket1", "bucket2"}, argsOf(svc.CallsTo(backup.OpExport)))
	require.Len(t, results, 1)
	assert.Equal(t, "bucket1", results[0].Destination.BucketName)
}

func TestShareStageDescribeFailureIsFatal(t *testing.T) {
	svc := backup.NewMockTableService(testTableARN)
	svc.SetDescribeError(errServiceUnavailable)
	stage := backup.NewShareStage(svc, shareConfig("bucket1", "100"), newTestLogger())

	_, err := stage.Share(context.Background(), createdBackup())
	require.Error(t, err)

	assert.True(t, backup.IsExternalServiceError(err))
	assert.Empty(t, svc.CallsTo(backup.OpExport))
}

func TestShareStageMissingTableARN(t *testing.T) {
	svc := backup.NewMockTableService("")
	stage := backup.NewShareStage(svc, shareConfig("bucket1", "100"), newTestLogger())

	_, err := stage.Share(context.Background(), createdBackup())
	require.Error(t, err)
	assert.Empty(t, svc.CallsTo(backup.OpExport))
}

func TestShareStageRejectsForeignBackupName(t *testing.T) {
	svc := backup.NewMockTableService(testTableARN)
	stage := backup.NewShareStage(svc, shareConfig("bucket1", "100"), newTestLogger())

	_, err := stage.Share(context.Background(), backup.Backup{Name: "manual", ARN: "arn:manual"})
	require.Error(t, err)
	assert.Empty(t, svc.CallsTo(backup.OpExport))
}

func TestShareStageUsesConfiguredFormat(t *testing.T) {
	svc := backup.NewMockTableService(testTableARN)
	cfg := shareConfig("bucket1", "100")
	cfg.ExportFormat = backup.ExportFormatION
	stage := backup.NewShareStage(svc, cfg, newTestLogger())

	_, err := stage.Share(context.Background(), createdBackup())
	require.NoError(t, err)

	exports := svc.Exports()
	require.Len(t, exports, 1)
	assert.Equal(t, backup.ExportFormatION, exports[0].Format)
	assert.True(t, exports[0].ExportTime.Equal(time.UnixMilli(mockCreatedAtMs)))
}
