package backup_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

func TestBackupServiceRunOnce(t *testing.T) {
	now := time.UnixMilli(mockCreatedAtMs)
	svc := backup.NewMockTableService(testTableARN)
	expired := backupAged(now, days(8))
	seed(svc, expired)

	cfg := backup.Config{
		TableName:    mockTable,
		TTLDays:      7,
		BucketNames:  "bucket1,bucket2",
		BucketOwners: "100,101",
	}
	service := backup.NewBackupService(cfg, svc, clocktesting.NewFakePassiveClock(now), newTestLogger())

	assert.Equal(t, backup.DefaultExportPrefix, service.Config().ExportPrefix)

	result, err := service.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, backup.StateDone, result.State)
	assert.Equal(t, createdBackupName, result.Backup.Name)
	assert.Len(t, result.Exports, 2)
	assert.Equal(t, []backup.Backup{expired}, result.Deletion.Deleted)
	assert.Equal(t, now, result.StartedAt)
}

func TestBackupServiceRunOnceRejectsInvalidConfig(t *testing.T) {
	svc := backup.NewMockTableService(testTableARN)
	service := backup.NewBackupService(backup.Config{TTLDays: 7}, svc,
		clocktesting.NewFakePassiveClock(time.UnixMilli(mockCreatedAtMs)), newTestLogger())

	result, err := service.RunOnce(context.Background())
	require.Error(t, err)

	assert.True(t, backup.IsConfigurationError(err))
	assert.Equal(t, backup.StateFailed, result.State)
	assert.Empty(t, svc.CallsTo(backup.OpCreateBackup))
}
