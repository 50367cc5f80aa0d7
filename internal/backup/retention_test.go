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

func TestGetBackupsToDelete(t *testing.T) {
	now := time.UnixMilli(mockCreatedAtMs)
	fresh := backupAged(now, days(1))
	expired := backupAged(now, days(8))
	boundary := backupAged(now, days(7))
	foreign := backup.Backup{Name: "AwsBackup_nightly", ARN: "arn:foreign"}

	result := backup.GetBackupsToDelete(
		[]backup.Backup{fresh, expired, foreign, boundary},
		backup.RetentionPolicy{TTLDays: 7},
		now,
	)

	assert.Equal(t, []backup.Backup{expired, boundary}, result)
}

func TestGetBackupsToDeleteNothingExpired(t *testing.T) {
	now := time.UnixMilli(mockCreatedAtMs)

	result := backup.GetBackupsToDelete(
		[]backup.Backup{backupAged(now, days(1)), backupAged(now, days(2))},
		backup.RetentionPolicy{TTLDays: 3},
		now,
	)

	assert.Empty(t, result)
}

func TestDeleteStagePrunesExpiredBackups(t *testing.T) {
	now := time.UnixMilli(mockCreatedAtMs)
	clk := clocktesting.NewFakePassiveClock(now)
	svc := backup.NewMockTableService(testTableARN)

	oldest := backupAged(now, days(30))
	old := backupAged(now, days(10))
	recent := backupAged(now, days(2))
	seed(svc, oldest, old, recent)

	stage := backup.NewDeleteStage(svc, mockTable, backup.RetentionPolicy{TTLDays: 7}, clk, newTestLogger())

	result, err := stage.Prune(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Listed)
	assert.Equal(t, []backup.Backup{oldest, old}, result.Deleted)
	assert.Empty(t, result.Failed)
	assert.Equal(t, []backup.Backup{recent}, svc.Backups())
}

func TestDeleteStageDeletesLastCandidate(t *testing.T) {
	now := time.UnixMilli(mockCreatedAtMs)
	clk := clocktesting.NewFakePassiveClock(now)
	svc := backup.NewMockTableService(testTableARN)

	only := backupAged(now, days(9))
	seed(svc, only)

	stage := backup.NewDeleteStage(svc, mockTable, backup.RetentionPolicy{TTLDays: 7}, clk, newTestLogger())

	result, err := stage.Prune(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []backup.Backup{only}, result.Deleted)
	assert.Empty(t, svc.Backups())
}

func TestDeleteStageIgnoresForeignBackups(t *testing.T) {
	now := time.UnixMilli(mockCreatedAtMs)
	clk := clocktesting.NewFakePassiveClock(now)
	svc := backup.NewMockTableService(testTableARN)

	svc.AddBackup("manual-backup", "arn:manual")
	svc.AddBackup("mock-table-snapshot-notanumber", "arn:broken")
	svc.AddBackup("", "arn:unnamed")

	stage := backup.NewDeleteStage(svc, mockTable, backup.RetentionPolicy{TTLDays: 0}, clk, newTestLogger())

	result, err := stage.Prune(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Candidates)
	assert.Empty(t, svc.CallsTo(backup.OpDeleteBackup))
	assert.Len(t, svc.Backups(), 3)
}

func TestDeleteStageContinuesAfterDeleteFailure(t *testing.T) {
	now := time.UnixMilli(mockCreatedAtMs)
	clk := clocktesting.NewFakePassiveClock(now)
	svc := backup.NewMockTableService(testTableARN)

	first := backupAged(now, days(20))
	second := backupAged(now, days(10))
	kept := backupAged(now, days(1))
	seed(svc, first, second, kept)
	svc.FailDeleteOf(first.ARN, errServiceUnavailable)

	stage := backup.NewDeleteStage(svc, mockTable, backup.RetentionPolicy{TTLDays: 7}, clk, newTestLogger())

	result, err := stage.Prune(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{first.ARN, second.ARN}, argsOf(svc.CallsTo(backup.OpDeleteBackup)))
	assert.Equal(t, []backup.Backup{second}, result.Deleted)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, first, result.Failed[0].Backup)
	assert.Contains(t, result.Failed[0].Err, "service unavailable")
	assert.ElementsMatch(t, []backup.Backup{first, kept}, svc.Backups())
}

func TestDeleteStageListFailureIsFatal(t *testing.T) {
	clk := clocktesting.NewFakePassiveClock(time.UnixMilli(mockCreatedAtMs))
	svc := backup.NewMockTableService(testTableARN)
	svc.SetListError(errServiceUnavailable)

	stage := backup.NewDeleteStage(svc, mockTable, backup.RetentionPolicy{TTLDays: 7}, clk, newTestLogger())

	_, err := stage.Prune(context.Background())
	require.Error(t, err)
	assert.True(t, backup.IsExternalServiceError(err))
	assert.ErrorIs(t, err, errServiceUnavailable)
	assert.Empty(t, svc.CallsTo(backup.OpDeleteBackup))
}

func TestDeleteStageConfigurationErrors(t *testing.T) {
	clk := clocktesting.NewFakePassiveClock(time.UnixMilli(mockCreatedAtMs))

	t.Run("missing table name", func(t *testing.T) {
		svc := backup.NewMockTableService(testTableARN)
		stage := backup.NewDeleteStage(svc, "", backup.RetentionPolicy{TTLDays: 7}, clk, newTestLogger())

		_, err := stage.Prune(context.Background())
		require.Error(t, err)
		assert.True(t, backup.IsConfigurationError(err))
		assert.Empty(t, svc.CallsTo(backup.OpListBackups))
	})

	t.Run("negative ttl", func(t *testing.T) {
		svc := backup.NewMockTableService(testTableARN)
		stage := backup.NewDeleteStage(svc, mockTable, backup.RetentionPolicy{TTLDays: -1}, clk, newTestLogger())

		_, err := stage.Prune(context.Background())
		require.Error(t, err)
		assert.True(t, backup.IsConfigurationError(err))
		assert.Empty(t, svc.CallsTo(backup.OpListBackups))
	})
}
