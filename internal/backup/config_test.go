package backup_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("TABLE_NAME", mockTable)
	t.Setenv("BACKUP_TTL", "7")
}

func TestLoadConfigFromEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BUCKET_NAMES", "bucket1,bucket2")
	t.Setenv("BUCKET_OWNERS", "100,101")
	t.Setenv("EXPORT_PREFIX", "carwash-db")
	t.Setenv("EXPORT_FORMAT", "ION")
	t.Setenv("STAGE_TIMEOUT", "90s")
	t.Setenv("AWS_REGION", "eu-west-2")
	t.Setenv("AWS_ENDPOINT_URL", "http://localhost:8000")

	cfg, err := backup.LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, mockTable, cfg.TableName)
	assert.Equal(t, 7, cfg.TTLDays)
	assert.Equal(t, "carwash-db", cfg.ExportPrefix)
	assert.Equal(t, backup.ExportFormatION, cfg.ExportFormat)
	assert.Equal(t, 90*time.Second, cfg.StageTimeout)
	assert.Equal(t, "eu-west-2", cfg.AWS.Region)
	assert.Equal(t, "http://localhost:8000", cfg.AWS.Endpoint)
	assert.Len(t, cfg.Destinations(), 2)
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("EXPORT_PREFIX", "")
	t.Setenv("EXPORT_FORMAT", "")
	t.Setenv("STAGE_TIMEOUT", "")
	t.Setenv("AWS_REGION", "")

	cfg, err := backup.LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, backup.DefaultExportPrefix, cfg.ExportPrefix)
	assert.Equal(t, backup.ExportFormatDynamoDBJSON, cfg.ExportFormat)
	assert.Equal(t, backup.DefaultStageTimeout, cfg.StageTimeout)
	assert.Equal(t, backup.DefaultRegion, cfg.AWS.Region)
}

func TestLoadConfigFromEnvErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantKey string
	}{
		{"missing table name", map[string]string{"TABLE_NAME": "", "BACKUP_TTL": "7"}, "TABLE_NAME"},
		{"missing ttl", map[string]string{"TABLE_NAME": mockTable, "BACKUP_TTL": ""}, "BACKUP_TTL"},
		{"non integer ttl", map[string]string{"TABLE_NAME": mockTable, "BACKUP_TTL": "seven"}, "BACKUP_TTL"},
		{"bad stage timeout", map[string]string{"TABLE_NAME": mockTable, "BACKUP_TTL": "7", "STAGE_TIMEOUT": "soon"}, "STAGE_TIMEOUT"},
		{"negative ttl", map[string]string{"TABLE_NAME": mockTable, "BACKUP_TTL": "-1"}, "TTLDays"},
		{"unknown format", map[string]string{"TABLE_NAME": mockTable, "BACKUP_TTL": "7", "EXPORT_FORMAT": "CSV"}, "ExportFormat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("STAGE_TIMEOUT", "")
			t.Setenv("EXPORT_FORMAT", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := backup.LoadConfigFromEnv()
			require.Error(t, err)

			var cfgErr *backup.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	valid := backup.Config{TableName: mockTable, TTLDays: 0}.WithDefaults()
	assert.NoError(t, valid.Validate())

	missing := backup.Config{TTLDays: 3}.WithDefaults()
	err := missing.Validate()
	require.Error(t, err)
	assert.True(t, backup.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "TableName")

	noTimeout := valid
	noTimeout.StageTimeout = 0
	assert.Error(t, noTimeout.Validate())
}
