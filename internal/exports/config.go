package exports

import (
	"fmt"
	"os"
	"strings"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

// Config holds the location of exported table snapshots
type Config struct {
	Bucket string
	Prefix string
	Table  string
	AWS    backup.AWSConfig
}

// LoadConfigFromEnv reads the export location from environment variables.
// EXPORT_BUCKET wins; otherwise the first entry of BUCKET_NAMES is used.
func LoadConfigFromEnv() (Config, error) {
	bucket := os.Getenv("EXPORT_BUCKET")
	if bucket == "" {
		bucket = strings.TrimSpace(strings.Split(os.Getenv("BUCKET_NAMES"), ",")[0])
	}
	if bucket == "" {
		return Config{}, fmt.Errorf("EXPORT_BUCKET or BUCKET_NAMES environment variable is required")
	}

	return Config{
		Bucket: bucket,
		Prefix: getEnvOrDefault("EXPORT_PREFIX", backup.DefaultExportPrefix),
		Table:  os.Getenv("TABLE_NAME"),
		AWS: backup.AWSConfig{
			Region:          getEnvOrDefault("AWS_REGION", backup.DefaultRegion),
			Endpoint:        os.Getenv("AWS_ENDPOINT_URL"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}, nil
}

// Helper function for environment variables
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
