package backup

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultExportPrefix = "dynamodb-backups"
	DefaultStageTimeout = 5 * time.Minute
	DefaultRegion       = "us-east-1"
)

// AWSConfig holds connection settings for the AWS services
type AWSConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Config is built once per run and handed to every stage
type Config struct {
	TableName    string        `validate:"required"`
	TTLDays      int           `validate:"gte=0"`
	BucketNames  string        // comma separated, ordered
	BucketOwners string        // comma separated, parallel to BucketNames
	ExportPrefix string        `validate:"required"`
	ExportFormat ExportFormat  `validate:"oneof=DYNAMODB_JSON ION"`
	StageTimeout time.Duration `validate:"gt=0"`
	AWS          AWSConfig
}

// Destinations parses the configured destination lists
func (c Config) Destinations() []Destination {
	return ParseDestinations(c.BucketNames, c.BucketOwners)
}

// WithDefaults fills optional fields that were left empty
func (c Config) WithDefaults() Config {
	if c.ExportPrefix == "" {
		c.ExportPrefix = DefaultExportPrefix
	}
	if c.ExportFormat == "" {
		c.ExportFormat = ExportFormatDynamoDBJSON
	}
	if c.StageTimeout == 0 {
		c.StageTimeout = DefaultStageTimeout
	}
	if c.AWS.Region == "" {
		c.AWS.Region = DefaultRegion
	}
	return c
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration and returns a ConfigurationError naming
// the first offending field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Tag() == "required" {
			return &ConfigurationError{Key: fe.Field()}
		}
		return &ConfigurationError{Key: fe.Field(), Reason: "failed " + fe.Tag() + " check"}
	}
	return err
}

// LoadConfigFromEnv reads the run configuration from environment variables
func LoadConfigFromEnv() (Config, error) {
	tableName := os.Getenv("TABLE_NAME")
	if tableName == "" {
		return Config{}, &ConfigurationError{Key: "TABLE_NAME"}
	}

	ttlRaw := strings.TrimSpace(os.Getenv("BACKUP_TTL"))
	if ttlRaw == "" {
		return Config{}, &ConfigurationError{Key: "BACKUP_TTL"}
	}
	ttlDays, err := strconv.Atoi(ttlRaw)
	if err != nil {
		return Config{}, &ConfigurationError{Key: "BACKUP_TTL", Reason: "not an integer"}
	}

	stageTimeout := DefaultStageTimeout
	if raw := os.Getenv("STAGE_TIMEOUT"); raw != "" {
		stageTimeout, err = time.ParseDuration(raw)
		if err != nil {
			return Config{}, &ConfigurationError{Key: "STAGE_TIMEOUT", Reason: err.Error()}
		}
	}

	cfg := Config{
		TableName:    tableName,
		TTLDays:      ttlDays,
		BucketNames:  os.Getenv("BUCKET_NAMES"),
		BucketOwners: os.Getenv("BUCKET_OWNERS"),
		ExportPrefix: getEnvOrDefault("EXPORT_PREFIX", DefaultExportPrefix),
		ExportFormat: ExportFormat(getEnvOrDefault("EXPORT_FORMAT", string(ExportFormatDynamoDBJSON))),
		StageTimeout: stageTimeout,
		AWS: AWSConfig{
			Region:          getEnvOrDefault("AWS_REGION", DefaultRegion),
			Endpoint:        os.Getenv("AWS_ENDPOINT_URL"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Helper functions for environment variables
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
