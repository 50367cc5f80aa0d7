package backup

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a required configuration value that is absent or unusable
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("missing configuration value %s", e.Key)
	}
	return fmt.Sprintf("invalid configuration value %s: %s", e.Key, e.Reason)
}

// ExternalServiceError wraps a failed call to the backup/export service
type ExternalServiceError struct {
	Stage string
	Op    string
	Err   error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("[%s] %s failed: %v", e.Stage, e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// IsExternalServiceError reports whether err is or wraps an ExternalServiceError
func IsExternalServiceError(err error) bool {
	var svcErr *ExternalServiceError
	return errors.As(err, &svcErr)
}

func serviceError(stage, op string, err error) error {
	return &ExternalServiceError{Stage: stage, Op: op, Err: err}
}
