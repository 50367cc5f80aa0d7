package controller

// Condition types and reasons set on TableBackup status
const (
	ConditionReady = "Ready"

	ReasonRunSucceeded      = "RunSucceeded"
	ReasonRunFailed         = "RunFailed"
	ReasonInvalidSchedule   = "InvalidSchedule"
	ReasonInvalidConfig     = "InvalidConfiguration"
	ReasonCredentialsFailed = "CredentialsUnavailable"
	ReasonSuspended         = "Suspended"
)

// Event reasons emitted for TableBackup runs
const (
	EventBackupCompleted     = "BackupCompleted"
	EventBackupFailed        = "BackupFailed"
	EventPartialRetention    = "RetentionIncomplete"
	EventScheduleInvalid     = "ScheduleInvalid"
	EventCredentialsNotFound = "CredentialsNotFound"
)

// Keys read from the credentials secret
const (
	AccessKeyIDKey     = "AWS_ACCESS_KEY_ID"
	SecretAccessKeyKey = "AWS_SECRET_ACCESS_KEY"
)
