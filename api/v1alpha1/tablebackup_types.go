/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// TableBackupSpec defines the desired state of TableBackup.
type TableBackupSpec struct {
	// TableName is the DynamoDB table to back up
	// +kubebuilder:validation:MinLength=1
	TableName string `json:"tableName"`

	// TTLDays is the age in days at which generated backups are deleted
	// +kubebuilder:validation:Minimum=0
	TTLDays int32 `json:"ttlDays"`

	// Destinations lists the buckets each new backup is exported to, in order
	Destinations []ExportDestination `json:"destinations,omitempty"`

	// ExportPrefix is the key prefix exports are written under
	// +kubebuilder:default="dynamodb-backups"
	ExportPrefix string `json:"exportPrefix,omitempty"`

	// ExportFormat is the export file format
	// +kubebuilder:default="DYNAMODB_JSON"
	// +kubebuilder:validation:Enum=DYNAMODB_JSON;ION
	ExportFormat string `json:"exportFormat,omitempty"`

	// Schedule specifies when lifecycle runs start
	Schedule BackupSchedule `json:"schedule,omitempty"`

	// Suspend stops new runs from being scheduled
	// +kubebuilder:default=false
	Suspend bool `json:"suspend,omitempty"`

	// StageTimeout bounds each stage of a run
	// +kubebuilder:default="5m"
	StageTimeout *metav1.Duration `json:"stageTimeout,omitempty"`

	// AWS specifies how to reach the backup service
	AWS AWSSettings `json:"aws,omitempty"`
}

// ExportDestination is one bucket exports are written to
type ExportDestination struct {
	// Bucket is the destination bucket name
	// +kubebuilder:validation:MinLength=1
	Bucket string `json:"bucket"`

	// OwnerAccountID is the account that owns the bucket
	OwnerAccountID string `json:"ownerAccountId,omitempty"`
}

// ScheduleOption selects the schedule kind
type ScheduleOption string

const (
	ScheduleOptionRate ScheduleOption = "rate"
	ScheduleOptionCron ScheduleOption = "cron"
)

// RateUnit is the unit of a rate schedule
type RateUnit string

const (
	RateUnitDays    RateUnit = "days"
	RateUnitHours   RateUnit = "hours"
	RateUnitMinutes RateUnit = "minutes"
)

// BackupSchedule defines a fixed rate or a daily cron schedule
type BackupSchedule struct {
	// Option selects between rate and cron
	// +kubebuilder:default="rate"
	// +kubebuilder:validation:Enum=rate;cron
	Option ScheduleOption `json:"option,omitempty"`

	// Rate is used when Option is rate
	Rate *RateSchedule `json:"rate,omitempty"`

	// Cron is used when Option is cron
	Cron *CronSchedule `json:"cron,omitempty"`
}

// RateSchedule runs every Value Units
type RateSchedule struct {
	// +kubebuilder:default="days"
	// +kubebuilder:validation:Enum=days;hours;minutes
	Unit RateUnit `json:"unit,omitempty"`

	// +kubebuilder:default=1
	// +kubebuilder:validation:Minimum=1
	Value int32 `json:"value,omitempty"`
}

// CronSchedule runs at the given minute and hour fields
type CronSchedule struct {
	// +kubebuilder:default="*"
	Minute string `json:"minute,omitempty"`

	// +kubebuilder:default="*"
	Hour string `json:"hour,omitempty"`
}

// AWSSettings holds connection settings for the backup service
type AWSSettings struct {
	// Region is the AWS region of the table
	// +kubebuilder:default="us-east-1"
	Region string `json:"region,omitempty"`

	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local
	Endpoint string `json:"endpoint,omitempty"`

	// CredentialsSecret names a secret in the same namespace holding
	// AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY
	CredentialsSecret string `json:"credentialsSecret,omitempty"`
}

// TableBackupStatus defines the observed state of TableBackup.
type TableBackupStatus struct {
	// Phase represents the current phase of the backup schedule
	Phase TableBackupPhase `json:"phase,omitempty"`

	// Conditions represents the latest available observations of the TableBackup state
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// LastScheduleTime is when the last run started
	LastScheduleTime *metav1.Time `json:"lastScheduleTime,omitempty"`

	// LastSuccessfulTime is when the last successful run finished
	LastSuccessfulTime *metav1.Time `json:"lastSuccessfulTime,omitempty"`

	// NextScheduleTime is when the next run is due
	NextScheduleTime *metav1.Time `json:"nextScheduleTime,omitempty"`

	// LastBackupName is the name of the backup created by the last run
	LastBackupName string `json:"lastBackupName,omitempty"`

	// LastBackupARN is the ARN of the backup created by the last run
	LastBackupARN string `json:"lastBackupArn,omitempty"`

	// LastRunState is the final lifecycle state of the last run
	LastRunState string `json:"lastRunState,omitempty"`

	// ExportsStarted counts exports started by the last run
	ExportsStarted int32 `json:"exportsStarted,omitempty"`

	// BackupsDeleted counts expired backups deleted by the last run
	BackupsDeleted int32 `json:"backupsDeleted,omitempty"`

	// DeleteFailures counts expired backups the last run failed to delete
	DeleteFailures int32 `json:"deleteFailures,omitempty"`

	// Message describes the last failure, if any
	Message string `json:"message,omitempty"`

	// ObservedGeneration represents the generation observed by the controller
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
}

// TableBackupPhase represents the phase of a TableBackup
type TableBackupPhase string

const (
	// TableBackupPhasePending indicates no run has happened yet
	TableBackupPhasePending TableBackupPhase = "Pending"

	// TableBackupPhaseRunning indicates a run is in progress
	TableBackupPhaseRunning TableBackupPhase = "Running"

	// TableBackupPhaseSucceeded indicates the last run completed
	TableBackupPhaseSucceeded TableBackupPhase = "Succeeded"

	// TableBackupPhaseFailed indicates the last run failed
	TableBackupPhaseFailed TableBackupPhase = "Failed"

	// TableBackupPhaseSuspended indicates scheduling is suspended
	TableBackupPhaseSuspended TableBackupPhase = "Suspended"
)

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Table",type=string,JSONPath=`.spec.tableName`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Last Backup",type=string,JSONPath=`.status.lastBackupName`
// +kubebuilder:printcolumn:name="Next Run",type=date,JSONPath=`.status.nextScheduleTime`

// TableBackup is the Schema for the tablebackups API.
type TableBackup struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   TableBackupSpec   `json:"spec,omitempty"`
	Status TableBackupStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// TableBackupList contains a list of TableBackup.
type TableBackupList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []TableBackup `json:"items"`
}

func init() {
	SchemeBuilder.Register(&TableBackup{}, &TableBackupList{})
}
