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

package controller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-logr/logr"
	"github.com/robfig/cron/v3"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	"k8s.io/client-go/util/retry"
	"k8s.io/utils/clock"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	backupv1alpha1 "github.com/GreedyKomodoDragon/table-backup-operator/api/v1alpha1"
	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

// Runner executes one lifecycle run
type Runner interface {
	RunOnce(ctx context.Context) (*backup.RunResult, error)
}

// ServiceFactory builds the Runner for a resolved configuration
type ServiceFactory func(ctx context.Context, cfg backup.Config, logger *slog.Logger) (Runner, error)

// DynamoDBServiceFactory is the ServiceFactory used in production
func DynamoDBServiceFactory(ctx context.Context, cfg backup.Config, logger *slog.Logger) (Runner, error) {
	return backup.NewDynamoDBBackupService(ctx, cfg, logger)
}

// TableBackupReconciler reconciles a TableBackup object
type TableBackupReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Clock    clock.PassiveClock

	// NewService defaults to DynamoDBServiceFactory
	NewService ServiceFactory
}

// +kubebuilder:rbac:groups=backup.komodo.io,resources=tablebackups,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=backup.komodo.io,resources=tablebackups/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=backup.komodo.io,resources=tablebackups/finalizers,verbs=update
// +kubebuilder:rbac:groups="",resources=secrets,verbs=get;list;watch
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch

// Reconcile runs the backup lifecycle whenever a TableBackup's schedule is
// due and requeues the resource for its next scheduled time.
func (r *TableBackupReconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	log := logf.FromContext(ctx)

	tb := &backupv1alpha1.TableBackup{}
	err := r.Get(ctx, req.NamespacedName, tb)
	if err != nil {
		if errors.IsNotFound(err) {
			log.Info("TableBackup resource not found. Ignoring since object must be deleted")
			return ctrl.Result{}, nil
		}
		log.Error(err, "Failed to get TableBackup")
		return ctrl.Result{}, err
	}

	if tb.Spec.Suspend {
		return ctrl.Result{}, r.markSuspended(ctx, tb)
	}

	schedule, err := ParseSchedule(tb.Spec.Schedule)
	if err != nil {
		if tb.Status.Phase == backupv1alpha1.TableBackupPhaseFailed && tb.Status.Message == err.Error() &&
			tb.Status.ObservedGeneration == tb.Generation {
			return ctrl.Result{}, nil
		}
		log.Error(err, "Invalid schedule")
		r.Recorder.Event(tb, corev1.EventTypeWarning, EventScheduleInvalid, err.Error())
		return ctrl.Result{}, r.markFailed(ctx, tb, ReasonInvalidSchedule, err, nil)
	}

	now := r.now()
	next := schedule.Next(r.lastRunReference(tb, now))
	if now.Before(next) {
		if err := r.markScheduled(ctx, tb, next); err != nil {
			return ctrl.Result{}, err
		}
		return ctrl.Result{RequeueAfter: next.Sub(now)}, nil
	}

	return r.runLifecycle(ctx, tb, schedule, now)
}

// runLifecycle performs one run and records its outcome on the resource.
// The run is saved as started before the lifecycle executes; if that update
// fails nothing runs and the reconcile is retried.
func (r *TableBackupReconciler) runLifecycle(ctx context.Context, tb *backupv1alpha1.TableBackup, schedule cron.Schedule, now time.Time) (ctrl.Result, error) {
	log := logf.FromContext(ctx).WithValues("table", tb.Spec.TableName)
	next := schedule.Next(now)
	requeue := ctrl.Result{RequeueAfter: next.Sub(now)}

	tb.Status.Phase = backupv1alpha1.TableBackupPhaseRunning
	tb.Status.LastScheduleTime = &metav1.Time{Time: now}
	tb.Status.NextScheduleTime = &metav1.Time{Time: next}
	tb.Status.ObservedGeneration = tb.Generation
	if err := r.Status().Update(ctx, tb); err != nil {
		log.Error(err, "Failed to record scheduled run start")
		return ctrl.Result{}, err
	}

	creds, err := LoadCredentials(ctx, r.Client, tb)
	if err != nil {
		log.Error(err, "Failed to load AWS credentials")
		r.Recorder.Event(tb, corev1.EventTypeWarning, EventCredentialsNotFound, err.Error())
		return requeue, r.markFailed(ctx, tb, ReasonCredentialsFailed, err, nil)
	}

	cfg := BuildBackupConfig(tb, creds)
	if err := cfg.Validate(); err != nil {
		log.Error(err, "Invalid backup configuration")
		r.Recorder.Event(tb, corev1.EventTypeWarning, EventBackupFailed, err.Error())
		return requeue, r.markFailed(ctx, tb, ReasonInvalidConfig, err, nil)
	}

	logger := slog.New(logr.ToSlogHandler(log))
	factory := r.NewService
	if factory == nil {
		factory = DynamoDBServiceFactory
	}
	runner, err := factory(ctx, cfg, logger)
	if err != nil {
		log.Error(err, "Failed to create backup service")
		r.Recorder.Event(tb, corev1.EventTypeWarning, EventBackupFailed, err.Error())
		return requeue, r.markFailed(ctx, tb, ReasonRunFailed, err, nil)
	}

	log.Info("Starting scheduled backup run")
	result, runErr := runner.RunOnce(ctx)

	if runErr != nil {
		state := ""
		if result != nil {
			state = string(result.State)
		}
		log.Error(runErr, "Backup run failed", "state", state)
		r.Recorder.Event(tb, corev1.EventTypeWarning, EventBackupFailed, runErr.Error())
		return requeue, r.markFailed(ctx, tb, ReasonRunFailed, runErr, result)
	}

	message := fmt.Sprintf("Created %s, started %d exports, deleted %d expired backups",
		result.Backup.Name, len(result.Exports), len(result.Deletion.Deleted))
	r.Recorder.Event(tb, corev1.EventTypeNormal, EventBackupCompleted, message)
	if n := len(result.Deletion.Failed); n > 0 {
		r.Recorder.Eventf(tb, corev1.EventTypeWarning, EventPartialRetention, "Failed to delete %d expired backups", n)
	}

	err = r.updateStatus(ctx, tb, func(latest *backupv1alpha1.TableBackup) {
		r.recordResult(latest, result)
		latest.Status.Phase = backupv1alpha1.TableBackupPhaseSucceeded
		latest.Status.LastSuccessfulTime = &metav1.Time{Time: now}
		latest.Status.Message = ""
		latest.Status.ObservedGeneration = latest.Generation
		r.setReady(latest, metav1.ConditionTrue, ReasonRunSucceeded, message)
	})
	if err != nil {
		log.Error(err, "Failed to update TableBackup status")
		return ctrl.Result{}, err
	}
	return requeue, nil
}

// updateStatus applies mutate to the latest stored copy of tb and writes its
// status, retrying on conflicts. tb is refreshed with the stored result.
func (r *TableBackupReconciler) updateStatus(ctx context.Context, tb *backupv1alpha1.TableBackup, mutate func(*backupv1alpha1.TableBackup)) error {
	key := client.ObjectKeyFromObject(tb)
	return retry.RetryOnConflict(retry.DefaultRetry, func() error {
		latest := &backupv1alpha1.TableBackup{}
		if err := r.Get(ctx, key, latest); err != nil {
			return err
		}
		mutate(latest)
		if err := r.Status().Update(ctx, latest); err != nil {
			return err
		}
		latest.DeepCopyInto(tb)
		return nil
	})
}

func (r *TableBackupReconciler) recordResult(tb *backupv1alpha1.TableBackup, result *backup.RunResult) {
	if result == nil {
		return
	}
	tb.Status.LastRunState = string(result.State)
	tb.Status.LastBackupName = result.Backup.Name
	tb.Status.LastBackupARN = result.Backup.ARN
	tb.Status.ExportsStarted = int32(len(result.Exports))
	tb.Status.BackupsDeleted = int32(len(result.Deletion.Deleted))
	tb.Status.DeleteFailures = int32(len(result.Deletion.Failed))
}

// lastRunReference is the time the next run is scheduled after
func (r *TableBackupReconciler) lastRunReference(tb *backupv1alpha1.TableBackup, now time.Time) time.Time {
	if tb.Status.LastScheduleTime != nil {
		return tb.Status.LastScheduleTime.Time
	}
	if !tb.CreationTimestamp.IsZero() {
		return tb.CreationTimestamp.Time
	}
	return now
}

func (r *TableBackupReconciler) markScheduled(ctx context.Context, tb *backupv1alpha1.TableBackup, next time.Time) error {
	if tb.Status.NextScheduleTime != nil && tb.Status.NextScheduleTime.Time.Equal(next) &&
		tb.Status.ObservedGeneration == tb.Generation && tb.Status.Phase != backupv1alpha1.TableBackupPhaseSuspended {
		return nil
	}

	tb.Status.NextScheduleTime = &metav1.Time{Time: next}
	tb.Status.ObservedGeneration = tb.Generation
	if tb.Status.Phase == "" || tb.Status.Phase == backupv1alpha1.TableBackupPhaseSuspended {
		tb.Status.Phase = backupv1alpha1.TableBackupPhasePending
	}
	return r.Status().Update(ctx, tb)
}

func (r *TableBackupReconciler) markSuspended(ctx context.Context, tb *backupv1alpha1.TableBackup) error {
	if tb.Status.Phase == backupv1alpha1.TableBackupPhaseSuspended {
		return nil
	}

	tb.Status.Phase = backupv1alpha1.TableBackupPhaseSuspended
	tb.Status.NextScheduleTime = nil
	tb.Status.ObservedGeneration = tb.Generation
	r.setReady(tb, metav1.ConditionFalse, ReasonSuspended, "Scheduling is suspended")
	return r.Status().Update(ctx, tb)
}

func (r *TableBackupReconciler) markFailed(ctx context.Context, tb *backupv1alpha1.TableBackup, reason string, cause error, result *backup.RunResult) error {
	err := r.updateStatus(ctx, tb, func(latest *backupv1alpha1.TableBackup) {
		r.recordResult(latest, result)
		latest.Status.Phase = backupv1alpha1.TableBackupPhaseFailed
		latest.Status.Message = cause.Error()
		latest.Status.ObservedGeneration = latest.Generation
		r.setReady(latest, metav1.ConditionFalse, reason, cause.Error())
	})
	if err != nil {
		return fmt.Errorf("failed to update TableBackup status: %w", err)
	}
	return nil
}

func (r *TableBackupReconciler) setReady(tb *backupv1alpha1.TableBackup, status metav1.ConditionStatus, reason, message string) {
	meta.SetStatusCondition(&tb.Status.Conditions, metav1.Condition{
		Type:               ConditionReady,
		Status:             status,
		Reason:             reason,
		Message:            message,
		ObservedGeneration: tb.Generation,
	})
}

func (r *TableBackupReconciler) now() time.Time {
	if r.Clock == nil {
		return time.Now().Truncate(time.Second)
	}
	return r.Clock.Now().Truncate(time.Second)
}

// SetupWithManager sets up the controller with the Manager.
func (r *TableBackupReconciler) SetupWithManager(mgr ctrl.Manager) error {
	return ctrl.NewControllerManagedBy(mgr).
		For(&backupv1alpha1.TableBackup{}).
		Named("tablebackup").
		Complete(r)
}
