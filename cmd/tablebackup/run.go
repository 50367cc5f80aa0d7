package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
	"github.com/GreedyKomodoDragon/table-backup-operator/internal/report"
	"github.com/GreedyKomodoDragon/table-backup-operator/internal/runlock"
)

const (
	exitFailure = 1
	exitLocked  = 2
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one backup lifecycle (create, share, delete)",
	Long: "Run one backup lifecycle for TABLE_NAME using the environment configuration:\n" +
		"BACKUP_TTL, BUCKET_NAMES, BUCKET_OWNERS, EXPORT_PREFIX, EXPORT_FORMAT, STAGE_TIMEOUT.\n" +
		"REDIS_ADDR enables the run lock and REPORT_BUCKET uploads a JSON run report.",
	RunE: runLifecycleCmd,
}

// runDeps are the collaborators of one CLI run
type runDeps struct {
	service  *backup.BackupService
	locker   runlock.Locker
	uploader report.Uploader
	logger   *slog.Logger
}

func runLifecycleCmd(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := backup.LoadConfigFromEnv()
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("invalid configuration: %w", err)}
	}

	service, err := backup.NewDynamoDBBackupService(ctx, cfg, logger)
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("failed to initialize backup service: %w", err)}
	}

	deps := runDeps{service: service, locker: runlock.NoopLocker{}, logger: logger}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		ttl := runlock.DefaultTTL
		if raw := os.Getenv("RUN_LOCK_TTL"); raw != "" {
			if ttl, err = time.ParseDuration(raw); err != nil {
				return &exitError{code: exitFailure, err: fmt.Errorf("invalid RUN_LOCK_TTL: %w", err)}
			}
		}
		locker := runlock.NewRedisLocker(addr, os.Getenv("REDIS_PASSWORD"), ttl, logger)
		defer locker.Close()
		if err := locker.Connect(ctx); err != nil {
			return &exitError{code: exitFailure, err: err}
		}
		deps.locker = locker
	}

	if bucket := os.Getenv("REPORT_BUCKET"); bucket != "" {
		uploader, err := report.NewS3Uploader(ctx, report.Config{
			Bucket: bucket,
			Prefix: os.Getenv("REPORT_PREFIX"),
			AWS:    cfg.AWS,
		}, logger)
		if err != nil {
			return &exitError{code: exitFailure, err: fmt.Errorf("failed to create report uploader: %w", err)}
		}
		deps.uploader = uploader
	}

	result, err := executeRun(ctx, deps)
	if result != nil {
		printRunResult(result)
	}
	if code := exitCode(err); code != 0 {
		return &exitError{code: code, err: err}
	}
	return nil
}

// executeRun holds the run lock for the table while one lifecycle run executes
func executeRun(ctx context.Context, deps runDeps) (*backup.RunResult, error) {
	table := deps.service.Config().TableName

	lock, err := deps.locker.Acquire(ctx, table)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			deps.logger.Warn("Failed to release run lock", "table", table, "error", err)
		}
	}()

	result, runErr := deps.service.RunOnce(ctx)

	if deps.uploader != nil && result != nil {
		if _, err := deps.uploader.Upload(ctx, result); err != nil {
			deps.logger.Error("Failed to upload run report", "table", table, "error", err)
		}
	}
	return result, runErr
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, runlock.ErrLocked):
		return exitLocked
	default:
		return exitFailure
	}
}

func printRunResult(result *backup.RunResult) {
	status := successStyle.Render(string(result.State))
	if result.State != backup.StateDone {
		status = errorStyle.Render(string(result.State))
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("==> backup run for %s", result.Table)))
	fmt.Printf("%s %s\n", labelStyle.Render("state:   "), status)
	if result.Backup.Name != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("backup:  "), result.Backup.Name)
	}
	for _, exp := range result.Exports {
		fmt.Printf("%s s3://%s/%s %s\n", labelStyle.Render("export:  "),
			exp.Destination.BucketName, exp.KeyPrefix, dimStyle.Render(exp.Status))
	}
	fmt.Printf("%s %d deleted, %d failed\n", labelStyle.Render("retention:"),
		len(result.Deletion.Deleted), len(result.Deletion.Failed))
}
