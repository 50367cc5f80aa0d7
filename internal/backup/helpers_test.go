package backup_test

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

const testTableARN = "arn:aws:dynamodb:us-east-1:000000000000:table/mock-table"

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

// backupAged returns a backup of mockTable created age before now
func backupAged(now time.Time, age time.Duration) backup.Backup {
	name := backup.NewBackupName(mockTable, now.Add(-age)).String()
	return backup.Backup{Name: name, ARN: backup.MockBackupARN(mockTable, name)}
}

func days(n float64) time.Duration {
	return time.Duration(n * float64(24*time.Hour))
}

func seed(svc *backup.MockTableService, backups ...backup.Backup) {
	for _, b := range backups {
		svc.AddBackup(b.Name, b.ARN)
	}
}

func argsOf(calls []backup.MockCall) []string {
	args := make([]string, len(calls))
	for i, c := range calls {
		args[i] = c.Arg
	}
	return args
}

var errServiceUnavailable = fmt.Errorf("service unavailable")
