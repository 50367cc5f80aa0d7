package cucumber

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/cucumber/godog"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

// runStartMs is the fixed time every scenario runs at
const runStartMs int64 = 1741683600000

const testTableARNFormat = "arn:aws:dynamodb:us-east-1:000000000000:table/%s"

// TestContext holds the state of one scenario
type TestContext struct {
	tableName    string
	ttlDays      int
	bucketNames  string
	bucketOwners string

	service *backup.MockTableService
	now     time.Time
	aged    map[int]backup.Backup
	named   map[string]backup.Backup

	result *backup.RunResult
	runErr error
}

// NewTestContext creates a new test context
func NewTestContext() *TestContext {
	return &TestContext{
		now:   time.UnixMilli(runStartMs),
		aged:  make(map[int]backup.Backup),
		named: make(map[string]backup.Backup),
	}
}

// InitializeTestSuite initializes the cucumber test suite
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		fmt.Println("Starting table backup lifecycle tests")
	})

	ctx.AfterSuite(func() {
		fmt.Println("Finished table backup lifecycle tests")
	})
}

// InitializeScenario initializes each cucumber scenario
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := NewTestContext()

	// Setup steps
	ctx.Step(`^a table "([^"]*)" with a retention of (\d+) days$`, tc.aTableWithRetention)
	ctx.Step(`^export destinations "([^"]*)" owned by "([^"]*)"$`, tc.exportDestinations)
	ctx.Step(`^no export destinations$`, tc.noExportDestinations)
	ctx.Step(`^a backup created (\d+) days ago$`, tc.aBackupCreatedDaysAgo)
	ctx.Step(`^a backup created (\d+) days ago that cannot be deleted$`, tc.aBackupThatCannotBeDeleted)
	ctx.Step(`^a backup named "([^"]*)"$`, tc.aBackupNamed)
	ctx.Step(`^creating a backup fails with "([^"]*)"$`, tc.creatingABackupFails)
	ctx.Step(`^exporting to "([^"]*)" fails with "([^"]*)"$`, tc.exportingFails)

	// Action steps
	ctx.Step(`^the lifecycle runs$`, tc.theLifecycleRuns)

	// Verification steps
	ctx.Step(`^the run ends in state "([^"]*)"$`, tc.theRunEndsInState)
	ctx.Step(`^the run error contains "([^"]*)"$`, tc.theRunErrorContains)
	ctx.Step(`^exports were started to "([^"]*)"$`, tc.exportsWereStartedTo)
	ctx.Step(`^no exports were started$`, tc.noExportsWereStarted)
	ctx.Step(`^every export uses the key prefix of the new backup$`, tc.everyExportUsesBackupPrefix)
	ctx.Step(`^no backups were listed$`, tc.noBackupsWereListed)
	ctx.Step(`^the backup created (\d+) days ago was (deleted|kept)$`, tc.theAgedBackupWas)
	ctx.Step(`^the backup named "([^"]*)" was (deleted|kept)$`, tc.theNamedBackupWas)
	ctx.Step(`^(\d+) delete failures? (?:was|were) reported$`, tc.deleteFailuresWereReported)

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc.cleanup()
		return ctx, nil
	})
}

func (tc *TestContext) mockService() *backup.MockTableService {
	if tc.service == nil {
		tc.service = backup.NewMockTableService(fmt.Sprintf(testTableARNFormat, tc.tableName))
	}
	return tc.service
}

// Step implementations
func (tc *TestContext) aTableWithRetention(table string, ttlDays int) error {
	tc.tableName = table
	tc.ttlDays = ttlDays
	return nil
}

func (tc *TestContext) exportDestinations(names, owners string) error {
	tc.bucketNames = names
	tc.bucketOwners = owners
	return nil
}

func (tc *TestContext) noExportDestinations() error {
	tc.bucketNames = ""
	tc.bucketOwners = ""
	return nil
}

func (tc *TestContext) aBackupCreatedDaysAgo(days int) error {
	created := tc.now.Add(-time.Duration(days) * 24 * time.Hour)
	name := backup.NewBackupName(tc.tableName, created).String()
	b := backup.Backup{Name: name, ARN: backup.MockBackupARN(tc.tableName, name)}
	tc.mockService().AddBackup(b.Name, b.ARN)
	tc.aged[days] = b
	return nil
}

func (tc *TestContext) aBackupThatCannotBeDeleted(days int) error {
	if err := tc.aBackupCreatedDaysAgo(days); err != nil {
		return err
	}
	tc.mockService().FailDeleteOf(tc.aged[days].ARN, errors.New("ResourceInUseException"))
	return nil
}

func (tc *TestContext) aBackupNamed(name string) error {
	b := backup.Backup{Name: name, ARN: backup.MockBackupARN(tc.tableName, name)}
	tc.mockService().AddBackup(b.Name, b.ARN)
	tc.named[name] = b
	return nil
}

func (tc *TestContext) creatingABackupFails(message string) error {
	tc.mockService().SetCreateError(errors.New(message))
	return nil
}

func (tc *TestContext) exportingFails(bucket, message string) error {
	tc.mockService().FailExportTo(bucket, errors.New(message))
	return nil
}

func (tc *TestContext) theLifecycleRuns() error {
	cfg := backup.Config{
		TableName:    tc.tableName,
		TTLDays:      tc.ttlDays,
		BucketNames:  tc.bucketNames,
		BucketOwners: tc.bucketOwners,
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := backup.NewBackupService(cfg, tc.mockService(), clocktesting.NewFakePassiveClock(tc.now), logger)

	tc.result, tc.runErr = svc.RunOnce(context.Background())
	if tc.result == nil {
		return fmt.Errorf("run returned no result: %v", tc.runErr)
	}
	return nil
}

func (tc *TestContext) theRunEndsInState(state string) error {
	if got := string(tc.result.State); got != state {
		return fmt.Errorf("expected run state %s, got %s (error: %v)", state, got, tc.runErr)
	}
	if state == string(backup.StateFailed) && tc.runErr == nil {
		return fmt.Errorf("failed run returned no error")
	}
	if state == string(backup.StateDone) && tc.runErr != nil {
		return fmt.Errorf("successful run returned error: %v", tc.runErr)
	}
	return nil
}

func (tc *TestContext) theRunErrorContains(text string) error {
	if !strings.Contains(tc.result.Error, text) {
		return fmt.Errorf("expected run error to contain %q, got %q", text, tc.result.Error)
	}
	return nil
}

func (tc *TestContext) exportedBuckets() []string {
	var buckets []string
	for _, call := range tc.mockService().CallsTo(backup.OpExport) {
		buckets = append(buckets, call.Arg)
	}
	return buckets
}

func (tc *TestContext) exportsWereStartedTo(csv string) error {
	want := strings.Split(csv, ",")
	if got := tc.exportedBuckets(); !slices.Equal(got, want) {
		return fmt.Errorf("expected exports to %v, got %v", want, got)
	}
	return nil
}

func (tc *TestContext) noExportsWereStarted() error {
	if got := tc.exportedBuckets(); len(got) > 0 {
		return fmt.Errorf("expected no exports, got %v", got)
	}
	return nil
}

func (tc *TestContext) everyExportUsesBackupPrefix() error {
	want := backup.ExportKeyPrefix(backup.DefaultExportPrefix, tc.result.Backup.Name)
	for _, req := range tc.mockService().Exports() {
		if req.KeyPrefix != want {
			return fmt.Errorf("export to %s used prefix %s, expected %s", req.Destination.BucketName, req.KeyPrefix, want)
		}
	}
	return nil
}

func (tc *TestContext) noBackupsWereListed() error {
	if calls := tc.mockService().CallsTo(backup.OpListBackups); len(calls) > 0 {
		return fmt.Errorf("expected no list calls, got %d", len(calls))
	}
	return nil
}

func (tc *TestContext) stillPresent(b backup.Backup) bool {
	return slices.Contains(tc.mockService().Backups(), b)
}

func (tc *TestContext) checkOutcome(b backup.Backup, outcome string) error {
	present := tc.stillPresent(b)
	switch {
	case outcome == "deleted" && present:
		return fmt.Errorf("expected backup %s to be deleted", b.Name)
	case outcome == "kept" && !present:
		return fmt.Errorf("expected backup %s to be kept", b.Name)
	}
	return nil
}

func (tc *TestContext) theAgedBackupWas(days int, outcome string) error {
	b, ok := tc.aged[days]
	if !ok {
		return fmt.Errorf("no backup created %d days ago in this scenario", days)
	}
	return tc.checkOutcome(b, outcome)
}

func (tc *TestContext) theNamedBackupWas(name, outcome string) error {
	b, ok := tc.named[name]
	if !ok {
		return fmt.Errorf("no backup named %s in this scenario", name)
	}
	return tc.checkOutcome(b, outcome)
}

func (tc *TestContext) deleteFailuresWereReported(count int) error {
	if got := len(tc.result.Deletion.Failed); got != count {
		return fmt.Errorf("expected %d delete failures, got %d", count, got)
	}
	return nil
}

func (tc *TestContext) cleanup() {
	tc.service = nil
	tc.result = nil
	tc.runErr = nil
	tc.aged = make(map[int]backup.Backup)
	tc.named = make(map[string]backup.Backup)
}
