package backup

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"k8s.io/utils/clock"
)

const (
	// snapshotMarker separates the table name from the creation timestamp
	snapshotMarker = "-snapshot-"

	millisPerDay = 24 * 60 * 60 * 1000
)

// backupNamePattern matches <table>-snapshot-<epochMillis>
var backupNamePattern = regexp.MustCompile(`^([0-9A-Za-z_.\-]+)-snapshot-([0-9]+)$`)

// BackupName is the parsed form of a backup identifier. The creation time
// encoded in the name is the only time used for retention decisions.
type BackupName struct {
	Table     string
	CreatedAt time.Time
}

// NewBackupName returns the name for a backup of table created at t
func NewBackupName(table string, t time.Time) BackupName {
	return BackupName{
		Table:     table,
		CreatedAt: time.UnixMilli(t.UnixMilli()),
	}
}

// String formats the name as <table>-snapshot-<epochMillis>
func (n BackupName) String() string {
	return fmt.Sprintf("%s%s%d", n.Table, snapshotMarker, n.CreatedAt.UnixMilli())
}

// AgeInDays returns the fractional number of days between the creation time and now
func (n BackupName) AgeInDays(now time.Time) float64 {
	return float64(now.UnixMilli()-n.CreatedAt.UnixMilli()) / millisPerDay
}

// ParseBackupName parses a backup identifier. It reports false for anything
// that does not follow the naming convention, including an empty string.
func ParseBackupName(name string) (BackupName, bool) {
	m := backupNamePattern.FindStringSubmatch(name)
	if m == nil {
		return BackupName{}, false
	}

	millis, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return BackupName{}, false
	}

	return BackupName{
		Table:     m[1],
		CreatedAt: time.UnixMilli(millis),
	}, true
}

// GenerateName returns a fresh backup name for table using the given clock
func GenerateName(table string, clk clock.PassiveClock) string {
	return NewBackupName(table, clk.Now()).String()
}

// IsValidName reports whether name follows the <prefix>-snapshot-<digits> convention
func IsValidName(name string) bool {
	_, ok := ParseBackupName(name)
	return ok
}

// AgeInDays returns the age of the named backup at now.
// It panics if name is not valid; callers must check IsValidName first.
func AgeInDays(name string, now time.Time) float64 {
	parsed, ok := ParseBackupName(name)
	if !ok {
		panic(fmt.Sprintf("backup: AgeInDays called with invalid backup name %q", name))
	}
	return parsed.AgeInDays(now)
}

// IsExpired reports whether a valid backup name is at least ttlDays old
func IsExpired(name string, ttlDays int, now time.Time) bool {
	return AgeInDays(name, now) >= float64(ttlDays)
}
