package controller

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	backupv1alpha1 "github.com/GreedyKomodoDragon/table-backup-operator/api/v1alpha1"
)

// ParseSchedule turns a BackupSchedule into a cron.Schedule. Rate schedules
// fire every interval after the previous run; cron schedules fire at the
// given minute and hour fields, evaluated in UTC.
func ParseSchedule(s backupv1alpha1.BackupSchedule) (cron.Schedule, error) {
	switch s.Option {
	case backupv1alpha1.ScheduleOptionRate, "":
		interval, err := RateInterval(s.Rate)
		if err != nil {
			return nil, err
		}
		return cron.Every(interval), nil
	case backupv1alpha1.ScheduleOptionCron:
		return cron.ParseStandard(CronSpec(s.Cron))
	default:
		return nil, fmt.Errorf("unsupported schedule option: %s", s.Option)
	}
}

// RateInterval returns the interval of a rate schedule, one day when unset
func RateInterval(rate *backupv1alpha1.RateSchedule) (time.Duration, error) {
	if rate == nil {
		return 24 * time.Hour, nil
	}

	value := rate.Value
	if value == 0 {
		value = 1
	}
	if value < 0 {
		return 0, fmt.Errorf("rate value must be positive, got %d", value)
	}

	switch rate.Unit {
	case backupv1alpha1.RateUnitDays, "":
		return time.Duration(value) * 24 * time.Hour, nil
	case backupv1alpha1.RateUnitHours:
		return time.Duration(value) * time.Hour, nil
	case backupv1alpha1.RateUnitMinutes:
		return time.Duration(value) * time.Minute, nil
	default:
		return 0, fmt.Errorf("unsupported rate unit: %s", rate.Unit)
	}
}

// CronSpec returns the five-field cron expression for a daily cron schedule
func CronSpec(c *backupv1alpha1.CronSchedule) string {
	minute, hour := "*", "*"
	if c != nil {
		if m := strings.TrimSpace(c.Minute); m != "" {
			minute = m
		}
		if h := strings.TrimSpace(c.Hour); h != "" {
			hour = h
		}
	}
	return fmt.Sprintf("CRON_TZ=UTC %s %s * * *", minute, hour)
}
