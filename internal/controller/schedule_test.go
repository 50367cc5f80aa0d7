package controller

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	backupv1alpha1 "github.com/GreedyKomodoDragon/table-backup-operator/api/v1alpha1"
)

var _ = Describe("ParseSchedule", func() {
	start := time.Date(2025, time.March, 10, 8, 30, 0, 0, time.UTC)

	Context("with a rate schedule", func() {
		It("defaults to once a day", func() {
			schedule, err := ParseSchedule(backupv1alpha1.BackupSchedule{})
			Expect(err).NotTo(HaveOccurred())
			Expect(schedule.Next(start)).To(Equal(start.Add(24 * time.Hour)))
		})

		DescribeTable("converts units to intervals",
			func(unit backupv1alpha1.RateUnit, value int32, want time.Duration) {
				schedule, err := ParseSchedule(backupv1alpha1.BackupSchedule{
					Option: backupv1alpha1.ScheduleOptionRate,
					Rate:   &backupv1alpha1.RateSchedule{Unit: unit, Value: value},
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(schedule.Next(start).Sub(start)).To(Equal(want))
			},
			Entry("days", backupv1alpha1.RateUnitDays, int32(2), 48*time.Hour),
			Entry("hours", backupv1alpha1.RateUnitHours, int32(6), 6*time.Hour),
			Entry("minutes", backupv1alpha1.RateUnitMinutes, int32(15), 15*time.Minute),
			Entry("unset value means one", backupv1alpha1.RateUnitHours, int32(0), time.Hour),
		)

		It("rejects unknown units", func() {
			_, err := ParseSchedule(backupv1alpha1.BackupSchedule{
				Rate: &backupv1alpha1.RateSchedule{Unit: "seconds", Value: 1},
			})
			Expect(err).To(HaveOccurred())
		})

		It("rejects negative values", func() {
			_, err := RateInterval(&backupv1alpha1.RateSchedule{Unit: backupv1alpha1.RateUnitDays, Value: -1})
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with a cron schedule", func() {
		It("fires at the configured minute and hour in UTC", func() {
			schedule, err := ParseSchedule(backupv1alpha1.BackupSchedule{
				Option: backupv1alpha1.ScheduleOptionCron,
				Cron:   &backupv1alpha1.CronSchedule{Minute: "0", Hour: "3"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(schedule.Next(start).UTC()).To(Equal(time.Date(2025, time.March, 11, 3, 0, 0, 0, time.UTC)))
		})

		It("defaults both fields to every value", func() {
			Expect(CronSpec(nil)).To(Equal("CRON_TZ=UTC * * * * *"))
			Expect(CronSpec(&backupv1alpha1.CronSchedule{Minute: "30"})).To(Equal("CRON_TZ=UTC 30 * * * *"))
		})

		It("rejects out of range fields", func() {
			_, err := ParseSchedule(backupv1alpha1.BackupSchedule{
				Option: backupv1alpha1.ScheduleOptionCron,
				Cron:   &backupv1alpha1.CronSchedule{Minute: "99", Hour: "3"},
			})
			Expect(err).To(HaveOccurred())
		})
	})

	It("rejects unknown options", func() {
		_, err := ParseSchedule(backupv1alpha1.BackupSchedule{Option: "weekly"})
		Expect(err).To(HaveOccurred())
	})
})
