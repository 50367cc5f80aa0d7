package controller

import (
	backupv1alpha1 "github.com/GreedyKomodoDragon/table-backup-operator/api/v1alpha1"
	"github.com/GreedyKomodoDragon/table-backup-operator/internal/backup"
)

// BuildBackupConfig builds the run configuration for a TableBackup
func BuildBackupConfig(tb *backupv1alpha1.TableBackup, creds Credentials) backup.Config {
	destinations := make([]backup.Destination, 0, len(tb.Spec.Destinations))
	for _, d := range tb.Spec.Destinations {
		destinations = append(destinations, backup.Destination{
			BucketName:     d.Bucket,
			OwnerAccountID: d.OwnerAccountID,
		})
	}
	names, owners := backup.JoinDestinations(destinations)

	cfg := backup.Config{
		TableName:    tb.Spec.TableName,
		TTLDays:      int(tb.Spec.TTLDays),
		BucketNames:  names,
		BucketOwners: owners,
		ExportPrefix: tb.Spec.ExportPrefix,
		ExportFormat: backup.ExportFormat(tb.Spec.ExportFormat),
		AWS: backup.AWSConfig{
			Region:          tb.Spec.AWS.Region,
			Endpoint:        tb.Spec.AWS.Endpoint,
			AccessKeyID:     creds.AccessKeyID,
			SecretAccessKey: creds.SecretAccessKey,
		},
	}
	if tb.Spec.StageTimeout != nil {
		cfg.StageTimeout = tb.Spec.StageTimeout.Duration
	}

	return cfg.WithDefaults()
}
