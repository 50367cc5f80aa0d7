package backup

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBAPI is the subset of the DynamoDB client used by DynamoDBTableService
type DynamoDBAPI interface {
	CreateBackup(ctx context.Context, params *dynamodb.CreateBackupInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateBackupOutput, error)
	ListBackups(ctx context.Context, params *dynamodb.ListBackupsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListBackupsOutput, error)
	DeleteBackup(ctx context.Context, params *dynamodb.DeleteBackupInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteBackupOutput, error)
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	ExportTableToPointInTime(ctx context.Context, params *dynamodb.ExportTableToPointInTimeInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ExportTableToPointInTimeOutput, error)
}

// DynamoDBTableService implements TableService on top of DynamoDB on-demand
// backups and point-in-time exports to S3.
type DynamoDBTableService struct {
	client DynamoDBAPI
}

// NewDynamoDBTableService creates a TableService backed by client
func NewDynamoDBTableService(client DynamoDBAPI) *DynamoDBTableService {
	return &DynamoDBTableService{client: client}
}

// CreateBackup implements TableService.CreateBackup
func (d *DynamoDBTableService) CreateBackup(ctx context.Context, tableName, backupName string) (Backup, error) {
	out, err := d.client.CreateBackup(ctx, &dynamodb.CreateBackupInput{
		TableName:  aws.String(tableName),
		BackupName: aws.String(backupName),
	})
	if err != nil {
		return Backup{}, err
	}
	if out == nil || out.BackupDetails == nil {
		return Backup{}, fmt.Errorf("create backup response for %s has no backup details", backupName)
	}

	return Backup{
		Name: aws.ToString(out.BackupDetails.BackupName),
		ARN:  aws.ToString(out.BackupDetails.BackupArn),
	}, nil
}

// ListBackups implements TableService.ListBackups
func (d *DynamoDBTableService) ListBackups(ctx context.Context, tableName string) ([]Backup, error) {
	input := &dynamodb.ListBackupsInput{
		TableName: aws.String(tableName),
	}

	var backups []Backup
	for {
		out, err := d.client.ListBackups(ctx, input)
		if err != nil {
			return nil, err
		}
		if out == nil {
			return nil, fmt.Errorf("list backups response for %s is empty", tableName)
		}

		for _, summary := range out.BackupSummaries {
			backups = append(backups, Backup{
				Name: aws.ToString(summary.BackupName),
				ARN:  aws.ToString(summary.BackupArn),
			})
		}

		if out.LastEvaluatedBackupArn == nil {
			return backups, nil
		}
		input.ExclusiveStartBackupArn = out.LastEvaluatedBackupArn
	}
}

// DeleteBackup implements TableService.DeleteBackup
func (d *DynamoDBTableService) DeleteBackup(ctx context.Context, backupARN string) error {
	_, err := d.client.DeleteBackup(ctx, &dynamodb.DeleteBackupInput{
		BackupArn: aws.String(backupARN),
	})
	return err
}

// DescribeTable implements TableService.DescribeTable
func (d *DynamoDBTableService) DescribeTable(ctx context.Context, tableName string) (TableDescription, error) {
	out, err := d.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{
		TableName: aws.String(tableName),
	})
	if err != nil {
		return TableDescription{}, err
	}
	if out == nil || out.Table == nil {
		return TableDescription{}, fmt.Errorf("describe table response for %s has no table", tableName)
	}

	return TableDescription{
		Name: aws.ToString(out.Table.TableName),
		ARN:  aws.ToString(out.Table.TableArn),
	}, nil
}

// ExportTableSnapshot implements TableService.ExportTableSnapshot
func (d *DynamoDBTableService) ExportTableSnapshot(ctx context.Context, req ExportRequest) (ExportResult, error) {
	input := &dynamodb.ExportTableToPointInTimeInput{
		TableArn:     aws.String(req.TableARN),
		S3Bucket:     aws.String(req.Destination.BucketName),
		S3Prefix:     aws.String(req.KeyPrefix),
		ExportFormat: types.ExportFormat(req.Format),
	}
	if req.Destination.OwnerAccountID != "" {
		input.S3BucketOwner = aws.String(req.Destination.OwnerAccountID)
	}
	if !req.ExportTime.IsZero() {
		input.ExportTime = aws.Time(req.ExportTime)
	}

	out, err := d.client.ExportTableToPointInTime(ctx, input)
	if err != nil {
		return ExportResult{}, err
	}
	if out == nil || out.ExportDescription == nil {
		return ExportResult{}, fmt.Errorf("export response for bucket %s has no export description", req.Destination.BucketName)
	}

	return ExportResult{
		Destination: req.Destination,
		KeyPrefix:   req.KeyPrefix,
		ExportARN:   aws.ToString(out.ExportDescription.ExportArn),
		Status:      string(out.ExportDescription.ExportStatus),
	}, nil
}
