package backup

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewAWSConfig loads an aws.Config for the given settings
func NewAWSConfig(ctx context.Context, awsConfig AWSConfig) (aws.Config, error) {
	region := awsConfig.Region
	if region == "" {
		region = DefaultRegion
	}

	var cfg aws.Config
	var err error

	if awsConfig.AccessKeyID != "" && awsConfig.SecretAccessKey != "" {
		// Use explicit credentials
		creds := credentials.NewStaticCredentialsProvider(
			awsConfig.AccessKeyID,
			awsConfig.SecretAccessKey,
			"", // session token
		)
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithCredentialsProvider(creds),
			config.WithRegion(region),
		)
	} else {
		// Use default AWS credential chain (environment variables, IAM roles, etc.)
		cfg, err = config.LoadDefaultConfig(ctx,
			config.WithRegion(region),
		)
	}
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return cfg, nil
}

// NewDynamoDBClient creates a DynamoDB client, honouring a custom endpoint
// such as DynamoDB Local or LocalStack.
func NewDynamoDBClient(ctx context.Context, awsConfig AWSConfig) (*dynamodb.Client, error) {
	cfg, err := NewAWSConfig(ctx, awsConfig)
	if err != nil {
		return nil, err
	}

	if awsConfig.Endpoint != "" {
		return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(awsConfig.Endpoint)
		}), nil
	}
	return dynamodb.NewFromConfig(cfg), nil
}

// NewS3Client creates an S3 client. Custom endpoints use path-style addressing.
func NewS3Client(ctx context.Context, awsConfig AWSConfig) (*s3.Client, error) {
	cfg, err := NewAWSConfig(ctx, awsConfig)
	if err != nil {
		return nil, err
	}

	// Configure custom endpoint if provided (for S3-compatible services)
	if awsConfig.Endpoint != "" {
		return s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(awsConfig.Endpoint)
			o.UsePathStyle = true // Required for most S3-compatible services
		}), nil
	}
	return s3.NewFromConfig(cfg), nil
}
