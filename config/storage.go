package config

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrStorageNotConfigured is returned when no AWS region is set
var ErrStorageNotConfigured = errors.New("avatar storage is not configured")

// S3Config holds the S3 client and bucket used for avatar images
type S3Config struct {
	Client     *s3.Client
	BucketName string
	presigner  *s3.PresignClient
}

// NewS3Config initializes the S3 client for cfg's bucket and region. Extra
// options are passed to the AWS config loader.
func NewS3Config(ctx context.Context, cfg *Config, optFns ...func(*awsconfig.LoadOptions) error) (*S3Config, error) {
	if cfg.AWSRegion == "" || cfg.S3BucketName == "" {
		return nil, ErrStorageNotConfigured
	}

	opts := append([]func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}, optFns...)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Config{
		Client:     client,
		BucketName: cfg.S3BucketName,
		presigner:  s3.NewPresignClient(client),
	}, nil
}

// PresignUpload generates a presigned PUT URL for objectKey. The upload must
// be sent with the same content type.
func (s *S3Config) PresignUpload(ctx context.Context, objectKey, contentType string, expiration time.Duration) (string, error) {
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.BucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
