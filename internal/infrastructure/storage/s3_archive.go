// Package storage provides object storage implementations for raw fiscal
// document archival.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	fiscalapp "github.com/varejo/backend/internal/application/fiscal"
	infraconfig "github.com/varejo/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3DocumentArchive implements DocumentArchive
var _ fiscalapp.DocumentArchive = (*S3DocumentArchive)(nil)

// S3DocumentArchive stores raw authorized documents in an S3-compatible
// bucket, keyed by access key. The database keeps its own copy in
// raw_payload; the archive is the long-retention store required for audits.
type S3DocumentArchive struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewS3DocumentArchive creates a new S3DocumentArchive from configuration.
// Compatible with any S3-compatible backend (AWS S3, MinIO, etc.)
func NewS3DocumentArchive(cfg *infraconfig.ArchiveConfig, logger *zap.Logger) (*S3DocumentArchive, error) {
	if cfg == nil {
		return nil, errors.New("archive configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("archive credentials are required")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid archive endpoint: %w", err)
		}
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	if logger == nil {
		logger = zap.NewNop()
	}

	return &S3DocumentArchive{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Store uploads the raw document under documents/<accessKey>.xml
func (a *S3DocumentArchive) Store(ctx context.Context, accessKey string, rawDocument string) error {
	if accessKey == "" {
		return errors.New("access key is required")
	}

	key := fmt.Sprintf("documents/%s.xml", accessKey)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(rawDocument),
		ContentType: aws.String("application/xml"),
	})
	if err != nil {
		return fmt.Errorf("failed to archive document: %w", err)
	}

	a.logger.Debug("document archived",
		zap.String("bucket", a.bucket),
		zap.String("key", key))
	return nil
}
