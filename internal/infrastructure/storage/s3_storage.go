// Package storage provides the S3-compatible document archive.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/nizy/tailor/internal/domain/printing"
	infraconfig "github.com/nizy/tailor/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultEndpoint = "http://localhost:9000"
	defaultRegion   = "us-east-1"
	// archivePrefix is the common prefix of every printing.ArchiveKey
	archivePrefix = "exports/"
)

var _ printing.DocumentArchive = (*S3DocumentStore)(nil)

// S3DocumentStore archives exported documents in a bucket on AWS S3 or any
// S3-compatible server such as MinIO
type S3DocumentStore struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
	now    func() time.Time
}

type S3DocumentStoreOption func(*S3DocumentStore)

func WithLogger(logger *zap.Logger) S3DocumentStoreOption {
	return func(s *S3DocumentStore) { s.logger = logger }
}

func NewS3DocumentStore(cfg *infraconfig.StorageConfig, opts ...S3DocumentStoreOption) (*S3DocumentStore, error) {
	if err := validateStorage(cfg); err != nil {
		return nil, err
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 client config: %w", err)
	}

	endpoint := endpointURL(cfg.Endpoint, cfg.UseSSL)
	store := &S3DocumentStore{
		client: s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.UsePathStyle
			o.BaseEndpoint = aws.String(endpoint)
		}),
		bucket: cfg.Bucket,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

func validateStorage(cfg *infraconfig.StorageConfig) error {
	switch {
	case cfg == nil:
		return errors.New("storage configuration is required")
	case cfg.Bucket == "":
		return errors.New("storage bucket is required")
	case cfg.AccessKey == "":
		return errors.New("storage access key is required")
	case cfg.SecretKey == "":
		return errors.New("storage secret key is required")
	}
	return nil
}

// endpointURL adds the scheme to a bare host:port
func endpointURL(endpoint string, useSSL bool) string {
	if endpoint == "" {
		return defaultEndpoint
	}
	if strings.Contains(endpoint, "://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

func (s *S3DocumentStore) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket when it is missing. Run it once at startup.
func (s *S3DocumentStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	if !isMissing(err) {
		return fmt.Errorf("check bucket: %w", err)
	}

	s.logger.Info("creating archive bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// Archive stores doc under printing.ArchiveKey with one PutObject, so a
// failed upload leaves no partial object behind
func (s *S3DocumentStore) Archive(ctx context.Context, doc *printing.Document, at time.Time) (string, error) {
	if doc == nil || doc.Size() == 0 {
		return "", errors.New("document is empty")
	}
	if doc.FileName == "" || strings.ContainsAny(doc.FileName, `/\`) {
		return "", fmt.Errorf("invalid file name: %q", doc.FileName)
	}

	key := printing.ArchiveKey(doc.FileName, at)
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(doc.Data),
		ContentLength: aws.Int64(int64(doc.Size())),
		ContentType:   aws.String(doc.ContentType),
		Metadata:      map[string]string{"document-type": doc.Type.String()},
	}); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	s.logger.Debug("document archived", zap.String("bucket", s.bucket), zap.String("key", key))
	return key, nil
}

// CleanupOlderThan deletes archived documents last modified more than age
// ago. It keeps going past a failed delete and reports how many went.
func (s *S3DocumentStore) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := s.now().Add(-age)
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(archivePrefix),
	})

	var (
		deleted int
		errs    []error
	)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return deleted, fmt.Errorf("list archive: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.LastModified == nil || !obj.LastModified.Before(cutoff) {
				continue
			}
			if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			}); err != nil {
				errs = append(errs, fmt.Errorf("delete %s: %w", aws.ToString(obj.Key), err))
				continue
			}
			deleted++
		}
	}

	s.logger.Info("archive cleanup completed",
		zap.String("bucket", s.bucket),
		zap.Int("deleted", deleted),
		zap.Duration("age", age))
	return deleted, errors.Join(errs...)
}

func isMissing(err error) bool {
	var (
		notFound *types.NotFound
		noBucket *types.NoSuchBucket
	)
	return errors.As(err, &notFound) || errors.As(err, &noBucket)
}
