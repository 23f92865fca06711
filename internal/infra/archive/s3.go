package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/field-scheduler/internal/config"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

// ObjectPutter is the subset of the S3 client the archiver needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver writes finished optimization runs as JSON objects.
type S3Archiver struct {
	client ObjectPutter
	bucket string
	prefix string
}

// NewS3Client builds a client from static credentials. A non-empty endpoint
// switches to path-style addressing for S3-compatible stores.
func NewS3Client(cfg config.ArchiveConfig) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func NewS3Archiver(client ObjectPutter, bucket, prefix string) *S3Archiver {
	return &S3Archiver{client: client, bucket: bucket, prefix: prefix}
}

// Key is <prefix>/<YYYY-MM-DD>/run-<id>-<uuid>.json, dated by the run date.
func (a *S3Archiver) Key(run *models.OptimizationRun) string {
	return path.Join(
		a.prefix,
		run.RunDate.UTC().Format("2006-01-02"),
		fmt.Sprintf("run-%d-%s.json", run.ID, uuid.NewString()),
	)
}

func (a *S3Archiver) Archive(ctx context.Context, run *models.OptimizationRun) error {
	body, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("encode run %d: %w", run.ID, err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.Key(run)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive run %d: %w", run.ID, err)
	}
	return nil
}
