package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/field-scheduler/internal/config"
	"github.com/BruksfildServices01/field-scheduler/internal/models"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func TestS3Archiver_Archive(t *testing.T) {
	putter := &fakePutter{}
	a := NewS3Archiver(putter, "runs", "optimization-runs/")

	run := &models.OptimizationRun{
		ID:      42,
		RunDate: time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC),
		Status:  "COMPLETED",
	}
	require.NoError(t, a.Archive(context.Background(), run))

	assert.Equal(t, "runs", aws.ToString(putter.input.Bucket))
	key := aws.ToString(putter.input.Key)
	assert.True(t, strings.HasPrefix(key, "optimization-runs/2025-03-10/run-42-"), key)
	assert.True(t, strings.HasSuffix(key, ".json"), key)
	assert.Equal(t, "application/json", aws.ToString(putter.input.ContentType))

	var decoded models.OptimizationRun
	require.NoError(t, json.Unmarshal(putter.body, &decoded))
	assert.Equal(t, uint(42), decoded.ID)
	assert.Equal(t, "COMPLETED", decoded.Status)
}

func TestS3Archiver_KeysAreUnique(t *testing.T) {
	a := NewS3Archiver(&fakePutter{}, "runs", "p")
	run := &models.OptimizationRun{ID: 1}
	assert.NotEqual(t, a.Key(run), a.Key(run))
}

func TestS3Archiver_WrapsError(t *testing.T) {
	a := NewS3Archiver(&fakePutter{err: errors.New("denied")}, "runs", "p")
	err := a.Archive(context.Background(), &models.OptimizationRun{ID: 9})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "archive run 9")
}

func TestNewS3Client(t *testing.T) {
	client := NewS3Client(config.ArchiveConfig{
		Region:    "us-east-1",
		Endpoint:  "http://localhost:9000",
		AccessKey: "key",
		SecretKey: "secret",
	})
	opts := client.Options()
	assert.Equal(t, "us-east-1", opts.Region)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))
}
