package storage

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
)

type capturingS3 struct {
	input *s3.PutObjectInput
	err   error
}

func (c *capturingS3) PutObject(_ context.Context, input *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	c.input = input
	if c.err != nil {
		return nil, c.err
	}
	return &s3.PutObjectOutput{}, nil
}

func newTestUploader(t *testing.T, api *capturingS3) *S3Uploader {
	t.Helper()
	return &S3Uploader{
		client: api,
		bucket: "application-forms-bucket",
		prefix: "application-forms/",
		region: "ap-northeast-1",
		logger: logger.NewTestLogger(t),
		now: func() time.Time {
			return time.Date(2026, 9, 1, 10, 30, 0, 125_000_000, time.UTC)
		},
	}
}

func TestUploadBuildsTimestampedPath(t *testing.T) {
	api := &capturingS3{}
	u := newTestUploader(t, api)

	result, err := u.Upload(context.Background(), "form.pdf", []byte("%PDF-"), "application/pdf")
	require.NoError(t, err)

	// Colons and dots in the timestamp become dashes.
	wantPath := "application-forms/2026-09-01T10-30-00-125Z_form.pdf"
	assert.Equal(t, wantPath, result.Path)
	assert.Equal(t, "https://application-forms-bucket.s3.ap-northeast-1.amazonaws.com/"+wantPath, result.DownloadURL)
}

func TestUploadSetsPublicReadAndMetadata(t *testing.T) {
	api := &capturingS3{}
	u := newTestUploader(t, api)

	_, err := u.Upload(context.Background(), "form.pdf", []byte("%PDF-"), "application/pdf")
	require.NoError(t, err)
	require.NotNil(t, api.input)

	assert.Equal(t, "application-forms-bucket", *api.input.Bucket)
	assert.Equal(t, s3types.ObjectCannedACLPublicRead, api.input.ACL)
	assert.Equal(t, "application/pdf", *api.input.ContentType)
	assert.Equal(t, "form.pdf", api.input.Metadata["original-name"])

	body, err := io.ReadAll(api.input.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-"), body)
}

func TestUploadWrapsFailure(t *testing.T) {
	api := &capturingS3{err: assert.AnError}
	u := newTestUploader(t, api)

	_, err := u.Upload(context.Background(), "form.pdf", []byte("x"), "application/pdf")
	assert.Error(t, err)
}
