package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/config"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/errors"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/logger"
	"github.com/thanhbinhkd95/Form-To-PDF/internal/common/metrics"
)

// UploadResult describes a stored object.
type UploadResult struct {
	DownloadURL string `json:"downloadURL"`
	Path        string `json:"path"`
}

// Uploader stores a generated document and returns a public link to it.
type Uploader interface {
	Upload(ctx context.Context, filename string, content []byte, contentType string) (*UploadResult, error)
}

// s3API is the slice of the S3 client the uploader uses.
type s3API interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader writes objects with public-read access under a fixed prefix.
// Object names carry an upload timestamp so repeated uploads of the same
// filename never collide.
type S3Uploader struct {
	client s3API
	bucket string
	prefix string
	region string
	logger logger.Logger
	now    func() time.Time
}

// NewS3Uploader builds an uploader from the ambient AWS credentials.
func NewS3Uploader(ctx context.Context, cfg config.StorageConfig, log logger.Logger) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		region: cfg.Region,
		logger: log,
		now:    time.Now,
	}, nil
}

// Upload stores the content and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, filename string, content []byte, contentType string) (*UploadResult, error) {
	objectPath := u.objectPath(filename)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(objectPath),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
		Metadata: map[string]string{
			"uploaded-at":   u.now().UTC().Format(time.RFC3339),
			"original-name": filename,
		},
	})
	if err != nil {
		metrics.DeliveriesTotal.WithLabelValues("storage", "error").Inc()
		return nil, errors.NewStorageUploadFailedError(err)
	}

	metrics.DeliveriesTotal.WithLabelValues("storage", "success").Inc()
	u.logger.Info("Object uploaded", map[string]interface{}{
		"path":  objectPath,
		"bytes": len(content),
	})
	return &UploadResult{
		DownloadURL: fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, objectPath),
		Path:        objectPath,
	}, nil
}

// objectPath prefixes the filename with a filesystem-safe UTC timestamp.
func (u *S3Uploader) objectPath(filename string) string {
	ts := u.now().UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return u.prefix + ts + "_" + filename
}
