// Package storage is the boundary to the external media service. The
// engine stores and forwards the resulting URL, never the bytes.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// MaxImageSize is the upload ceiling for profile images (10MB).
const MaxImageSize = 10 << 20

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaStorage stores uploaded media and returns a public URL.
type MediaStorage interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
	Delete(ctx context.Context, fileURL string) (bool, error)
}

// S3Storage implements MediaStorage on an S3 bucket.
type S3Storage struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Storage builds the client from the default AWS credential chain.
// AWS_S3_BUCKET must be set; AWS_REGION follows the SDK's resolution.
func NewS3Storage(ctx context.Context) (*S3Storage, error) {
	bucket := os.Getenv("AWS_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET environment variable not set")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &S3Storage{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: cfg.Region,
	}, nil
}

// IsValidImage checks extension, content type and size before an upload is
// attempted.
func IsValidImage(filename, contentType string, size int64) bool {
	if size <= 0 || size > MaxImageSize {
		return false
	}
	if !strings.HasPrefix(contentType, "image/") {
		return false
	}
	return allowedImageExtensions[strings.ToLower(path.Ext(filename))]
}

// Upload stores the object under a fresh key and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	key := fmt.Sprintf("uploads/%s%s", uuid.NewString(), strings.ToLower(path.Ext(filename)))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        r,
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	if s.region == "" || s.region == "us-east-1" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// Delete removes the object a previously returned URL points at. Deleting
// an unknown URL reports false without error.
func (s *S3Storage) Delete(ctx context.Context, fileURL string) (bool, error) {
	marker := ".amazonaws.com/"
	i := strings.Index(fileURL, marker)
	if i < 0 {
		return false, nil
	}
	key := fileURL[i+len(marker):]
	if key == "" {
		return false, nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return true, nil
}
