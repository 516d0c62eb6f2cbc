package infra

import (
	"context"
	"fmt"
	"io"

	"github.com/edushelf/edushelf-catalog/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioClient struct {
	Client        *minio.Client
	Bucket        string
	PublicBaseURL string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	rootUser := cfg.Minio.RootUser
	if rootUser == "" {
		panic("MinIO root user is not configured")
	}

	rootPassword := cfg.Minio.RootPassword
	if rootPassword == "" {
		panic("MinIO root password is not configured")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	return &MinioClient{
		Client:        minioClient,
		Bucket:        cfg.Library.Bucket,
		PublicBaseURL: cfg.Library.PublicBaseURL,
	}
}

// EnsureBucket creates the library bucket if it doesn't exist and makes it
// publicly readable, so file URLs resolve without a further activation step.
func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	policyJSON := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [
			{
				"Effect": "Allow",
				"Principal": {"AWS": ["*"]},
				"Action": ["s3:GetObject"],
				"Resource": ["arn:aws:s3:::%s/*"]
			}
		]
	}`, m.Bucket)

	if err := m.Client.SetBucketPolicy(ctx, m.Bucket, policyJSON); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return nil
}

// PutObject uploads a payload under the given key.
func (m *MinioClient) PutObject(ctx context.Context, key string, payload io.Reader, size int64, contentType string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	_, err := m.Client.PutObject(ctx, m.Bucket, key, payload, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", key, err)
	}

	return nil
}

// RemoveObject deletes a blob from the library bucket.
func (m *MinioClient) RemoveObject(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	err := m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}

	return nil
}

// ObjectURL returns the public, directly fetchable URL for a stored key.
func (m *MinioClient) ObjectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", m.PublicBaseURL, m.Bucket, key)
}
