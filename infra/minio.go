package infra

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/aperturelog/aperture/config"
)

type MinioClient struct {
	Client    *minio.Client
	Bucket    string
	PublicURL string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	if cfg.Minio.Endpoint == "" {
		panic("MinIO endpoint is not configured")
	}
	if cfg.Minio.AccessKey == "" || cfg.Minio.SecretKey == "" {
		panic("MinIO credentials are not configured")
	}
	if cfg.Minio.PublicURL == "" {
		panic("Storage public URL is not configured")
	}

	client, err := minio.New(cfg.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	m := &MinioClient{
		Client:    client,
		Bucket:    cfg.Minio.Bucket,
		PublicURL: strings.TrimSuffix(cfg.Minio.PublicURL, "/"),
	}

	if err := m.ensureBucket(context.Background()); err != nil {
		panic(fmt.Sprintf("Failed to ensure MinIO bucket: %v", err))
	}

	log.Println("Connected to MinIO:", cfg.Minio.Endpoint)

	return m
}

func (m *MinioClient) ensureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", m.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", m.Bucket, err)
	}
	return nil
}

// PresignedUploadURL returns a time-limited PUT URL for the given key. The
// key is computed server-side; clients never choose the storage path.
func (m *MinioClient) PresignedUploadURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.Client.PresignedPutObject(ctx, m.Bucket, key, expiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign upload for %q: %w", key, err)
	}
	return u.String(), nil
}

// ObjectURL returns the public-facing URL for a stored object key.
func (m *MinioClient) ObjectURL(key string) string {
	return m.PublicURL + "/" + key
}

// KeyFromURL recovers the object key from a public URL produced by
// ObjectURL. Returns an error for URLs outside the configured public base.
func (m *MinioClient) KeyFromURL(url string) (string, error) {
	prefix := m.PublicURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url %q is not under storage public base", url)
	}
	return strings.TrimPrefix(url, prefix), nil
}

func (m *MinioClient) RemoveObject(ctx context.Context, key string) error {
	if err := m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %q: %w", key, err)
	}
	return nil
}
