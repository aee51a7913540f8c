package infra

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pastvault/asset-service/config"
)

type MinioClient struct {
	Admin      *madmin.AdminClient
	Client     *minio.Client
	Endpoint   string
	Bucket     string
	PublicBase string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	accessKey := cfg.Minio.AccessKey
	if accessKey == "" {
		panic("MinIO access key is not configured")
	}

	secretKey := cfg.Minio.SecretKey
	if secretKey == "" {
		panic("MinIO secret key is not configured")
	}

	madminClient, err := madmin.New(endpoint, accessKey, secretKey, cfg.Minio.UseSSL)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO admin client: %v", err))
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	client := &MinioClient{
		Admin:      madminClient,
		Client:     minioClient,
		Endpoint:   endpoint,
		Bucket:     cfg.Minio.Bucket,
		PublicBase: strings.TrimRight(cfg.Minio.PublicBase, "/"),
	}

	if err := client.EnsureBucket(context.Background(), cfg.Minio.Bucket); err != nil {
		panic(fmt.Sprintf("Failed to ensure MinIO bucket: %v", err))
	}

	log.Println("Connected to MinIO:", endpoint, "bucket:", cfg.Minio.Bucket)

	return client
}

// EnsureBucket creates the bucket if it doesn't exist and applies an anonymous
// read policy so secure URLs resolve without signing.
func (m *MinioClient) EnsureBucket(ctx context.Context, bucketName string) error {
	if bucketName == "" {
		return fmt.Errorf("bucketName cannot be empty")
	}

	exists, err := m.Client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		if err := m.Client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
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
	}`, bucketName)

	if err := m.Client.SetBucketPolicy(ctx, bucketName, policyJSON); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}

	return nil
}

// PutAsset streams reader into the bucket under key and returns the public URL.
// size must be the exact byte count.
func (m *MinioClient) PutAsset(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key cannot be empty")
	}

	_, err := m.Client.PutObject(ctx, m.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %q: %w", key, err)
	}

	return m.PublicURL(key), nil
}

// RemoveAsset deletes the object at key from the bucket.
func (m *MinioClient) RemoveAsset(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	err := m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove object %q: %w", key, err)
	}

	return nil
}

// PublicURL returns the browser-accessible URL for the given key.
func (m *MinioClient) PublicURL(key string) string {
	return m.PublicBase + "/" + key
}

// Health probes the storage backend through the admin API.
func (m *MinioClient) Health(ctx context.Context) error {
	_, err := m.Admin.ServerInfo(ctx)
	if err != nil {
		return fmt.Errorf("minio server info: %w", err)
	}
	return nil
}
