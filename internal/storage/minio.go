package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"goabroad/internal/config"
)

// Client wraps MinIO with the small surface the image upload path needs.
type Client struct {
	internalClient *minio.Client
	publicBaseURL  string
	bucketName     string
}

// NewClient initializes the MinIO client and ensures the bucket exists.
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	internalClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	parsedPublic, err := url.Parse(cfg.PublicEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse minio public endpoint: %w", err)
	}
	if parsedPublic.Host == "" {
		return nil, fmt.Errorf("invalid minio public endpoint, host missing")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := internalClient.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := internalClient.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Client{
		internalClient: internalClient,
		publicBaseURL:  strings.TrimRight(cfg.PublicEndpoint, "/"),
		bucketName:     cfg.Bucket,
	}, nil
}

// UploadFile stores an object and returns its public URL.
func (c *Client) UploadFile(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.internalClient.PutObject(ctx, c.bucketName, objectKey, reader, size, opts); err != nil {
		return "", fmt.Errorf("put object %q: %w", objectKey, err)
	}
	return c.PublicURL(objectKey), nil
}

// PublicURL builds the permanent URL stored in imageUrl fields. The bucket
// is expected to allow anonymous reads for the upload prefixes.
func (c *Client) PublicURL(objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucketName, objectKey)
}

// ObjectKeyFromURL reverses PublicURL so replaced images can be deleted.
// It returns "" for URLs that do not point at this bucket.
func (c *Client) ObjectKeyFromURL(rawURL string) string {
	prefix := c.publicBaseURL + "/" + c.bucketName + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(rawURL, prefix)
}

// DeleteObject removes an object. A missing object counts as success.
func (c *Client) DeleteObject(ctx context.Context, objectKey string) error {
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil
	}
	if err := c.internalClient.RemoveObject(ctx, c.bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		if IsNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("remove object %q: %w", objectKey, err)
	}
	return nil
}
