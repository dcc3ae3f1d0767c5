package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/MdFayaz7/portfolio1/internal/config"
)

// MinioStore writes uploads to a single MinIO bucket.
type MinioStore struct {
	client     *minio.Client
	bucketName string
}

// NewMinioStore creates the client and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg config.MinIOConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if !cfg.AutoCreateBucket {
			return nil, fmt.Errorf("bucket %q does not exist (auto create disabled)", cfg.Bucket)
		}
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinioStore{client: client, bucketName: cfg.Bucket}, nil
}

// Put uploads the object with its content type.
func (s *MinioStore) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if !ValidName(name) {
		return fmt.Errorf("invalid object name %q", name)
	}
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.bucketName, name, r, size, opts); err != nil {
		return fmt.Errorf("put object %q: %w", name, err)
	}
	return nil
}

// Open stats the object first since GetObject is lazy and would only fail on read.
func (s *MinioStore) Open(ctx context.Context, name string) (*Object, error) {
	if !ValidName(name) {
		return nil, ErrNotExist
	}
	info, err := s.client.StatObject(ctx, s.bucketName, name, minio.StatObjectOptions{})
	if err != nil {
		return nil, objectError("stat", name, err)
	}
	obj, err := s.client.GetObject(ctx, s.bucketName, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, objectError("get", name, err)
	}
	return &Object{
		ReadCloser:  obj,
		Size:        info.Size,
		ContentType: info.ContentType,
		ModTime:     info.LastModified,
	}, nil
}
