// Package storage holds the object store for lease documents.
package storage

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"rentora_backend/platform/config"
)

// DocumentStorage stores lease document objects in a MinIO bucket. The
// database rows in the documents table reference objects here by file key.
type DocumentStorage struct {
	client *minio.Client
	bucket string
}

// NewDocumentStorage creates a MinIO-backed document store.
func NewDocumentStorage(cfg config.StorageConfig) (*DocumentStorage, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &DocumentStorage{
		client: client,
		bucket: cfg.GetMinioBucketLeaseDocuments(),
	}, nil
}

// EnsureBucketExists creates the lease documents bucket if it doesn't exist.
func (s *DocumentStorage) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// RemoveObject deletes the object behind a cascade-deleted document row.
func (s *DocumentStorage) RemoveObject(ctx context.Context, fileKey string) error {
	err := s.client.RemoveObject(ctx, s.bucket, fileKey, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", fileKey, err)
	}
	return nil
}
