// Package storage keeps uploaded onboarding documents in an object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Jstali/employee-onboarding-sub000/internal/config"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("storage: object not found")

// ObjectStorage stores opaque blobs. Put returns the location that must be
// passed back to Get and Delete.
//
//go:generate mockgen -source=storage.go -destination=mock/storage_mock.go -package=mock
type ObjectStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, location string) (io.ReadCloser, error)
	Delete(ctx context.Context, location string) error
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch cfg.Driver {
	case config.StorageCloudinary:
		return NewCloudinaryStorage(cfg.CloudinaryURL, cfg.Folder)
	case config.StorageMinio, "":
		client, err := NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		if err := client.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure bucket %q: %w", client.Bucket(), err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// DocumentKey builds a collision-free object key for a user's document.
func DocumentKey(userID, documentType, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("documents", userID, documentType+"-"+uuid.NewString()+ext)
}
