package repository

import (
	"context"
	"io"

	"github.com/rs/zerolog"
)

type StorageRepository interface {
	UploadFile(ctx context.Context, bucket, key string, file io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error)
	DeleteFile(ctx context.Context, bucket, key string) error
	DeleteFiles(ctx context.Context, bucket string, keys []string) error
	FileExists(ctx context.Context, bucket, key string) (bool, error)
}

type storageRepository struct {
	provider StorageRepository
	logger   zerolog.Logger
}

func NewStorageRepository(provider StorageRepository, logger zerolog.Logger) StorageRepository {
	return &storageRepository{
		provider: provider,
		logger:   logger,
	}
}

func (r *storageRepository) UploadFile(ctx context.Context, bucket, key string, file io.Reader, size int64, contentType string) error {
	return r.provider.UploadFile(ctx, bucket, key, file, size, contentType)
}

func (r *storageRepository) DownloadFile(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	return r.provider.DownloadFile(ctx, bucket, key)
}

func (r *storageRepository) DeleteFile(ctx context.Context, bucket, key string) error {
	return r.provider.DeleteFile(ctx, bucket, key)
}

func (r *storageRepository) DeleteFiles(ctx context.Context, bucket string, keys []string) error {
	return r.provider.DeleteFiles(ctx, bucket, keys)
}

func (r *storageRepository) FileExists(ctx context.Context, bucket, key string) (bool, error) {
	return r.provider.FileExists(ctx, bucket, key)
}
