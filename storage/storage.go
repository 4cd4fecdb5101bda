package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// Storage interface for object storage operations
type Storage interface {
	// Upload stores an object under key and returns the normalized key
	Upload(ctx context.Context, key string, data io.Reader) (string, error)

	// Download retrieves an object by key
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// ErrObjectNotFound is returned when a key has no stored object
var ErrObjectNotFound = eris.New("storage: object not found")

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType `mapstructure:"type"`
	LocalPath    string      `mapstructure:"local_path"` // For local storage
	S3Bucket     string      `mapstructure:"s3_bucket"`  // For S3 storage
	S3Region     string      `mapstructure:"s3_region"`  // For S3 storage
	S3Endpoint   string      `mapstructure:"s3_endpoint"`
	AWSAccessKey string      `mapstructure:"aws_access_key_id"`
	AWSSecretKey string      `mapstructure:"aws_secret_access_key"`
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		localPath := cfg.LocalPath
		if localPath == "" {
			localPath = "./storage/files"
		}
		return NewLocalStorage(localPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, eris.New("storage: s3 bucket is required for S3 storage")
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, eris.Errorf("storage: unknown storage type: %s", cfg.Type)
	}
}

// normalizeKey turns a user-supplied key into a relative slash path.
// Keys that escape the storage root are rejected.
func normalizeKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." {
		return "", eris.Errorf("storage: invalid key %q", key)
	}
	return cleaned, nil
}
