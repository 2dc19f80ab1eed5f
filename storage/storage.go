package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a corpus object does not exist
var ErrNotFound = errors.New("corpus object not found")

// Storage holds corpus objects (JSON or YAML authority files)
type Storage interface {
	// Put stores an object under key, replacing any existing object
	Put(ctx context.Context, key string, data io.Reader) error

	// Download retrieves an object by key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object by key
	Delete(ctx context.Context, key string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string // For S3 storage
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeLocal, "":
		if cfg.LocalPath == "" {
			cfg.LocalPath = "./storage/corpora"
		}
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 storage")
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// Publish stores a corpus under a new versioned key and returns that key.
// Keys look like corpora/<name>/<version>.<ext>.
func Publish(ctx context.Context, s Storage, name, filename string, data io.Reader) (string, error) {
	key := versionedKey(name, uuid.New(), filename)
	if err := s.Put(ctx, key, data); err != nil {
		return "", fmt.Errorf("failed to publish corpus %s: %w", name, err)
	}
	return key, nil
}

// Replace publishes a corpus under a new key, then deletes previousKey.
// The previous object is left in place if the upload fails.
func Replace(ctx context.Context, s Storage, previousKey, name, filename string, data io.Reader) (string, error) {
	key, err := Publish(ctx, s, name, filename, data)
	if err != nil {
		return "", err
	}
	if previousKey == "" || previousKey == key {
		return key, nil
	}
	if err := s.Delete(ctx, previousKey); err != nil {
		return key, fmt.Errorf("published %s but failed to delete %s: %w", key, previousKey, err)
	}
	return key, nil
}

func versionedKey(name string, version uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".json"
	}
	return path.Join("corpora", sanitizeName(name), version.String()+ext)
}

// sanitizeName keeps corpus names usable as a single key segment
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "default"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", "..", "_")
	return replacer.Replace(name)
}

// contentType determines content type from key
func contentType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".json":
		return "application/json"
	case ".yaml", ".yml":
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}
