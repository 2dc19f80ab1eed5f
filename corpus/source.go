package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lexresearch-backend/models"
	"lexresearch-backend/storage"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// ErrLoad marks a corpus that could not be read or is not a sequence of records
	ErrLoad = errors.New("corpus load failed")
)

// Source yields raw authority records
type Source interface {
	Records(ctx context.Context) ([]models.RawRecord, error)
	Name() string
}

// FileSource reads a JSON or YAML array of records from disk
type FileSource struct {
	Path string
}

// NewFileSource creates a file-backed source
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Records reads and decodes the file
func (f *FileSource) Records(ctx context.Context) ([]models.RawRecord, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrLoad, f.Path, err)
	}
	return DecodeRecords(data, f.Path)
}

// Name identifies the source in logs
func (f *FileSource) Name() string {
	return "file:" + f.Path
}

// StorageSource reads a corpus object through the storage layer (local disk or S3)
type StorageSource struct {
	Store storage.Storage
	Key   string
}

// NewStorageSource creates a storage-backed source
func NewStorageSource(store storage.Storage, key string) *StorageSource {
	return &StorageSource{Store: store, Key: key}
}

// Records downloads and decodes the corpus object
func (s *StorageSource) Records(ctx context.Context) ([]models.RawRecord, error) {
	rc, err := s.Store.Download(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download %s: %v", ErrLoad, s.Key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", ErrLoad, s.Key, err)
	}
	return DecodeRecords(data, s.Key)
}

// Name identifies the source in logs
func (s *StorageSource) Name() string {
	return "storage:" + s.Key
}

// StaticSource serves records held in memory
type StaticSource []models.RawRecord

// Records returns the held records
func (s StaticSource) Records(ctx context.Context) ([]models.RawRecord, error) {
	return s, nil
}

// Name identifies the source in logs
func (s StaticSource) Name() string {
	return "static"
}

// DecodeRecords parses a JSON or YAML array of records. YAML is chosen by
// file extension; anything else is decoded as JSON. Non-object entries are skipped.
func DecodeRecords(data []byte, name string) ([]models.RawRecord, error) {
	var doc interface{}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: invalid yaml in %s: %v", ErrLoad, name, err)
		}
	default:
		if err := decodeJSON(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: invalid json in %s: %v", ErrLoad, name, err)
		}
	}

	items, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a list of records", ErrLoad, name)
	}

	records := make([]models.RawRecord, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			records = append(records, models.RawRecord(m))
		}
	}
	return records, nil
}

// LoadOptions configures Load
type LoadOptions struct {
	Collision CollisionPolicy
	Logger    *zap.Logger
}

// Load reads the source and builds a store. A missing, broken or empty source
// is replaced by the fallback corpus, so Load never fails.
func Load(ctx context.Context, src Source, opts LoadOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var records []models.RawRecord
	if src != nil {
		var err error
		records, err = src.Records(ctx)
		if err != nil {
			logger.Warn("failed to load corpus, using fallback authorities",
				zap.String("source", src.Name()), zap.Error(err))
			records = nil
		}
	}

	authorities := make([]*models.Authority, 0, len(records))
	for _, raw := range records {
		authorities = append(authorities, Normalize(raw))
	}
	if len(authorities) == 0 {
		logger.Warn("corpus yielded no authorities, using fallback authorities")
		authorities = FallbackAuthorities()
	}

	store := NewStore(authorities, opts.Collision)
	if store.Collisions() > 0 {
		logger.Warn("authority id collisions resolved",
			zap.Int("collisions", store.Collisions()),
			zap.String("policy", string(opts.Collision)))
	}
	logger.Info("loaded authorities for research engine", zap.Int("count", store.Len()))
	return store
}

func decodeJSON(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
