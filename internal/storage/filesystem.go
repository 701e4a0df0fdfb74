package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"admaker/internal/domain"
)

// FileStore persists image blobs onto the local filesystem, one directory per
// bucket. It stands in for an object storage service in development and test
// environments.
type FileStore struct {
	basePath string
	baseURL  string
}

// NewFileStore initializes a FileStore rooted at basePath. Objects are served
// back to clients under baseURL.
func NewFileStore(basePath, baseURL string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Put writes the blob at bucket/key. Keys are cleaned to prevent directory
// traversal.
func (s *FileStore) Put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if s == nil {
		return errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	fullPath, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return fmt.Errorf("storage: write object: %w", err)
	}
	return nil
}

// Get reads the blob stored at bucket/key.
func (s *FileStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if s == nil {
		return nil, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fullPath, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage: read object: %w", err)
	}
	return data, nil
}

// Remove deletes the given keys. Removal is best-effort: the first error is
// returned but remaining keys are still attempted.
func (s *FileStore) Remove(ctx context.Context, bucket string, keys []string) error {
	if s == nil {
		return errors.New("storage: no store configured")
	}
	var firstErr error
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		fullPath, err := s.objectPath(bucket, key)
		if err == nil {
			err = os.Remove(fullPath)
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) && firstErr == nil {
			firstErr = fmt.Errorf("storage: remove %s/%s: %w", bucket, key, err)
		}
	}
	return firstErr
}

// URL returns the public URL the object is served under.
func (s *FileStore) URL(bucket, key string) string {
	if s == nil {
		return ""
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, bucket, cleanKey)
}

func (s *FileStore) objectPath(bucket, key string) (string, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" || strings.ContainsAny(bucket, "/\\") {
		return "", fmt.Errorf("storage: invalid bucket %q", bucket)
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, bucket, filepath.FromSlash(cleanKey)), nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}

var _ domain.BlobStore = (*FileStore)(nil)
