package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"go-page-cache/internal/config"
	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/models"
)

// Extension of every cache file in the directory
const Extension = ".cache"

// Ensure FileStore implements interfaces.Store
var _ interfaces.Store = (*FileStore)(nil)

// FileStore keeps one file per entry, named after the key.
// The file body is the response body and its modification time is the storage time.
type FileStore struct {
	dir      string
	dirPerm  os.FileMode
	filePerm os.FileMode
	logger   *zap.Logger
}

// NewFileStore creates a directory-backed store
func NewFileStore(cfg *config.FileConfig, logger *zap.Logger) interfaces.Store {
	return &FileStore{
		dir:      cfg.Dir,
		dirPerm:  cfg.DirPerm(),
		filePerm: cfg.FilePerm(),
		logger:   logger,
	}
}

// Init creates the cache directory if missing and applies its permissions
func (s *FileStore) Init(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, s.dirPerm); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", s.dir, err)
	}
	// MkdirAll is subject to umask
	if err := os.Chmod(s.dir, s.dirPerm); err != nil {
		return fmt.Errorf("failed to set permissions on cache directory %s: %w", s.dir, err)
	}
	s.logger.Info("Cache directory ready",
		zap.String("dir", s.dir),
		zap.String("mode", s.dirPerm.String()))
	return nil
}

// Read returns the stored body with its modification time
func (s *FileStore) Read(ctx context.Context, key string) (*models.CacheEntry, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to stat cache file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, models.ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	return &models.CacheEntry{Data: data, StoredAt: info.ModTime()}, nil
}

// Write replaces the entry atomically: readers see either the old file or the new one
func (s *FileStore) Write(ctx context.Context, key string, entry *models.CacheEntry) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(entry.Data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Chmod(tmpName, s.filePerm); err != nil {
		return fmt.Errorf("failed to set cache file permissions: %w", err)
	}
	if !entry.StoredAt.IsZero() {
		if err := os.Chtimes(tmpName, entry.StoredAt, entry.StoredAt); err != nil {
			return fmt.Errorf("failed to set cache file time: %w", err)
		}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to commit cache file: %w", err)
	}
	committed = true
	return nil
}

// Delete removes the entry; a missing file is not an error
func (s *FileStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Close does nothing
func (s *FileStore) Close() error {
	return nil
}

// Keys lists the keys currently held in the directory
func (s *FileStore) Keys() ([]string, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	keys := make([]string, 0, len(dirEntries))
	for _, e := range dirEntries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, Extension) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, Extension))
	}
	return keys, nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid cache key %q", key)
	}
	return filepath.Join(s.dir, key+Extension), nil
}
