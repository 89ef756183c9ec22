package interfaces

import (
	"context"

	"go-page-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cache.go -destination=mock/cache.go

// Store is a key-value byte store holding cached page bodies.
// Implementations must be safe for concurrent use.
type Store interface {
	// Read returns the entry for key or models.ErrEntryNotFound
	Read(ctx context.Context, key string) (*models.CacheEntry, error)
	// Write stores the entry under key, replacing any previous one
	Write(ctx context.Context, key string, entry *models.CacheEntry) error
	// Delete removes the entry; a missing key is not an error
	Delete(ctx context.Context, key string) error
	// Init prepares the storage location (directories, tables, connectivity)
	Init(ctx context.Context) error
	// Close releases resources held by the store
	Close() error
}
