package noop

import (
	"context"

	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/models"
)

// Ensure NoOpStore implements interfaces.Store
var _ interfaces.Store = (*NoOpStore)(nil)

// NoOpStore is a no-operation store used when caching is disabled
type NoOpStore struct{}

// NewNoOpStore creates a new no-operation store instance
func NewNoOpStore() interfaces.Store {
	return &NoOpStore{}
}

// Read always reports a miss
func (n *NoOpStore) Read(ctx context.Context, key string) (*models.CacheEntry, error) {
	return nil, models.ErrEntryNotFound
}

// Write discards the entry
func (n *NoOpStore) Write(ctx context.Context, key string, entry *models.CacheEntry) error {
	return nil
}

// Delete does nothing
func (n *NoOpStore) Delete(ctx context.Context, key string) error {
	return nil
}

// Init does nothing
func (n *NoOpStore) Init(ctx context.Context) error {
	return nil
}

// Close does nothing
func (n *NoOpStore) Close() error {
	return nil
}
