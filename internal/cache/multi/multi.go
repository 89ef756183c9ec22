package multi

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/metrics"
	"go-page-cache/internal/models"
)

// Ensure MultiStore implements interfaces.Store
var _ interfaces.Store = (*MultiStore)(nil)

// Tier is one named store in a MultiStore
type Tier struct {
	Name  string
	Store interfaces.Store
}

// MultiStore implements a composite store over ordered tiers, fastest first.
// Reads return the first tier holding the key; writes and deletes go to every tier.
type MultiStore struct {
	tiers             []Tier
	enablePropagation bool
	logger            *zap.Logger
}

// NewMultiStore creates a new MultiStore instance with provided tiers
func NewMultiStore(tiers []Tier, enablePropagation bool, logger *zap.Logger) interfaces.Store {
	return &MultiStore{
		tiers:             tiers,
		enablePropagation: enablePropagation,
		logger:            logger,
	}
}

// Read tries each tier in order until one holds the key.
// A hit in a lower tier is copied into the tiers above it when propagation is enabled.
func (ms *MultiStore) Read(ctx context.Context, key string) (*models.CacheEntry, error) {
	if len(ms.tiers) == 0 {
		ms.logger.Warn("No tiers available for read operation", zap.String("key", key))
		return nil, models.ErrEntryNotFound
	}

	var readErr error
	for i, tier := range ms.tiers {
		entry, err := tier.Store.Read(ctx, key)
		if err == nil {
			if ms.enablePropagation && i > 0 {
				ms.propagate(ctx, key, entry, ms.tiers[:i])
			}
			return entry, nil
		}
		if errors.Is(err, models.ErrEntryNotFound) {
			continue
		}
		ms.logger.Warn("Tier read failed",
			zap.String("tier", tier.Name),
			zap.String("key", key),
			zap.Error(err))
		metrics.RecordCacheError(tier.Name, "read")
		readErr = multierr.Append(readErr, fmt.Errorf("%s: %w", tier.Name, err))
	}

	if readErr != nil {
		return nil, readErr
	}
	return nil, models.ErrEntryNotFound
}

// Write stores the entry in every tier
func (ms *MultiStore) Write(ctx context.Context, key string, entry *models.CacheEntry) error {
	var err error
	for _, tier := range ms.tiers {
		if tierErr := tier.Store.Write(ctx, key, entry); tierErr != nil {
			metrics.RecordCacheError(tier.Name, "write")
			err = multierr.Append(err, fmt.Errorf("%s: %w", tier.Name, tierErr))
		}
	}
	return err
}

// Delete removes the entry from every tier
func (ms *MultiStore) Delete(ctx context.Context, key string) error {
	var err error
	for _, tier := range ms.tiers {
		if tierErr := tier.Store.Delete(ctx, key); tierErr != nil {
			metrics.RecordCacheError(tier.Name, "delete")
			err = multierr.Append(err, fmt.Errorf("%s: %w", tier.Name, tierErr))
		}
	}
	return err
}

// Init initializes every tier
func (ms *MultiStore) Init(ctx context.Context) error {
	var err error
	for _, tier := range ms.tiers {
		if tierErr := tier.Store.Init(ctx); tierErr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", tier.Name, tierErr))
		}
	}
	return err
}

// Close closes every tier
func (ms *MultiStore) Close() error {
	var err error
	for _, tier := range ms.tiers {
		err = multierr.Append(err, tier.Store.Close())
	}
	return err
}

// GetTierCount returns the number of tiers
func (ms *MultiStore) GetTierCount() int {
	return len(ms.tiers)
}

func (ms *MultiStore) propagate(ctx context.Context, key string, entry *models.CacheEntry, upper []Tier) {
	for _, tier := range upper {
		if err := tier.Store.Write(ctx, key, entry); err != nil {
			ms.logger.Warn("Failed to propagate entry",
				zap.String("tier", tier.Name),
				zap.String("key", key),
				zap.Error(err))
			metrics.RecordCacheError(tier.Name, "propagate")
		}
	}
}
