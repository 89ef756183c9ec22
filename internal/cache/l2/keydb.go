package l2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"go-page-cache/internal/config"
	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/models"
)

// Ensure KeyDBStore implements interfaces.Store
var _ interfaces.Store = (*KeyDBStore)(nil)

// KeyDBStore implements a shared store using Redis/KeyDB.
// Keys are written without expiration; freshness is decided by the caller.
type KeyDBStore struct {
	client interfaces.KeyDbClient
	config *config.KeyDBConfig
	logger *zap.Logger
}

// NewKeyDBStore creates a new KeyDBStore instance with provided client
func NewKeyDBStore(cfg *config.KeyDBConfig, client interfaces.KeyDbClient, logger *zap.Logger) interfaces.Store {
	return &KeyDBStore{
		client: client,
		config: cfg,
		logger: logger,
	}
}

// Init verifies the connection
func (ks *KeyDBStore) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, ks.config.GetConnectTimeout())
	defer cancel()

	if err := ks.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("KeyDB ping failed: %w", err)
	}
	return nil
}

// Read retrieves an entry from KeyDB
func (ks *KeyDBStore) Read(ctx context.Context, key string) (*models.CacheEntry, error) {
	readCtx, cancel := context.WithTimeout(ctx, ks.config.GetReadTimeout())
	defer cancel()

	data, err := ks.client.Get(readCtx, ks.prefixed(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrEntryNotFound
		}
		return nil, err
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		ks.logger.Error("Failed to unmarshal L2 cache entry", zap.String("key", key), zap.Error(err))
		delCtx, delCancel := context.WithTimeout(ctx, ks.config.GetSendTimeout())
		defer delCancel()
		ks.client.Del(delCtx, ks.prefixed(key))
		return nil, fmt.Errorf("corrupt L2 cache entry: %w", err)
	}

	return &entry, nil
}

// Write stores an entry in KeyDB
func (ks *KeyDBStore) Write(ctx context.Context, key string, entry *models.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal L2 cache entry: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, ks.config.GetSendTimeout())
	defer cancel()

	return ks.client.Set(ctx, ks.prefixed(key), data, 0).Err()
}

// Delete removes entry from KeyDB
func (ks *KeyDBStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, ks.config.GetSendTimeout())
	defer cancel()

	return ks.client.Del(ctx, ks.prefixed(key)).Err()
}

// Close closes the KeyDB connection
func (ks *KeyDBStore) Close() error {
	return ks.client.Close()
}

func (ks *KeyDBStore) prefixed(key string) string {
	return ks.config.KeyPrefix + key
}
