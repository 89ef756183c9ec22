package l1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"go-page-cache/internal/config"
	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/metrics"
	"go-page-cache/internal/models"
	"go-page-cache/internal/scheduler"
)

const metricsLevel = "l1"

// bigcache evicts entries older than its life window on write; keep them
// around until capacity pressure pushes them out
const lifeWindow = 100 * 365 * 24 * time.Hour

const maxShards = 1024

// shardCount returns the largest power of two, up to maxShards, whose shards
// each hold two entries of maxEntrySize. The hard size limit is split evenly
// between shards and an entry must fit in one; bodies grow by a third once
// JSON-encoded.
func shardCount(sizeMB, maxEntrySize int) int {
	shards := maxShards
	if sizeMB <= 0 || maxEntrySize <= 0 {
		return shards
	}
	for shards > 1 && sizeMB*1024*1024/shards < 2*maxEntrySize {
		shards /= 2
	}
	return shards
}

// Ensure BigCache implements interfaces.Store
var _ interfaces.Store = (*BigCache)(nil)

// BigCache implements an in-memory store using BigCache.
// Entries never expire inside bigcache; freshness is decided by the caller.
type BigCache struct {
	cache            *bigcache.BigCache
	maxBytes         int64
	logger           *zap.Logger
	metricsScheduler *scheduler.Scheduler
}

// NewBigCache creates a new BigCache instance
func NewBigCache(bigcacheCfg *config.BigCacheConfig, logger *zap.Logger) (interfaces.Store, error) {
	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.CleanWindow = 0
	cfg.HardMaxCacheSize = bigcacheCfg.Size // Size in MB
	cfg.Shards = shardCount(bigcacheCfg.Size, bigcacheCfg.MaxEntrySize)
	cfg.Verbose = false
	if bigcacheCfg.MaxEntrySize > 0 {
		cfg.MaxEntrySize = bigcacheCfg.MaxEntrySize
	}

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	return &BigCache{
		cache:    cache,
		maxBytes: int64(bigcacheCfg.Size) * 1024 * 1024,
		logger:   logger,
	}, nil
}

// Init starts periodic metrics collection
func (bc *BigCache) Init(ctx context.Context) error {
	if bc.metricsScheduler != nil {
		return nil
	}
	bc.metricsScheduler = scheduler.New(30*time.Second, bc.updateMetrics)
	bc.metricsScheduler.Start()

	// Initial collection
	bc.updateMetrics()

	bc.logger.Debug("Started L1 cache metrics collection")
	return nil
}

// Read retrieves an entry from memory
func (bc *BigCache) Read(ctx context.Context, key string) (*models.CacheEntry, error) {
	data, err := bc.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, models.ErrEntryNotFound
		}
		return nil, err
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		bc.logger.Warn("Failed to unmarshal L1 cache entry", zap.String("key", key), zap.Error(err))
		_ = bc.cache.Delete(key) // Remove corrupted entry
		return nil, fmt.Errorf("corrupt L1 cache entry: %w", err)
	}

	return &entry, nil
}

// Write stores an entry in memory
func (bc *BigCache) Write(ctx context.Context, key string, entry *models.CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal L1 cache entry: %w", err)
	}
	return bc.cache.Set(key, data)
}

// Delete removes entry from cache
func (bc *BigCache) Delete(ctx context.Context, key string) error {
	err := bc.cache.Delete(key)
	if err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	return nil
}

// Close closes the cache
func (bc *BigCache) Close() error {
	if bc.metricsScheduler != nil {
		bc.metricsScheduler.Stop()
		bc.logger.Debug("Stopped L1 cache metrics collection")
	}
	return bc.cache.Close()
}

// GetStats returns the configured limit and the bytes currently allocated by shards
func (bc *BigCache) GetStats() (capacity, used int64) {
	used = int64(bc.cache.Capacity())
	capacity = bc.maxBytes
	if capacity == 0 {
		capacity = used
	}
	return capacity, used
}

func (bc *BigCache) updateMetrics() {
	capacity, used := bc.GetStats()
	metrics.UpdateCacheCapacity(metricsLevel, capacity, used)
	metrics.UpdateCacheKeys(metricsLevel, int64(bc.cache.Len()))
}
