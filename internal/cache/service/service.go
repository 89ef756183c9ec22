package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/metrics"
	"go-page-cache/internal/models"
)

// Outcome labels reported to metrics
const (
	lookupResultHit  = "hit"
	lookupResultMiss = "miss"

	storeOutcomeStored      = "stored"
	storeOutcomeDisabled    = "skipped_disabled"
	storeOutcomeFailed      = "skipped_failed"
	storeOutcomeUncacheable = "skipped_uncacheable"
	storeOutcomeError       = "error"

	invalidationCauseDependency = "dependency"
	invalidationCauseExpired    = "expired"
	invalidationCausePurge      = "purge"
)

// Ensure ResponseCache implements interfaces.PageCache
var _ interfaces.PageCache = (*ResponseCache)(nil)

// ResponseCache decides whether a stored page body is still valid and
// persists freshly generated bodies for cacheable requests
type ResponseCache struct {
	store   interfaces.Store
	policy  interfaces.CachePolicy
	clock   clock.Clock
	backend string
	logger  *zap.Logger
}

// NewResponseCache creates a response cache over the given store.
// backend names the store in logs and metrics.
func NewResponseCache(store interfaces.Store, policy interfaces.CachePolicy, clk clock.Clock, backend string, logger *zap.Logger) *ResponseCache {
	if clk == nil {
		clk = clock.New()
	}
	return &ResponseCache{
		store:   store,
		policy:  policy,
		clock:   clk,
		backend: backend,
		logger:  logger,
	}
}

// Lookup returns a hit when an entry exists, no artifact changed after it was
// stored and it is within its TTL. Stale entries are deleted.
func (rc *ResponseCache) Lookup(ctx context.Context, key models.RequestKey, artifacts []models.Artifact) models.LookupResult {
	if !rc.policy.Enabled() {
		return rc.miss(models.MissReasonDisabled)
	}

	timer := metrics.TimeCacheOperation("lookup", rc.backend)
	defer timer()

	entry, err := rc.store.Read(ctx, key.Hash)
	if err != nil {
		if errors.Is(err, models.ErrEntryNotFound) {
			return rc.miss(models.MissReasonNotFound)
		}
		rc.logger.Warn("Failed to read cache entry",
			zap.String("request", key.Request),
			zap.String("key", key.Hash),
			zap.Error(err))
		metrics.RecordCacheError(rc.backend, "read")
		return rc.miss(models.MissReasonReadError)
	}

	if artifact, changed := changedArtifact(artifacts, entry); changed {
		rc.logger.Debug("Cache entry outdated by artifact",
			zap.String("key", key.Hash),
			zap.String("artifact", artifact.Path),
			zap.Time("artifact_mtime", artifact.ModTime),
			zap.Time("stored_at", entry.StoredAt),
			zap.NamedError("artifact_error", artifact.Err))
		rc.invalidate(ctx, key, invalidationCauseDependency)
		return rc.miss(models.MissReasonDependency)
	}

	info := rc.policy.Resolve(key.Request)
	if info.Expired(entry.StoredAt, rc.clock.Now()) {
		rc.logger.Debug("Cache entry expired",
			zap.String("key", key.Hash),
			zap.Duration("ttl", info.TTL),
			zap.Time("stored_at", entry.StoredAt))
		rc.invalidate(ctx, key, invalidationCauseExpired)
		return rc.miss(models.MissReasonExpired)
	}

	metrics.RecordLookup(lookupResultHit, "")
	return models.LookupResult{
		Status:   models.CacheStatusHit,
		Body:     entry.Data,
		StoredAt: entry.StoredAt,
		Info:     info,
	}
}

// Store persists body for a cacheable request that completed successfully.
// Write failures are logged and counted, never returned.
func (rc *ResponseCache) Store(ctx context.Context, key models.RequestKey, body []byte, succeeded bool) {
	if !rc.policy.Enabled() {
		metrics.RecordStore(storeOutcomeDisabled)
		return
	}
	if !succeeded {
		metrics.RecordStore(storeOutcomeFailed)
		return
	}
	if !rc.policy.Resolve(key.Request).Cacheable {
		metrics.RecordStore(storeOutcomeUncacheable)
		return
	}

	timer := metrics.TimeCacheOperation("store", rc.backend)
	defer timer()

	data := make([]byte, len(body))
	copy(data, body)
	entry := &models.CacheEntry{Data: data, StoredAt: rc.clock.Now()}

	if err := rc.store.Write(ctx, key.Hash, entry); err != nil {
		rc.logger.Error("Failed to store cache entry",
			zap.String("request", key.Request),
			zap.String("key", key.Hash),
			zap.Error(err))
		metrics.RecordCacheError(rc.backend, "write")
		metrics.RecordStore(storeOutcomeError)
		return
	}

	rc.logger.Debug("Stored cache entry",
		zap.String("request", key.Request),
		zap.String("uri", key.URI),
		zap.Int("size", len(data)))
	metrics.RecordStore(storeOutcomeStored)
}

// Invalidate deletes the entry for key
func (rc *ResponseCache) Invalidate(ctx context.Context, key models.RequestKey) error {
	if err := rc.store.Delete(ctx, key.Hash); err != nil {
		metrics.RecordCacheError(rc.backend, "delete")
		return fmt.Errorf("failed to invalidate %s: %w", key.URI, err)
	}
	metrics.RecordInvalidation(invalidationCausePurge)
	return nil
}

// InitializeStorage prepares the backing store
func (rc *ResponseCache) InitializeStorage(ctx context.Context) error {
	if err := rc.store.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", rc.backend, err)
	}
	return nil
}

func (rc *ResponseCache) miss(reason models.MissReason) models.LookupResult {
	metrics.RecordLookup(lookupResultMiss, string(reason))
	return models.Miss(reason)
}

func (rc *ResponseCache) invalidate(ctx context.Context, key models.RequestKey, cause string) {
	if err := rc.store.Delete(ctx, key.Hash); err != nil {
		rc.logger.Warn("Failed to delete stale cache entry",
			zap.String("key", key.Hash),
			zap.String("cause", cause),
			zap.Error(err))
		metrics.RecordCacheError(rc.backend, "delete")
		return
	}
	metrics.RecordInvalidation(cause)
}

// changedArtifact returns the first artifact that is malformed or modified after the entry was stored
func changedArtifact(artifacts []models.Artifact, entry *models.CacheEntry) (models.Artifact, bool) {
	for _, artifact := range artifacts {
		if artifact.Malformed() || artifact.ModTime.After(entry.StoredAt) {
			return artifact, true
		}
	}
	return models.Artifact{}, false
}
