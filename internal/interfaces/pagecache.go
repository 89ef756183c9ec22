package interfaces

import (
	"context"

	"go-page-cache/internal/models"
)

//go:generate mockgen -source=pagecache.go -destination=mock/pagecache.go -package=mock

// PageCache is the response cache consulted around a page handler
type PageCache interface {
	// Lookup returns a hit with the stored body, or a miss with its reason
	Lookup(ctx context.Context, key models.RequestKey, artifacts []models.Artifact) models.LookupResult

	// Store persists body when caching is enabled, the request is cacheable and succeeded is true
	Store(ctx context.Context, key models.RequestKey, body []byte, succeeded bool)

	// Invalidate deletes the stored entry for key
	Invalidate(ctx context.Context, key models.RequestKey) error

	// InitializeStorage prepares the backing store
	InitializeStorage(ctx context.Context) error
}
