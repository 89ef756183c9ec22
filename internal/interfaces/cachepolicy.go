package interfaces

import (
	"go-page-cache/internal/models"
)

//go:generate mockgen -package=mock -source=cachepolicy.go -destination=mock/cachepolicy.go

// CachePolicy decides which requests are cached and for how long
type CachePolicy interface {
	// Enabled is the global on/off switch
	Enabled() bool
	// Resolve returns the effective TTL for a request name
	Resolve(request string) models.CacheInfo
}
