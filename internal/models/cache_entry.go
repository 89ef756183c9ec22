package models

import (
	"errors"
	"time"
)

// ErrEntryNotFound is returned by stores when no entry exists for a key
var ErrEntryNotFound = errors.New("cache entry not found")

// CacheEntry is a stored page body and the moment it was written
type CacheEntry struct {
	Data     []byte    `json:"data"`
	StoredAt time.Time `json:"stored_at"`
}

// Age returns how long ago the entry was stored
func (e *CacheEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}
