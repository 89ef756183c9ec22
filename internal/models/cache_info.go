package models

import (
	"time"
)

// CacheStatus is reported to clients in the Cache-Status header
type CacheStatus string

const (
	CacheStatusHit    CacheStatus = "HIT"
	CacheStatusMiss   CacheStatus = "MISS"
	CacheStatusBypass CacheStatus = "BYPASS"
)

// MissReason explains why a lookup did not produce a hit
type MissReason string

const (
	MissReasonNone       MissReason = ""
	MissReasonDisabled   MissReason = "disabled"
	MissReasonNotFound   MissReason = "not_found"
	MissReasonDependency MissReason = "dependency"
	MissReasonExpired    MissReason = "expired"
	MissReasonReadError  MissReason = "read_error"
)

// CacheInfo is the resolved policy for one request name
type CacheInfo struct {
	TTL       time.Duration `json:"ttl"`
	Infinite  bool          `json:"infinite"`  // negative TTL in the rules: never expires
	Cacheable bool          `json:"cacheable"` // request name is listed in the rules
}

// Expired reports whether an entry stored at storedAt is too old at now
func (ci CacheInfo) Expired(storedAt, now time.Time) bool {
	if ci.Infinite {
		return false
	}
	return now.Sub(storedAt) > ci.TTL
}

// LookupResult is the tagged outcome of a cache lookup
type LookupResult struct {
	Status   CacheStatus
	Reason   MissReason
	Body     []byte
	StoredAt time.Time
	Info     CacheInfo
}

// Hit reports whether the result carries a servable body
func (r LookupResult) Hit() bool {
	return r.Status == CacheStatusHit
}

// Miss builds a miss result with the given reason
func Miss(reason MissReason) LookupResult {
	return LookupResult{Status: CacheStatusMiss, Reason: reason}
}

// HeaderValue renders the result for the Cache-Status response header
func (r LookupResult) HeaderValue() string {
	if r.Reason == MissReasonNone {
		return string(r.Status)
	}
	return string(r.Status) + "; reason=" + string(r.Reason)
}
