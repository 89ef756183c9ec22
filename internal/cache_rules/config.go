package cache_rules

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/models"
)

// Policy is the immutable cache policy built from CacheRulesConfig
type Policy struct {
	enabled    bool
	defaultTTL time.Duration
	requests   map[string]int
	logger     *zap.Logger
}

// Ensure Policy implements the CachePolicy interface
var _ interfaces.CachePolicy = (*Policy)(nil)

// NewPolicy validates the rules and returns a policy holding its own copy of them
func NewPolicy(config *CacheRulesConfig, logger *zap.Logger) (*Policy, error) {
	if config == nil {
		panic("config cannot be nil")
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}

	defaultTTL := DefaultTTLSeconds
	if config.DefaultTTL != nil {
		defaultTTL = *config.DefaultTTL
	}

	requests := make(map[string]int, len(config.Requests))
	for request, ttl := range config.Requests {
		requests[request] = ttl
	}

	return &Policy{
		enabled:    config.Enabled,
		defaultTTL: time.Duration(defaultTTL) * time.Second,
		requests:   requests,
		logger:     logger,
	}, nil
}

// Enabled implements CachePolicy interface
func (p *Policy) Enabled() bool {
	return p.enabled
}

// Resolve implements CachePolicy interface
func (p *Policy) Resolve(request string) models.CacheInfo {
	seconds, ok := p.requests[request]
	if !ok {
		// not cacheable, but stray entries still age out with the default
		return models.CacheInfo{TTL: p.defaultTTL}
	}

	switch {
	case seconds == 0:
		return models.CacheInfo{TTL: p.defaultTTL, Cacheable: true}
	case seconds < 0:
		return models.CacheInfo{Infinite: true, Cacheable: true}
	default:
		return models.CacheInfo{TTL: time.Duration(seconds) * time.Second, Cacheable: true}
	}
}

// DefaultTTL returns the TTL applied to requests configured with 0
func (p *Policy) DefaultTTL() time.Duration {
	return p.defaultTTL
}

// RequestNames returns all configured request names, sorted
func (p *Policy) RequestNames() []string {
	names := make([]string, 0, len(p.requests))
	for name := range p.requests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
