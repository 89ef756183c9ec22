package cache_rules

// DefaultTTLSeconds is used when the rules file does not set default_ttl
const DefaultTTLSeconds = 3600

// CacheRulesConfig represents the cache rules file.
//
// Requests maps a request name to its TTL in seconds:
//
//	 0  use default_ttl
//	<0  never expire
//
// Request names missing from the map are never stored.
type CacheRulesConfig struct {
	Enabled    bool           `yaml:"enabled"`
	DefaultTTL *int           `yaml:"default_ttl"`
	Requests   map[string]int `yaml:"requests"`
}
