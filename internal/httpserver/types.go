package httpserver

// CacheRequest addresses one page by URI for the admin endpoints
type CacheRequest struct {
	URI string `json:"uri"` // request URI, e.g. "/view?id=1"
}

// CacheResponse represents an admin endpoint response
type CacheResponse struct {
	Success   bool   `json:"success"`
	Request   string `json:"request,omitempty"`
	URI       string `json:"uri,omitempty"`
	Key       string `json:"key,omitempty"`
	Enabled   bool   `json:"enabled,omitempty"`
	Cacheable bool   `json:"cacheable,omitempty"`
	TTL       int    `json:"ttl,omitempty"` // seconds
	Infinite  bool   `json:"infinite,omitempty"`
	Error     string `json:"error,omitempty"`
}
