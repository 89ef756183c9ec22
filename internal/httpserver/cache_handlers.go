package httpserver

import (
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"go-page-cache/internal/models"
	"go-page-cache/internal/utils"
)

// handlePurge deletes the stored page for a URI
func (s *Server) handlePurge(w http.ResponseWriter, r *http.Request) {
	key, ok := s.parseKeyRequest(w, r)
	if !ok {
		return
	}

	if err := s.pageCache.Invalidate(r.Context(), key); err != nil {
		s.logger.Error("Failed to purge page", zap.String("uri", key.URI), zap.Error(err))
		s.writeErrorResponse(w, fmt.Sprintf("Cache service error: %v", err), http.StatusInternalServerError)
		return
	}

	s.logger.Info("Purged page", zap.String("uri", key.URI), zap.String("key", key.Hash))
	s.writeResponse(w, &CacheResponse{
		Success: true,
		Request: key.Request,
		URI:     key.URI,
		Key:     key.Hash,
	})
}

// handleCacheInfo reports how a URI would be cached
func (s *Server) handleCacheInfo(w http.ResponseWriter, r *http.Request) {
	key, ok := s.parseKeyRequest(w, r)
	if !ok {
		return
	}

	info := s.policy.Resolve(key.Request)
	s.writeResponse(w, &CacheResponse{
		Success:   true,
		Request:   key.Request,
		URI:       key.URI,
		Key:       key.Hash,
		Enabled:   s.policy.Enabled(),
		Cacheable: info.Cacheable,
		TTL:       int(info.TTL.Seconds()),
		Infinite:  info.Infinite,
	})
}

// parseKeyRequest decodes a CacheRequest and builds its key, writing a 400 on failure
func (s *Server) parseKeyRequest(w http.ResponseWriter, r *http.Request) (models.RequestKey, bool) {
	var req CacheRequest
	if err := s.parseRequest(r, &req); err != nil {
		s.writeErrorResponse(w, "Invalid request", http.StatusBadRequest)
		return models.RequestKey{}, false
	}

	if req.URI == "" {
		s.writeErrorResponse(w, "Missing required field: uri", http.StatusBadRequest)
		return models.RequestKey{}, false
	}

	parsed, err := url.Parse(req.URI)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid uri: %v", err), http.StatusBadRequest)
		return models.RequestKey{}, false
	}

	key, err := s.keyBuilder.Build(utils.RequestNameFromPath(parsed.Path), req.URI)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid uri: %v", err), http.StatusBadRequest)
		return models.RequestKey{}, false
	}
	return key, true
}
