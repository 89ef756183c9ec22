package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"go-page-cache/internal/metrics"
	"go-page-cache/internal/models"
	"go-page-cache/internal/utils"
)

// CacheStatusHeader reports HIT, MISS (with reason) or BYPASS on page responses
const CacheStatusHeader = "Cache-Status"

// cacheMiddleware serves stored pages and stores freshly generated ones.
// Only GET responses are stored; HEAD may be answered from the cache.
func (s *Server) cacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			s.bypass(w, r, next)
			return
		}

		name := utils.RequestNameFromPath(r.URL.Path)
		key, err := s.keyBuilder.Build(name, r.URL.RequestURI())
		if err != nil {
			s.logger.Warn("Failed to build cache key", zap.String("uri", r.RequestURI), zap.Error(err))
			s.bypass(w, r, next)
			return
		}

		result := s.pageCache.Lookup(r.Context(), key, s.resolver.Resolve(name))
		if result.Hit() {
			s.writeHit(w, r, result)
			return
		}

		status := result.HeaderValue()
		if r.Method == http.MethodHead {
			s.generate(next, r).writeTo(w, status)
			return
		}

		if s.cfg.CoalesceRegeneration {
			leader := false
			value, _, _ := s.regenerations.Do(key.Hash, func() (interface{}, error) {
				leader = true
				resp := s.generate(next, r)
				// followers still receive the body when the leader's client goes away
				s.pageCache.Store(context.WithoutCancel(r.Context()), key, resp.body, resp.succeeded())
				return resp, nil
			})
			if !leader {
				metrics.RecordCoalesced()
			}
			value.(*capturedResponse).writeTo(w, status)
			return
		}

		resp := s.generate(next, r)
		resp.writeTo(w, status)
		s.pageCache.Store(r.Context(), key, resp.body, resp.succeeded())
	})
}

// generate runs the page handler into a buffer; a panic becomes a 500 that is never stored
func (s *Server) generate(next http.Handler, r *http.Request) (resp *capturedResponse) {
	capture := newCaptureWriter()
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("Page handler panicked",
				zap.String("uri", r.RequestURI),
				zap.String("panic", fmt.Sprint(rec)))
			resp = &capturedResponse{
				header:   http.Header{"Content-Type": {"text/plain; charset=utf-8"}},
				status:   http.StatusInternalServerError,
				body:     []byte("Internal server error\n"),
				panicked: true,
			}
		}
	}()

	next.ServeHTTP(capture, r)
	return capture.response()
}

func (s *Server) writeHit(w http.ResponseWriter, r *http.Request, result models.LookupResult) {
	header := w.Header()
	header.Set("Content-Type", http.DetectContentType(result.Body))
	header.Set("Content-Length", strconv.Itoa(len(result.Body)))
	header.Set(CacheStatusHeader, result.HeaderValue())
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(result.Body)
	}
}

func (s *Server) bypass(w http.ResponseWriter, r *http.Request, next http.Handler) {
	metrics.RecordLookup("bypass", "")
	s.generate(next, r).writeTo(w, string(models.CacheStatusBypass))
}
