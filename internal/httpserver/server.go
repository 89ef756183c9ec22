package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"go-page-cache/internal/config"
	"go-page-cache/internal/interfaces"
)

const maxAdminBodySize = 64 * 1024

// Server represents the HTTP page cache server
type Server struct {
	pageCache  interfaces.PageCache
	policy     interfaces.CachePolicy
	keyBuilder interfaces.KeyBuilder
	resolver   interfaces.ArtifactResolver
	pages      http.Handler
	cfg        *config.Config
	logger     *zap.Logger

	regenerations singleflight.Group
	server        *http.Server
}

// NewServer creates a new page cache HTTP server in front of pages
func NewServer(
	pageCache interfaces.PageCache,
	policy interfaces.CachePolicy,
	keyBuilder interfaces.KeyBuilder,
	resolver interfaces.ArtifactResolver,
	pages http.Handler,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	s := &Server{
		pageCache:  pageCache,
		policy:     policy,
		keyBuilder: keyBuilder,
		resolver:   resolver,
		pages:      pages,
		cfg:        cfg,
		logger:     logger,
	}
	s.server = &http.Server{
		Handler:      s.createRouter(),
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start starts the HTTP server on a TCP address
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.logger.Info("Starting page cache HTTP server", zap.String("addr", listener.Addr().String()))
	return s.server.Serve(listener)
}

// StartUnixSocket starts the HTTP server on a Unix socket
func (s *Server) StartUnixSocket(socketPath string) error {
	// Remove existing socket file
	if err := os.RemoveAll(socketPath); err != nil {
		s.logger.Warn("Failed to remove existing socket file", zap.String("path", socketPath), zap.Error(err))
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return err
	}

	// Set socket permissions (readable/writable by owner and group)
	if err := os.Chmod(socketPath, 0660); err != nil {
		s.logger.Warn("Failed to set socket permissions", zap.String("path", socketPath), zap.Error(err))
	}

	s.logger.Info("Starting page cache HTTP server on Unix socket", zap.String("socket_path", socketPath))
	return s.server.Serve(listener)
}

// Stop stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping page cache HTTP server")
	return s.server.Shutdown(ctx)
}

// createRouter creates and configures the HTTP router
func (s *Server) createRouter() *mux.Router {
	router := mux.NewRouter()

	// Admin endpoints
	router.HandleFunc("/cache/purge", s.handlePurge).Methods("POST")
	router.HandleFunc("/cache/info", s.handleCacheInfo).Methods("POST")

	// Health check
	router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Everything else is a page
	router.PathPrefix("/").Handler(s.cacheMiddleware(s.pages))

	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeResponse(w, map[string]interface{}{
		"status":  "healthy",
		"backend": s.cfg.Storage.Backend,
		"time":    time.Now().UTC(),
	})
}

// parseRequest decodes an admin request body of at most maxAdminBodySize bytes
func (s *Server) parseRequest(r *http.Request, v interface{}) error {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxAdminBodySize+1))
	if err != nil {
		return err
	}
	if len(body) > maxAdminBodySize {
		return fmt.Errorf("request body exceeds %d bytes", maxAdminBodySize)
	}

	return json.Unmarshal(body, v)
}

// writeResponse writes JSON response
func (s *Server) writeResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

// writeErrorResponse writes error response
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	response := &CacheResponse{
		Success: false,
		Error:   message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to write error response", zap.Error(err))
	}
}
