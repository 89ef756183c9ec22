package main

import (
	"context"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-page-cache/internal/artifacts"
	"go-page-cache/internal/cache"
	"go-page-cache/internal/cache/file"
	"go-page-cache/internal/cache/l1"
	"go-page-cache/internal/cache/l2"
	"go-page-cache/internal/cache/multi"
	"go-page-cache/internal/cache/noop"
	"go-page-cache/internal/cache/service"
	"go-page-cache/internal/cache/sqlstore"
	"go-page-cache/internal/cache_rules"
	"go-page-cache/internal/config"
	"go-page-cache/internal/httpserver"
	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/pages"
)

// Paths locates the configuration files
type Paths struct {
	ConfigPath string
	RulesPath  string
}

// CompositionRoot holds all application dependencies and is the single
// place where components are created and wired together.
type CompositionRoot struct {
	// Configuration
	Config   *config.Config
	Logger   *zap.Logger
	Policy   *cache_rules.Policy
	logLevel zap.AtomicLevel

	// Cache components
	Store      interfaces.Store
	KeyBuilder interfaces.KeyBuilder
	Resolver   interfaces.ArtifactResolver

	// Services
	ResponseCache *service.ResponseCache
	Pages         *pages.Handler
	HTTPServer    *httpserver.Server
}

// LoadCompositionRoot creates the logger and loads configuration and cache rules.
// Nothing is connected yet.
func LoadCompositionRoot(paths Paths) (*CompositionRoot, error) {
	root := &CompositionRoot{}

	// Initialize logger first
	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(paths.ConfigPath); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.loadCacheRules(paths.RulesPath); err != nil {
		return nil, fmt.Errorf("failed to load cache rules: %w", err)
	}

	return root, nil
}

// NewCompositionRoot loads configuration and initializes every component.
//
// Initialization order:
// 1. Logger, configuration and cache rules
// 2. Store (single backend or tiers)
// 3. Key builder, artifact resolver and response cache
// 4. Pages handler and HTTP server
func NewCompositionRoot(paths Paths) (*CompositionRoot, error) {
	root, err := LoadCompositionRoot(paths)
	if err != nil {
		return nil, err
	}

	if err := root.initCacheComponents(); err != nil {
		_ = root.Cleanup()
		return nil, fmt.Errorf("failed to initialize cache components: %w", err)
	}

	root.initServices()
	root.initHTTPServer()

	return root, nil
}

// initLogger initializes the application logger at info level until the configuration says otherwise
func (r *CompositionRoot) initLogger() error {
	r.logLevel = zap.NewAtomicLevelAt(zap.InfoLevel)

	cfg := zap.NewProductionConfig()
	cfg.Level = r.logLevel
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration and applies its log level
func (r *CompositionRoot) loadConfig(configPath string) error {
	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	r.logLevel.SetLevel(level)

	r.Config = cfg
	return nil
}

// loadCacheRules loads the TTL policy
func (r *CompositionRoot) loadCacheRules(rulesPath string) error {
	policy, err := cache_rules.LoadCacheRulesConfig(rulesPath, r.Logger)
	if err != nil {
		return err
	}
	r.Policy = policy
	return nil
}

// initCacheComponents initializes all cache-related components
func (r *CompositionRoot) initCacheComponents() error {
	store, err := r.newStore(r.Config.Storage.Backend)
	if err != nil {
		return err
	}
	r.Store = store

	r.KeyBuilder = cache.NewKeyBuilder()
	r.Resolver = artifacts.NewResolver(r.Config.Artifacts, r.Logger)
	return nil
}

// newStore creates the store for one backend name
func (r *CompositionRoot) newStore(backend string) (interfaces.Store, error) {
	storage := &r.Config.Storage

	switch backend {
	case config.BackendFile:
		r.Logger.Info("File store initialized", zap.String("dir", storage.File.Dir))
		return file.NewFileStore(&storage.File, r.Logger), nil

	case config.BackendBigCache:
		store, err := l1.NewBigCache(&storage.BigCache, r.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize BigCache: %w", err)
		}
		r.Logger.Info("BigCache store initialized", zap.Int("size_mb", storage.BigCache.Size))
		return store, nil

	case config.BackendKeyDB:
		keydbURL := GetKeyDBURL(r.Logger)
		client, err := l2.NewRedisKeyDbClient(&storage.KeyDB, keydbURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to KeyDB, falling back to no-op store",
				zap.String("keydb_url", keydbURL),
				zap.Error(err))
			return noop.NewNoOpStore(), nil
		}
		r.Logger.Info("KeyDB store initialized", zap.String("keydb_url", keydbURL))
		return l2.NewKeyDBStore(&storage.KeyDB, client, r.Logger), nil

	case config.BackendSQLite:
		store, err := sqlstore.NewSQLiteStore(storage.SQL.DSN, r.Logger)
		if err != nil {
			return nil, err
		}
		r.Logger.Info("SQLite store initialized", zap.String("dsn", storage.SQL.DSN))
		return store, nil

	case config.BackendPostgres:
		store, err := sqlstore.NewPostgresStore(storage.SQL.DSN, r.Logger)
		if err != nil {
			return nil, err
		}
		r.Logger.Info("Postgres store initialized")
		return store, nil

	case config.BackendMulti:
		tiers := make([]multi.Tier, 0, len(storage.Multi.Tiers))
		for _, name := range storage.Multi.Tiers {
			store, err := r.newStore(name)
			if err != nil {
				for _, tier := range tiers {
					_ = tier.Store.Close()
				}
				return nil, fmt.Errorf("tier %s: %w", name, err)
			}
			tiers = append(tiers, multi.Tier{Name: name, Store: store})
		}
		r.Logger.Info("Tiered store initialized",
			zap.Strings("tiers", storage.Multi.Tiers),
			zap.Bool("propagation", storage.Multi.EnablePropagation))
		return multi.NewMultiStore(tiers, storage.Multi.EnablePropagation, r.Logger), nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", backend)
}

// initServices initializes application services
func (r *CompositionRoot) initServices() {
	r.ResponseCache = service.NewResponseCache(
		r.Store,
		r.Policy,
		clock.New(),
		r.Config.Storage.Backend,
		r.Logger,
	)
	r.Pages = pages.NewHandler(&r.Config.Pages, r.Logger)
}

// initHTTPServer initializes the HTTP server
func (r *CompositionRoot) initHTTPServer() {
	r.HTTPServer = httpserver.NewServer(
		r.ResponseCache,
		r.Policy,
		r.KeyBuilder,
		r.Resolver,
		r.Pages,
		r.Config,
		r.Logger,
	)
}

// InitializeStorage prepares the configured store and reports what it holds
func (r *CompositionRoot) InitializeStorage(ctx context.Context) error {
	if err := r.ResponseCache.InitializeStorage(ctx); err != nil {
		return err
	}

	if fileStore, ok := r.Store.(*file.FileStore); ok {
		keys, err := fileStore.Keys()
		if err != nil {
			return fmt.Errorf("failed to list cache directory: %w", err)
		}
		r.Logger.Info("Cache storage ready",
			zap.String("backend", r.Config.Storage.Backend),
			zap.Int("entries", len(keys)))
		return nil
	}

	r.Logger.Info("Cache storage ready", zap.String("backend", r.Config.Storage.Backend))
	return nil
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var err error

	if r.Store != nil {
		if closeErr := r.Store.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close store: %w", closeErr))
		}
	}

	// Sync logger; stderr sync errors are expected on some platforms
	if r.Logger != nil {
		_ = r.Logger.Sync()
	}

	return err
}
