package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Storage backends
const (
	BackendFile     = "file"
	BackendBigCache = "bigcache"
	BackendKeyDB    = "keydb"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMulti    = "multi"
)

var validate = validator.New()

// Config represents the main configuration structure
type Config struct {
	LogLevel             string           `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	CoalesceRegeneration bool             `yaml:"coalesce_regeneration"`
	Storage              StorageConfig    `yaml:"storage"`
	Artifacts            []ArtifactSource `yaml:"artifacts" validate:"dive"`
	Pages                PagesConfig      `yaml:"pages"`
	Server               ServerConfig     `yaml:"server"`
}

// StorageConfig selects and configures the cache store
type StorageConfig struct {
	Backend  string         `yaml:"backend" validate:"required,oneof=file bigcache keydb sqlite postgres multi"`
	File     FileConfig     `yaml:"file"`
	BigCache BigCacheConfig `yaml:"bigcache"`
	KeyDB    KeyDBConfig    `yaml:"keydb"`
	SQL      SQLConfig      `yaml:"sql"`
	Multi    MultiConfig    `yaml:"multi"`
}

// FileConfig configures the directory store
type FileConfig struct {
	Dir      string `yaml:"dir" validate:"required"`
	DirMode  string `yaml:"dir_mode" validate:"required,numeric"`
	FileMode string `yaml:"file_mode" validate:"required,numeric"`
}

// BigCacheConfig configures the in-memory store
type BigCacheConfig struct {
	Size         int `yaml:"size" validate:"min=0"`           // MB, defaults to 100
	MaxEntrySize int `yaml:"max_entry_size" validate:"min=0"` // bytes
}

// KeyDBConfig configures the KeyDB/Redis store
type KeyDBConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
	KeyPrefix  string           `yaml:"key_prefix"`
}

// ConnectionConfig holds KeyDB timeouts in milliseconds
type ConnectionConfig struct {
	ConnectTimeout int `yaml:"connect_timeout" validate:"min=0"`
	SendTimeout    int `yaml:"send_timeout" validate:"min=0"`
	ReadTimeout    int `yaml:"read_timeout" validate:"min=0"`
}

// KeepaliveConfig holds KeyDB pool settings
type KeepaliveConfig struct {
	PoolSize       int `yaml:"pool_size" validate:"min=0"`
	MaxIdleTimeout int `yaml:"max_idle_timeout" validate:"min=0"` // ms
}

// SQLConfig configures the SQLite/Postgres store
type SQLConfig struct {
	DSN string `yaml:"dsn"`
}

// MultiConfig configures tiered storage
type MultiConfig struct {
	Tiers             []string `yaml:"tiers" validate:"dive,oneof=file bigcache keydb sqlite postgres"`
	EnablePropagation bool     `yaml:"enable_propagation"`
}

// ArtifactSource is a directory of files a page depends on
type ArtifactSource struct {
	Dir string `yaml:"dir" validate:"required"`
	Ext string `yaml:"ext"`
}

// PagesConfig configures the page handler
type PagesConfig struct {
	TemplatesDir string `yaml:"templates_dir" validate:"required"`
	DataDir      string `yaml:"data_dir" validate:"required"`
}

// ServerConfig configures HTTP listeners, timeouts in milliseconds
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	SocketPath   string `yaml:"socket_path"`
	ReadTimeout  int    `yaml:"read_timeout" validate:"min=0"`
	WriteTimeout int    `yaml:"write_timeout" validate:"min=0"`
}

// LoadConfig loads configuration from file path
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration", zap.String("path", configPath))

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config Config
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = BackendFile
	}

	if c.Storage.File.Dir == "" {
		c.Storage.File.Dir = "./cache"
	}
	if c.Storage.File.DirMode == "" {
		c.Storage.File.DirMode = "0777"
	}
	if c.Storage.File.FileMode == "" {
		c.Storage.File.FileMode = "0644"
	}

	if c.Storage.BigCache.Size == 0 {
		c.Storage.BigCache.Size = 100
	}
	if c.Storage.BigCache.MaxEntrySize == 0 {
		c.Storage.BigCache.MaxEntrySize = 1024 * 1024
	}

	keydb := &c.Storage.KeyDB
	if keydb.Connection.ConnectTimeout == 0 {
		keydb.Connection.ConnectTimeout = 1000
	}
	if keydb.Connection.SendTimeout == 0 {
		keydb.Connection.SendTimeout = 1000
	}
	if keydb.Connection.ReadTimeout == 0 {
		keydb.Connection.ReadTimeout = 1000
	}
	if keydb.Keepalive.PoolSize == 0 {
		keydb.Keepalive.PoolSize = 10
	}
	if keydb.Keepalive.MaxIdleTimeout == 0 {
		keydb.Keepalive.MaxIdleTimeout = 10000
	}
	if keydb.KeyPrefix == "" {
		keydb.KeyPrefix = "page:"
	}

	if c.Storage.SQL.DSN == "" && c.UsesBackend(BackendSQLite) {
		c.Storage.SQL.DSN = "page-cache.db"
	}

	if c.Pages.TemplatesDir == "" {
		c.Pages.TemplatesDir = "./templates"
	}
	if c.Pages.DataDir == "" {
		c.Pages.DataDir = "./data"
	}
	if len(c.Artifacts) == 0 {
		c.Artifacts = []ArtifactSource{
			{Dir: c.Pages.DataDir, Ext: ".yaml"},
			{Dir: c.Pages.TemplatesDir, Ext: ".html"},
		}
	}

	if c.Server.Addr == "" && c.Server.SocketPath == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30000
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30000
	}
}

// Validate checks struct constraints and cross-field rules
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if _, err := parseMode(c.Storage.File.DirMode); err != nil {
		return fmt.Errorf("storage.file.dir_mode: %w", err)
	}
	if _, err := parseMode(c.Storage.File.FileMode); err != nil {
		return fmt.Errorf("storage.file.file_mode: %w", err)
	}

	if c.Storage.Backend == BackendMulti {
		if len(c.Storage.Multi.Tiers) == 0 {
			return fmt.Errorf("storage.multi.tiers must list at least one backend")
		}
		seen := make(map[string]bool, len(c.Storage.Multi.Tiers))
		for _, tier := range c.Storage.Multi.Tiers {
			if seen[tier] {
				return fmt.Errorf("storage.multi.tiers lists %q twice", tier)
			}
			seen[tier] = true
		}
		if seen[BackendSQLite] && seen[BackendPostgres] {
			return fmt.Errorf("storage.multi.tiers cannot combine sqlite and postgres")
		}
	}

	if c.UsesBackend(BackendBigCache) {
		bc := c.Storage.BigCache
		if bc.Size*1024*1024 < 2*bc.MaxEntrySize {
			return fmt.Errorf("storage.bigcache.size (%d MB) must hold two entries of max_entry_size (%d bytes)", bc.Size, bc.MaxEntrySize)
		}
	}

	if c.UsesBackend(BackendPostgres) && c.Storage.SQL.DSN == "" {
		return fmt.Errorf("storage.sql.dsn is required for the postgres backend")
	}

	return nil
}

// UsesBackend reports whether the backend is selected directly or as a tier
func (c *Config) UsesBackend(name string) bool {
	if c.Storage.Backend == name {
		return true
	}
	if c.Storage.Backend != BackendMulti {
		return false
	}
	for _, tier := range c.Storage.Multi.Tiers {
		if tier == name {
			return true
		}
	}
	return false
}

// DirPerm returns the permission bits for the cache directory
func (f FileConfig) DirPerm() os.FileMode {
	mode, _ := parseMode(f.DirMode)
	return mode
}

// FilePerm returns the permission bits for cache files
func (f FileConfig) FilePerm() os.FileMode {
	mode, _ := parseMode(f.FileMode)
	return mode
}

func parseMode(s string) (os.FileMode, error) {
	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal mode %q: %w", s, err)
	}
	if mode > 0777 {
		return 0, fmt.Errorf("mode %q out of range", s)
	}
	return os.FileMode(mode), nil
}

// GetConnectTimeout returns connect timeout as time.Duration
func (k KeyDBConfig) GetConnectTimeout() time.Duration {
	return time.Duration(k.Connection.ConnectTimeout) * time.Millisecond
}

// GetSendTimeout returns send timeout as time.Duration
func (k KeyDBConfig) GetSendTimeout() time.Duration {
	return time.Duration(k.Connection.SendTimeout) * time.Millisecond
}

// GetReadTimeout returns read timeout as time.Duration
func (k KeyDBConfig) GetReadTimeout() time.Duration {
	return time.Duration(k.Connection.ReadTimeout) * time.Millisecond
}

// GetMaxIdleTimeout returns max idle timeout as time.Duration
func (k KeyDBConfig) GetMaxIdleTimeout() time.Duration {
	return time.Duration(k.Keepalive.MaxIdleTimeout) * time.Millisecond
}

// GetReadTimeout returns the HTTP read timeout
func (s ServerConfig) GetReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Millisecond
}

// GetWriteTimeout returns the HTTP write timeout
func (s ServerConfig) GetWriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Millisecond
}
