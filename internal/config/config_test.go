package config

import (
	"os"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func createTestConfigFile(t *testing.T, content string) string {
	tmpFile, err := os.CreateTemp("", "cache_config_*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write to temp file: %v", err)
	}

	if err := tmpFile.Close(); err != nil {
		t.Fatalf("Failed to close temp file: %v", err)
	}

	return tmpFile.Name()
}

func TestLoadConfig(t *testing.T) {
	logger := zaptest.NewLogger(t)

	validConfig := `
log_level: debug
coalesce_regeneration: true

storage:
  backend: multi
  file:
    dir: /var/cache/pages
    dir_mode: "0750"
    file_mode: "0640"
  bigcache:
    size: 200
  keydb:
    connection:
      connect_timeout: 2000
      send_timeout: 2000
      read_timeout: 2000
    keepalive:
      pool_size: 20
      max_idle_timeout: 20000
  multi:
    tiers: [bigcache, file]
    enable_propagation: true

pages:
  templates_dir: /srv/templates
  data_dir: /srv/data

server:
  addr: ":9090"
`

	configFile := createTestConfigFile(t, validConfig)
	defer os.Remove(configFile)

	config, err := LoadConfig(configFile, logger)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.LogLevel != "debug" {
		t.Errorf("LoadConfig() LogLevel = %v, want debug", config.LogLevel)
	}
	if !config.CoalesceRegeneration {
		t.Errorf("LoadConfig() CoalesceRegeneration = false, want true")
	}
	if config.Storage.Backend != BackendMulti {
		t.Errorf("LoadConfig() Storage.Backend = %v, want multi", config.Storage.Backend)
	}
	if config.Storage.File.DirPerm() != 0750 {
		t.Errorf("LoadConfig() DirPerm = %o, want 750", config.Storage.File.DirPerm())
	}
	if config.Storage.File.FilePerm() != 0640 {
		t.Errorf("LoadConfig() FilePerm = %o, want 640", config.Storage.File.FilePerm())
	}
	if config.Storage.BigCache.Size != 200 {
		t.Errorf("LoadConfig() BigCache.Size = %v, want 200", config.Storage.BigCache.Size)
	}
	if config.Storage.KeyDB.Keepalive.PoolSize != 20 {
		t.Errorf("LoadConfig() KeyDB.Keepalive.PoolSize = %v, want 20", config.Storage.KeyDB.Keepalive.PoolSize)
	}
	if len(config.Storage.Multi.Tiers) != 2 || !config.Storage.Multi.EnablePropagation {
		t.Errorf("LoadConfig() Multi = %+v, want two tiers with propagation", config.Storage.Multi)
	}
	if len(config.Artifacts) != 2 || config.Artifacts[1].Dir != "/srv/templates" {
		t.Errorf("LoadConfig() Artifacts = %+v, want defaults derived from pages dirs", config.Artifacts)
	}
	if config.Server.Addr != ":9090" {
		t.Errorf("LoadConfig() Server.Addr = %v, want :9090", config.Server.Addr)
	}
}

func TestLoadConfig_WithDefaults(t *testing.T) {
	logger := zaptest.NewLogger(t)

	configFile := createTestConfigFile(t, "log_level: info\n")
	defer os.Remove(configFile)

	config, err := LoadConfig(configFile, logger)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Storage.Backend != BackendFile {
		t.Errorf("LoadConfig() Storage.Backend = %v, want file (default)", config.Storage.Backend)
	}
	if config.Storage.File.Dir != "./cache" {
		t.Errorf("LoadConfig() File.Dir = %v, want ./cache (default)", config.Storage.File.Dir)
	}
	if config.Storage.File.DirPerm() != 0777 {
		t.Errorf("LoadConfig() DirPerm = %o, want 777 (default)", config.Storage.File.DirPerm())
	}
	if config.Storage.KeyDB.Connection.ConnectTimeout != 1000 {
		t.Errorf("LoadConfig() KeyDB.Connection.ConnectTimeout = %v, want 1000 (default)", config.Storage.KeyDB.Connection.ConnectTimeout)
	}
	if config.Storage.KeyDB.KeyPrefix != "page:" {
		t.Errorf("LoadConfig() KeyDB.KeyPrefix = %v, want page: (default)", config.Storage.KeyDB.KeyPrefix)
	}
	if config.Server.Addr != ":8080" {
		t.Errorf("LoadConfig() Server.Addr = %v, want :8080 (default)", config.Server.Addr)
	}
	if len(config.Artifacts) != 2 {
		t.Fatalf("LoadConfig() Artifacts = %+v, want 2 defaults", config.Artifacts)
	}
	if config.Artifacts[0].Dir != "./data" || config.Artifacts[0].Ext != ".yaml" {
		t.Errorf("LoadConfig() Artifacts[0] = %+v, want ./data *.yaml", config.Artifacts[0])
	}
}

func TestLoadConfig_SQLiteDefaultDSN(t *testing.T) {
	logger := zaptest.NewLogger(t)

	configFile := createTestConfigFile(t, `
storage:
  backend: multi
  multi:
    tiers: [bigcache, sqlite]
`)
	defer os.Remove(configFile)

	config, err := LoadConfig(configFile, logger)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.Storage.SQL.DSN != "page-cache.db" {
		t.Errorf("LoadConfig() SQL.DSN = %v, want page-cache.db (default)", config.Storage.SQL.DSN)
	}
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	logger := zaptest.NewLogger(t)

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "unknown backend",
			content: "storage:\n  backend: memcached\n",
		},
		{
			name:    "postgres without dsn",
			content: "storage:\n  backend: postgres\n",
		},
		{
			name:    "multi without tiers",
			content: "storage:\n  backend: multi\n",
		},
		{
			name:    "multi with duplicate tiers",
			content: "storage:\n  backend: multi\n  multi:\n    tiers: [file, file]\n",
		},
		{
			name:    "multi with unknown tier",
			content: "storage:\n  backend: multi\n  multi:\n    tiers: [multi]\n",
		},
		{
			name:    "invalid dir mode",
			content: "storage:\n  file:\n    dir_mode: \"0999\"\n",
		},
		{
			name:    "invalid log level",
			content: "log_level: verbose\n",
		},
		{
			name:    "bigcache smaller than two max entries",
			content: "storage:\n  backend: bigcache\n  bigcache:\n    size: 1\n    max_entry_size: 1048576\n",
		},
		{
			name:    "negative bigcache size",
			content: "storage:\n  bigcache:\n    size: -1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := createTestConfigFile(t, tt.content)
			defer os.Remove(configFile)

			if _, err := LoadConfig(configFile, logger); err == nil {
				t.Fatal("LoadConfig() should return error")
			}
		})
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := LoadConfig("/nonexistent/file.yaml", logger)
	if err == nil {
		t.Fatal("LoadConfig() should return error for nonexistent file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	logger := zaptest.NewLogger(t)

	invalidConfig := `
storage:
  backend: file
  invalid yaml syntax [
`

	configFile := createTestConfigFile(t, invalidConfig)
	defer os.Remove(configFile)

	_, err := LoadConfig(configFile, logger)
	if err == nil {
		t.Fatal("LoadConfig() should return error for invalid YAML")
	}
}

func TestConfig_TimeoutMethods(t *testing.T) {
	keydb := KeyDBConfig{
		Connection: ConnectionConfig{
			ConnectTimeout: 1500,
			SendTimeout:    2500,
			ReadTimeout:    3500,
		},
		Keepalive: KeepaliveConfig{
			MaxIdleTimeout: 15000,
		},
	}
	server := ServerConfig{ReadTimeout: 4500, WriteTimeout: 5500}

	tests := []struct {
		name     string
		method   func() time.Duration
		expected time.Duration
	}{
		{
			name:     "GetConnectTimeout",
			method:   keydb.GetConnectTimeout,
			expected: 1500 * time.Millisecond,
		},
		{
			name:     "GetSendTimeout",
			method:   keydb.GetSendTimeout,
			expected: 2500 * time.Millisecond,
		},
		{
			name:     "GetReadTimeout",
			method:   keydb.GetReadTimeout,
			expected: 3500 * time.Millisecond,
		},
		{
			name:     "GetMaxIdleTimeout",
			method:   keydb.GetMaxIdleTimeout,
			expected: 15000 * time.Millisecond,
		},
		{
			name:     "Server.GetReadTimeout",
			method:   server.GetReadTimeout,
			expected: 4500 * time.Millisecond,
		},
		{
			name:     "Server.GetWriteTimeout",
			method:   server.GetWriteTimeout,
			expected: 5500 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.method()
			if result != tt.expected {
				t.Errorf("%s() = %v, want %v", tt.name, result, tt.expected)
			}
		})
	}
}

func TestConfig_UsesBackend(t *testing.T) {
	single := &Config{Storage: StorageConfig{Backend: BackendKeyDB}}
	if !single.UsesBackend(BackendKeyDB) || single.UsesBackend(BackendFile) {
		t.Errorf("UsesBackend() wrong for single backend")
	}

	tiered := &Config{Storage: StorageConfig{
		Backend: BackendMulti,
		Multi:   MultiConfig{Tiers: []string{BackendBigCache, BackendKeyDB}},
	}}
	if !tiered.UsesBackend(BackendKeyDB) || tiered.UsesBackend(BackendSQLite) {
		t.Errorf("UsesBackend() wrong for tiered backend")
	}
}
