package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetKeyDBURL(t *testing.T) {
	logger := zap.NewNop()

	t.Run("environment variable wins", func(t *testing.T) {
		t.Setenv("KEYDB_URL", "redis://env:6379")
		assert.Equal(t, "redis://env:6379", GetKeyDBURL(logger))
	})

	t.Run("connection file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keydb-url")
		require.NoError(t, os.WriteFile(path, []byte("  redis://file:6380\n"), 0600))
		t.Setenv("KEYDB_URL", "")
		t.Setenv("CACHE_KEYDB_URL_FILE", path)
		assert.Equal(t, "redis://file:6380", GetKeyDBURL(logger))
	})

	t.Run("default", func(t *testing.T) {
		t.Setenv("KEYDB_URL", "")
		t.Setenv("CACHE_KEYDB_URL_FILE", filepath.Join(t.TempDir(), "missing"))
		assert.Equal(t, "redis://keydb:6379", GetKeyDBURL(logger))
	})
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("PAGE_CACHE_TEST_VALUE", "set")
	assert.Equal(t, "set", envOrDefault("PAGE_CACHE_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", envOrDefault("PAGE_CACHE_TEST_UNSET", "fallback"))
}
