package cache_rules

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadCacheRulesConfig loads cache rules from a YAML file and returns the policy
func LoadCacheRulesConfig(rulesPath string, logger *zap.Logger) (*Policy, error) {
	logger.Info("Loading cache rules config", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache rules file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var config CacheRulesConfig
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML cache rules: %w", err)
	}

	policy, err := NewPolicy(&config, logger)
	if err != nil {
		return nil, fmt.Errorf("cache rules validation failed: %w", err)
	}

	logger.Info("Cache rules config loaded successfully",
		zap.Bool("enabled", policy.Enabled()),
		zap.Duration("default_ttl", policy.DefaultTTL()),
		zap.Int("requests", len(config.Requests)))

	return policy, nil
}

// validateConfig validates the cache rules configuration structure
func validateConfig(config *CacheRulesConfig) error {
	if config.DefaultTTL != nil && *config.DefaultTTL < 0 {
		return fmt.Errorf("default_ttl must not be negative, got %d", *config.DefaultTTL)
	}

	for request := range config.Requests {
		if strings.TrimSpace(request) == "" {
			return fmt.Errorf("empty request name in requests section")
		}
	}

	return nil
}
