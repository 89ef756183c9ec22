package cache

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/models"
	"go-page-cache/internal/utils"
)

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates the cache key for a request: the storage hash is the MD5 of
// the normalized URI, so /view?b=2&a=1 and /view?a=1&b=2 share one entry.
func (kb *KeyBuilderImpl) Build(request, rawURI string) (models.RequestKey, error) {
	if strings.TrimSpace(request) == "" {
		return models.RequestKey{}, errors.New("request name cannot be empty")
	}

	uri, err := utils.NormalizeURI(rawURI)
	if err != nil {
		return models.RequestKey{}, fmt.Errorf("failed to build cache key: %w", err)
	}

	sum := md5.Sum([]byte(uri))

	return models.RequestKey{
		Request: request,
		URI:     uri,
		Hash:    hex.EncodeToString(sum[:]),
	}, nil
}
