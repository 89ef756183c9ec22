package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"go-page-cache/internal/config"
	"go-page-cache/internal/interfaces"
	"go-page-cache/internal/models"
)

// Ensure Resolver implements interfaces.ArtifactResolver
var _ interfaces.ArtifactResolver = (*Resolver)(nil)

// Resolver maps a request name to the files that produce its page,
// one candidate per configured source directory
type Resolver struct {
	sources []config.ArtifactSource
	logger  *zap.Logger
}

// NewResolver creates a resolver over the given sources
func NewResolver(sources []config.ArtifactSource, logger *zap.Logger) interfaces.ArtifactResolver {
	copied := make([]config.ArtifactSource, len(sources))
	copy(copied, sources)
	return &Resolver{
		sources: copied,
		logger:  logger,
	}
}

// Resolve stats every candidate artifact for the request.
// Files that do not exist are skipped; any other failure yields an artifact carrying Err.
func (r *Resolver) Resolve(request string) []models.Artifact {
	artifacts := make([]models.Artifact, 0, len(r.sources))
	for _, source := range r.sources {
		path, err := candidatePath(source, request)
		if err != nil {
			r.logger.Warn("Rejected artifact path",
				zap.String("request", request),
				zap.String("dir", source.Dir),
				zap.Error(err))
			artifacts = append(artifacts, models.Artifact{Path: path, Err: err})
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			r.logger.Warn("Failed to stat artifact", zap.String("path", path), zap.Error(err))
			artifacts = append(artifacts, models.Artifact{Path: path, Err: err})
			continue
		}

		artifacts = append(artifacts, models.Artifact{Path: path, ModTime: info.ModTime()})
	}
	return artifacts
}

func candidatePath(source config.ArtifactSource, request string) (string, error) {
	if request == "" {
		return "", fmt.Errorf("empty request name")
	}
	if filepath.IsAbs(request) || strings.HasPrefix(request, "/") {
		return request, fmt.Errorf("request name %q is absolute", request)
	}

	path := filepath.Join(source.Dir, request+source.Ext)
	rel, err := filepath.Rel(source.Dir, path)
	if err != nil {
		return path, err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path, fmt.Errorf("request name %q escapes %s", request, source.Dir)
	}
	return path, nil
}
