package interfaces

import "go-page-cache/internal/models"

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes requests into deterministic cache keys
type KeyBuilder interface {
	// Build normalizes rawURI and derives the storage key for the request name
	Build(request, rawURI string) (models.RequestKey, error)
}

// ArtifactResolver finds the source files a request is rendered from
type ArtifactResolver interface {
	Resolve(request string) []models.Artifact
}
