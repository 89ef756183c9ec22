package models

import "time"

// RequestKey identifies a page request for policy lookups and storage
type RequestKey struct {
	Request string `json:"request"` // logical request name, e.g. "index"
	URI     string `json:"uri"`     // normalized request URI
	Hash    string `json:"hash"`    // storage key derived from URI
}

// Artifact is the modification time of a source file a page is built from.
// Err is set when the time could not be determined.
type Artifact struct {
	Path    string
	ModTime time.Time
	Err     error
}

// Malformed reports whether the artifact timestamp cannot be trusted
func (a Artifact) Malformed() bool {
	return a.Err != nil || a.ModTime.IsZero()
}
