package utils

import (
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"
)

// DefaultRequest is served for the site root
const DefaultRequest = "index"

// RequestNameFromPath maps a URL path to a logical request name.
// "/" and "" map to DefaultRequest; "/blog/post/" maps to "blog/post".
func RequestNameFromPath(urlPath string) string {
	name := strings.Trim(path.Clean("/"+urlPath), "/")
	if name == "" {
		return DefaultRequest
	}
	return name
}

// NormalizeURI canonicalizes a request URI so equivalent requests compare equal:
// the path is cleaned, query parameters are sorted by key and value, and the
// fragment is dropped.
func NormalizeURI(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("failed to parse request URI: %w", err)
	}

	cleanPath := path.Clean("/" + u.Path)

	query := u.Query()
	for _, values := range query {
		sort.Strings(values)
	}

	normalized := url.URL{Path: cleanPath, RawQuery: query.Encode()}
	return normalized.RequestURI(), nil
}
