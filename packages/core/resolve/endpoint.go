package resolve

import (
	"strings"
)

// ParseEndpoint decomposes an endpoint string into scheme, authority
// and the embedded default path.
//
// An explicit scheme prefix wins (lower-cased) and the remainder is
// the authority; otherwise defaultScheme applies and the whole string,
// stripped of leading separators, is the authority. Any path, query
// and fragment embedded after the authority come back as one path
// string ("/" when nothing is embedded); query and fragment are kept
// concatenated onto it, never modeled separately.
func ParseEndpoint(endpoint, defaultScheme string) (scheme, authority, path string) {
	rest := endpoint
	if i := strings.Index(endpoint, "://"); i >= 0 {
		scheme = strings.ToLower(endpoint[:i])
		rest = endpoint[i+len("://"):]
	} else {
		scheme = defaultScheme
		rest = strings.TrimLeft(endpoint, ":/")
	}

	idx := strings.IndexAny(rest, "/?#")
	if idx < 0 {
		return scheme, rest, "/"
	}
	authority = rest[:idx]
	path = rest[idx:]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return scheme, authority, path
}
