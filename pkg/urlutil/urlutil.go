package urlutil

import (
	"net/url"
	"strings"
)

// CanonicalizeEndpoint applies a deterministic normalization to an API
// base URL so equivalent spellings configure the same endpoint.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//   - Trailing slashes are removed from the path, root becomes empty
//   - Fragments are removed
//   - Query parameters are kept (some gateways route on them)
//
// Properties:
//   - Pure and deterministic
//   - Idempotent: CanonicalizeEndpoint(CanonicalizeEndpoint(u)) == CanonicalizeEndpoint(u)
func CanonicalizeEndpoint(endpoint url.URL) url.URL {
	canonical := endpoint

	canonical.Scheme = strings.ToLower(canonical.Scheme)
	canonical.Host = strings.ToLower(canonical.Host)

	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	canonical.Path = strings.TrimRight(canonical.Path, "/")
	canonical.RawPath = ""

	canonical.Fragment = ""
	canonical.RawFragment = ""

	return canonical
}

// ParseEndpoint parses raw as an absolute http(s) URL and canonicalizes it.
// ok is false for relative URLs, other schemes and missing hosts.
func ParseEndpoint(raw string) (url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return url.URL{}, false
	}
	canonical := CanonicalizeEndpoint(*u)
	if canonical.Scheme != "http" && canonical.Scheme != "https" {
		return url.URL{}, false
	}
	return canonical, true
}
