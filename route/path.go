package route

import (
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/krisalay/keepalive-tabs/types"
)

// Normalize returns the canonical form of a path: lower-cased.
func Normalize(p string) string {
	return strings.ToLower(p)
}

// ParseLocation splits a raw "path?query" string into a Location. Fragments are dropped.
func ParseLocation(raw string) types.Location {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return types.Location{Path: raw[:i], Search: raw[i:]}
	}
	return types.Location{Path: raw}
}

// CacheKey derives the identity of a cached entry. With reuse the query string is
// ignored, so "/list?page=2" and "/list?page=3" share one tab.
func CacheKey(loc types.Location, reuse bool) string {
	if reuse {
		return Normalize(loc.Path)
	}
	return Normalize(loc.Path + loc.Search)
}

// TabKey encodes a path into an identifier safe for DOM ids and selectors.
func TabKey(path string) string {
	raw := url.QueryEscape(path)
	return "t_" + base64.RawURLEncoding.EncodeToString([]byte(raw))
}
