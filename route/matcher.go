package route

import (
	"strings"

	"github.com/gobwas/glob"
	"github.com/jmgilman/go/errors"
)

// Matcher decides whether a normalized path belongs to a route pattern.
type Matcher interface {
	Match(path string) bool
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(path string) bool

func (f MatcherFunc) Match(path string) bool { return f(path) }

/*
Compile builds the matcher for a route pattern.

Two pattern dialects are supported:
  - router patterns: literal segments, ":name" parameter segments and a final "*" splat,
    e.g. "/counter/:id" or "/files/*"
  - glob patterns: any other use of *, ?, [ ] or { }, compiled with '/' as separator,
    e.g. "/docs/**" or "/reports/*.pdf"

Patterns are lower-cased before compiling because paths are matched in normalized form.
*/
func Compile(pattern string) (Matcher, error) {
	p := Normalize(pattern)
	if p == "" {
		return nil, errors.New(errors.CodeInvalidConfig, "route pattern cannot be empty")
	}

	if isGlob(p) {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.WithContext(
				errors.Wrap(err, errors.CodeInvalidConfig, "invalid glob route pattern"),
				"pattern", pattern,
			)
		}
		return g, nil
	}
	return newSegmentMatcher(p), nil
}

// isGlob reports whether p uses glob syntax beyond a trailing router splat.
func isGlob(p string) bool {
	body := strings.TrimSuffix(p, "/*")
	if body == "*" {
		return false
	}
	return strings.ContainsAny(body, "*?[]{}")
}

type segmentMatcher struct {
	segments []string
	splat    bool
}

func newSegmentMatcher(p string) *segmentMatcher {
	m := &segmentMatcher{}
	segs := splitPath(p)
	if n := len(segs); n > 0 && segs[n-1] == "*" {
		m.splat = true
		segs = segs[:n-1]
	}
	m.segments = segs
	return m
}

func (m *segmentMatcher) Match(path string) bool {
	segs := splitPath(path)
	if m.splat {
		if len(segs) < len(m.segments) {
			return false
		}
	} else if len(segs) != len(m.segments) {
		return false
	}

	for i, want := range m.segments {
		got := segs[i]
		if strings.HasPrefix(want, ":") {
			// Parameters bind exactly one non-empty segment.
			if got == "" {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

// splitPath splits on "/" ignoring leading and trailing slashes, so "/", "" and
// "//" all produce no segments.
func splitPath(p string) []string {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
