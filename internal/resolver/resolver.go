package resolver

import (
	"net/url"
	"strings"
)

// Resolver maps backend-relative media paths to absolute URLs and back.
// The backend serves keyframe images under its own origin, while search
// responses carry origin-relative paths; both representations identify the
// same item.
type Resolver struct {
	origin string
}

// New creates a resolver for a backend origin such as "http://127.0.0.1:5000".
func New(origin string) Resolver {
	return Resolver{origin: strings.TrimRight(origin, "/")}
}

// Origin returns the configured backend origin without a trailing slash.
func (r Resolver) Origin() string { return r.origin }

// Absolute turns a relative media path into a fetchable URL. Empty input
// stays empty and inputs that already carry a scheme pass through unchanged.
func (r Resolver) Absolute(p string) string {
	if p == "" {
		return ""
	}
	if hasScheme(p) {
		return p
	}
	return r.origin + p
}

// Relative parses a URL and returns its path component. Scheme-less inputs
// are resolved against the origin, so "foo" becomes "/foo" while rooted
// paths pass through. Unparsable inputs come back unchanged. Inverse of
// Absolute for every path Absolute produced.
func (r Resolver) Relative(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	if parsed.Scheme == "" {
		base, err := url.Parse(r.origin)
		if err != nil {
			return u
		}
		return base.ResolveReference(parsed).Path
	}
	return parsed.Path
}

func hasScheme(p string) bool {
	u, err := url.Parse(p)
	return err == nil && u.Scheme != ""
}
