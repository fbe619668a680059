package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// Resolve joins a raw link against base and returns the canonical absolute URL.
//
// base is the page the link was found on (always inside the crawl domain),
// so absolute-path links resolve against scheme://domain and relative links
// resolve the way a browser would. Any failure is returned as a
// *MalformedError carrying raw verbatim, so it can be shown to the user
// unmodified.
func Resolve(base *url.URL, raw string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, &MalformedError{Raw: raw, Err: err}
	}

	resolved := base.ResolveReference(ref)

	switch strings.ToLower(resolved.Scheme) {
	case "http", "https":
	default:
		return nil, &MalformedError{
			Raw: raw,
			Err: fmt.Errorf("%w: %q", ErrUnsupportedScheme, resolved.Scheme),
		}
	}

	if resolved.Hostname() == "" {
		return nil, &MalformedError{Raw: raw, Err: ErrMissingHost}
	}

	return Canonicalize(resolved), nil
}

// Canonicalize returns a copy of u normalized for deduplication.
//
// Design decision: We normalize URLs because:
//  1. Same page can have different URL representations
//  2. Fragment (#anchor) doesn't change content
//  3. Empty path and "/" address the same resource
func Canonicalize(u *url.URL) *url.URL {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)
	c.Fragment = ""
	c.RawFragment = ""
	if c.Path == "" {
		c.Path = "/"
		c.RawPath = ""
	}
	return &c
}

// ParseSeed validates the seed URL and returns it in canonical form.
//
// A seed without a scheme, such as "example.com" or "localhost:8080/docs",
// is treated as http, mirroring how users type addresses. The returned
// errors wrap ErrInvalidSeed, ErrNoDomain or ErrNoPath.
func ParseSeed(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidSeed)
	}
	if lacksScheme(raw) {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSeed, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("%w: %w %q", ErrInvalidSeed, ErrUnsupportedScheme, u.Scheme)
	}

	if u.Opaque != "" {
		return nil, fmt.Errorf("%w: %s", ErrNoPath, raw)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoDomain, raw)
	}

	return Canonicalize(u), nil
}

// lacksScheme reports whether raw is a bare host[:port][/path].
// A colon followed by a digit is a port, not a scheme separator, so
// "localhost:8080" lacks a scheme while "mailto:user@example.com" does not.
func lacksScheme(raw string) bool {
	if strings.Contains(raw, "://") {
		return false
	}
	if strings.HasPrefix(raw, "[") {
		return true
	}
	_, rest, found := strings.Cut(raw, ":")
	if !found {
		return true
	}
	return rest != "" && rest[0] >= '0' && rest[0] <= '9'
}

// sameDomain reports whether u belongs to the crawl domain.
// The domain is compared as host[:port], case-insensitively.
func sameDomain(u *url.URL, domain string) bool {
	return strings.EqualFold(u.Host, domain)
}
