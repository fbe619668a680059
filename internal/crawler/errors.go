package crawler

import (
	"errors"
	"fmt"
)

// Seed validation errors.
// These are the only errors that stop a crawl before it starts; every
// per-URL failure is reported as a model.Outcome instead.
var (
	// ErrInvalidSeed is returned when the seed URL cannot be parsed or uses
	// a scheme other than http or https.
	ErrInvalidSeed = errors.New("invalid seed URL")

	// ErrNoDomain is returned when the seed URL has no host component.
	ErrNoDomain = errors.New("cannot find a domain in the seed URL")

	// ErrNoPath is returned when the seed URL is opaque (e.g. "http:example.com")
	// and therefore has no hierarchical path to crawl from.
	ErrNoPath = errors.New("cannot find a path in the seed URL")
)

// Link resolution errors, wrapped by MalformedError.
var (
	// ErrUnsupportedScheme is returned when a link resolves to a scheme the
	// crawler cannot fetch.
	ErrUnsupportedScheme = errors.New("unsupported scheme")

	// ErrMissingHost is returned when a link resolves to a URL without a host.
	ErrMissingHost = errors.New("missing host")
)

// MalformedError reports link text that could not be resolved to an
// absolute http(s) URL. Raw holds the text exactly as it was found.
type MalformedError struct {
	// Raw is the original, unmodified link text.
	Raw string

	// Err is the underlying parse or validation error.
	Err error
}

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed link %q: %v", e.Raw, e.Err)
}

// Unwrap returns the underlying error.
func (e *MalformedError) Unwrap() error {
	return e.Err
}
