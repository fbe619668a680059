package crawler

import (
	"context"
	"io"
	"net/http"
)

// DefaultMaxBodySize limits how much of a page body is read for link extraction.
const DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

// Response is the part of an HTTP response the crawler cares about.
type Response struct {
	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the value of the Content-Type header.
	ContentType string

	// Body is the response body, capped at the fetcher's body limit.
	// Nil when the body was not requested.
	Body []byte
}

// Fetcher performs a single GET request.
//
// A returned error means the request never produced a status (transport
// failure). Any status, including 4xx/5xx and 3xx, is returned as a Response.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, readBody bool) (*Response, error)
}

// HTTPFetcher implements Fetcher on top of an *http.Client.
//
// Design decision: We require an external client because:
//  1. Proxy and header configuration is handled by the httpclient package
//  2. Redirect policy belongs to the client, not the crawler
//  3. Allows for different configurations in tests
type HTTPFetcher struct {
	client      *http.Client
	maxBodySize int64
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithMaxBodySize sets the maximum response body size to read.
// Values <= 0 are ignored.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewHTTPFetcher creates a Fetcher backed by client.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      client,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs a GET request for rawURL.
//
// When readBody is true, up to maxBodySize bytes of the body are returned.
// A body read failure after the status line arrived is not a transport
// failure: the status is still reported, with whatever was read.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, readBody bool) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	result := &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}

	if readBody {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize)) //nolint:errcheck // partial body is still usable
		result.Body = body
	}

	return result, nil
}
