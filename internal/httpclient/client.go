package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultUserAgent is sent when no User-Agent is configured.
const DefaultUserAgent = "linkcrawl (+https://github.com/nao1215/linkcrawl)"

// checkProxyTimeout bounds the SOCKS5 handshake performed by CheckProxy.
const checkProxyTimeout = 2 * time.Second

// Options configures the HTTP client.
type Options struct {
	// SocksProxy is an optional SOCKS5 proxy address in "host:port" format.
	// Empty means direct connections.
	SocksProxy string

	// UserAgent is the User-Agent header sent with every request.
	// Empty means DefaultUserAgent.
	UserAgent string

	// Cookie is a raw cookie string sent with every request,
	// e.g. "session_id=abc123".
	Cookie string

	// Headers are extra headers sent with every request.
	Headers map[string]string

	// MaxIdleConnsPerHost caps idle keep-alive connections per host.
	// Zero means the size of a default worker pool.
	MaxIdleConnsPerHost int
}

// New creates an HTTP client for link checking.
//
// Design decisions:
//   - Redirects are never followed; the 3xx response is returned to the caller
//   - Cookies are kept in a jar so that session cookies set by the crawled
//     site are sent back on later requests
//   - The client has no overall timeout; the checker races each request
//     against its own deadline
func New(opts Options) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if transport.MaxIdleConnsPerHost <= 0 {
		transport.MaxIdleConnsPerHost = 10
	}

	if opts.SocksProxy != "" {
		if !isValidProxyAddress(opts.SocksProxy) {
			return nil, ErrInvalidProxyAddress
		}

		// nil auth: credentials in the proxy address are not supported
		dialer, err := proxy.SOCKS5("tcp", opts.SocksProxy, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}

		transport.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &http.Client{
		Transport: &headerInjectingTransport{
			base:      transport,
			userAgent: userAgent,
			cookie:    opts.Cookie,
			headers:   opts.Headers,
		},
		Jar: jar,
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

// isValidProxyAddress checks if the address is in valid "host:port" format.
// IPv6 hosts must be bracketed, as in "[::1]:1080".
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return portNum >= 1 && portNum <= 65535
}

// SOCKS5 protocol constants
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthNoAccept = 0xFF
)

// CheckProxy verifies that a SOCKS5 proxy is listening at address and
// accepts connections without authentication.
//
// Only the method negotiation is performed; no CONNECT request is sent, so
// the check never reaches the crawled site.
func CheckProxy(ctx context.Context, address string) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	// Client sends: version + number of methods + methods
	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	// Server responds: version + selected method
	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}

	if resp[0] != socks5Version {
		return ProxyStatusWrongType
	}
	if resp[1] == socks5AuthNoAccept {
		// Proxy requires authentication
		return ProxyStatusWrongType
	}
	if resp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}

	return ProxyStatusOK
}

// headerInjectingTransport wraps an http.RoundTripper to inject
// the User-Agent, a cookie and custom headers into every request.
type headerInjectingTransport struct {
	base      http.RoundTripper
	userAgent string
	cookie    string
	headers   map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clone := req.Clone(req.Context())

	if t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}

	// Append to existing Cookie header or set new one
	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	// Custom headers win over the User-Agent option
	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
