// Package httpclient builds the *http.Client used by the link checker.
//
// The client never follows redirects: a 3xx answer is reported to the caller
// as-is so that the crawler can classify it. Requests can optionally be
// routed through a SOCKS5 proxy, and every request carries the configured
// User-Agent and extra headers.
package httpclient
