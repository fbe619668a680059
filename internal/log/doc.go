// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// # Security Features
//
// The SecureHandler sanitizes sensitive information in log output:
//   - HTTP headers (Authorization, Cookie, Set-Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (bearer tokens, JWTs, keys)
//   - Passwords embedded in URLs and credential-like query parameters
//
// Crawl logs are full of URLs, and the configured headers and cookies are
// often credentials for the crawled site. Even in verbose mode those values
// are masked so that logs can be shared.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Debug("checked url",
//	    "url", "http://user:pw@example.com/?token=abc", // password and token masked
//	    "status", 200,
//	)
//	slog.SetDefault(logger)
package log
