package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultWorkers is the size of the worker pool.
	// Ten parallel requests keep a typical site busy without hammering it.
	DefaultWorkers = 10

	// DefaultTimeout is the deadline for checking a single URL.
	// A URL that has not answered after 10 seconds is reported as timed out.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize limits the response body read from a same-domain page.
	// 5MB is sufficient for most HTML pages while preventing memory exhaustion
	// from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "linkcrawl"
)

// Config holds all configuration options for linkcrawl.
// It is populated from CLI flags and the configuration file, then passed
// to the crawl command rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs.
// The number of options is small and nesting would add complexity without
// significant benefit.
type Config struct {
	// Seed is the URL the crawl starts from. Its host:port is the crawl domain.
	Seed string

	// Workers is the number of URLs checked in parallel.
	Workers int

	// Timeout is the deadline for checking a single URL.
	// A URL that does not answer in time is reported as timed out.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated before link extraction.
	// Set to 0 to use the default (5MB).
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with HTTP requests.
	// Empty means the HTTP client's default.
	UserAgent string

	// SocksProxy is an optional SOCKS5 proxy address in "host:port" format.
	SocksProxy string

	// Verbose enables detailed log output using slog.LevelDebug and prints
	// accessible URLs as well as broken ones.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the config file.
	// Nil when no configuration file was found.
	SiteConfigs *File

	// JSONReport writes a JSON summary after the crawl.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes a GitHub Flavored Markdown summary after the crawl.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the summary.
	// When set, the summary is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero.
func NewConfig() *Config {
	return &Config{
		Workers:     DefaultWorkers,
		Timeout:     DefaultTimeout,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for linkcrawl.
// On Linux: ~/.config/linkcrawl
// On macOS: ~/Library/Application Support/linkcrawl
// On Windows: %APPDATA%\linkcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Site returns the merged site configuration for host.
// It returns the zero SiteConfig when no configuration file was loaded.
func (c *Config) Site(host string) SiteConfig {
	if c.SiteConfigs == nil {
		return SiteConfig{}
	}
	return c.SiteConfigs.GetSiteConfig(host)
}

// Validate checks if the configuration is valid.
// It returns the first problem found; fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if c.Seed == "" {
		return ErrNoSeed
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
