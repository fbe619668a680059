// Package config provides configuration structures and utilities for linkcrawl.
// It defines the options that control a crawl (worker count, per-URL
// timeout, proxy and request headers), per-site overrides loaded from a
// YAML file, and report output preferences.
package config
